package calculator

import (
	"context"
	"log"

	"movecalc/internal/identity"
	"movecalc/internal/store"
)

// LocalOwner owns configurations saved without a signed-in user.
const LocalOwner = "local"

// Scope is the store and owner saved configurations are read from and
// written to.
type Scope struct {
	Backend string
	Owner   string
	Store   store.Store
}

// Selector picks a Scope for the current session: no session means the
// local store, a session means the remote store owned by that user.
type Selector struct {
	Local  store.Store
	Remote store.Store
}

func (s Selector) For(sess *identity.Session) Scope {
	if sess == nil || s.Remote == nil {
		return Scope{Backend: "local", Owner: LocalOwner, Store: s.Local}
	}
	return Scope{Backend: "remote", Owner: sess.User.ID, Store: s.Remote}
}

// Bind applies the provider's current session to calc and keeps the scope in
// step with later session changes. Each switch refreshes the list. The
// returned function stops following the provider.
func Bind(ctx context.Context, calc *Calculator, p identity.Provider, sel Selector) (func(), error) {
	apply := func(sess *identity.Session) {
		calc.UseScope(sel.For(sess))
		if err := calc.Refresh(ctx); err != nil {
			log.Printf("[Calculator] refresh after session change: %v", err)
		}
	}

	unsubscribe := p.OnSessionChange(apply)

	sess, err := p.CurrentSession(ctx)
	if err != nil {
		log.Printf("[Calculator] current session: %v", err)
		sess = nil
	}
	calc.UseScope(sel.For(sess))
	if err := calc.Refresh(ctx); err != nil {
		return unsubscribe, err
	}
	return unsubscribe, nil
}
