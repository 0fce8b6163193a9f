package calculator

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movecalc/internal/affordability"
	"movecalc/internal/identity"
	"movecalc/internal/model"
	"movecalc/internal/store"
)

var errBackend = errors.New("backend unavailable")

// flakyStore wraps a real store and fails selected operations.
type flakyStore struct {
	store.Store
	failList, failSave, failGet, failDelete bool
}

func (f *flakyStore) List(ctx context.Context, owner string) ([]store.Summary, error) {
	if f.failList {
		return nil, errBackend
	}
	return f.Store.List(ctx, owner)
}

func (f *flakyStore) Save(ctx context.Context, owner, name string, in model.Inputs) (string, error) {
	if f.failSave {
		return "", errBackend
	}
	return f.Store.Save(ctx, owner, name, in)
}

func (f *flakyStore) Get(ctx context.Context, owner, id string) (model.Inputs, error) {
	if f.failGet {
		return model.Inputs{}, errBackend
	}
	return f.Store.Get(ctx, owner, id)
}

func (f *flakyStore) Delete(ctx context.Context, owner, id string) error {
	if f.failDelete {
		return errBackend
	}
	return f.Store.Delete(ctx, owner, id)
}

func newFileStore(t *testing.T) *store.File {
	t.Helper()
	return store.NewFile(filepath.Join(t.TempDir(), "configs.json"))
}

func newScoped(t *testing.T) (*Calculator, *store.File) {
	t.Helper()
	fs := newFileStore(t)
	c := New(model.DefaultInputs())
	c.UseScope(Scope{Backend: "local", Owner: LocalOwner, Store: fs})
	return c, fs
}

func TestNew_ComputesDefaults(t *testing.T) {
	c := New(model.DefaultInputs())
	assert.Equal(t, model.DefaultInputs(), c.Inputs())
	assert.Equal(t, affordability.Recalculate(model.DefaultInputs()), c.Results())
}

func TestSet_Recomputes(t *testing.T) {
	c := New(model.DefaultInputs())

	require.NoError(t, c.Set("property_price", "300000"))
	assert.Equal(t, 300000.0, c.Inputs().PropertyPrice)
	assert.Equal(t, affordability.Recalculate(c.Inputs()), c.Results())

	require.NoError(t, c.Set("agency_fee", "abc"))
	assert.Equal(t, 0.0, c.Inputs().AgencyFee)

	err := c.Set("colour", "blue")
	assert.ErrorIs(t, err, model.ErrUnknownField)
}

func TestSubscribe_LatestOnly(t *testing.T) {
	c := New(model.DefaultInputs())
	ch, cancel := c.Subscribe()
	defer cancel()

	require.NoError(t, c.Set("property_price", "100000"))
	require.NoError(t, c.Set("property_price", "200000"))
	require.NoError(t, c.Set("property_price", "300000"))

	snap := <-ch
	assert.Equal(t, 300000.0, snap.Inputs.PropertyPrice)
	assert.Equal(t, affordability.Recalculate(snap.Inputs), snap.Results)

	select {
	case extra := <-ch:
		t.Fatalf("unexpected queued snapshot: %+v", extra.Inputs)
	default:
	}
}

func TestSubscribe_CancelClosesChannel(t *testing.T) {
	c := New(model.DefaultInputs())
	ch, cancel := c.Subscribe()
	cancel()
	cancel()

	_, ok := <-ch
	assert.False(t, ok)
	require.NoError(t, c.Set("property_price", "1"))
}

func TestConcurrentEdits(t *testing.T) {
	c := New(model.DefaultInputs())
	ch, cancel := c.Subscribe()
	defer cancel()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = c.Set("removal_costs", "1000")
		}()
	}
	wg.Wait()

	snap := <-ch
	assert.Equal(t, 1000.0, snap.Inputs.RemovalCosts)
}

func TestStoreOperations_RequireScope(t *testing.T) {
	ctx := context.Background()
	c := New(model.DefaultInputs())

	assert.ErrorIs(t, c.Refresh(ctx), ErrNoScope)
	_, err := c.Save(ctx, "x")
	assert.ErrorIs(t, err, ErrNoScope)
	assert.ErrorIs(t, c.Load(ctx), ErrNoScope)
	assert.ErrorIs(t, c.Delete(ctx, true), ErrNoScope)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, _ := newScoped(t)
	require.NoError(t, c.Set("property_price", "425000"))
	require.NoError(t, c.Set("is_first_time_buyer", "true"))
	saved := c.Inputs()

	id, err := c.Save(ctx, "  Flat in Leeds  ")
	require.NoError(t, err)
	assert.Equal(t, id, c.Selected())
	require.Len(t, c.Configs(), 1)
	assert.Equal(t, "Flat in Leeds", c.Configs()[0].Name)

	c.Replace(model.DefaultInputs())
	require.NoError(t, c.Load(ctx))
	assert.Equal(t, saved, c.Inputs())
	assert.Equal(t, affordability.Recalculate(saved), c.Results())
}

func TestSave_EmptyNameChangesNothing(t *testing.T) {
	ctx := context.Background()
	c, fs := newScoped(t)

	_, err := c.Save(ctx, "   ")
	assert.ErrorIs(t, err, store.ErrEmptyName)

	list, err := fs.List(ctx, LocalOwner)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Empty(t, c.Configs())
	assert.Equal(t, model.DefaultInputs(), c.Inputs())
}

func TestSave_DuplicateNamesAllowed(t *testing.T) {
	ctx := context.Background()
	c, _ := newScoped(t)

	first, err := c.Save(ctx, "same")
	require.NoError(t, err)
	second, err := c.Save(ctx, "same")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.Len(t, c.Configs(), 2)
}

func TestLoad_MissingLeavesInputsUntouched(t *testing.T) {
	ctx := context.Background()
	c, fs := newScoped(t)

	_, err := c.Save(ctx, "gone soon")
	require.NoError(t, err)
	require.NoError(t, fs.Delete(ctx, LocalOwner, c.Selected()))

	require.NoError(t, c.Set("property_price", "123456"))
	before := c.Snapshot()

	err = c.Load(ctx)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Contains(t, err.Error(), "load failed")
	assert.Equal(t, before, c.Snapshot())
}

func TestLoad_NoSelection(t *testing.T) {
	c, _ := newScoped(t)
	assert.ErrorIs(t, c.Load(context.Background()), ErrNoSelection)
}

func TestDelete_RequiresConfirmation(t *testing.T) {
	ctx := context.Background()
	c, fs := newScoped(t)
	id, err := c.Save(ctx, "keep me")
	require.NoError(t, err)

	assert.ErrorIs(t, c.Delete(ctx, false), ErrNotConfirmed)

	_, err = fs.Get(ctx, LocalOwner, id)
	assert.NoError(t, err)
	assert.Equal(t, id, c.Selected())
}

func TestDelete_ConfirmedRemovesAndReselects(t *testing.T) {
	ctx := context.Background()
	c, _ := newScoped(t)
	older, err := c.Save(ctx, "older")
	require.NoError(t, err)
	newer, err := c.Save(ctx, "newer")
	require.NoError(t, err)
	require.Equal(t, newer, c.Selected())

	require.NoError(t, c.Delete(ctx, true))
	require.Len(t, c.Configs(), 1)
	assert.Equal(t, older, c.Selected())
}

func TestRefresh_AutoSelectsFirst(t *testing.T) {
	ctx := context.Background()
	fs := newFileStore(t)
	_, err := fs.Save(ctx, LocalOwner, "a", model.DefaultInputs())
	require.NoError(t, err)
	newest, err := fs.Save(ctx, LocalOwner, "b", model.DefaultInputs())
	require.NoError(t, err)

	c := New(model.DefaultInputs())
	c.UseScope(Scope{Backend: "local", Owner: LocalOwner, Store: fs})
	require.NoError(t, c.Refresh(ctx))
	assert.Equal(t, newest, c.Selected())

	assert.ErrorIs(t, c.Select("missing"), store.ErrNotFound)
	assert.Equal(t, newest, c.Selected())
}

func TestCollaboratorFailures_AreWrapped(t *testing.T) {
	ctx := context.Background()
	flaky := &flakyStore{Store: newFileStore(t)}
	c := New(model.DefaultInputs())
	c.UseScope(Scope{Backend: "local", Owner: LocalOwner, Store: flaky})

	_, err := c.Save(ctx, "ok")
	require.NoError(t, err)

	flaky.failSave = true
	_, err = c.Save(ctx, "nope")
	assert.ErrorIs(t, err, errBackend)
	assert.EqualError(t, err, "save failed: backend unavailable")

	flaky.failGet = true
	assert.EqualError(t, c.Load(ctx), "load failed: backend unavailable")

	flaky.failDelete = true
	assert.EqualError(t, c.Delete(ctx, true), "delete failed: backend unavailable")

	flaky.failList = true
	assert.EqualError(t, c.Refresh(ctx), "list failed: backend unavailable")

	require.NoError(t, c.Set("property_price", "500000"))
	assert.Equal(t, affordability.Recalculate(c.Inputs()), c.Results())
}

// fakeProvider is an in-memory identity.Provider.
type fakeProvider struct {
	mu        sync.Mutex
	session   *identity.Session
	listeners map[int]func(*identity.Session)
	next      int
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{listeners: make(map[int]func(*identity.Session))}
}

func (p *fakeProvider) CurrentSession(context.Context) (*identity.Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.session, nil
}

func (p *fakeProvider) OnSessionChange(fn func(*identity.Session)) func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.next
	p.next++
	p.listeners[id] = fn
	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.listeners, id)
	}
}

func (p *fakeProvider) set(s *identity.Session) {
	p.mu.Lock()
	p.session = s
	fns := make([]func(*identity.Session), 0, len(p.listeners))
	for _, fn := range p.listeners {
		fns = append(fns, fn)
	}
	p.mu.Unlock()
	for _, fn := range fns {
		fn(s)
	}
}

func (p *fakeProvider) SignUp(context.Context, string, string) (identity.User, error) {
	return identity.User{}, nil
}

func (p *fakeProvider) SignIn(_ context.Context, email, _ string) (*identity.Session, error) {
	s := &identity.Session{Token: "t", User: identity.User{ID: "user-1", Email: email}}
	p.set(s)
	return s, nil
}

func (p *fakeProvider) SignOut(context.Context) error {
	p.set(nil)
	return nil
}

func TestBind_SwitchesScopeOnSessionChange(t *testing.T) {
	ctx := context.Background()
	local := newFileStore(t)
	remote := newFileStore(t)
	_, err := local.Save(ctx, LocalOwner, "local config", model.DefaultInputs())
	require.NoError(t, err)
	_, err = remote.Save(ctx, "user-1", "remote config", model.DefaultInputs())
	require.NoError(t, err)

	p := newFakeProvider()
	c := New(model.DefaultInputs())
	stop, err := Bind(ctx, c, p, Selector{Local: local, Remote: remote})
	require.NoError(t, err)
	defer stop()

	sc, ok := c.Scope()
	require.True(t, ok)
	assert.Equal(t, "local", sc.Backend)
	require.Len(t, c.Configs(), 1)
	assert.Equal(t, "local config", c.Configs()[0].Name)

	_, err = p.SignIn(ctx, "a@example.com", "password123")
	require.NoError(t, err)
	sc, _ = c.Scope()
	assert.Equal(t, "remote", sc.Backend)
	assert.Equal(t, "user-1", sc.Owner)
	require.Len(t, c.Configs(), 1)
	assert.Equal(t, "remote config", c.Configs()[0].Name)

	require.NoError(t, p.SignOut(ctx))
	sc, _ = c.Scope()
	assert.Equal(t, LocalOwner, sc.Owner)
	assert.Equal(t, "local config", c.Configs()[0].Name)
}

func TestSelector_WithoutRemoteFallsBackToLocal(t *testing.T) {
	local := newFileStore(t)
	sel := Selector{Local: local}
	sc := sel.For(&identity.Session{User: identity.User{ID: "u"}})
	assert.Equal(t, LocalOwner, sc.Owner)
	assert.Equal(t, "local", sc.Backend)
}
