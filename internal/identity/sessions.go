package identity

import (
	"sync"
	"time"
)

// sessionTable holds live sessions keyed by token.
// Expired entries are invisible to get and removed by the cleanup loop.
type sessionTable struct {
	mu    sync.RWMutex
	store map[string]*Session
	ttl   time.Duration
	now   func() time.Time
	stop  chan struct{}
	once  sync.Once
}

func newSessionTable(ttl time.Duration, now func() time.Time) *sessionTable {
	return &sessionTable{
		store: make(map[string]*Session),
		ttl:   ttl,
		now:   now,
		stop:  make(chan struct{}),
	}
}

func (t *sessionTable) get(token string) (*Session, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	s, ok := t.store[token]
	if !ok || !t.now().Before(s.ExpiresAt) {
		return nil, false
	}
	cp := *s
	return &cp, true
}

func (t *sessionTable) put(s *Session) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.store[s.Token] = s
}

func (t *sessionTable) remove(token string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.store[token]
	delete(t.store, token)
	return ok
}

func (t *sessionTable) len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.store)
}

// sweep removes expired sessions.
func (t *sessionTable) sweep() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	n := 0
	for token, s := range t.store {
		if !now.Before(s.ExpiresAt) {
			delete(t.store, token)
			n++
		}
	}
	return n
}

func (t *sessionTable) cleanupLoop(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			t.sweep()
		case <-t.stop:
			return
		}
	}
}

func (t *sessionTable) close() {
	t.once.Do(func() { close(t.stop) })
}
