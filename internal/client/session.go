package client

import (
	"context"
	"errors"
	"log"
	"net/http"

	"movecalc/internal/identity"
)

var _ identity.Provider = (*Client)(nil)

// UseToken adopts a token obtained elsewhere (a flag or environment
// variable). The session is checked on the next CurrentSession call.
func (c *Client) UseToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if token == "" {
		c.session = nil
		return
	}
	c.session = &identity.Session{Token: token}
}

// CurrentSession asks the server whether the held token is still valid.
// An expired or revoked token is dropped and listeners are told.
func (c *Client) CurrentSession(ctx context.Context) (*identity.Session, error) {
	if c.token() == "" {
		return nil, nil
	}
	var s identity.Session
	err := c.do(ctx, http.MethodGet, "/api/v1/auth/session", nil, &s)
	if errors.Is(err, identity.ErrNoSession) {
		c.setSession(nil)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.session = &s
	c.mu.Unlock()
	return &s, nil
}

// OnSessionChange registers fn to run after sign-in and sign-out.
func (c *Client) OnSessionChange(fn func(*identity.Session)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.listeners, id)
	}
}

func (c *Client) SignUp(ctx context.Context, email, password string) (identity.User, error) {
	var out struct {
		User identity.User `json:"user"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/signup", body, &out); err != nil {
		return identity.User{}, err
	}
	return out.User, nil
}

func (c *Client) SignIn(ctx context.Context, email, password string) (*identity.Session, error) {
	var s identity.Session
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/signin", body, &s); err != nil {
		return nil, err
	}
	c.setSession(&s)
	log.Printf("[Client] signed in as %s", s.User.Email)
	return &s, nil
}

// SignOut revokes the token on the server and forgets it locally. The local
// session is cleared even when the server call fails.
func (c *Client) SignOut(ctx context.Context) error {
	if c.token() == "" {
		return nil
	}
	err := c.do(ctx, http.MethodPost, "/api/v1/auth/signout", nil, nil)
	c.setSession(nil)
	if err != nil && !errors.Is(err, identity.ErrNoSession) {
		return err
	}
	return nil
}

func (c *Client) setSession(s *identity.Session) {
	c.mu.Lock()
	c.session = s
	fns := make([]func(*identity.Session), 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn(s)
	}
}
