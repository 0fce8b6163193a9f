// Package identity signs users up and in and tracks their sessions.
//
// Directory is the server-side account directory. Provider is the
// client-side capability set the calculator binds to; Anonymous is the
// provider used when no identity backend is configured.
package identity

import (
	"context"
	"errors"
	"time"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrNoSession          = errors.New("no active session")
	ErrNotConfigured      = errors.New("identity backend not configured")
)

// MinPasswordLength is enforced at sign-up.
const MinPasswordLength = 8

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type Session struct {
	Token     string    `json:"token"`
	User      User      `json:"user"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Provider is what a front end needs from an identity backend.
// OnSessionChange callbacks receive nil when the user signs out.
type Provider interface {
	CurrentSession(ctx context.Context) (*Session, error)
	OnSessionChange(fn func(*Session)) (unsubscribe func())
	SignUp(ctx context.Context, email, password string) (User, error)
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context) error
}

// Anonymous never has a session.
type Anonymous struct{}

func (Anonymous) CurrentSession(context.Context) (*Session, error) { return nil, nil }
func (Anonymous) OnSessionChange(func(*Session)) func()            { return func() {} }
func (Anonymous) SignUp(context.Context, string, string) (User, error) {
	return User{}, ErrNotConfigured
}
func (Anonymous) SignIn(context.Context, string, string) (*Session, error) {
	return nil, ErrNotConfigured
}
func (Anonymous) SignOut(context.Context) error { return nil }
