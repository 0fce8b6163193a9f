package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	sqlite3 "github.com/mattn/go-sqlite3"
	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultSessionTTL = 24 * time.Hour
	cleanupInterval   = 10 * time.Minute
)

// Directory is the server-side account directory. Users live in the
// users table of the SQLite database; sessions are held in memory.
type Directory struct {
	db       *sql.DB
	sessions *sessionTable
	cost     int
	now      func() time.Time
}

type DirectoryOption func(*Directory)

// WithSessionTTL sets how long a session token stays valid.
func WithSessionTTL(ttl time.Duration) DirectoryOption {
	return func(d *Directory) {
		if ttl > 0 {
			d.sessions.ttl = ttl
		}
	}
}

// WithBcryptCost overrides the hashing cost. Tests use bcrypt.MinCost.
func WithBcryptCost(cost int) DirectoryOption {
	return func(d *Directory) { d.cost = cost }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) DirectoryOption {
	return func(d *Directory) {
		d.now = now
		d.sessions.now = now
	}
}

// NewDirectory builds a directory over db, which must already carry the
// users table (see store.OpenSQLite). Call Close to stop session cleanup.
func NewDirectory(db *sql.DB, opts ...DirectoryOption) *Directory {
	d := &Directory{
		db:       db,
		sessions: newSessionTable(DefaultSessionTTL, time.Now),
		cost:     bcrypt.DefaultCost,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	go d.sessions.cleanupLoop(cleanupInterval)
	return d
}

func (d *Directory) Close() {
	d.sessions.close()
}

func normalizeEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", ErrInvalidEmail
	}
	return strings.ToLower(email), nil
}

func (d *Directory) SignUp(ctx context.Context, email, password string) (User, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return User{}, err
	}
	if len(password) < MinPasswordLength {
		return User{}, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), d.cost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}
	id, err := uuid.NewV7()
	if err != nil {
		return User{}, fmt.Errorf("generate user id: %w", err)
	}
	u := User{ID: id.String(), Email: email, CreatedAt: d.now().UTC()}

	_, err = d.db.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, created_at) VALUES (?, ?, ?, ?)`,
		u.ID, u.Email, string(hash), u.CreatedAt.UnixNano())
	if err != nil {
		var sqlErr sqlite3.Error
		if errors.As(err, &sqlErr) && sqlErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return User{}, ErrEmailTaken
		}
		return User{}, fmt.Errorf("insert user: %w", err)
	}

	log.Printf("[Identity] signed up user %s", u.ID)
	return u, nil
}

func (d *Directory) SignIn(ctx context.Context, email, password string) (*Session, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	var (
		u       User
		hash    string
		created int64
	)
	err = d.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, created_at FROM users WHERE email = ?`, email).
		Scan(&u.ID, &u.Email, &hash, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	u.CreatedAt = time.Unix(0, created).UTC()

	s := &Session{
		Token:     uuid.NewString(),
		User:      u,
		ExpiresAt: d.now().Add(d.sessions.ttl).UTC(),
	}
	d.sessions.put(s)
	cp := *s
	return &cp, nil
}

// Lookup resolves a bearer token to its live session.
func (d *Directory) Lookup(token string) (*Session, error) {
	if token == "" {
		return nil, ErrNoSession
	}
	s, ok := d.sessions.get(token)
	if !ok {
		return nil, ErrNoSession
	}
	return s, nil
}

// SignOut ends the session. Unknown tokens are ignored.
func (d *Directory) SignOut(token string) {
	if d.sessions.remove(token) {
		log.Printf("[Identity] session ended")
	}
}
