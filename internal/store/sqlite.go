package store

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"movecalc/internal/model"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 0 - Initial schema (configs only)
// 1 - Added owner index on configs and the users table
const currentSchemaVersion = 1

// SQLite is the durable, multi-owner configuration store.
type SQLite struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite creates or opens a SQLite database at path and applies the
// schema. It is safe to call repeatedly on the same file.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode
//   - 5-second busy timeout for lock contention
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}
	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return &SQLite{db: db, now: time.Now}, nil
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB returns the underlying handle. The identity directory shares it.
func (s *SQLite) DB() *sql.DB {
	return s.db
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}

func applySchema(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	if version < currentSchemaVersion {
		log.Printf("[Store] sqlite: migrating schema from v%d to v%d", version, currentSchemaVersion)
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}
	return nil
}

func (s *SQLite) List(ctx context.Context, owner string) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, created_at FROM configs
		WHERE owner = ?
		ORDER BY created_at DESC, id DESC
	`, owner)
	if err != nil {
		return nil, fmt.Errorf("list configs: %w", err)
	}
	defer rows.Close()

	out := []Summary{}
	for rows.Next() {
		var sum Summary
		var created int64
		if err := rows.Scan(&sum.ID, &sum.Name, &created); err != nil {
			return nil, fmt.Errorf("list configs: %w", err)
		}
		sum.CreatedAt = time.Unix(0, created).UTC()
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list configs: %w", err)
	}
	return out, nil
}

func (s *SQLite) Save(ctx context.Context, owner, name string, payload model.Inputs) (string, error) {
	rec, err := newRecord(owner, name, payload, s.now())
	if err != nil {
		return "", err
	}
	raw, err := json.Marshal(rec.Payload)
	if err != nil {
		return "", fmt.Errorf("save config: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO configs (id, owner, name, payload, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, rec.ID, owner, rec.Name, string(raw), rec.CreatedAt.UnixNano())
	if err != nil {
		return "", fmt.Errorf("save config: %w", err)
	}
	return rec.ID, nil
}

func (s *SQLite) Get(ctx context.Context, owner, id string) (model.Inputs, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `
		SELECT payload FROM configs WHERE owner = ? AND id = ?
	`, owner, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Inputs{}, ErrNotFound
	}
	if err != nil {
		return model.Inputs{}, fmt.Errorf("get config: %w", err)
	}
	var in model.Inputs
	if err := json.Unmarshal([]byte(raw), &in); err != nil {
		return model.Inputs{}, fmt.Errorf("get config: %w", err)
	}
	return in, nil
}

func (s *SQLite) Delete(ctx context.Context, owner, id string) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM configs WHERE owner = ? AND id = ?
	`, owner, id)
	if err != nil {
		return fmt.Errorf("delete config: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete config: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
