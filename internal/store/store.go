package store

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"movecalc/internal/model"
)

var (
	ErrNotFound  = errors.New("configuration not found")
	ErrEmptyName = errors.New("configuration name is required")
)

// Store is the capability set every configuration backend provides.
type Store interface {
	List(ctx context.Context, owner string) ([]Summary, error)
	Save(ctx context.Context, owner, name string, payload model.Inputs) (string, error)
	Get(ctx context.Context, owner, id string) (model.Inputs, error)
	Delete(ctx context.Context, owner, id string) error
}

// Summary is what a selector needs to show a saved configuration.
type Summary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Record is a stored configuration.
type Record struct {
	Summary
	Owner   string       `json:"owner"`
	Payload model.Inputs `json:"payload"`
}

// CleanName trims the name and rejects an empty result.
func CleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}
	return name, nil
}

// newRecord validates the name and stamps a new id.
func newRecord(owner, name string, payload model.Inputs, now time.Time) (Record, error) {
	name, err := CleanName(name)
	if err != nil {
		return Record{}, err
	}
	id, err := uuid.NewV7()
	if err != nil {
		return Record{}, err
	}
	return Record{
		Summary: Summary{
			ID:        id.String(),
			Name:      name,
			CreatedAt: now.UTC(),
		},
		Owner:   owner,
		Payload: payload.Sanitize(),
	}, nil
}

// sortSummaries orders newest first, ties by id descending (UUIDv7 ids sort
// by creation time).
func sortSummaries(list []Summary) {
	sort.SliceStable(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID > list[j].ID
	})
}
