package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"movecalc/internal/model"
)

// fileDocument is the on-disk shape of a File store.
type fileDocument struct {
	UpdatedAt time.Time `json:"updated_at"`
	Configs   []Record  `json:"configs"`
}

// File keeps every configuration in one JSON document, like browser local
// storage keeps one key. A missing file is an empty store.
type File struct {
	path string
	mu   sync.Mutex
	now  func() time.Time
}

// NewFile returns a store backed by the JSON file at path. The file and its
// directory are created on first save.
func NewFile(path string) *File {
	return &File{path: path, now: time.Now}
}

// Path returns the backing file path.
func (f *File) Path() string {
	return f.path
}

func (f *File) List(ctx context.Context, owner string) ([]Summary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.load()
	if err != nil {
		return nil, err
	}
	out := []Summary{}
	for _, r := range doc.Configs {
		if r.Owner == owner {
			out = append(out, r.Summary)
		}
	}
	sortSummaries(out)
	return out, nil
}

func (f *File) Save(ctx context.Context, owner, name string, payload model.Inputs) (string, error) {
	rec, err := newRecord(owner, name, payload, f.now())
	if err != nil {
		return "", err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.load()
	if err != nil {
		return "", err
	}
	doc.Configs = append(doc.Configs, rec)
	if err := f.write(doc); err != nil {
		return "", err
	}
	log.Printf("[Store] file: saved %q (%s) for %s", rec.Name, rec.ID, owner)
	return rec.ID, nil
}

func (f *File) Get(ctx context.Context, owner, id string) (model.Inputs, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.load()
	if err != nil {
		return model.Inputs{}, err
	}
	for _, r := range doc.Configs {
		if r.Owner == owner && r.ID == id {
			return r.Payload, nil
		}
	}
	return model.Inputs{}, ErrNotFound
}

func (f *File) Delete(ctx context.Context, owner, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.load()
	if err != nil {
		return err
	}
	kept := doc.Configs[:0]
	found := false
	for _, r := range doc.Configs {
		if r.Owner == owner && r.ID == id {
			found = true
			continue
		}
		kept = append(kept, r)
	}
	if !found {
		return ErrNotFound
	}
	doc.Configs = kept
	if err := f.write(doc); err != nil {
		return err
	}
	log.Printf("[Store] file: deleted %s for %s", id, owner)
	return nil
}

func (f *File) load() (*fileDocument, error) {
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return &fileDocument{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read store file: %w", err)
	}
	var doc fileDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse store file: %w", err)
	}
	return &doc, nil
}

// write replaces the file atomically.
func (f *File) write(doc *fileDocument) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	doc.UpdatedAt = f.now().UTC()
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal store file: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to write store file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write store file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write store file: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("failed to write store file: %w", err)
	}
	return nil
}
