// Package calculator holds one interactive calculation: the current inputs,
// their results, and the saved configurations of the active store scope.
package calculator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"movecalc/internal/affordability"
	"movecalc/internal/model"
	"movecalc/internal/store"
)

var (
	ErrNoScope      = errors.New("no configuration store available")
	ErrNotConfirmed = errors.New("delete not confirmed")
	ErrNoSelection  = errors.New("no configuration selected")
)

// Snapshot is what subscribers receive after every change.
type Snapshot struct {
	Inputs  model.Inputs  `json:"inputs"`
	Results model.Results `json:"results"`
}

type Calculator struct {
	mu      sync.Mutex
	inputs  model.Inputs
	results model.Results

	subs    map[int]chan Snapshot
	nextSub int

	scope    *Scope
	configs  []store.Summary
	selected string
}

func New(defaults model.Inputs) *Calculator {
	in := defaults.Sanitize()
	return &Calculator{
		inputs:  in,
		results: affordability.Recalculate(in),
		subs:    make(map[int]chan Snapshot),
	}
}

func (c *Calculator) Inputs() model.Inputs {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inputs
}

func (c *Calculator) Results() model.Results {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.results
}

func (c *Calculator) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{Inputs: c.inputs, Results: c.results}
}

// Set updates one input field from text and recomputes.
func (c *Calculator) Set(field, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.inputs
	if err := next.Set(field, value); err != nil {
		return err
	}
	c.applyLocked(next)
	return nil
}

// Replace swaps all nine inputs at once.
func (c *Calculator) Replace(in model.Inputs) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.applyLocked(in)
}

func (c *Calculator) applyLocked(in model.Inputs) {
	c.inputs = in.Sanitize()
	c.results = affordability.Recalculate(c.inputs)
	c.publishLocked()
}

// Subscribe returns a channel that receives the latest snapshot after each
// change. A subscriber that falls behind only sees the newest snapshot.
func (c *Calculator) Subscribe() (<-chan Snapshot, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextSub
	c.nextSub++
	ch := make(chan Snapshot, 1)
	c.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			delete(c.subs, id)
			close(ch)
		})
	}
	return ch, cancel
}

func (c *Calculator) publishLocked() {
	snap := Snapshot{Inputs: c.inputs, Results: c.results}
	for _, ch := range c.subs {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}

// UseScope switches the configuration backend. The list and selection are
// cleared; call Refresh to populate them.
func (c *Calculator) UseScope(s Scope) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.scope = &s
	c.configs = nil
	c.selected = ""
	log.Printf("[Calculator] using %s store for %s", s.Backend, s.Owner)
}

// Scope reports the active scope, if any.
func (c *Calculator) Scope() (Scope, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.scope == nil {
		return Scope{}, false
	}
	return *c.scope, true
}

func (c *Calculator) currentScope() (Scope, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.scope == nil || c.scope.Store == nil {
		return Scope{}, ErrNoScope
	}
	return *c.scope, nil
}

func (c *Calculator) Configs() []store.Summary {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]store.Summary, len(c.configs))
	copy(out, c.configs)
	return out
}

func (c *Calculator) Selected() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selected
}

// Select marks id as the configuration Load and Delete act on.
func (c *Calculator) Select(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, s := range c.configs {
		if s.ID == id {
			c.selected = id
			return nil
		}
	}
	return store.ErrNotFound
}

// Refresh reloads the list from the active scope. The first entry is
// selected when nothing is selected or the selection no longer exists.
func (c *Calculator) Refresh(ctx context.Context) error {
	sc, err := c.currentScope()
	if err != nil {
		return err
	}
	list, err := sc.Store.List(ctx, sc.Owner)
	if err != nil {
		return c.fail("list", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.scope == nil || *c.scope != sc {
		// scope changed while listing; the newer scope owns the list
		return nil
	}
	c.configs = list
	if !containsID(list, c.selected) {
		c.selected = ""
		if len(list) > 0 {
			c.selected = list[0].ID
		}
	}
	return nil
}

// Save stores the current inputs under name and selects the new entry.
func (c *Calculator) Save(ctx context.Context, name string) (string, error) {
	name, err := store.CleanName(name)
	if err != nil {
		return "", err
	}
	sc, err := c.currentScope()
	if err != nil {
		return "", err
	}
	payload := c.Inputs()

	id, err := sc.Store.Save(ctx, sc.Owner, name, payload)
	if err != nil {
		return "", c.fail("save", err)
	}
	log.Printf("[Calculator] saved configuration %q (%s)", name, id)

	c.mu.Lock()
	c.selected = id
	c.mu.Unlock()
	if err := c.Refresh(ctx); err != nil {
		return id, err
	}
	return id, nil
}

// Load replaces the inputs with the selected configuration. On any error
// the inputs are left untouched.
func (c *Calculator) Load(ctx context.Context) error {
	sc, err := c.currentScope()
	if err != nil {
		return err
	}
	id := c.Selected()
	if id == "" {
		return ErrNoSelection
	}

	payload, err := sc.Store.Get(ctx, sc.Owner, id)
	if err != nil {
		return c.fail("load", err)
	}
	c.Replace(payload)
	return nil
}

// Delete removes the selected configuration. confirmed must be true.
func (c *Calculator) Delete(ctx context.Context, confirmed bool) error {
	if !confirmed {
		return ErrNotConfirmed
	}
	sc, err := c.currentScope()
	if err != nil {
		return err
	}
	id := c.Selected()
	if id == "" {
		return ErrNoSelection
	}

	if err := sc.Store.Delete(ctx, sc.Owner, id); err != nil {
		return c.fail("delete", err)
	}
	log.Printf("[Calculator] deleted configuration %s", id)

	c.mu.Lock()
	if c.selected == id {
		c.selected = ""
	}
	c.mu.Unlock()
	return c.Refresh(ctx)
}

func (c *Calculator) fail(op string, err error) error {
	log.Printf("[Calculator] %s failed: %v", op, err)
	return fmt.Errorf("%s failed: %w", op, err)
}

func containsID(list []store.Summary, id string) bool {
	if id == "" {
		return false
	}
	for _, s := range list {
		if s.ID == id {
			return true
		}
	}
	return false
}
