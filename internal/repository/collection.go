package repository

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aryan0dhankhar/medops/internal/observability/metrics"
	"github.com/aryan0dhankhar/medops/internal/storage"
)

// collection is the in-memory authoritative copy of one slot. A mutation
// writes the next snapshot to the slot before installing it, holding mu
// throughout.
type collection[T any] struct {
	mu      sync.RWMutex
	records []T

	coll         storage.Collection
	persist      *storage.PersistentStore
	idOf         func(T) string
	clone        func(T) T
	seed         func() []T
	logger       *slog.Logger
	writeTimeout time.Duration
}

func newCollection[T any](coll storage.Collection, persist *storage.PersistentStore, o options, idOf func(T) string, clone func(T) T, seed func() []T) *collection[T] {
	if !o.seed {
		seed = func() []T { return []T{} }
	}
	return &collection[T]{
		coll:         coll,
		persist:      persist,
		idOf:         idOf,
		clone:        clone,
		seed:         seed,
		logger:       o.logger.With(slog.String("collection", coll.Name)),
		writeTimeout: o.writeTimeout,
	}
}

// load replaces the in-memory records with whatever the slot holds. mu is
// held across the read so no mutation can commit between read and swap.
func (c *collection[T]) load(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	loaded := storage.Load(ctx, c.persist, c.coll, c.seed())
	records := make([]T, len(loaded))
	for i, r := range loaded {
		records[i] = c.clone(r)
	}
	c.records = records
	metrics.SetCollectionSize(c.coll.Name, len(records))
}

// reload is load for callers that may give up; a done ctx leaves the
// records untouched.
func (c *collection[T]) reload(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("reload %s: %w", c.coll.Name, err)
	}
	c.load(ctx)
	return nil
}

func (c *collection[T]) list() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, len(c.records))
	for i, r := range c.records {
		out[i] = c.clone(r)
	}
	return out
}

func (c *collection[T]) get(id string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i := c.indexOf(id); i >= 0 {
		return c.clone(c.records[i]), true
	}
	var zero T
	return zero, false
}

func (c *collection[T]) size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}

func (c *collection[T]) add(ctx context.Context, rec T) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := make([]T, len(c.records), len(c.records)+1)
	copy(next, c.records)
	next = append(next, c.clone(rec))
	if err := c.commit(ctx, "add", next); err != nil {
		var zero T
		return zero, err
	}
	c.logger.Debug("record added", slog.String("id", c.idOf(rec)))
	return c.clone(rec), nil
}

// update applies fn to the record with id. A missing id is a no-op that
// touches neither memory nor the slot.
func (c *collection[T]) update(ctx context.Context, id string, fn func(T) T) (T, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	i := c.indexOf(id)
	if i < 0 {
		metrics.ObserveMutation(c.coll.Name, "update", "not_found")
		c.logger.Debug("update ignored, no such record", slog.String("id", id))
		return zero, false, nil
	}

	next := make([]T, len(c.records))
	copy(next, c.records)
	next[i] = fn(c.clone(c.records[i]))
	if err := c.commit(ctx, "update", next); err != nil {
		return zero, true, err
	}
	c.logger.Debug("record updated", slog.String("id", id))
	return c.clone(next[i]), true, nil
}

// remove drops the record with id if present. The resulting collection is
// written either way.
func (c *collection[T]) remove(ctx context.Context, id string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := make([]T, 0, len(c.records))
	removed := false
	for _, r := range c.records {
		if c.idOf(r) == id {
			removed = true
			continue
		}
		next = append(next, r)
	}
	if err := c.commit(ctx, "delete", next); err != nil {
		return false, err
	}
	if removed {
		c.logger.Debug("record deleted", slog.String("id", id))
	}
	return removed, nil
}

// commit writes next and installs it. Callers hold mu.
func (c *collection[T]) commit(ctx context.Context, op string, next []T) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.writeTimeout)
	defer cancel()

	if err := storage.Save(ctx, c.persist, c.coll, next); err != nil {
		metrics.ObserveMutation(c.coll.Name, op, "error")
		c.logger.Error("mutation rolled back", slog.String("op", op), slog.String("error", err.Error()))
		return err
	}
	c.records = next
	metrics.ObserveMutation(c.coll.Name, op, "ok")
	metrics.SetCollectionSize(c.coll.Name, len(next))
	return nil
}

func (c *collection[T]) indexOf(id string) int {
	for i, r := range c.records {
		if c.idOf(r) == id {
			return i
		}
	}
	return -1
}
