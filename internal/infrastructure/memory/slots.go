package memory

import (
	"context"
	"sync"
)

// Slots is a process-local slot store. Values vanish with the process.
type Slots struct {
	mu    sync.RWMutex
	items map[string]string
}

// New creates an empty store.
func New() *Slots {
	return &Slots{items: map[string]string{}}
}

// Get returns the value stored at key.
func (s *Slots) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.items[key]
	return v, ok, nil
}

// Set overwrites key.
func (s *Slots) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = value
	return nil
}

// Delete removes key.
func (s *Slots) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
	return nil
}

// Ping always succeeds.
func (s *Slots) Ping(context.Context) error { return nil }
