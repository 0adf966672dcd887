// Package session holds the logged-in identity and its persisted copy.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aryan0dhankhar/medops/internal/domain"
	"github.com/aryan0dhankhar/medops/internal/observability/metrics"
	"github.com/aryan0dhankhar/medops/internal/storage"
)

// ErrInvalidCredentials is returned for an unknown email or rejected password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// State is the session state.
type State int

const (
	Anonymous State = iota
	Authenticated
)

func (s State) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "anonymous"
}

// DefaultLoginDelay mirrors the latency of the original sign-in round trip.
const DefaultLoginDelay = time.Second

// Store is the Anonymous/Authenticated state machine. The current identity is
// written to the identity slot before the state changes.
type Store struct {
	mu       sync.RWMutex
	identity *domain.Identity

	pending atomic.Int32

	persist  *storage.PersistentStore
	dir      *Directory
	verifier Verifier
	delay    time.Duration
	logger   *slog.Logger
}

type Option func(*Store)

// WithVerifier replaces AcceptAnyPassword.
func WithVerifier(v Verifier) Option {
	return func(s *Store) {
		if v != nil {
			s.verifier = v
		}
	}
}

// WithLoginDelay sets the simulated latency. Zero disables it.
func WithLoginDelay(d time.Duration) Option {
	return func(s *Store) {
		if d >= 0 {
			s.delay = d
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewStore hydrates from the identity slot. An absent or malformed slot, or
// one naming nobody in dir, leaves the store Anonymous.
func NewStore(ctx context.Context, persist *storage.PersistentStore, dir *Directory, opts ...Option) *Store {
	s := &Store{
		persist:  persist,
		dir:      dir,
		verifier: AcceptAnyPassword{},
		delay:    DefaultLoginDelay,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.hydrate(ctx)
	return s
}

func (s *Store) hydrate(ctx context.Context) {
	var id domain.Identity
	if !s.persist.LoadObject(ctx, storage.KeyIdentity, &id) {
		return
	}
	if id.ID == "" || id.Email == "" || !id.Role.Valid() {
		s.logger.Warn("ignoring incomplete persisted identity")
		return
	}
	s.identity = &id
	s.logger.Info("session restored", slog.String("user_id", id.ID), slog.String("role", string(id.Role)))
}

// Login waits out the configured delay, matches email against the directory
// and asks the verifier. On success the identity is persisted and returned.
// Any failure leaves both the state and the slot untouched.
func (s *Store) Login(ctx context.Context, email, password string) (domain.Identity, error) {
	s.pending.Add(1)
	defer s.pending.Add(-1)

	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			metrics.ObserveLogin("cancelled")
			return domain.Identity{}, ctx.Err()
		case <-timer.C:
		}
	}

	id, ok := s.dir.Lookup(email)
	if !ok || !s.verifier.Verify(ctx, id, password) {
		metrics.ObserveLogin("rejected")
		s.logger.Warn("login rejected", slog.String("email", email))
		return domain.Identity{}, ErrInvalidCredentials
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.persist.SaveObject(context.WithoutCancel(ctx), storage.KeyIdentity, id); err != nil {
		metrics.ObserveLogin("error")
		return domain.Identity{}, fmt.Errorf("failed to persist session: %w", err)
	}
	s.identity = &id
	metrics.ObserveLogin("ok")
	s.logger.Info("user logged in", slog.String("user_id", id.ID), slog.String("role", string(id.Role)))
	return id.Clone(), nil
}

// Logout always ends Anonymous. A failure to clear the slot is returned but
// does not keep the identity in memory.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity != nil {
		s.logger.Info("user logged out", slog.String("user_id", s.identity.ID))
	}
	s.identity = nil
	if err := s.persist.Clear(context.WithoutCancel(ctx), storage.KeyIdentity); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// Current returns the logged-in identity.
func (s *Store) Current() (domain.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return domain.Identity{}, false
	}
	return s.identity.Clone(), true
}

func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return Anonymous
	}
	return Authenticated
}

// Pending reports whether a login is in flight.
func (s *Store) Pending() bool {
	return s.pending.Load() > 0
}
