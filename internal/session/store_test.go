package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aryan0dhankhar/medops/internal/domain"
	"github.com/aryan0dhankhar/medops/internal/infrastructure/memory"
	"github.com/aryan0dhankhar/medops/internal/reliability/retry"
	"github.com/aryan0dhankhar/medops/internal/storage"
)

type failingSlots struct {
	*memory.Slots
}

func (failingSlots) Set(context.Context, string, string) error {
	return errors.New("slot unavailable")
}

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func persistOn(slots storage.SlotStore) *storage.PersistentStore {
	return storage.NewPersistentStore(slots,
		storage.WithLogger(quiet()),
		storage.WithRetry(&retry.Config{MaxAttempts: 1, InitialBackoff: time.Millisecond, MaxBackoff: time.Millisecond, BackoffMultiplier: 1}))
}

func newTestStore(t *testing.T, slots storage.SlotStore, opts ...Option) *Store {
	t.Helper()
	opts = append([]Option{WithLoginDelay(0), WithLogger(quiet())}, opts...)
	return NewStore(context.Background(), persistOn(slots), NewDirectory(), opts...)
}

func TestLoginAcceptsAnyPasswordForKnownEmail(t *testing.T) {
	// The demo verifier performs no password check. This is intentional and
	// is what the default configuration ships with.
	slots := memory.New()
	s := newTestStore(t, slots)
	require.Equal(t, Anonymous, s.State())

	id, err := s.Login(context.Background(), "doctor@medops.com", "literally anything")
	require.NoError(t, err)
	assert.Equal(t, "Dr. Sarah Johnson", id.Name)
	assert.Equal(t, domain.RoleClinician, id.Role)
	assert.Equal(t, Authenticated, s.State())

	raw, ok, _ := slots.Get(context.Background(), storage.KeyIdentity)
	require.True(t, ok)
	assert.Contains(t, raw, `"email":"doctor@medops.com"`)

	_, err = s.Login(context.Background(), "nurse@medops.com", "")
	require.NoError(t, err)
}

func TestLoginUnknownEmailLeavesStateUnchanged(t *testing.T) {
	slots := memory.New()
	s := newTestStore(t, slots)

	_, err := s.Login(context.Background(), "Doctor@medops.com", "x")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, Anonymous, s.State())
	_, ok, _ := slots.Get(context.Background(), storage.KeyIdentity)
	assert.False(t, ok)

	_, err = s.Login(context.Background(), "admin@medops.com", "x")
	require.NoError(t, err)
	_, err = s.Login(context.Background(), "stranger@medops.com", "x")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	cur, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "admin@medops.com", cur.Email, "failed login keeps the previous session")
}

func TestLoginPersistFailureKeepsAnonymous(t *testing.T) {
	s := newTestStore(t, failingSlots{memory.New()})
	_, err := s.Login(context.Background(), "doctor@medops.com", "x")
	require.Error(t, err)
	assert.Equal(t, Anonymous, s.State())
}

func TestLogoutClearsSlot(t *testing.T) {
	slots := memory.New()
	s := newTestStore(t, slots)
	_, err := s.Login(context.Background(), "patient@medops.com", "x")
	require.NoError(t, err)

	require.NoError(t, s.Logout(context.Background()))
	assert.Equal(t, Anonymous, s.State())
	_, ok, _ := slots.Get(context.Background(), storage.KeyIdentity)
	assert.False(t, ok)

	require.NoError(t, s.Logout(context.Background()), "logout when anonymous is fine")
}

func TestHydrateFromSlot(t *testing.T) {
	slots := memory.New()
	first := newTestStore(t, slots)
	_, err := first.Login(context.Background(), "nurse@medops.com", "x")
	require.NoError(t, err)

	second := newTestStore(t, slots)
	cur, ok := second.Current()
	require.True(t, ok)
	assert.Equal(t, "Emily Chen", cur.Name)
	require.NotNil(t, cur.Department)
	assert.Equal(t, "Emergency", *cur.Department)
}

func TestHydrateIgnoresMalformedSlot(t *testing.T) {
	for _, raw := range []string{`{not json`, `[]`, `"x"`, `{}`, `{"id":"1","email":"a@b","role":"superuser"}`} {
		slots := memory.New()
		require.NoError(t, slots.Set(context.Background(), storage.KeyIdentity, raw))
		s := newTestStore(t, slots)
		assert.Equal(t, Anonymous, s.State(), raw)
	}
}

func TestPatientHasNullDepartment(t *testing.T) {
	slots := memory.New()
	s := newTestStore(t, slots)
	_, err := s.Login(context.Background(), "patient@medops.com", "x")
	require.NoError(t, err)
	raw, _, _ := slots.Get(context.Background(), storage.KeyIdentity)
	assert.Contains(t, raw, `"department":null`)
}

func TestPendingDuringDelay(t *testing.T) {
	s := newTestStore(t, memory.New(), WithLoginDelay(50*time.Millisecond))
	done := make(chan error, 1)
	go func() {
		_, err := s.Login(context.Background(), "doctor@medops.com", "x")
		done <- err
	}()

	assert.Eventually(t, s.Pending, time.Second, time.Millisecond)
	require.NoError(t, <-done)
	assert.False(t, s.Pending())
}

func TestLoginHonorsCancellation(t *testing.T) {
	s := newTestStore(t, memory.New(), WithLoginDelay(time.Minute))
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := s.Login(ctx, "doctor@medops.com", "x")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, Anonymous, s.State())
}

func TestBcryptVerifier(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	v, err := NewBcryptVerifier(map[string]string{"doctor@medops.com": hash})
	require.NoError(t, err)

	s := newTestStore(t, memory.New(), WithVerifier(v))
	_, err = s.Login(context.Background(), "doctor@medops.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = s.Login(context.Background(), "nurse@medops.com", "s3cret")
	assert.ErrorIs(t, err, ErrInvalidCredentials, "no hash configured")
	_, err = s.Login(context.Background(), "doctor@medops.com", "s3cret")
	assert.NoError(t, err)

	_, err = NewBcryptVerifier(map[string]string{"x": "plaintext"})
	assert.Error(t, err)
}

func TestDirectory(t *testing.T) {
	d := NewDirectory()
	list := d.List()
	require.Len(t, list, 4)
	assert.Equal(t, "1", list[0].ID)
	_, ok := d.Lookup("patient@medops.com")
	assert.True(t, ok)
	_, ok = d.Lookup(" patient@medops.com")
	assert.False(t, ok)
}
