package session

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/aryan0dhankhar/medops/internal/domain"
)

// Verifier decides whether password is acceptable for a directory identity.
type Verifier interface {
	Verify(ctx context.Context, id domain.Identity, password string) bool
}

// AcceptAnyPassword accepts every password. It is the demo behavior: the
// directory match alone authenticates.
type AcceptAnyPassword struct{}

func (AcceptAnyPassword) Verify(context.Context, domain.Identity, string) bool { return true }

// BcryptVerifier checks passwords against per-email bcrypt hashes. Emails
// without a hash are rejected.
type BcryptVerifier struct {
	hashes map[string][]byte
}

// NewBcryptVerifier validates every hash up front.
func NewBcryptVerifier(hashes map[string]string) (*BcryptVerifier, error) {
	v := &BcryptVerifier{hashes: make(map[string][]byte, len(hashes))}
	for email, h := range hashes {
		if _, err := bcrypt.Cost([]byte(h)); err != nil {
			return nil, fmt.Errorf("invalid bcrypt hash for %s: %w", email, err)
		}
		v.hashes[email] = []byte(h)
	}
	return v, nil
}

func (v *BcryptVerifier) Verify(_ context.Context, id domain.Identity, password string) bool {
	h, ok := v.hashes[id.Email]
	if !ok {
		return false
	}
	return bcrypt.CompareHashAndPassword(h, []byte(password)) == nil
}

// HashPassword returns a bcrypt hash suitable for NewBcryptVerifier.
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(h), nil
}
