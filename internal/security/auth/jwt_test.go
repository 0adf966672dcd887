package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aryan0dhankhar/medops/internal/domain"
)

var nurse = domain.Identity{ID: "2", Email: "nurse@medops.com", Name: "Emily Chen", Role: domain.RoleNurse}

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", "")
	token, expires, err := tm.GenerateToken(nurse, time.Hour)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expires, 5*time.Second)

	claims, err := tm.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "2", claims.UserID)
	assert.Equal(t, domain.RoleNurse, claims.Role)
	assert.Equal(t, "nurse@medops.com", claims.Email)
}

func TestTokenRejections(t *testing.T) {
	tm := NewTokenManager("secret", "")

	expired, _, err := tm.GenerateToken(nurse, -time.Minute)
	require.NoError(t, err)
	_, err = tm.ValidateToken(expired)
	assert.Error(t, err)

	other := NewTokenManager("other-secret", "")
	forged, _, err := other.GenerateToken(nurse, time.Hour)
	require.NoError(t, err)
	_, err = tm.ValidateToken(forged)
	assert.Error(t, err)

	_, _, err = tm.GenerateToken(domain.Identity{ID: "9", Role: "superuser"}, time.Hour)
	assert.Error(t, err)
}

func TestDevSecret(t *testing.T) {
	assert.True(t, NewTokenManager("", "").UsesDevSecret())
	assert.False(t, NewTokenManager("x", "").UsesDevSecret())
}

func TestExtractToken(t *testing.T) {
	tok, err := ExtractToken("Bearer abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", tok)
	for _, h := range []string{"", "Bearer", "Basic abc", "Bearer a b"} {
		_, err := ExtractToken(h)
		assert.Error(t, err, h)
	}
}
