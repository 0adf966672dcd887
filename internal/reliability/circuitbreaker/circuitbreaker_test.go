package circuitbreaker

import (
	"errors"
	"fmt"
	"testing"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	cb := New("test", nil)
	boom := errors.New("down")
	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, Execute(cb, func() error { return boom }), boom)
	}
	assert.Equal(t, gobreaker.StateOpen, cb.State())
	assert.ErrorIs(t, Execute(cb, func() error { return nil }), gobreaker.ErrOpenState)
}

func TestQueryReturnsTypedResult(t *testing.T) {
	cb := New("query", nil)
	got, err := Query(cb, func() (int, error) { return 42, nil })
	require.NoError(t, err)
	assert.Equal(t, 42, got)
}

func TestIsOpen(t *testing.T) {
	assert.True(t, IsOpen(fmt.Errorf("write: %w", gobreaker.ErrOpenState)))
	assert.True(t, IsOpen(gobreaker.ErrTooManyRequests))
	assert.False(t, IsOpen(errors.New("timeout")))
}
