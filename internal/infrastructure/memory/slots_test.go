package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aryan0dhankhar/medops/internal/storage"
)

var _ storage.SlotStore = (*Slots)(nil)

func TestSetGetDelete(t *testing.T) {
	ctx := context.Background()
	s := New()

	_, ok, err := s.Get(ctx, storage.KeyTasks)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, storage.KeyTasks, "[]"))
	v, ok, err := s.Get(ctx, storage.KeyTasks)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", v)

	require.NoError(t, s.Delete(ctx, storage.KeyTasks))
	_, ok, _ = s.Get(ctx, storage.KeyTasks)
	assert.False(t, ok)
}
