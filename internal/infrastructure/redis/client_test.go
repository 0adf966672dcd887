package redis

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aryan0dhankhar/medops/internal/storage"
)

var _ storage.SlotStore = (*Client)(nil)

// Runs only against a real server: TEST_REDIS_URL=redis://localhost:6379/15
func TestRedisSlots(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}
	prefix := fmt.Sprintf("medops-test-%d:", time.Now().UnixNano())
	c, err := NewClient(url, prefix, nil)
	require.NoError(t, err)
	defer c.Close()

	ctx := context.Background()
	_, ok, err := c.Get(ctx, storage.KeyTasks)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, storage.KeyTasks, `[]`))
	v, ok, err := c.Get(ctx, storage.KeyTasks)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[]`, v)

	require.NoError(t, c.Delete(ctx, storage.KeyTasks))
	_, ok, err = c.Get(ctx, storage.KeyTasks)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNewClientRejectsBadURL(t *testing.T) {
	_, err := NewClient("not-a-url", "", nil)
	assert.Error(t, err)
}
