package events

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	got []Change
	err error
}

func (r *recorder) Publish(_ context.Context, c Change) error {
	r.got = append(r.got, c)
	return r.err
}

func TestFanoutDeliversToAllAndJoinsErrors(t *testing.T) {
	ok := &recorder{}
	bad := &recorder{err: errors.New("queue down")}
	f := Fanout{ok, bad, Nop{}}

	c := Change{Collection: "tasks", Op: OpCreated, ID: "1", At: time.Now()}
	err := f.Publish(context.Background(), c)
	assert.ErrorIs(t, err, bad.err)
	assert.Equal(t, []Change{c}, ok.got)
	assert.Equal(t, []Change{c}, bad.got)

	assert.NoError(t, Fanout{}.Publish(context.Background(), c))
}

func TestHubBroadcastAndUnsubscribe(t *testing.T) {
	h := NewHub(nil)
	a, cancelA := h.Subscribe()
	b, cancelB := h.Subscribe()
	defer cancelB()
	require.Equal(t, 2, h.Subscribers())

	c := Change{Collection: "patients", Op: OpDeleted, ID: "2"}
	require.NoError(t, h.Publish(context.Background(), c))
	assert.Equal(t, c, <-a)
	assert.Equal(t, c, <-b)

	cancelA()
	cancelA()
	assert.Equal(t, 1, h.Subscribers())
	_, open := <-a
	assert.False(t, open)
}

func TestHubDropsForSlowSubscriber(t *testing.T) {
	h := NewHub(nil)
	ch, cancel := h.Subscribe()
	defer cancel()
	for i := 0; i < subscriberBuffer+5; i++ {
		require.NoError(t, h.Publish(context.Background(), Change{Collection: "tasks"}))
	}
	assert.Len(t, ch, subscriberBuffer)
}

func TestAMQPPublisher(t *testing.T) {
	url := os.Getenv("TEST_AMQP_URL")
	if url == "" {
		t.Skip("TEST_AMQP_URL not set")
	}
	p, err := NewAMQPPublisher(url, "medops.changes.test", nil)
	require.NoError(t, err)
	defer p.Close()
	assert.NoError(t, p.Publish(context.Background(), Change{Collection: "tasks", Op: OpCreated, ID: "1", At: time.Now()}))
}
