package events

import (
	"context"
	"log/slog"
	"sync"

	"github.com/aryan0dhankhar/medops/internal/observability/metrics"
)

const subscriberBuffer = 32

// Hub broadcasts changes to in-process subscribers such as websocket clients.
// A subscriber that falls behind loses changes rather than blocking publishers.
type Hub struct {
	mu     sync.RWMutex
	subs   map[chan Change]struct{}
	logger *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{subs: make(map[chan Change]struct{}), logger: logger}
}

// Subscribe registers a listener. The returned func unsubscribes and closes
// the channel; it is safe to call more than once.
func (h *Hub) Subscribe() (<-chan Change, func()) {
	ch := make(chan Change, subscriberBuffer)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, ch)
			h.mu.Unlock()
			close(ch)
		})
	}
}

// Publish never fails.
func (h *Hub) Publish(_ context.Context, c Change) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs {
		select {
		case ch <- c:
			metrics.ObserveChangeEvent("hub", "ok")
		default:
			metrics.ObserveChangeEvent("hub", "dropped")
			h.logger.Debug("subscriber lagging, change dropped", slog.String("collection", c.Collection))
		}
	}
	return nil
}

// Subscribers returns the current listener count.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
