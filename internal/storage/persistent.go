package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/aryan0dhankhar/medops/internal/observability/metrics"
	"github.com/aryan0dhankhar/medops/internal/observability/tracing"
	"github.com/aryan0dhankhar/medops/internal/reliability/circuitbreaker"
	"github.com/aryan0dhankhar/medops/internal/reliability/retry"
)

// Fallback reasons reported when a load returns the seed.
const (
	reasonAbsent    = "absent"
	reasonReadError = "read_error"
	reasonMalformed = "malformed"
	reasonNotArray  = "not_array"
	reasonBadDate   = "bad_date"
	reasonDecode    = "decode"
)

var errNotArray = errors.New("stored value is not a JSON array")

// PersistentStore reads and writes collection snapshots on a SlotStore.
type PersistentStore struct {
	slots  SlotStore
	logger *slog.Logger
	retry  *retry.Config
	tracer trace.Tracer
}

// Option configures a PersistentStore.
type Option func(*PersistentStore)

// WithLogger sets the logger used for fallbacks and write failures.
func WithLogger(logger *slog.Logger) Option {
	return func(p *PersistentStore) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithRetry overrides the write retry policy.
func WithRetry(cfg *retry.Config) Option {
	return func(p *PersistentStore) {
		if cfg != nil {
			p.retry = cfg
		}
	}
}

// NewPersistentStore wraps slots.
func NewPersistentStore(slots SlotStore, opts ...Option) *PersistentStore {
	p := &PersistentStore{
		slots:  slots,
		logger: slog.Default(),
		retry:  defaultRetry(),
		tracer: tracing.Tracer("storage"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// defaultRetry gives up at once while a backend breaker is open.
func defaultRetry() *retry.Config {
	cfg := retry.DefaultConfig()
	cfg.ShouldRetry = func(err error) bool { return !circuitbreaker.IsOpen(err) }
	return cfg
}

// Load returns the records stored for c, or seed when the slot is absent,
// unreadable or holds anything other than an array of well-formed records.
// It never fails.
func Load[T any](ctx context.Context, p *PersistentStore, c Collection, seed []T) []T {
	raw, ok, err := p.slots.Get(ctx, c.Key)
	if err != nil {
		p.fallback(c, reasonReadError, err)
		return seed
	}
	if !ok {
		p.logger.Debug("slot empty, using seed", slog.String("slot", c.Key), slog.Int("seed", len(seed)))
		metrics.ObserveLoadFallback(c.Key, reasonAbsent)
		return seed
	}

	normalized, reason, err := reviveDates(raw, c.Schema)
	if err != nil {
		p.fallback(c, reason, err)
		return seed
	}

	var records []T
	if err := json.Unmarshal(normalized, &records); err != nil {
		p.fallback(c, reasonDecode, err)
		return seed
	}
	p.logger.Debug("collection loaded", slog.String("slot", c.Key), slog.Int("records", len(records)))
	return records
}

// Save overwrites the slot for c with the full records snapshot.
func Save[T any](ctx context.Context, p *PersistentStore, c Collection, records []T) error {
	if records == nil {
		records = []T{}
	}
	body, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", c.Name, err)
	}
	body, _, err = reviveDates(string(body), c.Schema)
	if err != nil {
		return fmt.Errorf("failed to normalize %s dates: %w", c.Name, err)
	}
	return p.write(ctx, c.Key, string(body), slog.Int("records", len(records)))
}

// LoadObject decodes the JSON object stored at key into v. It reports false
// when the slot is absent, unreadable or not an object.
func (p *PersistentStore) LoadObject(ctx context.Context, key string, v any) bool {
	raw, ok, err := p.slots.Get(ctx, key)
	if err != nil {
		p.logger.Warn("failed to read slot", slog.String("slot", key), slog.String("error", err.Error()))
		metrics.ObserveLoadFallback(key, reasonReadError)
		return false
	}
	if !ok {
		return false
	}
	var probe any
	if err := json.Unmarshal([]byte(raw), &probe); err != nil {
		p.logger.Warn("discarding malformed slot", slog.String("slot", key), slog.String("error", err.Error()))
		metrics.ObserveLoadFallback(key, reasonMalformed)
		return false
	}
	if _, isObject := probe.(map[string]any); !isObject {
		p.logger.Warn("discarding non-object slot", slog.String("slot", key))
		metrics.ObserveLoadFallback(key, reasonMalformed)
		return false
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		p.logger.Warn("discarding undecodable slot", slog.String("slot", key), slog.String("error", err.Error()))
		metrics.ObserveLoadFallback(key, reasonDecode)
		return false
	}
	return true
}

// SaveObject writes v as a JSON object to key.
func (p *PersistentStore) SaveObject(ctx context.Context, key string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	return p.write(ctx, key, string(body))
}

// Clear removes key.
func (p *PersistentStore) Clear(ctx context.Context, key string) error {
	return retry.Run(ctx, p.retry, p.logger, "clear "+key, func(ctx context.Context) error {
		return p.slots.Delete(ctx, key)
	})
}

func (p *PersistentStore) write(ctx context.Context, key, body string, attrs ...any) error {
	ctx, span := p.tracer.Start(ctx, "storage.write",
		trace.WithAttributes(attribute.String("slot", key), attribute.Int("bytes", len(body))))
	defer span.End()

	start := time.Now()
	err := retry.Run(ctx, p.retry, p.logger, "write "+key, func(ctx context.Context) error {
		return p.slots.Set(ctx, key, body)
	})
	if err != nil {
		metrics.ObserveSlotWrite(key, "error", time.Since(start))
		span.RecordError(err)
		span.SetStatus(codes.Error, "slot write failed")
		p.logger.Error("failed to write slot", slog.String("slot", key), slog.String("error", err.Error()))
		return fmt.Errorf("failed to write slot %s: %w", key, err)
	}
	metrics.ObserveSlotWrite(key, "ok", time.Since(start))
	p.logger.Debug("slot written", append([]any{slog.String("slot", key)}, attrs...)...)
	return nil
}

func (p *PersistentStore) fallback(c Collection, reason string, err error) {
	metrics.ObserveLoadFallback(c.Key, reason)
	p.logger.Warn("stored collection unusable, using seed",
		slog.String("slot", c.Key),
		slog.String("reason", reason),
		slog.String("error", err.Error()),
	)
}

// reviveDates parses raw as an array of objects and canonicalizes every
// schema date field. The returned reason classifies a failure.
func reviveDates(raw string, schema DateSchema) ([]byte, string, error) {
	var doc any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, reasonMalformed, err
	}
	items, ok := doc.([]any)
	if !ok {
		return nil, reasonNotArray, errNotArray
	}
	for i, item := range items {
		rec, ok := item.(map[string]any)
		if !ok {
			return nil, reasonMalformed, fmt.Errorf("element %d is not an object", i)
		}
		if err := schema.normalize(rec); err != nil {
			return nil, reasonBadDate, fmt.Errorf("element %d: %w", i, err)
		}
	}
	out, err := json.Marshal(items)
	if err != nil {
		return nil, reasonMalformed, err
	}
	return out, "", nil
}
