// Package retry repeats transient failures with capped exponential backoff.
package retry

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Config is the backoff policy. Attempt n (0-based) waits
// InitialBackoff * BackoffMultiplier^n, capped at MaxBackoff.
type Config struct {
	MaxAttempts       int
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
	BackoffMultiplier float64
	// ShouldRetry, when set, stops the loop early for errors it rejects.
	ShouldRetry func(error) bool
}

// DefaultConfig returns the backoff used for durable slot writes.
func DefaultConfig() *Config {
	return &Config{
		MaxAttempts:       3,
		InitialBackoff:    50 * time.Millisecond,
		MaxBackoff:        2 * time.Second,
		BackoffMultiplier: 2.0,
	}
}

type Retryable[T any] func(ctx context.Context) (T, error)

// Do calls fn until it succeeds, the policy gives up, or ctx ends. The
// returned error wraps the last failure of fn.
func Do[T any](ctx context.Context, cfg *Config, log *slog.Logger, op string, fn Retryable[T]) (T, error) {
	var zero T
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if log == nil {
		log = slog.Default()
	}
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	attempts := max(cfg.MaxAttempts, 1)
	for n := 0; ; n++ {
		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		if n+1 >= attempts {
			return zero, fmt.Errorf("%s failed after %d attempts: %w", op, n+1, err)
		}
		if cfg.ShouldRetry != nil && !cfg.ShouldRetry(err) {
			return zero, fmt.Errorf("%s failed permanently: %w", op, err)
		}

		wait := calculateBackoff(n, cfg)
		log.Warn("operation failed, retrying",
			slog.String("operation", op),
			slog.Int("attempt", n+1),
			slog.Int("max_attempts", attempts),
			slog.Duration("backoff", wait),
			slog.String("error", err.Error()),
		)
		if !sleep(ctx, wait) {
			return zero, fmt.Errorf("%s interrupted after %d attempts: %w", op, n+1, err)
		}
	}
}

// Run is Do for operations without a result.
func Run(ctx context.Context, cfg *Config, log *slog.Logger, op string, fn func(ctx context.Context) error) error {
	_, err := Do(ctx, cfg, log, op, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

func calculateBackoff(n int, cfg *Config) time.Duration {
	d := float64(cfg.InitialBackoff)
	for range n {
		d *= cfg.BackoffMultiplier
		if d >= float64(cfg.MaxBackoff) {
			return cfg.MaxBackoff
		}
	}
	return min(time.Duration(d), cfg.MaxBackoff)
}

// sleep reports false if ctx ended first.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
