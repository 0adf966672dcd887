package repository

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
)

type options struct {
	newID        func() string
	now          func() time.Time
	seed         bool
	logger       *slog.Logger
	writeTimeout time.Duration
}

func defaultOptions() options {
	return options{
		newID:        uuid.NewString,
		now:          time.Now,
		seed:         true,
		logger:       slog.Default(),
		writeTimeout: 10 * time.Second,
	}
}

// Option configures a repository.
type Option func(*options)

// WithIDGenerator replaces the uuid generator.
func WithIDGenerator(fn func() string) Option {
	return func(o *options) {
		if fn != nil {
			o.newID = fn
		}
	}
}

// WithClock replaces time.Now for createdAt stamps.
func WithClock(fn func() time.Time) Option {
	return func(o *options) {
		if fn != nil {
			o.now = fn
		}
	}
}

// WithSeed controls whether the demo data is used when a slot holds nothing usable.
func WithSeed(enabled bool) Option {
	return func(o *options) { o.seed = enabled }
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithWriteTimeout bounds each durable write, retries included.
func WithWriteTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.writeTimeout = d
		}
	}
}

func buildOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
