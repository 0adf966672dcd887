package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sony/gobreaker"

	"github.com/aryan0dhankhar/medops/internal/reliability/circuitbreaker"
)

const schema = `CREATE TABLE IF NOT EXISTS durable_slots (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// Slots keeps durable slots as rows of the durable_slots table.
type Slots struct {
	db     *sql.DB
	cb     *gobreaker.CircuitBreaker
	logger *slog.Logger
}

// NewSlots ensures the table exists.
func NewSlots(ctx context.Context, db *sql.DB, logger *slog.Logger) (*Slots, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("failed to create durable_slots table: %w", err)
	}
	return &Slots{db: db, cb: circuitbreaker.New("postgres-slots", logger), logger: logger}, nil
}

type row struct {
	value string
	ok    bool
}

func (s *Slots) Get(ctx context.Context, key string) (string, bool, error) {
	r, err := circuitbreaker.Query(s.cb, func() (row, error) {
		var v string
		err := s.db.QueryRowContext(ctx, `SELECT value FROM durable_slots WHERE key = $1`, key).Scan(&v)
		if errors.Is(err, sql.ErrNoRows) {
			return row{}, nil
		}
		if err != nil {
			return row{}, err
		}
		return row{value: v, ok: true}, nil
	})
	if err != nil {
		return "", false, fmt.Errorf("failed to read slot %s: %w", key, err)
	}
	return r.value, r.ok, nil
}

func (s *Slots) Set(ctx context.Context, key, value string) error {
	err := circuitbreaker.Execute(s.cb, func() error {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO durable_slots (key, value, updated_at) VALUES ($1, $2, now())
			ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
			key, value)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to write slot %s: %w", key, err)
	}
	return nil
}

func (s *Slots) Delete(ctx context.Context, key string) error {
	err := circuitbreaker.Execute(s.cb, func() error {
		_, err := s.db.ExecContext(ctx, `DELETE FROM durable_slots WHERE key = $1`, key)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to delete slot %s: %w", key, err)
	}
	return nil
}

func (s *Slots) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
