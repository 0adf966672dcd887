// Package database opens the PostgreSQL pool behind the postgres slot backend.
package database

import (
	"cmp"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	_ "github.com/lib/pq"
)

const pingTimeout = 5 * time.Second

// Config describes the pool. Zero limits take the defaults in withDefaults.
type Config struct {
	// DSN is a postgres:// URL or a key=value connection string.
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

func (c Config) withDefaults() Config {
	c.MaxOpenConns = cmp.Or(c.MaxOpenConns, 10)
	c.MaxIdleConns = cmp.Or(c.MaxIdleConns, 2)
	c.ConnMaxLifetime = cmp.Or(c.ConnMaxLifetime, 5*time.Minute)
	return c
}

// ConnectionPool owns the *sql.DB.
type ConnectionPool struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewConnectionPool opens the pool and fails unless the server answers a ping.
func NewConnectionPool(ctx context.Context, config *Config, logger *slog.Logger) (*ConnectionPool, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if config == nil || config.DSN == "" {
		return nil, errors.New("database dsn required")
	}
	cfg := config.withDefaults()

	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to reach %s: %w", redact(cfg.DSN), err)
	}

	logger.Info("database pool ready",
		slog.String("target", redact(cfg.DSN)),
		slog.Int("max_open_conns", cfg.MaxOpenConns),
	)
	return &ConnectionPool{db: db, logger: logger}, nil
}

func (cp *ConnectionPool) GetDB() *sql.DB {
	return cp.db
}

// Close logs the final pool stats and closes it.
func (cp *ConnectionPool) Close() error {
	if cp.db == nil {
		return nil
	}
	st := cp.db.Stats()
	cp.logger.Info("closing database pool",
		slog.Int("open_connections", st.OpenConnections),
		slog.Int64("wait_count", st.WaitCount),
	)
	return cp.db.Close()
}

// redact strips credentials from URL-form DSNs for logging.
func redact(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil || u.Scheme == "" {
		return "postgres"
	}
	u.User = nil
	return u.String()
}
