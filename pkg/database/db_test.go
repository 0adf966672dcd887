package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRedact(t *testing.T) {
	assert.Equal(t, "postgres://db:5432/medops?sslmode=disable", redact("postgres://medops:secret@db:5432/medops?sslmode=disable"))
	assert.Equal(t, "postgres", redact("host=db user=medops password=secret"))
}

func TestNewConnectionPoolRequiresDSN(t *testing.T) {
	_, err := NewConnectionPool(context.Background(), &Config{}, nil)
	assert.Error(t, err)
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{DSN: "postgres://db/medops", MaxIdleConns: 5}.withDefaults()
	assert.Equal(t, 10, cfg.MaxOpenConns)
	assert.Equal(t, 5, cfg.MaxIdleConns)
	assert.Equal(t, 5*time.Minute, cfg.ConnMaxLifetime)
}
