package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"

	"github.com/aryan0dhankhar/medops/internal/reliability/circuitbreaker"
)

// Client stores durable slots as plain Redis string keys.
type Client struct {
	rdb    *redis.Client
	prefix string
	cb     *gobreaker.CircuitBreaker
	logger *slog.Logger
}

// NewClient connects to url and verifies the connection. Keys are stored as
// prefix+slot so several deployments can share one database.
func NewClient(url, prefix string, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("redis slot store connected", slog.String("addr", opts.Addr), slog.String("prefix", prefix))
	return &Client{
		rdb:    rdb,
		prefix: prefix,
		cb:     circuitbreaker.New("redis-slots", logger),
		logger: logger,
	}, nil
}

type getResult struct {
	value string
	ok    bool
}

// Get retrieves a slot. A missing key is not an error.
func (c *Client) Get(ctx context.Context, key string) (string, bool, error) {
	res, err := circuitbreaker.Query(c.cb, func() (getResult, error) {
		v, err := c.rdb.Get(ctx, c.prefix+key).Result()
		if errors.Is(err, redis.Nil) {
			return getResult{}, nil
		}
		if err != nil {
			return getResult{}, err
		}
		return getResult{value: v, ok: true}, nil
	})
	if err != nil {
		return "", false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return res.value, res.ok, nil
}

// Set stores a slot without expiry.
func (c *Client) Set(ctx context.Context, key, value string) error {
	err := circuitbreaker.Execute(c.cb, func() error {
		return c.rdb.Set(ctx, c.prefix+key, value, 0).Err()
	})
	if err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Delete removes a slot.
func (c *Client) Delete(ctx context.Context, key string) error {
	err := circuitbreaker.Execute(c.cb, func() error {
		return c.rdb.Del(ctx, c.prefix+key).Err()
	})
	if err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

// Ping checks connectivity
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}
