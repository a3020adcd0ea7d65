// Package redis confines the go-redis dependency. Adapters accept Cmdable
// and build keys through Client.Key so every service shares one namespace.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/libmarket/phonecheck/internal/domain"
)

// Cmdable is a type alias for redis.Cmdable.
type Cmdable = redis.Cmdable

// Nil is returned by go-redis when a key does not exist.
const Nil = redis.Nil

// Config holds the parameters needed to connect to a Redis instance.
type Config struct {
	Addr         string
	Password     domain.SecretString
	DB           int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	KeyPrefix    string
}

// Client wraps a go-redis client.
type Client struct {
	RDB    *redis.Client
	prefix string
}

// NewClient creates a new Redis client configured from cfg.
func NewClient(cfg Config) *Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password.Expose(),
		DB:           cfg.DB,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	return &Client{RDB: rdb, prefix: cfg.KeyPrefix}
}

// Key joins parts under the configured prefix: "libmarket:phone:88123456".
func (c *Client) Key(parts ...string) string {
	return Key(c.prefix, parts...)
}

// Key joins prefix and parts with ':'; an empty prefix is omitted.
func Key(prefix string, parts ...string) string {
	k := prefix
	for _, p := range parts {
		if k == "" {
			k = p
			continue
		}
		k += ":" + p
	}
	return k
}

// Ping verifies connectivity within domain.RedisTimeout.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, domain.RedisTimeout)
	defer cancel()
	if err := c.RDB.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w: %w", domain.ErrUnavailable, err)
	}
	return nil
}

// Close releases the underlying Redis connection.
func (c *Client) Close() error {
	return c.RDB.Close()
}
