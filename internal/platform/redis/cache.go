// Package redis holds the Redis-backed byte cache used to memoize external
// ISBN lookups.
package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/bookshelf-api/internal/config"
	goredis "github.com/redis/go-redis/v9"
)

const (
	keyPrefix   = "bookshelf:isbn:"
	pingTimeout = 2 * time.Second
	opTimeout   = 250 * time.Millisecond
)

// Cache stores opaque values under a fixed key prefix with a single TTL.
type Cache struct {
	client  *goredis.Client
	logger  *slog.Logger
	prefix  string
	ttl     time.Duration
	timeout time.Duration
}

// NewCache connects to the configured Redis server and verifies the
// connection with a PING. The caller owns the returned cache and must Close it.
func NewCache(cfg config.CacheConfig, logger *slog.Logger) (*Cache, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.RedisAddr, err)
	}

	return NewCacheWithClient(client, time.Duration(cfg.TTLMinutes)*time.Minute, logger), nil
}

// NewCacheWithClient wraps an existing client.
func NewCacheWithClient(client *goredis.Client, ttl time.Duration, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Cache{
		client:  client,
		logger:  logger.With(slog.String("component", "isbn_cache")),
		prefix:  keyPrefix,
		ttl:     ttl,
		timeout: opTimeout,
	}
}

// Get returns the cached value for key. A miss is reported as found=false
// with a nil error.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	val, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		c.logRedisError("get", err)
		return nil, false, err
	}
	return val, true, nil
}

// Set stores value under key with the cache TTL.
func (c *Cache) Set(ctx context.Context, key string, value []byte) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.client.Set(ctx, c.prefix+key, value, c.ttl).Err(); err != nil {
		c.logRedisError("set", err)
		return err
	}
	return nil
}

// Close releases the underlying connection pool.
func (c *Cache) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}

func (c *Cache) logRedisError(op string, err error) {
	c.logger.Error("redis cache error", slog.String("op", op), slog.String("error", err.Error()))
}
