package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/phrazzld/bookshelf-api/internal/config"
	"github.com/phrazzld/bookshelf-api/internal/platform/redis"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T, ttl time.Duration) (*redis.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	c := redis.NewCacheWithClient(client, ttl, nil)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestCache_GetSet(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	_, found, err := c.Get(ctx, "9780441013593")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.Set(ctx, "9780441013593", []byte(`{"title":"Dune"}`)))

	val, found, err := c.Get(ctx, "9780441013593")
	require.NoError(t, err)
	assert.True(t, found)
	assert.JSONEq(t, `{"title":"Dune"}`, string(val))

	assert.True(t, mr.Exists("bookshelf:isbn:9780441013593"))
	assert.Equal(t, time.Minute, mr.TTL("bookshelf:isbn:9780441013593"))
}

func TestCache_Expiry(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "isbn", []byte("v")))
	mr.FastForward(2 * time.Minute)

	_, found, err := c.Get(ctx, "isbn")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCache_ServerDown(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	mr.Close()

	_, found, err := c.Get(context.Background(), "isbn")
	assert.Error(t, err)
	assert.False(t, found)
	assert.Error(t, c.Set(context.Background(), "isbn", []byte("v")))
}

func TestNewCache(t *testing.T) {
	mr := miniredis.RunT(t)
	c, err := redis.NewCache(config.CacheConfig{RedisAddr: mr.Addr(), TTLMinutes: 5}, nil)
	require.NoError(t, err)
	require.NoError(t, c.Close())

	mr.Close()
	_, err = redis.NewCache(config.CacheConfig{RedisAddr: mr.Addr(), TTLMinutes: 5}, nil)
	assert.Error(t, err)
}
