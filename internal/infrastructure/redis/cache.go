package redis

import (
	"context"
	"time"

	"github.com/avatarctic/movie-recommendation-service/go/internal/core/domain/cache"
	"github.com/go-redis/redis/v8"
)

// RedisCache implements ports.Cache with plain string keys and per-key TTL.
// It backs the short-lived user lookups; recommendations use RecencyStore.
type RedisCache struct {
	r       redis.Cmdable
	prefix  string
	timeout time.Duration
}

// NewRedisCache creates a new Redis-backed cache. timeout <= 0 leaves calls
// bounded only by the client's own read/write timeouts.
func NewRedisCache(r redis.Cmdable, prefix string, timeout time.Duration) *RedisCache {
	return &RedisCache{r: r, prefix: prefix, timeout: timeout}
}

func (c *RedisCache) namespaced(key string) string {
	if c.prefix == "" {
		return key
	}
	return c.prefix + ":" + key
}

func (c *RedisCache) bounded(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

// Get implements Cache.Get.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	ctx, cancel := c.bounded(ctx)
	defer cancel()
	val, err := c.r.Get(ctx, c.namespaced(key)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, &cache.StoreUnavailableError{Op: "get", Err: err}
	}
	return val, true, nil
}

// Set implements Cache.Set.
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	ctx, cancel := c.bounded(ctx)
	defer cancel()
	if err := c.r.Set(ctx, c.namespaced(key), value, ttl).Err(); err != nil {
		return &cache.StoreUnavailableError{Op: "set", Err: err}
	}
	return nil
}

// Delete implements Cache.Delete.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	ctx, cancel := c.bounded(ctx)
	defer cancel()
	if err := c.r.Del(ctx, c.namespaced(key)).Err(); err != nil {
		return &cache.StoreUnavailableError{Op: "delete", Err: err}
	}
	return nil
}
