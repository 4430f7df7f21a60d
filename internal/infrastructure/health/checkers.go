package health

import (
	"context"

	"github.com/avatarctic/movie-recommendation-service/go/internal/core/ports"
	infraDB "github.com/avatarctic/movie-recommendation-service/go/internal/infrastructure/db"
	"github.com/go-redis/redis/v8"
)

// dbHealthChecker wraps the database for health checks.
type dbHealthChecker struct{ db *infraDB.Database }

func (d *dbHealthChecker) Name() string                    { return "database" }
func (d *dbHealthChecker) Check(ctx context.Context) error { return d.db.DB.PingContext(ctx) }

// redisHealthChecker wraps the redis client for health checks.
type redisHealthChecker struct{ client redis.Cmdable }

func (r *redisHealthChecker) Name() string                    { return "redis" }
func (r *redisHealthChecker) Check(ctx context.Context) error { return r.client.Ping(ctx).Err() }

// NewDBHealthChecker creates a health checker for the database.
func NewDBHealthChecker(db *infraDB.Database) ports.HealthChecker { return &dbHealthChecker{db: db} }

// NewRedisHealthChecker creates a health checker for Redis.
func NewRedisHealthChecker(client redis.Cmdable) ports.HealthChecker {
	return &redisHealthChecker{client: client}
}

// cacheHealthChecker reports the LRU cache as healthy when its stats are readable.
type cacheHealthChecker struct{ cache ports.LRUCache }

func (c *cacheHealthChecker) Name() string { return "lru_cache" }
func (c *cacheHealthChecker) Check(ctx context.Context) error {
	_, err := c.cache.Stats(ctx)
	return err
}

// NewCacheHealthChecker creates a health checker for the recommendation cache.
func NewCacheHealthChecker(cache ports.LRUCache) ports.HealthChecker {
	return &cacheHealthChecker{cache: cache}
}
