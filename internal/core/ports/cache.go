package ports

import (
	"context"
	"time"

	"github.com/avatarctic/movie-recommendation-service/go/internal/core/domain/cache"
)

// Cache defines a minimal key-value cache contract with per-key TTL.
// Implementations should degrade gracefully (returning an error without crashing callers)
// so that application logic can fall back to the primary datastore.
type Cache interface {
	// Get returns the raw bytes for key. ok=false if not found.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores value for key with TTL (0 or negative means no expiration if supported).
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete removes the key; absence is not an error.
	Delete(ctx context.Context, key string) error
}

// RecencyStore is the backing medium of the LRU cache: a value map plus a
// score-ordered recency index that must always hold the same key set.
// Every call is bounded by a timeout; failures are *cache.StoreUnavailableError.
type RecencyStore interface {
	GetValue(ctx context.Context, key string) ([]byte, bool, error)
	SetValue(ctx context.Context, key string, value []byte) error
	DeleteValue(ctx context.Context, key string) error
	// GetOrderedMin returns up to n keys with the lowest scores, ascending.
	// Equal scores are ordered by ascending key.
	GetOrderedMin(ctx context.Context, n int) ([]string, error)
	SetScore(ctx context.Context, key string, score float64) error
	DeleteScore(ctx context.Context, key string) error
	CountEntries(ctx context.Context) (int64, error)
	Contains(ctx context.Context, key string) (bool, error)
	// NextScore returns a score strictly greater than every score issued before.
	NextScore(ctx context.Context) (float64, error)

	// Touch atomically reads key's value and, only if it exists, sets its score.
	Touch(ctx context.Context, key string, score float64) ([]byte, bool, error)
	// Commit applies m atomically: either every change lands or none does.
	Commit(ctx context.Context, m cache.Mutation) error
	// Clear removes every value and every recency entry.
	Clear(ctx context.Context) error

	ValueKeys(ctx context.Context) ([]string, error)
	IndexKeys(ctx context.Context) ([]string, error)
}

// LRUCache is a fixed-capacity cache evicting the least recently used key.
type LRUCache interface {
	// Get returns cache.ErrNotFound when key is absent and marks key most recent otherwise.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// Delete returns cache.ErrNotFound when key is absent.
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	Stats(ctx context.Context) (*cache.Stats, error)
}

// CacheMetrics receives LRU cache events. Implementations must be safe for concurrent use.
type CacheMetrics interface {
	Hit()
	Miss()
	Evicted(n int)
	StoreError(op string)
	Size(n int64)
}
