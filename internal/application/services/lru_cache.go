package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/avatarctic/movie-recommendation-service/go/internal/core/domain/cache"
	"github.com/avatarctic/movie-recommendation-service/go/internal/core/ports"
	"github.com/sirupsen/logrus"
)

var _ ports.LRUCache = (*LRUCache)(nil)

// LRUCache is a fixed-capacity cache over a ports.RecencyStore. All
// operations run one at a time: the store's value map and recency index are
// separate structures, so the read-check-write sequence of Set must not
// interleave with any other operation.
type LRUCache struct {
	store    ports.RecencyStore
	capacity int
	logger   *logrus.Logger
	metrics  ports.CacheMetrics
	// one-slot semaphore; unlike sync.Mutex, waiting honours ctx
	sem chan struct{}
}

type LRUOption func(*LRUCache)

func WithCacheLogger(logger *logrus.Logger) LRUOption {
	return func(c *LRUCache) { c.logger = logger }
}

func WithCacheMetrics(m ports.CacheMetrics) LRUOption {
	return func(c *LRUCache) {
		if m != nil {
			c.metrics = m
		}
	}
}

// NewLRUCache returns cache.ErrInvalidCapacity when capacity <= 0.
func NewLRUCache(store ports.RecencyStore, capacity int, opts ...LRUOption) (*LRUCache, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: got %d", cache.ErrInvalidCapacity, capacity)
	}
	if store == nil {
		return nil, errors.New("lru cache: nil store")
	}
	c := &LRUCache{
		store:    store,
		capacity: capacity,
		metrics:  noopCacheMetrics{},
		sem:      make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *LRUCache) Capacity() int { return c.capacity }

func (c *LRUCache) lock(ctx context.Context) error {
	select {
	case c.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return &cache.StoreUnavailableError{Op: "lock", Err: ctx.Err()}
	}
}

func (c *LRUCache) unlock() { <-c.sem }

// Get returns the value for key and marks it most recently used.
func (c *LRUCache) Get(ctx context.Context, key string) ([]byte, error) {
	if err := c.lock(ctx); err != nil {
		return nil, err
	}
	defer c.unlock()

	score, err := c.store.NextScore(ctx)
	if err != nil {
		return nil, c.storeFailure("get", key, err)
	}
	val, ok, err := c.store.Touch(ctx, key, score)
	if err != nil {
		return nil, c.storeFailure("get", key, err)
	}
	if !ok {
		c.metrics.Miss()
		return nil, cache.ErrNotFound
	}
	c.metrics.Hit()
	return val, nil
}

// Peek returns the value for key without changing its recency.
func (c *LRUCache) Peek(ctx context.Context, key string) ([]byte, error) {
	if err := c.lock(ctx); err != nil {
		return nil, err
	}
	defer c.unlock()

	val, ok, err := c.store.GetValue(ctx, key)
	if err != nil {
		return nil, c.storeFailure("peek", key, err)
	}
	if !ok {
		return nil, cache.ErrNotFound
	}
	return val, nil
}

// Set writes key and marks it most recently used. When key is new and the
// cache is full, the least recently used entry is evicted in the same
// atomic store commit as the write.
func (c *LRUCache) Set(ctx context.Context, key string, value []byte) error {
	if err := c.lock(ctx); err != nil {
		return err
	}
	defer c.unlock()

	exists, err := c.store.Contains(ctx, key)
	if err != nil {
		return c.storeFailure("set", key, err)
	}

	var victims []string
	size := int64(-1)
	if !exists {
		count, err := c.store.CountEntries(ctx)
		if err != nil {
			return c.storeFailure("set", key, err)
		}
		if count >= int64(c.capacity) {
			// Normally exactly one; more only if another writer overfilled the namespace.
			victims, err = c.store.GetOrderedMin(ctx, int(count-int64(c.capacity))+1)
			if err != nil {
				return c.storeFailure("set", key, err)
			}
		}
		size = count + 1 - int64(len(victims))
	}

	score, err := c.store.NextScore(ctx)
	if err != nil {
		return c.storeFailure("set", key, err)
	}

	mutation := cache.Mutation{
		Remove: victims,
		Put:    &cache.Entry{Key: key, Value: value, Score: score},
	}
	if err := c.store.Commit(ctx, mutation); err != nil {
		return c.storeFailure("set", key, err)
	}

	if len(victims) > 0 {
		c.metrics.Evicted(len(victims))
		if c.logger != nil {
			c.logger.WithFields(logrus.Fields{"key": key, "evicted": victims}).Debug("lru cache: evicted least recently used entries")
		}
	}
	if size >= 0 {
		c.metrics.Size(size)
	}
	return nil
}

// Delete removes key. It returns cache.ErrNotFound when key is absent.
func (c *LRUCache) Delete(ctx context.Context, key string) error {
	if err := c.lock(ctx); err != nil {
		return err
	}
	defer c.unlock()

	exists, err := c.store.Contains(ctx, key)
	if err != nil {
		return c.storeFailure("delete", key, err)
	}
	if !exists {
		return cache.ErrNotFound
	}
	if err := c.store.Commit(ctx, cache.Mutation{Remove: []string{key}}); err != nil {
		return c.storeFailure("delete", key, err)
	}
	return nil
}

// Clear removes every entry.
func (c *LRUCache) Clear(ctx context.Context) error {
	if err := c.lock(ctx); err != nil {
		return err
	}
	defer c.unlock()

	if err := c.store.Clear(ctx); err != nil {
		return c.storeFailure("clear", "", err)
	}
	c.metrics.Size(0)
	return nil
}

func (c *LRUCache) Len(ctx context.Context) (int64, error) {
	n, err := c.store.CountEntries(ctx)
	if err != nil {
		return 0, c.storeFailure("len", "", err)
	}
	return n, nil
}

func (c *LRUCache) Stats(ctx context.Context) (*cache.Stats, error) {
	n, err := c.Len(ctx)
	if err != nil {
		return nil, err
	}
	return &cache.Stats{Size: n, Capacity: c.capacity}, nil
}

// Reconcile repairs a namespace written by something other than this cache
// (an older deployment, a manual edit): recency entries without a value are
// dropped, values without a recency entry are indexed as least recent, and
// anything beyond capacity is evicted. It returns the number of keys touched.
func (c *LRUCache) Reconcile(ctx context.Context) (int, error) {
	if err := c.lock(ctx); err != nil {
		return 0, err
	}
	defer c.unlock()

	valueKeys, err := c.store.ValueKeys(ctx)
	if err != nil {
		return 0, c.storeFailure("reconcile", "", err)
	}
	indexKeys, err := c.store.IndexKeys(ctx)
	if err != nil {
		return 0, c.storeFailure("reconcile", "", err)
	}

	values := make(map[string]struct{}, len(valueKeys))
	for _, k := range valueKeys {
		values[k] = struct{}{}
	}
	indexed := make(map[string]struct{}, len(indexKeys))
	for _, k := range indexKeys {
		indexed[k] = struct{}{}
	}

	repaired := 0
	for _, k := range indexKeys {
		if _, ok := values[k]; ok {
			continue
		}
		if err := c.store.DeleteScore(ctx, k); err != nil {
			return repaired, c.storeFailure("reconcile", k, err)
		}
		repaired++
	}
	for _, k := range valueKeys {
		if _, ok := indexed[k]; ok {
			continue
		}
		// score 0 sorts below every issued score
		if err := c.store.SetScore(ctx, k, 0); err != nil {
			return repaired, c.storeFailure("reconcile", k, err)
		}
		repaired++
	}

	if over := len(valueKeys) - c.capacity; over > 0 {
		victims, err := c.store.GetOrderedMin(ctx, over)
		if err != nil {
			return repaired, c.storeFailure("reconcile", "", err)
		}
		if err := c.store.Commit(ctx, cache.Mutation{Remove: victims}); err != nil {
			return repaired, c.storeFailure("reconcile", "", err)
		}
		c.metrics.Evicted(len(victims))
		repaired += len(victims)
	}

	if c.logger != nil && repaired > 0 {
		c.logger.WithFields(logrus.Fields{"repaired": repaired, "capacity": c.capacity}).Info("lru cache: reconciled store")
	}
	return repaired, nil
}

func (c *LRUCache) storeFailure(op, key string, err error) error {
	c.metrics.StoreError(op)
	if c.logger != nil {
		c.logger.WithFields(logrus.Fields{"op": op, "key": key}).WithError(err).Warn("lru cache: store call failed")
	}
	if cache.IsStoreUnavailable(err) {
		return err
	}
	return &cache.StoreUnavailableError{Op: op, Err: err}
}

type noopCacheMetrics struct{}

func (noopCacheMetrics) Hit()              {}
func (noopCacheMetrics) Miss()             {}
func (noopCacheMetrics) Evicted(int)       {}
func (noopCacheMetrics) StoreError(string) {}
func (noopCacheMetrics) Size(int64)        {}
