package redis

import (
	"context"
	"time"

	"github.com/avatarctic/movie-recommendation-service/go/internal/core/domain/cache"
	"github.com/avatarctic/movie-recommendation-service/go/internal/core/ports"
	"github.com/go-redis/redis/v8"
)

var _ ports.RecencyStore = (*RecencyStore)(nil)

// RecencyStore implements ports.RecencyStore with three Redis keys:
//
//	<ns>      HASH  key -> payload
//	<ns>_lru  ZSET  key -> recency score
//	<ns>_seq  STRING monotonic score counter
//
// Multi-key changes go through MULTI/EXEC so the hash and the sorted set
// never diverge. Redis orders equal ZSET scores by member, which gives the
// ascending-key tie-break for free.
type RecencyStore struct {
	r         redis.Cmdable
	valuesKey string
	indexKey  string
	seqKey    string
	timeout   time.Duration
	ttl       time.Duration
}

// NewRecencyStore creates a store under namespace. Every Redis round trip is
// bounded by timeout. A positive ttl expires the whole namespace (both
// structures together) ttl after the last write.
func NewRecencyStore(r redis.Cmdable, namespace string, timeout, ttl time.Duration) *RecencyStore {
	if namespace == "" {
		namespace = "lru_cache"
	}
	return &RecencyStore{
		r:         r,
		valuesKey: namespace,
		indexKey:  namespace + "_lru",
		seqKey:    namespace + "_seq",
		timeout:   timeout,
		ttl:       ttl,
	}
}

func (s *RecencyStore) bounded(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

func unavailable(op string, err error) error {
	return &cache.StoreUnavailableError{Op: op, Err: err}
}

func (s *RecencyStore) GetValue(ctx context.Context, key string) ([]byte, bool, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()
	val, err := s.r.HGet(ctx, s.valuesKey, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, unavailable("get_value", err)
	}
	return val, true, nil
}

func (s *RecencyStore) SetValue(ctx context.Context, key string, value []byte) error {
	ctx, cancel := s.bounded(ctx)
	defer cancel()
	if err := s.r.HSet(ctx, s.valuesKey, key, value).Err(); err != nil {
		return unavailable("set_value", err)
	}
	return nil
}

func (s *RecencyStore) DeleteValue(ctx context.Context, key string) error {
	ctx, cancel := s.bounded(ctx)
	defer cancel()
	if err := s.r.HDel(ctx, s.valuesKey, key).Err(); err != nil {
		return unavailable("delete_value", err)
	}
	return nil
}

func (s *RecencyStore) GetOrderedMin(ctx context.Context, n int) ([]string, error) {
	if n <= 0 {
		return nil, nil
	}
	ctx, cancel := s.bounded(ctx)
	defer cancel()
	keys, err := s.r.ZRange(ctx, s.indexKey, 0, int64(n-1)).Result()
	if err != nil {
		return nil, unavailable("get_ordered_min", err)
	}
	return keys, nil
}

func (s *RecencyStore) SetScore(ctx context.Context, key string, score float64) error {
	ctx, cancel := s.bounded(ctx)
	defer cancel()
	if err := s.r.ZAdd(ctx, s.indexKey, &redis.Z{Score: score, Member: key}).Err(); err != nil {
		return unavailable("set_score", err)
	}
	return nil
}

func (s *RecencyStore) DeleteScore(ctx context.Context, key string) error {
	ctx, cancel := s.bounded(ctx)
	defer cancel()
	if err := s.r.ZRem(ctx, s.indexKey, key).Err(); err != nil {
		return unavailable("delete_score", err)
	}
	return nil
}

func (s *RecencyStore) CountEntries(ctx context.Context) (int64, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()
	n, err := s.r.HLen(ctx, s.valuesKey).Result()
	if err != nil {
		return 0, unavailable("count_entries", err)
	}
	return n, nil
}

func (s *RecencyStore) Contains(ctx context.Context, key string) (bool, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()
	ok, err := s.r.HExists(ctx, s.valuesKey, key).Result()
	if err != nil {
		return false, unavailable("contains", err)
	}
	return ok, nil
}

func (s *RecencyStore) NextScore(ctx context.Context) (float64, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()
	n, err := s.r.Incr(ctx, s.seqKey).Result()
	if err != nil {
		return 0, unavailable("next_score", err)
	}
	return float64(n), nil
}

func (s *RecencyStore) Touch(ctx context.Context, key string, score float64) ([]byte, bool, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()
	var get *redis.StringCmd
	_, err := s.r.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		get = pipe.HGet(ctx, s.valuesKey, key)
		// XX: never create a recency entry for a key without a value.
		pipe.ZAddXX(ctx, s.indexKey, &redis.Z{Score: score, Member: key})
		return nil
	})
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, unavailable("touch", err)
	}
	val, err := get.Bytes()
	if err != nil {
		return nil, false, unavailable("touch", err)
	}
	return val, true, nil
}

func (s *RecencyStore) Commit(ctx context.Context, m cache.Mutation) error {
	if len(m.Remove) == 0 && m.Put == nil {
		return nil
	}
	ctx, cancel := s.bounded(ctx)
	defer cancel()
	_, err := s.r.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if len(m.Remove) > 0 {
			members := make([]interface{}, len(m.Remove))
			for i, k := range m.Remove {
				members[i] = k
			}
			pipe.HDel(ctx, s.valuesKey, m.Remove...)
			pipe.ZRem(ctx, s.indexKey, members...)
		}
		if m.Put != nil {
			pipe.HSet(ctx, s.valuesKey, m.Put.Key, m.Put.Value)
			pipe.ZAdd(ctx, s.indexKey, &redis.Z{Score: m.Put.Score, Member: m.Put.Key})
			if s.ttl > 0 {
				pipe.Expire(ctx, s.valuesKey, s.ttl)
				pipe.Expire(ctx, s.indexKey, s.ttl)
			}
		}
		return nil
	})
	if err != nil {
		return unavailable("commit", err)
	}
	return nil
}

func (s *RecencyStore) Clear(ctx context.Context) error {
	ctx, cancel := s.bounded(ctx)
	defer cancel()
	if err := s.r.Del(ctx, s.valuesKey, s.indexKey).Err(); err != nil {
		return unavailable("clear", err)
	}
	return nil
}

func (s *RecencyStore) ValueKeys(ctx context.Context) ([]string, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()
	keys, err := s.r.HKeys(ctx, s.valuesKey).Result()
	if err != nil {
		return nil, unavailable("value_keys", err)
	}
	return keys, nil
}

func (s *RecencyStore) IndexKeys(ctx context.Context) ([]string, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()
	keys, err := s.r.ZRange(ctx, s.indexKey, 0, -1).Result()
	if err != nil {
		return nil, unavailable("index_keys", err)
	}
	return keys, nil
}
