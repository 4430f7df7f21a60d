// Package memstore provides an in-process ports.RecencyStore. It mirrors the
// Redis store's semantics, including key-ordered ties, and serves as the
// single-node backend and as the store used by cache tests.
package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/avatarctic/movie-recommendation-service/go/internal/core/domain/cache"
	"github.com/avatarctic/movie-recommendation-service/go/internal/core/ports"
)

var _ ports.RecencyStore = (*RecencyStore)(nil)

type RecencyStore struct {
	mu     sync.RWMutex
	values map[string][]byte
	scores map[string]float64
	seq    float64
}

func NewRecencyStore() *RecencyStore {
	return &RecencyStore{
		values: make(map[string][]byte),
		scores: make(map[string]float64),
	}
}

func (s *RecencyStore) GetValue(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, &cache.StoreUnavailableError{Op: "get_value", Err: err}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return clone(v), ok, nil
}

func (s *RecencyStore) SetValue(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return &cache.StoreUnavailableError{Op: "set_value", Err: err}
	}
	s.mu.Lock()
	s.values[key] = clone(value)
	s.mu.Unlock()
	return nil
}

func (s *RecencyStore) DeleteValue(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return &cache.StoreUnavailableError{Op: "delete_value", Err: err}
	}
	s.mu.Lock()
	delete(s.values, key)
	s.mu.Unlock()
	return nil
}

func (s *RecencyStore) GetOrderedMin(ctx context.Context, n int) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, &cache.StoreUnavailableError{Op: "get_ordered_min", Err: err}
	}
	if n <= 0 {
		return nil, nil
	}
	s.mu.RLock()
	keys := make([]string, 0, len(s.scores))
	for k := range s.scores {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		si, sj := s.scores[keys[i]], s.scores[keys[j]]
		if si != sj {
			return si < sj
		}
		return keys[i] < keys[j]
	})
	s.mu.RUnlock()
	if len(keys) > n {
		keys = keys[:n]
	}
	return keys, nil
}

func (s *RecencyStore) SetScore(ctx context.Context, key string, score float64) error {
	if err := ctx.Err(); err != nil {
		return &cache.StoreUnavailableError{Op: "set_score", Err: err}
	}
	s.mu.Lock()
	s.scores[key] = score
	if score > s.seq {
		s.seq = score
	}
	s.mu.Unlock()
	return nil
}

func (s *RecencyStore) DeleteScore(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return &cache.StoreUnavailableError{Op: "delete_score", Err: err}
	}
	s.mu.Lock()
	delete(s.scores, key)
	s.mu.Unlock()
	return nil
}

func (s *RecencyStore) CountEntries(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, &cache.StoreUnavailableError{Op: "count_entries", Err: err}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.values)), nil
}

func (s *RecencyStore) Contains(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, &cache.StoreUnavailableError{Op: "contains", Err: err}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.values[key]
	return ok, nil
}

func (s *RecencyStore) NextScore(ctx context.Context) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, &cache.StoreUnavailableError{Op: "next_score", Err: err}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return s.seq, nil
}

func (s *RecencyStore) Touch(ctx context.Context, key string, score float64) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, &cache.StoreUnavailableError{Op: "touch", Err: err}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	if !ok {
		return nil, false, nil
	}
	if _, indexed := s.scores[key]; indexed {
		s.scores[key] = score
	}
	return clone(v), true, nil
}

func (s *RecencyStore) Commit(ctx context.Context, m cache.Mutation) error {
	if err := ctx.Err(); err != nil {
		return &cache.StoreUnavailableError{Op: "commit", Err: err}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range m.Remove {
		delete(s.values, k)
		delete(s.scores, k)
	}
	if m.Put != nil {
		s.values[m.Put.Key] = clone(m.Put.Value)
		s.scores[m.Put.Key] = m.Put.Score
		if m.Put.Score > s.seq {
			s.seq = m.Put.Score
		}
	}
	return nil
}

func (s *RecencyStore) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return &cache.StoreUnavailableError{Op: "clear", Err: err}
	}
	s.mu.Lock()
	s.values = make(map[string][]byte)
	s.scores = make(map[string]float64)
	s.mu.Unlock()
	return nil
}

func (s *RecencyStore) ValueKeys(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, &cache.StoreUnavailableError{Op: "value_keys", Err: err}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedKeys(s.values), nil
}

func (s *RecencyStore) IndexKeys(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, &cache.StoreUnavailableError{Op: "index_keys", Err: err}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedKeys(s.scores), nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
