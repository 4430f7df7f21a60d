package memstore

import (
	"context"
	"testing"

	"github.com/avatarctic/movie-recommendation-service/go/internal/core/domain/cache"
	"github.com/stretchr/testify/require"
)

func TestRecencyStore_OrderedMinBreaksTiesByKey(t *testing.T) {
	ctx := context.Background()
	s := NewRecencyStore()
	require.NoError(t, s.SetScore(ctx, "c", 1))
	require.NoError(t, s.SetScore(ctx, "b", 2))
	require.NoError(t, s.SetScore(ctx, "a", 2))

	keys, err := s.GetOrderedMin(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, []string{"c", "a"}, keys)

	keys, err = s.GetOrderedMin(ctx, 10)
	require.NoError(t, err)
	require.Equal(t, []string{"c", "a", "b"}, keys)

	keys, err = s.GetOrderedMin(ctx, 0)
	require.NoError(t, err)
	require.Empty(t, keys)
}

func TestRecencyStore_NextScoreIsMonotonic(t *testing.T) {
	ctx := context.Background()
	s := NewRecencyStore()
	a, err := s.NextScore(ctx)
	require.NoError(t, err)
	require.NoError(t, s.Commit(ctx, cache.Mutation{Put: &cache.Entry{Key: "k", Value: []byte("v"), Score: 100}}))
	b, err := s.NextScore(ctx)
	require.NoError(t, err)
	require.Greater(t, b, a)
	require.Greater(t, b, float64(100))
}

func TestRecencyStore_TouchMissDoesNotIndex(t *testing.T) {
	ctx := context.Background()
	s := NewRecencyStore()
	_, ok, err := s.Touch(ctx, "ghost", 5)
	require.NoError(t, err)
	require.False(t, ok)

	keys, err := s.IndexKeys(ctx)
	require.NoError(t, err)
	require.Empty(t, keys)
}

func TestRecencyStore_CommitRemovesThenPuts(t *testing.T) {
	ctx := context.Background()
	s := NewRecencyStore()
	require.NoError(t, s.Commit(ctx, cache.Mutation{Put: &cache.Entry{Key: "a", Value: []byte("1"), Score: 1}}))
	require.NoError(t, s.Commit(ctx, cache.Mutation{Remove: []string{"a"}, Put: &cache.Entry{Key: "b", Value: []byte("2"), Score: 2}}))

	values, err := s.ValueKeys(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"b"}, values)
	index, err := s.IndexKeys(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"b"}, index)
}

func TestRecencyStore_ValuesAreCopied(t *testing.T) {
	ctx := context.Background()
	s := NewRecencyStore()
	buf := []byte("abc")
	require.NoError(t, s.SetValue(ctx, "k", buf))
	buf[0] = 'z'

	v, ok, err := s.GetValue(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("abc"), v)
}

func TestRecencyStore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := NewRecencyStore()

	_, err := s.CountEntries(ctx)
	require.True(t, cache.IsStoreUnavailable(err))
	err = s.Commit(ctx, cache.Mutation{Put: &cache.Entry{Key: "k"}})
	require.True(t, cache.IsStoreUnavailable(err))
}
