package services_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	impl "github.com/avatarctic/movie-recommendation-service/go/internal/application/services"
	"github.com/avatarctic/movie-recommendation-service/go/internal/core/domain/cache"
	"github.com/avatarctic/movie-recommendation-service/go/internal/core/domain/movie"
	"github.com/avatarctic/movie-recommendation-service/go/test/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestLookup_DBThenCache(t *testing.T) {
	ctx := context.Background()
	lru, _ := newTestLRU(t, 4)
	var calls atomic.Int32
	repo := &mocks.MovieRepositoryMock{FindByTitleFn: func(ctx context.Context, term string, limit int) ([]movie.Movie, error) {
		calls.Add(1)
		require.Equal(t, "X", term)
		require.Equal(t, 10, limit)
		return []movie.Movie{{Title: "X"}}, nil
	}}
	svc := impl.NewRecommendationService(lru, repo, nil, logrus.New())

	first, err := svc.Lookup(ctx, "X")
	require.NoError(t, err)
	require.Equal(t, movie.SourceDB, first.Source)
	require.Equal(t, []movie.Movie{{Title: "X"}}, first.Result)

	second, err := svc.Lookup(ctx, "X")
	require.NoError(t, err)
	require.Equal(t, movie.SourceCache, second.Source)
	require.Equal(t, first.Result, second.Result)
	require.EqualValues(t, 1, calls.Load())
}

func TestLookup_DataSourceFailureLeavesCacheEmpty(t *testing.T) {
	ctx := context.Background()
	lru, _ := newTestLRU(t, 4)
	dbErr := errors.New("connection refused")
	repo := &mocks.MovieRepositoryMock{FindByTitleFn: func(ctx context.Context, term string, limit int) ([]movie.Movie, error) {
		return nil, dbErr
	}}
	svc := impl.NewRecommendationService(lru, repo, nil, nil)

	_, err := svc.Lookup(ctx, "Heat")
	require.ErrorIs(t, err, movie.ErrDataSourceUnavailable)
	require.ErrorIs(t, err, dbErr)

	_, err = lru.Peek(ctx, "Heat")
	require.ErrorIs(t, err, cache.ErrNotFound)
}

func TestLookup_CacheReadFailureFallsBackToDB(t *testing.T) {
	lruMock := &mocks.LRUCacheMock{
		GetFn: func(ctx context.Context, key string) ([]byte, error) {
			return nil, &cache.StoreUnavailableError{Op: "get", Err: context.DeadlineExceeded}
		},
	}
	repo := &mocks.MovieRepositoryMock{FindByTitleFn: func(ctx context.Context, term string, limit int) ([]movie.Movie, error) {
		return []movie.Movie{{Title: "Alien"}}, nil
	}}
	svc := impl.NewRecommendationService(lruMock, repo, nil, nil)

	rec, err := svc.Lookup(context.Background(), "Alien")
	require.NoError(t, err)
	require.Equal(t, movie.SourceDB, rec.Source)
}

func TestLookup_CacheWriteFailureIsNotFatal(t *testing.T) {
	var setCalled atomic.Bool
	lruMock := &mocks.LRUCacheMock{
		SetFn: func(ctx context.Context, key string, value []byte) error {
			setCalled.Store(true)
			_, hasDeadline := ctx.Deadline()
			require.True(t, hasDeadline)
			return &cache.StoreUnavailableError{Op: "commit", Err: errors.New("broken pipe")}
		},
	}
	repo := &mocks.MovieRepositoryMock{FindByTitleFn: func(ctx context.Context, term string, limit int) ([]movie.Movie, error) {
		return []movie.Movie{{Title: "Up"}}, nil
	}}
	svc := impl.NewRecommendationService(lruMock, repo, &impl.RecommendationConfig{WriteBackTimeout: time.Second}, logrus.New())

	rec, err := svc.Lookup(context.Background(), "Up")
	require.NoError(t, err)
	require.Equal(t, []movie.Movie{{Title: "Up"}}, rec.Result)
	require.True(t, setCalled.Load())
}

func TestLookup_WriteBackSurvivesCancelledRequest(t *testing.T) {
	lru, _ := newTestLRU(t, 4)
	ctx, cancel := context.WithCancel(context.Background())
	repo := &mocks.MovieRepositoryMock{FindByTitleFn: func(_ context.Context, term string, limit int) ([]movie.Movie, error) {
		cancel()
		return []movie.Movie{{Title: "Jaws"}}, nil
	}}
	svc := impl.NewRecommendationService(lru, repo, nil, nil)

	// The caller may see its own cancellation; the cache is populated either way.
	_, _ = svc.Lookup(ctx, "Jaws")

	require.Eventually(t, func() bool {
		_, err := lru.Peek(context.Background(), "Jaws")
		return err == nil
	}, time.Second, 10*time.Millisecond)
}

func TestLookup_CancelledFirstCallerDoesNotFailCoalescedCallers(t *testing.T) {
	lru, _ := newTestLRU(t, 4)
	release := make(chan struct{})
	var calls atomic.Int32
	repo := &mocks.MovieRepositoryMock{FindByTitleFn: func(ctx context.Context, term string, limit int) ([]movie.Movie, error) {
		calls.Add(1)
		select {
		case <-release:
			return []movie.Movie{{Title: "Heat"}}, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}}
	svc := impl.NewRecommendationService(lru, repo, &impl.RecommendationConfig{FetchTimeout: 5 * time.Second}, nil)

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := svc.Lookup(firstCtx, "Heat")
		firstErr <- err
	}()
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	type result struct {
		rec *movie.Recommendation
		err error
	}
	second := make(chan result, 1)
	go func() {
		rec, err := svc.Lookup(context.Background(), "Heat")
		second <- result{rec, err}
	}()
	time.Sleep(50 * time.Millisecond)

	cancelFirst()
	require.ErrorIs(t, <-firstErr, context.Canceled)

	close(release)
	got := <-second
	require.NoError(t, got.err)
	require.Equal(t, "Heat", got.rec.Result[0].Title)
	require.EqualValues(t, 1, calls.Load())
}

func TestLookup_SharedFetchIsBoundedByFetchTimeout(t *testing.T) {
	lru, _ := newTestLRU(t, 4)
	repo := &mocks.MovieRepositoryMock{FindByTitleFn: func(ctx context.Context, term string, limit int) ([]movie.Movie, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}}
	svc := impl.NewRecommendationService(lru, repo, &impl.RecommendationConfig{FetchTimeout: 50 * time.Millisecond}, nil)

	_, err := svc.Lookup(context.Background(), "Heat")
	require.ErrorIs(t, err, movie.ErrDataSourceUnavailable)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLookup_CorruptEntryIsDroppedAndRefetched(t *testing.T) {
	ctx := context.Background()
	lru, _ := newTestLRU(t, 4)
	require.NoError(t, lru.Set(ctx, "Rocky", []byte("{not json")))
	repo := &mocks.MovieRepositoryMock{FindByTitleFn: func(ctx context.Context, term string, limit int) ([]movie.Movie, error) {
		return []movie.Movie{{Title: "Rocky"}}, nil
	}}
	svc := impl.NewRecommendationService(lru, repo, nil, nil)

	rec, err := svc.Lookup(ctx, "Rocky")
	require.NoError(t, err)
	require.Equal(t, movie.SourceDB, rec.Source)

	rec, err = svc.Lookup(ctx, "Rocky")
	require.NoError(t, err)
	require.Equal(t, movie.SourceCache, rec.Source)
}

func TestLookup_EmptyTerm(t *testing.T) {
	svc := impl.NewRecommendationService(&mocks.LRUCacheMock{}, &mocks.MovieRepositoryMock{}, nil, nil)
	_, err := svc.Lookup(context.Background(), "   ")
	require.ErrorIs(t, err, movie.ErrInvalidTerm)
}

func TestLookup_EmptyResultIsCachedAsEmptyList(t *testing.T) {
	ctx := context.Background()
	lru, _ := newTestLRU(t, 4)
	svc := impl.NewRecommendationService(lru, &mocks.MovieRepositoryMock{FindByTitleFn: func(ctx context.Context, term string, limit int) ([]movie.Movie, error) {
		return nil, nil
	}}, nil, nil)

	rec, err := svc.Lookup(ctx, "zzz")
	require.NoError(t, err)
	require.NotNil(t, rec.Result)
	require.Empty(t, rec.Result)

	raw, err := lru.Peek(ctx, "zzz")
	require.NoError(t, err)
	require.JSONEq(t, `[]`, string(raw))
}

func TestLookup_ConcurrentMissesHitDataSourceOnce(t *testing.T) {
	lru, _ := newTestLRU(t, 4)
	release := make(chan struct{})
	var calls atomic.Int32
	repo := &mocks.MovieRepositoryMock{FindByTitleFn: func(ctx context.Context, term string, limit int) ([]movie.Movie, error) {
		calls.Add(1)
		<-release
		return []movie.Movie{{Title: "Heat"}}, nil
	}}
	svc := impl.NewRecommendationService(lru, repo, nil, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec, err := svc.Lookup(context.Background(), "Heat")
			require.NoError(t, err)
			require.Equal(t, "Heat", rec.Result[0].Title)
		}()
	}
	time.Sleep(100 * time.Millisecond)
	close(release)
	wg.Wait()

	require.EqualValues(t, 1, calls.Load())
}

func TestInvalidateAndClear(t *testing.T) {
	ctx := context.Background()
	lru, _ := newTestLRU(t, 4)
	svc := impl.NewRecommendationService(lru, &mocks.MovieRepositoryMock{}, nil, nil)

	require.ErrorIs(t, svc.Invalidate(ctx, "nothing"), cache.ErrNotFound)
	require.ErrorIs(t, svc.Invalidate(ctx, " "), movie.ErrInvalidTerm)

	_, err := svc.Lookup(ctx, "a")
	require.NoError(t, err)
	_, err = svc.Lookup(ctx, "b")
	require.NoError(t, err)

	stats, err := svc.CacheStats(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(2), stats.Size)
	require.Equal(t, 4, stats.Capacity)

	require.NoError(t, svc.Invalidate(ctx, "a"))
	require.NoError(t, svc.ClearCache(ctx))
	stats, err = svc.CacheStats(ctx)
	require.NoError(t, err)
	require.Zero(t, stats.Size)
}

