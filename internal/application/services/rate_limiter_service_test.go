package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	impl "github.com/avatarctic/movie-recommendation-service/go/internal/application/services"
	"github.com/avatarctic/movie-recommendation-service/go/test/mocks"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_BlocksAboveLimit(t *testing.T) {
	count := 0
	repo := &mocks.RateLimitRepositoryMock{IncrementWindowFn: func(ctx context.Context, subject string, window time.Duration, keyPrefix string, ttl time.Duration) (int, time.Time, error) {
		require.Equal(t, "10.0.0.1", subject)
		require.Equal(t, "rl", keyPrefix)
		require.Equal(t, 2*window, ttl)
		count++
		return count, time.Now().Truncate(window), nil
	}}
	svc := impl.NewRateLimiterService(repo, &impl.RateLimiterConfig{RequestsPerWindow: 2, Window: time.Minute, KeyPrefix: "rl"}, nil)

	allowed, remaining, limit, _, err := svc.Allow(context.Background(), "10.0.0.1")
	require.NoError(t, err)
	require.True(t, allowed)
	require.Equal(t, 1, remaining)
	require.Equal(t, 2, limit)

	allowed, remaining, _, _, err = svc.Allow(context.Background(), "10.0.0.1")
	require.NoError(t, err)
	require.True(t, allowed)
	require.Zero(t, remaining)

	allowed, _, _, _, err = svc.Allow(context.Background(), "10.0.0.1")
	require.NoError(t, err)
	require.False(t, allowed)
}

func TestRateLimiter_FailsOpen(t *testing.T) {
	repo := &mocks.RateLimitRepositoryMock{IncrementWindowFn: func(ctx context.Context, subject string, window time.Duration, keyPrefix string, ttl time.Duration) (int, time.Time, error) {
		return 0, time.Now(), errors.New("redis down")
	}}
	svc := impl.NewRateLimiterService(repo, nil, nil)

	allowed, _, limit, _, err := svc.Allow(context.Background(), "ip")
	require.Error(t, err)
	require.True(t, allowed)
	require.Equal(t, 20, limit)
}
