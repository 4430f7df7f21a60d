package ports

import (
	"context"

	"github.com/avatarctic/movie-recommendation-service/go/internal/core/domain/cache"
	"github.com/avatarctic/movie-recommendation-service/go/internal/core/domain/movie"
)

// MovieRepository is the slow, authoritative source of recommendations.
type MovieRepository interface {
	FindByTitle(ctx context.Context, term string, limit int) ([]movie.Movie, error)
}

// RecommendationService serves recommendations cache-aside.
type RecommendationService interface {
	Lookup(ctx context.Context, term string) (*movie.Recommendation, error)
	// Invalidate returns cache.ErrNotFound when nothing is cached for term.
	Invalidate(ctx context.Context, term string) error
	ClearCache(ctx context.Context) error
	CacheStats(ctx context.Context) (*cache.Stats, error)
}
