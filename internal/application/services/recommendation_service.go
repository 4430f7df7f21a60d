package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/avatarctic/movie-recommendation-service/go/internal/core/domain/cache"
	"github.com/avatarctic/movie-recommendation-service/go/internal/core/domain/movie"
	"github.com/avatarctic/movie-recommendation-service/go/internal/core/ports"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// RecommendationConfig groups the lookup tunables.
type RecommendationConfig struct {
	Limit            int
	FetchTimeout     time.Duration
	WriteBackTimeout time.Duration
}

// RecommendationService serves movie recommendations cache-aside: the LRU
// cache is consulted first and populated after every successful fetch from
// the movie repository.
type RecommendationService struct {
	cache            ports.LRUCache
	movies           ports.MovieRepository
	limit            int
	fetchTimeout     time.Duration
	writeBackTimeout time.Duration
	logger           *logrus.Logger
	group            singleflight.Group
}

func NewRecommendationService(lru ports.LRUCache, movies ports.MovieRepository, cfg *RecommendationConfig, logger *logrus.Logger) *RecommendationService {
	limit := 10
	fetch := 5 * time.Second
	wb := 2 * time.Second
	if cfg != nil {
		if cfg.Limit > 0 {
			limit = cfg.Limit
		}
		if cfg.FetchTimeout > 0 {
			fetch = cfg.FetchTimeout
		}
		if cfg.WriteBackTimeout > 0 {
			wb = cfg.WriteBackTimeout
		}
	}
	return &RecommendationService{cache: lru, movies: movies, limit: limit, fetchTimeout: fetch, writeBackTimeout: wb, logger: logger}
}

// Lookup returns recommendations for term. A failing cache never fails the
// lookup; a failing movie repository always does, with
// movie.ErrDataSourceUnavailable, and leaves the cache untouched.
func (s *RecommendationService) Lookup(ctx context.Context, term string) (*movie.Recommendation, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, movie.ErrInvalidTerm
	}

	if movies, ok := s.fromCache(ctx, term); ok {
		return &movie.Recommendation{Result: movies, Source: movie.SourceCache}, nil
	}

	// The fetch is shared by every caller coalesced on term, so it must not
	// die with whichever request started it.
	ch := s.group.DoChan(term, func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.fetchTimeout)
		defer cancel()
		return s.fetchAndPopulate(fctx, term)
	})
	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	v, err, shared := res.Val, res.Err, res.Shared
	if err != nil {
		return nil, err
	}
	movies, ok := v.([]movie.Movie)
	if !ok {
		return nil, fmt.Errorf("unexpected type from singleflight result")
	}
	if shared && s.logger != nil {
		s.logger.WithField("title", term).Debug("recommendation: coalesced concurrent miss")
	}
	return &movie.Recommendation{Result: movies, Source: movie.SourceDB}, nil
}

func (s *RecommendationService) fromCache(ctx context.Context, term string) ([]movie.Movie, bool) {
	raw, err := s.cache.Get(ctx, term)
	if errors.Is(err, cache.ErrNotFound) {
		if s.logger != nil {
			s.logger.WithField("title", term).Info("recommendation: data is not present in cache")
		}
		return nil, false
	}
	if err != nil {
		if s.logger != nil {
			s.logger.WithField("title", term).WithError(err).Warn("recommendation: cache read failed, falling back to data source")
		}
		return nil, false
	}

	var movies []movie.Movie
	if err := json.Unmarshal(raw, &movies); err != nil {
		if s.logger != nil {
			s.logger.WithField("title", term).WithError(err).Warn("recommendation: dropping undecodable cache entry")
		}
		if derr := s.cache.Delete(ctx, term); derr != nil && !errors.Is(derr, cache.ErrNotFound) && s.logger != nil {
			s.logger.WithField("title", term).WithError(derr).Warn("recommendation: failed to drop undecodable cache entry")
		}
		return nil, false
	}
	return movies, true
}

func (s *RecommendationService) fetchAndPopulate(ctx context.Context, term string) ([]movie.Movie, error) {
	start := time.Now()
	movies, err := s.movies.FindByTitle(ctx, term, s.limit)
	if err != nil {
		if s.logger != nil {
			s.logger.WithField("title", term).WithError(err).Error("recommendation: data source query failed")
		}
		return nil, fmt.Errorf("%w: %w", movie.ErrDataSourceUnavailable, err)
	}
	if movies == nil {
		movies = []movie.Movie{}
	}
	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"title": term, "count": len(movies), "elapsed_ms": time.Since(start).Milliseconds()}).Debug("recommendation: fetched from data source")
	}

	payload, err := json.Marshal(movies)
	if err != nil {
		if s.logger != nil {
			s.logger.WithField("title", term).WithError(err).Warn("recommendation: failed to encode result for cache")
		}
		return movies, nil
	}

	// ctx is already detached from the request; the write-back gets its own bound.
	wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.writeBackTimeout)
	defer cancel()
	if err := s.cache.Set(wctx, term, payload); err != nil {
		if s.logger != nil {
			s.logger.WithField("title", term).WithError(err).Warn("recommendation: cache degraded, write-back failed")
		}
	}
	return movies, nil
}

// Invalidate drops the cached result for term.
func (s *RecommendationService) Invalidate(ctx context.Context, term string) error {
	term = strings.TrimSpace(term)
	if term == "" {
		return movie.ErrInvalidTerm
	}
	return s.cache.Delete(ctx, term)
}

func (s *RecommendationService) ClearCache(ctx context.Context) error {
	if err := s.cache.Clear(ctx); err != nil {
		return err
	}
	if s.logger != nil {
		s.logger.Info("recommendation: cache cleared")
	}
	return nil
}

func (s *RecommendationService) CacheStats(ctx context.Context) (*cache.Stats, error) {
	return s.cache.Stats(ctx)
}
