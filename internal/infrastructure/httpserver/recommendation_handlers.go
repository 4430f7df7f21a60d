package httpserver

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/avatarctic/movie-recommendation-service/go/internal/core/domain/cache"
	"github.com/avatarctic/movie-recommendation-service/go/internal/core/domain/movie"
	"github.com/avatarctic/movie-recommendation-service/go/internal/infrastructure/httpserver/helpers"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

func (s *Server) getRecommendations(c echo.Context) error {
	title := strings.TrimSpace(c.QueryParam("title"))
	if title == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title query parameter is required")
	}

	start := time.Now()
	rec, err := s.recommendationSvc.Lookup(c.Request().Context(), title)
	if err != nil {
		s.logger.WithFields(logrus.Fields{"title": title}).WithError(err).Error("recommendation lookup failed")
		if errors.Is(err, movie.ErrInvalidTerm) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Error in Movie recommendation api")
	}

	s.logger.WithFields(logrus.Fields{
		"title":    title,
		"source":   rec.Source,
		"count":    len(rec.Result),
		"duration": time.Since(start).String(),
	}).Info("recommendation served")

	return c.JSON(http.StatusOK, rec)
}

func (s *Server) clearCache(c echo.Context) error {
	if err := s.recommendationSvc.ClearCache(c.Request().Context()); err != nil {
		return cacheHTTPError(err)
	}
	s.adminAction(c, "cache cleared", logrus.Fields{})
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) invalidateCache(c echo.Context) error {
	title := strings.TrimSpace(c.Param("title"))
	if title == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title is required")
	}
	if err := s.recommendationSvc.Invalidate(c.Request().Context(), title); err != nil {
		return cacheHTTPError(err)
	}
	s.adminAction(c, "cache entry invalidated", logrus.Fields{"title": title})
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) getCacheStats(c echo.Context) error {
	stats, err := s.recommendationSvc.CacheStats(c.Request().Context())
	if err != nil {
		return cacheHTTPError(err)
	}
	return c.JSON(http.StatusOK, stats)
}

func (s *Server) adminAction(c echo.Context, msg string, fields logrus.Fields) {
	if userID, err := helpers.GetUserIDFromContext(c); err == nil {
		fields["user_id"] = userID
	}
	s.logger.WithFields(fields).Info(msg)
}

func cacheHTTPError(err error) error {
	switch {
	case errors.Is(err, cache.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "no cached recommendation for title")
	case errors.Is(err, movie.ErrInvalidTerm):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case cache.IsStoreUnavailable(err):
		return echo.NewHTTPError(http.StatusServiceUnavailable, "cache unavailable")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "cache operation failed")
	}
}
