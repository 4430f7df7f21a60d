package httpserver

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"
)

const healthCheckTimeout = 2 * time.Second

// healthCheck probes every dependency in parallel. Any failure degrades the
// service and turns the response into a 503 so load balancers stop routing.
func (s *Server) healthCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), healthCheckTimeout)
	defer cancel()

	var (
		mu   sync.Mutex
		deps = make(map[string]string, len(s.healthCheckers))
	)
	var g errgroup.Group
	for _, hc := range s.healthCheckers {
		if hc == nil {
			continue
		}
		hc := hc
		g.Go(func() error {
			status := "healthy"
			if err := hc.Check(ctx); err != nil {
				s.logger.WithError(err).WithField("dependency", hc.Name()).Warn("health check failed")
				status = "unhealthy"
			}
			mu.Lock()
			deps[hc.Name()] = status
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	overall := "healthy"
	for _, status := range deps {
		if status != "healthy" {
			overall = "degraded"
			break
		}
	}
	health := map[string]interface{}{
		"status":       overall,
		"timestamp":    time.Now().UTC().Format(time.RFC3339),
		"version":      "1.0.0",
		"service":      "movie-recommendation-service",
		"dependencies": deps,
	}
	code := http.StatusOK
	if overall != "healthy" {
		code = http.StatusServiceUnavailable
	}
	return c.JSON(code, health)
}
