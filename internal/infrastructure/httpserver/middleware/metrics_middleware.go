package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// RequestObserver receives one observation per finished request.
type RequestObserver interface {
	Observe(method, route string, status int, elapsed time.Duration)
}

// MetricsMiddleware feeds request outcomes to a RequestObserver.
type MetricsMiddleware struct {
	observer RequestObserver
	skip     map[string]bool
}

// NewMetricsMiddleware creates a new metrics middleware instance. Requests to
// skipPaths (the scrape endpoint, typically) are not recorded.
func NewMetricsMiddleware(observer RequestObserver, skipPaths ...string) *MetricsMiddleware {
	skip := make(map[string]bool, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = true
	}
	return &MetricsMiddleware{observer: observer, skip: skip}
}

// CollectHTTPMetrics creates middleware that collects HTTP request metrics
func (m *MetricsMiddleware) CollectHTTPMetrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if m.observer == nil || m.skip[c.Path()] {
				return next(c)
			}
			start := time.Now()
			err := next(c)

			route := c.Path()
			if route == "" {
				// Unmatched paths would otherwise explode label cardinality.
				route = "unmatched"
			}
			m.observer.Observe(c.Request().Method, route, responseStatus(c, err), time.Since(start))
			return err
		}
	}
}

// responseStatus is the status the client will see. When a handler returns an
// error the response has not been written yet, so it is derived from err.
func responseStatus(c echo.Context, err error) int {
	if err == nil || c.Response().Committed {
		return c.Response().Status
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	return http.StatusInternalServerError
}
