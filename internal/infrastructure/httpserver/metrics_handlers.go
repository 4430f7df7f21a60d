package httpserver

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// metricsEndpoint serves the Prometheus exposition for the server's gatherer.
func (s *Server) metricsEndpoint(c echo.Context) error {
	s.logger.Debug("Serving Prometheus metrics")
	promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}).ServeHTTP(c.Response(), c.Request())
	return nil
}
