package httpserver

import (
	"net/http"
	"time"

	"github.com/avatarctic/movie-recommendation-service/go/internal/core/ports"
	customMiddleware "github.com/avatarctic/movie-recommendation-service/go/internal/infrastructure/httpserver/middleware"
	"github.com/avatarctic/movie-recommendation-service/go/internal/infrastructure/metrics"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

type ServerConfig struct {
	Host           string
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	TLSCertFile    string
	TLSKeyFile     string
	AllowedOrigins []string
}

type ServerDeps struct {
	UserService           ports.UserService
	AuthService           ports.AuthService
	RecommendationService ports.RecommendationService
	RateLimiterService    ports.RateLimiterService
	HealthCheckers        []ports.HealthChecker
	// HTTPMetrics and Gatherer back the request metrics and /metrics. When
	// either is nil the server keeps its own private registry.
	HTTPMetrics *metrics.HTTPMetrics
	Gatherer    prometheus.Gatherer
	// RequireAuthForRecommendations puts the lookup route behind the JWT middleware.
	RequireAuthForRecommendations bool
}

type Server struct {
	echo              *echo.Echo
	config            *ServerConfig
	logger            *logrus.Logger
	userService       ports.UserService
	authSvc           ports.AuthService
	recommendationSvc ports.RecommendationService
	middleware        *customMiddleware.MiddlewareCollection
	healthCheckers    []ports.HealthChecker
	requireAuthForRec bool
	gatherer          prometheus.Gatherer
	httpServer        *http.Server
}

const metricsPath = "/metrics"

func NewServer(serverConfig *ServerConfig, logger *logrus.Logger, deps ServerDeps) *Server {
	if logger == nil {
		logger = logrus.New()
	}
	httpMetrics, gatherer := deps.HTTPMetrics, deps.Gatherer
	if httpMetrics == nil || gatherer == nil {
		reg := prometheus.NewRegistry()
		// Registering on a fresh registry cannot collide.
		httpMetrics, _ = metrics.NewHTTPMetrics(reg)
		gatherer = reg
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = NewRequestValidator()

	server := &Server{
		echo:              e,
		config:            serverConfig,
		logger:            logger,
		userService:       deps.UserService,
		authSvc:           deps.AuthService,
		recommendationSvc: deps.RecommendationService,
		healthCheckers:    deps.HealthCheckers,
		requireAuthForRec: deps.RequireAuthForRecommendations,
		gatherer:          gatherer,
		middleware: customMiddleware.NewMiddlewareCollection(
			deps.AuthService,
			deps.RateLimiterService,
			logger,
			httpMetrics,
			metricsPath,
		),
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}
