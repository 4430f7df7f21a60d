package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/avatarctic/movie-recommendation-service/go/configs"
	"github.com/avatarctic/movie-recommendation-service/go/internal/application/services"
	"github.com/avatarctic/movie-recommendation-service/go/internal/core/ports"
	"github.com/avatarctic/movie-recommendation-service/go/internal/infrastructure/db"
	"github.com/avatarctic/movie-recommendation-service/go/internal/infrastructure/email"
	"github.com/avatarctic/movie-recommendation-service/go/internal/infrastructure/health"
	"github.com/avatarctic/movie-recommendation-service/go/internal/infrastructure/httpserver"
	"github.com/avatarctic/movie-recommendation-service/go/internal/infrastructure/memstore"
	"github.com/avatarctic/movie-recommendation-service/go/internal/infrastructure/metrics"
	"github.com/avatarctic/movie-recommendation-service/go/internal/infrastructure/redis"
	"github.com/avatarctic/movie-recommendation-service/go/internal/infrastructure/repositories"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Setup logger
	logger := logrus.New()
	if cfg.Log.Format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetLevel(level)
	}

	logger.Info("Starting movie recommendation service...")

	// Initialize database (apply pool settings from config)
	database, err := db.NewDatabaseWithConfig(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database:", err)
	}
	defer database.Close()

	logger.Info("Connected to database successfully")

	// Run migrations
	if err := database.Migrate(cfg.Server.MigrationsPath); err != nil {
		logger.Warn("Failed to run migrations:", err)
	}

	// Initialize Redis client
	redisClient, err := redis.NewRedisClient(&cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis:", err)
	}
	defer redisClient.Close()

	logger.Info("Connected to Redis successfully")

	// Recommendation cache
	var store ports.RecencyStore
	switch cfg.Cache.Backend {
	case "memory":
		store = memstore.NewRecencyStore()
	default:
		store = redis.NewRecencyStore(redisClient, cfg.Cache.Namespace, cfg.Cache.OpTimeout, cfg.Cache.TTL)
	}
	cacheMetrics, err := metrics.NewCacheMetrics(prometheus.DefaultRegisterer, cfg.Cache.Namespace)
	if err != nil {
		logger.Fatal("Failed to register cache metrics:", err)
	}
	lru, err := services.NewLRUCache(store, cfg.Cache.Capacity,
		services.WithCacheLogger(logger),
		services.WithCacheMetrics(cacheMetrics),
	)
	if err != nil {
		logger.Fatal("Failed to create recommendation cache:", err)
	}
	if cfg.Cache.ReconcileOnStart {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		repaired, err := lru.Reconcile(ctx)
		cancel()
		if err != nil {
			logger.WithError(err).Warn("Cache reconcile failed; continuing")
		} else {
			logger.WithFields(logrus.Fields{
				"backend":  cfg.Cache.Backend,
				"capacity": cfg.Cache.Capacity,
				"repaired": repaired,
			}).Info("Recommendation cache ready")
		}
	}

	// Repositories
	redisCache := redis.NewRedisCache(redisClient, "appcache", cfg.Cache.OpTimeout)
	userRepo := repositories.NewCachingUserRepository(repositories.NewUserRepository(database, logger), redisCache, 3*time.Minute)
	movieRepo := repositories.NewMovieRepository(database, logger)
	rateLimitRepo := repositories.NewRateLimitRedisRepository(redisClient)

	emailConfig := &email.EmailConfig{
		SendGridAPIKey: cfg.Email.SendGridAPIKey,
		FromEmail:      cfg.Email.FromEmail,
		FromName:       cfg.Email.FromName,
		ServiceName:    cfg.Email.ServiceName,
	}
	emailService, err := email.NewEmailService(emailConfig, logger)
	if err != nil {
		logger.Fatal("Failed to initialize email service:", err)
	}

	// Services
	authService := services.NewAuthService(userRepo, &cfg.JWT, logger)
	userService := services.NewUserService(userRepo, authService, emailService, logger)
	recommendationService := services.NewRecommendationService(lru, movieRepo, &services.RecommendationConfig{
		Limit:            cfg.Recommendation.Limit,
		FetchTimeout:     cfg.Recommendation.FetchTimeout,
		WriteBackTimeout: cfg.Cache.WriteBackTimeout,
	}, logger)
	rateLimiterService := services.NewRateLimiterService(rateLimitRepo, &services.RateLimiterConfig{
		RequestsPerWindow: cfg.RateLimit.LoginRequestsPerWindow,
		Window:            cfg.RateLimit.Window,
		KeyPrefix:         cfg.RateLimit.KeyPrefix,
	}, logger)

	hcSlice := []ports.HealthChecker{
		health.NewDBHealthChecker(database),
		health.NewRedisHealthChecker(redisClient),
		health.NewCacheHealthChecker(lru),
	}

	// Create server configuration
	serverConfig := &httpserver.ServerConfig{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		TLSCertFile:    cfg.Server.TLSCertFile,
		TLSKeyFile:     cfg.Server.TLSKeyFile,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	}

	deps := httpserver.ServerDeps{
		UserService:                   userService,
		AuthService:                   authService,
		RecommendationService:         recommendationService,
		RateLimiterService:            rateLimiterService,
		HealthCheckers:                hcSlice,
		RequireAuthForRecommendations: cfg.Recommendation.RequireAuth,
	}

	httpMetrics, err := metrics.NewHTTPMetrics(prometheus.DefaultRegisterer)
	if err != nil {
		logger.Fatal("Failed to register HTTP metrics:", err)
	}
	deps.HTTPMetrics = httpMetrics
	deps.Gatherer = prometheus.DefaultGatherer

	server := httpserver.NewServer(serverConfig, logger, deps)

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server:", err)
		}
	}()

	logger.Infof("Server started on %s:%s", cfg.Server.Host, cfg.Server.Port)

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown:", err)
	}

	logger.Info("Server exited")
}
