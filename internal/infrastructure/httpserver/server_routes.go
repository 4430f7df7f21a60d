package httpserver

import "github.com/labstack/echo/v4"

func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET(metricsPath, s.metricsEndpoint)

	users := s.echo.Group("/user")
	users.POST("/register/v1", s.register)
	users.POST("/login/v1", s.login, s.middleware.RateLimit.Handler())
	users.GET("/me/v1", s.getCurrentUser, s.middleware.JWT.RequireJWT())

	var lookupMiddleware []echo.MiddlewareFunc
	if s.requireAuthForRec {
		lookupMiddleware = append(lookupMiddleware, s.middleware.JWT.RequireJWT())
	}
	rec := s.echo.Group("/movie/recommendation/v1")
	rec.GET("", s.getRecommendations, lookupMiddleware...)

	admin := rec.Group("/cache")
	admin.Use(s.middleware.JWT.RequireJWT())
	admin.GET("/stats", s.getCacheStats)
	admin.DELETE("", s.clearCache)
	admin.DELETE("/:title", s.invalidateCache)
}
