package helpers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/avatarctic/movie-recommendation-service/go/internal/core/domain/auth"
)

func GetClaimsFromContext(c echo.Context) (*auth.Claims, error) {
	claims, ok := GetClaimsRaw(c)
	if !ok || claims == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid user context")
	}
	return claims, nil
}

func GetUserIDFromContext(c echo.Context) (uuid.UUID, error) {
	claims, err := GetClaimsFromContext(c)
	if err != nil {
		return uuid.Nil, err
	}
	return claims.UID, nil
}

func GetJWTTokenFromContext(c echo.Context) (string, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header format")
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "empty token")
	}
	return token, nil
}
