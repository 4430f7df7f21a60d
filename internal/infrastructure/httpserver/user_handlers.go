package httpserver

import (
	"errors"
	"net/http"

	"github.com/avatarctic/movie-recommendation-service/go/internal/core/domain/user"
	"github.com/avatarctic/movie-recommendation-service/go/internal/infrastructure/httpserver/helpers"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// getCurrentUser returns the profile of the token's owner.
func (s *Server) getCurrentUser(c echo.Context) error {
	userID, err := helpers.GetUserIDFromContext(c)
	if err != nil {
		return err
	}

	u, err := s.userService.GetUser(c.Request().Context(), userID)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, u)
	case errors.Is(err, user.ErrUserNotFound):
		// Valid signature, but the account is gone.
		return echo.NewHTTPError(http.StatusNotFound, "user not found")
	default:
		s.logger.WithFields(logrus.Fields{"user_id": userID}).WithError(err).Error("failed to load current user")
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load user")
	}
}
