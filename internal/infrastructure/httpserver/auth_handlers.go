package httpserver

import (
	"errors"
	"net/http"

	"github.com/avatarctic/movie-recommendation-service/go/internal/core/domain/auth"
	"github.com/avatarctic/movie-recommendation-service/go/internal/core/domain/user"
	"github.com/avatarctic/movie-recommendation-service/go/internal/utils"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

const (
	msgRegistered      = "success"
	msgUserExists      = "User already exist! Please login..!"
	msgLoggedIn        = "successfully logged in"
	msgUserMissing     = "User doesn't exist , Please register"
	msgWrongCredential = "Wrong credentials..!"
)

func (s *Server) register(c echo.Context) error {
	var req user.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, auth.Response{Body: "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, auth.Response{Body: err.Error()})
	}

	_, err := s.userService.Register(c.Request().Context(), &req)
	switch {
	case err == nil:
		return c.JSON(http.StatusCreated, auth.Response{Body: msgRegistered})
	case errors.Is(err, user.ErrUserAlreadyExists):
		return c.JSON(http.StatusOK, auth.Response{Body: msgUserExists})
	case errors.Is(err, utils.ErrWeakPassword):
		return c.JSON(http.StatusBadRequest, auth.Response{Body: err.Error()})
	default:
		s.logger.WithFields(logrus.Fields{"email": req.Email}).WithError(err).Error("registration failed")
		return c.JSON(http.StatusInternalServerError, auth.Response{Body: "failed to register user"})
	}
}

func (s *Server) login(c echo.Context) error {
	var req auth.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, auth.Response{Body: "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, auth.Response{Body: err.Error()})
	}

	token, err := s.authSvc.Login(c.Request().Context(), &req)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, auth.Response{Body: msgLoggedIn, Token: token})
	case errors.Is(err, user.ErrUserNotFound):
		return c.JSON(http.StatusOK, auth.Response{Body: msgUserMissing})
	case errors.Is(err, auth.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, auth.Response{Body: msgWrongCredential})
	default:
		s.logger.WithFields(logrus.Fields{"email": req.Email}).WithError(err).Error("login failed")
		return c.JSON(http.StatusInternalServerError, auth.Response{Body: "failed to log in"})
	}
}
