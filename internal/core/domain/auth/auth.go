package auth

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// LoginRequest represents the login request
type LoginRequest struct {
	Email    string `json:"email_id" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Claims is the token payload issued at registration and login.
type Claims struct {
	UID       uuid.UUID `json:"uid"`
	Name      string    `json:"name"`
	Email     string    `json:"email_id"`
	Timestamp float64   `json:"timestamp"`

	jwt.RegisteredClaims
}

// Response is the body shape used by the user endpoints.
type Response struct {
	Body  string `json:"body"`
	Token string `json:"token,omitempty"`
}
