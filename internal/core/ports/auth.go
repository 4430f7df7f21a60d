package ports

import (
	"context"

	"github.com/avatarctic/movie-recommendation-service/go/internal/core/domain/auth"
	"github.com/avatarctic/movie-recommendation-service/go/internal/core/domain/user"
)

// AuthService defines the interface for authentication operations
type AuthService interface {
	// Login returns user.ErrUserNotFound or auth.ErrInvalidCredentials on rejection.
	Login(ctx context.Context, req *auth.LoginRequest) (string, error)
	GenerateToken(u *user.User) (string, error)
	ValidateToken(ctx context.Context, token string) (*auth.Claims, error)
}
