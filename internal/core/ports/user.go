package ports

import (
	"context"

	"github.com/avatarctic/movie-recommendation-service/go/internal/core/domain/user"
	"github.com/google/uuid"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *user.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	// GetByEmail returns user.ErrUserNotFound when no user has that email.
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	Exists(ctx context.Context, email string) (bool, error)
}

// UserService defines the interface for user business logic
type UserService interface {
	// Register returns user.ErrUserAlreadyExists when the email is taken.
	Register(ctx context.Context, req *user.RegisterRequest) (*user.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*user.User, error)
}
