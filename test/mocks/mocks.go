package mocks

import (
	"context"
	"fmt"
	"time"

	"github.com/avatarctic/movie-recommendation-service/go/internal/core/domain/auth"
	"github.com/avatarctic/movie-recommendation-service/go/internal/core/domain/cache"
	"github.com/avatarctic/movie-recommendation-service/go/internal/core/domain/movie"
	"github.com/avatarctic/movie-recommendation-service/go/internal/core/domain/user"
	"github.com/avatarctic/movie-recommendation-service/go/internal/core/ports"
	"github.com/google/uuid"
)

// UserRepositoryMock implements ports.UserRepository with optional function fields
type UserRepositoryMock struct {
	CreateFn     func(ctx context.Context, u *user.User) error
	GetByIDFn    func(ctx context.Context, id uuid.UUID) (*user.User, error)
	GetByEmailFn func(ctx context.Context, email string) (*user.User, error)
	ExistsFn     func(ctx context.Context, email string) (bool, error)
}

func (m *UserRepositoryMock) Create(ctx context.Context, u *user.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, u)
	}
	return nil
}
func (m *UserRepositoryMock) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, user.ErrUserNotFound
}
func (m *UserRepositoryMock) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}
	return nil, user.ErrUserNotFound
}
func (m *UserRepositoryMock) Exists(ctx context.Context, email string) (bool, error) {
	if m.ExistsFn != nil {
		return m.ExistsFn(ctx, email)
	}
	return false, nil
}

// UserServiceMock implements ports.UserService
type UserServiceMock struct {
	RegisterFn func(ctx context.Context, req *user.RegisterRequest) (*user.User, error)
	GetUserFn  func(ctx context.Context, id uuid.UUID) (*user.User, error)
}

func (m *UserServiceMock) Register(ctx context.Context, req *user.RegisterRequest) (*user.User, error) {
	if m.RegisterFn != nil {
		return m.RegisterFn(ctx, req)
	}
	return &user.User{ID: uuid.New(), Name: req.Name, Email: req.Email}, nil
}
func (m *UserServiceMock) GetUser(ctx context.Context, id uuid.UUID) (*user.User, error) {
	if m.GetUserFn != nil {
		return m.GetUserFn(ctx, id)
	}
	return nil, user.ErrUserNotFound
}

// AuthServiceMock implements ports.AuthService
type AuthServiceMock struct {
	LoginFn         func(ctx context.Context, req *auth.LoginRequest) (string, error)
	GenerateTokenFn func(u *user.User) (string, error)
	ValidateTokenFn func(ctx context.Context, token string) (*auth.Claims, error)
}

func (m *AuthServiceMock) Login(ctx context.Context, req *auth.LoginRequest) (string, error) {
	if m.LoginFn != nil {
		return m.LoginFn(ctx, req)
	}
	return "", fmt.Errorf("not implemented")
}
func (m *AuthServiceMock) GenerateToken(u *user.User) (string, error) {
	if m.GenerateTokenFn != nil {
		return m.GenerateTokenFn(u)
	}
	return "token-" + u.ID.String(), nil
}
func (m *AuthServiceMock) ValidateToken(ctx context.Context, token string) (*auth.Claims, error) {
	if m.ValidateTokenFn != nil {
		return m.ValidateTokenFn(ctx, token)
	}
	return nil, fmt.Errorf("invalid token")
}

// EmailServiceMock implements ports.EmailService
type EmailServiceMock struct {
	SendWelcomeEmailFn func(ctx context.Context, email, userName string) error
}

func (m *EmailServiceMock) SendWelcomeEmail(ctx context.Context, email, userName string) error {
	if m.SendWelcomeEmailFn != nil {
		return m.SendWelcomeEmailFn(ctx, email, userName)
	}
	return nil
}

// MovieRepositoryMock implements ports.MovieRepository
type MovieRepositoryMock struct {
	FindByTitleFn func(ctx context.Context, term string, limit int) ([]movie.Movie, error)
}

func (m *MovieRepositoryMock) FindByTitle(ctx context.Context, term string, limit int) ([]movie.Movie, error) {
	if m.FindByTitleFn != nil {
		return m.FindByTitleFn(ctx, term, limit)
	}
	return []movie.Movie{}, nil
}

// RecommendationServiceMock implements ports.RecommendationService
type RecommendationServiceMock struct {
	LookupFn     func(ctx context.Context, term string) (*movie.Recommendation, error)
	InvalidateFn func(ctx context.Context, term string) error
	ClearCacheFn func(ctx context.Context) error
	CacheStatsFn func(ctx context.Context) (*cache.Stats, error)
}

func (m *RecommendationServiceMock) Lookup(ctx context.Context, term string) (*movie.Recommendation, error) {
	if m.LookupFn != nil {
		return m.LookupFn(ctx, term)
	}
	return &movie.Recommendation{Result: []movie.Movie{}, Source: movie.SourceDB}, nil
}
func (m *RecommendationServiceMock) Invalidate(ctx context.Context, term string) error {
	if m.InvalidateFn != nil {
		return m.InvalidateFn(ctx, term)
	}
	return nil
}
func (m *RecommendationServiceMock) ClearCache(ctx context.Context) error {
	if m.ClearCacheFn != nil {
		return m.ClearCacheFn(ctx)
	}
	return nil
}
func (m *RecommendationServiceMock) CacheStats(ctx context.Context) (*cache.Stats, error) {
	if m.CacheStatsFn != nil {
		return m.CacheStatsFn(ctx)
	}
	return &cache.Stats{}, nil
}

// LRUCacheMock implements ports.LRUCache
type LRUCacheMock struct {
	GetFn    func(ctx context.Context, key string) ([]byte, error)
	SetFn    func(ctx context.Context, key string, value []byte) error
	DeleteFn func(ctx context.Context, key string) error
	ClearFn  func(ctx context.Context) error
	StatsFn  func(ctx context.Context) (*cache.Stats, error)
}

func (m *LRUCacheMock) Get(ctx context.Context, key string) ([]byte, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, key)
	}
	return nil, cache.ErrNotFound
}
func (m *LRUCacheMock) Set(ctx context.Context, key string, value []byte) error {
	if m.SetFn != nil {
		return m.SetFn(ctx, key, value)
	}
	return nil
}
func (m *LRUCacheMock) Delete(ctx context.Context, key string) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, key)
	}
	return cache.ErrNotFound
}
func (m *LRUCacheMock) Clear(ctx context.Context) error {
	if m.ClearFn != nil {
		return m.ClearFn(ctx)
	}
	return nil
}
func (m *LRUCacheMock) Stats(ctx context.Context) (*cache.Stats, error) {
	if m.StatsFn != nil {
		return m.StatsFn(ctx)
	}
	return &cache.Stats{}, nil
}

// RateLimiterServiceMock implements ports.RateLimiterService
type RateLimiterServiceMock struct {
	AllowFn func(ctx context.Context, subject string) (bool, int, int, time.Time, error)
}

func (m *RateLimiterServiceMock) Allow(ctx context.Context, subject string) (bool, int, int, time.Time, error) {
	if m.AllowFn != nil {
		return m.AllowFn(ctx, subject)
	}
	return true, 1, 1, time.Now().Add(time.Minute), nil
}

// RateLimitRepositoryMock implements ports.RateLimitRepository
type RateLimitRepositoryMock struct {
	IncrementWindowFn func(ctx context.Context, subject string, window time.Duration, keyPrefix string, ttl time.Duration) (int, time.Time, error)
}

func (m *RateLimitRepositoryMock) IncrementWindow(ctx context.Context, subject string, window time.Duration, keyPrefix string, ttl time.Duration) (int, time.Time, error) {
	if m.IncrementWindowFn != nil {
		return m.IncrementWindowFn(ctx, subject, window, keyPrefix, ttl)
	}
	return 1, time.Now().Truncate(window), nil
}

var (
	_ ports.UserRepository        = (*UserRepositoryMock)(nil)
	_ ports.UserService           = (*UserServiceMock)(nil)
	_ ports.AuthService           = (*AuthServiceMock)(nil)
	_ ports.EmailService          = (*EmailServiceMock)(nil)
	_ ports.MovieRepository       = (*MovieRepositoryMock)(nil)
	_ ports.RecommendationService = (*RecommendationServiceMock)(nil)
	_ ports.LRUCache              = (*LRUCacheMock)(nil)
	_ ports.RateLimiterService    = (*RateLimiterServiceMock)(nil)
	_ ports.RateLimitRepository   = (*RateLimitRepositoryMock)(nil)
)
