package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	config "github.com/avatarctic/movie-recommendation-service/go/configs"
	"github.com/avatarctic/movie-recommendation-service/go/internal/core/domain/auth"
	"github.com/avatarctic/movie-recommendation-service/go/internal/core/domain/user"
	"github.com/avatarctic/movie-recommendation-service/go/internal/core/ports"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	userRepo  ports.UserRepository
	jwtConfig *config.JWTConfig
	logger    *logrus.Logger
}

func NewAuthService(userRepo ports.UserRepository, jwtConfig *config.JWTConfig, logger *logrus.Logger) ports.AuthService {
	return &AuthService{
		userRepo:  userRepo,
		jwtConfig: jwtConfig,
		logger:    logger,
	}
}

func (s *AuthService) Login(ctx context.Context, req *auth.LoginRequest) (string, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	foundUser, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return "", user.ErrUserNotFound
		}
		return "", fmt.Errorf("failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(foundUser.PasswordHash), []byte(req.Password)); err != nil {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"user_id": foundUser.ID}).Info("login rejected: wrong password")
		}
		return "", auth.ErrInvalidCredentials
	}

	return s.GenerateToken(foundUser)
}

func (s *AuthService) GenerateToken(u *user.User) (string, error) {
	now := time.Now()
	claims := &auth.Claims{
		UID:       u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Timestamp: float64(now.UnixNano()) / float64(time.Second),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  u.ID.String(),
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if s.jwtConfig.TokenTTL > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.jwtConfig.TokenTTL))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtConfig.Secret))
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return signed, nil
}

func (s *AuthService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &auth.Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Ensure the token's signing method is HMAC (prevent alg confusion)
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtConfig.Secret), nil
	})
	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(*auth.Claims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}
