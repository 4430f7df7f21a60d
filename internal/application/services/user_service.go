package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/avatarctic/movie-recommendation-service/go/internal/core/domain/user"
	"github.com/avatarctic/movie-recommendation-service/go/internal/core/ports"
	"github.com/avatarctic/movie-recommendation-service/go/internal/utils"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	repo         ports.UserRepository
	tokens       ports.AuthService
	emailService ports.EmailService
	logger       *logrus.Logger
}

func NewUserService(repo ports.UserRepository, tokens ports.AuthService, emailService ports.EmailService, logger *logrus.Logger) ports.UserService {
	return &UserService{
		repo:         repo,
		tokens:       tokens,
		emailService: emailService,
		logger:       logger,
	}
}

// Register creates a user with a bcrypt-hashed password and an issued token.
func (s *UserService) Register(ctx context.Context, req *user.RegisterRequest) (*user.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	exists, err := s.repo.Exists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if exists {
		return nil, user.ErrUserAlreadyExists
	}

	if err := utils.ValidatePassword(req.Password); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	newUser := &user.User{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hashedPassword),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	token, err := s.tokens.GenerateToken(newUser)
	if err != nil {
		return nil, err
	}
	newUser.Token = token

	if err := s.repo.Create(ctx, newUser); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if s.emailService != nil {
		if err := s.emailService.SendWelcomeEmail(ctx, newUser.Email, newUser.Name); err != nil {
			// Log error but don't fail registration
			if s.logger != nil {
				s.logger.WithFields(logrus.Fields{
					"user_id": newUser.ID,
					"email":   newUser.Email,
				}).WithError(err).Warn("failed to send welcome email")
			}
		}
	}

	return newUser, nil
}

func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return s.repo.GetByID(ctx, id)
}
