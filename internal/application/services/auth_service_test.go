package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	config "github.com/avatarctic/movie-recommendation-service/go/configs"
	impl "github.com/avatarctic/movie-recommendation-service/go/internal/application/services"
	"github.com/avatarctic/movie-recommendation-service/go/internal/core/domain/auth"
	"github.com/avatarctic/movie-recommendation-service/go/internal/core/domain/user"
	"github.com/avatarctic/movie-recommendation-service/go/test/mocks"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func hashed(t *testing.T, pw string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestLogin_Success(t *testing.T) {
	u := &user.User{ID: uuid.New(), Name: "Ada", Email: "ada@example.com", PasswordHash: hashed(t, "secret123")}
	repo := &mocks.UserRepositoryMock{GetByEmailFn: func(ctx context.Context, email string) (*user.User, error) {
		require.Equal(t, "ada@example.com", email)
		return u, nil
	}}
	svc := impl.NewAuthService(repo, &config.JWTConfig{Secret: "s", TokenTTL: time.Hour}, nil)

	token, err := svc.Login(context.Background(), &auth.LoginRequest{Email: " Ada@Example.com ", Password: "secret123"})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	require.Equal(t, u.ID, claims.UID)
	require.Equal(t, "Ada", claims.Name)
	require.NotZero(t, claims.Timestamp)
}

func TestLogin_UnknownUser(t *testing.T) {
	svc := impl.NewAuthService(&mocks.UserRepositoryMock{}, &config.JWTConfig{Secret: "s"}, nil)
	_, err := svc.Login(context.Background(), &auth.LoginRequest{Email: "x@y.z", Password: "p"})
	require.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestLogin_WrongPassword(t *testing.T) {
	u := &user.User{ID: uuid.New(), Email: "a@b.c", PasswordHash: hashed(t, "right-pass1")}
	repo := &mocks.UserRepositoryMock{GetByEmailFn: func(ctx context.Context, email string) (*user.User, error) { return u, nil }}
	svc := impl.NewAuthService(repo, &config.JWTConfig{Secret: "s"}, nil)

	_, err := svc.Login(context.Background(), &auth.LoginRequest{Email: "a@b.c", Password: "wrong-pass1"})
	require.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLogin_RepositoryFailure(t *testing.T) {
	repo := &mocks.UserRepositoryMock{GetByEmailFn: func(ctx context.Context, email string) (*user.User, error) {
		return nil, errors.New("db down")
	}}
	svc := impl.NewAuthService(repo, &config.JWTConfig{Secret: "s"}, nil)

	_, err := svc.Login(context.Background(), &auth.LoginRequest{Email: "a@b.c", Password: "x"})
	require.Error(t, err)
	require.NotErrorIs(t, err, user.ErrUserNotFound)
	require.NotErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestValidateToken_RejectsForeignSecretAndAlgorithm(t *testing.T) {
	svc := impl.NewAuthService(nil, &config.JWTConfig{Secret: "mine"}, nil)
	other := impl.NewAuthService(nil, &config.JWTConfig{Secret: "theirs"}, nil)

	token, err := other.GenerateToken(&user.User{ID: uuid.New(), Name: "n"})
	require.NoError(t, err)
	_, err = svc.ValidateToken(context.Background(), token)
	require.Error(t, err)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, &auth.Claims{UID: uuid.New()})
	s, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = svc.ValidateToken(context.Background(), s)
	require.Error(t, err)
}

func TestValidateToken_Expired(t *testing.T) {
	secret := "s"
	svc := impl.NewAuthService(nil, &config.JWTConfig{Secret: secret}, nil)
	claims := &auth.Claims{
		UID: uuid.New(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)

	_, err = svc.ValidateToken(context.Background(), token)
	require.ErrorIs(t, err, jwt.ErrTokenExpired)
}
