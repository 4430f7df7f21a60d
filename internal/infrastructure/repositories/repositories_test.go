package repositories

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/avatarctic/movie-recommendation-service/go/internal/core/domain/movie"
	"github.com/avatarctic/movie-recommendation-service/go/internal/core/domain/user"
	"github.com/avatarctic/movie-recommendation-service/go/internal/infrastructure/db"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*db.Database, sqlmock.Sqlmock) {
	t.Helper()
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = raw.Close() })
	return db.NewDatabaseFromDB(sqlx.NewDb(raw, "postgres")), mock
}

func TestUserRepository_Create(t *testing.T) {
	database, mock := newMockDB(t)
	repo := NewUserRepository(database, nil)
	u := &user.User{ID: uuid.New(), Name: "Ada", Email: "ada@example.com", PasswordHash: "h", Token: "t", CreatedAt: time.Now(), UpdatedAt: time.Now()}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs(u.ID, u.Name, u.Email, u.PasswordHash, u.Token, u.CreatedAt, u.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), u))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_CreateDuplicateEmail(t *testing.T) {
	database, mock := newMockDB(t)
	repo := NewUserRepository(database, nil)
	u := &user.User{ID: uuid.New(), Name: "Ada", Email: "ada@example.com", CreatedAt: time.Now(), UpdatedAt: time.Now()}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "users_email_key"})
	require.ErrorIs(t, repo.Create(context.Background(), u), user.ErrUserAlreadyExists)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WillReturnError(&pq.Error{Code: "53300"})
	err := repo.Create(context.Background(), u)
	require.Error(t, err)
	require.NotErrorIs(t, err, user.ErrUserAlreadyExists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByEmail(t *testing.T) {
	database, mock := newMockDB(t)
	repo := NewUserRepository(database, nil)
	id := uuid.New()
	now := time.Now()

	rows := sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "token", "created_at", "updated_at"}).
		AddRow(id.String(), "Ada", "ada@example.com", "h", "t", now, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = $1")).WithArgs("ada@example.com").WillReturnRows(rows)

	u, err := repo.GetByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)
	require.Equal(t, id, u.ID)
	require.Equal(t, "Ada", u.Name)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = $1")).WithArgs("nobody@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	_, err = repo.GetByEmail(context.Background(), "nobody@example.com")
	require.ErrorIs(t, err, user.ErrUserNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByIDNotFound(t *testing.T) {
	database, mock := newMockDB(t)
	repo := NewUserRepository(database, nil)
	id := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id = $1")).WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(context.Background(), id)
	require.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestUserRepository_Exists(t *testing.T) {
	database, mock := newMockDB(t)
	repo := NewUserRepository(database, nil)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).WithArgs("a@b.c").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	ok, err := repo.Exists(context.Background(), "a@b.c")
	require.NoError(t, err)
	require.True(t, ok)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).WithArgs("a@b.c").WillReturnError(errors.New("conn reset"))
	_, err = repo.Exists(context.Background(), "a@b.c")
	require.Error(t, err)
}

func TestMovieRepository_FindByTitle(t *testing.T) {
	database, mock := newMockDB(t)
	repo := NewMovieRepository(database, nil)

	rows := sqlmock.NewRows([]string{"title", "genres", "overview", "runtime", "spoken_languages"}).
		AddRow("Heat", "Crime", "A heist", "170", "English").
		AddRow("Heathers", "Comedy", "High school", "103", "English")
	mock.ExpectQuery(regexp.QuoteMeta("WHERE title ILIKE '%' || $1 || '%'")).WithArgs("heat", 5).WillReturnRows(rows)

	movies, err := repo.FindByTitle(context.Background(), "heat", 5)
	require.NoError(t, err)
	require.Equal(t, []movie.Movie{
		{Title: "Heat", Genres: "Crime", Overview: "A heist", Runtime: "170", SpokenLanguages: "English"},
		{Title: "Heathers", Genres: "Comedy", Overview: "High school", Runtime: "103", SpokenLanguages: "English"},
	}, movies)
}

func TestMovieRepository_EmptyAndError(t *testing.T) {
	database, mock := newMockDB(t)
	repo := NewMovieRepository(database, nil)

	mock.ExpectQuery("SELECT title").WithArgs("none", 10).
		WillReturnRows(sqlmock.NewRows([]string{"title", "genres", "overview", "runtime", "spoken_languages"}))
	movies, err := repo.FindByTitle(context.Background(), "none", 10)
	require.NoError(t, err)
	require.NotNil(t, movies)
	require.Empty(t, movies)

	mock.ExpectQuery("SELECT title").WithArgs("x", 10).WillReturnError(errors.New("timeout"))
	_, err = repo.FindByTitle(context.Background(), "x", 10)
	require.Error(t, err)
}
