package repositories

import (
	"context"
	"fmt"

	"github.com/avatarctic/movie-recommendation-service/go/internal/core/domain/movie"
	"github.com/avatarctic/movie-recommendation-service/go/internal/core/ports"
	"github.com/avatarctic/movie-recommendation-service/go/internal/infrastructure/db"
	"github.com/sirupsen/logrus"
)

// MovieRepository answers recommendation queries from the movies table.
type MovieRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

func NewMovieRepository(database *db.Database, logger *logrus.Logger) ports.MovieRepository {
	return &MovieRepository{db: database, logger: logger}
}

// FindByTitle returns movies whose title contains term, case-insensitively.
func (r *MovieRepository) FindByTitle(ctx context.Context, term string, limit int) ([]movie.Movie, error) {
	query := `
		SELECT title, genres, overview, runtime, spoken_languages
		FROM movies
		WHERE title ILIKE '%' || $1 || '%'
		ORDER BY title ASC
		LIMIT $2`

	movies := []movie.Movie{}
	if err := r.db.DB.SelectContext(ctx, &movies, query, term, limit); err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"term": term}).WithError(err).Error("db: failed to query movies")
		}
		return nil, fmt.Errorf("failed to query movies: %w", err)
	}
	if r.logger != nil {
		r.logger.WithFields(logrus.Fields{"term": term, "count": len(movies)}).Debug("db: movies fetched")
	}
	return movies, nil
}
