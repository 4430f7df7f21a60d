package movie

import "errors"

var (
	// ErrDataSourceUnavailable is returned when the movie store cannot answer a lookup.
	ErrDataSourceUnavailable = errors.New("recommendation data source unavailable")
	// ErrInvalidTerm is returned for an empty search term.
	ErrInvalidTerm = errors.New("search term must not be empty")
)

// Movie is a single recommendation record.
type Movie struct {
	Title           string `json:"title" db:"title"`
	Genres          string `json:"genres" db:"genres"`
	Overview        string `json:"overview" db:"overview"`
	Runtime         string `json:"runtime" db:"runtime"`
	SpokenLanguages string `json:"spoken_languages" db:"spoken_languages"`
}

// Source tells where a recommendation was served from.
type Source string

const (
	SourceCache Source = "cache"
	SourceDB    Source = "db"
)

// Recommendation is the lookup result returned to clients.
type Recommendation struct {
	Result []Movie `json:"result"`
	Source Source  `json:"source"`
}
