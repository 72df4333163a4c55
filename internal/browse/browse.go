// Package browse holds the movie browsing core: filter state, query building,
// the fetch orchestrator that owns pagination, and the detail modal loader.
// Network access and rendering are collaborators behind the Catalog and
// Renderer interfaces.
package browse

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/kdimtricp/cinescroll/internal/models"
)

const (
	FetchErrorMessage  = "Failed to fetch movies. Please try again later."
	DetailErrorMessage = "Failed to fetch movie details. Please try again later."

	defaultRequestTimeout = 15 * time.Second
)

// ErrNetwork matches every failure reported by a Catalog: rejected or timed
// out requests and malformed responses.
var ErrNetwork = errors.New("network failure")

//go:generate mockgen -destination=mocks/mock_catalog.go -package=mocks github.com/kdimtricp/cinescroll/internal/browse Catalog

type Catalog interface {
	Movies(ctx context.Context, d RequestDescriptor) (*models.MoviePage, error)
	Genres(ctx context.Context) ([]models.Genre, error)
	MovieDetail(ctx context.Context, movieID int) (*models.MovieDetail, error)
}

// Renderer is the view sink. Calls may arrive from any goroutine.
type Renderer interface {
	RenderMovies(movies []models.Movie, replace bool)
	RenderGenres(genres []models.Genre)
	HighlightGenres(selected []int)
	ShowLoading(loading bool)
	ShowError(message string)
	ShowEmptyState()
	OpenDetailModal(view DetailView)
	CloseModal()
}

// DetailView is what the modal shows: either a detail record or an error
// message, never both.
type DetailView struct {
	MovieID int
	Detail  *models.MovieDetail
	Error   string
}

type settings struct {
	logger     *log.Logger
	timeout    time.Duration
	staleGuard bool
}

type Option func(*settings)

func WithLogger(logger *log.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithRequestTimeout(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithStaleGuard makes the orchestrator discard a list result whose filter
// changed while it was in flight, and fetch page 1 for the current filter
// instead.
func WithStaleGuard(enabled bool) Option {
	return func(s *settings) {
		s.staleGuard = enabled
	}
}

func newSettings(opts []Option) settings {
	s := settings{
		logger:  log.Default(),
		timeout: defaultRequestTimeout,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}
