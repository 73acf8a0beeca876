package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/reelrank/reelrank-server/internal/domain"
	domainerrors "github.com/reelrank/reelrank-server/internal/errors"
	"github.com/reelrank/reelrank-server/internal/store"
)

// CatalogService reads the movie catalog.
type CatalogService struct {
	store  store.MovieStore
	logger *slog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(movies store.MovieStore, logger *slog.Logger) *CatalogService {
	return &CatalogService{store: movies, logger: orDiscard(logger)}
}

// ListMovies returns every movie. An empty catalog is an empty, non-nil slice.
func (s *CatalogService) ListMovies(ctx context.Context) ([]domain.Movie, error) {
	movies, err := s.store.ListMovies(ctx)
	if err != nil {
		return nil, storeFailure("list movies", err)
	}
	if movies == nil {
		movies = []domain.Movie{}
	}
	return movies, nil
}

// GetMovie returns one movie.
func (s *CatalogService) GetMovie(ctx context.Context, id int64) (*domain.Movie, error) {
	m, err := s.store.GetMovie(ctx, id)
	if errors.Is(err, store.ErrMovieNotFound) {
		return nil, domainerrors.NotFoundf("movie %d not found", id)
	}
	if err != nil {
		return nil, storeFailure("get movie", err)
	}
	return m, nil
}

// GetGenre returns the genre of a movie.
func (s *CatalogService) GetGenre(ctx context.Context, id int64) (string, error) {
	genre, err := s.store.GetMovieGenre(ctx, id)
	if errors.Is(err, store.ErrMovieNotFound) {
		return "", domainerrors.NotFoundf("movie %d not found", id)
	}
	if err != nil {
		return "", storeFailure("get genre", err)
	}
	return genre, nil
}

// CountMovies returns the catalog size.
func (s *CatalogService) CountMovies(ctx context.Context) (int, error) {
	n, err := s.store.CountMovies(ctx)
	if err != nil {
		return 0, storeFailure("count movies", err)
	}
	return n, nil
}
