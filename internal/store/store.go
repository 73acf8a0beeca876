// Package store defines the persistence contract of the movie service.
package store

import (
	"context"

	"github.com/reelrank/reelrank-server/internal/domain"
)

// UserStore persists user accounts.
type UserStore interface {
	// CreateUser inserts u and sets u.ID. A taken name returns ErrUserExists.
	CreateUser(ctx context.Context, u *domain.User) error
	// GetUserByName returns ErrUserNotFound when absent.
	GetUserByName(ctx context.Context, name string) (*domain.User, error)
	UserExists(ctx context.Context, name string) (bool, error)
}

// MovieStore reads the catalog. CreateMovie exists for seeding.
type MovieStore interface {
	ListMovies(ctx context.Context) ([]domain.Movie, error)
	// GetMovie and GetMovieGenre return ErrMovieNotFound when absent.
	GetMovie(ctx context.Context, id int64) (*domain.Movie, error)
	GetMovieGenre(ctx context.Context, id int64) (string, error)
	CreateMovie(ctx context.Context, m *domain.Movie) error
	CountMovies(ctx context.Context) (int, error)
}

// LikeStore maintains the (user, movie) like relation.
type LikeStore interface {
	// ToggleLike atomically flips the like. An unknown movie returns ErrMovieNotFound.
	ToggleLike(ctx context.Context, userID, movieID int64) (domain.ToggleOutcome, error)
	LikeCount(ctx context.Context, movieID int64) (int, error)
}

// RecommendationStore ranks movies of one genre by popularity.
type RecommendationStore interface {
	// TopByGenre returns up to limit movies of genre other than exclude,
	// ordered by like count then rating, both descending.
	TopByGenre(ctx context.Context, genre string, exclude int64, limit int) ([]domain.MovieWithPopularity, error)
}

// Store is the full persistence surface.
type Store interface {
	UserStore
	MovieStore
	LikeStore
	RecommendationStore

	Ping(ctx context.Context) error
	Close() error
}
