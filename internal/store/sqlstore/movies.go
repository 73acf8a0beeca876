package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/reelrank/reelrank-server/internal/domain"
	"github.com/reelrank/reelrank-server/internal/metrics"
	"github.com/reelrank/reelrank-server/internal/store"
)

const movieColumns = `movie_id, movie_name, genre, ratings, created_at`

func scanMovie(scanner interface{ Scan(dest ...any) error }) (*domain.Movie, error) {
	var m domain.Movie
	if err := scanner.Scan(&m.ID, &m.Name, &m.Genre, &m.Rating, timestamp{&m.CreatedAt}); err != nil {
		return nil, err
	}
	return &m, nil
}

// ListMovies returns the whole catalog in store-native order.
func (s *Store) ListMovies(ctx context.Context) ([]domain.Movie, error) {
	defer metrics.ObserveStoreOp("list_movies", time.Now())

	rows, err := s.db.QueryContext(ctx, `SELECT `+movieColumns+` FROM movies`)
	if err != nil {
		return nil, s.fail("list_movies", err)
	}
	defer rows.Close()

	movies := []domain.Movie{}
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, s.fail("list_movies", err)
		}
		movies = append(movies, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, s.fail("list_movies", err)
	}
	return movies, nil
}

// GetMovie returns one movie or store.ErrMovieNotFound.
func (s *Store) GetMovie(ctx context.Context, id int64) (*domain.Movie, error) {
	defer metrics.ObserveStoreOp("get_movie", time.Now())

	m, err := scanMovie(s.db.QueryRowContext(ctx, s.q(`SELECT `+movieColumns+` FROM movies WHERE movie_id = ?`), id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrMovieNotFound
	}
	if err != nil {
		return nil, s.fail("get_movie", err)
	}
	return m, nil
}

// GetMovieGenre returns the genre of movie id or store.ErrMovieNotFound.
func (s *Store) GetMovieGenre(ctx context.Context, id int64) (string, error) {
	defer metrics.ObserveStoreOp("get_movie_genre", time.Now())

	var genre string
	err := s.db.QueryRowContext(ctx, s.q(`SELECT genre FROM movies WHERE movie_id = ?`), id).Scan(&genre)
	if errors.Is(err, sql.ErrNoRows) {
		return "", store.ErrMovieNotFound
	}
	if err != nil {
		return "", s.fail("get_movie_genre", err)
	}
	return genre, nil
}

// CreateMovie inserts m and sets m.ID. An out-of-range rating returns store.ErrInvalidRating.
func (s *Store) CreateMovie(ctx context.Context, m *domain.Movie) error {
	defer metrics.ObserveStoreOp("create_movie", time.Now())
	return s.insertMovie(ctx, s.db, m)
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Store) insertMovie(ctx context.Context, q queryRower, m *domain.Movie) error {
	if !domain.ValidRating(m.Rating) {
		return fmt.Errorf("%w: %q has rating %v", store.ErrInvalidRating, m.Name, m.Rating)
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	err := q.QueryRowContext(ctx,
		s.q(`INSERT INTO movies (movie_name, genre, ratings, created_at) VALUES (?, ?, ?, ?) RETURNING movie_id`),
		m.Name, m.Genre, m.Rating, formatTime(m.CreatedAt),
	).Scan(&m.ID)
	if err != nil {
		return s.fail("create_movie", fmt.Errorf("insert %q: %w", m.Name, err))
	}
	return nil
}

// CountMovies returns the catalog size.
func (s *Store) CountMovies(ctx context.Context) (int, error) {
	defer metrics.ObserveStoreOp("count_movies", time.Now())

	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM movies`).Scan(&n); err != nil {
		return 0, s.fail("count_movies", err)
	}
	return n, nil
}
