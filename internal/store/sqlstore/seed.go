package sqlstore

import (
	"context"
	"time"

	"github.com/reelrank/reelrank-server/internal/domain"
	"github.com/reelrank/reelrank-server/internal/metrics"
)

// SampleMovies is the starter catalog inserted by SeedMovies.
func SampleMovies() []domain.Movie {
	return []domain.Movie{
		{Name: "The Shawshank Redemption", Genre: "Drama", Rating: 9.3},
		{Name: "The Godfather", Genre: "Crime", Rating: 9.2},
		{Name: "The Dark Knight", Genre: "Action", Rating: 9.0},
		{Name: "Pulp Fiction", Genre: "Crime", Rating: 8.9},
		{Name: "Forrest Gump", Genre: "Drama", Rating: 8.8},
		{Name: "Inception", Genre: "Action", Rating: 8.8},
		{Name: "Fight Club", Genre: "Drama", Rating: 8.8},
		{Name: "The Matrix", Genre: "Action", Rating: 8.7},
		{Name: "Goodfellas", Genre: "Crime", Rating: 8.7},
		{Name: "The Silence of the Lambs", Genre: "Thriller", Rating: 8.6},
		{Name: "Se7en", Genre: "Thriller", Rating: 8.6},
		{Name: "Interstellar", Genre: "Sci-Fi", Rating: 8.6},
		{Name: "The Green Mile", Genre: "Drama", Rating: 8.6},
		{Name: "Saving Private Ryan", Genre: "War", Rating: 8.6},
		{Name: "The Prestige", Genre: "Thriller", Rating: 8.5},
		{Name: "Gladiator", Genre: "Action", Rating: 8.5},
		{Name: "The Departed", Genre: "Crime", Rating: 8.5},
		{Name: "The Lion King", Genre: "Animation", Rating: 8.5},
		{Name: "Whiplash", Genre: "Drama", Rating: 8.5},
		{Name: "The Avengers", Genre: "Action", Rating: 8.0},
	}
}

// SeedMovies inserts movies in one transaction, but only when the catalog is empty.
// It returns how many rows were inserted.
func (s *Store) SeedMovies(ctx context.Context, movies []domain.Movie) (int, error) {
	defer metrics.ObserveStoreOp("seed_movies", time.Now())

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, s.fail("seed_movies", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after Commit

	var existing int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM movies`).Scan(&existing); err != nil {
		return 0, s.fail("seed_movies", err)
	}
	if existing > 0 {
		s.logger.Info("catalog already populated, skipping seed", "movies", existing)
		return 0, nil
	}

	for i := range movies {
		if err := s.insertMovie(ctx, tx, &movies[i]); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, s.fail("seed_movies", err)
	}

	s.logger.Info("sample catalog seeded", "movies", len(movies))
	return len(movies), nil
}
