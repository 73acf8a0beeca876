package sqlstore

import (
	"context"
	"time"

	"github.com/reelrank/reelrank-server/internal/domain"
	"github.com/reelrank/reelrank-server/internal/metrics"
)

// LEFT JOIN keeps movies nobody has liked, counted as 0. Rows tied on both
// sort keys come back in whatever order the engine produces.
const topByGenreQuery = `
SELECT m.movie_id, m.movie_name, m.genre, m.ratings, COUNT(l.like_id) AS like_count
FROM movies m
LEFT JOIN likes l ON l.movie_id = m.movie_id
WHERE m.genre = ? AND m.movie_id <> ?
GROUP BY m.movie_id, m.movie_name, m.genre, m.ratings
ORDER BY like_count DESC, m.ratings DESC
LIMIT ?`

// TopByGenre ranks movies of genre, excluding exclude, by likes then rating.
func (s *Store) TopByGenre(ctx context.Context, genre string, exclude int64, limit int) ([]domain.MovieWithPopularity, error) {
	defer metrics.ObserveStoreOp("top_by_genre", time.Now())

	rows, err := s.db.QueryContext(ctx, s.q(topByGenreQuery), genre, exclude, limit)
	if err != nil {
		return nil, s.fail("top_by_genre", err)
	}
	defer rows.Close()

	out := make([]domain.MovieWithPopularity, 0, limit)
	for rows.Next() {
		var m domain.MovieWithPopularity
		if err := rows.Scan(&m.ID, &m.Name, &m.Genre, &m.Rating, &m.LikeCount); err != nil {
			return nil, s.fail("top_by_genre", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, s.fail("top_by_genre", err)
	}
	return out, nil
}
