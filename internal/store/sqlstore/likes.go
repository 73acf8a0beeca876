package sqlstore

import (
	"context"
	"fmt"
	"time"

	"github.com/reelrank/reelrank-server/internal/domain"
	"github.com/reelrank/reelrank-server/internal/metrics"
	"github.com/reelrank/reelrank-server/internal/store"
)

// ToggleLike flips the (user, movie) like inside one transaction.
//
// The delete runs first: one row gone means the caller had liked the movie.
// Otherwise the insert uses ON CONFLICT DO NOTHING, so a concurrent toggle that
// inserted the same pair first turns ours into a no-op and both report Liked.
func (s *Store) ToggleLike(ctx context.Context, userID, movieID int64) (domain.ToggleOutcome, error) {
	defer metrics.ObserveStoreOp("toggle_like", time.Now())

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", s.fail("toggle_like", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after Commit

	res, err := tx.ExecContext(ctx, s.q(`DELETE FROM likes WHERE user_id = ? AND movie_id = ?`), userID, movieID)
	if err != nil {
		return "", s.fail("toggle_like", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return "", s.fail("toggle_like", err)
	}

	outcome := domain.Unliked
	if deleted == 0 {
		outcome = domain.Liked
		_, err = tx.ExecContext(ctx,
			s.q(`INSERT INTO likes (user_id, movie_id, created_at) VALUES (?, ?, ?) ON CONFLICT (user_id, movie_id) DO NOTHING`),
			userID, movieID, formatTime(time.Now()),
		)
		if err != nil {
			if isForeignKeyViolation(err) {
				return "", fmt.Errorf("%w: %d", store.ErrMovieNotFound, movieID)
			}
			return "", s.fail("toggle_like", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", s.fail("toggle_like", err)
	}
	return outcome, nil
}

// LikeCount returns how many users like movieID.
func (s *Store) LikeCount(ctx context.Context, movieID int64) (int, error) {
	defer metrics.ObserveStoreOp("like_count", time.Now())

	var n int
	if err := s.db.QueryRowContext(ctx, s.q(`SELECT COUNT(*) FROM likes WHERE movie_id = ?`), movieID).Scan(&n); err != nil {
		return 0, s.fail("like_count", err)
	}
	return n, nil
}
