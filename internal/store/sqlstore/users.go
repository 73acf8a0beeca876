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

// CreateUser inserts u and sets u.ID. The UNIQUE(name) constraint is the
// authority on uniqueness; a violation returns store.ErrUserExists.
func (s *Store) CreateUser(ctx context.Context, u *domain.User) error {
	defer metrics.ObserveStoreOp("create_user", time.Now())

	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}

	err := s.db.QueryRowContext(ctx,
		s.q(`INSERT INTO users (name, pass, created_at) VALUES (?, ?, ?) RETURNING user_id`),
		u.Name, u.PasswordHash, formatTime(u.CreatedAt),
	).Scan(&u.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", store.ErrUserExists, u.Name)
		}
		return s.fail("create_user", err)
	}
	return nil
}

// GetUserByName looks a user up by exact name.
func (s *Store) GetUserByName(ctx context.Context, name string) (*domain.User, error) {
	defer metrics.ObserveStoreOp("get_user", time.Now())

	var u domain.User
	err := s.db.QueryRowContext(ctx,
		s.q(`SELECT user_id, name, pass, created_at FROM users WHERE name = ?`), name,
	).Scan(&u.ID, &u.Name, &u.PasswordHash, timestamp{&u.CreatedAt})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrUserNotFound
	}
	if err != nil {
		return nil, s.fail("get_user", err)
	}
	return &u, nil
}

// UserExists reports whether name is taken.
func (s *Store) UserExists(ctx context.Context, name string) (bool, error) {
	defer metrics.ObserveStoreOp("user_exists", time.Now())

	var one int
	err := s.db.QueryRowContext(ctx, s.q(`SELECT 1 FROM users WHERE name = ?`), name).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, s.fail("user_exists", err)
	}
	return true, nil
}
