package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/reelrank/reelrank-server/internal/domain"
	domainerrors "github.com/reelrank/reelrank-server/internal/errors"
	"github.com/reelrank/reelrank-server/internal/metrics"
	"github.com/reelrank/reelrank-server/internal/store"
)

// EngagementStore is what the engagement ledger needs from persistence.
type EngagementStore interface {
	store.UserStore
	store.LikeStore
}

// EngagementService maintains likes.
type EngagementService struct {
	store  EngagementStore
	logger *slog.Logger
}

// NewEngagementService creates a new engagement service.
func NewEngagementService(s EngagementStore, logger *slog.Logger) *EngagementService {
	return &EngagementService{store: s, logger: orDiscard(logger)}
}

// ToggleLike flips userName's like on movieID and reports the resulting state.
func (s *EngagementService) ToggleLike(ctx context.Context, userName string, movieID int64) (domain.ToggleOutcome, error) {
	user, err := s.store.GetUserByName(ctx, domain.NormalizeUserName(userName))
	if errors.Is(err, store.ErrUserNotFound) {
		return "", domainerrors.NotFound("user not found")
	}
	if err != nil {
		return "", storeFailure("get user", err)
	}

	outcome, err := s.store.ToggleLike(ctx, user.ID, movieID)
	if errors.Is(err, store.ErrMovieNotFound) {
		return "", domainerrors.NotFoundf("movie %d not found", movieID)
	}
	if err != nil {
		return "", storeFailure("toggle like", err)
	}

	metrics.LikeToggles.WithLabelValues(string(outcome)).Inc()
	s.logger.Info("like toggled", "user_id", user.ID, "movie_id", movieID, "outcome", string(outcome))

	return outcome, nil
}

// LikeCount returns how many users like movieID.
func (s *EngagementService) LikeCount(ctx context.Context, movieID int64) (int, error) {
	n, err := s.store.LikeCount(ctx, movieID)
	if err != nil {
		return 0, storeFailure("like count", err)
	}
	return n, nil
}
