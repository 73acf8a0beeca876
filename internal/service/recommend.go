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

// Recommendation list sizes.
const (
	DefaultRecommendationLimit = 10
	MaxRecommendationLimit     = 50
)

// RecommendationStore is what the recommendation engine needs from persistence.
type RecommendationStore interface {
	GetMovieGenre(ctx context.Context, id int64) (string, error)
	store.RecommendationStore
}

// RecommendationService ranks same-genre movies by popularity.
type RecommendationService struct {
	store  RecommendationStore
	logger *slog.Logger
}

// NewRecommendationService creates a new recommendation service.
func NewRecommendationService(s RecommendationStore, logger *slog.Logger) *RecommendationService {
	return &RecommendationService{store: s, logger: orDiscard(logger)}
}

// NormalizeLimit maps non-positive limits to the default and caps the rest.
func NormalizeLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultRecommendationLimit
	case limit > MaxRecommendationLimit:
		return MaxRecommendationLimit
	default:
		return limit
	}
}

// Recommend returns up to limit movies sharing movieID's genre, never movieID
// itself, most liked first and then highest rated. No peers is an empty list.
func (s *RecommendationService) Recommend(ctx context.Context, movieID int64, limit int) ([]domain.MovieWithPopularity, error) {
	genre, err := s.store.GetMovieGenre(ctx, movieID)
	if errors.Is(err, store.ErrMovieNotFound) {
		return nil, domainerrors.NotFoundf("movie %d not found", movieID)
	}
	if err != nil {
		return nil, storeFailure("get genre", err)
	}

	limit = NormalizeLimit(limit)
	items, err := s.store.TopByGenre(ctx, genre, movieID, limit)
	if err != nil {
		return nil, storeFailure("rank genre", err)
	}
	if items == nil {
		items = []domain.MovieWithPopularity{}
	}

	metrics.RecommendationsServed.Inc()
	metrics.RecommendationSize.Observe(float64(len(items)))
	s.logger.Debug("recommendations served", "movie_id", movieID, "genre", genre, "items", len(items))

	return items, nil
}
