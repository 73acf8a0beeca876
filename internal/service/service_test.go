package service

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/reelrank/reelrank-server/internal/auth"
	"github.com/reelrank/reelrank-server/internal/domain"
	"github.com/reelrank/reelrank-server/internal/logger"
	"github.com/reelrank/reelrank-server/internal/store"
	"github.com/reelrank/reelrank-server/internal/store/sqlstore"
	"github.com/reelrank/reelrank-server/internal/validation"
)

type testEnv struct {
	store     *sqlstore.Store
	tokens    *auth.TokenService
	auth      *AuthService
	catalog   *CatalogService
	engage    *EngagementService
	recommend *RecommendationService
	clock     *testClock
}

type testClock struct{ now time.Time }

func (c *testClock) Now() time.Time { return c.now }

// setupServices wires every service to a fresh SQLite store in a temp dir.
func setupServices(t *testing.T) *testEnv {
	t.Helper()

	s, err := sqlstore.Open(context.Background(), sqlstore.Options{
		Dialect: sqlstore.SQLite,
		DSN:     filepath.Join(t.TempDir(), "test.db"),
	}, logger.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	hasher, err := auth.NewHasher(auth.Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32})
	require.NoError(t, err)

	clock := &testClock{now: time.Now()}
	tokens, err := auth.NewTokenService(bytes.Repeat([]byte{1}, auth.KeySize), 30*time.Minute, auth.WithClock(clock.Now))
	require.NoError(t, err)

	log := logger.Discard()
	return &testEnv{
		store:     s,
		tokens:    tokens,
		auth:      NewAuthService(s, hasher, tokens, validation.New(), log),
		catalog:   NewCatalogService(s, log),
		engage:    NewEngagementService(s, log),
		recommend: NewRecommendationService(s, log),
		clock:     clock,
	}
}

func (e *testEnv) movie(t *testing.T, name, genre string, rating float64) *domain.Movie {
	t.Helper()
	m := &domain.Movie{Name: name, Genre: genre, Rating: rating}
	require.NoError(t, e.store.CreateMovie(context.Background(), m))
	return m
}

func (e *testEnv) user(t *testing.T, name string) *domain.User {
	t.Helper()
	u, err := e.auth.Register(context.Background(), RegisterRequest{Name: name, Password: "password123"})
	require.NoError(t, err)
	return u
}

// unavailableStore fails every call the way an unreachable database does.
type unavailableStore struct{ store.Store }

func (unavailableStore) err() error { return store.ErrUnavailable }

func (u unavailableStore) ListMovies(context.Context) ([]domain.Movie, error) { return nil, u.err() }
func (u unavailableStore) GetMovieGenre(context.Context, int64) (string, error) {
	return "", u.err()
}
func (u unavailableStore) GetUserByName(context.Context, string) (*domain.User, error) {
	return nil, u.err()
}
func (u unavailableStore) UserExists(context.Context, string) (bool, error) { return false, u.err() }
