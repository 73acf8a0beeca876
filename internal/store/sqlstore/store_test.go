package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reelrank/reelrank-server/internal/domain"
	"github.com/reelrank/reelrank-server/internal/logger"
	"github.com/reelrank/reelrank-server/internal/store"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), Options{
		Dialect: SQLite,
		DSN:     filepath.Join(t.TempDir(), "test.db"),
	}, logger.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func mustUser(t *testing.T, s *Store, name string) *domain.User {
	t.Helper()
	u := &domain.User{Name: name, PasswordHash: "$argon2id$test"}
	require.NoError(t, s.CreateUser(context.Background(), u))
	return u
}

func mustMovie(t *testing.T, s *Store, name, genre string, rating float64) *domain.Movie {
	t.Helper()
	m := &domain.Movie{Name: name, Genre: genre, Rating: rating}
	require.NoError(t, s.CreateMovie(context.Background(), m))
	return m
}

func TestOpen_PragmasOnEveryConnection(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	var journalMode string
	require.NoError(t, s.db.QueryRowContext(ctx, "PRAGMA journal_mode").Scan(&journalMode))
	assert.Equal(t, "wal", journalMode)

	// Hold several connections at once so the pool has to open fresh ones.
	conns := make([]interface{ Close() error }, 0, 3)
	for range 3 {
		conn, err := s.db.Conn(ctx)
		require.NoError(t, err)
		conns = append(conns, conn)

		var fk int
		require.NoError(t, conn.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&fk))
		assert.Equal(t, 1, fk)
	}
	for _, c := range conns {
		c.Close()
	}

	for _, table := range []string{"users", "movies", "likes"} {
		var name string
		err := s.db.QueryRowContext(ctx, "SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		require.NoError(t, err, "table %s", table)
	}
	for _, index := range []string{"idx_likes_user_id", "idx_likes_movie_id", "idx_movies_genre"} {
		var name string
		err := s.db.QueryRowContext(ctx, "SELECT name FROM sqlite_master WHERE type='index' AND name=?", index).Scan(&name)
		require.NoError(t, err, "index %s", index)
	}
}

func TestOpen_SchemaIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "again.db")
	for range 2 {
		s, err := Open(context.Background(), Options{Dialect: SQLite, DSN: path}, nil)
		require.NoError(t, err)
		require.NoError(t, s.Close())
	}
}

func TestOpen_UnknownDialect(t *testing.T) {
	_, err := Open(context.Background(), Options{Dialect: "oracle"}, nil)
	assert.Error(t, err)
}

func TestUsers_CreateAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := mustUser(t, s, "alice")
	assert.Positive(t, u.ID)
	assert.False(t, u.CreatedAt.IsZero())

	got, err := s.GetUserByName(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "$argon2id$test", got.PasswordHash)
	assert.WithinDuration(t, u.CreatedAt, got.CreatedAt, 0)

	exists, err := s.UserExists(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = s.UserExists(ctx, "bob")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = s.GetUserByName(ctx, "bob")
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestUsers_DuplicateName(t *testing.T) {
	s := newTestStore(t)
	mustUser(t, s, "alice")

	err := s.CreateUser(context.Background(), &domain.User{Name: "alice", PasswordHash: "x"})
	assert.ErrorIs(t, err, store.ErrUserExists)
}

func TestUsers_ConcurrentDuplicateInsert(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		created   int
		conflicts int
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.CreateUser(ctx, &domain.User{Name: "racer", PasswordHash: "x"})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created++
			case errors.Is(err, store.ErrUserExists):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	assert.Equal(t, workers-1, conflicts)

	var rows int
	require.NoError(t, s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users WHERE name = 'racer'").Scan(&rows))
	assert.Equal(t, 1, rows)
}

func TestMovies_CRUD(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	empty, err := s.ListMovies(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	a := mustMovie(t, s, "Heat", "Crime", 8.3)
	mustMovie(t, s, "Alien", "Sci-Fi", 8.5)

	all, err := s.ListMovies(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	got, err := s.GetMovie(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Heat", got.Name)
	assert.InDelta(t, 8.3, got.Rating, 1e-9)

	genre, err := s.GetMovieGenre(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Crime", genre)

	_, err = s.GetMovie(ctx, 9999)
	assert.ErrorIs(t, err, store.ErrMovieNotFound)
	_, err = s.GetMovieGenre(ctx, 9999)
	assert.ErrorIs(t, err, store.ErrMovieNotFound)

	n, err := s.CountMovies(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestMovies_RatingCheckConstraint(t *testing.T) {
	s := newTestStore(t)
	err := s.CreateMovie(context.Background(), &domain.Movie{Name: "Bad", Genre: "Drama", Rating: 11})
	assert.ErrorIs(t, err, store.ErrInvalidRating)
}

func TestMovies_RatingRejectedBeforeInsert(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, r := range []float64{-0.1, 10.1, 7.25, math.NaN()} {
		err := s.CreateMovie(ctx, &domain.Movie{Name: "Bad", Genre: "Drama", Rating: r})
		assert.ErrorIs(t, err, store.ErrInvalidRating, "rating %v", r)
	}

	n, err := s.CountMovies(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

// liked reports whether userID likes movieID.
func liked(t *testing.T, s *Store, userID, movieID int64) bool {
	t.Helper()
	var n int
	err := s.db.QueryRowContext(context.Background(),
		s.q(`SELECT COUNT(*) FROM likes WHERE user_id = ? AND movie_id = ?`), userID, movieID).Scan(&n)
	require.NoError(t, err)
	return n == 1
}

func TestLikes_ToggleFlips(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := mustUser(t, s, "alice")
	m := mustMovie(t, s, "Heat", "Crime", 8.3)

	outcome, err := s.ToggleLike(ctx, u.ID, m.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.Liked, outcome)

	count, err := s.LikeCount(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	outcome, err = s.ToggleLike(ctx, u.ID, m.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.Unliked, outcome)

	count, err = s.LikeCount(ctx, m.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestLikes_ParityAfterNToggles(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := mustUser(t, s, "alice")

	for n := 1; n <= 6; n++ {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			m := mustMovie(t, s, fmt.Sprintf("Movie %d", n), "Drama", 7.0)
			for range n {
				_, err := s.ToggleLike(ctx, u.ID, m.ID)
				require.NoError(t, err)
			}
			assert.Equal(t, n%2 == 1, liked(t, s, u.ID, m.ID))
		})
	}
}

func TestLikes_UnknownMovie(t *testing.T) {
	s := newTestStore(t)
	u := mustUser(t, s, "alice")

	_, err := s.ToggleLike(context.Background(), u.ID, 424242)
	assert.ErrorIs(t, err, store.ErrMovieNotFound)
}

func TestLikes_ConcurrentTogglesKeepAtMostOneRow(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := mustUser(t, s, "alice")
	m := mustMovie(t, s, "Heat", "Crime", 8.3)

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.ToggleLike(ctx, u.ID, m.ID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	count, err := s.LikeCount(ctx, m.ID)
	require.NoError(t, err)
	assert.LessOrEqual(t, count, 1)
}

func TestLikes_CascadeOnMovieDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := mustUser(t, s, "alice")
	m := mustMovie(t, s, "Heat", "Crime", 8.3)

	_, err := s.ToggleLike(ctx, u.ID, m.ID)
	require.NoError(t, err)

	_, err = s.db.ExecContext(ctx, "DELETE FROM movies WHERE movie_id = ?", m.ID)
	require.NoError(t, err)

	var rows int
	require.NoError(t, s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM likes").Scan(&rows))
	assert.Zero(t, rows)
}

func TestTopByGenre_Example(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u1 := mustUser(t, s, "u1")
	a := mustMovie(t, s, "A", "Drama", 9.0)
	b := mustMovie(t, s, "B", "Drama", 8.0)
	mustMovie(t, s, "C", "Action", 7.0)

	_, err := s.ToggleLike(ctx, u1.ID, b.ID)
	require.NoError(t, err)

	got, err := s.TopByGenre(ctx, "Drama", a.ID, 10)
	require.NoError(t, err)
	assert.Equal(t, []domain.MovieWithPopularity{
		{ID: b.ID, Name: "B", Genre: "Drama", Rating: 8.0, LikeCount: 1},
	}, got)
}

func TestTopByGenre_OrderingAndLimit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seed := mustMovie(t, s, "Seed", "Thriller", 5.0)
	low := mustMovie(t, s, "Low", "Thriller", 6.0)
	high := mustMovie(t, s, "High", "Thriller", 9.0)
	popular := mustMovie(t, s, "Popular", "Thriller", 4.0)
	mustMovie(t, s, "Other genre", "Comedy", 9.9)

	users := []*domain.User{mustUser(t, s, "a"), mustUser(t, s, "b"), mustUser(t, s, "c")}
	for _, u := range users {
		_, err := s.ToggleLike(ctx, u.ID, popular.ID)
		require.NoError(t, err)
		_, err = s.ToggleLike(ctx, u.ID, seed.ID)
		require.NoError(t, err)
	}
	_, err := s.ToggleLike(ctx, users[0].ID, low.ID)
	require.NoError(t, err)

	got, err := s.TopByGenre(ctx, "Thriller", seed.ID, 10)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []int64{popular.ID, low.ID, high.ID}, []int64{got[0].ID, got[1].ID, got[2].ID})

	for i := 1; i < len(got); i++ {
		assert.False(t, got[i].RanksAbove(got[i-1]), "item %d out of order", i)
	}
	for _, item := range got {
		assert.NotEqual(t, seed.ID, item.ID)
		assert.Equal(t, "Thriller", item.Genre)
	}

	limited, err := s.TopByGenre(ctx, "Thriller", seed.ID, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestTopByGenre_NoPeers(t *testing.T) {
	s := newTestStore(t)
	only := mustMovie(t, s, "Lonely", "Western", 7.7)

	got, err := s.TopByGenre(context.Background(), "Western", only.ID, 10)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSeedMovies_OnlyWhenEmpty(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	n, err := s.SeedMovies(ctx, SampleMovies())
	require.NoError(t, err)
	assert.Equal(t, 20, n)

	n, err = s.SeedMovies(ctx, SampleMovies())
	require.NoError(t, err)
	assert.Zero(t, n)

	count, err := s.CountMovies(ctx)
	require.NoError(t, err)
	assert.Equal(t, 20, count)

	for _, m := range SampleMovies() {
		assert.True(t, domain.ValidRating(m.Rating), m.Name)
	}
}

func TestClosedStore_IsUnavailable(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Close())

	_, err := s.ListMovies(context.Background())
	assert.ErrorIs(t, err, store.ErrUnavailable)

	assert.ErrorIs(t, s.Ping(context.Background()), store.ErrUnavailable)
}
