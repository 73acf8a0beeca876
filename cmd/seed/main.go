// Package main provides a tool to seed the database with the sample catalog.
//
// Movies are inserted only when the catalog is empty. With --demo-users it also
// registers a few accounts and gives them random likes so recommendations have
// popularity to rank by.
//
// Usage:
//
//	DB_PATH=./reelrank.db go run ./cmd/seed
//	DB_DRIVER=postgres DATABASE_URL=postgres://... go run ./cmd/seed --demo-users
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math/rand/v2"
	"os"
	"time"

	"github.com/reelrank/reelrank-server/internal/auth"
	"github.com/reelrank/reelrank-server/internal/config"
	"github.com/reelrank/reelrank-server/internal/di/providers"
	"github.com/reelrank/reelrank-server/internal/domain"
	domainerrors "github.com/reelrank/reelrank-server/internal/errors"
	"github.com/reelrank/reelrank-server/internal/logger"
	"github.com/reelrank/reelrank-server/internal/service"
	"github.com/reelrank/reelrank-server/internal/store/sqlstore"
	"github.com/reelrank/reelrank-server/internal/validation"
)

var demoUserNames = []string{"ada", "grace", "linus", "margaret", "ken"}

const demoPassword = "reelrank-demo"

func main() {
	demoUsers := flag.Bool("demo-users", false, "Also create demo users with random likes")
	flag.Parse()

	// Database settings come from the environment and .env, as for the server.
	cfg, err := config.Load(nil)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	opts, err := providers.StoreOptions(cfg)
	if err != nil {
		log.Fatalf("Invalid database config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	lg := logger.New(logger.Config{Writer: os.Stderr, Level: logger.ParseLevel(cfg.Logger.Level), Environment: cfg.App.Environment})

	s, err := sqlstore.Open(ctx, opts, lg)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	n, err := s.SeedMovies(ctx, sqlstore.SampleMovies())
	if err != nil {
		log.Fatalf("Failed to seed movies: %v", err)
	}
	if n == 0 {
		fmt.Println("Catalog already populated, no movies inserted")
	} else {
		fmt.Printf("Inserted %d movies\n", n)
	}

	if !*demoUsers {
		return
	}

	if err := seedDemoUsers(ctx, s, lg); err != nil {
		log.Fatalf("Failed to seed demo users: %v", err)
	}
}

func seedDemoUsers(ctx context.Context, s *sqlstore.Store, lg *slog.Logger) error {
	hasher, err := auth.NewHasher(auth.DefaultParams())
	if err != nil {
		return err
	}

	// The token service is unused here but required by the auth service.
	key := make([]byte, auth.KeySize)
	tokens, err := auth.NewTokenService(key, time.Minute)
	if err != nil {
		return err
	}

	authSvc := service.NewAuthService(s, hasher, tokens, validation.New(), nil)
	engagement := service.NewEngagementService(s, nil)

	movies, err := s.ListMovies(ctx)
	if err != nil {
		return err
	}
	if len(movies) == 0 {
		return errors.New("catalog is empty")
	}

	for _, name := range demoUserNames {
		_, err := authSvc.Register(ctx, service.RegisterRequest{Name: name, Password: demoPassword})
		switch {
		case errors.Is(err, domainerrors.ErrConflict):
			fmt.Printf("User %s already exists, skipping\n", name)
			continue
		case err != nil:
			return fmt.Errorf("register %s: %w", name, err)
		}

		liked := 0
		for _, m := range pickMovies(movies, 3+rand.IntN(4)) {
			outcome, err := engagement.ToggleLike(ctx, name, m.ID)
			if err != nil {
				return fmt.Errorf("like %d as %s: %w", m.ID, name, err)
			}
			if outcome == domain.Liked {
				liked++
			}
		}
		fmt.Printf("Created user %s (password %q) with %d likes\n", name, demoPassword, liked)
	}

	lg.Info("demo users seeded", "users", len(demoUserNames))
	return nil
}

// pickMovies returns n distinct movies in random order.
func pickMovies(movies []domain.Movie, n int) []domain.Movie {
	n = min(n, len(movies))
	out := make([]domain.Movie, 0, n)
	for _, idx := range rand.Perm(len(movies))[:n] {
		out = append(out, movies[idx])
	}
	return out
}
