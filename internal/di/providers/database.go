package providers

import (
	"context"
	"log/slog"

	"github.com/samber/do/v2"

	"github.com/reelrank/reelrank-server/internal/config"
	"github.com/reelrank/reelrank-server/internal/store/sqlstore"
)

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	*sqlstore.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// StoreOptions derives the store options from configuration.
func StoreOptions(cfg *config.Config) (sqlstore.Options, error) {
	dialect, err := sqlstore.ParseDialect(cfg.Database.Driver)
	if err != nil {
		return sqlstore.Options{}, err
	}

	dsn := cfg.Database.Path
	if dialect == sqlstore.Postgres {
		dsn = cfg.Database.URL
	}

	return sqlstore.Options{
		Dialect:      dialect,
		DSN:          dsn,
		MaxOpenConns: cfg.Database.MaxOpenConns,
	}, nil
}

// ProvideStore opens the database and optionally seeds the sample catalog.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*slog.Logger](i)

	opts, err := StoreOptions(cfg)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeInitTimeout)
	defer cancel()

	db, err := sqlstore.Open(ctx, opts, log)
	if err != nil {
		return nil, err
	}

	log.Info("Database initialized", "driver", opts.Dialect)

	if cfg.Database.SeedSampleData {
		n, err := db.SeedMovies(ctx, sqlstore.SampleMovies())
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		if n > 0 {
			log.Info("Sample catalog inserted", "movies", n)
		}
	}

	return &StoreHandle{Store: db}, nil
}
