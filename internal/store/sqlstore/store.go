// Package sqlstore implements store.Store on database/sql for SQLite (modernc.org/sqlite) and PostgreSQL (lib/pq).
package sqlstore

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/reelrank/reelrank-server/internal/metrics"
	"github.com/reelrank/reelrank-server/internal/store"
)

//go:embed schema_sqlite.sql
var schemaSQLite string

//go:embed schema_postgres.sql
var schemaPostgres string

// sqlitePragmas are applied per connection through the DSN, so every pooled connection gets them.
var sqlitePragmas = []string{
	"journal_mode(WAL)",
	"synchronous(NORMAL)",
	"foreign_keys(1)",
	"busy_timeout(5000)",
}

// Options configures Open.
type Options struct {
	Dialect Dialect
	// DSN is a file path for SQLite or a connection URL for PostgreSQL.
	DSN          string
	MaxOpenConns int
}

// Store is a store.Store backed by a SQL database.
type Store struct {
	db      *sql.DB
	dialect Dialect
	logger  *slog.Logger
}

var _ store.Store = (*Store)(nil)

// Open connects, verifies the connection, and applies the embedded schema.
func Open(ctx context.Context, opts Options, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	driverName, dsn := string(opts.Dialect), opts.DSN
	switch opts.Dialect {
	case SQLite:
		if dir := filepath.Dir(opts.DSN); dir != "" {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("create database directory: %w", err)
			}
		}
		dsn = sqliteDSN(opts.DSN)
	case Postgres:
	default:
		return nil, fmt.Errorf("unsupported dialect %q", opts.Dialect)
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", opts.Dialect, err)
	}

	maxOpen := opts.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = 10
	}
	if opts.Dialect == SQLite && maxOpen > 4 {
		// One writer at a time; extra connections only queue on the busy timeout.
		maxOpen = 4
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(max(maxOpen/2, 1))
	db.SetConnMaxLifetime(time.Hour)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: ping %s: %w", store.ErrUnavailable, opts.Dialect, err)
	}

	if _, err := db.ExecContext(ctx, opts.Dialect.schema()); err != nil {
		db.Close()
		return nil, fmt.Errorf("exec schema: %w", err)
	}

	logger.Info("store opened", "dialect", string(opts.Dialect), "max_open_conns", maxOpen)

	return &Store{db: db, dialect: opts.Dialect, logger: logger}, nil
}

func sqliteDSN(path string) string {
	q := url.Values{}
	for _, p := range sqlitePragmas {
		q.Add("_pragma", p)
	}
	// Write transactions take the lock at BEGIN and wait on busy_timeout instead of failing mid-transaction.
	q.Set("_txlock", "immediate")
	return "file:" + path + "?" + q.Encode()
}

// Ping checks that the database answers.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %w", store.ErrUnavailable, err)
	}
	return nil
}

// Close closes the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// Dialect returns the SQL dialect in use.
func (s *Store) Dialect() Dialect {
	return s.dialect
}

func (s *Store) q(query string) string {
	return s.dialect.rebind(query)
}

// fail classifies err for op: connection failures wrap store.ErrUnavailable.
// Context errors stay in the chain so callers can tell a timeout from a fault.
func (s *Store) fail(op string, err error) error {
	if isCanceled(err) {
		metrics.StoreErrors.WithLabelValues(op, "canceled").Inc()
		return fmt.Errorf("%s: %w", op, err)
	}
	if isUnavailable(err) {
		metrics.StoreErrors.WithLabelValues(op, "unavailable").Inc()
		s.logger.Warn("store unavailable", "op", op, "error", err)
		return fmt.Errorf("%s: %w: %w", op, store.ErrUnavailable, err)
	}
	metrics.StoreErrors.WithLabelValues(op, "other").Inc()
	return fmt.Errorf("%s: %w", op, err)
}

// formatTime renders t as the UTC RFC 3339 text both dialects accept.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// timestamp scans TEXT (SQLite) or TIMESTAMPTZ (PostgreSQL) into a time.Time.
type timestamp struct{ t *time.Time }

func (ts timestamp) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*ts.t = v.UTC()
	case string:
		return ts.parse(v)
	case []byte:
		return ts.parse(string(v))
	case nil:
		*ts.t = time.Time{}
	default:
		return fmt.Errorf("unsupported timestamp type %T", src)
	}
	return nil
}

func (ts timestamp) parse(v string) error {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05.999999999-07:00", "2006-01-02 15:04:05"} {
		if parsed, err := time.Parse(layout, v); err == nil {
			*ts.t = parsed.UTC()
			return nil
		}
	}
	return errors.New("unparseable timestamp " + v)
}
