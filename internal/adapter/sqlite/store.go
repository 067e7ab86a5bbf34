// Package sqlite implements the progress and stats stores on an embedded
// SQLite database for single-machine deployments.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/heartmarshall/wordclass/internal/adapter/changefeed"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS word_progress (
    student_id  TEXT    NOT NULL,
    word_id     TEXT    NOT NULL,
    state       TEXT    NOT NULL CHECK (state IN ('ACTIVE', 'MASTERED')),
    strength    INTEGER NOT NULL CHECK (strength >= 0),
    next_review INTEGER,
    updated_at  INTEGER NOT NULL,
    PRIMARY KEY (student_id, word_id)
);

CREATE TABLE IF NOT EXISTS learning_stats (
    student_id TEXT    PRIMARY KEY,
    document   TEXT    NOT NULL,
    updated_at INTEGER NOT NULL
);`

// Store holds the database handle shared by the progress and stats repos.
type Store struct {
	db  *sql.DB
	hub *changefeed.Hub
}

// Open connects to the SQLite database at dsn, applies pragmas and creates
// the schema. Change events are delivered through hub.
func Open(ctx context.Context, dsn string, hub *changefeed.Hub) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// Pragmas are per connection; one connection also serializes writers.
	db.SetMaxOpenConns(1)

	if err := applyPragmas(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db, hub: hub}, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return mapError(err, "ping")
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Progress returns the progress store backed by this database.
func (s *Store) Progress() *ProgressRepo {
	return &ProgressRepo{db: s.db, hub: s.hub, now: nowFunc}
}

// Stats returns the stats store backed by this database.
func (s *Store) Stats() *StatsRepo {
	return &StatsRepo{db: s.db, hub: s.hub, now: nowFunc}
}

func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// EnsureDir creates the parent directory of the database file at path.
func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
