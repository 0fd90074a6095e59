// Package history persists one record per build in a local SQLite database,
// kept outside the output tree so wiping output never loses it.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Record is one completed (or failed) build.
type Record struct {
	ID       int64
	BuildID  string
	Started  time.Time
	Duration time.Duration
	Outcome  string
	Posts    int
	Pages    int
	Error    string
}

// Store implements build-history persistence on SQLite.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// DefaultPath is where the build command keeps its history database.
const DefaultPath = ".blogbuilder/history.db"

// Open opens (and initializes) the history database, creating the parent
// directory if needed. Use ":memory:" for an in-memory database in tests.
func Open(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if dir := filepath.Dir(dbPath); dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("create history directory: %w", err)
			}
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close() // Best effort cleanup on initialization error
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return store, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS builds (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		build_id TEXT NOT NULL,
		started INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		outcome TEXT NOT NULL,
		posts INTEGER NOT NULL,
		pages INTEGER NOT NULL,
		error TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_builds_started ON builds(started);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Append records a build.
func (s *Store) Append(ctx context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO builds (build_id, started, duration_ms, outcome, posts, pages, error) VALUES (?, ?, ?, ?, ?, ?, ?)",
		rec.BuildID, rec.Started.UnixMilli(), rec.Duration.Milliseconds(), rec.Outcome, rec.Posts, rec.Pages, rec.Error,
	)
	if err != nil {
		return fmt.Errorf("insert build record: %w", err)
	}
	return nil
}

// Recent returns the most recent builds, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, build_id, started, duration_ms, outcome, posts, pages, COALESCE(error, '') FROM builds ORDER BY started DESC, id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query builds: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var started, durationMS int64
		if err := rows.Scan(&rec.ID, &rec.BuildID, &started, &durationMS, &rec.Outcome, &rec.Posts, &rec.Pages, &rec.Error); err != nil {
			return nil, fmt.Errorf("scan build record: %w", err)
		}
		rec.Started = time.UnixMilli(started)
		rec.Duration = time.Duration(durationMS) * time.Millisecond
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }
