// Package history persists build results to a local SQLite database so past
// outcomes survive across runs and are queryable from the CLI.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Entry is one recorded build.
type Entry struct {
	ID       int64
	BuildID  string
	Target   string
	Theme    string
	Renderer string
	Outcome  string
	Duration time.Duration
	Finished time.Time
	Report   json.RawMessage // full build report, when available
}

// Store records and queries build history.
// Use ":memory:" for an in-memory database, or a file path for persistence.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open opens (creating if needed) the history database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}

	s := &Store{db: db}
	if err := s.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return s, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS builds (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		build_id TEXT NOT NULL,
		target TEXT NOT NULL,
		theme TEXT,
		renderer TEXT,
		outcome TEXT NOT NULL,
		duration_ms INTEGER NOT NULL,
		finished INTEGER NOT NULL,
		report TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_builds_build_id ON builds(build_id);
	CREATE INDEX IF NOT EXISTS idx_builds_finished ON builds(finished);
	CREATE INDEX IF NOT EXISTS idx_builds_target ON builds(target);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Append records a finished build.
func (s *Store) Append(ctx context.Context, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	finished := e.Finished
	if finished.IsZero() {
		finished = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO builds (build_id, target, theme, renderer, outcome, duration_ms, finished, report) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		e.BuildID, e.Target, e.Theme, e.Renderer, e.Outcome, e.Duration.Milliseconds(), finished.Unix(), nullableJSON(e.Report),
	)
	if err != nil {
		return fmt.Errorf("insert build: %w", err)
	}
	return nil
}

func nullableJSON(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}

// Recent returns up to limit builds, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, build_id, target, theme, renderer, outcome, duration_ms, finished, report FROM builds ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query builds: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// ByBuildID returns all records for a build ID (normally one).
func (s *Store) ByBuildID(ctx context.Context, buildID string) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, build_id, target, theme, renderer, outcome, duration_ms, finished, report FROM builds WHERE build_id = ? ORDER BY id",
		buildID,
	)
	if err != nil {
		return nil, fmt.Errorf("query builds: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var e Entry
		var durationMS int64
		var finishedUnix int64
		var report sql.NullString

		err := rows.Scan(&e.ID, &e.BuildID, &e.Target, &e.Theme, &e.Renderer, &e.Outcome, &durationMS, &finishedUnix, &report)
		if err != nil {
			return nil, fmt.Errorf("scan build: %w", err)
		}
		e.Duration = time.Duration(durationMS) * time.Millisecond
		e.Finished = time.Unix(finishedUnix, 0)
		if report.Valid && report.String != "" {
			e.Report = json.RawMessage(report.String)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return entries, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
