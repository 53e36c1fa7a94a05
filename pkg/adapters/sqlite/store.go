// Package sqlite persists sequences, curricula and quiz sessions in a single
// SQLite file using the pure Go modernc driver.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS sequences (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	is_archived INTEGER NOT NULL DEFAULT 0,
	updated_at  INTEGER NOT NULL,
	doc         TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS sequences_updated_at ON sequences (updated_at DESC);

CREATE TABLE IF NOT EXISTS curricula (
	id   TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	doc  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS lessons (
	curriculum_id TEXT NOT NULL REFERENCES curricula (id) ON DELETE CASCADE,
	id            TEXT NOT NULL,
	ord           INTEGER NOT NULL,
	doc           TEXT NOT NULL,
	PRIMARY KEY (curriculum_id, id)
);

CREATE TABLE IF NOT EXISTS techniques (
	id   TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	doc  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS sessions (
	id         TEXT PRIMARY KEY,
	updated_at INTEGER NOT NULL,
	doc        TEXT NOT NULL
);
`

// Store implements ports.SequenceStore, ports.CurriculumStore and
// ports.SessionStore. Documents are kept as JSON next to the few columns
// queries filter or order on.
type Store struct {
	db *sql.DB
}

// Open connects to the database at path, applies pragmas and creates the
// schema.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One writer at a time; pragmas are per connection.
	db.SetMaxOpenConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// getDoc loads the JSON document selected by query into dst, returning
// notFound when no row matches.
func (s *Store) getDoc(ctx context.Context, dst any, notFound error, query string, args ...any) error {
	var doc string
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return notFound
	}
	if err != nil {
		return fmt.Errorf("query: %w", err)
	}
	if err := json.Unmarshal([]byte(doc), dst); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	return nil
}

// listDocs decodes every row's document with decode.
func (s *Store) listDocs(ctx context.Context, decode func([]byte) error, query string, args ...any) error {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return fmt.Errorf("scan: %w", err)
		}
		if err := decode([]byte(doc)); err != nil {
			return fmt.Errorf("decode document: %w", err)
		}
	}
	return rows.Err()
}
