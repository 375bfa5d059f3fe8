package viewcount

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/dvh-sh/folio/listing"
)

// SQLiteStore keeps view counts in a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at path, ensures the data
// directory exists, and creates the schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	// Pragmas go in the DSN so every pooled connection gets them; writers
	// wait on the busy timeout instead of failing with SQLITE_BUSY.
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)

	s := &SQLiteStore{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS views (
    slug TEXT NOT NULL,
    type TEXT NOT NULL CHECK (type IN ('blog', 'cooking')),
    views INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (slug, type)
);
`)
	return err
}

func (s *SQLiteStore) Counts(ctx context.Context, kind listing.Kind) (map[string]int, error) {
	if err := checkKind(kind); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `SELECT slug, views FROM views WHERE type = ?`, string(kind))
	if err != nil {
		return nil, fmt.Errorf("query views: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var slug string
		var views int
		if err := rows.Scan(&slug, &views); err != nil {
			return nil, err
		}
		out[slug] = views
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Count(ctx context.Context, slug string, kind listing.Kind) (int, error) {
	if err := checkKind(kind); err != nil {
		return 0, err
	}
	var views int
	err := s.db.QueryRowContext(ctx, `SELECT views FROM views WHERE slug = ? AND type = ?`, slug, string(kind)).Scan(&views)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("query view: %w", err)
	}
	return views, nil
}

func (s *SQLiteStore) Increment(ctx context.Context, slug string, kind listing.Kind) (int, error) {
	if err := checkKind(kind); err != nil {
		return 0, err
	}
	var views int
	err := s.db.QueryRowContext(ctx, `
INSERT INTO views (slug, type, views) VALUES (?, ?, 1)
ON CONFLICT (slug, type) DO UPDATE SET views = views + 1
RETURNING views`, slug, string(kind)).Scan(&views)
	if err != nil {
		return 0, fmt.Errorf("increment view: %w", err)
	}
	return views, nil
}
