package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"versepulse/internal/domain"
	"versepulse/internal/ports"
)

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;

CREATE TABLE IF NOT EXISTS seen_posts (
    post_id TEXT PRIMARY KEY,
    title   TEXT,
    url     TEXT,
    seen_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
`

// SeenStore is the SQLite-backed delivery ledger. Rows are only ever
// inserted; the table is the write-once record of delivered threads.
type SeenStore struct {
	db *sql.DB
}

var _ ports.SeenStore = (*SeenStore)(nil)

// Open creates the database file (and its parent directory) if needed and
// ensures the schema exists.
func Open(path string) (*SeenStore, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return &SeenStore{db: db}, nil
}

// Contains reports whether the thread id has already been delivered.
func (s *SeenStore) Contains(ctx context.Context, id string) (bool, error) {
	query, args, err := sq.Select("1").
		From("seen_posts").
		Where(sq.Eq{"post_id": id}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var one int
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query seen post: %w", err)
	}

	return true, nil
}

// MarkSeen records a delivered thread. Insert-if-absent: a concurrent or
// repeated insert for the same id is a no-op, preserving the first row.
func (s *SeenStore) MarkSeen(ctx context.Context, record domain.SeenRecord) error {
	query, args, err := sq.Insert("seen_posts").
		Options("OR IGNORE").
		Columns("post_id", "title", "url").
		Values(record.PostID, record.Title, record.URL).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert seen post: %w", err)
	}

	return nil
}

// Count returns the total number of delivered threads.
func (s *SeenStore) Count(ctx context.Context) (int, error) {
	query, args, err := sq.Select("COUNT(*)").From("seen_posts").ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count: %w", err)
	}

	var count int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count seen posts: %w", err)
	}

	return count, nil
}

// Close releases the underlying database handle.
func (s *SeenStore) Close() error {
	return s.db.Close()
}
