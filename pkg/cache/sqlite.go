package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // pure-Go sqlite driver
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS results (
	key        TEXT PRIMARY KEY,
	value      BLOB NOT NULL,
	created_at INTEGER NOT NULL,
	expires_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_results_expires ON results(expires_at);
`

// SQLiteStore caches results in a local SQLite database, one row per handle.
// Timestamps are stored as unix nanoseconds so entry age survives round-trips
// at full precision.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteStore opens (creating if needed) a cache database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("create cache dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}
	// A single writer avoids SQLITE_BUSY under concurrent scrapes.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close() //nolint:errcheck // already failing
		return nil, fmt.Errorf("init cache schema: %w", err)
	}

	return &SQLiteStore{db: db, now: time.Now}, nil
}

// Get returns the entry for key, or (nil, nil) when absent or expired.
func (s *SQLiteStore) Get(ctx context.Context, key string) (*Entry, error) {
	now := s.now()

	var value []byte
	var createdNs, expiresNs int64
	err := s.db.QueryRowContext(ctx,
		`SELECT value, created_at, expires_at FROM results WHERE key = ? AND expires_at > ?`,
		key, now.UnixNano(),
	).Scan(&value, &createdNs, &expiresNs)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache get %q: %w", key, err)
	}

	return &Entry{
		Key:       key,
		Value:     value,
		CreatedAt: time.Unix(0, createdNs),
		ExpiresAt: time.Unix(0, expiresNs),
	}, nil
}

// Set stores value under key with the given ttl, replacing any prior entry.
// Expired rows are pruned opportunistically on each write.
func (s *SQLiteStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	now := s.now()
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO results (key, value, created_at, expires_at) VALUES (?, ?, ?, ?)`,
		key, value, now.UnixNano(), now.Add(ttl).UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("cache set %q: %w", key, err)
	}

	// Best effort cleanup; a failure here never fails the write.
	_, _ = s.db.ExecContext(ctx, //nolint:errcheck // cleanup is advisory
		`DELETE FROM results WHERE expires_at <= ?`, now.UnixNano())
	return nil
}

// Invalidate removes the entry for key, if any.
func (s *SQLiteStore) Invalidate(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM results WHERE key = ?`, key); err != nil {
		return fmt.Errorf("cache invalidate %q: %w", key, err)
	}
	return nil
}

// Clear removes every entry.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM results`); err != nil {
		return fmt.Errorf("cache clear: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
