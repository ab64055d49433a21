package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ngmaloney/exuma-cuts/internal/database"
)

// SQLiteStore implements Provider on the shared sqlite database
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// OpenSQLite opens the database at dbPath and returns a store that owns it
func OpenSQLite(dbPath string) (*SQLiteStore, error) {
	db, err := database.Open(dbPath)
	if err != nil {
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// Get returns the entry at key, or ErrCacheMiss
func (s *SQLiteStore) Get(ctx context.Context, key string) (Entry, error) {
	var (
		payload   []byte
		fetchedAt int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT payload, fetched_at FROM cache_entries WHERE key = ?`, key,
	).Scan(&payload, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, ErrCacheMiss
	}
	if err != nil {
		return Entry{}, fmt.Errorf("reading cache entry %s: %w", key, err)
	}
	return Entry{Payload: payload, FetchedAt: time.UnixMilli(fetchedAt)}, nil
}

// Set replaces the entry at key
func (s *SQLiteStore) Set(ctx context.Context, key string, entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO cache_entries (key, payload, fetched_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET payload = excluded.payload, fetched_at = excluded.fetched_at`,
		key, entry.Payload, entry.FetchedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("writing cache entry %s: %w", key, err)
	}
	return nil
}

// RecordFetch appends one upstream call to the fetch log
func (s *SQLiteStore) RecordFetch(ctx context.Context, source string, startedAt time.Time, d time.Duration, fetchErr error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		ok     = 1
		errMsg sql.NullString
	)
	if fetchErr != nil {
		ok = 0
		errMsg = sql.NullString{String: fetchErr.Error(), Valid: true}
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO fetch_log (source, started_at, duration_ms, ok, error) VALUES (?, ?, ?, ?, ?)`,
		source, startedAt.UnixMilli(), d.Milliseconds(), ok, errMsg,
	)
	if err != nil {
		return fmt.Errorf("recording fetch for %s: %w", source, err)
	}
	return nil
}

// LastSuccess returns when source was last fetched successfully
func (s *SQLiteStore) LastSuccess(ctx context.Context, source string) (time.Time, bool, error) {
	var startedAt sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		`SELECT MAX(started_at) FROM fetch_log WHERE source = ? AND ok = 1`, source,
	).Scan(&startedAt)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("reading fetch log for %s: %w", source, err)
	}
	if !startedAt.Valid {
		return time.Time{}, false, nil
	}
	return time.UnixMilli(startedAt.Int64), true, nil
}

// Close closes the underlying database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
