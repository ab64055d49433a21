// Package cache persists the last good upstream payload per data category
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Provider stores opaque payloads stamped with the time they were fetched
type Provider interface {
	Get(ctx context.Context, key string) (Entry, error)
	Set(ctx context.Context, key string, entry Entry) error
	Close() error
}

// Entry is one cached payload
type Entry struct {
	Payload   []byte
	FetchedAt time.Time
}

// ErrCacheMiss signals that a cache key was not found
var ErrCacheMiss = errors.New("cache miss")

// ErrStale signals an entry exists but is older than allowed. It matches ErrCacheMiss.
var ErrStale = fmt.Errorf("%w: entry expired", ErrCacheMiss)

// NoopProvider implements Provider but never stores data
type NoopProvider struct{}

// Get always returns ErrCacheMiss.
func (NoopProvider) Get(context.Context, string) (Entry, error) {
	return Entry{}, ErrCacheMiss
}

// Set discards the entry.
func (NoopProvider) Set(context.Context, string, Entry) error { return nil }

// Close is a no-op.
func (NoopProvider) Close() error { return nil }

// Load decodes the entry at key if it is no older than maxAge at now. An absent entry
// returns ErrCacheMiss and an expired one ErrStale.
func Load[T any](ctx context.Context, p Provider, key string, now time.Time, maxAge time.Duration) (T, time.Time, error) {
	var zero T
	entry, err := p.Get(ctx, key)
	if err != nil {
		return zero, time.Time{}, err
	}
	if now.Sub(entry.FetchedAt) > maxAge {
		return zero, entry.FetchedAt, ErrStale
	}

	var v T
	if err := json.Unmarshal(entry.Payload, &v); err != nil {
		return zero, time.Time{}, fmt.Errorf("decoding cached %s: %w", key, err)
	}
	return v, entry.FetchedAt, nil
}

// Save encodes v as JSON and stores it under key
func Save[T any](ctx context.Context, p Provider, key string, v T, fetchedAt time.Time) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s for cache: %w", key, err)
	}
	return p.Set(ctx, key, Entry{Payload: payload, FetchedAt: fetchedAt})
}
