// Package refresh keeps the latest tide, wind and marine data in memory, backed by
// the sqlite cache, and refreshes each category independently.
package refresh

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ngmaloney/exuma-cuts/internal/cache"
	"github.com/ngmaloney/exuma-cuts/internal/metrics"
)

// ErrOffline is returned by Refresh when offline with nothing cached
var ErrOffline = errors.New("offline and no cached data")

// FetchFunc retrieves a fresh value. now is the time the refresh was requested.
type FetchFunc[T any] func(ctx context.Context, now time.Time) (T, error)

// FetchRecorder is implemented by stores that keep a fetch history
type FetchRecorder interface {
	RecordFetch(ctx context.Context, source string, startedAt time.Time, d time.Duration, fetchErr error) error
}

// State is a copy of what a Source currently holds
type State[T any] struct {
	Value     T
	FetchedAt time.Time
	HasData   bool
	// LastErr is the most recent failure, cleared by the next successful commit
	LastErr error
}

// Source holds the last good value for one data category. Every Refresh takes a
// generation number and only the newest generation may commit, so a slow fetch that
// finishes after a newer one has started is discarded.
type Source[T any] struct {
	name   string
	maxAge time.Duration
	fetch  FetchFunc[T]
	store  cache.Provider
	logger *slog.Logger

	mu         sync.Mutex
	state      State[T]
	generation uint64
}

// NewSource creates a source named name (also its cache key). A nil store disables persistence.
func NewSource[T any](name string, maxAge time.Duration, fetch FetchFunc[T], store cache.Provider, logger *slog.Logger) *Source[T] {
	if store == nil {
		store = cache.NoopProvider{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Source[T]{
		name:   name,
		maxAge: maxAge,
		fetch:  fetch,
		store:  store,
		logger: logger.With(slog.String("source", name)),
	}
}

// Name returns the category name
func (s *Source[T]) Name() string { return s.name }

// MaxAge returns how long cached data stays usable
func (s *Source[T]) MaxAge() time.Duration { return s.maxAge }

// LoadCached fills the source from the persistent cache when the entry is fresh at now
// and newer than what is already held. It reports whether the source now has data.
func (s *Source[T]) LoadCached(ctx context.Context, now time.Time) bool {
	v, fetchedAt, err := cache.Load[T](ctx, s.store, s.name, now, s.maxAge)
	switch {
	case err == nil:
		metrics.ObserveCache(s.name, metrics.CacheHit)
	case errors.Is(err, cache.ErrStale):
		metrics.ObserveCache(s.name, metrics.CacheStale)
		s.logger.Debug("cached data expired", slog.Time("fetched_at", fetchedAt))
		return s.HasData()
	case errors.Is(err, cache.ErrCacheMiss):
		metrics.ObserveCache(s.name, metrics.CacheMiss)
		return s.HasData()
	default:
		s.logger.Warn("reading cache failed", slog.Any("error", err))
		return s.HasData()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.state.HasData || fetchedAt.After(s.state.FetchedAt) {
		s.state.Value = v
		s.state.FetchedAt = fetchedAt
		s.state.HasData = true
	}
	return true
}

// Refresh fetches a fresh value and commits it unless a newer refresh began meanwhile.
// When offline the fetch is skipped. A failure keeps the held data; an error is
// returned only when the source has nothing to fall back on.
func (s *Source[T]) Refresh(ctx context.Context, now time.Time, online bool) error {
	if !online {
		if s.LoadCached(ctx, now) {
			return nil
		}
		return fmt.Errorf("%s: %w", s.name, ErrOffline)
	}

	gen := s.begin()
	started := time.Now()
	v, err := s.fetch(ctx, now)
	elapsed := time.Since(started)
	s.record(ctx, started, elapsed, err)

	if err != nil {
		s.mu.Lock()
		current := gen == s.generation
		if current {
			s.state.LastErr = err
		}
		has := s.state.HasData
		s.mu.Unlock()

		if !current {
			metrics.ObserveFetch(s.name, elapsed, metrics.OutcomeDiscarded)
			s.logger.Debug("discarding superseded fetch failure", slog.Uint64("generation", gen), slog.Any("error", err))
			return nil
		}
		metrics.ObserveFetch(s.name, elapsed, metrics.OutcomeError)

		if !has && !s.LoadCached(ctx, now) {
			s.logger.Error("fetch failed with no cached data", slog.Any("error", err))
			return err
		}
		s.logger.Warn("fetch failed, using cached data", slog.Any("error", err))
		return nil
	}

	if !s.commit(gen, v, now) {
		metrics.ObserveFetch(s.name, elapsed, metrics.OutcomeDiscarded)
		s.logger.Debug("discarding superseded fetch", slog.Uint64("generation", gen))
		return nil
	}
	metrics.ObserveFetch(s.name, elapsed, metrics.OutcomeSuccess)

	if err := cache.Save(ctx, s.store, s.name, v, now); err != nil {
		s.logger.Warn("writing cache failed", slog.Any("error", err))
	}
	s.logger.Debug("refreshed", slog.Duration("elapsed", elapsed))
	return nil
}

func (s *Source[T]) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	return s.generation
}

func (s *Source[T]) commit(gen uint64, v T, fetchedAt time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return false
	}
	s.state = State[T]{Value: v, FetchedAt: fetchedAt, HasData: true}
	return true
}

func (s *Source[T]) record(ctx context.Context, started time.Time, d time.Duration, err error) {
	rec, ok := s.store.(FetchRecorder)
	if !ok {
		return
	}
	if recErr := rec.RecordFetch(ctx, s.name, started, d, err); recErr != nil {
		s.logger.Debug("recording fetch failed", slog.Any("error", recErr))
	}
}

// Snapshot returns a copy of the current state
func (s *Source[T]) Snapshot() State[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// HasData reports whether any value is held
func (s *Source[T]) HasData() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.HasData
}

// Generation returns the number of refreshes started so far
func (s *Source[T]) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}
