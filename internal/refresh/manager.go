package refresh

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ngmaloney/exuma-cuts/internal/cache"
	"github.com/ngmaloney/exuma-cuts/internal/metrics"
	"github.com/ngmaloney/exuma-cuts/internal/models"
)

// Cache keys and category names
const (
	SourceTides  = "tides"
	SourceWind   = "wind"
	SourceMarine = "marine"
)

// MaxAges is how long cached data of each category stays usable
type MaxAges struct {
	Tides  time.Duration `yaml:"tides"`
	Wind   time.Duration `yaml:"wind"`
	Marine time.Duration `yaml:"marine"`
}

// DefaultMaxAges returns 6h for tides and 3h for wind and marine
func DefaultMaxAges() MaxAges {
	return MaxAges{Tides: 6 * time.Hour, Wind: 3 * time.Hour, Marine: 3 * time.Hour}
}

// Fetchers are the upstream calls for each category
type Fetchers struct {
	Tides  FetchFunc[[]models.TideEvent]
	Wind   FetchFunc[[]models.WindSample]
	Marine FetchFunc[[]models.MarineHourly]
}

// Manager owns the three independent data sources
type Manager struct {
	Tides  *Source[[]models.TideEvent]
	Wind   *Source[[]models.WindSample]
	Marine *Source[[]models.MarineHourly]
}

// NewManager wires a source per category onto a shared store
func NewManager(f Fetchers, ages MaxAges, store cache.Provider, logger *slog.Logger) *Manager {
	return &Manager{
		Tides:  NewSource(SourceTides, ages.Tides, f.Tides, store, logger),
		Wind:   NewSource(SourceWind, ages.Wind, f.Wind, store, logger),
		Marine: NewSource(SourceMarine, ages.Marine, f.Marine, store, logger),
	}
}

// LoadCached warms every source from the persistent cache
func (m *Manager) LoadCached(ctx context.Context, now time.Time) {
	m.Tides.LoadCached(ctx, now)
	m.Wind.LoadCached(ctx, now)
	m.Marine.LoadCached(ctx, now)
}

// RefreshAll refreshes the three categories concurrently. A failure in one never
// cancels the others; the returned error joins every category that ended with no data.
func (m *Manager) RefreshAll(ctx context.Context, now time.Time, online bool) error {
	var (
		g    errgroup.Group
		errs [3]error
	)
	// each goroutine keeps its own error so that one failure does not hide the others
	g.Go(func() error { errs[0] = m.Tides.Refresh(ctx, now, online); return nil })
	g.Go(func() error { errs[1] = m.Wind.Refresh(ctx, now, online); return nil })
	g.Go(func() error { errs[2] = m.Marine.Refresh(ctx, now, online); return nil })
	return errors.Join(append([]error{g.Wait()}, errs[:]...)...)
}

// Snapshot is one consistent view of all inputs for a computation pass.
// The slices are shared with the sources and must not be modified.
type Snapshot struct {
	Tides  State[[]models.TideEvent]
	Wind   State[[]models.WindSample]
	Marine State[[]models.MarineHourly]
}

// Snapshot copies the current state of every source
func (m *Manager) Snapshot() Snapshot {
	return Snapshot{
		Tides:  m.Tides.Snapshot(),
		Wind:   m.Wind.Snapshot(),
		Marine: m.Marine.Snapshot(),
	}
}

// ObserveAges publishes how old each category's data is at now
func (s Snapshot) ObserveAges(now time.Time) {
	if s.Tides.HasData {
		metrics.ObserveDataAge(SourceTides, s.Tides.FetchedAt, now)
	}
	if s.Wind.HasData {
		metrics.ObserveDataAge(SourceWind, s.Wind.FetchedAt, now)
	}
	if s.Marine.HasData {
		metrics.ObserveDataAge(SourceMarine, s.Marine.FetchedAt, now)
	}
}
