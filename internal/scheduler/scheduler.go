// Package scheduler runs the headless watch mode: a status tick and a periodic data refresh
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/ngmaloney/exuma-cuts/internal/models"
	"github.com/ngmaloney/exuma-cuts/internal/refresh"
	"github.com/ngmaloney/exuma-cuts/internal/report"
	"github.com/ngmaloney/exuma-cuts/internal/transit"
)

// Parser accepts five or six field specs and descriptors such as "@every 1m"
var Parser = cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// Scheduler manages the cron tasks of watch mode
type Scheduler struct {
	Cron    *cron.Cron
	Manager *refresh.Manager
	Cuts    []models.CutDefinition
	Scoring transit.Config
	Ctx     context.Context

	logger   *slog.Logger
	location *time.Location
	now      func() time.Time
	onReport func(report.Report)

	mu     sync.Mutex
	latest report.Report
	online bool
}

// NewScheduler creates a scheduler. Reports are computed in loc.
func NewScheduler(ctx context.Context, m *refresh.Manager, all []models.CutDefinition, scoring transit.Config, loc *time.Location, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{
		Cron:     cron.New(cron.WithParser(Parser), cron.WithLocation(loc)),
		Manager:  m,
		Cuts:     all,
		Scoring:  scoring,
		Ctx:      ctx,
		logger:   logger,
		location: loc,
		now:      time.Now,
		online:   true,
	}
}

// OnReport registers a callback run after every tick
func (s *Scheduler) OnReport(fn func(report.Report)) {
	s.onReport = fn
}

// SetOnline switches between fetching and cache-only refreshes
func (s *Scheduler) SetOnline(online bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.online = online
}

// RegisterAll registers the status tick and the data refresh
func (s *Scheduler) RegisterAll(tickCron, refreshCron string) error {
	if _, err := s.Cron.AddFunc(tickCron, func() { s.Tick() }); err != nil {
		return fmt.Errorf("register tick task: %w", err)
	}
	if _, err := s.Cron.AddFunc(refreshCron, func() { s.Refresh() }); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	return nil
}

// Start loads the cache, refreshes once, then starts the cron scheduler
func (s *Scheduler) Start() {
	s.Manager.LoadCached(s.Ctx, s.clock())
	s.Refresh()
	s.Tick()
	s.Cron.Start()
	s.logger.Info("scheduler started", slog.Int("cuts", len(s.Cuts)))
}

// Stop stops the cron scheduler and waits for running jobs
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.logger.Info("scheduler stopped")
}

// Refresh fetches every category; failures are logged and never stop the loop
func (s *Scheduler) Refresh() {
	s.mu.Lock()
	online := s.online
	s.mu.Unlock()

	if err := s.Manager.RefreshAll(s.Ctx, s.clock(), online); err != nil {
		s.logger.Error("refresh incomplete", slog.Any("error", err))
	}
}

// Tick recomputes every cut at the current time
func (s *Scheduler) Tick() report.Report {
	now := s.clock()
	snap := s.Manager.Snapshot()
	snap.ObserveAges(now)

	r := report.Build(s.Scoring, s.Cuts, snap, now)
	r.Observe()

	s.mu.Lock()
	prev := s.latest
	s.latest = r
	s.mu.Unlock()

	s.logChanges(prev, r)
	if s.onReport != nil {
		s.onReport(r)
	}
	return r
}

// Latest returns the report from the last tick
func (s *Scheduler) Latest() report.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest
}

func (s *Scheduler) clock() time.Time {
	return s.now().In(s.location)
}

// logChanges logs each cut whose safety level moved since the previous tick
func (s *Scheduler) logChanges(prev, cur report.Report) {
	before := make(map[string]models.SafetyLevel, len(prev.Statuses))
	for _, st := range prev.Statuses {
		before[st.Cut.ID] = st.SafetyLevel
	}
	for _, st := range cur.Statuses {
		old, ok := before[st.Cut.ID]
		if ok && old == st.SafetyLevel {
			continue
		}
		attrs := []any{
			slog.String("cut", st.Cut.ID),
			slog.String("level", string(st.SafetyLevel)),
			slog.String("direction", string(st.TideDirection)),
			slog.Float64("current_knots", st.CurrentSpeedKnots),
		}
		if len(st.SafetyReasons) > 0 {
			attrs = append(attrs, slog.String("reason", st.SafetyReasons[0]))
		}
		if ok {
			attrs = append(attrs, slog.String("was", string(old)))
		}
		s.logger.Info("cut safety", attrs...)
	}
}
