// Package report evaluates every cut from one data snapshot and renders the result as text
package report

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"github.com/ngmaloney/exuma-cuts/internal/cuts"
	"github.com/ngmaloney/exuma-cuts/internal/marine"
	"github.com/ngmaloney/exuma-cuts/internal/metrics"
	"github.com/ngmaloney/exuma-cuts/internal/models"
	"github.com/ngmaloney/exuma-cuts/internal/refresh"
	"github.com/ngmaloney/exuma-cuts/internal/status"
	"github.com/ngmaloney/exuma-cuts/internal/transit"
)

// SourceAge describes the data behind a report
type SourceAge struct {
	Name      string
	FetchedAt time.Time
	HasData   bool
	Err       error
	// LastSuccess is the last successful upstream fetch, zero when unknown
	LastSuccess time.Time
}

// FetchHistory is implemented by stores that log upstream fetches
type FetchHistory interface {
	LastSuccess(ctx context.Context, source string) (time.Time, bool, error)
}

// Report is everything shown for one instant
type Report struct {
	At       time.Time
	Statuses []models.CutStatus
	Plans    []models.TransitPlan
	Briefing []models.MarineDaily
	Sources  []SourceAge
}

// Build computes statuses, transit plans and the marine briefing at now.
// Without tide data there are no statuses or plans.
func Build(cfg transit.Config, all []models.CutDefinition, snap refresh.Snapshot, now time.Time) Report {
	r := Report{
		At: now,
		Sources: []SourceAge{
			{Name: refresh.SourceTides, FetchedAt: snap.Tides.FetchedAt, HasData: snap.Tides.HasData, Err: snap.Tides.LastErr},
			{Name: refresh.SourceWind, FetchedAt: snap.Wind.FetchedAt, HasData: snap.Wind.HasData, Err: snap.Wind.LastErr},
			{Name: refresh.SourceMarine, FetchedAt: snap.Marine.FetchedAt, HasData: snap.Marine.HasData, Err: snap.Marine.LastErr},
		},
	}

	if snap.Tides.HasData {
		r.Statuses = status.ComputeAll(cfg.Thresholds, cfg.Daylight, all, snap.Tides.Value, snap.Wind.Value, now)
		r.Plans = make([]models.TransitPlan, len(all))
		for i, cut := range all {
			r.Plans[i] = transit.Score(cfg, cut, snap.Tides.Value, snap.Wind.Value, now)
		}
	}
	if snap.Marine.HasData {
		r.Briefing = marine.BuildDailyForecasts(snap.Marine.Value, snap.Wind.Value, now)
	}
	return r
}

// AddHistory fills in when each source was last fetched successfully
func (r *Report) AddHistory(ctx context.Context, h FetchHistory) error {
	var errs []error
	for i := range r.Sources {
		last, ok, err := h.LastSuccess(ctx, r.Sources[i].Name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if ok {
			r.Sources[i].LastSuccess = last
		}
	}
	return errors.Join(errs...)
}

// Observe publishes the report's safety levels and best scores
func (r Report) Observe() {
	metrics.ObserveStatuses(r.Statuses)
	for _, p := range r.Plans {
		metrics.ObservePlan(p)
	}
}

// HasTides reports whether the report was built from tide data
func (r Report) HasTides() bool {
	for _, s := range r.Sources {
		if s.Name == refresh.SourceTides {
			return s.HasData
		}
	}
	return false
}

// Plan returns the transit plan for a cut
func (r Report) Plan(cutID string) (models.TransitPlan, bool) {
	for _, p := range r.Plans {
		if p.Cut.ID == cutID {
			return p, true
		}
	}
	return models.TransitPlan{}, false
}

// Counts tallies cuts per safety level
func (r Report) Counts() map[models.SafetyLevel]int {
	counts := make(map[models.SafetyLevel]int, 3)
	for _, s := range r.Statuses {
		counts[s.SafetyLevel]++
	}
	return counts
}

// Freshness renders "tides 2 hours ago · wind 10 minutes ago · marine unavailable (no data)"
func Freshness(sources []SourceAge, now time.Time) string {
	parts := make([]string, len(sources))
	for i, s := range sources {
		if s.HasData {
			parts[i] = s.Name + " " + humanize.RelTime(s.FetchedAt, now, "ago", "from now")
		} else {
			parts[i] = s.Name + " unavailable"
		}
		if s.Err != nil {
			parts[i] += " (" + Problem(s.Err) + ")"
		}
	}
	return strings.Join(parts, " · ")
}

// Problem names a refresh failure in a few words
func Problem(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, refresh.ErrOffline):
		return "offline"
	case models.IsNoData(err):
		return "no data"
	case errors.Is(err, context.DeadlineExceeded):
		return "timed out"
	default:
		return "refresh failed"
	}
}

// Write renders the report as plain tables
func Write(w io.Writer, r Report) error {
	loc := r.At.Location()
	var b strings.Builder

	fmt.Fprintf(&b, "Exuma Cuts · %s\n", r.At.Format("Mon Jan 2 3:04 PM"))
	fmt.Fprintf(&b, "%s\n\n", Freshness(r.Sources, r.At))

	if len(r.Statuses) == 0 {
		b.WriteString("No tide data available.\n")
	}

	for _, g := range cuts.Groups {
		var rows [][]string
		for i, s := range r.Statuses {
			if s.Cut.Group != g {
				continue
			}
			rows = append(rows, statusRow(s, r.Plans[i], loc))
		}
		if len(rows) == 0 {
			continue
		}
		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("CUT", "SAFETY", "CURRENT", "NEXT", "WIND", "BEST TRANSIT").
			Rows(rows...)
		fmt.Fprintf(&b, "%s\n%s\n\n", cuts.GroupLabel(g), t.Render())
	}

	if len(r.Briefing) > 0 {
		b.WriteString("Marine briefing\n")
		for _, d := range r.Briefing {
			fmt.Fprintf(&b, "  %-10s %-10s waves %.1fft  wind %s %.0f-%.0fkts\n",
				d.Label, d.SeaState, d.MaxWaveHeightFt, d.AvgWindCardinal, d.MaxWindSpeedKnots, d.MaxGustKnots)
			if d.IsWarning {
				fmt.Fprintf(&b, "  %-10s %s\n", "", d.WarningText)
			}
		}
	}

	b.WriteString("\nData sources\n")
	for _, src := range r.Sources {
		fetched := "never"
		if src.HasData {
			fetched = humanize.RelTime(src.FetchedAt, r.At, "ago", "from now")
		}
		line := fmt.Sprintf("  %-7s fetched %s", src.Name, fetched)
		if !src.LastSuccess.IsZero() {
			line += ", last success " + src.LastSuccess.In(loc).Format("Jan 2 3:04 PM")
		}
		if src.Err != nil {
			line += ", last error: " + src.Err.Error()
		}
		b.WriteString(line + "\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// WritePlan renders the transit windows of one cut, best first per day
func WritePlan(w io.Writer, plan models.TransitPlan, loc *time.Location) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s transit windows\n", plan.Cut.Name)
	if best := plan.OverallBest; best != nil {
		fmt.Fprintf(&b, "Best: %s %d/10 · %s\n", best.Time.In(loc).Format("Mon 3:04 PM"), best.Score, best.Summary)
	}

	for _, day := range plan.Days {
		fmt.Fprintf(&b, "\n%s (%s)\n", day.Label, day.Date.Format("Jan 2"))
		if len(day.Windows) == 0 {
			b.WriteString("  no windows\n")
			continue
		}
		for _, win := range day.Windows {
			marker := " "
			if day.BestWindow != nil && win.Time.Equal(day.BestWindow.Time) {
				marker = "*"
			}
			fmt.Fprintf(&b, " %s %s–%s  %2d/10  %-8s  %s\n", marker,
				win.Start.In(loc).Format("3:04"), win.End.In(loc).Format("3:04 PM"),
				win.Score, win.Confidence, win.Summary)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func statusRow(s models.CutStatus, plan models.TransitPlan, loc *time.Location) []string {
	current := string(s.TideDirection)
	if s.TideDirection != models.Slack {
		current = fmt.Sprintf("%s %.1fkt", s.TideDirection, s.CurrentSpeedKnots)
	}

	next := "-"
	if s.HasNextEvent {
		next = fmt.Sprintf("%s %s (%s)", s.NextEventType, s.NextEventTime.In(loc).Format("3:04 PM"), Minutes(s.MinutesToNextEvent))
	}

	wind := fmt.Sprintf("%s %.0fkt", s.WindDirectionCardinal, s.WindSpeedKnots)
	if s.IsWindAgainstCurrent {
		wind += " opposing"
	}

	bestTransit := "-"
	if b := plan.OverallBest; b != nil {
		bestTransit = fmt.Sprintf("%s %d/10", b.Time.In(loc).Format("Mon 3:04 PM"), b.Score)
	}

	return []string{s.Cut.Name, strings.ToUpper(string(s.SafetyLevel)), current, next, wind, bestTransit}
}

// Minutes renders a countdown as "25m" or "2h 05m"
func Minutes(m int) string {
	if m < 60 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh %02dm", m/60, m%60)
}
