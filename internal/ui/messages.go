package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ngmaloney/exuma-cuts/internal/refresh"
)

// TickInterval is how often statuses are recomputed
const TickInterval = time.Minute

// cacheLoadedMsg is sent once the persistent cache has been read
type cacheLoadedMsg struct{}

// sourceRefreshedMsg is sent when one data category finishes refreshing
type sourceRefreshedMsg struct {
	source string
	err    error
}

// tickMsg triggers a recompute at the given time
type tickMsg time.Time

// errMsg is a message type for errors
type errMsg struct {
	err error
}

// loadCached warms every source from the cache in the background
func loadCached(ctx context.Context, m *refresh.Manager, now time.Time) tea.Cmd {
	return func() tea.Msg {
		m.LoadCached(ctx, now)
		return cacheLoadedMsg{}
	}
}

// refreshSource refreshes one category. Each category is its own command so a slow
// or failing source never holds up the others.
func refreshSource[T any](ctx context.Context, src *refresh.Source[T], now time.Time, online bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, 45*time.Second)
		defer cancel()

		err := src.Refresh(ctx, now, online)
		return sourceRefreshedMsg{source: src.Name(), err: err}
	}
}

// tick schedules the next recompute
func tick() tea.Cmd {
	return tea.Tick(TickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
