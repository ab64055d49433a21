package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ngmaloney/exuma-cuts/internal/models"
	"github.com/ngmaloney/exuma-cuts/internal/refresh"
	"github.com/ngmaloney/exuma-cuts/internal/report"
	"github.com/ngmaloney/exuma-cuts/internal/transit"
)

// AppState represents the current state of the application
type AppState int

const (
	StateLoading  AppState = iota // Waiting for the first tide data
	StateList                     // All cuts with their current safety level
	StateDetail                   // One cut in depth
	StatePlanner                  // 3-day transit windows for one cut
	StateBriefing                 // Daily marine forecast for the chain
	StateError                    // Error state
)

// Options configures a Model
type Options struct {
	Manager  *refresh.Manager
	Cuts     []models.CutDefinition
	Scoring  transit.Config
	Location *time.Location
	Logger   *slog.Logger
	Now      func() time.Time
	Online   bool
}

// Model represents the application's state
type Model struct {
	state  AppState
	width  int
	height int
	err    error

	ctx      context.Context
	manager  *refresh.Manager
	cuts     []models.CutDefinition
	scoring  transit.Config
	location *time.Location
	logger   *slog.Logger
	now      func() time.Time
	online   bool

	report   report.Report
	cutList  list.Model
	selected string // cut id shown in detail and planner

	pending map[string]bool
	spinner spinner.Model
}

// NewModel creates a new application model
func NewModel(ctx context.Context, opts Options) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(colorPrimary)

	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return Model{
		state:    StateLoading,
		ctx:      ctx,
		manager:  opts.Manager,
		cuts:     opts.Cuts,
		scoring:  opts.Scoring,
		location: opts.Location,
		logger:   opts.Logger,
		now:      opts.Now,
		online:   opts.Online,
		cutList:  createCutList(nil, 0, 0),
		pending:  make(map[string]bool),
		spinner:  s,
	}
}

// Init loads the cache and starts the status tick
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, loadCached(m.ctx, m.manager, m.clock()), tick())
}

func (m Model) clock() time.Time {
	return m.now().In(m.location)
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	// Handle window size
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = msg.Width
		m.height = msg.Height
		m.cutList.SetSize(msg.Width-4, msg.Height-6)
		return m, nil
	}

	// Handle custom messages
	switch msg := msg.(type) {
	case errMsg:
		m.err = msg.err
		m.state = StateError
		return m, nil

	case cacheLoadedMsg:
		m = m.recompute()
		return m, m.refreshMissing()

	case sourceRefreshedMsg:
		delete(m.pending, msg.source)
		if msg.err != nil {
			m.logger.Warn("refresh failed", slog.String("source", msg.source), slog.Any("error", msg.err))
		}
		m = m.recompute()
		if m.state == StateLoading && len(m.pending) == 0 && !m.report.HasTides() {
			m.err = noTidesError(m.manager.Snapshot().Tides.LastErr)
			m.state = StateError
		}
		return m, nil

	case tickMsg:
		m = m.recompute()
		return m, tea.Batch(tick(), m.refreshExpired())
	}

	// Handle keyboard input
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		// Global keys
		if keyMsg.String() == "ctrl+c" || keyMsg.String() == "q" {
			return m, tea.Quit
		}

		switch m.state {
		case StateList:
			return m.handleCutList(keyMsg)

		case StateDetail, StatePlanner, StateBriefing:
			return m.handleView(keyMsg)

		case StateError:
			// Any key retries
			m.err = nil
			m.state = StateLoading
			return m, m.refreshAll()
		}
	}

	if m.state == StateLoading {
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	if m.state == StateList {
		m.cutList, cmd = m.cutList.Update(msg)
	}
	return m, cmd
}

// handleCutList handles keyboard input in the list state
func (m Model) handleCutList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if item, ok := m.cutList.SelectedItem().(cutItem); ok {
			m.selected = item.status.Cut.ID
			m.state = StateDetail
		}
		return m, nil
	case "p":
		if item, ok := m.cutList.SelectedItem().(cutItem); ok {
			m.selected = item.status.Cut.ID
			m.state = StatePlanner
		}
		return m, nil
	case "b":
		m.state = StateBriefing
		return m, nil
	case "r":
		return m, m.refreshAll()
	case "o":
		m.online = !m.online
		return m, nil
	case "esc":
		return m, nil
	}

	var cmd tea.Cmd
	m.cutList, cmd = m.cutList.Update(msg)
	return m, cmd
}

// handleView handles keyboard input in the detail, planner and briefing states
func (m Model) handleView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "backspace":
		m.state = StateList
	case "p":
		if m.state == StateDetail {
			m.state = StatePlanner
		}
	case "d":
		if m.state == StatePlanner && m.selected != "" {
			m.state = StateDetail
		}
	case "b":
		m.state = StateBriefing
	case "r":
		return m, m.refreshAll()
	}
	return m, nil
}

// recompute rebuilds the report from the current data at the current time
func (m Model) recompute() Model {
	m.report = report.Build(m.scoring, m.cuts, m.manager.Snapshot(), m.clock())
	m.cutList.SetItems(cutItems(m.report.Statuses))
	if m.state == StateLoading && m.report.HasTides() {
		m.state = StateList
	}
	return m
}

// refreshMissing refreshes every category with no usable cached data
func (m Model) refreshMissing() tea.Cmd {
	return m.refreshWhere(func(s report.SourceAge, _ time.Duration) bool { return !s.HasData })
}

// refreshExpired refreshes categories whose data has outlived its max age
func (m Model) refreshExpired() tea.Cmd {
	now := m.clock()
	return m.refreshWhere(func(s report.SourceAge, maxAge time.Duration) bool {
		return !s.HasData || now.Sub(s.FetchedAt) > maxAge
	})
}

func (m Model) refreshAll() tea.Cmd {
	return m.refreshWhere(func(report.SourceAge, time.Duration) bool { return true })
}

func (m Model) refreshWhere(need func(report.SourceAge, time.Duration) bool) tea.Cmd {
	now := m.clock()
	snap := m.manager.Snapshot()

	var cmds []tea.Cmd
	add := func(name string, fetchedAt time.Time, has bool, maxAge time.Duration, cmd tea.Cmd) {
		if m.pending[name] || !need(report.SourceAge{Name: name, FetchedAt: fetchedAt, HasData: has}, maxAge) {
			return
		}
		m.pending[name] = true
		cmds = append(cmds, cmd)
	}
	add(refresh.SourceTides, snap.Tides.FetchedAt, snap.Tides.HasData, m.manager.Tides.MaxAge(),
		refreshSource(m.ctx, m.manager.Tides, now, m.online))
	add(refresh.SourceWind, snap.Wind.FetchedAt, snap.Wind.HasData, m.manager.Wind.MaxAge(),
		refreshSource(m.ctx, m.manager.Wind, now, m.online))
	add(refresh.SourceMarine, snap.Marine.FetchedAt, snap.Marine.HasData, m.manager.Marine.MaxAge(),
		refreshSource(m.ctx, m.manager.Marine, now, m.online))

	return tea.Batch(cmds...)
}

// noTidesError explains why nothing can be shown
func noTidesError(cause error) error {
	if cause != nil {
		return fmt.Errorf("no tide data available: %w", cause)
	}
	return errors.New("no tide data available")
}

// View renders the UI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	switch m.state {
	case StateLoading:
		return m.viewLoading()
	case StateList:
		return m.viewList()
	case StateDetail:
		return m.viewDetail()
	case StatePlanner:
		return m.viewPlanner()
	case StateBriefing:
		return m.viewBriefing()
	case StateError:
		return m.viewError()
	}

	return ""
}

// viewLoading renders the loading view
func (m Model) viewLoading() string {
	title := titleStyle.Render("⚓ Exuma Cuts")

	var lines []string
	for _, name := range []string{refresh.SourceTides, refresh.SourceWind, refresh.SourceMarine} {
		if m.pending[name] {
			lines = append(lines, fmt.Sprintf("%s Fetching %s", m.spinner.View(), name))
		} else {
			lines = append(lines, mutedStyle.Render("  "+name))
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, append([]string{title, ""}, lines...)...)
}

// viewError renders the error view
func (m Model) viewError() string {
	title := hazardousStyle.Render("✗ Error")

	errorMsg := "An unknown error occurred"
	if m.err != nil {
		errorMsg = m.err.Error()
	}

	help := helpStyle.Render("Press any key to retry • Q: Quit")

	return lipgloss.JoinVertical(lipgloss.Left, title, "", errorMsg, "", help)
}

// viewList renders every cut
func (m Model) viewList() string {
	counts := m.report.Counts()
	summary := fmt.Sprintf("%s  %s  %s",
		safeStyle.Render(fmt.Sprintf("%d safe", counts[models.SafetySafe])),
		cautionStyle.Render(fmt.Sprintf("%d caution", counts[models.SafetyCaution])),
		hazardousStyle.Render(fmt.Sprintf("%d hazardous", counts[models.SafetyHazardous])),
	)

	help := helpStyle.Render("↑/↓: Navigate • Enter: Details • P: Planner • B: Briefing • R: Refresh • O: " + m.onlineLabel() + " • Q: Quit")

	return lipgloss.JoinVertical(lipgloss.Left,
		m.header(),
		summary,
		"",
		m.cutList.View(),
		help,
	)
}

// header renders the clock and data freshness line
func (m Model) header() string {
	title := titleStyle.Render("⚓ Exuma Cuts · " + m.report.At.Format("Mon Jan 2 3:04 PM"))
	fresh := mutedStyle.Render(report.Freshness(m.report.Sources, m.report.At))
	if !m.online {
		fresh += " " + cautionStyle.Render("offline")
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, fresh)
}

func (m Model) onlineLabel() string {
	if m.online {
		return "Go offline"
	}
	return "Go online"
}

// selectedStatus returns the status of the selected cut
func (m Model) selectedStatus() (models.CutStatus, bool) {
	for _, s := range m.report.Statuses {
		if s.Cut.ID == m.selected {
			return s, true
		}
	}
	return models.CutStatus{}, false
}
