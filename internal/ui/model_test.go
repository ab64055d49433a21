package ui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ngmaloney/exuma-cuts/internal/models"
	"github.com/ngmaloney/exuma-cuts/internal/refresh"
	"github.com/ngmaloney/exuma-cuts/internal/transit"
)

var now = time.Date(2025, 3, 14, 12, 10, 0, 0, time.UTC)

func at(h, m int) time.Time {
	return time.Date(2025, 3, 14, h, m, 0, 0, time.UTC)
}

func testFetchers(tideErr error) refresh.Fetchers {
	return refresh.Fetchers{
		Tides: func(context.Context, time.Time) ([]models.TideEvent, error) {
			if tideErr != nil {
				return nil, tideErr
			}
			return []models.TideEvent{
				{Time: at(6, 0), Type: models.TideLow, Height: 0.3},
				{Time: at(12, 15), Type: models.TideHigh, Height: 2.8},
				{Time: at(18, 30), Type: models.TideLow, Height: 0.4},
				{Time: at(23, 50), Type: models.TideHigh, Height: 2.6},
			}, nil
		},
		Wind: func(context.Context, time.Time) ([]models.WindSample, error) {
			return []models.WindSample{{Time: at(12, 0), SpeedKnots: 8, DirectionDeg: 90, GustKnots: 12}}, nil
		},
		Marine: func(context.Context, time.Time) ([]models.MarineHourly, error) {
			return []models.MarineHourly{{Time: at(12, 0), WaveHeightFt: 2.1, WavePeriodSec: 7}}, nil
		},
	}
}

func newTestModel(t *testing.T, tideErr error) Model {
	t.Helper()
	depth := 2.5
	m := NewModel(context.Background(), Options{
		Manager: refresh.NewManager(testFetchers(tideErr), refresh.DefaultMaxAges(), nil, nil),
		Cuts: []models.CutDefinition{
			{ID: "conch", Name: "Conch Cut", OffsetMinutes: 20, MaxCurrentKnots: 3, BearingDeg: 50, Group: models.GroupExuma},
			{ID: "hog-cay", Name: "Hog Cay Cut", OffsetMinutes: 45, MaxCurrentKnots: 1.5, BearingDeg: 90, Group: models.GroupRaggeds, MLWDepthFt: &depth, DepthCritical: true},
		},
		Scoring:  transit.DefaultConfig(),
		Location: time.UTC,
		Now:      func() time.Time { return now },
		Online:   true,
	})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return updated.(Model)
}

// run executes cmd and feeds every resulting message back into the model
func run(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		return m
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			m = run(t, m, c)
		}
		return m
	}
	updated, next := m.Update(msg)
	return run(t, updated.(Model), next)
}

func send(m Model, msg tea.Msg) (Model, tea.Cmd) {
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func loaded(t *testing.T) Model {
	t.Helper()
	m, cmd := send(newTestModel(t, nil), cacheLoadedMsg{})
	return run(t, m, cmd)
}

func TestNewModel(t *testing.T) {
	m := newTestModel(t, nil)
	if m.state != StateLoading {
		t.Errorf("NewModel() state = %v, want StateLoading", m.state)
	}
	if m.width != 120 || m.height != 40 {
		t.Errorf("size = %dx%d, want 120x40", m.width, m.height)
	}
	if !strings.Contains(m.View(), "Exuma Cuts") {
		t.Errorf("loading view = %q", m.View())
	}
}

func TestModel_LoadsIntoList(t *testing.T) {
	m := loaded(t)

	if m.state != StateList {
		t.Fatalf("state = %v, want StateList", m.state)
	}
	if len(m.pending) != 0 {
		t.Errorf("pending = %v", m.pending)
	}
	if n := len(m.cutList.Items()); n != 2 {
		t.Errorf("list items = %d, want 2", n)
	}
	if len(m.report.Briefing) == 0 {
		t.Error("briefing is empty with marine data loaded")
	}

	view := m.View()
	for _, want := range []string{"Conch Cut", "Hog Cay Cut", "safe"} {
		if !strings.Contains(view, want) {
			t.Errorf("list view missing %q", want)
		}
	}
}

func TestModel_Navigation(t *testing.T) {
	m := loaded(t)

	m, _ = send(m, key("enter"))
	if m.state != StateDetail || m.selected != "conch" {
		t.Fatalf("after enter state = %v selected = %q", m.state, m.selected)
	}
	view := m.View()
	for _, want := range []string{"Conch Cut", "Slack water now", "SAFETY", "TIDES"} {
		if !strings.Contains(view, want) {
			t.Errorf("detail view missing %q", want)
		}
	}

	m, _ = send(m, key("p"))
	if m.state != StatePlanner {
		t.Fatalf("after p state = %v", m.state)
	}
	if !strings.Contains(m.View(), "transit planner") || !strings.Contains(m.View(), "TODAY") {
		t.Errorf("planner view = %s", m.View())
	}

	m, _ = send(m, key("d"))
	if m.state != StateDetail {
		t.Errorf("after d state = %v", m.state)
	}

	m, _ = send(m, key("b"))
	if m.state != StateBriefing || !strings.Contains(m.View(), "Marine briefing") {
		t.Errorf("after b state = %v", m.state)
	}

	m, _ = send(m, key("esc"))
	if m.state != StateList {
		t.Errorf("after esc state = %v", m.state)
	}
}

func TestModel_DepthCriticalDetail(t *testing.T) {
	m := loaded(t)
	m, _ = send(m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = send(m, key("enter"))
	if m.selected != "hog-cay" {
		t.Fatalf("selected = %q, want hog-cay", m.selected)
	}
	if !strings.Contains(m.View(), "DEPTH") || !strings.Contains(m.View(), "At MLW:") {
		t.Errorf("detail view has no depth section:\n%s", m.View())
	}
}

func TestModel_OfflineToggle(t *testing.T) {
	m := loaded(t)
	m, _ = send(m, key("o"))
	if m.online {
		t.Fatal("o did not go offline")
	}
	if !strings.Contains(m.View(), "offline") {
		t.Error("header does not show offline")
	}
	m, _ = send(m, key("o"))
	if !m.online {
		t.Error("o did not go back online")
	}
}

func TestModel_RefreshKey(t *testing.T) {
	m := loaded(t)
	m, cmd := send(m, key("r"))
	if cmd == nil {
		t.Fatal("r returned no command")
	}
	if len(m.pending) != 3 {
		t.Errorf("pending = %v, want all three sources", m.pending)
	}
	m = run(t, m, cmd)
	if len(m.pending) != 0 || m.state != StateList {
		t.Errorf("after refresh pending = %v state = %v", m.pending, m.state)
	}
	if m.manager.Tides.Generation() != 2 {
		t.Errorf("tides generation = %d, want 2", m.manager.Tides.Generation())
	}
}

func TestModel_Tick(t *testing.T) {
	m := loaded(t)
	later := now.Add(5 * time.Minute)
	m.now = func() time.Time { return later }

	m, cmd := send(m, tickMsg(later))
	if cmd == nil {
		t.Error("tick did not schedule the next tick")
	}
	if !m.report.At.Equal(later) {
		t.Errorf("report.At = %v, want %v", m.report.At, later)
	}
	if len(m.pending) != 0 {
		t.Errorf("fresh data was refreshed on tick: %v", m.pending)
	}
}

func TestModel_NoTidesIsAnError(t *testing.T) {
	m, cmd := send(newTestModel(t, errors.New("noaa down")), cacheLoadedMsg{})
	m = run(t, m, cmd)

	if m.state != StateError {
		t.Fatalf("state = %v, want StateError", m.state)
	}
	if !strings.Contains(m.View(), "no tide data available: noaa down") {
		t.Errorf("error view = %q", m.View())
	}

	m, cmd = send(m, key("x"))
	if m.state != StateLoading || cmd == nil {
		t.Errorf("retry state = %v, cmd nil = %v", m.state, cmd == nil)
	}
}

func TestModel_ErrorMsg(t *testing.T) {
	m, _ := send(newTestModel(t, nil), errMsg{err: tea.ErrProgramKilled})
	if m.state != StateError || m.err == nil {
		t.Errorf("after errMsg state = %v err = %v", m.state, m.err)
	}
}

func TestModel_Quit(t *testing.T) {
	for _, k := range []tea.KeyMsg{{Type: tea.KeyCtrlC}, key("q")} {
		_, cmd := send(loaded(t), k)
		if cmd == nil {
			t.Fatalf("%s returned no command", k)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s did not quit", k)
		}
	}
}

func TestRenderTideCurve(t *testing.T) {
	events := []models.TideEvent{
		{Time: at(6, 0), Type: models.TideLow, Height: -0.2},
		{Time: at(12, 15), Type: models.TideHigh, Height: 2.8},
		{Time: at(18, 30), Type: models.TideLow, Height: 0.4},
	}

	got := renderTideCurve(events, at(8, 0), 6)
	if lines := strings.Count(got, "\n") + 1; lines < curveRows+1 {
		t.Fatalf("renderTideCurve() has %d lines, want at least %d:\n%s", lines, curveRows+1, got)
	}
	if !strings.Contains(got, "next 6h") || !strings.Contains(got, "ft") {
		t.Errorf("renderTideCurve() legend missing:\n%s", got)
	}

	if got := renderTideCurve(nil, at(8, 0), 6); !strings.Contains(got, "No tide curve available") {
		t.Errorf("renderTideCurve(nil) = %q", got)
	}
}
