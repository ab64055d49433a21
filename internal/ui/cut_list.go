package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"

	"github.com/ngmaloney/exuma-cuts/internal/cuts"
	"github.com/ngmaloney/exuma-cuts/internal/models"
	"github.com/ngmaloney/exuma-cuts/internal/report"
)

// cutItem wraps a CutStatus for use in a list
type cutItem struct {
	status models.CutStatus
}

// FilterValue implements list.Item
func (c cutItem) FilterValue() string {
	return c.status.Cut.Name
}

// Title implements list.DefaultItem
func (c cutItem) Title() string {
	level := strings.ToUpper(string(c.status.SafetyLevel))
	return fmt.Sprintf("%s  %s", safetyStyle(c.status.SafetyLevel).Render(level), c.status.Cut.Name)
}

// Description implements list.DefaultItem
func (c cutItem) Description() string {
	s := c.status
	parts := []string{cuts.GroupLabel(s.Cut.Group)}

	if s.IsSlackWindow {
		parts = append(parts, "slack now")
	} else {
		parts = append(parts, fmt.Sprintf("%s %.1fkt", s.TideDirection, s.CurrentSpeedKnots))
	}
	if s.HasNextEvent {
		parts = append(parts, fmt.Sprintf("%s in %s", s.NextEventType.Label(), report.Minutes(s.MinutesToNextEvent)))
	}
	if s.DepthNowFt != nil {
		parts = append(parts, fmt.Sprintf("%.1fft", *s.DepthNowFt))
	}
	wind := fmt.Sprintf("%s %.0fkt", s.WindDirectionCardinal, s.WindSpeedKnots)
	if s.IsWindAgainstCurrent {
		wind += " opposing"
	}
	return strings.Join(append(parts, wind), " · ")
}

// cutItems orders statuses by group in display order
func cutItems(statuses []models.CutStatus) []list.Item {
	items := make([]list.Item, 0, len(statuses))
	for _, g := range cuts.Groups {
		for _, s := range statuses {
			if s.Cut.Group == g {
				items = append(items, cutItem{status: s})
			}
		}
	}
	return items
}

// createCutList creates a list.Model from cut statuses
func createCutList(statuses []models.CutStatus, width, height int) list.Model {
	l := list.New(cutItems(statuses), list.NewDefaultDelegate(), width, height)
	l.Title = "Exuma Cuts"
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.SetShowStatusBar(false)
	l.DisableQuitKeybindings()

	return l
}
