package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ngmaloney/exuma-cuts/internal/cuts"
	"github.com/ngmaloney/exuma-cuts/internal/models"
	"github.com/ngmaloney/exuma-cuts/internal/report"
	"github.com/ngmaloney/exuma-cuts/internal/tides"
)

// viewDetail renders one cut
func (m Model) viewDetail() string {
	s, ok := m.selectedStatus()
	if !ok {
		return "No cut selected"
	}

	sections := []string{
		m.header(),
		"",
		titleStyle.Render(s.Cut.Name) + " " + mutedStyle.Render(cuts.GroupLabel(s.Cut.Group)),
	}
	if s.Cut.Notes != "" {
		sections = append(sections, mutedStyle.Render(s.Cut.Notes))
	}

	sections = append(sections,
		sectionHeaderStyle.Render("SAFETY"),
		sectionBoxStyle.Render(renderSafety(s)),
		sectionHeaderStyle.Render("CURRENT & TIDE"),
		sectionBoxStyle.Render(renderCurrent(s)),
		sectionHeaderStyle.Render("WIND"),
		sectionBoxStyle.Render(renderWind(s)),
	)

	if s.Cut.IsDepthCritical() {
		sections = append(sections,
			sectionHeaderStyle.Render("DEPTH"),
			sectionBoxStyle.Render(renderDepth(s)),
		)
	}

	if m.report.HasTides() {
		adjusted := tides.ApplyOffset(m.manager.Snapshot().Tides.Value, s.Cut.OffsetMinutes)
		sections = append(sections,
			sectionHeaderStyle.Render("TIDES"),
			sectionBoxStyle.Render(renderTideCurve(adjusted, s.At, 12)+"\n\n"+renderTideEvents(adjusted, s.At, 3)),
		)
	}

	help := helpStyle.Render("P: Transit planner • B: Briefing • R: Refresh • Esc: Back • Q: Quit")
	sections = append(sections, help)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func renderSafety(s models.CutStatus) string {
	lines := []string{safetyStyle(s.SafetyLevel).Render(strings.ToUpper(string(s.SafetyLevel)))}
	for _, r := range s.SafetyReasons {
		lines = append(lines, "• "+r)
	}
	return strings.Join(lines, "\n")
}

func renderCurrent(s models.CutStatus) string {
	var lines []string

	if s.IsSlackWindow {
		lines = append(lines, valueStyle.Render("Slack water now"))
	} else {
		lines = append(lines, fmt.Sprintf("%s %s", labelStyle.Render("Current:"),
			valueStyle.Render(fmt.Sprintf("%s at %.1f kts", s.TideDirection, s.CurrentSpeedKnots))))
	}
	lines = append(lines, fmt.Sprintf("%s %.1f ft", labelStyle.Render("Height:"), s.HeightFt))

	if s.HasNextEvent {
		lines = append(lines, fmt.Sprintf("%s %s tide %s, %.1f ft (%s)",
			labelStyle.Render("Next:"),
			s.NextEventType.Label(),
			s.NextEventTime.Format("3:04 PM"),
			s.NextEventHeight,
			report.Minutes(s.MinutesToNextEvent)))
	}

	if s.NextSlackStart != nil && s.NextSlackEnd != nil {
		slack := fmt.Sprintf("%s–%s", s.NextSlackStart.Format("3:04"), s.NextSlackEnd.Format("3:04 PM"))
		if s.MinutesToSlack != nil && *s.MinutesToSlack > 0 {
			slack += fmt.Sprintf(" (in %s)", report.Minutes(*s.MinutesToSlack))
		}
		lines = append(lines, fmt.Sprintf("%s %s", labelStyle.Render("Slack:"), slack))
	}

	if s.BestDaylightWindow != nil {
		lines = append(lines, fmt.Sprintf("%s %s", labelStyle.Render("Daylight:"), s.BestDaylightWindow.Label))
	}
	return strings.Join(lines, "\n")
}

func renderWind(s models.CutStatus) string {
	line := fmt.Sprintf("%s %.0f kts, gusts %.0f", s.WindDirectionCardinal, s.WindSpeedKnots, s.WindGustKnots)
	if s.IsWindAgainstCurrent {
		line += " " + hazardousStyle.Render("against current")
	}
	return line
}

func renderDepth(s models.CutStatus) string {
	var lines []string
	if s.Cut.MLWDepthFt != nil {
		lines = append(lines, fmt.Sprintf("%s %.1f ft", labelStyle.Render("At MLW:"), *s.Cut.MLWDepthFt))
	}
	if s.DepthNowFt != nil {
		lines = append(lines, fmt.Sprintf("%s %s", labelStyle.Render("Now:"), valueStyle.Render(fmt.Sprintf("%.1f ft", *s.DepthNowFt))))
	}
	if h := s.NextHighTide; h != nil {
		lines = append(lines, fmt.Sprintf("%s %.1f ft at %s (%s)",
			labelStyle.Render("Next high:"), h.DepthFt, h.Time.Format("3:04 PM"), report.Minutes(h.MinutesAway)))
	}
	return strings.Join(lines, "\n")
}
