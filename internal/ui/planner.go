package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ngmaloney/exuma-cuts/internal/models"
)

// viewPlanner renders the 3-day transit windows for the selected cut
func (m Model) viewPlanner() string {
	plan, ok := m.report.Plan(m.selected)
	if !ok {
		return "No cut selected"
	}

	sections := []string{
		m.header(),
		"",
		titleStyle.Render(plan.Cut.Name + " · transit planner"),
	}

	if plan.OverallBest != nil {
		sections = append(sections, "", bestBoxStyle.Render(
			labelStyle.Render("BEST WINDOW")+"\n"+renderWindow(*plan.OverallBest, true)))
	}

	if plan.WindowCount() == 0 {
		sections = append(sections, mutedStyle.Render("No slack windows in the next 3 days"))
	}

	for _, day := range plan.Days {
		sections = append(sections, sectionHeaderStyle.Render(
			strings.ToUpper(day.Label)+" "+mutedStyle.Render(day.Date.Format("Jan 2"))))
		if len(day.Windows) == 0 {
			sections = append(sections, mutedStyle.Render("  No windows"))
			continue
		}
		var lines []string
		for _, w := range day.Windows {
			best := day.BestWindow != nil && w.Time.Equal(day.BestWindow.Time)
			lines = append(lines, renderWindow(w, best))
		}
		sections = append(sections, sectionBoxStyle.Render(strings.Join(lines, "\n")))
	}

	help := helpStyle.Render("D: Details • B: Briefing • Esc: Back • Q: Quit")
	sections = append(sections, help)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderWindow renders one scored window on a line
func renderWindow(w models.TransitWindow, best bool) string {
	marker := "  "
	if best {
		marker = "★ "
	}
	score := scoreStyle(w.Score).Render(fmt.Sprintf("%2d/10", w.Score))
	bar := scoreStyle(w.Score).Render(strings.Repeat("■", w.Score)) + mutedStyle.Render(strings.Repeat("·", 10-w.Score))

	return fmt.Sprintf("%s%s–%s  %s %s  %s  %s",
		marker,
		w.Start.Format("3:04"),
		w.End.Format("3:04 PM"),
		score,
		bar,
		w.Summary,
		mutedStyle.Render(string(w.Confidence)+" confidence"))
}
