package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// viewBriefing renders the daily marine forecast for the chain
func (m Model) viewBriefing() string {
	sections := []string{
		m.header(),
		"",
		titleStyle.Render("Marine briefing · daylight hours"),
	}

	if len(m.report.Briefing) == 0 {
		sections = append(sections, "", mutedStyle.Render("No marine forecast available"))
	}

	for _, d := range m.report.Briefing {
		lines := []string{
			labelStyle.Render(d.Label) + " " + mutedStyle.Render(d.Date.Format("Jan 2")) + "  " +
				seaStateStyle(d.SeaState).Render(strings.ToUpper(string(d.SeaState))),
			fmt.Sprintf("Waves %.1f ft (wind waves %.1f, swell %.1f) · %.0fs period",
				d.MaxWaveHeightFt, d.MaxWindWaveHeightFt, d.MaxSwellHeightFt, d.AvgWavePeriodSec),
			fmt.Sprintf("Wind %s up to %.0f kts, gusts %.0f", d.AvgWindCardinal, d.MaxWindSpeedKnots, d.MaxGustKnots),
		}
		if d.IsWarning {
			lines = append(lines, seaStateStyle(d.SeaState).Render("⚠  "+d.WarningText))
		}
		sections = append(sections, sectionBoxStyle.Render(strings.Join(lines, "\n")))
	}

	help := helpStyle.Render("Esc: Back • R: Refresh • Q: Quit")
	sections = append(sections, help)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
