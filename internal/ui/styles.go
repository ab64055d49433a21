package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/ngmaloney/exuma-cuts/internal/models"
)

var (
	// Color palette
	colorPrimary   = lipgloss.Color("#00BFFF") // Deep sky blue
	colorSecondary = lipgloss.Color("#87CEEB") // Sky blue
	colorDanger    = lipgloss.Color("#FF6B6B") // Red for hazardous
	colorWarning   = lipgloss.Color("#FFD93D") // Yellow for caution
	colorSuccess   = lipgloss.Color("#6BCF7F") // Green
	colorMuted     = lipgloss.Color("#6C757D") // Gray
	colorBorder    = lipgloss.Color("#4A90E2") // Border blue

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Bold(true)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	// Safety level styles
	safeStyle = lipgloss.NewStyle().
			Foreground(colorSuccess).
			Bold(true)

	cautionStyle = lipgloss.NewStyle().
			Foreground(colorWarning).
			Bold(true)

	hazardousStyle = lipgloss.NewStyle().
			Foreground(colorDanger).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(1, 0)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	curveStyle = lipgloss.NewStyle().
			Foreground(colorSecondary)

	sectionHeaderStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true).
				Padding(0, 1).
				MarginTop(1)

	sectionBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 2).
			MarginBottom(1)

	bestBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(colorPrimary).
			Padding(0, 2).
			MarginBottom(1)
)

// safetyStyle picks the style for a safety level
func safetyStyle(level models.SafetyLevel) lipgloss.Style {
	switch level {
	case models.SafetyHazardous:
		return hazardousStyle
	case models.SafetyCaution:
		return cautionStyle
	default:
		return safeStyle
	}
}

// scoreStyle colors a 1-10 transit score
func scoreStyle(score int) lipgloss.Style {
	switch {
	case score >= 7:
		return safeStyle
	case score >= 4:
		return cautionStyle
	default:
		return hazardousStyle
	}
}

// seaStateStyle colors a daily sea state
func seaStateStyle(state models.SeaState) lipgloss.Style {
	switch state {
	case models.SeaVeryRough, models.SeaRough:
		return hazardousStyle
	case models.SeaModerate:
		return cautionStyle
	default:
		return safeStyle
	}
}
