package ui

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/sparkline"

	"github.com/ngmaloney/exuma-cuts/internal/models"
	"github.com/ngmaloney/exuma-cuts/internal/tides"
)

// curveRows is the height of the tide sparkline in terminal rows
const curveRows = 3

// renderTideCurve draws the cut's tide height for the next hours
func renderTideCurve(events []models.TideEvent, now time.Time, hours int) string {
	var heights []float64
	for _, h := range tides.GenerateTideCurve(events, now, hours, 4) {
		heights = append(heights, h)
	}
	if len(heights) == 0 {
		return mutedStyle.Render("No tide curve available")
	}

	lo, hi := slices.Min(heights), slices.Max(heights)

	// heights below datum are negative; the chart is drawn from the lowest point up
	sl := sparkline.New(len(heights), curveRows,
		sparkline.WithStyle(curveStyle),
		sparkline.WithMaxValue(max(hi-lo, 0.1)))
	for _, h := range heights {
		sl.Push(h - lo)
	}
	sl.Draw()

	return fmt.Sprintf("%s\n%s",
		sl.View(),
		mutedStyle.Render(fmt.Sprintf("next %dh · %.1f to %.1f ft", hours, lo, hi)))
}

// renderTideEvents lists the cut's tide events for the next days
func renderTideEvents(events []models.TideEvent, now time.Time, days int) string {
	data := models.TideData{Events: events}

	var lines []string
	for day := 0; day < days; day++ {
		date := now.AddDate(0, 0, day)
		dayEvents := data.GetEventsForDay(date)
		if len(dayEvents) == 0 {
			continue
		}

		var dayLabel string
		switch day {
		case 0:
			dayLabel = "Today"
		case 1:
			dayLabel = "Tomorrow"
		default:
			dayLabel = date.Format("Monday")
		}
		lines = append(lines, labelStyle.Render(dayLabel)+" "+mutedStyle.Render(date.Format("Jan 2")))

		for _, event := range dayEvents {
			typeStr := "Low"
			if event.Type == models.TideHigh {
				typeStr = "High"
			}
			lines = append(lines, fmt.Sprintf("  %s  %-4s  %.1f ft",
				valueStyle.Render(event.Time.Format("3:04 PM")), typeStr, event.Height))
		}
	}
	if len(lines) == 0 {
		return mutedStyle.Render("No tide data available")
	}
	return strings.Join(lines, "\n")
}
