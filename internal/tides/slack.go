package tides

import (
	"time"

	"github.com/ngmaloney/exuma-cuts/internal/models"
)

// Daylight decides whether an instant counts as daytime for transit purposes
type Daylight struct {
	StartHour float64 `yaml:"start_hour"` // inclusive, local hours (6.5 = 06:30)
	EndHour   float64 `yaml:"end_hour"`   // exclusive
}

// DefaultDaylight is roughly 6:30am to 6:30pm, which holds year-round in the Bahamas
var DefaultDaylight = Daylight{StartHour: 6.5, EndHour: 18.5}

// Contains reports whether t's local clock time is within daylight hours.
// The hour is read in t's own location.
func (d Daylight) Contains(t time.Time) bool {
	h := float64(t.Hour()) + float64(t.Minute())/60
	return h >= d.StartHour && h < d.EndHour
}

// SlackWindows builds a window around every event in the series
func SlackWindows(events []models.TideEvent, halfWidth time.Duration) []models.SlackWindow {
	windows := make([]models.SlackWindow, len(events))
	for i, e := range events {
		windows[i] = models.SlackWindow{
			Center: e.Time,
			Start:  e.Time.Add(-halfWidth),
			End:    e.Time.Add(halfWidth),
			Type:   e.Type,
		}
	}
	return windows
}

// NextSlackWindow returns the window containing t, or failing that the first one that starts after t
func NextSlackWindow(events []models.TideEvent, t time.Time, halfWidth time.Duration) (models.SlackWindow, bool) {
	for _, w := range SlackWindows(events, halfWidth) {
		if w.Contains(t) || w.Start.After(t) {
			return w, true
		}
	}
	return models.SlackWindow{}, false
}

// DaylightSlackWindows returns windows not yet over at now whose center is in daylight.
// Centers are evaluated in now's location.
func DaylightSlackWindows(events []models.TideEvent, now time.Time, halfWidth time.Duration, daylight Daylight) []models.SlackWindow {
	var out []models.SlackWindow
	for _, w := range SlackWindows(events, halfWidth) {
		if w.End.After(now) && daylight.Contains(w.Center.In(now.Location())) {
			out = append(out, w)
		}
	}
	return out
}
