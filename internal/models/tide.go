package models

import "time"

// TideType represents whether a tide is high or low
type TideType string

const (
	TideHigh TideType = "H"
	TideLow  TideType = "L"
)

// Label returns the lowercase word used in window labels ("high", "low")
func (t TideType) Label() string {
	if t == TideHigh {
		return "high"
	}
	return "low"
}

// TideEvent represents a single high or low tide occurrence
type TideEvent struct {
	Time   time.Time `json:"time"`
	Type   TideType  `json:"type"`
	Height float64   `json:"height"` // feet relative to MLLW (Mean Lower Low Water)
}

// TideDirection describes what the tidal current is doing at an instant
type TideDirection string

const (
	Flooding TideDirection = "flooding"
	Ebbing   TideDirection = "ebbing"
	Slack    TideDirection = "slack"
)

// TideData contains tide predictions for the reference station
type TideData struct {
	StationID   string
	StationName string
	Events      []TideEvent // Ordered by time
	UpdatedAt   time.Time
}

// GetEventsForDay returns tide events for a specific date
func (td *TideData) GetEventsForDay(date time.Time) []TideEvent {
	var events []TideEvent
	startOfDay := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	endOfDay := startOfDay.AddDate(0, 0, 1)

	for _, event := range td.Events {
		if !event.Time.Before(startOfDay) && event.Time.Before(endOfDay) {
			events = append(events, event)
		}
	}
	return events
}

// SlackWindow is the period around a high or low tide when current is minimal.
// Windows are derived from a tide series on every query and never stored.
type SlackWindow struct {
	Center time.Time
	Start  time.Time
	End    time.Time
	Type   TideType
}

// Contains reports whether t falls inside the window, bounds included
func (w SlackWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}
