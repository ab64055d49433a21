// Package tides projects reference-station tide predictions onto individual cuts
// and derives height, current and slack-water information from them.
package tides

import (
	"iter"
	"math"
	"time"

	"github.com/ngmaloney/exuma-cuts/internal/models"
)

// DefaultSlackHalfWidth is the time either side of a high or low tide treated as slack water
const DefaultSlackHalfWidth = 30 * time.Minute

// ApplyOffset returns a copy of events with every time shifted by minutes.
// Heights, types and ordering are preserved; the input is not modified.
func ApplyOffset(events []models.TideEvent, minutes int) []models.TideEvent {
	shift := time.Duration(minutes) * time.Minute
	adjusted := make([]models.TideEvent, len(events))
	for i, e := range events {
		adjusted[i] = models.TideEvent{
			Time:   e.Time.Add(shift),
			Type:   e.Type,
			Height: e.Height,
		}
	}
	return adjusted
}

// fraction returns how far t lies through [prev, next], clamped to [0, 1].
// ok is false when the interval is empty or inverted.
func fraction(prev, next models.TideEvent, t time.Time) (f float64, ok bool) {
	total := next.Time.Sub(prev.Time)
	if total <= 0 {
		return 0, false
	}
	f = float64(t.Sub(prev.Time)) / float64(total)
	return math.Max(0, math.Min(1, f)), true
}

// InterpolateTideHeight estimates the height at t on a raised-cosine curve between
// two consecutive extremes. The curve is flat near high and low water and steepest mid-cycle.
func InterpolateTideHeight(prev, next models.TideEvent, t time.Time) float64 {
	f, ok := fraction(prev, next, t)
	if !ok {
		return prev.Height
	}
	ease := (1 - math.Cos(f*math.Pi)) / 2
	return prev.Height + (next.Height-prev.Height)*ease
}

// FindSurroundingEvents returns the pair with prev.Time <= t < next.Time.
// Before the first event the first two are returned, after the last event the last two.
// ok is false when fewer than two events exist.
func FindSurroundingEvents(events []models.TideEvent, t time.Time) (prev, next models.TideEvent, ok bool) {
	if len(events) < 2 {
		return prev, next, false
	}

	for i := 0; i < len(events)-1; i++ {
		if !events[i].Time.After(t) && events[i+1].Time.After(t) {
			return events[i], events[i+1], true
		}
	}

	if t.Before(events[0].Time) {
		return events[0], events[1], true
	}

	n := len(events)
	return events[n-2], events[n-1], true
}

// HeightAt interpolates the height at t, or 0 when the series cannot bracket it
func HeightAt(events []models.TideEvent, t time.Time) float64 {
	prev, next, ok := FindSurroundingEvents(events, t)
	if !ok {
		return 0
	}
	return InterpolateTideHeight(prev, next, t)
}

// NextEvent returns the first event strictly after t
func NextEvent(events []models.TideEvent, t time.Time) (models.TideEvent, bool) {
	for _, e := range events {
		if e.Time.After(t) {
			return e, true
		}
	}
	return models.TideEvent{}, false
}

// NextHighTide returns the first high tide strictly after t
func NextHighTide(events []models.TideEvent, t time.Time) (models.TideEvent, bool) {
	for _, e := range events {
		if e.Type == models.TideHigh && e.Time.After(t) {
			return e, true
		}
	}
	return models.TideEvent{}, false
}

// GenerateTideCurve yields (time, height) samples every 1/pointsPerHour hours from start,
// hours*pointsPerHour+1 samples in total. The sequence is lazy and can be ranged over
// repeatedly. Times the series cannot bracket are skipped.
func GenerateTideCurve(events []models.TideEvent, start time.Time, hours, pointsPerHour int) iter.Seq2[time.Time, float64] {
	if pointsPerHour <= 0 {
		pointsPerHour = 4
	}
	step := time.Hour / time.Duration(pointsPerHour)
	total := hours * pointsPerHour

	return func(yield func(time.Time, float64) bool) {
		for i := 0; i <= total; i++ {
			t := start.Add(time.Duration(i) * step)
			prev, next, ok := FindSurroundingEvents(events, t)
			if !ok {
				continue
			}
			if !yield(t, InterpolateTideHeight(prev, next, t)) {
				return
			}
		}
	}
}
