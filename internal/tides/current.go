package tides

import (
	"math"
	"time"

	"github.com/ngmaloney/exuma-cuts/internal/models"
)

// twelfths are the relative flow rates across the six segments of a half tidal cycle
var twelfths = [6]float64{1, 2, 3, 3, 2, 1}

// CurrentDirection reports whether the tide is flooding, ebbing or slack at t.
// It is slack within halfWidth of either bracketing event, or when the series is too short.
func CurrentDirection(events []models.TideEvent, t time.Time, halfWidth time.Duration) models.TideDirection {
	prev, next, ok := FindSurroundingEvents(events, t)
	if !ok {
		return models.Slack
	}

	if absDuration(t.Sub(prev.Time)) <= halfWidth || absDuration(next.Time.Sub(t)) <= halfWidth {
		return models.Slack
	}

	if next.Height > prev.Height {
		return models.Flooding
	}
	return models.Ebbing
}

// EstimateCurrentKnots approximates current speed with the rule of twelfths: the half
// cycle is cut into six equal segments flowing at 1,2,3,3,2,1 twelfths, and the speed is
// (weight/3)*maxKnots for the segment containing t. A segment boundary belongs to the
// segment that ends there, so exactly one sixth of the way through is still the first segment.
func EstimateCurrentKnots(prev, next models.TideEvent, t time.Time, maxKnots float64) float64 {
	f, ok := fraction(prev, next, t)
	if !ok {
		return 0
	}
	segment := int(math.Ceil(f*6)) - 1
	segment = max(0, min(5, segment))
	return twelfths[segment] / 3 * maxKnots
}

// CurrentKnotsAt estimates current at t from a full series, 0 when it cannot be bracketed
func CurrentKnotsAt(events []models.TideEvent, t time.Time, maxKnots float64) float64 {
	prev, next, ok := FindSurroundingEvents(events, t)
	if !ok {
		return 0
	}
	return EstimateCurrentKnots(prev, next, t, maxKnots)
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
