// Package wind resolves an hourly wind forecast to arbitrary instants
package wind

import (
	"math"
	"time"

	"github.com/ngmaloney/exuma-cuts/internal/models"
)

var cardinals = [16]string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// AtTime returns the sample nearest to t. On equal distance the earlier entry in the
// series wins. ok is false for an empty series.
func AtTime(series []models.WindSample, t time.Time) (sample models.WindSample, ok bool) {
	if len(series) == 0 {
		return models.WindSample{}, false
	}

	closest := series[0]
	closestDiff := absDuration(t.Sub(closest.Time))
	for _, w := range series[1:] {
		if diff := absDuration(t.Sub(w.Time)); diff < closestDiff {
			closest = w
			closestDiff = diff
		}
	}
	return closest, true
}

// OrZero returns the nearest sample to t, or calm air stamped at t when there is no data
func OrZero(series []models.WindSample, t time.Time) models.WindSample {
	if w, ok := AtTime(series, t); ok {
		return w
	}
	return models.WindSample{Time: t}
}

// NormalizeDegrees maps any bearing into [0, 360)
func NormalizeDegrees(deg float64) float64 {
	d := math.Mod(deg, 360)
	if d < 0 {
		d += 360
	}
	return d
}

// DegreesToCardinal maps a bearing to one of 16 compass points, each 22.5 degrees wide
func DegreesToCardinal(deg float64) string {
	if math.IsNaN(deg) || math.IsInf(deg, 0) {
		return cardinals[0]
	}
	idx := int(math.Round(NormalizeDegrees(deg)/22.5)) % 16
	return cardinals[idx]
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
