// Package status builds the per-instant CutStatus snapshot for each cut
package status

import (
	"fmt"
	"time"

	"github.com/ngmaloney/exuma-cuts/internal/models"
	"github.com/ngmaloney/exuma-cuts/internal/safety"
	"github.com/ngmaloney/exuma-cuts/internal/tides"
	"github.com/ngmaloney/exuma-cuts/internal/wind"
)

// Compute evaluates one cut at now against the reference tide series and wind forecast.
// Times in labels are rendered in now's location.
func Compute(th safety.Thresholds, daylight tides.Daylight, cut models.CutDefinition, reference []models.TideEvent, windSeries []models.WindSample, now time.Time) models.CutStatus {
	adjusted := tides.ApplyOffset(reference, cut.OffsetMinutes)
	direction := tides.CurrentDirection(adjusted, now, th.SlackHalfWidth)

	currentKnots := tides.CurrentKnotsAt(adjusted, now, cut.MaxCurrentKnots)
	heightFt := tides.HeightAt(adjusted, now)

	w := wind.OrZero(windSeries, now)
	assessment := safety.Assess(th, safety.Conditions{
		Direction:        direction,
		CurrentKnots:     currentKnots,
		WindKnots:        w.SpeedKnots,
		WindDirectionDeg: w.DirectionDeg,
		GustKnots:        w.GustKnots,
		CutBearingDeg:    cut.BearingDeg,
	})

	s := models.CutStatus{
		Cut:                   cut,
		At:                    now,
		TideDirection:         direction,
		CurrentSpeedKnots:     currentKnots,
		HeightFt:              heightFt,
		NextEventType:         models.TideHigh,
		NextEventTime:         now,
		IsSlackWindow:         direction == models.Slack,
		WindSpeedKnots:        w.SpeedKnots,
		WindGustKnots:         w.GustKnots,
		WindDirectionDeg:      w.DirectionDeg,
		WindDirectionCardinal: wind.DegreesToCardinal(w.DirectionDeg),
		IsWindAgainstCurrent:  assessment.WindAgainstCurrent,
		SafetyLevel:           assessment.Level,
		SafetyReasons:         assessment.Reasons,
	}

	if next, ok := tides.NextEvent(adjusted, now); ok {
		s.HasNextEvent = true
		s.NextEventType = next.Type
		s.NextEventTime = next.Time
		s.NextEventHeight = next.Height
		s.MinutesToNextEvent = minutesBetween(now, next.Time)
	}

	if sw, ok := tides.NextSlackWindow(adjusted, now, th.SlackHalfWidth); ok {
		start, end := sw.Start, sw.End
		s.NextSlackStart = &start
		s.NextSlackEnd = &end
		minutes := 0
		if !sw.Contains(now) {
			minutes = minutesBetween(now, sw.Start)
		}
		s.MinutesToSlack = &minutes
	}

	if windows := tides.DaylightSlackWindows(adjusted, now, th.SlackHalfWidth, daylight); len(windows) > 0 {
		dw := windows[0]
		s.BestDaylightWindow = &models.DaylightWindow{
			Start: dw.Start,
			End:   dw.End,
			Type:  dw.Type,
			Label: DaylightLabel(dw, now.Location()),
		}
	}

	if cut.IsDepthCritical() {
		mlw := *cut.MLWDepthFt
		depth := mlw + heightFt
		s.DepthNowFt = &depth

		if high, ok := tides.NextHighTide(adjusted, now); ok {
			s.NextHighTide = &models.HighTideDepth{
				Time:        high.Time,
				HeightFt:    high.Height,
				DepthFt:     mlw + high.Height,
				MinutesAway: minutesBetween(now, high.Time),
			}
		}
	}

	return s
}

// ComputeAll evaluates every cut at the same instant
func ComputeAll(th safety.Thresholds, daylight tides.Daylight, cuts []models.CutDefinition, reference []models.TideEvent, windSeries []models.WindSample, now time.Time) []models.CutStatus {
	out := make([]models.CutStatus, len(cuts))
	for i, cut := range cuts {
		out[i] = Compute(th, daylight, cut, reference, windSeries, now)
	}
	return out
}

// DaylightLabel renders a window as "2:05–3:05 PM (high slack)"
func DaylightLabel(w models.SlackWindow, loc *time.Location) string {
	return fmt.Sprintf("%s–%s (%s slack)", w.Start.In(loc).Format("3:04"), w.End.In(loc).Format("3:04 PM"), w.Type.Label())
}

// minutesBetween counts whole minutes from a to b, truncated toward zero
func minutesBetween(a, b time.Time) int {
	return int(b.Sub(a) / time.Minute)
}
