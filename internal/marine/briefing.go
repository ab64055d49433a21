// Package marine summarises hourly wave and wind forecasts into a daily briefing
package marine

import (
	"fmt"
	"math"
	"time"

	"github.com/ngmaloney/exuma-cuts/internal/models"
	"github.com/ngmaloney/exuma-cuts/internal/wind"
)

// Days is how many days the briefing covers, starting today
const Days = 3

// Only hours in [BriefingStartHour, BriefingEndHour) count toward a day's summary
const (
	BriefingStartHour = 6
	BriefingEndHour   = 19
)

// seaStateTier is reached when either the wave height or the gust threshold is met
type seaStateTier struct {
	state     models.SeaState
	waveFt    float64
	gustKnots float64
}

var seaStateTiers = []seaStateTier{
	{models.SeaVeryRough, 8, 35},
	{models.SeaRough, 5, 25},
	{models.SeaModerate, 3, 18},
	{models.SeaLight, 1.5, math.Inf(1)},
}

// gustyModerateKnots promotes a moderate day to a warning
const gustyModerateKnots = 22

// AssessSeaState combines the day's largest waves and strongest gusts
func AssessSeaState(maxWaveFt, maxGustKnots float64) models.SeaState {
	for _, tier := range seaStateTiers {
		if maxWaveFt >= tier.waveFt || maxGustKnots >= tier.gustKnots {
			return tier.state
		}
	}
	return models.SeaCalm
}

// Warning returns the advisory text for a day, or "" when conditions do not warrant one
func Warning(state models.SeaState, maxWaveFt, maxGustKnots, maxWindKnots float64) string {
	switch {
	case state == models.SeaVeryRough:
		return fmt.Sprintf("Dangerous conditions — waves to %.0fft, gusts %.0fkts. Do not transit cuts.",
			maxWaveFt, math.Round(maxGustKnots))
	case state == models.SeaRough:
		return fmt.Sprintf("Rough seas — waves to %.0fft, wind %.0fkts gusting %.0fkts. Use extreme caution.",
			maxWaveFt, math.Round(maxWindKnots), math.Round(maxGustKnots))
	case state == models.SeaModerate && maxGustKnots >= gustyModerateKnots:
		return fmt.Sprintf("Gusty winds to %.0fkts with %.0fft seas. Choose slack windows carefully.",
			math.Round(maxGustKnots), maxWaveFt)
	}
	return ""
}

// BuildDailyForecasts aggregates the daylight hours of today and the next two days.
// Days with no samples report zeros and a calm sea.
func BuildDailyForecasts(marine []models.MarineHourly, windSeries []models.WindSample, now time.Time) []models.MarineDaily {
	loc := now.Location()
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, loc)

	out := make([]models.MarineDaily, 0, Days)
	for i := range Days {
		date := today.AddDate(0, 0, i)
		y, m, d := date.Date()
		start := time.Date(y, m, d, BriefingStartHour, 0, 0, 0, loc)
		end := time.Date(y, m, d, BriefingEndHour, 0, 0, 0, loc)

		out = append(out, summarise(date, dayLabel(date, i), between(marine, start, end), windBetween(windSeries, start, end)))
	}
	return out
}

func summarise(date time.Time, label string, marine []models.MarineHourly, windSeries []models.WindSample) models.MarineDaily {
	day := models.MarineDaily{Date: date, Label: label}

	if len(marine) > 0 {
		var periodSum float64
		for _, h := range marine {
			day.MaxWaveHeightFt = max(day.MaxWaveHeightFt, h.WaveHeightFt)
			day.MaxWindWaveHeightFt = max(day.MaxWindWaveHeightFt, h.WindWaveHeightFt)
			day.MaxSwellHeightFt = max(day.MaxSwellHeightFt, h.SwellHeightFt)
			periodSum += h.WavePeriodSec
		}
		day.AvgWavePeriodSec = periodSum / float64(len(marine))
		day.DominantWaveDirectionDeg = marine[len(marine)/2].WaveDirectionDeg
	}

	if len(windSeries) > 0 {
		for _, w := range windSeries {
			day.MaxWindSpeedKnots = max(day.MaxWindSpeedKnots, w.SpeedKnots)
			day.MaxGustKnots = max(day.MaxGustKnots, w.GustKnots)
		}
		// midday direction stands in for the day's prevailing wind
		day.AvgWindDirectionDeg = windSeries[len(windSeries)/2].DirectionDeg
	}
	day.AvgWindCardinal = wind.DegreesToCardinal(day.AvgWindDirectionDeg)

	day.SeaState = AssessSeaState(day.MaxWaveHeightFt, day.MaxGustKnots)
	day.WarningText = Warning(day.SeaState, day.MaxWaveHeightFt, day.MaxGustKnots, day.MaxWindSpeedKnots)
	day.IsWarning = day.WarningText != ""
	return day
}

func between(series []models.MarineHourly, start, end time.Time) []models.MarineHourly {
	var out []models.MarineHourly
	for _, h := range series {
		if !h.Time.Before(start) && h.Time.Before(end) {
			out = append(out, h)
		}
	}
	return out
}

func windBetween(series []models.WindSample, start, end time.Time) []models.WindSample {
	var out []models.WindSample
	for _, w := range series {
		if !w.Time.Before(start) && w.Time.Before(end) {
			out = append(out, w)
		}
	}
	return out
}

func dayLabel(date time.Time, offset int) string {
	switch offset {
	case 0:
		return "Today"
	case 1:
		return "Tomorrow"
	default:
		return date.Weekday().String()
	}
}
