// Package transit ranks every slack window over the next few days for a cut
package transit

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/ngmaloney/exuma-cuts/internal/models"
	"github.com/ngmaloney/exuma-cuts/internal/safety"
	"github.com/ngmaloney/exuma-cuts/internal/tides"
	"github.com/ngmaloney/exuma-cuts/internal/wind"
)

// lightWindKnots is the speed below which the summary calls the wind light
const lightWindKnots = 10

// Score projects the reference series onto the cut and scores every slack window
// that is still open at now and starts within the horizon. Windows are grouped by
// calendar day in now's location.
func Score(cfg Config, cut models.CutDefinition, reference []models.TideEvent, windSeries []models.WindSample, now time.Time) models.TransitPlan {
	adjusted := tides.ApplyOffset(reference, cut.OffsetMinutes)
	horizonEnd := now.Add(cfg.Horizon)

	var scored []models.TransitWindow
	for _, sw := range tides.SlackWindows(adjusted, cfg.Thresholds.SlackHalfWidth) {
		if !sw.End.After(now) || !sw.Start.Before(horizonEnd) {
			continue
		}
		scored = append(scored, scoreWindow(cfg, cut, adjusted, windSeries, sw, now))
	}

	plan := models.TransitPlan{Cut: cut, Days: groupByDay(scored, now)}
	for i := range plan.Days {
		if b := plan.Days[i].BestWindow; b != nil && (plan.OverallBest == nil || b.Score > plan.OverallBest.Score) {
			plan.OverallBest = b
		}
	}
	return plan
}

func scoreWindow(cfg Config, cut models.CutDefinition, adjusted []models.TideEvent, windSeries []models.WindSample, sw models.SlackWindow, now time.Time) models.TransitWindow {
	center := sw.Center
	// Truncated whole hours, so 24h59m is still inside the first tier
	tier := cfg.confidence(int(center.Sub(now).Hours()))
	daylight := cfg.Daylight.Contains(center.In(now.Location()))

	w := wind.OrZero(windSeries, center)

	heightFt := tides.HeightAt(adjusted, center)
	currentKnots := tides.CurrentKnotsAt(adjusted, center, cut.MaxCurrentKnots)

	// At the center the current is near zero, so check the current the window is
	// approaching from: flood runs into high water, ebb into low.
	approach := models.Ebbing
	if sw.Type == models.TideHigh {
		approach = models.Flooding
	}
	opposing := safety.IsWindAgainstCurrent(cfg.Thresholds, approach, w.DirectionDeg, w.SpeedKnots, cut.BearingDeg)

	factors := models.TransitFactors{
		SlackQuality: cfg.slackQuality(sw.Type),
		WindScore:    cfg.windScore(w.SpeedKnots, w.GustKnots, opposing),
		WindOpposing: opposing,
		Daylight:     daylight,
	}

	weights := cfg.Standard
	var depthFt *float64
	if cut.IsDepthCritical() {
		d := *cut.MLWDepthFt + heightFt
		ds := cfg.depthScore(d)
		depthFt = &d
		factors.DepthFt = &d
		factors.DepthScore = &ds
		weights = cfg.DepthCritical
	}

	tw := models.TransitWindow{
		Time:              center,
		Start:             sw.Start,
		End:               sw.End,
		Type:              sw.Type,
		Confidence:        tier.Level,
		Factors:           factors,
		WindSpeedKnots:    w.SpeedKnots,
		WindGustKnots:     w.GustKnots,
		WindCardinal:      wind.DegreesToCardinal(w.DirectionDeg),
		CurrentSpeedKnots: currentKnots,
		HeightFt:          heightFt,
		DepthFt:           depthFt,
	}
	tw.Score = overallScore(cfg, weights, factors, tier.Multiplier)
	tw.Summary = Summary(tw, cut)
	return tw
}

// overallScore applies the weighted sum, the confidence multiplier and the night
// penalty, then rounds and clamps. The night penalty compounds with the missing
// daylight bonus.
func overallScore(cfg Config, weights Weights, f models.TransitFactors, confidence float64) int {
	raw := weights.Slack*f.SlackQuality + weights.Wind*f.WindScore
	if f.DepthScore != nil {
		raw += weights.Depth * *f.DepthScore
	}
	if f.Daylight {
		raw += weights.DaylightBonus
	}
	raw *= confidence
	if !f.Daylight {
		raw *= cfg.NightFactor
	}

	if math.IsNaN(raw) {
		return cfg.MinScore
	}
	return clamp(int(math.Round(raw)), cfg.MinScore, cfg.MaxScore)
}

func clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}

// groupByDay buckets windows into calendar days starting today. At least three days
// are returned; more are added when windows run past the third. Windows centered
// before today's midnight but still open are counted as today.
func groupByDay(windows []models.TransitWindow, now time.Time) []models.TransitDay {
	loc := now.Location()
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, loc)

	days := make([]models.TransitDay, 3)
	for i := range days {
		days[i] = newDay(today, i)
	}

	for _, w := range windows {
		idx := dayIndex(today, w.Time.In(loc))
		for idx >= len(days) {
			days = append(days, newDay(today, len(days)))
		}
		days[idx].Windows = append(days[idx].Windows, w)
	}

	for i := range days {
		days[i].BestWindow = best(days[i].Windows)
	}
	return days
}

func newDay(today time.Time, offset int) models.TransitDay {
	date := today.AddDate(0, 0, offset)
	return models.TransitDay{Date: date, Label: dayLabel(date, offset)}
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

// dayIndex counts calendar days from today, so DST transitions do not shift buckets
func dayIndex(today, t time.Time) int {
	y, m, d := t.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, today.Location())
	if day.Before(today) {
		return 0
	}
	idx := 0
	for cur := today; cur.Before(day); cur = cur.AddDate(0, 0, 1) {
		idx++
	}
	return idx
}

// best returns the highest scoring window, the earliest one on ties
func best(windows []models.TransitWindow) *models.TransitWindow {
	var b *models.TransitWindow
	for i := range windows {
		if b == nil || windows[i].Score > b.Score {
			b = &windows[i]
		}
	}
	return b
}

// Summary renders a one-line description such as
// "High slack · 6.2ft depth · ENE 14kts opposing · dark"
func Summary(w models.TransitWindow, cut models.CutDefinition) string {
	parts := []string{"Low slack"}
	if w.Type == models.TideHigh {
		parts[0] = "High slack"
	}

	if cut.DepthCritical && w.DepthFt != nil {
		parts = append(parts, fmt.Sprintf("%.1fft depth", *w.DepthFt))
	}

	speed := math.Round(w.WindSpeedKnots)
	switch {
	case w.Factors.WindOpposing:
		parts = append(parts, fmt.Sprintf("%s %.0fkts opposing", w.WindCardinal, speed))
	case w.WindSpeedKnots >= lightWindKnots:
		parts = append(parts, fmt.Sprintf("%s %.0fkts", w.WindCardinal, speed))
	default:
		parts = append(parts, "light "+w.WindCardinal)
	}

	if !w.Factors.Daylight {
		parts = append(parts, "dark")
	}
	return strings.Join(parts, " · ")
}
