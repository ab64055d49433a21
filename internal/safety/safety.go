// Package safety classifies transit conditions at a cut from current and wind
package safety

import (
	"fmt"
	"math"
	"time"

	"github.com/ngmaloney/exuma-cuts/internal/models"
	"github.com/ngmaloney/exuma-cuts/internal/wind"
)

// Thresholds holds every numeric limit the classifier uses
type Thresholds struct {
	SlackHalfWidth         time.Duration `yaml:"slack_half_width"`
	WindOpposingMinKnots   float64       `yaml:"wind_opposing_min_knots"`
	WindHazardousKnots     float64       `yaml:"wind_hazardous_knots"`
	WindCautionStrongKnots float64       `yaml:"wind_caution_strong_knots"`
	GustHazardousKnots     float64       `yaml:"gust_hazardous_knots"`
	CurrentHazardousKnots  float64       `yaml:"current_hazardous_knots"`
	CurrentCautionKnots    float64       `yaml:"current_caution_knots"`
}

// DefaultThresholds returns the standard Exuma limits
func DefaultThresholds() Thresholds {
	return Thresholds{
		SlackHalfWidth:         30 * time.Minute,
		WindOpposingMinKnots:   10,
		WindHazardousKnots:     15,
		WindCautionStrongKnots: 20,
		GustHazardousKnots:     20,
		CurrentHazardousKnots:  2.0,
		CurrentCautionKnots:    2.5,
	}
}

// Validate rejects thresholds that would make the cascade incoherent
func (t Thresholds) Validate() error {
	if t.SlackHalfWidth <= 0 {
		return fmt.Errorf("slack_half_width must be positive")
	}
	for name, v := range map[string]float64{
		"wind_opposing_min_knots":   t.WindOpposingMinKnots,
		"wind_hazardous_knots":      t.WindHazardousKnots,
		"wind_caution_strong_knots": t.WindCautionStrongKnots,
		"gust_hazardous_knots":      t.GustHazardousKnots,
		"current_hazardous_knots":   t.CurrentHazardousKnots,
		"current_caution_knots":     t.CurrentCautionKnots,
	} {
		if v < 0 || math.IsNaN(v) {
			return fmt.Errorf("%s must be non-negative", name)
		}
	}
	return nil
}

// FlowBearing returns the true bearing the current flows toward.
// Ebb runs along the cut bearing and flood runs the reciprocal.
func FlowBearing(direction models.TideDirection, cutBearingDeg float64) float64 {
	if direction == models.Flooding {
		return wind.NormalizeDegrees(cutBearingDeg + 180)
	}
	return wind.NormalizeDegrees(cutBearingDeg)
}

// AngularDifference is the shortest angle between two bearings, in [0, 180]
func AngularDifference(a, b float64) float64 {
	diff := math.Abs(wind.NormalizeDegrees(a) - wind.NormalizeDegrees(b))
	if diff > 180 {
		diff = 360 - diff
	}
	return diff
}

// IsWindAgainstCurrent reports whether wind is blowing into the current.
// Wind direction is where it blows FROM, so wind from the bearing the water is flowing
// toward opposes it and stands up steep waves in the cut.
func IsWindAgainstCurrent(th Thresholds, direction models.TideDirection, windDirectionDeg, windSpeedKnots, cutBearingDeg float64) bool {
	if direction == models.Slack {
		return false
	}
	if !(windSpeedKnots >= th.WindOpposingMinKnots) {
		return false
	}
	return AngularDifference(windDirectionDeg, FlowBearing(direction, cutBearingDeg)) <= 90
}

// Conditions are the inputs to a safety assessment at one instant
type Conditions struct {
	Direction        models.TideDirection
	CurrentKnots     float64
	WindKnots        float64
	WindDirectionDeg float64
	GustKnots        float64
	CutBearingDeg    float64
}

// Assessment is the verdict with the reasons that produced it
type Assessment struct {
	Level              models.SafetyLevel
	Reasons            []string
	WindAgainstCurrent bool
}

// Assess runs the ordered decision cascade; the first matching rule decides the level
func Assess(th Thresholds, c Conditions) Assessment {
	opposing := IsWindAgainstCurrent(th, c.Direction, c.WindDirectionDeg, c.WindKnots, c.CutBearingDeg)
	a := Assessment{WindAgainstCurrent: opposing}

	switch {
	case opposing && (c.WindKnots >= th.WindHazardousKnots || c.CurrentKnots >= th.CurrentHazardousKnots):
		a.Level = models.SafetyHazardous
		a.Reasons = append(a.Reasons, "Wind opposing current — dangerous standing waves likely")
		if c.WindKnots >= th.WindHazardousKnots {
			a.Reasons = append(a.Reasons, fmt.Sprintf("Wind %.0f kts against current", math.Round(c.WindKnots)))
		}
		if c.CurrentKnots >= th.CurrentHazardousKnots {
			a.Reasons = append(a.Reasons, fmt.Sprintf("Strong current %.1f kts", c.CurrentKnots))
		}

	case opposing && c.GustKnots >= th.GustHazardousKnots:
		a.Level = models.SafetyHazardous
		a.Reasons = append(a.Reasons, fmt.Sprintf("Wind gusts %.0f kts opposing current", math.Round(c.GustKnots)))

	case opposing:
		a.Level = models.SafetyCaution
		a.Reasons = append(a.Reasons, "Wind opposing current — moderate chop possible")

	case c.CurrentKnots >= th.CurrentCautionKnots:
		a.Level = models.SafetyCaution
		a.Reasons = append(a.Reasons, fmt.Sprintf("Strong current %.1f kts", c.CurrentKnots))

	case c.WindKnots >= th.WindCautionStrongKnots && c.Direction != models.Slack:
		a.Level = models.SafetyCaution
		a.Reasons = append(a.Reasons, fmt.Sprintf("Strong wind %.0f kts with active current", math.Round(c.WindKnots)))

	case c.Direction == models.Slack:
		a.Level = models.SafetySafe
		a.Reasons = append(a.Reasons, "Slack water — minimal current")

	default:
		a.Level = models.SafetySafe
		a.Reasons = append(a.Reasons, "Conditions favorable for transit")
	}

	return a
}
