package transit

import (
	"fmt"
	"time"

	"github.com/ngmaloney/exuma-cuts/internal/models"
	"github.com/ngmaloney/exuma-cuts/internal/safety"
	"github.com/ngmaloney/exuma-cuts/internal/tides"
)

// Step is one rung of a threshold table: values >= Min score Score
type Step struct {
	Min   float64 `yaml:"min"`
	Score float64 `yaml:"score"`
}

// Steps is a threshold table ordered from the highest Min down. The first rung
// whose Min is reached wins.
type Steps []Step

// Lookup returns the score of the first rung v reaches, or fallback when none match
func (s Steps) Lookup(v, fallback float64) float64 {
	for _, step := range s {
		if v >= step.Min {
			return step.Score
		}
	}
	return fallback
}

func (s Steps) validate(name string) error {
	for i := 1; i < len(s); i++ {
		if s[i].Min > s[i-1].Min {
			return fmt.Errorf("%s: step %d min %.2f above previous %.2f", name, i, s[i].Min, s[i-1].Min)
		}
	}
	return nil
}

// Weights combine factor scores into a raw window score
type Weights struct {
	Slack         float64 `yaml:"slack"`
	Wind          float64 `yaml:"wind"`
	Depth         float64 `yaml:"depth"`
	DaylightBonus float64 `yaml:"daylight_bonus"`
}

// ConfidenceTier scales scores for windows up to MaxHours out
type ConfidenceTier struct {
	MaxHours   int               `yaml:"max_hours"`
	Multiplier float64           `yaml:"multiplier"`
	Level      models.Confidence `yaml:"level"`
}

// Config is every constant the scorer uses
type Config struct {
	Horizon    time.Duration
	Thresholds safety.Thresholds
	Daylight   tides.Daylight

	HighSlackQuality float64
	LowSlackQuality  float64

	OpposingWindSteps Steps
	GustPenaltyKnots  float64
	GustPenaltyScore  float64
	WindSteps         Steps
	CalmWindScore     float64

	DepthSteps        Steps
	ShallowDepthScore float64

	Standard      Weights
	DepthCritical Weights

	ConfidenceTiers    []ConfidenceTier
	ConfidenceFallback ConfidenceTier
	NightFactor        float64

	MinScore int
	MaxScore int
}

// DefaultConfig returns the standard scoring model
func DefaultConfig() Config {
	return Config{
		Horizon:    72 * time.Hour,
		Thresholds: safety.DefaultThresholds(),
		Daylight:   tides.DefaultDaylight,

		HighSlackQuality: 9,
		LowSlackQuality:  7,

		OpposingWindSteps: Steps{{Min: 15, Score: 1}, {Min: 10, Score: 3}, {Min: 0, Score: 5}},
		GustPenaltyKnots:  25,
		GustPenaltyScore:  2,
		WindSteps:         Steps{{Min: 20, Score: 3}, {Min: 15, Score: 5}, {Min: 10, Score: 7}, {Min: 5, Score: 9}},
		CalmWindScore:     10,

		DepthSteps: Steps{
			{Min: 8, Score: 10},
			{Min: 7, Score: 9},
			{Min: 6.5, Score: 8},
			{Min: 6, Score: 7},
			{Min: 5.5, Score: 6},
			{Min: 5, Score: 5},
			{Min: 4.5, Score: 3},
			{Min: 4, Score: 2},
		},
		ShallowDepthScore: 1,

		Standard:      Weights{Slack: 0.35, Wind: 0.45, DaylightBonus: 2},
		DepthCritical: Weights{Slack: 0.2, Wind: 0.3, Depth: 0.4, DaylightBonus: 1},

		ConfidenceTiers: []ConfidenceTier{
			{MaxHours: 24, Multiplier: 1.0, Level: models.ConfidenceHigh},
			{MaxHours: 48, Multiplier: 0.95, Level: models.ConfidenceGood},
		},
		ConfidenceFallback: ConfidenceTier{Multiplier: 0.88, Level: models.ConfidenceModerate},
		NightFactor:        0.4,

		MinScore: 1,
		MaxScore: 10,
	}
}

// Validate checks the config is usable
func (c Config) Validate() error {
	if c.Horizon <= 0 {
		return fmt.Errorf("horizon must be positive")
	}
	if err := c.Thresholds.Validate(); err != nil {
		return fmt.Errorf("thresholds: %w", err)
	}
	if c.Daylight.StartHour >= c.Daylight.EndHour {
		return fmt.Errorf("daylight start %.2f must be before end %.2f", c.Daylight.StartHour, c.Daylight.EndHour)
	}
	if c.MinScore > c.MaxScore {
		return fmt.Errorf("min score %d above max score %d", c.MinScore, c.MaxScore)
	}
	for name, s := range map[string]Steps{
		"opposing_wind_steps": c.OpposingWindSteps,
		"wind_steps":          c.WindSteps,
		"depth_steps":         c.DepthSteps,
	} {
		if err := s.validate(name); err != nil {
			return err
		}
	}
	for i := 1; i < len(c.ConfidenceTiers); i++ {
		if c.ConfidenceTiers[i].MaxHours < c.ConfidenceTiers[i-1].MaxHours {
			return fmt.Errorf("confidence tiers must be ordered by max_hours")
		}
	}
	return nil
}

func (c Config) confidence(hoursAway int) ConfidenceTier {
	for _, tier := range c.ConfidenceTiers {
		if hoursAway <= tier.MaxHours {
			return tier
		}
	}
	return c.ConfidenceFallback
}

func (c Config) slackQuality(t models.TideType) float64 {
	if t == models.TideHigh {
		return c.HighSlackQuality
	}
	return c.LowSlackQuality
}

func (c Config) windScore(speedKnots, gustKnots float64, opposing bool) float64 {
	if opposing {
		return c.OpposingWindSteps.Lookup(speedKnots, c.CalmWindScore)
	}
	if gustKnots >= c.GustPenaltyKnots {
		return c.GustPenaltyScore
	}
	return c.WindSteps.Lookup(speedKnots, c.CalmWindScore)
}

func (c Config) depthScore(depthFt float64) float64 {
	return c.DepthSteps.Lookup(depthFt, c.ShallowDepthScore)
}
