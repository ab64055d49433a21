package models

import "time"

// Confidence tiers forecast reliability by lead time
type Confidence string

const (
	ConfidenceHigh     Confidence = "high"
	ConfidenceGood     Confidence = "good"
	ConfidenceModerate Confidence = "moderate"
)

// TransitFactors are the individual sub-scores behind a window's score
type TransitFactors struct {
	SlackQuality float64
	WindScore    float64
	WindOpposing bool
	Daylight     bool
	DepthScore   *float64 // depth-critical only
	DepthFt      *float64 // depth-critical only
}

// TransitWindow is a scored slack window
type TransitWindow struct {
	Time       time.Time // slack center
	Start      time.Time
	End        time.Time
	Type       TideType
	Score      int // 1-10
	Confidence Confidence
	Summary    string
	Factors    TransitFactors

	WindSpeedKnots    float64
	WindGustKnots     float64
	WindCardinal      string
	CurrentSpeedKnots float64
	HeightFt          float64
	DepthFt           *float64
}

// TransitDay groups one calendar day's windows
type TransitDay struct {
	Date       time.Time
	Label      string // "Today", "Tomorrow", "Wednesday"
	Windows    []TransitWindow
	BestWindow *TransitWindow
}

// TransitPlan is the full 3-day ranking for one cut
type TransitPlan struct {
	Cut         CutDefinition
	Days        []TransitDay
	OverallBest *TransitWindow
}

// WindowCount returns the number of windows across all days
func (p *TransitPlan) WindowCount() int {
	n := 0
	for _, d := range p.Days {
		n += len(d.Windows)
	}
	return n
}
