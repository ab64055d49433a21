package models

import (
	"fmt"
	"time"
)

// CutGroup is the region a cut belongs to
type CutGroup string

const (
	GroupExuma    CutGroup = "exuma"
	GroupSouthern CutGroup = "southern"
	GroupRaggeds  CutGroup = "raggeds"
)

// CutDefinition is a static description of one tidal cut
type CutDefinition struct {
	ID              string   `yaml:"id" json:"id"`
	Name            string   `yaml:"name" json:"name"`
	Lat             float64  `yaml:"lat" json:"lat"`
	Lon             float64  `yaml:"lon" json:"lon"`
	OffsetMinutes   int      `yaml:"offset_minutes" json:"offset_minutes"`     // shift from the reference station
	MaxCurrentKnots float64  `yaml:"max_current_knots" json:"max_current_knots"` // mean spring current
	Notes           string   `yaml:"notes" json:"notes"`
	Group           CutGroup `yaml:"group" json:"group"`
	// BearingDeg is the true bearing of the channel axis, bank side toward the Sound.
	// Ebb flows along it, flood flows the reciprocal.
	BearingDeg    float64  `yaml:"bearing_deg" json:"bearing_deg"`
	MLWDepthFt    *float64 `yaml:"mlw_depth_ft,omitempty" json:"mlw_depth_ft,omitempty"`
	DepthCritical bool     `yaml:"depth_critical,omitempty" json:"depth_critical,omitempty"`
}

// IsDepthCritical reports whether depth scoring applies to this cut
func (c *CutDefinition) IsDepthCritical() bool {
	return c.DepthCritical && c.MLWDepthFt != nil
}

// Validate checks the cut's invariants
func (c *CutDefinition) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("cut id is required")
	}
	if c.BearingDeg < 0 || c.BearingDeg >= 360 {
		return fmt.Errorf("cut %s: bearing_deg %.1f out of range [0,360)", c.ID, c.BearingDeg)
	}
	if c.MaxCurrentKnots <= 0 {
		return fmt.Errorf("cut %s: max_current_knots must be positive", c.ID)
	}
	if c.DepthCritical && c.MLWDepthFt == nil {
		return fmt.Errorf("cut %s: depth_critical requires mlw_depth_ft", c.ID)
	}
	return nil
}

// SafetyLevel is the three-level transit verdict
type SafetyLevel string

const (
	SafetySafe      SafetyLevel = "safe"
	SafetyCaution   SafetyLevel = "caution"
	SafetyHazardous SafetyLevel = "hazardous"
)

// DaylightWindow is the first upcoming slack window that falls in daylight
type DaylightWindow struct {
	Start time.Time
	End   time.Time
	Type  TideType
	Label string // "2:05–3:05 PM (high slack)"
}

// HighTideDepth projects depth over a depth-critical cut at the next high tide
type HighTideDepth struct {
	Time        time.Time
	HeightFt    float64
	DepthFt     float64
	MinutesAway int
}

// CutStatus is a read-only snapshot of one cut at one instant.
// It is recomputed on every tick and never cached.
type CutStatus struct {
	Cut               CutDefinition
	At                time.Time
	TideDirection     TideDirection
	CurrentSpeedKnots float64
	HeightFt          float64

	HasNextEvent       bool
	NextEventType      TideType
	NextEventTime      time.Time
	NextEventHeight    float64
	MinutesToNextEvent int
	IsSlackWindow      bool

	WindSpeedKnots        float64
	WindGustKnots         float64
	WindDirectionDeg      float64
	WindDirectionCardinal string
	IsWindAgainstCurrent  bool

	SafetyLevel   SafetyLevel
	SafetyReasons []string

	NextSlackStart     *time.Time
	NextSlackEnd       *time.Time
	MinutesToSlack     *int
	BestDaylightWindow *DaylightWindow

	// Depth-critical cuts only
	DepthNowFt   *float64
	NextHighTide *HighTideDepth
}
