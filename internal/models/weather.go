package models

import "time"

// WindSample is one hourly wind forecast point
type WindSample struct {
	Time         time.Time `json:"time"`
	SpeedKnots   float64   `json:"speed_knots"`
	DirectionDeg float64   `json:"direction_deg"` // meteorological, direction wind blows FROM
	GustKnots    float64   `json:"gust_knots"`
}

// MarineHourly is one hourly wave forecast point
type MarineHourly struct {
	Time             time.Time `json:"time"`
	WaveHeightFt     float64   `json:"wave_height_ft"`
	WavePeriodSec    float64   `json:"wave_period_sec"`
	WaveDirectionDeg float64   `json:"wave_direction_deg"`
	WindWaveHeightFt float64   `json:"wind_wave_height_ft"`
	SwellHeightFt    float64   `json:"swell_height_ft"`
}

// SeaState is the overall sea condition assessment for a day
type SeaState string

const (
	SeaCalm      SeaState = "calm"
	SeaLight     SeaState = "light"
	SeaModerate  SeaState = "moderate"
	SeaRough     SeaState = "rough"
	SeaVeryRough SeaState = "very rough"
)

// MarineDaily summarises a day's daylight-hour wave and wind forecast
type MarineDaily struct {
	Date                     time.Time
	Label                    string // "Today", "Tomorrow", "Wednesday"
	MaxWaveHeightFt          float64
	MaxWindWaveHeightFt      float64
	MaxSwellHeightFt         float64
	AvgWavePeriodSec         float64
	DominantWaveDirectionDeg float64
	MaxWindSpeedKnots        float64
	MaxGustKnots             float64
	AvgWindDirectionDeg      float64
	AvgWindCardinal          string
	SeaState                 SeaState
	IsWarning                bool
	WarningText              string
}
