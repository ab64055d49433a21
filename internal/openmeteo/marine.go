package openmeteo

import (
	"context"
	"fmt"

	"github.com/ngmaloney/exuma-cuts/internal/models"
)

type marineResponse struct {
	Hourly struct {
		Time           []string   `json:"time"`
		WaveHeight     []*float64 `json:"wave_height"`
		WavePeriod     []*float64 `json:"wave_period"`
		WaveDirection  []*float64 `json:"wave_direction"`
		WindWaveHeight []*float64 `json:"wind_wave_height"`
		SwellHeight    []*float64 `json:"swell_wave_height"`
	} `json:"hourly"`
}

// FetchMarine retrieves the hourly wave forecast with heights converted to feet
func (c *Client) FetchMarine(ctx context.Context) ([]models.MarineHourly, error) {
	params := c.params("wave_height,wave_period,wave_direction,wind_wave_height,swell_wave_height")

	var resp marineResponse
	if err := c.get(ctx, "marine", c.marineURL, params, &resp); err != nil {
		return nil, err
	}

	h := resp.Hourly
	out := make([]models.MarineHourly, 0, len(h.Time))
	for i, ts := range h.Time {
		t, err := c.parseTime(ts)
		if err != nil {
			continue
		}
		out = append(out, models.MarineHourly{
			Time:             t,
			WaveHeightFt:     at(h.WaveHeight, i) * metersToFeet,
			WavePeriodSec:    at(h.WavePeriod, i),
			WaveDirectionDeg: at(h.WaveDirection, i),
			WindWaveHeightFt: at(h.WindWaveHeight, i) * metersToFeet,
			SwellHeightFt:    at(h.SwellHeight, i) * metersToFeet,
		})
	}

	if len(out) == 0 {
		return nil, &models.FetchError{Source: "marine", Op: "parse forecast", Err: fmt.Errorf("no hourly waves: %w", models.ErrNoData)}
	}
	return out, nil
}
