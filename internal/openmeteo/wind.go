package openmeteo

import (
	"context"
	"fmt"

	"github.com/ngmaloney/exuma-cuts/internal/models"
)

type windResponse struct {
	Hourly struct {
		Time      []string   `json:"time"`
		Speed     []*float64 `json:"wind_speed_10m"`
		Direction []*float64 `json:"wind_direction_10m"`
		Gusts     []*float64 `json:"wind_gusts_10m"`
	} `json:"hourly"`
}

// FetchWind retrieves the hourly 10m wind forecast in knots
func (c *Client) FetchWind(ctx context.Context) ([]models.WindSample, error) {
	params := c.params("wind_speed_10m,wind_direction_10m,wind_gusts_10m")
	params.Add("wind_speed_unit", "kn")

	var resp windResponse
	if err := c.get(ctx, "wind", c.forecastURL, params, &resp); err != nil {
		return nil, err
	}

	h := resp.Hourly
	samples := make([]models.WindSample, 0, len(h.Time))
	for i, ts := range h.Time {
		t, err := c.parseTime(ts)
		if err != nil {
			continue
		}
		speed := at(h.Speed, i)
		samples = append(samples, models.WindSample{
			Time:         t,
			SpeedKnots:   speed,
			DirectionDeg: at(h.Direction, i),
			GustKnots:    max(at(h.Gusts, i), speed),
		})
	}

	if len(samples) == 0 {
		return nil, &models.FetchError{Source: "wind", Op: "parse forecast", Err: fmt.Errorf("no hourly wind: %w", models.ErrNoData)}
	}
	return samples, nil
}
