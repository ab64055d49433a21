// Package noaa fetches hi/lo tide predictions from NOAA CO-OPS
package noaa

import (
	"context"
	"time"

	"github.com/ngmaloney/exuma-cuts/internal/models"
)

// TideClient defines the interface for fetching tide data from NOAA CO-OPS
type TideClient interface {
	// GetTidePredictions retrieves high/low predictions between two dates, inclusive
	GetTidePredictions(ctx context.Context, stationID string, startDate, endDate time.Time) (*models.TideData, error)
}
