package noaa

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/ngmaloney/exuma-cuts/internal/models"
)

const (
	// DefaultBaseURL is the CO-OPS data getter endpoint
	DefaultBaseURL = "https://api.tidesandcurrents.noaa.gov/api/prod/datagetter"

	// NassauStationID is the reference station every cut is offset from
	NassauStationID = "TEC4623"

	// ForecastDays is how far ahead predictions are requested
	ForecastDays = 3

	applicationName = "ExumaCutsNavigator"
	sourceName      = "tides"
)

// NOAATideClient implements TideClient using the NOAA CO-OPS API
type NOAATideClient struct {
	baseURL    string
	stationID  string
	httpClient *http.Client
	location   *time.Location
	now        func() time.Time
}

// NewTideClient creates a new NOAA tide client. Predictions are requested in station
// local time and parsed in loc; a nil loc means time.Local.
func NewTideClient(loc *time.Location) *NOAATideClient {
	if loc == nil {
		loc = time.Local
	}
	return &NOAATideClient{
		baseURL:   DefaultBaseURL,
		stationID: NassauStationID,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		location: loc,
		now:      time.Now,
	}
}

// WithBaseURL points the client at another endpoint
func (c *NOAATideClient) WithBaseURL(baseURL string) *NOAATideClient {
	c.baseURL = baseURL
	return c
}

// WithStation replaces the reference station
func (c *NOAATideClient) WithStation(stationID string) *NOAATideClient {
	c.stationID = stationID
	return c
}

// FetchReferenceTides retrieves predictions for the reference station from the day of
// from through ForecastDays later
func (c *NOAATideClient) FetchReferenceTides(ctx context.Context, from time.Time) ([]models.TideEvent, error) {
	data, err := c.GetTidePredictions(ctx, c.stationID, from, from.AddDate(0, 0, ForecastDays))
	if err != nil {
		return nil, err
	}
	return data.Events, nil
}

// GetTidePredictions retrieves tide predictions for a date range
func (c *NOAATideClient) GetTidePredictions(ctx context.Context, stationID string, startDate, endDate time.Time) (*models.TideData, error) {
	params := url.Values{}
	params.Add("begin_date", startDate.In(c.location).Format("20060102"))
	params.Add("end_date", endDate.In(c.location).Format("20060102"))
	params.Add("station", stationID)
	params.Add("product", "predictions")
	params.Add("datum", "MLLW")        // Mean Lower Low Water
	params.Add("time_zone", "lst_ldt") // Local standard/daylight time
	params.Add("interval", "hilo")     // High and low tides only
	params.Add("units", "english")     // Feet
	params.Add("format", "json")
	params.Add("application", applicationName)

	requestURL := fmt.Sprintf("%s?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, &models.FetchError{Source: sourceName, Op: "create request", Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &models.FetchError{Source: sourceName, Op: "fetch predictions", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &models.FetchError{
			Source:     sourceName,
			Op:         "fetch predictions",
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("NOAA API error: %s", string(body)),
		}
	}

	var tideResp tideResponse
	if err := json.NewDecoder(resp.Body).Decode(&tideResp); err != nil {
		return nil, &models.FetchError{Source: sourceName, Op: "decode response", Err: err}
	}

	// CO-OPS reports bad stations and ranges as a 200 with an error body
	if tideResp.Error != nil && tideResp.Error.Message != "" {
		return nil, &models.FetchError{Source: sourceName, Op: "fetch predictions", Err: fmt.Errorf("%s: %w", tideResp.Error.Message, models.ErrNoData)}
	}
	if len(tideResp.Predictions) == 0 {
		return nil, &models.FetchError{Source: sourceName, Op: "fetch predictions", Err: fmt.Errorf("no tide predictions returned from NOAA: %w", models.ErrNoData)}
	}

	tideData := &models.TideData{
		StationID:   stationID,
		StationName: tideResp.Metadata.Name,
		Events:      make([]models.TideEvent, 0, len(tideResp.Predictions)),
		UpdatedAt:   c.now(),
	}

	for _, pred := range tideResp.Predictions {
		eventTime, err := time.ParseInLocation("2006-01-02 15:04", pred.Time, c.location)
		if err != nil {
			continue // Skip invalid times
		}

		height, err := strconv.ParseFloat(pred.Height, 64)
		if err != nil {
			continue
		}

		tideType := models.TideLow
		if pred.Type == "H" {
			tideType = models.TideHigh
		}

		tideData.Events = append(tideData.Events, models.TideEvent{
			Time:   eventTime,
			Type:   tideType,
			Height: height,
		})
	}

	if len(tideData.Events) == 0 {
		return nil, &models.FetchError{Source: sourceName, Op: "parse predictions", Err: fmt.Errorf("every prediction was malformed: %w", models.ErrNoData)}
	}

	return tideData, nil
}

// Internal types for NOAA CO-OPS API responses

type tideResponse struct {
	Metadata struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"metadata"`
	Predictions []struct {
		Time   string `json:"t"`
		Height string `json:"v"`    // NOAA returns this as string
		Type   string `json:"type"` // "H" or "L"
	} `json:"predictions"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}
