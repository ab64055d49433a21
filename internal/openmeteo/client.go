// Package openmeteo fetches hourly wind and wave forecasts from Open-Meteo
package openmeteo

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
	DefaultForecastURL = "https://api.open-meteo.com/v1/forecast"
	DefaultMarineURL   = "https://marine-api.open-meteo.com/v1/marine"

	// Central Exumas, near Warderick Wells
	DefaultLat = 24.385
	DefaultLon = -76.627

	ForecastDays   = 3
	metersToFeet   = 3.28084
	hourlyTimeForm = "2006-01-02T15:04"
)

// WindClient fetches the hourly wind forecast
type WindClient interface {
	FetchWind(ctx context.Context) ([]models.WindSample, error)
}

// MarineClient fetches the hourly wave forecast
type MarineClient interface {
	FetchMarine(ctx context.Context) ([]models.MarineHourly, error)
}

// Client implements WindClient and MarineClient for a single forecast point
type Client struct {
	forecastURL string
	marineURL   string
	lat, lon    float64
	location    *time.Location
	httpClient  *http.Client
}

// NewClient creates a client for the given point. Hourly times are requested in loc,
// which must be an IANA zone; a nil loc means time.Local.
func NewClient(lat, lon float64, loc *time.Location) *Client {
	if loc == nil {
		loc = time.Local
	}
	return &Client{
		forecastURL: DefaultForecastURL,
		marineURL:   DefaultMarineURL,
		lat:         lat,
		lon:         lon,
		location:    loc,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// WithBaseURLs points the client at other endpoints
func (c *Client) WithBaseURLs(forecastURL, marineURL string) *Client {
	c.forecastURL = forecastURL
	c.marineURL = marineURL
	return c
}

func (c *Client) params(hourly string) url.Values {
	params := url.Values{}
	params.Add("latitude", strconv.FormatFloat(c.lat, 'f', -1, 64))
	params.Add("longitude", strconv.FormatFloat(c.lon, 'f', -1, 64))
	params.Add("hourly", hourly)
	params.Add("forecast_days", strconv.Itoa(ForecastDays))
	params.Add("timezone", c.location.String())
	return params
}

// get issues the request and decodes the JSON body into out
func (c *Client) get(ctx context.Context, source, baseURL string, params url.Values, out any) error {
	requestURL := fmt.Sprintf("%s?%s", baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return &models.FetchError{Source: source, Op: "create request", Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &models.FetchError{Source: source, Op: "fetch forecast", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &models.FetchError{
			Source:     source,
			Op:         "fetch forecast",
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("Open-Meteo API error: %s", string(body)),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &models.FetchError{Source: source, Op: "decode response", Err: err}
	}
	return nil
}

func (c *Client) parseTime(s string) (time.Time, error) {
	return time.ParseInLocation(hourlyTimeForm, s, c.location)
}

// at returns values[i], treating nulls and short arrays as zero
func at(values []*float64, i int) float64 {
	if i >= len(values) || values[i] == nil {
		return 0
	}
	return *values[i]
}
