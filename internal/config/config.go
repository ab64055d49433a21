// Package config loads the exuma-cuts YAML configuration with environment overrides
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ngmaloney/exuma-cuts/internal/cuts"
	"github.com/ngmaloney/exuma-cuts/internal/database"
	"github.com/ngmaloney/exuma-cuts/internal/models"
	"github.com/ngmaloney/exuma-cuts/internal/noaa"
	"github.com/ngmaloney/exuma-cuts/internal/openmeteo"
	"github.com/ngmaloney/exuma-cuts/internal/refresh"
	"github.com/ngmaloney/exuma-cuts/internal/safety"
	"github.com/ngmaloney/exuma-cuts/internal/scheduler"
	"github.com/ngmaloney/exuma-cuts/internal/tides"
	"github.com/ngmaloney/exuma-cuts/internal/transit"
)

// DefaultPath is read when neither -config nor EXUMA_CONFIG is given
const DefaultPath = "configs/exuma-cuts.yaml"

// Config holds all application configuration
type Config struct {
	Timezone string `yaml:"timezone"`
	CutsFile string `yaml:"cuts_file"`

	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`

	Log struct {
		Level string `yaml:"level"`
		JSON  bool   `yaml:"json"`
		File  string `yaml:"file"`
	} `yaml:"log"`

	Tides struct {
		BaseURL   string `yaml:"base_url"`
		StationID string `yaml:"station_id"`
	} `yaml:"tides"`

	Forecast struct {
		ForecastURL string  `yaml:"forecast_url"`
		MarineURL   string  `yaml:"marine_url"`
		Lat         float64 `yaml:"lat"`
		Lon         float64 `yaml:"lon"`
	} `yaml:"forecast"`

	Cache refresh.MaxAges `yaml:"cache"`

	Schedule struct {
		TickCron    string `yaml:"tick_cron"`
		RefreshCron string `yaml:"refresh_cron"`
	} `yaml:"schedule"`

	Metrics struct {
		Addr string `yaml:"addr"`
	} `yaml:"metrics"`

	Safety   safety.Thresholds `yaml:"safety"`
	Daylight tides.Daylight    `yaml:"daylight"`
}

// Default returns the configuration used when no file is present
func Default() *Config {
	cfg := &Config{
		Timezone: "America/Nassau",
		Cache:    refresh.DefaultMaxAges(),
		Safety:   safety.DefaultThresholds(),
		Daylight: tides.DefaultDaylight,
	}
	cfg.Database.SQLitePath = database.DBPath()
	cfg.Log.Level = "info"
	cfg.Tides.BaseURL = noaa.DefaultBaseURL
	cfg.Tides.StationID = noaa.NassauStationID
	cfg.Forecast.ForecastURL = openmeteo.DefaultForecastURL
	cfg.Forecast.MarineURL = openmeteo.DefaultMarineURL
	cfg.Forecast.Lat = openmeteo.DefaultLat
	cfg.Forecast.Lon = openmeteo.DefaultLon
	cfg.Schedule.TickCron = "@every 1m"
	cfg.Schedule.RefreshCron = "0 */30 * * * *"
	return cfg
}

// Load reads config from a YAML file over the defaults, then applies environment
// variable overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if v := os.Getenv("EXUMA_CONFIG"); v != "" && path == "" {
		path = v
	}
	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("EXUMA_DB_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("EXUMA_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("EXUMA_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
	if v := os.Getenv("EXUMA_CUTS_FILE"); v != "" {
		cfg.CutsFile = v
	}
	if v := os.Getenv("EXUMA_TIMEZONE"); v != "" {
		cfg.Timezone = v
	}
	if v := os.Getenv("EXUMA_METRICS_ADDR"); v != "" {
		cfg.Metrics.Addr = v
	}

	return cfg, nil
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.Database.SQLitePath == "" {
		return fmt.Errorf("database.sqlite_path is required")
	}
	if c.Tides.StationID == "" {
		return fmt.Errorf("tides.station_id is required")
	}
	if c.Forecast.Lat < -90 || c.Forecast.Lat > 90 || c.Forecast.Lon < -180 || c.Forecast.Lon > 180 {
		return fmt.Errorf("forecast: lat/lon out of range")
	}
	for name, d := range map[string]time.Duration{
		"cache.tides":  c.Cache.Tides,
		"cache.wind":   c.Cache.Wind,
		"cache.marine": c.Cache.Marine,
	} {
		if d <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}
	if _, err := scheduler.Parser.Parse(c.Schedule.TickCron); err != nil {
		return fmt.Errorf("schedule.tick_cron: %w", err)
	}
	if _, err := scheduler.Parser.Parse(c.Schedule.RefreshCron); err != nil {
		return fmt.Errorf("schedule.refresh_cron: %w", err)
	}
	if err := c.ScoringConfig().Validate(); err != nil {
		return fmt.Errorf("scoring: %w", err)
	}
	if _, err := c.Cuts(); err != nil {
		return err
	}
	return nil
}

// Location resolves the configured IANA time zone
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Cuts loads the configured cut table
func (c *Config) Cuts() ([]models.CutDefinition, error) {
	return cuts.LoadFile(c.CutsFile)
}

// ScoringConfig is the default transit model with the configured thresholds and daylight
func (c *Config) ScoringConfig() transit.Config {
	sc := transit.DefaultConfig()
	sc.Thresholds = c.Safety
	sc.Daylight = c.Daylight
	return sc
}
