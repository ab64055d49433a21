package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ngmaloney/exuma-cuts/internal/noaa"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "exuma-cuts.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Timezone != "America/Nassau" {
		t.Errorf("Timezone = %q", cfg.Timezone)
	}
	if cfg.Tides.StationID != noaa.NassauStationID {
		t.Errorf("StationID = %q", cfg.Tides.StationID)
	}
	if cfg.Cache.Tides != 6*time.Hour || cfg.Cache.Wind != 3*time.Hour {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Safety.SlackHalfWidth != 30*time.Minute || cfg.Daylight.StartHour != 6.5 {
		t.Errorf("Safety = %+v, Daylight = %+v", cfg.Safety, cfg.Daylight)
	}
}

func TestLoad_FileOverridesKeepOtherDefaults(t *testing.T) {
	path := writeConfig(t, `
timezone: UTC
cache:
  wind: 90m
safety:
  slack_half_width: 45m
  wind_hazardous_knots: 12
daylight:
  end_hour: 19
log:
  level: debug
  json: true
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Timezone != "UTC" || cfg.Log.Level != "debug" || !cfg.Log.JSON {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Cache.Wind != 90*time.Minute || cfg.Cache.Tides != 6*time.Hour {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Safety.SlackHalfWidth != 45*time.Minute || cfg.Safety.WindHazardousKnots != 12 {
		t.Errorf("Safety = %+v", cfg.Safety)
	}
	if cfg.Safety.GustHazardousKnots != 20 {
		t.Errorf("unset threshold lost its default: %+v", cfg.Safety)
	}
	if cfg.Daylight.StartHour != 6.5 || cfg.Daylight.EndHour != 19 {
		t.Errorf("Daylight = %+v", cfg.Daylight)
	}

	sc := cfg.ScoringConfig()
	if sc.Thresholds.SlackHalfWidth != 45*time.Minute || sc.Daylight.EndHour != 19 {
		t.Errorf("ScoringConfig() = %+v", sc)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "database:\n  sqlite_path: from-file.db\n")
	t.Setenv("EXUMA_CONFIG", path)
	t.Setenv("EXUMA_LOG_LEVEL", "warn")
	t.Setenv("EXUMA_TIMEZONE", "UTC")
	t.Setenv("EXUMA_CUTS_FILE", "/tmp/cuts.yaml")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Database.SQLitePath != "from-file.db" {
		t.Errorf("EXUMA_CONFIG not honoured, SQLitePath = %q", cfg.Database.SQLitePath)
	}
	if cfg.Log.Level != "warn" || cfg.Timezone != "UTC" || cfg.CutsFile != "/tmp/cuts.yaml" {
		t.Errorf("cfg = %+v", cfg)
	}

	t.Setenv("EXUMA_DB_PATH", "env.db")
	cfg, _ = Load("")
	if cfg.Database.SQLitePath != "env.db" {
		t.Errorf("SQLitePath = %q, want env.db", cfg.Database.SQLitePath)
	}
}

func TestLoad_BadYAML(t *testing.T) {
	if _, err := Load(writeConfig(t, "cache: [")); err == nil || !strings.Contains(err.Error(), "parse config") {
		t.Errorf("Load() error = %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"defaults", func(*Config) {}, ""},
		{"timezone", func(c *Config) { c.Timezone = "Mars/Olympus" }, "timezone"},
		{"db path", func(c *Config) { c.Database.SQLitePath = "" }, "sqlite_path"},
		{"station", func(c *Config) { c.Tides.StationID = "" }, "station_id"},
		{"lat", func(c *Config) { c.Forecast.Lat = 91 }, "lat/lon"},
		{"cache age", func(c *Config) { c.Cache.Marine = 0 }, "cache.marine"},
		{"tick cron", func(c *Config) { c.Schedule.TickCron = "every minute" }, "tick_cron"},
		{"refresh cron", func(c *Config) { c.Schedule.RefreshCron = "61 * * * *" }, "refresh_cron"},
		{"thresholds", func(c *Config) { c.Safety.SlackHalfWidth = 0 }, "scoring"},
		{"daylight", func(c *Config) { c.Daylight.EndHour = 5 }, "daylight"},
		{"cuts file", func(c *Config) { c.CutsFile = "/does/not/exist.yaml" }, "cuts"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Timezone = "UTC"
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.want == "" {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestCuts_Default(t *testing.T) {
	all, err := Default().Cuts()
	if err != nil || len(all) == 0 {
		t.Errorf("Cuts() = %d, %v", len(all), err)
	}
}
