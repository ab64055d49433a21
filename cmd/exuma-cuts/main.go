package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ngmaloney/exuma-cuts/internal/cache"
	"github.com/ngmaloney/exuma-cuts/internal/config"
	"github.com/ngmaloney/exuma-cuts/internal/cuts"
	"github.com/ngmaloney/exuma-cuts/internal/logging"
	"github.com/ngmaloney/exuma-cuts/internal/metrics"
	"github.com/ngmaloney/exuma-cuts/internal/models"
	"github.com/ngmaloney/exuma-cuts/internal/noaa"
	"github.com/ngmaloney/exuma-cuts/internal/openmeteo"
	"github.com/ngmaloney/exuma-cuts/internal/refresh"
	"github.com/ngmaloney/exuma-cuts/internal/report"
	"github.com/ngmaloney/exuma-cuts/internal/scheduler"
	"github.com/ngmaloney/exuma-cuts/internal/ui"
)

func main() {
	configPath := flag.String("config", "", "Path to the YAML config (default $EXUMA_CONFIG or "+config.DefaultPath+")")
	watch := flag.Bool("watch", false, "Run headless, logging safety changes on a schedule")
	printReport := flag.Bool("report", false, "Print the current status of every cut and exit")
	cutID := flag.String("cut", "", "With --report, print the transit planner for this cut id")
	metricsAddr := flag.String("metrics-addr", "", "Serve Prometheus metrics on this address in --watch mode (e.g. :9108)")
	offline := flag.Bool("offline", false, "Use cached data only")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Printf("Error: invalid config: %v\n", err)
		os.Exit(1)
	}
	if *metricsAddr != "" {
		cfg.Metrics.Addr = *metricsAddr
	}

	if err := run(cfg, *watch, *printReport, *cutID, !*offline); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, watch, printReport bool, cutID string, online bool) error {
	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	all, err := cfg.Cuts()
	if err != nil {
		return err
	}
	if cutID != "" {
		if _, ok := cuts.Find(all, cutID); !ok {
			return fmt.Errorf("unknown cut %q", cutID)
		}
	}

	logger, closeLog, err := newLogger(cfg, watch || printReport)
	if err != nil {
		return err
	}
	defer closeLog.Close()

	store, err := cache.OpenSQLite(cfg.Database.SQLitePath)
	if err != nil {
		logger.Warn("cache unavailable, continuing without it", slog.Any("error", err))
	}
	var provider cache.Provider = cache.NoopProvider{}
	if store != nil {
		provider = store
		defer store.Close()
	}

	manager := refresh.NewManager(newFetchers(cfg, loc), cfg.Cache, provider, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch {
	case printReport:
		return runReport(ctx, os.Stdout, cfg, manager, provider, all, loc, cutID, online, logger)
	case watch:
		return runWatch(ctx, cfg, manager, all, loc, logger, online)
	}

	p := tea.NewProgram(ui.NewModel(ctx, ui.Options{
		Manager:  manager,
		Cuts:     all,
		Scoring:  cfg.ScoringConfig(),
		Location: loc,
		Logger:   logger,
		Online:   online,
	}), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("running application: %w", err)
	}
	return nil
}

// newLogger logs to stderr in headless modes. The TUI owns the terminal, so it only
// logs when a log file is configured.
func newLogger(cfg *config.Config, headless bool) (*slog.Logger, io.Closer, error) {
	if cfg.Log.File != "" {
		return logging.OpenFile(cfg.Log.File, cfg.Log.Level)
	}
	if headless {
		return logging.New(os.Stderr, cfg.Log.Level, cfg.Log.JSON), io.NopCloser(nil), nil
	}
	return logging.Discard(), io.NopCloser(nil), nil
}

// newFetchers binds the upstream clients to the refresh manager
func newFetchers(cfg *config.Config, loc *time.Location) refresh.Fetchers {
	tideClient := noaa.NewTideClient(loc).WithBaseURL(cfg.Tides.BaseURL).WithStation(cfg.Tides.StationID)
	forecast := openmeteo.NewClient(cfg.Forecast.Lat, cfg.Forecast.Lon, loc).
		WithBaseURLs(cfg.Forecast.ForecastURL, cfg.Forecast.MarineURL)

	return refresh.Fetchers{
		Tides: func(ctx context.Context, now time.Time) ([]models.TideEvent, error) {
			return tideClient.FetchReferenceTides(ctx, now)
		},
		Wind: func(ctx context.Context, _ time.Time) ([]models.WindSample, error) {
			return forecast.FetchWind(ctx)
		},
		Marine: func(ctx context.Context, _ time.Time) ([]models.MarineHourly, error) {
			return forecast.FetchMarine(ctx)
		},
	}
}

func runReport(ctx context.Context, w io.Writer, cfg *config.Config, manager *refresh.Manager, store cache.Provider, all []models.CutDefinition, loc *time.Location, cutID string, online bool, logger *slog.Logger) error {
	now := time.Now().In(loc)
	manager.LoadCached(ctx, now)
	refreshErr := manager.RefreshAll(ctx, now, online)

	r := report.Build(cfg.ScoringConfig(), all, manager.Snapshot(), now)
	if !r.HasTides() {
		if refreshErr != nil {
			return fmt.Errorf("no tide data available: %w", refreshErr)
		}
		return errors.New("no tide data available")
	}

	if cutID != "" {
		plan, ok := r.Plan(cutID)
		if !ok {
			return fmt.Errorf("no transit plan for cut %q", cutID)
		}
		return report.WritePlan(w, plan, loc)
	}
	if h, ok := store.(report.FetchHistory); ok {
		if err := r.AddHistory(ctx, h); err != nil {
			logger.Warn("reading fetch history failed", slog.Any("error", err))
		}
	}
	return report.Write(w, r)
}

func runWatch(ctx context.Context, cfg *config.Config, manager *refresh.Manager, all []models.CutDefinition, loc *time.Location, logger *slog.Logger, online bool) error {
	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	var metricsServer *http.Server
	if cfg.Metrics.Addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsServer = &http.Server{
			Addr:         cfg.Metrics.Addr,
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 15 * time.Second,
		}
		go func() {
			logger.Info("metrics server listening", slog.String("address", cfg.Metrics.Addr))
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server exited", slog.Any("error", err))
			}
		}()
	}

	sched := scheduler.NewScheduler(ctx, manager, all, cfg.ScoringConfig(), loc, logger)
	sched.SetOnline(online)
	if err := sched.RegisterAll(cfg.Schedule.TickCron, cfg.Schedule.RefreshCron); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("metrics server shutdown", slog.Any("error", err))
		}
	}
	return nil
}
