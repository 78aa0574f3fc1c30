// Command antarctica runs the Antarctic ecosystem simulation and serves it
// over HTTP.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/loolos/Antarctica/internal/api"
	"github.com/loolos/Antarctica/internal/config"
	"github.com/loolos/Antarctica/internal/engine"
	"github.com/loolos/Antarctica/internal/entropy"
	"github.com/loolos/Antarctica/internal/persistence"
	"github.com/loolos/Antarctica/internal/telemetry"
)

func main() {
	var (
		configPath   = flag.String("config", "", "YAML config file overriding defaults")
		seed         = flag.Int64("seed", 0, "RNG seed (0 = random)")
		port         = flag.Int("port", 0, "HTTP port (overrides config)")
		dbPath       = flag.String("db", "data/antarctica.db", "SQLite journal path (empty = disabled)")
		telemetryDir = flag.String("telemetry", "", "CSV telemetry directory (overrides config)")
		autostart    = flag.Bool("autostart", true, "start ticking immediately")
	)
	flag.Parse()

	// Human-readable logs on a terminal, JSON when piped or in a container.
	var handler slog.Handler
	if isatty.IsTerminal(os.Stdout.Fd()) {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	slog.SetDefault(slog.New(handler))

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.API.Port = *port
	}
	if *telemetryDir != "" {
		cfg.Telemetry.Dir = *telemetryDir
	}

	// ── Observation journal ───────────────────────────────────────────
	var db *persistence.DB
	if *dbPath != "" {
		os.MkdirAll(filepath.Dir(*dbPath), 0755)
		db, err = persistence.Open(*dbPath)
		if err != nil {
			slog.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		slog.Info("database opened", "path", *dbPath)
	}

	// ── Telemetry ─────────────────────────────────────────────────────
	output, err := telemetry.NewOutputManager(cfg.Telemetry.Dir)
	if err != nil {
		slog.Error("failed to open telemetry output", "error", err)
		os.Exit(1)
	}
	defer output.Close()

	// ── World ─────────────────────────────────────────────────────────
	src := entropy.NewSource(*seed)
	eng := engine.New(cfg, src)
	if db != nil {
		db.SaveMeta("seed", fmt.Sprintf("%d", src.Seed()))
	}

	driver := engine.NewDriver(eng, cfg.Driver.TicksPerSecond)
	driver.ReportInterval = cfg.Telemetry.Interval
	driver.OnReport = func(stats engine.SimStats, events []engine.Event) {
		slog.Info("report",
			"tick", stats.Tick,
			"penguins", stats.Penguins,
			"seals", stats.Seals,
			"fish", stats.Fish,
			"mean_energy", fmt.Sprintf("%.1f", stats.MeanEnergy),
			"season", stats.Season,
		)
		if db != nil {
			if err := db.SaveStats(stats); err != nil {
				slog.Error("stats journal failed", "error", err)
			}
			if err := db.SaveEvents(events); err != nil {
				slog.Error("event journal failed", "error", err)
			}
		}
		if err := output.Write(telemetry.RecordFromStats(stats)); err != nil {
			slog.Error("telemetry write failed", "error", err)
		}
	}

	// ── HTTP API ──────────────────────────────────────────────────────
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	apiServer := &api.Server{
		Driver:        driver,
		DB:            db,
		Port:          cfg.API.Port,
		StepRateLimit: cfg.API.StepRateLimit,
	}
	apiServer.Start(ctx)

	// ── Run ───────────────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("received signal, shutting down", "signal", sig)
		cancel()
	}()

	if *autostart {
		driver.Start()
	}
	fmt.Printf("Antarctica is alive: API on http://localhost:%d/state (Ctrl+C to stop)\n", cfg.API.Port)

	driver.Run(ctx)

	stats := eng.Stats()
	if db != nil {
		db.SaveStats(stats)
		db.SaveEvents(eng.DrainEvents())
		db.SaveMeta("last_tick", fmt.Sprintf("%d", stats.Tick))
	}
	fmt.Printf("Simulation stopped after %s ticks: %s births, %s deaths.\n",
		humanize.Comma(int64(stats.Tick)),
		humanize.Comma(int64(stats.Births)),
		humanize.Comma(int64(stats.Deaths)),
	)
}
