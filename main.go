package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"slam-scoring-system/config"
	"slam-scoring-system/handlers"
	"slam-scoring-system/services"
	"slam-scoring-system/utils"
	"slam-scoring-system/workers"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(cfg.NewLogger())

	db, err := config.OpenDatabase(cfg.Database)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := config.Migrate(db); err != nil {
		slog.Error("schema migration failed", "error", err)
		os.Exit(1)
	}
	slog.Info("database schema ready", "driver", cfg.Database.Driver)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := services.NewMetrics(registry)

	hub := services.NewHub(64, metrics)
	if cfg.NATS.URL != "" {
		relay, err := workers.StartNATSRelay(cfg.NATS.URL, cfg.NATS.Subject, hub)
		if err != nil {
			slog.Error("live relay unavailable", "error", err)
			os.Exit(1)
		}
		defer relay.Close()
		hub.SetRelay(relay)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps := handlers.Deps{
		Rooms:        services.NewRoomService(db),
		Participants: services.NewParticipantService(db),
		Rounds:       services.NewRoundService(db, hub, metrics),
		Scores:       services.NewScoreService(db, hub, metrics),
		Hub:          hub,
		Gatherer:     registry,
	}
	if cfg.R2.Enabled() {
		archive, err := utils.NewR2Archive(ctx, cfg.R2)
		if err != nil {
			slog.Error("results archive unavailable", "error", err)
			os.Exit(1)
		}
		deps.Archive = archive
	} else {
		slog.Info("R2 not configured, results archive disabled")
	}

	if cfg.AggregationSweepInterval > 0 {
		sched, err := workers.StartAggregationSweep(ctx, deps.Scores, cfg.AggregationSweepInterval)
		if err != nil {
			slog.Error("aggregation sweep unavailable", "error", err)
			os.Exit(1)
		}
		defer sched.Shutdown()
	}

	app := handlers.NewApp(handlers.AppConfig{
		AllowedOrigins: cfg.AllowedOrigins,
		StaticDir:      cfg.StaticDir,
		AccessLog:      true,
	}, deps)

	go func() {
		addr := ":" + strconv.Itoa(cfg.Port)
		slog.Info("listening", "addr", addr)
		if err := app.Listen(addr); err != nil {
			slog.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("shutdown failed", "error", err)
	}
}
