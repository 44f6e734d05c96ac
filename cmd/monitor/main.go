package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/KarthicSuRa/mcm-alerts/internal/config"
	"github.com/KarthicSuRa/mcm-alerts/internal/db"
	"github.com/KarthicSuRa/mcm-alerts/internal/metrics"
	"github.com/KarthicSuRa/mcm-alerts/internal/monitor"
	"github.com/KarthicSuRa/mcm-alerts/internal/notify"
	"github.com/KarthicSuRa/mcm-alerts/internal/probe"
	"github.com/KarthicSuRa/mcm-alerts/pkg/onesignal"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to create logger:", err)
	}
	defer logger.Sync()

	if err := db.Migrate(cfg.Database.URL, cfg.Database.MigrationsPath); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	conn, err := db.NewConnection(cfg.Database.URL, cfg.Database.MaxConnections, cfg.Database.MaxIdleConns)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer conn.Close()

	repo := db.NewRepository(conn)
	collector := metrics.NewCollector(cfg.Metrics)

	push := onesignal.NewClient(cfg.Push.AppID, cfg.Push.APIKey, cfg.Push.BaseURL)
	notifier := notify.NewNotifier(repo, push, collector, logger)

	prober := probe.NewProber(cfg.Monitor.ProbeTimeout, cfg.Monitor.UserAgent)
	runner := monitor.NewRunner(repo, prober, notifier, collector, logger, cfg.Monitor.BatchSize)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go collector.StartRemoteWrite(ctx)

	// First cycle immediately, then on the configured interval.
	runCycle(ctx, runner, logger)

	ticker := time.NewTicker(cfg.Monitor.Interval)
	defer ticker.Stop()

	logger.Info("Monitor started", zap.Duration("interval", cfg.Monitor.Interval))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-quit:
			logger.Info("Shutting down monitor...")
			cancel()
			return
		case <-ticker.C:
			runCycle(ctx, runner, logger)
		}
	}
}

func runCycle(ctx context.Context, runner *monitor.Runner, logger *zap.Logger) {
	summary, err := runner.Run(ctx)
	if err != nil {
		logger.Error("Probe cycle failed", zap.Error(err))
		return
	}
	logger.Info("Probe cycle finished",
		zap.Int("sites_checked", summary.SitesChecked),
		zap.Int("sites_down", summary.SitesDown),
	)
}
