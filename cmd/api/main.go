package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/KarthicSuRa/mcm-alerts/internal/api"
	"github.com/KarthicSuRa/mcm-alerts/internal/api/handlers"
	"github.com/KarthicSuRa/mcm-alerts/internal/config"
	"github.com/KarthicSuRa/mcm-alerts/internal/db"
	"github.com/KarthicSuRa/mcm-alerts/internal/metrics"
	"github.com/KarthicSuRa/mcm-alerts/internal/monitor"
	"github.com/KarthicSuRa/mcm-alerts/internal/notify"
	"github.com/KarthicSuRa/mcm-alerts/internal/probe"
	"github.com/KarthicSuRa/mcm-alerts/internal/transform"
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

	handler := handlers.NewHandler(repo, transform.NewRegistry(), notifier, runner, collector, logger)
	server := api.NewServer(cfg, handler, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go collector.StartRemoteWrite(ctx)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: server.Router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	logger.Info("API server started", zap.String("port", cfg.Server.Port))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
