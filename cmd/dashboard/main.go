package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/wildfire-dashboard-service/internal/adapter/choropleth"
	"github.com/couchcryptid/wildfire-dashboard-service/internal/adapter/httpadapter"
	kafkaadapter "github.com/couchcryptid/wildfire-dashboard-service/internal/adapter/kafka"
	"github.com/couchcryptid/wildfire-dashboard-service/internal/aggregate"
	"github.com/couchcryptid/wildfire-dashboard-service/internal/config"
	"github.com/couchcryptid/wildfire-dashboard-service/internal/dashboard"
	"github.com/couchcryptid/wildfire-dashboard-service/internal/dataset"
	"github.com/couchcryptid/wildfire-dashboard-service/internal/domain"
	"github.com/couchcryptid/wildfire-dashboard-service/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ds, _, err := dataset.Load(ctx, cfg.DataPath, dataset.Options{Table: cfg.DataTable, Logger: logger})
	if err != nil {
		logger.Error("failed to load dataset", "path", cfg.DataPath, "error", err)
		os.Exit(1)
	}

	mode, err := domain.ParseMergeMode(cfg.MapSelectionMode)
	if err != nil {
		logger.Error("invalid map selection mode", "error", err)
		os.Exit(1)
	}

	var computer aggregate.Computer = aggregate.NewDispatcher(cfg.TopNCounties)
	if cfg.ResultCacheSize > 0 {
		computer = aggregate.NewCached(computer, cfg.ResultCacheSize, metrics)
	}

	opts := dashboard.Options{
		Dataset:          ds,
		Reconciler:       domain.NewReconciler(ds, mode),
		Computer:         computer,
		LiveMapSelection: cfg.MapSelectionLive,
		PublishTimeout:   cfg.PublishTimeout,
		Logger:           logger,
		Metrics:          metrics,
	}

	// Map rendering is enabled when BOUNDARIES_PATH is set.
	if cfg.BoundariesPath != "" {
		boundaries, err := choropleth.LoadBoundaries(cfg.BoundariesPath, cfg.BoundariesNameProperty)
		if err != nil {
			logger.Error("failed to load county boundaries", "path", cfg.BoundariesPath, "error", err)
			os.Exit(1)
		}
		opts.Renderer = choropleth.NewRenderer(boundaries)
		logger.Info("choropleth map enabled", "counties", boundaries.Len())
	} else {
		logger.Info("choropleth map disabled")
	}

	// Snapshot publishing is feature-flagged via KAFKA_ENABLED / KAFKA_BROKERS.
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		opts.Publisher = writer
		metrics.PublishEnabled.Set(1)
		logger.Info("snapshot publishing enabled", "topic", cfg.KafkaSnapshotTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("snapshot publishing disabled")
	}

	manager := dashboard.NewManager(opts, cfg.MaxSessions)
	srv := httpadapter.NewServer(cfg.HTTPAddr, manager, manager, cfg.CORSAllowedOrigins, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
