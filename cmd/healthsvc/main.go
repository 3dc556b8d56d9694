package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	httpadapter "github.com/couchcryptid/equipment-health-etl/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/equipment-health-etl/internal/adapter/kafka"
	"github.com/couchcryptid/equipment-health-etl/internal/config"
	"github.com/couchcryptid/equipment-health-etl/internal/domain"
	"github.com/couchcryptid/equipment-health-etl/internal/ingest"
	"github.com/couchcryptid/equipment-health-etl/internal/observability"
	"github.com/couchcryptid/equipment-health-etl/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if cfg.DataFile == "" {
		slog.Error("DATA_FILE is required")
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	engine := pipeline.NewEngine(cfg.Vocabulary, logger, metrics,
		pipeline.WithCacheSize(cfg.CacheSize),
		pipeline.WithRequiredColumns(cfg.RequiredColumns),
	)

	// Replacing the dataset retires the results cached for it.
	loader := ingest.NewLoader(ingest.Options{
		RequiredColumns:  cfg.RequiredColumns,
		HeaderSearchRows: cfg.HeaderSearchRows,
		Logger:           logger,
	}, metrics, ingest.OnReplace(func(prev domain.Dataset) { engine.Retire(prev.Fingerprint) }))
	if _, err := loader.LoadFile(cfg.DataFile); err != nil {
		logger.Error("failed to load dataset", "file", cfg.DataFile, "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Warm the cache with the unfiltered view; this also marks the engine ready.
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		logger.Info("kafka snapshot publishing enabled", "topic", cfg.KafkaSinkTopic)
		if _, err := engine.Publish(ctx, writer, loader.Dataset(), domain.Filter{}); err != nil {
			logger.Error("initial snapshot publish failed", "error", err)
		}
	} else if _, err := engine.Compute(loader.Dataset(), domain.Filter{}); err != nil {
		logger.Error("initial compute failed", "error", err)
		os.Exit(1)
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, engine, loader, engine, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("http server error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
