package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	httpadapter "github.com/couchcryptid/rain-nowcast/internal/adapter/http"
	"github.com/couchcryptid/rain-nowcast/internal/adapter/jma"
	kafkaadapter "github.com/couchcryptid/rain-nowcast/internal/adapter/kafka"
	"github.com/couchcryptid/rain-nowcast/internal/config"
	"github.com/couchcryptid/rain-nowcast/internal/forecast"
	"github.com/couchcryptid/rain-nowcast/internal/observability"
	"github.com/couchcryptid/rain-nowcast/internal/place"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	local, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Error("invalid timezone", "timezone", cfg.Timezone, "error", err)
		os.Exit(1)
	}

	cache := jma.NewTileCache(cfg.CacheSize)
	catalog := jma.NewCatalogClient(cfg.CatalogURL, cfg.FetchTimeout, metrics, logger)
	tiles := jma.NewTileClient(cfg.TileBaseURL, cfg.FetchTimeout, cache, metrics, logger)

	// Observation publishing is feature-flagged via KAFKA_ENABLED.
	var publisher forecast.Publisher
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publisher = writer
		metrics.PublisherEnabled.Set(1)
		logger.Info("observation publishing enabled", "topic", cfg.KafkaTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("observation publishing disabled")
	}

	service := forecast.NewService(catalog, tiles, publisher, cfg.TileZoom, local, metrics, logger)

	// The suggest endpoint only comes up when a place catalog exists.
	var suggester httpadapter.PlaceSuggester
	if placeCatalog, err := place.LoadCatalog(cfg.PlaceFile); err != nil {
		logger.Warn("place catalog unavailable, suggestions disabled", "file", cfg.PlaceFile, "error", err)
	} else {
		recent, err := place.LoadRecent(cfg.RecentFile)
		if err != nil {
			logger.Error("failed to load recent places", "file", cfg.RecentFile, "error", err)
			os.Exit(1)
		}
		suggester = forecast.NewSuggester(service, placeCatalog, recent, cfg.Latitude, cfg.Longitude, cfg.RainThreshold, logger)
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, service, suggester, cfg.Latitude, cfg.Longitude, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
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
