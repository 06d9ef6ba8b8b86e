package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// JMA tile service endpoints and fetch behaviour.
	CatalogURL   string
	TileBaseURL  string
	FetchTimeout time.Duration
	TileZoom     int
	CacheSize    int

	// Forecast target.
	Latitude      float64
	Longitude     float64
	RainThreshold float64
	Timezone      string

	// Place catalog and recency rotation files.
	PlaceFile  string
	RecentFile string

	// Kafka observation publishing configuration.
	KafkaEnabled bool
	KafkaBrokers []string
	KafkaTopic   string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	fetchTimeout, err := parseDuration("FETCH_TIMEOUT", "60s")
	if err != nil {
		return nil, err
	}

	tileZoom, err := parseInt("TILE_ZOOM", 10)
	if err != nil {
		return nil, err
	}

	cacheSize, err := parseInt("TILE_CACHE_SIZE", 12)
	if err != nil {
		return nil, err
	}

	lat, err := parseFloat("LATITUDE", 35.362925)
	if err != nil {
		return nil, err
	}

	lon, err := parseFloat("LONGITUDE", 138.731451)
	if err != nil {
		return nil, err
	}

	threshold, err := parseFloat("RAIN_THRESHOLD", 1.0)
	if err != nil {
		return nil, err
	}

	kafkaEnabled := false
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		CatalogURL:   envOrDefault("CATALOG_URL", "https://www.jma.go.jp/bosai/jmatile/data/rasrf/targetTimes.json"),
		TileBaseURL:  envOrDefault("TILE_BASE_URL", "https://www.jma.go.jp/bosai/jmatile/data/rasrf"),
		FetchTimeout: fetchTimeout,
		TileZoom:     tileZoom,
		CacheSize:    cacheSize,

		Latitude:      lat,
		Longitude:     lon,
		RainThreshold: threshold,
		Timezone:      envOrDefault("TIMEZONE", "Asia/Tokyo"),

		PlaceFile:  envOrDefault("PLACE_FILE", "place.toml"),
		RecentFile: envOrDefault("RECENT_FILE", ".place_recent"),

		KafkaEnabled: kafkaEnabled,
		KafkaBrokers: parseBrokers(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:   envOrDefault("KAFKA_TOPIC", "precipitation-observations"),
	}

	if cfg.CatalogURL == "" {
		return nil, errors.New("CATALOG_URL is required")
	}
	if cfg.TileBaseURL == "" {
		return nil, errors.New("TILE_BASE_URL is required")
	}
	if cfg.TileZoom < 0 || cfg.TileZoom > 18 {
		return nil, fmt.Errorf("TILE_ZOOM %d out of range", cfg.TileZoom)
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return d, nil
}

func parseInt(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func parseFloat(key string, fallback float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func parseBrokers(s string) []string {
	var brokers []string
	for _, b := range strings.Split(s, ",") {
		b = strings.TrimSpace(b)
		if b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
