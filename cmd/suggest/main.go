// Command suggest prints a place to visit for the given part of day,
// informed by the precipitation nowcast.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/couchcryptid/rain-nowcast/internal/adapter/jma"
	"github.com/couchcryptid/rain-nowcast/internal/config"
	"github.com/couchcryptid/rain-nowcast/internal/domain"
	"github.com/couchcryptid/rain-nowcast/internal/forecast"
	"github.com/couchcryptid/rain-nowcast/internal/observability"
	"github.com/couchcryptid/rain-nowcast/internal/place"
)

func main() {
	part := flag.String("part", "morning", "part of day: morning or afternoon")
	placeFile := flag.String("place-file", "", "place catalog TOML file (default from PLACE_FILE)")
	recentFile := flag.String("recent-file", "", "recent suggestions file (default from RECENT_FILE)")
	food := flag.String("food", "", "food wish: true or false (empty for don't care)")
	parking := flag.String("parking", "", "parking wish: true or false (empty for don't care)")
	noWeather := flag.Bool("no-weather", false, "suggest without consulting the forecast")
	flag.Parse()

	if err := run(*part, *placeFile, *recentFile, *food, *parking, *noWeather); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(partArg, placeFile, recentFile, foodArg, parkingArg string, noWeather bool) error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if placeFile != "" {
		cfg.PlaceFile = placeFile
	}
	if recentFile != "" {
		cfg.RecentFile = recentFile
	}

	part, err := domain.ParsePartOfDay(partArg)
	if err != nil {
		return err
	}
	food, err := parseWish(foodArg)
	if err != nil {
		return fmt.Errorf("-food: %w", err)
	}
	parking, err := parseWish(parkingArg)
	if err != nil {
		return fmt.Errorf("-parking: %w", err)
	}

	local, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	metrics := observability.NewMetrics()

	catalog, err := place.LoadCatalog(cfg.PlaceFile)
	if err != nil {
		return err
	}
	recent, err := place.LoadRecent(cfg.RecentFile)
	if err != nil {
		return err
	}

	cache := jma.NewTileCache(cfg.CacheSize)
	catalogClient := jma.NewCatalogClient(cfg.CatalogURL, cfg.FetchTimeout, metrics, logger)
	tiles := jma.NewTileClient(cfg.TileBaseURL, cfg.FetchTimeout, cache, metrics, logger)
	service := forecast.NewService(catalogClient, tiles, nil, cfg.TileZoom, local, metrics, logger)
	suggester := forecast.NewSuggester(service, catalog, recent, cfg.Latitude, cfg.Longitude, cfg.RainThreshold, logger)

	suggestion, err := suggester.Suggest(context.Background(), forecast.SuggestRequest{
		Part:        part,
		Food:        food,
		Parking:     parking,
		SkipWeather: noWeather,
	})
	if err != nil {
		return err
	}

	fmt.Println("Place:", suggestion.Place)
	if suggestion.Peak != nil {
		fmt.Printf("Peak precipitation: %.1f mm/h\n", *suggestion.Peak)
	}
	if suggestion.Walkable != nil {
		if *suggestion.Walkable {
			fmt.Println("Walking: looks fine")
		} else {
			fmt.Println("Walking: better not")
		}
	}
	return nil
}

func parseWish(v string) (*bool, error) {
	switch v {
	case "":
		return nil, nil
	case "true":
		b := true
		return &b, nil
	case "false":
		b := false
		return &b, nil
	default:
		return nil, fmt.Errorf("must be true or false, got %q", v)
	}
}
