package forecast

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/rain-nowcast/internal/domain"
	"github.com/couchcryptid/rain-nowcast/internal/observability"
)

// ErrNoData reports that every slice of a window failed, leaving no
// precipitation value to aggregate. The accompanying WindowResult still
// carries the per-slice times and (empty) thumbnails.
var ErrNoData = errors.New("no precipitation data")

// CatalogSource lists the available nowcast time slices.
type CatalogSource interface {
	Fetch(ctx context.Context) ([]domain.TimeSlice, error)
}

// TileResolver produces the observation for one slice of one tile.
type TileResolver interface {
	Resolve(ctx context.Context, addr domain.TileAddress, slice domain.TimeSlice) domain.TileObservation
}

// Publisher emits completed aggregations to an external sink.
type Publisher interface {
	Publish(ctx context.Context, obs domain.Observation) error
}

// Service aggregates precipitation over a part-of-day window for a location.
type Service struct {
	catalog   CatalogSource
	tiles     TileResolver
	publisher Publisher // nil when publishing is disabled
	logger    *slog.Logger
	metrics   *observability.Metrics

	zoom  int
	local *time.Location
	ready atomic.Bool
}

// NewService creates the aggregation service. publisher may be nil.
func NewService(catalog CatalogSource, tiles TileResolver, publisher Publisher, zoom int, local *time.Location, metrics *observability.Metrics, logger *slog.Logger) *Service {
	return &Service{
		catalog:   catalog,
		tiles:     tiles,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
		zoom:      zoom,
		local:     local,
	}
}

// CheckReadiness reports whether the service has reached the upstream
// catalog at least once.
func (s *Service) CheckReadiness() bool {
	return s.ready.Load()
}

// Aggregate resolves the window for part, fetches every tile slice inside
// it, and folds the observations into a WindowResult. Individual slice
// failures are recoverable: the peak is taken over the successes and only a
// window with zero successes returns ErrNoData. The window itself failing to
// resolve, or the catalog being unreachable, fails the whole call.
func (s *Service) Aggregate(ctx context.Context, part domain.PartOfDay, lat, lon float64) (domain.WindowResult, error) {
	window, err := part.Resolve(s.local)
	if err != nil {
		return domain.WindowResult{}, err
	}

	start := time.Now()

	catalog, err := s.catalog.Fetch(ctx)
	if err != nil {
		return domain.WindowResult{}, fmt.Errorf("fetch catalog: %w", err)
	}
	s.ready.Store(true)

	addr := domain.TileFromLatLon(s.zoom, lat, lon)
	slices := domain.WindowSlices(catalog, window.Begin.UTC(), window.End.UTC())

	var result domain.WindowResult
	for _, slice := range slices {
		obs := s.tiles.Resolve(ctx, addr, slice)

		vt, err := slice.ValidTime()
		if err != nil {
			// WindowSlices only emits parseable validtimes.
			continue
		}
		result.Times = append(result.Times, vt.In(s.local).Format("15:04"))
		result.Thumbnails = append(result.Thumbnails, obs.Thumbnail)

		if obs.Precipitation != nil {
			if result.Peak == nil || *obs.Precipitation > *result.Peak {
				p := *obs.Precipitation
				result.Peak = &p
			}
		}
	}

	s.metrics.AggregationDuration.Observe(time.Since(start).Seconds())
	s.metrics.WindowsAggregated.Inc()

	if result.Peak == nil {
		return result, ErrNoData
	}

	s.logger.Info("window aggregated",
		"part", part, "tile", addr.Path(), "slices", len(slices), "peak", *result.Peak)
	s.publish(ctx, part, lat, lon, addr, result, len(slices))

	return result, nil
}

// publish emits the aggregation to the sink when a publisher is configured.
// Publish failures are logged, never surfaced; the forecast is already in hand.
func (s *Service) publish(ctx context.Context, part domain.PartOfDay, lat, lon float64, addr domain.TileAddress, result domain.WindowResult, slices int) {
	if s.publisher == nil {
		return
	}

	obs := domain.Observation{
		Part:         string(part),
		Latitude:     lat,
		Longitude:    lon,
		Tile:         addr.Path(),
		Peak:         result.Peak,
		Slices:       slices,
		AggregatedAt: time.Now().UTC(),
	}
	if err := s.publisher.Publish(ctx, obs); err != nil {
		s.metrics.PublishErrors.Inc()
		s.logger.Error("observation publish failed", "error", err)
		return
	}
	s.metrics.ObservationsPublished.Inc()
}
