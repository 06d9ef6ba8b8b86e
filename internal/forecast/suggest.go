package forecast

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/couchcryptid/rain-nowcast/internal/domain"
	"github.com/couchcryptid/rain-nowcast/internal/place"
)

// ErrNoPlace reports that no catalog place survived the mood and recency filters.
var ErrNoPlace = errors.New("no place matches")

// SuggestRequest is one request for a place to visit.
type SuggestRequest struct {
	Part    domain.PartOfDay
	Food    *bool
	Parking *bool

	// SkipWeather leaves the walking wish open instead of consulting the
	// forecast.
	SkipWeather bool
}

// Suggestion is a picked place plus the forecast that informed it.
type Suggestion struct {
	Place      string   `json:"place"`
	Walkable   *bool    `json:"walkable"`
	Peak       *float64 `json:"peak_precipitation"`
	Times      []string `json:"times,omitempty"`
	Thumbnails []string `json:"thumbnails,omitempty"`
}

// Suggester combines the forecast service with the place catalog and the
// recency rotation to propose somewhere to go.
type Suggester struct {
	service   *Service
	catalog   *place.Catalog
	recent    *place.RecentStore
	lat       float64
	lon       float64
	threshold float64
	logger    *slog.Logger
}

// NewSuggester creates a suggester. The catalog's home area, when present,
// overrides the configured location and rain threshold.
func NewSuggester(service *Service, catalog *place.Catalog, recent *place.RecentStore, lat, lon, threshold float64, logger *slog.Logger) *Suggester {
	if catalog.Home != nil {
		lat = catalog.Home.Latitude
		lon = catalog.Home.Longitude
		threshold = catalog.Home.Precipitation
	}
	return &Suggester{
		service:   service,
		catalog:   catalog,
		recent:    recent,
		lat:       lat,
		lon:       lon,
		threshold: threshold,
		logger:    logger,
	}
}

// Suggest aggregates the window, derives the walking wish from the peak
// precipitation, filters the catalog by mood and recency, and picks one of
// the remaining places at random. The pick is recorded and persisted so it
// rotates out of the running for the next few days.
func (s *Suggester) Suggest(ctx context.Context, req SuggestRequest) (Suggestion, error) {
	mood := place.Mood{Food: req.Food, Parking: req.Parking}
	suggestion := Suggestion{}

	if !req.SkipWeather {
		result, err := s.service.Aggregate(ctx, req.Part, s.lat, s.lon)
		switch {
		case errors.Is(err, ErrNoData):
			// Forecast unavailable; leave the walking wish open.
			s.logger.Warn("suggesting without forecast", "part", req.Part)
		case err != nil:
			return Suggestion{}, err
		default:
			walkable := *result.Peak <= s.threshold
			mood.Walking = &walkable
			suggestion.Walkable = &walkable
			suggestion.Peak = result.Peak
		}
		suggestion.Times = result.Times
		suggestion.Thumbnails = result.Thumbnails
	}

	candidates := s.catalog.Pickup(mood)
	fresh := candidates[:0:0]
	for _, p := range candidates {
		if !s.recent.Contains(p.Name, req.Part) {
			fresh = append(fresh, p)
		}
	}
	if len(fresh) == 0 {
		return Suggestion{}, fmt.Errorf("%w for part %s", ErrNoPlace, req.Part)
	}

	picked := fresh[rand.Intn(len(fresh))]
	suggestion.Place = picked.Name

	s.recent.Record(picked.Name, req.Part)
	if err := s.recent.Save(); err != nil {
		s.logger.Error("recent places save failed", "error", err)
	}

	return suggestion, nil
}
