package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/rain-nowcast/internal/domain"
	"github.com/couchcryptid/rain-nowcast/internal/forecast"
)

// Forecaster aggregates precipitation for a part-of-day window.
type Forecaster interface {
	Aggregate(ctx context.Context, part domain.PartOfDay, lat, lon float64) (domain.WindowResult, error)
	CheckReadiness() bool
}

// PlaceSuggester proposes a place to visit. nil disables the suggest endpoint.
type PlaceSuggester interface {
	Suggest(ctx context.Context, req forecast.SuggestRequest) (forecast.Suggestion, error)
}

// Server exposes the forecast API plus health, readiness, and metrics routes.
type Server struct {
	httpServer *http.Server
	forecaster Forecaster
	suggester  PlaceSuggester
	lat        float64
	lon        float64
	logger     *slog.Logger
}

// NewServer creates the HTTP server. suggester may be nil when no place
// catalog is configured.
func NewServer(addr string, forecaster Forecaster, suggester PlaceSuggester, lat, lon float64, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 90 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		forecaster: forecaster,
		suggester:  suggester,
		lat:        lat,
		lon:        lon,
		logger:     logger,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /api/v1/forecast", s.handleForecast)
	mux.HandleFunc("GET /api/v1/suggest", s.handleSuggest)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	if !s.forecaster.CheckReadiness() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	part, err := domain.ParsePartOfDay(r.URL.Query().Get("part"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	result, err := s.forecaster.Aggregate(r.Context(), part, s.lat, s.lon)
	switch {
	case errors.Is(err, domain.ErrWindowElapsed):
		writeError(w, http.StatusGone, err)
	case errors.Is(err, forecast.ErrNoData):
		// Every slice failed but the window itself resolved; report the
		// empty aggregate rather than an error.
		writeJSON(w, http.StatusOK, result)
	case err != nil:
		s.logger.Error("forecast failed", "part", part, "error", err)
		writeError(w, http.StatusBadGateway, err)
	default:
		writeJSON(w, http.StatusOK, result)
	}
}

func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	if s.suggester == nil {
		writeError(w, http.StatusNotFound, errors.New("no place catalog configured"))
		return
	}

	part, err := domain.ParsePartOfDay(r.URL.Query().Get("part"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	food, err := parseWish(r.URL.Query().Get("food"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	parking, err := parseWish(r.URL.Query().Get("parking"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	req := forecast.SuggestRequest{
		Part:        part,
		Food:        food,
		Parking:     parking,
		SkipWeather: r.URL.Query().Get("weather") == "false",
	}

	suggestion, err := s.suggester.Suggest(r.Context(), req)
	switch {
	case errors.Is(err, domain.ErrWindowElapsed):
		writeError(w, http.StatusGone, err)
	case errors.Is(err, forecast.ErrNoPlace):
		writeError(w, http.StatusNotFound, err)
	case err != nil:
		s.logger.Error("suggest failed", "part", part, "error", err)
		writeError(w, http.StatusBadGateway, err)
	default:
		writeJSON(w, http.StatusOK, suggestion)
	}
}

// parseWish maps an optional "true"/"false" query value onto a tri-state wish.
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
		return nil, errors.New("wish must be true or false")
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
