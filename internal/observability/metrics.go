package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the nowcast engine.
type Metrics struct {
	CatalogRequests *prometheus.CounterVec // labels: outcome={success,error}

	// Tile pipeline metrics.
	TileFetches *prometheus.CounterVec // labels: outcome={success,http_error,decode_error,classify_error}
	TileCache   *prometheus.CounterVec // labels: result={hit,miss,stale}

	// Aggregation metrics.
	AggregationDuration prometheus.Histogram
	WindowsAggregated   prometheus.Counter

	// Observation publishing metrics.
	ObservationsPublished prometheus.Counter
	PublishErrors         prometheus.Counter
	PublisherEnabled      prometheus.Gauge
}

// NewMetrics creates and registers all engine metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		CatalogRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rain_nowcast",
			Name:      "catalog_requests_total",
			Help:      "Catalog fetches by outcome.",
		}, []string{"outcome"}),
		TileFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rain_nowcast",
			Name:      "tile_fetches_total",
			Help:      "Tile fetch attempts by outcome.",
		}, []string{"outcome"}),
		TileCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rain_nowcast",
			Name:      "tile_cache_total",
			Help:      "Tile cache lookups by result.",
		}, []string{"result"}),
		AggregationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "rain_nowcast",
			Name:      "aggregation_duration_seconds",
			Help:      "Duration of a complete window aggregation.",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		WindowsAggregated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rain_nowcast",
			Name:      "windows_aggregated_total",
			Help:      "Total completed window aggregations.",
		}),
		ObservationsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rain_nowcast",
			Name:      "observations_published_total",
			Help:      "Total observations written to the sink topic.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rain_nowcast",
			Name:      "publish_errors_total",
			Help:      "Total observation publish failures.",
		}),
		PublisherEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "rain_nowcast",
			Name:      "publisher_enabled",
			Help:      "1 when the observation publisher is enabled, 0 otherwise.",
		}),
	}

	prometheus.MustRegister(
		m.CatalogRequests,
		m.TileFetches,
		m.TileCache,
		m.AggregationDuration,
		m.WindowsAggregated,
		m.ObservationsPublished,
		m.PublishErrors,
		m.PublisherEnabled,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		CatalogRequests:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "rain_nowcast", Name: "catalog_requests_total"}, []string{"outcome"}),
		TileFetches:           prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "rain_nowcast", Name: "tile_fetches_total"}, []string{"outcome"}),
		TileCache:             prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "rain_nowcast", Name: "tile_cache_total"}, []string{"result"}),
		AggregationDuration:   prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "rain_nowcast", Name: "aggregation_duration_seconds"}),
		WindowsAggregated:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "rain_nowcast", Name: "windows_aggregated_total"}),
		ObservationsPublished: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "rain_nowcast", Name: "observations_published_total"}),
		PublishErrors:         prometheus.NewCounter(prometheus.CounterOpts{Namespace: "rain_nowcast", Name: "publish_errors_total"}),
		PublisherEnabled:      prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "rain_nowcast", Name: "publisher_enabled"}),
	}
}
