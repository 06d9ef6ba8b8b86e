package jma

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/rain-nowcast/internal/domain"
	"github.com/couchcryptid/rain-nowcast/internal/observability"
)

// CatalogClient fetches the nowcast time slice catalog (targetTimes.json).
type CatalogClient struct {
	url        string
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewCatalogClient creates a catalog client. The timeout bounds the whole
// request including body read.
func NewCatalogClient(url string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *CatalogClient {
	return &CatalogClient{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		metrics: metrics,
		logger:  logger,
	}
}

// Fetch retrieves and parses the catalog, preserving upstream order.
func (c *CatalogClient) Fetch(ctx context.Context) ([]domain.TimeSlice, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create catalog request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.CatalogRequests.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("catalog request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.metrics.CatalogRequests.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("catalog API error: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.CatalogRequests.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("read catalog body: %w", err)
	}

	catalog, err := domain.ParseCatalog(body)
	if err != nil {
		c.metrics.CatalogRequests.WithLabelValues("error").Inc()
		return nil, err
	}

	c.metrics.CatalogRequests.WithLabelValues("success").Inc()
	c.logger.Debug("catalog fetched", "slices", len(catalog))
	return catalog, nil
}
