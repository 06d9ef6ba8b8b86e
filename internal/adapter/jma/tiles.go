package jma

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"net/http"
	"time"

	xdraw "golang.org/x/image/draw"

	"github.com/couchcryptid/rain-nowcast/internal/domain"
	"github.com/couchcryptid/rain-nowcast/internal/observability"
)

// thumbnailSize is the edge length of the preview image returned alongside
// each observation.
const thumbnailSize = 32

// TileClient fetches and classifies nowcast raster tiles, backed by a FIFO
// observation cache.
type TileClient struct {
	baseURL    string
	httpClient *http.Client
	cache      *TileCache
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewTileClient creates a tile client around the given cache.
func NewTileClient(baseURL string, timeout time.Duration, cache *TileCache, metrics *observability.Metrics, logger *slog.Logger) *TileClient {
	return &TileClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		cache:   cache,
		metrics: metrics,
		logger:  logger,
	}
}

// Resolve returns the observation for one slice of one tile. A cached
// observation is reused only if its fetch succeeded; failed observations are
// retried and the fresh result pushed regardless of outcome, so a slice that
// failed once can still recover on a later pass.
func (c *TileClient) Resolve(ctx context.Context, addr domain.TileAddress, slice domain.TimeSlice) domain.TileObservation {
	key := slice.Key()

	if cached, ok := c.cache.Search(key); ok {
		if cached.Precipitation != nil {
			c.metrics.TileCache.WithLabelValues("hit").Inc()
			return cached
		}
		c.metrics.TileCache.WithLabelValues("stale").Inc()
	} else {
		c.metrics.TileCache.WithLabelValues("miss").Inc()
	}

	obs := c.fetch(ctx, addr, slice)
	c.cache.Push(obs)
	return obs
}

func (c *TileClient) fetch(ctx context.Context, addr domain.TileAddress, slice domain.TimeSlice) domain.TileObservation {
	obs := domain.TileObservation{Key: slice.Key()}

	url := fmt.Sprintf("%s/%s/%s/%s/surf/rasrf/%s.png",
		c.baseURL, slice.Basetime, slice.Member, slice.Validtime, addr.Path())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		c.metrics.TileFetches.WithLabelValues("http_error").Inc()
		c.logger.Warn("tile request build failed", "url", url, "error", err)
		return obs
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.TileFetches.WithLabelValues("http_error").Inc()
		c.logger.Warn("tile fetch failed", "url", url, "error", err)
		return obs
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.metrics.TileFetches.WithLabelValues("http_error").Inc()
		c.logger.Warn("tile fetch failed", "url", url, "status", resp.StatusCode)
		return obs
	}

	img, err := png.Decode(resp.Body)
	if err != nil {
		c.metrics.TileFetches.WithLabelValues("decode_error").Inc()
		c.logger.Warn("tile decode failed", "url", url, "error", err)
		return obs
	}

	precipitation, err := domain.ClassifyTile(img)
	if err != nil {
		c.metrics.TileFetches.WithLabelValues("classify_error").Inc()
		// An unknown colour means the upstream palette changed. Log loudly;
		// silently guessing would corrupt every aggregate.
		c.logger.Error("tile classification failed", "url", url, "error", err)
		return obs
	}

	c.metrics.TileFetches.WithLabelValues("success").Inc()
	obs.Precipitation = &precipitation
	obs.Thumbnail = c.thumbnail(img)
	return obs
}

// thumbnail downscales a tile to a 32×32 base64-encoded PNG. Returns "" on
// failure; the preview is cosmetic and never fails the observation.
func (c *TileClient) thumbnail(img image.Image) string {
	small := image.NewNRGBA(image.Rect(0, 0, thumbnailSize, thumbnailSize))
	xdraw.NearestNeighbor.Scale(small, small.Bounds(), img, img.Bounds(), xdraw.Src, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, small); err != nil {
		c.logger.Warn("thumbnail encode failed", "error", err)
		return ""
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}
