package jma

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/rain-nowcast/internal/domain"
	"github.com/couchcryptid/rain-nowcast/internal/observability"
)

// encodeTile renders a uniform full-size tile as PNG bytes.
func encodeTile(t *testing.T, c color.NRGBA) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, domain.TileSize, domain.TileSize))
	for y := 0; y < domain.TileSize; y++ {
		for x := 0; x < domain.TileSize; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

var (
	testSlice = domain.TimeSlice{
		Basetime:  "20260831060000",
		Validtime: "20260831063000",
		Member:    "immed",
		Elements:  []string{"rasrf"},
	}
	testAddr = domain.TileAddress{Zoom: 10, X: 909, Y: 403}
)

func newTestTileClient(baseURL string) (*TileClient, *TileCache) {
	cache := NewTileCache(12)
	client := NewTileClient(baseURL, time.Second, cache, observability.NewMetricsForTesting(), testLogger())
	return client, cache
}

func TestTileClientResolve(t *testing.T) {
	t.Run("fetches classifies and caches", func(t *testing.T) {
		tile := encodeTile(t, color.NRGBA{R: 0, G: 65, B: 255, A: 255})
		var requests atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests.Add(1)
			assert.Equal(t, "/20260831060000/immed/20260831063000/surf/rasrf/10/909/403.png", r.URL.Path)
			w.Write(tile)
		}))
		defer server.Close()

		client, cache := newTestTileClient(server.URL)
		obs := client.Resolve(context.Background(), testAddr, testSlice)

		require.NotNil(t, obs.Precipitation)
		assert.Equal(t, 20.0, *obs.Precipitation)
		assert.Equal(t, 1, cache.Len())

		// Thumbnail must be a decodable 32×32 PNG.
		raw, err := base64.StdEncoding.DecodeString(obs.Thumbnail)
		require.NoError(t, err)
		small, err := png.Decode(bytes.NewReader(raw))
		require.NoError(t, err)
		assert.Equal(t, thumbnailSize, small.Bounds().Dx())
		assert.Equal(t, thumbnailSize, small.Bounds().Dy())

		// Second resolve is served from cache without another request.
		again := client.Resolve(context.Background(), testAddr, testSlice)
		require.NotNil(t, again.Precipitation)
		assert.Equal(t, 20.0, *again.Precipitation)
		assert.Equal(t, int32(1), requests.Load())
	})

	t.Run("http failure yields empty observation", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		client, cache := newTestTileClient(server.URL)
		obs := client.Resolve(context.Background(), testAddr, testSlice)

		assert.Nil(t, obs.Precipitation)
		assert.Empty(t, obs.Thumbnail)
		assert.Equal(t, 1, cache.Len())
	})

	t.Run("failed observation is retried not reused", func(t *testing.T) {
		tile := encodeTile(t, color.NRGBA{R: 242, G: 242, B: 255, A: 255})
		var requests atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if requests.Add(1) == 1 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			w.Write(tile)
		}))
		defer server.Close()

		client, cache := newTestTileClient(server.URL)

		first := client.Resolve(context.Background(), testAddr, testSlice)
		assert.Nil(t, first.Precipitation)

		second := client.Resolve(context.Background(), testAddr, testSlice)
		require.NotNil(t, second.Precipitation)
		assert.Equal(t, 1.0, *second.Precipitation)

		// Both attempts were pushed; the failed entry is not rewritten.
		assert.Equal(t, 2, cache.Len())
		assert.Equal(t, int32(2), requests.Load())
	})

	t.Run("undecodable body yields empty observation", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not a png"))
		}))
		defer server.Close()

		client, _ := newTestTileClient(server.URL)
		obs := client.Resolve(context.Background(), testAddr, testSlice)

		assert.Nil(t, obs.Precipitation)
	})

	t.Run("truncated tile fails and stays retryable", func(t *testing.T) {
		img := image.NewNRGBA(image.Rect(0, 0, 32, 32))
		for y := 0; y < 32; y++ {
			for x := 0; x < 32; x++ {
				img.SetNRGBA(x, y, color.NRGBA{R: 180, G: 0, B: 104, A: 255})
			}
		}
		var small bytes.Buffer
		require.NoError(t, png.Encode(&small, img))

		full := encodeTile(t, color.NRGBA{R: 180, G: 0, B: 104, A: 255})
		var requests atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if requests.Add(1) == 1 {
				w.Write(small.Bytes())
				return
			}
			w.Write(full)
		}))
		defer server.Close()

		client, _ := newTestTileClient(server.URL)

		first := client.Resolve(context.Background(), testAddr, testSlice)
		assert.Nil(t, first.Precipitation)
		assert.Empty(t, first.Thumbnail)

		// The undersized observation must not stick as a cache hit.
		second := client.Resolve(context.Background(), testAddr, testSlice)
		require.NotNil(t, second.Precipitation)
		assert.Equal(t, 100.0, *second.Precipitation)
		assert.Equal(t, int32(2), requests.Load())
	})

	t.Run("unknown palette color fails the tile", func(t *testing.T) {
		tile := encodeTile(t, color.NRGBA{R: 9, G: 9, B: 9, A: 255})
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write(tile)
		}))
		defer server.Close()

		client, cache := newTestTileClient(server.URL)
		obs := client.Resolve(context.Background(), testAddr, testSlice)

		assert.Nil(t, obs.Precipitation)
		assert.Empty(t, obs.Thumbnail)
		assert.Equal(t, 1, cache.Len())
	})
}
