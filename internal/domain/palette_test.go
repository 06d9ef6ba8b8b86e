package domain

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fillTile paints a full-size tile in a single colour.
func fillTile(c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, TileSize, TileSize))
	for y := 0; y < TileSize; y++ {
		for x := 0; x < TileSize; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestClassifyTile(t *testing.T) {
	t.Run("transparent black tile is dry", func(t *testing.T) {
		got, err := ClassifyTile(fillTile(color.NRGBA{}))

		require.NoError(t, err)
		assert.Equal(t, 0.0, got)
	})

	t.Run("transparent white tile is dry", func(t *testing.T) {
		got, err := ClassifyTile(fillTile(color.NRGBA{R: 255, G: 255, B: 255, A: 0}))

		require.NoError(t, err)
		assert.Equal(t, 0.0, got)
	})

	t.Run("solid violet tile saturates", func(t *testing.T) {
		got, err := ClassifyTile(fillTile(color.NRGBA{R: 180, G: 0, B: 104, A: 255}))

		require.NoError(t, err)
		assert.Equal(t, 100.0, got)
	})

	t.Run("single rainy pixel averages down", func(t *testing.T) {
		img := fillTile(color.NRGBA{})
		img.SetNRGBA(12, 34, color.NRGBA{R: 0, G: 65, B: 255, A: 255})

		got, err := ClassifyTile(img)

		require.NoError(t, err)
		assert.InDelta(t, 20.0/float64(TileSize*TileSize), got, 1e-12)
	})

	t.Run("unknown color fails the tile", func(t *testing.T) {
		img := fillTile(color.NRGBA{})
		img.SetNRGBA(5, 7, color.NRGBA{R: 1, G: 2, B: 3, A: 255})

		_, err := ClassifyTile(img)

		require.Error(t, err)
		var colorErr *UnknownColorError
		require.True(t, errors.As(err, &colorErr))
		assert.Equal(t, 5, colorErr.X)
		assert.Equal(t, 7, colorErr.Y)
		assert.Equal(t, color.NRGBA{R: 1, G: 2, B: 3, A: 255}, colorErr.Color)
	})

	t.Run("undersized tile is rejected", func(t *testing.T) {
		img := image.NewNRGBA(image.Rect(0, 0, 32, 32))
		for y := 0; y < 32; y++ {
			for x := 0; x < 32; x++ {
				img.SetNRGBA(x, y, color.NRGBA{R: 180, G: 0, B: 104, A: 255})
			}
		}

		_, err := ClassifyTile(img)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "32x32")
	})

	t.Run("oversized tile is rejected", func(t *testing.T) {
		img := image.NewNRGBA(image.Rect(0, 0, TileSize, 2*TileSize))

		_, err := ClassifyTile(img)

		require.Error(t, err)
	})

	t.Run("offset bounds are handled", func(t *testing.T) {
		img := image.NewNRGBA(image.Rect(100, 100, 100+TileSize, 100+TileSize))
		for y := 100; y < 100+TileSize; y++ {
			for x := 100; x < 100+TileSize; x++ {
				img.SetNRGBA(x, y, color.NRGBA{R: 242, G: 242, B: 255, A: 255})
			}
		}

		got, err := ClassifyTile(img)

		require.NoError(t, err)
		assert.Equal(t, 1.0, got)
	})
}
