package domain

import (
	"fmt"
	"image"
	"image/color"
)

// TileSize is the edge length in pixels of every nowcast tile.
const TileSize = 256

// palette maps the fixed JMA nowcast colour ramp to precipitation intensity
// in mm/h. Transparent black and transparent white both encode "no rain";
// the upstream renderer emits either depending on the tile. The ramp is
// exhaustive: any other colour is a format change, not a shade to interpolate.
var palette = map[color.NRGBA]int{
	{R: 180, G: 0, B: 104, A: 255}:   100, // violet, >= 80 mm/h
	{R: 255, G: 40, B: 0, A: 255}:    80,
	{R: 255, G: 153, B: 0, A: 255}:   50,
	{R: 250, G: 245, B: 0, A: 255}:   30,
	{R: 0, G: 65, B: 255, A: 255}:    20,
	{R: 33, G: 140, B: 255, A: 255}:  10,
	{R: 160, G: 210, B: 255, A: 255}: 5,
	{R: 242, G: 242, B: 255, A: 255}: 1,
	{R: 0, G: 0, B: 0, A: 0}:         0,
	{R: 255, G: 255, B: 255, A: 0}:   0,
}

// UnknownColorError reports a pixel whose colour is not in the nowcast ramp.
// It fails the whole tile: a partial read of an unrecognised format would
// silently skew the aggregate.
type UnknownColorError struct {
	X, Y  int
	Color color.NRGBA
}

func (e *UnknownColorError) Error() string {
	return fmt.Sprintf("unknown tile color rgba(%d,%d,%d,%d) at pixel (%d,%d)",
		e.Color.R, e.Color.G, e.Color.B, e.Color.A, e.X, e.Y)
}

// ClassifyTile converts a decoded nowcast tile into a mean precipitation
// intensity in mm/h by averaging the ramp weight of every pixel. Tiles that
// are not exactly 256×256 are rejected: reading past the bounds of an
// undersized image yields zero pixels, which would pass as dry sky instead
// of surfacing the corruption. Returns an *UnknownColorError if any pixel
// falls outside the ramp.
func ClassifyTile(img image.Image) (float64, error) {
	bounds := img.Bounds()
	if bounds.Dx() != TileSize || bounds.Dy() != TileSize {
		return 0, fmt.Errorf("tile is %dx%d, want %dx%d", bounds.Dx(), bounds.Dy(), TileSize, TileSize)
	}

	var sum int
	for y := 0; y < TileSize; y++ {
		for x := 0; x < TileSize; x++ {
			// NRGBAModel keeps alpha non-premultiplied, so the two
			// transparent ramp entries stay distinguishable from each other.
			c := color.NRGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
			weight, ok := palette[c]
			if !ok {
				return 0, &UnknownColorError{X: x, Y: y, Color: c}
			}
			sum += weight
		}
	}

	return float64(sum) / float64(TileSize*TileSize), nil
}
