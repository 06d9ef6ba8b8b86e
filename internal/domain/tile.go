package domain

import (
	"fmt"
	"math"
)

// TileAddress identifies a slippy-map tile at a given zoom level.
type TileAddress struct {
	Zoom int
	X    int
	Y    int
}

// TileFromLatLon projects WGS84 coordinates onto the Web Mercator tile grid.
// Fractional indices are truncated toward zero, matching the upstream
// renderer. Inputs are not range-checked.
func TileFromLatLon(zoom int, lat, lon float64) TileAddress {
	n := math.Pow(2, float64(zoom))
	latRad := lat * math.Pi / 180.0

	x := (lon + 180.0) / 360.0 * n
	y := (1.0 - math.Asinh(math.Tan(latRad))/math.Pi) / 2.0 * n

	return TileAddress{Zoom: zoom, X: int(x), Y: int(y)}
}

// Path renders the address as the "{z}/{x}/{y}" segment of a tile URL.
func (a TileAddress) Path() string {
	return fmt.Sprintf("%d/%d/%d", a.Zoom, a.X, a.Y)
}
