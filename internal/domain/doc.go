// Package domain models Japan Meteorological Agency (JMA) precipitation
// nowcast tiles and the time windows they are aggregated over.
//
// # Data Source
//
// Nowcast rasters come from the JMA "bosai" tile service. A catalog of
// available time slices is published at
// https://www.jma.go.jp/bosai/jmatile/data/rasrf/targetTimes.json and each
// slice's raster is served as slippy-map PNG tiles under
//
//	.../{basetime}/{member}/{validtime}/surf/rasrf/{z}/{x}/{y}.png
//
// # JMA Data Conventions
//
// Time slice fields:
//
//	basetime  — when the nowcast run was issued, "YYYYMMDDHHMMSS" in UTC.
//	validtime — the instant the raster is valid for, same format.
//	member    — ensemble member identifier, "immed" for the immediate run.
//	elements  — raster layers available for the slice, e.g. ["rasrf"].
//
// The catalog is ordered; neighbouring entries are adjacent in time.
//
// Tile addressing:
//
//	Standard Web Mercator slippy-map scheme. Fractional tile indices are
//	truncated toward zero, matching the upstream renderer. Coordinates are
//	not range-checked; callers are expected to pass sane lat/lon.
//
// Pixel encoding:
//
//	Tiles are 256×256 PNGs painted with a fixed colour ramp. Each colour
//	maps to a precipitation intensity in mm/h, from transparent (no rain)
//	through blue (weak) to violet (over 80 mm/h). The ramp is exhaustive:
//	a pixel outside it means the upstream format changed and the tile is
//	rejected rather than guessed at. See [ClassifyTile].
//
// Windows:
//
//	Aggregation happens over a part of day in local time: morning is
//	[06:00, 12:00) and afternoon is [12:00, 18:00). A window that has
//	already ended cannot be forecast; a window already begun is clamped
//	so that only the remaining hours are considered.
package domain
