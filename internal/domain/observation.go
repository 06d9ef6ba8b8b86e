package domain

import "time"

// TileObservation is the outcome of resolving one time slice for one tile:
// the classified precipitation (nil when fetch, decode, or classification
// failed) and a base64-encoded 32×32 PNG thumbnail ("" on failure).
type TileObservation struct {
	Key           SliceKey
	Precipitation *float64
	Thumbnail     string
}

// WindowResult aggregates the observations for one window. Times and
// Thumbnails are parallel, one entry per selected slice whether it succeeded
// or not. Peak is nil only when every slice failed.
type WindowResult struct {
	Peak       *float64 `json:"peak_precipitation"`
	Times      []string `json:"times"`
	Thumbnails []string `json:"thumbnails"`
}

// Observation is the published record of one completed aggregation.
type Observation struct {
	Part         string    `json:"part"`
	Latitude     float64   `json:"lat"`
	Longitude    float64   `json:"lon"`
	Tile         string    `json:"tile"`
	Peak         *float64  `json:"peak_precipitation"`
	Slices       int       `json:"slices"`
	AggregatedAt time.Time `json:"aggregated_at"`
}
