package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// validtimeLayout is the JMA catalog timestamp format, e.g. "20260831064500".
const validtimeLayout = "20060102150405"

// TimeSlice is one entry of the nowcast catalog: a raster run valid at a
// single instant.
type TimeSlice struct {
	Basetime  string   `json:"basetime"`
	Validtime string   `json:"validtime"`
	Member    string   `json:"member"`
	Elements  []string `json:"elements"`
}

// SliceKey is the comparable identity of a time slice, used for cache lookups.
type SliceKey struct {
	Basetime  string
	Validtime string
	Member    string
}

// Key returns the slice's cache identity.
func (s TimeSlice) Key() SliceKey {
	return SliceKey{Basetime: s.Basetime, Validtime: s.Validtime, Member: s.Member}
}

// ValidTime parses the slice's validtime as a UTC instant.
func (s TimeSlice) ValidTime() (time.Time, error) {
	t, err := time.ParseInLocation(validtimeLayout, s.Validtime, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse validtime %q: %w", s.Validtime, err)
	}
	return t, nil
}

// ParseCatalog decodes the targetTimes.json payload into its ordered slices.
func ParseCatalog(data []byte) ([]TimeSlice, error) {
	var slices []TimeSlice
	if err := json.Unmarshal(data, &slices); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return slices, nil
}

// NearestSlice returns the index of the catalog entry whose validtime is
// closest to at, preferring the earlier index on ties. Entries with an
// unparseable validtime are skipped. Returns -1 when nothing qualifies.
func NearestSlice(catalog []TimeSlice, at time.Time) int {
	best := -1
	var bestDelta time.Duration

	for i, slice := range catalog {
		vt, err := slice.ValidTime()
		if err != nil {
			continue
		}

		delta := vt.Sub(at)
		if delta < 0 {
			delta = -delta
		}
		if best == -1 || delta < bestDelta {
			best = i
			bestDelta = delta
		}
	}

	return best
}

// WindowSlices selects the catalog entries falling inside [begin, end],
// anchored at the slice nearest to begin and scanning backward toward the
// start of the catalog. The scan stops at the first entry past end or at an
// unparseable validtime; entries exactly at end are included. The result
// preserves scan order (anchor first).
func WindowSlices(catalog []TimeSlice, begin, end time.Time) []TimeSlice {
	anchor := NearestSlice(catalog, begin)
	if anchor == -1 {
		return nil
	}

	var selected []TimeSlice
	for i := anchor; i >= 0; i-- {
		vt, err := catalog[i].ValidTime()
		if err != nil {
			break
		}
		if vt.After(end) {
			break
		}
		selected = append(selected, catalog[i])
	}

	return selected
}
