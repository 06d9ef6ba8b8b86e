package place

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/couchcryptid/rain-nowcast/internal/domain"
)

// defaultRotationDays bounds how many recent suggestions are remembered per
// part of day before the oldest rotates out.
const defaultRotationDays = 7

// RecentStore remembers recently suggested places per part of day so the
// same spot is not proposed twice within the rotation period. Persisted as a
// small TOML file.
type RecentStore struct {
	RotationDays int      `toml:"rotation_days"`
	Morning      []string `toml:"morning"`
	Afternoon    []string `toml:"afternoon"`

	path string
}

// LoadRecent reads the rotation file, returning a fresh store when the file
// does not exist yet.
func LoadRecent(path string) (*RecentStore, error) {
	store := &RecentStore{RotationDays: defaultRotationDays, path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return store, nil
		}
		return nil, fmt.Errorf("read recent places: %w", err)
	}

	if err := toml.Unmarshal(data, store); err != nil {
		return nil, fmt.Errorf("parse recent places: %w", err)
	}
	if store.RotationDays <= 0 {
		store.RotationDays = defaultRotationDays
	}
	store.path = path
	return store, nil
}

// Contains reports whether the place was recently suggested for the part of day.
func (s *RecentStore) Contains(name string, part domain.PartOfDay) bool {
	for _, p := range s.list(part) {
		if p == name {
			return true
		}
	}
	return false
}

// Record appends a suggestion, rotating out the oldest once the list reaches
// the rotation length.
func (s *RecentStore) Record(name string, part domain.PartOfDay) {
	list := append(s.list(part), name)
	if len(list) >= s.RotationDays {
		list = list[1:]
	}
	s.setList(part, list)
}

// Save writes the store back to its TOML file.
func (s *RecentStore) Save() error {
	data, err := toml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode recent places: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write recent places: %w", err)
	}
	return nil
}

func (s *RecentStore) list(part domain.PartOfDay) []string {
	if part == domain.Afternoon {
		return s.Afternoon
	}
	return s.Morning
}

func (s *RecentStore) setList(part domain.PartOfDay, list []string) {
	if part == domain.Afternoon {
		s.Afternoon = list
		return
	}
	s.Morning = list
}
