package place

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Place is a destination with a parking lot and the shops around it.
type Place struct {
	Name    string   `toml:"name"`
	Shop    []string `toml:"shop"`
	Walking bool     `toml:"walking"`
	Parking bool     `toml:"parking"`
}

// Shop is a point of interest referenced by places.
type Shop struct {
	Name string `toml:"name"`
	Food bool   `toml:"food"`
}

// HomeArea holds the user's forecast target and the precipitation intensity
// in mm/h above which walking is ruled out.
type HomeArea struct {
	Latitude      float64 `toml:"latitude"`
	Longitude     float64 `toml:"longitude"`
	Precipitation float64 `toml:"precipitation"`
}

// Catalog is the user's place database, loaded from a TOML file.
type Catalog struct {
	Home    *HomeArea `toml:"home,omitempty"`
	Parking []Place   `toml:"parking"`
	Shop    []Shop    `toml:"shop"`
}

// LoadCatalog reads a place database from a TOML file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read place catalog: %w", err)
	}

	var catalog Catalog
	if err := toml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("parse place catalog: %w", err)
	}
	return &catalog, nil
}

// Pickup filters places by mood. A nil wish matches everything; the food
// wish matches when any of the place's shops has the wished food flag.
func (c *Catalog) Pickup(mood Mood) []Place {
	var picked []Place
	for _, p := range c.Parking {
		if c.matchesFood(p, mood.Food) && matchesWish(p.Walking, mood.Walking) && matchesWish(p.Parking, mood.Parking) {
			picked = append(picked, p)
		}
	}
	return picked
}

func (c *Catalog) matchesFood(p Place, wish *bool) bool {
	if wish == nil {
		return true
	}
	for _, name := range p.Shop {
		for _, s := range c.Shop {
			if s.Name == name && s.Food == *wish {
				return true
			}
		}
	}
	return false
}

func matchesWish(have bool, wish *bool) bool {
	return wish == nil || have == *wish
}
