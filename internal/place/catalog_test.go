package place

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCatalogTOML = `
[home]
latitude = 35.362925
longitude = 138.731451
precipitation = 1.0

[[parking]]
name = "lakeside park"
shop = ["bakery"]
walking = true
parking = true

[[parking]]
name = "mall"
shop = ["bakery", "hardware store"]
walking = false
parking = true

[[parking]]
name = "trailhead"
shop = []
walking = true
parking = false

[[shop]]
name = "bakery"
food = true

[[shop]]
name = "hardware store"
food = false
`

func writeCatalog(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "place.toml")
	require.NoError(t, os.WriteFile(path, []byte(testCatalogTOML), 0o644))
	return path
}

func boolPtr(b bool) *bool { return &b }

func TestLoadCatalog(t *testing.T) {
	t.Run("parses places shops and home", func(t *testing.T) {
		catalog, err := LoadCatalog(writeCatalog(t))

		require.NoError(t, err)
		require.NotNil(t, catalog.Home)
		assert.Equal(t, 35.362925, catalog.Home.Latitude)
		assert.Equal(t, 1.0, catalog.Home.Precipitation)
		require.Len(t, catalog.Parking, 3)
		assert.Equal(t, "lakeside park", catalog.Parking[0].Name)
		require.Len(t, catalog.Shop, 2)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadCatalog(filepath.Join(t.TempDir(), "nope.toml"))
		require.Error(t, err)
	})

	t.Run("malformed file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.toml")
		require.NoError(t, os.WriteFile(path, []byte("[[[["), 0o644))

		_, err := LoadCatalog(path)
		require.Error(t, err)
	})
}

func TestPickup(t *testing.T) {
	catalog, err := LoadCatalog(writeCatalog(t))
	require.NoError(t, err)

	t.Run("empty mood matches everything", func(t *testing.T) {
		assert.Len(t, catalog.Pickup(Mood{}), 3)
	})

	t.Run("walking wish", func(t *testing.T) {
		picked := catalog.Pickup(Mood{Walking: boolPtr(true)})

		require.Len(t, picked, 2)
		assert.Equal(t, "lakeside park", picked[0].Name)
		assert.Equal(t, "trailhead", picked[1].Name)
	})

	t.Run("food wish matches via shops", func(t *testing.T) {
		picked := catalog.Pickup(Mood{Food: boolPtr(true)})

		require.Len(t, picked, 2)
		assert.Equal(t, "lakeside park", picked[0].Name)
		assert.Equal(t, "mall", picked[1].Name)
	})

	t.Run("no-food wish needs a non-food shop", func(t *testing.T) {
		picked := catalog.Pickup(Mood{Food: boolPtr(false)})

		require.Len(t, picked, 1)
		assert.Equal(t, "mall", picked[0].Name)
	})

	t.Run("every wish combination honors its constraints", func(t *testing.T) {
		wishes := []*bool{boolPtr(true), boolPtr(false), nil}
		for _, food := range wishes {
			for _, walking := range wishes {
				for _, parking := range wishes {
					mood := Mood{Food: food, Walking: walking, Parking: parking}
					for _, p := range catalog.Pickup(mood) {
						if walking != nil {
							assert.Equal(t, *walking, p.Walking)
						}
						if parking != nil {
							assert.Equal(t, *parking, p.Parking)
						}
						if food != nil {
							assert.True(t, catalog.matchesFood(p, food))
						}
					}
				}
			}
		}
	})
}
