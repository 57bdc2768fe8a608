package layout

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTablesCounts(t *testing.T) {
	tables := DefaultTables()
	assert.Len(t, tables.Buildings, 28)
	assert.Len(t, tables.Lamps, 24)
	assert.Len(t, tables.TrafficLights, 4)
	assert.Len(t, tables.Benches, 8)
	assert.Len(t, tables.Trees, 6)
	assert.Len(t, tables.Vehicles, 4)
}

func TestDefaultTablesAreCopies(t *testing.T) {
	a := DefaultTables()
	a.Buildings[0].Height = 999
	a.Streets.StreetOffsets[0] = 1
	b := DefaultTables()
	assert.Equal(t, float32(15), b.Buildings[0].Height)
	assert.Equal(t, float32(-20), b.Streets.StreetOffsets[0])
}

func TestLoadTablesOverridesOnlyGivenKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "city.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
buildings:
  - id: tower
    position: {x: -5, z: -5}
    height: 30
    width: 5
    depth: 5
    type: hotel
  - position: {x: 10, z: 10}
    height: 4
    width: 2
    depth: 2
    type: skyscraper
vehicles:
  - route: vertical
    lane: 1
    speed: 3
    color: "#ff00ff"
`), 0o644))

	tables, err := LoadTables(path)
	require.NoError(t, err)
	require.Len(t, tables.Buildings, 2)
	assert.Equal(t, "tower", tables.Buildings[0].ID)
	assert.Equal(t, BuildingHotel, tables.Buildings[0].Type)
	assert.Equal(t, BuildingOffice, tables.Buildings[1].Type, "unknown type falls back to office")
	assert.Len(t, tables.Lamps, 24, "omitted tables keep the defaults")
	require.Len(t, tables.Vehicles, 1)
	assert.Equal(t, float32(100), tables.Streets.Extent)
}

func TestLoadTablesErrors(t *testing.T) {
	_, err := LoadTables(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "reading layout file")

	_, err = ParseTables([]byte("buildings: [oops"))
	assert.ErrorContains(t, err, "parsing layout YAML")

	_, err = ParseTables([]byte("buildings: []\nlamps: []\ntrafficLights: []\nbenches: []\ntrees: []\nvehicles: []\n"))
	assert.ErrorIs(t, err, ErrEmptyTables)

	_, err = ParseTables([]byte("vehicles:\n  - route: diagonal\n"))
	assert.Error(t, err)
}

func TestValidateDefaultTablesClean(t *testing.T) {
	r := Validate(DefaultTables())
	assert.True(t, r.Valid())
	assert.Empty(t, r.Warnings)
}

func TestValidateFindings(t *testing.T) {
	tables := DefaultTables()
	tables.Buildings = append(tables.Buildings,
		BuildingDescriptor{ID: "a", Position: Point2{30, 30}, Height: 0, Width: 2, Depth: 2},
		BuildingDescriptor{ID: "a", Position: Point2{80, 0}, Height: 3, Width: 2, Depth: 2, Type: BuildingOffice, HasBalconies: true},
		BuildingDescriptor{Position: Point2{-5, -5}, Height: 3, Width: 2, Depth: 2},
	)
	tables.Vehicles[0].Color = "blue"
	tables.Trees[0].Scale = -1

	r := Validate(tables)
	assert.False(t, r.Valid())

	paths := map[string]bool{}
	for _, w := range append(r.Errors, r.Warnings...) {
		paths[w.Path] = true
	}
	assert.True(t, paths["buildings[28]"], "clamped dimension")
	assert.True(t, paths["buildings[29].id"], "duplicate id")
	assert.True(t, paths["buildings[29].position"], "outside ground")
	assert.True(t, paths["buildings[29].hasBalconies"])
	assert.True(t, paths["buildings[30]"], "overlap with the downtown office")
	assert.True(t, paths["vehicles[0].color"])
	assert.True(t, paths["trees[0].scale"])
}
