package layout

import (
	"math"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-city/common"
	so "github.com/Carmen-Shannon/oxy-city/engine/scene_object"
	"github.com/Carmen-Shannon/oxy-city/engine/traffic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countParts counts objects in group whose Part equals part. An empty group matches all.
func countParts(objs []so.SceneObject, group, part string) int {
	n := 0
	for _, o := range objs {
		if (group == "" || o.Group == group) && o.Part == part {
			n++
		}
	}
	return n
}

func groupObjects(objs []so.SceneObject, group string) []so.SceneObject {
	var out []so.SceneObject
	for _, o := range objs {
		if o.Group == group {
			out = append(out, o)
		}
	}
	return out
}

func singleBuilding(b BuildingDescriptor) Generator {
	return NewGenerator(WithTables(Tables{Streets: DefaultTables().Streets, Buildings: []BuildingDescriptor{b}}), WithQuiet(true))
}

func TestGenerateIsDeterministic(t *testing.T) {
	for _, theme := range []common.Theme{common.ThemeDay, common.ThemeNight} {
		a := NewGenerator().Generate(theme)
		b := NewGenerator().Generate(theme)
		require.NotEmpty(t, a)
		assert.Equal(t, a, b, "theme %s", theme)

		g := NewGenerator()
		assert.Equal(t, g.Generate(theme), g.Generate(theme))
	}
}

func TestGenerateConcatenatesSections(t *testing.T) {
	g := NewGenerator()
	all := g.Generate(common.ThemeDay)
	ground, buildings, props := g.Ground(common.ThemeDay), g.Buildings(common.ThemeDay), g.Props(common.ThemeDay)

	require.Len(t, all, len(ground)+len(buildings)+len(props))
	assert.Equal(t, ground, all[:len(ground)])
	assert.Equal(t, props, all[len(ground)+len(buildings):])
}

func TestGroundLayerOrdering(t *testing.T) {
	objs := NewGenerator().Ground(common.ThemeDay)
	require.Len(t, objs, 1+2+4*2+8*2+4)

	layerY := func(prefix string) []float32 {
		var ys []float32
		for _, o := range objs {
			if strings.HasPrefix(o.Part, prefix) {
				ys = append(ys, o.Local.Position.Y)
			}
		}
		require.NotEmpty(t, ys, prefix)
		return ys
	}

	order := []string{"ground", "boulevard", "street", "sidewalk", "park"}
	for i := 1; i < len(order); i++ {
		for _, below := range layerY(order[i-1]) {
			for _, above := range layerY(order[i]) {
				assert.Less(t, below, above, "%s must sit under %s", order[i-1], order[i])
			}
		}
	}

	parks := 0
	for _, o := range objs {
		if strings.HasPrefix(o.Part, "park/") {
			parks++
			assert.Equal(t, float32(6), o.Dimensions.Width)
			assert.Equal(t, float32(15), abs32(o.Local.Position.X))
			assert.Equal(t, float32(15), abs32(o.Local.Position.Z))
		}
	}
	assert.Equal(t, 4, parks)
}

func TestOfficeScenario(t *testing.T) {
	desc := BuildingDescriptor{Position: Point2{-5, -5}, Height: 15, Width: 4, Depth: 4, Type: BuildingOffice}
	objs := singleBuilding(desc).Buildings(common.ThemeDay)

	assert.Equal(t, 12, desc.Floors())
	assert.Equal(t, 96, countParts(objs, "", PartWindowGlass))
	assert.Equal(t, 96, countParts(objs, "", PartWindowFrame))
	assert.Equal(t, 1, countParts(objs, "", PartEntrance))

	var body *so.SceneObject
	for i := range objs {
		if objs[i].Part == PartBody {
			body = &objs[i]
		}
	}
	require.NotNil(t, body)
	assert.Equal(t, PaletteFor(BuildingOffice, common.ThemeDay).Body, body.Material.Color)
	assert.Equal(t, float32(7.5), body.Local.Position.Y, "main box sits at half height")
	assert.Equal(t, common.V3(-5, 0, -5), body.Parent.Position)
}

func TestWindowCountProperty(t *testing.T) {
	heights := []struct {
		h      float32
		floors int
	}{
		{0.5, 0}, {1.2, 1}, {2, 1}, {3.6, 3}, {3.7, 3}, {6, 5}, {8.4, 7},
		{13.2, 11}, {15, 12}, {16.8, 14}, {18, 15}, {24.1, 20},
	}
	widths := []struct {
		w    float32
		cols int
	}{
		{0.4, 0}, {1, 1}, {2.5, 2}, {3, 3}, {4, 4}, {7.9, 7},
	}
	for _, ht := range heights {
		for _, wt := range widths {
			desc := BuildingDescriptor{Height: ht.h, Width: wt.w, Depth: 3, Type: BuildingMixed}
			assert.Equal(t, ht.floors, desc.Floors(), "h=%g", ht.h)
			assert.Equal(t, wt.cols, desc.Columns(), "w=%g", wt.w)
			objs := singleBuilding(desc).Buildings(common.ThemeDay)
			assert.Equal(t, ht.floors*wt.cols*2, countParts(objs, "", PartWindowGlass), "h=%g w=%g", ht.h, wt.w)
		}
	}
}

func TestWindowPlacement(t *testing.T) {
	desc := BuildingDescriptor{Height: 2.4, Width: 2, Depth: 4, Type: BuildingHotel}
	objs := singleBuilding(desc).Buildings(common.ThemeDay)

	var xs, ys, zs []float32
	for _, o := range objs {
		if o.Part == PartWindowGlass {
			xs = append(xs, o.Local.Position.X)
			ys = append(ys, o.Local.Position.Y)
			zs = append(zs, o.Local.Position.Z)
			assert.Equal(t, float32(0.7), o.Material.Opacity)
		}
	}
	assert.ElementsMatch(t, []float32{-0.5, -0.5, 0.5, 0.5, -0.5, -0.5, 0.5, 0.5}, xs)
	assert.InDeltaSlice(t, []float32{0.6, 0.6, 0.6, 0.6, 1.8, 1.8, 1.8, 1.8}, ys, 1e-5)
	assert.ElementsMatch(t, []float32{2.04, -2.04, 2.04, -2.04, 2.04, -2.04, 2.04, -2.04}, zs)
}

func TestBalconiesOnlyOnResidentialUpperFloors(t *testing.T) {
	res := BuildingDescriptor{Height: 6, Width: 3, Depth: 3, Type: BuildingResidential, HasBalconies: true}
	assert.Equal(t, 4, countParts(singleBuilding(res).Buildings(common.ThemeDay), "", "balcony/slab"))
	assert.Equal(t, 4, countParts(singleBuilding(res).Buildings(common.ThemeDay), "", "balcony/rail"))

	hotel := res
	hotel.Type = BuildingHotel
	assert.Zero(t, countParts(singleBuilding(hotel).Buildings(common.ThemeDay), "", "balcony/slab"))

	plain := res
	plain.HasBalconies = false
	assert.Zero(t, countParts(singleBuilding(plain).Buildings(common.ThemeDay), "", "balcony/slab"))

	assert.Zero(t, countParts(singleBuilding(res).Buildings(common.ThemeDay), "", PartEntrance), "entrance is office only")
}

func TestNonPositiveDimensionsAreClamped(t *testing.T) {
	tables := Tables{Buildings: []BuildingDescriptor{{Height: 5, Width: -2, Depth: 0, Type: BuildingOffice}}}
	g := NewGenerator(WithTables(tables), WithQuiet(true))

	objs := g.Buildings(common.ThemeDay)
	require.NotEmpty(t, objs)
	for _, o := range objs {
		if o.Part == PartBody {
			assert.Equal(t, float32(minDimension), o.Dimensions.Width)
			assert.Equal(t, float32(minDimension), o.Dimensions.Depth)
		}
	}
	assert.Equal(t, float32(-2), g.Tables().Buildings[0].Width, "input table untouched")
	assert.Equal(t, float32(-2), tables.Buildings[0].Width)
}

func TestDefaultBuildingsUseTypePalette(t *testing.T) {
	g := NewGenerator()
	for _, theme := range []common.Theme{common.ThemeDay, common.ThemeNight} {
		objs := g.Buildings(theme)
		for i, b := range g.Tables().Buildings {
			group := groupObjects(objs, buildingGroup(i, b))
			require.NotEmpty(t, group)
			for _, o := range group {
				if o.Part == PartBody {
					assert.Equal(t, PaletteFor(b.Type, theme).Body, o.Material.Color)
				}
			}
		}
	}
}

func TestPaletteTablesAreComplete(t *testing.T) {
	for bt := BuildingType(0); bt < BuildingTypeCount; bt++ {
		for th := common.Theme(0); th < common.ThemeCount; th++ {
			p := PaletteFor(bt, th)
			assert.Equal(t, float32(1), p.Body.A, "%s/%s body", bt, th)
			assert.Equal(t, float32(1), p.Window.A, "%s/%s window", bt, th)
			assert.Equal(t, float32(1), p.Roof.A, "%s/%s roof", bt, th)
		}
	}
	assert.Equal(t, PaletteFor(BuildingOffice, common.ThemeDay), PaletteFor(BuildingType(200), common.Theme(9)))
}

func TestNightPaletteDarkensDay(t *testing.T) {
	for bt := BuildingType(0); bt < BuildingTypeCount; bt++ {
		day, night := PaletteFor(bt, common.ThemeDay), PaletteFor(bt, common.ThemeNight)
		assert.Equal(t, day.Body.Darken(nightDarken), night.Body, "%s body", bt)
		assert.Equal(t, day.Roof.Darken(nightDarken), night.Roof, "%s roof", bt)
		assert.Less(t, night.Body.R+night.Body.G+night.Body.B, day.Body.R+day.Body.G+day.Body.B, "%s", bt)
		assert.Equal(t, day.Window, night.Glow, "%s glow", bt)
		assert.Greater(t, night.GlowIntensity, day.GlowIntensity)
	}
	assert.Equal(t, groundPalettes[common.ThemeDay].Street.Darken(nightDarken), groundPalettes[common.ThemeNight].Street)
}

func TestPropCounts(t *testing.T) {
	g := NewGenerator()
	props := g.Props(common.ThemeDay)

	assert.Equal(t, 24, countParts(props, "", PartBulb))
	assert.Equal(t, 4, countParts(props, "", "housing"))
	assert.Equal(t, 8, countParts(props, "", "seat"))
	assert.Equal(t, 6*3, countParts(props, "", PartFoliage))
	assert.Equal(t, 6*6, countParts(props, "", "branch"))
	assert.Equal(t, 4, countParts(props, "", PartBody))
}

func TestLampLightsOnlyAtNight(t *testing.T) {
	g := NewGenerator()
	lit := func(objs []so.SceneObject) int {
		n := 0
		for _, o := range objs {
			if o.Light != nil {
				n++
			}
		}
		return n
	}
	assert.Zero(t, lit(g.Props(common.ThemeDay)))
	assert.Equal(t, 24, lit(g.Props(common.ThemeNight)))
	assert.NotEqual(t, g.ClearColor(common.ThemeDay), g.ClearColor(common.ThemeNight))
}

func TestTrafficLightsStartRedWithOneActiveLens(t *testing.T) {
	props := NewGenerator().Props(common.ThemeDay)
	for i := 0; i < 4; i++ {
		group := groupObjects(props, "traffic-light/"+string(rune('0'+i)))
		active := 0
		for _, o := range group {
			if strings.HasPrefix(o.Part, "lens/") && o.Material.EmissiveIntensity > 0 {
				active++
				assert.Equal(t, LensPart(traffic.SignalRed), o.Part)
			}
		}
		assert.Equal(t, 1, active, "light %d", i)
	}
}

func TestLensMaterialExactlyOneActive(t *testing.T) {
	for cur := traffic.SignalRed; cur < traffic.SignalCount; cur++ {
		active := 0
		for lens := traffic.SignalRed; lens < traffic.SignalCount; lens++ {
			if LensMaterial(lens, cur).EmissiveIntensity > 0 {
				active++
				assert.Equal(t, lens, cur)
			}
		}
		assert.Equal(t, 1, active)
	}
}

func TestBenchesRotateByEighthTurns(t *testing.T) {
	benches := NewGenerator().Tables().Benches
	require.Len(t, benches, 8)
	for i, b := range benches {
		assert.InDelta(t, float64(i)*math.Pi/4, b.RotationY, 1e-6)
	}
}

func TestTreeScaleAppliesToGroup(t *testing.T) {
	props := NewGenerator().Props(common.ThemeDay)
	tree := groupObjects(props, "tree/1")
	require.NotEmpty(t, tree)
	for _, o := range tree {
		assert.Equal(t, common.V3(1.2, 1.2, 1.2), o.Parent.Scale)
		assert.Equal(t, common.V3(12, 0, -12), o.Parent.Position)
	}
}
