package scene

import (
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-city/common"
	"github.com/Carmen-Shannon/oxy-city/engine/layout"
	so "github.com/Carmen-Shannon/oxy-city/engine/scene_object"
	"github.com/Carmen-Shannon/oxy-city/engine/traffic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2026, 1, 1, 20, 0, 0, 0, time.UTC)

func newTestScene(options ...SceneBuilderOption) Scene {
	return NewScene(layout.NewGenerator(layout.WithQuiet(true)), options...)
}

// litLenses returns, for each traffic-light group, which lens is emissive.
func litLenses(t *testing.T, objs []so.SceneObject) map[string]traffic.Signal {
	t.Helper()
	out := make(map[string]traffic.Signal)
	for _, o := range objs {
		if !strings.HasPrefix(o.Group, layout.GroupTrafficLight+"/") {
			continue
		}
		for lens := traffic.SignalRed; lens < traffic.SignalCount; lens++ {
			if o.Part != layout.LensPart(lens) || o.Material.EmissiveIntensity == 0 {
				continue
			}
			_, dup := out[o.Group]
			require.False(t, dup, "%s has more than one lit lens", o.Group)
			out[o.Group] = lens
		}
	}
	return out
}

func TestNewSceneStartsRedInDay(t *testing.T) {
	s := newTestScene()
	assert.Equal(t, common.ThemeDay, s.Theme())

	lit := litLenses(t, s.Objects())
	require.Len(t, lit, len(layout.DefaultTables().TrafficLights))
	for group, signal := range lit {
		assert.Equal(t, traffic.SignalRed, signal, group)
	}
	for _, signal := range s.Signals() {
		assert.Equal(t, traffic.SignalRed, signal)
	}
}

func TestUpdateCyclesLenses(t *testing.T) {
	s := newTestScene()
	s.Update(epoch)

	s.Update(epoch.Add(2999 * time.Millisecond))
	for _, signal := range litLenses(t, s.Objects()) {
		assert.Equal(t, traffic.SignalRed, signal)
	}

	s.Update(epoch.Add(3000 * time.Millisecond))
	for _, signal := range litLenses(t, s.Objects()) {
		assert.Equal(t, traffic.SignalYellow, signal)
	}

	s.Update(epoch.Add(6000 * time.Millisecond))
	for _, signal := range litLenses(t, s.Objects()) {
		assert.Equal(t, traffic.SignalGreen, signal)
	}

	s.Update(epoch.Add(9000 * time.Millisecond))
	for _, signal := range litLenses(t, s.Objects()) {
		assert.Equal(t, traffic.SignalRed, signal)
	}
}

func TestStaggeredLightsRunIndependently(t *testing.T) {
	s := newTestScene(WithStagger(1000 * time.Millisecond))
	s.Update(epoch)
	s.Update(epoch.Add(2000 * time.Millisecond))

	// Light i's first change comes i seconds early, modulo the 3s dwell.
	signals := s.Signals()
	require.Len(t, signals, 4)
	assert.Equal(t, traffic.SignalRed, signals[0])
	assert.Equal(t, traffic.SignalYellow, signals[1])
	assert.Equal(t, traffic.SignalYellow, signals[2])
	assert.Equal(t, traffic.SignalRed, signals[3])
}

func TestUpdateOnlyTouchesDynamicObjects(t *testing.T) {
	s := newTestScene()
	before := s.Snapshot()
	s.Update(epoch)
	s.Update(epoch.Add(4500 * time.Millisecond))
	after := s.Snapshot()

	assert.Equal(t, before.StaticVersion, after.StaticVersion)
	assert.Equal(t, before.Static, after.Static)
	require.Len(t, after.Dynamic, len(before.Dynamic))
	assert.NotEqual(t, before.Dynamic, after.Dynamic)
}

func TestTreesSway(t *testing.T) {
	s := newTestScene()
	s.Update(epoch)
	s.Update(epoch.Add(3 * time.Second))

	want := float32(math.Sin(3*SwayRate) * SwayAmplitude)
	trees := 0
	for _, o := range s.Objects() {
		if strings.HasPrefix(o.Group, layout.GroupTree+"/") {
			trees++
			assert.InDelta(t, want, o.Parent.Rotation.Z, 1e-6, o.Group)
		}
	}
	assert.NotZero(t, trees)
}

func TestVehiclesFollowTheirLanes(t *testing.T) {
	s := newTestScene()
	g := s.Generator()
	tables := g.Tables()

	s.Update(epoch)
	s.Update(epoch.Add(2 * time.Second))

	for i, v := range tables.Vehicles {
		wantPos, wantYaw := g.Motion(v).At(2 * time.Second)
		group := layout.VehicleGroup(i, v)
		found := false
		for _, o := range s.Objects() {
			if o.Group != group {
				continue
			}
			found = true
			assert.InDelta(t, wantPos.X, o.Parent.Position.X, 1e-4, group)
			assert.InDelta(t, wantPos.Z, o.Parent.Position.Z, 1e-4, group)
			assert.InDelta(t, wantYaw, o.Parent.Rotation.Y, 1e-6, group)
		}
		assert.True(t, found, group)
	}
}

func TestToggleThemeRegenerates(t *testing.T) {
	s := newTestScene()
	day := s.Snapshot()
	dayClear := s.ClearColor()
	assert.Len(t, s.Lights().Points, 1)

	assert.Equal(t, common.ThemeNight, s.ToggleTheme())
	night := s.Snapshot()
	assert.Greater(t, night.StaticVersion, day.StaticVersion)
	assert.NotEqual(t, dayClear, s.ClearColor())
	assert.Len(t, s.Lights().Points, 1+len(layout.DefaultTables().Lamps))

	assert.Equal(t, common.ThemeDay, s.ToggleTheme())
	assert.Equal(t, day.Static, s.Snapshot().Static)
}

func TestThemeSwitchKeepsSignalPhase(t *testing.T) {
	s := newTestScene()
	s.Update(epoch)
	s.Update(epoch.Add(3 * time.Second))

	s.SetTheme(common.ThemeNight)
	for _, signal := range litLenses(t, s.Objects()) {
		assert.Equal(t, traffic.SignalYellow, signal)
	}
}

func TestSetThemeIgnoresUnknownAndSame(t *testing.T) {
	s := newTestScene()
	v := s.Snapshot().StaticVersion
	s.SetTheme(common.ThemeDay)
	s.SetTheme(common.ThemeCount)
	assert.Equal(t, v, s.Snapshot().StaticVersion)
	assert.Equal(t, common.ThemeDay, s.Theme())
}

func TestObjectsReturnsCopy(t *testing.T) {
	s := newTestScene()
	objs := s.Objects()
	objs[0].Group = "mutated"
	assert.NotEqual(t, "mutated", s.Objects()[0].Group)
}

func TestSnapshotPartitionsEveryObject(t *testing.T) {
	s := newTestScene()
	snap := s.Snapshot()
	assert.Equal(t, len(s.Objects()), len(snap.Static)+len(snap.Dynamic))
	for _, o := range snap.Static {
		kind := groupKind(o.Group)
		assert.NotEqual(t, layout.GroupTree, kind)
		assert.NotEqual(t, layout.GroupVehicle, kind)
	}
}

func TestStats(t *testing.T) {
	s := newTestScene(WithTheme(common.ThemeNight))
	tables := layout.DefaultTables()
	st := s.Stats()

	assert.Equal(t, common.ThemeNight, st.Theme)
	assert.Equal(t, len(s.Objects()), st.Objects)
	assert.Equal(t, len(tables.Buildings), st.Groups[layout.GroupBuilding])
	assert.Equal(t, len(tables.TrafficLights), st.Groups[layout.GroupTrafficLight])
	assert.Equal(t, len(tables.Vehicles), st.Groups[layout.GroupVehicle])
	assert.Equal(t, 1+len(tables.Lamps), st.PointLights)
	assert.NotZero(t, st.Transparent)
	assert.Contains(t, st.GroupKinds(), layout.GroupTree)
}

func TestConcurrentUpdateAndSnapshot(t *testing.T) {
	s := newTestScene()
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			s.Update(epoch.Add(time.Duration(i) * 50 * time.Millisecond))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			_ = s.Snapshot()
			if i%50 == 0 {
				s.ToggleTheme()
			}
		}
	}()
	wg.Wait()
	assert.Len(t, litLenses(t, s.Objects()), 4)
}

func hoverScene(t *testing.T) Scene {
	t.Helper()
	tables := layout.Tables{
		Streets: layout.DefaultTables().Streets,
		Buildings: []layout.BuildingDescriptor{
			{ID: "near", Position: layout.Point2{X: 10}, Height: 6, Width: 4, Depth: 4, Type: layout.BuildingOffice},
			{ID: "far", Position: layout.Point2{X: 20}, Height: 12, Width: 4, Depth: 4, Type: layout.BuildingHotel},
		},
	}
	return NewScene(layout.NewGenerator(layout.WithTables(tables), layout.WithQuiet(true)))
}

func bodyOf(t *testing.T, s Scene, group string) so.SceneObject {
	t.Helper()
	for _, o := range s.Objects() {
		if o.Group == group && o.Part == layout.PartBody {
			return o
		}
	}
	require.Failf(t, "no body", "group %s", group)
	return so.SceneObject{}
}

func TestPickReturnsNearestBody(t *testing.T) {
	s := hoverScene(t)

	group, ok := s.Pick(common.V3(0, 3, 0), common.V3(1, 0, 0))
	require.True(t, ok)
	assert.Equal(t, "building/near", group)

	// Above the near building only the tall one is in the way.
	group, ok = s.Pick(common.V3(0, 9, 0), common.V3(1, 0, 0))
	require.True(t, ok)
	assert.Equal(t, "building/far", group)

	_, ok = s.Pick(common.V3(0, 3, 0), common.V3(-1, 0, 0))
	assert.False(t, ok)
}

func TestSetHoveredSwapsBodyLook(t *testing.T) {
	s := hoverScene(t)
	plain := bodyOf(t, s, "building/near")
	version := s.Snapshot().StaticVersion

	s.SetHovered("building/near")
	assert.Equal(t, "building/near", s.Hovered())
	lit := bodyOf(t, s, "building/near")
	assert.Equal(t, layout.HoverColor, lit.Material.Color)
	assert.InDelta(t, layout.HoverScale, lit.Local.Scale.X, 1e-6)
	assert.InDelta(t, layout.HoverScale, lit.Local.Scale.Y, 1e-6)
	assert.Greater(t, s.Snapshot().StaticVersion, version)

	s.SetHovered("building/far")
	assert.Equal(t, plain, bodyOf(t, s, "building/near"))
	assert.Equal(t, layout.HoverColor, bodyOf(t, s, "building/far").Material.Color)

	s.SetHovered("tree/0")
	assert.Empty(t, s.Hovered())
	assert.NotEqual(t, layout.HoverColor, bodyOf(t, s, "building/far").Material.Color)

	version = s.Snapshot().StaticVersion
	s.SetHovered("")
	assert.Equal(t, version, s.Snapshot().StaticVersion)
}

func TestHoverSurvivesThemeChange(t *testing.T) {
	s := hoverScene(t)
	s.SetHovered("building/far")
	s.SetTheme(common.ThemeNight)

	assert.Equal(t, "building/far", s.Hovered())
	assert.Equal(t, layout.HoverColor, bodyOf(t, s, "building/far").Material.Color)
	assert.Equal(t, layout.PaletteFor(layout.BuildingOffice, common.ThemeNight).Body, bodyOf(t, s, "building/near").Material.Color)

	s.SetHovered("")
	assert.Equal(t, layout.PaletteFor(layout.BuildingHotel, common.ThemeNight).Body, bodyOf(t, s, "building/far").Material.Color)
}
