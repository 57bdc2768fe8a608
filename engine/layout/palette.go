package layout

import (
	"github.com/Carmen-Shannon/oxy-city/common"
	"github.com/Carmen-Shannon/oxy-city/engine/scene_object"
	"github.com/Carmen-Shannon/oxy-city/engine/traffic"
)

// BuildingPalette is the colour set for one building type under one theme.
type BuildingPalette struct {
	Body   common.Color
	Window common.Color
	Roof   common.Color
	// Glow is the window emission colour; GlowIntensity scales it.
	Glow          common.Color
	GlowIntensity float32
}

// nightDarken is how far night body, roof and ground colours are blended toward black.
const nightDarken = 0.45

// dayPalettes holds the daytime colours per building type.
var dayPalettes = [BuildingTypeCount]BuildingPalette{
	BuildingOffice:      {Body: common.Hex("#696969"), Window: common.Hex("#E0E0E0"), Roof: common.Hex("#2F4F4F"), Glow: common.Hex("#001122"), GlowIntensity: 0.1},
	BuildingResidential: {Body: common.Hex("#8B7355"), Window: common.Hex("#FFE135"), Roof: common.Hex("#654321"), Glow: common.Hex("#332200"), GlowIntensity: 0.1},
	BuildingMixed:       {Body: common.Hex("#5A5A5A"), Window: common.Hex("#87CEEB"), Roof: common.Hex("#4A4A4A"), Glow: common.Hex("#001122"), GlowIntensity: 0.1},
	BuildingHotel:       {Body: common.Hex("#B0C4DE"), Window: common.Hex("#FFF8DC"), Roof: common.Hex("#778899"), Glow: common.Hex("#001122"), GlowIntensity: 0.1},
}

// nightPalette darkens the shell of a day palette and lights its windows.
func nightPalette(day BuildingPalette) BuildingPalette {
	return BuildingPalette{
		Body:          day.Body.Darken(nightDarken),
		Window:        day.Window,
		Roof:          day.Roof.Darken(nightDarken),
		Glow:          day.Window,
		GlowIntensity: 0.6,
	}
}

// buildingPalettes is indexed by [type][theme]; both dimensions are sized by their
// enum's count constant so an added type or theme without colours does not compile.
var buildingPalettes = func() [BuildingTypeCount][common.ThemeCount]BuildingPalette {
	var out [BuildingTypeCount][common.ThemeCount]BuildingPalette
	for t, day := range dayPalettes {
		out[t][common.ThemeDay] = day
		out[t][common.ThemeNight] = nightPalette(day)
	}
	return out
}()

// PaletteFor looks up the colours for a building type under a theme.
//
// Parameters:
//   - t: the building type
//   - theme: day or night
//
// Returns:
//   - BuildingPalette: the colour set
func PaletteFor(t BuildingType, theme common.Theme) BuildingPalette {
	if t >= BuildingTypeCount {
		t = BuildingOffice
	}
	if theme >= common.ThemeCount {
		theme = common.ThemeDay
	}
	return buildingPalettes[t][theme]
}

// groundPalette covers the flat layers from the ground plane up to the parks.
type groundPalette struct {
	Ground, Boulevard, Street, Sidewalk, Park common.Color
}

var dayGround = groundPalette{
	Ground:    common.Hex("#2a2a2a"),
	Boulevard: common.Hex("#1a1a1a"),
	Street:    common.Hex("#333333"),
	Sidewalk:  common.Hex("#444444"),
	Park:      common.Hex("#0d4d0d"),
}

var groundPalettes = [common.ThemeCount]groundPalette{
	common.ThemeDay: dayGround,
	common.ThemeNight: {
		Ground:    dayGround.Ground.Darken(nightDarken),
		Boulevard: dayGround.Boulevard.Darken(nightDarken),
		Street:    dayGround.Street.Darken(nightDarken),
		Sidewalk:  dayGround.Sidewalk.Darken(nightDarken),
		Park:      dayGround.Park.Darken(nightDarken),
	},
}

// clearColors is the sky behind the city.
var clearColors = [common.ThemeCount]common.Color{
	common.ThemeDay:   common.Hex("#dbeafe"),
	common.ThemeNight: common.Hex("#0b1026"),
}

// Fixed prop and fixture colours.
var (
	colorFoundation = common.Hex("#444444")
	colorACUnit     = common.Hex("#666666")
	colorVent       = common.Hex("#888888")
	colorFrame      = common.Hex("#2a2a2a")
	colorBalcony    = common.Hex("#8B7355")
	colorDoor       = common.Hex("#1a1a1a")
	colorHandle     = common.Hex("#c0c0c0")

	colorLampBase = common.Hex("#2a2a2a")
	colorLampPole = common.Hex("#333333")
	colorLampHead = common.Hex("#444444")
	colorBulb     = common.Hex("#FFFACD")

	colorSignalPole    = common.Hex("#2a2a2a")
	colorSignalHousing = common.Hex("#1a1a1a")

	colorWood       = common.Hex("#8B4513")
	colorDarkWood   = common.Hex("#654321")
	colorFoliage    = [3]common.Color{common.Hex("#228B22"), common.Hex("#32CD32"), common.Hex("#2E8B57")}
	colorTyre       = common.Hex("#111111")
	colorCabinGlass = common.Hex("#9fb8c8")
)

// Highlight of the building body under the pointer.
var HoverColor = common.Hex("#87CEEB")

// HoverScale is the uniform scale of a highlighted building body.
const HoverScale = 1.01

// Lamp emission per theme. At night each bulb also carries a point light.
var (
	bulbIntensity = [common.ThemeCount]float32{common.ThemeDay: 0.4, common.ThemeNight: 1.0}
	lampLight     = scene_object.PointLight{Color: colorBulb, Intensity: 0.8, Range: 12}
)

// lensColors holds the active and inactive colour of each lens, indexed by the signal it shows.
var lensColors = [traffic.SignalCount]struct{ Active, Inactive common.Color }{
	traffic.SignalRed:    {Active: common.Hex("#ff0000"), Inactive: common.Hex("#330000")},
	traffic.SignalYellow: {Active: common.Hex("#ffff00"), Inactive: common.Hex("#333300")},
	traffic.SignalGreen:  {Active: common.Hex("#00ff00"), Inactive: common.Hex("#003300")},
}

// LensMaterial returns the material of the lens showing signal lens while the light is
// in state current. Exactly one of the three lenses is emissive for any current state.
//
// Parameters:
//   - lens: which lens (red, yellow or green)
//   - current: the traffic light's active signal
//
// Returns:
//   - scene_object.Material: the lens material
func LensMaterial(lens, current traffic.Signal) scene_object.Material {
	c := lensColors[lens%traffic.SignalCount]
	m := scene_object.Material{
		Color:     c.Inactive,
		Emissive:  common.Black,
		Opacity:   1,
		Roughness: 0.3,
	}
	if lens == current {
		m.Color = c.Active
		m.Emissive = c.Active
		m.EmissiveIntensity = 0.5
	}
	return m
}
