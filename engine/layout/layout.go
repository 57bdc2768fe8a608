package layout

import (
	"errors"
	"log"

	"github.com/Carmen-Shannon/oxy-city/common"
	"github.com/Carmen-Shannon/oxy-city/engine/light"
	"github.com/Carmen-Shannon/oxy-city/engine/scene_object"
	"github.com/Carmen-Shannon/oxy-city/engine/traffic"
)

// ErrEmptyTables is returned when a descriptor file defines no buildings and no props.
var ErrEmptyTables = errors.New("layout tables contain nothing to place")

// minDimension replaces non-positive building dimensions.
const minDimension = 0.1

// Group id prefixes. Every SceneObject's Group is "<prefix>/<index or id>".
const (
	GroupGround       = "ground"
	GroupBuilding     = "building"
	GroupLamp         = "lamp"
	GroupTrafficLight = "traffic-light"
	GroupBench        = "bench"
	GroupTree         = "tree"
	GroupVehicle      = "vehicle"
)

// Part names the scene and tests look objects up by.
const (
	PartWindowFrame = "window/frame"
	PartWindowGlass = "window/glass"
	PartEntrance    = "entrance/door"
	PartBody        = "body"
	PartBulb        = "bulb"
	PartFoliage     = "foliage"
)

// LensPart names the lens of a traffic light that shows signal s.
func LensPart(s traffic.Signal) string {
	return "lens/" + s.String()
}

// Generator turns descriptor tables into SceneObjects for one theme. Every method is
// a pure function of the generator's tables and the theme argument: calling it twice
// with the same theme yields equal slices, and the tables are never modified.
type Generator interface {
	// Ground returns the ground plane, boulevards, secondary streets, sidewalks and parks.
	// Layers are stacked ground < boulevard < street < sidewalk < park in Y.
	//
	// Parameters:
	//   - theme: day or night palette
	//
	// Returns:
	//   - []scene_object.SceneObject: the ground layers
	Ground(theme common.Theme) []scene_object.SceneObject

	// Buildings returns every part of every building in table order.
	//
	// Parameters:
	//   - theme: day or night palette
	//
	// Returns:
	//   - []scene_object.SceneObject: the building parts
	Buildings(theme common.Theme) []scene_object.SceneObject

	// Props returns lamps, traffic lights (red lens lit), benches, trees and vehicles in
	// their base pose. At night every lamp bulb carries a point light.
	//
	// Parameters:
	//   - theme: day or night palette
	//
	// Returns:
	//   - []scene_object.SceneObject: the prop parts
	Props(theme common.Theme) []scene_object.SceneObject

	// Generate returns Ground, Buildings and Props concatenated in that order.
	//
	// Parameters:
	//   - theme: day or night palette
	//
	// Returns:
	//   - []scene_object.SceneObject: the complete object set
	Generate(theme common.Theme) []scene_object.SceneObject

	// Lights returns the scene-wide lighting rig for a theme.
	//
	// Parameters:
	//   - theme: day or night
	//
	// Returns:
	//   - light.Rig: ambient, directional and centre point lights
	Lights(theme common.Theme) light.Rig

	// ClearColor returns the sky colour for a theme.
	//
	// Parameters:
	//   - theme: day or night
	//
	// Returns:
	//   - common.Color: the background colour
	ClearColor(theme common.Theme) common.Color

	// Motion returns the path a vehicle descriptor follows, bounded by the street extent.
	//
	// Parameters:
	//   - v: the vehicle descriptor
	//
	// Returns:
	//   - traffic.Vehicle: the vehicle's motion
	Motion(v VehicleDescriptor) traffic.Vehicle

	// Tables returns a copy of the descriptor tables the generator reads.
	//
	// Returns:
	//   - Tables: the descriptor tables
	Tables() Tables
}

type generator struct {
	tables Tables
	quiet  bool
}

var _ Generator = &generator{}

// NewGenerator creates a Generator over the canonical tables unless WithTables is given.
// The tables are copied, so later edits by the caller do not leak into generation.
//
// Parameters:
//   - options: functional options to configure the generator
//
// Returns:
//   - Generator: the generator
func NewGenerator(options ...GeneratorBuilderOption) Generator {
	g := &generator{tables: defaultTables}
	for _, opt := range options {
		opt(g)
	}
	g.tables = g.tables.Clone()
	return g
}

func (g *generator) Generate(theme common.Theme) []scene_object.SceneObject {
	ground := g.Ground(theme)
	buildings := g.Buildings(theme)
	props := g.Props(theme)

	out := make([]scene_object.SceneObject, 0, len(ground)+len(buildings)+len(props))
	out = append(out, ground...)
	out = append(out, buildings...)
	return append(out, props...)
}

func (g *generator) Lights(theme common.Theme) light.Rig {
	return light.NewRig(theme)
}

func (g *generator) ClearColor(theme common.Theme) common.Color {
	if theme >= common.ThemeCount {
		theme = common.ThemeDay
	}
	return clearColors[theme]
}

func (g *generator) Tables() Tables {
	return g.tables.Clone()
}

// warnf logs a layout warning unless the generator was built quiet.
func (g *generator) warnf(format string, args ...any) {
	if g.quiet {
		return
	}
	log.Printf("[Layout] "+format, args...)
}
