package layout

import (
	"fmt"
	"log"
	"math"
	"strings"

	"github.com/Carmen-Shannon/oxy-city/common"
	"github.com/Carmen-Shannon/oxy-city/engine/traffic"
)

// FloorHeight is the storey height used to derive floor count and window rows.
const FloorHeight = 1.2

// countEpsilon absorbs float32 rounding so exact multiples (3.6, 8.4) floor to the
// decimal count rather than one below it.
const countEpsilon = 1e-6

// BuildingType selects a building's palette and its type-specific parts.
type BuildingType uint8

const (
	BuildingOffice BuildingType = iota
	BuildingResidential
	BuildingMixed
	BuildingHotel

	// BuildingTypeCount sizes the palette tables so a missing entry fails to compile.
	BuildingTypeCount
)

var buildingTypeNames = [BuildingTypeCount]string{
	BuildingOffice:      "office",
	BuildingResidential: "residential",
	BuildingMixed:       "mixed",
	BuildingHotel:       "hotel",
}

func (b BuildingType) String() string {
	if b < BuildingTypeCount {
		return buildingTypeNames[b]
	}
	return fmt.Sprintf("BuildingType(%d)", uint8(b))
}

func (b BuildingType) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// UnmarshalText accepts a type name. Unknown names fall back to office with a warning
// so that one bad table row cannot abort a scene build.
func (b *BuildingType) UnmarshalText(text []byte) error {
	name := strings.ToLower(strings.TrimSpace(string(text)))
	for i, n := range buildingTypeNames {
		if n == name {
			*b = BuildingType(i)
			return nil
		}
	}
	log.Printf("[Layout] unknown building type %q, using office", text)
	*b = BuildingOffice
	return nil
}

// Point2 is a ground-plane position.
type Point2 struct {
	X float32 `json:"x" yaml:"x"`
	Z float32 `json:"z" yaml:"z"`
}

// BuildingDescriptor is one row of the building table.
type BuildingDescriptor struct {
	ID           string       `json:"id,omitempty" yaml:"id,omitempty"`
	Position     Point2       `json:"position" yaml:"position"`
	Height       float32      `json:"height" yaml:"height"`
	Width        float32      `json:"width" yaml:"width"`
	Depth        float32      `json:"depth" yaml:"depth"`
	Type         BuildingType `json:"type" yaml:"type"`
	HasBalconies bool         `json:"hasBalconies,omitempty" yaml:"hasBalconies,omitempty"`
}

// Floors returns floor(height / 1.2).
func (b BuildingDescriptor) Floors() int {
	if b.Height <= 0 {
		return 0
	}
	return int(math.Floor(float64(b.Height)/FloorHeight + countEpsilon))
}

// Columns returns the number of window columns per face, floor(width).
func (b BuildingDescriptor) Columns() int {
	if b.Width <= 0 {
		return 0
	}
	return int(math.Floor(float64(b.Width) + countEpsilon))
}

// PropKind enumerates the street furniture the generator knows how to build.
type PropKind uint8

const (
	PropLamp PropKind = iota
	PropTrafficLight
	PropBench
	PropTree
)

var propKindNames = [...]string{
	PropLamp:         "lamp",
	PropTrafficLight: "traffic-light",
	PropBench:        "bench",
	PropTree:         "tree",
}

func (k PropKind) String() string {
	if int(k) < len(propKindNames) {
		return propKindNames[k]
	}
	return fmt.Sprintf("PropKind(%d)", uint8(k))
}

// PropDescriptor places one prop. Kind is implied by the table the row lives in.
type PropDescriptor struct {
	Position  Point2  `json:"position" yaml:"position"`
	RotationY float32 `json:"rotationY,omitempty" yaml:"rotationY,omitempty"`
	// Scale of 0 means 1.
	Scale float32 `json:"scale,omitempty" yaml:"scale,omitempty"`
}

// VehicleDescriptor seeds one decorative vehicle.
type VehicleDescriptor struct {
	ID    string        `json:"id,omitempty" yaml:"id,omitempty"`
	Route traffic.Route `json:"route" yaml:"route"`
	// Lane is the offset from the boulevard centre line.
	Lane float32 `json:"lane" yaml:"lane"`
	// Start is the position along the route at t = 0.
	Start float32 `json:"start" yaml:"start"`
	// Speed in units per second; the sign selects the direction of travel.
	Speed float32 `json:"speed" yaml:"speed"`
	Color string  `json:"color" yaml:"color"`
}

// StreetGrid describes the ground plane, boulevards, secondary streets, sidewalks and parks.
type StreetGrid struct {
	Extent          float32   `json:"extent" yaml:"extent"`
	BoulevardWidth  float32   `json:"boulevardWidth" yaml:"boulevardWidth"`
	StreetWidth     float32   `json:"streetWidth" yaml:"streetWidth"`
	StreetOffsets   []float32 `json:"streetOffsets" yaml:"streetOffsets"`
	SidewalkWidth   float32   `json:"sidewalkWidth" yaml:"sidewalkWidth"`
	SidewalkOffsets []float32 `json:"sidewalkOffsets" yaml:"sidewalkOffsets"`
	ParkSize        float32   `json:"parkSize" yaml:"parkSize"`
	Parks           []Point2  `json:"parks" yaml:"parks"`
}

// Tables bundles every descriptor table the generator reads.
type Tables struct {
	Streets       StreetGrid           `json:"streets" yaml:"streets"`
	Buildings     []BuildingDescriptor `json:"buildings" yaml:"buildings"`
	Lamps         []PropDescriptor     `json:"lamps" yaml:"lamps"`
	TrafficLights []PropDescriptor     `json:"trafficLights" yaml:"trafficLights"`
	Benches       []PropDescriptor     `json:"benches" yaml:"benches"`
	Trees         []PropDescriptor     `json:"trees" yaml:"trees"`
	Vehicles      []VehicleDescriptor  `json:"vehicles" yaml:"vehicles"`
}

// Clone returns a deep copy so callers can edit tables without touching shared defaults.
func (t Tables) Clone() Tables {
	out := t
	out.Streets.StreetOffsets = append([]float32(nil), t.Streets.StreetOffsets...)
	out.Streets.SidewalkOffsets = append([]float32(nil), t.Streets.SidewalkOffsets...)
	out.Streets.Parks = append([]Point2(nil), t.Streets.Parks...)
	out.Buildings = append([]BuildingDescriptor(nil), t.Buildings...)
	out.Lamps = append([]PropDescriptor(nil), t.Lamps...)
	out.TrafficLights = append([]PropDescriptor(nil), t.TrafficLights...)
	out.Benches = append([]PropDescriptor(nil), t.Benches...)
	out.Trees = append([]PropDescriptor(nil), t.Trees...)
	out.Vehicles = append([]VehicleDescriptor(nil), t.Vehicles...)
	return out
}

// vec3 lifts a ground position to world space at height y.
func (p Point2) vec3(y float32) common.Vec3 {
	return common.V3(p.X, y, p.Z)
}
