package layout

import (
	"math"

	"github.com/Carmen-Shannon/oxy-city/engine/traffic"
)

// DefaultTables returns a fresh copy of the canonical city: 28 buildings around a
// 4-unit boulevard cross, 24 street lamps, 4 traffic lights at the central
// intersection, 8 park benches, 6 trees and 4 vehicles.
func DefaultTables() Tables {
	return defaultTables.Clone()
}

var defaultTables = Tables{
	Streets: StreetGrid{
		Extent:          100,
		BoulevardWidth:  4,
		StreetWidth:     2,
		StreetOffsets:   []float32{-20, -10, 10, 20},
		SidewalkWidth:   1,
		SidewalkOffsets: []float32{-21, -19, -11, -9, 9, 11, 19, 21},
		ParkSize:        6,
		Parks:           []Point2{{-15, -15}, {15, -15}, {-15, 15}, {15, 15}},
	},
	Buildings: []BuildingDescriptor{
		// Downtown core.
		{Position: Point2{-5, -5}, Height: 15, Width: 4, Depth: 4, Type: BuildingOffice},
		{Position: Point2{5, -5}, Height: 12, Width: 3, Depth: 5, Type: BuildingOffice},
		{Position: Point2{-5, 5}, Height: 18, Width: 3, Depth: 3, Type: BuildingOffice},
		{Position: Point2{5, 5}, Height: 14, Width: 4, Depth: 4, Type: BuildingMixed},

		// Inner ring.
		{Position: Point2{-15, -5}, Height: 8, Width: 3, Depth: 4, Type: BuildingMixed},
		{Position: Point2{15, -5}, Height: 10, Width: 3, Depth: 3, Type: BuildingHotel},
		{Position: Point2{-5, -15}, Height: 9, Width: 4, Depth: 3, Type: BuildingMixed},
		{Position: Point2{5, -15}, Height: 11, Width: 3, Depth: 4, Type: BuildingOffice},
		{Position: Point2{-5, 15}, Height: 7, Width: 3, Depth: 3, Type: BuildingMixed},
		{Position: Point2{5, 15}, Height: 9, Width: 4, Depth: 3, Type: BuildingHotel},

		// Residential edge.
		{Position: Point2{-25, -5}, Height: 6, Width: 3, Depth: 3, Type: BuildingResidential, HasBalconies: true},
		{Position: Point2{25, -5}, Height: 5, Width: 4, Depth: 3, Type: BuildingResidential, HasBalconies: true},
		{Position: Point2{-5, -25}, Height: 4, Width: 3, Depth: 4, Type: BuildingResidential},
		{Position: Point2{5, -25}, Height: 6, Width: 3, Depth: 3, Type: BuildingResidential, HasBalconies: true},
		{Position: Point2{-5, 25}, Height: 5, Width: 4, Depth: 3, Type: BuildingResidential},
		{Position: Point2{5, 25}, Height: 4, Width: 3, Depth: 4, Type: BuildingResidential, HasBalconies: true},

		// Corners.
		{Position: Point2{-25, -25}, Height: 3, Width: 2, Depth: 3, Type: BuildingResidential},
		{Position: Point2{25, -25}, Height: 4, Width: 3, Depth: 2, Type: BuildingMixed},
		{Position: Point2{-25, 25}, Height: 3, Width: 3, Depth: 3, Type: BuildingResidential},
		{Position: Point2{25, 25}, Height: 5, Width: 2, Depth: 3, Type: BuildingMixed},

		// Mid density.
		{Position: Point2{-15, -15}, Height: 7, Width: 3, Depth: 3, Type: BuildingOffice},
		{Position: Point2{15, -15}, Height: 8, Width: 3, Depth: 4, Type: BuildingMixed},
		{Position: Point2{-15, 15}, Height: 6, Width: 4, Depth: 3, Type: BuildingResidential, HasBalconies: true},
		{Position: Point2{15, 15}, Height: 7, Width: 3, Depth: 3, Type: BuildingHotel},

		// Small commercial.
		{Position: Point2{-25, -15}, Height: 2, Width: 3, Depth: 2, Type: BuildingMixed},
		{Position: Point2{25, -15}, Height: 3, Width: 2, Depth: 3, Type: BuildingMixed},
		{Position: Point2{-25, 15}, Height: 2, Width: 2, Depth: 3, Type: BuildingMixed},
		{Position: Point2{25, 15}, Height: 3, Width: 3, Depth: 2, Type: BuildingMixed},
	},
	Lamps:         lampGrid([]float32{-25, -15, -5, 5, 15, 25}, 22),
	TrafficLights: []PropDescriptor{{Position: Point2{-2, -2}}, {Position: Point2{2, -2}}, {Position: Point2{-2, 2}}, {Position: Point2{2, 2}}},
	Benches:       benchRing([]Point2{{-16, -14}, {-14, -16}, {16, -14}, {14, -16}, {-16, 14}, {-14, 16}, {16, 14}, {14, 16}}),
	Trees: []PropDescriptor{
		{Position: Point2{-12, -12}, Scale: 0.8},
		{Position: Point2{12, -12}, Scale: 1.2},
		{Position: Point2{-12, 12}, Scale: 1.0},
		{Position: Point2{12, 12}, Scale: 0.9},
		{Position: Point2{-18, 18}, Scale: 1.1},
		{Position: Point2{18, 18}, Scale: 0.7},
	},
	Vehicles: []VehicleDescriptor{
		{ID: "car-1", Route: traffic.RouteHorizontal, Lane: 1, Start: -40, Speed: 6, Color: "#c0392b"},
		{ID: "car-2", Route: traffic.RouteHorizontal, Lane: -1, Start: 30, Speed: -5, Color: "#2980b9"},
		{ID: "car-3", Route: traffic.RouteVertical, Lane: -1, Start: -10, Speed: 4.5, Color: "#f1c40f"},
		{ID: "car-4", Route: traffic.RouteVertical, Lane: 1, Start: 45, Speed: -7, Color: "#ecf0f1"},
	},
}

// lampGrid lines lamps along both sides of the two outer avenues: x = ±offset for each
// z in along, then z = ±offset for each x in along.
func lampGrid(along []float32, offset float32) []PropDescriptor {
	out := make([]PropDescriptor, 0, len(along)*4)
	for _, side := range []float32{-offset, offset} {
		for _, a := range along {
			out = append(out, PropDescriptor{Position: Point2{side, a}})
		}
	}
	for _, side := range []float32{-offset, offset} {
		for _, a := range along {
			out = append(out, PropDescriptor{Position: Point2{a, side}})
		}
	}
	return out
}

// benchRing turns each successive bench a further eighth of a turn.
func benchRing(at []Point2) []PropDescriptor {
	out := make([]PropDescriptor, len(at))
	for i, p := range at {
		out[i] = PropDescriptor{Position: p, RotationY: float32(i) * math.Pi / 4}
	}
	return out
}
