package layout

import (
	"fmt"
	"math"

	"github.com/Carmen-Shannon/oxy-city/common"
	so "github.com/Carmen-Shannon/oxy-city/engine/scene_object"
	"github.com/Carmen-Shannon/oxy-city/engine/traffic"
)

// lensHeights is the Y of each lens, indexed by the signal it shows.
var lensHeights = [traffic.SignalCount]float32{
	traffic.SignalRed:    3.5,
	traffic.SignalYellow: 3.2,
	traffic.SignalGreen:  2.9,
}

func (g *generator) Props(theme common.Theme) []so.SceneObject {
	if theme >= common.ThemeCount {
		theme = common.ThemeDay
	}
	var out []so.SceneObject
	for i, p := range g.tables.Lamps {
		out = appendLamp(out, fmt.Sprintf("%s/%d", GroupLamp, i), p, theme)
	}
	for i, p := range g.tables.TrafficLights {
		out = appendTrafficLight(out, fmt.Sprintf("%s/%d", GroupTrafficLight, i), p)
	}
	for i, p := range g.tables.Benches {
		out = appendBench(out, fmt.Sprintf("%s/%d", GroupBench, i), p)
	}
	for i, p := range g.tables.Trees {
		out = appendTree(out, fmt.Sprintf("%s/%d", GroupTree, i), p)
	}
	for i, v := range g.tables.Vehicles {
		out = g.appendVehicle(out, i, v, theme)
	}
	return out
}

// propParent is the group pose of a prop descriptor.
func propParent(p PropDescriptor) so.Transform {
	s := p.Scale
	if s <= 0 {
		s = 1
	}
	return so.Transform{
		Position: p.Position.vec3(0),
		Rotation: common.V3(0, p.RotationY, 0),
		Scale:    common.V3(s, s, s),
	}
}

// grouped stamps a group, part and parent pose onto obj.
func grouped(obj so.SceneObject, group, part string, parent so.Transform) so.SceneObject {
	obj.Group, obj.Part, obj.Parent = group, part, parent
	return obj
}

func appendLamp(out []so.SceneObject, group string, p PropDescriptor, theme common.Theme) []so.SceneObject {
	parent := propParent(p)

	bulb := so.Sphere(0.12, 12,
		so.WithPosition(0, 4.9, 0),
		so.WithColor(colorBulb),
		so.WithEmissive(colorBulb, bulbIntensity[theme]),
	)
	if theme == common.ThemeNight {
		bulb.Light = &so.PointLight{Color: lampLight.Color, Intensity: lampLight.Intensity, Range: lampLight.Range}
	}

	return append(out,
		grouped(so.Cylinder(0.15, 0.2, 0.2, 8, so.WithPosition(0, 0.1, 0), so.WithColor(colorLampBase), so.WithSurface(0.3, 0.8)), group, "base", parent),
		grouped(so.Cylinder(0.05, 0.08, 5, 12, so.WithPosition(0, 2.5, 0), so.WithColor(colorLampPole), so.WithSurface(0.4, 0.7)), group, "pole", parent),
		grouped(so.Cylinder(0.25, 0.15, 0.4, 8, so.WithPosition(0, 5.2, 0), so.WithColor(colorLampHead), so.WithSurface(0.2, 0.8)), group, "head", parent),
		grouped(bulb, group, PartBulb, parent),
		grouped(so.Torus(0.12, 0.02, 16, so.WithPosition(0, 3, 0), so.WithColor(colorLampHead), so.WithSurface(0.5, 0.8)), group, "ring", parent),
	)
}

func appendTrafficLight(out []so.SceneObject, group string, p PropDescriptor) []so.SceneObject {
	parent := propParent(p)

	out = append(out,
		grouped(so.Cylinder(0.04, 0.06, 3, 8, so.WithPosition(0, 1.5, 0), so.WithColor(colorSignalPole), so.WithSurface(0.5, 0.8)), group, "pole", parent),
		grouped(so.Box(0.25, 0.8, 0.15, so.WithPosition(0, 3.2, 0), so.WithColor(colorSignalHousing)), group, "housing", parent),
	)
	for lens := traffic.SignalRed; lens < traffic.SignalCount; lens++ {
		obj := so.Cylinder(0.06, 0.06, 0.02, 16,
			so.WithPosition(0, lensHeights[lens], 0.08),
			so.WithMaterial(LensMaterial(lens, traffic.SignalRed)),
		)
		out = append(out, grouped(obj, group, LensPart(lens), parent))
	}
	return append(out,
		grouped(so.Box(0.3, 0.05, 0.2, so.WithPosition(0, 3.6, 0.05), so.WithColor(colorSignalHousing)), group, "visor", parent),
	)
}

func appendBench(out []so.SceneObject, group string, p PropDescriptor) []so.SceneObject {
	parent := propParent(p)

	out = append(out,
		grouped(so.Box(1.5, 0.08, 0.4, so.WithPosition(0, 0.35, 0), so.WithColor(colorWood)), group, "seat", parent),
		grouped(so.Box(1.5, 0.6, 0.08, so.WithPosition(0, 0.7, -0.15), so.WithRotation(0.1, 0, 0), so.WithColor(colorWood)), group, "back", parent),
	)
	for _, x := range [2]float32{-0.6, 0.6} {
		for _, z := range [2]float32{-0.1, 0.1} {
			out = append(out, grouped(so.Box(0.08, 0.3, 0.08, so.WithPosition(x, 0.15, z), so.WithColor(colorDarkWood)), group, "leg", parent))
		}
	}
	return append(out,
		grouped(so.Box(1.4, 0.04, 0.3, so.WithPosition(0, 0.25, 0), so.WithColor(colorFrame), so.WithSurface(0.5, 0.8)), group, "frame", parent),
	)
}

// foliage lists the canopy spheres of a tree: offset and radius.
var foliage = [3]struct {
	at     common.Vec3
	radius float32
}{
	{common.V3(0, 2.8, 0), 1.2},
	{common.V3(0.3, 2.4, 0.2), 0.8},
	{common.V3(-0.2, 2.6, -0.3), 0.9},
}

// treeBranches is the number of small branches ringing the trunk.
const treeBranches = 6

func appendTree(out []so.SceneObject, group string, p PropDescriptor) []so.SceneObject {
	parent := propParent(p)

	out = append(out,
		grouped(so.Cylinder(0.1, 0.2, 2, 8, so.WithPosition(0, 1, 0), so.WithColor(colorWood), so.WithSurface(0.9, 0)), group, "trunk", parent),
		grouped(so.Cylinder(0.18, 0.22, 1, 8, so.WithPosition(0, 0.5, 0), so.WithColor(colorDarkWood), so.WithSurface(0.9, 0)), group, "trunk/detail", parent),
	)
	for i, f := range foliage {
		out = append(out, grouped(so.Sphere(f.radius, 8, so.WithPosition(f.at.X, f.at.Y, f.at.Z), so.WithColor(colorFoliage[i])), group, PartFoliage, parent))
	}
	for i := 0; i < treeBranches; i++ {
		a := float32(i) * 2 * math.Pi / treeBranches
		x := float32(math.Cos(float64(a))) * 0.8
		z := float32(math.Sin(float64(a))) * 0.8
		out = append(out, grouped(so.Cylinder(0.02, 0.04, 0.6, 6,
			so.WithPosition(x, 2.2, z),
			so.WithRotation(0, a, math.Pi/6),
			so.WithColor(colorWood),
		), group, "branch", parent))
	}
	return out
}

// VehicleGroup returns the group id of the i-th vehicle.
func VehicleGroup(i int, v VehicleDescriptor) string {
	if v.ID != "" {
		return GroupVehicle + "/" + v.ID
	}
	return fmt.Sprintf("%s/%d", GroupVehicle, i)
}

// Motion returns the traffic.Vehicle that animates a vehicle descriptor within the
// generator's street extent.
func (g *generator) Motion(v VehicleDescriptor) traffic.Vehicle {
	return traffic.Vehicle{
		Route:      v.Route,
		Lane:       v.Lane,
		Start:      v.Start,
		Speed:      v.Speed,
		HalfExtent: g.tables.Streets.Extent / 2,
	}
}

func (g *generator) appendVehicle(out []so.SceneObject, i int, v VehicleDescriptor, theme common.Theme) []so.SceneObject {
	group := VehicleGroup(i, v)
	body, err := common.ParseHex(v.Color)
	if err != nil {
		g.warnf("vehicle %s: %v, using white", group, err)
		body = common.Hex("#ffffff")
	}

	pos, yaw := g.Motion(v).At(0)
	parent := so.Transform{Position: pos, Rotation: common.V3(0, yaw, 0), Scale: common.One}

	headlight := float32(0.2)
	if theme == common.ThemeNight {
		headlight = 1
	}

	out = append(out,
		grouped(so.Box(1.6, 0.5, 0.8, so.WithPosition(0, 0.45, 0), so.WithColor(body), so.WithSurface(0.4, 0.5)), group, PartBody, parent),
		grouped(so.Box(0.9, 0.4, 0.7, so.WithPosition(-0.1, 0.9, 0), so.WithColor(colorCabinGlass), so.WithOpacity(0.85)), group, "cabin", parent),
	)
	for _, x := range [2]float32{-0.5, 0.5} {
		for _, z := range [2]float32{-0.4, 0.4} {
			out = append(out, grouped(so.Cylinder(0.18, 0.18, 0.12, 12,
				so.WithPosition(x, 0.18, z),
				so.WithRotation(math.Pi/2, 0, 0),
				so.WithColor(colorTyre),
			), group, "wheel", parent))
		}
	}
	for _, z := range [2]float32{-0.25, 0.25} {
		out = append(out, grouped(so.Box(0.04, 0.12, 0.16,
			so.WithPosition(0.81, 0.5, z),
			so.WithColor(colorBulb),
			so.WithEmissive(colorBulb, headlight),
		), group, "headlight", parent))
	}
	return out
}
