package layout

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-city/common"
	so "github.com/Carmen-Shannon/oxy-city/engine/scene_object"
)

func (g *generator) Buildings(theme common.Theme) []so.SceneObject {
	var out []so.SceneObject
	for i, desc := range g.tables.Buildings {
		out = g.appendBuilding(out, i, desc, theme)
	}
	return out
}

// sanitize returns a copy of b with non-positive dimensions raised to minDimension.
func (g *generator) sanitize(i int, b BuildingDescriptor) BuildingDescriptor {
	fix := func(name string, v *float32) {
		if *v > 0 {
			return
		}
		g.warnf("building %d (%s) has %s %g, clamping to %g", i, b.ID, name, *v, minDimension)
		*v = minDimension
	}
	fix("width", &b.Width)
	fix("height", &b.Height)
	fix("depth", &b.Depth)
	return b
}

// buildingGroup returns the group id of the i-th building.
func buildingGroup(i int, b BuildingDescriptor) string {
	if b.ID != "" {
		return GroupBuilding + "/" + b.ID
	}
	return fmt.Sprintf("%s/%d", GroupBuilding, i)
}

func (g *generator) appendBuilding(out []so.SceneObject, i int, desc BuildingDescriptor, theme common.Theme) []so.SceneObject {
	b := g.sanitize(i, desc)
	pal := PaletteFor(b.Type, theme)
	group := buildingGroup(i, b)
	parent := so.WithParent(so.Transform{Position: b.Position.vec3(0), Scale: common.One})
	w, h, d := b.Width, b.Height, b.Depth

	part := func(obj so.SceneObject, name string) {
		obj.Group, obj.Part = group, name
		out = append(out, obj)
	}

	part(so.Box(w+0.4, 0.4, d+0.4, parent, so.WithPosition(0, -0.2, 0), so.WithColor(colorFoundation), so.WithSurface(0.9, 0)), "foundation")
	part(so.Box(w, h, d, parent, so.WithPosition(0, h/2, 0), so.WithColor(pal.Body), so.WithSurface(0.7, 0.1)), PartBody)
	part(so.Box(w+0.2, 0.2, d+0.2, parent, so.WithPosition(0, h+0.1, 0), so.WithColor(pal.Roof)), "roof")
	part(so.Box(0.6, 0.4, 0.8, parent, so.WithPosition(w/3, h+0.3, 0), so.WithColor(colorACUnit)), "roof/ac")
	part(so.Cylinder(0.15, 0.15, 0.5, 8, parent, so.WithPosition(-w/3, h+0.25, d/3), so.WithColor(colorVent)), "roof/vent")

	glass := []so.SceneObjectBuilderOption{
		parent,
		so.WithColor(pal.Window),
		so.WithEmissive(pal.Glow, pal.GlowIntensity),
		so.WithOpacity(0.7),
		so.WithSurface(0.1, 0.3),
	}
	frame := []so.SceneObjectBuilderOption{parent, so.WithColor(colorFrame)}

	floors, cols := b.Floors(), b.Columns()
	for floor := 0; floor < floors; floor++ {
		y := float32(floor)*FloorHeight + 0.6
		for col := 0; col < cols; col++ {
			x := float32(col) - w/2 + 0.5
			for _, face := range [2]float32{1, -1} {
				part(so.Box(0.6, 0.8, 0.04, append(frame, so.WithPosition(x, y, face*(d/2+0.02)))...), PartWindowFrame)
				part(so.Box(0.5, 0.7, 0.02, append(glass, so.WithPosition(x, y, face*(d/2+0.04)))...), PartWindowGlass)
			}
		}

		if b.HasBalconies && b.Type == BuildingResidential && floor > 0 {
			fy := float32(floor) * FloorHeight
			part(so.Box(w*0.8, 0.1, 0.8, parent, so.WithPosition(0, fy+0.1, d/2+0.4), so.WithColor(colorBalcony)), "balcony/slab")
			part(so.Box(w*0.8, 0.8, 0.05, parent, so.WithPosition(0, fy+0.5, d/2+0.75), so.WithColor(colorFrame), so.WithOpacity(0.8)), "balcony/rail")
		}
	}

	if b.Type == BuildingOffice {
		part(so.Box(1.4, 1.8, 0.1, parent, so.WithPosition(0, 0.8, d/2+0.05), so.WithColor(colorDoor)), PartEntrance)
		for _, x := range [2]float32{0.3, -0.3} {
			part(so.Cylinder(0.02, 0.02, 0.1, 8, parent, so.WithPosition(x, 0.8, d/2+0.11), so.WithColor(colorHandle), so.WithSurface(0.3, 0.9)), "entrance/handle")
		}
	}
	return out
}
