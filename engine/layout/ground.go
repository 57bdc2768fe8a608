package layout

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-city/common"
	so "github.com/Carmen-Shannon/oxy-city/engine/scene_object"
)

// Layer heights. Each flat layer sits above the one before it so coplanar
// surfaces never fight for depth.
const (
	groundY    = -0.1
	boulevardY = 0.0
	streetY    = 0.01
	sidewalkY  = 0.02
	parkY      = 0.03
)

func (g *generator) Ground(theme common.Theme) []so.SceneObject {
	if theme >= common.ThemeCount {
		theme = common.ThemeDay
	}
	pal := groundPalettes[theme]
	grid := g.tables.Streets
	extent := grid.Extent

	out := make([]so.SceneObject, 0, 3+2*len(grid.StreetOffsets)+2*len(grid.SidewalkOffsets)+len(grid.Parks))
	flat := func(part string, w, d float32, x, y, z float32, c common.Color) {
		out = append(out, so.Plane(w, d,
			so.WithGroup(GroupGround, part),
			so.WithPosition(x, y, z),
			so.WithColor(c),
			so.WithSurface(0.8, 0.1),
		))
	}

	flat("ground", extent, extent, 0, groundY, 0, pal.Ground)

	flat("boulevard/z", grid.BoulevardWidth, extent, 0, boulevardY, 0, pal.Boulevard)
	flat("boulevard/x", extent, grid.BoulevardWidth, 0, boulevardY, 0, pal.Boulevard)

	for _, off := range grid.StreetOffsets {
		flat(fmt.Sprintf("street/x=%g", off), grid.StreetWidth, extent, off, streetY, 0, pal.Street)
		flat(fmt.Sprintf("street/z=%g", off), extent, grid.StreetWidth, 0, streetY, off, pal.Street)
	}

	for _, off := range grid.SidewalkOffsets {
		flat(fmt.Sprintf("sidewalk/x=%g", off), grid.SidewalkWidth, extent, off, sidewalkY, 0, pal.Sidewalk)
		flat(fmt.Sprintf("sidewalk/z=%g", off), extent, grid.SidewalkWidth, 0, sidewalkY, off, pal.Sidewalk)
	}

	for i, p := range grid.Parks {
		flat(fmt.Sprintf("park/%d", i), grid.ParkSize, grid.ParkSize, p.X, parkY, p.Z, pal.Park)
	}
	return out
}
