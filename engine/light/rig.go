package light

import "github.com/Carmen-Shannon/oxy-city/common"

// MaxPointLights bounds the point lights a renderer uploads per frame.
const MaxPointLights = 32

// Rig is the set of scene-wide lights for one theme. Per-object lights such as lamp
// bulbs are carried by the objects themselves and appended with WithPoints.
type Rig struct {
	Ambient     Light   `json:"ambient"`
	Directional Light   `json:"directional"`
	Points      []Light `json:"points"`
}

// NewRig builds the lighting for a theme. Day is a white ambient fill at 0.4, a sun at
// (20, 30, 20) and a warm centre light at (0, 10, 0). Night dims both and tints them blue.
//
// Parameters:
//   - theme: day or night
//
// Returns:
//   - Rig: the lights
func NewRig(theme common.Theme) Rig {
	centre := NewLight(LightTypePoint,
		WithPosition(0, 10, 0),
		WithColor(common.Hex("#ffffe0")),
		WithIntensity(0.3),
		WithRange(60),
	)
	if theme == common.ThemeNight {
		return Rig{
			Ambient:     NewLight(LightTypeAmbient, WithColor(common.Hex("#8899cc")), WithIntensity(0.15)),
			Directional: NewLight(LightTypeDirectional, WithPosition(-20, 30, -10), WithColor(common.Hex("#9aa8ff")), WithIntensity(0.25)),
			Points:      []Light{centre},
		}
	}
	return Rig{
		Ambient:     NewLight(LightTypeAmbient, WithIntensity(0.4)),
		Directional: NewLight(LightTypeDirectional, WithPosition(20, 30, 20), WithIntensity(1)),
		Points:      []Light{centre},
	}
}

// WithPoints returns a copy of the rig with extra point lights appended, truncated to
// MaxPointLights in total.
//
// Parameters:
//   - extra: point lights to add
//
// Returns:
//   - Rig: the extended rig
func (r Rig) WithPoints(extra ...Light) Rig {
	points := make([]Light, 0, len(r.Points)+len(extra))
	points = append(points, r.Points...)
	points = append(points, extra...)
	if len(points) > MaxPointLights {
		points = points[:MaxPointLights]
	}
	r.Points = points
	return r
}
