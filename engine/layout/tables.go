package layout

import (
	"fmt"
	"math"
	"os"

	"github.com/Carmen-Shannon/oxy-city/common"
	"github.com/Carmen-Shannon/oxy-city/engine/light"
	"gopkg.in/yaml.v3"
)

// LoadTables reads descriptor tables from a YAML file. Keys the file omits keep the
// canonical default, so a file may override only the buildings, say.
//
// Parameters:
//   - path: the YAML file
//
// Returns:
//   - Tables: the merged tables
//   - error: on read or parse failure, or ErrEmptyTables
func LoadTables(path string) (Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Tables{}, fmt.Errorf("reading layout file: %w", err)
	}
	return ParseTables(data)
}

// ParseTables is LoadTables over in-memory YAML.
func ParseTables(data []byte) (Tables, error) {
	t := DefaultTables()
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Tables{}, fmt.Errorf("parsing layout YAML: %w", err)
	}
	if len(t.Buildings)+len(t.Lamps)+len(t.TrafficLights)+len(t.Benches)+len(t.Trees)+len(t.Vehicles) == 0 {
		return Tables{}, ErrEmptyTables
	}
	return t, nil
}

// Issue is one finding from Validate.
type Issue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (i Issue) String() string {
	return i.Path + ": " + i.Message
}

// Report collects validation findings. Errors make the tables unusable; warnings are
// repaired or tolerated by the generator.
type Report struct {
	Errors   []Issue `json:"errors"`
	Warnings []Issue `json:"warnings"`
}

// Valid reports whether the tables produced no errors.
func (r *Report) Valid() bool {
	return len(r.Errors) == 0
}

func (r *Report) addError(path, format string, args ...any) {
	r.Errors = append(r.Errors, Issue{Path: path, Message: fmt.Sprintf(format, args...)})
}

func (r *Report) addWarning(path, format string, args ...any) {
	r.Warnings = append(r.Warnings, Issue{Path: path, Message: fmt.Sprintf(format, args...)})
}

// Validate checks tables for values the generator will clamp, overlapping footprints,
// positions outside the ground plane and settings that exceed renderer limits.
//
// Parameters:
//   - t: the tables to check
//
// Returns:
//   - *Report: the findings
func Validate(t Tables) *Report {
	r := &Report{}
	grid := t.Streets
	half := grid.Extent / 2

	if grid.Extent <= 0 {
		r.addError("streets.extent", "must be positive, got %g", grid.Extent)
	}
	if grid.BoulevardWidth <= 0 {
		r.addError("streets.boulevardWidth", "must be positive, got %g", grid.BoulevardWidth)
	}

	ids := make(map[string]int)
	for i, b := range t.Buildings {
		path := fmt.Sprintf("buildings[%d]", i)
		if b.Width <= 0 || b.Height <= 0 || b.Depth <= 0 {
			r.addWarning(path, "non-positive dimension (w=%g h=%g d=%g) will be clamped to %g", b.Width, b.Height, b.Depth, minDimension)
		}
		if b.ID != "" {
			if prev, ok := ids[b.ID]; ok {
				r.addError(path+".id", "duplicate id %q (also buildings[%d])", b.ID, prev)
			}
			ids[b.ID] = i
		}
		if outside(b.Position, half) {
			r.addWarning(path+".position", "(%g, %g) lies outside the %g-unit ground plane", b.Position.X, b.Position.Z, grid.Extent)
		}
		if b.HasBalconies && b.Type != BuildingResidential {
			r.addWarning(path+".hasBalconies", "balconies are only built on residential buildings, not %s", b.Type)
		}
		if onBoulevard(b, grid.BoulevardWidth/2) {
			r.addWarning(path, "footprint overlaps the central boulevard")
		}
		for j := 0; j < i; j++ {
			if overlaps(b, t.Buildings[j]) {
				r.addWarning(path, "footprint overlaps buildings[%d]", j)
			}
		}
	}

	for _, set := range []struct {
		name  string
		props []PropDescriptor
	}{
		{"lamps", t.Lamps},
		{"trafficLights", t.TrafficLights},
		{"benches", t.Benches},
		{"trees", t.Trees},
	} {
		for i, p := range set.props {
			if outside(p.Position, half) {
				r.addWarning(fmt.Sprintf("%s[%d].position", set.name, i), "(%g, %g) lies outside the ground plane", p.Position.X, p.Position.Z)
			}
			if p.Scale < 0 {
				r.addWarning(fmt.Sprintf("%s[%d].scale", set.name, i), "negative scale %g is treated as 1", p.Scale)
			}
		}
	}

	if budget := light.MaxPointLights - 1; len(t.Lamps) > budget {
		r.addWarning("lamps", "%d lamps exceed the %d night point lights the renderer uploads; the rest stay unlit", len(t.Lamps), budget)
	}

	for i, v := range t.Vehicles {
		if _, err := common.ParseHex(v.Color); err != nil {
			r.addWarning(fmt.Sprintf("vehicles[%d].color", i), "%v", err)
		}
		if v.Speed == 0 {
			r.addWarning(fmt.Sprintf("vehicles[%d].speed", i), "zero speed parks the vehicle")
		}
	}
	return r
}

func outside(p Point2, half float32) bool {
	return half > 0 && (abs32(p.X) > half || abs32(p.Z) > half)
}

func onBoulevard(b BuildingDescriptor, halfWidth float32) bool {
	return abs32(b.Position.X) < b.Width/2+halfWidth || abs32(b.Position.Z) < b.Depth/2+halfWidth
}

func overlaps(a, b BuildingDescriptor) bool {
	return abs32(a.Position.X-b.Position.X) < (a.Width+b.Width)/2 &&
		abs32(a.Position.Z-b.Position.Z) < (a.Depth+b.Depth)/2
}

func abs32(v float32) float32 {
	return float32(math.Abs(float64(v)))
}
