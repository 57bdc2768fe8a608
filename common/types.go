// package common contains the plain value types and math shared across the city engine. They are not interface-wrapped,
// just small structs and helpers that every subsystem passes around by value.
package common

import (
	"fmt"
	"math"
	"strings"
)

// Vec3 is a 3-component float32 vector used for positions, rotations, scales and directions.
type Vec3 struct {
	X float32 `json:"x" yaml:"x"`
	Y float32 `json:"y" yaml:"y"`
	Z float32 `json:"z" yaml:"z"`
}

// V3 is shorthand for constructing a Vec3.
func V3(x, y, z float32) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// One is the unit scale.
var One = Vec3{X: 1, Y: 1, Z: 1}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

func (v Vec3) Scale(s float32) Vec3 {
	return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

func (v Vec3) Dot(o Vec3) float32 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		X: v.Y*o.Z - v.Z*o.Y,
		Y: v.Z*o.X - v.X*o.Z,
		Z: v.X*o.Y - v.Y*o.X,
	}
}

// Len returns the Euclidean length of v.
func (v Vec3) Len() float32 {
	return float32(math.Sqrt(float64(v.Dot(v))))
}

// Normalize returns v scaled to unit length. A zero vector is returned unchanged.
func (v Vec3) Normalize() Vec3 {
	l := v.Len()
	if l == 0 {
		return v
	}
	return v.Scale(1 / l)
}

// Array returns v as a fixed-size array, the layout GPU vertex structs expect.
func (v Vec3) Array() [3]float32 {
	return [3]float32{v.X, v.Y, v.Z}
}

// Theme is the day/night flag that drives palette selection and lighting.
type Theme uint8

const (
	// ThemeDay is the default daylight palette.
	ThemeDay Theme = iota
	// ThemeNight darkens surfaces and lights windows and lamps.
	ThemeNight

	// ThemeCount is the number of themes, used to size palette tables.
	ThemeCount
)

// Toggle returns the opposite theme.
func (t Theme) Toggle() Theme {
	if t == ThemeNight {
		return ThemeDay
	}
	return ThemeNight
}

func (t Theme) String() string {
	switch t {
	case ThemeDay:
		return "day"
	case ThemeNight:
		return "night"
	default:
		return fmt.Sprintf("Theme(%d)", uint8(t))
	}
}

// ParseTheme converts "day" or "night" (case-insensitive) to a Theme.
//
// Parameters:
//   - s: the theme name
//
// Returns:
//   - Theme: the parsed theme
//   - error: non-nil when s names no theme
func ParseTheme(s string) (Theme, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "day":
		return ThemeDay, nil
	case "night":
		return ThemeNight, nil
	default:
		return ThemeDay, fmt.Errorf("unknown theme %q (want day or night)", s)
	}
}

func (t Theme) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Theme) UnmarshalText(b []byte) error {
	v, err := ParseTheme(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}
