package common

import (
	"fmt"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color is an RGBA colour with float32 components in [0, 1].
type Color struct {
	R float32 `json:"r"`
	G float32 `json:"g"`
	B float32 `json:"b"`
	A float32 `json:"a"`
}

// Black is opaque black, also used as "no emission".
var Black = Color{A: 1}

// ParseHex parses a "#rrggbb" or "#rgb" string into an opaque Color.
//
// Parameters:
//   - s: the hex string
//
// Returns:
//   - Color: the parsed colour
//   - error: non-nil if s is not a valid hex colour
func ParseHex(s string) (Color, error) {
	if len(s) == 4 && s[0] == '#' {
		s = string([]byte{'#', s[1], s[1], s[2], s[2], s[3], s[3]})
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("parsing colour %q: %w", s, err)
	}
	return Color{R: float32(c.R), G: float32(c.G), B: float32(c.B), A: 1}, nil
}

// Hex is ParseHex for literals known to be valid. It panics on malformed input.
func Hex(s string) Color {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// String formats the colour as "#rrggbb", dropping alpha.
func (c Color) String() string {
	return c.colorful().Hex()
}

// Scale multiplies the RGB channels by s and keeps alpha.
func (c Color) Scale(s float32) Color {
	return Color{R: c.R * s, G: c.G * s, B: c.B * s, A: c.A}
}

// Darken blends the colour toward black in CIE-Lab space by amount in [0, 1].
func (c Color) Darken(amount float64) Color {
	out := c.colorful().BlendLab(colorful.Color{}, amount).Clamped()
	return Color{R: float32(out.R), G: float32(out.G), B: float32(out.B), A: c.A}
}

// WithAlpha returns a copy with alpha replaced.
func (c Color) WithAlpha(a float32) Color {
	c.A = a
	return c
}

// Array returns the colour as an RGBA array.
func (c Color) Array() [4]float32 {
	return [4]float32{c.R, c.G, c.B, c.A}
}

func (c Color) colorful() colorful.Color {
	return colorful.Color{R: float64(c.R), G: float64(c.G), B: float64(c.B)}
}
