package light

import (
	"encoding/json"
	"fmt"

	"github.com/Carmen-Shannon/oxy-city/common"
)

// LightType identifies how a light contributes to shading.
type LightType int

const (
	// LightTypeAmbient lights every surface uniformly.
	LightTypeAmbient LightType = iota

	// LightTypeDirectional shines from Position toward the origin, like the sun or moon.
	LightTypeDirectional

	// LightTypePoint emits from Position and fades to nothing at Range.
	LightTypePoint
)

func (t LightType) String() string {
	switch t {
	case LightTypeAmbient:
		return "ambient"
	case LightTypeDirectional:
		return "directional"
	case LightTypePoint:
		return "point"
	default:
		return fmt.Sprintf("LightType(%d)", int(t))
	}
}

type lightImpl struct {
	lightType  LightType
	position   common.Vec3
	direction  common.Vec3
	color      common.Color
	intensity  float32
	lightRange float32
	enabled    bool
}

// Light is a read-mostly light source in the city rig.
type Light interface {
	// Type returns the kind of light.
	//
	// Returns:
	//   - LightType: ambient, directional or point
	Type() LightType

	// Position returns the world-space position. Unused for ambient lights.
	//
	// Returns:
	//   - common.Vec3: the position
	Position() common.Vec3

	// Direction returns the unit vector the light travels along. For directional lights
	// it points from Position toward the origin.
	//
	// Returns:
	//   - common.Vec3: the normalized direction
	Direction() common.Vec3

	// Color returns the light colour.
	//
	// Returns:
	//   - common.Color: the colour
	Color() common.Color

	// Intensity returns the brightness multiplier.
	//
	// Returns:
	//   - float32: the intensity
	Intensity() float32

	// Range returns the distance at which a point light's contribution reaches zero.
	//
	// Returns:
	//   - float32: the range
	Range() float32

	// Enabled reports whether the light contributes to shading.
	//
	// Returns:
	//   - bool: true if enabled
	Enabled() bool

	// SetIntensity changes the brightness multiplier.
	//
	// Parameters:
	//   - intensity: the new intensity
	SetIntensity(intensity float32)

	// SetEnabled turns the light on or off.
	//
	// Parameters:
	//   - enabled: true to enable
	SetEnabled(enabled bool)
}

var _ Light = &lightImpl{}

// NewLight creates a Light of the given type: white, intensity 1, range 10, enabled.
//
// Parameters:
//   - lightType: ambient, directional or point
//   - opts: functional options to configure the light
//
// Returns:
//   - Light: the new light
func NewLight(lightType LightType, opts ...LightBuilderOption) Light {
	l := &lightImpl{
		lightType:  lightType,
		direction:  common.V3(0, -1, 0),
		color:      common.Color{R: 1, G: 1, B: 1, A: 1},
		intensity:  1.0,
		lightRange: 10.0,
		enabled:    true,
	}
	for _, opt := range opts {
		opt(l)
	}
	if lightType == LightTypeDirectional && l.position != (common.Vec3{}) {
		l.direction = l.position.Scale(-1).Normalize()
	}
	return l
}

func (l *lightImpl) Type() LightType {
	return l.lightType
}

func (l *lightImpl) Position() common.Vec3 {
	return l.position
}

func (l *lightImpl) Direction() common.Vec3 {
	return l.direction
}

func (l *lightImpl) Color() common.Color {
	return l.color
}

func (l *lightImpl) Intensity() float32 {
	return l.intensity
}

func (l *lightImpl) Range() float32 {
	return l.lightRange
}

func (l *lightImpl) Enabled() bool {
	return l.enabled
}

func (l *lightImpl) SetIntensity(intensity float32) {
	l.intensity = intensity
}

func (l *lightImpl) SetEnabled(enabled bool) {
	l.enabled = enabled
}

// Snapshot is the serializable form of a Light.
type Snapshot struct {
	Type      string       `json:"type"`
	Position  common.Vec3  `json:"position"`
	Direction common.Vec3  `json:"direction"`
	Color     common.Color `json:"color"`
	Intensity float32      `json:"intensity"`
	Range     float32      `json:"range,omitempty"`
}

// SnapshotOf returns the serializable form of l.
func SnapshotOf(l Light) Snapshot {
	return Snapshot{
		Type:      l.Type().String(),
		Position:  l.Position(),
		Direction: l.Direction(),
		Color:     l.Color(),
		Intensity: l.Intensity(),
		Range:     l.Range(),
	}
}

func (l *lightImpl) MarshalJSON() ([]byte, error) {
	return json.Marshal(SnapshotOf(l))
}
