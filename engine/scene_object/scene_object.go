package scene_object

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-city/common"
)

// GeometryKind selects the primitive a SceneObject is tessellated from.
type GeometryKind uint8

const (
	// GeometryBox is an axis-aligned box centred on its local origin (width, height, depth).
	GeometryBox GeometryKind = iota
	// GeometryPlane is a horizontal quad in the XZ plane (width, depth).
	GeometryPlane
	// GeometryCylinder is a Y-aligned frustum (radiusTop, radiusBottom, height).
	GeometryCylinder
	// GeometrySphere is a UV sphere (radius).
	GeometrySphere
	// GeometryTorus is a ring in the XY plane (radius, tube).
	GeometryTorus
)

var geometryNames = [...]string{
	GeometryBox:      "box",
	GeometryPlane:    "plane",
	GeometryCylinder: "cylinder",
	GeometrySphere:   "sphere",
	GeometryTorus:    "torus",
}

func (k GeometryKind) String() string {
	if int(k) < len(geometryNames) {
		return geometryNames[k]
	}
	return fmt.Sprintf("GeometryKind(%d)", uint8(k))
}

func (k GeometryKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *GeometryKind) UnmarshalText(b []byte) error {
	for i, n := range geometryNames {
		if n == string(b) {
			*k = GeometryKind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown geometry kind %q", b)
}

// Dimensions holds the size parameters of a primitive. Only the fields relevant to the
// object's GeometryKind are read.
type Dimensions struct {
	Width        float32 `json:"width,omitempty"`
	Height       float32 `json:"height,omitempty"`
	Depth        float32 `json:"depth,omitempty"`
	RadiusTop    float32 `json:"radiusTop,omitempty"`
	RadiusBottom float32 `json:"radiusBottom,omitempty"`
	Radius       float32 `json:"radius,omitempty"`
	Tube         float32 `json:"tube,omitempty"`
	// Segments is the radial tessellation hint for round primitives.
	Segments int `json:"segments,omitempty"`
}

// Material is the surface description handed to the renderer.
type Material struct {
	Color             common.Color `json:"color"`
	Emissive          common.Color `json:"emissive"`
	EmissiveIntensity float32      `json:"emissiveIntensity"`
	// Opacity of 1 is fully opaque.
	Opacity   float32 `json:"opacity"`
	Roughness float32 `json:"roughness"`
	Metalness float32 `json:"metalness"`
}

// Emission returns the emitted colour premultiplied by intensity.
func (m Material) Emission() common.Color {
	return m.Emissive.Scale(m.EmissiveIntensity)
}

// Transform is a position, Euler rotation (radians, Y*X*Z order) and scale.
type Transform struct {
	Position common.Vec3 `json:"position"`
	Rotation common.Vec3 `json:"rotation"`
	Scale    common.Vec3 `json:"scale"`
}

// IdentityTransform has zero translation and rotation and unit scale.
var IdentityTransform = Transform{Scale: common.One}

// Matrix writes the column-major model matrix of t into out.
func (t Transform) Matrix(out []float32) {
	common.BuildModelMatrix(out, t.Position, t.Rotation, t.Scale)
}

// PointLight is a light source carried by an object, such as a lamp bulb at night.
type PointLight struct {
	Color     common.Color `json:"color"`
	Intensity float32      `json:"intensity"`
	Range     float32      `json:"range"`
}

// SceneObject is one renderer-agnostic drawable: a primitive, its material and its pose.
// Objects belonging to the same prop or building share a Group and a Parent transform so
// that per-frame animation can move the whole group by rewriting Parent.
type SceneObject struct {
	Group      string       `json:"group"`
	Part       string       `json:"part"`
	Kind       GeometryKind `json:"kind"`
	Dimensions Dimensions   `json:"dimensions"`
	Material   Material     `json:"material"`
	Local      Transform    `json:"local"`
	Parent     Transform    `json:"parent"`
	Light      *PointLight  `json:"light,omitempty"`
}

// WorldMatrix writes Parent * Local into out.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
func (o SceneObject) WorldMatrix(out []float32) {
	var parent, local [16]float32
	o.Parent.Matrix(parent[:])
	o.Local.Matrix(local[:])
	common.Mul4(out, parent[:], local[:])
}

// WorldPosition returns the object's origin in world space.
func (o SceneObject) WorldPosition() common.Vec3 {
	var m [16]float32
	o.WorldMatrix(m[:])
	return common.TransformPoint(m[:], common.Vec3{})
}

// Transparent reports whether the object needs alpha blending.
func (o SceneObject) Transparent() bool {
	return o.Material.Opacity < 1
}
