package scene_object

import "github.com/Carmen-Shannon/oxy-city/common"

// SceneObjectBuilderOption is a functional option for configuring a SceneObject during construction.
type SceneObjectBuilderOption func(*SceneObject)

// NewSceneObject creates a SceneObject of the given kind. Defaults are an opaque white
// material with roughness 0.8, identity local and parent transforms.
//
// Parameters:
//   - kind: the primitive to tessellate
//   - options: functional options to configure the object
//
// Returns:
//   - SceneObject: the configured object
func NewSceneObject(kind GeometryKind, options ...SceneObjectBuilderOption) SceneObject {
	o := SceneObject{
		Kind: kind,
		Material: Material{
			Color:     common.Color{R: 1, G: 1, B: 1, A: 1},
			Emissive:  common.Black,
			Opacity:   1,
			Roughness: 0.8,
		},
		Local:  IdentityTransform,
		Parent: IdentityTransform,
	}
	for _, opt := range options {
		opt(&o)
	}
	return o
}

// Box is shorthand for a box with the given size.
func Box(w, h, d float32, options ...SceneObjectBuilderOption) SceneObject {
	return NewSceneObject(GeometryBox, append([]SceneObjectBuilderOption{WithDimensions(Dimensions{Width: w, Height: h, Depth: d})}, options...)...)
}

// Plane is shorthand for a horizontal plane with the given footprint.
func Plane(w, d float32, options ...SceneObjectBuilderOption) SceneObject {
	return NewSceneObject(GeometryPlane, append([]SceneObjectBuilderOption{WithDimensions(Dimensions{Width: w, Depth: d})}, options...)...)
}

// Cylinder is shorthand for a Y-aligned cylinder or frustum.
func Cylinder(radiusTop, radiusBottom, h float32, segments int, options ...SceneObjectBuilderOption) SceneObject {
	dims := Dimensions{RadiusTop: radiusTop, RadiusBottom: radiusBottom, Height: h, Segments: segments}
	return NewSceneObject(GeometryCylinder, append([]SceneObjectBuilderOption{WithDimensions(dims)}, options...)...)
}

// Sphere is shorthand for a UV sphere.
func Sphere(radius float32, segments int, options ...SceneObjectBuilderOption) SceneObject {
	dims := Dimensions{Radius: radius, Segments: segments}
	return NewSceneObject(GeometrySphere, append([]SceneObjectBuilderOption{WithDimensions(dims)}, options...)...)
}

// Torus is shorthand for a ring.
func Torus(radius, tube float32, segments int, options ...SceneObjectBuilderOption) SceneObject {
	dims := Dimensions{Radius: radius, Tube: tube, Segments: segments}
	return NewSceneObject(GeometryTorus, append([]SceneObjectBuilderOption{WithDimensions(dims)}, options...)...)
}

// WithGroup sets the owning group id and the part name.
//
// Parameters:
//   - group: id shared by every object of one prop or building
//   - part: the role of this object within the group
//
// Returns:
//   - SceneObjectBuilderOption: functional option to set the group and part
func WithGroup(group, part string) SceneObjectBuilderOption {
	return func(o *SceneObject) {
		o.Group = group
		o.Part = part
	}
}

// WithDimensions sets the primitive size parameters.
func WithDimensions(d Dimensions) SceneObjectBuilderOption {
	return func(o *SceneObject) {
		o.Dimensions = d
	}
}

// WithColor sets the base colour.
func WithColor(c common.Color) SceneObjectBuilderOption {
	return func(o *SceneObject) {
		o.Material.Color = c
	}
}

// WithEmissive sets the emitted colour and its intensity.
//
// Parameters:
//   - c: emitted colour
//   - intensity: multiplier applied to c
//
// Returns:
//   - SceneObjectBuilderOption: functional option to set emission
func WithEmissive(c common.Color, intensity float32) SceneObjectBuilderOption {
	return func(o *SceneObject) {
		o.Material.Emissive = c
		o.Material.EmissiveIntensity = intensity
	}
}

// WithOpacity sets the material opacity; values below 1 are alpha blended.
func WithOpacity(opacity float32) SceneObjectBuilderOption {
	return func(o *SceneObject) {
		o.Material.Opacity = common.Clamp(opacity, 0, 1)
	}
}

// WithSurface sets roughness and metalness.
func WithSurface(roughness, metalness float32) SceneObjectBuilderOption {
	return func(o *SceneObject) {
		o.Material.Roughness = roughness
		o.Material.Metalness = metalness
	}
}

// WithMaterial replaces the whole material.
func WithMaterial(m Material) SceneObjectBuilderOption {
	return func(o *SceneObject) {
		o.Material = m
	}
}

// WithPosition sets the local position relative to the parent.
func WithPosition(x, y, z float32) SceneObjectBuilderOption {
	return func(o *SceneObject) {
		o.Local.Position = common.V3(x, y, z)
	}
}

// WithRotation sets the local Euler rotation in radians.
func WithRotation(rx, ry, rz float32) SceneObjectBuilderOption {
	return func(o *SceneObject) {
		o.Local.Rotation = common.V3(rx, ry, rz)
	}
}

// WithScale sets the local scale.
func WithScale(sx, sy, sz float32) SceneObjectBuilderOption {
	return func(o *SceneObject) {
		o.Local.Scale = common.V3(sx, sy, sz)
	}
}

// WithParent sets the group pose shared by all objects of a prop or building.
func WithParent(t Transform) SceneObjectBuilderOption {
	return func(o *SceneObject) {
		o.Parent = t
	}
}

// WithLight attaches a point light emitted from the object's origin.
func WithLight(l PointLight) SceneObjectBuilderOption {
	return func(o *SceneObject) {
		o.Light = &l
	}
}
