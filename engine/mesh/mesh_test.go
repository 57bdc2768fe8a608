package mesh

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-city/common"
	so "github.com/Carmen-Shannon/oxy-city/engine/scene_object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrimitiveCounts(t *testing.T) {
	tests := []struct {
		name      string
		kind      so.GeometryKind
		dims      so.Dimensions
		triangles int
	}{
		{"box", so.GeometryBox, so.Dimensions{Width: 1, Height: 2, Depth: 3}, 12},
		{"plane", so.GeometryPlane, so.Dimensions{Width: 4, Depth: 4}, 2},
		{"cylinder", so.GeometryCylinder, so.Dimensions{RadiusTop: 1, RadiusBottom: 1, Height: 2, Segments: 8}, 8*2 + 8 + 8},
		{"cone", so.GeometryCylinder, so.Dimensions{RadiusBottom: 1, Height: 2, Segments: 6}, 6*2 + 6},
		{"sphere", so.GeometrySphere, so.Dimensions{Radius: 1, Segments: 8}, 8 * 4 * 2},
		{"torus", so.GeometryTorus, so.Dimensions{Radius: 1, Tube: 0.1, Segments: 16}, 16 * torusTubeSegments * 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Primitive(tt.kind, tt.dims)
			assert.Equal(t, tt.triangles, m.Triangles())
			for _, i := range m.Indices {
				require.Less(t, int(i), len(m.Vertices))
			}
		})
	}
}

func TestBoxBounds(t *testing.T) {
	lo, hi := Primitive(so.GeometryBox, so.Dimensions{Width: 2, Height: 4, Depth: 6}).Bounds()
	assert.Equal(t, common.V3(-1, -2, -3), lo)
	assert.Equal(t, common.V3(1, 2, 3), hi)
}

func TestObjectAppliesTransformAndMaterial(t *testing.T) {
	o := so.Box(2, 2, 2,
		so.WithPosition(0, 1, 0),
		so.WithParent(so.Transform{Position: common.V3(10, 0, 0), Scale: common.One}),
		so.WithColor(common.Hex("#ff0000")),
		so.WithEmissive(common.Hex("#ffffff"), 0.5),
	)
	m := Object(o)
	lo, hi := m.Bounds()
	assert.InDelta(t, 9, lo.X, 1e-5)
	assert.InDelta(t, 11, hi.X, 1e-5)
	assert.InDelta(t, 0, lo.Y, 1e-5)
	assert.InDelta(t, 2, hi.Y, 1e-5)

	v := m.Vertices[0]
	assert.Equal(t, [4]float32{1, 0, 0, 1}, v.Color)
	assert.InDelta(t, 0.5, v.Emission[0], 1e-5)
}

func TestTessellateSplitsTransparent(t *testing.T) {
	tess := NewTessellator(WithWorkers(1))
	defer tess.Release()

	b := tess.Tessellate([]so.SceneObject{
		so.Box(1, 1, 1),
		so.Box(1, 1, 1, so.WithOpacity(0.5)),
		so.Plane(1, 1),
	})
	assert.Equal(t, 14, b.Opaque.Triangles())
	assert.Equal(t, 12, b.Transparent.Triangles())
	assert.Equal(t, float32(0.5), b.Transparent.Vertices[0].Color[3])
}

func TestParallelTessellationMatchesInline(t *testing.T) {
	objects := make([]so.SceneObject, 0, 500)
	for i := 0; i < 500; i++ {
		f := float32(i)
		switch i % 3 {
		case 0:
			objects = append(objects, so.Box(1, f*0.01+1, 1, so.WithPosition(f, 0, 0)))
		case 1:
			objects = append(objects, so.Sphere(0.5, 8, so.WithPosition(0, f, 0), so.WithOpacity(0.85)))
		default:
			objects = append(objects, so.Cylinder(0.2, 0.3, 1, 6, so.WithPosition(0, 0, f)))
		}
	}

	inline := NewTessellator(WithWorkers(1))
	parallel := NewTessellator(WithWorkers(4))
	defer inline.Release()
	defer parallel.Release()

	want := inline.Tessellate(objects)
	got := parallel.Tessellate(objects)
	assert.Equal(t, want, got)
	assert.Equal(t, 4, parallel.Workers())
}

func TestReleaseIsIdempotent(t *testing.T) {
	tess := NewTessellator(WithWorkers(2))
	tess.Release()
	tess.Release()

	objects := make([]so.SceneObject, 200)
	for i := range objects {
		objects[i] = so.Box(1, 1, 1)
	}
	assert.Equal(t, 200*12, tess.Tessellate(objects).Triangles())
}
