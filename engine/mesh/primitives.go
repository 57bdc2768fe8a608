package mesh

import (
	"github.com/Carmen-Shannon/oxy-city/common"
	so "github.com/Carmen-Shannon/oxy-city/engine/scene_object"
	"github.com/chewxy/math32"
)

// Default radial segment counts for round primitives whose Segments hint is below three.
const (
	defaultCylinderSegments = 8
	defaultSphereSegments   = 12
	defaultTorusSegments    = 16
	torusTubeSegments       = 8
)

// Primitive builds the local-space mesh of a primitive with white, fully opaque vertices.
// Unknown kinds return an empty mesh.
//
// Parameters:
//   - kind: the primitive
//   - d: its dimensions
//
// Returns:
//   - Mesh: the local-space mesh
func Primitive(kind so.GeometryKind, d so.Dimensions) Mesh {
	switch kind {
	case so.GeometryBox:
		return box(d.Width, d.Height, d.Depth)
	case so.GeometryPlane:
		return plane(d.Width, d.Depth)
	case so.GeometryCylinder:
		return cylinder(d.RadiusTop, d.RadiusBottom, d.Height, segments(d.Segments, defaultCylinderSegments))
	case so.GeometrySphere:
		return sphere(d.Radius, segments(d.Segments, defaultSphereSegments))
	case so.GeometryTorus:
		return torus(d.Radius, d.Tube, segments(d.Segments, defaultTorusSegments))
	}
	return Mesh{}
}

func segments(n, fallback int) int {
	if n < 3 {
		return fallback
	}
	return n
}

func vert(p, n common.Vec3) Vertex {
	return Vertex{Position: p.Array(), Normal: n.Array(), Color: [4]float32{1, 1, 1, 1}}
}

// quad appends a face with corners in counter-clockwise order seen from the normal side.
func (m *Mesh) quad(a, b, c, d, n common.Vec3) {
	base := uint32(len(m.Vertices))
	m.Vertices = append(m.Vertices, vert(a, n), vert(b, n), vert(c, n), vert(d, n))
	m.Indices = append(m.Indices, base, base+1, base+2, base, base+2, base+3)
}

func box(w, h, d float32) Mesh {
	x, y, z := w/2, h/2, d/2
	m := Mesh{
		Vertices: make([]Vertex, 0, 24),
		Indices:  make([]uint32, 0, 36),
	}
	v := common.V3
	m.quad(v(-x, -y, z), v(x, -y, z), v(x, y, z), v(-x, y, z), v(0, 0, 1))
	m.quad(v(x, -y, -z), v(-x, -y, -z), v(-x, y, -z), v(x, y, -z), v(0, 0, -1))
	m.quad(v(x, -y, z), v(x, -y, -z), v(x, y, -z), v(x, y, z), v(1, 0, 0))
	m.quad(v(-x, -y, -z), v(-x, -y, z), v(-x, y, z), v(-x, y, -z), v(-1, 0, 0))
	m.quad(v(-x, y, z), v(x, y, z), v(x, y, -z), v(-x, y, -z), v(0, 1, 0))
	m.quad(v(-x, -y, -z), v(x, -y, -z), v(x, -y, z), v(-x, -y, z), v(0, -1, 0))
	return m
}

func plane(w, d float32) Mesh {
	x, z := w/2, d/2
	var m Mesh
	m.quad(common.V3(-x, 0, z), common.V3(x, 0, z), common.V3(x, 0, -z), common.V3(-x, 0, -z), common.V3(0, 1, 0))
	return m
}

func cylinder(rt, rb, h float32, seg int) Mesh {
	var m Mesh
	half := h / 2
	slope := float32(0)
	if h > 0 {
		slope = (rb - rt) / h
	}
	for i := 0; i <= seg; i++ {
		s, c := math32.Sincos(2 * math32.Pi * float32(i) / float32(seg))
		n := common.V3(c, slope, s).Normalize()
		m.Vertices = append(m.Vertices,
			vert(common.V3(rb*c, -half, rb*s), n),
			vert(common.V3(rt*c, half, rt*s), n),
		)
	}
	for i := 0; i < seg; i++ {
		b := uint32(2 * i)
		m.Indices = append(m.Indices, b, b+1, b+3, b, b+3, b+2)
	}
	if rt > 0 {
		m.cap(rt, half, seg, 1)
	}
	if rb > 0 {
		m.cap(rb, -half, seg, -1)
	}
	return m
}

// cap appends a triangle fan closing a cylinder end at height y facing dir.
func (m *Mesh) cap(r, y float32, seg int, dir float32) {
	n := common.V3(0, dir, 0)
	centre := uint32(len(m.Vertices))
	m.Vertices = append(m.Vertices, vert(common.V3(0, y, 0), n))
	for i := 0; i <= seg; i++ {
		s, c := math32.Sincos(2 * math32.Pi * float32(i) / float32(seg))
		m.Vertices = append(m.Vertices, vert(common.V3(r*c, y, r*s), n))
	}
	for i := uint32(1); i <= uint32(seg); i++ {
		if dir > 0 {
			m.Indices = append(m.Indices, centre, centre+i+1, centre+i)
		} else {
			m.Indices = append(m.Indices, centre, centre+i, centre+i+1)
		}
	}
}

func sphere(r float32, seg int) Mesh {
	rings := max(seg/2, 3)
	var m Mesh
	for j := 0; j <= rings; j++ {
		sp, cp := math32.Sincos(math32.Pi * float32(j) / float32(rings))
		for i := 0; i <= seg; i++ {
			st, ct := math32.Sincos(2 * math32.Pi * float32(i) / float32(seg))
			n := common.V3(sp*ct, cp, sp*st)
			m.Vertices = append(m.Vertices, vert(n.Scale(r), n))
		}
	}
	row := uint32(seg + 1)
	for j := uint32(0); j < uint32(rings); j++ {
		for i := uint32(0); i < uint32(seg); i++ {
			a := j*row + i
			b := a + row
			m.Indices = append(m.Indices, a, a+1, b+1, a, b+1, b)
		}
	}
	return m
}

func torus(radius, tube float32, seg int) Mesh {
	var m Mesh
	for j := 0; j <= torusTubeSegments; j++ {
		sv, cv := math32.Sincos(2 * math32.Pi * float32(j) / torusTubeSegments)
		for i := 0; i <= seg; i++ {
			su, cu := math32.Sincos(2 * math32.Pi * float32(i) / float32(seg))
			ring := radius + tube*cv
			p := common.V3(ring*cu, ring*su, tube*sv)
			n := common.V3(cv*cu, cv*su, sv)
			m.Vertices = append(m.Vertices, vert(p, n))
		}
	}
	row := uint32(seg + 1)
	for j := uint32(0); j < torusTubeSegments; j++ {
		for i := uint32(0); i < uint32(seg); i++ {
			a := j*row + i
			b := a + row
			m.Indices = append(m.Indices, a, b, b+1, a, b+1, a+1)
		}
	}
	return m
}
