// Package mesh turns scene objects into world-space triangle lists that renderers can upload
// or ray-cast directly.
package mesh

import (
	"unsafe"

	"github.com/Carmen-Shannon/oxy-city/common"
)

// Vertex is the interleaved vertex layout shared by every backend.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	Color    [4]float32
	Emission [3]float32
}

// VertexStride is the size of one Vertex in bytes.
const VertexStride = uint64(unsafe.Sizeof(Vertex{}))

// Vertex attribute byte offsets.
const (
	OffsetPosition = uint64(unsafe.Offsetof(Vertex{}.Position))
	OffsetNormal   = uint64(unsafe.Offsetof(Vertex{}.Normal))
	OffsetColor    = uint64(unsafe.Offsetof(Vertex{}.Color))
	OffsetEmission = uint64(unsafe.Offsetof(Vertex{}.Emission))
)

// Mesh is an indexed triangle list.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
}

// Triangles returns the number of triangles in m.
func (m Mesh) Triangles() int {
	return len(m.Indices) / 3
}

// Empty reports whether m has nothing to draw.
func (m Mesh) Empty() bool {
	return len(m.Indices) == 0
}

// Append copies o into m, rebasing its indices.
func (m *Mesh) Append(o Mesh) {
	base := uint32(len(m.Vertices))
	m.Vertices = append(m.Vertices, o.Vertices...)
	for _, i := range o.Indices {
		m.Indices = append(m.Indices, base+i)
	}
}

// Triangle returns the three vertices of triangle i.
func (m Mesh) Triangle(i int) (a, b, c Vertex) {
	return m.Vertices[m.Indices[3*i]], m.Vertices[m.Indices[3*i+1]], m.Vertices[m.Indices[3*i+2]]
}

// Bounds returns the axis-aligned bounding box of m. An empty mesh returns zero vectors.
func (m Mesh) Bounds() (lo, hi common.Vec3) {
	if len(m.Vertices) == 0 {
		return
	}
	p := m.Vertices[0].Position
	lo = common.V3(p[0], p[1], p[2])
	hi = lo
	for _, v := range m.Vertices[1:] {
		lo.X, hi.X = min(lo.X, v.Position[0]), max(hi.X, v.Position[0])
		lo.Y, hi.Y = min(lo.Y, v.Position[1]), max(hi.Y, v.Position[1])
		lo.Z, hi.Z = min(lo.Z, v.Position[2]), max(hi.Z, v.Position[2])
	}
	return lo, hi
}

// Batch splits a frame's geometry by blending mode. Transparent geometry is drawn after
// Opaque without depth writes.
type Batch struct {
	Opaque      Mesh
	Transparent Mesh
}

// Triangles returns the total triangle count of the batch.
func (b Batch) Triangles() int {
	return b.Opaque.Triangles() + b.Transparent.Triangles()
}
