package common

import (
	"math"
	"unsafe"
)

// Identity resets a column-major 4x4 matrix to identity.
//
// Parameters:
//   - m: destination slice (must be at least 16 elements)
func Identity(m []float32) {
	for i := range m {
		m[i] = 0
	}
	m[0], m[5], m[10], m[15] = 1, 1, 1, 1
}

// Clamp bounds v to the closed range [lo, hi].
//
// Parameters:
//   - v: the value to bound
//   - lo: lower bound
//   - hi: upper bound (must be >= lo)
//
// Returns:
//   - float32: v saturated into [lo, hi]
func Clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// SliceToBytes views a slice as raw bytes for GPU buffer uploads.
// The returned slice aliases the input.
//
// Parameters:
//   - data: source slice of any type
//
// Returns:
//   - []byte: byte view of data, or nil if data is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	size := unsafe.Sizeof(zero)
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), int(size)*len(data))
}

// Mul4 multiplies two column-major 4x4 matrices: out = a * b.
// out may alias a or b.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - a: left-hand matrix
//   - b: right-hand matrix
func Mul4(out, a, b []float32) {
	var buf [16]float32
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += a[k*4+row] * b[col*4+k]
			}
			buf[col*4+row] = sum
		}
	}
	copy(out, buf[:])
}

// Perspective writes a right-handed perspective projection with WebGPU's [0, 1] depth range.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - fovY: vertical field of view in radians
//   - aspect: viewport width / height
//   - near: near plane distance (> 0)
//   - far: far plane distance (> near)
func Perspective(out []float32, fovY, aspect, near, far float32) {
	f := 1.0 / float32(math.Tan(float64(fovY)/2.0))
	Identity(out)

	out[0] = f / aspect
	out[5] = f
	out[10] = far / (near - far)
	out[11] = -1.0
	out[14] = (near * far) / (near - far)
	out[15] = 0.0
}

// BuildModelMatrix writes a column-major model matrix from a transform.
// Rotation is applied in Y * X * Z order, then scale, then translation.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - pos: translation
//   - rot: Euler angles in radians
//   - scale: per-axis scale
func BuildModelMatrix(out []float32, pos, rot, scale Vec3) {
	cx, sx := float32(math.Cos(float64(rot.X))), float32(math.Sin(float64(rot.X)))
	cy, sy := float32(math.Cos(float64(rot.Y))), float32(math.Sin(float64(rot.Y)))
	cz, sz := float32(math.Cos(float64(rot.Z))), float32(math.Sin(float64(rot.Z)))

	out[0] = (cy*cz + sy*sx*sz) * scale.X
	out[1] = (cx * sz) * scale.X
	out[2] = (-sy*cz + cy*sx*sz) * scale.X
	out[3] = 0

	out[4] = (-cy*sz + sy*sx*cz) * scale.Y
	out[5] = (cx * cz) * scale.Y
	out[6] = (sy*sz + cy*sx*cz) * scale.Y
	out[7] = 0

	out[8] = (sy * cx) * scale.Z
	out[9] = -sx * scale.Z
	out[10] = (cy * cx) * scale.Z
	out[11] = 0

	out[12] = pos.X
	out[13] = pos.Y
	out[14] = pos.Z
	out[15] = 1
}

// TransformPoint applies a column-major affine matrix to a point.
func TransformPoint(m []float32, p Vec3) Vec3 {
	return Vec3{
		X: m[0]*p.X + m[4]*p.Y + m[8]*p.Z + m[12],
		Y: m[1]*p.X + m[5]*p.Y + m[9]*p.Z + m[13],
		Z: m[2]*p.X + m[6]*p.Y + m[10]*p.Z + m[14],
	}
}

// TransformDirection applies the linear part of m to a direction and renormalizes it.
// Non-uniform scale is approximated, which is acceptable for flat shading.
func TransformDirection(m []float32, d Vec3) Vec3 {
	return Vec3{
		X: m[0]*d.X + m[4]*d.Y + m[8]*d.Z,
		Y: m[1]*d.X + m[5]*d.Y + m[9]*d.Z,
		Z: m[2]*d.X + m[6]*d.Y + m[10]*d.Z,
	}.Normalize()
}

// LookAt writes a right-handed view matrix that places the eye at (eyeX, eyeY, eyeZ)
// looking toward the center point.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - eyeX, eyeY, eyeZ: eye position in world space
//   - centerX, centerY, centerZ: look-at point
//   - upX, upY, upZ: up vector, typically (0, 1, 0)
func LookAt(out []float32, eyeX, eyeY, eyeZ, centerX, centerY, centerZ, upX, upY, upZ float32) {
	f := Vec3{X: eyeX - centerX, Y: eyeY - centerY, Z: eyeZ - centerZ}.Normalize()
	s := Vec3{X: upX, Y: upY, Z: upZ}.Cross(f).Normalize()
	u := f.Cross(s)
	eye := Vec3{X: eyeX, Y: eyeY, Z: eyeZ}

	out[0], out[4], out[8], out[12] = s.X, s.Y, s.Z, -s.Dot(eye)
	out[1], out[5], out[9], out[13] = u.X, u.Y, u.Z, -u.Dot(eye)
	out[2], out[6], out[10], out[14] = f.X, f.Y, f.Z, -f.Dot(eye)
	out[3], out[7], out[11], out[15] = 0, 0, 0, 1
}

// Invert4 writes the inverse of the column-major matrix m into out. out may alias m.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - m: the matrix to invert
//
// Returns:
//   - bool: false if m is singular, in which case out is left untouched
func Invert4(out, m []float32) bool {
	a00, a01, a02, a03 := m[0], m[1], m[2], m[3]
	a10, a11, a12, a13 := m[4], m[5], m[6], m[7]
	a20, a21, a22, a23 := m[8], m[9], m[10], m[11]
	a30, a31, a32, a33 := m[12], m[13], m[14], m[15]

	b00 := a00*a11 - a01*a10
	b01 := a00*a12 - a02*a10
	b02 := a00*a13 - a03*a10
	b03 := a01*a12 - a02*a11
	b04 := a01*a13 - a03*a11
	b05 := a02*a13 - a03*a12
	b06 := a20*a31 - a21*a30
	b07 := a20*a32 - a22*a30
	b08 := a20*a33 - a23*a30
	b09 := a21*a32 - a22*a31
	b10 := a21*a33 - a23*a31
	b11 := a22*a33 - a23*a32

	det := b00*b11 - b01*b10 + b02*b09 + b03*b08 - b04*b07 + b05*b06
	if det == 0 {
		return false
	}
	inv := 1 / det

	out[0] = (a11*b11 - a12*b10 + a13*b09) * inv
	out[1] = (a02*b10 - a01*b11 - a03*b09) * inv
	out[2] = (a31*b05 - a32*b04 + a33*b03) * inv
	out[3] = (a22*b04 - a21*b05 - a23*b03) * inv
	out[4] = (a12*b08 - a10*b11 - a13*b07) * inv
	out[5] = (a00*b11 - a02*b08 + a03*b07) * inv
	out[6] = (a32*b02 - a30*b05 - a33*b01) * inv
	out[7] = (a20*b05 - a22*b02 + a23*b01) * inv
	out[8] = (a10*b10 - a11*b08 + a13*b06) * inv
	out[9] = (a01*b08 - a00*b10 - a03*b06) * inv
	out[10] = (a30*b04 - a31*b02 + a33*b00) * inv
	out[11] = (a21*b02 - a20*b04 - a23*b00) * inv
	out[12] = (a11*b07 - a10*b09 - a12*b06) * inv
	out[13] = (a00*b09 - a01*b07 + a02*b06) * inv
	out[14] = (a31*b01 - a30*b03 - a32*b00) * inv
	out[15] = (a20*b03 - a21*b01 + a22*b00) * inv
	return true
}

// Unproject maps a normalized device coordinate back to world space through an inverse
// view-projection matrix, including the perspective divide.
func Unproject(invViewProj []float32, ndc Vec3) Vec3 {
	m := invViewProj
	x := m[0]*ndc.X + m[4]*ndc.Y + m[8]*ndc.Z + m[12]
	y := m[1]*ndc.X + m[5]*ndc.Y + m[9]*ndc.Z + m[13]
	z := m[2]*ndc.X + m[6]*ndc.Y + m[10]*ndc.Z + m[14]
	w := m[3]*ndc.X + m[7]*ndc.Y + m[11]*ndc.Z + m[15]
	if w == 0 {
		return Vec3{X: x, Y: y, Z: z}
	}
	return Vec3{X: x / w, Y: y / w, Z: z / w}
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min Vec3 `json:"min"`
	Max Vec3 `json:"max"`
}

// BoundsOf returns the smallest AABB containing every point.
func BoundsOf(points ...Vec3) AABB {
	if len(points) == 0 {
		return AABB{}
	}
	b := AABB{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		b.Min = Vec3{X: min(b.Min.X, p.X), Y: min(b.Min.Y, p.Y), Z: min(b.Min.Z, p.Z)}
		b.Max = Vec3{X: max(b.Max.X, p.X), Y: max(b.Max.Y, p.Y), Z: max(b.Max.Z, p.Z)}
	}
	return b
}

// IntersectRay returns the distance along dir at which the ray first enters the box.
// A ray starting inside the box hits at 0.
//
// Parameters:
//   - origin: ray start
//   - dir: ray direction, not necessarily normalized
//
// Returns:
//   - float32: the hit parameter t, with the hit point at origin + dir*t
//   - bool: false if the ray misses or the box lies behind the origin
func (b AABB) IntersectRay(origin, dir Vec3) (float32, bool) {
	tMin := float32(0)
	tMax := float32(math.Inf(1))
	for _, axis := range [3][4]float32{
		{origin.X, dir.X, b.Min.X, b.Max.X},
		{origin.Y, dir.Y, b.Min.Y, b.Max.Y},
		{origin.Z, dir.Z, b.Min.Z, b.Max.Z},
	} {
		o, d, lo, hi := axis[0], axis[1], axis[2], axis[3]
		if d == 0 {
			if o < lo || o > hi {
				return 0, false
			}
			continue
		}
		t0, t1 := (lo-o)/d, (hi-o)/d
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		tMin, tMax = max(tMin, t0), min(tMax, t1)
		if tMin > tMax {
			return 0, false
		}
	}
	return tMin, true
}
