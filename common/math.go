package common

import (
	"unsafe"

	"github.com/chewxy/math32"
)

// Vec3 is a three component float32 vector used by the camera and the preview renderer.
type Vec3 [3]float32

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v[0] + o[0], v[1] + o[1], v[2] + o[2]} }

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v[0] - o[0], v[1] - o[1], v[2] - o[2]} }

// Scale returns v * s.
func (v Vec3) Scale(s float32) Vec3 { return Vec3{v[0] * s, v[1] * s, v[2] * s} }

// Dot returns the dot product of v and o.
func (v Vec3) Dot(o Vec3) float32 { return v[0]*o[0] + v[1]*o[1] + v[2]*o[2] }

// Len returns the euclidean length of v.
func (v Vec3) Len() float32 { return math32.Sqrt(v.Dot(v)) }

// Normalize returns v scaled to unit length. A zero vector is returned unchanged.
func (v Vec3) Normalize() Vec3 {
	l := v.Len()
	if l == 0 {
		return v
	}
	return v.Scale(1 / l)
}

// BoundingBox is an axis aligned box enclosing a set of atom positions.
type BoundingBox struct {
	Min Vec3
	Max Vec3
}

// NewBoundingBox computes the bounding box of the given points.
// An empty input yields a zero-size box at the origin.
//
// Parameters:
//   - points: the points to enclose
//
// Returns:
//   - BoundingBox: the enclosing box
func NewBoundingBox(points []Vec3) BoundingBox {
	if len(points) == 0 {
		return BoundingBox{}
	}
	b := BoundingBox{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		for i := 0; i < 3; i++ {
			b.Min[i] = math32.Min(b.Min[i], p[i])
			b.Max[i] = math32.Max(b.Max[i], p[i])
		}
	}
	return b
}

// Center returns the midpoint of the box.
func (b BoundingBox) Center() Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Radius returns the radius of the sphere circumscribing the box.
func (b BoundingBox) Radius() float32 {
	return b.Max.Sub(b.Min).Len() * 0.5
}

// Identity resets a 4x4 matrix (flat slice) to the identity matrix.
// The matrix is stored in column-major order.
//
// Parameters:
//   - m: destination slice (must be at least 16 elements)
func Identity(m []float32) {
	for i := range m {
		m[i] = 0
	}
	m[0], m[5], m[10], m[15] = 1, 1, 1, 1
}

// SliceToBytes converts any slice to a byte slice for GPU buffer uploads.
// WARNING: The returned slice shares memory with the input - do not modify.
//
// Parameters:
//   - data: source slice of any type
//
// Returns:
//   - []byte: byte slice view of the input data, or nil if input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	size := unsafe.Sizeof(zero)
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), int(size)*len(data))
}

// Mul4 multiplies two 4x4 column-major matrices and stores the result in out.
// Result: out = a * b
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - a: left-hand matrix (16 elements)
//   - b: right-hand matrix (16 elements)
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

// Perspective creates a perspective projection matrix for WebGPU clip space [0, 1].
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - fovY: vertical field of view in radians
//   - aspect: viewport aspect ratio (width/height)
//   - near: near clipping plane distance (must be > 0)
//   - far: far clipping plane distance (must be > near)
func Perspective(out []float32, fovY, aspect, near, far float32) {
	f := 1 / math32.Tan(fovY/2)
	Identity(out)

	out[0] = f / aspect
	out[5] = f
	out[10] = far / (near - far)
	out[11] = -1
	out[14] = (near * far) / (near - far)
	out[15] = 0
}

// LookAt creates a view matrix transforming world coordinates into camera space.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - eye: camera position in world space
//   - center: target point the camera looks at
//   - up: up vector defining camera orientation
func LookAt(out []float32, eye, center, up Vec3) {
	z := eye.Sub(center)
	if z.Len() == 0 {
		z = Vec3{0, 0, 1}
	}
	z = z.Normalize()

	x := Vec3{up[1]*z[2] - up[2]*z[1], up[2]*z[0] - up[0]*z[2], up[0]*z[1] - up[1]*z[0]}
	if x.Len() == 0 {
		x = Vec3{1, 0, 0}
	}
	x = x.Normalize()

	y := Vec3{z[1]*x[2] - z[2]*x[1], z[2]*x[0] - z[0]*x[2], z[0]*x[1] - z[1]*x[0]}

	out[0], out[4], out[8], out[12] = x[0], x[1], x[2], -x.Dot(eye)
	out[1], out[5], out[9], out[13] = y[0], y[1], y[2], -y.Dot(eye)
	out[2], out[6], out[10], out[14] = z[0], z[1], z[2], -z.Dot(eye)
	out[3], out[7], out[11], out[15] = 0, 0, 0, 1
}

// Invert4 computes the inverse of a 4x4 column-major matrix by cofactor expansion.
// If the matrix is singular the output is left unchanged and false is returned.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - m: source matrix (16 elements, column-major)
//
// Returns:
//   - bool: true if the matrix was inverted, false if singular
func Invert4(out, m []float32) bool {
	s0 := m[0]*m[5] - m[4]*m[1]
	s1 := m[0]*m[6] - m[4]*m[2]
	s2 := m[0]*m[7] - m[4]*m[3]
	s3 := m[1]*m[6] - m[5]*m[2]
	s4 := m[1]*m[7] - m[5]*m[3]
	s5 := m[2]*m[7] - m[6]*m[3]

	c5 := m[10]*m[15] - m[14]*m[11]
	c4 := m[9]*m[15] - m[13]*m[11]
	c3 := m[9]*m[14] - m[13]*m[10]
	c2 := m[8]*m[15] - m[12]*m[11]
	c1 := m[8]*m[14] - m[12]*m[10]
	c0 := m[8]*m[13] - m[12]*m[9]

	det := s0*c5 - s1*c4 + s2*c3 + s3*c2 - s4*c1 + s5*c0
	if math32.Abs(det) < 1e-12 {
		return false
	}
	inv := 1 / det

	var r [16]float32
	r[0] = (m[5]*c5 - m[6]*c4 + m[7]*c3) * inv
	r[1] = (-m[1]*c5 + m[2]*c4 - m[3]*c3) * inv
	r[2] = (m[13]*s5 - m[14]*s4 + m[15]*s3) * inv
	r[3] = (-m[9]*s5 + m[10]*s4 - m[11]*s3) * inv
	r[4] = (-m[4]*c5 + m[6]*c2 - m[7]*c1) * inv
	r[5] = (m[0]*c5 - m[2]*c2 + m[3]*c1) * inv
	r[6] = (-m[12]*s5 + m[14]*s2 - m[15]*s1) * inv
	r[7] = (m[8]*s5 - m[10]*s2 + m[11]*s1) * inv
	r[8] = (m[4]*c4 - m[5]*c2 + m[7]*c0) * inv
	r[9] = (-m[0]*c4 + m[1]*c2 - m[3]*c0) * inv
	r[10] = (m[12]*s4 - m[13]*s2 + m[15]*s0) * inv
	r[11] = (-m[8]*s4 + m[9]*s2 - m[11]*s0) * inv
	r[12] = (-m[4]*c3 + m[5]*c1 - m[6]*c0) * inv
	r[13] = (m[0]*c3 - m[1]*c1 + m[2]*c0) * inv
	r[14] = (-m[12]*s3 + m[13]*s1 - m[14]*s0) * inv
	r[15] = (m[8]*s3 - m[9]*s1 + m[10]*s0) * inv
	copy(out, r[:])
	return true
}

// TransformPoint applies a 4x4 column-major matrix to a point and performs the perspective divide.
//
// Parameters:
//   - m: the matrix (16 elements)
//   - p: the point
//
// Returns:
//   - Vec3: the transformed point
func TransformPoint(m []float32, p Vec3) Vec3 {
	x := m[0]*p[0] + m[4]*p[1] + m[8]*p[2] + m[12]
	y := m[1]*p[0] + m[5]*p[1] + m[9]*p[2] + m[13]
	z := m[2]*p[0] + m[6]*p[1] + m[10]*p[2] + m[14]
	w := m[3]*p[0] + m[7]*p[1] + m[11]*p[2] + m[15]
	if w != 0 && w != 1 {
		x, y, z = x/w, y/w, z/w
	}
	return Vec3{x, y, z}
}

// PixelToNDC converts a window position to normalized device coordinates with +Y up.
//
// Parameters:
//   - x, y: the position in pixels from the top-left corner
//   - width, height: the window size in pixels
//
// Returns:
//   - float32, float32: the coordinates, each in [-1, 1] inside the window
func PixelToNDC(x, y int32, width, height int) (float32, float32) {
	if width <= 0 || height <= 0 {
		return 0, 0
	}
	nx := 2*(float32(x)+0.5)/float32(width) - 1
	ny := 1 - 2*(float32(y)+0.5)/float32(height)
	return nx, ny
}
