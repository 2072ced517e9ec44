package camera

import (
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUCameraUniform is the GPU-aligned camera uniform buffer.
// Size: 80 bytes (WGSL aligned).
type GPUCameraUniform struct {
	ViewProj   [16]float32 // offset  0: combined view-projection matrix (mat4x4<f32>)
	Eye        [3]float32  // offset 64: world-space eye position (vec3<f32>)
	PointScale float32     // offset 76: world-space atom radius
}

// NewGPUCameraUniform snapshots c into a uniform.
//
// Parameters:
//   - c: the camera
//   - pointScale: the world-space atom radius
//
// Returns:
//   - GPUCameraUniform: the uniform
func NewGPUCameraUniform(c Camera, pointScale float32) GPUCameraUniform {
	return GPUCameraUniform{
		ViewProj:   c.ViewProjectionMatrix(),
		Eye:        c.Position(),
		PointScale: pointScale,
	}
}

// Size returns the size of the GPUCameraUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (80)
func (g *GPUCameraUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUCameraUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUCameraUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.ViewProj[i]))
	}
	for i := range 3 {
		binary.LittleEndian.PutUint32(buf[64+i*4:], math.Float32bits(g.Eye[i]))
	}
	binary.LittleEndian.PutUint32(buf[76:], math.Float32bits(g.PointScale))
	return buf
}
