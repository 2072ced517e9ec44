package renderer

import (
	"github.com/Carmen-Shannon/oxy-mol/common"
	"github.com/Carmen-Shannon/oxy-mol/engine/scene"
	"github.com/Carmen-Shannon/oxy-mol/engine/viewer"
	"github.com/cogentcore/webgpu/wgpu"
)

// Relative atom radii per representation. The camera uniform's PointScale converts them to world units.
const (
	sphereRadius = 1.0
	stickRadius  = 0.3
	lineRadius   = 0.12
)

// AtomInstance is the per-instance vertex data for one atom billboard.
// Size: 32 bytes.
type AtomInstance struct {
	Center [3]float32 // offset  0: world-space position
	Radius float32    // offset 12: radius relative to PointScale
	Color  [4]float32 // offset 16: linear RGBA
}

// atomInstanceStride is the byte stride of AtomInstance in the instance buffer.
const atomInstanceStride = 32

// atomInstanceLayout describes AtomInstance to the vertex stage.
var atomInstanceLayout = wgpu.VertexBufferLayout{
	ArrayStride: atomInstanceStride,
	StepMode:    wgpu.VertexStepModeInstance,
	Attributes: []wgpu.VertexAttribute{
		{Format: wgpu.VertexFormatFloat32x4, Offset: 0, ShaderLocation: 0},
		{Format: wgpu.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 1},
	},
}

// AtomRadius returns the billboard radius for an atom drawn with the given style.
// Sphere wins over the thinner representations; an unstyled atom falls back to stick.
//
// Parameters:
//   - style: the style last applied to the atom
//
// Returns:
//   - float32: the radius relative to PointScale
func AtomRadius(style viewer.Style) float32 {
	if s, ok := style[viewer.RepresentationSphere]; ok {
		r := float32(sphereRadius)
		if s.Radius > 0 {
			r = float32(s.Radius)
		}
		if s.Scale > 0 {
			r *= float32(s.Scale)
		}
		return r
	}
	if s, ok := style[viewer.RepresentationStick]; ok {
		if s.Radius > 0 {
			return float32(s.Radius)
		}
		return stickRadius
	}
	if _, ok := style[viewer.RepresentationLine]; ok {
		return lineRadius
	}
	if _, ok := style[viewer.RepresentationCross]; ok {
		return lineRadius
	}
	return stickRadius
}

// BuildInstances converts the atoms of a snapshot into GPU instances, skipping fully transparent atoms.
//
// Parameters:
//   - atoms: the atoms as drawn
//
// Returns:
//   - []AtomInstance: one instance per visible atom, in input order
func BuildInstances(atoms []scene.AtomView) []AtomInstance {
	out := make([]AtomInstance, 0, len(atoms))
	for _, a := range atoms {
		if a.Opacity <= 0 {
			continue
		}
		r, g, b := common.Color(a.Color).RGB()
		out = append(out, AtomInstance{
			Center: [3]float32{float32(a.Position[0]), float32(a.Position[1]), float32(a.Position[2])},
			Radius: AtomRadius(a.Style),
			Color:  [4]float32{r, g, b, float32(min(a.Opacity, 1))},
		})
	}
	return out
}

// ClearColor converts a packed 0xRRGGBB background and opacity into a render pass clear value.
//
// Parameters:
//   - background: the packed background colour
//   - opacity: the background opacity in [0, 1]
//
// Returns:
//   - wgpu.Color: the clear value
func ClearColor(background uint32, opacity float64) wgpu.Color {
	r, g, b := common.Color(background).RGB()
	return wgpu.Color{R: float64(r), G: float64(g), B: float64(b), A: max(0, min(opacity, 1))}
}
