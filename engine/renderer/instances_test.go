package renderer

import (
	"testing"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-mol/common"
	"github.com/Carmen-Shannon/oxy-mol/engine/scene"
	"github.com/Carmen-Shannon/oxy-mol/engine/viewer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAtomInstance_Layout(t *testing.T) {
	assert.Equal(t, uintptr(atomInstanceStride), unsafe.Sizeof(AtomInstance{}))
	assert.Equal(t, uintptr(16), unsafe.Offsetof(AtomInstance{}.Color))
	assert.Len(t, common.SliceToBytes(make([]AtomInstance, 3)), 3*atomInstanceStride)
}

func TestAtomRadius(t *testing.T) {
	tests := []struct {
		name  string
		style viewer.Style
		want  float32
	}{
		{"unstyled", nil, stickRadius},
		{"stick", viewer.Style{viewer.RepresentationStick: {}}, stickRadius},
		{"stick radius", viewer.Style{viewer.RepresentationStick: {Radius: 0.2}}, 0.2},
		{"sphere", viewer.Style{viewer.RepresentationSphere: {}}, sphereRadius},
		{"sphere scaled", viewer.Style{viewer.RepresentationSphere: {Scale: 0.5}}, 0.5},
		{"sphere over stick", viewer.Style{viewer.RepresentationStick: {}, viewer.RepresentationSphere: {Radius: 2}}, 2},
		{"line", viewer.Style{viewer.RepresentationLine: {}}, lineRadius},
		{"cross", viewer.Style{viewer.RepresentationCross: {}}, lineRadius},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, AtomRadius(tc.style), 1e-6)
		})
	}
}

func TestBuildInstances(t *testing.T) {
	atoms := []scene.AtomView{
		{Serial: 0, Element: "O", Position: [3]float64{1, 2, 3}, Color: 0xff0000, Opacity: 1},
		{Serial: 1, Element: "H", Position: [3]float64{0, 0, 0}, Color: 0xffffff, Opacity: 0},
		{Serial: 2, Element: "C", Position: [3]float64{-1, 0, 0}, Color: 0x00ff00, Opacity: 0.5,
			Style: viewer.Style{viewer.RepresentationSphere: {}}},
	}

	got := BuildInstances(atoms)
	require.Len(t, got, 2)

	assert.Equal(t, [3]float32{1, 2, 3}, got[0].Center)
	assert.Equal(t, [4]float32{1, 0, 0, 1}, got[0].Color)
	assert.InDelta(t, stickRadius, got[0].Radius, 1e-6)

	assert.Equal(t, [3]float32{-1, 0, 0}, got[1].Center)
	assert.Equal(t, [4]float32{0, 1, 0, 0.5}, got[1].Color)
	assert.InDelta(t, sphereRadius, got[1].Radius, 1e-6)
}

func TestClearColor(t *testing.T) {
	c := ClearColor(0x73757c, 1)
	assert.InDelta(t, 0x73/255.0, c.R, 1e-6)
	assert.InDelta(t, 0x75/255.0, c.G, 1e-6)
	assert.InDelta(t, 0x7c/255.0, c.B, 1e-6)
	assert.Equal(t, 1.0, c.A)

	assert.Equal(t, 0.0, ClearColor(0, -1).A)
	assert.Equal(t, 1.0, ClearColor(0, 3).A)
}
