package translate

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-mol/common"
	"github.com/Carmen-Shannon/oxy-mol/engine/viewer"
	"github.com/Carmen-Shannon/oxy-mol/engine/viewer/viewertest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslateShape(t *testing.T) {
	origin := &Point{X: 1, Y: 2, Z: 3}
	tip := &Point{X: 4, Y: 5, Z: 6}

	tests := []struct {
		name  string
		in    ShapeSpec
		ok    bool
		check func(t *testing.T, s viewer.ShapeSpec)
	}{
		{
			name: "sphere",
			in:   ShapeSpec{Type: "Sphere", Center: origin, Radius: common.Ptr(1.5), Color: "#ff0000", Start: tip},
			ok:   true,
			check: func(t *testing.T, s viewer.ShapeSpec) {
				assert.Equal(t, &[3]float64{1, 2, 3}, s.Center)
				assert.Equal(t, 1.5, *s.Radius)
				assert.Equal(t, uint32(0xff0000), *s.Color)
				assert.Nil(t, s.Start, "start is not meaningful for a sphere")
			},
		},
		{
			name: "arrow",
			in:   ShapeSpec{Type: "Arrow", Start: origin, End: tip, Center: origin},
			ok:   true,
			check: func(t *testing.T, s viewer.ShapeSpec) {
				assert.Equal(t, &[3]float64{4, 5, 6}, s.End)
				assert.Nil(t, s.Center)
			},
		},
		{
			name: "box",
			in:   ShapeSpec{Type: "Box", Center: origin, Dimensions: &Dimensions{W: 1, H: 2, D: 3}, Wireframe: true},
			ok:   true,
			check: func(t *testing.T, s viewer.ShapeSpec) {
				assert.Equal(t, &[3]float64{1, 2, 3}, s.Dimensions)
				assert.True(t, s.Wireframe)
			},
		},
		{
			name: "bad colour dropped",
			in:   ShapeSpec{Type: "Line", Start: origin, End: tip, Color: "not-a-colour"},
			ok:   true,
			check: func(t *testing.T, s viewer.ShapeSpec) {
				assert.Nil(t, s.Color)
			},
		},
		{name: "unknown type", in: ShapeSpec{Type: "Torus", Center: origin}},
		{name: "missing type", in: ShapeSpec{Center: origin}},
		{
			name: "sphere without center keeps viewer default",
			in:   ShapeSpec{Type: "Sphere", Radius: common.Ptr(2.0)},
			ok:   true,
			check: func(t *testing.T, s viewer.ShapeSpec) {
				assert.Nil(t, s.Center)
				assert.Equal(t, 2.0, *s.Radius)
			},
		},
		{
			name: "cylinder without end keeps viewer default",
			in:   ShapeSpec{Type: "Cylinder", Start: origin},
			ok:   true,
			check: func(t *testing.T, s viewer.ShapeSpec) {
				assert.Equal(t, &[3]float64{1, 2, 3}, s.Start)
				assert.Nil(t, s.End)
			},
		},
		{
			name: "box without dimensions",
			in:   ShapeSpec{Type: "Box", Center: origin},
			ok:   true,
			check: func(t *testing.T, s viewer.ShapeSpec) {
				assert.Nil(t, s.Dimensions)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, spec, ok := TranslateShape(tt.in)
			require.Equal(t, tt.ok, ok)
			if !ok {
				return
			}
			assert.Equal(t, viewer.ShapeKind(tt.in.Type), kind)
			tt.check(t, spec)
		})
	}
}

func TestShapesClearsThenAddsRecognised(t *testing.T) {
	rec := viewertest.New()
	n := Shapes(rec, []ShapeSpec{
		{Type: "Sphere", Center: &Point{}},
		{Type: "Bogus"},
		{Type: "Cylinder", Start: &Point{}, End: &Point{X: 1}},
		{Type: "Arrow"},
	}, common.NoOpLogger{})

	assert.Equal(t, 3, n)
	assert.Equal(t, []string{"RemoveAllShapes", "AddShape", "AddShape", "AddShape"}, rec.Methods())
	calls := rec.ShapeCalls()
	assert.Equal(t, viewer.ShapeSphere, calls[0].Kind)
	assert.Equal(t, viewer.ShapeCylinder, calls[1].Kind)
	assert.Equal(t, viewer.ShapeArrow, calls[2].Kind)
	assert.Nil(t, calls[2].Spec.Start)
}

func TestOrbitalAddsSignedPair(t *testing.T) {
	rec := viewertest.New()
	n := Orbital(rec, &OrbitalSpec{CubeFile: "cube-data", IsoVal: 0.02, Opacity: 0.8})
	require.Equal(t, 2, n)

	calls := rec.IsoCalls()
	require.Len(t, calls, 2)
	assert.Equal(t, viewer.IsoSurfaceOptions{IsoVal: 0.02, Color: common.Ptr(uint32(0xff0000)), Opacity: 0.8}, calls[0].Opts)
	assert.Equal(t, viewer.IsoSurfaceOptions{IsoVal: -0.02, Color: common.Ptr(uint32(0x0000ff)), Opacity: 0.8}, calls[1].Opts)
	assert.Equal(t, viewer.VolumeDataset{Format: "cube", Source: "cube-data"}, calls[0].Volume)
	assert.Equal(t, calls[0].Volume, calls[1].Volume)

	assert.Equal(t, 0, Orbital(rec, &OrbitalSpec{IsoVal: 1}))
	assert.Equal(t, 0, Orbital(rec, nil))
}

func TestIsoSurfaces(t *testing.T) {
	vol := &Volume{
		Dimensions: [3]int{2, 1, 1},
		Origin:     [3]float64{0, 0, 0},
		Spacing:    [3]float64{0.5, 0.5, 0.5},
		Scalars:    []float64{0.1, 0.9},
	}
	smooth := 4

	rec := viewertest.New()
	n := IsoSurfaces(rec, vol, []IsoSurfaceSpec{
		{Value: 0.5, Color: "#00ff00", Opacity: 0.7},
		{Value: 0.2, Color: "???", Opacity: 1},
		{Value: 0.8, Color: "blue", Opacity: 0.4, Smoothness: &smooth},
	}, common.NoOpLogger{})

	require.Equal(t, 2, n)
	calls := rec.IsoCalls()
	assert.Nil(t, calls[0].Opts.Smoothness)
	require.NotNil(t, calls[0].Opts.Color)
	assert.Equal(t, uint32(0x00ff00), *calls[0].Opts.Color)
	require.NotNil(t, calls[1].Opts.Smoothness)
	assert.Equal(t, 4, *calls[1].Opts.Smoothness)
	assert.Equal(t, "volume", calls[0].Volume.Format)
	assert.Equal(t, []float64{0.1, 0.9}, calls[0].Volume.Scalars)

	assert.Equal(t, 0, IsoSurfaces(rec, &Volume{}, []IsoSurfaceSpec{{Color: "red"}}, common.NoOpLogger{}))
	assert.Equal(t, 0, IsoSurfaces(rec, nil, []IsoSurfaceSpec{{Color: "red"}}, common.NoOpLogger{}))
}

func TestIsoSurfaceWithoutColourUsesViewerDefault(t *testing.T) {
	vol := &Volume{Dimensions: [3]int{1, 1, 1}, Scalars: []float64{1}}

	rec := viewertest.New()
	n := IsoSurfaces(rec, vol, []IsoSurfaceSpec{{Value: 0.5, Opacity: 0.7}}, common.NoOpLogger{})

	require.Equal(t, 1, n)
	calls := rec.IsoCalls()
	require.Len(t, calls, 1)
	assert.Nil(t, calls[0].Opts.Color)
	assert.Equal(t, 0.5, calls[0].Opts.IsoVal)
	assert.Equal(t, 0.7, calls[0].Opts.Opacity)
}

func TestToVolumetricDatasetCopiesScalars(t *testing.T) {
	raw := Volume{Dimensions: [3]int{1, 1, 1}, Scalars: []float64{3}}
	ds := ToVolumetricDataset(raw)
	raw.Scalars[0] = 7
	assert.Equal(t, []float64{3}, ds.Scalars)
}

func TestSurfacesClearsOnceThenOrbitalThenVolume(t *testing.T) {
	rec := viewertest.New()
	n := Surfaces(rec,
		&OrbitalSpec{CubeFile: "c", IsoVal: 0.1},
		&Volume{Dimensions: [3]int{1, 1, 1}, Scalars: []float64{1}},
		[]IsoSurfaceSpec{{Value: 0.5, Color: "red"}},
		common.NoOpLogger{},
	)
	assert.Equal(t, 3, n)
	assert.Equal(t, []string{"RemoveAllSurfaces", "AddVolumetricIsosurface", "AddVolumetricIsosurface", "AddVolumetricIsosurface"}, rec.Methods())
	calls := rec.IsoCalls()
	assert.Equal(t, "cube", calls[0].Volume.Format)
	assert.Equal(t, "volume", calls[2].Volume.Format)
}
