package scene

import (
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-mol/common"
	"github.com/Carmen-Shannon/oxy-mol/engine/loader"
	"github.com/Carmen-Shannon/oxy-mol/engine/molecule"
	"github.com/Carmen-Shannon/oxy-mol/engine/viewer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func water() *molecule.ModelData {
	dz := 1.0
	return &molecule.ModelData{
		Atoms: []molecule.Atom{
			{Serial: 1, Name: "O", Element: "O", Positions: [3]float64{0, 0, 0}, DZ: &dz},
			{Serial: 2, Name: "H1", Element: "H", Positions: [3]float64{0.96, 0, 0}},
			{Serial: 3, Name: "H2", Element: "H", Positions: [3]float64{-0.24, 0.93, 0}},
		},
		Bonds: []molecule.Bond{{Atom1: 0, Atom2: 1, Order: 1}, {Atom1: 0, Atom2: 2, Order: 1}},
	}
}

func loaded(t *testing.T) Scene {
	t.Helper()
	s := NewScene()
	t.Cleanup(s.Close)
	require.NoError(t, loader.NewLoader(loader.BackendTypeCDJSON).Load(s, water()))
	return s
}

func TestLoadModelKeepsHydrogensAndAnnotates(t *testing.T) {
	s := loaded(t)
	atoms := s.LoadedAtoms()
	require.Len(t, atoms, 3)
	assert.Equal(t, 1, atoms[0].Serial)
	assert.Equal(t, "H2", atoms[2].Name)
}

func TestLoadModelDropsHydrogens(t *testing.T) {
	s := NewScene()
	data, err := molecule.EncodeCDJSON(water())
	require.NoError(t, err)
	require.NoError(t, s.LoadModel(data, viewer.FormatJSON, viewer.LoadOptions{}))
	assert.Len(t, s.LoadedAtoms(), 1)
}

func TestLoadModelRejectsBadInput(t *testing.T) {
	s := NewScene()
	assert.Error(t, s.LoadModel([]byte("not json"), viewer.FormatJSON, viewer.LoadOptions{}))
	assert.Error(t, s.LoadModel([]byte("{}"), viewer.Format("pdb"), viewer.LoadOptions{}))
}

func TestSetStyleAndSnapshotColors(t *testing.T) {
	s := loaded(t)
	opacity := 0.6
	s.SetStyle(viewer.All(), viewer.Style{viewer.RepresentationStick: {}})
	s.SetStyle(viewer.Serials(2), viewer.Style{viewer.RepresentationStick: {Color: "#1ff3fe", Opacity: &opacity}})

	snap := s.Snapshot()
	require.Len(t, snap.Atoms, 3)
	assert.Equal(t, uint32(0xf00000), snap.Atoms[0].Color, "oxygen falls back to its element colour")
	assert.Equal(t, uint32(0x1ff3fe), snap.Atoms[1].Color)
	assert.InDelta(t, 0.6, snap.Atoms[1].Opacity, 1e-9)
	assert.Equal(t, 1.0, snap.Atoms[2].Opacity)
	assert.Equal(t, viewer.Style{viewer.RepresentationStick: {}}, s.Style(3))
}

func TestLabelsShapesSurfacesAndBackground(t *testing.T) {
	s := loaded(t)
	s.AddLabel("O", viewer.LabelOptions{FontSize: 14})
	s.AddShape(viewer.ShapeSphere, viewer.ShapeSpec{})
	s.AddVolumetricIsosurface(viewer.VolumeDataset{Format: "cube"}, viewer.IsoSurfaceOptions{IsoVal: 0.02})
	s.SetBackground(0x73757c, 0.5)
	s.Render()

	snap := s.Snapshot()
	assert.Len(t, snap.Labels, 1)
	assert.Len(t, snap.Shapes, 1)
	assert.Len(t, snap.Surfaces, 1)
	assert.Equal(t, uint32(0x73757c), snap.Background)
	assert.Equal(t, 0.5, snap.BackgroundOpacity)
	assert.Equal(t, uint64(1), snap.Renders)

	s.RemoveAllLabels()
	s.RemoveAllShapes()
	s.RemoveAllSurfaces()
	snap = s.Snapshot()
	assert.Empty(t, snap.Labels)
	assert.Empty(t, snap.Shapes)
	assert.Empty(t, snap.Surfaces)
}

func TestClearEmptiesScene(t *testing.T) {
	s := loaded(t)
	s.AddLabel("O", viewer.LabelOptions{})
	s.Clear()
	assert.Empty(t, s.LoadedAtoms())
	assert.Empty(t, s.Snapshot().Labels)
}

func TestClickDispatch(t *testing.T) {
	s := loaded(t)
	assert.Error(t, s.Click(1), "no handler yet")

	var got []int
	s.SetClickHandler(viewer.All(), true, func(a *viewer.Atom) { got = append(got, a.Serial) })
	require.NoError(t, s.Click(2))
	assert.Error(t, s.Click(99))

	s.SetClickHandler(viewer.Serials(1), true, func(a *viewer.Atom) { got = append(got, a.Serial) })
	assert.Error(t, s.Click(2))

	s.SetClickHandler(viewer.All(), false, func(a *viewer.Atom) { got = append(got, a.Serial) })
	assert.Error(t, s.Click(1))
	assert.Equal(t, []int{2}, got)
}

func TestPickNearestAlongRay(t *testing.T) {
	s := loaded(t)
	s.ZoomToFit(viewer.ZoomOptions{Factor: 1})

	var got []int
	s.SetClickHandler(viewer.All(), true, func(a *viewer.Atom) { got = append(got, a.Serial) })

	_, ok := s.Pick(0.99, 0.99)
	assert.False(t, ok)

	vp := s.Camera().ViewProjectionMatrix()
	ndc := common.TransformPoint(vp[:], common.Vec3{0, 0, 0})
	a, ok := s.Pick(ndc[0], ndc[1])
	require.True(t, ok)
	assert.Equal(t, 1, a.Serial)

	assert.True(t, s.ClickAt(ndc[0], ndc[1]))
	assert.Equal(t, []int{1}, got)
}

func TestZoomAndSlabNeedAtoms(t *testing.T) {
	s := NewScene()
	r := s.Camera().Radius()
	s.ZoomToFit(viewer.ZoomOptions{Factor: 0.8})
	s.FitToSlab()
	assert.Equal(t, r, s.Camera().Radius())
}

func TestRotateView(t *testing.T) {
	s := loaded(t)
	before := s.Camera().Position()
	s.RotateView(0.5)
	assert.NotEqual(t, before, s.Camera().Position())
}

func TestBuildVibrationFrames(t *testing.T) {
	s := loaded(t)
	s.BuildVibrationFrames(10, 0.5)

	snap := s.Snapshot()
	assert.Equal(t, 10, snap.Frames)
	assert.Equal(t, 0, snap.Frame)
	assert.Equal(t, [3]float64{0, 0, 0}, snap.Atoms[0].Position)
}

func TestAnimationLoopSoftStop(t *testing.T) {
	s := loaded(t)
	s.BuildVibrationFrames(10, 0.5)
	s.StartAnimate(viewer.AnimateOptions{Interval: time.Millisecond, Loop: viewer.LoopBackAndForth})
	assert.True(t, s.IsAnimating())

	require.Eventually(t, func() bool {
		return s.Snapshot().Frame > 0
	}, time.Second, time.Millisecond)

	s.StopAnimate()
	require.Eventually(t, func() bool {
		return !s.IsAnimating()
	}, time.Second, time.Millisecond)
	assert.Equal(t, 1, s.PeakLoops())
}

func TestAnimationFramesDisplaceAtoms(t *testing.T) {
	s := loaded(t)
	s.BuildVibrationFrames(10, 0.5)
	s.StartAnimate(viewer.AnimateOptions{Interval: time.Millisecond, Loop: viewer.LoopForward})

	require.Eventually(t, func() bool {
		snap := s.Snapshot()
		return snap.Frame == 9 && snap.Atoms[0].Position[2] == 0.5
	}, time.Second, time.Millisecond)
	s.StopAnimate()
}

func TestAnimationRepsEndLoop(t *testing.T) {
	s := loaded(t)
	s.BuildVibrationFrames(3, 1)
	s.StartAnimate(viewer.AnimateOptions{Interval: time.Millisecond, Loop: viewer.LoopForward, Reps: 1})
	require.Eventually(t, func() bool {
		return !s.IsAnimating()
	}, time.Second, time.Millisecond)
}

func TestOverlappingLoopsAreCounted(t *testing.T) {
	s := loaded(t)
	s.BuildVibrationFrames(10, 0.5)
	s.StartAnimate(viewer.AnimateOptions{Interval: 50 * time.Millisecond})
	s.StopAnimate()
	s.StartAnimate(viewer.AnimateOptions{Interval: 50 * time.Millisecond})
	assert.Equal(t, 2, s.PeakLoops())
}
