package session

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-mol/engine/animator"
	"github.com/Carmen-Shannon/oxy-mol/engine/molecule"
	"github.com/Carmen-Shannon/oxy-mol/engine/profiler"
	"github.com/Carmen-Shannon/oxy-mol/engine/scene"
	"github.com/Carmen-Shannon/oxy-mol/engine/style"
	"github.com/Carmen-Shannon/oxy-mol/engine/translate"
	"github.com/Carmen-Shannon/oxy-mol/engine/viewer"
	"github.com/Carmen-Shannon/oxy-mol/engine/viewer/viewertest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func threeAtoms() *molecule.ModelData {
	dx := 0.3
	return &molecule.ModelData{
		Atoms: []molecule.Atom{
			{Serial: 0, Name: "C1", Element: "C", Chain: "A", ResidueIndex: 1, Positions: [3]float64{0, 0, 0}, DX: &dx},
			{Serial: 1, Name: "C2", Element: "C", Chain: "A", ResidueIndex: 1, Positions: [3]float64{1.5, 0, 0}},
			{Serial: 2, Name: "O3", Element: "O", Chain: "A", ResidueIndex: 2, Positions: [3]float64{2.2, 1.1, 0}},
		},
		Bonds: []molecule.Bond{{Atom1: 0, Atom2: 1, Order: 1}, {Atom1: 1, Atom2: 2, Order: 2}},
	}
}

func newTestSession(t *testing.T, opts ...SessionBuilderOption) (Session, *viewertest.Recorder, *animator.ManualScheduler) {
	t.Helper()
	rec := viewertest.New()
	sched := animator.NewManualScheduler()
	s := NewSession(rec, append([]SessionBuilderOption{WithScheduler(sched)}, opts...)...)
	t.Cleanup(s.Close)
	return s, rec, sched
}

// lastArgs returns the arguments of the most recent call to method.
func lastArgs(rec *viewertest.Recorder, method string) []any {
	for i := len(rec.Calls) - 1; i >= 0; i-- {
		if rec.Calls[i].Method == method {
			return rec.Calls[i].Args
		}
	}
	return nil
}

func TestNewSessionPanicsWithoutViewer(t *testing.T) {
	assert.Panics(t, func() { NewSession(nil) })
}

func TestFirstPassOrder(t *testing.T) {
	var ready []viewer.Viewer
	s, rec, _ := newTestSession(t, WithSceneReadyHandler(func(v viewer.Viewer) { ready = append(ready, v) }))

	require.NoError(t, s.Reconcile(Props{ModelData: threeAtoms()}))
	assert.Equal(t, []string{
		"Clear", "LoadModel", "SetStyle",
		"RemoveAllLabels", "RemoveAllShapes", "RemoveAllSurfaces",
		"SetBackground", "SetClickHandler", "Render",
		"ZoomToFit", "FitToSlab",
	}, rec.Methods())
	assert.Equal(t, []viewer.Viewer{rec}, ready)

	zoom := rec.Calls[9].Args[0].(viewer.ZoomOptions)
	assert.Equal(t, FirstRenderZoom, zoom.Factor)
	assert.Equal(t, []any{uint32(0x73757c), 1.0}, rec.Calls[6].Args)
}

func TestThreeAtomClickScenario(t *testing.T) {
	var changes [][]int
	s, rec, _ := newTestSession(t, WithSelectionChangedHandler(func(ids []int) { changes = append(changes, ids) }))
	props := Props{ModelData: threeAtoms()}

	require.NoError(t, s.Reconcile(props))
	calls := rec.StyleCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, viewer.Serials(0, 1, 2), calls[0].Selector)
	assert.Equal(t, viewer.Style{viewer.RepresentationStick: {}}, calls[0].Style)

	rec.Reset()
	require.NoError(t, rec.Click(1))
	assert.Equal(t, [][]int{{1}}, changes)
	assert.Equal(t, []int{1}, s.Selected())

	calls = rec.StyleCalls()
	require.Len(t, calls, 1, "only the atom whose fingerprint changed is restyled")
	assert.Equal(t, viewer.Serials(1), calls[0].Selector)
	assert.Equal(t, style.SelectedColor, calls[0].Style[viewer.RepresentationStick].Color)
	assert.Zero(t, rec.Count("LoadModel"))
	assert.Zero(t, rec.Count("ZoomToFit"))

	rec.Reset()
	require.NoError(t, s.Reconcile(props))
	assert.Empty(t, rec.StyleCalls(), "unchanged fingerprints issue no calls")
}

func TestEmptyModelScenario(t *testing.T) {
	var ready int
	s, rec, _ := newTestSession(t, WithSceneReadyHandler(func(viewer.Viewer) { ready++ }))

	require.NoError(t, s.Reconcile(Props{ModelData: &molecule.ModelData{Atoms: []molecule.Atom{}, Bonds: []molecule.Bond{}}}))
	assert.Equal(t, 1, rec.Count("Clear"))
	assert.Zero(t, rec.Count("LoadModel"))
	assert.Zero(t, rec.Count("SetStyle"))
	assert.Equal(t, 1, rec.Count("Render"))
	assert.Equal(t, 1, ready)
}

func TestEquivalentModelDoesNotReload(t *testing.T) {
	var ready int
	s, rec, _ := newTestSession(t, WithSceneReadyHandler(func(viewer.Viewer) { ready++ }))
	require.NoError(t, s.Reconcile(Props{ModelData: threeAtoms()}))

	rec.Reset()
	require.NoError(t, s.Reconcile(Props{ModelData: threeAtoms()}))
	assert.Zero(t, rec.Count("Clear"))
	assert.Zero(t, rec.Count("FitToSlab"))
	assert.Equal(t, 1, ready)

	changed := threeAtoms()
	changed.Atoms[2].Positions[2] = 1
	rec.Reset()
	require.NoError(t, s.Reconcile(Props{ModelData: changed}))
	assert.Equal(t, 1, rec.Count("LoadModel"))
	assert.Equal(t, 1, rec.Count("FitToSlab"))
	assert.Zero(t, rec.Count("ZoomToFit"))
	assert.Equal(t, 3, len(rec.StyleCalls()[0].Selector.Serials), "reload re-styles every atom")
	assert.Equal(t, 2, ready)
}

func TestSelectionReseed(t *testing.T) {
	s, rec, _ := newTestSession(t)
	require.NoError(t, s.Reconcile(Props{ModelData: threeAtoms()}))

	rec.Reset()
	require.NoError(t, s.Reconcile(Props{ModelData: threeAtoms(), SelectedAtomIDs: []int{2, 2, 0}}))
	assert.Equal(t, []int{2, 0}, s.Selected())
	require.Len(t, rec.StyleCalls(), 1)
	assert.Equal(t, viewer.Serials(0, 2), rec.StyleCalls()[0].Selector)

	// nil leaves the selection alone.
	require.NoError(t, s.Reconcile(Props{ModelData: threeAtoms()}))
	assert.Equal(t, []int{2, 0}, s.Selected())

	require.NoError(t, s.Reconcile(Props{ModelData: threeAtoms(), SelectedAtomIDs: []int{}}))
	assert.Empty(t, s.Selected())
}

func TestResidueScopeClick(t *testing.T) {
	s, rec, _ := newTestSession(t)
	require.NoError(t, s.Reconcile(Props{ModelData: threeAtoms(), SelectionType: "residue"}))

	require.NoError(t, rec.Click(1))
	assert.Equal(t, []int{0, 1}, s.Selected())
	require.NoError(t, rec.Click(0))
	assert.Empty(t, s.Selected())
}

func TestClickBeforeFirstPass(t *testing.T) {
	var changes [][]int
	s, rec, _ := newTestSession(t, WithSelectionChangedHandler(func(ids []int) { changes = append(changes, ids) }))
	assert.ErrorIs(t, s.Click(4), ErrUnknownAtom)
	assert.Empty(t, s.Selected())
	assert.Empty(t, changes)
	assert.Empty(t, rec.Methods())
}

func TestClickOnSerialOutsideModel(t *testing.T) {
	var changes [][]int
	s, rec, _ := newTestSession(t, WithSelectionChangedHandler(func(ids []int) { changes = append(changes, ids) }))
	require.NoError(t, s.Reconcile(Props{ModelData: threeAtoms(), SelectionType: "residue"}))
	rec.Reset()

	assert.ErrorIs(t, s.Click(99), ErrUnknownAtom)
	assert.Empty(t, s.Selected())
	assert.Empty(t, changes)
	assert.Empty(t, rec.Methods(), "no pass runs for an unknown atom")

	require.NoError(t, s.Click(2))
	assert.Equal(t, []int{2}, s.Selected())
	assert.Equal(t, [][]int{{2}}, changes)
}

func TestGlobalStyleIsOneCall(t *testing.T) {
	s, rec, _ := newTestSession(t)
	global := viewer.Style{viewer.RepresentationSphere: {Scale: 0.3}}

	require.NoError(t, s.Reconcile(Props{ModelData: threeAtoms(), Style: global}))
	calls := rec.StyleCalls()
	require.Len(t, calls, 1)
	assert.True(t, calls[0].Selector.IsAll())
	assert.Equal(t, global, calls[0].Style)

	rec.Reset()
	require.NoError(t, s.Reconcile(Props{ModelData: threeAtoms(), Style: global, SelectedAtomIDs: []int{1}}))
	assert.Len(t, rec.StyleCalls(), 1)

	rec.Reset()
	require.NoError(t, s.Reconcile(Props{ModelData: threeAtoms()}))
	assert.Len(t, rec.StyleCalls(), 2, "dropping the global style re-applies per-atom styles")
}

func TestPerAtomOverrides(t *testing.T) {
	s, rec, _ := newTestSession(t)
	require.NoError(t, s.Reconcile(Props{
		ModelData: threeAtoms(),
		Styles:    map[int]style.Override{2: {Representation: viewer.RepresentationSphere, Color: "red"}},
	}))
	calls := rec.StyleCalls()
	require.Len(t, calls, 2)
	assert.Equal(t, viewer.Serials(2), calls[1].Selector)
	assert.Equal(t, "red", calls[1].Style[viewer.RepresentationSphere].Color)
}

func TestLabels(t *testing.T) {
	s, rec, _ := newTestSession(t)
	require.NoError(t, s.Reconcile(Props{ModelData: threeAtoms(), AtomLabelsShown: true}))

	labels := rec.LabelCalls()
	require.Len(t, labels, 3)
	assert.Equal(t, "C2", labels[1].Text)
	assert.Equal(t, LabelFontSize, labels[1].Opts.FontSize)
	assert.Equal(t, [3]float64{1.5, 0, 0}, labels[1].Opts.Position)

	rec.Reset()
	require.NoError(t, s.Reconcile(Props{ModelData: threeAtoms()}))
	assert.Equal(t, 1, rec.Count("RemoveAllLabels"))
	assert.Zero(t, rec.Count("AddLabel"))
}

func TestShapesAndSurfaces(t *testing.T) {
	s, rec, _ := newTestSession(t)
	r := 1.0
	require.NoError(t, s.Reconcile(Props{
		ModelData: threeAtoms(),
		Shapes: []translate.ShapeSpec{
			{Type: "Sphere", Center: &translate.Point{X: 1}, Radius: &r, Color: "#ff0000"},
			{Type: "Teapot"},
		},
		Orbital: &translate.OrbitalSpec{CubeFile: "cube data", IsoVal: 0.05, Opacity: 0.8},
	}))
	assert.Len(t, rec.ShapeCalls(), 1)

	isos := rec.IsoCalls()
	require.Len(t, isos, 2)
	assert.Equal(t, 0.05, isos[0].Opts.IsoVal)
	assert.Equal(t, -0.05, isos[1].Opts.IsoVal)
	assert.NotEqual(t, isos[0].Opts.Color, isos[1].Opts.Color)
}

func TestBackground(t *testing.T) {
	s, rec, _ := newTestSession(t)
	half := 0.5
	require.NoError(t, s.Reconcile(Props{BackgroundColor: "#000000", BackgroundOpacity: &half}))
	assert.Equal(t, []any{uint32(0), 0.5}, lastArgs(rec, "SetBackground"))

	rec.Reset()
	require.NoError(t, s.Reconcile(Props{BackgroundColor: "not a colour"}))
	assert.Equal(t, []any{uint32(0x73757c), 1.0}, lastArgs(rec, "SetBackground"))
}

func TestLoadErrorStillCompletesPass(t *testing.T) {
	s, rec, _ := newTestSession(t)
	boom := errors.New("boom")
	rec.LoadErr = boom

	err := s.Reconcile(Props{ModelData: threeAtoms()})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, rec.Count("Render"))

	rec.Reset()
	require.NoError(t, s.Reconcile(Props{ModelData: threeAtoms()}), "failures are not retried")
	assert.Zero(t, rec.Count("LoadModel"))
}

func TestAnimationLifecycle(t *testing.T) {
	s, rec, sched := newTestSession(t)
	props := Props{ModelData: threeAtoms(), Animation: &animator.Spec{Amplitude: 0.5}}

	require.NoError(t, s.Reconcile(props))
	assert.Equal(t, 1, rec.Count("BuildVibrationFrames"))
	assert.Equal(t, animator.StateStarting, s.AnimationState())

	sched.Advance(animator.StartDelay)
	assert.Equal(t, 1, rec.Count("StartAnimate"))
	assert.Equal(t, animator.StateAnimating, s.AnimationState())

	// Amplitude change: base model reloaded, frames rebuilt, restart waits for the old loop.
	rec.Reset()
	props.Animation = &animator.Spec{Amplitude: 0.8}
	require.NoError(t, s.Reconcile(props))
	assert.Equal(t, 1, rec.Count("LoadModel"))
	assert.Equal(t, 1, rec.Count("SetStyle"), "styles are re-applied after the base reload")
	assert.Zero(t, rec.Count("FitToSlab"), "amplitude-only reloads are not a new scene")
	assert.Equal(t, 1, rec.Count("StopAnimate"))

	sched.Advance(3 * animator.StartDelay)
	assert.Zero(t, rec.Count("StartAnimate"))

	rec.SetAnimating(false)
	sched.Advance(animator.StartDelay)
	assert.Equal(t, 1, rec.Count("StartAnimate"))

	rec.Reset()
	props.Animation = nil
	require.NoError(t, s.Reconcile(props))
	assert.Equal(t, 1, rec.Count("StopAnimate"))
	assert.Equal(t, animator.StateIdle, s.AnimationState())
}

func TestNoConcurrentLoopsOnHeadlessScene(t *testing.T) {
	sc := scene.NewScene()
	defer sc.Close()
	sched := animator.NewManualScheduler()
	s := NewSession(sc, WithScheduler(sched))
	defer s.Close()

	props := Props{ModelData: threeAtoms(), Animation: &animator.Spec{Amplitude: 0.5}}
	require.NoError(t, s.Reconcile(props))
	sched.Advance(animator.StartDelay)
	require.True(t, sc.IsAnimating())

	props.Animation = &animator.Spec{Amplitude: 1}
	require.NoError(t, s.Reconcile(props))

	require.Eventually(t, func() bool {
		sched.Advance(animator.StartDelay)
		return s.AnimationState() == animator.StateAnimating
	}, 2*time.Second, 10*time.Millisecond)
	assert.True(t, sc.IsAnimating())
	assert.Equal(t, 1, sc.PeakLoops())
}

func TestRotationAndPointerDown(t *testing.T) {
	s, rec, _ := newTestSession(t, WithRotatorOptions(animator.WithRotationInterval(time.Millisecond)))
	props := Props{ModelData: threeAtoms(), Rotate: true}

	require.NoError(t, s.Reconcile(props))
	require.Eventually(t, func() bool { return rec.Count("RotateView") > 0 }, time.Second, time.Millisecond)

	s.PointerDown()
	assert.False(t, s.Rotating())

	require.NoError(t, s.Reconcile(props))
	assert.False(t, s.Rotating(), "pointer down holds rotation while Rotate stays on")

	props.Rotate = false
	require.NoError(t, s.Reconcile(props))
	props.Rotate = true
	require.NoError(t, s.Reconcile(props))
	assert.True(t, s.Rotating())
}

func TestProfilerCountsPasses(t *testing.T) {
	p := profiler.NewProfiler(profiler.WithInterval(time.Hour))
	s, rec, _ := newTestSession(t, WithProfiler(p))

	require.NoError(t, s.Reconcile(Props{ModelData: threeAtoms()}))
	require.NoError(t, rec.Click(0))

	totals := p.Totals()
	assert.Equal(t, 2, totals.Passes)
	assert.Equal(t, 1, totals.Reloads)
	assert.Equal(t, 2, totals.StyleCalls)
}

func TestCloseStopsEverything(t *testing.T) {
	s, rec, sched := newTestSession(t)
	require.NoError(t, s.Reconcile(Props{ModelData: threeAtoms(), Animation: &animator.Spec{Amplitude: 0.2}}))
	s.Close()
	s.Close()

	rec.Reset()
	sched.Advance(time.Second)
	require.NoError(t, s.Reconcile(Props{ModelData: threeAtoms()}))
	assert.Empty(t, rec.Methods())
}

func TestConcurrentClicksAndPasses(t *testing.T) {
	sc := scene.NewScene()
	defer sc.Close()
	s := NewSession(sc)
	defer s.Close()
	require.NoError(t, s.Reconcile(Props{ModelData: threeAtoms()}))

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = sc.Click(i % 3)
		}()
		go func() {
			defer wg.Done()
			_ = s.Reconcile(Props{ModelData: threeAtoms()})
		}()
	}
	wg.Wait()
	assert.LessOrEqual(t, len(s.Selected()), 3)
}
