// Package scene is an in-memory viewer.Viewer. It keeps everything a renderer needs to draw the
// molecule (styled atoms, labels, shapes, surfaces, background and camera) and runs a real
// ticker-driven vibration loop with soft stop.
package scene

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-mol/common"
	"github.com/Carmen-Shannon/oxy-mol/engine/camera"
	"github.com/Carmen-Shannon/oxy-mol/engine/molecule"
	"github.com/Carmen-Shannon/oxy-mol/engine/viewer"
	"gonum.org/v1/gonum/floats"
)

// defaultPickRadius is the distance in Angstrom within which a ray hits an atom.
const defaultPickRadius = 0.6

// Label is a text label placed in the scene.
type Label struct {
	Text string
	Opts viewer.LabelOptions
}

// Shape is a primitive placed in the scene.
type Shape struct {
	Kind viewer.ShapeKind
	Spec viewer.ShapeSpec
}

// Surface is an isosurface placed in the scene.
type Surface struct {
	Volume viewer.VolumeDataset
	Opts   viewer.IsoSurfaceOptions
}

// AtomView is an atom as drawn: its current position (including the animation frame) and resolved colour.
type AtomView struct {
	Serial   int
	Element  string
	Position [3]float64
	Style    viewer.Style
	Color    uint32
	Opacity  float64
}

// Snapshot is a consistent copy of the scene for rendering or inspection.
type Snapshot struct {
	Atoms             []AtomView
	Labels            []Label
	Shapes            []Shape
	Surfaces          []Surface
	Background        uint32
	BackgroundOpacity float64
	Frame             int
	Frames            int
	Renders           uint64
}

// Scene is a headless viewer.Viewer.
type Scene interface {
	viewer.Viewer

	// Camera returns the scene's camera.
	Camera() camera.Camera

	// Snapshot returns a copy of the current scene state.
	//
	// Returns:
	//   - Snapshot: the copy
	Snapshot() Snapshot

	// Style returns the style last applied to the atom with the given serial.
	//
	// Parameters:
	//   - serial: the atom serial
	//
	// Returns:
	//   - viewer.Style: the style, nil if never styled
	Style(serial int) viewer.Style

	// Click dispatches a click on the atom with the given serial to the registered handler.
	//
	// Parameters:
	//   - serial: the atom serial
	//
	// Returns:
	//   - error: error if clicks are disabled or the atom is not loaded or not clickable
	Click(serial int) error

	// Pick returns the atom nearest the camera along the ray through a point in normalized device coordinates.
	//
	// Parameters:
	//   - ndcX, ndcY: the point, each in [-1, 1] with +Y up
	//
	// Returns:
	//   - *viewer.Atom: the hit atom
	//   - bool: false if the ray missed every atom
	Pick(ndcX, ndcY float32) (*viewer.Atom, bool)

	// ClickAt picks at a point and dispatches a click on the hit atom.
	//
	// Parameters:
	//   - ndcX, ndcY: the point, each in [-1, 1] with +Y up
	//
	// Returns:
	//   - bool: true if an atom was hit and the handler ran
	ClickAt(ndcX, ndcY float32) bool

	// PeakLoops returns the largest number of animation loops that ever ran at the same time.
	//
	// Returns:
	//   - int: the peak
	PeakLoops() int

	// Close stops every animation loop.
	Close()
}

// animationLoop is one running StartAnimate loop. It exits on the first tick after keepGoing is cleared.
type animationLoop struct {
	keepGoing bool
	done      chan struct{}
}

type scene struct {
	mu *sync.Mutex

	camera     camera.Camera
	logger     common.Logger
	pickRadius float64

	atoms  []*viewer.Atom
	styles map[int]viewer.Style
	labels []Label
	shapes []Shape
	surfs  []Surface

	background        uint32
	backgroundOpacity float64

	clickSel     viewer.Selector
	clickEnabled bool
	clickHandler viewer.ClickHandler

	// frames[k] holds 3*len(atoms) coordinates.
	frames    [][]float64
	frame     int
	loops     []*animationLoop
	peakLoops int

	renders uint64
}

var _ Scene = &scene{}

// NewScene creates an empty Scene.
//
// Parameters:
//   - options: functional options applied in order
//
// Returns:
//   - Scene: the scene
func NewScene(options ...SceneBuilderOption) Scene {
	s := &scene{
		mu:                &sync.Mutex{},
		logger:            common.NoOpLogger{},
		pickRadius:        defaultPickRadius,
		styles:            make(map[int]viewer.Style),
		backgroundOpacity: 1,
		frame:             -1,
	}
	for _, opt := range options {
		opt(s)
	}
	if s.camera == nil {
		s.camera = camera.NewCamera()
	}
	return s
}

func (s *scene) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.atoms = nil
	s.styles = make(map[int]viewer.Style)
	s.labels = nil
	s.shapes = nil
	s.surfs = nil
	s.frames = nil
	s.frame = -1
}

func (s *scene) LoadModel(data []byte, format viewer.Format, opts viewer.LoadOptions) error {
	if format != viewer.FormatJSON {
		return fmt.Errorf("unsupported model format %q", format)
	}
	wire, _, err := molecule.DecodeCDJSON(data)
	if err != nil {
		return fmt.Errorf("failed to decode model: %w", err)
	}

	atoms := make([]*viewer.Atom, 0, len(wire))
	for _, w := range wire {
		if !opts.KeepHydrogens && w.Element == "H" {
			continue
		}
		atoms = append(atoms, &viewer.Atom{Index: w.Index, Position: w.Position, Element: w.Element})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.atoms = append(s.atoms, atoms...)
	s.frames = nil
	s.frame = -1
	s.logger.Debugf("[Scene] loaded %d atoms", len(atoms))
	return nil
}

func (s *scene) LoadedAtoms() []*viewer.Atom {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*viewer.Atom, len(s.atoms))
	copy(out, s.atoms)
	return out
}

func (s *scene) SetStyle(sel viewer.Selector, style viewer.Style) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.atoms {
		if sel.Matches(a.Serial) {
			s.styles[a.Serial] = style
		}
	}
}

func (s *scene) AddLabel(text string, opts viewer.LabelOptions) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.labels = append(s.labels, Label{Text: text, Opts: opts})
}

func (s *scene) RemoveAllLabels() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.labels = nil
}

func (s *scene) AddShape(kind viewer.ShapeKind, spec viewer.ShapeSpec) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shapes = append(s.shapes, Shape{Kind: kind, Spec: spec})
}

func (s *scene) RemoveAllShapes() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shapes = nil
}

func (s *scene) AddVolumetricIsosurface(volume viewer.VolumeDataset, opts viewer.IsoSurfaceOptions) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.surfs = append(s.surfs, Surface{Volume: volume, Opts: opts})
}

func (s *scene) RemoveAllSurfaces() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.surfs = nil
}

func (s *scene) SetBackground(color uint32, opacity float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.background = color
	s.backgroundOpacity = opacity
}

func (s *scene) SetClickHandler(sel viewer.Selector, enabled bool, cb viewer.ClickHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clickSel = sel
	s.clickEnabled = enabled
	s.clickHandler = cb
}

func (s *scene) Render() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.renders++
}

func (s *scene) ZoomToFit(opts viewer.ZoomOptions) {
	box, ok := s.bounds()
	if !ok {
		return
	}
	s.camera.ZoomToFit(box, opts.Factor)
}

func (s *scene) FitToSlab() {
	box, ok := s.bounds()
	if !ok {
		return
	}
	s.camera.FitToSlab(box)
}

func (s *scene) RotateView(deltaDegrees float64) {
	s.camera.RotateY(deltaDegrees)
}

func (s *scene) Camera() camera.Camera {
	return s.camera
}

// bounds returns the bounding box of the atoms at rest.
func (s *scene) bounds() (common.BoundingBox, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.atoms) == 0 {
		return common.BoundingBox{}, false
	}
	pts := make([]common.Vec3, len(s.atoms))
	for i, a := range s.atoms {
		pts[i] = common.Vec3{float32(a.Position[0]), float32(a.Position[1]), float32(a.Position[2])}
	}
	return common.NewBoundingBox(pts), true
}

func (s *scene) Style(serial int) viewer.Style {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.styles[serial]
}

func (s *scene) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Atoms:             make([]AtomView, len(s.atoms)),
		Labels:            append([]Label(nil), s.labels...),
		Shapes:            append([]Shape(nil), s.shapes...),
		Surfaces:          append([]Surface(nil), s.surfs...),
		Background:        s.background,
		BackgroundOpacity: s.backgroundOpacity,
		Frame:             s.frame,
		Frames:            len(s.frames),
		Renders:           s.renders,
	}
	for i, a := range s.atoms {
		style := s.styles[a.Serial]
		color, opacity := resolveColor(a.Element, style)
		snap.Atoms[i] = AtomView{
			Serial:   a.Serial,
			Element:  a.Element,
			Position: s.positionOf(i),
			Style:    style,
			Color:    color,
			Opacity:  opacity,
		}
	}
	return snap
}

// positionOf returns atom i's position in the current frame. Caller must hold the mutex.
func (s *scene) positionOf(i int) [3]float64 {
	if s.frame < 0 || s.frame >= len(s.frames) {
		return s.atoms[i].Position
	}
	f := s.frames[s.frame]
	return [3]float64{f[3*i], f[3*i+1], f[3*i+2]}
}

// resolveColor picks the colour of the first representation that sets one, falling back to the element colour.
func resolveColor(element string, style viewer.Style) (uint32, float64) {
	color := common.MustParseColor(molecule.ElementColor(element))
	opacity := 1.0
	for _, rep := range style.Representations() {
		rs := style[rep]
		if rs.Opacity != nil {
			opacity = *rs.Opacity
		}
		if rs.Color == "" {
			continue
		}
		if c, err := common.ParseColor(rs.Color); err == nil {
			color = c
			break
		}
	}
	return uint32(color), opacity
}

func (s *scene) Click(serial int) error {
	s.mu.Lock()
	var target *viewer.Atom
	for _, a := range s.atoms {
		if a.Serial == serial {
			target = a
			break
		}
	}
	cb, enabled, sel := s.clickHandler, s.clickEnabled, s.clickSel
	s.mu.Unlock()

	switch {
	case cb == nil || !enabled:
		return fmt.Errorf("clicks are disabled")
	case target == nil:
		return fmt.Errorf("atom %d is not loaded", serial)
	case !sel.Matches(serial):
		return fmt.Errorf("atom %d is not clickable", serial)
	}
	cb(target)
	return nil
}

func (s *scene) Pick(ndcX, ndcY float32) (*viewer.Atom, bool) {
	origin, dir := s.camera.Ray(ndcX, ndcY)

	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		best  *viewer.Atom
		bestT = math.Inf(1)
	)
	for i, a := range s.atoms {
		p := s.positionOf(i)
		toAtom := common.Vec3{float32(p[0]), float32(p[1]), float32(p[2])}.Sub(origin)
		t := float64(toAtom.Dot(dir))
		if t < 0 {
			continue
		}
		miss := toAtom.Sub(dir.Scale(float32(t))).Len()
		if float64(miss) <= s.pickRadius && t < bestT {
			best, bestT = a, t
		}
	}
	return best, best != nil
}

func (s *scene) ClickAt(ndcX, ndcY float32) bool {
	a, ok := s.Pick(ndcX, ndcY)
	if !ok {
		return false
	}
	return s.Click(a.Serial) == nil
}

func (s *scene) BuildVibrationFrames(steps int, amplitude float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	steps = max(steps, 1)
	base := make([]float64, 3*len(s.atoms))
	disp := make([]float64, 3*len(s.atoms))
	for i, a := range s.atoms {
		copy(base[3*i:], a.Position[:])
		if a.DX != nil || a.DY != nil || a.DZ != nil {
			disp[3*i] = common.Deref(a.DX, 0)
			disp[3*i+1] = common.Deref(a.DY, 0)
			disp[3*i+2] = common.Deref(a.DZ, 0)
		}
	}

	// Frames sweep from rest to full displacement; a back-and-forth loop plays the return.
	s.frames = make([][]float64, steps)
	for k := range steps {
		f := make([]float64, len(base))
		floats.AddScaledTo(f, base, amplitude*float64(k)/float64(max(steps-1, 1)), disp)
		s.frames[k] = f
	}
	s.frame = 0
	s.logger.Debugf("[Scene] built %d vibration frames at amplitude %.3f", steps, amplitude)
}

func (s *scene) IsAnimating() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.loops) > 0
}

func (s *scene) StartAnimate(opts viewer.AnimateOptions) {
	interval := opts.Interval
	if interval <= 0 {
		interval = 75 * time.Millisecond
	}

	s.mu.Lock()
	loop := &animationLoop{keepGoing: true, done: make(chan struct{})}
	s.loops = append(s.loops, loop)
	s.peakLoops = max(s.peakLoops, len(s.loops))
	s.mu.Unlock()

	go s.runLoop(loop, interval, opts.Loop, opts.Reps)
}

// runLoop advances frames on a ticker until its keepGoing flag is cleared or the requested reps finish.
func (s *scene) runLoop(loop *animationLoop, interval time.Duration, mode viewer.LoopMode, reps int) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	defer close(loop.done)

	step := 1
	if mode == viewer.LoopBackward {
		step = -1
	}
	completed := 0

	for range ticker.C {
		s.mu.Lock()
		if !loop.keepGoing {
			s.removeLoop(loop)
			s.mu.Unlock()
			return
		}
		n := len(s.frames)
		if n > 1 {
			next := s.frame + step
			wrapped := false
			switch {
			case next >= n && mode == viewer.LoopBackAndForth:
				step = -1
				next = n - 2
			case next < 0 && mode == viewer.LoopBackAndForth:
				step = 1
				next = 1
				wrapped = true
			case next >= n:
				next = 0
				wrapped = true
			case next < 0:
				next = n - 1
				wrapped = true
			}
			s.frame = next
			if wrapped {
				completed++
			}
		}
		if reps > 0 && completed >= reps {
			s.removeLoop(loop)
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()
	}
}

// removeLoop drops loop from the running set. Caller must hold the mutex.
func (s *scene) removeLoop(loop *animationLoop) {
	for i, l := range s.loops {
		if l == loop {
			s.loops = append(s.loops[:i], s.loops[i+1:]...)
			return
		}
	}
}

func (s *scene) StopAnimate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.loops {
		l.keepGoing = false
	}
}

func (s *scene) PeakLoops() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.peakLoops
}

func (s *scene) Close() {
	s.mu.Lock()
	loops := append([]*animationLoop(nil), s.loops...)
	for _, l := range loops {
		l.keepGoing = false
	}
	s.mu.Unlock()
	for _, l := range loops {
		<-l.done
	}
}
