// Package session reconciles a declarative Props description onto one viewer.
//
// A Session owns exactly one viewer.Viewer and every piece of per-scene state: the last loaded model,
// the style fingerprint cache, the selection, the animation controller and the rotator. Passes, clicks,
// deferred animation starts and rotation steps are serialized by one mutex, so no two passes ever
// touch the viewer at the same time.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-mol/common"
	"github.com/Carmen-Shannon/oxy-mol/engine/animator"
	"github.com/Carmen-Shannon/oxy-mol/engine/loader"
	"github.com/Carmen-Shannon/oxy-mol/engine/profiler"
	"github.com/Carmen-Shannon/oxy-mol/engine/selection"
	"github.com/Carmen-Shannon/oxy-mol/engine/style"
	"github.com/Carmen-Shannon/oxy-mol/engine/translate"
	"github.com/Carmen-Shannon/oxy-mol/engine/viewer"
)

// ErrUnknownAtom is returned by Click for a serial that is not in the loaded model.
var ErrUnknownAtom = errors.New("atom not in the current model")

// Session drives one viewer from successive Props.
type Session interface {
	// Reconcile runs one pass bringing the viewer in line with props:
	// selection re-seed, model reload, style diff, labels, shapes, surfaces, background and click
	// handler, render, camera fit, animation, then rotation.
	// A model the viewer rejects leaves the scene blank; the remaining steps still run and the load
	// error is returned.
	//
	// Parameters:
	//   - props: the desired scene
	//
	// Returns:
	//   - error: the wrapped load error, if any
	Reconcile(props Props) error

	// Click toggles the clicked atom into the selection using the current selection type, re-runs the
	// last pass without re-seeding and then notifies the selection changed handler.
	// A serial missing from the loaded model changes nothing and notifies no one.
	//
	// Parameters:
	//   - serial: the clicked atom's serial
	//
	// Returns:
	//   - error: ErrUnknownAtom for a serial outside the model, or the wrapped load error of the re-run pass
	Click(serial int) error

	// PointerDown stops continuous rotation until Rotate is switched off and on again.
	PointerDown()

	// Selected returns the current selection in order.
	//
	// Returns:
	//   - []int: the selected serials
	Selected() []int

	// Viewer returns the viewer the session owns.
	//
	// Returns:
	//   - viewer.Viewer: the viewer
	Viewer() viewer.Viewer

	// AnimationState returns the state of the vibration animation.
	//
	// Returns:
	//   - animator.State: the state
	AnimationState() animator.State

	// Rotating reports whether continuous rotation is active.
	//
	// Returns:
	//   - bool: true if rotating
	Rotating() bool

	// Close stops rotation, cancels pending animation starts and releases the style worker pool.
	// Later calls are no-ops.
	Close()
}

type session struct {
	mu *sync.Mutex

	viewer viewer.Viewer
	logger common.Logger

	differ    style.Differ
	loader    loader.Loader
	selection selection.Manager
	animator  animator.Controller
	rotator   animator.Rotator
	profiler  *profiler.Profiler

	scheduler       animator.Scheduler
	diffOptions     []style.DifferBuilderOption
	rotatorOptions  []animator.RotatorBuilderOption
	initialSelected []int

	onSelectionChanged func(ids []int)
	onSceneReady       func(v viewer.Viewer)

	last          Props
	hasLast       bool
	firstRendered bool
	rotationHeld  bool
	closed        bool
}

var _ Session = &session{}

// NewSession creates a Session owning v.
// Panics if v is nil.
//
// Parameters:
//   - v: the viewer
//   - options: functional options applied in order
//
// Returns:
//   - Session: the session
func NewSession(v viewer.Viewer, options ...SessionBuilderOption) Session {
	if v == nil {
		panic("session: viewer is required")
	}
	s := &session{
		mu:        &sync.Mutex{},
		viewer:    v,
		logger:    common.NoOpLogger{},
		scheduler: animator.RealScheduler{},
	}
	for _, opt := range options {
		opt(s)
	}

	s.differ = style.NewDiffer(append([]style.DifferBuilderOption{style.WithLogger(s.logger)}, s.diffOptions...)...)
	s.loader = loader.NewLoader(loader.BackendTypeCDJSON,
		loader.WithInvalidator(s.differ),
		loader.WithLogger(s.logger),
	)
	s.selection = selection.NewManager(selection.WithInitialSelection(s.initialSelected...))
	s.animator = animator.NewController(
		animator.WithScheduler(s.scheduler),
		animator.WithExecutor(s.exec),
		animator.WithLogger(s.logger),
	)
	s.rotator = animator.NewRotator(append([]animator.RotatorBuilderOption{
		animator.WithRotatorExecutor(s.exec),
		animator.WithRotatorLogger(s.logger),
	}, s.rotatorOptions...)...)
	return s
}

// exec runs fn under the session lock. Deferred animation starts and rotation steps re-enter here.
func (s *session) exec(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	fn()
}

func (s *session) Reconcile(props Props) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	ready, err := s.reconcile(props, true)
	cb := s.onSceneReady
	s.mu.Unlock()

	if ready && cb != nil {
		cb(s.viewer)
	}
	return err
}

// reconcile runs one pass. Caller must hold the mutex. It reports whether the model changed so the
// caller can fire the scene ready handler outside the lock.
func (s *session) reconcile(props Props, reseed bool) (bool, error) {
	start := time.Now()
	v := s.viewer

	if reseed && props.SelectedAtomIDs != nil {
		s.selection.Seed(props.SelectedAtomIDs)
	}

	var loadErr error
	modelChanged := s.loader.ShouldReload(props.ModelData)
	reloaded := modelChanged || s.animator.NeedsBaseReload(props.Animation)
	if reloaded {
		if err := s.loader.Load(v, props.ModelData); err != nil {
			s.logger.Errorf("[Session] failed to load model: %v", err)
			loadErr = fmt.Errorf("failed to load model: %w", err)
		}
	}

	atoms := props.atoms()
	batches := s.differ.Diff(style.Input{
		Atoms:       atoms,
		Selected:    s.selection.Set(),
		LabelsShown: props.AtomLabelsShown,
		Global:      props.Style,
		Overrides:   props.Styles,
	})
	styleCalls := s.differ.Apply(v, batches)

	v.RemoveAllLabels()
	if props.AtomLabelsShown {
		for _, a := range atoms {
			v.AddLabel(common.Coalesce(a.Name, a.Element), viewer.LabelOptions{
				FontSize: LabelFontSize,
				Position: a.Positions,
			})
		}
	}

	translate.Shapes(v, props.Shapes, s.logger)
	translate.Surfaces(v, props.Orbital, props.Volume, props.IsoSurfaces, s.logger)

	bg, err := common.ParseColor(common.Coalesce(props.BackgroundColor, DefaultBackgroundColor))
	if err != nil {
		s.logger.Warnf("[Session] invalid background color %q: %v", props.BackgroundColor, err)
		bg = common.MustParseColor(DefaultBackgroundColor)
	}
	v.SetBackground(uint32(bg), common.Deref(props.BackgroundOpacity, 1))
	v.SetClickHandler(viewer.All(), true, s.handleViewerClick)
	v.Render()

	if !s.firstRendered {
		v.ZoomToFit(viewer.ZoomOptions{Factor: FirstRenderZoom})
		s.firstRendered = true
	}
	if modelChanged {
		v.FitToSlab()
	}

	s.animator.Sync(v, props.Animation, reloaded)

	if props.Rotate {
		if !s.rotationHeld {
			s.rotator.Start(v)
		}
	} else {
		s.rotator.Stop()
		s.rotationHeld = false
	}

	s.last = props
	s.hasLast = true

	s.logger.Debugf("[Session] pass: reloaded=%t style calls=%d selected=%d", reloaded, styleCalls, len(s.selection.Selected()))
	if s.profiler != nil {
		s.profiler.RecordPass(reloaded, styleCalls, time.Since(start))
	}
	return modelChanged, loadErr
}

func (s *session) handleViewerClick(a *viewer.Atom) {
	if a == nil {
		return
	}
	if err := s.Click(a.Serial); err != nil {
		s.logger.Warnf("[Session] pass after click on atom %d: %v", a.Serial, err)
	}
}

func (s *session) Click(serial int) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}

	m := s.loader.Last()
	if _, ok := m.AtomBySerial(serial); !ok {
		s.mu.Unlock()
		return fmt.Errorf("click on atom %d: %w", serial, ErrUnknownAtom)
	}
	ids := s.selection.Click(m.Atoms, serial, s.scope())
	s.logger.Debugf("[Session] click on atom %d, selection now %v", serial, ids)

	var err error
	if s.hasLast {
		_, err = s.reconcile(s.last, false)
	}
	cb := s.onSelectionChanged
	s.mu.Unlock()

	if cb != nil {
		cb(ids)
	}
	return err
}

// scope resolves the selection type of the last props. Caller must hold the mutex.
func (s *session) scope() selection.Scope {
	if s.last.SelectionType == "" {
		return selection.ScopeAtom
	}
	scope, err := selection.ParseScope(s.last.SelectionType)
	if err != nil {
		s.logger.Warnf("[Session] %v, falling back to atom", err)
		return selection.ScopeAtom
	}
	return scope
}

func (s *session) PointerDown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rotator.Running() {
		s.rotator.Stop()
		s.rotationHeld = true
	}
}

func (s *session) Selected() []int {
	return s.selection.Selected()
}

func (s *session) Viewer() viewer.Viewer {
	return s.viewer
}

func (s *session) AnimationState() animator.State {
	return s.animator.State()
}

func (s *session) Rotating() bool {
	return s.rotator.Running()
}

func (s *session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.rotator.Stop()
	s.animator.Close()
	s.differ.Close()
}
