// Package viewertest provides a recording viewer.Viewer for tests.
package viewertest

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-mol/engine/molecule"
	"github.com/Carmen-Shannon/oxy-mol/engine/viewer"
)

// Call is one recorded viewer invocation.
type Call struct {
	Method string
	Args   []any
}

// StyleCall is a recorded SetStyle invocation.
type StyleCall struct {
	Selector viewer.Selector
	Style    viewer.Style
}

// IsoCall is a recorded AddVolumetricIsosurface invocation.
type IsoCall struct {
	Volume viewer.VolumeDataset
	Opts   viewer.IsoSurfaceOptions
}

// ShapeCall is a recorded AddShape invocation.
type ShapeCall struct {
	Kind viewer.ShapeKind
	Spec viewer.ShapeSpec
}

// LabelCall is a recorded AddLabel invocation.
type LabelCall struct {
	Text string
	Opts viewer.LabelOptions
}

// Recorder records every call and keeps just enough state to behave like a viewer:
// loaded atoms, the click handler and the animation flag.
type Recorder struct {
	mu sync.Mutex

	Calls []Call

	atoms        []*viewer.Atom
	clickSel     viewer.Selector
	clickEnabled bool
	clickHandler viewer.ClickHandler

	// Animating is returned by IsAnimating. StartAnimate sets it; StopAnimate leaves it alone unless
	// StopClearsAnimating is set, mimicking a loop that only exits on its next tick.
	Animating           bool
	StopClearsAnimating bool

	// LoadErr, when set, is returned by LoadModel.
	LoadErr error
}

var _ viewer.Viewer = &Recorder{}

// New returns an empty Recorder.
func New() *Recorder {
	return &Recorder{}
}

func (r *Recorder) record(method string, args ...any) {
	r.Calls = append(r.Calls, Call{Method: method, Args: args})
}

func (r *Recorder) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.atoms = nil
	r.record("Clear")
}

func (r *Recorder) LoadModel(data []byte, format viewer.Format, opts viewer.LoadOptions) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("LoadModel", string(data), format, opts)
	if r.LoadErr != nil {
		return r.LoadErr
	}
	wire, _, err := molecule.DecodeCDJSON(data)
	if err != nil {
		return err
	}
	r.atoms = make([]*viewer.Atom, len(wire))
	for i, w := range wire {
		r.atoms[i] = &viewer.Atom{Index: w.Index, Position: w.Position, Element: w.Element}
	}
	return nil
}

func (r *Recorder) LoadedAtoms() []*viewer.Atom {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.atoms
}

func (r *Recorder) SetStyle(sel viewer.Selector, style viewer.Style) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("SetStyle", StyleCall{Selector: sel, Style: style})
}

func (r *Recorder) AddLabel(text string, opts viewer.LabelOptions) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("AddLabel", LabelCall{Text: text, Opts: opts})
}

func (r *Recorder) RemoveAllLabels() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("RemoveAllLabels")
}

func (r *Recorder) AddShape(kind viewer.ShapeKind, spec viewer.ShapeSpec) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("AddShape", ShapeCall{Kind: kind, Spec: spec})
}

func (r *Recorder) RemoveAllShapes() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("RemoveAllShapes")
}

func (r *Recorder) AddVolumetricIsosurface(volume viewer.VolumeDataset, opts viewer.IsoSurfaceOptions) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("AddVolumetricIsosurface", IsoCall{Volume: volume, Opts: opts})
}

func (r *Recorder) RemoveAllSurfaces() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("RemoveAllSurfaces")
}

func (r *Recorder) SetBackground(color uint32, opacity float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("SetBackground", color, opacity)
}

func (r *Recorder) SetClickHandler(sel viewer.Selector, enabled bool, cb viewer.ClickHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clickSel = sel
	r.clickEnabled = enabled
	r.clickHandler = cb
	r.record("SetClickHandler", enabled)
}

func (r *Recorder) Render() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("Render")
}

func (r *Recorder) ZoomToFit(opts viewer.ZoomOptions) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("ZoomToFit", opts)
}

func (r *Recorder) FitToSlab() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("FitToSlab")
}

func (r *Recorder) IsAnimating() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Animating
}

func (r *Recorder) StartAnimate(opts viewer.AnimateOptions) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Animating = true
	r.record("StartAnimate", opts)
}

func (r *Recorder) StopAnimate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.StopClearsAnimating {
		r.Animating = false
	}
	r.record("StopAnimate")
}

func (r *Recorder) BuildVibrationFrames(steps int, amplitude float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("BuildVibrationFrames", steps, amplitude)
}

func (r *Recorder) RotateView(deltaDegrees float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("RotateView", deltaDegrees)
}

// SetAnimating sets the value reported by IsAnimating, as a loop exiting on its own would.
func (r *Recorder) SetAnimating(v bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Animating = v
}

// Click simulates a click on the loaded atom with the given serial.
//
// Returns:
//   - error: error if no handler is registered, clicks are disabled or the atom is not clickable
func (r *Recorder) Click(serial int) error {
	r.mu.Lock()
	var target *viewer.Atom
	for _, a := range r.atoms {
		if a.Serial == serial {
			target = a
			break
		}
	}
	cb, enabled, sel := r.clickHandler, r.clickEnabled, r.clickSel
	r.mu.Unlock()

	switch {
	case cb == nil || !enabled:
		return fmt.Errorf("no click handler registered")
	case target == nil || !sel.Matches(serial):
		return fmt.Errorf("atom %d is not clickable", serial)
	}
	cb(target)
	return nil
}

// Reset forgets the recorded calls but keeps viewer state.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls = nil
}

// Methods returns the recorded method names in order.
func (r *Recorder) Methods() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.Calls))
	for i, c := range r.Calls {
		out[i] = c.Method
	}
	return out
}

// Count returns how many times method was called.
func (r *Recorder) Count(method string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.Calls {
		if c.Method == method {
			n++
		}
	}
	return n
}

// StyleCalls returns the recorded SetStyle invocations.
func (r *Recorder) StyleCalls() []StyleCall {
	return collect[StyleCall](r, "SetStyle")
}

// IsoCalls returns the recorded AddVolumetricIsosurface invocations.
func (r *Recorder) IsoCalls() []IsoCall {
	return collect[IsoCall](r, "AddVolumetricIsosurface")
}

// ShapeCalls returns the recorded AddShape invocations.
func (r *Recorder) ShapeCalls() []ShapeCall {
	return collect[ShapeCall](r, "AddShape")
}

// LabelCalls returns the recorded AddLabel invocations.
func (r *Recorder) LabelCalls() []LabelCall {
	return collect[LabelCall](r, "AddLabel")
}

func collect[T any](r *Recorder, method string) []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []T
	for _, c := range r.Calls {
		if c.Method == method && len(c.Args) == 1 {
			if v, ok := c.Args[0].(T); ok {
				out = append(out, v)
			}
		}
	}
	return out
}
