// Package animator drives the viewer's vibration animation and continuous rotation.
package animator

import (
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-mol/common"
	"github.com/Carmen-Shannon/oxy-mol/engine/viewer"
)

const (
	// VibrationSteps is the number of frames generated per vibration.
	VibrationSteps = 10

	// StartDelay is how long a start is deferred so a stopped loop can observe its flag and exit.
	StartDelay = 100 * time.Millisecond

	// FrameInterval is the delay between animation frames.
	FrameInterval = 75 * time.Millisecond
)

// Spec requests a vibration animation. A nil *Spec means no animation.
type Spec struct {
	Amplitude float64 `json:"amplitude" yaml:"amplitude" toml:"amplitude"`
}

// State is the controller's animation state.
type State int

const (
	// StateIdle means no animation is requested.
	StateIdle State = iota
	// StateFramesStale means an animation is requested but frames do not match the current amplitude.
	StateFramesStale
	// StateStarting means frames are built and a deferred start is pending.
	StateStarting
	// StateAnimating means the loop has been started.
	StateAnimating
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateFramesStale:
		return "frames-stale"
	case StateStarting:
		return "starting"
	case StateAnimating:
		return "animating"
	default:
		return "idle"
	}
}

// Controller is the vibration animation state machine. It never lets two loops run at once: every
// restart is deferred and only proceeds once the viewer reports the previous loop has exited.
type Controller interface {
	// NeedsBaseReload reports whether frames exist for a different amplitude. Frames encode displacement
	// from rest geometry, so the caller must reload the undisplaced model before the next Sync.
	//
	// Parameters:
	//   - spec: the requested animation, may be nil
	//
	// Returns:
	//   - bool: true if the base model must be reloaded
	NeedsBaseReload(spec *Spec) bool

	// Sync applies the requested animation to the viewer.
	// A nil spec stops any loop. Stale frames (first request, amplitude change or model reload) stop the
	// running loop, rebuild frames and schedule a deferred start. Current frames with no running loop
	// schedule a deferred start.
	//
	// Parameters:
	//   - v: the viewer
	//   - spec: the requested animation, may be nil
	//   - modelReloaded: whether the model was reloaded in this pass, which discards frames
	Sync(v viewer.Viewer, spec *Spec, modelReloaded bool)

	// State returns the current state.
	//
	// Returns:
	//   - State: the state
	State() State

	// Generation returns the restart token. It increases every time a loop is invalidated.
	//
	// Returns:
	//   - uint64: the generation
	Generation() uint64

	// Close cancels any pending deferred start.
	Close()
}

type controller struct {
	mu *sync.Mutex

	scheduler Scheduler
	exec      func(func())
	logger    common.Logger

	state      State
	hasFrames  bool
	amplitude  float64
	generation uint64
	timer      Timer
}

var _ Controller = &controller{}

// NewController creates an idle Controller.
//
// Parameters:
//   - options: functional options applied in order
//
// Returns:
//   - Controller: the controller
func NewController(options ...ControllerBuilderOption) Controller {
	c := &controller{
		mu:        &sync.Mutex{},
		scheduler: RealScheduler{},
		exec:      func(fn func()) { fn() },
		logger:    common.NoOpLogger{},
		state:     StateIdle,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

func (c *controller) NeedsBaseReload(spec *Spec) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return spec != nil && c.hasFrames && spec.Amplitude != c.amplitude
}

func (c *controller) Sync(v viewer.Viewer, spec *Spec, modelReloaded bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if spec == nil {
		if c.state != StateIdle {
			v.StopAnimate()
			c.invalidate()
			c.logger.Debugf("[Animator] stopped, generation %d", c.generation)
		}
		c.state = StateIdle
		c.hasFrames = false
		return
	}

	if !c.hasFrames || modelReloaded || spec.Amplitude != c.amplitude {
		c.state = StateFramesStale
	}

	if c.state == StateFramesStale {
		v.StopAnimate()
		c.invalidate()
		v.BuildVibrationFrames(VibrationSteps, spec.Amplitude)
		c.hasFrames = true
		c.amplitude = spec.Amplitude
		c.logger.Debugf("[Animator] built %d frames at amplitude %.3f, generation %d", VibrationSteps, spec.Amplitude, c.generation)
		c.scheduleStart(v)
		return
	}

	if c.state != StateStarting && !v.IsAnimating() {
		c.scheduleStart(v)
	}
}

// invalidate bumps the generation so any pending deferred start becomes a no-op.
func (c *controller) invalidate() {
	c.generation++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// scheduleStart arms a deferred start bound to the current generation. Must hold c.mu.
func (c *controller) scheduleStart(v viewer.Viewer) {
	gen := c.generation
	c.state = StateStarting

	var fire func()
	fire = func() {
		c.exec(func() {
			c.mu.Lock()
			defer c.mu.Unlock()

			if gen != c.generation || c.state != StateStarting {
				return
			}
			if v.IsAnimating() {
				// The previous loop has not observed its stop flag yet.
				c.timer = c.scheduler.AfterFunc(StartDelay, fire)
				return
			}
			v.StartAnimate(viewer.AnimateOptions{
				Interval: FrameInterval,
				Loop:     viewer.LoopBackAndForth,
				Reps:     0,
			})
			c.state = StateAnimating
			c.timer = nil
			c.logger.Debugf("[Animator] loop started, generation %d", gen)
		})
	}
	c.timer = c.scheduler.AfterFunc(StartDelay, fire)
}

func (c *controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *controller) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

func (c *controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidate()
}
