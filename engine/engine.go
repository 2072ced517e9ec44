package engine

import (
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-mol/common"
	"github.com/Carmen-Shannon/oxy-mol/engine/animator"
	"github.com/Carmen-Shannon/oxy-mol/engine/renderer"
	"github.com/Carmen-Shannon/oxy-mol/engine/scene"
	"github.com/Carmen-Shannon/oxy-mol/engine/session"
	"github.com/Carmen-Shannon/oxy-mol/engine/viewer"
	"github.com/Carmen-Shannon/oxy-mol/engine/window"
)

const (
	// DefaultOrbitSpeed is the camera orbit in radians per dragged pixel.
	DefaultOrbitSpeed = 0.01

	// DefaultZoomStep divides the camera distance per scroll notch.
	DefaultZoomStep = 1.1

	// DefaultAnimationAmplitude is used when the animation key is pressed and no amplitude was ever set.
	DefaultAnimationAmplitude = 1.0
)

// engine implements the Engine interface.
// Coordinates engine, render, and window threads.
type engine struct {
	mu *sync.Mutex

	tickRateChannel chan time.Duration // Channel for dynamic tick rate updates

	running bool
	wg      sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	window   window.Window
	renderer renderer.Renderer
	scene    scene.Scene
	session  session.Session
	logger   common.Logger

	sessionOptions []session.SessionBuilderOption

	props         session.Props
	lastAnimation animator.Spec

	engineTickRate time.Duration
	tickCallback   func(deltaTime float32)
	renderCallback func(deltaTime float32)

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped

	width, height int
	orbitSpeed    float32
	zoomStep      float32
	dragging      bool
	lastX, lastY  int32
}

// Engine runs one molecular scene: it owns the Session that reconciles Props onto the scene and, when a
// window is attached, the render loop and the input bindings of the interactive preview.
type Engine interface {
	// Window returns the underlying window, nil when headless.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Scene returns the scene the session drives.
	//
	// Returns:
	//   - scene.Scene: the scene
	Scene() scene.Scene

	// Session returns the session that reconciles props onto the scene.
	//
	// Returns:
	//   - session.Session: the session
	Session() session.Session

	// Props returns a copy of the props the last pass reconciled.
	//
	// Returns:
	//   - session.Props: the props
	Props() session.Props

	// SetProps replaces the current props and runs a pass.
	// A non-nil SelectedAtomIDs re-seeds the selection once; later passes keep the clicked selection.
	//
	// Parameters:
	//   - p: the new props
	//
	// Returns:
	//   - error: the pass error, if any
	SetProps(p session.Props) error

	// Update mutates the current props under the engine lock and runs a pass.
	//
	// Parameters:
	//   - fn: the mutation
	//
	// Returns:
	//   - error: the pass error, if any
	Update(fn func(p *session.Props)) error

	// HandleKey applies a preview shortcut: R rotate, L labels, A animation, C clear selection, F fit,
	// 1/2/3 atom/residue/chain selection and Esc quit. Other keys are ignored.
	//
	// Parameters:
	//   - keyCode: the key, one of the common.Key* codes
	HandleKey(keyCode uint32)

	// SetTickRate sets the engine tick rate in ticks per second.
	// If the engine is running, the change takes effect immediately.
	//
	// Parameters:
	//   - fps: target ticks per second, values <= 0 reset to 60
	SetTickRate(fps float64)

	// SetTickCallback registers the function called each engine tick.
	//
	// Parameters:
	//   - callback: function receiving delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetRenderCallback registers the function called after each rendered frame.
	//
	// Parameters:
	//   - callback: function receiving delta time in seconds
	SetRenderCallback(callback func(deltaTime float32))

	// SetRenderFrameLimit sets an optional render frame rate cap.
	//
	// Parameters:
	//   - fps: maximum frames per second, 0 uncaps
	SetRenderFrameLimit(fps float64)

	// Run starts the engine and blocks. With a window it pumps window messages until the window closes;
	// headless it blocks until Quit.
	Run()

	// Quit signals all engine goroutines to stop. Safe to call multiple times.
	Quit()
}

var _ Engine = &engine{}

// NewEngine creates an Engine driving sc. The session is created here so it owns sc for the engine's
// lifetime. Panics if sc is nil.
//
// Parameters:
//   - sc: the scene
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(sc scene.Scene, options ...EngineBuilderOption) Engine {
	if sc == nil {
		panic("engine: scene is required")
	}
	e := &engine{
		mu:              &sync.Mutex{},
		tickRateChannel: make(chan time.Duration, 1),
		quitChannel:     make(chan struct{}),
		scene:           sc,
		logger:          common.NoOpLogger{},
		engineTickRate:  time.Second / 60,
		width:           1280,
		height:          720,
		orbitSpeed:      DefaultOrbitSpeed,
		zoomStep:        DefaultZoomStep,
		lastAnimation:   animator.Spec{Amplitude: DefaultAnimationAmplitude},
	}

	for _, opt := range options {
		opt(e)
	}

	e.session = session.NewSession(sc, append([]session.SessionBuilderOption{session.WithLogger(e.logger)}, e.sessionOptions...)...)

	if e.window != nil {
		e.width, e.height = e.window.Width(), e.window.Height()
		e.bindWindow(e.window)
	}
	e.handleResize(e.width, e.height)

	return e
}

// bindWindow routes window input to the camera and the session.
func (e *engine) bindWindow(w window.Window) {
	w.SetResizeCallback(e.handleResize)
	w.SetScrollCallback(e.handleScroll)
	w.SetKeyDownCallback(e.HandleKey)
	w.SetPointerDownCallback(e.handlePointerDown)
	w.SetPointerUpCallback(e.handlePointerUp)
	w.SetMouseMoveCallback(e.handleMouseMove)
	w.SetClickCallback(e.handleClick)
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Scene() scene.Scene {
	return e.scene
}

func (e *engine) Session() session.Session {
	return e.session
}

func (e *engine) Props() session.Props {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.props
}

func (e *engine) SetProps(p session.Props) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.props = p
	return e.reconcile()
}

func (e *engine) Update(fn func(p *session.Props)) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	fn(&e.props)
	return e.reconcile()
}

// reconcile runs a pass with the current props. Caller must hold the mutex.
func (e *engine) reconcile() error {
	if e.props.Animation != nil {
		e.lastAnimation = *e.props.Animation
	}
	err := e.session.Reconcile(e.props)
	// The seed has been applied; keep later passes from overwriting clicks.
	e.props.SelectedAtomIDs = nil
	if err != nil {
		e.logger.Warnf("[Engine] pass failed: %v", err)
	}
	return err
}

func (e *engine) Run() {
	e.mu.Lock()
	e.running = true
	e.mu.Unlock()

	e.handle()
	if e.window != nil {
		e.window.ProcessMessages()
		e.signalQuit()
	} else {
		<-e.quitChannel
	}
	e.wg.Wait()
	e.session.Close()
	if e.renderer != nil {
		e.renderer.Close()
	}
}

// Quit signals all engine goroutines to stop and shuts down the engine.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.signalQuit()
	if e.window != nil {
		if err := e.window.Close(); err != nil {
			e.logger.Warnf("[Engine] close window: %v", err)
		}
	}
}

// signalQuit closes the quit channel to signal all goroutines to exit.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		e.mu.Lock()
		e.running = false
		e.mu.Unlock()
		close(e.quitChannel)
	})
}

// handle launches the engine and render goroutines.
// Each goroutine is tracked by the engine's WaitGroup.
func (e *engine) handle() {
	e.wg.Add(1)
	go e.handleEngine()
	if e.renderer != nil {
		e.wg.Add(1)
		go e.handleRender()
	}
}

// handleEngine runs the fixed-rate engine tick loop in its own goroutine.
// Fires the tick callback at the configured tick rate and listens for dynamic rate changes
// via tickRateChannel. Exits when the quit channel is closed.
func (e *engine) handleEngine() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.engineTickRate)
	defer ticker.Stop()

	lastTick := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		case <-ticker.C:
			now := time.Now()
			dt := float32(now.Sub(lastTick).Seconds())
			lastTick = now

			if e.tickCallback != nil {
				e.tickCallback(dt)
			}
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
			e.engineTickRate = newRate
		}
	}
}

// handleRender draws the scene snapshot every frame until quit.
// Recovers from panics to avoid crashing the process and signals quit on recovery.
func (e *engine) handleRender() {
	defer e.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			e.logger.Errorf("[Engine] render goroutine recovered from panic: %v", r)
			e.signalQuit()
		}
	}()

	lastRender := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		default:
			now := time.Now()
			dt := float32(now.Sub(lastRender).Seconds())
			lastRender = now

			if err := e.renderer.Render(e.scene.Camera(), e.scene.Snapshot()); err != nil {
				e.logger.Debugf("[Engine] frame skipped: %v", err)
			}

			if e.renderCallback != nil {
				e.renderCallback(dt)
			}

			// Frame rate limiting
			if e.renderFrameLimit > 0 {
				elapsed := time.Since(lastRender)
				if remaining := e.renderFrameLimit - elapsed; remaining > 0 {
					time.Sleep(remaining)
				}
			}
		}
	}
}

func (e *engine) handleResize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	e.mu.Lock()
	e.width, e.height = width, height
	e.mu.Unlock()

	if e.renderer != nil {
		e.renderer.Resize(width, height)
	}
	e.scene.Camera().SetAspect(float32(width) / float32(height))
}

func (e *engine) handleScroll(delta float32) {
	switch {
	case delta > 0:
		e.scene.Camera().Zoom(e.zoomStep)
	case delta < 0:
		e.scene.Camera().Zoom(1 / e.zoomStep)
	}
}

func (e *engine) handlePointerDown(x, y int32) {
	e.session.PointerDown()

	e.mu.Lock()
	defer e.mu.Unlock()
	e.dragging = true
	e.lastX, e.lastY = x, y
}

func (e *engine) handlePointerUp(x, y int32) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.dragging = false
}

func (e *engine) handleMouseMove(x, y int32) {
	e.mu.Lock()
	if !e.dragging {
		e.mu.Unlock()
		return
	}
	dx, dy := x-e.lastX, y-e.lastY
	e.lastX, e.lastY = x, y
	e.mu.Unlock()

	e.scene.Camera().Orbit(-float32(dx)*e.orbitSpeed, float32(dy)*e.orbitSpeed)
}

// handleClick picks the atom under the pixel and lets the scene dispatch it to the session.
func (e *engine) handleClick(x, y int32) {
	e.mu.Lock()
	w, h := e.width, e.height
	e.mu.Unlock()

	ndcX, ndcY := common.PixelToNDC(x, y, w, h)
	if !e.scene.ClickAt(ndcX, ndcY) {
		e.logger.Debugf("[Engine] click at (%d, %d) hit no atom", x, y)
	}
}

func (e *engine) HandleKey(keyCode uint32) {
	var mutate func(p *session.Props)
	switch keyCode {
	case common.KeyEsc:
		e.Quit()
		return
	case common.KeyF:
		e.scene.ZoomToFit(viewer.ZoomOptions{Factor: session.FirstRenderZoom})
		e.scene.Render()
		return
	case common.KeyR:
		mutate = func(p *session.Props) { p.Rotate = !p.Rotate }
	case common.KeyL:
		mutate = func(p *session.Props) { p.AtomLabelsShown = !p.AtomLabelsShown }
	case common.KeyC:
		mutate = func(p *session.Props) { p.SelectedAtomIDs = []int{} }
	case common.KeyA:
		mutate = func(p *session.Props) {
			if p.Animation != nil {
				p.Animation = nil
				return
			}
			spec := e.lastAnimation
			p.Animation = &spec
		}
	case common.Key1:
		mutate = func(p *session.Props) { p.SelectionType = "atom" }
	case common.Key2:
		mutate = func(p *session.Props) { p.SelectionType = "residue" }
	case common.Key3:
		mutate = func(p *session.Props) { p.SelectionType = "chain" }
	default:
		return
	}
	// Errors are logged by reconcile.
	_ = e.Update(mutate)
}

func (e *engine) SetTickRate(fps float64) {
	if fps <= 0 {
		fps = 60
	}
	newRate := time.Duration(float64(time.Second) / fps)

	e.mu.Lock()
	running := e.running
	e.mu.Unlock()

	if running {
		// Non-blocking send - if channel is full, replace the pending value
		select {
		case e.tickRateChannel <- newRate:
		default:
			select {
			case <-e.tickRateChannel:
			default:
			}
			e.tickRateChannel <- newRate
		}
	} else {
		e.engineTickRate = newRate
	}
}

func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.tickCallback = callback
}

func (e *engine) SetRenderCallback(callback func(deltaTime float32)) {
	e.renderCallback = callback
}

func (e *engine) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
}
