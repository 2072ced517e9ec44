package engine

import (
	"time"

	"github.com/Carmen-Shannon/oxy-mol/common"
	"github.com/Carmen-Shannon/oxy-mol/engine/profiler"
	"github.com/Carmen-Shannon/oxy-mol/engine/renderer"
	"github.com/Carmen-Shannon/oxy-mol/engine/session"
	"github.com/Carmen-Shannon/oxy-mol/engine/window"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling attaches a profiler that logs pass statistics through the engine's logger.
// Apply after WithLogger so the profiler picks up the same logger.
//
// Parameters:
//   - enabled: if true, enables pass profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		if !enabled {
			return
		}
		p := profiler.NewProfiler(profiler.WithLogger(e.logger))
		e.sessionOptions = append(e.sessionOptions, session.WithProfiler(p))
	}
}

// WithTickRate sets the engine tick rate in ticks per second.
// Values <= 0 will be treated as the default (60Hz).
//
// Parameters:
//   - fps: target ticks per second (default 60)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTickRate(fps float64) EngineBuilderOption {
	return func(e *engine) {
		if fps <= 0 {
			fps = 60.0
		}
		e.engineTickRate = time.Duration(float64(time.Second) / fps)
	}
}

// WithWindow attaches a window. Its input drives the camera and the session.
//
// Parameters:
//   - w: a pre-configured Window instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithRenderer attaches a renderer. The engine draws the scene with it every frame and releases it on exit.
//
// Parameters:
//   - r: the renderer, usually created for the same window passed to WithWindow
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderer(r renderer.Renderer) EngineBuilderOption {
	return func(e *engine) {
		e.renderer = r
	}
}

// WithRenderFrameLimit sets an optional render frame rate cap in frames per second.
// Pass 0 to uncap the render loop (default).
//
// Parameters:
//   - fps: maximum render frames per second (0 = uncapped)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		if fps > 0 {
			e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
		}
	}
}

// WithLogger sets the logger shared by the engine and its session.
//
// Parameters:
//   - l: the logger, ignored if nil
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithLogger(l common.Logger) EngineBuilderOption {
	return func(e *engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithSessionOptions forwards options to the session the engine creates.
//
// Parameters:
//   - opts: the session options
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithSessionOptions(opts ...session.SessionBuilderOption) EngineBuilderOption {
	return func(e *engine) {
		e.sessionOptions = append(e.sessionOptions, opts...)
	}
}

// WithSize sets the surface size used for picking when no window is attached.
//
// Parameters:
//   - width, height: the size in pixels
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithSize(width, height int) EngineBuilderOption {
	return func(e *engine) {
		if width > 0 && height > 0 {
			e.width, e.height = width, height
		}
	}
}

// WithOrbitSpeed sets the camera orbit per dragged pixel.
//
// Parameters:
//   - radiansPerPixel: the speed, ignored unless positive
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithOrbitSpeed(radiansPerPixel float32) EngineBuilderOption {
	return func(e *engine) {
		if radiansPerPixel > 0 {
			e.orbitSpeed = radiansPerPixel
		}
	}
}
