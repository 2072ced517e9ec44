package renderer

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-mol/common"
	"github.com/Carmen-Shannon/oxy-mol/engine/camera"
	"github.com/Carmen-Shannon/oxy-mol/engine/scene"
	"github.com/Carmen-Shannon/oxy-mol/engine/window"
)

//go:embed shaders/atoms.wgsl
var atomShaderSource string

// DefaultAtomRadius is the world-space radius of a sphere-styled atom.
const DefaultAtomRadius = 0.6

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	backendType RendererBackendType
	backend     RendererBackend
	logger      common.Logger

	atomRadius float32
	frames     uint64
	closed     bool

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
	pendingMSAA          *MSAASampleCount
}

// Renderer draws scene snapshots into a window surface.
//
// Atoms are drawn as shaded billboards coloured by their resolved style. The clear colour follows the
// snapshot background so the preview matches what the viewer was told to show.
type Renderer interface {
	// Resize configures the underlying backend to handle a new surface size.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	Resize(width, height int)

	// SetPresentMode changes the present mode and reconfigures the surface.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	//   - width: the current surface width in pixels
	//   - height: the current surface height in pixels
	SetPresentMode(mode PresentMode, width, height int)

	// Render draws one frame of snap as seen through cam and presents it.
	//
	// Parameters:
	//   - cam: the camera to draw through
	//   - snap: the scene snapshot to draw
	//
	// Returns:
	//   - error: an error if the frame could not be acquired or the instances could not be uploaded
	Render(cam camera.Camera, snap scene.Snapshot) error

	// Frames returns the number of frames presented so far.
	//
	// Returns:
	//   - uint64: the frame count
	Frames() uint64

	// Close releases every GPU resource. Render is a no-op afterwards.
	Close()
}

var _ Renderer = &renderer{}

// NewRenderer creates a Renderer for the window's surface and registers the atom pipeline.
//
// Parameters:
//   - backendType: the type of rendering backend to use (e.g., WGPU)
//   - w: the window that owns the surface
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: the renderer
//   - error: an error if no adapter or device is available, or if the pipeline fails to compile
func NewRenderer(backendType RendererBackendType, w window.Window, options ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		mu:          &sync.Mutex{},
		backendType: backendType,
		logger:      common.NoOpLogger{},
		atomRadius:  DefaultAtomRadius,
	}

	// Apply options first so config flags (e.g. forceFallbackAdapter) are
	// available before the backend requests a GPU adapter.
	for _, opt := range options {
		opt(r)
	}

	msaa := MSAA4x
	if r.pendingMSAA != nil {
		msaa = *r.pendingMSAA
	}

	var (
		backend wgpuRendererBackend
		err     error
	)
	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		backend, err = newWGPURendererBackend(w.SurfaceDescriptor(), r.forceFallbackAdapter, msaa)
	}
	if err != nil {
		return nil, fmt.Errorf("create renderer backend: %w", err)
	}
	r.backend = backend

	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}
	r.backend.ConfigureSurface(w.Width(), w.Height())

	if err := r.backend.RegisterAtomPipeline(atomShaderSource); err != nil {
		r.backend.Release()
		return nil, fmt.Errorf("register atom pipeline: %w", err)
	}

	r.logger.Infof("[Renderer] ready: %dx%d msaa=%d", w.Width(), w.Height(), msaa)
	return r, nil
}

func (r *renderer) Resize(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) SetPresentMode(mode PresentMode, width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	r.backend.SetPresentMode(mode)
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) Render(cam camera.Camera, snap scene.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}

	uniform := camera.NewGPUCameraUniform(cam, r.atomRadius)
	r.backend.WriteCamera(uniform.Marshal())

	instances := BuildInstances(snap.Atoms)
	if err := r.backend.WriteInstances(common.SliceToBytes(instances), len(instances)); err != nil {
		return err
	}

	if err := r.backend.BeginFrame(ClearColor(snap.Background, snap.BackgroundOpacity)); err != nil {
		return fmt.Errorf("begin frame: %w", err)
	}
	r.backend.DrawAtoms()
	r.backend.EndFrame()
	r.backend.Present()
	r.frames++
	return nil
}

func (r *renderer) Frames() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.frames
}

func (r *renderer) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	r.closed = true
	r.backend.Release()
	r.logger.Debugf("[Renderer] released after %d frames", r.frames)
}
