package renderer

import "github.com/cogentcore/webgpu/wgpu"

// RendererBackendType identifies the GPU backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based rendering backend.
	BackendTypeWGPU RendererBackendType = iota
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting. This is the default for the preview.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	PresentModeUncapped
)

// MSAASampleCount controls the number of samples used for multisample anti-aliasing (MSAA).
// WebGPU guarantees support for 1 (off) and 4.
type MSAASampleCount uint32

const (
	// MSAAOff disables multisample anti-aliasing (sample count 1).
	MSAAOff MSAASampleCount = 1

	// MSAA4x enables 4× multisample anti-aliasing. This is the default.
	MSAA4x MSAASampleCount = 4
)

// RendererBackend is the top-level backend interface for the Renderer.
// It embeds the concrete backend interface for the selected GPU API.
type RendererBackend interface {
	wgpuRendererBackend
}

// wgpuRendererBackend draws atom billboards through WebGPU.
type wgpuRendererBackend interface {
	// ConfigureSurface reconfigures the swapchain and the attachments that depend on its size.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	ConfigureSurface(width, height int)

	// SetPresentMode sets the present mode used at the next ConfigureSurface.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// RegisterAtomPipeline compiles the atom shader and creates the render pipeline with its camera bind group.
	//
	// Parameters:
	//   - source: the WGSL source
	//
	// Returns:
	//   - error: an error if shader or pipeline creation fails
	RegisterAtomPipeline(source string) error

	// WriteCamera uploads the camera uniform.
	//
	// Parameters:
	//   - data: the marshalled uniform
	WriteCamera(data []byte)

	// WriteInstances uploads the atom instances, growing the instance buffer when needed.
	//
	// Parameters:
	//   - data: the packed instances
	//   - count: the number of instances in data
	//
	// Returns:
	//   - error: an error if the buffer could not be grown
	WriteInstances(data []byte, count int) error

	// BeginFrame acquires the swapchain texture and begins the render pass, clearing to clear.
	//
	// Parameters:
	//   - clear: the clear colour
	//
	// Returns:
	//   - error: an error if the swapchain texture could not be acquired
	BeginFrame(clear wgpu.Color) error

	// DrawAtoms encodes the instanced atom draw into the current render pass.
	DrawAtoms()

	// EndFrame ends the render pass and submits the command buffer.
	EndFrame()

	// Present displays the acquired surface texture.
	Present()

	// Release frees every GPU resource owned by the backend.
	Release()
}
