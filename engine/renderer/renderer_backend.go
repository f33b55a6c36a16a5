package renderer

import (
	"github.com/Carmen-Shannon/rig-go/engine/renderer/bind_group_provider"
)

// RendererBackendType identifies the GPU backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based rendering backend.
	BackendTypeWGPU RendererBackendType = iota
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// MSAASampleCount controls the number of samples used for multisample anti-aliasing (MSAA).
// Only specific power-of-two values are valid for GPU hardware. WebGPU guarantees support for
// 1 (off) and 4; higher values (8, 16) are adapter-dependent and may not be available.
type MSAASampleCount uint32

const (
	// MSAAOff disables multisample anti-aliasing (sample count 1).
	MSAAOff MSAASampleCount = 1

	// MSAA4x enables 4× multisample anti-aliasing. This is the default.
	MSAA4x MSAASampleCount = 4

	// MSAA8x enables 8× multisample anti-aliasing. Adapter-dependent; not all hardware supports this.
	MSAA8x MSAASampleCount = 8

	// MSAA16x enables 16× multisample anti-aliasing. Adapter-dependent; not all hardware supports this.
	MSAA16x MSAASampleCount = 16
)

// DrawRange addresses one sub-mesh's triangles within a model's shared index buffer.
type DrawRange struct {
	// FirstIndex is the offset into the index buffer where this range begins.
	FirstIndex uint32

	// IndexCount is the number of indices in this range.
	IndexCount uint32
}

// RendererBackend is the top-level backend interface for the Renderer.
// It embeds the concrete backend interface for the selected GPU API.
type RendererBackend interface {
	wgpuRendererBackend
}

// rendererBackendCore is the backend surface shared by all GPU APIs: surface
// lifecycle, resource initialization, uniform writes, and frame encoding.
type rendererBackendCore interface {
	// ConfigureSurface (re)configures the swapchain and rebuilds the
	// size-dependent render targets. Required when the surface size changes,
	// such as when the window is resized.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	ConfigureSurface(width, height int)

	// SetPresentMode sets the surface present mode which controls how frames are delivered to the display.
	//
	// Parameters:
	//   - mode: the PresentMode to use (VSync or Uncapped)
	SetPresentMode(mode PresentMode)

	// InitMeshBuffers creates the vertex and index buffers for a mesh from raw byte data
	// and stores them on the given BindGroupProvider.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the created vertex and index buffers on
	//   - vertexData: the raw vertex data bytes to upload to the GPU
	//   - indexData: the raw index data bytes to upload to the GPU
	//   - indexCount: the number of indices represented in the indexData, used for draw calls
	//
	// Returns:
	//   - error: an error if the buffers could not be created or initialized, otherwise nil
	InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error

	// InitCameraBindGroup creates the camera uniform buffer and bind group on the provider.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the created resources on
	//
	// Returns:
	//   - error: an error if the bind group could not be created
	InitCameraBindGroup(provider bind_group_provider.BindGroupProvider) error

	// InitModelBindGroup creates the per-model uniform buffer, bone palette storage
	// buffer, and bind group on the provider.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the created resources on
	//
	// Returns:
	//   - error: an error if the bind group could not be created
	InitModelBindGroup(provider bind_group_provider.BindGroupProvider) error

	// WriteBuffers writes all staged buffer writes to the GPU queue.
	// Each BufferWrite targets a specific buffer on a BindGroupProvider at a given binding and offset.
	//
	// Parameters:
	//   - writes: a slice of BufferWrite structs describing the data to write
	WriteBuffers(writes []bind_group_provider.BufferWrite)

	// BeginFrame acquires the next swapchain texture, creates a command encoder, and begins
	// the main render pass. Must be paired with EndFrame after all DrawCall invocations.
	//
	// Returns:
	//   - error: an error if the swapchain texture could not be acquired
	BeginFrame() error

	// DrawCall encodes indexed draw commands for every range of one model within the
	// current render pass started by BeginFrame.
	//
	// Parameters:
	//   - meshProvider: the BindGroupProvider holding vertex and index buffers plus the model bind group
	//   - cameraProvider: the BindGroupProvider holding the camera bind group
	//   - ranges: the index ranges to draw, one per sub-mesh
	DrawCall(meshProvider, cameraProvider bind_group_provider.BindGroupProvider, ranges []DrawRange)

	// EndFrame ends the current render pass and submits the command buffer to the GPU.
	// Does not present the surface; call Present() after EndFrame to display the frame.
	// Must be called after BeginFrame and all DrawCall invocations.
	EndFrame()

	// Present presents the surface to the display and releases the swapchain texture.
	// Must be called once per frame after EndFrame.
	Present()
}
