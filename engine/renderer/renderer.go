package renderer

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/rig-go/common"
	"github.com/Carmen-Shannon/rig-go/engine/camera"
	"github.com/Carmen-Shannon/rig-go/engine/model"
	"github.com/Carmen-Shannon/rig-go/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/rig-go/engine/window"
)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	// tints maps model names to material base color factors applied in the
	// shader, populated via SetModelTint from imported material data.
	tints map[string][4]float32

	backendType RendererBackendType
	backend     RendererBackend

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
	pendingMSAA          *MSAASampleCount
}

// Renderer defines the interface for the rendering system.
//
// This is a high-level API designed to simplify rendering tasks into a streamlined and idiomatic flow.
// The Renderer owns the GPU resources backing models and cameras: it creates their buffers and
// bind groups, uploads their per-frame uniform data, and encodes draw calls for their meshes.
// The Renderer also implements a backend which allows for multiple backend API implementations to exist.
type Renderer interface {
	// Resize configures the underlying backend to handle a new surface size.
	// This should be called when re-sizing the window or when the surface size should change.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	Resize(width, height int)

	// SetPresentMode sets the surface present mode which controls how frames are delivered to the display.
	// A call to Resize is required after changing this for the new mode to take effect.
	//
	// Parameters:
	//   - mode: the PresentMode to use (VSync or Uncapped)
	SetPresentMode(mode PresentMode)

	// InitCamera creates the GPU uniform buffer and bind group for a camera and
	// stores them on the camera's BindGroupProvider.
	//
	// Parameters:
	//   - cam: the camera to initialize
	//
	// Returns:
	//   - error: an error if resource creation fails
	InitCamera(cam camera.Camera) error

	// InitModel creates the GPU vertex/index buffers, per-model uniform buffer,
	// bone palette buffer, and bind group for a model. The resulting provider is
	// stored on the model via SetMeshProvider.
	//
	// Parameters:
	//   - m: the model to initialize
	//
	// Returns:
	//   - error: an error if resource creation fails or the skeleton exceeds MaxBones
	InitModel(m model.Model) error

	// SetModelTint associates a material base color with a model name. The tint
	// is multiplied into vertex colors by the shader on the next UploadModel.
	//
	// Parameters:
	//   - name: the model name
	//   - tint: the RGBA color factor
	SetModelTint(name string, tint [4]float32)

	// UploadCamera writes the camera's current view-projection matrix and position
	// to its GPU uniform buffer. Should be called once per frame before drawing.
	//
	// Parameters:
	//   - cam: the camera to upload
	UploadCamera(cam camera.Camera)

	// UploadModel writes the transform and lighting flag propagated onto the
	// model's meshes by Update, plus the skinning matrix palette when the
	// model is animated, to the GPU. Should be called once per frame after
	// Update and before DrawModel.
	//
	// Parameters:
	//   - m: the model to upload
	UploadModel(m model.Model)

	// WriteBuffers writes all staged buffer writes to the GPU queue.
	// Each BufferWrite targets a specific buffer on a BindGroupProvider at a given binding and offset.
	//
	// Parameters:
	//   - writes: a slice of BufferWrite structs describing the data to write
	WriteBuffers(writes []bind_group_provider.BufferWrite)

	// BeginFrame acquires the swapchain texture and begins the main render pass.
	// Must be paired with EndFrame after all DrawModel invocations within a single frame.
	//
	// Returns:
	//   - error: an error if the swapchain texture could not be acquired
	BeginFrame() error

	// DrawModel encodes indexed draw commands for every sub-mesh of the model
	// within the current render pass.
	//
	// Parameters:
	//   - m: the model to draw; must have been initialized via InitModel
	//   - cam: the camera to draw with; must have been initialized via InitCamera
	//
	// Returns:
	//   - error: an error if the model or camera has no GPU resources
	DrawModel(m model.Model, cam camera.Camera) error

	// EndFrame ends the current render pass and submits the command buffer to the GPU.
	// Does not present the surface; call Present() after EndFrame to display the frame.
	// Must be called after BeginFrame and all DrawModel invocations within a single frame.
	EndFrame()

	// Present presents the surface to the display and releases the swapchain texture.
	// Must be called once per frame after EndFrame.
	Present()
}

var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer instance with the specified backend type, targeting
// the given window's surface.
//
// Parameters:
//   - backendType: the type of rendering backend to use (e.g., WGPU)
//   - window: the window whose surface the renderer presents to
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: a new instance of Renderer configured with the specified backend and options
func NewRenderer(backendType RendererBackendType, window window.Window, options ...RendererBuilderOption) Renderer {
	r := &renderer{
		mu:          &sync.Mutex{},
		tints:       make(map[string][4]float32),
		backendType: backendType,
	}

	// Apply options first so config flags (e.g. forceFallbackAdapter) are
	// available before the backend requests a GPU adapter.
	for _, opt := range options {
		opt(r)
	}

	msaa := MSAA4x // default
	if r.pendingMSAA != nil {
		msaa = *r.pendingMSAA
	}

	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		r.backend = newWGPURendererBackend(window.SurfaceDescriptor(), r.forceFallbackAdapter, msaa)
	}

	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}

	r.backend.ConfigureSurface(window.Width(), window.Height())
	return r
}

func (r *renderer) Resize(width, height int) {
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) InitCamera(cam camera.Camera) error {
	provider := cam.BindGroupProvider()
	if provider == nil {
		provider = bind_group_provider.NewBindGroupProvider("camera")
		cam.SetBindGroupProvider(provider)
	}
	if err := r.backend.InitCameraBindGroup(provider); err != nil {
		return fmt.Errorf("failed to init camera resources: %w", err)
	}
	r.UploadCamera(cam)
	return nil
}

func (r *renderer) InitModel(m model.Model) error {
	if skeleton := m.Skeleton(); skeleton != nil && len(skeleton.Bones) > MaxBones {
		return fmt.Errorf("model %q has %d bones, exceeding the palette capacity of %d", m.Name(), len(skeleton.Bones), MaxBones)
	}

	provider := m.MeshProvider()
	if provider == nil {
		provider = bind_group_provider.NewBindGroupProvider("model_" + m.Name())
		m.SetMeshProvider(provider)
	}

	if err := r.backend.InitMeshBuffers(provider, m.VertexData(), m.IndexData(), m.IndexCount()); err != nil {
		return fmt.Errorf("failed to init mesh buffers for %q: %w", m.Name(), err)
	}
	if err := r.backend.InitModelBindGroup(provider); err != nil {
		return fmt.Errorf("failed to init model resources for %q: %w", m.Name(), err)
	}

	// Seed the bone palette so static and not-yet-animated models skin
	// against the bind pose.
	if m.Skinned() {
		r.backend.WriteBuffers([]bind_group_provider.BufferWrite{
			{Provider: provider, Binding: 1, Offset: 0, Data: common.SliceToBytes(m.SkinningMatrices())},
		})
	}
	r.UploadModel(m)
	return nil
}

func (r *renderer) SetModelTint(name string, tint [4]float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tints[name] = tint
}

func (r *renderer) UploadCamera(cam camera.Camera) {
	provider := cam.BindGroupProvider()
	if provider == nil {
		return
	}

	px, py, pz := cam.Position()
	uniform := camera.GPUCameraUniform{
		ViewProj:       cam.ViewProjectionMatrix(),
		CameraPosition: [3]float32{px, py, pz},
	}
	r.backend.WriteBuffers([]bind_group_provider.BufferWrite{
		{Provider: provider, Binding: 0, Offset: 0, Data: uniform.Marshal()},
	})
}

func (r *renderer) UploadModel(m model.Model) {
	provider := m.MeshProvider()
	if provider == nil {
		return
	}

	// Draw from the transform Update propagated onto the meshes, so the
	// rendered state is whatever the last tick produced. Models without
	// meshes fall back to the model-level transform directly.
	pos, rot, scl, lit := m.Position(), m.Rotation(), m.Scale(), m.Lit()
	if meshes := m.Meshes(); len(meshes) > 0 {
		pos, rot, scl, lit = meshes[0].Position, meshes[0].Rotation, meshes[0].Scale, meshes[0].Lit
	}

	uniform := GPUModelUniform{
		Tint: [4]float32{1, 1, 1, 1},
	}
	common.BuildTRSMatrix(uniform.Model[:], pos, rot, scl)
	if lit {
		uniform.Lit = 1
	}
	if skeleton := m.Skeleton(); skeleton != nil {
		uniform.BoneCount = uint32(len(skeleton.Bones))
	}

	r.mu.Lock()
	if tint, ok := r.tints[m.Name()]; ok {
		uniform.Tint = tint
	}
	r.mu.Unlock()

	writes := []bind_group_provider.BufferWrite{
		{Provider: provider, Binding: 0, Offset: 0, Data: uniform.Marshal()},
	}
	if m.Animated() {
		writes = append(writes, bind_group_provider.BufferWrite{
			Provider: provider, Binding: 1, Offset: 0, Data: common.SliceToBytes(m.SkinningMatrices()),
		})
	}
	r.backend.WriteBuffers(writes)
}

func (r *renderer) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	r.backend.WriteBuffers(writes)
}

func (r *renderer) BeginFrame() error {
	return r.backend.BeginFrame()
}

func (r *renderer) DrawModel(m model.Model, cam camera.Camera) error {
	meshProvider := m.MeshProvider()
	if meshProvider == nil || meshProvider.VertexBuffer() == nil {
		return fmt.Errorf("model %q has no GPU resources, call InitModel first", m.Name())
	}
	cameraProvider := cam.BindGroupProvider()
	if cameraProvider == nil || cameraProvider.BindGroup() == nil {
		return fmt.Errorf("camera has no GPU resources, call InitCamera first")
	}

	meshes := m.Meshes()
	ranges := make([]DrawRange, 0, len(meshes))
	for _, mesh := range meshes {
		ranges = append(ranges, DrawRange{
			FirstIndex: uint32(mesh.IndexOffset),
			IndexCount: uint32(mesh.IndexCount),
		})
	}
	if len(ranges) == 0 {
		ranges = append(ranges, DrawRange{FirstIndex: 0, IndexCount: uint32(meshProvider.IndexCount())})
	}

	r.backend.DrawCall(meshProvider, cameraProvider, ranges)
	return nil
}

func (r *renderer) EndFrame() {
	r.backend.EndFrame()
}

func (r *renderer) Present() {
	r.backend.Present()
}
