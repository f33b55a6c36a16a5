package model

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/rig-go/engine/renderer/bind_group_provider"
	"github.com/go-gl/mathgl/mgl32"
)

// model is the implementation of the Model interface.
type model struct {
	mu sync.Mutex

	name     string
	skeleton *Skeleton
	frames   []Frame
	clips    []Clip
	meshes   []*Mesh

	playback *Playback
	pose     Pose
	worlds   []mgl32.Mat4
	skinning []mgl32.Mat4

	speed  float32
	paused bool

	position [3]float32
	rotation [4]float32
	scale    [3]float32
	lit      bool

	meshProvider          bind_group_provider.BindGroupProvider
	boundingRadius        float32
	vertexData, indexData []byte
	indexCount            int
}

// Model is an animated model instance: the bone hierarchy, keyframe store,
// and clips loaded once from an asset, plus the mutable per-instance playback
// state, pose buffer, and skinning matrices. Every mutable field is
// exclusively owned by the instance; separate instances may update on
// separate goroutines, but a single instance must not.
//
// Each Update tick runs transform propagation, playback advance, pose blend,
// and matrix composition in that fixed order.
type Model interface {
	// Name retrieves the model identifier.
	//
	// Returns:
	//   - string: the model name
	Name() string

	// Skinned reports whether this model has bone data.
	//
	// Returns:
	//   - bool: true if the model has a non-empty skeleton
	Skinned() bool

	// Skeleton retrieves the bone hierarchy, or nil for static models.
	//
	// Returns:
	//   - *Skeleton: the skeleton or nil
	Skeleton() *Skeleton

	// Clips retrieves the animation clips bundled with this model.
	//
	// Returns:
	//   - []Clip: the animation clips
	Clips() []Clip

	// ClipNames returns the names of all animation clips.
	//
	// Returns:
	//   - []string: the clip names
	ClipNames() []string

	// GetClipIndex returns the index of a clip by name, or -1 if not found.
	//
	// Parameters:
	//   - name: the clip name to search for
	//
	// Returns:
	//   - int: the clip index, or -1 if not found
	GetClipIndex(name string) int

	// FrameCount returns the number of frames in the keyframe store.
	//
	// Returns:
	//   - int: the frame count
	FrameCount() int

	// SetAnimation activates a clip by index. An out-of-range index is not
	// an error: playback goes idle and subsequent updates leave the pose
	// buffer and skinning matrices untouched.
	//
	// Parameters:
	//   - index: the clip index to activate
	SetAnimation(index int)

	// SetAnimationByName activates a clip by name, going idle if no clip
	// has that name.
	//
	// Parameters:
	//   - name: the clip name to activate
	//
	// Returns:
	//   - bool: true if a clip with that name was found
	SetAnimationByName(name string) bool

	// SetPose forces the pose buffer directly from an explicit frame,
	// bypassing blending. Rotations are renormalized and the skinning
	// matrices are recomposed immediately.
	//
	// Parameters:
	//   - frameIndex: the frame to apply
	//
	// Returns:
	//   - error: error if the frame index is out of range
	SetPose(frameIndex int) error

	// SetSpeed sets the playback speed multiplier. 1 is real time, 0 freezes
	// playback in place. Negative values are clamped to 0.
	//
	// Parameters:
	//   - speed: the playback speed multiplier
	SetSpeed(speed float32)

	// Speed returns the playback speed multiplier.
	//
	// Returns:
	//   - float32: the playback speed multiplier
	Speed() float32

	// SetPaused pauses or resumes playback. While paused, Update still
	// propagates the model transform but the playback clock does not advance.
	//
	// Parameters:
	//   - paused: true to pause, false to resume
	SetPaused(paused bool)

	// Paused reports whether playback is paused.
	//
	// Returns:
	//   - bool: true if playback is paused
	Paused() bool

	// Update advances the model by dt seconds: propagates the model
	// transform to attached meshes, advances playback, blends the pose
	// buffer, and recomposes the skinning matrices. A held or idle
	// animation leaves the previous pose and matrices intact.
	//
	// Parameters:
	//   - dt: elapsed seconds since the previous tick (>= 0)
	Update(dt float32)

	// Animated reports whether both a skeleton and an active clip exist.
	// The renderer uploads the bone-matrix uniform only when this is true.
	//
	// Returns:
	//   - bool: true if skinning matrices are being produced
	Animated() bool

	// SkinningMatrices returns the per-bone skinning matrix array, length
	// equal to the bone count. The slice is owned by the model and
	// overwritten by Update.
	//
	// Returns:
	//   - []mgl32.Mat4: the skinning matrices
	SkinningMatrices() []mgl32.Mat4

	// CurrentFrame returns the playback frame index of the active clip.
	//
	// Returns:
	//   - uint32: the current frame index
	CurrentFrame() uint32

	// CurrentTime returns the elapsed playback time in seconds.
	//
	// Returns:
	//   - float32: the playback time
	CurrentTime() float32

	// Meshes returns the attached sub-meshes.
	//
	// Returns:
	//   - []*Mesh: the sub-meshes
	Meshes() []*Mesh

	// SetPosition sets the model's world position.
	//
	// Parameters:
	//   - position: the world position
	SetPosition(position [3]float32)

	// SetRotation sets the model's orientation quaternion (x, y, z, w).
	//
	// Parameters:
	//   - rotation: the orientation quaternion
	SetRotation(rotation [4]float32)

	// SetScale sets the model's scale factor.
	//
	// Parameters:
	//   - scale: the scale factor
	SetScale(scale [3]float32)

	// SetLit sets whether attached meshes participate in lighting.
	//
	// Parameters:
	//   - lit: the lighting flag
	SetLit(lit bool)

	// Lit reports whether attached meshes participate in lighting.
	//
	// Returns:
	//   - bool: the lighting flag
	Lit() bool

	// Position returns the model's world position.
	//
	// Returns:
	//   - [3]float32: the world position
	Position() [3]float32

	// Rotation returns the model's orientation quaternion.
	//
	// Returns:
	//   - [4]float32: the orientation quaternion
	Rotation() [4]float32

	// Scale returns the model's scale factor.
	//
	// Returns:
	//   - [3]float32: the scale factor
	Scale() [3]float32

	// MeshProvider retrieves the BindGroupProvider holding GPU mesh
	// resources, or nil before the renderer initializes buffers.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the mesh provider
	MeshProvider() bind_group_provider.BindGroupProvider

	// SetMeshProvider assigns the BindGroupProvider for mesh GPU resources.
	//
	// Parameters:
	//   - provider: the mesh provider to associate
	SetMeshProvider(provider bind_group_provider.BindGroupProvider)

	// VertexData returns the raw vertex data for this model's mesh.
	//
	// Returns:
	//   - []byte: the vertex data
	VertexData() []byte

	// IndexData returns the raw index data for this model's mesh.
	//
	// Returns:
	//   - []byte: the index data
	IndexData() []byte

	// IndexCount returns the number of indices in the model's mesh.
	//
	// Returns:
	//   - int: the index count
	IndexCount() int

	// BoundingRadius returns the bounding sphere radius, measured as the
	// maximum vertex distance from the origin.
	//
	// Returns:
	//   - float32: the bounding radius
	BoundingRadius() float32
}

var _ Model = &model{}

// NewModel creates a new Model instance with the specified options applied.
// Construction fails if the skeleton's bones are not topologically sorted
// (parents before children) or a frame's length does not match the bone
// count, so the per-tick composer never has to validate the hierarchy.
//
// Parameters:
//   - options: a variadic list of ModelBuilderOption functions to configure the Model
//
// Returns:
//   - Model: a new instance of Model configured with the provided options
//   - error: ErrMalformedHierarchy or a shape mismatch error
func NewModel(options ...ModelBuilderOption) (Model, error) {
	m := &model{
		rotation: [4]float32{0, 0, 0, 1},
		scale:    [3]float32{1, 1, 1},
		speed:    1,
	}
	for _, opt := range options {
		opt(m)
	}

	var boneCount int
	if m.skeleton != nil {
		if err := m.skeleton.Validate(); err != nil {
			return nil, err
		}
		boneCount = len(m.skeleton.Bones)
	}

	for i, f := range m.frames {
		if len(f) != boneCount {
			return nil, fmt.Errorf("frame %d has %d entries, expected %d (bone count)", i, len(f), boneCount)
		}
	}
	for i, c := range m.clips {
		if c.First > c.Last || int(c.Last) >= len(m.frames) {
			return nil, fmt.Errorf("clip %d (%s): frame range [%d, %d] outside of %d frames", i, c.Name, c.First, c.Last, len(m.frames))
		}
	}

	m.applyTransform()
	m.playback = NewPlayback(m.clips)
	m.pose = make(Pose, boneCount)
	m.worlds = make([]mgl32.Mat4, boneCount)
	m.skinning = make([]mgl32.Mat4, boneCount)
	for i := range m.pose {
		m.pose[i] = m.skeleton.Bones[i].LocalTransform
		m.skinning[i] = mgl32.Ident4()
	}

	return m, nil
}

func (m *model) Name() string {
	return m.name
}

func (m *model) Skinned() bool {
	return m.skeleton != nil && len(m.skeleton.Bones) > 0
}

func (m *model) Skeleton() *Skeleton {
	return m.skeleton
}

func (m *model) Clips() []Clip {
	return m.clips
}

func (m *model) ClipNames() []string {
	names := make([]string, len(m.clips))
	for i, c := range m.clips {
		names[i] = c.Name
	}
	return names
}

func (m *model) GetClipIndex(name string) int {
	for i, c := range m.clips {
		if c.Name == name {
			return i
		}
	}
	return -1
}

func (m *model) FrameCount() int {
	return len(m.frames)
}

func (m *model) SetAnimation(index int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playback.SetAnimation(index)
}

func (m *model) SetAnimationByName(name string) bool {
	idx := m.GetClipIndex(name)
	m.SetAnimation(idx)
	return idx >= 0
}

func (m *model) SetPose(frameIndex int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if frameIndex < 0 || frameIndex >= len(m.frames) {
		return fmt.Errorf("frame index %d out of range [0, %d)", frameIndex, len(m.frames))
	}

	CopyFrame(m.frames[frameIndex], m.pose)
	if m.skeleton != nil {
		ComposePose(m.pose, m.skeleton.Bones, m.worlds, m.skinning)
	}
	return nil
}

func (m *model) SetSpeed(speed float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.speed = max(speed, 0)
}

func (m *model) Speed() float32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.speed
}

func (m *model) SetPaused(paused bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.paused = paused
}

func (m *model) Paused() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.paused
}

func (m *model) Update(dt float32) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.applyTransform()

	if m.skeleton == nil || len(m.skeleton.Bones) == 0 {
		return
	}

	if m.paused {
		return
	}

	cursor, ok := m.playback.Advance(dt * m.speed)
	if !ok {
		// Idle or holding on the final pose; keep the last blended state.
		return
	}
	if int(cursor.Current) >= len(m.frames) || int(cursor.Next) >= len(m.frames) {
		return
	}

	BlendFrames(m.frames[cursor.Current], m.frames[cursor.Next], cursor.Weight, m.pose)
	ComposePose(m.pose, m.skeleton.Bones, m.worlds, m.skinning)
}

// applyTransform copies the model-level transform onto every attached mesh.
// The renderer draws from the mesh fields, so a transform set between ticks
// becomes visible on the next Update. Caller holds m.mu (or is NewModel,
// before the instance escapes).
func (m *model) applyTransform() {
	for _, mesh := range m.meshes {
		mesh.Position = m.position
		mesh.Rotation = m.rotation
		mesh.Scale = m.scale
		mesh.Lit = m.lit
	}
}

func (m *model) Animated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.skeleton != nil && len(m.skeleton.Bones) > 0 && !m.playback.Idle()
}

func (m *model) SkinningMatrices() []mgl32.Mat4 {
	return m.skinning
}

func (m *model) CurrentFrame() uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playback.Frame()
}

func (m *model) CurrentTime() float32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playback.Time()
}

func (m *model) Meshes() []*Mesh {
	return m.meshes
}

func (m *model) SetPosition(position [3]float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.position = position
}

func (m *model) SetRotation(rotation [4]float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rotation = normalizeQuat(rotation)
}

func (m *model) SetScale(scale [3]float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scale = scale
}

func (m *model) SetLit(lit bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lit = lit
}

func (m *model) Lit() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lit
}

func (m *model) Position() [3]float32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.position
}

func (m *model) Rotation() [4]float32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rotation
}

func (m *model) Scale() [3]float32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.scale
}

func (m *model) MeshProvider() bind_group_provider.BindGroupProvider {
	return m.meshProvider
}

func (m *model) SetMeshProvider(provider bind_group_provider.BindGroupProvider) {
	m.meshProvider = provider
}

func (m *model) VertexData() []byte {
	return m.vertexData
}

func (m *model) IndexData() []byte {
	return m.indexData
}

func (m *model) IndexCount() int {
	return m.indexCount
}

func (m *model) BoundingRadius() float32 {
	return m.boundingRadius
}
