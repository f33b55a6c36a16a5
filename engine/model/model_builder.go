package model

import (
	"github.com/Carmen-Shannon/rig-go/engine/renderer/bind_group_provider"
)

// ModelBuilderOption is a functional option for configuring a Model via NewModel.
type ModelBuilderOption func(*model)

// WithName is an option builder that sets the name of the Model.
//
// Parameters:
//   - name: the model identifier
//
// Returns:
//   - ModelBuilderOption: a function that applies the name option to a model
func WithName(name string) ModelBuilderOption {
	return func(m *model) {
		m.name = name
	}
}

// WithSkeleton is an option builder that sets the bone hierarchy of the Model.
// NewModel validates the hierarchy's topological order.
//
// Parameters:
//   - skeleton: the skeleton to set
//
// Returns:
//   - ModelBuilderOption: a function that applies the skeleton option to a model
func WithSkeleton(skeleton *Skeleton) ModelBuilderOption {
	return func(m *model) {
		m.skeleton = skeleton
	}
}

// WithFrames is an option builder that sets the keyframe store of the Model.
// Every frame must have one entry per bone.
//
// Parameters:
//   - frames: the baked frame sequence to set
//
// Returns:
//   - ModelBuilderOption: a function that applies the frames option to a model
func WithFrames(frames []Frame) ModelBuilderOption {
	return func(m *model) {
		m.frames = frames
	}
}

// WithClips is an option builder that sets the animation clips of the Model.
// Clip frame ranges must fall inside the configured frame store.
//
// Parameters:
//   - clips: the animation clips to set
//
// Returns:
//   - ModelBuilderOption: a function that applies the clips option to a model
func WithClips(clips []Clip) ModelBuilderOption {
	return func(m *model) {
		m.clips = clips
	}
}

// WithMeshes is an option builder that sets the attached sub-meshes of the
// Model. The model's transform is propagated onto each of them every tick.
//
// Parameters:
//   - meshes: the sub-meshes to attach
//
// Returns:
//   - ModelBuilderOption: a function that applies the meshes option to a model
func WithMeshes(meshes []*Mesh) ModelBuilderOption {
	return func(m *model) {
		m.meshes = meshes
	}
}

// WithTransform is an option builder that sets the initial model transform.
//
// Parameters:
//   - position: the world position
//   - rotation: the orientation quaternion (x, y, z, w)
//   - scale: the scale factor
//
// Returns:
//   - ModelBuilderOption: a function that applies the transform option to a model
func WithTransform(position [3]float32, rotation [4]float32, scale [3]float32) ModelBuilderOption {
	return func(m *model) {
		m.position = position
		m.rotation = rotation
		m.scale = scale
	}
}

// WithLit is an option builder that sets whether attached meshes participate
// in lighting.
//
// Parameters:
//   - lit: the lighting flag
//
// Returns:
//   - ModelBuilderOption: a function that applies the lit option to a model
func WithLit(lit bool) ModelBuilderOption {
	return func(m *model) {
		m.lit = lit
	}
}

// WithMeshProvider is an option builder that sets the BindGroupProvider for mesh GPU resources.
//
// Parameters:
//   - provider: the BindGroupProvider holding vertex/index buffers and bind group data
//
// Returns:
//   - ModelBuilderOption: a function that applies the mesh provider option to a model
func WithMeshProvider(provider bind_group_provider.BindGroupProvider) ModelBuilderOption {
	return func(m *model) {
		m.meshProvider = provider
	}
}

// WithBoundingRadius is an option builder that manually sets the bounding sphere radius.
//
// Parameters:
//   - radius: the bounding radius to set
//
// Returns:
//   - ModelBuilderOption: a function that applies the bounding radius option to a model
func WithBoundingRadius(radius float32) ModelBuilderOption {
	return func(m *model) {
		m.boundingRadius = radius
	}
}

// WithVertexData is an option builder that sets the raw vertex data for this model's mesh.
//
// Parameters:
//   - data: the vertex data to set
//
// Returns:
//   - ModelBuilderOption: a function that applies the vertex data option to a model
func WithVertexData(data []byte) ModelBuilderOption {
	return func(m *model) {
		m.vertexData = data
	}
}

// WithIndexData is an option builder that sets the raw index data for this model's mesh.
//
// Parameters:
//   - data: the index data to set
//
// Returns:
//   - ModelBuilderOption: a function that applies the index data option to a model
func WithIndexData(data []byte) ModelBuilderOption {
	return func(m *model) {
		m.indexData = data
	}
}

// WithIndexCount is an option builder that sets the number of indices in the model's mesh.
//
// Parameters:
//   - count: the index count to set
//
// Returns:
//   - ModelBuilderOption: a function that applies the index count option to a model
func WithIndexCount(count int) ModelBuilderOption {
	return func(m *model) {
		m.indexCount = count
	}
}
