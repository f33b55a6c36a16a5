package model

import (
	"errors"
	"fmt"
)

// ErrMalformedHierarchy is returned when a skeleton's bones are not stored in
// topological order (every parent before its children) or a parent index is
// out of range. Detected once at construction time, never per-tick.
var ErrMalformedHierarchy = errors.New("malformed bone hierarchy")

// --- Transform & Skeleton Types ---

// Transform represents a decomposed local transform used for animation
// interpolation: one of these per bone per frame, and one per bone in the
// blended pose buffer.
type Transform struct {
	// Translation is the position offset.
	Translation [3]float32

	// Rotation is the orientation as a quaternion (x, y, z, w).
	Rotation [4]float32

	// Scale is the scale factor along each axis.
	Scale [3]float32
}

// IdentityTransform returns a Transform with zero translation, identity
// rotation, and unit scale.
func IdentityTransform() Transform {
	return Transform{
		Rotation: [4]float32{0, 0, 0, 1},
		Scale:    [3]float32{1, 1, 1},
	}
}

// Frame is a complete per-bone pose snapshot, one entry per bone.
// A model's keyframe store is an ordered slice of frames indexed 0..N-1.
type Frame []Transform

// Pose is the per-instance blended pose buffer, one entry per bone.
// Written by the pose blender, read by the skeleton matrix composer.
type Pose []Transform

// Bone represents a single bone in a skeleton hierarchy.
type Bone struct {
	// Name is the bone's identifier (for debugging and clip targeting).
	Name string

	// ParentIndex is the index of the parent bone (-1 for root bones).
	// Must reference an earlier bone in the array.
	ParentIndex int32

	// InverseBindMatrix transforms from model space to bone space at bind
	// pose, stored column-major.
	InverseBindMatrix [16]float32

	// LocalTransform is the bone's rest transform relative to its parent.
	LocalTransform Transform
}

// Skeleton represents a bone hierarchy for skeletal animation.
// Bones are stored topologically sorted so a single forward pass can compose
// world transforms; Validate enforces that ordering.
type Skeleton struct {
	// Bones is the array of all bones in the skeleton, parents first.
	Bones []Bone

	// RootBoneIndices are indices of bones with no parent.
	RootBoneIndices []int32

	// BoneNameToIndex maps bone names to their indices for quick lookup.
	BoneNameToIndex map[string]int32
}

// Validate checks that every bone's parent index is either -1 or references
// an earlier bone in the array. A forward or out-of-range parent means the
// composer's single forward pass would read a stale world transform, so
// construction must fail instead.
//
// Returns:
//   - error: ErrMalformedHierarchy (wrapped with the offending bone) or nil
func (s *Skeleton) Validate() error {
	for i, bone := range s.Bones {
		p := bone.ParentIndex
		if p < -1 || p >= int32(len(s.Bones)) {
			return fmt.Errorf("bone %d (%s): parent index %d out of range: %w", i, bone.Name, p, ErrMalformedHierarchy)
		}
		if p >= int32(i) {
			return fmt.Errorf("bone %d (%s): parent index %d is not an earlier bone: %w", i, bone.Name, p, ErrMalformedHierarchy)
		}
	}
	return nil
}

// --- Animation Types ---

// Clip is a named range of frames with a playback rate and loop policy.
// First and Last index into the model's frame store and are inclusive.
type Clip struct {
	// Name is the clip identifier.
	Name string

	// First is the index of the first frame of the clip.
	First uint32

	// Last is the index of the last frame of the clip (inclusive).
	Last uint32

	// Rate is the playback rate in frames per second.
	Rate float32

	// Loop reports whether playback wraps at the end of the clip or holds
	// on the final pose.
	Loop bool
}

// Span returns the clip's frame span (Last - First) as a float for
// time-domain math.
func (c Clip) Span() float32 {
	if c.Last <= c.First {
		return 0
	}
	return float32(c.Last - c.First)
}

// --- Instance Types ---

// Mesh is a renderable sub-mesh attached to a model instance. The model's
// top-level transform is applied onto every attached mesh each update tick.
type Mesh struct {
	// Name is the mesh identifier.
	Name string

	// Position is the mesh world position, overwritten each tick from the
	// owning model's transform.
	Position [3]float32

	// Rotation is the mesh orientation quaternion (x, y, z, w).
	Rotation [4]float32

	// Scale is the mesh scale factor.
	Scale [3]float32

	// Lit reports whether the mesh participates in lighting.
	Lit bool

	// MaterialIndex references the imported material list.
	MaterialIndex int

	// IndexOffset and IndexCount locate this mesh's triangles within the
	// model's shared index buffer.
	IndexOffset, IndexCount int
}

// --- Import Types ---

// ImportedModel represents a 3D model loaded from an external format.
// This is the universal format that importers produce before the Loader
// assembles a Model from it.
type ImportedModel struct {
	// Name is the model identifier.
	Name string

	// Meshes contains all mesh data (may have multiple submeshes).
	Meshes []ImportedMesh

	// Skeleton is the bone hierarchy (nil for static models).
	Skeleton *Skeleton

	// Frames is the baked keyframe store: one full per-bone pose snapshot
	// per sample, shared by all clips.
	Frames []Frame

	// Clips are the animation clips addressing ranges of Frames.
	Clips []Clip
}

// ImportedMesh represents a single mesh within an imported model.
type ImportedMesh struct {
	// Name is the mesh identifier.
	Name string

	// Vertices are the mesh vertices, including bone skinning data for
	// animated meshes.
	Vertices []GPUSkinnedVertex

	// Indices are the triangle indices.
	Indices []uint32

	// MaterialIndex references the document's material list.
	MaterialIndex int
}
