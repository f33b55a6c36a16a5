package model

import (
	"github.com/go-gl/mathgl/mgl32"
)

// LocalMatrix builds a bone's local matrix from a pose transform: scale
// innermost, then rotation, then translation (T * R * S, column-major).
//
// Parameters:
//   - t: the decomposed transform
//
// Returns:
//   - mgl32.Mat4: the composed local matrix
func LocalMatrix(t Transform) mgl32.Mat4 {
	m := quatFromArray(t.Rotation).Mat4()
	m = m.Mul4(mgl32.Scale3D(t.Scale[0], t.Scale[1], t.Scale[2]))
	m[12] = t.Translation[0]
	m[13] = t.Translation[1]
	m[14] = t.Translation[2]
	return m
}

// ComposePose walks the bone array in order and writes one skinning matrix
// per bone into skinning. For each bone the world transform is its local
// matrix composed onto the parent's already-computed world transform (roots
// use the local matrix directly); the skinning matrix is the world transform
// composed with the bone's inverse bind matrix.
//
// Precondition: bones are topologically sorted, parents before children
// (enforced by Skeleton.Validate at construction). The composer does not
// re-check the ordering per tick.
//
// worlds is caller-provided scratch so a per-tick call allocates nothing;
// it must be at least as long as bones, as must skinning and pose.
//
// Parameters:
//   - pose: the blended pose buffer, one entry per bone
//   - bones: the topologically sorted bone array
//   - worlds: scratch world-transform storage, one matrix per bone
//   - skinning: destination skinning matrix array, one matrix per bone
func ComposePose(pose Pose, bones []Bone, worlds, skinning []mgl32.Mat4) {
	for i := range bones {
		local := LocalMatrix(pose[i])

		if p := bones[i].ParentIndex; p >= 0 {
			worlds[i] = worlds[p].Mul4(local)
		} else {
			worlds[i] = local
		}

		skinning[i] = worlds[i].Mul4(mgl32.Mat4(bones[i].InverseBindMatrix))
	}
}
