package model

import (
	"github.com/go-gl/mathgl/mgl32"
)

// BlendFrames writes the interpolated pose between two frames into dst.
// Weight is clamped to [0,1]. Translation and scale interpolate linearly
// component-wise; rotation interpolates spherically and is renormalized
// afterwards to guard against drift. Antipodal quaternion pairs are flipped
// onto the same hemisphere before interpolation so the blend takes the short
// arc; near-degenerate inputs fall back to normalized linear interpolation
// inside the slerp.
//
// The write covers the full buffer, bounded by the shortest of the three
// slices; no partial per-bone updates.
//
// Parameters:
//   - a: the source frame (weight 0)
//   - b: the target frame (weight 1)
//   - weight: interpolation factor, clamped to [0,1]
//   - dst: the pose buffer to write
func BlendFrames(a, b Frame, weight float32, dst Pose) {
	if weight < 0 {
		weight = 0
	} else if weight > 1 {
		weight = 1
	}

	n := len(dst)
	if len(a) < n {
		n = len(a)
	}
	if len(b) < n {
		n = len(b)
	}

	for i := 0; i < n; i++ {
		dst[i] = blendTransform(a[i], b[i], weight)
	}
}

// CopyFrame writes a frame directly into dst without blending, renormalizing
// every rotation. Used by Model.SetPose to force an explicit pose.
//
// Parameters:
//   - frame: the frame to copy
//   - dst: the pose buffer to write
func CopyFrame(frame Frame, dst Pose) {
	n := len(dst)
	if len(frame) < n {
		n = len(frame)
	}
	for i := 0; i < n; i++ {
		t := frame[i]
		t.Rotation = normalizeQuat(t.Rotation)
		dst[i] = t
	}
}

// blendTransform interpolates a single bone's transform.
func blendTransform(a, b Transform, w float32) Transform {
	var out Transform
	for c := 0; c < 3; c++ {
		out.Translation[c] = a.Translation[c] + (b.Translation[c]-a.Translation[c])*w
		out.Scale[c] = a.Scale[c] + (b.Scale[c]-a.Scale[c])*w
	}

	qa := quatFromArray(a.Rotation)
	qb := quatFromArray(b.Rotation)
	if qa.Dot(qb) < 0 {
		qb = qb.Scale(-1)
	}
	out.Rotation = quatToArray(mgl32.QuatSlerp(qa, qb, w).Normalize())
	return out
}

// normalizeQuat renormalizes a quaternion stored as (x, y, z, w), mapping
// zero-length input to identity.
func normalizeQuat(q [4]float32) [4]float32 {
	return quatToArray(quatFromArray(q).Normalize())
}

func quatFromArray(q [4]float32) mgl32.Quat {
	return mgl32.Quat{W: q[3], V: mgl32.Vec3{q[0], q[1], q[2]}}
}

func quatToArray(q mgl32.Quat) [4]float32 {
	return [4]float32{q.V[0], q.V[1], q.V[2], q.W}
}
