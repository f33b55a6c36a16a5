package model

import (
	"math"
	"testing"
)

const poseEps = 1e-5

func approx(a, b float32) bool {
	return math.Abs(float64(a-b)) <= poseEps
}

func quatLen(q [4]float32) float32 {
	return float32(math.Sqrt(float64(q[0]*q[0] + q[1]*q[1] + q[2]*q[2] + q[3]*q[3])))
}

// quatEquiv reports whether two unit quaternions represent the same rotation
// (q and -q are the same orientation).
func quatEquiv(a, b [4]float32) bool {
	dot := a[0]*b[0] + a[1]*b[1] + a[2]*b[2] + a[3]*b[3]
	return math.Abs(math.Abs(float64(dot))-1) <= poseEps
}

func testFrameA() Frame {
	return Frame{
		{Translation: [3]float32{1, 2, 3}, Rotation: [4]float32{0, 0, 0, 1}, Scale: [3]float32{1, 1, 1}},
		{Translation: [3]float32{-4, 0, 2}, Rotation: quatAxisAngle(0, 1, 0, 0.5), Scale: [3]float32{2, 2, 2}},
	}
}

func testFrameB() Frame {
	return Frame{
		{Translation: [3]float32{3, 0, -1}, Rotation: quatAxisAngle(1, 0, 0, 1.2), Scale: [3]float32{0.5, 1, 2}},
		{Translation: [3]float32{0, 6, 0}, Rotation: quatAxisAngle(0, 1, 0, 2.0), Scale: [3]float32{1, 3, 1}},
	}
}

func quatAxisAngle(x, y, z, angle float32) [4]float32 {
	s := float32(math.Sin(float64(angle) / 2))
	c := float32(math.Cos(float64(angle) / 2))
	return [4]float32{x * s, y * s, z * s, c}
}

func TestBlendIdentical(t *testing.T) {
	a := testFrameA()
	dst := make(Pose, len(a))

	for _, w := range []float32{0, 0.25, 0.5, 0.75, 1} {
		BlendFrames(a, a, w, dst)
		for i := range a {
			for c := 0; c < 3; c++ {
				if !approx(dst[i].Translation[c], a[i].Translation[c]) {
					t.Errorf("w=%v bone %d: translation %v, want %v", w, i, dst[i].Translation, a[i].Translation)
				}
				if !approx(dst[i].Scale[c], a[i].Scale[c]) {
					t.Errorf("w=%v bone %d: scale %v, want %v", w, i, dst[i].Scale, a[i].Scale)
				}
			}
			if !quatEquiv(dst[i].Rotation, a[i].Rotation) {
				t.Errorf("w=%v bone %d: rotation %v, want %v", w, i, dst[i].Rotation, a[i].Rotation)
			}
		}
	}
}

func TestBlendEndpoints(t *testing.T) {
	a, b := testFrameA(), testFrameB()
	dst := make(Pose, len(a))

	BlendFrames(a, b, 0, dst)
	for i := range a {
		for c := 0; c < 3; c++ {
			if !approx(dst[i].Translation[c], a[i].Translation[c]) || !approx(dst[i].Scale[c], a[i].Scale[c]) {
				t.Errorf("w=0 bone %d: got %+v, want frame A", i, dst[i])
			}
		}
		if !quatEquiv(dst[i].Rotation, a[i].Rotation) {
			t.Errorf("w=0 bone %d: rotation %v, want %v", i, dst[i].Rotation, a[i].Rotation)
		}
	}

	BlendFrames(a, b, 1, dst)
	for i := range b {
		for c := 0; c < 3; c++ {
			if !approx(dst[i].Translation[c], b[i].Translation[c]) || !approx(dst[i].Scale[c], b[i].Scale[c]) {
				t.Errorf("w=1 bone %d: got %+v, want frame B", i, dst[i])
			}
		}
		if !quatEquiv(dst[i].Rotation, b[i].Rotation) {
			t.Errorf("w=1 bone %d: rotation %v, want %v", i, dst[i].Rotation, b[i].Rotation)
		}
	}
}

func TestBlendRotationsStayUnit(t *testing.T) {
	a, b := testFrameA(), testFrameB()
	dst := make(Pose, len(a))

	for w := float32(0); w <= 1.001; w += 0.1 {
		BlendFrames(a, b, w, dst)
		for i := range dst {
			if l := quatLen(dst[i].Rotation); !approx(l, 1) {
				t.Errorf("w=%v bone %d: rotation length %v, want 1", w, i, l)
			}
		}
	}
}

func TestBlendClampsWeight(t *testing.T) {
	a, b := testFrameA(), testFrameB()
	low := make(Pose, len(a))
	high := make(Pose, len(a))
	at0 := make(Pose, len(a))
	at1 := make(Pose, len(a))

	BlendFrames(a, b, -3, low)
	BlendFrames(a, b, 0, at0)
	BlendFrames(a, b, 7, high)
	BlendFrames(a, b, 1, at1)

	for i := range a {
		if low[i] != at0[i] {
			t.Errorf("bone %d: weight -3 not clamped to 0", i)
		}
		if high[i] != at1[i] {
			t.Errorf("bone %d: weight 7 not clamped to 1", i)
		}
	}
}

func TestBlendAntipodalQuaternions(t *testing.T) {
	q := quatAxisAngle(0, 0, 1, 1.0)
	neg := [4]float32{-q[0], -q[1], -q[2], -q[3]}

	a := Frame{{Rotation: q, Scale: [3]float32{1, 1, 1}}}
	b := Frame{{Rotation: neg, Scale: [3]float32{1, 1, 1}}}
	dst := make(Pose, 1)

	for _, w := range []float32{0, 0.3, 0.5, 0.9, 1} {
		BlendFrames(a, b, w, dst)
		r := dst[0].Rotation
		for c := 0; c < 4; c++ {
			if math.IsNaN(float64(r[c])) {
				t.Fatalf("w=%v: NaN in blended rotation %v", w, r)
			}
		}
		if !approx(quatLen(r), 1) {
			t.Errorf("w=%v: rotation length %v, want 1", w, quatLen(r))
		}
		// q and -q are the same orientation, so any blend must stay there.
		if !quatEquiv(r, q) {
			t.Errorf("w=%v: blended rotation %v diverged from %v", w, r, q)
		}
	}
}

func TestBlendDegenerateQuaternionFallsBack(t *testing.T) {
	a := Frame{{Rotation: [4]float32{0, 0, 0, 0}, Scale: [3]float32{1, 1, 1}}}
	b := Frame{{Rotation: quatAxisAngle(1, 0, 0, 0.7), Scale: [3]float32{1, 1, 1}}}
	dst := make(Pose, 1)

	BlendFrames(a, b, 0.5, dst)
	for c := 0; c < 4; c++ {
		if math.IsNaN(float64(dst[0].Rotation[c])) {
			t.Fatalf("NaN in blended rotation %v", dst[0].Rotation)
		}
	}
	if !approx(quatLen(dst[0].Rotation), 1) {
		t.Errorf("rotation length %v, want 1", quatLen(dst[0].Rotation))
	}
}

func TestCopyFrameRenormalizes(t *testing.T) {
	frame := Frame{
		{Translation: [3]float32{1, 0, 0}, Rotation: [4]float32{0, 0, 0, 4}, Scale: [3]float32{1, 1, 1}},
	}
	dst := make(Pose, 1)

	CopyFrame(frame, dst)
	if !approx(quatLen(dst[0].Rotation), 1) {
		t.Errorf("rotation length %v, want 1", quatLen(dst[0].Rotation))
	}
	if dst[0].Translation != frame[0].Translation {
		t.Errorf("translation %v, want %v", dst[0].Translation, frame[0].Translation)
	}
}
