package model

import (
	"errors"
	"testing"
)

func testSkeleton() *Skeleton {
	return &Skeleton{
		Bones:           []Bone{identityBone("root", -1), identityBone("child", 0)},
		RootBoneIndices: []int32{0},
		BoneNameToIndex: map[string]int32{"root": 0, "child": 1},
	}
}

// testFrames bakes a short two-bone sequence: the root slides along X one
// unit per frame.
func testFrames(count int) []Frame {
	frames := make([]Frame, count)
	for i := range frames {
		root := IdentityTransform()
		root.Translation = [3]float32{float32(i), 0, 0}
		frames[i] = Frame{root, IdentityTransform()}
	}
	return frames
}

func newTestModel(t *testing.T, clips []Clip) Model {
	t.Helper()
	m, err := NewModel(
		WithName("rig"),
		WithSkeleton(testSkeleton()),
		WithFrames(testFrames(12)),
		WithClips(clips),
		WithMeshes([]*Mesh{{Name: "body"}, {Name: "head"}}),
	)
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	return m
}

func TestNewModelRejectsMalformedHierarchy(t *testing.T) {
	s := &Skeleton{Bones: []Bone{identityBone("root", 1), identityBone("spine", -1)}}
	_, err := NewModel(WithSkeleton(s))
	if !errors.Is(err, ErrMalformedHierarchy) {
		t.Fatalf("expected ErrMalformedHierarchy, got %v", err)
	}
}

func TestNewModelRejectsFrameShapeMismatch(t *testing.T) {
	_, err := NewModel(
		WithSkeleton(testSkeleton()),
		WithFrames([]Frame{{IdentityTransform()}}), // one entry, two bones
	)
	if err == nil {
		t.Fatal("expected error for frame length != bone count")
	}
}

func TestNewModelRejectsClipOutsideFrameRange(t *testing.T) {
	_, err := NewModel(
		WithSkeleton(testSkeleton()),
		WithFrames(testFrames(4)),
		WithClips([]Clip{{Name: "walk", First: 0, Last: 10, Rate: 30}}),
	)
	if err == nil {
		t.Fatal("expected error for clip range outside frame store")
	}
}

func TestNewModelSeedsMeshTransform(t *testing.T) {
	m, err := NewModel(
		WithName("crate"),
		WithTransform([3]float32{3, 0, 0}, [4]float32{0, 0, 0, 1}, [3]float32{2, 2, 2}),
		WithLit(true),
		WithMeshes([]*Mesh{{Name: "body"}}),
	)
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}

	// Meshes carry the model transform from construction, before any Update.
	mesh := m.Meshes()[0]
	if mesh.Position != [3]float32{3, 0, 0} {
		t.Errorf("mesh position %v, want (3, 0, 0)", mesh.Position)
	}
	if mesh.Scale != [3]float32{2, 2, 2} {
		t.Errorf("mesh scale %v, want (2, 2, 2)", mesh.Scale)
	}
	if !mesh.Lit {
		t.Error("mesh lit flag not seeded")
	}
}

func TestUpdatePropagatesTransform(t *testing.T) {
	m := newTestModel(t, nil)
	m.SetPosition([3]float32{1, 2, 3})
	m.SetScale([3]float32{2, 2, 2})
	m.SetLit(true)

	m.Update(0.016)

	for _, mesh := range m.Meshes() {
		if mesh.Position != [3]float32{1, 2, 3} {
			t.Errorf("mesh %s position %v, want (1, 2, 3)", mesh.Name, mesh.Position)
		}
		if mesh.Scale != [3]float32{2, 2, 2} {
			t.Errorf("mesh %s scale %v, want (2, 2, 2)", mesh.Name, mesh.Scale)
		}
		if !mesh.Lit {
			t.Errorf("mesh %s lit flag not propagated", mesh.Name)
		}
	}
}

func TestUpdateIdleKeepsSkinningMatrices(t *testing.T) {
	m := newTestModel(t, []Clip{{Name: "walk", First: 0, Last: 11, Rate: 30, Loop: true}})

	before := append([]float32(nil), m.SkinningMatrices()[0][:]...)
	m.Update(0.5)
	m.Update(0.5)

	for i, v := range m.SkinningMatrices()[0] {
		if v != before[i] {
			t.Fatal("idle update mutated skinning matrices")
		}
	}
	if m.Animated() {
		t.Error("expected Animated to be false while idle")
	}
}

func TestUpdateAdvancesActiveClip(t *testing.T) {
	m := newTestModel(t, []Clip{{Name: "walk", First: 0, Last: 11, Rate: 10, Loop: true}})
	m.SetAnimation(0)
	if !m.Animated() {
		t.Fatal("expected Animated after SetAnimation")
	}

	// Two ticks of 0.25s at 10fps: second tick evaluates pos 2.5, so the
	// root sits between frames 2 and 3 at x = 2.5.
	m.Update(0.25)
	m.Update(0.25)

	x := m.SkinningMatrices()[0][12]
	if !approx(x, 2.5) {
		t.Errorf("root skinning translation x = %v, want 2.5", x)
	}
	if m.CurrentFrame() != 2 {
		t.Errorf("current frame %d, want 2", m.CurrentFrame())
	}
}

func TestSetAnimationOutOfRangeIsNoOp(t *testing.T) {
	m := newTestModel(t, []Clip{{Name: "walk", First: 0, Last: 11, Rate: 30, Loop: true}})
	m.SetAnimation(42)

	if m.Animated() {
		t.Fatal("expected idle after out-of-range clip index")
	}

	before := m.SkinningMatrices()[0]
	m.Update(0.1)
	if m.SkinningMatrices()[0] != before {
		t.Error("idle advance mutated skinning matrices")
	}
}

func TestSetAnimationByName(t *testing.T) {
	m := newTestModel(t, []Clip{
		{Name: "walk", First: 0, Last: 5, Rate: 30, Loop: true},
		{Name: "run", First: 6, Last: 11, Rate: 30, Loop: true},
	})

	if !m.SetAnimationByName("run") {
		t.Fatal("expected run clip to resolve")
	}
	if m.CurrentFrame() != 6 {
		t.Errorf("current frame %d, want 6 (run clip start)", m.CurrentFrame())
	}

	if m.SetAnimationByName("swim") {
		t.Error("expected unknown clip name to report false")
	}
	if m.Animated() {
		t.Error("expected idle after unknown clip name")
	}
}

func TestSetPoseBypassesBlending(t *testing.T) {
	m := newTestModel(t, nil)

	if err := m.SetPose(3); err != nil {
		t.Fatalf("SetPose: %v", err)
	}
	if x := m.SkinningMatrices()[0][12]; !approx(x, 3) {
		t.Errorf("root skinning translation x = %v, want 3", x)
	}

	if err := m.SetPose(99); err == nil {
		t.Error("expected error for out-of-range frame index")
	}
}

func TestUpdateLoopingClipStaysInRange(t *testing.T) {
	m := newTestModel(t, []Clip{{Name: "walk", First: 0, Last: 10, Rate: 30, Loop: true}})
	m.SetAnimation(0)

	for i := 0; i < 10; i++ {
		m.Update(1.0 / 3)
		if f := m.CurrentFrame(); f > 10 {
			t.Fatalf("tick %d: frame %d outside [0, 10]", i, f)
		}
	}
	if m.CurrentTime() > 1.0/3+1e-6 {
		t.Errorf("expected time near zero after wrapping, got %v", m.CurrentTime())
	}
}
