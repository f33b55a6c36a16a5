package loader

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/rig-go/engine/model"
)

func TestTopologicalSortBonesParentsPrecedeChildren(t *testing.T) {
	// Child-before-parent order on input: spine(2) -> hips(1) -> root(0)
	// arrives as [spine, hips, root].
	bones := []model.Bone{
		{Name: "spine", ParentIndex: 1},
		{Name: "hips", ParentIndex: 2},
		{Name: "root", ParentIndex: -1},
	}
	names := map[string]int32{"spine": 0, "hips": 1, "root": 2}

	sorted, roots, sortedNames, oldToNew := topologicalSortBones(bones, []int32{2}, names)

	if len(sorted) != 3 {
		t.Fatalf("expected 3 bones, got %d", len(sorted))
	}
	for i, bone := range sorted {
		if bone.ParentIndex >= int32(i) {
			t.Errorf("bone %d (%s) has parent %d at or after itself", i, bone.Name, bone.ParentIndex)
		}
	}
	if sorted[0].Name != "root" {
		t.Errorf("expected root first, got %s", sorted[0].Name)
	}
	if len(roots) != 1 || roots[0] != 0 {
		t.Errorf("expected root index [0], got %v", roots)
	}
	if sortedNames["spine"] != oldToNew[0] {
		t.Errorf("name map and oldToNew disagree about spine: %d vs %d", sortedNames["spine"], oldToNew[0])
	}

	skeleton := &model.Skeleton{Bones: sorted, RootBoneIndices: roots, BoneNameToIndex: sortedNames}
	if err := skeleton.Validate(); err != nil {
		t.Errorf("sorted skeleton failed validation: %v", err)
	}
}

func TestTopologicalSortBonesMultipleRoots(t *testing.T) {
	bones := []model.Bone{
		{Name: "a", ParentIndex: -1},
		{Name: "b", ParentIndex: -1},
		{Name: "a_child", ParentIndex: 0},
	}
	names := map[string]int32{"a": 0, "b": 1, "a_child": 2}

	sorted, roots, _, _ := topologicalSortBones(bones, []int32{0, 1}, names)

	if len(roots) != 2 {
		t.Fatalf("expected 2 roots, got %d", len(roots))
	}
	for i, bone := range sorted {
		if bone.ParentIndex >= int32(i) {
			t.Errorf("bone %d (%s) has parent %d at or after itself", i, bone.Name, bone.ParentIndex)
		}
	}
}

func TestTopologicalSortBonesAppendsDisconnected(t *testing.T) {
	// Bones 1 and 2 form a cycle and are unreachable from the root. They
	// must still land in the output so validation can reject them.
	bones := []model.Bone{
		{Name: "root", ParentIndex: -1},
		{Name: "x", ParentIndex: 2},
		{Name: "y", ParentIndex: 1},
	}
	names := map[string]int32{"root": 0, "x": 1, "y": 2}

	sorted, _, _, oldToNew := topologicalSortBones(bones, []int32{0}, names)

	if len(sorted) != 3 {
		t.Fatalf("expected all 3 bones in output, got %d", len(sorted))
	}
	if len(oldToNew) != 3 {
		t.Fatalf("expected oldToNew to cover all bones, got %d entries", len(oldToNew))
	}
}

func TestDecomposeMatrixTranslationScale(t *testing.T) {
	// Column-major: scale (2, 3, 4) with translation (5, 6, 7).
	m := [16]float32{
		2, 0, 0, 0,
		0, 3, 0, 0,
		0, 0, 4, 0,
		5, 6, 7, 1,
	}

	tr := decomposeMatrix(m)

	if tr.Translation != [3]float32{5, 6, 7} {
		t.Errorf("unexpected translation: %v", tr.Translation)
	}
	for i, want := range [3]float32{2, 3, 4} {
		if math.Abs(float64(tr.Scale[i]-want)) > 1e-5 {
			t.Errorf("scale[%d] = %v, want %v", i, tr.Scale[i], want)
		}
	}
	if math.Abs(float64(tr.Rotation[3]-1)) > 1e-5 {
		t.Errorf("expected identity rotation, got %v", tr.Rotation)
	}
}

func TestMatrixToQuaternion90DegreeYaw(t *testing.T) {
	// 90 degree rotation about +Y, column-major 3x3.
	c, s := float32(0), float32(1)
	m := [9]float32{
		c, 0, -s,
		0, 1, 0,
		s, 0, c,
	}

	q := matrixToQuaternion(m)

	halfSqrt2 := float32(math.Sqrt2 / 2)
	if math.Abs(float64(q[1]-halfSqrt2)) > 1e-5 || math.Abs(float64(q[3]-halfSqrt2)) > 1e-5 {
		t.Errorf("expected quaternion (0, %v, 0, %v), got %v", halfSqrt2, halfSqrt2, q)
	}
	length := math.Sqrt(float64(q[0]*q[0] + q[1]*q[1] + q[2]*q[2] + q[3]*q[3]))
	if math.Abs(length-1) > 1e-5 {
		t.Errorf("quaternion not unit length: %v", length)
	}
}
