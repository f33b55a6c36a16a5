package loader

import (
	"fmt"
	"math"

	"github.com/Carmen-Shannon/rig-go/common"
	"github.com/Carmen-Shannon/rig-go/engine/model"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// extractGLTFSkeleton converts a glTF skin into an engine Skeleton with
// topologically sorted bones, and returns the two index mappings the rest of
// the import needs: glTF node index to sorted bone index (for animation
// channels), and joint slot to sorted bone index (for vertex joint indices).
//
// Parameters:
//   - doc: the parsed document
//   - skinIndex: the skin to extract
//
// Returns:
//   - *model.Skeleton: the validated, topologically sorted skeleton
//   - map[int]int32: glTF node index to bone index
//   - map[uint32]int32: joint slot to bone index
//   - error: error if extraction or hierarchy validation fails
func extractGLTFSkeleton(doc *gltf.Document, skinIndex int) (*model.Skeleton, map[int]int32, map[uint32]int32, error) {
	if skinIndex < 0 || skinIndex >= len(doc.Skins) {
		return nil, nil, nil, fmt.Errorf("skin index %d out of range", skinIndex)
	}
	skin := doc.Skins[skinIndex]

	// Read inverse bind matrices (optional but usually present).
	var inverseBindMatrices [][16]float32
	if skin.InverseBindMatrices != nil {
		var err error
		inverseBindMatrices, err = readMat4Accessor(doc, *skin.InverseBindMatrices)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to read inverse bind matrices: %w", err)
		}
	}

	// First pass: create bones from joint nodes.
	bones := make([]model.Bone, len(skin.Joints))
	boneNameToIndex := make(map[string]int32)
	nodeIndexToBoneIndex := make(map[int]int32)

	for i, jointIndex := range skin.Joints {
		if int(jointIndex) >= len(doc.Nodes) {
			return nil, nil, nil, fmt.Errorf("joint %d: invalid node index %d", i, jointIndex)
		}

		node := doc.Nodes[jointIndex]
		bone := &bones[i]

		bone.Name = common.Coalesce(node.Name, fmt.Sprintf("bone_%d", i))
		boneNameToIndex[bone.Name] = int32(i)
		nodeIndexToBoneIndex[int(jointIndex)] = int32(i)

		if i < len(inverseBindMatrices) {
			bone.InverseBindMatrix = inverseBindMatrices[i]
		} else {
			bone.InverseBindMatrix = identityMatrix()
		}

		bone.LocalTransform = nodeTransform(node)
	}

	// Second pass: establish parent relationships from node children.
	var rootBoneIndices []int32
	for boneIdx, jointNodeIdx := range skin.Joints {
		parentFound := false

		for nodeIdx, node := range doc.Nodes {
			for _, childIdx := range node.Children {
				if childIdx == jointNodeIdx {
					if parentBoneIdx, ok := nodeIndexToBoneIndex[nodeIdx]; ok {
						bones[boneIdx].ParentIndex = parentBoneIdx
						parentFound = true
					}
					break
				}
			}
			if parentFound {
				break
			}
		}

		if !parentFound {
			bones[boneIdx].ParentIndex = -1
			rootBoneIndices = append(rootBoneIndices, int32(boneIdx))
		}
	}

	// Sort bones so parents always precede children, then validate: a cycle
	// in the node graph would leave a forward parent reference behind.
	sortedBones, sortedRoots, sortedNames, oldToNew := topologicalSortBones(bones, rootBoneIndices, boneNameToIndex)

	skeleton := &model.Skeleton{
		Bones:           sortedBones,
		RootBoneIndices: sortedRoots,
		BoneNameToIndex: sortedNames,
	}
	if err := skeleton.Validate(); err != nil {
		return nil, nil, nil, err
	}

	nodeToBone := make(map[int]int32, len(nodeIndexToBoneIndex))
	for nodeIdx, oldBone := range nodeIndexToBoneIndex {
		nodeToBone[nodeIdx] = oldToNew[oldBone]
	}
	jointRemap := make(map[uint32]int32, len(skin.Joints))
	for slot := range skin.Joints {
		jointRemap[uint32(slot)] = oldToNew[int32(slot)]
	}

	return skeleton, nodeToBone, jointRemap, nil
}

// readMat4Accessor decodes a MAT4 float accessor into flat column-major
// matrices.
func readMat4Accessor(doc *gltf.Document, accessorIndex uint32) ([][16]float32, error) {
	if int(accessorIndex) >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", accessorIndex)
	}
	data, err := modeler.ReadAccessor(doc, doc.Accessors[accessorIndex], nil)
	if err != nil {
		return nil, err
	}
	mats, ok := data.([][4][4]float32)
	if !ok {
		return nil, fmt.Errorf("accessor %d: expected MAT4 float data, got %T", accessorIndex, data)
	}

	out := make([][16]float32, len(mats))
	for i, m := range mats {
		for col := 0; col < 4; col++ {
			for row := 0; row < 4; row++ {
				out[i][col*4+row] = m[col][row]
			}
		}
	}
	return out, nil
}

// nodeTransform extracts the TRS transform from a glTF node, decomposing the
// matrix form when the node carries one.
func nodeTransform(node *gltf.Node) model.Transform {
	if m := node.MatrixOrDefault(); m != gltf.DefaultMatrix {
		return decomposeMatrix(m)
	}

	t := model.Transform{
		Translation: node.Translation,
		Rotation:    node.Rotation,
		Scale:       node.Scale,
	}
	if t.Rotation == ([4]float32{}) {
		t.Rotation = [4]float32{0, 0, 0, 1}
	}
	if t.Scale == ([3]float32{}) {
		t.Scale = [3]float32{1, 1, 1}
	}
	return t
}

func identityMatrix() [16]float32 {
	return gltf.DefaultMatrix
}

// decomposeMatrix decomposes a 4x4 column-major matrix into translation,
// rotation (quaternion), and scale. Assumes no shear.
func decomposeMatrix(m [16]float32) model.Transform {
	var t model.Transform

	t.Translation = [3]float32{m[12], m[13], m[14]}

	sx := vectorLength(m[0], m[1], m[2])
	sy := vectorLength(m[4], m[5], m[6])
	sz := vectorLength(m[8], m[9], m[10])
	t.Scale = [3]float32{sx, sy, sz}

	if sx < 0.0001 {
		sx = 1
	}
	if sy < 0.0001 {
		sy = 1
	}
	if sz < 0.0001 {
		sz = 1
	}

	r := [9]float32{
		m[0] / sx, m[1] / sx, m[2] / sx,
		m[4] / sy, m[5] / sy, m[6] / sy,
		m[8] / sz, m[9] / sz, m[10] / sz,
	}
	t.Rotation = matrixToQuaternion(r)

	return t
}

func vectorLength(x, y, z float32) float32 {
	return float32(math.Sqrt(float64(x*x + y*y + z*z)))
}

// matrixToQuaternion converts a 3x3 rotation matrix to a quaternion.
// Matrix columns are [m0 m1 m2; m3 m4 m5; m6 m7 m8] transposed row-major.
// Returns quaternion as (x, y, z, w), normalized.
func matrixToQuaternion(m [9]float32) [4]float32 {
	r00, r01, r02 := m[0], m[3], m[6]
	r10, r11, r12 := m[1], m[4], m[7]
	r20, r21, r22 := m[2], m[5], m[8]

	trace := r00 + r11 + r22

	var x, y, z, w float32

	switch {
	case trace > 0:
		s := float32(math.Sqrt(float64(trace+1.0))) * 2
		w = 0.25 * s
		x = (r21 - r12) / s
		y = (r02 - r20) / s
		z = (r10 - r01) / s
	case r00 > r11 && r00 > r22:
		s := float32(math.Sqrt(float64(1.0+r00-r11-r22))) * 2
		w = (r21 - r12) / s
		x = 0.25 * s
		y = (r01 + r10) / s
		z = (r02 + r20) / s
	case r11 > r22:
		s := float32(math.Sqrt(float64(1.0+r11-r00-r22))) * 2
		w = (r02 - r20) / s
		x = (r01 + r10) / s
		y = 0.25 * s
		z = (r12 + r21) / s
	default:
		s := float32(math.Sqrt(float64(1.0+r22-r00-r11))) * 2
		w = (r10 - r01) / s
		x = (r02 + r20) / s
		y = (r12 + r21) / s
		z = 0.25 * s
	}

	length := float32(math.Sqrt(float64(x*x + y*y + z*z + w*w)))
	if length > 0.0001 {
		x /= length
		y /= length
		z /= length
		w /= length
	}

	return [4]float32{x, y, z, w}
}

// topologicalSortBones reorders bones so that parents always come before
// children, which lets the matrix composer run a single forward pass.
//
// Parameters:
//   - bones: original bone array
//   - rootIndices: indices of root bones (no parent)
//   - nameToIndex: original name-to-index mapping
//
// Returns:
//   - []model.Bone: sorted bone array with remapped parent indices
//   - []int32: new root indices
//   - map[string]int32: updated name-to-index mapping
//   - map[int32]int32: old bone index to new bone index mapping
func topologicalSortBones(bones []model.Bone, rootIndices []int32, nameToIndex map[string]int32) ([]model.Bone, []int32, map[string]int32, map[int32]int32) {
	if len(bones) == 0 {
		return bones, rootIndices, nameToIndex, make(map[int32]int32)
	}

	// Build children map (old indices).
	children := make(map[int32][]int32)
	for i, bone := range bones {
		if bone.ParentIndex >= 0 {
			children[bone.ParentIndex] = append(children[bone.ParentIndex], int32(i))
		}
	}

	// BFS from roots gives a topological order.
	sorted := make([]int32, 0, len(bones))
	queue := append(make([]int32, 0, len(rootIndices)), rootIndices...)

	for len(queue) > 0 {
		oldIdx := queue[0]
		queue = queue[1:]
		sorted = append(sorted, oldIdx)
		queue = append(queue, children[oldIdx]...)
	}

	// Disconnected bones (a cycle, or orphans) get appended; Validate will
	// reject the cycle case afterwards.
	if len(sorted) < len(bones) {
		visited := make(map[int32]bool, len(sorted))
		for _, idx := range sorted {
			visited[idx] = true
		}
		for i := range bones {
			if !visited[int32(i)] {
				sorted = append(sorted, int32(i))
			}
		}
	}

	oldToNew := make(map[int32]int32, len(sorted))
	for newIdx, oldIdx := range sorted {
		oldToNew[oldIdx] = int32(newIdx)
	}

	newBones := make([]model.Bone, len(bones))
	newNameToIndex := make(map[string]int32, len(bones))
	var newRootIndices []int32

	for newIdx, oldIdx := range sorted {
		bone := bones[oldIdx]

		if bone.ParentIndex >= 0 {
			bone.ParentIndex = oldToNew[bone.ParentIndex]
		} else {
			newRootIndices = append(newRootIndices, int32(newIdx))
		}

		newBones[newIdx] = bone
		newNameToIndex[bone.Name] = int32(newIdx)
	}

	return newBones, newRootIndices, newNameToIndex, oldToNew
}
