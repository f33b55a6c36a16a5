package loader

import (
	"fmt"

	"github.com/Carmen-Shannon/rig-go/engine/model"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// extractGLTFMeshes converts every mesh primitive in the document into an
// ImportedMesh of skinned vertices. Joint indices are remapped into sorted
// bone order via jointRemap; unskinned primitives get full weight on bone 0.
//
// Parameters:
//   - doc: the parsed document
//   - jointRemap: joint slot to sorted bone index, nil when the document has
//     no skin
//
// Returns:
//   - []model.ImportedMesh: one mesh per primitive
//   - error: error if vertex data cannot be decoded
func extractGLTFMeshes(doc *gltf.Document, jointRemap map[uint32]int32) ([]model.ImportedMesh, error) {
	var meshes []model.ImportedMesh

	for _, node := range doc.Nodes {
		if node.Mesh == nil || int(*node.Mesh) >= len(doc.Meshes) {
			continue
		}
		mesh := doc.Meshes[*node.Mesh]

		name := mesh.Name
		if name == "" {
			name = node.Name
		}
		if name == "" {
			name = fmt.Sprintf("mesh_%d", *node.Mesh)
		}

		for primIdx, prim := range mesh.Primitives {
			im, err := extractGLTFPrimitive(doc, prim, jointRemap)
			if err != nil {
				return nil, fmt.Errorf("mesh %q primitive %d: %w", name, primIdx, err)
			}

			im.Name = name
			if len(mesh.Primitives) > 1 {
				im.Name = fmt.Sprintf("%s_%d", name, primIdx)
			}
			meshes = append(meshes, im)
		}
	}

	return meshes, nil
}

func extractGLTFPrimitive(doc *gltf.Document, prim *gltf.Primitive, jointRemap map[uint32]int32) (model.ImportedMesh, error) {
	var im model.ImportedMesh

	posAcc, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return im, fmt.Errorf("primitive has no position attribute")
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posAcc], nil)
	if err != nil {
		return im, fmt.Errorf("failed to read positions: %w", err)
	}

	var normals [][3]float32
	if acc, ok := prim.Attributes[gltf.NORMAL]; ok {
		normals, err = modeler.ReadNormal(doc, doc.Accessors[acc], nil)
		if err != nil {
			return im, fmt.Errorf("failed to read normals: %w", err)
		}
	}

	var texCoords [][2]float32
	if acc, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		texCoords, err = modeler.ReadTextureCoord(doc, doc.Accessors[acc], nil)
		if err != nil {
			return im, fmt.Errorf("failed to read texture coordinates: %w", err)
		}
	}

	var colors [][4]uint8
	if acc, ok := prim.Attributes[gltf.COLOR_0]; ok {
		colors, err = modeler.ReadColor(doc, doc.Accessors[acc], nil)
		if err != nil {
			return im, fmt.Errorf("failed to read vertex colors: %w", err)
		}
	}

	var joints [][4]uint16
	var weights [][4]float32
	if jointRemap != nil {
		if acc, ok := prim.Attributes[gltf.JOINTS_0]; ok {
			joints, err = modeler.ReadJoints(doc, doc.Accessors[acc], nil)
			if err != nil {
				return im, fmt.Errorf("failed to read joint indices: %w", err)
			}
		}
		if acc, ok := prim.Attributes[gltf.WEIGHTS_0]; ok {
			weights, err = modeler.ReadWeights(doc, doc.Accessors[acc], nil)
			if err != nil {
				return im, fmt.Errorf("failed to read joint weights: %w", err)
			}
		}
	}

	vertices := make([]model.GPUSkinnedVertex, len(positions))
	for i := range positions {
		v := &vertices[i]
		v.Position = positions[i]
		v.Color = [4]float32{1, 1, 1, 1}

		if i < len(normals) {
			v.Normal = normals[i]
		}
		if i < len(texCoords) {
			v.TexCoord = texCoords[i]
		}
		if i < len(colors) {
			v.Color = [4]float32{
				float32(colors[i][0]) / 255,
				float32(colors[i][1]) / 255,
				float32(colors[i][2]) / 255,
				float32(colors[i][3]) / 255,
			}
		}

		if i < len(joints) && i < len(weights) {
			for k := 0; k < 4; k++ {
				boneIdx, ok := jointRemap[uint32(joints[i][k])]
				if !ok || weights[i][k] == 0 {
					continue
				}
				v.BoneIndices[k] = uint32(boneIdx)
				v.BoneWeights[k] = weights[i][k]
			}
		} else {
			// Unskinned vertices ride bone 0 so the shader path stays
			// uniform.
			v.BoneWeights = [4]float32{1, 0, 0, 0}
		}
	}
	im.Vertices = vertices

	if prim.Indices != nil {
		indices, err := modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return im, fmt.Errorf("failed to read indices: %w", err)
		}
		im.Indices = indices
	} else {
		im.Indices = make([]uint32, len(positions))
		for i := range im.Indices {
			im.Indices[i] = uint32(i)
		}
	}

	if prim.Material != nil {
		im.MaterialIndex = int(*prim.Material)
	} else {
		im.MaterialIndex = -1
	}

	return im, nil
}
