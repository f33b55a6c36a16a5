package loader

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/rig-go/common"
	"github.com/Carmen-Shannon/rig-go/engine/model"
	"github.com/qmuntal/gltf"
)

// gltfBackend is the glTF/GLB implementation of loaderBackend, built on
// qmuntal/gltf for document parsing and accessor decoding.
type gltfBackend struct {
	// materials holds imported material factors keyed by model name, kept
	// outside ImportedModel so the runtime model stays renderer-agnostic.
	materials map[string][]common.ImportedMaterial
}

var _ loaderBackend = &gltfBackend{}

// newGLTFBackend creates a new glTF loader backend.
//
// Returns:
//   - loaderBackend: the glTF backend
func newGLTFBackend() loaderBackend {
	return &gltfBackend{materials: make(map[string][]common.ImportedMaterial)}
}

func (b *gltfBackend) Load(path string, bake bakeOptions) (*model.ImportedModel, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	imported := &model.ImportedModel{Name: name}

	// One skin per model; multi-skin documents use the first one.
	var nodeToBone map[int]int32
	var jointRemap map[uint32]int32
	if len(doc.Skins) > 0 {
		skeleton, n2b, jr, err := extractGLTFSkeleton(doc, 0)
		if err != nil {
			return nil, fmt.Errorf("skin 0: %w", err)
		}
		imported.Skeleton = skeleton
		nodeToBone = n2b
		jointRemap = jr
	}

	if imported.Skeleton != nil && len(doc.Animations) > 0 {
		frames, clips, err := bakeGLTFAnimations(doc, imported.Skeleton, nodeToBone, bake)
		if err != nil {
			return nil, fmt.Errorf("animations: %w", err)
		}
		imported.Frames = frames
		imported.Clips = clips
	}

	meshes, err := extractGLTFMeshes(doc, jointRemap)
	if err != nil {
		return nil, fmt.Errorf("meshes: %w", err)
	}
	imported.Meshes = meshes

	b.materials[name] = extractGLTFMaterials(doc)

	return imported, nil
}

// extractGLTFMaterials converts the document's material factors. Texture
// references are intentionally dropped.
func extractGLTFMaterials(doc *gltf.Document) []common.ImportedMaterial {
	mats := make([]common.ImportedMaterial, len(doc.Materials))
	for i, m := range doc.Materials {
		im := common.ImportedMaterial{
			Name:      m.Name,
			BaseColor: [4]float32{1, 1, 1, 1},
			Roughness: 1,
		}
		if pbr := m.PBRMetallicRoughness; pbr != nil {
			im.BaseColor = pbr.BaseColorFactorOrDefault()
			im.Metallic = pbr.MetallicFactorOrDefault()
			im.Roughness = pbr.RoughnessFactorOrDefault()
		}
		mats[i] = im
	}
	return mats
}
