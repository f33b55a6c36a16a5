package loader

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/rig-go/common"
	"github.com/Carmen-Shannon/rig-go/engine/model"
)

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	modelCache map[string]model.Model

	backend loaderBackend

	bakeRate     float32
	loopDefault  bool
	manifestPath string
}

// Loader defines the public-facing interface for loading and caching animated
// models. It abstracts the file format behind a generic backend, bakes
// animation channels into fixed-rate frame sequences, and validates the bone
// hierarchy so per-tick evaluation never has to.
type Loader interface {
	// Load imports a model file and caches the result.
	// If the model is already cached (by file path), the cached version is
	// returned. The backend is selected based on the file extension
	// (.gltf/.glb selects the glTF backend).
	//
	// Parameters:
	//   - path: the file path to the model file
	//
	// Returns:
	//   - model.Model: the loaded and cached model
	//   - error: error if loading or hierarchy validation fails
	Load(path string) (model.Model, error)

	// Get retrieves a cached model by name. Returns nil if not found.
	//
	// Parameters:
	//   - name: the cache key to look up
	//
	// Returns:
	//   - model.Model: the cached model or nil
	Get(name string) model.Model

	// Models returns the full model cache.
	//
	// Returns:
	//   - map[string]model.Model: all cached models keyed by name
	Models() map[string]model.Model

	// Materials returns the materials imported alongside a cached model.
	//
	// Parameters:
	//   - name: the cache key of the model
	//
	// Returns:
	//   - []common.ImportedMaterial: the imported materials, or nil
	Materials(name string) []common.ImportedMaterial
}

var _ Loader = &loader{}

// NewLoader creates a new Loader instance with the specified backend type and options applied.
//
// Parameters:
//   - backendType: the type of loader backend to use (e.g., BackendTypeGLTF)
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new instance of Loader configured with the provided backend and options
func NewLoader(backendType LoaderBackendType, options ...LoaderBuilderOption) Loader {
	l := &loader{
		modelCache: make(map[string]model.Model),
		bakeRate:   defaultBakeRate,
	}

	switch backendType {
	case BackendTypeGLTF:
		l.backend = newGLTFBackend()
	}

	for _, option := range options {
		option(l)
	}
	return l
}

func (l *loader) Load(path string) (model.Model, error) {
	l.mu.RLock()
	if cached, ok := l.modelCache[path]; ok {
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()

	backend, err := l.resolveBackend(path)
	if err != nil {
		return nil, err
	}

	imported, err := backend.Load(path, bakeOptions{Rate: l.bakeRate, Loop: l.loopDefault})
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	if l.manifestPath != "" {
		clips, err := LoadClipManifest(l.manifestPath)
		if err != nil {
			return nil, fmt.Errorf("clip manifest %s: %w", l.manifestPath, err)
		}
		if err := applyClipManifest(imported, clips); err != nil {
			return nil, fmt.Errorf("clip manifest %s: %w", l.manifestPath, err)
		}
	}

	m, err := l.importedToModel(imported)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.modelCache[path] = m
	l.mu.Unlock()

	return m, nil
}

func (l *loader) Get(name string) model.Model {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.modelCache[name]
}

func (l *loader) Models() map[string]model.Model {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.modelCache
}

func (l *loader) Materials(name string) []common.ImportedMaterial {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if b, ok := l.backend.(*gltfBackend); ok {
		return b.materials[name]
	}
	return nil
}

// resolveBackend picks a backend from the file extension.
func (l *loader) resolveBackend(path string) (loaderBackend, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gltf", ".glb":
		return l.backend, nil
	default:
		return nil, fmt.Errorf("unsupported model format: %s", filepath.Ext(path))
	}
}

// importedToModel assembles a runtime Model from imported data. All meshes
// share one vertex/index buffer pair; each sub-mesh addresses its own index
// range. NewModel validates the hierarchy and frame shapes.
func (l *loader) importedToModel(imported *model.ImportedModel) (model.Model, error) {
	var vertices []model.GPUSkinnedVertex
	var indices []uint32
	meshes := make([]*model.Mesh, 0, len(imported.Meshes))

	for i := range imported.Meshes {
		im := &imported.Meshes[i]
		base := uint32(len(vertices))
		offset := len(indices)

		vertices = append(vertices, im.Vertices...)
		for _, idx := range im.Indices {
			indices = append(indices, base+idx)
		}

		meshes = append(meshes, &model.Mesh{
			Name:          im.Name,
			Rotation:      [4]float32{0, 0, 0, 1},
			Scale:         [3]float32{1, 1, 1},
			MaterialIndex: im.MaterialIndex,
			IndexOffset:   offset,
			IndexCount:    len(im.Indices),
		})
	}

	m, err := model.NewModel(
		model.WithName(imported.Name),
		model.WithSkeleton(imported.Skeleton),
		model.WithFrames(imported.Frames),
		model.WithClips(imported.Clips),
		model.WithMeshes(meshes),
		model.WithVertexData(common.SliceToBytes(vertices)),
		model.WithIndexData(common.SliceToBytes(indices)),
		model.WithIndexCount(len(indices)),
		model.WithBoundingRadius(model.ComputeBoundingRadius(vertices)),
	)
	if err != nil {
		return nil, fmt.Errorf("model %s: %w", imported.Name, err)
	}
	return m, nil
}
