package loader

import (
	"github.com/Carmen-Shannon/rig-go/engine/model"
)

// LoaderBackendType identifies the model file format backend to use.
type LoaderBackendType int

const (
	// BackendTypeGLTF selects the glTF/GLB loader backend.
	BackendTypeGLTF LoaderBackendType = iota
)

// defaultBakeRate is the frame sample rate used when baking animation
// channels into frame sequences, unless overridden via WithBakeRate.
const defaultBakeRate float32 = 30

// bakeOptions configures how animation channels are sampled into frames.
type bakeOptions struct {
	// Rate is the bake sample rate in frames per second.
	Rate float32

	// Loop is the default loop policy applied to baked clips.
	Loop bool
}

// loaderBackend defines the interface a file-format backend must implement.
// A backend parses one asset format and produces the universal ImportedModel:
// topologically sorted bones, baked fixed-rate frames, and clip ranges.
type loaderBackend interface {
	// Load parses the file at path into an ImportedModel.
	//
	// Parameters:
	//   - path: the model file path
	//   - bake: animation baking configuration
	//
	// Returns:
	//   - *model.ImportedModel: the imported model data
	//   - error: error if parsing fails
	Load(path string, bake bakeOptions) (*model.ImportedModel, error)
}
