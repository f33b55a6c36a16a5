package loader

import (
	"fmt"
	"os"

	"github.com/Carmen-Shannon/rig-go/engine/model"
	"gopkg.in/yaml.v3"
)

// clipManifest is the YAML document shape for a clip manifest file. A
// manifest carves named sub-clips out of a model's baked frame store, which
// is how a single long export gets split into walk, run, idle, and so on.
type clipManifest struct {
	Clips []clipManifestEntry `yaml:"clips"`
}

type clipManifestEntry struct {
	Name  string  `yaml:"name"`
	First uint32  `yaml:"first"`
	Last  uint32  `yaml:"last"`
	Rate  float32 `yaml:"rate"`
	Loop  bool    `yaml:"loop"`
}

// LoadClipManifest reads and parses a clip manifest YAML file.
//
// Parameters:
//   - path: path to the manifest file
//
// Returns:
//   - []model.Clip: the parsed clip definitions
//   - error: error if the file cannot be read or parsed
func LoadClipManifest(path string) ([]model.Clip, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read clip manifest: %w", err)
	}

	var manifest clipManifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse clip manifest: %w", err)
	}
	if len(manifest.Clips) == 0 {
		return nil, fmt.Errorf("clip manifest %q defines no clips", path)
	}

	clips := make([]model.Clip, 0, len(manifest.Clips))
	for i, entry := range manifest.Clips {
		if entry.Name == "" {
			return nil, fmt.Errorf("clip %d: name is required", i)
		}
		if entry.Last < entry.First {
			return nil, fmt.Errorf("clip %q: last frame %d precedes first frame %d", entry.Name, entry.Last, entry.First)
		}
		if entry.Rate <= 0 {
			return nil, fmt.Errorf("clip %q: rate must be positive", entry.Name)
		}
		clips = append(clips, model.Clip{
			Name:  entry.Name,
			First: entry.First,
			Last:  entry.Last,
			Rate:  entry.Rate,
			Loop:  entry.Loop,
		})
	}

	return clips, nil
}

// applyClipManifest replaces a model's clip list with manifest-defined clips,
// validating each range against the baked frame store.
func applyClipManifest(imported *model.ImportedModel, clips []model.Clip) error {
	frameCount := uint32(len(imported.Frames))
	for _, clip := range clips {
		if clip.Last >= frameCount {
			return fmt.Errorf("clip %q: frame range [%d, %d] exceeds the %d baked frames", clip.Name, clip.First, clip.Last, frameCount)
		}
	}
	imported.Clips = clips
	return nil
}
