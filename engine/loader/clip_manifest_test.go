package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/rig-go/engine/model"
)

func writeManifest(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clips.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}
	return path
}

func TestLoadClipManifest(t *testing.T) {
	path := writeManifest(t, `
clips:
  - name: walk
    first: 0
    last: 29
    rate: 30
    loop: true
  - name: jump
    first: 30
    last: 45
    rate: 30
`)

	clips, err := LoadClipManifest(path)
	if err != nil {
		t.Fatalf("LoadClipManifest returned error: %v", err)
	}
	if len(clips) != 2 {
		t.Fatalf("expected 2 clips, got %d", len(clips))
	}

	walk := clips[0]
	if walk.Name != "walk" || walk.First != 0 || walk.Last != 29 || walk.Rate != 30 || !walk.Loop {
		t.Errorf("unexpected walk clip: %+v", walk)
	}
	if clips[1].Loop {
		t.Error("jump clip should not loop")
	}
}

func TestLoadClipManifestRejectsInvalidEntries(t *testing.T) {
	tests := []struct {
		name     string
		contents string
	}{
		{name: "missing name", contents: "clips:\n  - first: 0\n    last: 5\n    rate: 30\n"},
		{name: "inverted range", contents: "clips:\n  - name: a\n    first: 10\n    last: 5\n    rate: 30\n"},
		{name: "zero rate", contents: "clips:\n  - name: a\n    first: 0\n    last: 5\n    rate: 0\n"},
		{name: "empty manifest", contents: "clips: []\n"},
		{name: "malformed yaml", contents: "clips: [}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeManifest(t, tt.contents)
			if _, err := LoadClipManifest(path); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestLoadClipManifestMissingFile(t *testing.T) {
	if _, err := LoadClipManifest(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file, got nil")
	}
}

func TestApplyClipManifestValidatesFrameRange(t *testing.T) {
	imported := &model.ImportedModel{
		Frames: make([]model.Frame, 10),
		Clips:  []model.Clip{{Name: "baked", First: 0, Last: 9, Rate: 30}},
	}

	good := []model.Clip{{Name: "walk", First: 0, Last: 9, Rate: 30, Loop: true}}
	if err := applyClipManifest(imported, good); err != nil {
		t.Fatalf("applyClipManifest returned error: %v", err)
	}
	if len(imported.Clips) != 1 || imported.Clips[0].Name != "walk" {
		t.Errorf("manifest clips should replace baked clips, got %+v", imported.Clips)
	}

	bad := []model.Clip{{Name: "walk", First: 0, Last: 10, Rate: 30}}
	if err := applyClipManifest(imported, bad); err == nil {
		t.Error("expected error for out-of-range clip, got nil")
	}
}
