package renderer

import (
	"encoding/binary"
	"math"
	"sync"
	"testing"

	"github.com/Carmen-Shannon/rig-go/engine/model"
	"github.com/Carmen-Shannon/rig-go/engine/renderer/bind_group_provider"
	"github.com/cogentcore/webgpu/wgpu"
)

// captureBackend records buffer writes without touching the GPU.
type captureBackend struct {
	writes []bind_group_provider.BufferWrite
}

var _ RendererBackend = &captureBackend{}

func (b *captureBackend) ConfigureSurface(width, height int)  {}
func (b *captureBackend) SetPresentMode(mode PresentMode)     {}
func (b *captureBackend) BeginFrame() error                   { return nil }
func (b *captureBackend) EndFrame()                           {}
func (b *captureBackend) Present()                            {}
func (b *captureBackend) Device() *wgpu.Device                { return nil }
func (b *captureBackend) Queue() *wgpu.Queue                  { return nil }
func (b *captureBackend) Instance() *wgpu.Instance            { return nil }
func (b *captureBackend) Adapter() *wgpu.Adapter              { return nil }
func (b *captureBackend) Surface() *wgpu.Surface              { return nil }
func (b *captureBackend) SetDevice(device *wgpu.Device)       {}
func (b *captureBackend) SetQueue(queue *wgpu.Queue)          {}
func (b *captureBackend) SetInstance(instance *wgpu.Instance) {}
func (b *captureBackend) SetAdapter(adapter *wgpu.Adapter)    {}
func (b *captureBackend) SetSurface(surface *wgpu.Surface)    {}

func (b *captureBackend) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error {
	return nil
}

func (b *captureBackend) InitCameraBindGroup(provider bind_group_provider.BindGroupProvider) error {
	return nil
}

func (b *captureBackend) InitModelBindGroup(provider bind_group_provider.BindGroupProvider) error {
	return nil
}

func (b *captureBackend) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	b.writes = append(b.writes, writes...)
}

func (b *captureBackend) DrawCall(meshProvider, cameraProvider bind_group_provider.BindGroupProvider, ranges []DrawRange) {
}

func newCaptureRenderer(b *captureBackend) *renderer {
	return &renderer{
		mu:      &sync.Mutex{},
		tints:   make(map[string][4]float32),
		backend: b,
	}
}

// uniformTranslation reads the translation column of the column-major model
// matrix at the head of a serialized GPUModelUniform.
func uniformTranslation(t *testing.T, data []byte) (x, y, z float32) {
	t.Helper()
	if len(data) < 96 {
		t.Fatalf("uniform write is %d bytes, want 96", len(data))
	}
	x = math.Float32frombits(binary.LittleEndian.Uint32(data[48:]))
	y = math.Float32frombits(binary.LittleEndian.Uint32(data[52:]))
	z = math.Float32frombits(binary.LittleEndian.Uint32(data[56:]))
	return x, y, z
}

func TestUploadModelDrawsPropagatedMeshTransform(t *testing.T) {
	b := &captureBackend{}
	r := newCaptureRenderer(b)

	m, err := model.NewModel(
		model.WithName("crate"),
		model.WithMeshes([]*model.Mesh{{Name: "crate"}}),
		model.WithMeshProvider(bind_group_provider.NewBindGroupProvider("model_crate")),
	)
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}

	// A transform set between ticks is not rendered until Update propagates
	// it onto the meshes.
	m.SetPosition([3]float32{7, 8, 9})
	r.UploadModel(m)
	x, y, z := uniformTranslation(t, b.writes[len(b.writes)-1].Data)
	if x != 0 || y != 0 || z != 0 {
		t.Fatalf("pre-tick upload translation = (%v, %v, %v), want (0, 0, 0)", x, y, z)
	}

	m.Update(0.016)
	r.UploadModel(m)
	x, y, z = uniformTranslation(t, b.writes[len(b.writes)-1].Data)
	if x != 7 || y != 8 || z != 9 {
		t.Errorf("post-tick upload translation = (%v, %v, %v), want (7, 8, 9)", x, y, z)
	}
}

func TestUploadModelAppliesTint(t *testing.T) {
	b := &captureBackend{}
	r := newCaptureRenderer(b)

	m, err := model.NewModel(
		model.WithName("crate"),
		model.WithMeshProvider(bind_group_provider.NewBindGroupProvider("model_crate")),
	)
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}

	r.SetModelTint("crate", [4]float32{0.5, 0.25, 1, 1})
	r.UploadModel(m)

	data := b.writes[len(b.writes)-1].Data
	got := math.Float32frombits(binary.LittleEndian.Uint32(data[64:]))
	if got != 0.5 {
		t.Errorf("tint red = %v, want 0.5", got)
	}
}
