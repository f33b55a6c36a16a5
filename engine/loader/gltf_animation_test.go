package loader

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/rig-go/engine/model"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

func TestLocateKey(t *testing.T) {
	times := []float32{0, 1, 3}

	tests := []struct {
		name   string
		t      float32
		index  int
		weight float32
	}{
		{name: "before first", t: -1, index: 0, weight: 0},
		{name: "at first", t: 0, index: 0, weight: 0},
		{name: "mid first interval", t: 0.5, index: 0, weight: 0.5},
		{name: "at interior key", t: 1, index: 1, weight: 0},
		{name: "mid second interval", t: 2, index: 1, weight: 0.5},
		{name: "at last", t: 3, index: 2, weight: 0},
		{name: "past last", t: 10, index: 2, weight: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, w := locateKey(times, tt.t)
			if idx != tt.index {
				t.Errorf("index = %d, want %d", idx, tt.index)
			}
			if math.Abs(float64(w-tt.weight)) > 1e-6 {
				t.Errorf("weight = %v, want %v", w, tt.weight)
			}
		})
	}
}

func TestSampleVectorKeysLinear(t *testing.T) {
	keys := []vectorKey{
		{time: 0, value: [3]float32{0, 0, 0}},
		{time: 2, value: [3]float32{4, 0, 0}},
	}

	got := sampleVectorKeys(keys, 1, false)
	if math.Abs(float64(got[0]-2)) > 1e-6 {
		t.Errorf("expected x=2 halfway, got %v", got)
	}

	if got := sampleVectorKeys(keys, 5, false); got != keys[1].value {
		t.Errorf("expected clamp to last key, got %v", got)
	}
}

func TestSampleVectorKeysStepHoldsEarlierKey(t *testing.T) {
	keys := []vectorKey{
		{time: 0, value: [3]float32{0, 0, 0}},
		{time: 2, value: [3]float32{4, 0, 0}},
	}

	if got := sampleVectorKeys(keys, 1.9, true); got != keys[0].value {
		t.Errorf("step sampler should hold earlier key, got %v", got)
	}
}

func TestSampleQuatKeysStaysUnitAcrossHemispheres(t *testing.T) {
	// Same orientation expressed with flipped sign; interpolation must take
	// the short arc instead of swinging through zero.
	q := [4]float32{0, float32(math.Sqrt2 / 2), 0, float32(math.Sqrt2 / 2)}
	keys := []quatKey{
		{time: 0, value: q},
		{time: 1, value: [4]float32{-q[0], -q[1], -q[2], -q[3]}},
	}

	got := sampleQuatKeys(keys, 0.5, false)

	length := math.Sqrt(float64(got[0]*got[0] + got[1]*got[1] + got[2]*got[2] + got[3]*got[3]))
	if math.Abs(length-1) > 1e-5 {
		t.Fatalf("interpolated quaternion not unit length: %v", length)
	}
	dot := got[0]*q[0] + got[1]*q[1] + got[2]*q[2] + got[3]*q[3]
	if math.Abs(math.Abs(float64(dot))-1) > 1e-5 {
		t.Errorf("interpolation drifted from the shared orientation: %v", got)
	}
}

func TestBuildVectorKeysCubicSplineTakesMiddleValue(t *testing.T) {
	times := []float32{0, 1}
	// Cubic-spline output: in-tangent, value, out-tangent per key.
	values := [][3]float32{
		{9, 9, 9}, {1, 0, 0}, {9, 9, 9},
		{9, 9, 9}, {2, 0, 0}, {9, 9, 9},
	}

	keys, err := buildVectorKeys(times, values, gltf.InterpolationCubicSpline)
	if err != nil {
		t.Fatalf("buildVectorKeys returned error: %v", err)
	}
	if keys[0].value != ([3]float32{1, 0, 0}) || keys[1].value != ([3]float32{2, 0, 0}) {
		t.Errorf("expected middle values, got %+v", keys)
	}
}

func TestBuildVectorKeysRejectsShortOutput(t *testing.T) {
	if _, err := buildVectorKeys([]float32{0, 1, 2}, [][3]float32{{0, 0, 0}}, gltf.InterpolationLinear); err == nil {
		t.Error("expected error for undersized output, got nil")
	}
}

func TestBakeGLTFAnimationsResamplesChannels(t *testing.T) {
	doc := gltf.NewDocument()

	inputAcc := modeler.WriteAccessor(doc, gltf.TargetArrayBuffer, []float32{0, 1})
	outputAcc := modeler.WriteAccessor(doc, gltf.TargetArrayBuffer, [][3]float32{{0, 0, 0}, {1, 0, 0}})

	doc.Animations = append(doc.Animations, &gltf.Animation{
		Name: "slide",
		Samplers: []*gltf.AnimationSampler{{
			Input:         gltf.Index(uint32(inputAcc)),
			Output:        gltf.Index(uint32(outputAcc)),
			Interpolation: gltf.InterpolationLinear,
		}},
		Channels: []*gltf.Channel{{
			Sampler: gltf.Index(uint32(0)),
			Target: gltf.ChannelTarget{
				Node: gltf.Index(uint32(7)),
				Path: gltf.TRSTranslation,
			},
		}},
	})

	skeleton := &model.Skeleton{
		Bones:           []model.Bone{{Name: "root", ParentIndex: -1, LocalTransform: model.IdentityTransform()}},
		RootBoneIndices: []int32{0},
		BoneNameToIndex: map[string]int32{"root": 0},
	}
	nodeToBone := map[int]int32{7: 0}

	frames, clips, err := bakeGLTFAnimations(doc, skeleton, nodeToBone, bakeOptions{Rate: 2, Loop: true})
	if err != nil {
		t.Fatalf("bakeGLTFAnimations returned error: %v", err)
	}

	if len(frames) != 3 {
		t.Fatalf("expected 3 frames for a 1s channel at 2fps, got %d", len(frames))
	}
	for i, wantX := range []float32{0, 0.5, 1} {
		got := frames[i][0].Translation[0]
		if math.Abs(float64(got-wantX)) > 1e-5 {
			t.Errorf("frame %d: x = %v, want %v", i, got, wantX)
		}
		// Unanimated components hold the rest transform.
		if frames[i][0].Scale != ([3]float32{1, 1, 1}) {
			t.Errorf("frame %d: scale drifted to %v", i, frames[i][0].Scale)
		}
	}

	if len(clips) != 1 {
		t.Fatalf("expected 1 clip, got %d", len(clips))
	}
	clip := clips[0]
	if clip.Name != "slide" || clip.First != 0 || clip.Last != 2 || clip.Rate != 2 || !clip.Loop {
		t.Errorf("unexpected clip: %+v", clip)
	}
}

func TestBakeGLTFAnimationsSkipsForeignNodes(t *testing.T) {
	doc := gltf.NewDocument()

	inputAcc := modeler.WriteAccessor(doc, gltf.TargetArrayBuffer, []float32{0, 1})
	outputAcc := modeler.WriteAccessor(doc, gltf.TargetArrayBuffer, [][3]float32{{5, 0, 0}, {5, 0, 0}})

	doc.Animations = append(doc.Animations, &gltf.Animation{
		Samplers: []*gltf.AnimationSampler{{
			Input:         gltf.Index(uint32(inputAcc)),
			Output:        gltf.Index(uint32(outputAcc)),
			Interpolation: gltf.InterpolationLinear,
		}},
		Channels: []*gltf.Channel{{
			Sampler: gltf.Index(uint32(0)),
			Target: gltf.ChannelTarget{
				// Targets a node that is not part of the skin.
				Node: gltf.Index(uint32(99)),
				Path: gltf.TRSTranslation,
			},
		}},
	})

	skeleton := &model.Skeleton{
		Bones:           []model.Bone{{Name: "root", ParentIndex: -1, LocalTransform: model.IdentityTransform()}},
		RootBoneIndices: []int32{0},
		BoneNameToIndex: map[string]int32{"root": 0},
	}

	frames, clips, err := bakeGLTFAnimations(doc, skeleton, map[int]int32{0: 0}, bakeOptions{Rate: 30})
	if err != nil {
		t.Fatalf("bakeGLTFAnimations returned error: %v", err)
	}

	// The foreign channel contributes nothing: no duration, no samples.
	if len(frames) != 1 {
		t.Fatalf("expected a single rest frame, got %d", len(frames))
	}
	for i, frame := range frames {
		if frame[0].Translation != ([3]float32{0, 0, 0}) {
			t.Errorf("frame %d: expected rest translation, got %v", i, frame[0].Translation)
		}
	}
	if clips[0].Name != "animation_0" {
		t.Errorf("expected fallback clip name, got %q", clips[0].Name)
	}
}
