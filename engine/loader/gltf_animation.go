package loader

import (
	"fmt"
	"math"

	"github.com/Carmen-Shannon/rig-go/common"
	"github.com/Carmen-Shannon/rig-go/engine/model"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// vectorKey is a timestamped vec3 sample from a translation or scale channel.
type vectorKey struct {
	time  float32
	value [3]float32
}

// quatKey is a timestamped quaternion sample from a rotation channel, stored
// as (x, y, z, w).
type quatKey struct {
	time  float32
	value [4]float32
}

// boneChannels collects the keyed samples targeting a single bone within one
// animation. Missing channels fall back to the bone's rest transform.
type boneChannels struct {
	translations  []vectorKey
	rotations     []quatKey
	scales        []vectorKey
	interpolation map[string]gltf.Interpolation
}

// bakeGLTFAnimations resamples every animation in the document at a fixed
// rate and appends the resulting frames to one shared frame store. Each
// animation becomes a clip referencing its inclusive frame range.
//
// Parameters:
//   - doc: the parsed document
//   - skeleton: the extracted skeleton, in sorted bone order
//   - nodeToBone: glTF node index to sorted bone index
//   - bake: sampling rate and loop default for the produced clips
//
// Returns:
//   - []model.Frame: the baked frame store shared by all clips
//   - []model.Clip: one clip per animation
//   - error: error if channel data cannot be decoded
func bakeGLTFAnimations(doc *gltf.Document, skeleton *model.Skeleton, nodeToBone map[int]int32, bake bakeOptions) ([]model.Frame, []model.Clip, error) {
	boneCount := len(skeleton.Bones)

	var frames []model.Frame
	var clips []model.Clip

	for animIdx, anim := range doc.Animations {
		channels, duration, err := collectAnimationChannels(doc, anim, nodeToBone, boneCount)
		if err != nil {
			return nil, nil, fmt.Errorf("animation %d: %w", animIdx, err)
		}

		frameCount := int(duration*bake.Rate) + 1
		if frameCount < 1 {
			frameCount = 1
		}

		first := uint32(len(frames))
		for f := 0; f < frameCount; f++ {
			t := float32(f) / bake.Rate
			if t > duration {
				t = duration
			}

			frame := make(model.Frame, boneCount)
			for b := 0; b < boneCount; b++ {
				frame[b] = sampleBoneChannels(channels[b], t, skeleton.Bones[b].LocalTransform)
			}
			frames = append(frames, frame)
		}

		clips = append(clips, model.Clip{
			Name:  common.Coalesce(anim.Name, fmt.Sprintf("animation_%d", animIdx)),
			First: first,
			Last:  first + uint32(frameCount) - 1,
			Rate:  bake.Rate,
			Loop:  bake.Loop,
		})
	}

	return frames, clips, nil
}

// collectAnimationChannels decodes every channel of one animation into
// per-bone key lists, returning the animation's duration in seconds.
func collectAnimationChannels(doc *gltf.Document, anim *gltf.Animation, nodeToBone map[int]int32, boneCount int) ([]boneChannels, float32, error) {
	channels := make([]boneChannels, boneCount)
	var duration float32

	for chIdx, ch := range anim.Channels {
		if ch.Sampler == nil || ch.Target.Node == nil {
			continue
		}
		boneIdx, ok := nodeToBone[int(*ch.Target.Node)]
		if !ok {
			// Channel targets a node outside the skin; morph weights land
			// here too.
			continue
		}
		if int(*ch.Sampler) >= len(anim.Samplers) {
			return nil, 0, fmt.Errorf("channel %d: sampler %d out of range", chIdx, *ch.Sampler)
		}
		sampler := anim.Samplers[*ch.Sampler]
		if sampler.Input == nil || sampler.Output == nil {
			continue
		}

		times, err := readFloatAccessor(doc, *sampler.Input)
		if err != nil {
			return nil, 0, fmt.Errorf("channel %d input: %w", chIdx, err)
		}
		if len(times) == 0 {
			continue
		}
		if last := times[len(times)-1]; last > duration {
			duration = last
		}

		bc := &channels[boneIdx]
		if bc.interpolation == nil {
			bc.interpolation = make(map[string]gltf.Interpolation)
		}

		switch ch.Target.Path {
		case gltf.TRSTranslation, gltf.TRSScale:
			values, err := readVec3Accessor(doc, *sampler.Output)
			if err != nil {
				return nil, 0, fmt.Errorf("channel %d output: %w", chIdx, err)
			}
			keys, err := buildVectorKeys(times, values, sampler.Interpolation)
			if err != nil {
				return nil, 0, fmt.Errorf("channel %d: %w", chIdx, err)
			}
			if ch.Target.Path == gltf.TRSTranslation {
				bc.translations = keys
				bc.interpolation["translation"] = sampler.Interpolation
			} else {
				bc.scales = keys
				bc.interpolation["scale"] = sampler.Interpolation
			}
		case gltf.TRSRotation:
			values, err := readVec4Accessor(doc, *sampler.Output)
			if err != nil {
				return nil, 0, fmt.Errorf("channel %d output: %w", chIdx, err)
			}
			keys, err := buildQuatKeys(times, values, sampler.Interpolation)
			if err != nil {
				return nil, 0, fmt.Errorf("channel %d: %w", chIdx, err)
			}
			bc.rotations = keys
			bc.interpolation["rotation"] = sampler.Interpolation
		default:
			// TRSWeights (morph targets) are not animated here.
		}
	}

	return channels, duration, nil
}

// buildVectorKeys pairs times with vec3 values. Cubic-spline output stores
// in-tangent, value, out-tangent triplets per key; only the value is kept.
func buildVectorKeys(times []float32, values [][3]float32, interp gltf.Interpolation) ([]vectorKey, error) {
	stride, offset := 1, 0
	if interp == gltf.InterpolationCubicSpline {
		stride, offset = 3, 1
	}
	if len(values) < len(times)*stride {
		return nil, fmt.Errorf("sampler output has %d values for %d keys", len(values), len(times))
	}
	keys := make([]vectorKey, len(times))
	for i, t := range times {
		keys[i] = vectorKey{time: t, value: values[i*stride+offset]}
	}
	return keys, nil
}

// buildQuatKeys pairs times with quaternion values, dropping cubic-spline
// tangents the same way buildVectorKeys does.
func buildQuatKeys(times []float32, values [][4]float32, interp gltf.Interpolation) ([]quatKey, error) {
	stride, offset := 1, 0
	if interp == gltf.InterpolationCubicSpline {
		stride, offset = 3, 1
	}
	if len(values) < len(times)*stride {
		return nil, fmt.Errorf("sampler output has %d values for %d keys", len(values), len(times))
	}
	keys := make([]quatKey, len(times))
	for i, t := range times {
		keys[i] = quatKey{time: t, value: values[i*stride+offset]}
	}
	return keys, nil
}

// sampleBoneChannels evaluates a bone's channels at time t, falling back to
// the rest transform for any missing channel.
func sampleBoneChannels(bc boneChannels, t float32, rest model.Transform) model.Transform {
	out := rest

	if len(bc.translations) > 0 {
		out.Translation = sampleVectorKeys(bc.translations, t, bc.interpolation["translation"] == gltf.InterpolationStep)
	}
	if len(bc.scales) > 0 {
		out.Scale = sampleVectorKeys(bc.scales, t, bc.interpolation["scale"] == gltf.InterpolationStep)
	}
	if len(bc.rotations) > 0 {
		out.Rotation = sampleQuatKeys(bc.rotations, t, bc.interpolation["rotation"] == gltf.InterpolationStep)
	}

	return out
}

// sampleVectorKeys linearly interpolates a vec3 key list at time t, clamping
// outside the keyed range. Step samplers hold the earlier key.
func sampleVectorKeys(keys []vectorKey, t float32, step bool) [3]float32 {
	i, u := locateKey(keyTimesVec(keys), t)
	if step || u == 0 || i+1 >= len(keys) {
		return keys[i].value
	}
	a, b := keys[i].value, keys[i+1].value
	return [3]float32{
		a[0] + (b[0]-a[0])*u,
		a[1] + (b[1]-a[1])*u,
		a[2] + (b[2]-a[2])*u,
	}
}

// sampleQuatKeys spherically interpolates a quaternion key list at time t,
// taking the shorter arc and renormalizing the result.
func sampleQuatKeys(keys []quatKey, t float32, step bool) [4]float32 {
	i, u := locateKey(keyTimesQuat(keys), t)
	if step || u == 0 || i+1 >= len(keys) {
		return keys[i].value
	}

	av, bv := keys[i].value, keys[i+1].value
	qa := mgl32.Quat{W: av[3], V: mgl32.Vec3{av[0], av[1], av[2]}}
	qb := mgl32.Quat{W: bv[3], V: mgl32.Vec3{bv[0], bv[1], bv[2]}}
	if qa.Dot(qb) < 0 {
		qb = mgl32.Quat{W: -qb.W, V: mgl32.Vec3{-qb.V[0], -qb.V[1], -qb.V[2]}}
	}

	q := mgl32.QuatSlerp(qa.Normalize(), qb.Normalize(), u).Normalize()
	return [4]float32{q.V[0], q.V[1], q.V[2], q.W}
}

// locateKey finds the key interval containing t and the normalized position
// within it. Times before the first key clamp to (0, 0); times at or past the
// last key clamp to (len-1, 0).
func locateKey(times []float32, t float32) (int, float32) {
	n := len(times)
	if n == 0 {
		return 0, 0
	}
	if t <= times[0] {
		return 0, 0
	}
	if t >= times[n-1] {
		return n - 1, 0
	}

	lo, hi := 0, n-1
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if times[mid] <= t {
			lo = mid
		} else {
			hi = mid
		}
	}

	span := times[hi] - times[lo]
	if span <= 0 || math.IsNaN(float64(span)) {
		return lo, 0
	}
	return lo, (t - times[lo]) / span
}

func keyTimesVec(keys []vectorKey) []float32 {
	times := make([]float32, len(keys))
	for i, k := range keys {
		times[i] = k.time
	}
	return times
}

func keyTimesQuat(keys []quatKey) []float32 {
	times := make([]float32, len(keys))
	for i, k := range keys {
		times[i] = k.time
	}
	return times
}

// readFloatAccessor decodes a scalar float accessor.
func readFloatAccessor(doc *gltf.Document, accessorIndex uint32) ([]float32, error) {
	data, err := readAccessorData(doc, accessorIndex)
	if err != nil {
		return nil, err
	}
	values, ok := data.([]float32)
	if !ok {
		return nil, fmt.Errorf("accessor %d: expected scalar float data, got %T", accessorIndex, data)
	}
	return values, nil
}

// readVec3Accessor decodes a VEC3 float accessor.
func readVec3Accessor(doc *gltf.Document, accessorIndex uint32) ([][3]float32, error) {
	data, err := readAccessorData(doc, accessorIndex)
	if err != nil {
		return nil, err
	}
	values, ok := data.([][3]float32)
	if !ok {
		return nil, fmt.Errorf("accessor %d: expected VEC3 float data, got %T", accessorIndex, data)
	}
	return values, nil
}

// readVec4Accessor decodes a VEC4 float accessor.
func readVec4Accessor(doc *gltf.Document, accessorIndex uint32) ([][4]float32, error) {
	data, err := readAccessorData(doc, accessorIndex)
	if err != nil {
		return nil, err
	}
	values, ok := data.([][4]float32)
	if !ok {
		return nil, fmt.Errorf("accessor %d: expected VEC4 float data, got %T", accessorIndex, data)
	}
	return values, nil
}

func readAccessorData(doc *gltf.Document, accessorIndex uint32) (any, error) {
	if int(accessorIndex) >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", accessorIndex)
	}
	return modeler.ReadAccessor(doc, doc.Accessors[accessorIndex], nil)
}
