package renderer

import (
	"encoding/binary"
	"math"
	"unsafe"
)

// MaxBones is the bone palette capacity of the skinning pipeline. Models with
// more bones than this are rejected at init time.
const MaxBones = 256

// GPUModelUniform is the GPU-aligned representation of the per-model uniform
// buffer. Matches the WGSL ModelUniform struct layout exactly.
// Size: 96 bytes (std430 / WGSL aligned).
type GPUModelUniform struct {
	Model     [16]float32 // offset  0: model matrix (mat4x4<f32>)
	Tint      [4]float32  // offset 64: material tint multiplied into vertex color (vec4<f32>)
	Lit       uint32      // offset 80: 1 when the model participates in lighting
	BoneCount uint32      // offset 84: number of valid bone palette entries
	_pad      [2]uint32   // offset 88: padding to 96 bytes
}

// Size returns the size of the GPUModelUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (96)
func (g *GPUModelUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUModelUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUModelUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.Model[i]))
	}
	for i := range 4 {
		binary.LittleEndian.PutUint32(buf[64+i*4:], math.Float32bits(g.Tint[i]))
	}
	binary.LittleEndian.PutUint32(buf[80:], g.Lit)
	binary.LittleEndian.PutUint32(buf[84:], g.BoneCount)
	return buf
}
