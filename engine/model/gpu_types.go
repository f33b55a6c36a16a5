package model

import (
	"math"
	"unsafe"
)

// GPUVertex is the GPU-aligned representation of a single mesh vertex for
// static (non-skinned) models. Matches the WGSL VertexInput struct layout.
// Size: 48 bytes (std430 aligned, no padding required).
type GPUVertex struct {
	Position [3]float32 // offset  0: vertex position in model space
	Normal   [3]float32 // offset 12: vertex normal for lighting
	TexCoord [2]float32 // offset 24: UV texture coordinate
	Color    [4]float32 // offset 32: per-vertex RGBA color
}

// Size returns the size of the GPUVertex struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUVertex) Size() int {
	return int(unsafe.Sizeof(*g))
}

// GPUSkinnedVertex extends GPUVertex with per-vertex bone skinning data.
// Matches the WGSL VertexInput struct layout for skinned pipelines.
// Size: 80 bytes (48 base vertex + 32 skinning data, std430 aligned).
type GPUSkinnedVertex struct {
	GPUVertex              // offset  0: base vertex data
	BoneIndices [4]uint32  // offset 48: indices of up to 4 influencing bones
	BoneWeights [4]float32 // offset 64: blend weights for each bone (sum to 1.0)
}

// Size returns the size of the GPUSkinnedVertex struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUSkinnedVertex) Size() int {
	return int(unsafe.Sizeof(*g))
}

// ComputeBoundingRadius calculates the bounding sphere radius from a slice of
// skinned vertices: the maximum distance from the origin across all vertices.
//
// Parameters:
//   - vertices: the vertex data to compute the bounding radius from
//
// Returns:
//   - float32: the maximum distance from the origin
func ComputeBoundingRadius(vertices []GPUSkinnedVertex) float32 {
	var maxDistSq float32
	for _, v := range vertices {
		p := v.Position
		distSq := p[0]*p[0] + p[1]*p[1] + p[2]*p[2]
		if distSq > maxDistSq {
			maxDistSq = distSq
		}
	}
	return float32(math.Sqrt(float64(maxDistSq)))
}
