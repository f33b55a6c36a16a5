package common

import (
	"math"
	"testing"
)

const matEps = 1e-5

func matApprox(a, b float32) bool {
	return math.Abs(float64(a-b)) <= matEps
}

func TestIdentityResetsDirtyMatrix(t *testing.T) {
	m := make([]float32, 16)
	for i := range m {
		m[i] = float32(i) + 1
	}

	Identity(m)

	for i := 0; i < 16; i++ {
		want := float32(0)
		if i%5 == 0 {
			want = 1
		}
		if m[i] != want {
			t.Errorf("m[%d] = %v, want %v", i, m[i], want)
		}
	}
}

func TestMul4IdentityIsNeutral(t *testing.T) {
	ident := make([]float32, 16)
	Identity(ident)

	a := []float32{
		1, 2, 3, 4,
		5, 6, 7, 8,
		9, 10, 11, 12,
		13, 14, 15, 16,
	}

	out := make([]float32, 16)
	Mul4(out, ident, a)
	for i := range a {
		if !matApprox(out[i], a[i]) {
			t.Fatalf("I*A: out[%d] = %v, want %v", i, out[i], a[i])
		}
	}

	Mul4(out, a, ident)
	for i := range a {
		if !matApprox(out[i], a[i]) {
			t.Fatalf("A*I: out[%d] = %v, want %v", i, out[i], a[i])
		}
	}
}

func TestMul4AliasedOutput(t *testing.T) {
	// out may alias an input; the internal buffer must protect the product.
	a := make([]float32, 16)
	Identity(a)
	a[12] = 5 // translate x

	b := make([]float32, 16)
	Identity(b)
	b[13] = 3 // translate y

	Mul4(a, a, b)

	if !matApprox(a[12], 5) || !matApprox(a[13], 3) {
		t.Errorf("translation = (%v, %v), want (5, 3)", a[12], a[13])
	}
}

func TestBuildTRSMatrixTranslationOnly(t *testing.T) {
	out := make([]float32, 16)
	BuildTRSMatrix(out, [3]float32{1, 2, 3}, [4]float32{0, 0, 0, 1}, [3]float32{1, 1, 1})

	want := []float32{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		1, 2, 3, 1,
	}
	for i := range want {
		if !matApprox(out[i], want[i]) {
			t.Errorf("out[%d] = %v, want %v", i, out[i], want[i])
		}
	}
}

func TestBuildTRSMatrixRotation90Y(t *testing.T) {
	// 90 degrees about Y maps +X to -Z and +Z to +X.
	s := float32(math.Sqrt(0.5))
	out := make([]float32, 16)
	BuildTRSMatrix(out, [3]float32{0, 0, 0}, [4]float32{0, s, 0, s}, [3]float32{1, 1, 1})

	// Column 0 is the image of +X.
	if !matApprox(out[0], 0) || !matApprox(out[1], 0) || !matApprox(out[2], -1) {
		t.Errorf("X column = (%v, %v, %v), want (0, 0, -1)", out[0], out[1], out[2])
	}
	// Column 2 is the image of +Z.
	if !matApprox(out[8], 1) || !matApprox(out[9], 0) || !matApprox(out[10], 0) {
		t.Errorf("Z column = (%v, %v, %v), want (1, 0, 0)", out[8], out[9], out[10])
	}
}

func TestBuildTRSMatrixScaleBeforeRotation(t *testing.T) {
	s := float32(math.Sqrt(0.5))
	out := make([]float32, 16)
	BuildTRSMatrix(out, [3]float32{0, 0, 0}, [4]float32{0, s, 0, s}, [3]float32{2, 1, 1})

	// Scaling X by 2 then rotating 90 about Y lands the X basis at (0, 0, -2).
	if !matApprox(out[2], -2) {
		t.Errorf("out[2] = %v, want -2", out[2])
	}
}

func TestLookAtCanonicalView(t *testing.T) {
	// Eye at origin looking down -Z with +Y up is the identity view.
	out := make([]float32, 16)
	LookAt(out, 0, 0, 0, 0, 0, -1, 0, 1, 0)

	ident := make([]float32, 16)
	Identity(ident)
	for i := range ident {
		if !matApprox(out[i], ident[i]) {
			t.Errorf("out[%d] = %v, want %v", i, out[i], ident[i])
		}
	}
}

func TestLookAtTranslatesEyeToOrigin(t *testing.T) {
	out := make([]float32, 16)
	LookAt(out, 3, 4, 5, 3, 4, 0, 0, 1, 0)

	// The eye position must map to the view-space origin.
	x := out[0]*3 + out[4]*4 + out[8]*5 + out[12]
	y := out[1]*3 + out[5]*4 + out[9]*5 + out[13]
	z := out[2]*3 + out[6]*4 + out[10]*5 + out[14]
	if !matApprox(x, 0) || !matApprox(y, 0) || !matApprox(z, 0) {
		t.Errorf("transformed eye = (%v, %v, %v), want origin", x, y, z)
	}
}

func TestPerspectiveDepthRange(t *testing.T) {
	near, far := float32(0.1), float32(100)
	out := make([]float32, 16)
	Perspective(out, float32(math.Pi/2), 1, near, far)

	// WebGPU clip space maps the near plane to depth 0 and the far plane to 1.
	project := func(z float32) float32 {
		clipZ := out[10]*z + out[14]
		clipW := out[11] * z
		return clipZ / clipW
	}
	if d := project(-near); !matApprox(d, 0) {
		t.Errorf("depth at near = %v, want 0", d)
	}
	if d := project(-far); !matApprox(d, 1) {
		t.Errorf("depth at far = %v, want 1", d)
	}
}

func TestSliceToBytesLength(t *testing.T) {
	data := []float32{1, 2, 3}
	b := SliceToBytes(data)
	if len(b) != 12 {
		t.Errorf("len = %d, want 12", len(b))
	}
	if SliceToBytes([]float32(nil)) != nil {
		t.Error("empty slice should convert to nil")
	}
}

func TestCoalesceReturnsFirstNonZero(t *testing.T) {
	if got := Coalesce("", "fallback"); got != "fallback" {
		t.Errorf("got %q, want fallback", got)
	}
	if got := Coalesce("a", "b"); got != "a" {
		t.Errorf("got %q, want a", got)
	}
	if got := Coalesce(0, 0); got != 0 {
		t.Errorf("got %d, want 0", got)
	}
}
