package vocab

import (
	"math"
	"testing"
)

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical unit vectors", []float32{1, 0, 0}, []float32{1, 0, 0}, 1.0},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0.0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1.0},
		{"scale invariant", []float32{2, 0}, []float32{5, 0}, 1.0},
		{"zero vector defined as 0", []float32{0, 0}, []float32{1, 1}, 0.0},
		{"both zero", []float32{0, 0}, []float32{0, 0}, 0.0},
		{"length mismatch", []float32{1, 0}, []float32{1, 0, 0}, 0.0},
		{"empty", nil, nil, 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Cosine(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Cosine(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestCosine_selfIsExactlyOne(t *testing.T) {
	vecs := [][]float32{
		{3, 4},
		{0.1, 0.2, 0.3},
		{-1.5, 2.25, 0.125, 7},
		{0.017, -0.932, 0.441, 0.003, -0.27},
	}
	for _, v := range vecs {
		if got := Cosine(v, v); got != 1.0 {
			t.Errorf("Cosine(v, v) = %v for %v, want exactly 1.0", got, v)
		}
	}
}

func TestCosine_float64Accumulation(t *testing.T) {
	// Many small components: float32 accumulation would drift, float64 keeps
	// the self-similarity at 1 and the range within [-1, 1].
	const dims = 3000
	v := make([]float32, dims)
	for i := range v {
		v[i] = 1e-3
	}
	if got := Cosine(v, v); got != 1.0 {
		t.Errorf("Cosine(v, v) = %v over %d dims, want 1.0", got, dims)
	}
}

func TestDot(t *testing.T) {
	if got := Dot([]float32{1, 2, 3}, []float32{4, 5, 6}); got != 32 {
		t.Errorf("Dot = %v, want 32", got)
	}
	if got := Dot([]float32{1}, []float32{1, 2}); got != 0 {
		t.Errorf("Dot with mismatched lengths = %v, want 0", got)
	}
}

func TestCosine_agreesWithDotAndNorms(t *testing.T) {
	a := []float32{0.3, -1.2, 2.5, 0.9}
	b := []float32{1.1, 0.4, -0.7, 2.0}
	got := Cosine(a, b)
	want := Dot(a, b) / (L2Norm(a) * L2Norm(b))
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("Cosine = %v, Dot/norms = %v", got, want)
	}
}

func TestL2Norm(t *testing.T) {
	if got := L2Norm([]float32{3, 4}); got != 5 {
		t.Errorf("L2Norm({3,4}) = %v, want 5", got)
	}
	if got := L2Norm(nil); got != 0 {
		t.Errorf("L2Norm(nil) = %v, want 0", got)
	}
}
