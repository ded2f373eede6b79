// Package vocab provides an immutable in-memory word-vector table with
// exact cosine-similarity ranking and vector-arithmetic analogy queries.
package vocab

import "math"

// Cosine returns the cosine similarity of a and b: dot(a,b) / (||a||*||b||),
// in [-1, 1]. The accumulation is done in float64 regardless of the float32
// storage, which keeps rankings stable for dimensionalities up to a few
// thousand. Returns 0 when the lengths differ or either norm is zero.
//
// The denominator is computed as sqrt(normA*normB) rather than
// sqrt(normA)*sqrt(normB) so that a vector scores exactly 1 against itself.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return Dot(a, b) / math.Sqrt(normA*normB)
}

// Dot returns the inner product of a and b accumulated in float64.
// For unit vectors this equals cosine similarity.
func Dot(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return dot
}

// L2Norm returns the Euclidean norm of x.
func L2Norm(x []float32) float64 {
	var sum float64
	for _, v := range x {
		sum += float64(v) * float64(v)
	}
	return math.Sqrt(sum)
}
