package repos

import "math"

// cosineSimilarity returns the cosine of the angle between a and b,
// equivalently 1 minus the cosine distance. Mismatched lengths and zero
// vectors score 0, which keeps them below any useful threshold.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := 0; i < len(a); i++ {
		x := float64(a[i])
		y := float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
