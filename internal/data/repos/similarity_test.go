package repos

import (
	"math"
	"testing"
)

func TestCosineSimilarityIdenticalVectors(t *testing.T) {
	got := cosineSimilarity([]float32{1, 0, 0}, []float32{1, 0, 0})
	if got != 1.0 {
		t.Fatalf("identical vectors: got=%v want=1.0", got)
	}
}

func TestCosineSimilarityOrthogonalVectors(t *testing.T) {
	got := cosineSimilarity([]float32{1, 0}, []float32{0, 1})
	if got != 0 {
		t.Fatalf("orthogonal vectors: got=%v want=0", got)
	}
}

func TestCosineSimilarityOppositeVectors(t *testing.T) {
	got := cosineSimilarity([]float32{1, 0}, []float32{-1, 0})
	if got != -1.0 {
		t.Fatalf("opposite vectors: got=%v want=-1.0", got)
	}
}

func TestCosineSimilarityKnownAngle(t *testing.T) {
	// 45 degrees between [1,0] and [1,1].
	got := cosineSimilarity([]float32{1, 0}, []float32{1, 1})
	want := 1.0 / math.Sqrt2
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("45 degree vectors: got=%v want=%v", got, want)
	}
}

func TestCosineSimilarityDegenerateInputs(t *testing.T) {
	if got := cosineSimilarity(nil, []float32{1}); got != 0 {
		t.Fatalf("nil vector: got=%v want=0", got)
	}
	if got := cosineSimilarity([]float32{1, 2}, []float32{1, 2, 3}); got != 0 {
		t.Fatalf("length mismatch: got=%v want=0", got)
	}
	if got := cosineSimilarity([]float32{0, 0}, []float32{1, 1}); got != 0 {
		t.Fatalf("zero vector: got=%v want=0", got)
	}
}
