package matcher

import (
	"math"

	"github.com/faceattend/faceattend/internal/gallery"
)

// EuclideanDistance computes the Euclidean (L2) distance between two vectors.
// Accumulates in float64 to avoid float32 rounding drift on long embeddings.
// Returns +Inf for mismatched or empty inputs; callers validate dimensions
// before comparing, so +Inf only shows up on misuse.
func EuclideanDistance(a, b gallery.Vector) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return math.Inf(1)
	}

	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}
