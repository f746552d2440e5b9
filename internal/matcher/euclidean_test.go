package matcher

import (
	"math"
	"testing"

	"github.com/faceattend/faceattend/internal/gallery"
)

func TestEuclideanDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b gallery.Vector
		want float64
	}{
		{"identical", gallery.Vector{1, 2, 3}, gallery.Vector{1, 2, 3}, 0},
		{"unit apart", gallery.Vector{1, 0, 0}, gallery.Vector{0, 0, 0}, 1},
		{"pythagorean", gallery.Vector{3, 4}, gallery.Vector{0, 0}, 5},
		{"negative components", gallery.Vector{-1, 0}, gallery.Vector{1, 0}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EuclideanDistance(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("distance = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEuclideanDistanceInvalidInput(t *testing.T) {
	if d := EuclideanDistance(gallery.Vector{1, 2}, gallery.Vector{1, 2, 3}); !math.IsInf(d, 1) {
		t.Errorf("mismatched lengths: distance = %v, want +Inf", d)
	}
	if d := EuclideanDistance(nil, nil); !math.IsInf(d, 1) {
		t.Errorf("empty vectors: distance = %v, want +Inf", d)
	}
}
