// Package matcher identifies an unknown face embedding by nearest-neighbor
// search over an enrolled gallery.
package matcher

import (
	"fmt"
	"math"

	"github.com/faceattend/faceattend/internal/gallery"
)

// Unknown is the sentinel identity returned when no stored vector is within
// the acceptance threshold.
const Unknown = "Unknown"

// DefaultThreshold is the default maximum Euclidean distance for a match to
// be accepted rather than reported as Unknown.
const DefaultThreshold = 1.0

// Match is the result of a recognition query. Distance is always the best
// distance found, even when Name is Unknown, so callers can log how close
// the nearest rejected candidate was.
type Match struct {
	Name     string  `json:"name"`
	Distance float64 `json:"distance"`
}

// Known reports whether the match was accepted.
func (m Match) Known() bool {
	return m.Name != Unknown
}

// Matcher finds the closest enrolled identity for a query embedding.
// Implementations must be pure over their inputs; the Linear matcher is the
// reference behavior, index-backed implementations may approximate it for
// larger galleries.
type Matcher interface {
	Recognize(query gallery.Vector, g *gallery.Gallery) (Match, error)
}

// Linear is a full-scan matcher: every stored vector of every identity is
// compared against the query. O(total vectors × dimension) per query, which
// is fine at attendance-gallery sizes.
type Linear struct {
	// Threshold is the maximum accepted distance. Comparison is strict:
	// a best distance exactly equal to Threshold is rejected.
	Threshold float64
}

// NewLinear creates a linear matcher with the given threshold.
// A zero or negative threshold falls back to DefaultThreshold.
func NewLinear(threshold float64) *Linear {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Linear{Threshold: threshold}
}

// Recognize scans the gallery in enrollment order and returns the identity
// owning the closest vector, or Unknown when the best distance is not
// strictly below the threshold. The running minimum only updates on strict
// improvement, so the earliest enrolled vector wins all exact ties.
func (l *Linear) Recognize(query gallery.Vector, g *gallery.Gallery) (Match, error) {
	if dim := g.Dim(); dim != 0 && len(query) != dim {
		return Match{}, fmt.Errorf("%w: query has dimension %d, gallery has %d",
			gallery.ErrDimensionMismatch, len(query), dim)
	}

	best := Match{Name: Unknown, Distance: math.Inf(1)}
	for _, name := range g.Names() {
		for _, v := range g.Samples(name) {
			if d := EuclideanDistance(query, v); d < best.Distance {
				best.Distance = d
				best.Name = name
			}
		}
	}

	if best.Distance >= l.Threshold {
		best.Name = Unknown
	}
	return best, nil
}
