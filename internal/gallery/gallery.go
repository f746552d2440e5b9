package gallery

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by the gallery and the services built on top of it.
// Callers are expected to branch with errors.Is.
var (
	// ErrUnavailable means the storage medium could not be read or written.
	ErrUnavailable = errors.New("gallery storage unavailable")
	// ErrCorrupt means the persisted gallery could not be parsed.
	ErrCorrupt = errors.New("gallery storage corrupt")
	// ErrDimensionMismatch means a vector does not match the gallery dimension.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
	// ErrInvalidName means an empty or otherwise invalid identity name.
	ErrInvalidName = errors.New("invalid identity name")
)

// Vector is a fixed-length face embedding produced by an external model.
// Stored as float32 (the embedding servers emit float32); distance math
// accumulates in float64.
type Vector []float32

// Gallery maps identity names to their enrolled embedding samples.
// Insertion order of identities and of samples within an identity is
// preserved: recognition breaks distance ties in favor of the earliest
// enrolled vector, so order is part of the contract, not an accident.
type Gallery struct {
	order   []string
	samples map[string][]Vector
}

// New creates an empty gallery.
func New() *Gallery {
	return &Gallery{samples: make(map[string][]Vector)}
}

// Names returns identity names in enrollment order.
// The returned slice must not be modified.
func (g *Gallery) Names() []string {
	return g.order
}

// Samples returns the embedding samples for an identity in enrollment order,
// or nil if the identity is unknown.
func (g *Gallery) Samples(name string) []Vector {
	return g.samples[name]
}

// Has reports whether an identity is enrolled.
func (g *Gallery) Has(name string) bool {
	_, ok := g.samples[name]
	return ok
}

// Append adds samples to an identity, creating it on first use.
// Samples accumulate; nothing is ever replaced or deduplicated.
func (g *Gallery) Append(name string, vectors ...Vector) {
	if g.samples == nil {
		g.samples = make(map[string][]Vector)
	}
	if _, ok := g.samples[name]; !ok {
		g.order = append(g.order, name)
	}
	g.samples[name] = append(g.samples[name], vectors...)
}

// Dim returns the embedding dimension established by the first enrolled
// sample, or 0 for an empty gallery.
func (g *Gallery) Dim() int {
	for _, name := range g.order {
		if vecs := g.samples[name]; len(vecs) > 0 {
			return len(vecs[0])
		}
	}
	return 0
}

// Identities returns the number of enrolled identities.
func (g *Gallery) Identities() int {
	return len(g.order)
}

// Vectors returns the total number of stored samples across all identities.
func (g *Gallery) Vectors() int {
	total := 0
	for _, vecs := range g.samples {
		total += len(vecs)
	}
	return total
}

// Clone returns a deep copy. Mutating the copy leaves the original intact,
// which lets writers work on a scratch gallery and only publish on success.
func (g *Gallery) Clone() *Gallery {
	c := &Gallery{
		order:   make([]string, len(g.order)),
		samples: make(map[string][]Vector, len(g.samples)),
	}
	copy(c.order, g.order)
	for name, vecs := range g.samples {
		cv := make([]Vector, len(vecs))
		for i, v := range vecs {
			cv[i] = append(Vector(nil), v...)
		}
		c.samples[name] = cv
	}
	return c
}

// Validate checks the cross-identity dimension invariant. Stores call it
// after loading persisted state; a violation means the stored data is
// corrupt.
func (g *Gallery) Validate() error {
	dim := 0
	for _, name := range g.order {
		if name == "" {
			return fmt.Errorf("%w: empty identity name", ErrCorrupt)
		}
		for _, v := range g.samples[name] {
			if len(v) == 0 {
				return fmt.Errorf("%w: empty vector for %q", ErrCorrupt, name)
			}
			if dim == 0 {
				dim = len(v)
			} else if len(v) != dim {
				return fmt.Errorf("%w: vector of dimension %d for %q, gallery dimension is %d",
					ErrCorrupt, len(v), name, dim)
			}
		}
	}
	return nil
}
