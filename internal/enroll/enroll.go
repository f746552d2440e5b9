// Package enroll validates and appends embedding samples to the gallery.
package enroll

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/faceattend/faceattend/internal/gallery"
)

var (
	// ErrNoVectors means an enrollment carried no embedding samples.
	ErrNoVectors = errors.New("no embedding vectors provided")
	// ErrSampleLimit means the per-identity sample cap would be exceeded.
	ErrSampleLimit = errors.New("identity sample limit reached")
)

// Service appends new embedding samples to identities. All mutations go
// through one service instance: Enroll holds an internal lock around its
// read-modify-write against the store, so concurrent enrollments cannot
// lose each other's updates.
type Service struct {
	store gallery.Store

	// MaxSamples caps samples per identity when positive. Zero means
	// unlimited, which matches the original behavior; samples otherwise
	// accumulate without bound.
	MaxSamples int

	// OnChange, when set, runs after every successful save with the updated
	// gallery. Used to rebuild index-backed matchers.
	OnChange func(*gallery.Gallery)

	mu sync.Mutex
}

// NewService creates an enrollment service over the given store.
func NewService(store gallery.Store, maxSamples int) *Service {
	return &Service{store: store, MaxSamples: maxSamples}
}

// Enroll validates the name and vectors, appends the vectors to the named
// identity and persists the updated gallery. The first enrollment into an
// empty gallery establishes the embedding dimension; later enrollments must
// match it. On any failure the persisted gallery is left unchanged.
func (s *Service) Enroll(ctx context.Context, name string, vectors []gallery.Vector) (*gallery.Gallery, error) {
	if name == "" {
		return nil, gallery.ErrInvalidName
	}
	if len(vectors) == 0 {
		return nil, ErrNoVectors
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	g, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	dim := g.Dim()
	if dim == 0 {
		dim = len(vectors[0])
	}
	for _, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("%w: vector has dimension %d, gallery has %d",
				gallery.ErrDimensionMismatch, len(v), dim)
		}
	}
	if dim == 0 {
		return nil, fmt.Errorf("%w: empty vector", gallery.ErrDimensionMismatch)
	}

	if s.MaxSamples > 0 && len(g.Samples(name))+len(vectors) > s.MaxSamples {
		return nil, fmt.Errorf("%w: %q would exceed %d samples", ErrSampleLimit, name, s.MaxSamples)
	}

	g.Append(name, vectors...)
	if err := s.store.Save(ctx, g); err != nil {
		return nil, err
	}
	if s.OnChange != nil {
		s.OnChange(g)
	}
	return g, nil
}
