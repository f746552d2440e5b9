package matcher

import (
	"errors"
	"testing"

	"github.com/faceattend/faceattend/internal/gallery"
)

func hnswTestGallery() *gallery.Gallery {
	g := gallery.New()
	g.Append("Alice", gallery.Vector{1, 0, 0})
	g.Append("Bob", gallery.Vector{0, 1, 0})
	g.Append("Carol", gallery.Vector{0, 0, 1})
	return g
}

func TestHNSWRecognizeExactMatch(t *testing.T) {
	g := hnswTestGallery()
	m := NewHNSW(DefaultThreshold, g)

	if m.Count() != 3 {
		t.Fatalf("index holds %d vectors, want 3", m.Count())
	}

	match, err := m.Recognize(gallery.Vector{0, 1, 0}, g)
	if err != nil {
		t.Fatalf("Recognize: %v", err)
	}
	if match.Name != "Bob" || match.Distance != 0 {
		t.Errorf("got (%q, %v), want (Bob, 0)", match.Name, match.Distance)
	}
}

func TestHNSWRecognizeUnknown(t *testing.T) {
	g := hnswTestGallery()
	m := NewHNSW(DefaultThreshold, g)

	match, err := m.Recognize(gallery.Vector{10, 10, 10}, g)
	if err != nil {
		t.Fatalf("Recognize: %v", err)
	}
	if match.Name != Unknown {
		t.Errorf("got %q, want %q", match.Name, Unknown)
	}
}

func TestHNSWDimensionMismatch(t *testing.T) {
	g := hnswTestGallery()
	m := NewHNSW(DefaultThreshold, g)

	_, err := m.Recognize(gallery.Vector{1, 0}, g)
	if !errors.Is(err, gallery.ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestHNSWRebuildPicksUpNewIdentity(t *testing.T) {
	g := hnswTestGallery()
	m := NewHNSW(DefaultThreshold, g)

	g.Append("Dave", gallery.Vector{1, 1, 0})
	m.Rebuild(g)

	if m.Count() != 4 {
		t.Fatalf("index holds %d vectors after rebuild, want 4", m.Count())
	}

	match, err := m.Recognize(gallery.Vector{1, 1, 0}, g)
	if err != nil {
		t.Fatalf("Recognize: %v", err)
	}
	if match.Name != "Dave" {
		t.Errorf("got %q, want Dave", match.Name)
	}
}

func TestHNSWEmptyGallery(t *testing.T) {
	m := NewHNSW(DefaultThreshold, gallery.New())

	match, err := m.Recognize(gallery.Vector{1, 0, 0}, nil)
	if err != nil {
		t.Fatalf("Recognize: %v", err)
	}
	if match.Name != Unknown {
		t.Errorf("got %q, want %q", match.Name, Unknown)
	}
}
