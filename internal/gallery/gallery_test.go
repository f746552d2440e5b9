package gallery

import (
	"testing"
)

func TestGalleryAppendAccumulates(t *testing.T) {
	g := New()
	g.Append("Alice", Vector{1, 0, 0})
	g.Append("Alice", Vector{0, 1, 0})

	samples := g.Samples("Alice")
	if len(samples) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(samples))
	}
	if samples[0][0] != 1 || samples[1][1] != 1 {
		t.Error("samples out of enrollment order")
	}
}

func TestGalleryNamesPreserveOrder(t *testing.T) {
	g := New()
	g.Append("Charlie", Vector{1, 2})
	g.Append("Alice", Vector{3, 4})
	g.Append("Bob", Vector{5, 6})
	g.Append("Alice", Vector{7, 8}) // re-enrollment must not reorder

	want := []string{"Charlie", "Alice", "Bob"}
	got := g.Names()
	if len(got) != len(want) {
		t.Fatalf("expected %d names, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("name[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestGalleryDim(t *testing.T) {
	g := New()
	if g.Dim() != 0 {
		t.Errorf("empty gallery dimension = %d, want 0", g.Dim())
	}

	g.Append("Alice", Vector{1, 2, 3})
	if g.Dim() != 3 {
		t.Errorf("dimension = %d, want 3", g.Dim())
	}
}

func TestGalleryCounts(t *testing.T) {
	g := New()
	g.Append("Alice", Vector{1, 2}, Vector{3, 4})
	g.Append("Bob", Vector{5, 6})

	if g.Identities() != 2 {
		t.Errorf("identities = %d, want 2", g.Identities())
	}
	if g.Vectors() != 3 {
		t.Errorf("vectors = %d, want 3", g.Vectors())
	}
}

func TestGalleryCloneIsDeep(t *testing.T) {
	g := New()
	g.Append("Alice", Vector{1, 2})

	c := g.Clone()
	c.Append("Bob", Vector{3, 4})
	c.Samples("Alice")[0][0] = 99

	if g.Has("Bob") {
		t.Error("appending to the clone leaked into the original")
	}
	if g.Samples("Alice")[0][0] != 1 {
		t.Error("mutating a cloned vector leaked into the original")
	}
}

func TestGalleryValidate(t *testing.T) {
	g := New()
	g.Append("Alice", Vector{1, 2, 3})
	g.Append("Bob", Vector{4, 5})

	if err := g.Validate(); err == nil {
		t.Error("expected validation error for mixed dimensions")
	}
}
