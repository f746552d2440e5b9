package gallery

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func testStore(t *testing.T) *FileStore {
	t.Helper()
	return NewFileStore(filepath.Join(t.TempDir(), "gallery.json"))
}

func TestFileStoreCreatesEmptyOnFirstLoad(t *testing.T) {
	s := testStore(t)

	g, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if g.Identities() != 0 {
		t.Errorf("expected empty gallery, got %d identities", g.Identities())
	}

	// The empty store must now exist on disk.
	if _, err := os.Stat(s.path); err != nil {
		t.Errorf("expected store file to be created: %v", err)
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	g := New()
	g.Append("Charlie", Vector{1, 0, 0}, Vector{0, 1, 0})
	g.Append("Alice", Vector{0, 0, 1})
	if err := s.Save(ctx, g); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if loaded.Identities() != 2 || loaded.Vectors() != 3 {
		t.Fatalf("round-trip lost data: %d identities, %d vectors", loaded.Identities(), loaded.Vectors())
	}
	if names := loaded.Names(); names[0] != "Charlie" || names[1] != "Alice" {
		t.Errorf("round-trip lost enrollment order: %v", names)
	}
	if v := loaded.Samples("Charlie")[1]; v[1] != 1 {
		t.Errorf("round-trip lost sample order: %v", v)
	}
}

func TestFileStoreSaveOfLoadIsByteStable(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	g := New()
	g.Append("Alice", Vector{1.5, -2.25, 0})
	if err := s.Save(ctx, g); err != nil {
		t.Fatalf("Save: %v", err)
	}
	before, err := os.ReadFile(s.path)
	if err != nil {
		t.Fatalf("reading store: %v", err)
	}

	loaded, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := s.Save(ctx, loaded); err != nil {
		t.Fatalf("Save after Load: %v", err)
	}
	after, err := os.ReadFile(s.path)
	if err != nil {
		t.Fatalf("reading store: %v", err)
	}

	if !bytes.Equal(before, after) {
		t.Error("Save(Load()) changed the persisted bytes")
	}
}

func TestFileStoreCorruptFile(t *testing.T) {
	s := testStore(t)
	if err := os.WriteFile(s.path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := s.Load(context.Background())
	if !errors.Is(err, ErrCorrupt) {
		t.Errorf("expected ErrCorrupt, got %v", err)
	}
}

func TestFileStoreMixedDimensionsIsCorrupt(t *testing.T) {
	s := testStore(t)
	doc := `{"version":1,"identities":[{"name":"Alice","vectors":[[1,2,3]]},{"name":"Bob","vectors":[[1,2]]}]}`
	if err := os.WriteFile(s.path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := s.Load(context.Background())
	if !errors.Is(err, ErrCorrupt) {
		t.Errorf("expected ErrCorrupt for mixed dimensions, got %v", err)
	}
}

func TestFileStoreUnsupportedVersion(t *testing.T) {
	s := testStore(t)
	if err := os.WriteFile(s.path, []byte(`{"version":99,"identities":[]}`), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := s.Load(context.Background())
	if !errors.Is(err, ErrCorrupt) {
		t.Errorf("expected ErrCorrupt for unknown version, got %v", err)
	}
}

func TestFileStoreFailedSaveKeepsOldState(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}

	s := testStore(t)
	ctx := context.Background()

	g := New()
	g.Append("Alice", Vector{1, 0, 0})
	if err := s.Save(ctx, g); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// Make the temp-file creation fail; the saved file must survive.
	dir := filepath.Dir(s.path)
	if err := os.Chmod(dir, 0o500); err != nil {
		t.Fatal(err)
	}
	defer os.Chmod(dir, 0o755)

	g.Append("Bob", Vector{0, 1, 0})
	err := s.Save(ctx, g)
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}

	if err := os.Chmod(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	loaded, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load after failed Save: %v", err)
	}
	if loaded.Identities() != 1 || !loaded.Has("Alice") {
		t.Errorf("failed Save damaged the stored gallery: %v", loaded.Names())
	}
	if loaded.Has("Bob") {
		t.Error("failed Save leaked the new identity to disk")
	}
}

func TestFileStoreLeavesNoTempFiles(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	g := New()
	g.Append("Alice", Vector{1, 2})
	if err := s.Save(ctx, g); err != nil {
		t.Fatalf("Save: %v", err)
	}

	entries, err := os.ReadDir(filepath.Dir(s.path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("expected only the store file, found %v", names)
	}
}
