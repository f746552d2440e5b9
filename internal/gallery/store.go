package gallery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Store persists a gallery wholesale. There is no partial-update primitive;
// callers read, modify and write the whole mapping. Save must be atomic with
// respect to partial writes so a crash mid-write cannot destroy prior state.
type Store interface {
	// Load reads the persisted gallery. A missing backing store is created
	// empty and persisted before returning.
	Load(ctx context.Context) (*Gallery, error)
	// Save overwrites the persisted gallery with the given one.
	Save(ctx context.Context, g *Gallery) error
}

const storeVersion = 1

// storeDocument is the on-disk JSON layout. Identities are a list, not a
// map, so that enrollment order survives a round-trip.
type storeDocument struct {
	Version    int              `json:"version"`
	Identities []identityRecord `json:"identities"`
}

type identityRecord struct {
	Name    string   `json:"name"`
	Vectors []Vector `json:"vectors"`
}

// FileStore persists the gallery as a single JSON document. Writes go to a
// temp file in the same directory followed by a rename. Save is serialized
// by an internal mutex; Load is safe to call concurrently.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a file-backed store at the given path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the gallery from disk. If the file does not exist yet an empty
// gallery is created and persisted first, so a subsequent Load sees it.
func (s *FileStore) Load(ctx context.Context) (*Gallery, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		empty := New()
		if err := s.Save(ctx, empty); err != nil {
			return nil, err
		}
		return empty, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrUnavailable, s.path, err)
	}

	var doc storeDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", ErrCorrupt, s.path, err)
	}
	if doc.Version != storeVersion {
		return nil, fmt.Errorf("%w: unsupported store version %d in %s", ErrCorrupt, doc.Version, s.path)
	}

	g := New()
	for _, rec := range doc.Identities {
		g.Append(rec.Name, rec.Vectors...)
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// Save writes the full gallery atomically (temp file then rename).
func (s *FileStore) Save(_ context.Context, g *Gallery) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := storeDocument{Version: storeVersion, Identities: make([]identityRecord, 0, g.Identities())}
	for _, name := range g.Names() {
		doc.Identities = append(doc.Identities, identityRecord{
			Name:    name,
			Vectors: g.Samples(name),
		})
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshaling gallery: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: creating %s: %v", ErrUnavailable, dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: creating temp file in %s: %v", ErrUnavailable, dir, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: writing %s: %v", ErrUnavailable, tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: closing %s: %v", ErrUnavailable, tmpName, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: replacing %s: %v", ErrUnavailable, s.path, err)
	}
	return nil
}
