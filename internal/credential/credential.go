// Package credential manages the single admin secret gating administrative
// actions. The secret is stored as a bcrypt hash (salt embedded); plaintext
// never touches disk.
package credential

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// DefaultSecret is the admin secret installed on first run when no
// credential record exists yet. Rotate it immediately after deployment.
const DefaultSecret = "admin"

// ErrRejected means the presented old secret did not verify during rotation.
var ErrRejected = errors.New("credential rejected")

// ErrUnavailable means the credential file could not be read or written.
var ErrUnavailable = errors.New("credential storage unavailable")

// ErrCorrupt means the credential file could not be parsed.
var ErrCorrupt = errors.New("credential storage corrupt")

type record struct {
	Hash string `json:"hash"`
}

// Manager holds exactly one credential record, backed by a JSON file.
// Verify may run concurrently; Rotate is serialized by an internal mutex
// and persists atomically, so a rejected rotation leaves no trace.
type Manager struct {
	path string
	mu   sync.Mutex
}

// NewManager creates a manager over the given credential file path.
// The file is created lazily on first access.
func NewManager(path string) *Manager {
	return &Manager{path: path}
}

// load reads the record, installing the hashed default secret first if no
// record exists yet.
func (m *Manager) load() (record, error) {
	data, err := os.ReadFile(m.path)
	if errors.Is(err, os.ErrNotExist) {
		hash, err := bcrypt.GenerateFromPassword([]byte(DefaultSecret), bcrypt.DefaultCost)
		if err != nil {
			return record{}, fmt.Errorf("hashing default secret: %w", err)
		}
		rec := record{Hash: string(hash)}
		if err := m.persist(rec); err != nil {
			return record{}, err
		}
		return rec, nil
	}
	if err != nil {
		return record{}, fmt.Errorf("%w: reading %s: %v", ErrUnavailable, m.path, err)
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return record{}, fmt.Errorf("%w: parsing %s: %v", ErrCorrupt, m.path, err)
	}
	if rec.Hash == "" {
		return record{}, fmt.Errorf("%w: empty hash in %s", ErrCorrupt, m.path)
	}
	return rec, nil
}

// persist writes the record atomically (temp file then rename).
func (m *Manager) persist(rec record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshaling credential: %w", err)
	}

	dir := filepath.Dir(m.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("%w: creating %s: %v", ErrUnavailable, dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(m.path)+".tmp-*")
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
	if err := os.Chmod(tmpName, 0o600); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: setting mode on %s: %v", ErrUnavailable, tmpName, err)
	}
	if err := os.Rename(tmpName, m.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: replacing %s: %v", ErrUnavailable, m.path, err)
	}
	return nil
}

// Verify reports whether the candidate matches the stored secret.
// Only the boolean escapes; the stored hash is never exposed.
func (m *Manager) Verify(candidate string) (bool, error) {
	m.mu.Lock()
	rec, err := m.load()
	m.mu.Unlock()
	if err != nil {
		return false, err
	}
	return bcrypt.CompareHashAndPassword([]byte(rec.Hash), []byte(candidate)) == nil, nil
}

// Rotate replaces the stored secret with newSecret, but only if old verifies
// against the current record. A rejected rotation changes nothing.
func (m *Manager) Rotate(old, newSecret string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, err := m.load()
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(rec.Hash), []byte(old)) != nil {
		return ErrRejected
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newSecret), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing new secret: %w", err)
	}
	return m.persist(record{Hash: string(hash)})
}
