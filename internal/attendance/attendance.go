// Package attendance keeps the journal of recognized identities. A person
// is marked at most once per calendar day; re-recognition on the same day
// is a no-op.
package attendance

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrUnavailable means the journal file could not be read or written.
var ErrUnavailable = errors.New("attendance storage unavailable")

// ErrCorrupt means the journal file could not be parsed.
var ErrCorrupt = errors.New("attendance storage corrupt")

// Record is one attendance entry.
type Record struct {
	ID     string    `json:"id"`
	Name   string    `json:"name"`
	SeenAt time.Time `json:"seen_at"`
}

// Journal is a file-backed attendance log. Marks are serialized by an
// internal mutex and persisted atomically, same discipline as the gallery
// store.
type Journal struct {
	path string
	mu   sync.Mutex
}

// NewJournal creates a journal backed by the given file path.
func NewJournal(path string) *Journal {
	return &Journal{path: path}
}

func (j *Journal) load() ([]Record, error) {
	data, err := os.ReadFile(j.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrUnavailable, j.path, err)
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", ErrCorrupt, j.path, err)
	}
	return records, nil
}

func (j *Journal) persist(records []Record) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshaling attendance: %w", err)
	}

	dir := filepath.Dir(j.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: creating %s: %v", ErrUnavailable, dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(j.path)+".tmp-*")
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
	if err := os.Rename(tmpName, j.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: replacing %s: %v", ErrUnavailable, j.path, err)
	}
	return nil
}

// sameDay compares calendar days in the local timezone. Times carry their
// own location after a JSON round-trip, so comparing without normalizing
// would shift day boundaries.
func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Local().Date()
	by, bm, bd := b.Local().Date()
	return ay == by && am == bm && ad == bd
}

// Mark records attendance for name at the given time. Returns the record
// and whether a new entry was created; an existing entry for the same day
// is returned unchanged.
func (j *Journal) Mark(name string, at time.Time) (Record, bool, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	records, err := j.load()
	if err != nil {
		return Record{}, false, err
	}

	for _, r := range records {
		if r.Name == name && sameDay(r.SeenAt, at) {
			return r, false, nil
		}
	}

	rec := Record{
		ID:     uuid.NewString(),
		Name:   name,
		SeenAt: at,
	}
	records = append(records, rec)
	if err := j.persist(records); err != nil {
		return Record{}, false, err
	}
	return rec, true, nil
}

// OnDate returns all records for the calendar day of t, in mark order.
func (j *Journal) OnDate(t time.Time) ([]Record, error) {
	j.mu.Lock()
	records, err := j.load()
	j.mu.Unlock()
	if err != nil {
		return nil, err
	}

	var out []Record
	for _, r := range records {
		if sameDay(r.SeenAt, t) {
			out = append(out, r)
		}
	}
	return out, nil
}
