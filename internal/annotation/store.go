package annotation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNotFound is returned by Load for unknown document identifiers.
var ErrNotFound = errors.New("annotation record not found")

// Store persists one JSON record per document under a single directory.
// It does not interpret field semantics; it is a typed key-value layer
// keyed by document identifier. A single writer is assumed; the atomic
// save protects against abrupt termination, not concurrent sessions.
type Store struct {
	dir string
}

// NewStore opens (creating if needed) a store rooted at dir.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create annotation directory %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the store's root directory.
func (s *Store) Dir() string { return s.dir }

func (s *Store) path(documentID string) (string, error) {
	if documentID == "" || strings.ContainsAny(documentID, `/\`) {
		return "", fmt.Errorf("invalid document id %q", documentID)
	}
	return filepath.Join(s.dir, documentID+".json"), nil
}

// Load reads a record, or ErrNotFound if it was never saved.
func (s *Store) Load(documentID string) (*Record, error) {
	path, err := s.path(documentID)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, documentID)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if rec.Fields == nil {
		rec.Fields = make(map[string]string)
	}
	return &rec, nil
}

// Save writes a record atomically: the marshaled form lands via a temp
// file and rename, so an interrupted process leaves either the previous
// version or the full new one. Saving an identical record is a no-op.
func (s *Store) Save(rec *Record) error {
	path, err := s.path(rec.DocumentID)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal record %s: %w", rec.DocumentID, err)
	}
	data = append(data, '\n')

	if existing, err := os.ReadFile(path); err == nil && bytes.Equal(existing, data) {
		return nil
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to rename %s: %w", tmp, err)
	}
	return nil
}

// Exists reports whether a record has been saved for the identifier.
func (s *Store) Exists(documentID string) bool {
	path, err := s.path(documentID)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// ListIDs returns every known document identifier in sorted order.
func (s *Store) ListIDs() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", s.dir, err)
	}

	var ids []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(ids)
	return ids, nil
}

// LoadAll reads every record in the store, ordered by document identifier.
func (s *Store) LoadAll() ([]*Record, error) {
	ids, err := s.ListIDs()
	if err != nil {
		return nil, err
	}
	records := make([]*Record, 0, len(ids))
	for _, id := range ids {
		rec, err := s.Load(id)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}
