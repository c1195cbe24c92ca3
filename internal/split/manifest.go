package split

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Manifest is the persisted form of a split: enough to reproduce the
// assignment (seed, ratios) plus the explicit per-partition identifier
// lists downstream training code consumes.
type Manifest struct {
	CreatedAt time.Time              `json:"created_at"`
	Seed      int64                  `json:"seed"`
	Ratios    Ratios                 `json:"ratios"`
	Counts    map[Partition]int      `json:"counts"`
	Documents map[Partition][]string `json:"document_ids"`
}

// NewManifest snapshots an assignment.
func NewManifest(a Assignment, ratios Ratios, seed int64) Manifest {
	docs := make(map[Partition][]string, len(Partitions))
	for _, p := range Partitions {
		docs[p] = a.IDs(p)
	}
	return Manifest{
		CreatedAt: time.Now().UTC(),
		Seed:      seed,
		Ratios:    ratios,
		Counts:    a.Counts(),
		Documents: docs,
	}
}

// Assignment rebuilds the id-to-partition mapping.
func (m Manifest) Assignment() Assignment {
	a := make(Assignment)
	for p, ids := range m.Documents {
		for _, id := range ids {
			a[id] = p
		}
	}
	return a
}

// WriteManifest persists the manifest as pretty-printed JSON, atomically.
func WriteManifest(path string, m Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal split manifest: %w", err)
	}
	data = append(data, '\n')

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

// ReadManifest loads a previously written manifest.
func ReadManifest(path string) (Manifest, error) {
	var m Manifest
	data, err := os.ReadFile(path)
	if err != nil {
		return m, fmt.Errorf("failed to read split manifest %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("failed to parse split manifest %s: %w", path, err)
	}
	return m, nil
}
