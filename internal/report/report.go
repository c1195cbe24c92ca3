// Package report aggregates completeness, duplication and distribution
// statistics over an annotation set, optionally broken down by a split
// assignment. Read-only and deterministic.
package report

import (
	"sort"

	"shipdocs/internal/annotation"
	"shipdocs/internal/schema"
	"shipdocs/internal/split"
	"shipdocs/internal/validate"
)

// DuplicateWarning flags two or more records of one type sharing a value
// on a field expected to be unique-ish. A signal, never fatal: duplicates
// may be legitimate re-annotations.
type DuplicateWarning struct {
	DocumentType schema.DocumentType `json:"document_type"`
	Field        string              `json:"field"`
	Value        string              `json:"value"`
	DocumentIDs  []string            `json:"document_ids"`
}

// TypeStats summarizes all records of one document type.
type TypeStats struct {
	Count           int                `json:"count"`
	FieldCompletion map[string]float64 `json:"field_completion"`
	Duplicates      []DuplicateWarning `json:"duplicates,omitempty"`
}

// PartitionStats summarizes one partition of a split.
type PartitionStats struct {
	Count   int                         `json:"count"`
	PerType map[schema.DocumentType]int `json:"per_type"`
}

// Summary is the full aggregate over a record set.
type Summary struct {
	Total        int                                `json:"total"`
	Valid        int                                `json:"valid"`
	Invalid      int                                `json:"invalid"`
	PerType      map[schema.DocumentType]TypeStats  `json:"per_type"`
	PerPartition map[split.Partition]PartitionStats `json:"per_partition,omitempty"`
}

// Types returns the document types present, sorted.
func (s Summary) Types() []schema.DocumentType {
	types := make([]schema.DocumentType, 0, len(s.PerType))
	for dt := range s.PerType {
		types = append(types, dt)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// Reporter computes quality summaries. uniqueFields overrides, per type,
// which fields participate in duplicate detection; types without an entry
// fall back to the schema's identifier-kind fields.
type Reporter struct {
	registry     *schema.Registry
	uniqueFields map[schema.DocumentType][]string
}

// NewReporter builds a reporter over a registry.
func NewReporter(registry *schema.Registry, uniqueFields map[schema.DocumentType][]string) *Reporter {
	return &Reporter{registry: registry, uniqueFields: uniqueFields}
}

func (r *Reporter) uniqueFieldsFor(dt schema.DocumentType) []string {
	if fields, ok := r.uniqueFields[dt]; ok {
		return fields
	}
	return r.registry.IdentifierFields(dt)
}

// Summarize aggregates over the given records. assignment may be nil; when
// supplied the summary also carries per-partition breakdowns. Records
// absent from the assignment are simply not counted in any partition.
func (r *Reporter) Summarize(records []*annotation.Record, assignment split.Assignment) Summary {
	summary := Summary{
		Total:   len(records),
		PerType: make(map[schema.DocumentType]TypeStats),
	}

	byType := make(map[schema.DocumentType][]*annotation.Record)
	for _, rec := range records {
		if len(validate.Record(r.registry, rec)) == 0 {
			summary.Valid++
		} else {
			summary.Invalid++
		}
		byType[rec.DocumentType] = append(byType[rec.DocumentType], rec)
	}

	for dt, recs := range byType {
		summary.PerType[dt] = r.typeStats(dt, recs)
	}

	if assignment != nil {
		summary.PerPartition = make(map[split.Partition]PartitionStats, len(split.Partitions))
		for _, p := range split.Partitions {
			summary.PerPartition[p] = PartitionStats{PerType: make(map[schema.DocumentType]int)}
		}
		for _, rec := range records {
			p, ok := assignment[rec.DocumentID]
			if !ok {
				continue
			}
			stats := summary.PerPartition[p]
			stats.Count++
			stats.PerType[rec.DocumentType]++
			summary.PerPartition[p] = stats
		}
	}

	return summary
}

func (r *Reporter) typeStats(dt schema.DocumentType, recs []*annotation.Record) TypeStats {
	stats := TypeStats{
		Count:           len(recs),
		FieldCompletion: make(map[string]float64),
	}

	specs, err := r.registry.SchemaFor(dt)
	if err != nil {
		// Unregistered type: count only, nothing to measure fields against.
		return stats
	}

	for _, spec := range specs {
		populated := 0
		for _, rec := range recs {
			if _, ok := rec.Value(spec.Name); ok {
				populated++
			}
		}
		stats.FieldCompletion[spec.Name] = float64(populated) / float64(len(recs))
	}

	for _, field := range r.uniqueFieldsFor(dt) {
		byValue := make(map[string][]string)
		for _, rec := range recs {
			if v, ok := rec.Value(field); ok {
				byValue[v] = append(byValue[v], rec.DocumentID)
			}
		}
		values := make([]string, 0, len(byValue))
		for v, ids := range byValue {
			if len(ids) >= 2 {
				values = append(values, v)
			}
		}
		sort.Strings(values)
		for _, v := range values {
			ids := byValue[v]
			sort.Strings(ids)
			stats.Duplicates = append(stats.Duplicates, DuplicateWarning{
				DocumentType: dt,
				Field:        field,
				Value:        v,
				DocumentIDs:  ids,
			})
		}
	}

	return stats
}
