// Package annotation holds the ground-truth record type and its on-disk
// store. One pretty-printed JSON file per source document, keyed by the
// stable document identifier, so records stay manually correctable.
package annotation

import (
	"time"

	"shipdocs/internal/schema"
)

// Metadata carries bookkeeping about how a record was produced.
type Metadata struct {
	AnnotatedAt time.Time `json:"annotated_at"`
	Annotator   string    `json:"annotator,omitempty"`
	SessionID   string    `json:"session_id,omitempty"`
	SourcePath  string    `json:"source_path,omitempty"`
}

// Record is the structured ground truth for one source document: a flat
// field-name to raw-value map plus an optional free-text note. Records are
// created empty when a document enters a session, filled field by field,
// and never mutated once a split has been cut (splits only assign labels).
type Record struct {
	DocumentID   string              `json:"document_id"`
	DocumentType schema.DocumentType `json:"document_type"`
	Fields       map[string]string   `json:"fields"`
	Note         string              `json:"note,omitempty"`
	Metadata     Metadata            `json:"metadata"`
}

// NewRecord creates an empty record for a document.
func NewRecord(documentID string, dt schema.DocumentType) *Record {
	return &Record{
		DocumentID:   documentID,
		DocumentType: dt,
		Fields:       make(map[string]string),
	}
}

// Set assigns a field value.
func (r *Record) Set(field, value string) {
	if r.Fields == nil {
		r.Fields = make(map[string]string)
	}
	r.Fields[field] = value
}

// Value returns a field value and whether it is populated. An empty string
// counts as absent; annotators skip optional fields by leaving them blank.
func (r *Record) Value(field string) (string, bool) {
	v, ok := r.Fields[field]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// Clone returns a deep copy for transient in-session editing.
func (r *Record) Clone() *Record {
	out := *r
	out.Fields = make(map[string]string, len(r.Fields))
	for k, v := range r.Fields {
		out.Fields[k] = v
	}
	return &out
}
