// Package session drives an interactive, resumable annotation pass over
// the document inventory. Prompting is modeled as a blocking call on an
// injected ValueSource, so the loop is testable with a scripted source and
// a human terminal is just one implementation.
package session

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"shipdocs/internal/annotation"
	"shipdocs/internal/inventory"
	"shipdocs/internal/schema"
	"shipdocs/internal/validate"
)

// PromptKind distinguishes what the session is asking for.
type PromptKind string

const (
	// PromptField solicits a value for one schema field.
	PromptField PromptKind = "field"
	// PromptNote solicits the optional free-text record note.
	PromptNote PromptKind = "note"
	// PromptType asks the annotator to categorize a document whose type
	// could not be inferred upstream.
	PromptType PromptKind = "document_type"
)

// Prompt is one request for annotator input.
type Prompt struct {
	Kind       PromptKind
	DocumentID string
	SourcePath string
	Position   int // 1-based index in this run's work queue
	Total      int

	Field     schema.FieldSpec      // set for PromptField
	Types     []schema.DocumentType // set for PromptType
	Violation *schema.Violation     // set when re-prompting after a rejection
}

// Answer is the annotator's response. Skip is permitted only for optional
// fields; Pause ends the run, leaving the store resumable.
type Answer struct {
	Value string
	Skip  bool
	Pause bool
}

// ValueSource supplies answers. Blocking; the session suspends here and
// nowhere else.
type ValueSource interface {
	Ask(p Prompt) (Answer, error)
}

// Summary reports what a run accomplished.
type Summary struct {
	Annotated       int // documents completed this run
	AlreadyComplete int // skipped because the stored record was already valid
	Remaining       int // left unfinished by a pause
}

// Options tune a session.
type Options struct {
	// Force re-opens documents whose records are already complete.
	Force bool
	// Annotator is recorded in each record's metadata.
	Annotator string
	Logger    *zap.Logger
}

// Session orchestrates one annotation pass.
type Session struct {
	registry  *schema.Registry
	store     *annotation.Store
	inventory inventory.Provider
	source    ValueSource
	opts      Options
	logger    *zap.Logger
}

// New assembles a session. The registry, store, inventory and source are
// all injected; the session owns no ambient state.
func New(registry *schema.Registry, store *annotation.Store, inv inventory.Provider, source ValueSource, opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		registry:  registry,
		store:     store,
		inventory: inv,
		source:    source,
		opts:      opts,
		logger:    logger,
	}
}

// errPaused propagates a pause out of the per-document loop.
var errPaused = errors.New("session paused")

// Run processes the work queue: every inventory document whose stored
// record is missing or incomplete, in sorted identifier order. Progress is
// persisted after every accepted field, so killing the process loses at
// most the one unconfirmed answer. A pause returns a nil error.
func (s *Session) Run(ctx context.Context) (Summary, error) {
	var summary Summary

	docs, err := s.inventory.Documents()
	if err != nil {
		return summary, fmt.Errorf("failed to list document inventory: %w", err)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })

	var queue []inventory.Document
	for _, doc := range docs {
		if !s.opts.Force {
			if rec, err := s.store.Load(doc.ID); err == nil && validate.Complete(s.registry, rec) {
				summary.AlreadyComplete++
				continue
			} else if err != nil && !errors.Is(err, annotation.ErrNotFound) {
				return summary, err
			}
		}
		queue = append(queue, doc)
	}

	sessionID := uuid.NewString()
	s.logger.Info("annotation session started",
		zap.String("session_id", sessionID),
		zap.Int("queued", len(queue)),
		zap.Int("already_complete", summary.AlreadyComplete),
		zap.Bool("force", s.opts.Force))

	for i, doc := range queue {
		if err := ctx.Err(); err != nil {
			summary.Remaining = len(queue) - i
			return summary, err
		}

		err := s.annotate(doc, sessionID, i+1, len(queue))
		if errors.Is(err, errPaused) {
			summary.Remaining = len(queue) - i
			s.logger.Info("annotation session paused",
				zap.String("session_id", sessionID),
				zap.Int("remaining", summary.Remaining))
			return summary, nil
		}
		if err != nil {
			summary.Remaining = len(queue) - i
			return summary, err
		}
		summary.Annotated++
	}

	s.logger.Info("annotation session complete",
		zap.String("session_id", sessionID),
		zap.Int("annotated", summary.Annotated))
	return summary, nil
}

// annotate fills one document's record field by field.
func (s *Session) annotate(doc inventory.Document, sessionID string, position, total int) error {
	rec, err := s.store.Load(doc.ID)
	if errors.Is(err, annotation.ErrNotFound) {
		rec = annotation.NewRecord(doc.ID, doc.Type)
	} else if err != nil {
		return err
	}

	if rec.Metadata.SessionID == "" {
		rec.Metadata.SessionID = sessionID
	}
	if rec.Metadata.Annotator == "" {
		rec.Metadata.Annotator = s.opts.Annotator
	}
	if rec.Metadata.SourcePath == "" {
		rec.Metadata.SourcePath = doc.SourcePath
	}

	if !s.registry.Known(rec.DocumentType) {
		dt, err := s.resolveType(doc, position, total)
		if err != nil {
			return err
		}
		rec.DocumentType = dt
	}

	specs, err := s.registry.SchemaFor(rec.DocumentType)
	if err != nil {
		return err
	}

	for _, spec := range specs {
		if value, ok := rec.Value(spec.Name); ok {
			if schema.ValidateValue(spec, value, true) == nil {
				continue // resumed record: never re-prompt a valid value
			}
		}
		if err := s.fillField(rec, doc, spec, position, total); err != nil {
			return err
		}
	}

	if rec.Note == "" {
		if err := s.fillNote(rec, doc, position, total); err != nil {
			return err
		}
	}

	return nil
}

// fillField loops ask-validate-save until the field holds a valid value,
// the annotator skips an optional field, or the session pauses.
func (s *Session) fillField(rec *annotation.Record, doc inventory.Document, spec schema.FieldSpec, position, total int) error {
	var violation *schema.Violation

	for {
		answer, err := s.source.Ask(Prompt{
			Kind:       PromptField,
			DocumentID: doc.ID,
			SourcePath: doc.SourcePath,
			Position:   position,
			Total:      total,
			Field:      spec,
			Violation:  violation,
		})
		if err != nil {
			return fmt.Errorf("value source failed for %s.%s: %w", doc.ID, spec.Name, err)
		}
		if answer.Pause {
			return errPaused
		}

		if answer.Skip || answer.Value == "" {
			if spec.Required {
				violation = &schema.Violation{
					Field:   spec.Name,
					Code:    schema.MissingRequired,
					Message: "required field has no value",
				}
				continue
			}
			// Skipping an optional field clears any stale invalid value.
			if _, had := rec.Fields[spec.Name]; had {
				delete(rec.Fields, spec.Name)
				return s.save(rec)
			}
			return nil
		}

		if violation = schema.ValidateValue(spec, answer.Value, true); violation != nil {
			s.logger.Debug("rejected field value",
				zap.String("document_id", doc.ID),
				zap.String("field", spec.Name),
				zap.String("violation", violation.String()))
			continue
		}

		rec.Set(spec.Name, answer.Value)
		rec.Metadata.AnnotatedAt = time.Now().UTC()
		return s.save(rec)
	}
}

func (s *Session) fillNote(rec *annotation.Record, doc inventory.Document, position, total int) error {
	answer, err := s.source.Ask(Prompt{
		Kind:       PromptNote,
		DocumentID: doc.ID,
		SourcePath: doc.SourcePath,
		Position:   position,
		Total:      total,
	})
	if err != nil {
		return fmt.Errorf("value source failed for %s note: %w", doc.ID, err)
	}
	if answer.Pause {
		return errPaused
	}
	if answer.Skip || answer.Value == "" {
		return nil
	}
	rec.Note = answer.Value
	return s.save(rec)
}

// resolveType asks the annotator to categorize a document the inventory
// could not. Loops until the answer names a registered type.
func (s *Session) resolveType(doc inventory.Document, position, total int) (schema.DocumentType, error) {
	types := s.registry.Types()
	var violation *schema.Violation

	for {
		answer, err := s.source.Ask(Prompt{
			Kind:       PromptType,
			DocumentID: doc.ID,
			SourcePath: doc.SourcePath,
			Position:   position,
			Total:      total,
			Types:      types,
			Violation:  violation,
		})
		if err != nil {
			return "", fmt.Errorf("value source failed for %s type: %w", doc.ID, err)
		}
		if answer.Pause {
			return "", errPaused
		}

		dt := schema.DocumentType(answer.Value)
		if s.registry.Known(dt) {
			return dt, nil
		}
		violation = &schema.Violation{
			Field:   "document_type",
			Code:    schema.UnknownType,
			Message: fmt.Sprintf("%q is not a registered document type", answer.Value),
		}
	}
}

// save persists the in-progress record. A storage failure is fatal to the
// session; it is surfaced immediately rather than silently dropped.
func (s *Session) save(rec *annotation.Record) error {
	if err := s.store.Save(rec); err != nil {
		s.logger.Error("failed to persist annotation record",
			zap.String("document_id", rec.DocumentID),
			zap.Error(err))
		return err
	}
	return nil
}
