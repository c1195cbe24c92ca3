// Package validate re-checks stored annotation records against the schema
// registry, independently of any annotation session. It is read-only and
// idempotent, so it can run as a non-interactive audit (after manual edits
// to a record, or as a CI-style gate before splitting).
package validate

import (
	"context"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"shipdocs/internal/annotation"
	"shipdocs/internal/schema"
)

// Report maps each document identifier to its ordered violations. An
// empty (or absent) slice means the record is valid.
type Report map[string][]schema.Violation

// Valid reports whether a record passed with zero violations.
func (r Report) Valid(documentID string) bool {
	return len(r[documentID]) == 0
}

// ValidIDs returns the identifiers of valid records, sorted.
func (r Report) ValidIDs() []string {
	var ids []string
	for id, violations := range r {
		if len(violations) == 0 {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// InvalidIDs returns the identifiers of records with violations, sorted.
func (r Report) InvalidIDs() []string {
	var ids []string
	for id, violations := range r {
		if len(violations) > 0 {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// Engine audits a store against a registry.
type Engine struct {
	registry *schema.Registry
	store    *annotation.Store
	logger   *zap.Logger
}

// NewEngine builds an engine. A nil logger disables logging.
func NewEngine(registry *schema.Registry, store *annotation.Store, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{registry: registry, store: store, logger: logger}
}

// loadWorkers bounds concurrent record loads in ValidateAll. The engine is
// read-only, so fanning out over the store is safe.
const loadWorkers = 8

// ValidateAll audits every record in the store.
func (e *Engine) ValidateAll(ctx context.Context) (Report, error) {
	ids, err := e.store.ListIDs()
	if err != nil {
		return nil, err
	}

	violations := make([][]schema.Violation, len(ids))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(loadWorkers)

	for i, id := range ids {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rec, err := e.store.Load(id)
			if err != nil {
				return err
			}
			violations[i] = Record(e.registry, rec)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := make(Report, len(ids))
	invalid := 0
	for i, id := range ids {
		report[id] = violations[i]
		if len(violations[i]) > 0 {
			invalid++
		}
	}

	e.logger.Info("validated annotation store",
		zap.Int("records", len(ids)),
		zap.Int("invalid", invalid))
	return report, nil
}

// ValidateOne audits a single record.
func (e *Engine) ValidateOne(documentID string) ([]schema.Violation, error) {
	rec, err := e.store.Load(documentID)
	if err != nil {
		return nil, err
	}
	return Record(e.registry, rec), nil
}

// Record validates one record against the registry: every schema field in
// spec order, then any fields the record carries that the schema does not,
// sorted by name. An unregistered document type yields a single violation.
func Record(registry *schema.Registry, rec *annotation.Record) []schema.Violation {
	specs, err := registry.SchemaFor(rec.DocumentType)
	if err != nil {
		return []schema.Violation{{
			Code:    schema.UnknownType,
			Message: err.Error(),
		}}
	}

	var out []schema.Violation
	known := make(map[string]bool, len(specs))
	for _, spec := range specs {
		known[spec.Name] = true
		value, present := rec.Value(spec.Name)
		if v := schema.ValidateValue(spec, value, present); v != nil {
			out = append(out, *v)
		}
	}

	var extras []string
	for name := range rec.Fields {
		if !known[name] {
			extras = append(extras, name)
		}
	}
	sort.Strings(extras)
	for _, name := range extras {
		out = append(out, schema.Violation{
			Field:   name,
			Code:    schema.UnknownField,
			Message: "field is not part of the " + string(rec.DocumentType) + " schema",
		})
	}
	return out
}

// Complete reports whether a record needs no further annotation work:
// the type is registered, every required field is populated and every
// populated field passes its constraint. Used by the session to decide
// what still belongs in the work queue.
func Complete(registry *schema.Registry, rec *annotation.Record) bool {
	if !registry.Known(rec.DocumentType) {
		return false
	}
	specs, _ := registry.SchemaFor(rec.DocumentType)
	for _, spec := range specs {
		value, present := rec.Value(spec.Name)
		if !present && spec.Required {
			return false
		}
		if present && schema.ValidateValue(spec, value, present) != nil {
			return false
		}
	}
	return true
}
