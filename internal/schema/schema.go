// Package schema defines the per-document-type field schemas used to
// validate ground-truth annotations. Schemas are plain data: a registry is
// built once from static definitions (or a YAML file) and is read-only
// afterwards, so adding a document type never requires new control flow.
package schema

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"time"
)

// DocumentType tags a category of shipping document.
type DocumentType string

const (
	Invoice           DocumentType = "invoice"
	PurchaseOrder     DocumentType = "purchase_order"
	ShippingOrder     DocumentType = "shipping_order"
	BillOfLading      DocumentType = "bill_of_lading"
	PackingList       DocumentType = "packing_list"
	CommercialInvoice DocumentType = "commercial_invoice"
)

// ValueKind describes what a field's raw value is expected to hold.
type ValueKind string

const (
	KindString     ValueKind = "string"
	KindNumber     ValueKind = "number"
	KindDate       ValueKind = "date"
	KindEnum       ValueKind = "enum"
	KindIdentifier ValueKind = "identifier"
)

// DateLayout is the accepted form for date-kind values.
const DateLayout = "2006-01-02"

// ConstraintKind selects which constraint a field carries.
type ConstraintKind string

const (
	ConstraintNone    ConstraintKind = "none"
	ConstraintEnum    ConstraintKind = "enum"
	ConstraintPattern ConstraintKind = "pattern"
	ConstraintRange   ConstraintKind = "range"
)

// Constraint restricts the values a field accepts. Exactly one of the
// payloads is meaningful, chosen by Kind.
type Constraint struct {
	Kind    ConstraintKind `yaml:"kind"`
	Enum    []string       `yaml:"enum,omitempty"`
	Pattern string         `yaml:"pattern,omitempty"`
	Min     float64        `yaml:"min,omitempty"`
	Max     float64        `yaml:"max,omitempty"`

	re *regexp.Regexp // compiled at registry construction
}

// Describe renders the constraint for violation messages.
func (c Constraint) Describe() string {
	switch c.Kind {
	case ConstraintEnum:
		return fmt.Sprintf("one of %v", c.Enum)
	case ConstraintPattern:
		return fmt.Sprintf("pattern %s", c.Pattern)
	case ConstraintRange:
		return fmt.Sprintf("range [%v, %v]", c.Min, c.Max)
	default:
		return "none"
	}
}

// FieldSpec describes one field of a document type's schema.
type FieldSpec struct {
	Name       string     `yaml:"name"`
	Kind       ValueKind  `yaml:"kind"`
	Required   bool       `yaml:"required"`
	Constraint Constraint `yaml:"constraint,omitempty"`
}

// ViolationCode names the class of a validation failure.
type ViolationCode string

const (
	MissingRequired     ViolationCode = "missing_required"
	ConstraintViolation ViolationCode = "constraint_violation"
	UnknownField        ViolationCode = "unknown_field"
	UnknownType         ViolationCode = "unknown_document_type"
)

// Violation is one named failure of a value against its field spec.
// Violations are expected and recoverable; they are values, not errors.
type Violation struct {
	Field      string        `json:"field"`
	Code       ViolationCode `json:"code"`
	Constraint string        `json:"constraint,omitempty"`
	Message    string        `json:"message"`
}

func (v Violation) String() string {
	if v.Field == "" {
		return fmt.Sprintf("%s: %s", v.Code, v.Message)
	}
	return fmt.Sprintf("%s: %s (%s)", v.Field, v.Message, v.Code)
}

// ErrUnknownDocumentType is returned by schema lookups for types that were
// never registered. Fatal to the specific operation, not the process.
type ErrUnknownDocumentType struct {
	Type DocumentType
}

func (e *ErrUnknownDocumentType) Error() string {
	return fmt.Sprintf("unknown document type: %q", e.Type)
}

// Registry holds the schema for every registered document type.
// Construct once, pass explicitly; never mutated afterwards.
type Registry struct {
	schemas map[DocumentType][]FieldSpec
	types   []DocumentType
}

// NewRegistry builds a registry from definitions, enforcing the schema
// invariants: field names unique within a schema, at least one required
// field per schema, and all pattern constraints compilable.
func NewRegistry(defs map[DocumentType][]FieldSpec) (*Registry, error) {
	r := &Registry{schemas: make(map[DocumentType][]FieldSpec, len(defs))}

	for dt, fields := range defs {
		if len(fields) == 0 {
			return nil, fmt.Errorf("schema %q: no fields defined", dt)
		}

		seen := make(map[string]bool, len(fields))
		hasRequired := false
		compiled := make([]FieldSpec, len(fields))

		for i, f := range fields {
			if f.Name == "" {
				return nil, fmt.Errorf("schema %q: field %d has no name", dt, i)
			}
			if seen[f.Name] {
				return nil, fmt.Errorf("schema %q: duplicate field %q", dt, f.Name)
			}
			seen[f.Name] = true
			if f.Required {
				hasRequired = true
			}

			if f.Constraint.Kind == "" {
				f.Constraint.Kind = ConstraintNone
			}
			if f.Constraint.Kind == ConstraintPattern {
				re, err := regexp.Compile(f.Constraint.Pattern)
				if err != nil {
					return nil, fmt.Errorf("schema %q: field %q: invalid pattern: %w", dt, f.Name, err)
				}
				f.Constraint.re = re
			}
			compiled[i] = f
		}

		if !hasRequired {
			return nil, fmt.Errorf("schema %q: at least one field must be required", dt)
		}

		r.schemas[dt] = compiled
		r.types = append(r.types, dt)
	}

	sort.Slice(r.types, func(i, j int) bool { return r.types[i] < r.types[j] })
	return r, nil
}

// Types returns all registered document types in sorted order.
func (r *Registry) Types() []DocumentType {
	out := make([]DocumentType, len(r.types))
	copy(out, r.types)
	return out
}

// Known reports whether a document type is registered.
func (r *Registry) Known(dt DocumentType) bool {
	_, ok := r.schemas[dt]
	return ok
}

// SchemaFor returns the ordered field specs for a document type.
func (r *Registry) SchemaFor(dt DocumentType) ([]FieldSpec, error) {
	fields, ok := r.schemas[dt]
	if !ok {
		return nil, &ErrUnknownDocumentType{Type: dt}
	}
	out := make([]FieldSpec, len(fields))
	copy(out, fields)
	return out, nil
}

// Field looks up a single field spec by name.
func (r *Registry) Field(dt DocumentType, name string) (FieldSpec, bool) {
	for _, f := range r.schemas[dt] {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// IdentifierFields returns the names of identifier-kind fields for a type.
// These are the default "unique-ish" fields for duplicate detection.
func (r *Registry) IdentifierFields(dt DocumentType) []string {
	var out []string
	for _, f := range r.schemas[dt] {
		if f.Kind == KindIdentifier {
			out = append(out, f.Name)
		}
	}
	return out
}

// ValidateValue applies a field's kind and constraint checks to a raw
// value. present=false (or an empty value) means the annotator supplied
// nothing. Returns nil when the value is acceptable.
func ValidateValue(spec FieldSpec, value string, present bool) *Violation {
	if !present || value == "" {
		if spec.Required {
			return &Violation{
				Field:   spec.Name,
				Code:    MissingRequired,
				Message: "required field has no value",
			}
		}
		return nil
	}

	switch spec.Kind {
	case KindNumber:
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return &Violation{
				Field:      spec.Name,
				Code:       ConstraintViolation,
				Constraint: "numeric value",
				Message:    fmt.Sprintf("%q is not a number", value),
			}
		}
	case KindDate:
		if _, err := time.Parse(DateLayout, value); err != nil {
			return &Violation{
				Field:      spec.Name,
				Code:       ConstraintViolation,
				Constraint: "date " + DateLayout,
				Message:    fmt.Sprintf("%q is not a valid date (want YYYY-MM-DD)", value),
			}
		}
	}

	switch spec.Constraint.Kind {
	case ConstraintEnum:
		for _, allowed := range spec.Constraint.Enum {
			if value == allowed {
				return nil
			}
		}
		return &Violation{
			Field:      spec.Name,
			Code:       ConstraintViolation,
			Constraint: spec.Constraint.Describe(),
			Message:    fmt.Sprintf("%q is not %s", value, spec.Constraint.Describe()),
		}
	case ConstraintPattern:
		re := spec.Constraint.re
		if re == nil {
			// Spec came from outside NewRegistry (tests, ad-hoc callers).
			var err error
			re, err = regexp.Compile(spec.Constraint.Pattern)
			if err != nil {
				return &Violation{
					Field:      spec.Name,
					Code:       ConstraintViolation,
					Constraint: spec.Constraint.Describe(),
					Message:    "invalid pattern constraint: " + err.Error(),
				}
			}
		}
		if !re.MatchString(value) {
			return &Violation{
				Field:      spec.Name,
				Code:       ConstraintViolation,
				Constraint: spec.Constraint.Describe(),
				Message:    fmt.Sprintf("%q does not match %s", value, spec.Constraint.Describe()),
			}
		}
	case ConstraintRange:
		n, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return &Violation{
				Field:      spec.Name,
				Code:       ConstraintViolation,
				Constraint: spec.Constraint.Describe(),
				Message:    fmt.Sprintf("%q is not a number", value),
			}
		}
		if n < spec.Constraint.Min || n > spec.Constraint.Max {
			return &Violation{
				Field:      spec.Name,
				Code:       ConstraintViolation,
				Constraint: spec.Constraint.Describe(),
				Message:    fmt.Sprintf("%v is outside %s", n, spec.Constraint.Describe()),
			}
		}
	}

	return nil
}
