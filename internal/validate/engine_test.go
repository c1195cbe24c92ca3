package validate

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"shipdocs/internal/annotation"
	"shipdocs/internal/schema"
)

func validInvoice(id string) *annotation.Record {
	rec := annotation.NewRecord(id, schema.Invoice)
	rec.Set("invoice_number", "INV-2026-001")
	rec.Set("invoice_date", "2026-08-01")
	rec.Set("currency", "USD")
	rec.Set("total", "1250.00")
	return rec
}

func TestRecord_Valid(t *testing.T) {
	registry := schema.Default()
	if got := Record(registry, validInvoice("inv_001")); len(got) != 0 {
		t.Errorf("expected no violations, got %+v", got)
	}
}

func TestRecord_MissingRequired(t *testing.T) {
	registry := schema.Default()
	rec := validInvoice("inv_001")
	delete(rec.Fields, "total")

	got := Record(registry, rec)
	if len(got) != 1 {
		t.Fatalf("expected exactly one violation, got %+v", got)
	}
	if got[0].Code != schema.MissingRequired || got[0].Field != "total" {
		t.Errorf("unexpected violation: %+v", got[0])
	}
}

func TestRecord_UnknownField(t *testing.T) {
	registry := schema.Default()
	rec := validInvoice("inv_001")
	rec.Set("zz_custom", "x")
	rec.Set("aa_custom", "y")

	got := Record(registry, rec)
	if len(got) != 2 {
		t.Fatalf("expected two violations, got %+v", got)
	}
	// Extras are reported sorted by field name, after the schema fields.
	want := []string{"aa_custom", "zz_custom"}
	for i, v := range got {
		if v.Code != schema.UnknownField || v.Field != want[i] {
			t.Errorf("violation %d = %+v, want unknown_field on %s", i, v, want[i])
		}
	}
}

func TestRecord_UnknownType(t *testing.T) {
	registry := schema.Default()
	rec := annotation.NewRecord("doc_001", "customs_declaration")

	got := Record(registry, rec)
	if len(got) != 1 || got[0].Code != schema.UnknownType {
		t.Errorf("expected single unknown_document_type violation, got %+v", got)
	}
}

func TestRecord_ConstraintOrdering(t *testing.T) {
	registry := schema.Default()
	rec := validInvoice("inv_001")
	rec.Set("invoice_number", "!bad")
	rec.Set("total", "not-a-number")

	got := Record(registry, rec)
	if len(got) != 2 {
		t.Fatalf("expected two violations, got %+v", got)
	}
	// Schema order: invoice_number precedes total.
	if got[0].Field != "invoice_number" || got[1].Field != "total" {
		t.Errorf("violations out of schema order: %+v", got)
	}
	for _, v := range got {
		if v.Code != schema.ConstraintViolation {
			t.Errorf("expected constraint_violation, got %+v", v)
		}
	}
}

func TestEngine_ValidateAll(t *testing.T) {
	store, err := annotation.NewStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if err := store.Save(validInvoice("inv_good")); err != nil {
		t.Fatal(err)
	}
	bad := validInvoice("inv_bad")
	delete(bad.Fields, "invoice_number")
	if err := store.Save(bad); err != nil {
		t.Fatal(err)
	}

	engine := NewEngine(schema.Default(), store, nil)
	report, err := engine.ValidateAll(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if !report.Valid("inv_good") {
		t.Errorf("inv_good flagged invalid: %+v", report["inv_good"])
	}
	if report.Valid("inv_bad") {
		t.Error("inv_bad passed validation")
	}
	if diff := cmp.Diff([]string{"inv_good"}, report.ValidIDs()); diff != "" {
		t.Errorf("ValidIDs mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"inv_bad"}, report.InvalidIDs()); diff != "" {
		t.Errorf("InvalidIDs mismatch (-want +got):\n%s", diff)
	}
}

func TestEngine_ValidateOne(t *testing.T) {
	store, err := annotation.NewStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Save(validInvoice("inv_001")); err != nil {
		t.Fatal(err)
	}

	engine := NewEngine(schema.Default(), store, nil)
	violations, err := engine.ValidateOne("inv_001")
	if err != nil {
		t.Fatal(err)
	}
	if len(violations) != 0 {
		t.Errorf("expected clean record, got %+v", violations)
	}

	if _, err := engine.ValidateOne("missing"); err == nil {
		t.Error("expected error for unknown document id")
	}
}

func TestComplete(t *testing.T) {
	registry := schema.Default()

	rec := validInvoice("inv_001")
	if !Complete(registry, rec) {
		t.Error("fully annotated record reported incomplete")
	}

	// Missing required field.
	partial := validInvoice("inv_002")
	delete(partial.Fields, "total")
	if Complete(registry, partial) {
		t.Error("record without required total reported complete")
	}

	// Populated field with a constraint violation.
	broken := validInvoice("inv_003")
	broken.Set("currency", "BTC")
	if Complete(registry, broken) {
		t.Error("record with invalid currency reported complete")
	}

	// Unregistered type.
	alien := annotation.NewRecord("doc", "customs_declaration")
	if Complete(registry, alien) {
		t.Error("record with unregistered type reported complete")
	}
}
