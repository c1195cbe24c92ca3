package inventory

import (
	"os"
	"path/filepath"
	"testing"

	"shipdocs/internal/schema"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("%PDF-1.4"), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestDirProvider_Documents(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "invoices", "invoice_003.pdf"))
	touch(t, filepath.Join(root, "invoices", "invoice_001.pdf"))
	touch(t, filepath.Join(root, "shipping", "bol_010.pdf"))
	touch(t, filepath.Join(root, "misc", "scan_042.pdf"))
	touch(t, filepath.Join(root, "notes.txt"))                    // wrong extension
	touch(t, filepath.Join(root, ".cache", "invoice_ignore.pdf")) // hidden dir

	docs, err := NewDirProvider(root).Documents()
	if err != nil {
		t.Fatal(err)
	}

	wantIDs := []string{"bol_010", "invoice_001", "invoice_003", "scan_042"}
	if len(docs) != len(wantIDs) {
		t.Fatalf("got %d documents, want %d: %+v", len(docs), len(wantIDs), docs)
	}
	for i, want := range wantIDs {
		if docs[i].ID != want {
			t.Errorf("docs[%d].ID = %q, want %q (sorted order)", i, docs[i].ID, want)
		}
	}

	byID := make(map[string]Document)
	for _, d := range docs {
		byID[d.ID] = d
	}
	if byID["invoice_001"].Type != schema.Invoice {
		t.Errorf("invoice_001 type = %q", byID["invoice_001"].Type)
	}
	if byID["bol_010"].Type != schema.BillOfLading {
		t.Errorf("bol_010 type = %q", byID["bol_010"].Type)
	}
	if byID["scan_042"].Type != "" {
		t.Errorf("scan_042 should have no inferred type, got %q", byID["scan_042"].Type)
	}
}

func TestInferType(t *testing.T) {
	cases := map[string]schema.DocumentType{
		"data/invoices/invoice_001.pdf":           schema.Invoice,
		"data/commercial/commercial_inv_2.pdf":    schema.CommercialInvoice,
		"data/purchase_orders/po_12.pdf":          schema.PurchaseOrder,
		"po-7781.pdf":                             schema.PurchaseOrder,
		"data/bills/bill_of_lading_3.pdf":         schema.BillOfLading,
		"bol_99.pdf":                              schema.BillOfLading,
		"data/packing/packing_list_4.pdf":         schema.PackingList,
		"data/shipping_orders/shipping_order.pdf": schema.ShippingOrder,
		"data/misc/receipt_1.pdf":                 "",
	}
	for path, want := range cases {
		if got := InferType(path); got != want {
			t.Errorf("InferType(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestStatic_SortsByID(t *testing.T) {
	inv := Static{
		{ID: "b", Type: schema.Invoice},
		{ID: "a", Type: schema.PackingList},
	}
	docs, err := inv.Documents()
	if err != nil {
		t.Fatal(err)
	}
	if docs[0].ID != "a" || docs[1].ID != "b" {
		t.Errorf("Static not sorted: %+v", docs)
	}
}
