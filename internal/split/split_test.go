package split

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"shipdocs/internal/schema"
)

func idGroup(prefix string, n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("%s_%03d", prefix, i)
	}
	return ids
}

func TestRatios_Validate(t *testing.T) {
	cases := []struct {
		name   string
		ratios Ratios
		ok     bool
	}{
		{"defaults", DefaultRatios(), true},
		{"exact sum", Ratios{0.8, 0.1, 0.1}, true},
		{"within tolerance", Ratios{0.7, 0.15, 0.1505}, true},
		{"sum above one", Ratios{0.7, 0.2, 0.2}, false},
		{"sum below one", Ratios{0.5, 0.2, 0.2}, false},
		{"negative ratio", Ratios{1.2, -0.1, -0.1}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.ratios.Validate()
			if tc.ok && err != nil {
				t.Errorf("expected valid, got %v", err)
			}
			if !tc.ok {
				if !errors.Is(err, ErrInvalidRatios) {
					t.Errorf("expected ErrInvalidRatios, got %v", err)
				}
			}
		})
	}
}

func TestSplit_Deterministic(t *testing.T) {
	groups := map[schema.DocumentType][]string{
		schema.Invoice:       idGroup("inv", 20),
		schema.BillOfLading:  idGroup("bol", 7),
		schema.PurchaseOrder: idGroup("po", 3),
	}

	first, err := Split(groups, DefaultRatios(), 42)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Split(groups, DefaultRatios(), 42)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("same seed produced different assignments (-first +second):\n%s", diff)
	}

	other, err := Split(groups, DefaultRatios(), 43)
	if err != nil {
		t.Fatal(err)
	}
	if cmp.Equal(first, other) {
		t.Error("different seeds produced identical assignments")
	}
}

func TestSplit_GroupIndependence(t *testing.T) {
	invoices := idGroup("inv", 12)

	alone, err := Split(map[schema.DocumentType][]string{
		schema.Invoice: invoices,
	}, DefaultRatios(), 42)
	if err != nil {
		t.Fatal(err)
	}
	mixed, err := Split(map[schema.DocumentType][]string{
		schema.Invoice:     invoices,
		schema.PackingList: idGroup("pl", 30),
	}, DefaultRatios(), 42)
	if err != nil {
		t.Fatal(err)
	}

	for _, id := range invoices {
		if alone[id] != mixed[id] {
			t.Errorf("invoice %s moved from %s to %s when another type was added",
				id, alone[id], mixed[id])
		}
	}
}

func TestSplit_ProportionsAt100(t *testing.T) {
	a, err := Split(map[schema.DocumentType][]string{
		schema.Invoice: idGroup("inv", 100),
	}, DefaultRatios(), 7)
	if err != nil {
		t.Fatal(err)
	}

	counts := a.Counts()
	if counts[Train] != 70 || counts[Validation] != 15 || counts[Test] != 15 {
		t.Errorf("counts = %v, want train=70 validation=15 test=15", counts)
	}
}

func TestSplit_SmallTypesCoverAllPartitions(t *testing.T) {
	for n := 3; n <= 10; n++ {
		a, err := Split(map[schema.DocumentType][]string{
			schema.PackingList: idGroup("pl", n),
		}, DefaultRatios(), 42)
		if err != nil {
			t.Fatal(err)
		}
		counts := a.Counts()
		for _, p := range Partitions {
			if counts[p] == 0 {
				t.Errorf("n=%d: partition %s is empty: %v", n, p, counts)
			}
		}
	}
}

func TestSplit_TinyTypesKeepRoundedCut(t *testing.T) {
	a, err := Split(map[schema.DocumentType][]string{
		schema.Invoice: {"inv_001"},
	}, DefaultRatios(), 42)
	if err != nil {
		t.Fatal(err)
	}
	if len(a) != 1 || a["inv_001"] != Train {
		t.Errorf("single record should land in train, got %v", a)
	}
}

func TestSplit_EveryIDAssignedOnce(t *testing.T) {
	groups := map[schema.DocumentType][]string{
		schema.Invoice:       idGroup("inv", 17),
		schema.ShippingOrder: idGroup("so", 5),
	}
	a, err := Split(groups, DefaultRatios(), 1)
	if err != nil {
		t.Fatal(err)
	}

	total := 0
	for _, ids := range groups {
		total += len(ids)
		for _, id := range ids {
			if _, ok := a[id]; !ok {
				t.Errorf("id %s missing from assignment", id)
			}
		}
	}
	if len(a) != total {
		t.Errorf("assignment has %d entries, want %d", len(a), total)
	}
}

func TestSplit_RejectsInvalidRatios(t *testing.T) {
	_, err := Split(map[schema.DocumentType][]string{
		schema.Invoice: idGroup("inv", 10),
	}, Ratios{0.7, 0.2, 0.2}, 42)
	if !errors.Is(err, ErrInvalidRatios) {
		t.Errorf("expected ErrInvalidRatios, got %v", err)
	}
}

func TestManifest_RoundTrip(t *testing.T) {
	a, err := Split(map[schema.DocumentType][]string{
		schema.Invoice:      idGroup("inv", 10),
		schema.BillOfLading: idGroup("bol", 4),
	}, DefaultRatios(), 42)
	if err != nil {
		t.Fatal(err)
	}

	m := NewManifest(a, DefaultRatios(), 42)
	path := filepath.Join(t.TempDir(), "split_manifest.json")
	if err := WriteManifest(path, m); err != nil {
		t.Fatalf("WriteManifest: %v", err)
	}

	loaded, err := ReadManifest(path)
	if err != nil {
		t.Fatalf("ReadManifest: %v", err)
	}
	if loaded.Seed != 42 {
		t.Errorf("seed = %d, want 42", loaded.Seed)
	}
	if diff := cmp.Diff(a, loaded.Assignment()); diff != "" {
		t.Errorf("manifest does not rebuild the assignment (-want +got):\n%s", diff)
	}
	for _, p := range Partitions {
		if loaded.Counts[p] != len(loaded.Documents[p]) {
			t.Errorf("partition %s: count %d disagrees with %d listed ids",
				p, loaded.Counts[p], len(loaded.Documents[p]))
		}
	}
}

func TestReadManifest_Missing(t *testing.T) {
	if _, err := ReadManifest(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected error for missing manifest")
	}
}
