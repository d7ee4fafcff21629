package analysis

import "testing"

func TestCatalogGetIsCaseInsensitive(t *testing.T) {
	c, err := NewCatalog(fixtureDrugs())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	d, ok := c.Get("  DRUG1 ")
	if !ok || d.Name != "Warfarin" {
		t.Fatalf("expected Warfarin, got %+v (found=%v)", d, ok)
	}
	if _, ok := c.Get("drug404"); ok {
		t.Fatal("expected miss for unknown id")
	}
}

func TestCatalogAllKeepsOrderAndCopies(t *testing.T) {
	c, _ := NewCatalog(fixtureDrugs())
	all := c.All()
	if len(all) != c.Len() || all[0].ID != "drug1" || all[len(all)-1].ID != "drug11" {
		t.Fatalf("unexpected catalog order: %+v", all)
	}
	all[0].Classes[0] = "tampered"
	again, _ := c.Get("drug1")
	if again.Classes[0] != ClassAnticoagulant {
		t.Fatalf("catalog mutated through All(): %+v", again)
	}
}

func TestCatalogSuggest(t *testing.T) {
	c, _ := NewCatalog(fixtureDrugs())

	cases := []struct {
		query string
		want  []string
	}{
		{"war", []string{"Warfarin"}},
		{"IN", []string{"Warfarin", "Aspirin", "Lisinopril", "Simvastatin", "Metformin"}},
		{"coumadin", []string{"Warfarin"}},
		{"salicylic", []string{"Aspirin"}},
		{"zzz", nil},
	}
	for _, tc := range cases {
		got := c.Suggest(tc.query)
		if len(got) != len(tc.want) {
			t.Fatalf("query %q: expected %v, got %+v", tc.query, tc.want, got)
		}
		for i := range got {
			if got[i].Name != tc.want[i] {
				t.Fatalf("query %q: expected %v, got %+v", tc.query, tc.want, got)
			}
		}
	}

	if got := c.Suggest(""); len(got) != c.Len() {
		t.Fatalf("empty query should match every drug, got %d", len(got))
	}
	if got := c.Suggest("q"); got == nil {
		t.Fatal("no-match result should be an empty slice, not nil")
	}
}

func TestNewCatalogRejectsBadInput(t *testing.T) {
	if _, err := NewCatalog([]Drug{{ID: "", Name: "X"}}); err == nil {
		t.Fatal("expected error for empty id")
	}
	if _, err := NewCatalog([]Drug{{ID: "a", Name: " "}}); err == nil {
		t.Fatal("expected error for empty name")
	}
	if _, err := NewCatalog([]Drug{{ID: "a", Name: "A"}, {ID: "A", Name: "B"}}); err == nil {
		t.Fatal("expected error for ids differing only by case")
	}
}
