package analysis

import (
	"reflect"
	"strings"
	"testing"
)

func TestKnowledgeBaseLookupIsSymmetric(t *testing.T) {
	a := newFixtureAnalyzer(t)
	kb := a.KnowledgeBase()
	ids := []string{"drug1", "drug2", "drug3", "drug4", "drug5", "drug6", "drug10", "drug11"}
	for _, x := range ids {
		for _, y := range ids {
			ab, okAB := kb.Lookup(x, y)
			ba, okBA := kb.Lookup(y, x)
			if okAB != okBA {
				t.Fatalf("lookup(%s,%s)=%v but lookup(%s,%s)=%v", x, y, okAB, y, x, okBA)
			}
			if !reflect.DeepEqual(ab, ba) {
				t.Fatalf("lookup(%s,%s) and lookup(%s,%s) resolved to different records", x, y, y, x)
			}
		}
	}
	if got := kb.PairCount(); got != len(fixtureSource().Interactions) {
		t.Fatalf("expected each pair stored once, got %d", got)
	}
}

func TestKnowledgeBaseStoredPairUsesCatalogNames(t *testing.T) {
	kb := newFixtureAnalyzer(t).KnowledgeBase()
	res, ok := kb.Lookup("drug1", "drug11")
	if !ok {
		t.Fatal("expected warfarin/amiodarone record")
	}
	if res.DrugPair != [2]string{"Amiodarone", "Warfarin"} {
		t.Fatalf("expected stored order with catalog names, got %v", res.DrugPair)
	}
}

func TestKnowledgeBaseSideTables(t *testing.T) {
	kb := newFixtureAnalyzer(t).KnowledgeBase()
	if foods := kb.FoodsFor("DRUG1"); len(foods) != 2 || foods[0] != "Grapefruit" {
		t.Fatalf("unexpected foods %v", foods)
	}
	if foods := kb.FoodsFor("drug2"); len(foods) != 0 {
		t.Fatalf("expected no foods for aspirin, got %v", foods)
	}
	if !kb.AlcoholSensitive("drug10") || kb.AlcoholSensitive("drug1") {
		t.Fatal("unexpected alcohol table contents")
	}
	if kb.Version() != "test-1" || kb.LastUpdated() != "2024-01-01" {
		t.Fatalf("unexpected provenance %s/%s", kb.Version(), kb.LastUpdated())
	}
}

func TestNewKnowledgeBaseValidation(t *testing.T) {
	catalog, _ := NewCatalog(fixtureDrugs())
	valid := record(RiskLow, Compatible, "m")

	cases := []struct {
		name string
		src  KnowledgeSource
		want string
	}{
		{"unknown drug", KnowledgeSource{Interactions: []PairRecord{{DrugA: "drug1", DrugB: "nope", Result: valid}}}, "unknown drug id"},
		{"self pair", KnowledgeSource{Interactions: []PairRecord{{DrugA: "drug1", DrugB: "DRUG1", Result: valid}}}, "itself"},
		{"reverse duplicate", KnowledgeSource{Interactions: []PairRecord{
			{DrugA: "drug1", DrugB: "drug2", Result: valid},
			{DrugA: "drug2", DrugB: "drug1", Result: valid},
		}}, "duplicate pair"},
		{"bad risk", KnowledgeSource{Interactions: []PairRecord{{DrugA: "drug1", DrugB: "drug2", Result: record("severe", Compatible, "m")}}}, "risk level"},
		{"bad confidence", KnowledgeSource{Interactions: []PairRecord{{DrugA: "drug1", DrugB: "drug2", Result: func() InteractionResult {
			r := valid
			r.ConfidenceScore = 6
			return r
		}()}}}, "confidence"},
		{"bad food drug", KnowledgeSource{FoodInteractions: map[string][]string{"nope": {"Kale"}}}, "food interactions"},
		{"bad alcohol drug", KnowledgeSource{AlcoholInteractions: []string{"nope"}}, "alcohol interactions"},
	}
	for _, tc := range cases {
		_, err := NewKnowledgeBase(catalog, tc.src)
		if err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("%s: expected error containing %q, got %v", tc.name, tc.want, err)
		}
	}

	if _, err := NewKnowledgeBase(nil, KnowledgeSource{}); err == nil {
		t.Fatal("expected error for nil catalog")
	}
}
