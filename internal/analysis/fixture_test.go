package analysis

import "testing"

func fixtureDrugs() []Drug {
	return []Drug{
		{ID: "drug1", Name: "Warfarin", BrandName: "Coumadin", Classes: []string{ClassAnticoagulant}},
		{ID: "drug2", Name: "Aspirin", GenericName: "Acetylsalicylic acid", Classes: []string{ClassAntiplatelet}},
		{ID: "drug3", Name: "Ibuprofen", BrandName: "Advil", Classes: []string{ClassNSAID}},
		{ID: "drug4", Name: "Lisinopril", Classes: []string{ClassRenallyCleared}},
		{ID: "drug5", Name: "Simvastatin", BrandName: "Zocor"},
		{ID: "drug6", Name: "Metformin", Classes: []string{ClassRenallyCleared}},
		{ID: "drug10", Name: "Metoprolol", Classes: []string{ClassBetaBlocker}},
		{ID: "drug11", Name: "Amiodarone", Classes: []string{ClassAntiarrhythmic}},
	}
}

func record(risk RiskLevel, status CompatibilityStatus, mechanism string) InteractionResult {
	return InteractionResult{
		RiskLevel:           risk,
		CompatibilityStatus: status,
		TimeToOnset:         OnsetShortTerm,
		ConfidenceScore:     4,
		Mechanism:           mechanism,
		Effects:             []string{mechanism + " effect"},
		Evidence: Evidence{LiteratureCitations: []Citation{{
			Title: mechanism, Authors: "Doe J", Journal: "J Test", Year: 2020,
		}}},
	}
}

func fixtureSource() KnowledgeSource {
	return KnowledgeSource{
		Version:     "test-1",
		LastUpdated: "2024-01-01",
		Interactions: []PairRecord{
			{DrugA: "drug1", DrugB: "drug2", Result: record(RiskHigh, Incompatible, "additive bleeding")},
			{DrugA: "drug11", DrugB: "drug1", Result: record(RiskHigh, Incompatible, "CYP2C9 inhibition")},
			{DrugA: "drug11", DrugB: "drug5", Result: record(RiskHigh, Incompatible, "CYP3A4 inhibition")},
			{DrugA: "drug1", DrugB: "drug5", Result: record(RiskLow, Compatible, "minor INR rise")},
			{DrugA: "drug3", DrugB: "drug4", Result: record(RiskModerate, Compatible, "reduced antihypertensive effect")},
			{DrugA: "drug4", DrugB: "drug6", Result: record(RiskLow, Compatible, "hypoglycemia")},
		},
		FoodInteractions: map[string][]string{
			"drug1": {"Grapefruit", "Leafy greens"},
			"drug5": {"Grapefruit"},
		},
		AlcoholInteractions: []string{"drug2", "drug3", "drug4", "drug10"},
	}
}

func newFixtureAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	catalog, err := NewCatalog(fixtureDrugs())
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	kb, err := NewKnowledgeBase(catalog, fixtureSource())
	if err != nil {
		t.Fatalf("knowledge base: %v", err)
	}
	a, err := NewAnalyzer(catalog, kb)
	if err != nil {
		t.Fatalf("analyzer: %v", err)
	}
	return a
}

func entries(pairs ...string) []DrugEntry {
	out := make([]DrugEntry, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, DrugEntry{DrugID: pairs[i], DrugName: pairs[i+1], Dosage: "5 mg", Route: "Oral", Frequency: "once daily"})
	}
	return out
}

func intPtr(v int) *int { return &v }
func floatPtr(v float64) *float64 { return &v }
