package analysis

import (
	"fmt"
	"sort"
	"strings"
)

// placeholderYear stamps the citation attached to synthetic records.
const placeholderYear = 2024

type resolvedDrug struct {
	drug    Drug
	display string
}

// resolveEntries drops entries with no drug id and maps the rest onto the
// catalog. It fails if an id is unknown or fewer than two drugs remain.
func resolveEntries(catalog *Catalog, entries []DrugEntry) ([]resolvedDrug, error) {
	out := make([]resolvedDrug, 0, len(entries))
	for i, e := range entries {
		if strings.TrimSpace(e.DrugID) == "" {
			continue
		}
		d, ok := catalog.Get(e.DrugID)
		if !ok {
			return nil, &UnresolvedDrugError{Index: i, DrugID: e.DrugID}
		}
		display := strings.TrimSpace(e.DrugName)
		if display == "" {
			display = d.Name
		}
		out = append(out, resolvedDrug{drug: d, display: display})
	}
	if len(out) < 2 {
		return nil, &InsufficientInputError{Resolved: len(out)}
	}
	return out, nil
}

// resolvePairs emits one record per unordered pair (i<j) in enumeration
// order. Undocumented pairs get a synthetic none/compatible record.
func resolvePairs(kb *KnowledgeBase, drugs []resolvedDrug) []InteractionResult {
	results := make([]InteractionResult, 0, len(drugs)*(len(drugs)-1)/2)
	for i := 0; i < len(drugs); i++ {
		for j := i + 1; j < len(drugs); j++ {
			a, b := drugs[i], drugs[j]
			res, ok := kb.Lookup(a.drug.ID, b.drug.ID)
			if !ok {
				res = noInteraction(a.display, b.display)
			}
			res.DrugPair = [2]string{a.display, b.display}
			results = append(results, res)
		}
	}
	return results
}

func noInteraction(a, b string) InteractionResult {
	return InteractionResult{
		DrugPair:            [2]string{a, b},
		CompatibilityStatus: Compatible,
		RiskLevel:           RiskNone,
		TimeToOnset:         OnsetImmediate,
		ConfidenceScore:     3,
		Mechanism:           fmt.Sprintf("No documented interaction between %s and %s in the reference database.", a, b),
		Effects:             []string{"No clinically significant interaction effects documented."},
		Evidence: Evidence{
			LiteratureCitations: []Citation{{
				Title:   "No documented interaction",
				Authors: "N/A",
				Journal: "Drug Interaction Reference Database",
				Year:    placeholderYear,
			}},
		},
	}
}

// SortByRisk returns a copy of results ordered from most to least severe.
// Records of equal severity keep their relative order.
func SortByRisk(results []InteractionResult) []InteractionResult {
	out := append([]InteractionResult(nil), results...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RiskLevel.Rank() > out[j].RiskLevel.Rank()
	})
	return out
}
