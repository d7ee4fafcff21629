package analysis

import (
	"fmt"
	"strings"
)

// foodAdvisories reports, per drug, the food items that match the drug's
// food interaction list. Matching ignores case and surrounding space.
func foodAdvisories(kb *KnowledgeBase, drugs []resolvedDrug, foodItems []string) []Advisory {
	if len(foodItems) == 0 {
		return nil
	}
	items := make(map[string]bool, len(foodItems))
	for _, f := range foodItems {
		items[strings.ToLower(strings.TrimSpace(f))] = true
	}

	var out []Advisory
	seen := map[string]bool{}
	for _, d := range drugs {
		if seen[d.drug.ID] {
			continue
		}
		seen[d.drug.ID] = true

		var matching []string
		for _, food := range kb.FoodsFor(d.drug.ID) {
			if items[strings.ToLower(food)] {
				matching = append(matching, food)
			}
		}
		if len(matching) == 0 {
			continue
		}
		out = append(out, Advisory{
			Source:         SourceFood,
			RuleID:         "food:" + d.drug.ID,
			RiskLevel:      RiskModerate,
			Description:    fmt.Sprintf("%s may interact with: %s", d.display, strings.Join(matching, ", ")),
			Recommendation: "Consider taking this medication at least 2 hours before or after consuming these foods.",
			Drugs:          []string{d.display},
		})
	}
	return out
}

func alcoholAdvisory(kb *KnowledgeBase, drugs []resolvedDrug, alcohol *AlcoholExposure) []Advisory {
	if alcohol == nil || !alcohol.HasInteraction {
		return nil
	}
	var names []string
	seen := map[string]bool{}
	for _, d := range drugs {
		if kb.AlcoholSensitive(d.drug.ID) && !seen[d.drug.ID] {
			seen[d.drug.ID] = true
			names = append(names, d.display)
		}
	}
	if len(names) == 0 {
		return nil
	}
	desc := fmt.Sprintf("Alcohol may interact with: %s", strings.Join(names, ", "))
	if details := strings.TrimSpace(alcohol.Details); details != "" {
		desc += fmt.Sprintf(" (reported intake: %s)", details)
	}
	return []Advisory{{
		Source:         SourceAlcohol,
		RuleID:         "alcohol",
		RiskLevel:      RiskHigh,
		Description:    desc,
		Recommendation: "Avoid alcohol consumption when taking these medications.",
		Drugs:          names,
	}}
}
