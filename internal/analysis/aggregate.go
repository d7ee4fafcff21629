package analysis

// pairRisk is the most severe risk among the per-pair records.
func pairRisk(results []InteractionResult) RiskLevel {
	highest := RiskNone
	for _, r := range results {
		highest = MaxRisk(highest, r.RiskLevel)
	}
	return highest
}

// aggregate folds per-pair records, the patient escalation vote and the
// advisories into one overall risk and compatibility verdict. Only per-pair
// records decide compatibility.
func aggregate(results []InteractionResult, escalate bool, advisories []Advisory) (RiskLevel, CompatibilityStatus) {
	overall := pairRisk(results)
	if escalate {
		overall = overall.Escalate()
	}
	for _, a := range advisories {
		overall = MaxRisk(overall, a.RiskLevel)
	}

	status := Compatible
	for _, r := range results {
		if r.CompatibilityStatus == Incompatible {
			status = Incompatible
			break
		}
	}
	return overall, status
}
