package analysis

import (
	"fmt"
	"strings"
)

const (
	elderlyAge         = 65
	renalEGFRThreshold = 60
	altUpperLimit      = 40
	systolicThreshold  = 140
)

// patientSnapshot is the single view every patient rule reads from.
type patientSnapshot struct {
	patient    *PatientData
	drugs      []resolvedDrug
	conditions []string
	base       RiskLevel
}

type ruleOutcome struct {
	escalate   bool
	advisories []Advisory
}

type patientRule struct {
	ID    string
	Apply func(s patientSnapshot) ruleOutcome
}

// conditionRule flags a medical-history condition when a drug of the given
// class is also being taken.
type conditionRule struct {
	ID             string
	Condition      string
	RequiresClass  string
	Severity       RiskLevel
	Note           string
	Recommendation string
}

var (
	elderlySensitiveClasses = []string{ClassAnticoagulant, ClassAntiarrhythmic, ClassBetaBlocker}

	conditionRules = []conditionRule{
		{ID: "diabetes+antiplatelet", Condition: "diabetes", RequiresClass: ClassAntiplatelet, Severity: RiskLow,
			Note:           "antiplatelet therapy in diabetes carries additional bleeding risk",
			Recommendation: "Confirm the indication for antiplatelet therapy and monitor for bleeding."},
		{ID: "afib+anticoagulant", Condition: "atrial fibrillation", RequiresClass: ClassAnticoagulant, Severity: RiskLow,
			Note:           "anticoagulation for atrial fibrillation requires INR stability",
			Recommendation: "Monitor INR closely when other interacting drugs are added or removed."},
		{ID: "hypertension+nsaid", Condition: "hypertension", RequiresClass: ClassNSAID, Severity: RiskLow,
			Note:           "NSAIDs can raise blood pressure and blunt antihypertensive therapy",
			Recommendation: "Prefer short courses and recheck blood pressure."},
	}

	patientRules = []patientRule{
		{ID: "age>65", Apply: ageRule},
		{ID: "egfr<60", Apply: renalRule},
		{ID: "alt>40", Apply: hepaticRule},
		{ID: "systolic>140", Apply: bloodPressureRule},
		{ID: "conditions", Apply: conditionsRule},
	}
)

// applyPatientRules evaluates every rule against the same snapshot. It
// reports whether any rule asked for escalation and the advisories raised.
func applyPatientRules(p *PatientData, drugs []resolvedDrug, base RiskLevel) (bool, []Advisory) {
	if p == nil {
		return false, nil
	}
	snap := patientSnapshot{
		patient:    p,
		drugs:      drugs,
		conditions: normalizeConditions(p),
		base:       base,
	}

	escalate := false
	advisories := []Advisory{}
	for _, rule := range patientRules {
		out := rule.Apply(snap)
		escalate = escalate || out.escalate
		advisories = append(advisories, out.advisories...)
	}
	return escalate, advisories
}

func ageRule(s patientSnapshot) ruleOutcome {
	if s.patient.Age == nil || *s.patient.Age <= elderlyAge {
		return ruleOutcome{}
	}
	out := ruleOutcome{escalate: s.base.Rank() > RiskNone.Rank()}
	if names := drugsWithClass(s.drugs, elderlySensitiveClasses...); len(names) > 0 {
		out.advisories = append(out.advisories, Advisory{
			Source:         SourcePatient,
			RuleID:         "age>65",
			RiskLevel:      RiskModerate,
			Description:    fmt.Sprintf("Higher sensitivity to %s in patients over %d.", strings.Join(names, ", "), elderlyAge),
			Recommendation: "Consider reduced dosage and monitor more frequently.",
			Drugs:          names,
		})
	}
	return out
}

func renalRule(s patientSnapshot) ruleOutcome {
	cp := s.patient.ClinicalParameters
	if cp == nil || cp.EGFR == nil || *cp.EGFR >= renalEGFRThreshold {
		return ruleOutcome{}
	}
	out := ruleOutcome{escalate: s.base == RiskLow || s.base == RiskModerate}
	if names := drugsWithClass(s.drugs, ClassRenallyCleared); len(names) > 0 {
		out.advisories = append(out.advisories, Advisory{
			Source:         SourcePatient,
			RuleID:         "egfr<60",
			RiskLevel:      RiskHigh,
			Description:    fmt.Sprintf("Reduced renal clearance (eGFR %g) may affect %s.", *cp.EGFR, strings.Join(names, ", ")),
			Recommendation: "Consider dose adjustment based on eGFR.",
			Drugs:          names,
		})
	}
	return out
}

func hepaticRule(s patientSnapshot) ruleOutcome {
	cp := s.patient.ClinicalParameters
	if cp == nil || cp.LiverEnzymes == nil || cp.LiverEnzymes.ALT == nil || *cp.LiverEnzymes.ALT <= altUpperLimit {
		return ruleOutcome{}
	}
	return ruleOutcome{advisories: []Advisory{{
		Source:         SourcePatient,
		RuleID:         "alt>40",
		RiskLevel:      RiskModerate,
		Description:    fmt.Sprintf("Elevated ALT (%g U/L) suggests reduced hepatic clearance.", *cp.LiverEnzymes.ALT),
		Recommendation: "Review hepatically metabolized drugs and monitor liver function.",
	}}}
}

func bloodPressureRule(s patientSnapshot) ruleOutcome {
	cp := s.patient.ClinicalParameters
	if cp == nil || cp.BloodPressure == nil || cp.BloodPressure.Systolic == nil || *cp.BloodPressure.Systolic <= systolicThreshold {
		return ruleOutcome{}
	}
	return ruleOutcome{advisories: []Advisory{{
		Source:         SourcePatient,
		RuleID:         "systolic>140",
		RiskLevel:      RiskLow,
		Description:    fmt.Sprintf("Elevated systolic blood pressure (%g mmHg).", *cp.BloodPressure.Systolic),
		Recommendation: "Monitor blood pressure when adjusting vasoactive medications.",
	}}}
}

func conditionsRule(s patientSnapshot) ruleOutcome {
	var out ruleOutcome
	for _, rule := range conditionRules {
		if !containsSubstring(s.conditions, rule.Condition) {
			continue
		}
		names := drugsWithClass(s.drugs, rule.RequiresClass)
		if len(names) == 0 {
			continue
		}
		out.advisories = append(out.advisories, Advisory{
			Source:         SourcePatient,
			RuleID:         rule.ID,
			RiskLevel:      rule.Severity,
			Description:    fmt.Sprintf("%s: %s.", strings.Join(names, ", "), rule.Note),
			Recommendation: rule.Recommendation,
			Drugs:          names,
		})
	}
	return out
}

func normalizeConditions(p *PatientData) []string {
	if p.MedicalHistory == nil {
		return nil
	}
	out := make([]string, 0, len(p.MedicalHistory.Conditions))
	for _, c := range p.MedicalHistory.Conditions {
		if c = strings.ToLower(strings.TrimSpace(c)); c != "" {
			out = append(out, c)
		}
	}
	return out
}

func containsSubstring(values []string, target string) bool {
	for _, v := range values {
		if strings.Contains(v, target) {
			return true
		}
	}
	return false
}

// drugsWithClass returns the display names of drugs tagged with any of
// classes, each name at most once, in input order.
func drugsWithClass(drugs []resolvedDrug, classes ...string) []string {
	seen := map[string]bool{}
	var names []string
	for _, d := range drugs {
		for _, class := range classes {
			if d.drug.HasClass(class) && !seen[d.drug.ID] {
				seen[d.drug.ID] = true
				names = append(names, d.display)
			}
		}
	}
	return names
}
