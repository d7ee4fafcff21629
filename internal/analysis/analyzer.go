// Package analysis resolves drug-drug interactions for a list of drugs,
// applies patient-specific risk rules and folds everything into one overall
// risk level and compatibility verdict.
//
// The Catalog and KnowledgeBase are immutable once built, so an Analyzer is
// safe for concurrent use without locking.
package analysis

import "fmt"

type Analyzer struct {
	catalog *Catalog
	kb      *KnowledgeBase
}

func NewAnalyzer(catalog *Catalog, kb *KnowledgeBase) (*Analyzer, error) {
	if catalog == nil {
		return nil, fmt.Errorf("catalog is required")
	}
	if kb == nil {
		return nil, fmt.Errorf("knowledge base is required")
	}
	return &Analyzer{catalog: catalog, kb: kb}, nil
}

func (a *Analyzer) Catalog() *Catalog             { return a.catalog }
func (a *Analyzer) KnowledgeBase() *KnowledgeBase { return a.kb }

// Analyze returns a complete assessment or an error, never a partial result.
// Entries without a drug id are ignored.
func (a *Analyzer) Analyze(req Request) (*SafetyAssessmentResult, error) {
	drugs, err := resolveEntries(a.catalog, req.Drugs)
	if err != nil {
		return nil, err
	}

	results := resolvePairs(a.kb, drugs)
	escalate, advisories := applyPatientRules(req.PatientData, drugs, pairRisk(results))
	advisories = append(advisories, foodAdvisories(a.kb, drugs, req.FoodItems)...)
	advisories = append(advisories, alcoholAdvisory(a.kb, drugs, req.Alcohol)...)
	if advisories == nil {
		advisories = []Advisory{}
	}

	overall, status := aggregate(results, escalate, advisories)
	return &SafetyAssessmentResult{
		InteractionResults:         results,
		Advisories:                 advisories,
		DatabaseVersion:            a.kb.Version(),
		LastUpdated:                a.kb.LastUpdated(),
		OverallRiskLevel:           overall,
		OverallCompatibilityStatus: status,
	}, nil
}
