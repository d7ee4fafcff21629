package analysis

import (
	"fmt"
	"strings"
)

// PairRecord is one documented interaction between two catalog drugs.
type PairRecord struct {
	DrugA  string            `json:"drugA" yaml:"drugA"`
	DrugB  string            `json:"drugB" yaml:"drugB"`
	Result InteractionResult `json:"result" yaml:"result"`
}

// KnowledgeSource is the raw content a KnowledgeBase is built from.
type KnowledgeSource struct {
	Version             string
	LastUpdated         string
	Interactions        []PairRecord
	FoodInteractions    map[string][]string
	AlcoholInteractions []string
}

// KnowledgeBase is the read-only interaction table plus the food and alcohol
// side tables. Pairs are stored once, in the order they were given, and
// queried in both orders.
type KnowledgeBase struct {
	version     string
	lastUpdated string
	pairs       map[string]map[string]InteractionResult
	foods       map[string][]string
	alcohol     map[string]struct{}
}

func NewKnowledgeBase(catalog *Catalog, src KnowledgeSource) (*KnowledgeBase, error) {
	if catalog == nil {
		return nil, fmt.Errorf("catalog is required")
	}
	kb := &KnowledgeBase{
		version:     src.Version,
		lastUpdated: src.LastUpdated,
		pairs:       make(map[string]map[string]InteractionResult),
		foods:       make(map[string][]string),
		alcohol:     make(map[string]struct{}),
	}

	for i, rec := range src.Interactions {
		a, errA := resolveID(catalog, rec.DrugA)
		b, errB := resolveID(catalog, rec.DrugB)
		if errA != nil || errB != nil {
			return nil, fmt.Errorf("interaction %d: %w", i, firstErr(errA, errB))
		}
		if a.ID == b.ID {
			return nil, fmt.Errorf("interaction %d: drug %q paired with itself", i, a.ID)
		}
		if _, ok := kb.Lookup(a.ID, b.ID); ok {
			return nil, fmt.Errorf("interaction %d: duplicate pair %s/%s", i, a.ID, b.ID)
		}
		if err := validateResult(rec.Result); err != nil {
			return nil, fmt.Errorf("interaction %s/%s: %w", a.ID, b.ID, err)
		}
		res := rec.Result.clone()
		res.DrugPair = [2]string{a.Name, b.Name}
		if kb.pairs[a.ID] == nil {
			kb.pairs[a.ID] = make(map[string]InteractionResult)
		}
		kb.pairs[a.ID][b.ID] = res
	}

	for id, foods := range src.FoodInteractions {
		d, err := resolveID(catalog, id)
		if err != nil {
			return nil, fmt.Errorf("food interactions: %w", err)
		}
		for _, f := range foods {
			if f = strings.TrimSpace(f); f != "" {
				kb.foods[d.ID] = append(kb.foods[d.ID], f)
			}
		}
	}

	for _, id := range src.AlcoholInteractions {
		d, err := resolveID(catalog, id)
		if err != nil {
			return nil, fmt.Errorf("alcohol interactions: %w", err)
		}
		kb.alcohol[d.ID] = struct{}{}
	}

	return kb, nil
}

// Lookup returns the documented interaction between a and b, trying (a,b)
// then (b,a). A miss means no interaction is documented.
func (kb *KnowledgeBase) Lookup(a, b string) (InteractionResult, bool) {
	a, b = NormalizeID(a), NormalizeID(b)
	if res, ok := kb.pairs[a][b]; ok {
		return res.clone(), true
	}
	if res, ok := kb.pairs[b][a]; ok {
		return res.clone(), true
	}
	return InteractionResult{}, false
}

// FoodsFor returns the foods known to interact with drug id.
func (kb *KnowledgeBase) FoodsFor(id string) []string {
	return append([]string(nil), kb.foods[NormalizeID(id)]...)
}

func (kb *KnowledgeBase) AlcoholSensitive(id string) bool {
	_, ok := kb.alcohol[NormalizeID(id)]
	return ok
}

// PairCount reports how many documented interactions are stored.
func (kb *KnowledgeBase) PairCount() int {
	n := 0
	for _, m := range kb.pairs {
		n += len(m)
	}
	return n
}

func (kb *KnowledgeBase) Version() string     { return kb.version }
func (kb *KnowledgeBase) LastUpdated() string { return kb.lastUpdated }

func resolveID(catalog *Catalog, id string) (Drug, error) {
	d, ok := catalog.Get(id)
	if !ok {
		return Drug{}, fmt.Errorf("unknown drug id %q", id)
	}
	return d, nil
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func validateResult(r InteractionResult) error {
	if !r.RiskLevel.Valid() {
		return fmt.Errorf("invalid risk level %q", r.RiskLevel)
	}
	if !r.CompatibilityStatus.Valid() {
		return fmt.Errorf("invalid compatibility status %q", r.CompatibilityStatus)
	}
	if !r.TimeToOnset.Valid() {
		return fmt.Errorf("invalid time to onset %q", r.TimeToOnset)
	}
	if r.ConfidenceScore < 1 || r.ConfidenceScore > 5 {
		return fmt.Errorf("confidence score %d out of range 1..5", r.ConfidenceScore)
	}
	if strings.TrimSpace(r.Mechanism) == "" {
		return fmt.Errorf("mechanism is required")
	}
	return nil
}

func (r InteractionResult) clone() InteractionResult {
	r.Effects = append([]string{}, r.Effects...)
	r.MonitoringParameters = append([]string(nil), r.MonitoringParameters...)
	r.Alternatives = append([]string(nil), r.Alternatives...)
	r.Evidence.LiteratureCitations = append([]Citation{}, r.Evidence.LiteratureCitations...)
	r.Evidence.Guidelines = append([]Guideline(nil), r.Evidence.Guidelines...)
	r.Evidence.RegulatoryWarnings = append([]RegulatoryWarning(nil), r.Evidence.RegulatoryWarnings...)
	return r
}
