// Package dataset supplies the content the analysis catalog and knowledge
// base are built from: an embedded YAML seed or a Postgres database.
package dataset

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/Skufu/diass/internal/analysis"
)

//go:embed seed.yaml
var seedYAML []byte

// Dataset is the raw drug and interaction content before validation.
type Dataset struct {
	Version             string                `yaml:"version"`
	LastUpdated         string                `yaml:"lastUpdated"`
	Drugs               []analysis.Drug       `yaml:"drugs"`
	Interactions        []analysis.PairRecord `yaml:"interactions"`
	FoodInteractions    map[string][]string   `yaml:"foodInteractions"`
	AlcoholInteractions []string              `yaml:"alcoholInteractions"`
}

// Parse decodes a YAML dataset. Unknown keys are rejected.
func Parse(r io.Reader) (*Dataset, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var ds Dataset
	if err := dec.Decode(&ds); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("dataset is empty")
		}
		return nil, fmt.Errorf("decode dataset: %w", err)
	}
	if len(ds.Drugs) == 0 {
		return nil, fmt.Errorf("dataset has no drugs")
	}
	return &ds, nil
}

// Embedded returns the dataset compiled into the binary.
func Embedded() (*Dataset, error) {
	return Parse(bytes.NewReader(seedYAML))
}

// Build validates the dataset and returns the immutable catalog and
// knowledge base.
func (ds *Dataset) Build() (*analysis.Catalog, *analysis.KnowledgeBase, error) {
	catalog, err := analysis.NewCatalog(ds.Drugs)
	if err != nil {
		return nil, nil, fmt.Errorf("build catalog: %w", err)
	}
	kb, err := analysis.NewKnowledgeBase(catalog, analysis.KnowledgeSource{
		Version:             ds.Version,
		LastUpdated:         ds.LastUpdated,
		Interactions:        ds.Interactions,
		FoodInteractions:    ds.FoodInteractions,
		AlcoholInteractions: ds.AlcoholInteractions,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("build knowledge base: %w", err)
	}
	return catalog, kb, nil
}

// Analyzer is a shortcut for Build followed by analysis.NewAnalyzer.
func (ds *Dataset) Analyzer() (*analysis.Analyzer, error) {
	catalog, kb, err := ds.Build()
	if err != nil {
		return nil, err
	}
	return analysis.NewAnalyzer(catalog, kb)
}
