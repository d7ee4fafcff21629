package dataset

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skufu/diass/internal/analysis"
)

func TestEmbeddedBuilds(t *testing.T) {
	ds, err := Embedded()
	require.NoError(t, err)

	catalog, kb, err := ds.Build()
	require.NoError(t, err)

	assert.Equal(t, 13, catalog.Len())
	assert.Equal(t, len(ds.Interactions), kb.PairCount())
	assert.Equal(t, "2024.2", kb.Version())
	assert.NotEmpty(t, kb.LastUpdated())
}

func TestEmbeddedScenarios(t *testing.T) {
	ds, err := Embedded()
	require.NoError(t, err)
	a, err := ds.Analyzer()
	require.NoError(t, err)

	cases := []struct {
		name   string
		ids    []string
		risk   analysis.RiskLevel
		status analysis.CompatibilityStatus
	}{
		{"warfarin aspirin", []string{"drug1", "drug2"}, analysis.RiskHigh, analysis.Incompatible},
		{"warfarin lisinopril", []string{"drug1", "drug4"}, analysis.RiskNone, analysis.Compatible},
		{"warfarin simvastatin", []string{"drug1", "drug5"}, analysis.RiskLow, analysis.Compatible},
		{"amiodarone triad", []string{"drug1", "drug11", "drug5"}, analysis.RiskHigh, analysis.Incompatible},
		{"clopidogrel omeprazole", []string{"drug12", "drug9"}, analysis.RiskModerate, analysis.Incompatible},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := analysis.Request{}
			for _, id := range tc.ids {
				req.Drugs = append(req.Drugs, analysis.DrugEntry{DrugID: id})
			}
			res, err := a.Analyze(req)
			require.NoError(t, err)
			assert.Equal(t, tc.risk, res.OverallRiskLevel)
			assert.Equal(t, tc.status, res.OverallCompatibilityStatus)
			assert.Len(t, res.InteractionResults, len(tc.ids)*(len(tc.ids)-1)/2)
		})
	}
}

func TestEmbeddedSideTables(t *testing.T) {
	ds, err := Embedded()
	require.NoError(t, err)
	_, kb, err := ds.Build()
	require.NoError(t, err)

	assert.Equal(t, []string{"High-fat foods", "Coffee"}, kb.FoodsFor("drug7"))
	assert.True(t, kb.AlcoholSensitive("drug10"))
	assert.False(t, kb.AlcoholSensitive("drug13"))
}

func TestParseRejectsBadInput(t *testing.T) {
	_, err := Parse(strings.NewReader(""))
	require.Error(t, err)

	_, err = Parse(strings.NewReader("version: x\nunknownKey: 1\ndrugs: [{id: a, name: A}]\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknownKey")

	_, err = Parse(strings.NewReader("version: x\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no drugs")
}

func TestBuildReportsInvalidContent(t *testing.T) {
	ds, err := Parse(strings.NewReader(`
version: "1"
drugs:
  - {id: a, name: A}
  - {id: b, name: B}
interactions:
  - drugA: a
    drugB: c
    result:
      compatibilityStatus: compatible
      riskLevel: low
      timeToOnset: immediate
      confidenceScore: 3
      mechanism: m
`))
	require.NoError(t, err)

	_, _, err = ds.Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "build knowledge base")
	assert.Contains(t, err.Error(), `"c"`)
}
