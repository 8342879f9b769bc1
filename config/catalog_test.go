package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/glbter/distributed-systems/advisor/entities"
	"github.com/glbter/distributed-systems/advisor/risk"
)

const minimalCatalog = `
assets:
  - name: bonds
    expected_return: 0.03
    risk: 0.02
  - name: stocks
    expected_return: 0.08
    risk: 0.20
risk_mapping:
  q1: {low: 0, high: 10}
risk_recommendations:
  low: {bonds: 1}
  high: {bonds: 0.5, stocks: 0.5}
risk_categories:
  - id: low
    name: Low
    max_score: 5
  - id: high
    name: High
`

func TestDefaultCatalog(t *testing.T) {
	c, err := DefaultCatalog()
	require.NoError(t, err)

	assert.Len(t, c.Assets, 5)
	assert.Len(t, c.Categories, 5)
	assert.Len(t, c.Mapping, 5)
	assert.True(t, c.Categories[4].Unbounded)
	assert.Equal(t, "very_aggressive", c.Categories[4].ID)

	stocks, ok := c.Asset("stocks")
	require.True(t, ok)
	assert.Equal(t, 0.08, stocks.ExpectedReturn)
	assert.Equal(t, 0.20, stocks.Risk)
}

func TestDefaultCatalog_ThresholdsMatchAveragedScore(t *testing.T) {
	c, err := DefaultCatalog()
	require.NoError(t, err)

	// averages 14 per question
	lowest := entities.QuestionnaireAnswers{"q1": "up_to_5", "q2": "sell_all", "q3": "savings", "q4": "beat_inflation", "q5": "1_3y"}
	score, err := risk.Score(lowest, c.Mapping)
	require.NoError(t, err)
	assert.Equal(t, 70, score)

	cat, err := risk.Classify(score, c.Categories)
	require.NoError(t, err)
	assert.Equal(t, "very_conservative", cat.ID)

	cat, err = risk.Classify(100, c.Categories)
	require.NoError(t, err)
	assert.Equal(t, "conservative", cat.ID)

	top := entities.QuestionnaireAnswers{"q1": "over_30", "q2": "buy_more", "q3": "individual_stocks", "q4": "aggressive_growth", "q5": "over_10y"}
	a, err := risk.Assess(top, c.Mapping, c.Categories, c.Recommendations)
	require.NoError(t, err)
	assert.Equal(t, 500, a.Score)
	assert.Equal(t, "very_aggressive", a.Category.ID)
	assert.Equal(t, 0.75, a.Recommendation["stocks"])
}

func TestParseCatalog_Minimal(t *testing.T) {
	c, err := ParseCatalog([]byte(minimalCatalog))
	require.NoError(t, err)

	assert.Equal(t, []entities.RiskCategory{
		{ID: "low", Name: "Low", MaxScore: 5},
		{ID: "high", Name: "High", Unbounded: true},
	}, c.Categories)
	assert.Equal(t, entities.Allocation{"bonds": 0.5, "stocks": 0.5}, c.Recommendations["high"])
	assert.Len(t, c.AssetMap(), 2)
}

func TestParseCatalog_Invalid(t *testing.T) {
	tests := map[string]string{
		"malformed yaml": "assets: [",
		"no assets": `
risk_mapping: {q1: {a: 1}}
risk_categories: [{id: top}]
risk_recommendations: {top: {}}`,
		"negative risk": `
assets: [{name: x, expected_return: 0.1, risk: -0.1}]
risk_mapping: {q1: {a: 1}}
risk_categories: [{id: top}]
risk_recommendations: {top: {x: 1}}`,
		"infinite risk": `
assets: [{name: x, expected_return: 0.1, risk: .inf}]
risk_mapping: {q1: {a: 1}}
risk_categories: [{id: top}]
risk_recommendations: {top: {x: 1}}`,
		"infinite expected return": `
assets: [{name: x, expected_return: -.inf, risk: 0.1}]
risk_mapping: {q1: {a: 1}}
risk_categories: [{id: top}]
risk_recommendations: {top: {x: 1}}`,
		"unbounded not last": `
assets: [{name: x, expected_return: 0.1, risk: 0.1}]
risk_mapping: {q1: {a: 1}}
risk_categories: [{id: top}, {id: low, max_score: 3}]
risk_recommendations: {top: {x: 1}, low: {x: 1}}`,
		"thresholds not ascending": `
assets: [{name: x, expected_return: 0.1, risk: 0.1}]
risk_mapping: {q1: {a: 1}}
risk_categories: [{id: a, max_score: 5}, {id: b, max_score: 5}]
risk_recommendations: {a: {x: 1}, b: {x: 1}}`,
		"missing recommendation": `
assets: [{name: x, expected_return: 0.1, risk: 0.1}]
risk_mapping: {q1: {a: 1}}
risk_categories: [{id: a, max_score: 5}, {id: b}]
risk_recommendations: {a: {x: 1}}`,
		"recommendation for unknown category": `
assets: [{name: x, expected_return: 0.1, risk: 0.1}]
risk_mapping: {q1: {a: 1}}
risk_categories: [{id: a}]
risk_recommendations: {a: {x: 1}, z: {x: 1}}`,
		"recommendation with unknown asset": `
assets: [{name: x, expected_return: 0.1, risk: 0.1}]
risk_mapping: {q1: {a: 1}}
risk_categories: [{id: a}]
risk_recommendations: {a: {y: 1}}`,
		"recommendation not summing to one": `
assets: [{name: x, expected_return: 0.1, risk: 0.1}]
risk_mapping: {q1: {a: 1}}
risk_categories: [{id: a}]
risk_recommendations: {a: {x: 0.9}}`,
		"duplicate asset": `
assets: [{name: x, expected_return: 0.1, risk: 0.1}, {name: x, expected_return: 0.2, risk: 0.1}]
risk_mapping: {q1: {a: 1}}
risk_categories: [{id: a}]
risk_recommendations: {a: {x: 1}}`,
	}

	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseCatalog([]byte(doc))
			require.ErrorIs(t, err, entities.ErrConfiguration)
		})
	}
}

func TestLoadCatalog_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "assets.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimalCatalog), 0o600))

	c, err := LoadCatalog(path, zap.NewNop())

	require.NoError(t, err)
	assert.Len(t, c.Assets, 2)
}

func TestLoadCatalog_MissingFileFallsBack(t *testing.T) {
	c, err := LoadCatalog(filepath.Join(t.TempDir(), "absent.yaml"), zap.NewNop())

	require.NoError(t, err)
	assert.Len(t, c.Assets, 5)
}

func TestLoadCatalog_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "assets.yaml")
	require.NoError(t, os.WriteFile(path, []byte("assets: ["), 0o600))

	_, err := LoadCatalog(path, zap.NewNop())

	require.ErrorIs(t, err, entities.ErrConfiguration)
}

func TestCatalog_Localized(t *testing.T) {
	c, err := DefaultCatalog()
	require.NoError(t, err)

	en := c.Localized("en")
	assert.Equal(t, "Stocks", en[0].DisplayName)
	assert.Contains(t, en[0].Description, "High risk")

	zh := c.Localized("zh")
	assert.Equal(t, "股票", zh[0].DisplayName)
	assert.Equal(t, "股票", c.Assets[0].DisplayName, "catalog must not be modified")
}

func TestLoadSettings(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("SIMULATION_WORKERS", "8")
	t.Setenv("MAX_TRIALS", "not-a-number")
	t.Setenv("REQUEST_TIMEOUT", "5s")

	s := LoadSettings()

	assert.Equal(t, ":9090", s.HTTPAddr)
	assert.Equal(t, 8, s.SimulationWorkers)
	assert.Equal(t, 10000, s.MaxTrials)
	assert.Equal(t, 5*time.Second, s.RequestTimeout)
	assert.Equal(t, "config/assets.yaml", s.CatalogPath)
}
