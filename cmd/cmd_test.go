package cmd

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/glbter/distributed-systems/advisor/config"
	"github.com/glbter/distributed-systems/advisor/entities"
)

func TestParseAllocation(t *testing.T) {
	alloc, err := parseAllocation("stocks=0.6, bonds=0.4")

	require.NoError(t, err)
	assert.Equal(t, entities.Allocation{"stocks": 0.6, "bonds": 0.4}, alloc)
}

func TestParseAllocation_Invalid(t *testing.T) {
	for name, in := range map[string]string{
		"empty":     "",
		"no weight": "stocks",
		"bad float": "stocks=abc",
		"no name":   "=0.5",
		"duplicate": "stocks=0.5,stocks=0.5",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := parseAllocation(in)
			require.ErrorIs(t, err, entities.ErrInvalidInput)
		})
	}
}

func TestParseAnswers(t *testing.T) {
	answers, err := parseAnswers([]string{"q1=none", "q2=hold"})
	require.NoError(t, err)
	assert.Equal(t, entities.QuestionnaireAnswers{"q1": "none", "q2": "hold"}, answers)

	_, err = parseAnswers([]string{"q1"})
	require.ErrorIs(t, err, entities.ErrInvalidInput)
}

func TestCategoryAllocation(t *testing.T) {
	c, err := config.DefaultCatalog()
	require.NoError(t, err)

	alloc, err := categoryAllocation(c, "moderate")
	require.NoError(t, err)
	assert.Equal(t, c.Recommendations["moderate"], alloc)

	_, err = categoryAllocation(c, "reckless")
	require.ErrorIs(t, err, entities.ErrInvalidInput)
}

func TestSimulateAndSummarize(t *testing.T) {
	logger = zap.NewNop()
	out := filepath.Join(t.TempDir(), "returns.csv")

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{
		"simulate", "--alloc", "cash=1", "--periods", "4", "--trials", "30",
		"--seed", "5", "--out", out, "--catalog", filepath.Join(t.TempDir(), "missing.yaml"),
	})
	require.NoError(t, rootCmd.Execute())

	var resp entities.SimulationResp
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, 30, resp.Summary.Trials)
	assert.Empty(t, resp.Returns)

	buf.Reset()
	rootCmd.SetArgs([]string{"summarize", out, "--investment", "1000"})
	require.NoError(t, rootCmd.Execute())

	var summary struct {
		Summary    entities.SimulationSummary `json:"summary"`
		Projection *entities.Projection       `json:"projection"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &summary))
	assert.Equal(t, 30, summary.Summary.Trials)
	assert.InDelta(t, resp.Summary.Mean, summary.Summary.Mean, 1e-9)
	require.NotNil(t, summary.Projection)
}
