package risk_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glbter/distributed-systems/advisor/entities"
	"github.com/glbter/distributed-systems/advisor/risk"
)

func testMapping() entities.RiskScoreMapping {
	return entities.RiskScoreMapping{
		"q1": {"none": 0, "up_to_10": 40, "over_30": 100},
		"q2": {"sell_all": 0, "hold": 67, "buy_more": 100},
		"q3": {"savings": 0, "balanced_funds": 50},
	}
}

func testCategories() []entities.RiskCategory {
	return []entities.RiskCategory{
		{ID: "very_conservative", MaxScore: 99},
		{ID: "conservative", MaxScore: 199},
		{ID: "moderate", MaxScore: 299},
		{ID: "aggressive", MaxScore: 399},
		{ID: "very_aggressive", Unbounded: true},
	}
}

func TestScore_SumsPoints(t *testing.T) {
	answers := entities.QuestionnaireAnswers{
		"q1": "up_to_10",
		"q2": "hold",
		"q3": "balanced_funds",
	}

	score, err := risk.Score(answers, testMapping())

	require.NoError(t, err)
	assert.Equal(t, 40+67+50, score)
}

func TestScore_PartialAnswers(t *testing.T) {
	score, err := risk.Score(entities.QuestionnaireAnswers{"q2": "buy_more"}, testMapping())

	require.NoError(t, err)
	assert.Equal(t, 100, score)
}

func TestScore_NoAnswers(t *testing.T) {
	score, err := risk.Score(entities.QuestionnaireAnswers{}, testMapping())

	require.NoError(t, err)
	assert.Zero(t, score)
}

func TestScore_UnknownQuestion(t *testing.T) {
	_, err := risk.Score(entities.QuestionnaireAnswers{"q9": "hold"}, testMapping())

	require.ErrorIs(t, err, entities.ErrConfiguration)
	assert.Contains(t, err.Error(), `"q9"`)
}

func TestScore_UnknownOption(t *testing.T) {
	_, err := risk.Score(entities.QuestionnaireAnswers{"q1": "maybe"}, testMapping())

	require.ErrorIs(t, err, entities.ErrConfiguration)
	assert.Contains(t, err.Error(), `"q1"`)
	assert.Contains(t, err.Error(), `"maybe"`)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{0, "very_conservative"},
		{99, "very_conservative"},
		{100, "conservative"},
		{250, "moderate"},
		{399, "aggressive"},
		{400, "very_aggressive"},
		{5000, "very_aggressive"},
	}

	for _, tt := range tests {
		got, err := risk.Classify(tt.score, testCategories())
		require.NoError(t, err)
		assert.Equal(t, tt.want, got.ID, "score %d", tt.score)
	}
}

func TestClassify_Monotonic(t *testing.T) {
	categories := testCategories()
	rank := make(map[string]int, len(categories))
	for i, c := range categories {
		rank[c.ID] = i
	}

	prev := -1
	for score := -10; score <= 600; score++ {
		c, err := risk.Classify(score, categories)
		require.NoError(t, err)
		require.GreaterOrEqual(t, rank[c.ID], prev, "score %d", score)
		prev = rank[c.ID]
	}
}

func TestClassify_NoUnboundedTop(t *testing.T) {
	categories := testCategories()[:4]

	_, err := risk.Classify(400, categories)

	require.ErrorIs(t, err, entities.ErrConfiguration)
	assert.Contains(t, err.Error(), "400")
}

func TestRecommend(t *testing.T) {
	recs := entities.RecommendedAllocations{
		"moderate": {"stocks": 0.4, "bonds": 0.6},
	}

	alloc, err := risk.Recommend(entities.RiskCategory{ID: "moderate"}, recs)
	require.NoError(t, err)
	assert.Equal(t, entities.Allocation{"stocks": 0.4, "bonds": 0.6}, alloc)

	alloc["stocks"] = 1
	assert.Equal(t, 0.4, recs["moderate"]["stocks"], "recommendation must be a copy")

	_, err = risk.Recommend(entities.RiskCategory{ID: "aggressive"}, recs)
	require.ErrorIs(t, err, entities.ErrConfiguration)
}

func TestAssess(t *testing.T) {
	recs := entities.RecommendedAllocations{
		"conservative": {"bonds": 1},
	}

	a, err := risk.Assess(entities.QuestionnaireAnswers{"q1": "up_to_10", "q2": "hold"}, testMapping(), testCategories(), recs)

	require.NoError(t, err)
	assert.Equal(t, 107, a.Score)
	assert.Equal(t, "conservative", a.Category.ID)
	assert.Equal(t, entities.Allocation{"bonds": 1}, a.Recommendation)
}

func TestAssess_MissingRecommendation(t *testing.T) {
	_, err := risk.Assess(entities.QuestionnaireAnswers{"q1": "none"}, testMapping(), testCategories(), entities.RecommendedAllocations{})

	require.ErrorIs(t, err, entities.ErrConfiguration)
	assert.Contains(t, err.Error(), "recommend allocation")
}
