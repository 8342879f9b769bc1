package risk

import (
	"fmt"
	"sort"

	"github.com/glbter/distributed-systems/advisor/entities"
)

// Score sums the configured points of every answered question.
func Score(answers entities.QuestionnaireAnswers, mapping entities.RiskScoreMapping) (int, error) {
	questions := make([]string, 0, len(answers))
	for q := range answers {
		questions = append(questions, q)
	}
	// stable error reporting when more than one answer is unknown
	sort.Strings(questions)

	total := 0
	for _, q := range questions {
		options, ok := mapping[q]
		if !ok {
			return 0, fmt.Errorf("%w: question %q is not in risk mapping", entities.ErrConfiguration, q)
		}

		points, ok := options[answers[q]]
		if !ok {
			return 0, fmt.Errorf("%w: question %q has no option %q in risk mapping", entities.ErrConfiguration, q, answers[q])
		}

		total += points
	}

	return total, nil
}

// Classify returns the first category, in the given ascending order, that covers score.
func Classify(score int, categories []entities.RiskCategory) (entities.RiskCategory, error) {
	for _, c := range categories {
		if c.Unbounded || score <= c.MaxScore {
			return c, nil
		}
	}

	return entities.RiskCategory{}, fmt.Errorf("%w: score %d exceeds every risk category threshold", entities.ErrConfiguration, score)
}

func Recommend(category entities.RiskCategory, recommendations entities.RecommendedAllocations) (entities.Allocation, error) {
	alloc, ok := recommendations[category.ID]
	if !ok {
		return nil, fmt.Errorf("%w: no recommended allocation for risk category %q", entities.ErrConfiguration, category.ID)
	}

	out := make(entities.Allocation, len(alloc))
	for asset, w := range alloc {
		out[asset] = w
	}

	return out, nil
}

// Assess runs Score, Classify and Recommend in order.
func Assess(
	answers entities.QuestionnaireAnswers,
	mapping entities.RiskScoreMapping,
	categories []entities.RiskCategory,
	recommendations entities.RecommendedAllocations,
) (entities.Assessment, error) {
	score, err := Score(answers, mapping)
	if err != nil {
		return entities.Assessment{}, fmt.Errorf("score answers: %w", err)
	}

	category, err := Classify(score, categories)
	if err != nil {
		return entities.Assessment{}, fmt.Errorf("classify score: %w", err)
	}

	alloc, err := Recommend(category, recommendations)
	if err != nil {
		return entities.Assessment{}, fmt.Errorf("recommend allocation: %w", err)
	}

	return entities.Assessment{
		Score:          score,
		Category:       category,
		Recommendation: alloc,
	}, nil
}
