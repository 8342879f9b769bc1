package simulation

import (
	"math"

	"github.com/glbter/distributed-systems/advisor/entities"
)

// Metrics returns the weighted expected return and a simplified risk that
// ignores correlation between assets: sqrt(sum(w^2 * risk^2)).
func Metrics(alloc entities.Allocation, assets map[string]entities.AssetClass) (entities.PortfolioMetrics, error) {
	if err := ValidateAllocation(alloc, assets); err != nil {
		return entities.PortfolioMetrics{}, err
	}

	var m entities.PortfolioMetrics
	variance := 0.0
	for name, w := range alloc {
		a, ok := assets[name]
		if !ok {
			continue
		}
		m.ExpectedReturn += w * a.ExpectedReturn
		variance += w * w * a.Risk * a.Risk
	}
	m.Risk = math.Sqrt(variance)

	if m.Risk > 0 {
		m.ReturnToRisk = m.ExpectedReturn / m.Risk
	}

	return m, nil
}
