package simulation

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/glbter/distributed-systems/advisor/entities"
)

// Summarize computes distribution statistics over the trial returns.
func Summarize(res entities.SimulationResult) entities.SimulationSummary {
	if len(res.Returns) == 0 {
		return entities.SimulationSummary{}
	}

	sorted := make([]float64, len(res.Returns))
	copy(sorted, res.Returns)
	sort.Float64s(sorted)

	q := func(p float64) float64 {
		return stat.Quantile(p, stat.Empirical, sorted, nil)
	}

	s := entities.SimulationSummary{
		Trials: len(sorted),
		Mean:   stat.Mean(sorted, nil),
		Min:    floats.Min(sorted),
		Max:    floats.Max(sorted),
		P5:     q(0.05),
		P25:    q(0.25),
		P50:    q(0.50),
		P75:    q(0.75),
		P95:    q(0.95),
	}
	if len(sorted) > 1 {
		s.StdDev = stat.StdDev(sorted, nil)
	}

	return s
}

// Project applies the summary returns to an initial investment, rounded to cents.
func Project(initial decimal.Decimal, s entities.SimulationSummary) entities.Projection {
	value := func(r float64) decimal.Decimal {
		return initial.Mul(decimal.NewFromFloat(1 + r)).Round(2)
	}

	return entities.Projection{
		Initial: initial.Round(2),
		Mean:    value(s.Mean),
		P5:      value(s.P5),
		P50:     value(s.P50),
		P95:     value(s.P95),
	}
}

// flatVolatility is the volatility below which ratios are left at zero.
const flatVolatility = 1e-12

// Performance annualizes the mean cumulative return and the mean per-period
// volatility of res over periods steps. periodsPerYear <= 1 counts each
// period as one year.
func Performance(res entities.SimulationResult, periods, periodsPerYear int) entities.PerformanceMetrics {
	if len(res.Returns) == 0 || periods <= 0 {
		return entities.PerformanceMetrics{}
	}

	ppy := float64(max(periodsPerYear, 1))
	years := float64(periods) / ppy

	m := entities.PerformanceMetrics{TotalReturn: stat.Mean(res.Returns, nil)}
	if growth := 1 + m.TotalReturn; growth > 0 {
		m.AnnualizedReturn = math.Pow(growth, 1/years) - 1
	} else {
		m.AnnualizedReturn = -1
	}

	if len(res.PeriodStdDevs) > 0 {
		m.Volatility = stat.Mean(res.PeriodStdDevs, nil) * math.Sqrt(ppy)
	}
	if len(res.MaxDrawdowns) > 0 {
		m.MaxDrawdown = stat.Mean(res.MaxDrawdowns, nil)
		m.WorstDrawdown = floats.Max(res.MaxDrawdowns)
	}

	if m.Volatility > flatVolatility {
		m.SharpeRatio = m.AnnualizedReturn / m.Volatility
		m.ReturnToRisk = m.TotalReturn / m.Volatility
	}

	return m
}
