package simulation

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/glbter/distributed-systems/advisor/entities"
)

// WeightTolerance is the allowed deviation of an allocation's weight sum from 1.
const WeightTolerance = 1e-6

// ValidateAllocation checks that weights are within [0,1], sum to 1 and
// reference only known assets.
func ValidateAllocation(alloc entities.Allocation, assets map[string]entities.AssetClass) error {
	if len(alloc) == 0 {
		return fmt.Errorf("%w: allocation is empty", entities.ErrInvalidInput)
	}

	sum := 0.0
	for _, name := range sortedNames(alloc) {
		w := alloc[name]
		if math.IsNaN(w) || w < 0 || w > 1 {
			return fmt.Errorf("%w: weight of %q is %v, want a value in [0,1]", entities.ErrInvalidInput, name, w)
		}
		if _, ok := assets[name]; !ok && w > 0 {
			return fmt.Errorf("%w: unknown asset class %q", entities.ErrInvalidInput, name)
		}
		sum += w
	}

	if math.Abs(sum-1) > WeightTolerance {
		return fmt.Errorf("%w: allocation weights sum to %v, want 1", entities.ErrInvalidInput, sum)
	}

	return nil
}

func validateHorizon(periods, trials int) error {
	if periods <= 0 {
		return fmt.Errorf("%w: periods must be positive, got %d", entities.ErrInvalidInput, periods)
	}
	if trials <= 0 {
		return fmt.Errorf("%w: trials must be positive, got %d", entities.ErrInvalidInput, trials)
	}

	return nil
}

// Simulate draws trials independent paths of periods steps and returns the
// cumulative portfolio return of each path in trial order. A nil src uses an
// unseeded source.
func Simulate(
	alloc entities.Allocation,
	assets map[string]entities.AssetClass,
	periods, trials int,
	src rand.Source,
) (entities.SimulationResult, error) {
	if err := ValidateAllocation(alloc, assets); err != nil {
		return entities.SimulationResult{}, err
	}
	if err := validateHorizon(periods, trials); err != nil {
		return entities.SimulationResult{}, err
	}

	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}

	legs := newLegs(alloc, assets, src)
	res := newResult(trials)
	buf := make([]float64, periods)
	for i := 0; i < trials; i++ {
		res.set(i, runTrial(legs, periods, buf))
	}

	return res.SimulationResult, nil
}

type leg struct {
	weight float64
	dist   distuv.Normal
}

// newLegs builds one distribution per weighted asset, ordered by name so
// that a seeded source always yields the same draws.
func newLegs(alloc entities.Allocation, assets map[string]entities.AssetClass, src rand.Source) []leg {
	legs := make([]leg, 0, len(alloc))
	for _, name := range sortedNames(alloc) {
		w := alloc[name]
		if w == 0 {
			continue
		}
		a := assets[name]
		legs = append(legs, leg{
			weight: w,
			dist:   distuv.Normal{Mu: a.ExpectedReturn, Sigma: a.Risk, Src: src},
		})
	}

	return legs
}

type trialPath struct {
	cumulative  float64
	maxDrawdown float64
	stdDev      float64
}

// runTrial walks one value path starting at 1. buf holds the period returns
// and must have room for periods values.
func runTrial(legs []leg, periods int, buf []float64) trialPath {
	value, peak, drawdown := 1.0, 1.0, 0.0
	for p := 0; p < periods; p++ {
		r := 0.0
		for _, l := range legs {
			r += l.weight * l.dist.Rand()
		}
		buf[p] = r
		value *= 1 + r

		if value > peak {
			peak = value
		} else if d := (peak - value) / peak; d > drawdown {
			drawdown = d
		}
	}

	t := trialPath{cumulative: value - 1, maxDrawdown: drawdown}
	if periods > 1 {
		t.stdDev = stat.StdDev(buf[:periods], nil)
	}

	return t
}

type result struct {
	entities.SimulationResult
}

func newResult(trials int) result {
	return result{entities.SimulationResult{
		Returns:       make([]float64, trials),
		MaxDrawdowns:  make([]float64, trials),
		PeriodStdDevs: make([]float64, trials),
	}}
}

func (r result) set(i int, t trialPath) {
	r.Returns[i] = t.cumulative
	r.MaxDrawdowns[i] = t.maxDrawdown
	r.PeriodStdDevs[i] = t.stdDev
}

func sortedNames(alloc entities.Allocation) []string {
	names := make([]string, 0, len(alloc))
	for name := range alloc {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// PerPeriod converts annual expected return and risk into per-period values
// for periodsPerYear steps a year. Values <= 1 leave assets unchanged.
func PerPeriod(assets map[string]entities.AssetClass, periodsPerYear int) map[string]entities.AssetClass {
	out := make(map[string]entities.AssetClass, len(assets))
	for name, a := range assets {
		if periodsPerYear > 1 {
			n := float64(periodsPerYear)
			a.ExpectedReturn /= n
			a.Risk /= math.Sqrt(n)
		}
		out[name] = a
	}

	return out
}
