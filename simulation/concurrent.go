package simulation

import (
	"context"
	"math/rand/v2"

	"golang.org/x/sync/errgroup"

	"github.com/glbter/distributed-systems/advisor/entities"
)

// trialsPerTask bounds the number of trials one goroutine runs before
// checking for cancellation.
const trialsPerTask = 64

// SimulateConcurrent runs the same calculation as Simulate across at most
// workers goroutines. Trial i draws from a source seeded with (seed, i) and
// writes slot i, so the result does not depend on scheduling.
func SimulateConcurrent(
	ctx context.Context,
	alloc entities.Allocation,
	assets map[string]entities.AssetClass,
	periods, trials int,
	seed uint64,
	workers int,
) (entities.SimulationResult, error) {
	if err := ValidateAllocation(alloc, assets); err != nil {
		return entities.SimulationResult{}, err
	}
	if err := validateHorizon(periods, trials); err != nil {
		return entities.SimulationResult{}, err
	}
	if workers < 1 {
		workers = 1
	}

	res := newResult(trials)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for start := 0; start < trials; start += trialsPerTask {
		start, end := start, min(start+trialsPerTask, trials)
		g.Go(func() error {
			buf := make([]float64, periods)
			for i := start; i < end; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				legs := newLegs(alloc, assets, rand.NewPCG(seed, uint64(i)))
				res.set(i, runTrial(legs, periods, buf))
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return entities.SimulationResult{}, err
	}

	return res.SimulationResult, nil
}
