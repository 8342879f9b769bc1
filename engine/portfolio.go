package engine

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/glbter/distributed-systems/advisor/config"
	"github.com/glbter/distributed-systems/advisor/entities"
	"github.com/glbter/distributed-systems/advisor/metrics"
	"github.com/glbter/distributed-systems/advisor/risk"
	"github.com/glbter/distributed-systems/advisor/simulation"
)

type Limits struct {
	MaxTrials  int
	MaxPeriods int
}

// PortfolioEngine answers assessment and simulation requests against one catalog.
type PortfolioEngine struct {
	catalog *config.Catalog
	limits  Limits
	workers int
	logger  *zap.Logger
}

func NewPortfolioEngine(catalog *config.Catalog, limits Limits, workers int, logger *zap.Logger) *PortfolioEngine {
	return &PortfolioEngine{
		catalog: catalog,
		limits:  limits,
		workers: workers,
		logger:  logger.With(zap.String("caller", "PortfolioEngine")),
	}
}

func (e *PortfolioEngine) Catalog() *config.Catalog {
	return e.catalog
}

func (e *PortfolioEngine) Assess(answers entities.QuestionnaireAnswers) (entities.Assessment, error) {
	a, err := risk.Assess(answers, e.catalog.Mapping, e.catalog.Categories, e.catalog.Recommendations)
	if err != nil {
		return entities.Assessment{}, err
	}

	metrics.Assessments.WithLabelValues(a.Category.ID).Inc()
	return a, nil
}

func (e *PortfolioEngine) Metrics(alloc entities.Allocation) (entities.PortfolioMetrics, error) {
	return simulation.Metrics(alloc, e.catalog.AssetMap())
}

// Simulate runs one simulation request. Without a seed a random one is drawn,
// so only seeded requests are repeatable.
func (e *PortfolioEngine) Simulate(ctx context.Context, req entities.SimulationReq) (entities.SimulationResp, error) {
	seed := rand.Uint64()
	if req.Seed != nil {
		seed = *req.Seed
	}

	return e.simulate(ctx, req, seed)
}

// Compare simulates every named allocation with the same parameters and seed.
func (e *PortfolioEngine) Compare(ctx context.Context, req entities.CompareReq) (entities.CompareResp, error) {
	if len(req.Allocations) == 0 {
		return entities.CompareResp{}, fmt.Errorf("%w: no allocations to compare", entities.ErrInvalidInput)
	}

	seed := rand.Uint64()
	if req.Seed != nil {
		seed = *req.Seed
	}

	names := make([]string, 0, len(req.Allocations))
	for name := range req.Allocations {
		names = append(names, name)
	}
	sort.Strings(names)

	out := entities.CompareResp{Results: make(map[string]entities.SimulationResp, len(req.Allocations))}
	for _, name := range names {
		resp, err := e.simulate(ctx, entities.SimulationReq{
			Allocation:        req.Allocations[name],
			Periods:           req.Periods,
			Trials:            req.Trials,
			PeriodsPerYear:    req.PeriodsPerYear,
			InitialInvestment: req.InitialInvestment,
		}, seed)
		if err != nil {
			return entities.CompareResp{}, fmt.Errorf("simulate %q: %w", name, err)
		}
		out.Results[name] = resp
	}

	return out, nil
}

func (e *PortfolioEngine) simulate(ctx context.Context, req entities.SimulationReq, seed uint64) (entities.SimulationResp, error) {
	logger := e.logger.With(zap.String("method", "Simulate"))

	if e.limits.MaxTrials > 0 && req.Trials > e.limits.MaxTrials {
		return entities.SimulationResp{}, fmt.Errorf("%w: trials %d above limit %d", entities.ErrInvalidInput, req.Trials, e.limits.MaxTrials)
	}
	if e.limits.MaxPeriods > 0 && req.Periods > e.limits.MaxPeriods {
		return entities.SimulationResp{}, fmt.Errorf("%w: periods %d above limit %d", entities.ErrInvalidInput, req.Periods, e.limits.MaxPeriods)
	}
	if req.PeriodsPerYear < 0 {
		return entities.SimulationResp{}, fmt.Errorf("%w: periods_per_year must not be negative", entities.ErrInvalidInput)
	}
	if req.InitialInvestment.IsNegative() {
		return entities.SimulationResp{}, fmt.Errorf("%w: initial_investment must not be negative", entities.ErrInvalidInput)
	}

	pm, err := simulation.Metrics(req.Allocation, e.catalog.AssetMap())
	if err != nil {
		return entities.SimulationResp{}, err
	}

	assets := simulation.PerPeriod(e.catalog.AssetMap(), req.PeriodsPerYear)

	start := time.Now()
	res, err := simulation.SimulateConcurrent(ctx, req.Allocation, assets, req.Periods, req.Trials, seed, e.workers)
	if err != nil {
		return entities.SimulationResp{}, err
	}
	elapsed := time.Since(start)

	metrics.SimulatedTrials.Add(float64(req.Trials))
	metrics.SimulationLatency.Observe(elapsed.Seconds())
	logger.Debug("finish simulation",
		zap.Int("trials", req.Trials),
		zap.Int("periods", req.Periods),
		zap.Duration("duration", elapsed))

	resp := entities.SimulationResp{
		Metrics:     pm,
		Summary:     simulation.Summarize(res),
		Performance: simulation.Performance(res, req.Periods, req.PeriodsPerYear),
	}
	if req.InitialInvestment.IsPositive() {
		p := simulation.Project(req.InitialInvestment, resp.Summary)
		resp.Projection = &p
	}
	if req.IncludeReturns {
		resp.Returns = res.Returns
	}

	return resp, nil
}
