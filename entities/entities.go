package entities

import "github.com/shopspring/decimal"

type AssetClass struct {
	Name           string  `json:"name" yaml:"name"`
	DisplayName    string  `json:"display_name,omitempty" yaml:"display_name"`
	ExpectedReturn float64 `json:"expected_return" yaml:"expected_return"`
	Risk           float64 `json:"risk" yaml:"risk"`
	Description    string  `json:"description" yaml:"description"`
}

// Allocation maps an asset class name to its portfolio weight.
// Assets that are not present have zero weight.
type Allocation map[string]float64

type QuestionnaireAnswers map[string]string

// RiskScoreMapping holds question -> option -> points.
type RiskScoreMapping map[string]map[string]int

// RiskCategory covers every score up to MaxScore inclusive.
// An Unbounded category covers every score.
type RiskCategory struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	MaxScore  int    `json:"max_score"`
	Unbounded bool   `json:"unbounded,omitempty"`
}

// RecommendedAllocations maps a risk category id to its allocation.
type RecommendedAllocations map[string]Allocation

// SimulationResult holds per-trial values in trial order. MaxDrawdowns and
// PeriodStdDevs may be empty when only returns are known.
type SimulationResult struct {
	Returns       []float64 `json:"returns"`
	MaxDrawdowns  []float64 `json:"max_drawdowns,omitempty"`
	PeriodStdDevs []float64 `json:"period_std_devs,omitempty"`
}

type Assessment struct {
	Score          int          `json:"score"`
	Category       RiskCategory `json:"category"`
	Recommendation Allocation   `json:"recommendation"`
}

type PortfolioMetrics struct {
	ExpectedReturn float64 `json:"expected_return"`
	Risk           float64 `json:"risk"`
	ReturnToRisk   float64 `json:"return_to_risk"`
}

type SimulationSummary struct {
	Trials int     `json:"trials"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	P5     float64 `json:"p5"`
	P25    float64 `json:"p25"`
	P50    float64 `json:"p50"`
	P75    float64 `json:"p75"`
	P95    float64 `json:"p95"`
}

// PerformanceMetrics describes the simulated paths on an annual basis.
type PerformanceMetrics struct {
	TotalReturn      float64 `json:"total_return"`
	AnnualizedReturn float64 `json:"annualized_return"`
	Volatility       float64 `json:"volatility"`
	SharpeRatio      float64 `json:"sharpe_ratio"`
	MaxDrawdown      float64 `json:"max_drawdown"`
	WorstDrawdown    float64 `json:"worst_drawdown"`
	ReturnToRisk     float64 `json:"return_to_risk"`
}

// Projection is the value of an initial investment at the summary percentiles.
type Projection struct {
	Initial decimal.Decimal `json:"initial"`
	Mean    decimal.Decimal `json:"mean"`
	P5      decimal.Decimal `json:"p5"`
	P50     decimal.Decimal `json:"p50"`
	P95     decimal.Decimal `json:"p95"`
}

type AssessmentReq struct {
	Answers QuestionnaireAnswers `json:"answers"`
}

type MetricsReq struct {
	Allocation Allocation `json:"allocation"`
}

type SimulationReq struct {
	Allocation        Allocation      `json:"allocation"`
	Periods           int             `json:"periods"`
	Trials            int             `json:"trials"`
	Seed              *uint64         `json:"seed,omitempty"`
	PeriodsPerYear    int             `json:"periods_per_year,omitempty"`
	InitialInvestment decimal.Decimal `json:"initial_investment"`
	IncludeReturns    bool            `json:"include_returns,omitempty"`
}

type SimulationResp struct {
	Metrics     PortfolioMetrics   `json:"metrics"`
	Summary     SimulationSummary  `json:"summary"`
	Performance PerformanceMetrics `json:"performance"`
	Projection  *Projection        `json:"projection,omitempty"`
	Returns     []float64          `json:"returns,omitempty"`
	Error       string             `json:"error,omitempty"`
	ErrorKind   string             `json:"error_kind,omitempty"`
}

type CompareReq struct {
	Allocations       map[string]Allocation `json:"allocations"`
	Periods           int                   `json:"periods"`
	Trials            int                   `json:"trials"`
	Seed              *uint64               `json:"seed,omitempty"`
	PeriodsPerYear    int                   `json:"periods_per_year,omitempty"`
	InitialInvestment decimal.Decimal       `json:"initial_investment"`
}

type CompareResp struct {
	Results map[string]SimulationResp `json:"results"`
}
