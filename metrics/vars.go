package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	Assessments = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "advisor_risk_assessments_total",
		Help: "Risk assessments by resulting category",
	}, []string{"category"})

	Simulations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "advisor_simulations_total",
		Help: "Simulation runs by entry point",
	}, []string{"source"})

	SimulationErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "advisor_simulation_errors_total",
		Help: "Rejected or failed simulation runs by entry point",
	}, []string{"source"})

	SimulatedTrials = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "advisor_simulated_trials_total",
		Help: "Number of simulated trials",
	})

	SimulationLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "advisor_simulation_latency_seconds",
		Help:    "Time to run one simulation request",
		Buckets: prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(
		Assessments,
		Simulations,
		SimulationErrors,
		SimulatedTrials,
		SimulationLatency,
	)
}
