package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(h PortfolioHandler, timeout time.Duration) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(timeout))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, h.Logger, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/assets", h.Assets)
	r.Route("/risk", func(r chi.Router) {
		r.Get("/categories", h.RiskCategories)
		r.Post("/assessment", h.AssessRisk)
	})
	r.Route("/portfolio", func(r chi.Router) {
		r.Post("/metrics", h.PortfolioMetrics)
		r.Post("/simulate", h.Simulate)
		r.Post("/simulate/async", h.SimulateAsync)
		r.Post("/compare", h.Compare)
	})

	return r
}
