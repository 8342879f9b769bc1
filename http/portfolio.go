package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/glbter/distributed-systems/advisor/engine"
	"github.com/glbter/distributed-systems/advisor/entities"
	"github.com/glbter/distributed-systems/advisor/metrics"
)

// AsyncSimulator hands a simulation to a remote worker and waits for the reply.
type AsyncSimulator interface {
	Simulate(ctx context.Context, req entities.SimulationReq, cid string, isVip bool) (entities.SimulationResp, error)
}

type PortfolioHandler struct {
	Logger               *zap.Logger
	PortfolioEngine      *engine.PortfolioEngine
	PortfolioEngineAsync AsyncSimulator // nil disables the async endpoint
}

func (h PortfolioHandler) Assets(w http.ResponseWriter, r *http.Request) {
	lang := r.URL.Query().Get("lang")
	writeJSON(w, h.Logger, http.StatusOK, h.PortfolioEngine.Catalog().Localized(lang))
}

func (h PortfolioHandler) RiskCategories(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, h.Logger, http.StatusOK, h.PortfolioEngine.Catalog().Categories)
}

func (h PortfolioHandler) AssessRisk(w http.ResponseWriter, r *http.Request) {
	logger := h.Logger.With(zap.String("method", "AssessRisk"))

	var req entities.AssessmentReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, logger, fmt.Errorf("%w: decode request: %v", entities.ErrInvalidInput, err))
		return
	}

	res, err := h.PortfolioEngine.Assess(req.Answers)
	if err != nil {
		writeError(w, logger, fmt.Errorf("assess risk: %w", err))
		return
	}

	writeJSON(w, logger, http.StatusOK, res)
}

func (h PortfolioHandler) PortfolioMetrics(w http.ResponseWriter, r *http.Request) {
	logger := h.Logger.With(zap.String("method", "PortfolioMetrics"))

	var req entities.MetricsReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, logger, fmt.Errorf("%w: decode request: %v", entities.ErrInvalidInput, err))
		return
	}

	res, err := h.PortfolioEngine.Metrics(req.Allocation)
	if err != nil {
		writeError(w, logger, fmt.Errorf("portfolio metrics: %w", err))
		return
	}

	writeJSON(w, logger, http.StatusOK, res)
}

func (h PortfolioHandler) Simulate(w http.ResponseWriter, r *http.Request) {
	logger := h.Logger.With(zap.String("method", "Simulate"))
	metrics.Simulations.WithLabelValues("http").Inc()

	var req entities.SimulationReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		metrics.SimulationErrors.WithLabelValues("http").Inc()
		writeError(w, logger, fmt.Errorf("%w: decode request: %v", entities.ErrInvalidInput, err))
		return
	}

	start := time.Now()
	res, err := h.PortfolioEngine.Simulate(r.Context(), req)
	if err != nil {
		metrics.SimulationErrors.WithLabelValues("http").Inc()
		writeError(w, logger, fmt.Errorf("simulate portfolio: %w", err))
		return
	}
	logger.Info("finish run", zap.Int("trials", req.Trials), zap.Duration("duration", time.Since(start)))

	writeJSON(w, logger, http.StatusOK, res)
}

func (h PortfolioHandler) Compare(w http.ResponseWriter, r *http.Request) {
	logger := h.Logger.With(zap.String("method", "Compare"))
	metrics.Simulations.WithLabelValues("compare").Inc()

	var req entities.CompareReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		metrics.SimulationErrors.WithLabelValues("compare").Inc()
		writeError(w, logger, fmt.Errorf("%w: decode request: %v", entities.ErrInvalidInput, err))
		return
	}

	res, err := h.PortfolioEngine.Compare(r.Context(), req)
	if err != nil {
		metrics.SimulationErrors.WithLabelValues("compare").Inc()
		writeError(w, logger, fmt.Errorf("compare portfolios: %w", err))
		return
	}

	writeJSON(w, logger, http.StatusOK, res)
}

func (h PortfolioHandler) SimulateAsync(w http.ResponseWriter, r *http.Request) {
	cid := uuid.New().String()
	logger := h.Logger.With(zap.String("method", "SimulateAsync"), zap.String("cid", cid))
	metrics.Simulations.WithLabelValues("async").Inc()

	if h.PortfolioEngineAsync == nil {
		writeJSON(w, logger, http.StatusServiceUnavailable, errorResp{Error: "async simulation is not configured"})
		return
	}

	isVip := false
	if vip := r.URL.Query().Get("is_vip"); vip != "" {
		var err error
		isVip, err = strconv.ParseBool(vip)
		if err != nil {
			writeError(w, logger, fmt.Errorf("%w: parse is_vip: %v", entities.ErrInvalidInput, err))
			return
		}
	}

	var req entities.SimulationReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		metrics.SimulationErrors.WithLabelValues("async").Inc()
		writeError(w, logger, fmt.Errorf("%w: decode request: %v", entities.ErrInvalidInput, err))
		return
	}

	logger.Info("start run async")
	start := time.Now()
	res, err := h.PortfolioEngineAsync.Simulate(r.Context(), req, cid, isVip)
	if err != nil {
		metrics.SimulationErrors.WithLabelValues("async").Inc()
		writeError(w, logger, fmt.Errorf("simulate portfolio async: %w", err))
		return
	}
	logger.Info("finish run async", zap.Duration("duration", time.Since(start)))

	writeJSON(w, logger, http.StatusOK, res)
}

type errorResp struct {
	Error     string `json:"error"`
	ErrorKind string `json:"error_kind,omitempty"`
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, entities.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, entities.ErrConfiguration):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, logger *zap.Logger, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error(err.Error())
	} else {
		logger.Info("request rejected", zap.Error(err))
	}

	writeJSON(w, logger, status, errorResp{Error: err.Error(), ErrorKind: entities.ErrorKind(err)})
}

func writeJSON(w http.ResponseWriter, logger *zap.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error(fmt.Errorf("encode response: %w", err).Error())
	}
}
