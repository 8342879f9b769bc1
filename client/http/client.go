package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/glbter/distributed-systems/advisor/entities"
)

// AdvisorClient calls the advisor HTTP API.
type AdvisorClient struct {
	url    string
	client *http.Client
	logger *zap.Logger
}

func NewClient(c *http.Client, url string, logger *zap.Logger) AdvisorClient {
	return AdvisorClient{
		url:    url,
		client: c,
		logger: logger.With(zap.String("caller", "AdvisorClient")),
	}
}

func (ac AdvisorClient) Assess(ctx context.Context, answers entities.QuestionnaireAnswers) (entities.Assessment, error) {
	var r entities.Assessment
	err := ac.post(ctx, "Assess", "/risk/assessment", entities.AssessmentReq{Answers: answers}, &r)
	return r, err
}

func (ac AdvisorClient) Simulate(ctx context.Context, req entities.SimulationReq) (entities.SimulationResp, error) {
	var r entities.SimulationResp
	err := ac.post(ctx, "Simulate", "/portfolio/simulate", req, &r)
	return r, err
}

func (ac AdvisorClient) Compare(ctx context.Context, req entities.CompareReq) (entities.CompareResp, error) {
	var r entities.CompareResp
	err := ac.post(ctx, "Compare", "/portfolio/compare", req, &r)
	return r, err
}

func (ac AdvisorClient) post(ctx context.Context, method, endpoint string, in, out any) error {
	logger := ac.logger.With(zap.String("method", method))

	start := time.Now()

	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshall request data: %w", err)
	}
	path, err := url.JoinPath(ac.url, endpoint)
	if err != nil {
		return fmt.Errorf("build request url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := ac.client.Do(req)
	logger.Debug("finish run", zap.String("path", path), zap.Duration("duration", time.Since(start)))
	if err != nil {
		return fmt.Errorf("send Post request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var e struct {
			Error     string `json:"error"`
			ErrorKind string `json:"error_kind"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&e); err != nil || e.Error == "" {
			return fmt.Errorf("responded with %v http code", resp.StatusCode)
		}
		return entities.KindError(e.ErrorKind, e.Error)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
