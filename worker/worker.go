package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/glbter/distributed-systems/advisor/client/rabbit"
	"github.com/glbter/distributed-systems/advisor/engine"
	"github.com/glbter/distributed-systems/advisor/entities"
	"github.com/glbter/distributed-systems/advisor/metrics"
)

// SimulationWorker serves simulation requests from the request queue and
// publishes each reply to the queue named in ReplyTo.
type SimulationWorker struct {
	channel rabbit.Channel
	engine  *engine.PortfolioEngine
	timeout time.Duration
	logger  *zap.Logger
}

// NewSimulationWorker builds a worker; timeout bounds one request, zero means no bound.
func NewSimulationWorker(channel rabbit.Channel, e *engine.PortfolioEngine, timeout time.Duration, logger *zap.Logger) *SimulationWorker {
	return &SimulationWorker{
		channel: channel,
		engine:  e,
		timeout: timeout,
		logger:  logger.With(zap.String("caller", "SimulationWorker")),
	}
}

// Run consumes requests until ctx is done or the delivery channel closes,
// then waits for in-flight requests. Cancelling ctx stops consuming only;
// requests already received run to completion.
func (w *SimulationWorker) Run(ctx context.Context) error {
	if err := rabbit.DeclareRequestQueue(w.channel); err != nil {
		return err
	}

	msgs, err := w.channel.Consume(
		rabbit.SIMULATION_QUEUE_REQ, // queue
		"",                          // consumer
		false,                       // auto-ack
		false,                       // exclusive
		false,                       // no-local
		false,                       // no-wait
		nil,                         // args
	)
	if err != nil {
		return fmt.Errorf("initialize a consumer: %w", err)
	}

	w.logger.Info("worker is starting")

	handleCtx := context.WithoutCancel(ctx)

	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			wg.Add(1)
			go func(msg amqp.Delivery) {
				defer wg.Done()
				w.Handle(handleCtx, msg)
			}(msg)
		}
	}
}

// Handle processes one delivery: the reply is published and the delivery
// acked on success, or rejected without requeue on failure. A delivery
// whose ctx is cancelled before the simulation ends is requeued unanswered.
func (w *SimulationWorker) Handle(ctx context.Context, msg amqp.Delivery) {
	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}

	var (
		start  = time.Now()
		cid    = msg.CorrelationId
		logger = w.logger.With(zap.String("cid", cid))
	)

	logger.Info("start processing of request")
	metrics.Simulations.WithLabelValues("worker").Inc()

	var req entities.SimulationReq
	if err := json.Unmarshal(msg.Body, &req); err != nil {
		w.fail(ctx, logger, msg, fmt.Errorf("%w: decode request: %v", entities.ErrInvalidInput, err))
		return
	}

	resp, err := w.engine.Simulate(ctx, req)
	if errors.Is(err, context.Canceled) {
		logger.Warn("request cancelled, requeue")
		if err := msg.Nack(false, true); err != nil {
			logger.Error(fmt.Errorf("requeue request: %w", err).Error())
		}
		return
	}
	if err != nil {
		w.fail(ctx, logger, msg, fmt.Errorf("simulate portfolio: %w", err))
		return
	}

	if err := w.reply(ctx, msg, resp); err != nil {
		logger.Error(err.Error())
		metrics.SimulationErrors.WithLabelValues("worker").Inc()
		if err := msg.Reject(false); err != nil {
			logger.Error(fmt.Errorf("reject request: %w", err).Error())
		}
		return
	}

	if err := msg.Ack(false); err != nil {
		logger.Error(fmt.Errorf("acknowledge request: %w", err).Error())
		return
	}
	logger.Info("finish", zap.Duration("duration", time.Since(start)))
}

func (w *SimulationWorker) fail(ctx context.Context, logger *zap.Logger, msg amqp.Delivery, err error) {
	logger.Error(err.Error())
	metrics.SimulationErrors.WithLabelValues("worker").Inc()

	resp := entities.SimulationResp{Error: err.Error(), ErrorKind: entities.ErrorKind(err)}
	if err := w.reply(ctx, msg, resp); err != nil {
		logger.Error(err.Error())
	}
	if err := msg.Reject(false); err != nil {
		logger.Error(fmt.Errorf("reject request: %w", err).Error())
	}
}

func (w *SimulationWorker) reply(ctx context.Context, msg amqp.Delivery, resp entities.SimulationResp) error {
	if msg.ReplyTo == "" {
		return fmt.Errorf("request %s has no reply queue", msg.CorrelationId)
	}

	body, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("marshal simulation response: %w", err)
	}

	if err := w.channel.PublishWithContext(ctx,
		"",          // exchange
		msg.ReplyTo, // routing key
		false,       // mandatory
		false,       // immediate
		amqp.Publishing{
			ContentType:   "application/json",
			CorrelationId: msg.CorrelationId,
			Body:          body,
			Priority:      msg.Priority,
		}); err != nil {
		return fmt.Errorf("publish simulation response: %w", err)
	}

	return nil
}
