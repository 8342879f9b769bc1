package rabbit

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/glbter/distributed-systems/advisor/entities"
)

const (
	SIMULATION_QUEUE_REQ = "simulation_req"

	maxPriority = 3
)

// Channel is the subset of *amqp.Channel used by the client and the worker.
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
}

// DeclareRequestQueue declares the priority queue simulation requests go to.
func DeclareRequestQueue(ch Channel) error {
	args := amqp.Table{"x-max-priority": int32(maxPriority)}
	if _, err := ch.QueueDeclare(
		SIMULATION_QUEUE_REQ, // name
		true,                 // durable
		false,                // delete when unused
		false,                // exclusive
		false,                // noWait
		args,                 // arguments
	); err != nil {
		return fmt.Errorf("declare a queue for simulation request: %w", err)
	}

	return nil
}

// SimulationClient publishes simulation requests and matches replies to
// waiting callers by correlation id.
type SimulationClient struct {
	channel Channel
	replyTo string

	mu      sync.Mutex
	pending map[string]chan amqp.Delivery
}

// NewSimulationClient declares an exclusive reply queue for this process.
func NewSimulationClient(channel Channel) (*SimulationClient, error) {
	q, err := channel.QueueDeclare(
		"",    // name
		false, // durable
		true,  // delete when unused
		true,  // exclusive
		false, // noWait
		nil,   // arguments
	)
	if err != nil {
		return nil, fmt.Errorf("declare a reply queue: %w", err)
	}

	return &SimulationClient{
		channel: channel,
		replyTo: q.Name,
		pending: make(map[string]chan amqp.Delivery),
	}, nil
}

func (c *SimulationClient) StartSimulate(ctx context.Context, req entities.SimulationReq, cid string, isVipUser bool) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal simulation request: %w", err)
	}

	return c.channel.PublishWithContext(ctx,
		"",                   // exchange
		SIMULATION_QUEUE_REQ, // routing key
		false,                // mandatory
		false,                // immediate
		amqp.Publishing{
			ContentType:   "application/json",
			CorrelationId: cid,
			ReplyTo:       c.replyTo,
			Body:          body,
			Priority:      c.userPriority(isVipUser),
		})
}

func (c *SimulationClient) userPriority(isVip bool) uint8 {
	if isVip {
		return maxPriority
	}

	return 1
}

func (c *SimulationClient) ReceiveSimulate() (<-chan amqp.Delivery, error) {
	msgs, err := c.channel.Consume(
		c.replyTo, // queue
		"",        // consumer
		true,      // auto-ack
		true,      // exclusive
		false,     // no-local
		false,     // no-wait
		nil,       // args
	)
	if err != nil {
		return nil, err
	}

	return msgs, nil
}

// Dispatch routes replies to the callers waiting in Simulate until msgs is
// closed or ctx is done. Replies nobody waits for are dropped.
func (c *SimulationClient) Dispatch(ctx context.Context, msgs <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-msgs:
			if !ok {
				return
			}
			c.mu.Lock()
			waiter, found := c.pending[d.CorrelationId]
			delete(c.pending, d.CorrelationId)
			c.mu.Unlock()

			if found {
				waiter <- d
			}
		}
	}
}

// Simulate publishes req and blocks until the matching reply arrives or ctx is done.
func (c *SimulationClient) Simulate(ctx context.Context, req entities.SimulationReq, cid string, isVip bool) (entities.SimulationResp, error) {
	waiter := make(chan amqp.Delivery, 1)
	c.mu.Lock()
	c.pending[cid] = waiter
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.pending, cid)
		c.mu.Unlock()
	}()

	if err := c.StartSimulate(ctx, req, cid, isVip); err != nil {
		return entities.SimulationResp{}, fmt.Errorf("publish simulation request: %w", err)
	}

	select {
	case <-ctx.Done():
		return entities.SimulationResp{}, fmt.Errorf("await simulation reply: %w", ctx.Err())
	case d := <-waiter:
		var resp entities.SimulationResp
		if err := json.Unmarshal(d.Body, &resp); err != nil {
			return entities.SimulationResp{}, fmt.Errorf("decode simulation reply: %w", err)
		}
		if resp.Error != "" {
			return entities.SimulationResp{}, entities.KindError(resp.ErrorKind, resp.Error)
		}
		return resp, nil
	}
}
