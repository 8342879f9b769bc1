package rabbit_test

import (
	"context"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

// fakeChannel records publishes and hands every published message to onPublish.
type fakeChannel struct {
	mu        sync.Mutex
	published []amqp.Publishing
	keys      []string
	declared  []string
	durable   []bool
	onPublish func(key string, msg amqp.Publishing)
	err       error
}

func (f *fakeChannel) PublishWithContext(_ context.Context, _, key string, _, _ bool, msg amqp.Publishing) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	f.published = append(f.published, msg)
	f.keys = append(f.keys, key)
	cb := f.onPublish
	f.mu.Unlock()

	if cb != nil {
		cb(key, msg)
	}
	return nil
}

func (f *fakeChannel) Consume(string, string, bool, bool, bool, bool, amqp.Table) (<-chan amqp.Delivery, error) {
	return make(chan amqp.Delivery), nil
}

func (f *fakeChannel) QueueDeclare(name string, durable, _, _, _ bool, _ amqp.Table) (amqp.Queue, error) {
	if name == "" {
		name = "amq.gen-reply"
	}
	f.mu.Lock()
	f.declared = append(f.declared, name)
	f.durable = append(f.durable, durable)
	f.mu.Unlock()

	return amqp.Queue{Name: name}, nil
}
