package cmd

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/glbter/distributed-systems/advisor/client/rabbit"
)

func dialRabbit(rabbitUrl string) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(rabbitUrl)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("open a channel: %w", err)
	}

	return conn, ch, nil
}

// connectAsync wires the async simulation client and starts routing replies.
func connectAsync(ctx context.Context, rabbitUrl string) (*rabbit.SimulationClient, func(), error) {
	conn, ch, err := dialRabbit(rabbitUrl)
	if err != nil {
		return nil, nil, err
	}
	closeAll := func() {
		ch.Close()
		conn.Close()
	}

	if err := rabbit.DeclareRequestQueue(ch); err != nil {
		closeAll()
		return nil, nil, err
	}

	client, err := rabbit.NewSimulationClient(ch)
	if err != nil {
		closeAll()
		return nil, nil, err
	}

	msgs, err := client.ReceiveSimulate()
	if err != nil {
		closeAll()
		return nil, nil, fmt.Errorf("initialize a reply consumer: %w", err)
	}
	go client.Dispatch(ctx, msgs)

	return client, closeAll, nil
}
