package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	POST_CREATED_QUEUE = "post.created"
	POST_UPDATED_QUEUE = "post.updated"
	POST_DELETED_QUEUE = "post.deleted"
)

var queues = []string{
	POST_CREATED_QUEUE,
	POST_UPDATED_QUEUE,
	POST_DELETED_QUEUE,
}

type MQConn struct {
	conn *amqp.Connection
	mu   sync.Mutex
	ch   *amqp.Channel
}

// New dials the broker and declares every queue the service publishes to, so that
// messages are kept even before a consumer attaches.
func New(url string) (*MQConn, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	for _, queue := range queues {
		if _, err := ch.QueueDeclare(
			queue, // name
			true,  // durable
			false, // delete when unused
			false, // exclusive
			false, // no-wait
			nil,   // arguments
		); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to declare queue(%s): %w", queue, err)
		}
	}

	return &MQConn{
		conn: conn,
		ch:   ch,
	}, nil
}

// Publish sends v as a persistent JSON message to queue through the default exchange.
func (c *MQConn) Publish(ctx context.Context, queue string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	return c.ch.PublishWithContext(
		ctx,
		"",    // exchange
		queue, // routing key
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}

// Consume opens a dedicated channel for queue with manual acknowledgement.
func (c *MQConn) Consume(queue string) (<-chan amqp.Delivery, error) {
	ch, err := c.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := ch.Qos(1, 0, false); err != nil {
		ch.Close()
		return nil, fmt.Errorf("failed to set QoS: %w", err)
	}

	msgs, err := ch.Consume(
		queue, // queue
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		ch.Close()
		return nil, fmt.Errorf("failed to register consumer: %w", err)
	}

	return msgs, nil
}

func (c *MQConn) Close() error {
	return c.conn.Close()
}
