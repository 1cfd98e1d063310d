package mq

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Queue names shared by publishers and consumers.
const (
	EngagementQueue = "engagement_events"
	CampaignQueue   = "campaign_send"
)

type RabbitMQ struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

// New dials the broker and opens one channel. Queues are declared lazily on
// first publish or consume.
func New(url string) (*RabbitMQ, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	return &RabbitMQ{conn: conn, channel: ch}, nil
}

func (r *RabbitMQ) declare(queue string) error {
	_, err := r.channel.QueueDeclare(queue, true, false, false, false, nil)
	return err
}

// Publish sends a persistent JSON message to the named queue. A nil receiver
// is a no-op so callers degrade gracefully when the broker is down.
func (r *RabbitMQ) Publish(queue string, body []byte) error {
	if r == nil {
		return nil
	}
	if err := r.declare(queue); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return r.channel.PublishWithContext(ctx, "", queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
}

func (r *RabbitMQ) Consume(queue string) (<-chan amqp.Delivery, error) {
	if err := r.declare(queue); err != nil {
		return nil, err
	}
	return r.channel.Consume(queue, "", true, false, false, false, nil)
}

func (r *RabbitMQ) Close() {
	if r == nil {
		return
	}
	if r.channel != nil {
		r.channel.Close()
	}
	if r.conn != nil {
		r.conn.Close()
	}
}
