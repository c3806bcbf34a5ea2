// Package rabbitmq publishes order lifecycle events to a RabbitMQ exchange.
// Delivery is fire-and-forget: callers log publish failures but never fail
// a business operation because a notification did not go out.
package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Exchange is the topic exchange order events are published to.
// Routing keys are status names, so consumers can bind to the slice of the
// lifecycle they care about (e.g. "delivered" for receipts).
const Exchange = "order-events"

// Notifier implements ports.NotificationPublisher on top of a RabbitMQ
// connection. Safe for concurrent use; publishes are serialized over one
// channel.
type Notifier struct {
	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

// NewNotifier dials RabbitMQ, opens a channel and declares the order events
// exchange. The exchange is durable so bindings survive broker restarts.
func NewNotifier(url string) (*Notifier, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open rabbitmq channel: %w", err)
	}

	if err := ch.ExchangeDeclare(Exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", Exchange, err)
	}

	return &Notifier{conn: conn, ch: ch}, nil
}

// PublishOrderEvent publishes the order's latest transition as a JSON message
// routed by status name.
func (n *Notifier) PublishOrderEvent(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	history := aggregate.History()
	notification := ports.OrderNotification{
		OrderID: aggregate.ID().String(),
		Status:  aggregate.Status().String(),
	}
	if len(history) > 0 {
		last := history[len(history)-1]
		notification.OccurredAt = last.At.UTC().Format(time.RFC3339)
		notification.Note = last.Note
	}

	body, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("marshal order notification: %w", err)
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	return n.ch.PublishWithContext(ctx,
		Exchange,
		aggregate.Status().String(),
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}

// Close shuts down the channel and connection.
func (n *Notifier) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.ch != nil && !n.ch.IsClosed() {
		if err := n.ch.Close(); err != nil {
			return fmt.Errorf("close rabbitmq channel: %w", err)
		}
	}
	if n.conn != nil && !n.conn.IsClosed() {
		if err := n.conn.Close(); err != nil {
			return fmt.Errorf("close rabbitmq connection: %w", err)
		}
	}
	return nil
}
