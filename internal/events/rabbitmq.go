package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// channel is the subset of *amqp.Channel used for publishing
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// RabbitMQPublisher publishes events to a durable topic exchange
type RabbitMQPublisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	ch       channel
	exchange string
	logger   *zap.Logger
}

// NewRabbitMQPublisher dials the broker and declares the exchange
func NewRabbitMQPublisher(url, exchange string, logger *zap.Logger) (*RabbitMQPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}

	logger.Info("RabbitMQ event publisher ready", zap.String("exchange", exchange))

	p := NewRabbitMQPublisherWithChannel(ch, exchange, logger)
	p.conn = conn
	return p, nil
}

// NewRabbitMQPublisherWithChannel publishes over an already opened channel
func NewRabbitMQPublisherWithChannel(ch channel, exchange string, logger *zap.Logger) *RabbitMQPublisher {
	return &RabbitMQPublisher{ch: ch, exchange: exchange, logger: logger}
}

// Publish sends a persistent JSON message routed by the event type
func (p *RabbitMQPublisher) Publish(ctx context.Context, eventType string, payload interface{}) error {
	envelope := NewEnvelope(eventType, payload)
	body, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", eventType, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.ch.PublishWithContext(ctx, p.exchange, eventType, false, false, amqp.Publishing{
		ContentType:  "application/json",
		MessageId:    envelope.ID.String(),
		Timestamp:    envelope.OccurredAt,
		Type:         eventType,
		Body:         body,
		DeliveryMode: amqp.Persistent,
	})
	if err != nil {
		return fmt.Errorf("failed to publish %s event: %w", eventType, err)
	}

	p.logger.Debug("Event published",
		zap.String("type", eventType),
		zap.String("event_id", envelope.ID.String()),
	)
	return nil
}

// Close closes the broker connection
func (p *RabbitMQPublisher) Close() error {
	if p.conn == nil {
		return nil
	}
	return p.conn.Close()
}
