package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sony/gobreaker"

	"github.com/aryan0dhankhar/medops/internal/observability/metrics"
	"github.com/aryan0dhankhar/medops/internal/reliability/circuitbreaker"
)

// AMQPPublisher sends changes to a durable RabbitMQ queue for downstream
// consumers such as reporting jobs.
type AMQPPublisher struct {
	conn      *amqp.Connection
	ch        *amqp.Channel
	queueName string
	cb        *gobreaker.CircuitBreaker
	logger    *slog.Logger
}

func NewAMQPPublisher(amqpURL, queueName string, logger *slog.Logger) (*AMQPPublisher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial amqp: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open amqp channel: %w", err)
	}

	_, err = ch.QueueDeclare(
		queueName,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue %s: %w", queueName, err)
	}

	logger.Info("amqp change publisher ready", slog.String("queue", queueName))
	return &AMQPPublisher{
		conn:      conn,
		ch:        ch,
		queueName: queueName,
		cb:        circuitbreaker.New("amqp-changes", logger),
		logger:    logger,
	}, nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, c Change) error {
	body, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal change: %w", err)
	}

	err = circuitbreaker.Execute(p.cb, func() error {
		return p.ch.PublishWithContext(ctx,
			"",          // default exchange
			p.queueName, // routing key == queue name
			false,
			false,
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent,
				Timestamp:    c.At,
				Type:         string(c.Op),
				Body:         body,
			},
		)
	})
	if err != nil {
		metrics.ObserveChangeEvent("amqp", "error")
		return fmt.Errorf("failed to publish change: %w", err)
	}
	metrics.ObserveChangeEvent("amqp", "ok")
	return nil
}

func (p *AMQPPublisher) Close() error {
	if p.ch != nil {
		if err := p.ch.Close(); err != nil {
			return err
		}
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
