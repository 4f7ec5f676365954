package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/adaptiq/adaptiq-backend/internal/platform/logger"
)

type RabbitPublisher struct {
	log      *logger.Logger
	conn     *amqp091.Connection
	channel  *amqp091.Channel
	exchange string
	origin   string
}

func NewRabbitPublisher(cfg Config, log *logger.Logger) (*RabbitPublisher, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if cfg.RabbitURI == "" {
		return nil, fmt.Errorf("missing RABBITMQ_URI")
	}
	exchange := cfg.Exchange
	if exchange == "" {
		exchange = "adaptiq.events"
	}

	conn, err := amqp091.Dial(cfg.RabbitURI)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}
	err = channel.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		_ = channel.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	l := log.With("service", "RabbitEventPublisher", "exchange", exchange)
	l.Info("Event publisher initialized")
	return &RabbitPublisher{log: l, conn: conn, channel: channel, exchange: exchange, origin: cfg.Origin}, nil
}

// Publish routes on the event type, so consumers can bind "profile.*".
func (p *RabbitPublisher) Publish(ctx context.Context, e Event) error {
	if e.Origin == "" {
		e.Origin = p.origin
	}
	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	err = p.channel.PublishWithContext(ctx,
		p.exchange,     // exchange
		string(e.Type), // routing key
		false,          // mandatory
		false,          // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
			Headers: amqp091.Table{
				"event_type": string(e.Type),
				"user_id":    e.UserID,
			},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	p.log.Debug("Published event", "event_type", e.Type, "user_id", e.UserID)
	return nil
}

func (p *RabbitPublisher) Close() error {
	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			p.log.Warn("Error closing RabbitMQ channel", "error", err)
		}
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			return fmt.Errorf("error closing RabbitMQ connection: %w", err)
		}
	}
	return nil
}
