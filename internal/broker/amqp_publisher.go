package broker

import (
	"context"
	"fmt"
	"time"

	"github.com/HoussamEddineSmati/SpendKiler/internal/websocket"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

const (
	// PublishTimeout bounds a single publish so a stalled broker never blocks a request
	PublishTimeout = 5 * time.Second
	maxBackoff     = 30 * time.Second
)

// channel is the subset of *amqp.Channel the publisher needs
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPPublisher forwards domain events to a topic exchange, routed by event type
type AMQPPublisher struct {
	conn     *amqp.Connection
	ch       channel
	exchange string
	logger   zerolog.Logger
	now      func() time.Time
}

var _ websocket.EventPublisher = (*AMQPPublisher)(nil)

// NewAMQPPublisher dials the broker, retrying with backoff up to attempts times,
// and declares the durable topic exchange.
func NewAMQPPublisher(ctx context.Context, url, exchange string, attempts int, logger zerolog.Logger) (*AMQPPublisher, error) {
	if attempts < 1 {
		attempts = 1
	}

	var conn *amqp.Connection
	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		conn, err = amqp.Dial(url)
		if err == nil {
			break
		}
		if attempt == attempts-1 {
			return nil, fmt.Errorf("dial AMQP: %w", err)
		}
		wait := exponentialBackoff(attempt)
		logger.Warn().Err(err).Int("attempt", attempt+1).Dur("retry_in", wait).Msg("AMQP dial failed")
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	p := newPublisher(ch, exchange, logger)
	p.conn = conn
	return p, nil
}

func newPublisher(ch channel, exchange string, logger zerolog.Logger) *AMQPPublisher {
	return &AMQPPublisher{
		ch:       ch,
		exchange: exchange,
		logger:   logger.With().Str("component", "amqp_publisher").Logger(),
		now:      time.Now,
	}
}

// Publish implements websocket.EventPublisher. Failures are logged, never returned,
// so the write that produced the event is not rolled back.
func (p *AMQPPublisher) Publish(event websocket.Event) {
	msg, err := p.message(event)
	if err != nil {
		p.logger.Error().Err(err).Str("type", event.Type).Msg("Failed to encode event")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), PublishTimeout)
	defer cancel()

	if err := p.ch.PublishWithContext(ctx, p.exchange, RoutingKey(event), false, false, msg); err != nil {
		p.logger.Error().Err(err).Str("type", event.Type).Msg("Failed to publish event")
		return
	}

	p.logger.Debug().Str("type", event.Type).Str("exchange", p.exchange).Msg("Published event")
}

func (p *AMQPPublisher) message(event websocket.Event) (amqp.Publishing, error) {
	body, err := event.ToJSON()
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("marshal event: %w", err)
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    p.now(),
		Type:         event.Type,
		Body:         body,
	}, nil
}

// Close closes the channel and the connection
func (p *AMQPPublisher) Close() error {
	if p.ch != nil {
		p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// RoutingKey is the event type, e.g. "expense.created"
func RoutingKey(event websocket.Event) string {
	return event.Type
}

// exponentialBackoff returns 1s, 2s, 4s... capped at 30s
func exponentialBackoff(attempt int) time.Duration {
	if attempt > 5 {
		return maxBackoff
	}
	d := time.Second << attempt
	if d > maxBackoff {
		return maxBackoff
	}
	return d
}
