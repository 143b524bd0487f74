package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/noah-isme/storefront/internal/db"
	dbgen "github.com/noah-isme/storefront/internal/db/gen"
	"github.com/noah-isme/storefront/internal/obs"
	"github.com/noah-isme/storefront/internal/resilience"
)

// DefaultExchange is the topic exchange events are published to.
const DefaultExchange = "storefront.events"

type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// AMQPPublisher forwards stored events to a RabbitMQ topic exchange using the
// event topic as routing key.
type AMQPPublisher struct {
	Channel  amqpChannel
	Exchange string
	Timeout  time.Duration
	// Breaker stops publish attempts while the broker keeps failing.
	Breaker *resilience.Breaker
}

type envelope struct {
	ID          string          `json:"id"`
	Topic       string          `json:"topic"`
	AggregateID string          `json:"aggregateId"`
	OccurredAt  time.Time       `json:"occurredAt"`
	Payload     json.RawMessage `json:"payload"`
}

// Notify implements Notifier.
func (p *AMQPPublisher) Notify(ctx context.Context, event dbgen.DomainEvent) error {
	if p == nil || p.Channel == nil {
		return nil
	}
	body, err := json.Marshal(envelope{
		ID:          db.UUIDString(event.ID),
		Topic:       event.Topic,
		AggregateID: db.UUIDString(event.AggregateID),
		OccurredAt:  event.OccurredAt.Time.UTC(),
		Payload:     json.RawMessage(event.Payload),
	})
	if err != nil {
		return fmt.Errorf("marshal %s: %w", event.Topic, err)
	}
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	pubCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	publish := func(ctx context.Context) error {
		return p.Channel.PublishWithContext(ctx, p.exchange(), event.Topic, false, false, amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    db.UUIDString(event.ID),
			Timestamp:    event.OccurredAt.Time,
			Body:         body,
		})
	}
	if p.Breaker != nil {
		err = p.Breaker.Do(pubCtx, publish)
	} else {
		err = publish(pubCtx)
	}
	if err != nil {
		obs.IncEventPublished("amqp", "error")
		return fmt.Errorf("publish %s: %w", event.Topic, err)
	}
	obs.IncEventPublished("amqp", "ok")
	return nil
}

func (p *AMQPPublisher) exchange() string {
	if p.Exchange == "" {
		return DefaultExchange
	}
	return p.Exchange
}

// DialAMQP connects to the broker, declares a durable topic exchange and
// returns a publisher plus a close function.
func DialAMQP(url, exchange string) (*AMQPPublisher, func() error, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("dial amqp: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("open channel: %w", err)
	}
	pub := &AMQPPublisher{Channel: ch, Exchange: exchange}
	if err := ch.ExchangeDeclare(pub.exchange(), "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, fmt.Errorf("declare exchange: %w", err)
	}
	closeFn := func() error {
		_ = ch.Close()
		return conn.Close()
	}
	return pub, closeFn, nil
}
