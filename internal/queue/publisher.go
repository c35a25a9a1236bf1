package queue

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

const eventQueueName = "intake.events"

// Publisher pushes domain events to the intake.events queue. Errors are
// logged and returned so callers can ignore failures without interrupting
// the main conversation flow.
type Publisher struct {
	url string
	log zerolog.Logger
}

// NewPublisher returns a publisher that dials the broker per publish. The
// event volume here is a handful of messages per conversation, so a pooled
// channel is not worth the bookkeeping.
func NewPublisher(url string, log zerolog.Logger) *Publisher {
	return &Publisher{url: url, log: log.With().Str("component", "queue").Logger()}
}

// Publish stamps and delivers one event. Messages are marked persistent so
// they survive broker restarts.
func (p *Publisher) Publish(ctx context.Context, event Event) error {
	if event.OccurredAt == "" {
		event.OccurredAt = time.Now().UTC().Format(time.RFC3339)
	}

	conn, err := amqp.Dial(p.url)
	if err != nil {
		p.log.Error().Err(err).Msg("dial broker failed")
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.log.Error().Err(err).Msg("channel open failed")
		return err
	}
	defer func() { _ = ch.Close() }()

	// Idempotent declare. Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(eventQueueName, true, false, false, false, nil); err != nil {
		p.log.Error().Err(err).Msg("queue declare failed")
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		p.log.Error().Err(err).Msg("marshal event failed")
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx, "", eventQueueName, false, false, pub); err != nil {
		p.log.Error().Err(err).Str("type", event.Type).Msg("publish failed")
		return err
	}
	return nil
}
