package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/skadam/cafe/internal/interfaces"
)

// NotificationExchange fans every cafe notification out to all subscribers.
const NotificationExchange = "cafe_notifications"

type publisher struct {
	conn Connection
}

func NewPublisher(conn Connection) interfaces.NotificationPublisher {
	return &publisher{conn: conn}
}

func (p *publisher) Publish(ctx context.Context, event interfaces.NotificationEvent) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(NotificationExchange, "fanout", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = ch.Publish(NotificationExchange, "", false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}
