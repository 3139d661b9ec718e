package rabbitmq

import (
	"context"
	"fmt"
	"time"

	"github.com/skadam/cafe/internal/adapter/logger"
	"github.com/skadam/cafe/internal/interfaces"
)

type consumer struct {
	conn   Connection
	logger logger.Logger
}

func NewConsumer(conn Connection, lgr logger.Logger) interfaces.NotificationConsumer {
	return &consumer{conn: conn, logger: lgr}
}

// Consume blocks until ctx is cancelled, reconnecting with a fixed backoff
// when the broker connection drops.
func (c *consumer) Consume(ctx context.Context, handler interfaces.NotificationHandler) error {
	for {
		err := c.consumeWithReconnect(ctx, handler)

		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err == nil {
			return nil
		}

		c.logger.Error("consumer_disconnected", "Notification consumer disconnected, retrying", "", nil, err)

		if c.conn.IsClosed() {
			if err := c.conn.Reconnect(); err != nil {
				c.logger.Error("reconnect_failed", "Failed to reconnect to RabbitMQ", "", nil, err)
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(5 * time.Second):
		}
	}
}

func (c *consumer) consumeWithReconnect(ctx context.Context, handler interfaces.NotificationHandler) error {
	ch, err := c.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	closeChan := ch.NotifyClose()

	if err := ch.ExchangeDeclare(NotificationExchange, "fanout", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	// Exclusive queue per subscriber: every dispatcher instance sees every
	// notification.
	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	if err := ch.QueueBind(q.Name, "", NotificationExchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue: %w", err)
	}

	msgs, err := ch.Consume(q.Name, "", true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case err := <-closeChan:
			if err != nil {
				return fmt.Errorf("channel closed: %w", err)
			}
			return fmt.Errorf("channel closed gracefully")

		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("messages channel closed")
			}
			if err := handler(ctx, msg.Body); err != nil {
				c.logger.Error("notification_handle_failed", "Failed to handle notification", "", nil, err)
			}
		}
	}
}
