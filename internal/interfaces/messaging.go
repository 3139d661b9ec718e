package interfaces

import (
	"context"
	"time"
)

// Notification event types forwarded to the dispatcher.
const (
	EventNewOrder       = "new_order"
	EventOrderReady     = "order_ready"
	EventInventoryAlert = "inventory_alert"
	EventGreeting       = "order_greeting"
)

type NotificationEvent struct {
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	OrderID     string    `json:"order_id,omitempty"`
	OrderNumber int       `json:"order_number,omitempty"`
	TableNumber int       `json:"table_number,omitempty"`
	ItemID      string    `json:"item_id,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// NotificationPublisher is fire-and-forget: callers log failures and move on,
// no acknowledgement is expected.
type NotificationPublisher interface {
	Publish(ctx context.Context, event NotificationEvent) error
}

type NotificationHandler func(ctx context.Context, body []byte) error

type NotificationConsumer interface {
	Consume(ctx context.Context, handler NotificationHandler) error
}

// OrderEvent is a change notification from the remote database variant.
// Events patch local state in arrival order, last write wins.
type OrderEvent struct {
	Kind    string `json:"kind"` // "insert", "update", "delete", "reload"
	OrderID string `json:"order_id"`
	Payload []byte `json:"payload,omitempty"`
}

type OrderEventHandler func(ctx context.Context, event OrderEvent)

type OrderEventSource interface {
	Subscribe(ctx context.Context, handler OrderEventHandler) error
}
