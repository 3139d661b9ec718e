package amqp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/skadam/cafe/internal/adapter/logger"
	"github.com/skadam/cafe/internal/interfaces"
)

// NotificationHandler is the subscriber-side sink: it decodes cafe events and
// prints them for the staff console.
type NotificationHandler struct {
	logger logger.Logger
}

func NewNotificationHandler(logger logger.Logger) *NotificationHandler {
	return &NotificationHandler{
		logger: logger,
	}
}

func (h *NotificationHandler) HandleNotification(ctx context.Context, body []byte) error {
	var event interfaces.NotificationEvent
	if err := json.Unmarshal(body, &event); err != nil {
		h.logger.Error("message_parse_failed", "Failed to parse notification", "", nil, err)
		return err
	}

	h.logger.Debug("notification_received", fmt.Sprintf("Received %s event", event.Type),
		event.OrderID, map[string]any{
			"type":         event.Type,
			"order_number": event.OrderNumber,
		})

	switch event.Type {
	case interfaces.EventNewOrder:
		fmt.Printf("[%s] %s: %s\n", event.Timestamp.Format("15:04:05"), event.Title, event.Body)
	case interfaces.EventOrderReady:
		fmt.Printf("[%s] %s: %s\n", event.Timestamp.Format("15:04:05"), event.Title, event.Body)
	case interfaces.EventInventoryAlert:
		fmt.Printf("[%s] !! %s: %s\n", event.Timestamp.Format("15:04:05"), event.Title, event.Body)
	case interfaces.EventGreeting:
		fmt.Printf("[%s] %s: %s\n", event.Timestamp.Format("15:04:05"), event.Title, event.Body)
	default:
		fmt.Printf("[%s] %s: %s\n", event.Timestamp.Format("15:04:05"), event.Title, event.Body)
	}

	return nil
}
