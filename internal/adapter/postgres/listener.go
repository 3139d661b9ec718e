package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/skadam/cafe/internal/adapter/logger"
	"github.com/skadam/cafe/internal/config"
	"github.com/skadam/cafe/internal/interfaces"
)

// Listener feeds order change events from the database NOTIFY channel into
// the in-memory order store. It holds its own connection because LISTEN ties
// up the session.
type Listener struct {
	connString string
	logger     logger.Logger
}

var _ interfaces.OrderEventSource = (*Listener)(nil)

func NewListener(cfg config.DatabaseConfig, lgr logger.Logger) *Listener {
	return &Listener{connString: ConnString(cfg), logger: lgr}
}

// Subscribe blocks until ctx is cancelled, reconnecting with a fixed backoff
// when the connection drops.
func (l *Listener) Subscribe(ctx context.Context, handler interfaces.OrderEventHandler) error {
	const backoff = 5 * time.Second

	for {
		if err := l.listen(ctx, handler); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			l.logger.Error("order_listener_disconnected", "Order event listener lost connection, retrying", "", nil, err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
}

func (l *Listener) listen(ctx context.Context, handler interfaces.OrderEventHandler) error {
	conn, err := pgx.Connect(ctx, l.connString)
	if err != nil {
		return fmt.Errorf("failed to connect listener: %w", err)
	}
	defer conn.Close(context.Background())

	if _, err := conn.Exec(ctx, fmt.Sprintf("LISTEN %s", OrderChannel)); err != nil {
		return fmt.Errorf("failed to listen on %s: %w", OrderChannel, err)
	}
	l.logger.Info("order_listener_started", fmt.Sprintf("Listening for order events on %s", OrderChannel), "", nil)

	for {
		notification, err := conn.WaitForNotification(ctx)
		if err != nil {
			return fmt.Errorf("failed waiting for notification: %w", err)
		}

		var event interfaces.OrderEvent
		if err := json.Unmarshal([]byte(notification.Payload), &event); err != nil {
			l.logger.Error("order_event_malformed", "Dropping malformed order event", "", map[string]any{"payload": notification.Payload}, err)
			continue
		}
		handler(ctx, event)
	}
}
