package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/skadam/cafe/internal/domain"
	"github.com/skadam/cafe/internal/interfaces"
)

// OrderChannel is the NOTIFY channel carrying order change events. Every
// writer announces its change here so other instances can patch their
// in-memory state without polling.
const OrderChannel = "cafe_orders"

type OrderRepository struct {
	db DB
}

var _ interfaces.OrderMirror = (*OrderRepository)(nil)

func NewOrderRepository(db DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) LoadOrders(ctx context.Context) ([]domain.Order, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, order_number, status, table_number, customer_note, total, lines, created_at, paid_at
		FROM orders
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}

func scanOrder(row Row) (domain.Order, error) {
	var (
		order    domain.Order
		status   string
		total    string
		lines    []byte
		paidAt   *time.Time
	)
	if err := row.Scan(&order.ID, &order.Number, &status, &order.TableNumber,
		&order.CustomerNote, &total, &lines, &order.CreatedAt, &paidAt); err != nil {
		return domain.Order{}, fmt.Errorf("failed to scan order: %w", err)
	}

	order.Status = domain.OrderStatus(status)
	order.PaidAt = paidAt

	parsed, err := domain.ParseMoney(total)
	if err != nil {
		return domain.Order{}, fmt.Errorf("order %s has bad total: %w", order.ID, err)
	}
	order.Total = parsed

	if err := json.Unmarshal(lines, &order.Lines); err != nil {
		return domain.Order{}, fmt.Errorf("order %s has bad lines: %w", order.ID, err)
	}
	return order, nil
}

func (r *OrderRepository) InsertOrder(ctx context.Context, order *domain.Order) error {
	lines, err := json.Marshal(order.Lines)
	if err != nil {
		return fmt.Errorf("failed to encode order lines: %w", err)
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO orders (id, order_number, status, table_number, customer_note, total, lines, created_at, paid_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		order.ID, order.Number, string(order.Status), order.TableNumber,
		order.CustomerNote, order.Total.String(), lines, order.CreatedAt, order.PaidAt)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	return r.notify(ctx, "insert", order.ID, order)
}

func (r *OrderRepository) UpdateOrder(ctx context.Context, order *domain.Order) error {
	lines, err := json.Marshal(order.Lines)
	if err != nil {
		return fmt.Errorf("failed to encode order lines: %w", err)
	}

	_, err = r.db.Exec(ctx, `
		UPDATE orders
		SET status = $2, table_number = $3, customer_note = $4, total = $5, lines = $6, paid_at = $7
		WHERE id = $1`,
		order.ID, string(order.Status), order.TableNumber, order.CustomerNote,
		order.Total.String(), lines, order.PaidAt)
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}

	return r.notify(ctx, "update", order.ID, order)
}

func (r *OrderRepository) DeleteOrder(ctx context.Context, id string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	return r.notify(ctx, "delete", id, nil)
}

func (r *OrderRepository) DeletePaid(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM orders WHERE status = $1`, string(domain.StatusPaid)); err != nil {
		return fmt.Errorf("failed to delete paid orders: %w", err)
	}
	// Listeners reload the full set rather than chase individual deletes.
	return r.notify(ctx, "reload", "", nil)
}

func (r *OrderRepository) notify(ctx context.Context, kind, orderID string, order *domain.Order) error {
	event := interfaces.OrderEvent{Kind: kind, OrderID: orderID}
	if order != nil {
		payload, err := json.Marshal(order)
		if err != nil {
			return fmt.Errorf("failed to encode order event: %w", err)
		}
		event.Payload = payload
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode order event: %w", err)
	}
	if _, err := r.db.Exec(ctx, `SELECT pg_notify($1, $2)`, OrderChannel, string(body)); err != nil {
		return fmt.Errorf("failed to notify order change: %w", err)
	}
	return nil
}

// Counter hands out order numbers with a single atomic update, so concurrent
// instances sharing the database never collide.
type Counter struct {
	db DB
}

var _ interfaces.OrderCounter = (*Counter)(nil)

func NewCounter(db DB) *Counter {
	return &Counter{db: db}
}

func (c *Counter) Next(ctx context.Context) (int, error) {
	var value int
	err := c.db.QueryRow(ctx,
		`UPDATE order_counter SET value = value + 1 WHERE id = 1 RETURNING value`).Scan(&value)
	if err != nil {
		return 0, fmt.Errorf("failed to advance order counter: %w", err)
	}
	return value, nil
}

func (c *Counter) Reset(ctx context.Context) error {
	if _, err := c.db.Exec(ctx, `UPDATE order_counter SET value = 0 WHERE id = 1`); err != nil {
		return fmt.Errorf("failed to reset order counter: %w", err)
	}
	return nil
}
