package domain

import (
	"errors"
	"time"
)

// OrderLine is a value snapshot of a menu item at order time. Later catalog
// edits never change existing orders.
type OrderLine struct {
	MenuItemID string `json:"menu_item_id"`
	Name       string `json:"name"`
	Price      Money  `json:"price"`
	Quantity   int    `json:"quantity"`
	Image      string `json:"image,omitempty"`
}

type Order struct {
	ID           string      `json:"id"`
	Lines        []OrderLine `json:"items"`
	Total        Money       `json:"total"`
	Status       OrderStatus `json:"status"`
	CustomerNote string      `json:"customer_note,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	Number       int         `json:"order_number"`
	PaidAt       *time.Time  `json:"paid_at,omitempty"`
	TableNumber  int         `json:"table_number"`
}

var (
	ErrNoOrderLines       = errors.New("order must have at least one line")
	ErrInvalidTableNumber = errors.New("table number must be positive")
	ErrInvalidQuantity    = errors.New("line quantity must be at least 1")
	ErrUnknownStatus      = errors.New("unknown order status")
)

// NewOrder builds a pending order from line snapshots and computes the total.
// The order number is assigned by the store, not here.
func NewOrder(lines []OrderLine, tableNumber int, note string) (*Order, error) {
	if len(lines) == 0 {
		return nil, ErrNoOrderLines
	}
	if tableNumber < 1 {
		return nil, ErrInvalidTableNumber
	}
	for _, l := range lines {
		if l.Quantity < 1 {
			return nil, ErrInvalidQuantity
		}
	}

	order := &Order{
		Lines:        lines,
		Status:       StatusPending,
		CustomerNote: note,
		CreatedAt:    time.Now(),
		TableNumber:  tableNumber,
	}
	order.Total = order.computeTotal()

	return order, nil
}

func (o *Order) computeTotal() Money {
	total := ZeroMoney()
	for _, l := range o.Lines {
		total = total.Add(l.Price.MulInt(l.Quantity))
	}
	return total
}

// SetStatus applies any known status; transitioning to paid stamps PaidAt.
func (o *Order) SetStatus(status OrderStatus) error {
	if !KnownStatus(status) {
		return ErrUnknownStatus
	}
	o.Status = status
	if status == StatusPaid && o.PaidAt == nil {
		now := time.Now()
		o.PaidAt = &now
	}
	return nil
}
