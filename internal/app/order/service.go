package order

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/skadam/cafe/internal/adapter/logger"
	"github.com/skadam/cafe/internal/domain"
	"github.com/skadam/cafe/internal/interfaces"
)

// Service owns the order list and the order-number counter epoch. Orders are
// kept newest first. Stock is reserved at creation time, not at payment time.
type Service struct {
	mirror    interfaces.OrderMirror
	counter   interfaces.OrderCounter
	catalog   interfaces.CatalogService
	publisher interfaces.NotificationPublisher
	gate      interfaces.NotificationGate
	logger    logger.Logger

	mu     sync.Mutex
	orders []domain.Order

	writes sync.WaitGroup
}

func NewService(
	mirror interfaces.OrderMirror,
	counter interfaces.OrderCounter,
	catalog interfaces.CatalogService,
	publisher interfaces.NotificationPublisher,
	gate interfaces.NotificationGate,
	lgr logger.Logger,
) *Service {
	return &Service{
		mirror:    mirror,
		counter:   counter,
		catalog:   catalog,
		publisher: publisher,
		gate:      gate,
		logger:    lgr,
	}
}

func (s *Service) Load(ctx context.Context) error {
	orders, err := s.mirror.LoadOrders(ctx)
	if err != nil {
		return fmt.Errorf("failed to load orders: %w", err)
	}

	s.mu.Lock()
	s.orders = orders
	s.mu.Unlock()
	return nil
}

// CreateOrder snapshots the referenced menu items into order lines, assigns
// the next order number, and reserves stock for every line.
func (s *Service) CreateOrder(ctx context.Context, cmd interfaces.CreateOrderCommand) (*domain.Order, error) {
	lines := make([]domain.OrderLine, 0, len(cmd.Lines))
	for _, l := range cmd.Lines {
		item, ok := s.catalog.MenuItem(l.MenuItemID)
		if !ok {
			return nil, fmt.Errorf("unknown menu item: %s", l.MenuItemID)
		}
		lines = append(lines, domain.OrderLine{
			MenuItemID: item.ID,
			Name:       item.Name,
			Price:      item.Price,
			Quantity:   l.Quantity,
			Image:      item.Image,
		})
	}

	order, err := domain.NewOrder(lines, cmd.TableNumber, cmd.Note)
	if err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	number, err := s.counter.Next(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to assign order number: %w", err)
	}
	order.Number = number
	order.ID = uuid.NewString()

	s.mu.Lock()
	s.orders = append([]domain.Order{*order}, s.orders...)
	s.mu.Unlock()

	for _, l := range order.Lines {
		s.catalog.ReserveStock(l.MenuItemID, l.Quantity)
	}

	s.mirrorWrite("order_mirror_failed", func(ctx context.Context) error {
		return s.mirror.InsertOrder(ctx, order)
	})

	s.logger.Debug("order_created", fmt.Sprintf("Order #%d created for table %d", order.Number, order.TableNumber), "",
		map[string]any{"order_number": order.Number, "table": order.TableNumber})

	s.notify(ctx, interfaces.NotificationEvent{
		Type:        interfaces.EventNewOrder,
		Title:       "New Order",
		Body:        fmt.Sprintf("Order #%d from Table %d", order.Number, order.TableNumber),
		OrderID:     order.ID,
		OrderNumber: order.Number,
		TableNumber: order.TableNumber,
		Timestamp:   time.Now(),
	})
	s.notify(ctx, interfaces.NotificationEvent{
		Type:        interfaces.EventGreeting,
		Title:       "Thank you!",
		Body:        fmt.Sprintf("Order #%d received, we are on it", order.Number),
		OrderID:     order.ID,
		OrderNumber: order.Number,
		Timestamp:   time.Now(),
	})
	s.alertLowStock(ctx, order.Lines)

	return order, nil
}

func (s *Service) Order(id string) (domain.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.orders {
		if o.ID == id {
			return o, true
		}
	}
	return domain.Order{}, false
}

func (s *Service) Orders() []domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Order, len(s.orders))
	copy(out, s.orders)
	return out
}

// UpdateStatus accepts any known status; the admin UI decides which
// transitions to offer. Reaching paid stamps the payment timestamp.
func (s *Service) UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) error {
	s.mu.Lock()
	var updated *domain.Order
	for i := range s.orders {
		if s.orders[i].ID == orderID {
			if err := s.orders[i].SetStatus(status); err != nil {
				s.mu.Unlock()
				return err
			}
			o := s.orders[i]
			updated = &o
			break
		}
	}
	s.mu.Unlock()

	if updated == nil {
		return fmt.Errorf("order not found: %s", orderID)
	}

	s.mirrorWrite("order_mirror_failed", func(ctx context.Context) error {
		return s.mirror.UpdateOrder(ctx, updated)
	})

	if status == domain.StatusReady {
		s.notify(ctx, interfaces.NotificationEvent{
			Type:        interfaces.EventOrderReady,
			Title:       "Order Ready",
			Body:        fmt.Sprintf("Order #%d for Table %d is ready for pickup", updated.Number, updated.TableNumber),
			OrderID:     updated.ID,
			OrderNumber: updated.Number,
			TableNumber: updated.TableNumber,
			Timestamp:   time.Now(),
		})
	}

	return nil
}

// DeleteOrder removes a single order without touching the counter.
func (s *Service) DeleteOrder(orderID string) {
	s.mu.Lock()
	changed := false
	for i := range s.orders {
		if s.orders[i].ID == orderID {
			s.orders = append(s.orders[:i], s.orders[i+1:]...)
			changed = true
			break
		}
	}
	s.mu.Unlock()

	if changed {
		s.mirrorWrite("order_mirror_failed", func(ctx context.Context) error {
			return s.mirror.DeleteOrder(ctx, orderID)
		})
	}
}

// ClearPaidOrders is the end-of-day close: every paid order is removed and
// the order counter starts a new epoch at zero. No undo.
func (s *Service) ClearPaidOrders(ctx context.Context) error {
	s.mu.Lock()
	kept := s.orders[:0:0]
	for _, o := range s.orders {
		if o.Status != domain.StatusPaid {
			kept = append(kept, o)
		}
	}
	s.orders = kept
	s.mu.Unlock()

	s.mirrorWrite("order_mirror_failed", func(ctx context.Context) error {
		return s.mirror.DeletePaid(ctx)
	})

	if err := s.counter.Reset(ctx); err != nil {
		return fmt.Errorf("failed to reset order counter: %w", err)
	}

	s.logger.Info("paid_orders_cleared", "Cleared paid orders and reset order counter", "", nil)
	return nil
}

// ApplyEvent patches local state from the remote change feed. Last write
// wins; no conflict resolution.
func (s *Service) ApplyEvent(ctx context.Context, event interfaces.OrderEvent) {
	switch event.Kind {
	case "insert", "update":
		var order domain.Order
		if err := json.Unmarshal(event.Payload, &order); err != nil {
			s.logger.Error("order_event_parse_failed", "Failed to parse order event", "", nil, err)
			return
		}
		s.mu.Lock()
		replaced := false
		for i := range s.orders {
			if s.orders[i].ID == order.ID {
				s.orders[i] = order
				replaced = true
				break
			}
		}
		if !replaced {
			s.orders = append([]domain.Order{order}, s.orders...)
		}
		s.mu.Unlock()

	case "delete":
		s.mu.Lock()
		for i := range s.orders {
			if s.orders[i].ID == event.OrderID {
				s.orders = append(s.orders[:i], s.orders[i+1:]...)
				break
			}
		}
		s.mu.Unlock()

	case "reload":
		// Bulk changes (end-of-day clear) are announced as a reload rather
		// than one event per row.
		if err := s.Load(ctx); err != nil {
			s.logger.Error("order_reload_failed", "Failed to reload orders after remote change", "", nil, err)
		}

	default:
		s.logger.Debug("order_event_ignored", fmt.Sprintf("Ignoring order event kind %q", event.Kind), "", nil)
	}
}

func (s *Service) alertLowStock(ctx context.Context, lines []domain.OrderLine) {
	for _, l := range lines {
		item, ok := s.catalog.MenuItem(l.MenuItemID)
		if !ok || !item.LowStock() {
			continue
		}
		s.notify(ctx, interfaces.NotificationEvent{
			Type:      interfaces.EventInventoryAlert,
			Title:     "Low Stock Alert",
			Body:      fmt.Sprintf("%s is running low (%d %s left, threshold: %d)", item.Name, item.Inventory.Quantity, item.Inventory.Unit, item.Inventory.AlertThreshold),
			ItemID:    item.ID,
			Timestamp: time.Now(),
		})
	}
}

func (s *Service) notify(ctx context.Context, event interfaces.NotificationEvent) {
	if s.publisher == nil || !s.allowed(event.Type) {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("notification_publish_failed", "Failed to publish notification", "", map[string]any{"type": event.Type}, err)
	}
}

func (s *Service) allowed(eventType string) bool {
	if s.gate == nil {
		return true
	}
	settings := s.gate.NotificationSettings()
	switch eventType {
	case interfaces.EventNewOrder, interfaces.EventOrderReady:
		return settings.OrderNotifications
	case interfaces.EventInventoryAlert:
		return settings.InventoryNotifications
	case interfaces.EventGreeting:
		return settings.GreetingNotifications
	}
	return true
}

func (s *Service) mirrorWrite(action string, fn func(context.Context) error) {
	s.writes.Add(1)
	go func() {
		defer s.writes.Done()
		if err := fn(context.Background()); err != nil {
			s.logger.Error(action, "Mirror write failed", "", nil, err)
		}
	}()
}

// Flush blocks until every pending mirror write has finished.
func (s *Service) Flush() {
	s.writes.Wait()
}
