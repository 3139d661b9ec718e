package order

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skadam/cafe/internal/adapter/localstore"
	"github.com/skadam/cafe/internal/adapter/logger"
	"github.com/skadam/cafe/internal/app/catalog"
	"github.com/skadam/cafe/internal/domain"
	"github.com/skadam/cafe/internal/interfaces"
)

type fixture struct {
	orders  *Service
	catalog *catalog.Service
	item    domain.MenuItem
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	blobs, err := localstore.New(t.TempDir())
	require.NoError(t, err)

	catalogSvc := catalog.NewService(localstore.NewCatalogMirror(blobs), logger.Nop())
	require.NoError(t, catalogSvc.Load(ctx))
	t.Cleanup(catalogSvc.Flush)

	item, err := catalogSvc.AddMenuItem(domain.MenuItem{Name: "Espresso", Price: domain.MoneyFromFloat(5)})
	require.NoError(t, err)

	counter := localstore.NewCounter(blobs, logger.Nop())
	require.NoError(t, counter.Load(ctx))

	orderSvc := NewService(localstore.NewOrderMirror(blobs), counter, catalogSvc, nil, nil, logger.Nop())
	require.NoError(t, orderSvc.Load(ctx))
	t.Cleanup(orderSvc.Flush)

	return &fixture{orders: orderSvc, catalog: catalogSvc, item: item}
}

func (f *fixture) create(t *testing.T, quantity int) *domain.Order {
	t.Helper()
	order, err := f.orders.CreateOrder(context.Background(), interfaces.CreateOrderCommand{
		Lines:       []interfaces.CreateOrderLineCommand{{MenuItemID: f.item.ID, Quantity: quantity}},
		TableNumber: 2,
	})
	require.NoError(t, err)
	return order
}

func TestCreateOrderAssignsSequentialNumbers(t *testing.T) {
	f := newFixture(t)

	first := f.create(t, 1)
	second := f.create(t, 1)

	assert.Equal(t, 1, first.Number)
	assert.Equal(t, 2, second.Number)
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, domain.StatusPending, first.Status)

	// Newest first.
	orders := f.orders.Orders()
	require.Len(t, orders, 2)
	assert.Equal(t, second.ID, orders[0].ID)
}

func TestCreateOrderSnapshotsLinesAndTotal(t *testing.T) {
	f := newFixture(t)

	order := f.create(t, 5)
	assert.Equal(t, "25.00 TND", order.Total.String())
	require.Len(t, order.Lines, 1)
	assert.Equal(t, "Espresso", order.Lines[0].Name)

	// Later price edits never touch the snapshot.
	newPrice := domain.MoneyFromFloat(9)
	f.catalog.UpdateMenuItem(f.item.ID, domain.MenuItemPatch{Price: &newPrice})

	got, ok := f.orders.Order(order.ID)
	require.True(t, ok)
	assert.Equal(t, "25.00 TND", got.Total.String())
	assert.Equal(t, "5.00 TND", got.Lines[0].Price.String())
}

func TestCreateOrderUnknownItem(t *testing.T) {
	f := newFixture(t)

	_, err := f.orders.CreateOrder(context.Background(), interfaces.CreateOrderCommand{
		Lines:       []interfaces.CreateOrderLineCommand{{MenuItemID: "missing", Quantity: 1}},
		TableNumber: 2,
	})
	assert.Error(t, err)
}

func TestCreateOrderReservesStock(t *testing.T) {
	f := newFixture(t)
	f.catalog.SetInventoryQuantity(f.item.ID, 10)

	f.create(t, 3)

	item, _ := f.catalog.MenuItem(f.item.ID)
	assert.Equal(t, 7, item.Inventory.Quantity)
}

func TestUpdateStatus(t *testing.T) {
	f := newFixture(t)
	order := f.create(t, 1)

	require.NoError(t, f.orders.UpdateStatus(context.Background(), order.ID, domain.StatusPaid))

	got, _ := f.orders.Order(order.ID)
	assert.Equal(t, domain.StatusPaid, got.Status)
	assert.NotNil(t, got.PaidAt)

	assert.Error(t, f.orders.UpdateStatus(context.Background(), order.ID, "shipped"))
	assert.Error(t, f.orders.UpdateStatus(context.Background(), "missing", domain.StatusReady))
}

func TestClearPaidOrdersResetsCounter(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	paid := f.create(t, 1)
	pending := f.create(t, 1)
	require.NoError(t, f.orders.UpdateStatus(ctx, paid.ID, domain.StatusPaid))

	require.NoError(t, f.orders.ClearPaidOrders(ctx))

	orders := f.orders.Orders()
	require.Len(t, orders, 1)
	assert.Equal(t, pending.ID, orders[0].ID)

	// Counter restarts: the next order is #1 again.
	next := f.create(t, 1)
	assert.Equal(t, 1, next.Number)
}

func TestDeleteOrderKeepsCounter(t *testing.T) {
	f := newFixture(t)
	order := f.create(t, 1)

	f.orders.DeleteOrder(order.ID)
	assert.Empty(t, f.orders.Orders())

	next := f.create(t, 1)
	assert.Equal(t, 2, next.Number)
}

func TestApplyEvent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	remote := domain.Order{ID: "remote-1", Number: 7, Status: domain.StatusPending, TableNumber: 3}
	payload, err := json.Marshal(remote)
	require.NoError(t, err)

	f.orders.ApplyEvent(ctx, interfaces.OrderEvent{Kind: "insert", OrderID: remote.ID, Payload: payload})
	got, ok := f.orders.Order("remote-1")
	require.True(t, ok)
	assert.Equal(t, 7, got.Number)

	remote.Status = domain.StatusReady
	payload, err = json.Marshal(remote)
	require.NoError(t, err)
	f.orders.ApplyEvent(ctx, interfaces.OrderEvent{Kind: "update", OrderID: remote.ID, Payload: payload})
	got, _ = f.orders.Order("remote-1")
	assert.Equal(t, domain.StatusReady, got.Status)

	f.orders.ApplyEvent(ctx, interfaces.OrderEvent{Kind: "delete", OrderID: remote.ID})
	_, ok = f.orders.Order("remote-1")
	assert.False(t, ok)
}

type capturePublisher struct {
	events []interfaces.NotificationEvent
}

func (p *capturePublisher) Publish(ctx context.Context, event interfaces.NotificationEvent) error {
	p.events = append(p.events, event)
	return nil
}

type settingsGate struct {
	settings domain.NotificationSettings
}

func (g *settingsGate) NotificationSettings() domain.NotificationSettings {
	return g.settings
}

func TestNotificationTogglesGateDispatch(t *testing.T) {
	f := newFixture(t)
	publisher := &capturePublisher{}
	gate := &settingsGate{settings: domain.DefaultNotificationSettings()}
	f.orders.publisher = publisher
	f.orders.gate = gate

	f.create(t, 1)
	types := make([]string, 0, len(publisher.events))
	for _, e := range publisher.events {
		types = append(types, e.Type)
	}
	assert.Contains(t, types, interfaces.EventNewOrder)
	assert.Contains(t, types, interfaces.EventGreeting)

	gate.settings.OrderNotifications = false
	gate.settings.GreetingNotifications = false
	publisher.events = nil

	f.create(t, 1)
	assert.Empty(t, publisher.events)
}

func TestInventoryAlertRespectsToggle(t *testing.T) {
	f := newFixture(t)
	publisher := &capturePublisher{}
	gate := &settingsGate{settings: domain.NotificationSettings{InventoryNotifications: true}}
	f.orders.publisher = publisher
	f.orders.gate = gate

	f.catalog.SetInventoryQuantity(f.item.ID, 3)
	f.catalog.SetInventorySettings(f.item.ID, domain.InventorySettingsPatch{AlertEnabled: true})

	f.create(t, 1)
	require.Len(t, publisher.events, 1)
	assert.Equal(t, interfaces.EventInventoryAlert, publisher.events[0].Type)

	gate.settings.InventoryNotifications = false
	publisher.events = nil

	f.create(t, 1)
	assert.Empty(t, publisher.events)
}
