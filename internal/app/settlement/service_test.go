package settlement

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skadam/cafe/internal/adapter/localstore"
	"github.com/skadam/cafe/internal/adapter/logger"
	"github.com/skadam/cafe/internal/app/catalog"
	"github.com/skadam/cafe/internal/app/loyalty"
	"github.com/skadam/cafe/internal/app/order"
	"github.com/skadam/cafe/internal/app/promotion"
	"github.com/skadam/cafe/internal/domain"
	"github.com/skadam/cafe/internal/interfaces"
)

type fixture struct {
	settlement *Service
	orders     *order.Service
	loyalty    *loyalty.Service
	promos     *promotion.Service
	item       domain.MenuItem
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	blobs, err := localstore.New(t.TempDir())
	require.NoError(t, err)

	catalogSvc := catalog.NewService(localstore.NewCatalogMirror(blobs), logger.Nop())
	require.NoError(t, catalogSvc.Load(ctx))
	item, err := catalogSvc.AddMenuItem(domain.MenuItem{Name: "Espresso", Price: domain.MoneyFromFloat(5)})
	require.NoError(t, err)

	counter := localstore.NewCounter(blobs, logger.Nop())
	require.NoError(t, counter.Load(ctx))

	orderSvc := order.NewService(localstore.NewOrderMirror(blobs), counter, catalogSvc, nil, nil, logger.Nop())
	require.NoError(t, orderSvc.Load(ctx))

	loyaltySvc := loyalty.NewService(localstore.NewLoyaltyMirror(blobs), logger.Nop())
	require.NoError(t, loyaltySvc.Load(ctx))

	promoSvc := promotion.NewService(localstore.NewPromotionMirror(blobs), logger.Nop())
	require.NoError(t, promoSvc.Load(ctx))

	return &fixture{
		settlement: NewService(orderSvc, loyaltySvc, promoSvc, logger.Nop()),
		orders:     orderSvc,
		loyalty:    loyaltySvc,
		promos:     promoSvc,
		item:       item,
	}
}

func (f *fixture) createOrder(t *testing.T, quantity int) *domain.Order {
	t.Helper()
	o, err := f.orders.CreateOrder(context.Background(), interfaces.CreateOrderCommand{
		Lines:       []interfaces.CreateOrderLineCommand{{MenuItemID: f.item.ID, Quantity: quantity}},
		TableNumber: 1,
	})
	require.NoError(t, err)
	return o
}

func TestSettleOrderWithoutLoyalty(t *testing.T) {
	f := newFixture(t)
	o := f.createOrder(t, 4)

	result, err := f.settlement.SettleOrder(context.Background(), interfaces.SettleOrderCommand{OrderID: o.ID})
	require.NoError(t, err)

	assert.Equal(t, o.Number, result.OrderNumber)
	assert.Zero(t, result.EarnedPoints)
	assert.True(t, result.Discount.IsZero())
	assert.Equal(t, "20.00 TND", result.FinalTotal.String())
	assert.Empty(t, result.Warnings)

	got, _ := f.orders.Order(o.ID)
	assert.Equal(t, domain.StatusPaid, got.Status)
}

func TestSettleOrderCreatesCustomerAndEarnsPoints(t *testing.T) {
	f := newFixture(t)
	o := f.createOrder(t, 5) // 25.00

	result, err := f.settlement.SettleOrder(context.Background(), interfaces.SettleOrderCommand{
		OrderID: o.ID,
		Phone:   "99000111",
	})
	require.NoError(t, err)

	assert.Equal(t, "Customer 99000111", result.CustomerName)
	assert.Equal(t, int64(25), result.EarnedPoints)
	// Welcome bonus plus the purchase.
	assert.Equal(t, int64(75), result.TotalPoints)

	customer, ok := f.loyalty.FindByPhone("99000111")
	require.True(t, ok)
	assert.Equal(t, int64(75), customer.Points)
	assert.Equal(t, "25.00 TND", customer.TotalSpent.String())
}

func TestSettleOrderExistingCustomerWithPromo(t *testing.T) {
	f := newFixture(t)
	o := f.createOrder(t, 4) // 20.00

	customer, err := f.loyalty.AddCustomer("Amira", "99000111")
	require.NoError(t, err)
	_, err = f.promos.CreatePromoCode(interfaces.CreatePromoCodeCommand{Code: "SAVE10", DiscountPercentage: 10})
	require.NoError(t, err)

	result, err := f.settlement.SettleOrder(context.Background(), interfaces.SettleOrderCommand{
		OrderID:   o.ID,
		Phone:     "99000111",
		PromoCode: "save10",
	})
	require.NoError(t, err)

	assert.Equal(t, "Amira", result.CustomerName)
	assert.Equal(t, "SAVE10", result.PromoCode)
	assert.Equal(t, "2.00 TND", result.Discount.String())
	assert.Equal(t, "18.00 TND", result.FinalTotal.String())
	// Points accrue on the pre-discount total.
	assert.Equal(t, int64(20), result.EarnedPoints)
	assert.Empty(t, result.Warnings)

	got, _ := f.loyalty.FindByPhone("99000111")
	assert.Equal(t, customer.Points+20, got.Points)

	codes := f.promos.PromoCodes()
	require.Len(t, codes, 1)
	assert.Equal(t, 1, codes[0].UsageCount)
}

func TestSettleOrderInvalidPromoStillPays(t *testing.T) {
	f := newFixture(t)
	o := f.createOrder(t, 4)

	result, err := f.settlement.SettleOrder(context.Background(), interfaces.SettleOrderCommand{
		OrderID:   o.ID,
		Phone:     "99000111",
		PromoCode: "NOPE",
	})
	require.NoError(t, err)

	assert.True(t, result.Discount.IsZero())
	assert.Equal(t, "20.00 TND", result.FinalTotal.String())
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "promo code")

	got, _ := f.orders.Order(o.ID)
	assert.Equal(t, domain.StatusPaid, got.Status)
}

func TestSettleOrderLoyaltyDisabled(t *testing.T) {
	f := newFixture(t)
	o := f.createOrder(t, 4)

	enabled := false
	f.loyalty.UpdateSettings(domain.LoyaltySettingsPatch{Enabled: &enabled})

	result, err := f.settlement.SettleOrder(context.Background(), interfaces.SettleOrderCommand{
		OrderID: o.ID,
		Phone:   "99000111",
	})
	require.NoError(t, err)

	assert.Zero(t, result.EarnedPoints)
	_, ok := f.loyalty.FindByPhone("99000111")
	assert.False(t, ok)

	got, _ := f.orders.Order(o.ID)
	assert.Equal(t, domain.StatusPaid, got.Status)
}

func TestSettleOrderMissingOrder(t *testing.T) {
	f := newFixture(t)

	_, err := f.settlement.SettleOrder(context.Background(), interfaces.SettleOrderCommand{OrderID: "missing"})
	assert.Error(t, err)
}
