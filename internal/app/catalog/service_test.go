package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skadam/cafe/internal/adapter/localstore"
	"github.com/skadam/cafe/internal/adapter/logger"
	"github.com/skadam/cafe/internal/domain"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	blobs, err := localstore.New(t.TempDir())
	require.NoError(t, err)
	svc := NewService(localstore.NewCatalogMirror(blobs), logger.Nop())
	require.NoError(t, svc.Load(context.Background()))
	return svc
}

func addItem(t *testing.T, svc *Service, name string, price float64) domain.MenuItem {
	t.Helper()
	item, err := svc.AddMenuItem(domain.MenuItem{Name: name, Price: domain.MoneyFromFloat(price)})
	require.NoError(t, err)
	return item
}

func TestAddMenuItemValidation(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.AddMenuItem(domain.MenuItem{Name: "  "})
	assert.Error(t, err)

	_, err = svc.AddMenuItem(domain.MenuItem{Name: "Espresso", Price: domain.MoneyFromFloat(-1)})
	assert.Error(t, err)

	item := addItem(t, svc, "Espresso", 5)
	assert.NotEmpty(t, item.ID)

	got, ok := svc.MenuItem(item.ID)
	require.True(t, ok)
	assert.Equal(t, "Espresso", got.Name)
}

func TestSetInventoryQuantityClampsAndDefaults(t *testing.T) {
	svc := newTestService(t)
	item := addItem(t, svc, "Espresso", 5)

	svc.SetInventoryQuantity(item.ID, -10)

	got, _ := svc.MenuItem(item.ID)
	require.NotNil(t, got.Inventory)
	assert.Equal(t, 0, got.Inventory.Quantity)
	assert.Equal(t, domain.DefaultAlertThreshold, got.Inventory.AlertThreshold)
	assert.Equal(t, domain.DefaultInventoryUnit, got.Inventory.Unit)

	svc.SetInventoryQuantity(item.ID, 12)
	got, _ = svc.MenuItem(item.ID)
	assert.Equal(t, 12, got.Inventory.Quantity)
}

func TestSetInventorySettingsMerges(t *testing.T) {
	svc := newTestService(t)
	item := addItem(t, svc, "Espresso", 5)

	threshold := 3
	unit := "bags"
	svc.SetInventorySettings(item.ID, domain.InventorySettingsPatch{
		AlertThreshold: &threshold,
		AlertEnabled:   true,
		Unit:           &unit,
	})

	got, _ := svc.MenuItem(item.ID)
	require.NotNil(t, got.Inventory)
	assert.Equal(t, 3, got.Inventory.AlertThreshold)
	assert.True(t, got.Inventory.AlertEnabled)
	assert.Equal(t, "bags", got.Inventory.Unit)

	// Omitted fields keep their values; AlertEnabled is always applied.
	svc.SetInventorySettings(item.ID, domain.InventorySettingsPatch{AlertEnabled: false})
	got, _ = svc.MenuItem(item.ID)
	assert.False(t, got.Inventory.AlertEnabled)
	assert.Equal(t, 3, got.Inventory.AlertThreshold)
	assert.Equal(t, "bags", got.Inventory.Unit)
}

func TestReserveStockClampsAtZero(t *testing.T) {
	svc := newTestService(t)
	item := addItem(t, svc, "Espresso", 5)
	svc.SetInventoryQuantity(item.ID, 3)

	svc.ReserveStock(item.ID, 5)

	got, _ := svc.MenuItem(item.ID)
	assert.Equal(t, 0, got.Inventory.Quantity)

	// Untracked items are unaffected.
	other := addItem(t, svc, "Latte", 7)
	svc.ReserveStock(other.ID, 2)
	got, _ = svc.MenuItem(other.ID)
	assert.Nil(t, got.Inventory)
}

func TestLowStockItems(t *testing.T) {
	svc := newTestService(t)
	low := addItem(t, svc, "Espresso", 5)
	fine := addItem(t, svc, "Latte", 7)
	muted := addItem(t, svc, "Mocha", 8)

	threshold := 5
	svc.SetInventoryQuantity(low.ID, 4)
	svc.SetInventorySettings(low.ID, domain.InventorySettingsPatch{AlertThreshold: &threshold, AlertEnabled: true})

	svc.SetInventoryQuantity(fine.ID, 50)
	svc.SetInventorySettings(fine.ID, domain.InventorySettingsPatch{AlertThreshold: &threshold, AlertEnabled: true})

	// Below threshold but alerting disabled.
	svc.SetInventoryQuantity(muted.ID, 1)

	items := svc.LowStockItems()
	require.Len(t, items, 1)
	assert.Equal(t, low.ID, items[0].ID)
}

func TestUpdateAndDeleteCategory(t *testing.T) {
	svc := newTestService(t)
	cat := svc.AddCategory(domain.Category{Name: "Hot Drinks"})

	name := "Coffee"
	svc.UpdateCategory(cat.ID, domain.CategoryPatch{Name: &name})

	cats := svc.Categories()
	require.Len(t, cats, 1)
	assert.Equal(t, "Coffee", cats[0].Name)

	svc.DeleteCategory(cat.ID)
	assert.Empty(t, svc.Categories())
}
