package loyalty

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
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
	svc := NewService(localstore.NewLoyaltyMirror(blobs), logger.Nop())
	require.NoError(t, svc.Load(context.Background()))
	return svc
}

func TestAddCustomerWelcomeBonus(t *testing.T) {
	svc := newTestService(t)

	customer, err := svc.AddCustomer("Amira", "99000111")
	require.NoError(t, err)

	assert.Equal(t, int64(50), customer.Points)
	assert.Equal(t, domain.TierBronze, customer.Tier)
	assert.True(t, customer.Active)
	assert.True(t, customer.TotalSpent.IsZero())

	ledger := svc.Transactions(customer.ID)
	require.Len(t, ledger, 1)
	assert.Equal(t, domain.WelcomeOrderID, ledger[0].OrderID)
	assert.Equal(t, int64(50), ledger[0].Points)
	assert.Equal(t, domain.TxEarn, ledger[0].Type)
}

func TestAddCustomerDuplicatePhone(t *testing.T) {
	svc := newTestService(t)

	first, err := svc.AddCustomer("Amira", "99000111")
	require.NoError(t, err)

	_, err = svc.AddCustomer("Other", "99000111")
	assert.ErrorIs(t, err, domain.ErrDuplicatePhone)

	// Deactivating the holder frees the number.
	inactive := false
	svc.UpdateCustomer(first.ID, domain.CustomerPatch{Active: &inactive})

	_, err = svc.AddCustomer("Other", "99000111")
	assert.NoError(t, err)
}

func TestAddCustomerValidation(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.AddCustomer("", "99000111")
	assert.ErrorIs(t, err, domain.ErrCustomerNameMissing)

	_, err = svc.AddCustomer("Amira", "  ")
	assert.Error(t, err)
}

func TestAddPointsFloorsAndUpgradesTier(t *testing.T) {
	svc := newTestService(t)
	customer, err := svc.AddCustomer("Amira", "99000111")
	require.NoError(t, err)

	earned := svc.AddPoints(customer.ID, "1", domain.MoneyFromFloat(25.9))
	assert.Equal(t, int64(25), earned)

	got, _ := svc.FindByPhone("99000111")
	assert.Equal(t, int64(75), got.Points)
	assert.Equal(t, "25.90 TND", got.TotalSpent.String())
	assert.Equal(t, 1, got.VisitCount)
	assert.Equal(t, domain.TierBronze, got.Tier)

	// Crossing the silver threshold upgrades the tier after earning at the
	// old multiplier.
	earned = svc.AddPoints(customer.ID, "2", domain.MoneyFromFloat(80))
	assert.Equal(t, int64(80), earned)

	got, _ = svc.FindByPhone("99000111")
	assert.Equal(t, domain.TierSilver, got.Tier)

	// The next purchase earns at the silver multiplier.
	earned = svc.AddPoints(customer.ID, "3", domain.MoneyFromFloat(25))
	assert.Equal(t, int64(30), earned)
}

func TestAddPointsUnknownCustomer(t *testing.T) {
	svc := newTestService(t)
	assert.Zero(t, svc.AddPoints("missing", "1", domain.MoneyFromFloat(10)))
}

func TestRedeemPointsFailsClosed(t *testing.T) {
	svc := newTestService(t)
	customer, err := svc.AddCustomer("Amira", "99000111")
	require.NoError(t, err)

	assert.False(t, svc.RedeemPoints("missing", "1", 10))
	assert.False(t, svc.RedeemPoints(customer.ID, "1", 0))
	assert.False(t, svc.RedeemPoints(customer.ID, "1", 51))

	got, _ := svc.FindByPhone("99000111")
	assert.Equal(t, int64(50), got.Points)

	require.True(t, svc.RedeemPoints(customer.ID, "1", 50))
	got, _ = svc.FindByPhone("99000111")
	assert.Zero(t, got.Points)

	ledger := svc.Transactions(customer.ID)
	require.Len(t, ledger, 2)
	assert.Equal(t, domain.TxRedeem, ledger[1].Type)
	assert.Equal(t, int64(-50), ledger[1].Points)
}

func TestDeleteCustomerCascadesLedger(t *testing.T) {
	svc := newTestService(t)
	customer, err := svc.AddCustomer("Amira", "99000111")
	require.NoError(t, err)
	svc.AddPoints(customer.ID, "1", domain.MoneyFromFloat(10))

	svc.DeleteCustomer(customer.ID)

	assert.Empty(t, svc.Customers())
	assert.Empty(t, svc.Transactions(customer.ID))
}

func TestFindByPhoneSkipsInactive(t *testing.T) {
	svc := newTestService(t)
	customer, err := svc.AddCustomer("Amira", "99000111")
	require.NoError(t, err)

	inactive := false
	svc.UpdateCustomer(customer.ID, domain.CustomerPatch{Active: &inactive})

	_, ok := svc.FindByPhone("99000111")
	assert.False(t, ok)
}

func TestUpdateSettings(t *testing.T) {
	svc := newTestService(t)

	rate := decimal.NewFromInt(2)
	enabled := false
	svc.UpdateSettings(domain.LoyaltySettingsPatch{PointsPerUnit: &rate, Enabled: &enabled})

	settings := svc.Settings()
	assert.True(t, settings.PointsPerUnit.Equal(rate))
	assert.False(t, settings.Enabled)

	// Untouched fields keep their defaults.
	assert.Equal(t, int64(100), settings.PointsForRedemption)
}
