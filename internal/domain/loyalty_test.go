package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTierFor(t *testing.T) {
	settings := DefaultLoyaltySettings()

	assert.Equal(t, TierBronze, settings.TierFor(MoneyFromFloat(0)))
	assert.Equal(t, TierBronze, settings.TierFor(MoneyFromFloat(99.99)))
	assert.Equal(t, TierSilver, settings.TierFor(MoneyFromFloat(100)))
	assert.Equal(t, TierSilver, settings.TierFor(MoneyFromFloat(499.99)))
	assert.Equal(t, TierGold, settings.TierFor(MoneyFromFloat(500)))
	assert.Equal(t, TierPlatinum, settings.TierFor(MoneyFromFloat(1000)))
	assert.Equal(t, TierPlatinum, settings.TierFor(MoneyFromFloat(5000)))
}

func TestEarnedPointsFloorsTwice(t *testing.T) {
	settings := DefaultLoyaltySettings()

	// 25 spent at silver: floor(25*1) = 25, floor(25*1.2) = 30.
	assert.Equal(t, int64(30), settings.EarnedPoints(MoneyFromFloat(25), TierSilver))

	// 25.90 at bronze: fractional base is floored before the multiplier.
	assert.Equal(t, int64(25), settings.EarnedPoints(MoneyFromFloat(25.9), TierBronze))

	// 25.90 at silver: floor(25*1.2) = 30, not floor(25.9*1.2) = 31.
	assert.Equal(t, int64(30), settings.EarnedPoints(MoneyFromFloat(25.9), TierSilver))

	// Platinum doubles.
	assert.Equal(t, int64(50), settings.EarnedPoints(MoneyFromFloat(25), TierPlatinum))
}

func TestRedemptionAmount(t *testing.T) {
	settings := DefaultLoyaltySettings()

	// 100 points -> 5.00.
	assert.Equal(t, "5.00 TND", settings.RedemptionAmount(100).String())
	assert.Equal(t, "10.00 TND", settings.RedemptionAmount(200).String())
	assert.Equal(t, "2.50 TND", settings.RedemptionAmount(50).String())

	zero := settings
	zero.PointsForRedemption = 0
	assert.True(t, zero.RedemptionAmount(100).IsZero())
}

func TestCustomerPatchDeactivating(t *testing.T) {
	active := true
	inactive := false

	assert.False(t, CustomerPatch{}.Deactivating())
	assert.False(t, CustomerPatch{Active: &active}.Deactivating())
	assert.True(t, CustomerPatch{Active: &inactive}.Deactivating())
}
