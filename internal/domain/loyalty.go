package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Customer struct {
	ID         string    `json:"id"`
	Phone      string    `json:"phone_number"`
	Name       string    `json:"name"`
	Points     int64     `json:"points"`
	TotalSpent Money     `json:"total_spent"`
	VisitCount int       `json:"visit_count"`
	JoinedAt   time.Time `json:"joined_at"`
	LastVisit  time.Time `json:"last_visit"`
	Tier       Tier      `json:"tier"`
	Active     bool      `json:"is_active"`
}

// Transaction is one entry in the append-only loyalty ledger. Entries are
// never mutated; they are only removed when their customer is deleted.
type Transaction struct {
	ID          string    `json:"id"`
	CustomerID  string    `json:"customer_id"`
	OrderID     string    `json:"order_id"`
	Type        TxType    `json:"type"`
	Points      int64     `json:"points"`
	Amount      Money     `json:"amount"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
}

// WelcomeOrderID tags the ledger entry created for a new customer's bonus.
const WelcomeOrderID = "welcome"

type TierThresholds struct {
	Silver   Money `json:"silver"`
	Gold     Money `json:"gold"`
	Platinum Money `json:"platinum"`
}

type TierMultipliers struct {
	Bronze   decimal.Decimal `json:"bronze"`
	Silver   decimal.Decimal `json:"silver"`
	Gold     decimal.Decimal `json:"gold"`
	Platinum decimal.Decimal `json:"platinum"`
}

type LoyaltySettings struct {
	PointsPerUnit       decimal.Decimal `json:"points_per_unit"`
	PointsForRedemption int64           `json:"points_for_redemption"`
	RedemptionValue     Money           `json:"redemption_value"`
	WelcomeBonus        int64           `json:"welcome_bonus"`
	BirthdayBonus       int64           `json:"birthday_bonus"`
	TierThresholds      TierThresholds  `json:"tier_thresholds"`
	TierMultipliers     TierMultipliers `json:"tier_multipliers"`
	Enabled             bool            `json:"is_enabled"`
}

func DefaultLoyaltySettings() LoyaltySettings {
	return LoyaltySettings{
		PointsPerUnit:       decimal.NewFromInt(1),
		PointsForRedemption: 100,
		RedemptionValue:     MoneyFromFloat(5),
		WelcomeBonus:        50,
		BirthdayBonus:       100,
		TierThresholds: TierThresholds{
			Silver:   MoneyFromFloat(100),
			Gold:     MoneyFromFloat(500),
			Platinum: MoneyFromFloat(1000),
		},
		TierMultipliers: TierMultipliers{
			Bronze:   decimal.NewFromInt(1),
			Silver:   decimal.NewFromFloat(1.2),
			Gold:     decimal.NewFromFloat(1.5),
			Platinum: decimal.NewFromInt(2),
		},
		Enabled: true,
	}
}

// TierFor maps cumulative spend to a tier by descending threshold comparison.
func (s LoyaltySettings) TierFor(totalSpent Money) Tier {
	switch {
	case totalSpent.Amount.GreaterThanOrEqual(s.TierThresholds.Platinum.Amount):
		return TierPlatinum
	case totalSpent.Amount.GreaterThanOrEqual(s.TierThresholds.Gold.Amount):
		return TierGold
	case totalSpent.Amount.GreaterThanOrEqual(s.TierThresholds.Silver.Amount):
		return TierSilver
	default:
		return TierBronze
	}
}

func (s LoyaltySettings) Multiplier(tier Tier) decimal.Decimal {
	switch tier {
	case TierSilver:
		return s.TierMultipliers.Silver
	case TierGold:
		return s.TierMultipliers.Gold
	case TierPlatinum:
		return s.TierMultipliers.Platinum
	default:
		return s.TierMultipliers.Bronze
	}
}

// EarnedPoints computes floor(floor(amount*rate) * multiplier). Point values
// are always floored, never rounded.
func (s LoyaltySettings) EarnedPoints(amount Money, tier Tier) int64 {
	base := amount.Amount.Mul(s.PointsPerUnit).Floor()
	return base.Mul(s.Multiplier(tier)).Floor().IntPart()
}

// RedemptionAmount converts redeemed points to their monetary value.
func (s LoyaltySettings) RedemptionAmount(points int64) Money {
	if s.PointsForRedemption <= 0 {
		return ZeroMoney()
	}
	value := decimal.NewFromInt(points).
		Div(decimal.NewFromInt(s.PointsForRedemption)).
		Mul(s.RedemptionValue.Amount)
	return Money{Amount: value, Currency: s.RedemptionValue.Currency}
}

type LoyaltySettingsPatch struct {
	PointsPerUnit       *decimal.Decimal `json:"points_per_unit,omitempty"`
	PointsForRedemption *int64           `json:"points_for_redemption,omitempty"`
	RedemptionValue     *Money           `json:"redemption_value,omitempty"`
	WelcomeBonus        *int64           `json:"welcome_bonus,omitempty"`
	BirthdayBonus       *int64           `json:"birthday_bonus,omitempty"`
	TierThresholds      *TierThresholds  `json:"tier_thresholds,omitempty"`
	TierMultipliers     *TierMultipliers `json:"tier_multipliers,omitempty"`
	Enabled             *bool            `json:"is_enabled,omitempty"`
}

func (p LoyaltySettingsPatch) Apply(s *LoyaltySettings) {
	if p.PointsPerUnit != nil {
		s.PointsPerUnit = *p.PointsPerUnit
	}
	if p.PointsForRedemption != nil {
		s.PointsForRedemption = *p.PointsForRedemption
	}
	if p.RedemptionValue != nil {
		s.RedemptionValue = *p.RedemptionValue
	}
	if p.WelcomeBonus != nil {
		s.WelcomeBonus = *p.WelcomeBonus
	}
	if p.BirthdayBonus != nil {
		s.BirthdayBonus = *p.BirthdayBonus
	}
	if p.TierThresholds != nil {
		s.TierThresholds = *p.TierThresholds
	}
	if p.TierMultipliers != nil {
		s.TierMultipliers = *p.TierMultipliers
	}
	if p.Enabled != nil {
		s.Enabled = *p.Enabled
	}
}

// CustomerPatch is a partial customer update from the admin panel.
type CustomerPatch struct {
	Name   *string `json:"name,omitempty"`
	Phone  *string `json:"phone_number,omitempty"`
	Points *int64  `json:"points,omitempty"`
	Active *bool   `json:"is_active,omitempty"`
}

func (p CustomerPatch) Apply(c *Customer) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Phone != nil {
		c.Phone = *p.Phone
	}
	if p.Points != nil {
		c.Points = *p.Points
	}
	if p.Active != nil {
		c.Active = *p.Active
	}
}

// Deactivating reports whether the patch flips the customer inactive, in
// which case the tier is left as-is.
func (p CustomerPatch) Deactivating() bool {
	return p.Active != nil && !*p.Active
}
