package domain

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusPreparing OrderStatus = "preparing"
	StatusReady     OrderStatus = "ready"
	StatusCompleted OrderStatus = "completed"
	StatusPaid      OrderStatus = "paid"
)

// KnownStatus reports whether s is one of the defined order statuses. The
// order store accepts any known status; staff tooling decides which
// transitions to offer.
func KnownStatus(s OrderStatus) bool {
	switch s {
	case StatusPending, StatusPreparing, StatusReady, StatusCompleted, StatusPaid:
		return true
	}
	return false
}

type Tier string

const (
	TierBronze   Tier = "bronze"
	TierSilver   Tier = "silver"
	TierGold     Tier = "gold"
	TierPlatinum Tier = "platinum"
)

type TxType string

const (
	TxEarn   TxType = "earn"
	TxRedeem TxType = "redeem"
)

type PromoOrigin string

const (
	PromoByAdmin PromoOrigin = "admin"
	PromoByQuiz  PromoOrigin = "quiz"
)
