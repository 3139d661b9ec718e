package interfaces

import (
	"context"

	"github.com/skadam/cafe/internal/domain"
)

// Mirrors persist the in-memory store state. Writes are best-effort: stores
// update memory first and log mirror failures without rolling back. The local
// blob store and the postgres repositories both implement these.

type CatalogMirror interface {
	LoadMenuItems(ctx context.Context) ([]domain.MenuItem, bool, error)
	LoadCategories(ctx context.Context) ([]domain.Category, bool, error)
	SaveMenuItems(ctx context.Context, items []domain.MenuItem) error
	SaveCategories(ctx context.Context, categories []domain.Category) error
}

type OrderMirror interface {
	LoadOrders(ctx context.Context) ([]domain.Order, error)
	InsertOrder(ctx context.Context, order *domain.Order) error
	UpdateOrder(ctx context.Context, order *domain.Order) error
	DeleteOrder(ctx context.Context, id string) error
	DeletePaid(ctx context.Context) error
}

// OrderCounter is the single source of truth for order numbering. Next must
// never hand out the same number twice; Reset starts a new counter epoch.
type OrderCounter interface {
	Next(ctx context.Context) (int, error)
	Reset(ctx context.Context) error
}

type LoyaltyState struct {
	Customers    []domain.Customer
	Transactions []domain.Transaction
	Settings     *domain.LoyaltySettings
}

type LoyaltyMirror interface {
	LoadLoyalty(ctx context.Context) (LoyaltyState, error)
	UpsertCustomer(ctx context.Context, customer domain.Customer) error
	// DeleteCustomer also removes the customer's ledger entries.
	DeleteCustomer(ctx context.Context, id string) error
	AppendTransaction(ctx context.Context, tx domain.Transaction) error
	SaveLoyaltySettings(ctx context.Context, settings domain.LoyaltySettings) error
}

type PromotionMirror interface {
	LoadPromoCodes(ctx context.Context) ([]domain.PromoCode, error)
	UpsertPromoCode(ctx context.Context, code domain.PromoCode) error
	DeletePromoCode(ctx context.Context, id string) error

	LoadQuizQuestions(ctx context.Context) ([]domain.QuizQuestion, error)
	UpsertQuizQuestion(ctx context.Context, question domain.QuizQuestion) error
	DeleteQuizQuestion(ctx context.Context, id string) error
	LoadQuizAttempts(ctx context.Context) ([]domain.QuizAttempt, error)
	AppendQuizAttempt(ctx context.Context, attempt domain.QuizAttempt) error
}

type StaffMirror interface {
	LoadSubUsers(ctx context.Context) ([]domain.SubUser, bool, error)
	SaveSubUsers(ctx context.Context, users []domain.SubUser) error
	LoadStoreSettings(ctx context.Context) (*domain.StoreSettings, error)
	SaveStoreSettings(ctx context.Context, settings domain.StoreSettings) error
	LoadNotificationSettings(ctx context.Context) (*domain.NotificationSettings, error)
	SaveNotificationSettings(ctx context.Context, settings domain.NotificationSettings) error
}
