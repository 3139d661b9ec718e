package interfaces

import (
	"context"
	"time"

	"github.com/skadam/cafe/internal/domain"
)

// Commands accepted by the services.

type CreateOrderLineCommand struct {
	MenuItemID string
	Quantity   int
}

type CreateOrderCommand struct {
	Lines       []CreateOrderLineCommand
	TableNumber int
	Note        string
}

type CreatePromoCodeCommand struct {
	Code               string
	DiscountPercentage int
	Description        string
	MaxUsage           *int
	ExpiresAt          *time.Time
}

type SettleOrderCommand struct {
	OrderID   string
	Phone     string
	PromoCode string
}

// SettlementResult is the payment confirmation report shown to staff.
type SettlementResult struct {
	OrderNumber  int
	CustomerName string
	EarnedPoints int64
	TotalPoints  int64
	PromoCode    string
	Discount     domain.Money
	FinalTotal   domain.Money
	// Warnings carries loyalty or promo failures that did not block payment.
	Warnings []string
}

type CatalogService interface {
	MenuItems() []domain.MenuItem
	MenuItem(id string) (domain.MenuItem, bool)
	Categories() []domain.Category
	AddMenuItem(item domain.MenuItem) (domain.MenuItem, error)
	UpdateMenuItem(id string, patch domain.MenuItemPatch)
	DeleteMenuItem(id string)
	AddCategory(category domain.Category) domain.Category
	UpdateCategory(id string, patch domain.CategoryPatch)
	DeleteCategory(id string)
	SetInventoryQuantity(itemID string, quantity int)
	SetInventorySettings(itemID string, patch domain.InventorySettingsPatch)
	ReserveStock(itemID string, quantity int)
	LowStockItems() []domain.MenuItem
}

type OrderService interface {
	CreateOrder(ctx context.Context, cmd CreateOrderCommand) (*domain.Order, error)
	Order(id string) (domain.Order, bool)
	Orders() []domain.Order
	UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) error
	DeleteOrder(orderID string)
	ClearPaidOrders(ctx context.Context) error
}

type LoyaltyService interface {
	Settings() domain.LoyaltySettings
	UpdateSettings(patch domain.LoyaltySettingsPatch)
	Customers() []domain.Customer
	Transactions(customerID string) []domain.Transaction
	AddCustomer(name, phone string) (domain.Customer, error)
	UpdateCustomer(id string, patch domain.CustomerPatch)
	DeleteCustomer(id string)
	FindByPhone(phone string) (domain.Customer, bool)
	AddPoints(customerID, orderID string, amount domain.Money) int64
	RedeemPoints(customerID, orderID string, points int64) bool
}

type PromotionService interface {
	PromoCodes() []domain.PromoCode
	CreatePromoCode(cmd CreatePromoCodeCommand) (domain.PromoCode, error)
	UpdatePromoCode(id string, patch domain.PromoCodePatch) error
	DeletePromoCode(id string)
	Validate(code string) (domain.PromoCode, bool)
	Consume(code string) bool

	QuizQuestions() []domain.QuizQuestion
	ActiveQuizQuestions() []domain.QuizQuestion
	AddQuizQuestion(question domain.QuizQuestion) domain.QuizQuestion
	UpdateQuizQuestion(id string, patch domain.QuizQuestionPatch)
	DeleteQuizQuestion(id string)
	SubmitQuizAttempt(userID string, score, totalQuestions int) (string, error)
	UserAttempts(userID string) []domain.QuizAttempt
}

type SettlementService interface {
	SettleOrder(ctx context.Context, cmd SettleOrderCommand) (*SettlementResult, error)
}

type StaffService interface {
	SubUsers() []domain.SubUser
	AddSubUser(username, password, name string) (domain.SubUser, error)
	UpdateSubUser(id string, patch domain.SubUserPatch)
	DeleteSubUser(id string)
	Authenticate(username, password string) (domain.SubUser, bool)
	StoreSettings() domain.StoreSettings
	UpdateStoreSettings(patch domain.StoreSettingsPatch)
	NotificationSettings() domain.NotificationSettings
	UpdateNotificationSettings(patch domain.NotificationSettingsPatch)
}

// NotificationGate exposes the dispatch toggles consulted before an event is
// published. A nil gate means everything goes out.
type NotificationGate interface {
	NotificationSettings() domain.NotificationSettings
}
