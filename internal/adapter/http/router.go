package http

import (
	"net/http"

	"github.com/skadam/cafe/internal/adapter/logger"
)

type Handlers struct {
	Orders     *OrderHandler
	Catalog    *CatalogHandler
	Loyalty    *LoyaltyHandler
	Promotions *PromotionHandler
	Staff      *StaffHandler
}

// NewRouter assembles the admin API routes with logging and panic recovery.
func NewRouter(h Handlers, lgr logger.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/orders", h.Orders.ListOrders)
	mux.HandleFunc("POST /api/orders", h.Orders.CreateOrder)
	mux.HandleFunc("GET /api/orders/{id}", h.Orders.GetOrder)
	mux.HandleFunc("PATCH /api/orders/{id}/status", h.Orders.UpdateStatus)
	mux.HandleFunc("POST /api/orders/{id}/settle", h.Orders.SettleOrder)
	mux.HandleFunc("DELETE /api/orders/{id}", h.Orders.DeleteOrder)
	mux.HandleFunc("POST /api/orders/clear-paid", h.Orders.ClearPaidOrders)

	mux.HandleFunc("GET /api/menu", h.Catalog.ListMenuItems)
	mux.HandleFunc("POST /api/menu", h.Catalog.AddMenuItem)
	mux.HandleFunc("GET /api/menu/{id}", h.Catalog.GetMenuItem)
	mux.HandleFunc("PATCH /api/menu/{id}", h.Catalog.UpdateMenuItem)
	mux.HandleFunc("DELETE /api/menu/{id}", h.Catalog.DeleteMenuItem)
	mux.HandleFunc("PUT /api/menu/{id}/quantity", h.Catalog.SetInventoryQuantity)
	mux.HandleFunc("PUT /api/menu/{id}/inventory-settings", h.Catalog.SetInventorySettings)
	mux.HandleFunc("GET /api/menu/low-stock", h.Catalog.ListLowStock)
	mux.HandleFunc("GET /api/categories", h.Catalog.ListCategories)
	mux.HandleFunc("POST /api/categories", h.Catalog.AddCategory)
	mux.HandleFunc("PATCH /api/categories/{id}", h.Catalog.UpdateCategory)
	mux.HandleFunc("DELETE /api/categories/{id}", h.Catalog.DeleteCategory)

	mux.HandleFunc("GET /api/customers", h.Loyalty.ListCustomers)
	mux.HandleFunc("POST /api/customers", h.Loyalty.AddCustomer)
	mux.HandleFunc("GET /api/customers/lookup", h.Loyalty.FindByPhone)
	mux.HandleFunc("PATCH /api/customers/{id}", h.Loyalty.UpdateCustomer)
	mux.HandleFunc("DELETE /api/customers/{id}", h.Loyalty.DeleteCustomer)
	mux.HandleFunc("GET /api/customers/{id}/transactions", h.Loyalty.ListTransactions)
	mux.HandleFunc("POST /api/customers/{id}/redeem", h.Loyalty.RedeemPoints)
	mux.HandleFunc("GET /api/loyalty/settings", h.Loyalty.GetSettings)
	mux.HandleFunc("PATCH /api/loyalty/settings", h.Loyalty.UpdateSettings)

	mux.HandleFunc("GET /api/promo-codes", h.Promotions.ListPromoCodes)
	mux.HandleFunc("POST /api/promo-codes", h.Promotions.CreatePromoCode)
	mux.HandleFunc("GET /api/promo-codes/validate", h.Promotions.ValidatePromoCode)
	mux.HandleFunc("PATCH /api/promo-codes/{id}", h.Promotions.UpdatePromoCode)
	mux.HandleFunc("DELETE /api/promo-codes/{id}", h.Promotions.DeletePromoCode)
	mux.HandleFunc("GET /api/quiz/questions", h.Promotions.ListQuizQuestions)
	mux.HandleFunc("POST /api/quiz/questions", h.Promotions.AddQuizQuestion)
	mux.HandleFunc("PATCH /api/quiz/questions/{id}", h.Promotions.UpdateQuizQuestion)
	mux.HandleFunc("DELETE /api/quiz/questions/{id}", h.Promotions.DeleteQuizQuestion)
	mux.HandleFunc("POST /api/quiz/attempts", h.Promotions.SubmitQuizAttempt)
	mux.HandleFunc("GET /api/quiz/attempts/{userID}", h.Promotions.ListUserAttempts)

	mux.HandleFunc("GET /api/staff", h.Staff.ListSubUsers)
	mux.HandleFunc("POST /api/staff", h.Staff.AddSubUser)
	mux.HandleFunc("PATCH /api/staff/{id}", h.Staff.UpdateSubUser)
	mux.HandleFunc("DELETE /api/staff/{id}", h.Staff.DeleteSubUser)
	mux.HandleFunc("POST /api/staff/login", h.Staff.Login)
	mux.HandleFunc("GET /api/store-settings", h.Staff.GetStoreSettings)
	mux.HandleFunc("PATCH /api/store-settings", h.Staff.UpdateStoreSettings)
	mux.HandleFunc("GET /api/notification-settings", h.Staff.GetNotificationSettings)
	mux.HandleFunc("PATCH /api/notification-settings", h.Staff.UpdateNotificationSettings)

	var handler http.Handler = mux
	handler = LoggingMiddleware(lgr)(handler)
	handler = RecoveryMiddleware(lgr)(handler)
	return handler
}
