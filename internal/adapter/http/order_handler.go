package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/skadam/cafe/internal/adapter/logger"
	"github.com/skadam/cafe/internal/domain"
	"github.com/skadam/cafe/internal/interfaces"
)

type OrderHandler struct {
	orders     interfaces.OrderService
	settlement interfaces.SettlementService
	logger     logger.Logger
}

func NewOrderHandler(orders interfaces.OrderService, settlement interfaces.SettlementService, logger logger.Logger) *OrderHandler {
	return &OrderHandler{
		orders:     orders,
		settlement: settlement,
		logger:     logger,
	}
}

type CreateOrderRequest struct {
	TableNumber int                `json:"table_number"`
	Note        string             `json:"customer_note"`
	Lines       []OrderLineRequest `json:"items"`
}

type OrderLineRequest struct {
	MenuItemID string `json:"menu_item_id"`
	Quantity   int    `json:"quantity"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type SettleOrderRequest struct {
	Phone     string `json:"phone_number,omitempty"`
	PromoCode string `json:"promo_code,omitempty"`
}

type SettleOrderResponse struct {
	OrderNumber  int      `json:"order_number"`
	CustomerName string   `json:"customer_name,omitempty"`
	EarnedPoints int64    `json:"earned_points"`
	TotalPoints  int64    `json:"total_points"`
	PromoCode    string   `json:"promo_code,omitempty"`
	Discount     string   `json:"discount"`
	FinalTotal   string   `json:"final_total"`
	Warnings     []string `json:"warnings,omitempty"`
}

func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}

	if validationErrors := validateCreateOrderRequest(req); len(validationErrors) > 0 {
		h.logger.Error("validation_failed", "Order validation failed", "", map[string]any{
			"errors": validationErrors,
		}, fmt.Errorf("validation failed"))
		respondError(w, "Validation failed", http.StatusBadRequest, validationErrors)
		return
	}

	cmd := interfaces.CreateOrderCommand{
		TableNumber: req.TableNumber,
		Note:        strings.TrimSpace(req.Note),
	}
	for _, l := range req.Lines {
		cmd.Lines = append(cmd.Lines, interfaces.CreateOrderLineCommand{
			MenuItemID: l.MenuItemID,
			Quantity:   l.Quantity,
		})
	}

	order, err := h.orders.CreateOrder(r.Context(), cmd)
	if err != nil {
		h.logger.Error("order_creation_failed", "Failed to create order", "", nil, err)
		respondError(w, err.Error(), http.StatusBadRequest, nil)
		return
	}

	respondJSON(w, http.StatusCreated, order)
}

func validateCreateOrderRequest(req CreateOrderRequest) []ValidationError {
	var errors []ValidationError

	if req.TableNumber < 1 {
		errors = append(errors, ValidationError{
			Field:   "table_number",
			Message: "table number must be at least 1",
		})
	}

	if len(req.Lines) < 1 {
		errors = append(errors, ValidationError{
			Field:   "items",
			Message: "order must contain at least 1 item",
		})
	}

	for i, line := range req.Lines {
		if strings.TrimSpace(line.MenuItemID) == "" {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("items[%d].menu_item_id", i),
				Message: "menu item id is required",
			})
		}
		if line.Quantity < 1 {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("items[%d].quantity", i),
				Message: "item quantity must be at least 1",
			})
		}
	}

	return errors
}

func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.orders.Orders())
}

func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, ok := h.orders.Order(r.PathValue("id"))
	if !ok {
		respondError(w, "Order not found", http.StatusNotFound, nil)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}

	err := h.orders.UpdateStatus(r.Context(), r.PathValue("id"), domain.OrderStatus(req.Status))
	if err != nil {
		respondError(w, err.Error(), http.StatusBadRequest, nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *OrderHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	h.orders.DeleteOrder(r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

// SettleOrder runs the payment workflow: loyalty points, promo discount, and
// the transition to paid.
func (h *OrderHandler) SettleOrder(w http.ResponseWriter, r *http.Request) {
	var req SettleOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}

	result, err := h.settlement.SettleOrder(r.Context(), interfaces.SettleOrderCommand{
		OrderID:   r.PathValue("id"),
		Phone:     strings.TrimSpace(req.Phone),
		PromoCode: strings.TrimSpace(req.PromoCode),
	})
	if err != nil {
		h.logger.Error("settlement_failed", "Failed to settle order", "", nil, err)
		respondError(w, err.Error(), http.StatusBadRequest, nil)
		return
	}

	respondJSON(w, http.StatusOK, SettleOrderResponse{
		OrderNumber:  result.OrderNumber,
		CustomerName: result.CustomerName,
		EarnedPoints: result.EarnedPoints,
		TotalPoints:  result.TotalPoints,
		PromoCode:    result.PromoCode,
		Discount:     result.Discount.String(),
		FinalTotal:   result.FinalTotal.String(),
		Warnings:     result.Warnings,
	})
}

func (h *OrderHandler) ClearPaidOrders(w http.ResponseWriter, r *http.Request) {
	if err := h.orders.ClearPaidOrders(r.Context()); err != nil {
		h.logger.Error("clear_paid_failed", "Failed to clear paid orders", "", nil, err)
		respondError(w, err.Error(), http.StatusInternalServerError, nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
