package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/skadam/cafe/internal/adapter/logger"
	"github.com/skadam/cafe/internal/domain"
	"github.com/skadam/cafe/internal/interfaces"
)

type LoyaltyHandler struct {
	loyalty interfaces.LoyaltyService
	logger  logger.Logger
}

func NewLoyaltyHandler(loyalty interfaces.LoyaltyService, logger logger.Logger) *LoyaltyHandler {
	return &LoyaltyHandler{loyalty: loyalty, logger: logger}
}

type AddCustomerRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone_number"`
}

func (h *LoyaltyHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.loyalty.Customers())
}

func (h *LoyaltyHandler) AddCustomer(w http.ResponseWriter, r *http.Request) {
	var req AddCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}

	var validationErrors []ValidationError
	if strings.TrimSpace(req.Name) == "" {
		validationErrors = append(validationErrors, ValidationError{
			Field:   "name",
			Message: "customer name is required",
		})
	}
	if strings.TrimSpace(req.Phone) == "" {
		validationErrors = append(validationErrors, ValidationError{
			Field:   "phone_number",
			Message: "phone number is required",
		})
	}
	if len(validationErrors) > 0 {
		respondError(w, "Validation failed", http.StatusBadRequest, validationErrors)
		return
	}

	customer, err := h.loyalty.AddCustomer(strings.TrimSpace(req.Name), strings.TrimSpace(req.Phone))
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, domain.ErrDuplicatePhone) {
			status = http.StatusConflict
		}
		respondError(w, err.Error(), status, nil)
		return
	}
	respondJSON(w, http.StatusCreated, customer)
}

func (h *LoyaltyHandler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	var patch domain.CustomerPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}
	h.loyalty.UpdateCustomer(r.PathValue("id"), patch)
	w.WriteHeader(http.StatusNoContent)
}

func (h *LoyaltyHandler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	h.loyalty.DeleteCustomer(r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

func (h *LoyaltyHandler) FindByPhone(w http.ResponseWriter, r *http.Request) {
	phone := r.URL.Query().Get("phone")
	if phone == "" {
		respondError(w, "Validation failed", http.StatusBadRequest, []ValidationError{
			{Field: "phone", Message: "phone query parameter is required"},
		})
		return
	}

	customer, ok := h.loyalty.FindByPhone(phone)
	if !ok {
		respondError(w, "Customer not found", http.StatusNotFound, nil)
		return
	}
	respondJSON(w, http.StatusOK, customer)
}

func (h *LoyaltyHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.loyalty.Transactions(r.PathValue("id")))
}

type RedeemPointsRequest struct {
	OrderID string `json:"order_id"`
	Points  int64  `json:"points"`
}

func (h *LoyaltyHandler) RedeemPoints(w http.ResponseWriter, r *http.Request) {
	var req RedeemPointsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}

	if !h.loyalty.RedeemPoints(r.PathValue("id"), req.OrderID, req.Points) {
		respondError(w, "Redemption rejected: insufficient points", http.StatusBadRequest, nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *LoyaltyHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.loyalty.Settings())
}

func (h *LoyaltyHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var patch domain.LoyaltySettingsPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}
	h.loyalty.UpdateSettings(patch)
	respondJSON(w, http.StatusOK, h.loyalty.Settings())
}
