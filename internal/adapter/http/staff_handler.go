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

type StaffHandler struct {
	staff  interfaces.StaffService
	logger logger.Logger
}

func NewStaffHandler(staff interfaces.StaffService, logger logger.Logger) *StaffHandler {
	return &StaffHandler{staff: staff, logger: logger}
}

type AddSubUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *StaffHandler) ListSubUsers(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.staff.SubUsers())
}

func (h *StaffHandler) AddSubUser(w http.ResponseWriter, r *http.Request) {
	var req AddSubUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}

	var validationErrors []ValidationError
	if strings.TrimSpace(req.Username) == "" {
		validationErrors = append(validationErrors, ValidationError{
			Field:   "username",
			Message: "username is required",
		})
	}
	if req.Password == "" {
		validationErrors = append(validationErrors, ValidationError{
			Field:   "password",
			Message: "password is required",
		})
	}
	if len(validationErrors) > 0 {
		respondError(w, "Validation failed", http.StatusBadRequest, validationErrors)
		return
	}

	user, err := h.staff.AddSubUser(strings.TrimSpace(req.Username), req.Password, strings.TrimSpace(req.Name))
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, domain.ErrDuplicateUsername) {
			status = http.StatusConflict
		}
		respondError(w, err.Error(), status, nil)
		return
	}
	respondJSON(w, http.StatusCreated, user)
}

func (h *StaffHandler) UpdateSubUser(w http.ResponseWriter, r *http.Request) {
	var patch domain.SubUserPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}
	h.staff.UpdateSubUser(r.PathValue("id"), patch)
	w.WriteHeader(http.StatusNoContent)
}

func (h *StaffHandler) DeleteSubUser(w http.ResponseWriter, r *http.Request) {
	h.staff.DeleteSubUser(r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

func (h *StaffHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}

	user, ok := h.staff.Authenticate(req.Username, req.Password)
	if !ok {
		respondError(w, "Invalid credentials", http.StatusUnauthorized, nil)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

func (h *StaffHandler) GetStoreSettings(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.staff.StoreSettings())
}

func (h *StaffHandler) UpdateStoreSettings(w http.ResponseWriter, r *http.Request) {
	var patch domain.StoreSettingsPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}
	h.staff.UpdateStoreSettings(patch)
	respondJSON(w, http.StatusOK, h.staff.StoreSettings())
}

func (h *StaffHandler) GetNotificationSettings(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.staff.NotificationSettings())
}

func (h *StaffHandler) UpdateNotificationSettings(w http.ResponseWriter, r *http.Request) {
	var patch domain.NotificationSettingsPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}
	h.staff.UpdateNotificationSettings(patch)
	respondJSON(w, http.StatusOK, h.staff.NotificationSettings())
}
