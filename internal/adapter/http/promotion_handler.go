package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/skadam/cafe/internal/adapter/logger"
	"github.com/skadam/cafe/internal/domain"
	"github.com/skadam/cafe/internal/interfaces"
)

type PromotionHandler struct {
	promotions interfaces.PromotionService
	logger     logger.Logger
}

func NewPromotionHandler(promotions interfaces.PromotionService, logger logger.Logger) *PromotionHandler {
	return &PromotionHandler{promotions: promotions, logger: logger}
}

type CreatePromoCodeRequest struct {
	Code               string     `json:"code"`
	DiscountPercentage int        `json:"discount_percentage"`
	Description        string     `json:"description,omitempty"`
	MaxUsage           *int       `json:"max_usage,omitempty"`
	ExpiresAt          *time.Time `json:"expires_at,omitempty"`
}

func (h *PromotionHandler) ListPromoCodes(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.promotions.PromoCodes())
}

func (h *PromotionHandler) CreatePromoCode(w http.ResponseWriter, r *http.Request) {
	var req CreatePromoCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}

	code, err := h.promotions.CreatePromoCode(interfaces.CreatePromoCodeCommand{
		Code:               req.Code,
		DiscountPercentage: req.DiscountPercentage,
		Description:        req.Description,
		MaxUsage:           req.MaxUsage,
		ExpiresAt:          req.ExpiresAt,
	})
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, domain.ErrPromoCodeExists) {
			status = http.StatusConflict
		}
		respondError(w, err.Error(), status, nil)
		return
	}
	respondJSON(w, http.StatusCreated, code)
}

func (h *PromotionHandler) UpdatePromoCode(w http.ResponseWriter, r *http.Request) {
	var patch domain.PromoCodePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}
	if err := h.promotions.UpdatePromoCode(r.PathValue("id"), patch); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, domain.ErrPromoCodeExists) {
			status = http.StatusConflict
		}
		respondError(w, err.Error(), status, nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *PromotionHandler) DeletePromoCode(w http.ResponseWriter, r *http.Request) {
	h.promotions.DeletePromoCode(r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

type ValidatePromoResponse struct {
	Valid              bool   `json:"valid"`
	Code               string `json:"code,omitempty"`
	DiscountPercentage int    `json:"discount_percentage,omitempty"`
}

// ValidatePromoCode is a read-only check; it never consumes a use.
func (h *PromotionHandler) ValidatePromoCode(w http.ResponseWriter, r *http.Request) {
	code := strings.TrimSpace(r.URL.Query().Get("code"))
	if code == "" {
		respondError(w, "Validation failed", http.StatusBadRequest, []ValidationError{
			{Field: "code", Message: "code query parameter is required"},
		})
		return
	}

	promo, ok := h.promotions.Validate(code)
	if !ok {
		respondJSON(w, http.StatusOK, ValidatePromoResponse{Valid: false})
		return
	}
	respondJSON(w, http.StatusOK, ValidatePromoResponse{
		Valid:              true,
		Code:               promo.Code,
		DiscountPercentage: promo.DiscountPercentage,
	})
}

func (h *PromotionHandler) ListQuizQuestions(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("active") == "true" {
		respondJSON(w, http.StatusOK, h.promotions.ActiveQuizQuestions())
		return
	}
	respondJSON(w, http.StatusOK, h.promotions.QuizQuestions())
}

func (h *PromotionHandler) AddQuizQuestion(w http.ResponseWriter, r *http.Request) {
	var question domain.QuizQuestion
	if err := json.NewDecoder(r.Body).Decode(&question); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}

	var validationErrors []ValidationError
	if strings.TrimSpace(question.Question) == "" {
		validationErrors = append(validationErrors, ValidationError{
			Field:   "question",
			Message: "question text is required",
		})
	}
	if len(question.Options) < 2 {
		validationErrors = append(validationErrors, ValidationError{
			Field:   "options",
			Message: "question must have at least 2 options",
		})
	}
	if question.CorrectAnswer < 0 || question.CorrectAnswer >= len(question.Options) {
		validationErrors = append(validationErrors, ValidationError{
			Field:   "correct_answer",
			Message: "correct answer must index an option",
		})
	}
	if len(validationErrors) > 0 {
		respondError(w, "Validation failed", http.StatusBadRequest, validationErrors)
		return
	}

	respondJSON(w, http.StatusCreated, h.promotions.AddQuizQuestion(question))
}

func (h *PromotionHandler) UpdateQuizQuestion(w http.ResponseWriter, r *http.Request) {
	var patch domain.QuizQuestionPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}
	h.promotions.UpdateQuizQuestion(r.PathValue("id"), patch)
	w.WriteHeader(http.StatusNoContent)
}

func (h *PromotionHandler) DeleteQuizQuestion(w http.ResponseWriter, r *http.Request) {
	h.promotions.DeleteQuizQuestion(r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

type SubmitQuizRequest struct {
	UserID         string `json:"user_id"`
	Score          int    `json:"score"`
	TotalQuestions int    `json:"total_questions"`
}

type SubmitQuizResponse struct {
	EarnedPromoCode string `json:"earned_promo_code,omitempty"`
}

func (h *PromotionHandler) SubmitQuizAttempt(w http.ResponseWriter, r *http.Request) {
	var req SubmitQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}
	if strings.TrimSpace(req.UserID) == "" {
		respondError(w, "Validation failed", http.StatusBadRequest, []ValidationError{
			{Field: "user_id", Message: "user id is required"},
		})
		return
	}

	earned, err := h.promotions.SubmitQuizAttempt(req.UserID, req.Score, req.TotalQuestions)
	if err != nil {
		respondError(w, err.Error(), http.StatusBadRequest, nil)
		return
	}
	respondJSON(w, http.StatusCreated, SubmitQuizResponse{EarnedPromoCode: earned})
}

func (h *PromotionHandler) ListUserAttempts(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.promotions.UserAttempts(r.PathValue("userID")))
}
