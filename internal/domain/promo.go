package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type PromoCode struct {
	ID                 string      `json:"id"`
	Code               string      `json:"code"`
	DiscountPercentage int         `json:"discount_percentage"`
	Description        string      `json:"description,omitempty"`
	Active             bool        `json:"is_active"`
	UsageCount         int         `json:"usage_count"`
	MaxUsage           *int        `json:"max_usage,omitempty"`
	ExpiresAt          *time.Time  `json:"expires_at,omitempty"`
	CreatedAt          time.Time   `json:"created_at"`
	CreatedBy          PromoOrigin `json:"created_by"`
}

var (
	ErrEmptyPromoCode      = errors.New("promo code is required")
	ErrInvalidDiscount     = errors.New("discount percentage must be between 1 and 100")
	ErrPromoCodeExists     = errors.New("promo code already exists")
	ErrInvalidQuizScore    = errors.New("quiz score cannot exceed question count")
	ErrDuplicatePhone      = errors.New("phone number already registered")
	ErrDuplicateUsername   = errors.New("username already taken")
	ErrCustomerNameMissing = errors.New("customer name is required")
)

func NewPromoCode(code string, discountPercentage int, description string, maxUsage *int, expiresAt *time.Time, origin PromoOrigin) (*PromoCode, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrEmptyPromoCode
	}
	if discountPercentage < 1 || discountPercentage > 100 {
		return nil, ErrInvalidDiscount
	}

	return &PromoCode{
		Code:               code,
		DiscountPercentage: discountPercentage,
		Description:        description,
		Active:             true,
		MaxUsage:           maxUsage,
		ExpiresAt:          expiresAt,
		CreatedAt:          time.Now(),
		CreatedBy:          origin,
	}, nil
}

// Quiz reward parameters: fixed discount, single use, one-week validity.
const (
	quizRewardDiscount = 15
	quizRewardValidity = 7 * 24 * time.Hour
)

// NewQuizReward issues the promo code awarded for a perfect quiz score.
func NewQuizReward(score, totalQuestions int, now time.Time) *PromoCode {
	maxUsage := 1
	expires := now.Add(quizRewardValidity)
	return &PromoCode{
		Code:               fmt.Sprintf("QUIZ%06d", now.UnixMilli()%1000000),
		DiscountPercentage: quizRewardDiscount,
		Description:        fmt.Sprintf("Quiz Perfect Score Reward - %d/%d", score, totalQuestions),
		Active:             true,
		MaxUsage:           &maxUsage,
		ExpiresAt:          &expires,
		CreatedAt:          now,
		CreatedBy:          PromoByQuiz,
	}
}

// ValidAt reports whether the code can still be applied: active, under its
// usage cap, and not expired.
func (p *PromoCode) ValidAt(now time.Time) bool {
	if !p.Active {
		return false
	}
	if p.MaxUsage != nil && p.UsageCount >= *p.MaxUsage {
		return false
	}
	if p.ExpiresAt != nil && !p.ExpiresAt.After(now) {
		return false
	}
	return true
}

// Discount computes the monetary discount this code grants on a total.
func (p *PromoCode) Discount(total Money) Money {
	return total.Percent(p.DiscountPercentage)
}

// Matches compares codes case-insensitively.
func (p *PromoCode) Matches(code string) bool {
	return strings.EqualFold(p.Code, strings.TrimSpace(code))
}

type PromoCodePatch struct {
	Code               *string    `json:"code,omitempty"`
	DiscountPercentage *int       `json:"discount_percentage,omitempty"`
	Description        *string    `json:"description,omitempty"`
	Active             *bool      `json:"is_active,omitempty"`
	MaxUsage           *int       `json:"max_usage,omitempty"`
	ExpiresAt          *time.Time `json:"expires_at,omitempty"`
	ClearMaxUsage      bool       `json:"clear_max_usage,omitempty"`
	ClearExpiry        bool       `json:"clear_expiry,omitempty"`
}

func (p PromoCodePatch) Apply(c *PromoCode) {
	if p.Code != nil {
		c.Code = strings.TrimSpace(*p.Code)
	}
	if p.DiscountPercentage != nil {
		c.DiscountPercentage = *p.DiscountPercentage
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	if p.Active != nil {
		c.Active = *p.Active
	}
	if p.MaxUsage != nil {
		c.MaxUsage = p.MaxUsage
	}
	if p.ClearMaxUsage {
		c.MaxUsage = nil
	}
	if p.ExpiresAt != nil {
		c.ExpiresAt = p.ExpiresAt
	}
	if p.ClearExpiry {
		c.ExpiresAt = nil
	}
}
