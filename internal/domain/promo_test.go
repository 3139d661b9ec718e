package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPromoCodeValidation(t *testing.T) {
	_, err := NewPromoCode("", 10, "", nil, nil, PromoByAdmin)
	assert.ErrorIs(t, err, ErrEmptyPromoCode)

	_, err = NewPromoCode("SAVE10", 0, "", nil, nil, PromoByAdmin)
	assert.ErrorIs(t, err, ErrInvalidDiscount)

	_, err = NewPromoCode("SAVE10", 101, "", nil, nil, PromoByAdmin)
	assert.ErrorIs(t, err, ErrInvalidDiscount)

	code, err := NewPromoCode("  SAVE10  ", 10, "ten percent off", nil, nil, PromoByAdmin)
	require.NoError(t, err)
	assert.Equal(t, "SAVE10", code.Code)
	assert.True(t, code.Active)
	assert.Zero(t, code.UsageCount)
}

func TestPromoCodeValidAt(t *testing.T) {
	now := time.Now()
	one := 1
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	code := PromoCode{Code: "SAVE10", DiscountPercentage: 10, Active: true}
	assert.True(t, code.ValidAt(now))

	inactive := code
	inactive.Active = false
	assert.False(t, inactive.ValidAt(now))

	exhausted := code
	exhausted.MaxUsage = &one
	exhausted.UsageCount = 1
	assert.False(t, exhausted.ValidAt(now))

	expired := code
	expired.ExpiresAt = &past
	assert.False(t, expired.ValidAt(now))

	valid := code
	valid.MaxUsage = &one
	valid.ExpiresAt = &future
	assert.True(t, valid.ValidAt(now))
}

func TestPromoCodeMatchesCaseInsensitive(t *testing.T) {
	code := PromoCode{Code: "SAVE10"}

	assert.True(t, code.Matches("save10"))
	assert.True(t, code.Matches("  Save10 "))
	assert.False(t, code.Matches("save20"))
}

func TestNewQuizReward(t *testing.T) {
	now := time.Now()
	reward := NewQuizReward(5, 5, now)

	assert.True(t, strings.HasPrefix(reward.Code, "QUIZ"))
	assert.Len(t, reward.Code, 10)
	assert.Equal(t, 15, reward.DiscountPercentage)
	require.NotNil(t, reward.MaxUsage)
	assert.Equal(t, 1, *reward.MaxUsage)
	require.NotNil(t, reward.ExpiresAt)
	assert.Equal(t, now.Add(7*24*time.Hour), *reward.ExpiresAt)
	assert.Equal(t, PromoByQuiz, reward.CreatedBy)
}

func TestPromoCodePatchClears(t *testing.T) {
	one := 1
	expiry := time.Now().Add(time.Hour)
	code := PromoCode{Code: "SAVE10", DiscountPercentage: 10, MaxUsage: &one, ExpiresAt: &expiry}

	PromoCodePatch{ClearMaxUsage: true, ClearExpiry: true}.Apply(&code)

	assert.Nil(t, code.MaxUsage)
	assert.Nil(t, code.ExpiresAt)
}
