package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/skadam/cafe/internal/domain"
	"github.com/skadam/cafe/internal/interfaces"
)

type PromotionRepository struct {
	db DB
}

var _ interfaces.PromotionMirror = (*PromotionRepository)(nil)

func NewPromotionRepository(db DB) *PromotionRepository {
	return &PromotionRepository{db: db}
}

func (r *PromotionRepository) LoadPromoCodes(ctx context.Context) ([]domain.PromoCode, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, code, discount_percentage, description, is_active, usage_count, max_usage, expires_at, created_at, created_by
		FROM promo_codes
		ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to query promo codes: %w", err)
	}
	defer rows.Close()

	var codes []domain.PromoCode
	for rows.Next() {
		var (
			c         domain.PromoCode
			maxUsage  *int
			expiresAt *time.Time
			createdBy string
		)
		if err := rows.Scan(&c.ID, &c.Code, &c.DiscountPercentage, &c.Description,
			&c.Active, &c.UsageCount, &maxUsage, &expiresAt, &c.CreatedAt, &createdBy); err != nil {
			return nil, fmt.Errorf("failed to scan promo code: %w", err)
		}
		c.MaxUsage = maxUsage
		c.ExpiresAt = expiresAt
		c.CreatedBy = domain.PromoOrigin(createdBy)
		codes = append(codes, c)
	}
	return codes, nil
}

func (r *PromotionRepository) UpsertPromoCode(ctx context.Context, code domain.PromoCode) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO promo_codes (id, code, discount_percentage, description, is_active, usage_count, max_usage, expires_at, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			code = EXCLUDED.code,
			discount_percentage = EXCLUDED.discount_percentage,
			description = EXCLUDED.description,
			is_active = EXCLUDED.is_active,
			usage_count = EXCLUDED.usage_count,
			max_usage = EXCLUDED.max_usage,
			expires_at = EXCLUDED.expires_at`,
		code.ID, code.Code, code.DiscountPercentage, code.Description, code.Active,
		code.UsageCount, code.MaxUsage, code.ExpiresAt, code.CreatedAt, string(code.CreatedBy))
	if err != nil {
		return fmt.Errorf("failed to upsert promo code: %w", err)
	}
	return nil
}

func (r *PromotionRepository) DeletePromoCode(ctx context.Context, id string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM promo_codes WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete promo code: %w", err)
	}
	return nil
}

// Quiz questions and attempts are document shaped and change rarely, so they
// are stored as JSONB rows rather than flattened into columns.

func (r *PromotionRepository) LoadQuizQuestions(ctx context.Context) ([]domain.QuizQuestion, error) {
	rows, err := r.db.Query(ctx, `SELECT data FROM quiz_questions`)
	if err != nil {
		return nil, fmt.Errorf("failed to query quiz questions: %w", err)
	}
	defer rows.Close()

	var questions []domain.QuizQuestion
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan quiz question: %w", err)
		}
		var q domain.QuizQuestion
		if err := json.Unmarshal(data, &q); err != nil {
			return nil, fmt.Errorf("failed to decode quiz question: %w", err)
		}
		questions = append(questions, q)
	}
	return questions, nil
}

func (r *PromotionRepository) UpsertQuizQuestion(ctx context.Context, question domain.QuizQuestion) error {
	data, err := json.Marshal(question)
	if err != nil {
		return fmt.Errorf("failed to encode quiz question: %w", err)
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO quiz_questions (id, data) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data`, question.ID, data)
	if err != nil {
		return fmt.Errorf("failed to upsert quiz question: %w", err)
	}
	return nil
}

func (r *PromotionRepository) DeleteQuizQuestion(ctx context.Context, id string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM quiz_questions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete quiz question: %w", err)
	}
	return nil
}

func (r *PromotionRepository) LoadQuizAttempts(ctx context.Context) ([]domain.QuizAttempt, error) {
	rows, err := r.db.Query(ctx, `SELECT data FROM quiz_attempts`)
	if err != nil {
		return nil, fmt.Errorf("failed to query quiz attempts: %w", err)
	}
	defer rows.Close()

	var attempts []domain.QuizAttempt
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan quiz attempt: %w", err)
		}
		var a domain.QuizAttempt
		if err := json.Unmarshal(data, &a); err != nil {
			return nil, fmt.Errorf("failed to decode quiz attempt: %w", err)
		}
		attempts = append(attempts, a)
	}
	return attempts, nil
}

func (r *PromotionRepository) AppendQuizAttempt(ctx context.Context, attempt domain.QuizAttempt) error {
	data, err := json.Marshal(attempt)
	if err != nil {
		return fmt.Errorf("failed to encode quiz attempt: %w", err)
	}
	if _, err := r.db.Exec(ctx, `INSERT INTO quiz_attempts (id, data) VALUES ($1, $2)`, attempt.ID, data); err != nil {
		return fmt.Errorf("failed to append quiz attempt: %w", err)
	}
	return nil
}
