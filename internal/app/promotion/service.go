package promotion

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/skadam/cafe/internal/adapter/logger"
	"github.com/skadam/cafe/internal/domain"
	"github.com/skadam/cafe/internal/interfaces"
)

// Service owns promo codes and the rewards quiz (questions and attempts).
// A perfect quiz score issues a single-use discount code.
type Service struct {
	mirror interfaces.PromotionMirror
	logger logger.Logger

	mu        sync.Mutex
	codes     []domain.PromoCode
	questions []domain.QuizQuestion
	attempts  []domain.QuizAttempt

	writes sync.WaitGroup
}

func NewService(mirror interfaces.PromotionMirror, lgr logger.Logger) *Service {
	return &Service{
		mirror: mirror,
		logger: lgr,
	}
}

func (s *Service) Load(ctx context.Context) error {
	codes, err := s.mirror.LoadPromoCodes(ctx)
	if err != nil {
		return fmt.Errorf("failed to load promo codes: %w", err)
	}
	questions, err := s.mirror.LoadQuizQuestions(ctx)
	if err != nil {
		return fmt.Errorf("failed to load quiz questions: %w", err)
	}
	attempts, err := s.mirror.LoadQuizAttempts(ctx)
	if err != nil {
		return fmt.Errorf("failed to load quiz attempts: %w", err)
	}

	s.mu.Lock()
	s.codes = codes
	s.questions = questions
	s.attempts = attempts
	s.mu.Unlock()
	return nil
}

func (s *Service) PromoCodes() []domain.PromoCode {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.PromoCode, len(s.codes))
	copy(out, s.codes)
	return out
}

// CreatePromoCode registers an admin-authored code. Codes that differ only in
// case are rejected: lookup is case-insensitive, so the duplicate could never
// be reached.
func (s *Service) CreatePromoCode(cmd interfaces.CreatePromoCodeCommand) (domain.PromoCode, error) {
	code, err := domain.NewPromoCode(cmd.Code, cmd.DiscountPercentage, cmd.Description, cmd.MaxUsage, cmd.ExpiresAt, domain.PromoByAdmin)
	if err != nil {
		return domain.PromoCode{}, err
	}
	code.ID = uuid.NewString()

	s.mu.Lock()
	if s.codeExistsLocked(code.Code, "") {
		s.mu.Unlock()
		return domain.PromoCode{}, domain.ErrPromoCodeExists
	}
	s.codes = append(s.codes, *code)
	s.mu.Unlock()

	s.mirrorWrite("promo_mirror_failed", func(ctx context.Context) error {
		return s.mirror.UpsertPromoCode(ctx, *code)
	})
	return *code, nil
}

func (s *Service) UpdatePromoCode(id string, patch domain.PromoCodePatch) error {
	s.mu.Lock()
	if patch.Code != nil && s.codeExistsLocked(*patch.Code, id) {
		s.mu.Unlock()
		return domain.ErrPromoCodeExists
	}
	var updated *domain.PromoCode
	for i := range s.codes {
		if s.codes[i].ID == id {
			patch.Apply(&s.codes[i])
			c := s.codes[i]
			updated = &c
			break
		}
	}
	s.mu.Unlock()

	if updated != nil {
		c := *updated
		s.mirrorWrite("promo_mirror_failed", func(ctx context.Context) error {
			return s.mirror.UpsertPromoCode(ctx, c)
		})
	}
	return nil
}

func (s *Service) DeletePromoCode(id string) {
	s.mu.Lock()
	changed := false
	for i := range s.codes {
		if s.codes[i].ID == id {
			s.codes = append(s.codes[:i], s.codes[i+1:]...)
			changed = true
			break
		}
	}
	s.mu.Unlock()

	if changed {
		s.mirrorWrite("promo_mirror_failed", func(ctx context.Context) error {
			return s.mirror.DeletePromoCode(ctx, id)
		})
	}
}

// Validate looks a code up case-insensitively and returns it only while it is
// applicable: active, under its usage cap, not expired. Validation never
// consumes usage.
func (s *Service) Validate(code string) (domain.PromoCode, bool) {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.codes {
		if c.Matches(code) && c.ValidAt(now) {
			return c, true
		}
	}
	return domain.PromoCode{}, false
}

// Consume re-validates and then burns one usage. The discount amount is
// computed by the caller before consuming; the two steps are deliberately not
// atomic.
func (s *Service) Consume(code string) bool {
	now := time.Now()

	s.mu.Lock()
	var consumed *domain.PromoCode
	for i := range s.codes {
		if s.codes[i].Matches(code) && s.codes[i].ValidAt(now) {
			s.codes[i].UsageCount++
			c := s.codes[i]
			consumed = &c
			break
		}
	}
	s.mu.Unlock()

	if consumed == nil {
		return false
	}

	c := *consumed
	s.mirrorWrite("promo_mirror_failed", func(ctx context.Context) error {
		return s.mirror.UpsertPromoCode(ctx, c)
	})
	return true
}

func (s *Service) QuizQuestions() []domain.QuizQuestion {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.QuizQuestion, len(s.questions))
	copy(out, s.questions)
	return out
}

func (s *Service) ActiveQuizQuestions() []domain.QuizQuestion {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.QuizQuestion
	for _, q := range s.questions {
		if q.Active {
			out = append(out, q)
		}
	}
	return out
}

func (s *Service) AddQuizQuestion(question domain.QuizQuestion) domain.QuizQuestion {
	if question.ID == "" {
		question.ID = uuid.NewString()
	}
	question.CreatedAt = time.Now()

	s.mu.Lock()
	s.questions = append(s.questions, question)
	s.mu.Unlock()

	s.mirrorWrite("quiz_mirror_failed", func(ctx context.Context) error {
		return s.mirror.UpsertQuizQuestion(ctx, question)
	})
	return question
}

func (s *Service) UpdateQuizQuestion(id string, patch domain.QuizQuestionPatch) {
	s.mu.Lock()
	var updated *domain.QuizQuestion
	for i := range s.questions {
		if s.questions[i].ID == id {
			patch.Apply(&s.questions[i])
			q := s.questions[i]
			updated = &q
			break
		}
	}
	s.mu.Unlock()

	if updated != nil {
		q := *updated
		s.mirrorWrite("quiz_mirror_failed", func(ctx context.Context) error {
			return s.mirror.UpsertQuizQuestion(ctx, q)
		})
	}
}

func (s *Service) DeleteQuizQuestion(id string) {
	s.mu.Lock()
	changed := false
	for i := range s.questions {
		if s.questions[i].ID == id {
			s.questions = append(s.questions[:i], s.questions[i+1:]...)
			changed = true
			break
		}
	}
	s.mu.Unlock()

	if changed {
		s.mirrorWrite("quiz_mirror_failed", func(ctx context.Context) error {
			return s.mirror.DeleteQuizQuestion(ctx, id)
		})
	}
}

// SubmitQuizAttempt records the attempt and, on a perfect score, issues the
// reward code. Returns the earned code, empty when the score fell short.
func (s *Service) SubmitQuizAttempt(userID string, score, totalQuestions int) (string, error) {
	if score < 0 || totalQuestions < 1 {
		return "", fmt.Errorf("invalid quiz result: %d/%d", score, totalQuestions)
	}
	if score > totalQuestions {
		return "", domain.ErrInvalidQuizScore
	}

	now := time.Now()
	attempt := domain.QuizAttempt{
		ID:             uuid.NewString(),
		UserID:         userID,
		Score:          score,
		TotalQuestions: totalQuestions,
		CompletedAt:    now,
	}

	var reward *domain.PromoCode
	s.mu.Lock()
	if score == totalQuestions {
		r := domain.NewQuizReward(score, totalQuestions, now)
		r.ID = uuid.NewString()
		for s.codeExistsLocked(r.Code, "") {
			r.Code = "QUIZ" + strings.ToUpper(uuid.NewString()[:6])
		}
		s.codes = append(s.codes, *r)
		attempt.EarnedPromoCode = r.Code
		reward = r
	}
	s.attempts = append(s.attempts, attempt)
	s.mu.Unlock()

	s.mirrorWrite("quiz_mirror_failed", func(ctx context.Context) error {
		if reward != nil {
			if err := s.mirror.UpsertPromoCode(ctx, *reward); err != nil {
				return err
			}
		}
		return s.mirror.AppendQuizAttempt(ctx, attempt)
	})

	if reward != nil {
		s.logger.Info("quiz_reward_issued", fmt.Sprintf("Perfect quiz score, issued promo code %s", reward.Code), "",
			map[string]any{"user_id": userID, "code": reward.Code})
	}

	return attempt.EarnedPromoCode, nil
}

func (s *Service) UserAttempts(userID string) []domain.QuizAttempt {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.QuizAttempt
	for _, a := range s.attempts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CompletedAt.After(out[j].CompletedAt)
	})
	return out
}

func (s *Service) codeExistsLocked(code, excludeID string) bool {
	for _, c := range s.codes {
		if c.ID != excludeID && c.Matches(code) {
			return true
		}
	}
	return false
}

func (s *Service) mirrorWrite(action string, fn func(context.Context) error) {
	s.writes.Add(1)
	go func() {
		defer s.writes.Done()
		if err := fn(context.Background()); err != nil {
			s.logger.Error(action, "Mirror write failed", "", nil, err)
		}
	}()
}

// Flush blocks until every pending mirror write has finished.
func (s *Service) Flush() {
	s.writes.Wait()
}
