package domain

import "time"

type QuizQuestion struct {
	ID            string    `json:"id"`
	Question      string    `json:"question"`
	Options       []string  `json:"options"`
	CorrectAnswer int       `json:"correct_answer"`
	CreatedAt     time.Time `json:"created_at"`
	Active        bool      `json:"is_active"`
	ImageURI      string    `json:"image_uri,omitempty"`
}

type QuizAttempt struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	Score           int       `json:"score"`
	TotalQuestions  int       `json:"total_questions"`
	CompletedAt     time.Time `json:"completed_at"`
	EarnedPromoCode string    `json:"earned_promo_code,omitempty"`
}

type QuizQuestionPatch struct {
	Question      *string   `json:"question,omitempty"`
	Options       *[]string `json:"options,omitempty"`
	CorrectAnswer *int      `json:"correct_answer,omitempty"`
	Active        *bool     `json:"is_active,omitempty"`
	ImageURI      *string   `json:"image_uri,omitempty"`
}

func (p QuizQuestionPatch) Apply(q *QuizQuestion) {
	if p.Question != nil {
		q.Question = *p.Question
	}
	if p.Options != nil {
		q.Options = *p.Options
	}
	if p.CorrectAnswer != nil {
		q.CorrectAnswer = *p.CorrectAnswer
	}
	if p.Active != nil {
		q.Active = *p.Active
	}
	if p.ImageURI != nil {
		q.ImageURI = *p.ImageURI
	}
}
