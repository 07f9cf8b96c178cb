package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// QuizResult-specific validation errors
var (
	ErrQuizResultIDEmpty      = errors.New("quiz result ID cannot be empty")
	ErrQuizResultOwnerIDEmpty = errors.New("quiz result owner ID cannot be empty")
	ErrQuizResultQuizIDEmpty  = errors.New("quiz result quiz ID cannot be empty")
	ErrQuizResultScoreRange   = errors.New("quiz result score must be between 0 and the question count")
)

// QuizResult records a completed quiz attempt. Append-only.
type QuizResult struct {
	ID             uuid.UUID `json:"id"`
	QuizID         uuid.UUID `json:"quiz_id"`
	OwnerID        uuid.UUID `json:"owner_id"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"total_questions"`
	CompletedAt    time.Time `json:"completed_at"`
}

// NewQuizResult creates the record for a completed quiz attempt.
// Returns an error if validation fails.
func NewQuizResult(
	ownerID, quizID uuid.UUID,
	score, totalQuestions int,
	completedAt time.Time,
) (*QuizResult, error) {
	result := &QuizResult{
		ID:             uuid.New(),
		QuizID:         quizID,
		OwnerID:        ownerID,
		Score:          score,
		TotalQuestions: totalQuestions,
		CompletedAt:    completedAt,
	}

	if err := result.Validate(); err != nil {
		return nil, err
	}

	return result, nil
}

// Validate checks if the QuizResult has valid data.
// Returns an error if any field fails validation.
func (r *QuizResult) Validate() error {
	if r.ID == uuid.Nil {
		return ErrQuizResultIDEmpty
	}

	if r.OwnerID == uuid.Nil {
		return ErrQuizResultOwnerIDEmpty
	}

	if r.QuizID == uuid.Nil {
		return ErrQuizResultQuizIDEmpty
	}

	if r.Score < 0 || r.TotalQuestions <= 0 || r.Score > r.TotalQuestions {
		return ErrQuizResultScoreRange
	}

	return nil
}
