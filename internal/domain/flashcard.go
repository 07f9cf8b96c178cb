package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Flashcard-specific validation errors
var (
	// ErrFlashcardIDEmpty is returned when a flashcard ID is empty or nil.
	ErrFlashcardIDEmpty = errors.New("flashcard ID cannot be empty")

	// ErrFlashcardOwnerIDEmpty is returned when a flashcard's owner ID is empty or nil.
	ErrFlashcardOwnerIDEmpty = errors.New("flashcard owner ID cannot be empty")

	// ErrFlashcardUploadIDEmpty is returned when a flashcard's upload ID is empty or nil.
	ErrFlashcardUploadIDEmpty = errors.New("flashcard upload ID cannot be empty")

	// ErrFlashcardQuestionEmpty is returned when a flashcard's question is empty.
	ErrFlashcardQuestionEmpty = errors.New("flashcard question cannot be empty")

	// ErrFlashcardAnswerEmpty is returned when a flashcard's answer is empty.
	ErrFlashcardAnswerEmpty = errors.New("flashcard answer cannot be empty")

	// ErrFlashcardDifficultyRange is returned when a flashcard's difficulty
	// falls outside the closed range [1.0, 3.0].
	ErrFlashcardDifficultyRange = errors.New("flashcard difficulty must be between 1.0 and 3.0")

	// ErrFlashcardReviewCountNegative is returned when a flashcard's review count is negative.
	ErrFlashcardReviewCountNegative = errors.New("flashcard review count cannot be negative")
)

// Flashcard represents a question/answer card generated from an upload.
// Difficulty is a continuous score in [1.0, 3.0] where 1.0 means easy and
// 3.0 means hard; it is mutated only by the review scheduler. A card is
// due for review when NextReview is at or before the current time.
type Flashcard struct {
	ID          uuid.UUID `json:"id"`
	UploadID    uuid.UUID `json:"upload_id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	Question    string    `json:"question"`
	Answer      string    `json:"answer"`
	Topic       string    `json:"topic"`
	Difficulty  float64   `json:"difficulty"`
	NextReview  time.Time `json:"next_review"`
	ReviewCount int       `json:"review_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewFlashcard creates a new Flashcard owned by ownerID and sourced from
// uploadID. The card starts with the given difficulty, a review count of
// zero, and becomes due one day after creation.
// Returns an error if validation fails.
func NewFlashcard(
	ownerID, uploadID uuid.UUID,
	question, answer, topic string,
	difficulty float64,
	now time.Time,
) (*Flashcard, error) {
	card := &Flashcard{
		ID:          uuid.New(),
		UploadID:    uploadID,
		OwnerID:     ownerID,
		Question:    question,
		Answer:      answer,
		Topic:       topic,
		Difficulty:  difficulty,
		NextReview:  now.AddDate(0, 0, 1),
		ReviewCount: 0,
		CreatedAt:   now,
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks if the Flashcard has valid data.
// Returns an error if any field fails validation.
func (f *Flashcard) Validate() error {
	if f.ID == uuid.Nil {
		return ErrFlashcardIDEmpty
	}

	if f.OwnerID == uuid.Nil {
		return ErrFlashcardOwnerIDEmpty
	}

	if f.UploadID == uuid.Nil {
		return ErrFlashcardUploadIDEmpty
	}

	if f.Question == "" {
		return ErrFlashcardQuestionEmpty
	}

	if f.Answer == "" {
		return ErrFlashcardAnswerEmpty
	}

	if f.Difficulty < 1.0 || f.Difficulty > 3.0 {
		return ErrFlashcardDifficultyRange
	}

	if f.ReviewCount < 0 {
		return ErrFlashcardReviewCountNegative
	}

	return nil
}

// IsDue reports whether the card is due for review at the given time.
// The boundary is inclusive: a card whose NextReview equals now is due.
func (f *Flashcard) IsDue(now time.Time) bool {
	return !f.NextReview.After(now)
}
