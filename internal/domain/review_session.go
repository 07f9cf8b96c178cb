package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ReviewRating represents the rating a user gives a card after reviewing it.
type ReviewRating string

// Possible review rating values
const (
	RatingEasy   ReviewRating = "easy"
	RatingMedium ReviewRating = "medium"
	RatingHard   ReviewRating = "hard"
)

// IsValid reports whether the rating is one of the three known values.
func (r ReviewRating) IsValid() bool {
	switch r {
	case RatingEasy, RatingMedium, RatingHard:
		return true
	default:
		return false
	}
}

// Common validation errors for ReviewSession
var (
	ErrReviewSessionIDEmpty        = errors.New("review session ID cannot be empty")
	ErrReviewSessionOwnerIDEmpty   = errors.New("review session owner ID cannot be empty")
	ErrReviewSessionCardIDEmpty    = errors.New("review session flashcard ID cannot be empty")
	ErrReviewSessionInvalidRating  = errors.New("review session rating is invalid")
	ErrReviewSessionReviewedAtZero = errors.New("review session reviewed-at timestamp cannot be zero")
)

// ReviewSession is the append-only audit record of a single completed
// review. Sessions are never mutated or deleted; a session keeps referring
// to its flashcard ID even if the card is later removed.
type ReviewSession struct {
	ID          uuid.UUID    `json:"id"`
	OwnerID     uuid.UUID    `json:"owner_id"`
	FlashcardID uuid.UUID    `json:"flashcard_id"`
	Rating      ReviewRating `json:"rating"`
	ReviewedAt  time.Time    `json:"reviewed_at"`
}

// NewReviewSession creates the audit record for a single review action.
// Returns an error if validation fails.
func NewReviewSession(
	ownerID, flashcardID uuid.UUID,
	rating ReviewRating,
	reviewedAt time.Time,
) (*ReviewSession, error) {
	session := &ReviewSession{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		FlashcardID: flashcardID,
		Rating:      rating,
		ReviewedAt:  reviewedAt,
	}

	if err := session.Validate(); err != nil {
		return nil, err
	}

	return session, nil
}

// Validate checks if the ReviewSession has valid data.
// Returns an error if any field fails validation.
func (s *ReviewSession) Validate() error {
	if s.ID == uuid.Nil {
		return ErrReviewSessionIDEmpty
	}

	if s.OwnerID == uuid.Nil {
		return ErrReviewSessionOwnerIDEmpty
	}

	if s.FlashcardID == uuid.Nil {
		return ErrReviewSessionCardIDEmpty
	}

	if !s.Rating.IsValid() {
		return ErrReviewSessionInvalidRating
	}

	if s.ReviewedAt.IsZero() {
		return ErrReviewSessionReviewedAtZero
	}

	return nil
}
