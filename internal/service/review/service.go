// Package review provides the spaced repetition review workflow: which
// cards are due, in what order they are studied, and how a submitted
// rating reschedules a card.
package review

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/studydeck/studydeck-api/internal/domain"
)

// ReviewService provides methods for reviewing flashcards using the
// spaced repetition scheduler.
type ReviewService interface {
	// GetDueCards retrieves every card the user has due at the moment of
	// the call, ordered hardest first. Returns an empty slice when no
	// cards are due.
	GetDueCards(ctx context.Context, userID uuid.UUID) ([]*domain.Flashcard, error)

	// GetNextCard retrieves the single next card due for review.
	//
	// Returns:
	//   - (*domain.Flashcard, nil): The next card due for review
	//   - (nil, ErrNoCardsDue): If the user has no cards due
	//   - (nil, error): Any other error from the store
	GetNextCard(ctx context.Context, userID uuid.UUID) (*domain.Flashcard, error)

	// SubmitReview processes the user's rating for a card. Within a
	// single transaction it reschedules the card with the spaced
	// repetition scheduler and appends a review session record, so the
	// card update and its audit record can never diverge.
	//
	// Returns:
	//   - (*domain.Flashcard, nil): The card with its updated schedule
	//   - (nil, ErrCardNotFound): If the card does not exist
	//   - (nil, ErrCardNotOwned): If the user does not own the card
	//   - (nil, ErrInvalidRating): If the rating is not easy, medium, or hard
	//   - (nil, error): Any other error from the store
	SubmitReview(
		ctx context.Context,
		userID uuid.UUID,
		cardID uuid.UUID,
		rating domain.ReviewRating,
	) (*domain.Flashcard, error)
}

// Common error types for ReviewService
var (
	// ErrNoCardsDue indicates that the user has no cards due for review.
	ErrNoCardsDue = errors.New("no cards due for review")

	// ErrCardNotFound indicates that the card does not exist.
	ErrCardNotFound = errors.New("card not found")

	// ErrCardNotOwned indicates that the user does not own the card.
	ErrCardNotOwned = errors.New("unauthorized access: card not owned by user")

	// ErrInvalidRating indicates an invalid review rating was provided.
	ErrInvalidRating = errors.New("invalid review rating")
)

// ServiceError wraps errors from the review service with the failed
// operation attached, so consumers can differentiate failures with
// errors.As instead of string matching.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "submit_review")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}
