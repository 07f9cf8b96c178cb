package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/studydeck/studydeck-api/internal/domain"
)

// FlashcardStore defines the interface for flashcard data persistence.
type FlashcardStore interface {
	// CreateMultiple saves multiple flashcards to the store.
	// This method MUST be run within a transaction (use WithTx together
	// with store.RunInTransaction) so card generation is atomic: either
	// every generated card is created or none.
	// Returns validation errors if any card data is invalid.
	CreateMultiple(ctx context.Context, cards []*domain.Flashcard) error

	// GetByID retrieves a flashcard by its unique ID.
	// Returns ErrFlashcardNotFound if the card does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Flashcard, error)

	// GetForUpdate retrieves a flashcard with a row-level lock using
	// SELECT FOR UPDATE. Use this within a transaction when the card's
	// review state will be updated, so concurrent reviews of the same
	// card are serialized and the read-then-increment of the review
	// count cannot lose updates.
	// Returns ErrFlashcardNotFound if the card does not exist.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Flashcard, error)

	// UpdateReviewState persists the scheduling fields of a reviewed
	// card: next review time, difficulty, and review count.
	// Returns ErrFlashcardNotFound if the card does not exist.
	UpdateReviewState(ctx context.Context, card *domain.Flashcard) error

	// ListByOwner retrieves all flashcards owned by the given user,
	// ordered by creation time ascending. Returns an empty slice when
	// the user has no cards.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Flashcard, error)

	// Delete removes a flashcard by its ID. Review sessions that
	// reference the card are kept; they are an append-only audit trail.
	// Returns ErrFlashcardNotFound if the card does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new FlashcardStore instance that uses the
	// provided transaction. The transaction is created and managed by
	// the caller (typically a service).
	WithTx(tx *sql.Tx) FlashcardStore
}
