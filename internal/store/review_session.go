package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/studydeck/studydeck-api/internal/domain"
)

// ReviewSessionStore defines the interface for review session persistence.
// Review sessions are append-only: there are no update or delete
// operations by design.
type ReviewSessionStore interface {
	// Create appends a new review session record.
	// Returns validation errors if the session data is invalid.
	Create(ctx context.Context, session *domain.ReviewSession) error

	// ListByOwner retrieves all review sessions for the given user,
	// most recent first.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.ReviewSession, error)

	// WithTx returns a new ReviewSessionStore instance that uses the
	// provided transaction.
	WithTx(tx *sql.Tx) ReviewSessionStore
}
