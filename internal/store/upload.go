package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/studydeck/studydeck-api/internal/domain"
)

// UploadStore defines the interface for upload data persistence.
type UploadStore interface {
	// Create saves a new upload to the store.
	// Returns validation errors if the upload data is invalid.
	Create(ctx context.Context, upload *domain.Upload) error

	// GetByID retrieves an upload by its unique ID.
	// Returns ErrUploadNotFound if the upload does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Upload, error)

	// UpdateExtraction persists the extracted text and detected topics
	// for an upload after content processing completes.
	// Returns ErrUploadNotFound if the upload does not exist.
	UpdateExtraction(ctx context.Context, upload *domain.Upload) error

	// ListByOwner retrieves all uploads owned by the given user, most
	// recent first.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Upload, error)

	// WithTx returns a new UploadStore instance that uses the provided
	// transaction.
	WithTx(tx *sql.Tx) UploadStore
}
