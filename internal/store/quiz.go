package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/studydeck/studydeck-api/internal/domain"
)

// QuizStore defines the interface for quiz data persistence. Quiz
// questions are stored alongside the quiz as a JSONB document; a quiz
// is always read and written whole.
type QuizStore interface {
	// Create saves a new quiz with its questions.
	// Returns validation errors if the quiz data is invalid.
	Create(ctx context.Context, quiz *domain.Quiz) error

	// GetByID retrieves a quiz by its unique ID, including questions.
	// Returns ErrQuizNotFound if the quiz does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Quiz, error)

	// ListByOwner retrieves all quizzes owned by the given user, most
	// recent first.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Quiz, error)

	// WithTx returns a new QuizStore instance that uses the provided
	// transaction.
	WithTx(tx *sql.Tx) QuizStore
}

// QuizResultStore defines the interface for quiz result persistence.
// Results are append-only.
type QuizResultStore interface {
	// Create appends a new quiz result record.
	Create(ctx context.Context, result *domain.QuizResult) error

	// ListByOwner retrieves all quiz results for the given user, most
	// recent first.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.QuizResult, error)

	// WithTx returns a new QuizResultStore instance that uses the
	// provided transaction.
	WithTx(tx *sql.Tx) QuizResultStore
}
