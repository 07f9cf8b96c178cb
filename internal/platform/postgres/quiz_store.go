package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/studydeck/studydeck-api/internal/domain"
	"github.com/studydeck/studydeck-api/internal/platform/logger"
	"github.com/studydeck/studydeck-api/internal/store"
)

// PostgresQuizStore implements the store.QuizStore interface
// using a PostgreSQL database as the storage backend. Questions are
// stored as a JSONB document alongside the quiz row.
type PostgresQuizStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresQuizStore creates a new PostgreSQL implementation of the
// QuizStore interface. If logger is nil, a default logger will be used.
func NewPostgresQuizStore(db store.DBTX, logger *slog.Logger) *PostgresQuizStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresQuizStore{
		db:     db,
		logger: logger.With(slog.String("component", "quiz_store")),
	}
}

// Ensure PostgresQuizStore implements store.QuizStore interface
var _ store.QuizStore = (*PostgresQuizStore)(nil)

// WithTx implements store.QuizStore.WithTx
func (s *PostgresQuizStore) WithTx(tx *sql.Tx) store.QuizStore {
	return &PostgresQuizStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.QuizStore.Create
// Returns store.ErrInvalidEntity if the owner or upload does not exist.
func (s *PostgresQuizStore) Create(ctx context.Context, quiz *domain.Quiz) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := quiz.Validate(); err != nil {
		log.Warn("quiz validation failed during create",
			slog.String("error", err.Error()),
			slog.String("quiz_id", quiz.ID.String()))
		return err
	}

	questions, err := json.Marshal(quiz.Questions)
	if err != nil {
		return fmt.Errorf("failed to marshal quiz questions: %w", err)
	}

	query := `
		INSERT INTO quizzes
			(id, upload_id, owner_id, title, questions, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		quiz.ID,
		quiz.UploadID,
		quiz.OwnerID,
		quiz.Title,
		questions,
		quiz.CreatedAt,
	)

	if err != nil {
		if isForeignKeyViolation(err) {
			log.Warn("foreign key violation during quiz creation",
				slog.String("error", err.Error()),
				slog.String("quiz_id", quiz.ID.String()),
				slog.String("upload_id", quiz.UploadID.String()))
			return fmt.Errorf("%w: owner or upload for quiz %s not found",
				store.ErrInvalidEntity, quiz.ID)
		}

		log.Error("failed to create quiz",
			slog.String("error", err.Error()),
			slog.String("quiz_id", quiz.ID.String()))
		return err
	}

	log.Info("quiz created successfully",
		slog.String("quiz_id", quiz.ID.String()),
		slog.Int("question_count", len(quiz.Questions)))
	return nil
}

// GetByID implements store.QuizStore.GetByID
// Returns store.ErrQuizNotFound if the quiz does not exist.
func (s *PostgresQuizStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Quiz, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, upload_id, owner_id, title, questions, created_at
		FROM quizzes
		WHERE id = $1
	`

	var quiz domain.Quiz
	var questions []byte

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&quiz.ID,
		&quiz.UploadID,
		&quiz.OwnerID,
		&quiz.Title,
		&questions,
		&quiz.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("quiz not found", slog.String("quiz_id", id.String()))
			return nil, store.ErrQuizNotFound
		}
		log.Error("failed to get quiz by ID",
			slog.String("error", err.Error()),
			slog.String("quiz_id", id.String()))
		return nil, err
	}

	if err := json.Unmarshal(questions, &quiz.Questions); err != nil {
		log.Error("failed to unmarshal quiz questions",
			slog.String("error", err.Error()),
			slog.String("quiz_id", id.String()))
		return nil, fmt.Errorf("failed to unmarshal quiz questions: %w", err)
	}

	return &quiz, nil
}

// ListByOwner implements store.QuizStore.ListByOwner
// Returns an empty slice if the user has no quizzes.
func (s *PostgresQuizStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Quiz, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, upload_id, owner_id, title, questions, created_at
		FROM quizzes
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		log.Error("failed to query quizzes by owner",
			slog.String("error", err.Error()),
			slog.String("owner_id", ownerID.String()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	var quizzes []*domain.Quiz
	for rows.Next() {
		var quiz domain.Quiz
		var questions []byte

		err := rows.Scan(
			&quiz.ID,
			&quiz.UploadID,
			&quiz.OwnerID,
			&quiz.Title,
			&questions,
			&quiz.CreatedAt,
		)
		if err != nil {
			log.Error("failed to scan quiz row",
				slog.String("error", err.Error()))
			return nil, err
		}

		if err := json.Unmarshal(questions, &quiz.Questions); err != nil {
			log.Error("failed to unmarshal quiz questions",
				slog.String("error", err.Error()),
				slog.String("quiz_id", quiz.ID.String()))
			return nil, fmt.Errorf("failed to unmarshal quiz questions: %w", err)
		}

		quizzes = append(quizzes, &quiz)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, err
	}

	if quizzes == nil {
		quizzes = []*domain.Quiz{}
	}

	log.Debug("found quizzes by owner",
		slog.String("owner_id", ownerID.String()),
		slog.Int("count", len(quizzes)))
	return quizzes, nil
}
