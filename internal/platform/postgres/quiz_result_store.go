package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/studydeck/studydeck-api/internal/domain"
	"github.com/studydeck/studydeck-api/internal/platform/logger"
	"github.com/studydeck/studydeck-api/internal/store"
)

// PostgresQuizResultStore implements the store.QuizResultStore
// interface using a PostgreSQL database as the storage backend.
type PostgresQuizResultStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresQuizResultStore creates a new PostgreSQL implementation of
// the QuizResultStore interface. If logger is nil, a default logger
// will be used.
func NewPostgresQuizResultStore(db store.DBTX, logger *slog.Logger) *PostgresQuizResultStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresQuizResultStore{
		db:     db,
		logger: logger.With(slog.String("component", "quiz_result_store")),
	}
}

// Ensure PostgresQuizResultStore implements store.QuizResultStore interface
var _ store.QuizResultStore = (*PostgresQuizResultStore)(nil)

// WithTx implements store.QuizResultStore.WithTx
func (s *PostgresQuizResultStore) WithTx(tx *sql.Tx) store.QuizResultStore {
	return &PostgresQuizResultStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.QuizResultStore.Create
// Returns store.ErrInvalidEntity if the owner or quiz does not exist.
func (s *PostgresQuizResultStore) Create(ctx context.Context, result *domain.QuizResult) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := result.Validate(); err != nil {
		log.Warn("quiz result validation failed during create",
			slog.String("error", err.Error()),
			slog.String("result_id", result.ID.String()))
		return err
	}

	query := `
		INSERT INTO quiz_results
			(id, quiz_id, owner_id, score, total_questions, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		result.ID,
		result.QuizID,
		result.OwnerID,
		result.Score,
		result.TotalQuestions,
		result.CompletedAt,
	)

	if err != nil {
		if isForeignKeyViolation(err) {
			log.Warn("foreign key violation during quiz result creation",
				slog.String("error", err.Error()),
				slog.String("result_id", result.ID.String()),
				slog.String("quiz_id", result.QuizID.String()))
			return fmt.Errorf("%w: owner or quiz for result %s not found",
				store.ErrInvalidEntity, result.ID)
		}

		log.Error("failed to create quiz result",
			slog.String("error", err.Error()),
			slog.String("result_id", result.ID.String()))
		return err
	}

	log.Info("quiz result recorded",
		slog.String("result_id", result.ID.String()),
		slog.String("quiz_id", result.QuizID.String()),
		slog.Int("score", result.Score),
		slog.Int("total_questions", result.TotalQuestions))
	return nil
}

// ListByOwner implements store.QuizResultStore.ListByOwner
// Returns an empty slice if the user has no quiz results.
func (s *PostgresQuizResultStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.QuizResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, quiz_id, owner_id, score, total_questions, completed_at
		FROM quiz_results
		WHERE owner_id = $1
		ORDER BY completed_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		log.Error("failed to query quiz results by owner",
			slog.String("error", err.Error()),
			slog.String("owner_id", ownerID.String()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	var results []*domain.QuizResult
	for rows.Next() {
		var result domain.QuizResult
		err := rows.Scan(
			&result.ID,
			&result.QuizID,
			&result.OwnerID,
			&result.Score,
			&result.TotalQuestions,
			&result.CompletedAt,
		)
		if err != nil {
			log.Error("failed to scan quiz result row",
				slog.String("error", err.Error()))
			return nil, err
		}
		results = append(results, &result)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, err
	}

	if results == nil {
		results = []*domain.QuizResult{}
	}

	log.Debug("found quiz results by owner",
		slog.String("owner_id", ownerID.String()),
		slog.Int("count", len(results)))
	return results, nil
}
