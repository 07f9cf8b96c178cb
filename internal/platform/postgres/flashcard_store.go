package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/studydeck/studydeck-api/internal/domain"
	"github.com/studydeck/studydeck-api/internal/platform/logger"
	"github.com/studydeck/studydeck-api/internal/store"
)

// PostgresFlashcardStore implements the store.FlashcardStore interface
// using a PostgreSQL database as the storage backend.
type PostgresFlashcardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresFlashcardStore creates a new PostgreSQL implementation of
// the FlashcardStore interface. It accepts a database connection or
// transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresFlashcardStore(db store.DBTX, logger *slog.Logger) *PostgresFlashcardStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresFlashcardStore{
		db:     db,
		logger: logger.With(slog.String("component", "flashcard_store")),
	}
}

// Ensure PostgresFlashcardStore implements store.FlashcardStore interface
var _ store.FlashcardStore = (*PostgresFlashcardStore)(nil)

// WithTx implements store.FlashcardStore.WithTx
// It returns a new store instance bound to the given transaction.
func (s *PostgresFlashcardStore) WithTx(tx *sql.Tx) store.FlashcardStore {
	return &PostgresFlashcardStore{
		db:     tx,
		logger: s.logger,
	}
}

// CreateMultiple implements store.FlashcardStore.CreateMultiple
// It saves all the given flashcards, validating each first. The caller
// is responsible for running this inside a transaction so the batch is
// all-or-nothing.
// Returns store.ErrInvalidEntity if an owner or upload ID doesn't exist
// (foreign key violation).
func (s *PostgresFlashcardStore) CreateMultiple(ctx context.Context, cards []*domain.Flashcard) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO flashcards
			(id, upload_id, owner_id, question, answer, topic,
			 difficulty, next_review, review_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	for _, card := range cards {
		if err := card.Validate(); err != nil {
			log.Warn("flashcard validation failed during create",
				slog.String("error", err.Error()),
				slog.String("flashcard_id", card.ID.String()))
			return err
		}

		_, err := s.db.ExecContext(
			ctx,
			query,
			card.ID,
			card.UploadID,
			card.OwnerID,
			card.Question,
			card.Answer,
			card.Topic,
			card.Difficulty,
			card.NextReview,
			card.ReviewCount,
			card.CreatedAt,
		)

		if err != nil {
			if isForeignKeyViolation(err) {
				log.Warn("foreign key violation during flashcard creation",
					slog.String("error", err.Error()),
					slog.String("flashcard_id", card.ID.String()),
					slog.String("upload_id", card.UploadID.String()))
				return fmt.Errorf("%w: owner or upload for flashcard %s not found",
					store.ErrInvalidEntity, card.ID)
			}

			log.Error("failed to create flashcard",
				slog.String("error", err.Error()),
				slog.String("flashcard_id", card.ID.String()))
			return err
		}
	}

	log.Info("flashcards created successfully",
		slog.Int("count", len(cards)))
	return nil
}

// GetByID implements store.FlashcardStore.GetByID
// Returns store.ErrFlashcardNotFound if the card does not exist.
func (s *PostgresFlashcardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Flashcard, error) {
	return s.get(ctx, id, false)
}

// GetForUpdate implements store.FlashcardStore.GetForUpdate
// It acquires a row-level lock on the card, so it must be called within
// a transaction. Returns store.ErrFlashcardNotFound if the card does
// not exist.
func (s *PostgresFlashcardStore) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Flashcard, error) {
	return s.get(ctx, id, true)
}

func (s *PostgresFlashcardStore) get(ctx context.Context, id uuid.UUID, forUpdate bool) (*domain.Flashcard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, upload_id, owner_id, question, answer, topic,
		       difficulty, next_review, review_count, created_at
		FROM flashcards
		WHERE id = $1
	`
	if forUpdate {
		query += " FOR UPDATE"
	}

	var card domain.Flashcard
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&card.ID,
		&card.UploadID,
		&card.OwnerID,
		&card.Question,
		&card.Answer,
		&card.Topic,
		&card.Difficulty,
		&card.NextReview,
		&card.ReviewCount,
		&card.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("flashcard not found", slog.String("flashcard_id", id.String()))
			return nil, store.ErrFlashcardNotFound
		}
		log.Error("failed to get flashcard by ID",
			slog.String("error", err.Error()),
			slog.String("flashcard_id", id.String()))
		return nil, err
	}

	return &card, nil
}

// UpdateReviewState implements store.FlashcardStore.UpdateReviewState
// It persists the card's next review time, difficulty, and review count.
// Returns store.ErrFlashcardNotFound if the card does not exist.
func (s *PostgresFlashcardStore) UpdateReviewState(ctx context.Context, card *domain.Flashcard) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		log.Warn("flashcard validation failed during review state update",
			slog.String("error", err.Error()),
			slog.String("flashcard_id", card.ID.String()))
		return err
	}

	query := `
		UPDATE flashcards
		SET next_review = $1, difficulty = $2, review_count = $3
		WHERE id = $4
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		card.NextReview,
		card.Difficulty,
		card.ReviewCount,
		card.ID,
	)

	if err != nil {
		log.Error("failed to update flashcard review state",
			slog.String("error", err.Error()),
			slog.String("flashcard_id", card.ID.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.String("flashcard_id", card.ID.String()))
		return err
	}

	if rowsAffected == 0 {
		log.Debug("flashcard not found for review state update",
			slog.String("flashcard_id", card.ID.String()))
		return store.ErrFlashcardNotFound
	}

	log.Info("flashcard review state updated",
		slog.String("flashcard_id", card.ID.String()),
		slog.Int("review_count", card.ReviewCount),
		slog.Float64("difficulty", card.Difficulty))
	return nil
}

// ListByOwner implements store.FlashcardStore.ListByOwner
// It retrieves all flashcards owned by the given user, ordered by
// creation time ascending. Returns an empty slice if the user has none.
func (s *PostgresFlashcardStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Flashcard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, upload_id, owner_id, question, answer, topic,
		       difficulty, next_review, review_count, created_at
		FROM flashcards
		WHERE owner_id = $1
		ORDER BY created_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		log.Error("failed to query flashcards by owner",
			slog.String("error", err.Error()),
			slog.String("owner_id", ownerID.String()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	var cards []*domain.Flashcard
	for rows.Next() {
		var card domain.Flashcard
		err := rows.Scan(
			&card.ID,
			&card.UploadID,
			&card.OwnerID,
			&card.Question,
			&card.Answer,
			&card.Topic,
			&card.Difficulty,
			&card.NextReview,
			&card.ReviewCount,
			&card.CreatedAt,
		)
		if err != nil {
			log.Error("failed to scan flashcard row",
				slog.String("error", err.Error()))
			return nil, err
		}
		cards = append(cards, &card)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, err
	}

	// Return empty slice instead of nil if no cards found
	if cards == nil {
		cards = []*domain.Flashcard{}
	}

	log.Debug("found flashcards by owner",
		slog.String("owner_id", ownerID.String()),
		slog.Int("count", len(cards)))
	return cards, nil
}

// Delete implements store.FlashcardStore.Delete
// Returns store.ErrFlashcardNotFound if the card does not exist.
func (s *PostgresFlashcardStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM flashcards WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete flashcard",
			slog.String("error", err.Error()),
			slog.String("flashcard_id", id.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.String("flashcard_id", id.String()))
		return err
	}

	if rowsAffected == 0 {
		log.Debug("flashcard not found for delete",
			slog.String("flashcard_id", id.String()))
		return store.ErrFlashcardNotFound
	}

	log.Info("flashcard deleted", slog.String("flashcard_id", id.String()))
	return nil
}
