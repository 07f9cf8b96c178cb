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

// PostgresReviewSessionStore implements the store.ReviewSessionStore
// interface using a PostgreSQL database as the storage backend.
type PostgresReviewSessionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresReviewSessionStore creates a new PostgreSQL implementation
// of the ReviewSessionStore interface. If logger is nil, a default
// logger will be used.
func NewPostgresReviewSessionStore(db store.DBTX, logger *slog.Logger) *PostgresReviewSessionStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresReviewSessionStore{
		db:     db,
		logger: logger.With(slog.String("component", "review_session_store")),
	}
}

// Ensure PostgresReviewSessionStore implements store.ReviewSessionStore interface
var _ store.ReviewSessionStore = (*PostgresReviewSessionStore)(nil)

// WithTx implements store.ReviewSessionStore.WithTx
func (s *PostgresReviewSessionStore) WithTx(tx *sql.Tx) store.ReviewSessionStore {
	return &PostgresReviewSessionStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.ReviewSessionStore.Create
// Returns store.ErrInvalidEntity if the owner or flashcard does not exist.
func (s *PostgresReviewSessionStore) Create(ctx context.Context, session *domain.ReviewSession) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := session.Validate(); err != nil {
		log.Warn("review session validation failed during create",
			slog.String("error", err.Error()),
			slog.String("session_id", session.ID.String()))
		return err
	}

	query := `
		INSERT INTO review_sessions
			(id, owner_id, flashcard_id, rating, reviewed_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		session.ID,
		session.OwnerID,
		session.FlashcardID,
		session.Rating,
		session.ReviewedAt,
	)

	if err != nil {
		if isForeignKeyViolation(err) {
			log.Warn("foreign key violation during review session creation",
				slog.String("error", err.Error()),
				slog.String("session_id", session.ID.String()),
				slog.String("flashcard_id", session.FlashcardID.String()))
			return fmt.Errorf("%w: owner or flashcard for session %s not found",
				store.ErrInvalidEntity, session.ID)
		}

		log.Error("failed to create review session",
			slog.String("error", err.Error()),
			slog.String("session_id", session.ID.String()))
		return err
	}

	log.Info("review session recorded",
		slog.String("session_id", session.ID.String()),
		slog.String("flashcard_id", session.FlashcardID.String()),
		slog.String("rating", string(session.Rating)))
	return nil
}

// ListByOwner implements store.ReviewSessionStore.ListByOwner
// Returns an empty slice if the user has no review history.
func (s *PostgresReviewSessionStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.ReviewSession, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, owner_id, flashcard_id, rating, reviewed_at
		FROM review_sessions
		WHERE owner_id = $1
		ORDER BY reviewed_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		log.Error("failed to query review sessions by owner",
			slog.String("error", err.Error()),
			slog.String("owner_id", ownerID.String()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	var sessions []*domain.ReviewSession
	for rows.Next() {
		var session domain.ReviewSession
		var rating string

		err := rows.Scan(
			&session.ID,
			&session.OwnerID,
			&session.FlashcardID,
			&rating,
			&session.ReviewedAt,
		)
		if err != nil {
			log.Error("failed to scan review session row",
				slog.String("error", err.Error()))
			return nil, err
		}

		session.Rating = domain.ReviewRating(rating)
		sessions = append(sessions, &session)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, err
	}

	if sessions == nil {
		sessions = []*domain.ReviewSession{}
	}

	log.Debug("found review sessions by owner",
		slog.String("owner_id", ownerID.String()),
		slog.Int("count", len(sessions)))
	return sessions, nil
}
