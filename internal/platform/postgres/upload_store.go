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

// PostgresUploadStore implements the store.UploadStore interface
// using a PostgreSQL database as the storage backend. Topics are stored
// as a JSONB document.
type PostgresUploadStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresUploadStore creates a new PostgreSQL implementation of the
// UploadStore interface. If logger is nil, a default logger will be used.
func NewPostgresUploadStore(db store.DBTX, logger *slog.Logger) *PostgresUploadStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresUploadStore{
		db:     db,
		logger: logger.With(slog.String("component", "upload_store")),
	}
}

// Ensure PostgresUploadStore implements store.UploadStore interface
var _ store.UploadStore = (*PostgresUploadStore)(nil)

// WithTx implements store.UploadStore.WithTx
func (s *PostgresUploadStore) WithTx(tx *sql.Tx) store.UploadStore {
	return &PostgresUploadStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.UploadStore.Create
// Returns store.ErrInvalidEntity if the owner does not exist.
func (s *PostgresUploadStore) Create(ctx context.Context, upload *domain.Upload) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := upload.Validate(); err != nil {
		log.Warn("upload validation failed during create",
			slog.String("error", err.Error()),
			slog.String("upload_id", upload.ID.String()))
		return err
	}

	topics, err := json.Marshal(upload.Topics)
	if err != nil {
		return fmt.Errorf("failed to marshal upload topics: %w", err)
	}

	query := `
		INSERT INTO uploads
			(id, owner_id, title, source_type, original_content,
			 extracted_text, topics, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		upload.ID,
		upload.OwnerID,
		upload.Title,
		upload.SourceType,
		upload.OriginalContent,
		upload.ExtractedText,
		topics,
		upload.CreatedAt,
	)

	if err != nil {
		if isForeignKeyViolation(err) {
			log.Warn("foreign key violation during upload creation",
				slog.String("error", err.Error()),
				slog.String("upload_id", upload.ID.String()),
				slog.String("owner_id", upload.OwnerID.String()))
			return fmt.Errorf("%w: user with ID %s not found",
				store.ErrInvalidEntity, upload.OwnerID)
		}

		log.Error("failed to create upload",
			slog.String("error", err.Error()),
			slog.String("upload_id", upload.ID.String()))
		return err
	}

	log.Info("upload created successfully",
		slog.String("upload_id", upload.ID.String()),
		slog.String("owner_id", upload.OwnerID.String()),
		slog.String("source_type", string(upload.SourceType)))
	return nil
}

// GetByID implements store.UploadStore.GetByID
// Returns store.ErrUploadNotFound if the upload does not exist.
func (s *PostgresUploadStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Upload, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, owner_id, title, source_type, original_content,
		       extracted_text, topics, created_at
		FROM uploads
		WHERE id = $1
	`

	var upload domain.Upload
	var sourceType string
	var topics []byte

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&upload.ID,
		&upload.OwnerID,
		&upload.Title,
		&sourceType,
		&upload.OriginalContent,
		&upload.ExtractedText,
		&topics,
		&upload.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("upload not found", slog.String("upload_id", id.String()))
			return nil, store.ErrUploadNotFound
		}
		log.Error("failed to get upload by ID",
			slog.String("error", err.Error()),
			slog.String("upload_id", id.String()))
		return nil, err
	}

	upload.SourceType = domain.SourceType(sourceType)
	if err := json.Unmarshal(topics, &upload.Topics); err != nil {
		log.Error("failed to unmarshal upload topics",
			slog.String("error", err.Error()),
			slog.String("upload_id", id.String()))
		return nil, fmt.Errorf("failed to unmarshal upload topics: %w", err)
	}

	return &upload, nil
}

// UpdateExtraction implements store.UploadStore.UpdateExtraction
// Returns store.ErrUploadNotFound if the upload does not exist.
func (s *PostgresUploadStore) UpdateExtraction(ctx context.Context, upload *domain.Upload) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := upload.Validate(); err != nil {
		log.Warn("upload validation failed during extraction update",
			slog.String("error", err.Error()),
			slog.String("upload_id", upload.ID.String()))
		return err
	}

	topics, err := json.Marshal(upload.Topics)
	if err != nil {
		return fmt.Errorf("failed to marshal upload topics: %w", err)
	}

	query := `
		UPDATE uploads
		SET extracted_text = $1, topics = $2
		WHERE id = $3
	`

	result, err := s.db.ExecContext(ctx, query, upload.ExtractedText, topics, upload.ID)
	if err != nil {
		log.Error("failed to update upload extraction",
			slog.String("error", err.Error()),
			slog.String("upload_id", upload.ID.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.String("upload_id", upload.ID.String()))
		return err
	}

	if rowsAffected == 0 {
		log.Debug("upload not found for extraction update",
			slog.String("upload_id", upload.ID.String()))
		return store.ErrUploadNotFound
	}

	log.Info("upload extraction updated",
		slog.String("upload_id", upload.ID.String()),
		slog.Int("topic_count", len(upload.Topics)))
	return nil
}

// ListByOwner implements store.UploadStore.ListByOwner
// Returns an empty slice if the user has no uploads.
func (s *PostgresUploadStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Upload, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, owner_id, title, source_type, original_content,
		       extracted_text, topics, created_at
		FROM uploads
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		log.Error("failed to query uploads by owner",
			slog.String("error", err.Error()),
			slog.String("owner_id", ownerID.String()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	var uploads []*domain.Upload
	for rows.Next() {
		var upload domain.Upload
		var sourceType string
		var topics []byte

		err := rows.Scan(
			&upload.ID,
			&upload.OwnerID,
			&upload.Title,
			&sourceType,
			&upload.OriginalContent,
			&upload.ExtractedText,
			&topics,
			&upload.CreatedAt,
		)
		if err != nil {
			log.Error("failed to scan upload row",
				slog.String("error", err.Error()))
			return nil, err
		}

		upload.SourceType = domain.SourceType(sourceType)
		if err := json.Unmarshal(topics, &upload.Topics); err != nil {
			log.Error("failed to unmarshal upload topics",
				slog.String("error", err.Error()),
				slog.String("upload_id", upload.ID.String()))
			return nil, fmt.Errorf("failed to unmarshal upload topics: %w", err)
		}

		uploads = append(uploads, &upload)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, err
	}

	if uploads == nil {
		uploads = []*domain.Upload{}
	}

	log.Debug("found uploads by owner",
		slog.String("owner_id", ownerID.String()),
		slog.Int("count", len(uploads)))
	return uploads, nil
}
