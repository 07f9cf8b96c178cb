package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/studydeck/studydeck-api/internal/domain"
	"github.com/studydeck/studydeck-api/internal/events"
	"github.com/studydeck/studydeck-api/internal/generation"
	"github.com/studydeck/studydeck-api/internal/platform/logger"
	"github.com/studydeck/studydeck-api/internal/store"
	"github.com/studydeck/studydeck-api/internal/task"
)

// UploadService provides upload-related operations: accepting new study
// material and kicking off the generation pipeline for it.
type UploadService interface {
	// CreateUploadAndEnqueueTask accepts new study material, extracts
	// its text synchronously, saves the upload, bumps the owner's
	// upload counter, and emits an event requesting flashcard and quiz
	// generation in the background.
	CreateUploadAndEnqueueTask(
		ctx context.Context,
		ownerID uuid.UUID,
		title string,
		sourceType domain.SourceType,
		content string,
	) (*domain.Upload, error)

	// GetUpload retrieves an upload by its ID.
	// Returns ErrUploadNotFound if the upload does not exist.
	GetUpload(ctx context.Context, uploadID uuid.UUID) (*domain.Upload, error)

	// ListUploads retrieves all of the user's uploads, most recent first.
	ListUploads(ctx context.Context, ownerID uuid.UUID) ([]*domain.Upload, error)
}

// uploadServiceImpl implements the UploadService interface
type uploadServiceImpl struct {
	db           *sql.DB
	uploadStore  store.UploadStore
	userStore    store.UserStore
	extractor    generation.Extractor
	eventEmitter events.EventEmitter
	logger       *slog.Logger

	// timeFunc returns the current time. Injectable for testing.
	timeFunc func() time.Time

	// runTx executes a function in a transaction. Injectable for testing.
	runTx func(ctx context.Context, fn store.TxFn) error
}

// NewUploadService creates a new UploadService.
func NewUploadService(
	db *sql.DB,
	uploadStore store.UploadStore,
	userStore store.UserStore,
	extractor generation.Extractor,
	eventEmitter events.EventEmitter,
	logger *slog.Logger,
) UploadService {
	if uploadStore == nil {
		panic("uploadStore cannot be nil")
	}
	if userStore == nil {
		panic("userStore cannot be nil")
	}
	if extractor == nil {
		panic("extractor cannot be nil")
	}
	if eventEmitter == nil {
		panic("eventEmitter cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &uploadServiceImpl{
		db:           db,
		uploadStore:  uploadStore,
		userStore:    userStore,
		extractor:    extractor,
		eventEmitter: eventEmitter,
		logger:       logger.With("component", "upload_service"),
		timeFunc:     func() time.Time { return time.Now().UTC() },
	}
	s.runTx = func(ctx context.Context, fn store.TxFn) error {
		return store.RunInTransaction(ctx, s.db, fn)
	}
	return s
}

// Ensure uploadServiceImpl implements UploadService
var _ UploadService = (*uploadServiceImpl)(nil)

// CreateUploadAndEnqueueTask implements UploadService.
// The upload row and the owner's stats bump are committed together;
// the generation event is emitted only after the commit so a handler
// can never observe an upload that doesn't exist yet.
func (s *uploadServiceImpl) CreateUploadAndEnqueueTask(
	ctx context.Context,
	ownerID uuid.UUID,
	title string,
	sourceType domain.SourceType,
	content string,
) (*domain.Upload, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	text, topics, err := s.extractor.ExtractText(ctx, sourceType, title, content)
	if err != nil {
		log.Warn("failed to extract text from upload",
			"error", err,
			"owner_id", ownerID,
			"source_type", sourceType)
		return nil, &ServiceError{
			Operation: "create_upload",
			Message:   "failed to extract text",
			Err:       err,
		}
	}

	upload, err := domain.NewUpload(ownerID, title, sourceType, content, text, topics, s.timeFunc())
	if err != nil {
		log.Warn("invalid upload",
			"error", err,
			"owner_id", ownerID)
		return nil, err
	}

	err = s.runTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.uploadStore.WithTx(tx).Create(ctx, upload); err != nil {
			return err
		}

		txUsers := s.userStore.WithTx(tx)
		user, err := txUsers.GetByID(ctx, ownerID)
		if err != nil {
			return err
		}

		stats := user.Stats
		stats.TotalUploads++
		return txUsers.UpdateStats(ctx, ownerID, stats)
	})
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		log.Error("failed to save upload",
			"error", err,
			"owner_id", ownerID,
			"upload_id", upload.ID)
		return nil, &ServiceError{
			Operation: "create_upload",
			Message:   "failed to save upload",
			Err:       err,
		}
	}

	log.Info("upload created",
		"upload_id", upload.ID,
		"owner_id", ownerID,
		"source_type", sourceType)

	payload := struct {
		UploadID uuid.UUID `json:"upload_id"`
	}{UploadID: upload.ID}

	event, err := events.NewTaskRequestEvent(task.TaskTypeUploadGeneration, payload)
	if err != nil {
		log.Error("failed to create generation event",
			"error", err,
			"upload_id", upload.ID)
		return nil, &ServiceError{
			Operation: "create_upload",
			Message:   "failed to create generation event",
			Err:       err,
		}
	}

	if err := s.eventEmitter.EmitEvent(ctx, event); err != nil {
		log.Error("failed to emit generation event",
			"error", err,
			"upload_id", upload.ID,
			"event_id", event.ID)
		return nil, &ServiceError{
			Operation: "create_upload",
			Message:   "failed to emit generation event",
			Err:       err,
		}
	}

	log.Info("generation event emitted",
		"upload_id", upload.ID,
		"event_id", event.ID)
	return upload, nil
}

// GetUpload retrieves an upload by its ID.
func (s *uploadServiceImpl) GetUpload(ctx context.Context, uploadID uuid.UUID) (*domain.Upload, error) {
	upload, err := s.uploadStore.GetByID(ctx, uploadID)
	if err != nil {
		if errors.Is(err, store.ErrUploadNotFound) {
			return nil, ErrUploadNotFound
		}
		return nil, &ServiceError{
			Operation: "get_upload",
			Message:   "failed to retrieve upload",
			Err:       err,
		}
	}
	return upload, nil
}

// ListUploads retrieves all of the user's uploads.
func (s *uploadServiceImpl) ListUploads(ctx context.Context, ownerID uuid.UUID) ([]*domain.Upload, error) {
	uploads, err := s.uploadStore.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, &ServiceError{
			Operation: "list_uploads",
			Message:   "failed to list uploads",
			Err:       err,
		}
	}
	return uploads, nil
}
