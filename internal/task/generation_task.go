package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/studydeck/studydeck-api/internal/domain"
)

// Common errors
var (
	ErrNilUploadReader = errors.New("upload reader cannot be nil")
	ErrNilGenerator    = errors.New("generator cannot be nil")
	ErrNilCardWriter   = errors.New("card writer cannot be nil")
	ErrNilQuizWriter   = errors.New("quiz writer cannot be nil")
	ErrEmptyUploadID   = errors.New("upload ID cannot be empty")
)

// UploadReader retrieves uploads for generation.
type UploadReader interface {
	// GetUpload retrieves an upload by its ID
	GetUpload(ctx context.Context, uploadID uuid.UUID) (*domain.Upload, error)
}

// Generator produces study aids from an upload's extracted text.
type Generator interface {
	// GenerateFlashcards creates flashcards from the upload's text
	GenerateFlashcards(ctx context.Context, upload *domain.Upload) ([]*domain.Flashcard, error)

	// GenerateQuiz creates a quiz from the upload's text
	GenerateQuiz(ctx context.Context, upload *domain.Upload) (*domain.Quiz, error)
}

// CardWriter persists generated flashcards.
type CardWriter interface {
	// CreateCards creates multiple cards in a single transaction
	CreateCards(ctx context.Context, cards []*domain.Flashcard) error
}

// QuizWriter persists generated quizzes.
type QuizWriter interface {
	// CreateQuiz saves a generated quiz
	CreateQuiz(ctx context.Context, quiz *domain.Quiz) error
}

// StatsRecorder updates the owner's aggregate counters after generation.
type StatsRecorder interface {
	// RecordGenerated adds the generated card and quiz counts to the
	// user's stats
	RecordGenerated(ctx context.Context, userID uuid.UUID, cardCount, quizCount int) error
}

// uploadGenerationPayload represents the serialized data stored in the task
type uploadGenerationPayload struct {
	UploadID uuid.UUID `json:"upload_id"`
}

// UploadGenerationTask implements the Task interface for generating
// flashcards and a quiz from an upload.
type UploadGenerationTask struct {
	id           uuid.UUID
	uploadID     uuid.UUID
	uploadReader UploadReader
	generator    Generator
	cardWriter   CardWriter
	quizWriter   QuizWriter
	stats        StatsRecorder
	logger       *slog.Logger
	status       TaskStatus
}

// NewUploadGenerationTask creates a new upload generation task.
// The stats recorder is optional; the other dependencies are required.
func NewUploadGenerationTask(
	uploadID uuid.UUID,
	uploadReader UploadReader,
	generator Generator,
	cardWriter CardWriter,
	quizWriter QuizWriter,
	stats StatsRecorder,
	logger *slog.Logger,
) (*UploadGenerationTask, error) {
	if uploadReader == nil {
		return nil, ErrNilUploadReader
	}
	if generator == nil {
		return nil, ErrNilGenerator
	}
	if cardWriter == nil {
		return nil, ErrNilCardWriter
	}
	if quizWriter == nil {
		return nil, ErrNilQuizWriter
	}
	if uploadID == uuid.Nil {
		return nil, ErrEmptyUploadID
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &UploadGenerationTask{
		id:           uuid.New(),
		uploadID:     uploadID,
		uploadReader: uploadReader,
		generator:    generator,
		cardWriter:   cardWriter,
		quizWriter:   quizWriter,
		stats:        stats,
		logger:       logger.With("task_type", TaskTypeUploadGeneration, "upload_id", uploadID),
		status:       TaskStatusPending,
	}, nil
}

// ID returns the task's unique identifier
func (t *UploadGenerationTask) ID() uuid.UUID {
	return t.id
}

// Type returns the task type identifier
func (t *UploadGenerationTask) Type() string {
	return TaskTypeUploadGeneration
}

// Payload returns the task data as a byte slice
func (t *UploadGenerationTask) Payload() []byte {
	data, err := json.Marshal(uploadGenerationPayload{UploadID: t.uploadID})
	if err != nil {
		t.logger.Error("failed to marshal task payload", "error", err)
		return []byte{}
	}
	return data
}

// Status returns the current task status
func (t *UploadGenerationTask) Status() TaskStatus {
	return t.status
}

// Execute runs the generation pipeline for the upload: fetch it,
// generate and save flashcards, generate and save a quiz, and finally
// bump the owner's stats. A quiz failure after the cards were saved
// does not fail the task; the cards are the primary artifact.
func (t *UploadGenerationTask) Execute(ctx context.Context) error {
	t.status = TaskStatusProcessing
	t.logger.Info("starting upload generation task")

	if err := ctx.Err(); err != nil {
		t.status = TaskStatusFailed
		t.logger.Error("task cancelled by context", "error", err)
		return fmt.Errorf("task cancelled by context: %w", err)
	}

	upload, err := t.uploadReader.GetUpload(ctx, t.uploadID)
	if err != nil {
		t.status = TaskStatusFailed
		t.logger.Error("failed to retrieve upload", "error", err)
		return fmt.Errorf("failed to retrieve upload: %w", err)
	}

	t.logger.Info("retrieved upload",
		"owner_id", upload.OwnerID,
		"source_type", upload.SourceType)

	cards, err := t.generator.GenerateFlashcards(ctx, upload)
	if err != nil {
		t.status = TaskStatusFailed
		t.logger.Error("failed to generate flashcards", "error", err)
		return fmt.Errorf("failed to generate flashcards: %w", err)
	}

	t.logger.Info("flashcards generated", "count", len(cards))

	if len(cards) > 0 {
		if err := t.cardWriter.CreateCards(ctx, cards); err != nil {
			t.status = TaskStatusFailed
			t.logger.Error("failed to save generated flashcards", "error", err)
			return fmt.Errorf("failed to save generated flashcards: %w", err)
		}
	}

	quizCount := 0
	quiz, err := t.generator.GenerateQuiz(ctx, upload)
	if err != nil {
		t.logger.Warn("quiz generation failed, keeping generated flashcards", "error", err)
	} else {
		if err := t.quizWriter.CreateQuiz(ctx, quiz); err != nil {
			t.logger.Warn("failed to save generated quiz, keeping generated flashcards", "error", err)
		} else {
			quizCount = 1
			t.logger.Info("quiz saved", "quiz_id", quiz.ID)
		}
	}

	if t.stats != nil {
		if err := t.stats.RecordGenerated(ctx, upload.OwnerID, len(cards), quizCount); err != nil {
			// Counters are best effort; the generated content is saved.
			t.logger.Warn("failed to update user stats after generation", "error", err)
		}
	}

	t.status = TaskStatusCompleted
	t.logger.Info("upload generation task completed",
		"cards_generated", len(cards),
		"quiz_generated", quizCount == 1)
	return nil
}
