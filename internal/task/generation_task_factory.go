package task

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// UploadGenerationTaskFactory creates UploadGenerationTask instances
// with their dependencies wired. It also serves as the runner's
// Reconstructor so recovered tasks come back executable.
type UploadGenerationTaskFactory struct {
	uploadReader UploadReader
	generator    Generator
	cardWriter   CardWriter
	quizWriter   QuizWriter
	stats        StatsRecorder
	logger       *slog.Logger
}

// NewUploadGenerationTaskFactory creates a new task factory.
func NewUploadGenerationTaskFactory(
	uploadReader UploadReader,
	generator Generator,
	cardWriter CardWriter,
	quizWriter QuizWriter,
	stats StatsRecorder,
	logger *slog.Logger,
) *UploadGenerationTaskFactory {
	if logger == nil {
		logger = slog.Default()
	}
	return &UploadGenerationTaskFactory{
		uploadReader: uploadReader,
		generator:    generator,
		cardWriter:   cardWriter,
		quizWriter:   quizWriter,
		stats:        stats,
		logger:       logger,
	}
}

// Ensure the factory can rebuild recovered tasks
var _ Reconstructor = (*UploadGenerationTaskFactory)(nil)

// CreateTask creates a new UploadGenerationTask for the specified upload.
func (f *UploadGenerationTaskFactory) CreateTask(uploadID uuid.UUID) (Task, error) {
	return NewUploadGenerationTask(
		uploadID,
		f.uploadReader,
		f.generator,
		f.cardWriter,
		f.quizWriter,
		f.stats,
		f.logger,
	)
}

// ReconstructTask implements Reconstructor. It rebuilds an executable
// upload generation task from a persisted payload.
func (f *UploadGenerationTaskFactory) ReconstructTask(taskType string, payload []byte) (Task, error) {
	if taskType != TaskTypeUploadGeneration {
		return nil, fmt.Errorf("unsupported task type %q", taskType)
	}

	var p uploadGenerationPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal task payload: %w", err)
	}

	return f.CreateTask(p.UploadID)
}
