package task

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/studydeck/studydeck-api/internal/events"
)

// TaskFactory creates executable tasks for an upload.
type TaskFactory interface {
	// CreateTask creates a new task for the specified upload
	CreateTask(uploadID uuid.UUID) (Task, error)
}

// TaskSubmitter accepts tasks for background processing.
type TaskSubmitter interface {
	// Submit adds a task to the processing queue
	Submit(ctx context.Context, task Task) error
}

// UploadEventHandler implements the events.EventHandler interface. It
// turns upload generation events into tasks and submits them to the
// runner.
type UploadEventHandler struct {
	factory   TaskFactory
	submitter TaskSubmitter
	logger    *slog.Logger
}

// NewUploadEventHandler creates a new event handler that builds tasks
// with the given factory and submits them to the given submitter.
func NewUploadEventHandler(
	factory TaskFactory,
	submitter TaskSubmitter,
	logger *slog.Logger,
) *UploadEventHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &UploadEventHandler{
		factory:   factory,
		submitter: submitter,
		logger:    logger.With("component", "upload_event_handler"),
	}
}

// Ensure UploadEventHandler implements events.EventHandler
var _ events.EventHandler = (*UploadEventHandler)(nil)

// HandleEvent processes upload generation events by creating and
// submitting the corresponding task. Events of other types are ignored.
func (h *UploadEventHandler) HandleEvent(ctx context.Context, event *events.TaskRequestEvent) error {
	if event.Type != TaskTypeUploadGeneration {
		h.logger.Debug("ignoring event with unsupported type",
			"event_type", event.Type,
			"event_id", event.ID)
		return nil
	}

	var payload uploadGenerationPayload
	if err := event.UnmarshalPayload(&payload); err != nil {
		h.logger.Error("failed to unmarshal payload", "error", err, "event_id", event.ID)
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if payload.UploadID == uuid.Nil {
		h.logger.Error("event payload has no upload ID", "event_id", event.ID)
		return ErrEmptyUploadID
	}

	t, err := h.factory.CreateTask(payload.UploadID)
	if err != nil {
		h.logger.Error("failed to create task",
			"error", err,
			"upload_id", payload.UploadID,
			"event_id", event.ID)
		return fmt.Errorf("failed to create task: %w", err)
	}

	if err := h.submitter.Submit(ctx, t); err != nil {
		h.logger.Error("failed to submit task",
			"error", err,
			"task_id", t.ID(),
			"upload_id", payload.UploadID,
			"event_id", event.ID)
		return fmt.Errorf("failed to submit task: %w", err)
	}

	h.logger.Info("task created and submitted",
		"task_id", t.ID(),
		"upload_id", payload.UploadID,
		"event_id", event.ID)
	return nil
}
