package api

import (
	"log/slog"
	"net/http"

	"github.com/studydeck/studydeck-api/internal/api/shared"
	"github.com/studydeck/studydeck-api/internal/domain"
	"github.com/studydeck/studydeck-api/internal/service"
)

// UploadHandler handles upload-related API requests.
type UploadHandler struct {
	uploadService service.UploadService
	logger        *slog.Logger
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(uploadService service.UploadService, logger *slog.Logger) *UploadHandler {
	if uploadService == nil {
		panic("uploadService cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &UploadHandler{
		uploadService: uploadService,
		logger:        logger.With("component", "upload_handler"),
	}
}

// CreateUpload handles POST /api/uploads. The upload is persisted
// synchronously; flashcard and quiz generation run in the background.
func (h *UploadHandler) CreateUpload(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req CreateUploadRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error")
		return
	}

	upload, err := h.uploadService.CreateUploadAndEnqueueTask(
		r.Context(),
		userID,
		req.Title,
		domain.SourceType(req.SourceType),
		req.Content,
	)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	// 202: the upload exists but its cards and quiz are still being
	// generated.
	shared.RespondWithJSON(w, r, http.StatusAccepted, upload)
}

// GetUpload handles GET /api/uploads/{id}.
func (h *UploadHandler) GetUpload(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	uploadID, ok := getPathUUID(w, r, "id")
	if !ok {
		return
	}

	upload, err := h.uploadService.GetUpload(r.Context(), uploadID)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}
	if upload.OwnerID != userID {
		HandleServiceError(w, r, service.ErrNotOwned)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, upload)
}

// ListUploads handles GET /api/uploads.
func (h *UploadHandler) ListUploads(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	uploads, err := h.uploadService.ListUploads(r.Context(), userID)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, uploads)
}
