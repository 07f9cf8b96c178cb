package api

import (
	"log/slog"
	"net/http"

	"github.com/studydeck/studydeck-api/internal/api/shared"
	"github.com/studydeck/studydeck-api/internal/domain"
	"github.com/studydeck/studydeck-api/internal/service"
	"github.com/studydeck/studydeck-api/internal/service/review"
)

// FlashcardHandler handles flashcard and review API requests.
type FlashcardHandler struct {
	cardService   service.CardService
	reviewService review.ReviewService
	logger        *slog.Logger
}

// NewFlashcardHandler creates a new FlashcardHandler.
func NewFlashcardHandler(
	cardService service.CardService,
	reviewService review.ReviewService,
	logger *slog.Logger,
) *FlashcardHandler {
	if cardService == nil {
		panic("cardService cannot be nil")
	}
	if reviewService == nil {
		panic("reviewService cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FlashcardHandler{
		cardService:   cardService,
		reviewService: reviewService,
		logger:        logger.With("component", "flashcard_handler"),
	}
}

// ListCards handles GET /api/flashcards.
func (h *FlashcardHandler) ListCards(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	cards, err := h.cardService.ListCards(r.Context(), userID)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, cards)
}

// GetDueCards handles GET /api/flashcards/due. Cards are returned
// hardest first.
func (h *FlashcardHandler) GetDueCards(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	cards, err := h.reviewService.GetDueCards(r.Context(), userID)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, cards)
}

// GetNextCard handles GET /api/flashcards/next. Responds 204 when the
// review queue is empty.
func (h *FlashcardHandler) GetNextCard(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	card, err := h.reviewService.GetNextCard(r.Context(), userID)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, card)
}

// SubmitReview handles POST /api/flashcards/{id}/review. The card's
// schedule is updated and the review is recorded atomically; the
// rescheduled card is returned.
func (h *FlashcardHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	cardID, ok := getPathUUID(w, r, "id")
	if !ok {
		return
	}

	var req SubmitReviewRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error")
		return
	}

	card, err := h.reviewService.SubmitReview(
		r.Context(), userID, cardID, domain.ReviewRating(req.Rating))
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, card)
}

// DeleteCard handles DELETE /api/flashcards/{id}.
func (h *FlashcardHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	cardID, ok := getPathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.cardService.DeleteCard(r.Context(), userID, cardID); err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusNoContent, nil)
}
