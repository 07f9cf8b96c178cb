package api

import (
	"log/slog"
	"net/http"

	"github.com/studydeck/studydeck-api/internal/api/shared"
	"github.com/studydeck/studydeck-api/internal/service"
)

// QuizHandler handles quiz-related API requests.
type QuizHandler struct {
	quizService service.QuizService
	logger      *slog.Logger
}

// NewQuizHandler creates a new QuizHandler.
func NewQuizHandler(quizService service.QuizService, logger *slog.Logger) *QuizHandler {
	if quizService == nil {
		panic("quizService cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &QuizHandler{
		quizService: quizService,
		logger:      logger.With("component", "quiz_handler"),
	}
}

// ListQuizzes handles GET /api/quizzes.
func (h *QuizHandler) ListQuizzes(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	quizzes, err := h.quizService.ListQuizzes(r.Context(), userID)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, quizzes)
}

// GetQuiz handles GET /api/quizzes/{id}.
func (h *QuizHandler) GetQuiz(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	quizID, ok := getPathUUID(w, r, "id")
	if !ok {
		return
	}

	quiz, err := h.quizService.GetQuiz(r.Context(), quizID)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}
	if quiz.OwnerID != userID {
		HandleServiceError(w, r, service.ErrNotOwned)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, quiz)
}

// SubmitQuizResult handles POST /api/quizzes/{id}/results. The score is
// computed server-side from the submitted answer indexes.
func (h *QuizHandler) SubmitQuizResult(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	quizID, ok := getPathUUID(w, r, "id")
	if !ok {
		return
	}

	var req SubmitQuizResultRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error")
		return
	}

	result, err := h.quizService.SubmitQuizResult(r.Context(), userID, quizID, req.Answers)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, result)
}

// ListQuizResults handles GET /api/quizzes/results.
func (h *QuizHandler) ListQuizResults(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	results, err := h.quizService.ListQuizResults(r.Context(), userID)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, results)
}
