package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studydeck/studydeck-api/internal/api/shared"
	"github.com/studydeck/studydeck-api/internal/domain"
	"github.com/studydeck/studydeck-api/internal/service/review"
)

// authedRequest builds a request carrying the given user ID in its
// context, the way the auth middleware would.
func authedRequest(method, target string, body io.Reader, userID uuid.UUID) *http.Request {
	req := httptest.NewRequest(method, target, body)
	ctx := context.WithValue(req.Context(), shared.UserIDContextKey, userID)
	return req.WithContext(ctx)
}

// flashcardRouter mounts the handler the way the server does, so chi
// path parameters resolve in tests.
func flashcardRouter(h *FlashcardHandler) chi.Router {
	r := chi.NewRouter()
	r.Get("/flashcards", h.ListCards)
	r.Get("/flashcards/due", h.GetDueCards)
	r.Get("/flashcards/next", h.GetNextCard)
	r.Post("/flashcards/{id}/review", h.SubmitReview)
	r.Delete("/flashcards/{id}", h.DeleteCard)
	return r
}

func dueCard(t *testing.T, ownerID uuid.UUID) *domain.Flashcard {
	t.Helper()
	card, err := domain.NewFlashcard(
		ownerID, uuid.New(), "Q?", "A", "topic", 2.0,
		time.Now().UTC().AddDate(0, 0, -2))
	require.NoError(t, err)
	return card
}

func TestFlashcardHandlerGetDueCards(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	card := dueCard(t, userID)

	reviews := &mockReviewService{
		getDueCardsFn: func(ctx context.Context, id uuid.UUID) ([]*domain.Flashcard, error) {
			assert.Equal(t, userID, id)
			return []*domain.Flashcard{card}, nil
		},
	}
	handler := NewFlashcardHandler(&mockCardService{}, reviews, nil)

	w := httptest.NewRecorder()
	flashcardRouter(handler).ServeHTTP(w, authedRequest(http.MethodGet, "/flashcards/due", nil, userID))
	require.Equal(t, http.StatusOK, w.Code)

	var cards []*domain.Flashcard
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cards))
	require.Len(t, cards, 1)
	assert.Equal(t, card.ID, cards[0].ID)
}

func TestFlashcardHandlerGetNextCard(t *testing.T) {
	t.Parallel()

	t.Run("returns the next card", func(t *testing.T) {
		t.Parallel()
		userID := uuid.New()
		card := dueCard(t, userID)
		reviews := &mockReviewService{
			getNextCardFn: func(ctx context.Context, id uuid.UUID) (*domain.Flashcard, error) {
				return card, nil
			},
		}
		handler := NewFlashcardHandler(&mockCardService{}, reviews, nil)

		w := httptest.NewRecorder()
		flashcardRouter(handler).ServeHTTP(w, authedRequest(http.MethodGet, "/flashcards/next", nil, userID))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("empty queue responds 204", func(t *testing.T) {
		t.Parallel()
		reviews := &mockReviewService{
			getNextCardFn: func(ctx context.Context, id uuid.UUID) (*domain.Flashcard, error) {
				return nil, review.ErrNoCardsDue
			},
		}
		handler := NewFlashcardHandler(&mockCardService{}, reviews, nil)

		w := httptest.NewRecorder()
		flashcardRouter(handler).ServeHTTP(w, authedRequest(http.MethodGet, "/flashcards/next", nil, uuid.New()))
		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}

func TestFlashcardHandlerSubmitReview(t *testing.T) {
	t.Parallel()

	submit := func(t *testing.T, handler *FlashcardHandler, cardID uuid.UUID, userID uuid.UUID, body string) *httptest.ResponseRecorder {
		t.Helper()
		req := authedRequest(
			http.MethodPost,
			"/flashcards/"+cardID.String()+"/review",
			bytes.NewReader([]byte(body)),
			userID,
		)
		w := httptest.NewRecorder()
		flashcardRouter(handler).ServeHTTP(w, req)
		return w
	}

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		userID := uuid.New()
		card := dueCard(t, userID)
		reviews := &mockReviewService{
			submitReviewFn: func(ctx context.Context, uid, cid uuid.UUID, rating domain.ReviewRating) (*domain.Flashcard, error) {
				assert.Equal(t, userID, uid)
				assert.Equal(t, card.ID, cid)
				assert.Equal(t, domain.RatingHard, rating)
				updated := *card
				updated.ReviewCount++
				return &updated, nil
			},
		}
		handler := NewFlashcardHandler(&mockCardService{}, reviews, nil)

		w := submit(t, handler, card.ID, userID, `{"rating":"hard"}`)
		require.Equal(t, http.StatusOK, w.Code)

		var updated domain.Flashcard
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
		assert.Equal(t, 1, updated.ReviewCount)
	})

	t.Run("unknown rating rejected before the service", func(t *testing.T) {
		t.Parallel()
		handler := NewFlashcardHandler(&mockCardService{}, &mockReviewService{}, nil)

		w := submit(t, handler, uuid.New(), uuid.New(), `{"rating":"impossible"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("card owned by someone else", func(t *testing.T) {
		t.Parallel()
		reviews := &mockReviewService{
			submitReviewFn: func(ctx context.Context, uid, cid uuid.UUID, rating domain.ReviewRating) (*domain.Flashcard, error) {
				return nil, review.ErrCardNotOwned
			},
		}
		handler := NewFlashcardHandler(&mockCardService{}, reviews, nil)

		w := submit(t, handler, uuid.New(), uuid.New(), `{"rating":"easy"}`)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("card not found", func(t *testing.T) {
		t.Parallel()
		reviews := &mockReviewService{
			submitReviewFn: func(ctx context.Context, uid, cid uuid.UUID, rating domain.ReviewRating) (*domain.Flashcard, error) {
				return nil, review.ErrCardNotFound
			},
		}
		handler := NewFlashcardHandler(&mockCardService{}, reviews, nil)

		w := submit(t, handler, uuid.New(), uuid.New(), `{"rating":"easy"}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("invalid card id in path", func(t *testing.T) {
		t.Parallel()
		handler := NewFlashcardHandler(&mockCardService{}, &mockReviewService{}, nil)

		req := authedRequest(
			http.MethodPost,
			"/flashcards/not-a-uuid/review",
			bytes.NewReader([]byte(`{"rating":"easy"}`)),
			uuid.New(),
		)
		w := httptest.NewRecorder()
		flashcardRouter(handler).ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestFlashcardHandlerDeleteCard(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	cardID := uuid.New()
	cards := &mockCardService{
		deleteCardFn: func(ctx context.Context, uid, cid uuid.UUID) error {
			assert.Equal(t, userID, uid)
			assert.Equal(t, cardID, cid)
			return nil
		},
	}
	handler := NewFlashcardHandler(cards, &mockReviewService{}, nil)

	w := httptest.NewRecorder()
	flashcardRouter(handler).ServeHTTP(w, authedRequest(
		http.MethodDelete, "/flashcards/"+cardID.String(), nil, userID))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestFlashcardHandlerRequiresAuth(t *testing.T) {
	t.Parallel()

	handler := NewFlashcardHandler(&mockCardService{}, &mockReviewService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/flashcards/due", nil)
	w := httptest.NewRecorder()
	flashcardRouter(handler).ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
