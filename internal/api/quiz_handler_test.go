package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studydeck/studydeck-api/internal/domain"
	"github.com/studydeck/studydeck-api/internal/service"
)

func quizRouter(h *QuizHandler) chi.Router {
	r := chi.NewRouter()
	r.Get("/quizzes", h.ListQuizzes)
	r.Get("/quizzes/results", h.ListQuizResults)
	r.Get("/quizzes/{id}", h.GetQuiz)
	r.Post("/quizzes/{id}/results", h.SubmitQuizResult)
	return r
}

func sampleQuiz(t *testing.T, ownerID uuid.UUID) *domain.Quiz {
	t.Helper()
	quiz, err := domain.NewQuiz(ownerID, uuid.New(), "Quiz", []domain.QuizQuestion{
		{
			ID:            uuid.New(),
			Question:      "Pick the first option",
			Options:       []string{"a", "b"},
			CorrectAnswer: 0,
		},
	}, time.Now().UTC())
	require.NoError(t, err)
	return quiz
}

func TestQuizHandlerGetQuiz(t *testing.T) {
	t.Parallel()

	t.Run("owner gets the quiz", func(t *testing.T) {
		t.Parallel()
		userID := uuid.New()
		quiz := sampleQuiz(t, userID)
		quizzes := &mockQuizService{
			getQuizFn: func(ctx context.Context, id uuid.UUID) (*domain.Quiz, error) {
				return quiz, nil
			},
		}
		handler := NewQuizHandler(quizzes, nil)

		w := httptest.NewRecorder()
		quizRouter(handler).ServeHTTP(w, authedRequest(
			http.MethodGet, "/quizzes/"+quiz.ID.String(), nil, userID))
		require.Equal(t, http.StatusOK, w.Code)

		var got domain.Quiz
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, quiz.ID, got.ID)
	})

	t.Run("another user's quiz is forbidden", func(t *testing.T) {
		t.Parallel()
		quiz := sampleQuiz(t, uuid.New())
		quizzes := &mockQuizService{
			getQuizFn: func(ctx context.Context, id uuid.UUID) (*domain.Quiz, error) {
				return quiz, nil
			},
		}
		handler := NewQuizHandler(quizzes, nil)

		w := httptest.NewRecorder()
		quizRouter(handler).ServeHTTP(w, authedRequest(
			http.MethodGet, "/quizzes/"+quiz.ID.String(), nil, uuid.New()))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("unknown quiz", func(t *testing.T) {
		t.Parallel()
		quizzes := &mockQuizService{
			getQuizFn: func(ctx context.Context, id uuid.UUID) (*domain.Quiz, error) {
				return nil, service.ErrQuizNotFound
			},
		}
		handler := NewQuizHandler(quizzes, nil)

		w := httptest.NewRecorder()
		quizRouter(handler).ServeHTTP(w, authedRequest(
			http.MethodGet, "/quizzes/"+uuid.NewString(), nil, uuid.New()))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestQuizHandlerSubmitQuizResult(t *testing.T) {
	t.Parallel()

	t.Run("records the attempt", func(t *testing.T) {
		t.Parallel()
		userID := uuid.New()
		quizID := uuid.New()
		quizzes := &mockQuizService{
			submitQuizResultFn: func(ctx context.Context, uid, qid uuid.UUID, answers []int) (*domain.QuizResult, error) {
				assert.Equal(t, userID, uid)
				assert.Equal(t, quizID, qid)
				assert.Equal(t, []int{0, 1}, answers)
				return &domain.QuizResult{
					ID:             uuid.New(),
					QuizID:         qid,
					OwnerID:        uid,
					Score:          1,
					TotalQuestions: 2,
					CompletedAt:    time.Now().UTC(),
				}, nil
			},
		}
		handler := NewQuizHandler(quizzes, nil)

		body := bytes.NewReader([]byte(`{"answers":[0,1]}`))
		w := httptest.NewRecorder()
		quizRouter(handler).ServeHTTP(w, authedRequest(
			http.MethodPost, "/quizzes/"+quizID.String()+"/results", body, userID))
		require.Equal(t, http.StatusCreated, w.Code)

		var result domain.QuizResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
		assert.Equal(t, 1, result.Score)
	})

	t.Run("answer count mismatch", func(t *testing.T) {
		t.Parallel()
		quizzes := &mockQuizService{
			submitQuizResultFn: func(ctx context.Context, uid, qid uuid.UUID, answers []int) (*domain.QuizResult, error) {
				return nil, service.ErrAnswerCountMismatch
			},
		}
		handler := NewQuizHandler(quizzes, nil)

		body := bytes.NewReader([]byte(`{"answers":[0]}`))
		w := httptest.NewRecorder()
		quizRouter(handler).ServeHTTP(w, authedRequest(
			http.MethodPost, "/quizzes/"+uuid.NewString()+"/results", body, uuid.New()))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("empty answers rejected", func(t *testing.T) {
		t.Parallel()
		handler := NewQuizHandler(&mockQuizService{}, nil)

		body := bytes.NewReader([]byte(`{"answers":[]}`))
		w := httptest.NewRecorder()
		quizRouter(handler).ServeHTTP(w, authedRequest(
			http.MethodPost, "/quizzes/"+uuid.NewString()+"/results", body, uuid.New()))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestQuizHandlerListQuizzes(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	quiz := sampleQuiz(t, userID)
	quizzes := &mockQuizService{
		listQuizzesFn: func(ctx context.Context, ownerID uuid.UUID) ([]*domain.Quiz, error) {
			assert.Equal(t, userID, ownerID)
			return []*domain.Quiz{quiz}, nil
		},
	}
	handler := NewQuizHandler(quizzes, nil)

	w := httptest.NewRecorder()
	quizRouter(handler).ServeHTTP(w, authedRequest(http.MethodGet, "/quizzes", nil, userID))
	require.Equal(t, http.StatusOK, w.Code)

	var got []*domain.Quiz
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Len(t, got, 1)
}
