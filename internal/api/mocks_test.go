package api

import (
	"context"

	"github.com/google/uuid"
	"github.com/studydeck/studydeck-api/internal/domain"
	"github.com/studydeck/studydeck-api/internal/service"
	"github.com/studydeck/studydeck-api/internal/service/auth"
	"github.com/studydeck/studydeck-api/internal/service/review"
)

// Function-backed service mocks. Each method delegates to the
// corresponding func field; unset fields panic, making unexpected
// calls obvious in tests.

type mockUserService struct {
	registerFn        func(ctx context.Context, email, name, password string) (*domain.User, error)
	authenticateFn    func(ctx context.Context, email, password string) (*domain.User, error)
	getUserFn         func(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	recordGeneratedFn func(ctx context.Context, userID uuid.UUID, cardCount, quizCount int) error
}

var _ service.UserService = (*mockUserService)(nil)

func (m *mockUserService) Register(ctx context.Context, email, name, password string) (*domain.User, error) {
	return m.registerFn(ctx, email, name, password)
}

func (m *mockUserService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	return m.authenticateFn(ctx, email, password)
}

func (m *mockUserService) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return m.getUserFn(ctx, userID)
}

func (m *mockUserService) RecordGenerated(ctx context.Context, userID uuid.UUID, cardCount, quizCount int) error {
	return m.recordGeneratedFn(ctx, userID, cardCount, quizCount)
}

// stubJWTService returns fixed tokens and claims.
type stubJWTService struct {
	accessToken  string
	refreshToken string
	claims       *auth.Claims

	validateErr        error
	validateRefreshErr error
}

var _ auth.JWTService = (*stubJWTService)(nil)

func (s *stubJWTService) GenerateToken(ctx context.Context, userID uuid.UUID) (string, error) {
	return s.accessToken, nil
}

func (s *stubJWTService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if s.validateErr != nil {
		return nil, s.validateErr
	}
	return s.claims, nil
}

func (s *stubJWTService) GenerateRefreshToken(ctx context.Context, userID uuid.UUID) (string, error) {
	return s.refreshToken, nil
}

func (s *stubJWTService) ValidateRefreshToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if s.validateRefreshErr != nil {
		return nil, s.validateRefreshErr
	}
	return s.claims, nil
}

type mockReviewService struct {
	getDueCardsFn  func(ctx context.Context, userID uuid.UUID) ([]*domain.Flashcard, error)
	getNextCardFn  func(ctx context.Context, userID uuid.UUID) (*domain.Flashcard, error)
	submitReviewFn func(ctx context.Context, userID, cardID uuid.UUID, rating domain.ReviewRating) (*domain.Flashcard, error)
}

var _ review.ReviewService = (*mockReviewService)(nil)

func (m *mockReviewService) GetDueCards(ctx context.Context, userID uuid.UUID) ([]*domain.Flashcard, error) {
	return m.getDueCardsFn(ctx, userID)
}

func (m *mockReviewService) GetNextCard(ctx context.Context, userID uuid.UUID) (*domain.Flashcard, error) {
	return m.getNextCardFn(ctx, userID)
}

func (m *mockReviewService) SubmitReview(
	ctx context.Context,
	userID uuid.UUID,
	cardID uuid.UUID,
	rating domain.ReviewRating,
) (*domain.Flashcard, error) {
	return m.submitReviewFn(ctx, userID, cardID, rating)
}

type mockCardService struct {
	createCardsFn func(ctx context.Context, cards []*domain.Flashcard) error
	getCardFn     func(ctx context.Context, cardID uuid.UUID) (*domain.Flashcard, error)
	listCardsFn   func(ctx context.Context, ownerID uuid.UUID) ([]*domain.Flashcard, error)
	deleteCardFn  func(ctx context.Context, userID, cardID uuid.UUID) error
}

var _ service.CardService = (*mockCardService)(nil)

func (m *mockCardService) CreateCards(ctx context.Context, cards []*domain.Flashcard) error {
	return m.createCardsFn(ctx, cards)
}

func (m *mockCardService) GetCard(ctx context.Context, cardID uuid.UUID) (*domain.Flashcard, error) {
	return m.getCardFn(ctx, cardID)
}

func (m *mockCardService) ListCards(ctx context.Context, ownerID uuid.UUID) ([]*domain.Flashcard, error) {
	return m.listCardsFn(ctx, ownerID)
}

func (m *mockCardService) DeleteCard(ctx context.Context, userID, cardID uuid.UUID) error {
	return m.deleteCardFn(ctx, userID, cardID)
}

type mockQuizService struct {
	createQuizFn       func(ctx context.Context, quiz *domain.Quiz) error
	getQuizFn          func(ctx context.Context, quizID uuid.UUID) (*domain.Quiz, error)
	listQuizzesFn      func(ctx context.Context, ownerID uuid.UUID) ([]*domain.Quiz, error)
	submitQuizResultFn func(ctx context.Context, userID, quizID uuid.UUID, answers []int) (*domain.QuizResult, error)
	listQuizResultsFn  func(ctx context.Context, ownerID uuid.UUID) ([]*domain.QuizResult, error)
}

var _ service.QuizService = (*mockQuizService)(nil)

func (m *mockQuizService) CreateQuiz(ctx context.Context, quiz *domain.Quiz) error {
	return m.createQuizFn(ctx, quiz)
}

func (m *mockQuizService) GetQuiz(ctx context.Context, quizID uuid.UUID) (*domain.Quiz, error) {
	return m.getQuizFn(ctx, quizID)
}

func (m *mockQuizService) ListQuizzes(ctx context.Context, ownerID uuid.UUID) ([]*domain.Quiz, error) {
	return m.listQuizzesFn(ctx, ownerID)
}

func (m *mockQuizService) SubmitQuizResult(
	ctx context.Context,
	userID uuid.UUID,
	quizID uuid.UUID,
	answers []int,
) (*domain.QuizResult, error) {
	return m.submitQuizResultFn(ctx, userID, quizID, answers)
}

func (m *mockQuizService) ListQuizResults(ctx context.Context, ownerID uuid.UUID) ([]*domain.QuizResult, error) {
	return m.listQuizResultsFn(ctx, ownerID)
}
