package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/studydeck/studydeck-api/internal/domain"
	"github.com/studydeck/studydeck-api/internal/platform/logger"
	"github.com/studydeck/studydeck-api/internal/store"
)

// QuizService provides quiz operations: persistence for the generation
// pipeline, retrieval, and grading of submitted attempts.
type QuizService interface {
	// CreateQuiz saves a generated quiz.
	CreateQuiz(ctx context.Context, quiz *domain.Quiz) error

	// GetQuiz retrieves a quiz by its ID, including questions.
	// Returns ErrQuizNotFound if the quiz does not exist.
	GetQuiz(ctx context.Context, quizID uuid.UUID) (*domain.Quiz, error)

	// ListQuizzes retrieves all of the user's quizzes.
	ListQuizzes(ctx context.Context, ownerID uuid.UUID) ([]*domain.Quiz, error)

	// SubmitQuizResult grades a quiz attempt. Answers are option
	// indexes, one per question in order. The result record and the
	// owner's stats update are committed in one transaction.
	//
	// Returns ErrQuizNotFound, ErrNotOwned, or ErrAnswerCountMismatch
	// for the corresponding failures.
	SubmitQuizResult(
		ctx context.Context,
		userID uuid.UUID,
		quizID uuid.UUID,
		answers []int,
	) (*domain.QuizResult, error)

	// ListQuizResults retrieves the user's past quiz attempts, most
	// recent first.
	ListQuizResults(ctx context.Context, ownerID uuid.UUID) ([]*domain.QuizResult, error)
}

// quizServiceImpl implements the QuizService interface
type quizServiceImpl struct {
	db          *sql.DB
	quizStore   store.QuizStore
	resultStore store.QuizResultStore
	userStore   store.UserStore
	logger      *slog.Logger

	// timeFunc returns the current time. Injectable for testing.
	timeFunc func() time.Time

	// runTx executes a function in a transaction. Injectable for testing.
	runTx func(ctx context.Context, fn store.TxFn) error
}

// NewQuizService creates a new QuizService.
func NewQuizService(
	db *sql.DB,
	quizStore store.QuizStore,
	resultStore store.QuizResultStore,
	userStore store.UserStore,
	logger *slog.Logger,
) QuizService {
	if quizStore == nil {
		panic("quizStore cannot be nil")
	}
	if resultStore == nil {
		panic("resultStore cannot be nil")
	}
	if userStore == nil {
		panic("userStore cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &quizServiceImpl{
		db:          db,
		quizStore:   quizStore,
		resultStore: resultStore,
		userStore:   userStore,
		logger:      logger.With("component", "quiz_service"),
		timeFunc:    func() time.Time { return time.Now().UTC() },
	}
	s.runTx = func(ctx context.Context, fn store.TxFn) error {
		return store.RunInTransaction(ctx, s.db, fn)
	}
	return s
}

// Ensure quizServiceImpl implements QuizService
var _ QuizService = (*quizServiceImpl)(nil)

// CreateQuiz saves a generated quiz.
func (s *quizServiceImpl) CreateQuiz(ctx context.Context, quiz *domain.Quiz) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.quizStore.Create(ctx, quiz); err != nil {
		log.Error("failed to create quiz",
			"error", err,
			"quiz_id", quiz.ID)
		return &ServiceError{
			Operation: "create_quiz",
			Message:   "failed to save quiz",
			Err:       err,
		}
	}
	return nil
}

// GetQuiz retrieves a quiz by its ID.
func (s *quizServiceImpl) GetQuiz(ctx context.Context, quizID uuid.UUID) (*domain.Quiz, error) {
	quiz, err := s.quizStore.GetByID(ctx, quizID)
	if err != nil {
		if errors.Is(err, store.ErrQuizNotFound) {
			return nil, ErrQuizNotFound
		}
		return nil, &ServiceError{
			Operation: "get_quiz",
			Message:   "failed to retrieve quiz",
			Err:       err,
		}
	}
	return quiz, nil
}

// ListQuizzes retrieves all of the user's quizzes.
func (s *quizServiceImpl) ListQuizzes(ctx context.Context, ownerID uuid.UUID) ([]*domain.Quiz, error) {
	quizzes, err := s.quizStore.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, &ServiceError{
			Operation: "list_quizzes",
			Message:   "failed to list quizzes",
			Err:       err,
		}
	}
	return quizzes, nil
}

// SubmitQuizResult grades an attempt and records it.
func (s *quizServiceImpl) SubmitQuizResult(
	ctx context.Context,
	userID uuid.UUID,
	quizID uuid.UUID,
	answers []int,
) (*domain.QuizResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	quiz, err := s.GetQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}

	if quiz.OwnerID != userID {
		log.Warn("attempt to submit result for quiz owned by another user",
			"user_id", userID,
			"quiz_id", quizID,
			"owner_id", quiz.OwnerID)
		return nil, ErrNotOwned
	}

	if len(answers) != len(quiz.Questions) {
		return nil, ErrAnswerCountMismatch
	}

	score := 0
	for i, question := range quiz.Questions {
		if answers[i] == question.CorrectAnswer {
			score++
		}
	}

	result, err := domain.NewQuizResult(userID, quizID, score, len(quiz.Questions), s.timeFunc())
	if err != nil {
		return nil, err
	}

	err = s.runTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.resultStore.WithTx(tx).Create(ctx, result); err != nil {
			return err
		}

		txUsers := s.userStore.WithTx(tx)
		user, err := txUsers.GetByID(ctx, userID)
		if err != nil {
			return err
		}

		stats := user.Stats
		stats.TotalCorrect += score
		stats.TotalAttempts += len(quiz.Questions)
		return txUsers.UpdateStats(ctx, userID, stats)
	})
	if err != nil {
		log.Error("failed to record quiz result",
			"error", err,
			"user_id", userID,
			"quiz_id", quizID)
		return nil, &ServiceError{
			Operation: "submit_quiz_result",
			Message:   "failed to record quiz result",
			Err:       err,
		}
	}

	log.Info("quiz result recorded",
		"user_id", userID,
		"quiz_id", quizID,
		"score", score,
		"total_questions", len(quiz.Questions))
	return result, nil
}

// ListQuizResults retrieves the user's past attempts.
func (s *quizServiceImpl) ListQuizResults(ctx context.Context, ownerID uuid.UUID) ([]*domain.QuizResult, error) {
	results, err := s.resultStore.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, &ServiceError{
			Operation: "list_quiz_results",
			Message:   "failed to list quiz results",
			Err:       err,
		}
	}
	return results, nil
}
