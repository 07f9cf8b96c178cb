package review

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/studydeck/studydeck-api/internal/domain"
	"github.com/studydeck/studydeck-api/internal/domain/srs"
	"github.com/studydeck/studydeck-api/internal/platform/logger"
	"github.com/studydeck/studydeck-api/internal/store"
)

// Verify interface compliance at compile time
var _ ReviewService = (*reviewServiceImpl)(nil)

// reviewServiceImpl implements the ReviewService interface.
type reviewServiceImpl struct {
	db           *sql.DB
	cardStore    store.FlashcardStore
	sessionStore store.ReviewSessionStore
	logger       *slog.Logger

	// timeFunc returns the current time. Injectable for testing.
	timeFunc func() time.Time

	// runTx executes fn with transaction-bound stores. The default wraps
	// store.RunInTransaction; tests replace it to avoid a real database.
	runTx func(ctx context.Context, fn txFn) error
}

// txFn receives stores bound to the active transaction.
type txFn func(ctx context.Context, cards store.FlashcardStore, sessions store.ReviewSessionStore) error

// NewReviewService creates a new ReviewService implementation.
func NewReviewService(
	db *sql.DB,
	cardStore store.FlashcardStore,
	sessionStore store.ReviewSessionStore,
	logger *slog.Logger,
) ReviewService {
	if cardStore == nil {
		panic("cardStore cannot be nil")
	}
	if sessionStore == nil {
		panic("sessionStore cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	s := &reviewServiceImpl{
		db:           db,
		cardStore:    cardStore,
		sessionStore: sessionStore,
		logger:       logger.With(slog.String("component", "review_service")),
		timeFunc:     func() time.Time { return time.Now().UTC() },
	}
	s.runTx = s.runInTransaction
	return s
}

func (s *reviewServiceImpl) runInTransaction(ctx context.Context, fn txFn) error {
	return store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return fn(ctx, s.cardStore.WithTx(tx), s.sessionStore.WithTx(tx))
	})
}

// GetDueCards implements ReviewService.GetDueCards.
// The store returns the user's whole deck; due filtering and the
// hardest-first ordering are applied by the scheduler package.
func (s *reviewServiceImpl) GetDueCards(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.Flashcard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	cards, err := s.cardStore.ListByOwner(ctx, userID)
	if err != nil {
		log.Error("failed to list cards for due selection",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}

	due := srs.SelectDueCards(cards, userID, s.timeFunc())

	log.Debug("selected due cards",
		slog.String("user_id", userID.String()),
		slog.Int("deck_size", len(cards)),
		slog.Int("due_count", len(due)))
	return due, nil
}

// GetNextCard implements ReviewService.GetNextCard.
// It returns the hardest due card, or ErrNoCardsDue when the user is
// caught up.
func (s *reviewServiceImpl) GetNextCard(
	ctx context.Context,
	userID uuid.UUID,
) (*domain.Flashcard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	due, err := s.GetDueCards(ctx, userID)
	if err != nil {
		return nil, err
	}

	if len(due) == 0 {
		log.Debug("no cards due for review", slog.String("user_id", userID.String()))
		return nil, ErrNoCardsDue
	}

	return due[0], nil
}

// SubmitReview implements ReviewService.SubmitReview.
// The card reschedule and the review session record are written in one
// transaction, with a row lock on the card so concurrent reviews of the
// same card are serialized.
func (s *reviewServiceImpl) SubmitReview(
	ctx context.Context,
	userID uuid.UUID,
	cardID uuid.UUID,
	rating domain.ReviewRating,
) (*domain.Flashcard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("processing review",
		slog.String("user_id", userID.String()),
		slog.String("card_id", cardID.String()),
		slog.String("rating", string(rating)))

	if !rating.IsValid() {
		log.Warn("invalid review rating",
			slog.String("user_id", userID.String()),
			slog.String("card_id", cardID.String()),
			slog.String("rating", string(rating)))
		return nil, ErrInvalidRating
	}

	var updatedCard *domain.Flashcard
	err := s.runTx(ctx, func(ctx context.Context, cards store.FlashcardStore, sessions store.ReviewSessionStore) error {
		card, err := cards.GetForUpdate(ctx, cardID)
		if err != nil {
			if errors.Is(err, store.ErrFlashcardNotFound) {
				log.Warn("card not found for review",
					slog.String("user_id", userID.String()),
					slog.String("card_id", cardID.String()))
				return ErrCardNotFound
			}
			return fmt.Errorf("failed to get card: %w", err)
		}

		if card.OwnerID != userID {
			log.Warn("user does not own card",
				slog.String("user_id", userID.String()),
				slog.String("card_id", cardID.String()),
				slog.String("owner_id", card.OwnerID.String()))
			return ErrCardNotOwned
		}

		now := s.timeFunc()

		result, err := srs.ComputeNextReview(rating, card.ReviewCount, now)
		if err != nil {
			return fmt.Errorf("failed to compute next review: %w", err)
		}

		card.NextReview = result.NextReview
		card.Difficulty = result.Difficulty
		card.ReviewCount++

		if err := cards.UpdateReviewState(ctx, card); err != nil {
			return fmt.Errorf("failed to update card review state: %w", err)
		}

		session, err := domain.NewReviewSession(userID, cardID, rating, now)
		if err != nil {
			return fmt.Errorf("failed to build review session: %w", err)
		}

		if err := sessions.Create(ctx, session); err != nil {
			return fmt.Errorf("failed to record review session: %w", err)
		}

		updatedCard = card
		return nil
	})
	if err != nil {
		// Sentinel errors pass through untouched so handlers can map
		// them to status codes.
		if errors.Is(err, ErrCardNotFound) || errors.Is(err, ErrCardNotOwned) {
			return nil, err
		}
		log.Error("failed to submit review",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("card_id", cardID.String()))
		return nil, &ServiceError{
			Operation: "submit_review",
			Message:   "failed to process review",
			Err:       err,
		}
	}

	log.Info("review submitted",
		slog.String("user_id", userID.String()),
		slog.String("card_id", cardID.String()),
		slog.String("rating", string(rating)),
		slog.Int("review_count", updatedCard.ReviewCount),
		slog.Float64("difficulty", updatedCard.Difficulty))
	return updatedCard, nil
}
