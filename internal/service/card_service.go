package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/studydeck/studydeck-api/internal/domain"
	"github.com/studydeck/studydeck-api/internal/platform/logger"
	"github.com/studydeck/studydeck-api/internal/store"
)

// CardService provides flashcard operations outside the review flow:
// batch creation by the generation pipeline, listing, and deletion.
type CardService interface {
	// CreateCards saves a batch of generated cards atomically.
	CreateCards(ctx context.Context, cards []*domain.Flashcard) error

	// GetCard retrieves a card by its ID.
	// Returns ErrCardNotFound if the card does not exist.
	GetCard(ctx context.Context, cardID uuid.UUID) (*domain.Flashcard, error)

	// ListCards retrieves all of the user's cards.
	ListCards(ctx context.Context, ownerID uuid.UUID) ([]*domain.Flashcard, error)

	// DeleteCard removes a card owned by the given user.
	// Returns ErrCardNotFound if the card does not exist and ErrNotOwned
	// if it belongs to someone else.
	DeleteCard(ctx context.Context, userID, cardID uuid.UUID) error
}

// cardServiceImpl implements the CardService interface
type cardServiceImpl struct {
	db        *sql.DB
	cardStore store.FlashcardStore
	logger    *slog.Logger

	// runTx executes a function in a transaction. Injectable for testing.
	runTx func(ctx context.Context, fn store.TxFn) error
}

// NewCardService creates a new CardService.
func NewCardService(db *sql.DB, cardStore store.FlashcardStore, logger *slog.Logger) CardService {
	if cardStore == nil {
		panic("cardStore cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &cardServiceImpl{
		db:        db,
		cardStore: cardStore,
		logger:    logger.With("component", "card_service"),
	}
	s.runTx = func(ctx context.Context, fn store.TxFn) error {
		return store.RunInTransaction(ctx, s.db, fn)
	}
	return s
}

// Ensure cardServiceImpl implements CardService
var _ CardService = (*cardServiceImpl)(nil)

// CreateCards saves all the given cards in a single transaction so a
// generation batch is all-or-nothing.
func (s *cardServiceImpl) CreateCards(ctx context.Context, cards []*domain.Flashcard) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(cards) == 0 {
		return nil
	}

	err := s.runTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		return s.cardStore.WithTx(tx).CreateMultiple(ctx, cards)
	})
	if err != nil {
		log.Error("failed to create cards",
			"error", err,
			"count", len(cards))
		return &ServiceError{
			Operation: "create_cards",
			Message:   fmt.Sprintf("failed to save %d cards", len(cards)),
			Err:       err,
		}
	}

	log.Info("cards created", "count", len(cards))
	return nil
}

// GetCard retrieves a card by its ID.
func (s *cardServiceImpl) GetCard(ctx context.Context, cardID uuid.UUID) (*domain.Flashcard, error) {
	card, err := s.cardStore.GetByID(ctx, cardID)
	if err != nil {
		if errors.Is(err, store.ErrFlashcardNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, &ServiceError{
			Operation: "get_card",
			Message:   "failed to retrieve card",
			Err:       err,
		}
	}
	return card, nil
}

// ListCards retrieves all of the user's cards.
func (s *cardServiceImpl) ListCards(ctx context.Context, ownerID uuid.UUID) ([]*domain.Flashcard, error) {
	cards, err := s.cardStore.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, &ServiceError{
			Operation: "list_cards",
			Message:   "failed to list cards",
			Err:       err,
		}
	}
	return cards, nil
}

// DeleteCard removes a card after checking ownership.
func (s *cardServiceImpl) DeleteCard(ctx context.Context, userID, cardID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	card, err := s.cardStore.GetByID(ctx, cardID)
	if err != nil {
		if errors.Is(err, store.ErrFlashcardNotFound) {
			return ErrCardNotFound
		}
		return &ServiceError{
			Operation: "delete_card",
			Message:   "failed to retrieve card",
			Err:       err,
		}
	}

	if card.OwnerID != userID {
		log.Warn("attempt to delete card owned by another user",
			"user_id", userID,
			"card_id", cardID,
			"owner_id", card.OwnerID)
		return ErrNotOwned
	}

	if err := s.cardStore.Delete(ctx, cardID); err != nil {
		if errors.Is(err, store.ErrFlashcardNotFound) {
			return ErrCardNotFound
		}
		return &ServiceError{
			Operation: "delete_card",
			Message:   "failed to delete card",
			Err:       err,
		}
	}

	log.Info("card deleted", "card_id", cardID, "user_id", userID)
	return nil
}
