package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studydeck/studydeck-api/internal/domain"
)

func newCardService(cards *mockFlashcardStore) *cardServiceImpl {
	svc := NewCardService(nil, cards, nil).(*cardServiceImpl)
	svc.runTx = passthroughTx
	return svc
}

func testCards(t *testing.T, ownerID uuid.UUID, count int) []*domain.Flashcard {
	t.Helper()

	uploadID := uuid.New()
	now := time.Now().UTC()
	cards := make([]*domain.Flashcard, count)
	for i := range cards {
		card, err := domain.NewFlashcard(
			ownerID, uploadID, "What is the capital of France?", "Paris", "geography", 2.0, now)
		require.NoError(t, err)
		cards[i] = card
	}
	return cards
}

func TestCreateCards(t *testing.T) {
	t.Parallel()

	t.Run("saves a batch", func(t *testing.T) {
		t.Parallel()
		store := newMockFlashcardStore()
		svc := newCardService(store)
		ownerID := uuid.New()

		require.NoError(t, svc.CreateCards(context.Background(), testCards(t, ownerID, 3)))

		cards, err := store.ListByOwner(context.Background(), ownerID)
		require.NoError(t, err)
		assert.Len(t, cards, 3)
	})

	t.Run("empty batch is a no-op", func(t *testing.T) {
		t.Parallel()
		svc := newCardService(newMockFlashcardStore())
		assert.NoError(t, svc.CreateCards(context.Background(), nil))
	})

	t.Run("store failure", func(t *testing.T) {
		t.Parallel()
		store := newMockFlashcardStore()
		store.createErr = errors.New("disk full")
		svc := newCardService(store)

		err := svc.CreateCards(context.Background(), testCards(t, uuid.New(), 1))
		require.Error(t, err)

		var svcErr *ServiceError
		require.ErrorAs(t, err, &svcErr)
		assert.Equal(t, "create_cards", svcErr.Operation)
	})
}

func TestGetCard(t *testing.T) {
	t.Parallel()

	store := newMockFlashcardStore()
	svc := newCardService(store)
	card := testCards(t, uuid.New(), 1)[0]
	store.add(card)

	got, err := svc.GetCard(context.Background(), card.ID)
	require.NoError(t, err)
	assert.Equal(t, card.Question, got.Question)

	_, err = svc.GetCard(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrCardNotFound)
}

func TestDeleteCard(t *testing.T) {
	t.Parallel()

	t.Run("owner can delete", func(t *testing.T) {
		t.Parallel()
		store := newMockFlashcardStore()
		svc := newCardService(store)
		ownerID := uuid.New()
		card := testCards(t, ownerID, 1)[0]
		store.add(card)

		require.NoError(t, svc.DeleteCard(context.Background(), ownerID, card.ID))

		_, err := store.GetByID(context.Background(), card.ID)
		require.Error(t, err)
	})

	t.Run("non-owner is rejected", func(t *testing.T) {
		t.Parallel()
		store := newMockFlashcardStore()
		svc := newCardService(store)
		card := testCards(t, uuid.New(), 1)[0]
		store.add(card)

		err := svc.DeleteCard(context.Background(), uuid.New(), card.ID)
		assert.ErrorIs(t, err, ErrNotOwned)

		// Card is untouched.
		_, getErr := store.GetByID(context.Background(), card.ID)
		assert.NoError(t, getErr)
	})

	t.Run("unknown card", func(t *testing.T) {
		t.Parallel()
		svc := newCardService(newMockFlashcardStore())

		err := svc.DeleteCard(context.Background(), uuid.New(), uuid.New())
		assert.ErrorIs(t, err, ErrCardNotFound)
	})
}
