package review

import (
	"context"
	"database/sql"
	"sync"

	"github.com/google/uuid"
	"github.com/studydeck/studydeck-api/internal/domain"
	"github.com/studydeck/studydeck-api/internal/store"
)

// mockFlashcardStore is an in-memory store.FlashcardStore for tests.
type mockFlashcardStore struct {
	mu    sync.Mutex
	cards map[uuid.UUID]*domain.Flashcard

	// updateErr, when set, is returned from UpdateReviewState.
	updateErr error
}

var _ store.FlashcardStore = (*mockFlashcardStore)(nil)

func newMockFlashcardStore() *mockFlashcardStore {
	return &mockFlashcardStore{cards: make(map[uuid.UUID]*domain.Flashcard)}
}

func (m *mockFlashcardStore) add(card *domain.Flashcard) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *card
	m.cards[card.ID] = &copied
}

func (m *mockFlashcardStore) CreateMultiple(ctx context.Context, cards []*domain.Flashcard) error {
	for _, card := range cards {
		m.add(card)
	}
	return nil
}

func (m *mockFlashcardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Flashcard, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	card, ok := m.cards[id]
	if !ok {
		return nil, store.ErrFlashcardNotFound
	}
	copied := *card
	return &copied, nil
}

func (m *mockFlashcardStore) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Flashcard, error) {
	return m.GetByID(ctx, id)
}

func (m *mockFlashcardStore) UpdateReviewState(ctx context.Context, card *domain.Flashcard) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.cards[card.ID]; !ok {
		return store.ErrFlashcardNotFound
	}
	copied := *card
	m.cards[card.ID] = &copied
	return nil
}

func (m *mockFlashcardStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Flashcard, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cards := []*domain.Flashcard{}
	for _, card := range m.cards {
		if card.OwnerID == ownerID {
			copied := *card
			cards = append(cards, &copied)
		}
	}
	return cards, nil
}

func (m *mockFlashcardStore) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.cards[id]; !ok {
		return store.ErrFlashcardNotFound
	}
	delete(m.cards, id)
	return nil
}

func (m *mockFlashcardStore) WithTx(tx *sql.Tx) store.FlashcardStore {
	return m
}

// mockReviewSessionStore is an in-memory store.ReviewSessionStore for tests.
type mockReviewSessionStore struct {
	mu       sync.Mutex
	sessions []*domain.ReviewSession

	// createErr, when set, is returned from Create.
	createErr error
}

var _ store.ReviewSessionStore = (*mockReviewSessionStore)(nil)

func newMockReviewSessionStore() *mockReviewSessionStore {
	return &mockReviewSessionStore{}
}

func (m *mockReviewSessionStore) Create(ctx context.Context, session *domain.ReviewSession) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *session
	m.sessions = append(m.sessions, &copied)
	return nil
}

func (m *mockReviewSessionStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.ReviewSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sessions := []*domain.ReviewSession{}
	for _, session := range m.sessions {
		if session.OwnerID == ownerID {
			copied := *session
			sessions = append(sessions, &copied)
		}
	}
	return sessions, nil
}

func (m *mockReviewSessionStore) WithTx(tx *sql.Tx) store.ReviewSessionStore {
	return m
}

// newTestService wires a review service onto the given mocks with a
// transaction runner that skips the database. When the body fails, card
// updates made inside it are rolled back the way a real transaction
// would discard them. Tests set timeFunc on the returned service to
// pin the clock.
func newTestService(
	cards *mockFlashcardStore,
	sessions *mockReviewSessionStore,
) *reviewServiceImpl {
	svc := NewReviewService(nil, cards, sessions, nil).(*reviewServiceImpl)
	svc.runTx = func(ctx context.Context, fn txFn) error {
		cards.mu.Lock()
		snapshot := make(map[uuid.UUID]*domain.Flashcard, len(cards.cards))
		for id, card := range cards.cards {
			copied := *card
			snapshot[id] = &copied
		}
		cards.mu.Unlock()

		if err := fn(ctx, cards, sessions); err != nil {
			cards.mu.Lock()
			cards.cards = snapshot
			cards.mu.Unlock()
			return err
		}
		return nil
	}
	return svc
}
