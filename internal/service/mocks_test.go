package service

import (
	"context"
	"database/sql"
	"sync"

	"github.com/google/uuid"
	"github.com/studydeck/studydeck-api/internal/domain"
	"github.com/studydeck/studydeck-api/internal/events"
	"github.com/studydeck/studydeck-api/internal/store"
)

// passthroughTx runs the transaction body directly against the mock
// stores. The mocks ignore WithTx, so there is nothing to roll back;
// tests that need rollback behavior assert on the returned error
// instead of on store contents.
func passthroughTx(ctx context.Context, fn store.TxFn) error {
	return fn(ctx, nil)
}

// mockUserStore is an in-memory store.UserStore for tests.
type mockUserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User

	// createErr and updateStatsErr, when set, are returned from the
	// corresponding methods.
	createErr      error
	updateStatsErr error
}

var _ store.UserStore = (*mockUserStore)(nil)

func newMockUserStore() *mockUserStore {
	return &mockUserStore{users: make(map[uuid.UUID]*domain.User)}
}

func (m *mockUserStore) add(user *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *user
	m.users[user.ID] = &copied
}

func (m *mockUserStore) Create(ctx context.Context, user *domain.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == user.Email {
			return store.ErrEmailExists
		}
	}
	copied := *user
	m.users[user.ID] = &copied
	return nil
}

func (m *mockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (m *mockUserStore) UpdateStats(ctx context.Context, id uuid.UUID, stats domain.UserStats) error {
	if m.updateStatsErr != nil {
		return m.updateStatsErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return store.ErrUserNotFound
	}
	user.Stats = stats
	return nil
}

func (m *mockUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return m
}

// mockUploadStore is an in-memory store.UploadStore for tests.
type mockUploadStore struct {
	mu      sync.Mutex
	uploads map[uuid.UUID]*domain.Upload

	// createErr, when set, is returned from Create.
	createErr error
}

var _ store.UploadStore = (*mockUploadStore)(nil)

func newMockUploadStore() *mockUploadStore {
	return &mockUploadStore{uploads: make(map[uuid.UUID]*domain.Upload)}
}

func (m *mockUploadStore) Create(ctx context.Context, upload *domain.Upload) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *upload
	m.uploads[upload.ID] = &copied
	return nil
}

func (m *mockUploadStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Upload, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	upload, ok := m.uploads[id]
	if !ok {
		return nil, store.ErrUploadNotFound
	}
	copied := *upload
	return &copied, nil
}

func (m *mockUploadStore) UpdateExtraction(ctx context.Context, upload *domain.Upload) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.uploads[upload.ID]
	if !ok {
		return store.ErrUploadNotFound
	}
	existing.ExtractedText = upload.ExtractedText
	existing.Topics = upload.Topics
	return nil
}

func (m *mockUploadStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Upload, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	uploads := []*domain.Upload{}
	for _, upload := range m.uploads {
		if upload.OwnerID == ownerID {
			copied := *upload
			uploads = append(uploads, &copied)
		}
	}
	return uploads, nil
}

func (m *mockUploadStore) WithTx(tx *sql.Tx) store.UploadStore {
	return m
}

// mockQuizStore is an in-memory store.QuizStore for tests.
type mockQuizStore struct {
	mu      sync.Mutex
	quizzes map[uuid.UUID]*domain.Quiz

	// createErr, when set, is returned from Create.
	createErr error
}

var _ store.QuizStore = (*mockQuizStore)(nil)

func newMockQuizStore() *mockQuizStore {
	return &mockQuizStore{quizzes: make(map[uuid.UUID]*domain.Quiz)}
}

func (m *mockQuizStore) add(quiz *domain.Quiz) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *quiz
	m.quizzes[quiz.ID] = &copied
}

func (m *mockQuizStore) Create(ctx context.Context, quiz *domain.Quiz) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.add(quiz)
	return nil
}

func (m *mockQuizStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Quiz, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	quiz, ok := m.quizzes[id]
	if !ok {
		return nil, store.ErrQuizNotFound
	}
	copied := *quiz
	return &copied, nil
}

func (m *mockQuizStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Quiz, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	quizzes := []*domain.Quiz{}
	for _, quiz := range m.quizzes {
		if quiz.OwnerID == ownerID {
			copied := *quiz
			quizzes = append(quizzes, &copied)
		}
	}
	return quizzes, nil
}

func (m *mockQuizStore) WithTx(tx *sql.Tx) store.QuizStore {
	return m
}

// mockQuizResultStore is an in-memory store.QuizResultStore for tests.
type mockQuizResultStore struct {
	mu      sync.Mutex
	results []*domain.QuizResult

	// createErr, when set, is returned from Create.
	createErr error
}

var _ store.QuizResultStore = (*mockQuizResultStore)(nil)

func newMockQuizResultStore() *mockQuizResultStore {
	return &mockQuizResultStore{}
}

func (m *mockQuizResultStore) Create(ctx context.Context, result *domain.QuizResult) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *result
	m.results = append(m.results, &copied)
	return nil
}

func (m *mockQuizResultStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.QuizResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	results := []*domain.QuizResult{}
	for _, result := range m.results {
		if result.OwnerID == ownerID {
			copied := *result
			results = append(results, &copied)
		}
	}
	return results, nil
}

func (m *mockQuizResultStore) WithTx(tx *sql.Tx) store.QuizResultStore {
	return m
}

// mockFlashcardStore is an in-memory store.FlashcardStore for tests.
type mockFlashcardStore struct {
	mu    sync.Mutex
	cards map[uuid.UUID]*domain.Flashcard

	// createErr, when set, is returned from CreateMultiple.
	createErr error
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
	if m.createErr != nil {
		return m.createErr
	}
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

// fakeExtractor returns canned extraction results.
type fakeExtractor struct {
	text   string
	topics []string
	err    error
}

func (f *fakeExtractor) ExtractText(ctx context.Context, sourceType domain.SourceType, title, content string) (string, []string, error) {
	if f.err != nil {
		return "", nil, f.err
	}
	return f.text, f.topics, nil
}

// fakeEventEmitter records emitted events.
type fakeEventEmitter struct {
	mu     sync.Mutex
	events []*events.TaskRequestEvent

	// emitErr, when set, is returned from EmitEvent.
	emitErr error
}

var _ events.EventEmitter = (*fakeEventEmitter)(nil)

func (f *fakeEventEmitter) EmitEvent(ctx context.Context, event *events.TaskRequestEvent) error {
	if f.emitErr != nil {
		return f.emitErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return nil
}
