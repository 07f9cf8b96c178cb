package review

import (
	"errors"

	"github.com/google/uuid"
	"github.com/studydeck/studydeck-api/internal/domain"
)

// SessionState is the phase a study session is in.
type SessionState string

// Study session states
const (
	// StateLoading means the due cards have not been fetched yet.
	StateLoading SessionState = "loading"

	// StatePresenting means a card's question is shown with the answer
	// hidden. The user may reveal the answer or rate the card directly.
	StatePresenting SessionState = "presenting"

	// StateFlipped means the current card's answer is revealed.
	StateFlipped SessionState = "flipped"

	// StateCompleted means every card in the session has been rated.
	StateCompleted SessionState = "completed"
)

// Study session state machine errors
var (
	// ErrSessionNotStarted is returned when cards are requested before Start.
	ErrSessionNotStarted = errors.New("study session has not been started")

	// ErrSessionAlreadyStarted is returned when Start is called twice.
	ErrSessionAlreadyStarted = errors.New("study session has already been started")

	// ErrSessionCompleted is returned for actions on a finished session.
	ErrSessionCompleted = errors.New("study session is already completed")

	// ErrAnswerRevealed is returned when Flip is called twice on a card.
	ErrAnswerRevealed = errors.New("card answer is already revealed")
)

// StudySession drives a single pass through a user's due cards. Cards
// are studied in the order given (hardest first as selected by the
// scheduler); revealing the answer is optional, so a card can be rated
// straight from its question. The session itself holds no persistence
// concerns: the caller records each rating through the ReviewService as
// it is produced.
//
// StudySession is not safe for concurrent use.
type StudySession struct {
	userID  uuid.UUID
	cards   []*domain.Flashcard
	current int
	state   SessionState
}

// NewStudySession creates a session for the given user in the loading
// state. Call Start with the user's due cards to begin.
func NewStudySession(userID uuid.UUID) *StudySession {
	return &StudySession{
		userID: userID,
		state:  StateLoading,
	}
}

// State returns the session's current state.
func (s *StudySession) State() SessionState {
	return s.state
}

// UserID returns the user the session belongs to.
func (s *StudySession) UserID() uuid.UUID {
	return s.userID
}

// Start supplies the due cards and moves the session to presenting the
// first one. An empty deck completes the session immediately.
func (s *StudySession) Start(cards []*domain.Flashcard) error {
	if s.state != StateLoading {
		return ErrSessionAlreadyStarted
	}

	s.cards = cards
	s.current = 0

	if len(cards) == 0 {
		s.state = StateCompleted
		return nil
	}

	s.state = StatePresenting
	return nil
}

// CurrentCard returns the card being studied.
func (s *StudySession) CurrentCard() (*domain.Flashcard, error) {
	switch s.state {
	case StateLoading:
		return nil, ErrSessionNotStarted
	case StateCompleted:
		return nil, ErrSessionCompleted
	}
	return s.cards[s.current], nil
}

// Flip reveals the answer of the current card.
func (s *StudySession) Flip() error {
	switch s.state {
	case StateLoading:
		return ErrSessionNotStarted
	case StateCompleted:
		return ErrSessionCompleted
	case StateFlipped:
		return ErrAnswerRevealed
	}

	s.state = StateFlipped
	return nil
}

// Rate accepts the user's rating for the current card, whether or not
// its answer was revealed, and advances to the next card, or completes
// the session when the deck is exhausted. It returns the rated card so
// the caller can submit the rating to the ReviewService.
func (s *StudySession) Rate(rating domain.ReviewRating) (*domain.Flashcard, error) {
	switch s.state {
	case StateLoading:
		return nil, ErrSessionNotStarted
	case StateCompleted:
		return nil, ErrSessionCompleted
	}

	if !rating.IsValid() {
		return nil, ErrInvalidRating
	}

	card := s.cards[s.current]
	s.current++

	if s.current >= len(s.cards) {
		s.state = StateCompleted
	} else {
		s.state = StatePresenting
	}

	return card, nil
}

// Remaining returns how many cards are left, including the current one.
func (s *StudySession) Remaining() int {
	if s.state == StateCompleted || s.state == StateLoading {
		return 0
	}
	return len(s.cards) - s.current
}
