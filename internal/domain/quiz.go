package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Quiz-specific validation errors
var (
	ErrQuizIDEmpty             = errors.New("quiz ID cannot be empty")
	ErrQuizOwnerIDEmpty        = errors.New("quiz owner ID cannot be empty")
	ErrQuizUploadIDEmpty       = errors.New("quiz upload ID cannot be empty")
	ErrQuizTitleEmpty          = errors.New("quiz title cannot be empty")
	ErrQuizNoQuestions         = errors.New("quiz must contain at least one question")
	ErrQuizQuestionEmpty       = errors.New("quiz question text cannot be empty")
	ErrQuizQuestionOptions     = errors.New("quiz question must have at least two options")
	ErrQuizQuestionAnswerRange = errors.New("quiz question correct answer index is out of range")
)

// QuizQuestion is a single multiple-choice question within a quiz.
// CorrectAnswer is the index into Options of the correct choice.
type QuizQuestion struct {
	ID            uuid.UUID `json:"id"`
	Question      string    `json:"question"`
	Options       []string  `json:"options"`
	CorrectAnswer int       `json:"correct_answer"`
	Explanation   string    `json:"explanation"`
}

// Quiz represents a generated multiple-choice quiz for an upload.
type Quiz struct {
	ID        uuid.UUID      `json:"id"`
	UploadID  uuid.UUID      `json:"upload_id"`
	OwnerID   uuid.UUID      `json:"owner_id"`
	Title     string         `json:"title"`
	Questions []QuizQuestion `json:"questions"`
	CreatedAt time.Time      `json:"created_at"`
}

// NewQuiz creates a new Quiz for the given upload and owner.
// Returns an error if validation fails.
func NewQuiz(
	ownerID, uploadID uuid.UUID,
	title string,
	questions []QuizQuestion,
	now time.Time,
) (*Quiz, error) {
	quiz := &Quiz{
		ID:        uuid.New(),
		UploadID:  uploadID,
		OwnerID:   ownerID,
		Title:     title,
		Questions: questions,
		CreatedAt: now,
	}

	if err := quiz.Validate(); err != nil {
		return nil, err
	}

	return quiz, nil
}

// Validate checks if the Quiz and all its questions have valid data.
// Returns an error if any field fails validation.
func (q *Quiz) Validate() error {
	if q.ID == uuid.Nil {
		return ErrQuizIDEmpty
	}

	if q.OwnerID == uuid.Nil {
		return ErrQuizOwnerIDEmpty
	}

	if q.UploadID == uuid.Nil {
		return ErrQuizUploadIDEmpty
	}

	if q.Title == "" {
		return ErrQuizTitleEmpty
	}

	if len(q.Questions) == 0 {
		return ErrQuizNoQuestions
	}

	for _, question := range q.Questions {
		if question.Question == "" {
			return ErrQuizQuestionEmpty
		}
		if len(question.Options) < 2 {
			return ErrQuizQuestionOptions
		}
		if question.CorrectAnswer < 0 || question.CorrectAnswer >= len(question.Options) {
			return ErrQuizQuestionAnswerRange
		}
	}

	return nil
}
