package generation

import (
	"context"

	"github.com/studydeck/studydeck-api/internal/domain"
)

// Extractor defines the interface for deriving plain text and topics
// from uploaded source material.
type Extractor interface {
	// ExtractText derives study text and a set of topic labels from the
	// original content of an upload. The source type tells the
	// implementation how to interpret the content.
	//
	// Returns ErrExtractionFailed if the material cannot be processed,
	// or ErrEmptyContent if nothing usable was found.
	ExtractText(ctx context.Context, sourceType domain.SourceType, title, content string) (text string, topics []string, err error)
}

// Generator defines the interface for generating flashcards and quizzes
// from extracted text. This interface is the boundary between the
// application core and the generation backend.
type Generator interface {
	// GenerateFlashcards creates flashcards from the extracted text of
	// the given upload. Returned cards are fully initialized domain
	// objects: each starts with a review count of zero and becomes due
	// one day after creation.
	//
	// Returns ErrEmptyContent if the text yields no cards, or
	// ErrGenerationFailed on any other failure.
	GenerateFlashcards(ctx context.Context, upload *domain.Upload) ([]*domain.Flashcard, error)

	// GenerateQuiz creates a multiple-choice quiz from the extracted
	// text of the given upload.
	//
	// Returns ErrEmptyContent if the text yields no questions, or
	// ErrGenerationFailed on any other failure.
	GenerateQuiz(ctx context.Context, upload *domain.Upload) (*domain.Quiz, error)
}
