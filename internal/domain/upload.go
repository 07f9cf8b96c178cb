package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// SourceType identifies the kind of material an upload was created from.
type SourceType string

// Possible upload source types
const (
	SourceTypePDF   SourceType = "pdf"
	SourceTypeImage SourceType = "image"
	SourceTypeText  SourceType = "text"
)

// IsValid reports whether the source type is one of the known values.
func (t SourceType) IsValid() bool {
	switch t {
	case SourceTypePDF, SourceTypeImage, SourceTypeText:
		return true
	default:
		return false
	}
}

// Upload-specific validation errors
var (
	ErrUploadIDEmpty           = errors.New("upload ID cannot be empty")
	ErrUploadOwnerIDEmpty      = errors.New("upload owner ID cannot be empty")
	ErrUploadTitleEmpty        = errors.New("upload title cannot be empty")
	ErrUploadInvalidSourceType = errors.New("upload source type is invalid")
	ErrUploadTextEmpty         = errors.New("upload extracted text cannot be empty")
)

// Upload represents a piece of source material a user submitted for study.
// ExtractedText holds the text the content pipeline derived from the
// original material; flashcards and quizzes are generated from it.
type Upload struct {
	ID              uuid.UUID  `json:"id"`
	OwnerID         uuid.UUID  `json:"owner_id"`
	Title           string     `json:"title"`
	SourceType      SourceType `json:"source_type"`
	OriginalContent string     `json:"original_content,omitempty"`
	ExtractedText   string     `json:"extracted_text"`
	Topics          []string   `json:"topics"`
	CreatedAt       time.Time  `json:"created_at"`
}

// NewUpload creates a new Upload with the given owner, title, source type
// and extracted text. Returns an error if validation fails.
func NewUpload(
	ownerID uuid.UUID,
	title string,
	sourceType SourceType,
	originalContent, extractedText string,
	topics []string,
	now time.Time,
) (*Upload, error) {
	upload := &Upload{
		ID:              uuid.New(),
		OwnerID:         ownerID,
		Title:           title,
		SourceType:      sourceType,
		OriginalContent: originalContent,
		ExtractedText:   extractedText,
		Topics:          topics,
		CreatedAt:       now,
	}

	if err := upload.Validate(); err != nil {
		return nil, err
	}

	return upload, nil
}

// Validate checks if the Upload has valid data.
// Returns an error if any field fails validation.
func (u *Upload) Validate() error {
	if u.ID == uuid.Nil {
		return ErrUploadIDEmpty
	}

	if u.OwnerID == uuid.Nil {
		return ErrUploadOwnerIDEmpty
	}

	if u.Title == "" {
		return ErrUploadTitleEmpty
	}

	if !u.SourceType.IsValid() {
		return ErrUploadInvalidSourceType
	}

	if u.ExtractedText == "" {
		return ErrUploadTextEmpty
	}

	return nil
}
