package generation

import "errors"

// Common errors returned by the generation package
var (
	// ErrExtractionFailed is returned when text cannot be extracted from
	// the uploaded material.
	ErrExtractionFailed = errors.New("failed to extract text from upload")

	// ErrGenerationFailed is returned when flashcard or quiz generation
	// fails for any general reason.
	ErrGenerationFailed = errors.New("failed to generate study aids from text")

	// ErrEmptyContent is returned when the extracted text contains no
	// usable material to generate from.
	ErrEmptyContent = errors.New("no usable content to generate from")

	// ErrTransientFailure is returned for temporary errors that might
	// resolve on retry.
	ErrTransientFailure = errors.New("transient error during generation")
)
