// Package generation defines the interfaces for the content pipeline
// that turns uploaded study material into flashcards and quizzes. It
// abstracts the details of text extraction and study-aid generation so
// the application core does not couple to a specific extraction or
// generation backend.
package generation
