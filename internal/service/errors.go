// Package service provides application-level services for managing
// uploads, flashcards, quizzes, and users.
package service

import "errors"

// Common service errors - sentinel errors used across service
// implementations. Callers check for these with errors.Is; the API
// layer maps them to HTTP status codes.
var (
	// ErrNotOwned indicates a resource is owned by a different user than
	// the one making the request. The API layer maps this to 403.
	ErrNotOwned = errors.New("resource is owned by another user")

	// ErrUploadNotFound indicates that the upload does not exist.
	ErrUploadNotFound = errors.New("upload not found")

	// ErrCardNotFound indicates that the flashcard does not exist.
	ErrCardNotFound = errors.New("flashcard not found")

	// ErrQuizNotFound indicates that the quiz does not exist.
	ErrQuizNotFound = errors.New("quiz not found")

	// ErrUserNotFound indicates that the user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailTaken indicates the email address is already registered.
	ErrEmailTaken = errors.New("email address is already registered")

	// ErrInvalidCredentials indicates a failed login attempt. The same
	// error is returned for an unknown email and a wrong password so
	// responses don't reveal which accounts exist.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrAnswerCountMismatch indicates a quiz submission whose answer
	// count does not match the quiz's question count.
	ErrAnswerCountMismatch = errors.New("answer count does not match question count")
)

// ServiceError wraps unexpected errors from a service with the failed
// operation attached.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "create_upload")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return e.Operation + " failed: " + e.Message + ": " + e.Err.Error()
	}
	return e.Operation + " failed: " + e.Message
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}
