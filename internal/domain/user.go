package domain

import (
	"errors"
	"net/mail"
	"time"

	"github.com/google/uuid"
)

// User-specific validation errors
var (
	// ErrUserIDEmpty is returned when a user ID is empty or nil.
	ErrUserIDEmpty = errors.New("user ID cannot be empty")

	// ErrUserEmailInvalid is returned when a user's email address fails parsing.
	ErrUserEmailInvalid = errors.New("user email is invalid")

	// ErrUserNameEmpty is returned when a user's display name is empty.
	ErrUserNameEmpty = errors.New("user name cannot be empty")

	// ErrUserPasswordHashEmpty is returned when a user has no password hash.
	ErrUserPasswordHashEmpty = errors.New("user password hash cannot be empty")
)

// UserStats holds the per-user aggregate counters shown on the dashboard.
// Counters only ever increase.
type UserStats struct {
	TotalUploads    int `json:"total_uploads"`
	TotalFlashcards int `json:"total_flashcards"`
	TotalQuizzes    int `json:"total_quizzes"`
	TotalCorrect    int `json:"total_correct"`
	TotalAttempts   int `json:"total_attempts"`
}

// User represents a registered account. The password is stored only as a
// bcrypt hash; the plaintext never leaves the auth service.
type User struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	HashedPassword string    `json:"-"`
	Stats          UserStats `json:"stats"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewUser creates a new User with the given email, name and an
// already-hashed password. It generates a new UUID and timestamps.
// Returns an error if validation fails.
func NewUser(email, name, hashedPassword string, now time.Time) (*User, error) {
	user := &User{
		ID:             uuid.New(),
		Email:          email,
		Name:           name,
		HashedPassword: hashedPassword,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
// Returns an error if any field fails validation.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrUserIDEmpty
	}

	if _, err := mail.ParseAddress(u.Email); err != nil {
		return ErrUserEmailInvalid
	}

	if u.Name == "" {
		return ErrUserNameEmpty
	}

	if u.HashedPassword == "" {
		return ErrUserPasswordHashEmpty
	}

	return nil
}
