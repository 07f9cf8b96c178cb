package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/studydeck/studydeck-api/internal/domain"
)

// Common request/response structures

// RegisterRequest defines the payload for the registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Name     string `json:"name"     validate:"required,min=1,max=100"`
	Password string `json:"password" validate:"required,min=12,max=72"`
}

// LoginRequest defines the payload for the login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication
// endpoints.
type AuthResponse struct {
	UserID       uuid.UUID `json:"user_id"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
}

// RefreshTokenRequest defines the payload for the token refresh
// endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// CreateUploadRequest defines the payload for submitting new study
// material.
type CreateUploadRequest struct {
	Title      string `json:"title"       validate:"required,min=1,max=200"`
	SourceType string `json:"source_type" validate:"required,oneof=pdf image text"`
	Content    string `json:"content"     validate:"required,min=1"`
}

// SubmitReviewRequest defines the payload for rating a reviewed card.
type SubmitReviewRequest struct {
	Rating string `json:"rating" validate:"required,oneof=easy medium hard"`
}

// SubmitQuizResultRequest defines the payload for a completed quiz
// attempt. Answers are option indexes, one per question in order.
type SubmitQuizResultRequest struct {
	Answers []int `json:"answers" validate:"required,min=1"`
}

// UserResponse is the profile returned by the users/me endpoint.
type UserResponse struct {
	ID        uuid.UUID        `json:"id"`
	Email     string           `json:"email"`
	Name      string           `json:"name"`
	Stats     domain.UserStats `json:"stats"`
	CreatedAt time.Time        `json:"created_at"`
}

// newUserResponse builds a UserResponse from a domain user, leaving
// the password hash behind.
func newUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Stats:     user.Stats,
		CreatedAt: user.CreatedAt,
	}
}
