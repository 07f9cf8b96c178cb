package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/studydeck/studydeck-api/internal/domain"
	"github.com/studydeck/studydeck-api/internal/platform/logger"
	"github.com/studydeck/studydeck-api/internal/service/auth"
	"github.com/studydeck/studydeck-api/internal/store"
)

// UserService provides account operations: registration, credential
// checks for login, profile retrieval, and stats bookkeeping for the
// generation pipeline.
type UserService interface {
	// Register creates a new account with a hashed password.
	// Returns ErrEmailTaken if the email is already registered.
	Register(ctx context.Context, email, name, password string) (*domain.User, error)

	// Authenticate verifies the email and password of a login attempt.
	// Returns ErrInvalidCredentials when either is wrong.
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)

	// GetUser retrieves a user by their ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error)

	// RecordGenerated adds freshly generated card and quiz counts to the
	// user's stats.
	RecordGenerated(ctx context.Context, userID uuid.UUID, cardCount, quizCount int) error
}

// userServiceImpl implements the UserService interface
type userServiceImpl struct {
	db        *sql.DB
	userStore store.UserStore
	hasher    auth.PasswordHasher
	verifier  auth.PasswordVerifier
	logger    *slog.Logger

	// timeFunc returns the current time. Injectable for testing.
	timeFunc func() time.Time

	// runTx executes a function in a transaction. Injectable for testing.
	runTx func(ctx context.Context, fn store.TxFn) error
}

// NewUserService creates a new UserService.
func NewUserService(
	db *sql.DB,
	userStore store.UserStore,
	hasher auth.PasswordHasher,
	verifier auth.PasswordVerifier,
	logger *slog.Logger,
) UserService {
	if userStore == nil {
		panic("userStore cannot be nil")
	}
	if hasher == nil {
		panic("hasher cannot be nil")
	}
	if verifier == nil {
		panic("verifier cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &userServiceImpl{
		db:        db,
		userStore: userStore,
		hasher:    hasher,
		verifier:  verifier,
		logger:    logger.With("component", "user_service"),
		timeFunc:  func() time.Time { return time.Now().UTC() },
	}
	s.runTx = func(ctx context.Context, fn store.TxFn) error {
		return store.RunInTransaction(ctx, s.db, fn)
	}
	return s
}

// Ensure userServiceImpl implements UserService
var _ UserService = (*userServiceImpl)(nil)

// Register creates a new account.
func (s *userServiceImpl) Register(ctx context.Context, email, name, password string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		log.Error("failed to hash password", "error", err)
		return nil, &ServiceError{
			Operation: "register",
			Message:   "failed to hash password",
			Err:       err,
		}
	}

	user, err := domain.NewUser(email, name, hashed, s.timeFunc())
	if err != nil {
		return nil, err
	}

	if err := s.userStore.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			return nil, ErrEmailTaken
		}
		log.Error("failed to create user", "error", err)
		return nil, &ServiceError{
			Operation: "register",
			Message:   "failed to create user",
			Err:       err,
		}
	}

	log.Info("user registered", "user_id", user.ID)
	return user, nil
}

// Authenticate verifies login credentials.
func (s *userServiceImpl) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.userStore.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Debug("login attempt for unknown email")
			return nil, ErrInvalidCredentials
		}
		return nil, &ServiceError{
			Operation: "authenticate",
			Message:   "failed to look up user",
			Err:       err,
		}
	}

	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		log.Debug("login attempt with wrong password", "user_id", user.ID)
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// GetUser retrieves a user by their ID.
func (s *userServiceImpl) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, &ServiceError{
			Operation: "get_user",
			Message:   "failed to retrieve user",
			Err:       err,
		}
	}
	return user, nil
}

// RecordGenerated bumps the user's generated-content counters inside a
// transaction so concurrent generation tasks don't lose updates.
func (s *userServiceImpl) RecordGenerated(ctx context.Context, userID uuid.UUID, cardCount, quizCount int) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := s.runTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		txUsers := s.userStore.WithTx(tx)
		user, err := txUsers.GetByID(ctx, userID)
		if err != nil {
			return err
		}

		stats := user.Stats
		stats.TotalFlashcards += cardCount
		stats.TotalQuizzes += quizCount
		return txUsers.UpdateStats(ctx, userID, stats)
	})
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return ErrUserNotFound
		}
		log.Error("failed to record generated content",
			"error", err,
			"user_id", userID)
		return &ServiceError{
			Operation: "record_generated",
			Message:   "failed to update user stats",
			Err:       err,
		}
	}

	return nil
}
