package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/studydeck/studydeck-api/internal/config"
	"github.com/studydeck/studydeck-api/internal/events"
	"github.com/studydeck/studydeck-api/internal/platform/postgres"
	"github.com/studydeck/studydeck-api/internal/platform/synthetic"
	"github.com/studydeck/studydeck-api/internal/service"
	"github.com/studydeck/studydeck-api/internal/service/auth"
	"github.com/studydeck/studydeck-api/internal/service/review"
	"github.com/studydeck/studydeck-api/internal/store"
	"github.com/studydeck/studydeck-api/internal/task"
)

// application holds the shared application dependencies so wiring and
// cleanup live in one place.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores
	userStore          store.UserStore
	uploadStore        store.UploadStore
	flashcardStore     store.FlashcardStore
	quizStore          store.QuizStore
	quizResultStore    store.QuizResultStore
	reviewSessionStore store.ReviewSessionStore
	taskStore          task.TaskStore

	// Services
	jwtService    auth.JWTService
	userService   service.UserService
	uploadService service.UploadService
	cardService   service.CardService
	quizService   service.QuizService
	reviewService review.ReviewService

	// Event system and background processing
	eventEmitter *events.InMemoryEventEmitter
	taskRunner   *task.TaskRunner
}

// newApplication wires all dependencies. The order matters: stores,
// then services, then the task pipeline that consumes them.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}

	// Stores
	app.userStore = postgres.NewPostgresUserStore(db, logger)
	app.uploadStore = postgres.NewPostgresUploadStore(db, logger)
	app.flashcardStore = postgres.NewPostgresFlashcardStore(db, logger)
	app.quizStore = postgres.NewPostgresQuizStore(db, logger)
	app.quizResultStore = postgres.NewPostgresQuizResultStore(db, logger)
	app.reviewSessionStore = postgres.NewPostgresReviewSessionStore(db, logger)
	app.taskStore = postgres.NewPostgresTaskStore(db, logger)

	// The content pipeline: deterministic extraction and generation.
	generator := synthetic.NewGenerator(logger)

	// Event emitter before the upload service, which publishes to it.
	app.eventEmitter = events.NewInMemoryEventEmitter(logger)

	// Services
	app.userService = service.NewUserService(
		db,
		app.userStore,
		auth.NewBcryptHasher(cfg.Auth.BcryptCost),
		auth.NewBcryptVerifier(),
		logger,
	)
	app.uploadService = service.NewUploadService(
		db,
		app.uploadStore,
		app.userStore,
		generator,
		app.eventEmitter,
		logger,
	)
	app.cardService = service.NewCardService(db, app.flashcardStore, logger)
	app.quizService = service.NewQuizService(
		db,
		app.quizStore,
		app.quizResultStore,
		app.userStore,
		logger,
	)
	app.reviewService = review.NewReviewService(
		db,
		app.flashcardStore,
		app.reviewSessionStore,
		logger,
	)

	// Task pipeline: the factory builds generation tasks from upload
	// IDs, the runner executes them, and the event handler connects
	// upload events to the factory.
	taskFactory := task.NewUploadGenerationTaskFactory(
		app.uploadService,
		generator,
		app.cardService,
		app.quizService,
		app.userService,
		logger,
	)

	app.taskRunner = task.NewTaskRunner(app.taskStore, task.TaskRunnerConfig{
		WorkerCount:  cfg.Task.WorkerCount,
		QueueSize:    cfg.Task.QueueSize,
		StuckTaskAge: time.Duration(cfg.Task.StuckTaskAgeMinutes) * time.Minute,
	}, logger)
	app.taskRunner.SetReconstructor(taskFactory)

	if err := app.taskRunner.Start(); err != nil {
		return nil, fmt.Errorf("failed to start task runner: %w", err)
	}

	app.eventEmitter.RegisterHandler(
		task.NewUploadEventHandler(taskFactory, app.taskRunner, logger))

	logger.Info("application initialized")
	return app, nil
}

// Run starts the HTTP server and blocks until shutdown.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup stops background processing and closes the database.
func (app *application) cleanup() {
	if app.taskRunner != nil {
		app.taskRunner.Stop()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
	}

	app.logger.Info("application shutdown completed")
}
