package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/studydeck/studydeck-api/internal/api"
	apiMiddleware "github.com/studydeck/studydeck-api/internal/api/middleware"
)

// setupRouter configures the application router: standard middleware,
// public auth endpoints, and the authenticated API surface.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(app.userService, app.jwtService, app.logger)
	uploadHandler := api.NewUploadHandler(app.uploadService, app.logger)
	flashcardHandler := api.NewFlashcardHandler(app.cardService, app.reviewService, app.logger)
	quizHandler := api.NewQuizHandler(app.quizService, app.logger)
	userHandler := api.NewUserHandler(app.userService, app.logger)

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.RefreshToken)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// Upload endpoints
			r.Post("/uploads", uploadHandler.CreateUpload)
			r.Get("/uploads", uploadHandler.ListUploads)
			r.Get("/uploads/{id}", uploadHandler.GetUpload)

			// Flashcard and review endpoints. The fixed paths must be
			// registered before the {id} routes.
			r.Get("/flashcards", flashcardHandler.ListCards)
			r.Get("/flashcards/due", flashcardHandler.GetDueCards)
			r.Get("/flashcards/next", flashcardHandler.GetNextCard)
			r.Post("/flashcards/{id}/review", flashcardHandler.SubmitReview)
			r.Delete("/flashcards/{id}", flashcardHandler.DeleteCard)

			// Quiz endpoints
			r.Get("/quizzes", quizHandler.ListQuizzes)
			r.Get("/quizzes/results", quizHandler.ListQuizResults)
			r.Get("/quizzes/{id}", quizHandler.GetQuiz)
			r.Post("/quizzes/{id}/results", quizHandler.SubmitQuizResult)

			// User endpoints
			r.Get("/users/me", userHandler.GetMe)
		})
	})

	// Health check endpoint
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
