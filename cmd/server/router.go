package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/bili-app/bili-api/internal/api"
	apiMiddleware "github.com/bili-app/bili-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(
		app.db,
		app.userStore,
		app.profileStore,
		app.jwtService,
		app.passwordVerifier,
		app.config.Auth,
	)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	profileHandler := api.NewProfileHandler(app.profileStore)
	progressHandler := api.NewProgressHandler(app.tracker, app.profileStore)
	vocabularyHandler := api.NewVocabularyHandler(app.catalog, app.profileStore)
	practiceHandler := api.NewPracticeHandler(app.practiceManager, app.profileStore)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.RefreshToken)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// Language profile
			r.Get("/profile", profileHandler.GetProfile)
			r.Put("/profile", profileHandler.UpdateProfile)

			// Vocabulary content
			r.Get("/vocabulary/days", vocabularyHandler.ListDays)
			r.Get("/vocabulary/day/{day}", vocabularyHandler.ForDay)

			// Mastery progress
			r.Get("/progress", progressHandler.ListProgress)
			r.Post("/progress/ratings", progressHandler.RateWord)
			r.Post("/progress/refresh", progressHandler.Refresh)
			r.Post("/progress/{id}/rating", progressHandler.RateRecord)
			r.Get("/progress/mastery/{level}", progressHandler.ByMastery)
			r.Get("/progress/day/{day}", progressHandler.ByDay)
			r.Get("/progress/stats", progressHandler.Statistics)

			// Practice sessions
			r.Post("/practice/sessions", practiceHandler.StartSession)
			r.Get("/practice/sessions/{id}/current", practiceHandler.CurrentCard)
			r.Post("/practice/sessions/{id}/flip", practiceHandler.FlipCard)
			r.Post("/practice/sessions/{id}/rate", practiceHandler.RateCard)
			r.Post("/practice/sessions/{id}/next", practiceHandler.NextCard)
			r.Post("/practice/sessions/{id}/previous", practiceHandler.PreviousCard)
			r.Delete("/practice/sessions/{id}", practiceHandler.EndSession)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
