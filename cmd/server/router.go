package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Aniket17200/presentpal/internal/api"
	apiMiddleware "github.com/Aniket17200/presentpal/internal/api/middleware"
)

// setupRouter configures the application router with all routes and
// middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	uploadHandler := api.NewUploadHandler(app.pipeline, app.config.Pipeline.UploadDir, app.logger)
	statusHandler := api.NewStatusHandler(app.registry, app.logger)
	askHandler := api.NewAskHandler(app.questions, app.logger)

	r.Post("/upload", uploadHandler.HandleUpload)
	// The more specific pattern is registered first so a folder name is
	// never read as a task id.
	r.Get("/status/final-videos/{folderName}", statusHandler.HandleFinalVideoStatus)
	r.Get("/status/{taskID}", statusHandler.HandleMediaStatus)
	r.Post("/ask", askHandler.HandleAsk)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
