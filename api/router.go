package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"pickle/api/router/handlers"
	"pickle/logger"
)

// NewRouter creates and configures the API router. All registered paths
// are relative to the /api base path.
func NewRouter() http.Handler {
	router := chi.NewRouter()
	router.Use(chimiddleware.Recoverer)

	handlers.RegisterHealthRoutes(router)

	// The message bridge authenticates like everything else: the
	// content script carries the extension's access token.
	router.Group(func(r chi.Router) {
		r.Use(handlers.RequireAuth)
		handlers.RegisterNoteRoutes(r)
		handlers.RegisterTagRoutes(r)
		handlers.RegisterFolderRoutes(r)
		handlers.RegisterAssetRoutes(r)
		handlers.RegisterCaptureRoutes(r)
		handlers.RegisterExtensionRoutes(r)
		handlers.RegisterBookmarkRoutes(r)
	})

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		logger.Error("API SUB-ROUTER CATCH-ALL: Unhandled route relative to /api: %s %s", r.Method, r.URL.Path)
		http.NotFound(w, r)
	})

	return router
}

// NewAuthRouter creates the session bridge router mounted at /auth.
func NewAuthRouter() http.Handler {
	router := chi.NewRouter()
	handlers.RegisterAuthRoutes(router)
	return router
}
