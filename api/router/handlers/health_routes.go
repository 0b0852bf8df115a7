package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterHealthRoutes sets up the unauthenticated health check.
func RegisterHealthRoutes(r chi.Router) {
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
}
