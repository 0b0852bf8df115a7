package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterBookmarkRoutes sets up the dashboard bookmark endpoint. Paths
// are relative to the API base path.
func RegisterBookmarkRoutes(r chi.Router) {
	r.Post("/bookmarks", CreateBookmarkHandler)
}
