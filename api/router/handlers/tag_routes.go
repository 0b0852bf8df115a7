package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterTagRoutes sets up the tag management endpoints. Paths are
// relative to the API base path.
func RegisterTagRoutes(r chi.Router) {
	r.Get("/tags", ListTagsHandler)
	r.Post("/tags", CreateTagHandler)
	r.Put("/tags/{tagID}", UpdateTagHandler)
	r.Delete("/tags/{tagID}", DeleteTagHandler)
}
