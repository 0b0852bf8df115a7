package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterCaptureRoutes sets up the capture orchestration endpoints.
// Paths are relative to the API base path.
func RegisterCaptureRoutes(r chi.Router) {
	r.Post("/capture", StartCaptureHandler)
	r.Post("/capture/save", SaveCaptureHandler)
	r.Get("/capture/drafts/{tabID}", GetDraftHandler)
	r.Delete("/capture/drafts/{tabID}", DiscardDraftHandler)
}
