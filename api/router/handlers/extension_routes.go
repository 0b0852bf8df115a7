package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterExtensionRoutes sets up the content-script message bridge.
// Paths are relative to the API base path.
func RegisterExtensionRoutes(r chi.Router) {
	r.Get("/extension/messages", PollMessagesHandler)
	r.Post("/extension/replies", PostReplyHandler)
}
