package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterAuthRoutes sets up the session bridge endpoints. Paths are
// relative to the /auth base.
func RegisterAuthRoutes(r chi.Router) {
	r.Get("/sync", SessionSyncHandler)
	r.Get("/callback", AuthCallbackHandler)
	r.Get("/error", AuthErrorPageHandler)
	r.Post("/handoff", IssueHandoffHandler)
	r.Post("/signout", SignOutHandler)

	r.Group(func(authed chi.Router) {
		authed.Use(RequireAuth)
		authed.Get("/me", MeHandler)
	})
}
