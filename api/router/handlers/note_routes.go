package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterNoteRoutes sets up the note persistence endpoints. Paths are
// relative to the API base path.
func RegisterNoteRoutes(r chi.Router) {
	r.Get("/notes", ListNotesHandler)
	r.Post("/notes", CreateNoteHandler)
	r.Get("/notes/trash", ListTrashHandler)
	r.Get("/notes/{noteID}", GetNoteHandler)
	r.Put("/notes/{noteID}", UpdateNoteHandler)
	r.Delete("/notes/{noteID}", TrashNoteHandler)
	r.Post("/notes/{noteID}/restore", RestoreNoteHandler)
	r.Delete("/notes/{noteID}/permanent", PermanentDeleteNoteHandler)

	r.Post("/notes/{noteID}/tags/{tagID}", AttachTagHandler)
	r.Delete("/notes/{noteID}/tags/{tagID}", DetachTagHandler)
}
