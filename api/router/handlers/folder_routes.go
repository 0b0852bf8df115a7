package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterFolderRoutes sets up the folder management endpoints. Paths
// are relative to the API base path.
func RegisterFolderRoutes(r chi.Router) {
	r.Get("/folders", ListFoldersHandler)
	r.Post("/folders", CreateFolderHandler)
	r.Put("/folders/{folderID}", UpdateFolderHandler)
	r.Delete("/folders/{folderID}", DeleteFolderHandler)
}
