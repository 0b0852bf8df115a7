package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterAssetRoutes sets up the asset upload/download endpoints. Paths
// are relative to the API base path.
func RegisterAssetRoutes(r chi.Router) {
	r.Post("/assets", UploadAssetHandler)
	r.Get("/assets/{assetID}", DownloadAssetHandler)
}
