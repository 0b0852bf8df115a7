package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/andybalholm/brotli"
	"github.com/go-chi/chi/v5"

	"pickle/database"
	"pickle/logger"
)

// maxAssetBytes caps a single uploaded asset (decoded size).
const maxAssetBytes = 32 << 20

// UploadAssetHandler stores a binary asset (screenshot, pasted image)
// for the caller's workspace. The extension sends screenshots
// brotli-compressed with Content-Encoding: br; the handler decompresses
// transparently.
func UploadAssetHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(r)
	workspace, err := database.GetWorkspaceForUser(user.ID)
	if err != nil {
		writeError(w, http.StatusForbidden, "No workspace membership")
		return
	}

	var body io.Reader = http.MaxBytesReader(w, r.Body, maxAssetBytes)
	if r.Header.Get("Content-Encoding") == "br" {
		body = brotli.NewReader(body)
	}

	fileName := r.Header.Get("X-File-Name")
	if fileName == "" {
		fileName = "capture"
	}
	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	asset, err := cfg.Assets.Save(workspace.ID, fileName, contentType, body)
	if err != nil {
		logger.Error("UploadAssetHandler: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to store asset")
		return
	}
	writeJSON(w, http.StatusCreated, asset)
}

// DownloadAssetHandler streams an asset's bytes back with its recorded
// content type.
func DownloadAssetHandler(w http.ResponseWriter, r *http.Request) {
	assetID := chi.URLParam(r, "assetID")
	asset, err := database.GetAssetByID(assetID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	f, err := cfg.Assets.Open(asset)
	if err != nil {
		logger.Error("DownloadAssetHandler: asset %s: %v", assetID, err)
		writeError(w, http.StatusNotFound, "Asset bytes not found")
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", asset.ContentType)
	if asset.SizeBytes > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(asset.SizeBytes, 10))
	}
	if _, err := io.Copy(w, f); err != nil {
		logger.Warn("DownloadAssetHandler: streaming asset %s: %v", assetID, err)
	}
}
