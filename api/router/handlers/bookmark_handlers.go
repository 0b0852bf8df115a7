package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"pickle/logger"
	"pickle/models"
)

type bookmarkPayload struct {
	URL      string `json:"url"`
	FolderID string `json:"folder_id,omitempty"`
}

// CreateBookmarkHandler creates a bookmark note from the dashboard,
// fetching the page metadata server-side. Extraction failure still
// saves the bookmark with the fallback metadata.
func CreateBookmarkHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(r)

	var payload bookmarkPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	payload.URL = strings.TrimSpace(payload.URL)
	if payload.URL == "" {
		writeError(w, http.StatusBadRequest, "url is required")
		return
	}

	meta, err := cfg.Fetcher.Fetch(r.Context(), payload.URL)
	if err != nil {
		logger.Warn("CreateBookmarkHandler: metadata fetch failed for %s, saving with fallback: %v", payload.URL, err)
	}

	note, err := cfg.Notes.Create(user.ID, models.NoteInput{
		FolderID: payload.FolderID,
		Title:    meta.Title,
		URL:      payload.URL,
		Mode:     models.ModeBookmark,
		PageMeta: &meta,
	})
	if err != nil {
		logger.Error("CreateBookmarkHandler: %v", err)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, note)
}
