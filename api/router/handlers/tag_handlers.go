package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"pickle/database"
	"pickle/logger"
	"pickle/models"
)

type tagPayload struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// CreateTagHandler creates a tag in the caller's workspace. Creating a
// tag whose name already exists (case-insensitive) returns the existing
// tag.
func CreateTagHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(r)
	workspace, err := database.GetWorkspaceForUser(user.ID)
	if err != nil {
		writeError(w, http.StatusForbidden, "No workspace membership")
		return
	}

	var payload tagPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	tag, err := database.CreateTag(models.Tag{
		WorkspaceID: workspace.ID,
		Name:        payload.Name,
		Color:       payload.Color,
	})
	if err != nil {
		logger.Error("CreateTagHandler: %v", err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, tag)
}

// ListTagsHandler returns the caller's workspace tags ordered by name.
func ListTagsHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(r)
	workspace, err := database.GetWorkspaceForUser(user.ID)
	if err != nil {
		writeError(w, http.StatusForbidden, "No workspace membership")
		return
	}
	tags, err := database.ListTagsByWorkspace(workspace.ID)
	if err != nil {
		logger.Error("ListTagsHandler: %v", err)
		writeServiceError(w, err)
		return
	}
	if tags == nil {
		tags = []models.Tag{}
	}
	writeJSON(w, http.StatusOK, tags)
}

// UpdateTagHandler renames or recolors a tag.
func UpdateTagHandler(w http.ResponseWriter, r *http.Request) {
	tagID := chi.URLParam(r, "tagID")

	var payload tagPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	tag, err := database.UpdateTag(models.Tag{
		ID:    tagID,
		Name:  payload.Name,
		Color: payload.Color,
	})
	if err != nil {
		logger.Error("UpdateTagHandler: tag %s: %v", tagID, err)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tag)
}

// DeleteTagHandler removes a tag; note associations go with it.
func DeleteTagHandler(w http.ResponseWriter, r *http.Request) {
	tagID := chi.URLParam(r, "tagID")
	if err := database.DeleteTag(tagID); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AttachTagHandler links a tag to a note. Attaching an already-attached
// tag is a no-op success.
func AttachTagHandler(w http.ResponseWriter, r *http.Request) {
	noteID := chi.URLParam(r, "noteID")
	tagID := chi.URLParam(r, "tagID")
	if err := database.AttachTagToNote(noteID, tagID); err != nil {
		logger.Error("AttachTagHandler: note %s tag %s: %v", noteID, tagID, err)
		writeServiceError(w, err)
		return
	}
	tags, err := database.GetTagsForNote(noteID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tags)
}

// DetachTagHandler unlinks a tag from a note.
func DetachTagHandler(w http.ResponseWriter, r *http.Request) {
	noteID := chi.URLParam(r, "noteID")
	tagID := chi.URLParam(r, "tagID")
	if err := database.DetachTagFromNote(noteID, tagID); err != nil {
		logger.Error("DetachTagHandler: note %s tag %s: %v", noteID, tagID, err)
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
