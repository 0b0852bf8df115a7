package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"pickle/database"
	"pickle/logger"
	"pickle/models"
)

type folderPayload struct {
	Name     string `json:"name"`
	ParentID string `json:"parent_id,omitempty"`
}

// CreateFolderHandler creates a folder in the caller's workspace.
func CreateFolderHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(r)
	workspace, err := database.GetWorkspaceForUser(user.ID)
	if err != nil {
		writeError(w, http.StatusForbidden, "No workspace membership")
		return
	}

	var payload folderPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	folder := models.Folder{
		WorkspaceID: workspace.ID,
		Name:        payload.Name,
	}
	if payload.ParentID != "" {
		folder.ParentID = sql.NullString{String: payload.ParentID, Valid: true}
	}

	created, err := database.CreateFolder(folder)
	if err != nil {
		logger.Error("CreateFolderHandler: %v", err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// ListFoldersHandler returns the caller's workspace folders as a flat
// list; the client rebuilds the tree from parent_id.
func ListFoldersHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(r)
	workspace, err := database.GetWorkspaceForUser(user.ID)
	if err != nil {
		writeError(w, http.StatusForbidden, "No workspace membership")
		return
	}
	folders, err := database.ListFoldersByWorkspace(workspace.ID)
	if err != nil {
		logger.Error("ListFoldersHandler: %v", err)
		writeServiceError(w, err)
		return
	}
	if folders == nil {
		folders = []models.Folder{}
	}
	writeJSON(w, http.StatusOK, folders)
}

// UpdateFolderHandler renames and/or reparents a folder.
func UpdateFolderHandler(w http.ResponseWriter, r *http.Request) {
	folderID := chi.URLParam(r, "folderID")

	var payload folderPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	folder := models.Folder{
		ID:   folderID,
		Name: payload.Name,
	}
	if payload.ParentID != "" {
		folder.ParentID = sql.NullString{String: payload.ParentID, Valid: true}
	}

	updated, err := database.UpdateFolder(folder)
	if err != nil {
		logger.Error("UpdateFolderHandler: folder %s: %v", folderID, err)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteFolderHandler removes a folder. Notes inside lose their folder
// reference but keep their rows.
func DeleteFolderHandler(w http.ResponseWriter, r *http.Request) {
	folderID := chi.URLParam(r, "folderID")
	if err := database.DeleteFolder(folderID); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
