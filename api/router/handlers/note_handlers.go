package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"pickle/logger"
	"pickle/models"
)

// CreateNoteHandler persists a new note in the caller's workspace.
func CreateNoteHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(r)

	var input models.NoteInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	note, err := cfg.Notes.Create(user.ID, input)
	if err != nil {
		logger.Error("CreateNoteHandler: %v", err)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, note)
}

// GetNoteHandler returns one note with its tags.
func GetNoteHandler(w http.ResponseWriter, r *http.Request) {
	noteID := chi.URLParam(r, "noteID")
	note, err := cfg.Notes.Get(noteID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// ListNotesHandler returns the active notes of the caller's workspace,
// optionally scoped to a folder via ?folder_id=.
func ListNotesHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(r)
	notes, err := cfg.Notes.List(user.ID, r.URL.Query().Get("folder_id"))
	if err != nil {
		logger.Error("ListNotesHandler: %v", err)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, notes)
}

// ListTrashHandler returns the soft-deleted notes of the caller's
// workspace.
func ListTrashHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(r)
	notes, err := cfg.Notes.ListTrash(user.ID)
	if err != nil {
		logger.Error("ListTrashHandler: %v", err)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, notes)
}

// UpdateNoteHandler applies the payload's fields to an existing note.
func UpdateNoteHandler(w http.ResponseWriter, r *http.Request) {
	noteID := chi.URLParam(r, "noteID")

	var input models.NoteInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	note, err := cfg.Notes.Update(noteID, input)
	if err != nil {
		logger.Error("UpdateNoteHandler: note %s: %v", noteID, err)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// TrashNoteHandler soft-deletes a note. The row stays recoverable from
// the trash view until permanently deleted.
func TrashNoteHandler(w http.ResponseWriter, r *http.Request) {
	noteID := chi.URLParam(r, "noteID")
	if err := cfg.Notes.Trash(noteID); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RestoreNoteHandler clears a note's soft-delete marker. Restoring an
// already-active note succeeds without change.
func RestoreNoteHandler(w http.ResponseWriter, r *http.Request) {
	noteID := chi.URLParam(r, "noteID")
	if err := cfg.Notes.Restore(noteID); err != nil {
		writeServiceError(w, err)
		return
	}
	note, err := cfg.Notes.Get(noteID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// PermanentDeleteNoteHandler removes a note and its stored asset for
// good.
func PermanentDeleteNoteHandler(w http.ResponseWriter, r *http.Request) {
	noteID := chi.URLParam(r, "noteID")
	if err := cfg.Notes.DeletePermanently(noteID); err != nil {
		logger.Error("PermanentDeleteNoteHandler: note %s: %v", noteID, err)
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
