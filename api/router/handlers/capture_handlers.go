package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"pickle/core"
	"pickle/logger"
	"pickle/models"
)

// captureDeadline bounds one full capture invocation (draft write,
// overlay open, enrichment) once it has been accepted.
const captureDeadline = 30 * time.Second

// StartCaptureHandler accepts a capture invocation from the extension
// background process and runs the orchestrator asynchronously. The
// response only acknowledges receipt; a request without both a window
// and a tab id is accepted and dropped without effect.
func StartCaptureHandler(w http.ResponseWriter, r *http.Request) {
	var req core.CaptureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Mode == "" {
		req.Mode = models.ModeBookmark
	}
	if !models.IsValidMode(req.Mode) {
		writeError(w, http.StatusBadRequest, "Invalid capture mode '"+req.Mode+"'")
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), captureDeadline)
		defer cancel()
		cfg.Orchestrator.Capture(ctx, req)
	}()

	w.WriteHeader(http.StatusAccepted)
}

func tabIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "tabID"), 10, 64)
}

// GetDraftHandler returns the in-flight draft for a tab. The overlay UI
// polls this while IsLoading is set.
func GetDraftHandler(w http.ResponseWriter, r *http.Request) {
	tabID, err := tabIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid tab id")
		return
	}
	draft, ok := cfg.Drafts.Get(tabID)
	if !ok {
		writeError(w, http.StatusNotFound, "No draft for tab")
		return
	}
	writeJSON(w, http.StatusOK, draft)
}

// DiscardDraftHandler drops a tab's draft without saving.
func DiscardDraftHandler(w http.ResponseWriter, r *http.Request) {
	tabID, err := tabIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid tab id")
		return
	}
	cfg.Drafts.Remove(tabID)
	w.WriteHeader(http.StatusNoContent)
}

type saveCapturePayload struct {
	TabID    int64  `json:"tab_id"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	FolderID string `json:"folder_id,omitempty"`
	AssetID  string `json:"asset_id,omitempty"`
}

// SaveCaptureHandler persists a tab's draft as a note. The overlay's
// edits (title, content, folder) override the draft's values. The reply
// envelope always carries success/data/error so the overlay has one
// shape to handle.
func SaveCaptureHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(r)

	var payload saveCapturePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, models.SaveNoteResponse{Success: false, Error: "Invalid request body: " + err.Error()})
		return
	}

	draft, ok := cfg.Drafts.Get(payload.TabID)
	if !ok {
		writeJSON(w, http.StatusNotFound, models.SaveNoteResponse{Success: false, Error: "No draft for tab"})
		return
	}

	input := models.NoteInput{
		FolderID: payload.FolderID,
		Title:    draft.Title,
		Content:  draft.Content,
		URL:      draft.URL,
		Mode:     draft.Mode,
		AssetID:  payload.AssetID,
		PageMeta: draft.PageMeta,
	}
	if payload.Title != "" {
		input.Title = payload.Title
	}
	if payload.Content != "" {
		input.Content = payload.Content
	}

	note, err := cfg.Notes.Create(user.ID, input)
	if err != nil {
		logger.CaptureError("SaveCaptureHandler: failed to save draft for tab %d: %v", payload.TabID, err)
		writeJSON(w, http.StatusInternalServerError, models.SaveNoteResponse{Success: false, Error: err.Error()})
		return
	}

	cfg.Drafts.Remove(payload.TabID)
	logger.CaptureInfo("SaveCaptureHandler: draft for tab %d saved as note %s", payload.TabID, note.ID)
	writeJSON(w, http.StatusCreated, models.SaveNoteResponse{Success: true, Data: note})
}
