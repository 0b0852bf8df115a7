package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pickle/models"
)

// newAPIServer routes the authed API surface the way the server does.
func newAPIServer(t *testing.T) *httptest.Server {
	t.Helper()
	router := chi.NewRouter()
	router.Group(func(r chi.Router) {
		r.Use(RequireAuth)
		RegisterNoteRoutes(r)
		RegisterCaptureRoutes(r)
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url, token string, body interface{}) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func TestSaveCapturePersistsDraft(t *testing.T) {
	user, auth := setupHandlerTest(t)
	session, err := auth.IssueSession(user.ID)
	require.NoError(t, err)
	srv := newAPIServer(t)

	cfg.Drafts.Put(models.DraftNote{
		TabID: 42,
		Title: "Draft Title",
		URL:   "https://example.com",
		Mode:  models.ModeBookmark,
		PageMeta: &models.PageMeta{
			Title: "Draft Title",
			URL:   "https://example.com",
		},
		CreatedAt: time.Now().UTC(),
	})

	resp := doJSON(t, http.MethodPost, srv.URL+"/capture/save", session.AccessToken, map[string]interface{}{
		"tab_id":  42,
		"content": "my annotation",
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var envelope models.SaveNoteResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.True(t, envelope.Success)
	require.Empty(t, envelope.Error)

	data, err := json.Marshal(envelope.Data)
	require.NoError(t, err)
	var note models.Note
	require.NoError(t, json.Unmarshal(data, &note))
	assert.Equal(t, "Draft Title", note.Title)
	assert.Equal(t, "my annotation", note.Content)
	assert.Equal(t, models.ModeBookmark, note.Mode)

	_, stillThere := cfg.Drafts.Get(42)
	assert.False(t, stillThere, "draft should be dropped after save")
}

func TestSaveCaptureWithoutDraft(t *testing.T) {
	user, auth := setupHandlerTest(t)
	session, err := auth.IssueSession(user.ID)
	require.NoError(t, err)
	srv := newAPIServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/capture/save", session.AccessToken, map[string]interface{}{
		"tab_id": 404,
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	var envelope models.SaveNoteResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.False(t, envelope.Success)
	assert.NotEmpty(t, envelope.Error)
}

func TestDraftEndpoints(t *testing.T) {
	user, auth := setupHandlerTest(t)
	session, err := auth.IssueSession(user.ID)
	require.NoError(t, err)
	srv := newAPIServer(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/capture/drafts/7", session.AccessToken, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	cfg.Drafts.Put(models.DraftNote{TabID: 7, Title: "pending", Mode: models.ModeBookmark, IsLoading: true})

	resp = doJSON(t, http.MethodGet, srv.URL+"/capture/drafts/7", session.AccessToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var draft models.DraftNote
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&draft))
	resp.Body.Close()
	assert.True(t, draft.IsLoading)
	assert.Equal(t, "pending", draft.Title)

	resp = doJSON(t, http.MethodDelete, srv.URL+"/capture/drafts/7", session.AccessToken, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	_, ok := cfg.Drafts.Get(7)
	assert.False(t, ok)
}

func TestStartCaptureRejectsUnknownMode(t *testing.T) {
	user, auth := setupHandlerTest(t)
	session, err := auth.IssueSession(user.ID)
	require.NoError(t, err)
	srv := newAPIServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/capture", session.AccessToken, map[string]interface{}{
		"window_id": 1,
		"tab_id":    2,
		"mode":      "hologram",
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStartCaptureAcceptsAndIgnoresMissingIDs(t *testing.T) {
	user, auth := setupHandlerTest(t)
	session, err := auth.IssueSession(user.ID)
	require.NoError(t, err)
	srv := newAPIServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/capture", session.AccessToken, map[string]interface{}{
		"tab_url": "https://example.com",
		"mode":    models.ModeBookmark,
	})
	resp.Body.Close()
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	// The invocation is dropped silently: no draft ever appears.
	time.Sleep(50 * time.Millisecond)
	_, ok := cfg.Drafts.Get(0)
	assert.False(t, ok)
}

func TestNoteCRUDOverHTTP(t *testing.T) {
	user, auth := setupHandlerTest(t)
	session, err := auth.IssueSession(user.ID)
	require.NoError(t, err)
	srv := newAPIServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/notes", session.AccessToken, models.NoteInput{
		Title: "from api",
		Mode:  models.ModeText,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var note models.Note
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&note))
	resp.Body.Close()
	require.NotEmpty(t, note.ID)

	resp = doJSON(t, http.MethodDelete, srv.URL+"/notes/"+note.ID, session.AccessToken, nil)
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, srv.URL+"/notes/trash", session.AccessToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var trashed []models.Note
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&trashed))
	resp.Body.Close()
	require.Len(t, trashed, 1)

	resp = doJSON(t, http.MethodPost, srv.URL+"/notes/"+note.ID+"/restore", session.AccessToken, nil)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, http.MethodDelete, srv.URL+"/notes/"+note.ID+"/permanent", session.AccessToken, nil)
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, srv.URL+"/notes/"+note.ID, session.AccessToken, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
