package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pickle/messaging"
)

func newBridgeServer(t *testing.T) *httptest.Server {
	t.Helper()
	router := chi.NewRouter()
	router.Group(func(r chi.Router) {
		r.Use(RequireAuth)
		RegisterExtensionRoutes(r)
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func TestMessageBridgeEndToEnd(t *testing.T) {
	user, auth := setupHandlerTest(t)
	session, err := auth.IssueSession(user.ID)
	require.NoError(t, err)
	srv := newBridgeServer(t)

	type result struct {
		payload json.RawMessage
		err     error
	}
	done := make(chan result, 1)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		payload, err := cfg.Dispatcher.Request(ctx, 12, messaging.ActionGetMetadata, nil)
		done <- result{payload: payload, err: err}
	}()

	// Content script side: long-poll for the request.
	req, err := http.NewRequest(http.MethodGet, srv.URL+"/extension/messages?tab_id=12", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+session.AccessToken)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var bridgeReq messaging.Request
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&bridgeReq))
	resp.Body.Close()
	assert.Equal(t, messaging.ActionGetMetadata, bridgeReq.Action)
	assert.Equal(t, int64(12), bridgeReq.TabID)

	// Post the reply back.
	resp = doJSON(t, http.MethodPost, srv.URL+"/extension/replies", session.AccessToken, messaging.Reply{
		RequestID: bridgeReq.ID,
		OK:        true,
		Payload:   json.RawMessage(`{"title":"Bridged","url":"https://example.com"}`),
	})
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	select {
	case res := <-done:
		require.NoError(t, res.err)
		meta, err := messaging.DecodePageMeta(res.payload)
		require.NoError(t, err)
		assert.Equal(t, "Bridged", meta.Title)
	case <-time.After(2 * time.Second):
		t.Fatal("dispatcher request was not resolved by the bridge reply")
	}
}

func TestBridgeReplyForUnknownRequest(t *testing.T) {
	user, auth := setupHandlerTest(t)
	session, err := auth.IssueSession(user.ID)
	require.NoError(t, err)
	srv := newBridgeServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/extension/replies", session.AccessToken, messaging.Reply{
		RequestID: "already-gone",
		OK:        true,
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusGone, resp.StatusCode)
}

func TestBridgePollRejectsBadTabID(t *testing.T) {
	user, auth := setupHandlerTest(t)
	session, err := auth.IssueSession(user.ID)
	require.NoError(t, err)
	srv := newBridgeServer(t)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/extension/messages?tab_id=banana", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+session.AccessToken)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
