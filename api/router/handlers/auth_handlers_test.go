package handlers

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pickle/core"
	"pickle/database"
	"pickle/messaging"
	"pickle/models"
)

// setupHandlerTest wires the handler layer against a fresh database and
// returns the seeded user plus the auth service for minting tokens.
func setupHandlerTest(t *testing.T) (models.User, *core.AuthService) {
	t.Helper()
	require.NoError(t, database.InitDB(filepath.Join(t.TempDir(), "test.db")))
	t.Cleanup(func() {
		database.DB.Close()
		database.DB = nil
	})

	user, err := database.CreateUser(models.User{Email: "dev@example.com", DisplayName: "Dev"})
	require.NoError(t, err)
	workspace, err := database.CreateWorkspace(models.Workspace{Name: "Dev workspace"})
	require.NoError(t, err)
	require.NoError(t, database.AddWorkspaceMember(workspace.ID, user.ID, "owner"))

	auth := core.NewAuthService(time.Hour, time.Minute)
	assets, err := core.NewAssetStore(t.TempDir())
	require.NoError(t, err)
	drafts := core.NewDraftStore()
	dispatcher := messaging.NewDispatcher(messaging.Timeouts{
		OpenOverlay:  100 * time.Millisecond,
		GetMetadata:  100 * time.Millisecond,
		StartCapture: 100 * time.Millisecond,
	})

	Configure(Config{
		Notes:             core.NewNoteService(assets),
		Auth:              auth,
		Orchestrator:      core.NewOrchestrator(drafts, messaging.NewClient(dispatcher)),
		Drafts:            drafts,
		Dispatcher:        dispatcher,
		Assets:            assets,
		Fetcher:           core.NewPageMetaFetcher(time.Second),
		CookieName:        "pickle_session",
		AllowTokenInQuery: true,
	})
	return user, auth
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == "pickle_session" {
			return cookie
		}
	}
	return nil
}

func TestSessionSyncWithValidToken(t *testing.T) {
	user, auth := setupHandlerTest(t)
	session, err := auth.IssueSession(user.ID)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/sync?access_token="+session.AccessToken+"&next=/dashboard", nil)
	rec := httptest.NewRecorder()
	SessionSyncHandler(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))

	cookie := sessionCookie(t, rec)
	require.NotNil(t, cookie)
	assert.Equal(t, session.AccessToken, cookie.Value)
	assert.True(t, cookie.HttpOnly)
}

func TestSessionSyncWithoutToken(t *testing.T) {
	setupHandlerTest(t)

	req := httptest.NewRequest(http.MethodGet, "/sync?next=/dashboard", nil)
	rec := httptest.NewRecorder()
	SessionSyncHandler(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/auth/error?message=missing_token", rec.Header().Get("Location"))
	assert.Nil(t, sessionCookie(t, rec))
}

func TestSessionSyncWithRejectedToken(t *testing.T) {
	setupHandlerTest(t)

	req := httptest.NewRequest(http.MethodGet, "/sync?access_token=bogus&next=/dashboard", nil)
	rec := httptest.NewRecorder()
	SessionSyncHandler(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	location := rec.Header().Get("Location")
	assert.Contains(t, location, "/auth/error?message=")
	assert.Contains(t, location, "invalid")
	assert.Nil(t, sessionCookie(t, rec))
}

func TestSessionSyncSanitizesNext(t *testing.T) {
	user, auth := setupHandlerTest(t)
	session, err := auth.IssueSession(user.ID)
	require.NoError(t, err)

	tests := []struct {
		next string
		want string
	}{
		{next: "/notes", want: "/notes"},
		{next: "", want: "/"},
		{next: "https://evil.example.com", want: "/"},
		{next: "//evil.example.com", want: "/"},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/sync?access_token="+session.AccessToken+"&next="+tt.next, nil)
		rec := httptest.NewRecorder()
		SessionSyncHandler(rec, req)
		require.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, tt.want, rec.Header().Get("Location"), "next=%q", tt.next)
	}
}

func TestSessionSyncTokenInQueryDisabled(t *testing.T) {
	user, auth := setupHandlerTest(t)
	cfg.AllowTokenInQuery = false
	session, err := auth.IssueSession(user.ID)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/sync?access_token="+session.AccessToken, nil)
	rec := httptest.NewRecorder()
	SessionSyncHandler(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/auth/error?message=token_sync_disabled", rec.Header().Get("Location"))
}

func TestSessionSyncWithHandoffCode(t *testing.T) {
	user, auth := setupHandlerTest(t)
	session, err := auth.IssueSession(user.ID)
	require.NoError(t, err)
	code, err := auth.IssueHandoffCode(session.AccessToken)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/sync?code="+code.Code+"&next=/dashboard", nil)
	rec := httptest.NewRecorder()
	SessionSyncHandler(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))
	require.NotNil(t, sessionCookie(t, rec))

	// The code is single-use; replaying it lands on the error page.
	rec = httptest.NewRecorder()
	SessionSyncHandler(rec, httptest.NewRequest(http.MethodGet, "/sync?code="+code.Code, nil))
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "/auth/error?message=")
}

func TestRequireAuthBearerAndCookie(t *testing.T) {
	user, auth := setupHandlerTest(t)
	session, err := auth.IssueSession(user.ID)
	require.NoError(t, err)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok := currentUser(r)
		require.True(t, ok)
		assert.Equal(t, user.ID, got.ID)
		w.WriteHeader(http.StatusOK)
	})
	protected := RequireAuth(next)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+session.AccessToken)
	rec := httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: "pickle_session", Value: session.AccessToken})
	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSignOutClearsCookie(t *testing.T) {
	user, auth := setupHandlerTest(t)
	session, err := auth.IssueSession(user.ID)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/signout", nil)
	req.AddCookie(&http.Cookie{Name: "pickle_session", Value: session.AccessToken})
	rec := httptest.NewRecorder()
	SignOutHandler(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	cookie := sessionCookie(t, rec)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)

	_, err = auth.UserFromToken(session.AccessToken)
	assert.Error(t, err)
}

func TestAuthErrorPageRendersMessage(t *testing.T) {
	setupHandlerTest(t)

	rec := httptest.NewRecorder()
	AuthErrorPageHandler(rec, httptest.NewRequest(http.MethodGet, "/error?message=missing_token", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "missing_token")
}
