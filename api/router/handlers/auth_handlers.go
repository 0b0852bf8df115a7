package handlers

import (
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strings"
	"time"

	"pickle/logger"
)

// Redirect reason codes for the session sync endpoint.
const (
	errMissingToken    = "missing_token"
	errUnexpectedError = "unexpected_error"
	errCallbackFailed  = "auth_code_error"
)

// sanitizeNext keeps redirect targets inside the app. Anything that is
// not a local path collapses to "/".
func sanitizeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return "/"
	}
	return next
}

func redirectWithError(w http.ResponseWriter, r *http.Request, message string) {
	http.Redirect(w, r, "/auth/error?message="+url.QueryEscape(message), http.StatusFound)
}

func setSessionCookie(w http.ResponseWriter, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// SessionSyncHandler establishes the web session from credentials minted
// inside the extension. It accepts either a one-time hand-off code
// (preferred) or a raw access/refresh token pair in the query string.
// Success redirects to `next`; every failure is terminal for the request
// and redirects to the error page with a reason code.
func SessionSyncHandler(w http.ResponseWriter, r *http.Request) {
	// Anything unexpected is still answered with a redirect, never a
	// bare 500: the browser is mid-navigation here.
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("SessionSyncHandler: panic recovered: %v", rec)
			redirectWithError(w, r, errUnexpectedError)
		}
	}()

	next := sanitizeNext(r.URL.Query().Get("next"))

	if code := r.URL.Query().Get("code"); code != "" {
		session, err := cfg.Auth.ExchangeCode(code)
		if err != nil {
			logger.Error("SessionSyncHandler: hand-off code exchange failed: %v", err)
			redirectWithError(w, r, err.Error())
			return
		}
		setSessionCookie(w, session.AccessToken, session.ExpiresAt)
		logger.Info("SessionSyncHandler: session synced via hand-off code for user %s", session.UserID)
		http.Redirect(w, r, next, http.StatusFound)
		return
	}

	accessToken := r.URL.Query().Get("access_token")
	if accessToken == "" {
		redirectWithError(w, r, errMissingToken)
		return
	}
	if !cfg.AllowTokenInQuery {
		logger.Warn("SessionSyncHandler: raw token sync attempted while disabled by config")
		redirectWithError(w, r, "token_sync_disabled")
		return
	}

	session, err := cfg.Auth.SetSession(accessToken, r.URL.Query().Get("refresh_token"))
	if err != nil {
		logger.Error("SessionSyncHandler: set session failed: %v", err)
		redirectWithError(w, r, err.Error())
		return
	}

	setSessionCookie(w, session.AccessToken, session.ExpiresAt)
	logger.Info("SessionSyncHandler: session synced for user %s", session.UserID)
	http.Redirect(w, r, next, http.StatusFound)
}

// AuthCallbackHandler exchanges a hand-off code server-side and redirects
// to `next`. Failures land on the fixed error page.
func AuthCallbackHandler(w http.ResponseWriter, r *http.Request) {
	next := sanitizeNext(r.URL.Query().Get("next"))
	code := r.URL.Query().Get("code")
	if code == "" {
		redirectWithError(w, r, errCallbackFailed)
		return
	}
	session, err := cfg.Auth.ExchangeCode(code)
	if err != nil {
		logger.Error("AuthCallbackHandler: code exchange failed: %v", err)
		redirectWithError(w, r, errCallbackFailed)
		return
	}
	setSessionCookie(w, session.AccessToken, session.ExpiresAt)
	http.Redirect(w, r, next, http.StatusFound)
}

// IssueHandoffHandler mints a one-time code bound to the caller's
// session, for the extension-to-web hand-off.
func IssueHandoffHandler(w http.ResponseWriter, r *http.Request) {
	token := bearerOrCookieToken(r)
	if token == "" {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	code, err := cfg.Auth.IssueHandoffCode(token)
	if err != nil {
		logger.Error("IssueHandoffHandler: failed to issue code: %v", err)
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"code":       code.Code,
		"expires_at": code.ExpiresAt,
	})
}

// MeHandler returns the authenticated user.
func MeHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// SignOutHandler deletes the caller's session and clears the cookie.
func SignOutHandler(w http.ResponseWriter, r *http.Request) {
	token := bearerOrCookieToken(r)
	if token != "" {
		if err := cfg.Auth.SignOut(token); err != nil {
			logger.Warn("SignOutHandler: failed to delete session: %v", err)
		}
	}
	setSessionCookie(w, "", time.Unix(0, 0))
	w.WriteHeader(http.StatusNoContent)
}

var authErrorTemplate = template.Must(template.New("autherror").Parse(`<!DOCTYPE html>
<html>
<head><title>Sign-in problem</title></head>
<body>
<h1>Something went wrong signing you in</h1>
<p>{{.Message}}</p>
<p><a href="/auth/sync">Try again</a> &middot; <a href="/">Go home</a></p>
</body>
</html>
`))

// AuthErrorPageHandler renders the full-page error view the sync and
// callback endpoints redirect to.
func AuthErrorPageHandler(w http.ResponseWriter, r *http.Request) {
	message := r.URL.Query().Get("message")
	if message == "" {
		message = errUnexpectedError
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if err := authErrorTemplate.Execute(w, struct{ Message string }{Message: message}); err != nil {
		logger.Error("AuthErrorPageHandler: template error: %v", err)
		fmt.Fprint(w, message)
	}
}
