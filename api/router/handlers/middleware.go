package handlers

import (
	"context"
	"net/http"
	"strings"

	"pickle/logger"
	"pickle/models"
)

type contextKey string

const userContextKey contextKey = "pickle.user"

// bearerOrCookieToken pulls the access token from the Authorization
// header, falling back to the web session cookie.
func bearerOrCookieToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	if cookie, err := r.Cookie(cfg.CookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// RequireAuth resolves the request's access token to a user and stores it
// in the request context. Requests without a valid token get 401.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerOrCookieToken(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		user, err := cfg.Auth.UserFromToken(token)
		if err != nil {
			logger.Debug("RequireAuth: rejecting token: %v", err)
			writeError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// currentUser returns the authenticated user placed in the context by
// RequireAuth.
func currentUser(r *http.Request) (models.User, bool) {
	user, ok := r.Context().Value(userContextKey).(models.User)
	return user, ok
}
