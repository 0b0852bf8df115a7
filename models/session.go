package models

import (
	"database/sql"
	"time"
)

// Session is an access/refresh token pair bound to a user. The extension
// holds a cached copy; the web session holds the access token in a cookie.
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	UserID       string    `json:"user_id"`
	CreatedAt    time.Time `json:"created_at"`
	ExpiresAt    time.Time `json:"expires_at"`
}

func (s Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// HandoffCode is a short-lived single-use code that stands in for raw
// session tokens during the extension-to-web session hand-off.
type HandoffCode struct {
	Code         string       `json:"code"`
	SessionToken string       `json:"-"`
	CreatedAt    time.Time    `json:"created_at"`
	ExpiresAt    time.Time    `json:"expires_at"`
	ConsumedAt   sql.NullTime `json:"-"`
}
