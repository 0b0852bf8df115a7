package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"pickle/logger"
	"pickle/models"

	"github.com/google/uuid"
)

// CreateSession inserts a new access/refresh token pair for a user.
func CreateSession(userID string, ttl time.Duration) (models.Session, error) {
	if DB == nil {
		return models.Session{}, errors.New("database connection is not initialized")
	}
	session := models.Session{
		AccessToken:  uuid.NewString(),
		RefreshToken: uuid.NewString(),
		UserID:       userID,
		CreatedAt:    time.Now().UTC(),
		ExpiresAt:    time.Now().UTC().Add(ttl),
	}
	_, err := DB.Exec(
		"INSERT INTO sessions (access_token, refresh_token, user_id, created_at, expires_at) VALUES (?, ?, ?, ?, ?)",
		session.AccessToken, session.RefreshToken, session.UserID, session.CreatedAt, session.ExpiresAt,
	)
	if err != nil {
		logger.Error("CreateSession: Error inserting session for user %s: %v", userID, err)
		return models.Session{}, fmt.Errorf("inserting session: %w", err)
	}
	return session, nil
}

// GetSessionByAccessToken retrieves a session by its access token.
func GetSessionByAccessToken(accessToken string) (models.Session, error) {
	var session models.Session
	if DB == nil {
		return session, errors.New("database connection is not initialized")
	}
	err := DB.QueryRow(
		"SELECT access_token, refresh_token, user_id, created_at, expires_at FROM sessions WHERE access_token = ?",
		accessToken,
	).Scan(&session.AccessToken, &session.RefreshToken, &session.UserID, &session.CreatedAt, &session.ExpiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return session, fmt.Errorf("session: %w", ErrNotFound)
		}
		return session, fmt.Errorf("querying session: %w", err)
	}
	return session, nil
}

// GetSessionByRefreshToken retrieves a session by its refresh token.
func GetSessionByRefreshToken(refreshToken string) (models.Session, error) {
	var session models.Session
	if DB == nil {
		return session, errors.New("database connection is not initialized")
	}
	err := DB.QueryRow(
		"SELECT access_token, refresh_token, user_id, created_at, expires_at FROM sessions WHERE refresh_token = ?",
		refreshToken,
	).Scan(&session.AccessToken, &session.RefreshToken, &session.UserID, &session.CreatedAt, &session.ExpiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return session, fmt.Errorf("session: %w", ErrNotFound)
		}
		return session, fmt.Errorf("querying session by refresh token: %w", err)
	}
	return session, nil
}

// DeleteSession removes a session (sign-out). Deleting a missing session
// is a no-op success.
func DeleteSession(accessToken string) error {
	if DB == nil {
		return errors.New("database connection is not initialized")
	}
	if _, err := DB.Exec("DELETE FROM sessions WHERE access_token = ?", accessToken); err != nil {
		logger.Error("DeleteSession: Error deleting session: %v", err)
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

// CreateHandoffCode mints a single-use code bound to an existing session.
func CreateHandoffCode(sessionToken string, ttl time.Duration) (models.HandoffCode, error) {
	if DB == nil {
		return models.HandoffCode{}, errors.New("database connection is not initialized")
	}
	code := models.HandoffCode{
		Code:         uuid.NewString(),
		SessionToken: sessionToken,
		CreatedAt:    time.Now().UTC(),
		ExpiresAt:    time.Now().UTC().Add(ttl),
	}
	_, err := DB.Exec(
		"INSERT INTO handoff_codes (code, session_token, created_at, expires_at) VALUES (?, ?, ?, ?)",
		code.Code, code.SessionToken, code.CreatedAt, code.ExpiresAt,
	)
	if err != nil {
		logger.Error("CreateHandoffCode: Error inserting code for session: %v", err)
		return models.HandoffCode{}, fmt.Errorf("inserting handoff code: %w", err)
	}
	return code, nil
}

// ConsumeHandoffCode atomically marks a code as used and returns the
// session token it was bound to. A consumed or expired code is rejected.
func ConsumeHandoffCode(code string, now time.Time) (string, error) {
	if DB == nil {
		return "", errors.New("database connection is not initialized")
	}
	var sessionToken string
	var expiresAt time.Time
	var consumedAt sql.NullTime
	err := DB.QueryRow(
		"SELECT session_token, expires_at, consumed_at FROM handoff_codes WHERE code = ?",
		code,
	).Scan(&sessionToken, &expiresAt, &consumedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("handoff code: %w", ErrNotFound)
		}
		return "", fmt.Errorf("querying handoff code: %w", err)
	}
	if consumedAt.Valid {
		return "", errors.New("handoff code already used")
	}
	if now.After(expiresAt) {
		return "", errors.New("handoff code expired")
	}

	// Guard against a concurrent consumer: only one UPDATE can win.
	result, err := DB.Exec(
		"UPDATE handoff_codes SET consumed_at = ? WHERE code = ? AND consumed_at IS NULL",
		now, code,
	)
	if err != nil {
		return "", fmt.Errorf("consuming handoff code: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return "", errors.New("handoff code already used")
	}
	return sessionToken, nil
}

// PurgeExpiredSessions removes sessions and hand-off codes past their
// expiry. Called opportunistically from the server loop.
func PurgeExpiredSessions(now time.Time) error {
	if DB == nil {
		return errors.New("database connection is not initialized")
	}
	if _, err := DB.Exec("DELETE FROM handoff_codes WHERE expires_at < ?", now); err != nil {
		return fmt.Errorf("purging expired handoff codes: %w", err)
	}
	if _, err := DB.Exec("DELETE FROM sessions WHERE expires_at < ?", now); err != nil {
		return fmt.Errorf("purging expired sessions: %w", err)
	}
	return nil
}
