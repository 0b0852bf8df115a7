package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pickle/database"
)

func TestAuthServiceSetSession(t *testing.T) {
	_, user := setupCoreDB(t)
	auth := NewAuthService(time.Hour, time.Minute)

	session, err := auth.IssueSession(user.ID)
	require.NoError(t, err)

	got, err := auth.SetSession(session.AccessToken, "")
	require.NoError(t, err)
	assert.Equal(t, session.AccessToken, got.AccessToken)

	_, err = auth.SetSession("not-a-token", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid access token")

	_, err = auth.SetSession("", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing access token")
}

func TestAuthServiceRotatesExpiredSession(t *testing.T) {
	_, user := setupCoreDB(t)

	expired, err := database.CreateSession(user.ID, -time.Hour)
	require.NoError(t, err)

	auth := NewAuthService(time.Hour, time.Minute)

	// Without the refresh token the expired session is rejected.
	_, err = auth.SetSession(expired.AccessToken, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session expired")

	// With the matching refresh token the session rotates.
	fresh, err := auth.SetSession(expired.AccessToken, expired.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, expired.AccessToken, fresh.AccessToken)
	assert.Equal(t, user.ID, fresh.UserID)

	_, err = database.GetSessionByAccessToken(expired.AccessToken)
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestAuthServiceHandoffCodeFlow(t *testing.T) {
	_, user := setupCoreDB(t)
	auth := NewAuthService(time.Hour, time.Minute)

	session, err := auth.IssueSession(user.ID)
	require.NoError(t, err)

	code, err := auth.IssueHandoffCode(session.AccessToken)
	require.NoError(t, err)
	require.NotEmpty(t, code.Code)

	exchanged, err := auth.ExchangeCode(code.Code)
	require.NoError(t, err)
	assert.Equal(t, session.AccessToken, exchanged.AccessToken)

	// Codes are single-use.
	_, err = auth.ExchangeCode(code.Code)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already used")

	_, err = auth.ExchangeCode("")
	assert.Error(t, err)
}

func TestAuthServiceUserFromToken(t *testing.T) {
	_, user := setupCoreDB(t)
	auth := NewAuthService(time.Hour, time.Minute)

	session, err := auth.IssueSession(user.ID)
	require.NoError(t, err)

	got, err := auth.UserFromToken(session.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.Email, got.Email)

	_, err = auth.UserFromToken("bogus")
	assert.ErrorIs(t, err, ErrUnauthorized)

	require.NoError(t, auth.SignOut(session.AccessToken))
	_, err = auth.UserFromToken(session.AccessToken)
	assert.ErrorIs(t, err, ErrUnauthorized)
}
