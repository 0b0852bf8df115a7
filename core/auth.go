package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"pickle/database"
	"pickle/logger"
	"pickle/models"
)

// AuthService owns backend auth sessions: token issuance, the set-session
// operation behind the sync endpoint, and single-use hand-off codes.
type AuthService struct {
	sessionTTL time.Duration
	codeTTL    time.Duration
}

func NewAuthService(sessionTTL, codeTTL time.Duration) *AuthService {
	if sessionTTL <= 0 {
		sessionTTL = 30 * 24 * time.Hour
	}
	if codeTTL <= 0 {
		codeTTL = time.Minute
	}
	return &AuthService{sessionTTL: sessionTTL, codeTTL: codeTTL}
}

// IssueSession creates a fresh access/refresh pair for a user.
func (a *AuthService) IssueSession(userID string) (models.Session, error) {
	if strings.TrimSpace(userID) == "" {
		return models.Session{}, ErrUnauthorized
	}
	if _, err := database.GetUserByID(userID); err != nil {
		return models.Session{}, fmt.Errorf("issuing session: %w", err)
	}
	return database.CreateSession(userID, a.sessionTTL)
}

// SetSession validates an access token presented by the sync endpoint and
// returns the session it names. An expired access token is rotated via
// the refresh token when one is supplied.
func (a *AuthService) SetSession(accessToken, refreshToken string) (models.Session, error) {
	if strings.TrimSpace(accessToken) == "" {
		return models.Session{}, errors.New("missing access token")
	}
	session, err := database.GetSessionByAccessToken(accessToken)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return models.Session{}, errors.New("invalid access token")
		}
		return models.Session{}, err
	}
	if !session.Expired(time.Now().UTC()) {
		return session, nil
	}
	if refreshToken == "" || refreshToken != session.RefreshToken {
		return models.Session{}, errors.New("session expired")
	}
	return a.rotate(session)
}

func (a *AuthService) rotate(old models.Session) (models.Session, error) {
	fresh, err := database.CreateSession(old.UserID, a.sessionTTL)
	if err != nil {
		return models.Session{}, fmt.Errorf("rotating session: %w", err)
	}
	if err := database.DeleteSession(old.AccessToken); err != nil {
		logger.Warn("AuthService: failed to delete rotated session: %v", err)
	}
	logger.Info("AuthService: rotated session for user %s", old.UserID)
	return fresh, nil
}

// IssueHandoffCode mints a single-use code for an authenticated session.
// The code stands in for the raw token pair during the hand-off.
func (a *AuthService) IssueHandoffCode(accessToken string) (models.HandoffCode, error) {
	session, err := a.SetSession(accessToken, "")
	if err != nil {
		return models.HandoffCode{}, err
	}
	return database.CreateHandoffCode(session.AccessToken, a.codeTTL)
}

// ExchangeCode consumes a single-use hand-off code and returns the session
// it was bound to. A consumed, expired, or unknown code fails.
func (a *AuthService) ExchangeCode(code string) (models.Session, error) {
	if strings.TrimSpace(code) == "" {
		return models.Session{}, errors.New("missing code")
	}
	sessionToken, err := database.ConsumeHandoffCode(code, time.Now().UTC())
	if err != nil {
		return models.Session{}, fmt.Errorf("exchanging handoff code: %w", err)
	}
	return a.SetSession(sessionToken, "")
}

// UserFromToken resolves the user behind a valid, unexpired access token.
func (a *AuthService) UserFromToken(accessToken string) (models.User, error) {
	session, err := a.SetSession(accessToken, "")
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	return database.GetUserByID(session.UserID)
}

// SignOut deletes a session.
func (a *AuthService) SignOut(accessToken string) error {
	return database.DeleteSession(accessToken)
}
