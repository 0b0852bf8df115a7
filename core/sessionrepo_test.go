package core

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pickle/models"
)

func TestSessionRepoPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	repo, err := NewSessionRepo(path)
	require.NoError(t, err)
	assert.Nil(t, repo.Get())

	session := models.Session{
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		UserID:       "user-1",
		ExpiresAt:    time.Now().UTC().Add(time.Hour),
	}
	repo.Set(session)

	reopened, err := NewSessionRepo(path)
	require.NoError(t, err)
	got := reopened.Get()
	require.NotNil(t, got)
	assert.Equal(t, "access-1", got.AccessToken)
	assert.Equal(t, "user-1", got.UserID)

	reopened.Clear()
	assert.Nil(t, reopened.Get())

	cleared, err := NewSessionRepo(path)
	require.NoError(t, err)
	assert.Nil(t, cleared.Get())
}

func TestSessionRepoNotifiesListeners(t *testing.T) {
	repo, err := NewSessionRepo(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, err)

	var events []*models.Session
	repo.OnChange(func(s *models.Session) {
		events = append(events, s)
	})

	repo.Set(models.Session{AccessToken: "a"})
	repo.Clear()

	require.Len(t, events, 2)
	require.NotNil(t, events[0])
	assert.Equal(t, "a", events[0].AccessToken)
	assert.Nil(t, events[1])
}

func TestSessionRepoGetReturnsCopy(t *testing.T) {
	repo, err := NewSessionRepo(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, err)

	repo.Set(models.Session{AccessToken: "original"})
	got := repo.Get()
	got.AccessToken = "mutated"

	assert.Equal(t, "original", repo.Get().AccessToken)
}
