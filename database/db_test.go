package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"pickle/models"
)

// setupTestDB opens a fresh database in a temp directory and seeds one
// user with an owned workspace.
func setupTestDB(t *testing.T) (models.Workspace, models.User) {
	t.Helper()
	require.NoError(t, InitDB(filepath.Join(t.TempDir(), "test.db")))
	t.Cleanup(func() {
		DB.Close()
		DB = nil
	})

	user, err := CreateUser(models.User{Email: "dev@example.com", DisplayName: "Dev"})
	require.NoError(t, err)
	workspace, err := CreateWorkspace(models.Workspace{Name: "Dev workspace"})
	require.NoError(t, err)
	require.NoError(t, AddWorkspaceMember(workspace.ID, user.ID, "owner"))
	return workspace, user
}
