package database

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pickle/models"
)

func TestNoteLifecycle(t *testing.T) {
	workspace, _ := setupTestDB(t)

	created, err := CreateNote(models.Note{
		WorkspaceID: workspace.ID,
		Title:       "Go docs",
		URL:         "https://go.dev",
		Mode:        models.ModeBookmark,
		PageMeta: &models.PageMeta{
			Title:       "The Go Programming Language",
			Description: "Build simple, secure, scalable systems",
		},
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.NotNil(t, created.PageMeta)
	assert.Equal(t, "The Go Programming Language", created.PageMeta.Title)
	assert.Equal(t, "https://go.dev", created.PageMeta.URL)

	fetched, err := GetNoteWithRelations(created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, fetched.ID)
	assert.NotNil(t, fetched.Tags)
	assert.Empty(t, fetched.Tags)

	fetched.Title = "Go language docs"
	fetched.Content = "Read the tour first."
	updated, err := UpdateNote(fetched)
	require.NoError(t, err)
	assert.Equal(t, "Go language docs", updated.Title)
	assert.Equal(t, "Read the tour first.", updated.Content)

	_, err = UpdateNote(models.Note{ID: "00000000-0000-0000-0000-000000000000"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTrashRestorePermanentDelete(t *testing.T) {
	workspace, _ := setupTestDB(t)

	note, err := CreateNote(models.Note{
		WorkspaceID: workspace.ID,
		Title:       "scratch",
		Mode:        models.ModeText,
	})
	require.NoError(t, err)

	require.NoError(t, TrashNote(note.ID))

	active, err := ListNotesByWorkspace(workspace.ID, "")
	require.NoError(t, err)
	assert.Empty(t, active)

	trashed, err := ListTrashedNotes(workspace.ID)
	require.NoError(t, err)
	require.Len(t, trashed, 1)
	assert.True(t, trashed[0].DeletedAt.Valid)

	require.NoError(t, RestoreNote(note.ID))
	// Restoring an already-active note must be a no-op success.
	require.NoError(t, RestoreNote(note.ID))

	active, err = ListNotesByWorkspace(workspace.ID, "")
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.False(t, active[0].DeletedAt.Valid)

	require.NoError(t, DeleteNoteRow(note.ID))
	_, err = GetNoteByID(note.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, DeleteNoteRow(note.ID), ErrNotFound)
	assert.ErrorIs(t, RestoreNote(note.ID), ErrNotFound)
}

func TestListNotesByWorkspaceFolderFilter(t *testing.T) {
	workspace, _ := setupTestDB(t)

	folder, err := CreateFolder(models.Folder{WorkspaceID: workspace.ID, Name: "reading"})
	require.NoError(t, err)

	inFolder, err := CreateNote(models.Note{
		WorkspaceID: workspace.ID,
		FolderID:    sql.NullString{String: folder.ID, Valid: true},
		Title:       "filed",
		Mode:        models.ModeText,
	})
	require.NoError(t, err)
	_, err = CreateNote(models.Note{
		WorkspaceID: workspace.ID,
		Title:       "loose",
		Mode:        models.ModeText,
	})
	require.NoError(t, err)

	all, err := ListNotesByWorkspace(workspace.ID, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	filed, err := ListNotesByWorkspace(workspace.ID, folder.ID)
	require.NoError(t, err)
	require.Len(t, filed, 1)
	assert.Equal(t, inFolder.ID, filed[0].ID)
}
