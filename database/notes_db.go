package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"pickle/logger"
	"pickle/models"

	"github.com/google/uuid"
)

const noteColumns = `id, workspace_id, folder_id, title, content, url, mode, asset_id,
	has_meta, meta_title, meta_description, meta_image, meta_site_name, meta_favicon,
	deleted_at, created_at, updated_at`

func scanNote(scanner interface{ Scan(...interface{}) error }) (models.Note, error) {
	var note models.Note
	var hasMeta int
	var meta models.PageMeta
	err := scanner.Scan(
		&note.ID, &note.WorkspaceID, &note.FolderID, &note.Title, &note.Content,
		&note.URL, &note.Mode, &note.AssetID,
		&hasMeta, &meta.Title, &meta.Description, &meta.Image, &meta.SiteName, &meta.Favicon,
		&note.DeletedAt, &note.CreatedAt, &note.UpdatedAt,
	)
	if err != nil {
		return note, err
	}
	if hasMeta != 0 {
		meta.URL = note.URL
		note.PageMeta = &meta
	}
	return note, nil
}

// CreateNote inserts a new note row and returns the stored record.
func CreateNote(note models.Note) (models.Note, error) {
	if DB == nil {
		return models.Note{}, errors.New("database connection is not initialized")
	}
	if note.ID == "" {
		note.ID = uuid.NewString()
	}

	var meta models.PageMeta
	hasMeta := 0
	if note.PageMeta != nil {
		meta = *note.PageMeta
		hasMeta = 1
	}

	stmt, err := DB.Prepare(`
		INSERT INTO notes (id, workspace_id, folder_id, title, content, url, mode, asset_id,
			has_meta, meta_title, meta_description, meta_image, meta_site_name, meta_favicon,
			created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	`)
	if err != nil {
		return models.Note{}, fmt.Errorf("preparing create note statement: %w", err)
	}
	defer stmt.Close()

	_, err = stmt.Exec(note.ID, note.WorkspaceID, note.FolderID, note.Title, note.Content,
		note.URL, note.Mode, note.AssetID,
		hasMeta, meta.Title, meta.Description, meta.Image, meta.SiteName, meta.Favicon)
	if err != nil {
		logger.Error("CreateNote: Error executing insert for note %s: %v", note.ID, err)
		return models.Note{}, fmt.Errorf("executing create note statement: %w", err)
	}
	return GetNoteByID(note.ID)
}

// GetNoteByID retrieves a single note row without its tag relations.
func GetNoteByID(noteID string) (models.Note, error) {
	if DB == nil {
		return models.Note{}, errors.New("database connection is not initialized")
	}
	row := DB.QueryRow("SELECT "+noteColumns+" FROM notes WHERE id = ?", noteID)
	note, err := scanNote(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return note, fmt.Errorf("note %s: %w", noteID, ErrNotFound)
		}
		return note, fmt.Errorf("querying note %s: %w", noteID, err)
	}
	return note, nil
}

// GetNoteWithRelations retrieves a note with its tags flattened into an
// ordered list.
func GetNoteWithRelations(noteID string) (models.Note, error) {
	note, err := GetNoteByID(noteID)
	if err != nil {
		return note, err
	}
	tags, err := GetTagsForNote(noteID)
	if err != nil {
		return note, fmt.Errorf("loading tags for note %s: %w", noteID, err)
	}
	note.Tags = tags
	return note, nil
}

// UpdateNote updates the mutable fields of a note and returns the stored
// record.
func UpdateNote(note models.Note) (models.Note, error) {
	if DB == nil {
		return models.Note{}, errors.New("database connection is not initialized")
	}
	var meta models.PageMeta
	hasMeta := 0
	if note.PageMeta != nil {
		meta = *note.PageMeta
		hasMeta = 1
	}
	stmt, err := DB.Prepare(`
		UPDATE notes
		SET folder_id = ?, title = ?, content = ?, url = ?, asset_id = ?,
			has_meta = ?, meta_title = ?, meta_description = ?, meta_image = ?,
			meta_site_name = ?, meta_favicon = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`)
	if err != nil {
		return models.Note{}, fmt.Errorf("preparing update note statement for note %s: %w", note.ID, err)
	}
	defer stmt.Close()

	result, err := stmt.Exec(note.FolderID, note.Title, note.Content, note.URL, note.AssetID,
		hasMeta, meta.Title, meta.Description, meta.Image, meta.SiteName, meta.Favicon, note.ID)
	if err != nil {
		logger.Error("UpdateNote: Error executing update for note %s: %v", note.ID, err)
		return models.Note{}, fmt.Errorf("executing update note statement for note %s: %w", note.ID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return models.Note{}, fmt.Errorf("note %s: %w", note.ID, ErrNotFound)
	}
	return GetNoteWithRelations(note.ID)
}

// ListNotesByWorkspace returns the active (non-trashed) notes of a
// workspace, newest first. folderID narrows the listing when non-empty.
func ListNotesByWorkspace(workspaceID string, folderID string) ([]models.Note, error) {
	if DB == nil {
		return nil, errors.New("database connection is not initialized")
	}
	query := "SELECT " + noteColumns + " FROM notes WHERE workspace_id = ? AND deleted_at IS NULL"
	args := []interface{}{workspaceID}
	if strings.TrimSpace(folderID) != "" {
		query += " AND folder_id = ?"
		args = append(args, folderID)
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying notes for workspace %s: %w", workspaceID, err)
	}
	defer rows.Close()

	var notes []models.Note
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning note row: %w", err)
		}
		notes = append(notes, note)
	}
	return notes, rows.Err()
}

// ListTrashedNotes returns the soft-deleted notes of a workspace, most
// recently trashed first.
func ListTrashedNotes(workspaceID string) ([]models.Note, error) {
	if DB == nil {
		return nil, errors.New("database connection is not initialized")
	}
	rows, err := DB.Query("SELECT "+noteColumns+" FROM notes WHERE workspace_id = ? AND deleted_at IS NOT NULL ORDER BY deleted_at DESC, id DESC", workspaceID)
	if err != nil {
		return nil, fmt.Errorf("querying trashed notes for workspace %s: %w", workspaceID, err)
	}
	defer rows.Close()

	var notes []models.Note
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning trashed note row: %w", err)
		}
		notes = append(notes, note)
	}
	return notes, rows.Err()
}

// TrashNote soft-deletes a note by setting its deleted_at marker.
func TrashNote(noteID string) error {
	if DB == nil {
		return errors.New("database connection is not initialized")
	}
	result, err := DB.Exec("UPDATE notes SET deleted_at = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL", noteID)
	if err != nil {
		logger.Error("TrashNote: Error trashing note %s: %v", noteID, err)
		return fmt.Errorf("trashing note %s: %w", noteID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		// Either missing or already trashed; distinguish for the caller.
		if _, err := GetNoteByID(noteID); err != nil {
			return err
		}
	}
	return nil
}

// RestoreNote clears the soft-delete marker. Restoring an already-active
// note is a no-op success.
func RestoreNote(noteID string) error {
	if DB == nil {
		return errors.New("database connection is not initialized")
	}
	if _, err := GetNoteByID(noteID); err != nil {
		return err
	}
	if _, err := DB.Exec("UPDATE notes SET deleted_at = NULL, updated_at = CURRENT_TIMESTAMP WHERE id = ?", noteID); err != nil {
		logger.Error("RestoreNote: Error restoring note %s: %v", noteID, err)
		return fmt.Errorf("restoring note %s: %w", noteID, err)
	}
	return nil
}

// DeleteNoteRow permanently removes a note row. Associated note_tags rows
// are removed by CASCADE.
func DeleteNoteRow(noteID string) error {
	if DB == nil {
		return errors.New("database connection is not initialized")
	}
	result, err := DB.Exec("DELETE FROM notes WHERE id = ?", noteID)
	if err != nil {
		logger.Error("DeleteNoteRow: Error deleting note %s: %v", noteID, err)
		return fmt.Errorf("deleting note %s: %w", noteID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("note %s: %w", noteID, ErrNotFound)
	}
	return nil
}
