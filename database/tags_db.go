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

// CreateTag inserts a new tag into the database.
// It ensures the tag name is unique within its workspace (case-insensitive).
func CreateTag(tag models.Tag) (models.Tag, error) {
	if DB == nil {
		return models.Tag{}, errors.New("database connection is not initialized")
	}
	tag.Name = strings.TrimSpace(tag.Name)
	if tag.Name == "" {
		return models.Tag{}, errors.New("tag name cannot be empty")
	}
	if tag.Color == "" {
		tag.Color = "blue"
	}
	if !models.IsValidTagColor(tag.Color) {
		return models.Tag{}, fmt.Errorf("tag color '%s' is not in the palette", tag.Color)
	}

	// Check if a tag with the same name (case-insensitive) already exists
	var existingTag models.Tag
	err := DB.QueryRow("SELECT id, workspace_id, name, color, created_at, updated_at FROM tags WHERE workspace_id = ? AND LOWER(name) = LOWER(?)", tag.WorkspaceID, tag.Name).Scan(
		&existingTag.ID, &existingTag.WorkspaceID, &existingTag.Name, &existingTag.Color, &existingTag.CreatedAt, &existingTag.UpdatedAt,
	)
	if err == nil {
		logger.Info("CreateTag: Tag with name '%s' already exists in workspace %s (ID: %s). Returning existing tag.", tag.Name, tag.WorkspaceID, existingTag.ID)
		return existingTag, nil
	}
	if err != sql.ErrNoRows {
		logger.Error("CreateTag: Error checking for existing tag '%s': %v", tag.Name, err)
		return models.Tag{}, fmt.Errorf("checking for existing tag '%s': %w", tag.Name, err)
	}

	tag.ID = uuid.NewString()
	stmt, err := DB.Prepare("INSERT INTO tags (id, workspace_id, name, color) VALUES (?, ?, ?, ?)")
	if err != nil {
		logger.Error("CreateTag: Error preparing statement for tag '%s': %v", tag.Name, err)
		return models.Tag{}, fmt.Errorf("preparing insert tag statement: %w", err)
	}
	defer stmt.Close()

	if _, err := stmt.Exec(tag.ID, tag.WorkspaceID, tag.Name, tag.Color); err != nil {
		logger.Error("CreateTag: Error executing insert for tag '%s': %v", tag.Name, err)
		return models.Tag{}, fmt.Errorf("executing insert tag: %w", err)
	}
	return GetTagByID(tag.ID)
}

// GetTagByID retrieves a single tag by its ID.
func GetTagByID(id string) (models.Tag, error) {
	var tag models.Tag
	if DB == nil {
		return tag, errors.New("database connection is not initialized")
	}
	err := DB.QueryRow("SELECT id, workspace_id, name, color, created_at, updated_at FROM tags WHERE id = ?", id).Scan(
		&tag.ID, &tag.WorkspaceID, &tag.Name, &tag.Color, &tag.CreatedAt, &tag.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return tag, fmt.Errorf("tag %s: %w", id, ErrNotFound)
		}
		logger.Error("GetTagByID: Error querying tag ID %s: %v", id, err)
		return tag, fmt.Errorf("querying tag ID %s: %w", id, err)
	}
	return tag, nil
}

// ListTagsByWorkspace retrieves the tags of a workspace, ordered by name.
func ListTagsByWorkspace(workspaceID string) ([]models.Tag, error) {
	if DB == nil {
		return nil, errors.New("database connection is not initialized")
	}
	rows, err := DB.Query("SELECT id, workspace_id, name, color, created_at, updated_at FROM tags WHERE workspace_id = ? ORDER BY LOWER(name) ASC", workspaceID)
	if err != nil {
		logger.Error("ListTagsByWorkspace: Error querying tags for workspace %s: %v", workspaceID, err)
		return nil, fmt.Errorf("querying tags for workspace %s: %w", workspaceID, err)
	}
	defer rows.Close()

	var tags []models.Tag
	for rows.Next() {
		var tag models.Tag
		if err := rows.Scan(&tag.ID, &tag.WorkspaceID, &tag.Name, &tag.Color, &tag.CreatedAt, &tag.UpdatedAt); err != nil {
			logger.Error("ListTagsByWorkspace: Error scanning tag row: %v", err)
			return nil, fmt.Errorf("scanning tag row: %w", err)
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

// UpdateTag updates an existing tag's name and/or color.
// Empty fields are left unchanged.
func UpdateTag(tag models.Tag) (models.Tag, error) {
	if DB == nil {
		return models.Tag{}, errors.New("database connection is not initialized")
	}
	if tag.ID == "" {
		return models.Tag{}, errors.New("tag ID is required for update")
	}

	var setClauses []string
	var args []interface{}

	if strings.TrimSpace(tag.Name) != "" {
		setClauses = append(setClauses, "name = ?")
		args = append(args, strings.TrimSpace(tag.Name))
	}
	if tag.Color != "" {
		if !models.IsValidTagColor(tag.Color) {
			return models.Tag{}, fmt.Errorf("tag color '%s' is not in the palette", tag.Color)
		}
		setClauses = append(setClauses, "color = ?")
		args = append(args, tag.Color)
	}

	if len(setClauses) == 0 {
		return GetTagByID(tag.ID)
	}

	setClauses = append(setClauses, "updated_at = CURRENT_TIMESTAMP")
	query := fmt.Sprintf("UPDATE tags SET %s WHERE id = ?", strings.Join(setClauses, ", "))
	args = append(args, tag.ID)

	stmt, err := DB.Prepare(query)
	if err != nil {
		logger.Error("UpdateTag: Error preparing update statement for tag %s: %v. Query: %s", tag.ID, err, query)
		return models.Tag{}, fmt.Errorf("preparing tag update: %w", err)
	}
	defer stmt.Close()

	if _, err := stmt.Exec(args...); err != nil {
		logger.Error("UpdateTag: Error executing update for tag %s: %v", tag.ID, err)
		return models.Tag{}, fmt.Errorf("executing tag update: %w", err)
	}
	return GetTagByID(tag.ID)
}

// DeleteTag removes a tag from the database.
// Associated note_tags rows will be deleted by CASCADE.
func DeleteTag(id string) error {
	if DB == nil {
		return errors.New("database connection is not initialized")
	}
	result, err := DB.Exec("DELETE FROM tags WHERE id = ?", id)
	if err != nil {
		logger.Error("DeleteTag: Error executing delete for tag ID %s: %v", id, err)
		return fmt.Errorf("executing delete tag: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("tag %s: %w", id, ErrNotFound)
	}
	logger.Info("DeleteTag: Tag ID %s deleted.", id)
	return nil
}

// AttachTagToNote links a tag to a note. Attaching an already-attached tag
// is a no-op success.
func AttachTagToNote(noteID, tagID string) error {
	if DB == nil {
		return errors.New("database connection is not initialized")
	}
	if noteID == "" || tagID == "" {
		return errors.New("note_id and tag_id are required")
	}
	if _, err := DB.Exec("INSERT OR IGNORE INTO note_tags (note_id, tag_id) VALUES (?, ?)", noteID, tagID); err != nil {
		logger.Error("AttachTagToNote: Error attaching tag %s to note %s: %v", tagID, noteID, err)
		return fmt.Errorf("attaching tag %s to note %s: %w", tagID, noteID, err)
	}
	return nil
}

// DetachTagFromNote removes the link between a tag and a note.
func DetachTagFromNote(noteID, tagID string) error {
	if DB == nil {
		return errors.New("database connection is not initialized")
	}
	if _, err := DB.Exec("DELETE FROM note_tags WHERE note_id = ? AND tag_id = ?", noteID, tagID); err != nil {
		logger.Error("DetachTagFromNote: Error detaching tag %s from note %s: %v", tagID, noteID, err)
		return fmt.Errorf("detaching tag %s from note %s: %w", tagID, noteID, err)
	}
	return nil
}

// GetTagsForNote retrieves all tags attached to a note, flattened from the
// join table into an ordered list.
func GetTagsForNote(noteID string) ([]models.Tag, error) {
	if DB == nil {
		return nil, errors.New("database connection is not initialized")
	}
	query := `
		SELECT t.id, t.workspace_id, t.name, t.color, t.created_at, t.updated_at
		FROM tags t
		JOIN note_tags nt ON t.id = nt.tag_id
		WHERE nt.note_id = ?
		ORDER BY LOWER(t.name) ASC
	`
	rows, err := DB.Query(query, noteID)
	if err != nil {
		logger.Error("GetTagsForNote: Error querying tags for note %s: %v", noteID, err)
		return nil, fmt.Errorf("querying tags for note: %w", err)
	}
	defer rows.Close()

	tags := []models.Tag{}
	for rows.Next() {
		var tag models.Tag
		if err := rows.Scan(&tag.ID, &tag.WorkspaceID, &tag.Name, &tag.Color, &tag.CreatedAt, &tag.UpdatedAt); err != nil {
			logger.Error("GetTagsForNote: Error scanning tag row: %v", err)
			return nil, fmt.Errorf("scanning tag row for note: %w", err)
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

// GetTagsForMultipleNotes retrieves all tags for a list of note IDs.
// Returns a map keyed by note ID.
func GetTagsForMultipleNotes(noteIDs []string) (map[string][]models.Tag, error) {
	if DB == nil {
		return nil, errors.New("database connection is not initialized")
	}
	if len(noteIDs) == 0 {
		return make(map[string][]models.Tag), nil
	}

	placeholders := strings.Repeat("?,", len(noteIDs)-1) + "?"
	query := fmt.Sprintf(`
		SELECT nt.note_id, t.id, t.workspace_id, t.name, t.color, t.created_at, t.updated_at
		FROM tags t
		JOIN note_tags nt ON t.id = nt.tag_id
		WHERE nt.note_id IN (%s)
		ORDER BY nt.note_id ASC, LOWER(t.name) ASC
	`, placeholders)

	args := make([]interface{}, 0, len(noteIDs))
	for _, id := range noteIDs {
		args = append(args, id)
	}

	rows, err := DB.Query(query, args...)
	if err != nil {
		logger.Error("GetTagsForMultipleNotes: Error querying tags for notes: %v", err)
		return nil, fmt.Errorf("querying tags for multiple notes: %w", err)
	}
	defer rows.Close()

	tagsByNoteID := make(map[string][]models.Tag)
	for rows.Next() {
		var noteID string
		var tag models.Tag
		if err := rows.Scan(&noteID, &tag.ID, &tag.WorkspaceID, &tag.Name, &tag.Color, &tag.CreatedAt, &tag.UpdatedAt); err != nil {
			logger.Error("GetTagsForMultipleNotes: Error scanning tag row: %v", err)
			continue
		}
		tagsByNoteID[noteID] = append(tagsByNoteID[noteID], tag)
	}
	return tagsByNoteID, rows.Err()
}
