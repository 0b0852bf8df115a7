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

// CreateFolder inserts a new folder into a workspace.
func CreateFolder(folder models.Folder) (models.Folder, error) {
	if DB == nil {
		return models.Folder{}, errors.New("database connection is not initialized")
	}
	folder.Name = strings.TrimSpace(folder.Name)
	if folder.Name == "" {
		return models.Folder{}, errors.New("folder name cannot be empty")
	}
	folder.ID = uuid.NewString()

	stmt, err := DB.Prepare("INSERT INTO folders (id, workspace_id, parent_id, name) VALUES (?, ?, ?, ?)")
	if err != nil {
		logger.Error("CreateFolder: Error preparing statement for folder '%s': %v", folder.Name, err)
		return models.Folder{}, fmt.Errorf("preparing insert folder statement: %w", err)
	}
	defer stmt.Close()

	if _, err := stmt.Exec(folder.ID, folder.WorkspaceID, folder.ParentID, folder.Name); err != nil {
		logger.Error("CreateFolder: Error executing insert for folder '%s': %v", folder.Name, err)
		return models.Folder{}, fmt.Errorf("executing insert folder: %w", err)
	}
	return GetFolderByID(folder.ID)
}

// GetFolderByID retrieves a single folder by its ID.
func GetFolderByID(id string) (models.Folder, error) {
	var folder models.Folder
	if DB == nil {
		return folder, errors.New("database connection is not initialized")
	}
	err := DB.QueryRow("SELECT id, workspace_id, parent_id, name, created_at, updated_at FROM folders WHERE id = ?", id).Scan(
		&folder.ID, &folder.WorkspaceID, &folder.ParentID, &folder.Name, &folder.CreatedAt, &folder.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return folder, fmt.Errorf("folder %s: %w", id, ErrNotFound)
		}
		logger.Error("GetFolderByID: Error querying folder ID %s: %v", id, err)
		return folder, fmt.Errorf("querying folder ID %s: %w", id, err)
	}
	return folder, nil
}

// ListFoldersByWorkspace retrieves the folders of a workspace, ordered by
// name. Hierarchy is reconstructed by the caller from parent_id.
func ListFoldersByWorkspace(workspaceID string) ([]models.Folder, error) {
	if DB == nil {
		return nil, errors.New("database connection is not initialized")
	}
	rows, err := DB.Query("SELECT id, workspace_id, parent_id, name, created_at, updated_at FROM folders WHERE workspace_id = ? ORDER BY LOWER(name) ASC", workspaceID)
	if err != nil {
		logger.Error("ListFoldersByWorkspace: Error querying folders for workspace %s: %v", workspaceID, err)
		return nil, fmt.Errorf("querying folders for workspace %s: %w", workspaceID, err)
	}
	defer rows.Close()

	var folders []models.Folder
	for rows.Next() {
		var folder models.Folder
		if err := rows.Scan(&folder.ID, &folder.WorkspaceID, &folder.ParentID, &folder.Name, &folder.CreatedAt, &folder.UpdatedAt); err != nil {
			logger.Error("ListFoldersByWorkspace: Error scanning folder row: %v", err)
			return nil, fmt.Errorf("scanning folder row: %w", err)
		}
		folders = append(folders, folder)
	}
	return folders, rows.Err()
}

// UpdateFolder renames and/or reparents a folder.
func UpdateFolder(folder models.Folder) (models.Folder, error) {
	if DB == nil {
		return models.Folder{}, errors.New("database connection is not initialized")
	}
	if folder.ID == "" {
		return models.Folder{}, errors.New("folder ID is required for update")
	}
	folder.Name = strings.TrimSpace(folder.Name)
	if folder.Name == "" {
		return models.Folder{}, errors.New("folder name cannot be empty")
	}
	if folder.ParentID.Valid && folder.ParentID.String == folder.ID {
		return models.Folder{}, errors.New("folder cannot be its own parent")
	}

	stmt, err := DB.Prepare("UPDATE folders SET name = ?, parent_id = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?")
	if err != nil {
		logger.Error("UpdateFolder: Error preparing update statement for folder %s: %v", folder.ID, err)
		return models.Folder{}, fmt.Errorf("preparing folder update: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.Exec(folder.Name, folder.ParentID, folder.ID)
	if err != nil {
		logger.Error("UpdateFolder: Error executing update for folder %s: %v", folder.ID, err)
		return models.Folder{}, fmt.Errorf("executing folder update: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return models.Folder{}, fmt.Errorf("folder %s: %w", folder.ID, ErrNotFound)
	}
	return GetFolderByID(folder.ID)
}

// DeleteFolder removes a folder. Child folders are removed by CASCADE;
// notes inside keep their rows with folder_id cleared.
func DeleteFolder(id string) error {
	if DB == nil {
		return errors.New("database connection is not initialized")
	}
	result, err := DB.Exec("DELETE FROM folders WHERE id = ?", id)
	if err != nil {
		logger.Error("DeleteFolder: Error executing delete for folder ID %s: %v", id, err)
		return fmt.Errorf("executing delete folder: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("folder %s: %w", id, ErrNotFound)
	}
	logger.Info("DeleteFolder: Folder ID %s deleted.", id)
	return nil
}
