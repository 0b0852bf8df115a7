package database

import (
	"database/sql"
	"errors"
	"fmt"

	"pickle/logger"
	"pickle/models"

	"github.com/google/uuid"
)

// CreateAsset inserts a new asset row. The bytes themselves are written by
// the asset store; this only records the reference.
func CreateAsset(asset models.Asset) (models.Asset, error) {
	if DB == nil {
		return models.Asset{}, errors.New("database connection is not initialized")
	}
	if asset.ID == "" {
		asset.ID = uuid.NewString()
	}
	if asset.ContentType == "" {
		asset.ContentType = "application/octet-stream"
	}
	_, err := DB.Exec(
		"INSERT INTO assets (id, workspace_id, file_name, content_type, size_bytes) VALUES (?, ?, ?, ?, ?)",
		asset.ID, asset.WorkspaceID, asset.FileName, asset.ContentType, asset.SizeBytes,
	)
	if err != nil {
		logger.Error("CreateAsset: Error inserting asset '%s': %v", asset.FileName, err)
		return models.Asset{}, fmt.Errorf("inserting asset: %w", err)
	}
	return GetAssetByID(asset.ID)
}

// GetAssetByID retrieves a single asset by ID.
func GetAssetByID(id string) (models.Asset, error) {
	var asset models.Asset
	if DB == nil {
		return asset, errors.New("database connection is not initialized")
	}
	err := DB.QueryRow("SELECT id, workspace_id, file_name, content_type, size_bytes, created_at FROM assets WHERE id = ?", id).Scan(
		&asset.ID, &asset.WorkspaceID, &asset.FileName, &asset.ContentType, &asset.SizeBytes, &asset.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return asset, fmt.Errorf("asset %s: %w", id, ErrNotFound)
		}
		return asset, fmt.Errorf("querying asset %s: %w", id, err)
	}
	return asset, nil
}

// DeleteAssetRow removes an asset row. Notes referencing it get asset_id
// cleared by the schema's ON DELETE SET NULL.
func DeleteAssetRow(id string) error {
	if DB == nil {
		return errors.New("database connection is not initialized")
	}
	result, err := DB.Exec("DELETE FROM assets WHERE id = ?", id)
	if err != nil {
		logger.Error("DeleteAssetRow: Error deleting asset %s: %v", id, err)
		return fmt.Errorf("deleting asset %s: %w", id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("asset %s: %w", id, ErrNotFound)
	}
	return nil
}
