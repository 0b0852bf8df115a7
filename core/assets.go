package core

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"pickle/database"
	"pickle/logger"
	"pickle/models"
)

// AssetStore keeps asset bytes on disk under a single directory, one file
// per asset id. The database row is the source of truth for metadata.
type AssetStore struct {
	dir string
}

func NewAssetStore(dir string) (*AssetStore, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("creating asset directory %s: %w", dir, err)
	}
	return &AssetStore{dir: dir}, nil
}

func (s *AssetStore) path(assetID string) string {
	return filepath.Join(s.dir, assetID)
}

// Save writes the asset bytes and records the reference row. On a write
// failure nothing is recorded.
func (s *AssetStore) Save(workspaceID, fileName, contentType string, r io.Reader) (models.Asset, error) {
	asset := models.Asset{
		WorkspaceID: workspaceID,
		FileName:    fileName,
		ContentType: contentType,
	}
	created, err := database.CreateAsset(asset)
	if err != nil {
		return models.Asset{}, err
	}

	f, err := os.OpenFile(s.path(created.ID), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0640)
	if err != nil {
		_ = database.DeleteAssetRow(created.ID)
		return models.Asset{}, fmt.Errorf("opening asset file for %s: %w", created.ID, err)
	}
	defer f.Close()

	size, err := io.Copy(f, r)
	if err != nil {
		_ = database.DeleteAssetRow(created.ID)
		_ = os.Remove(s.path(created.ID))
		return models.Asset{}, fmt.Errorf("writing asset file for %s: %w", created.ID, err)
	}

	if _, err := database.DB.Exec("UPDATE assets SET size_bytes = ? WHERE id = ?", size, created.ID); err != nil {
		logger.Warn("AssetStore: failed to record size for asset %s: %v", created.ID, err)
	}
	created.SizeBytes = size
	logger.Info("AssetStore: saved asset %s (%d bytes)", created.ID, size)
	return created, nil
}

// Open returns a reader over the asset bytes.
func (s *AssetStore) Open(asset models.Asset) (io.ReadCloser, error) {
	f, err := os.Open(s.path(asset.ID))
	if err != nil {
		return nil, fmt.Errorf("opening asset file for %s: %w", asset.ID, err)
	}
	return f, nil
}

// Remove deletes the asset bytes from disk. A missing file is treated as
// already removed.
func (s *AssetStore) Remove(asset models.Asset) error {
	if err := os.Remove(s.path(asset.ID)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing asset file for %s: %w", asset.ID, err)
	}
	return nil
}
