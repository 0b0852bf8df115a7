package models

import "time"

// Asset describes a stored binary (screenshot, image) referenced by a note.
// The bytes live on disk under the configured assets directory.
type Asset struct {
	ID          string    `json:"id" readOnly:"true"`
	WorkspaceID string    `json:"workspace_id"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	CreatedAt   time.Time `json:"created_at" readOnly:"true"`
}
