package models

import (
	"database/sql"
	"time"
)

// Folder is a hierarchical container for notes within a workspace.
type Folder struct {
	ID          string         `json:"id" readOnly:"true"`
	WorkspaceID string         `json:"workspace_id"`
	ParentID    sql.NullString `json:"parent_id,omitempty"`
	Name        string         `json:"name" binding:"required"`
	CreatedAt   time.Time      `json:"created_at" readOnly:"true"`
	UpdatedAt   time.Time      `json:"updated_at" readOnly:"true"`
}
