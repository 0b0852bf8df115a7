package models

import (
	"database/sql"
	"time"
)

// Capture modes a note can originate from.
const (
	ModeBookmark = "bookmark"
	ModeCapture  = "capture"
	ModeText     = "text"
	ModeImage    = "image"
)

// ValidModes lists every capture mode accepted at the API boundary.
var ValidModes = []string{ModeBookmark, ModeCapture, ModeText, ModeImage}

func IsValidMode(mode string) bool {
	for _, m := range ValidModes {
		if m == mode {
			return true
		}
	}
	return false
}

// Note is a persisted note/bookmark row. Records returned by the
// persistence gateway are always validated against this shape first.
type Note struct {
	ID          string         `json:"id" validate:"required,uuid4"`
	WorkspaceID string         `json:"workspace_id" validate:"required,uuid4"`
	FolderID    sql.NullString `json:"folder_id,omitempty"`
	Title       string         `json:"title"`
	Content     string         `json:"content"`
	URL         string         `json:"url"`
	Mode        string         `json:"mode" validate:"required,oneof=bookmark capture text image"`
	AssetID     sql.NullString `json:"asset_id,omitempty"`
	PageMeta    *PageMeta      `json:"page_meta,omitempty"`
	Tags        []Tag          `json:"tags"`
	DeletedAt   sql.NullTime   `json:"deleted_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at" readOnly:"true"`
	UpdatedAt   time.Time      `json:"updated_at" readOnly:"true"`
}

// NoteInput is the payload for creating or updating a note.
type NoteInput struct {
	FolderID string    `json:"folder_id,omitempty"`
	Title    string    `json:"title"`
	Content  string    `json:"content"`
	URL      string    `json:"url"`
	Mode     string    `json:"mode"`
	AssetID  string    `json:"asset_id,omitempty"`
	PageMeta *PageMeta `json:"page_meta,omitempty"`
}
