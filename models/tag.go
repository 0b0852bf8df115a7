package models

import "time"

// TagColors is the fixed sixteen-color palette a tag may use.
var TagColors = []string{
	"red", "orange", "amber", "yellow",
	"lime", "green", "emerald", "teal",
	"cyan", "sky", "blue", "indigo",
	"violet", "purple", "pink", "rose",
}

func IsValidTagColor(color string) bool {
	for _, c := range TagColors {
		if c == color {
			return true
		}
	}
	return false
}

// Tag represents a single tag that can be applied to notes.
type Tag struct {
	ID          string    `json:"id" readOnly:"true"`
	WorkspaceID string    `json:"workspace_id"`
	Name        string    `json:"name" binding:"required"`
	Color       string    `json:"color"`
	CreatedAt   time.Time `json:"created_at" readOnly:"true"`
	UpdatedAt   time.Time `json:"updated_at" readOnly:"true"`
}
