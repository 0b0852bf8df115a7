package models

import "time"

// User is an account that owns sessions and workspace memberships.
type User struct {
	ID          string    `json:"id" readOnly:"true"`
	Email       string    `json:"email" binding:"required"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at" readOnly:"true"`
}

// Workspace is the tenant entity owning notes, folders and tags.
type Workspace struct {
	ID        string    `json:"id" readOnly:"true"`
	Name      string    `json:"name" binding:"required"`
	CreatedAt time.Time `json:"created_at" readOnly:"true"`
}

// WorkspaceMember links a user to a workspace with a role.
type WorkspaceMember struct {
	WorkspaceID string    `json:"workspace_id"`
	UserID      string    `json:"user_id"`
	Role        string    `json:"role"`
	CreatedAt   time.Time `json:"created_at" readOnly:"true"`
}
