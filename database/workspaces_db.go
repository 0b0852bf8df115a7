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

// CreateUser inserts a new user. Emails are unique (case-insensitive).
func CreateUser(user models.User) (models.User, error) {
	if DB == nil {
		return models.User{}, errors.New("database connection is not initialized")
	}
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if user.Email == "" {
		return models.User{}, errors.New("user email cannot be empty")
	}
	user.ID = uuid.NewString()

	stmt, err := DB.Prepare("INSERT INTO users (id, email, display_name) VALUES (?, ?, ?)")
	if err != nil {
		return models.User{}, fmt.Errorf("preparing insert user statement: %w", err)
	}
	defer stmt.Close()

	if _, err := stmt.Exec(user.ID, user.Email, user.DisplayName); err != nil {
		logger.Error("CreateUser: Error executing insert for user '%s': %v", user.Email, err)
		return models.User{}, fmt.Errorf("executing insert user: %w", err)
	}
	return GetUserByID(user.ID)
}

// GetUserByID retrieves a single user by ID.
func GetUserByID(id string) (models.User, error) {
	var user models.User
	if DB == nil {
		return user, errors.New("database connection is not initialized")
	}
	err := DB.QueryRow("SELECT id, email, display_name, created_at FROM users WHERE id = ?", id).Scan(
		&user.ID, &user.Email, &user.DisplayName, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return user, fmt.Errorf("user %s: %w", id, ErrNotFound)
		}
		return user, fmt.Errorf("querying user %s: %w", id, err)
	}
	return user, nil
}

// GetUserByEmail retrieves a single user by email (case-insensitive).
func GetUserByEmail(email string) (models.User, error) {
	var user models.User
	if DB == nil {
		return user, errors.New("database connection is not initialized")
	}
	err := DB.QueryRow("SELECT id, email, display_name, created_at FROM users WHERE LOWER(email) = LOWER(?)", strings.TrimSpace(email)).Scan(
		&user.ID, &user.Email, &user.DisplayName, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return user, fmt.Errorf("user with email '%s': %w", email, ErrNotFound)
		}
		return user, fmt.Errorf("querying user by email '%s': %w", email, err)
	}
	return user, nil
}

// CreateWorkspace inserts a new workspace.
func CreateWorkspace(workspace models.Workspace) (models.Workspace, error) {
	if DB == nil {
		return models.Workspace{}, errors.New("database connection is not initialized")
	}
	workspace.Name = strings.TrimSpace(workspace.Name)
	if workspace.Name == "" {
		return models.Workspace{}, errors.New("workspace name cannot be empty")
	}
	workspace.ID = uuid.NewString()

	if _, err := DB.Exec("INSERT INTO workspaces (id, name) VALUES (?, ?)", workspace.ID, workspace.Name); err != nil {
		logger.Error("CreateWorkspace: Error executing insert for workspace '%s': %v", workspace.Name, err)
		return models.Workspace{}, fmt.Errorf("executing insert workspace: %w", err)
	}
	return GetWorkspaceByID(workspace.ID)
}

// GetWorkspaceByID retrieves a single workspace by ID.
func GetWorkspaceByID(id string) (models.Workspace, error) {
	var workspace models.Workspace
	if DB == nil {
		return workspace, errors.New("database connection is not initialized")
	}
	err := DB.QueryRow("SELECT id, name, created_at FROM workspaces WHERE id = ?", id).Scan(
		&workspace.ID, &workspace.Name, &workspace.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return workspace, fmt.Errorf("workspace %s: %w", id, ErrNotFound)
		}
		return workspace, fmt.Errorf("querying workspace %s: %w", id, err)
	}
	return workspace, nil
}

// AddWorkspaceMember links a user to a workspace. Adding an existing
// member is a no-op success.
func AddWorkspaceMember(workspaceID, userID, role string) error {
	if DB == nil {
		return errors.New("database connection is not initialized")
	}
	if role == "" {
		role = "owner"
	}
	if _, err := DB.Exec("INSERT OR IGNORE INTO workspace_members (workspace_id, user_id, role) VALUES (?, ?, ?)", workspaceID, userID, role); err != nil {
		logger.Error("AddWorkspaceMember: Error adding user %s to workspace %s: %v", userID, workspaceID, err)
		return fmt.Errorf("adding workspace member: %w", err)
	}
	return nil
}

// GetWorkspaceForUser resolves the workspace a user belongs to. Users
// belong to exactly one workspace today; the earliest membership wins.
func GetWorkspaceForUser(userID string) (models.Workspace, error) {
	var workspace models.Workspace
	if DB == nil {
		return workspace, errors.New("database connection is not initialized")
	}
	err := DB.QueryRow(`
		SELECT w.id, w.name, w.created_at
		FROM workspaces w
		JOIN workspace_members m ON w.id = m.workspace_id
		WHERE m.user_id = ?
		ORDER BY m.created_at ASC
		LIMIT 1
	`, userID).Scan(&workspace.ID, &workspace.Name, &workspace.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return workspace, fmt.Errorf("workspace for user %s: %w", userID, ErrNotFound)
		}
		return workspace, fmt.Errorf("querying workspace for user %s: %w", userID, err)
	}
	return workspace, nil
}

// IsWorkspaceMember reports whether the user belongs to the workspace.
func IsWorkspaceMember(workspaceID, userID string) (bool, error) {
	if DB == nil {
		return false, errors.New("database connection is not initialized")
	}
	var one int
	err := DB.QueryRow("SELECT 1 FROM workspace_members WHERE workspace_id = ? AND user_id = ?", workspaceID, userID).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("checking workspace membership: %w", err)
	}
	return true, nil
}
