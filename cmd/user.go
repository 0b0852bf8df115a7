package cmd

import (
	"fmt"
	"time"

	"pickle/config"
	"pickle/core"
	"pickle/database"
	"pickle/logger"
	"pickle/models"

	"github.com/spf13/cobra"
)

var (
	userEmailFlag string
	userNameFlag  string
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage local user accounts",
}

var userAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a user with a personal workspace",
	RunE: func(cmd *cobra.Command, args []string) error {
		if userEmailFlag == "" {
			return fmt.Errorf("--email is required")
		}
		name := userNameFlag
		if name == "" {
			name = userEmailFlag
		}

		user, err := database.CreateUser(models.User{Email: userEmailFlag, DisplayName: name})
		if err != nil {
			return fmt.Errorf("creating user: %w", err)
		}
		workspace, err := database.CreateWorkspace(models.Workspace{Name: name + "'s workspace"})
		if err != nil {
			return fmt.Errorf("creating workspace: %w", err)
		}
		if err := database.AddWorkspaceMember(workspace.ID, user.ID, "owner"); err != nil {
			return fmt.Errorf("adding workspace membership: %w", err)
		}

		logger.Info("Created user %s (%s) with workspace %s", user.ID, user.Email, workspace.ID)
		fmt.Printf("user:      %s\nemail:     %s\nworkspace: %s\n", user.ID, user.Email, workspace.ID)
		return nil
	},
}

var userTokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint an access token for a user and record it in the extension session state file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if userEmailFlag == "" {
			return fmt.Errorf("--email is required")
		}
		user, err := database.GetUserByEmail(userEmailFlag)
		if err != nil {
			return fmt.Errorf("looking up user %s: %w", userEmailFlag, err)
		}

		auth := core.NewAuthService(
			time.Duration(config.AppConfig.Auth.SessionTTLHours)*time.Hour,
			time.Duration(config.AppConfig.Auth.HandoffCodeTTLSecs)*time.Second,
		)
		session, err := auth.IssueSession(user.ID)
		if err != nil {
			return fmt.Errorf("issuing session: %w", err)
		}

		sessionState, err := core.NewSessionRepo(config.AppConfig.Capture.SessionStatePath)
		if err != nil {
			logger.Warn("Could not open session state file, token not recorded there: %v", err)
		} else {
			sessionState.Set(session)
		}

		fmt.Printf("access_token:  %s\nrefresh_token: %s\nexpires_at:    %s\n",
			session.AccessToken, session.RefreshToken, session.ExpiresAt.Format(time.RFC3339))
		return nil
	},
}

func init() {
	userCmd.PersistentFlags().StringVar(&userEmailFlag, "email", "", "user email address")
	userAddCmd.Flags().StringVar(&userNameFlag, "name", "", "display name (defaults to email)")
	userCmd.AddCommand(userAddCmd)
	userCmd.AddCommand(userTokenCmd)
	rootCmd.AddCommand(userCmd)
}
