package cmd

import (
	"net/http"
	"time"

	"pickle/api"
	"pickle/api/router/handlers"
	"pickle/config"
	"pickle/core"
	"pickle/database"
	"pickle/logger"
	"pickle/messaging"
	"pickle/models"

	"github.com/spf13/cobra"
)

var standaloneServerPort string

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Starts the web UI, API server and capture message bridge",
	Run: func(cmd *cobra.Command, args []string) {
		portToUse := standaloneServerPort
		if portToUse == "" {
			portToUse = config.AppConfig.Server.Port
		}
		if portToUse == "" {
			portToUse = "8484"
		}

		logger.Info("Starting server on port %s...", portToUse)

		assets, err := core.NewAssetStore(config.AppConfig.Storage.AssetsDir)
		if err != nil {
			logger.Fatal("Could not initialize asset store: %v", err)
			return
		}

		dispatcher := messaging.NewDispatcher(messaging.Timeouts{
			OpenOverlay:  time.Duration(config.AppConfig.Capture.OverlayTimeoutSecs) * time.Second,
			GetMetadata:  time.Duration(config.AppConfig.Capture.MetadataTimeoutSecs) * time.Second,
			StartCapture: time.Duration(config.AppConfig.Capture.OverlayTimeoutSecs) * time.Second,
		})
		drafts := core.NewDraftStore()
		orchestrator := core.NewOrchestrator(drafts, messaging.NewClient(dispatcher))

		auth := core.NewAuthService(
			time.Duration(config.AppConfig.Auth.SessionTTLHours)*time.Hour,
			time.Duration(config.AppConfig.Auth.HandoffCodeTTLSecs)*time.Second,
		)

		sessionState, err := core.NewSessionRepo(config.AppConfig.Capture.SessionStatePath)
		if err != nil {
			logger.Fatal("Could not initialize session state file: %v", err)
			return
		}
		sessionState.OnChange(func(session *models.Session) {
			if session == nil {
				logger.Info("Extension session state cleared.")
				return
			}
			logger.Info("Extension session state updated for user %s (expires %s).", session.UserID, session.ExpiresAt.Format(time.RFC3339))
		})

		handlers.Configure(handlers.Config{
			Notes:             core.NewNoteService(assets),
			Auth:              auth,
			Orchestrator:      orchestrator,
			Drafts:            drafts,
			Dispatcher:        dispatcher,
			Assets:            assets,
			Fetcher:           core.NewPageMetaFetcher(time.Duration(config.AppConfig.Capture.FetchTimeoutSecs) * time.Second),
			CookieName:        config.AppConfig.Auth.CookieName,
			AllowTokenInQuery: config.AppConfig.Auth.AllowTokenInQuery,
		})

		// Expired sessions and hand-off codes accumulate otherwise.
		go func() {
			ticker := time.NewTicker(time.Hour)
			defer ticker.Stop()
			for range ticker.C {
				if err := database.PurgeExpiredSessions(time.Now().UTC()); err != nil {
					logger.Warn("Session purge failed: %v", err)
				}
			}
		}()

		staticFileDir := config.AppConfig.Server.StaticDir
		if staticFileDir == "" {
			staticFileDir = "./static"
		}
		fileServer := http.FileServer(http.Dir(staticFileDir))

		mainMux := http.NewServeMux()
		mainMux.Handle("/api/", http.StripPrefix("/api", api.NewRouter()))
		mainMux.Handle("/auth/", http.StripPrefix("/auth", api.NewAuthRouter()))
		mainMux.Handle("/", fileServer)

		logger.Info("API mounted under /api, session bridge under /auth, static files from %s.", staticFileDir)
		if err := http.ListenAndServe(":"+portToUse, mainMux); err != nil {
			logger.Fatal("Could not start server: %v", err)
		}
	},
}

func init() {
	serverCmd.Flags().StringVarP(&standaloneServerPort, "port", "p", "", "Port for the server to listen on (overrides config)")
	rootCmd.AddCommand(serverCmd)
}
