package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"pickle/logger"

	"github.com/spf13/viper"
)

type DefaultPaths struct {
	ConfigDir        string
	SessionStatePath string
	LogPathApp       string
	LogPathCapture   string
	DBPath           string
	AssetsDir        string
	StaticDir        string
	LogLevel         string
}

type Configuration struct {
	Database struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"database"`
	Server struct {
		Port      string `mapstructure:"port"`
		LogPath   string `mapstructure:"log_path"`
		StaticDir string `mapstructure:"static_dir"`
		BaseURL   string `mapstructure:"base_url"`
	} `mapstructure:"server"`
	Storage struct {
		AssetsDir string `mapstructure:"assets_dir"`
	} `mapstructure:"storage"`
	Auth struct {
		CookieName         string `mapstructure:"cookie_name"`
		SessionTTLHours    int    `mapstructure:"session_ttl_hours"`
		HandoffCodeTTLSecs int    `mapstructure:"handoff_code_ttl_secs"`
		AllowTokenInQuery  bool   `mapstructure:"allow_token_in_query"`
	} `mapstructure:"auth"`
	Capture struct {
		LogPath             string `mapstructure:"log_path"`
		SessionStatePath    string `mapstructure:"session_state_path"`
		OverlayTimeoutSecs  int    `mapstructure:"overlay_timeout_secs"`
		MetadataTimeoutSecs int    `mapstructure:"metadata_timeout_secs"`
		FetchTimeoutSecs    int    `mapstructure:"fetch_timeout_secs"`
	} `mapstructure:"capture"`
	Logging struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"logging"`
}

var AppConfig Configuration

func expandTilde(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}

func GetDefaultConfigPaths() DefaultPaths {
	var paths DefaultPaths
	userConfigDirBase, err := os.UserConfigDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not get user config dir: %v. Using current directory.\n", err)
		userConfigDirBase = "."
	}

	userConfigDir, err := expandTilde(userConfigDirBase)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not expand tilde in user config dir '%s': %v. Using potentially literal path.\n", userConfigDirBase, err)
		userConfigDir = userConfigDirBase
	}

	paths.ConfigDir = filepath.Join(userConfigDir, "pickle")
	logDir := filepath.Join(paths.ConfigDir, "logs")

	paths.SessionStatePath = filepath.Join(paths.ConfigDir, "session.json")
	paths.LogPathApp = filepath.Join(logDir, "app.log")
	paths.LogPathCapture = filepath.Join(logDir, "capture.log")
	paths.DBPath = filepath.Join(paths.ConfigDir, "pickle.db")
	paths.AssetsDir = filepath.Join(paths.ConfigDir, "assets")
	paths.StaticDir = "./static"
	paths.LogLevel = "INFO"
	return paths
}

func Init(cfgFile string, flagAppLogPath, flagCaptureLogPath, flagLogLevel string) error {
	v := viper.New()

	defaults := GetDefaultConfigPaths()
	v.SetDefault("database.path", defaults.DBPath)
	v.SetDefault("server.port", "8484")
	v.SetDefault("server.log_path", defaults.LogPathApp)
	v.SetDefault("server.static_dir", defaults.StaticDir)
	v.SetDefault("server.base_url", "http://localhost:8484")
	v.SetDefault("storage.assets_dir", defaults.AssetsDir)
	v.SetDefault("auth.cookie_name", "pickle_session")
	v.SetDefault("auth.session_ttl_hours", 24*30)
	v.SetDefault("auth.handoff_code_ttl_secs", 60)
	// Raw tokens in the sync URL are visible in browser history; the
	// one-time code flow is preferred but the direct flow stays on by
	// default for extension compatibility.
	v.SetDefault("auth.allow_token_in_query", true)
	v.SetDefault("capture.log_path", defaults.LogPathCapture)
	v.SetDefault("capture.session_state_path", defaults.SessionStatePath)
	v.SetDefault("capture.overlay_timeout_secs", 5)
	v.SetDefault("capture.metadata_timeout_secs", 10)
	v.SetDefault("capture.fetch_timeout_secs", 15)
	v.SetDefault("logging.level", defaults.LogLevel)

	if cfgFile != "" {
		expandedCfgFile, err := expandTilde(cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Could not expand tilde in config file path '%s': %v. Trying original path.\n", cfgFile, err)
			expandedCfgFile = cfgFile
		}
		v.SetConfigFile(expandedCfgFile)
		v.SetConfigType("yaml")
	} else {
		v.AddConfigPath(defaults.ConfigDir)
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.AutomaticEnv()
	v.SetEnvPrefix("PICKLE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	configUsedMsg := "Using default/environment configuration."
	readErr := v.ReadInConfig()
	if readErr == nil {
		configUsedMsg = fmt.Sprintf("Using config file: %s", v.ConfigFileUsed())
	} else {
		if _, ok := readErr.(viper.ConfigFileNotFoundError); ok {
			if cfgFile != "" {
				fmt.Fprintf(os.Stderr, "Warning: Config file specified by flag (%s) not found: %v\n", cfgFile, readErr)
			} else {
				fmt.Fprintln(os.Stderr, "No default config file found. Using defaults/environment variables.")
			}
		} else {
			fmt.Fprintf(os.Stderr, "Error reading config file %s: %v\n", v.ConfigFileUsed(), readErr)
		}
	}

	if err := v.Unmarshal(&AppConfig); err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL: Error unmarshalling configuration: %v\n", err)
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}

	// Apply flag overrides
	if flagAppLogPath != "" {
		expandedPath, err := expandTilde(flagAppLogPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Could not expand tilde in --app-log path '%s': %v. Using original path.\n", flagAppLogPath, err)
			AppConfig.Server.LogPath = flagAppLogPath
		} else {
			AppConfig.Server.LogPath = expandedPath
		}
	}
	if flagCaptureLogPath != "" {
		expandedPath, err := expandTilde(flagCaptureLogPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Could not expand tilde in --capture-log path '%s': %v. Using original path.\n", flagCaptureLogPath, err)
			AppConfig.Capture.LogPath = flagCaptureLogPath
		} else {
			AppConfig.Capture.LogPath = expandedPath
		}
	}
	if flagLogLevel != "" {
		AppConfig.Logging.Level = strings.ToUpper(flagLogLevel)
	}

	// Expand tilde for paths read from config that might contain it
	var err error
	AppConfig.Database.Path, err = expandTilde(AppConfig.Database.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not expand tilde in database.path '%s': %v.\n", AppConfig.Database.Path, err)
	}
	AppConfig.Storage.AssetsDir, err = expandTilde(AppConfig.Storage.AssetsDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not expand tilde in storage.assets_dir '%s': %v.\n", AppConfig.Storage.AssetsDir, err)
	}
	AppConfig.Capture.SessionStatePath, err = expandTilde(AppConfig.Capture.SessionStatePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not expand tilde in capture.session_state_path '%s': %v.\n", AppConfig.Capture.SessionStatePath, err)
	}

	// Ensure directories exist
	if err := os.MkdirAll(filepath.Dir(AppConfig.Server.LogPath), 0750); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not create final app log directory %s: %v\n", filepath.Dir(AppConfig.Server.LogPath), err)
	}
	if err := os.MkdirAll(filepath.Dir(AppConfig.Capture.LogPath), 0750); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not create final capture log directory %s: %v\n", filepath.Dir(AppConfig.Capture.LogPath), err)
	}
	if err := os.MkdirAll(AppConfig.Storage.AssetsDir, 0750); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not create assets directory %s: %v\n", AppConfig.Storage.AssetsDir, err)
	}
	if err := os.MkdirAll(defaults.ConfigDir, 0750); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not create main config directory %s: %v\n", defaults.ConfigDir, err)
	}

	// Initialize/Re-initialize loggers
	if err := logger.InitGlobalLoggers(AppConfig.Server.LogPath, AppConfig.Capture.LogPath, AppConfig.Logging.Level); err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL: Failed to initialize global loggers with final config: %v\n", err)
		return fmt.Errorf("failed to initialize global loggers with final config: %w", err)
	}

	logger.Info(configUsedMsg)
	if readErr != nil && cfgFile != "" {
		logger.Error("Error occurred reading specified config file '%s': %v", cfgFile, readErr)
	}
	if flagAppLogPath != "" || flagCaptureLogPath != "" || flagLogLevel != "" {
		logger.Info("Log path/level flags may have overridden config file/defaults.")
	}

	if AppConfig.Auth.AllowTokenInQuery {
		logger.Warn("Session sync accepts raw tokens via query parameters. Prefer one-time hand-off codes.")
	}

	logger.Debug("Final AppConfig Initialized: %+v", AppConfig)
	return nil
}
