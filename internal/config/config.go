package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration values.
type Config struct {
	// Backend API
	ServerURL      string        `yaml:"server_url"`
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// Identity provider (OAuth2 authorization code flow)
	AuthURL     string `yaml:"auth_url"`
	TokenURL    string `yaml:"token_url"`
	ClientID    string `yaml:"client_id"`
	RedirectURL string `yaml:"redirect_url"`

	// Local state
	StorageDir string `yaml:"storage_dir"`

	// List view
	SearchDebounce time.Duration `yaml:"search_debounce"`

	// Logging
	LogFile  string     `yaml:"log_file"`
	LogLevel slog.Level `yaml:"-"`
}

// Load reads configuration from an optional YAML file, then overlays
// environment variables. Defaults match the original web client: 5 minute
// timeout for large uploads, 300 ms search debounce.
func Load() Config {
	cfg := Config{
		ServerURL:      "http://localhost:8000",
		RequestTimeout: 5 * time.Minute,
		AuthURL:        "http://localhost:8080/realms/laudos/protocol/openid-connect/auth",
		TokenURL:       "http://localhost:8080/realms/laudos/protocol/openid-connect/token",
		ClientID:       "laudos-client",
		RedirectURL:    "http://localhost:8765/callback",
		StorageDir:     defaultStorageDir(),
		SearchDebounce: 300 * time.Millisecond,
		LogFile:        "/tmp/laudos.log",
		LogLevel:       slog.LevelInfo,
	}

	if path := configFilePath(); path != "" {
		if data, err := os.ReadFile(path); err == nil {
			// A broken config file falls back to defaults rather than
			// blocking the CLI; the problem surfaces in the log.
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				slog.Warn("ignoring invalid config file", "path", path, "error", err)
			}
		}
	}

	cfg.ServerURL = getEnv("LAUDOS_SERVER_URL", cfg.ServerURL)
	cfg.AuthURL = getEnv("LAUDOS_AUTH_URL", cfg.AuthURL)
	cfg.TokenURL = getEnv("LAUDOS_TOKEN_URL", cfg.TokenURL)
	cfg.ClientID = getEnv("LAUDOS_CLIENT_ID", cfg.ClientID)
	cfg.RedirectURL = getEnv("LAUDOS_REDIRECT_URL", cfg.RedirectURL)
	cfg.StorageDir = getEnv("LAUDOS_STORAGE_DIR", cfg.StorageDir)
	cfg.LogFile = getEnv("LAUDOS_LOG_FILE", cfg.LogFile)
	cfg.LogLevel = parseLogLevel(getEnv("LAUDOS_LOG_LEVEL", "INFO"))

	if t := os.Getenv("LAUDOS_CLIENT_TIMEOUT"); t != "" {
		if d, err := time.ParseDuration(t); err == nil {
			cfg.RequestTimeout = d
		}
	}
	if t := os.Getenv("LAUDOS_SEARCH_DEBOUNCE"); t != "" {
		if d, err := time.ParseDuration(t); err == nil {
			cfg.SearchDebounce = d
		}
	}

	return cfg
}

// StorageFile returns the path of the durable key/value store.
func (c Config) StorageFile() string {
	return filepath.Join(c.StorageDir, "state.json")
}

func configFilePath() string {
	if p := os.Getenv("LAUDOS_CONFIG"); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "laudos", "config.yaml")
}

func defaultStorageDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".laudos"
	}
	return filepath.Join(dir, "laudos")
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
