package config

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	appNameVar    = "APP_NAME"
	apiURLVar     = "PORTFOLIO_API_URL"
	tokenFileVar  = "PORTFOLIO_TOKEN_FILE"
	logLevelVar   = "LOG_LEVEL"
	configFileVar = "PORTFOLIO_CONFIG"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Portfolio Admin")
}

// GetAPIURL returns the base URL of the portfolio REST backend without a
// trailing slash (e.g., "https://api.example.com").
func (EnvVars) GetAPIURL() string {
	return strings.TrimRight(GetEnv(apiURLVar, "http://localhost:8000"), "/")
}

// GetTokenFile returns where the access/refresh token pair is persisted.
// Defaults to $XDG_CONFIG_HOME/portfolio/tokens.json.
func (EnvVars) GetTokenFile() string {
	if path := os.Getenv(tokenFileVar); path != "" {
		return path
	}
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(".", "tokens.json")
		}
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "portfolio", "tokens.json")
}

func (EnvVars) GetLogLevel() string {
	return GetEnv(logLevelVar, "info")
}

func (EnvVars) GetEnv() string {
	env := os.Getenv("ENV")
	if env == "" {
		return "DEV"
	}
	return env
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
