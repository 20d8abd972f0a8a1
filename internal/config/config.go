package config

import "time"

type Config interface {
	EnvConfig
	ClientConfig
}

type EnvConfig interface {
	GetAppName() string
	GetAPIURL() string
	GetTokenFile() string
	GetLogLevel() string
	GetEnv() string
}

type ClientConfig interface {
	GetRequestTimeout() time.Duration
	GetDefaultSection() string
}

type mainConfig struct {
	EnvVars
	Client
}

func New() Config {
	return mainConfig{}
}

// Resolve returns the file-backed config when PORTFOLIO_CONFIG points at a
// YAML file, and the environment-only config otherwise.
func Resolve() (Config, error) {
	path := GetEnv(configFileVar, "")
	if path == "" {
		return New(), nil
	}
	return Load(path)
}
