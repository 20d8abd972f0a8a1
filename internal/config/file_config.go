package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// File is the on-disk YAML layout. Empty values fall back to the
// environment defaults.
type File struct {
	AppName   string      `yaml:"app_name"`
	APIURL    string      `yaml:"api_url"`
	TokenFile string      `yaml:"token_file"`
	Env       string      `yaml:"env"`
	Logging   LoggingFile `yaml:"logging"`
	Client    ClientFile  `yaml:"client"`
}

type LoggingFile struct {
	Level string `yaml:"level"`
}

type ClientFile struct {
	RequestTimeout    time.Duration `yaml:"-"`
	RequestTimeoutRaw string        `yaml:"request_timeout"`
	DefaultSection    string        `yaml:"default_section"`
}

type fileConfig struct {
	base Config
	file File
}

var _ Config = fileConfig{}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Load reads a YAML config file, expanding ${VAR_NAME} references from the
// environment before parsing.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal([]byte(expandEnvVars(string(data))), &f); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if f.Client.RequestTimeoutRaw != "" {
		f.Client.RequestTimeout, err = time.ParseDuration(f.Client.RequestTimeoutRaw)
		if err != nil {
			return nil, fmt.Errorf("parsing request_timeout %q: %w", f.Client.RequestTimeoutRaw, err)
		}
		if f.Client.RequestTimeout <= 0 {
			return nil, fmt.Errorf("request_timeout must be positive, got %s", f.Client.RequestTimeout)
		}
	}

	return fileConfig{base: New(), file: f}, nil
}

func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(envVarPattern.FindStringSubmatch(match)[1])
	})
}

func (c fileConfig) GetAppName() string {
	return orDefault(c.file.AppName, c.base.GetAppName())
}

func (c fileConfig) GetAPIURL() string {
	return strings.TrimRight(orDefault(c.file.APIURL, c.base.GetAPIURL()), "/")
}

func (c fileConfig) GetTokenFile() string {
	return orDefault(c.file.TokenFile, c.base.GetTokenFile())
}

func (c fileConfig) GetLogLevel() string {
	return orDefault(c.file.Logging.Level, c.base.GetLogLevel())
}

func (c fileConfig) GetEnv() string {
	return orDefault(c.file.Env, c.base.GetEnv())
}

func (c fileConfig) GetRequestTimeout() time.Duration {
	if c.file.Client.RequestTimeout > 0 {
		return c.file.Client.RequestTimeout
	}
	return c.base.GetRequestTimeout()
}

func (c fileConfig) GetDefaultSection() string {
	return orDefault(c.file.Client.DefaultSection, c.base.GetDefaultSection())
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
