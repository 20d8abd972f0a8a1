package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/appadook/full-stack-portfolio/internal/config"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "admin.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestNew_Defaults(t *testing.T) {
	t.Setenv("PORTFOLIO_API_URL", "")
	t.Setenv("PORTFOLIO_TOKEN_FILE", "")
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	t.Setenv("ENV", "")

	c := config.New()
	require.Equal(t, "http://localhost:8000", c.GetAPIURL())
	require.Equal(t, "/tmp/xdg/portfolio/tokens.json", c.GetTokenFile())
	require.Equal(t, "DEV", c.GetEnv())
	require.Equal(t, 15*time.Second, c.GetRequestTimeout())
	require.Equal(t, "dashboard", c.GetDefaultSection())
}

func TestNew_EnvOverrides(t *testing.T) {
	t.Setenv("PORTFOLIO_API_URL", "https://api.example.com/")
	t.Setenv("PORTFOLIO_TOKEN_FILE", "/var/run/tokens.json")

	c := config.New()
	require.Equal(t, "https://api.example.com", c.GetAPIURL())
	require.Equal(t, "/var/run/tokens.json", c.GetTokenFile())
}

func TestLoad(t *testing.T) {
	t.Run("file values override env defaults", func(t *testing.T) {
		t.Setenv("TEST_PORTFOLIO_HOST", "cms.example.org")
		path := writeConfig(t, `
api_url: "https://${TEST_PORTFOLIO_HOST}/"
logging:
  level: debug
client:
  request_timeout: "3s"
  default_section: projects
`)
		c, err := config.Load(path)
		require.NoError(t, err)
		require.Equal(t, "https://cms.example.org", c.GetAPIURL())
		require.Equal(t, "debug", c.GetLogLevel())
		require.Equal(t, 3*time.Second, c.GetRequestTimeout())
		require.Equal(t, "projects", c.GetDefaultSection())
		require.Equal(t, "Portfolio Admin", c.GetAppName())
	})

	t.Run("invalid duration", func(t *testing.T) {
		path := writeConfig(t, "client:\n  request_timeout: soon\n")
		_, err := config.Load(path)
		require.Error(t, err)
		require.Contains(t, err.Error(), "request_timeout")
	})

	t.Run("non-positive duration", func(t *testing.T) {
		path := writeConfig(t, "client:\n  request_timeout: 0s\n")
		_, err := config.Load(path)
		require.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
	})
}

func TestResolve(t *testing.T) {
	t.Setenv("PORTFOLIO_CONFIG", "")
	c, err := config.Resolve()
	require.NoError(t, err)
	require.NotNil(t, c)

	path := writeConfig(t, "app_name: Studio\n")
	t.Setenv("PORTFOLIO_CONFIG", path)
	c, err = config.Resolve()
	require.NoError(t, err)
	require.Equal(t, "Studio", c.GetAppName())
}
