package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv makes sure the developer's shell does not leak into the tests
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range env {
		t.Setenv(name, "")
		require.NoError(t, os.Unsetenv(name))
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(NewViper())
	require.NoError(t, err)

	assert.Equal(t, TransportStdio, cfg.Transport)
	assert.Equal(t, DefaultHost, cfg.Host)
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, DefaultRedirectURI, cfg.RedirectURI)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, DefaultDBPath, cfg.DBPath)
	assert.Equal(t, DefaultRequestTimeout, cfg.RequestTimeout)
	assert.Empty(t, cfg.ConfigFile)
	assert.Equal(t, "0.0.0.0:8080", cfg.Addr())
}

func TestLoad_Environment(t *testing.T) {
	clearEnv(t)
	t.Setenv("SPOTIFY_CLIENT_ID", "id")
	t.Setenv("SPOTIFY_CLIENT_SECRET", "secret")
	t.Setenv("MCP_TRANSPORT", "HTTP")
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SPOTIFY_REQUEST_TIMEOUT", "5s")

	cfg, err := Load(NewViper())
	require.NoError(t, err)

	assert.Equal(t, "id", cfg.ClientID)
	assert.Equal(t, "secret", cfg.ClientSecret)
	assert.Equal(t, TransportHTTP, cfg.Transport)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.NoError(t, cfg.RequireCredentials())
}

func TestLoad_LegacyConfigFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "spotify-config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"clientId": "file-id",
		"clientSecret": "file-secret",
		"redirectUri": "http://127.0.0.1:8888/callback",
		"accessToken": "at",
		"refreshToken": "rt"
	}`), 0o600))

	v := NewViper()
	require.NoError(t, ReadConfigFile(v, path))

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "file-id", cfg.ClientID)
	assert.Equal(t, "file-secret", cfg.ClientSecret)
	assert.Equal(t, "at", cfg.AccessToken)
	assert.Equal(t, "rt", cfg.RefreshToken)
	assert.Equal(t, path, cfg.ConfigFile)
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("SPOTIFY_CLIENT_ID", "env-id")

	path := filepath.Join(t.TempDir(), "spotify-config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"clientId": "file-id"}`), 0o600))

	v := NewViper()
	require.NoError(t, ReadConfigFile(v, path))

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "env-id", cfg.ClientID)
}

func TestReadConfigFile_ExplicitMissing(t *testing.T) {
	err := ReadConfigFile(NewViper(), filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestReadConfigFile_SearchMissingIsNotAnError(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	assert.NoError(t, ReadConfigFile(NewViper(), ""))
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Transport:      TransportStdio,
			Port:           8080,
			RequestTimeout: time.Second,
			DBPath:         "x.db",
		}
	}

	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad transport", func(c *Config) { c.Transport = "sse" }},
		{"port zero", func(c *Config) { c.Port = 0 }},
		{"port too large", func(c *Config) { c.Port = 70000 }},
		{"zero timeout", func(c *Config) { c.RequestTimeout = 0 }},
		{"empty db path", func(c *Config) { c.DBPath = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestRequireCredentials(t *testing.T) {
	cfg := &Config{RedirectURI: DefaultRedirectURI}

	err := cfg.RequireCredentials()
	require.ErrorIs(t, err, ErrMissingCredentials)
	assert.Contains(t, err.Error(), "SPOTIFY_CLIENT_ID")
	assert.Contains(t, err.Error(), "SPOTIFY_CLIENT_SECRET")
	assert.NotContains(t, err.Error(), "SPOTIFY_REDIRECT_URI")
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("SPOTIFY_CLIENT_ID=dotenv-id\nPORT=7000\n"), 0o600))
	t.Setenv("PORT", "7100")

	require.NoError(t, LoadDotEnv(path, filepath.Join(t.TempDir(), "missing.env")))
	t.Cleanup(func() { _ = os.Unsetenv("SPOTIFY_CLIENT_ID") })

	cfg, err := Load(NewViper())
	require.NoError(t, err)
	assert.Equal(t, "dotenv-id", cfg.ClientID)
	assert.Equal(t, 7100, cfg.Port, "existing environment wins over .env")
}
