package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/spotify-mcp/internal/config"
)

func TestRootCommandHasSubcommands(t *testing.T) {
	root := newRootCmd()

	for _, name := range []string{"serve", "auth", "version"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, cmd.Name())
	}
}

func TestVersionCommand(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})

	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "Spotify MCP Server")
	assert.Contains(t, out.String(), "Version: dev")
	assert.Contains(t, out.String(), "SQLite Driver:")
}

func TestFlagsOverrideConfig(t *testing.T) {
	t.Setenv("MCP_TRANSPORT", "")
	t.Setenv("PORT", "")
	t.Setenv("LOG_LEVEL", "")

	opts := &options{v: config.NewViper()}
	root := newRootCommand(opts)
	require.NoError(t, root.ParseFlags([]string{"--transport", "http", "--port", "9090", "--log-level", "debug"}))

	cfg, err := config.Load(opts.v)
	require.NoError(t, err)
	assert.Equal(t, config.TransportHTTP, cfg.Transport)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestFlagDefaults(t *testing.T) {
	t.Setenv("MCP_TRANSPORT", "")
	t.Setenv("PORT", "")

	opts := &options{v: config.NewViper()}
	newRootCommand(opts)

	cfg, err := config.Load(opts.v)
	require.NoError(t, err)
	assert.Equal(t, config.TransportStdio, cfg.Transport)
	assert.Equal(t, config.DefaultPort, cfg.Port)
}

func TestAuthRequiresCredentials(t *testing.T) {
	t.Setenv("SPOTIFY_CLIENT_ID", "")
	t.Setenv("SPOTIFY_CLIENT_SECRET", "")
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	root := newRootCmd()
	root.SetArgs([]string{"auth"})
	err := root.Execute()
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrMissingCredentials)
}
