package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/dshills/spotify-mcp/internal/config"
	"github.com/dshills/spotify-mcp/internal/logging"
	"github.com/dshills/spotify-mcp/internal/mcp"
	"github.com/dshills/spotify-mcp/internal/spotify"
	"github.com/dshills/spotify-mcp/internal/storage"
	"github.com/dshills/spotify-mcp/internal/tools"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	// SIGINT/SIGTERM cancel the root context so transports shut down cleanly
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// options holds values shared by the subcommands
type options struct {
	configFile string
	v          *viper.Viper
}

func newRootCmd() *cobra.Command {
	return newRootCommand(&options{v: config.NewViper()})
}

func newRootCommand(opts *options) *cobra.Command {
	root := &cobra.Command{
		Use:           "spotify-mcp",
		Short:         "MCP server for controlling Spotify",
		Long:          "spotify-mcp exposes the Spotify Web API as Model Context Protocol tools over stdio or HTTP.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "path to a config file (default: spotify-config.json in . or ~/.spotify-mcp)")
	flags.String("transport", config.TransportStdio, "transport to serve: stdio or http")
	flags.Int("port", config.DefaultPort, "HTTP listen port")
	flags.String("log-level", config.DefaultLogLevel, "log level: debug, info, warn, error")

	// BindPFlag only fails for a nil flag
	_ = opts.v.BindPFlag(config.KeyTransport, flags.Lookup("transport"))
	_ = opts.v.BindPFlag(config.KeyPort, flags.Lookup("port"))
	_ = opts.v.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level"))

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the MCP server (default)",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runServe(cmd, opts)
			},
		},
		&cobra.Command{
			Use:   "auth",
			Short: "Authorize access to your Spotify account",
			Long:  "Opens the Spotify consent page, waits for the redirect and stores the issued tokens.",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runAuth(cmd, opts)
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, args []string) {
				printVersion(cmd.OutOrStdout())
			},
		},
	)

	return root
}

func printVersion(w io.Writer) {
	_, _ = fmt.Fprintf(w, "Spotify MCP Server\n")
	_, _ = fmt.Fprintf(w, "Version: %s\n", version)
	_, _ = fmt.Fprintf(w, "Build Time: %s\n", buildTime)
	_, _ = fmt.Fprintf(w, "Build Mode: %s\n", storage.BuildMode)
	_, _ = fmt.Fprintf(w, "SQLite Driver: %s\n", storage.DriverName)
}

// loadConfig resolves .env, the config file, environment and flags
func loadConfig(opts *options) (*config.Config, error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, err
	}
	if err := config.ReadConfigFile(opts.v, opts.configFile); err != nil {
		return nil, err
	}
	return config.Load(opts.v)
}

// openStore opens the token database at the configured path
func openStore(cfg *config.Config) (*storage.SQLiteStorage, error) {
	store, err := storage.NewSQLiteStorage(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open token store: %w", err)
	}
	return store, nil
}

func runServe(cmd *cobra.Command, opts *options) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	// stdout is reserved for the stdio transport; zap writes to stderr
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Spotify MCP Server starting",
		zap.String("version", version),
		zap.String("transport", cfg.Transport),
		zap.String("build_mode", storage.BuildMode),
		zap.String("driver", storage.DriverName),
		zap.String("config_file", cfg.ConfigFile))

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	seeded, err := spotify.SeedToken(ctx, store, storage.DefaultAccount, cfg.AccessToken, cfg.RefreshToken)
	if err != nil {
		logger.Warn("failed to seed token from configuration", zap.Error(err))
	} else if seeded {
		logger.Info("seeded token store from configuration")
	}

	if err := cfg.RequireCredentials(); err != nil {
		logger.Warn("Spotify tools will fail until credentials are configured", zap.Error(err))
	}

	conn := spotify.NewConnector(spotify.ConnectorConfig{
		OAuth:    spotify.OAuthConfig(cfg.ClientID, cfg.ClientSecret, cfg.RedirectURI),
		Store:    store,
		Account:  storage.DefaultAccount,
		Timeout:  cfg.RequestTimeout,
		Logger:   logger.Named("spotify"),
		Validate: cfg.RequireCredentials,
	})
	defer func() { _ = conn.Close() }()

	server := mcp.NewServer(tools.SpotifyConnector(conn), logger.Named("mcp"))

	switch cfg.Transport {
	case config.TransportHTTP:
		err = server.ListenAndServeHTTP(ctx, cfg.Addr())
	default:
		err = server.ServeStdio(ctx, os.Stdin, os.Stdout)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	logger.Info("server stopped")
	return nil
}

func runAuth(cmd *cobra.Command, opts *options) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	if err := cfg.RequireCredentials(); err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	auth := &spotify.Authorizer{
		Config:      spotify.OAuthConfig(cfg.ClientID, cfg.ClientSecret, cfg.RedirectURI),
		Store:       store,
		Account:     storage.DefaultAccount,
		Logger:      logger,
		Out:         cmd.ErrOrStderr(),
		OpenBrowser: openBrowser,
	}
	if _, err := auth.Run(cmd.Context()); err != nil {
		return fmt.Errorf("authorization failed: %w", err)
	}
	return nil
}

func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}
