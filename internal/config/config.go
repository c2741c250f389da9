// Package config loads server configuration from flags, environment,
// an optional .env file and the legacy spotify-config.json file.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Transports
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Configuration keys. Credential keys keep the camelCase spelling used by
// spotify-config.json so that file can be read as-is.
const (
	KeyClientID       = "clientId"
	KeyClientSecret   = "clientSecret"
	KeyRedirectURI    = "redirectUri"
	KeyAccessToken    = "accessToken"
	KeyRefreshToken   = "refreshToken"
	KeyTransport      = "transport"
	KeyHost           = "host"
	KeyPort           = "port"
	KeyLogLevel       = "log_level"
	KeyDBPath         = "db_path"
	KeyRequestTimeout = "request_timeout"
)

// Defaults
const (
	DefaultRedirectURI    = "http://127.0.0.1:8888/callback"
	DefaultHost           = "0.0.0.0"
	DefaultPort           = 8080
	DefaultLogLevel       = "info"
	DefaultDBPath         = "~/.spotify-mcp/tokens.db"
	DefaultRequestTimeout = 30 * time.Second

	// LegacyConfigName is the base name of the JSON credentials file
	LegacyConfigName = "spotify-config"
)

var (
	// ErrMissingCredentials is returned when the Spotify app credentials are not configured
	ErrMissingCredentials = errors.New("spotify client credentials not configured")
)

// env maps configuration keys to environment variables
var env = map[string]string{
	KeyClientID:       "SPOTIFY_CLIENT_ID",
	KeyClientSecret:   "SPOTIFY_CLIENT_SECRET",
	KeyRedirectURI:    "SPOTIFY_REDIRECT_URI",
	KeyAccessToken:    "SPOTIFY_ACCESS_TOKEN",
	KeyRefreshToken:   "SPOTIFY_REFRESH_TOKEN",
	KeyTransport:      "MCP_TRANSPORT",
	KeyHost:           "HOST",
	KeyPort:           "PORT",
	KeyLogLevel:       "LOG_LEVEL",
	KeyDBPath:         "SPOTIFY_MCP_DB",
	KeyRequestTimeout: "SPOTIFY_REQUEST_TIMEOUT",
}

// Config holds server configuration
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string

	// AccessToken and RefreshToken seed the token store on first start
	AccessToken  string
	RefreshToken string

	Transport      string
	Host           string
	Port           int
	LogLevel       string
	DBPath         string
	RequestTimeout time.Duration

	// ConfigFile is the file the values were read from, empty if none
	ConfigFile string
}

// NewViper returns a viper instance with defaults and environment bindings applied.
func NewViper() *viper.Viper {
	v := viper.New()

	v.SetDefault(KeyRedirectURI, DefaultRedirectURI)
	v.SetDefault(KeyTransport, TransportStdio)
	v.SetDefault(KeyHost, DefaultHost)
	v.SetDefault(KeyPort, DefaultPort)
	v.SetDefault(KeyLogLevel, DefaultLogLevel)
	v.SetDefault(KeyDBPath, DefaultDBPath)
	v.SetDefault(KeyRequestTimeout, DefaultRequestTimeout)

	for key, name := range env {
		// BindEnv only fails when called without a key
		_ = v.BindEnv(key, name)
	}

	return v
}

// LoadDotEnv loads environment variables from the given .env files.
// Missing files are skipped and variables already set in the environment win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}
	return nil
}

// ReadConfigFile merges a config file into v. With an explicit path the file
// must exist; otherwise spotify-config.json is looked up in the working
// directory and ~/.spotify-mcp and silently skipped when absent.
func ReadConfigFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		return nil
	}

	v.SetConfigName(LegacyConfigName)
	v.SetConfigType("json")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.spotify-mcp")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

// Load builds a Config from v and validates it.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		ClientID:       strings.TrimSpace(v.GetString(KeyClientID)),
		ClientSecret:   strings.TrimSpace(v.GetString(KeyClientSecret)),
		RedirectURI:    strings.TrimSpace(v.GetString(KeyRedirectURI)),
		AccessToken:    strings.TrimSpace(v.GetString(KeyAccessToken)),
		RefreshToken:   strings.TrimSpace(v.GetString(KeyRefreshToken)),
		Transport:      strings.ToLower(strings.TrimSpace(v.GetString(KeyTransport))),
		Host:           strings.TrimSpace(v.GetString(KeyHost)),
		Port:           v.GetInt(KeyPort),
		LogLevel:       v.GetString(KeyLogLevel),
		DBPath:         v.GetString(KeyDBPath),
		RequestTimeout: v.GetDuration(KeyRequestTimeout),
		ConfigFile:     v.ConfigFileUsed(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the server settings. Credentials are checked separately
// by RequireCredentials because the server may start before auth has run.
func (c *Config) Validate() error {
	switch c.Transport {
	case TransportStdio, TransportHTTP:
	default:
		return fmt.Errorf("invalid transport %q: must be %q or %q", c.Transport, TransportStdio, TransportHTTP)
	}

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d: must be between 1 and 65535", c.Port)
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("invalid request timeout %s: must be positive", c.RequestTimeout)
	}

	if c.DBPath == "" {
		return fmt.Errorf("db path is required")
	}

	return nil
}

// RequireCredentials reports whether the Spotify application credentials are set.
func (c *Config) RequireCredentials() error {
	var missing []string
	if c.ClientID == "" {
		missing = append(missing, env[KeyClientID])
	}
	if c.ClientSecret == "" {
		missing = append(missing, env[KeyClientSecret])
	}
	if c.RedirectURI == "" {
		missing = append(missing, env[KeyRedirectURI])
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: set %s or %s.json", ErrMissingCredentials, strings.Join(missing, ", "), LegacyConfigName)
	}
	return nil
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// EnvName returns the environment variable bound to key.
func EnvName(key string) string {
	return env[key]
}
