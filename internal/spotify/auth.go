package spotify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/dshills/spotify-mcp/internal/storage"
)

// Spotify accounts service endpoints
const (
	AuthURL  = "https://accounts.spotify.com/authorize"
	TokenURL = "https://accounts.spotify.com/api/token"
)

// Scopes are the permissions requested during authorization
var Scopes = []string{
	"user-read-private",
	"user-read-email",
	"user-read-playback-state",
	"user-modify-playback-state",
	"user-read-currently-playing",
	"playlist-read-private",
	"playlist-modify-private",
	"playlist-modify-public",
	"user-library-read",
	"user-library-modify",
	"user-read-recently-played",
}

// TokenStore persists OAuth tokens per account
type TokenStore interface {
	SaveToken(ctx context.Context, account string, token *storage.Token) error
	LoadToken(ctx context.Context, account string) (*storage.Token, error)
}

// OAuthConfig returns the authorization code configuration for the Spotify accounts service
func OAuthConfig(clientID, clientSecret, redirectURI string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURI,
		Scopes:       Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:   AuthURL,
			TokenURL:  TokenURL,
			AuthStyle: oauth2.AuthStyleInHeader,
		},
	}
}

// ToStorage converts an oauth2 token into its persisted form
func ToStorage(tok *oauth2.Token) *storage.Token {
	scope, _ := tok.Extra("scope").(string)
	return &storage.Token{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenType:    tok.TokenType,
		Scope:        scope,
		Expiry:       tok.Expiry,
	}
}

// FromStorage converts a persisted token into an oauth2 token
func FromStorage(tok *storage.Token) *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenType:    tok.TokenType,
		Expiry:       tok.Expiry,
	}
}

// SeedToken stores tokens from legacy configuration when the store holds no
// token for account yet. Seeded tokens with a refresh token are marked expired
// so the first request refreshes them. It reports whether a token was written.
func SeedToken(ctx context.Context, store TokenStore, account, accessToken, refreshToken string) (bool, error) {
	if accessToken == "" && refreshToken == "" {
		return false, nil
	}
	_, err := store.LoadToken(ctx, account)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return false, fmt.Errorf("load token: %w", err)
	}

	tok := &storage.Token{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		Scope:        strings.Join(Scopes, " "),
	}
	if refreshToken != "" {
		tok.Expiry = time.Now().Add(-time.Minute)
	}
	if err := store.SaveToken(ctx, account, tok); err != nil {
		return false, fmt.Errorf("save token: %w", err)
	}
	return true, nil
}

// persistingTokenSource saves every newly issued token to the store
type persistingTokenSource struct {
	base    oauth2.TokenSource
	store   TokenStore
	account string
	logger  *zap.Logger

	mu   sync.Mutex
	last string
}

func newPersistingTokenSource(base oauth2.TokenSource, store TokenStore, account string, initial *oauth2.Token, logger *zap.Logger) *persistingTokenSource {
	return &persistingTokenSource{
		base:    base,
		store:   store,
		account: account,
		logger:  logger,
		last:    initial.AccessToken,
	}
}

func (s *persistingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.base.Token()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if tok.AccessToken == s.last {
		return tok, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.store.SaveToken(ctx, s.account, ToStorage(tok)); err != nil {
		// The token is still usable for this process
		s.logger.Warn("failed to persist refreshed token", zap.Error(err))
		return tok, nil
	}
	s.last = tok.AccessToken
	s.logger.Debug("persisted refreshed token", zap.Time("expiry", tok.Expiry))
	return tok, nil
}

// current reports whether stored is the token this source last saw
func (s *persistingTokenSource) current(stored *storage.Token) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return stored.AccessToken == s.last
}

// ConnectorConfig configures a Connector
type ConnectorConfig struct {
	OAuth   *oauth2.Config
	Store   TokenStore
	Account string
	Timeout time.Duration
	Logger  *zap.Logger

	// Validate, when set, is checked before each connection attempt
	Validate func() error

	// ClientOptions are applied to every Client created
	ClientOptions []Option
}

// Connector lazily builds an authenticated Client from the stored token.
// The stored token is checked on every call and the client is rebuilt when
// it was replaced by someone else, so running the auth command while the
// server is up takes effect without a restart.
type Connector struct {
	cfg   ConnectorConfig
	cache *CatalogCache

	mu     sync.Mutex
	client *Client
	source *persistingTokenSource
}

// NewConnector creates a Connector
func NewConnector(cfg ConnectorConfig) *Connector {
	if cfg.Account == "" {
		cfg.Account = storage.DefaultAccount
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Connector{
		cfg:   cfg,
		cache: NewCatalogCache(DefaultFeatureCacheSize, DefaultGenreSeedTTL),
	}
}

// Client returns the shared authenticated client, creating it on first use
// and whenever the stored token no longer matches the one it holds.
func (c *Connector) Client(ctx context.Context) (*Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cfg.Validate != nil {
		if err := c.cfg.Validate(); err != nil {
			return nil, err
		}
	}
	if c.cfg.OAuth == nil || c.cfg.Store == nil {
		return nil, ErrNotAuthenticated
	}

	stored, err := c.cfg.Store.LoadToken(ctx, c.cfg.Account)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.reset()
			return nil, ErrNotAuthenticated
		}
		return nil, fmt.Errorf("load token: %w", err)
	}

	if c.client != nil {
		if c.source.current(stored) {
			return c.client, nil
		}
		c.cfg.Logger.Info("stored token changed, rebuilding spotify client", zap.String("account", c.cfg.Account))
		c.reset()
	}

	initial := FromStorage(stored)
	base := c.cfg.OAuth.TokenSource(context.Background(), initial)
	c.source = newPersistingTokenSource(base, c.cfg.Store, c.cfg.Account, initial, c.cfg.Logger)

	httpClient := &http.Client{
		Transport: &oauth2.Transport{Source: oauth2.ReuseTokenSource(initial, c.source), Base: http.DefaultTransport},
		Timeout:   c.cfg.Timeout,
	}

	opts := append([]Option{WithCache(c.cache), WithLogger(c.cfg.Logger)}, c.cfg.ClientOptions...)
	c.client = NewClient(httpClient, opts...)
	c.cfg.Logger.Info("spotify client ready", zap.String("account", c.cfg.Account))
	return c.client, nil
}

// reset drops the cached client. Callers hold c.mu.
func (c *Connector) reset() {
	if c.client != nil {
		_ = c.client.Close()
	}
	c.client = nil
	c.source = nil
}

// Close releases the client's idle connections
func (c *Connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}
