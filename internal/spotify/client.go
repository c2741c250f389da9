package spotify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// DefaultBaseURL is the Spotify Web API root
const DefaultBaseURL = "https://api.spotify.com/v1"

// maxResponseBytes bounds how much of a response body is read
const maxResponseBytes = 8 << 20

// Client is a typed Spotify Web API client. The underlying http.Client is
// expected to add authorization, typically an oauth2 transport.
type Client struct {
	httpClient *http.Client
	baseURL    string
	retry      RetryConfig
	cache      *CatalogCache
	logger     *zap.Logger
}

// Option configures a Client
type Option func(*Client)

// WithBaseURL overrides the API root, used by tests
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithRetryConfig overrides the retry policy
func WithRetryConfig(cfg RetryConfig) Option {
	return func(c *Client) {
		c.retry = cfg
	}
}

// WithCache sets the catalog cache shared between clients
func WithCache(cache *CatalogCache) Option {
	return func(c *Client) {
		c.cache = cache
	}
}

// WithLogger sets the logger for request tracing
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a client on top of an authenticated http.Client
func NewClient(httpClient *http.Client, opts ...Option) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	c := &Client{
		httpClient: httpClient,
		baseURL:    DefaultBaseURL,
		retry:      DefaultRetryConfig(),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.cache == nil {
		c.cache = NewCatalogCache(DefaultFeatureCacheSize, DefaultGenreSeedTTL)
	}
	return c
}

// Close releases idle connections
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// get issues a GET and decodes the body into out. It returns ErrNoContent
// when the API answers 204.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	status, err := c.do(ctx, http.MethodGet, path, query, nil, out)
	if err != nil {
		return err
	}
	if status == http.StatusNoContent {
		return ErrNoContent
	}
	return nil
}

func (c *Client) put(ctx context.Context, path string, query url.Values, body any) error {
	_, err := c.do(ctx, http.MethodPut, path, query, body, nil)
	return err
}

func (c *Client) post(ctx context.Context, path string, query url.Values, body, out any) error {
	_, err := c.do(ctx, http.MethodPost, path, query, body, out)
	return err
}

func (c *Client) delete(ctx context.Context, path string, query url.Values, body any) error {
	_, err := c.do(ctx, http.MethodDelete, path, query, body, nil)
	return err
}

// do sends a request with retry and decodes a non-empty 2xx body into out
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) (int, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("marshal request: %w", err)
		}
	}

	start := time.Now()
	status, err := retryWithBackoff(ctx, c.retry, method, func() (int, error) {
		return c.send(ctx, method, endpoint, payload, out)
	})
	c.logger.Debug("spotify request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", status),
		zap.Duration("duration", time.Since(start)),
		zap.Error(err))
	return status, err
}

func (c *Client) send(ctx context.Context, method, endpoint string, payload []byte, out any) (int, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// The accounts service refused the refresh token
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			return 0, fmt.Errorf("%w (%v)", ErrNotAuthenticated, retrieveErr)
		}
		return 0, fmt.Errorf("api call: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return resp.StatusCode, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, newAPIError(resp, data)
	}

	if out != nil && len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

// pageQuery builds limit/offset parameters, skipping zero values
func pageQuery(limit, offset int) url.Values {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", fmt.Sprint(limit))
	}
	if offset > 0 {
		q.Set("offset", fmt.Sprint(offset))
	}
	return q
}

func deviceQuery(deviceID string) url.Values {
	q := url.Values{}
	if deviceID != "" {
		q.Set("device_id", deviceID)
	}
	return q
}

func escape(id string) string {
	return url.PathEscape(id)
}
