package spotify

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrNotAuthenticated is returned when no OAuth token has been stored yet
	ErrNotAuthenticated = errors.New("not authenticated with Spotify: run `spotify-mcp auth` first")

	// ErrNoContent is returned when an endpoint answered 204 where a body was expected
	ErrNoContent = errors.New("spotify returned no content")
)

// APIError is a non-2xx response from the Web API
type APIError struct {
	StatusCode int
	Message    string
	Reason     string        // player errors carry e.g. NO_ACTIVE_DEVICE
	RetryAfter time.Duration // set on 429 responses
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if e.Reason != "" {
		return fmt.Sprintf("spotify api error %d: %s (%s)", e.StatusCode, msg, e.Reason)
	}
	return fmt.Sprintf("spotify api error %d: %s", e.StatusCode, msg)
}

// IsStatus reports whether err is an APIError with the given status code
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}

// newAPIError builds an APIError from a response body. Spotify uses
// {"error":{"status":..,"message":..}} for the Web API and
// {"error":"..","error_description":".."} for the accounts service.
func newAPIError(resp *http.Response, body []byte) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var regular struct {
		Error struct {
			Status  int    `json:"status"`
			Message string `json:"message"`
			Reason  string `json:"reason"`
		} `json:"error"`
	}
	var auth struct {
		Error       string `json:"error"`
		Description string `json:"error_description"`
	}

	switch {
	case json.Unmarshal(body, &regular) == nil && regular.Error.Message != "":
		apiErr.Message = regular.Error.Message
		apiErr.Reason = regular.Error.Reason
	case json.Unmarshal(body, &auth) == nil && auth.Error != "":
		apiErr.Message = auth.Error
		if auth.Description != "" {
			apiErr.Message += ": " + auth.Description
		}
	default:
		apiErr.Message = strings.TrimSpace(string(body))
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		apiErr.RetryAfter = parseRetryAfter(resp.Header.Get("Retry-After"))
	}
	return apiErr
}

func parseRetryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}
