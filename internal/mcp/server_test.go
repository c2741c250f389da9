package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/dshills/spotify-mcp/internal/spotify"
	"github.com/dshills/spotify-mcp/internal/tools"
)

var errNoAuth = errors.New("not authenticated")

func failingConnector() tools.Connector {
	return tools.ConnectorFunc(func(ctx context.Context) (tools.API, error) {
		return nil, errNoAuth
	})
}

// spotifyConnector serves a real client against a fake Web API
func spotifyConnector(t *testing.T) tools.Connector {
	t.Helper()
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/recommendations/available-genre-seeds" {
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, `{"genres":["jazz","rock"]}`)
			return
		}
		http.NotFound(w, r)
	}))
	t.Cleanup(api.Close)

	client := spotify.NewClient(api.Client(), spotify.WithBaseURL(api.URL))
	return tools.ConnectorFunc(func(ctx context.Context) (tools.API, error) {
		return client, nil
	})
}

type toolResult struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	IsError bool `json:"isError"`
}

func callTool(t *testing.T, s *Server, name string, args map[string]any) toolResult {
	t.Helper()
	req, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "tools/call",
		"params":  map[string]any{"name": name, "arguments": args},
	})
	require.NoError(t, err)

	resp := s.MCPServer().HandleMessage(context.Background(), req)
	raw, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded struct {
		Result toolResult `json:"result"`
	}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Len(t, decoded.Result.Content, 1)
	return decoded.Result
}

func TestNewServerRegistersAllTools(t *testing.T) {
	s := NewServer(failingConnector(), nil)

	registered := s.MCPServer().ListTools()
	assert.Len(t, registered, len(tools.All()))

	var names []string
	for _, tool := range s.Tools() {
		names = append(names, tool.Name())
		assert.Contains(t, registered, tool.Name())
	}
	assert.Equal(t, "searchSpotify", names[0])
	assert.Equal(t, "getGenreSeeds", names[len(names)-1])
	assert.Equal(t, 26, len(names))
}

func TestToolCallArgumentError(t *testing.T) {
	s := NewServer(failingConnector(), nil)

	res := callTool(t, s, "searchSpotify", map[string]any{"type": "track"})
	assert.True(t, res.IsError)
	assert.Equal(t, "Error: query is required", res.Content[0].Text)
}

func TestToolCallConnectorError(t *testing.T) {
	s := NewServer(failingConnector(), nil)

	res := callTool(t, s, "getGenreSeeds", nil)
	assert.True(t, res.IsError)
	assert.Equal(t, "Error fetching genre seeds: not authenticated", res.Content[0].Text)
}

func TestToolCallSuccess(t *testing.T) {
	s := NewServer(spotifyConnector(t), nil)

	res := callTool(t, s, "getGenreSeeds", nil)
	assert.False(t, res.IsError)
	assert.Equal(t, "# Available Genre Seeds (2 genres)\n\njazz, rock", res.Content[0].Text)
}

func TestToolCallsAreLogged(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	s := NewServer(failingConnector(), zap.New(core))

	callTool(t, s, "getGenreSeeds", nil)

	entries := logs.FilterMessage("tool returned error result").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "getGenreSeeds", fields["tool"])
	assert.Equal(t, "Error fetching genre seeds: not authenticated", fields["message"])
}

func TestHealthEndpoint(t *testing.T) {
	s := NewServer(failingConnector(), nil)
	ts := httptest.NewServer(s.HTTPHandler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + HealthPath)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, map[string]string{
		"status":  "healthy",
		"service": "spotify-mcp-server",
		"version": "1.0.0",
	}, body)
}

func TestEndpointRejectsNonPost(t *testing.T) {
	s := NewServer(failingConnector(), nil)
	ts := httptest.NewServer(s.HTTPHandler())
	defer ts.Close()

	for _, method := range []string{http.MethodGet, http.MethodDelete, http.MethodPut} {
		t.Run(method, func(t *testing.T) {
			req, err := http.NewRequest(method, ts.URL+EndpointPath, nil)
			require.NoError(t, err)
			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
			var body map[string]string
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, "Method not allowed. Use POST for MCP requests.", body["error"])
		})
	}
}

func postMCP(t *testing.T, url, payload string) string {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, url+EndpointPath, strings.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/event-stream")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func TestStreamableHTTPEndpoint(t *testing.T) {
	s := NewServer(spotifyConnector(t), nil)
	ts := httptest.NewServer(s.HTTPHandler())
	defer ts.Close()

	body := postMCP(t, ts.URL, `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-03-26","capabilities":{},"clientInfo":{"name":"test","version":"1.0"}}}`)
	assert.Contains(t, body, `"name":"spotify-controller"`)
	assert.Contains(t, body, `"version":"1.0.0"`)

	body = postMCP(t, ts.URL, `{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"getGenreSeeds","arguments":{}}}`)
	assert.Contains(t, body, "Available Genre Seeds (2 genres)")
}

func TestServeHTTPListenerShutsDown(t *testing.T) {
	s := NewServer(failingConnector(), nil)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ServeHTTPListener(ctx, ln) }()

	url := "http://" + ln.Addr().String() + HealthPath
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestServeStdio(t *testing.T) {
	s := NewServer(failingConnector(), nil)

	in := strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}` + "\n")
	pr, pw := io.Pipe()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- s.ServeStdio(ctx, in, pw)
		_ = pw.Close()
	}()

	line, err := bufio.NewReader(pr).ReadString('\n')
	require.NoError(t, err)
	assert.Contains(t, line, `"searchSpotify"`)
	assert.Contains(t, line, `"getGenreSeeds"`)

	cancel()
	go func() { _, _ = io.Copy(io.Discard, pr) }()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("stdio server did not stop")
	}
}
