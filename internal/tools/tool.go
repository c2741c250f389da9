package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/dshills/spotify-mcp/internal/spotify"
)

// API is the part of the Spotify client the tools call
type API interface {
	Search(ctx context.Context, query, searchType string, limit int) (*spotify.SearchResult, error)
	CurrentlyPlaying(ctx context.Context) (*spotify.CurrentlyPlaying, error)
	PlaybackState(ctx context.Context) (*spotify.PlaybackState, error)
	Devices(ctx context.Context) ([]spotify.Device, error)
	Queue(ctx context.Context) (*spotify.Queue, error)
	RecentlyPlayed(ctx context.Context, limit int) ([]spotify.PlayHistory, error)

	Play(ctx context.Context, opts spotify.PlayOptions) error
	Pause(ctx context.Context, deviceID string) error
	Next(ctx context.Context, deviceID string) error
	Previous(ctx context.Context, deviceID string) error
	AddToQueue(ctx context.Context, uri, deviceID string) error
	SetVolume(ctx context.Context, percent int, deviceID string) error

	CurrentUser(ctx context.Context) (*spotify.PrivateUser, error)
	MyPlaylists(ctx context.Context, limit, offset int) (*spotify.Page[spotify.SimplePlaylist], error)
	PlaylistItems(ctx context.Context, playlistID string, limit, offset int) (*spotify.Page[spotify.PlaylistItem], error)
	CreatePlaylist(ctx context.Context, userID, name, description string, public bool) (*spotify.Playlist, error)
	AddTracksToPlaylist(ctx context.Context, playlistID string, uris []string, position *int) (string, error)
	SavedTracks(ctx context.Context, limit, offset int) (*spotify.Page[spotify.SavedTrack], error)

	Album(ctx context.Context, id string) (*spotify.Album, error)
	Albums(ctx context.Context, ids []string) ([]*spotify.Album, error)
	AlbumTracks(ctx context.Context, albumID string, limit, offset int) (*spotify.Page[spotify.SimpleTrack], error)
	SaveAlbums(ctx context.Context, ids []string) error
	RemoveAlbums(ctx context.Context, ids []string) error
	CheckSavedAlbums(ctx context.Context, ids []string) ([]bool, error)

	AudioFeatures(ctx context.Context, ids []string) ([]*spotify.AudioFeatures, error)
	Recommendations(ctx context.Context, params spotify.RecommendationParams) (*spotify.Recommendations, error)
	RelatedArtists(ctx context.Context, artistID string) ([]spotify.Artist, error)
	GenreSeeds(ctx context.Context) ([]string, error)
}

var _ API = (*spotify.Client)(nil)

// Connector hands out an authenticated API
type Connector interface {
	API(ctx context.Context) (API, error)
}

// ConnectorFunc adapts a function to Connector
type ConnectorFunc func(ctx context.Context) (API, error)

func (f ConnectorFunc) API(ctx context.Context) (API, error) {
	return f(ctx)
}

// SpotifyConnector adapts a spotify.Connector
func SpotifyConnector(conn *spotify.Connector) Connector {
	return ConnectorFunc(func(ctx context.Context) (API, error) {
		client, err := conn.Client(ctx)
		if err != nil {
			return nil, err
		}
		return client, nil
	})
}

// Call performs the API request of a validated tool invocation and renders it as text
type Call func(ctx context.Context, api API) (string, error)

// Tool is a single MCP tool: its schema and how to turn arguments into a Call
type Tool struct {
	Definition mcp.Tool

	// FailurePrefix starts the result text when the API call fails
	FailurePrefix string

	// Prepare validates arguments. It must not perform I/O.
	Prepare func(args Args) (Call, error)
}

// Name returns the tool name
func (t Tool) Name() string {
	return t.Definition.Name
}

// ArgumentError is a rejected tool argument. It renders as "Error: <msg>".
type ArgumentError struct {
	Message string
}

func (e *ArgumentError) Error() string {
	return e.Message
}

func argError(format string, a ...any) error {
	return &ArgumentError{Message: fmt.Sprintf(format, a...)}
}

// Handler binds the tool to a connector. Domain failures become error
// results, never protocol errors.
func (t Tool) Handler(conn Connector) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		call, err := t.Prepare(Args(request.GetArguments()))
		if err != nil {
			return t.errorResult(err), nil
		}

		api, err := conn.API(ctx)
		if err != nil {
			return t.errorResult(err), nil
		}

		text, err := call(ctx, api)
		if err != nil {
			return t.errorResult(err), nil
		}
		return mcp.NewToolResultText(text), nil
	}
}

func (t Tool) errorResult(err error) *mcp.CallToolResult {
	var argErr *ArgumentError
	if errors.As(err, &argErr) {
		return mcp.NewToolResultError("Error: " + argErr.Message)
	}
	return mcp.NewToolResultError(fmt.Sprintf("%s: %v", t.FailurePrefix, err))
}
