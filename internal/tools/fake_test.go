package tools

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/require"

	"github.com/dshills/spotify-mcp/internal/spotify"
)

// fakeAPI returns canned responses and records the arguments it received
type fakeAPI struct {
	err   error
	calls []string

	search        *spotify.SearchResult
	playing       *spotify.CurrentlyPlaying
	state         *spotify.PlaybackState
	devices       []spotify.Device
	queue         *spotify.Queue
	history       []spotify.PlayHistory
	user          *spotify.PrivateUser
	playlists     *spotify.Page[spotify.SimplePlaylist]
	playlistItems *spotify.Page[spotify.PlaylistItem]
	created       *spotify.Playlist
	savedTracks   *spotify.Page[spotify.SavedTrack]
	album         *spotify.Album
	albums        []*spotify.Album
	albumTracks   *spotify.Page[spotify.SimpleTrack]
	savedAlbums   []bool
	features      []*spotify.AudioFeatures
	recs          *spotify.Recommendations
	related       []spotify.Artist
	genres        []string

	gotQuery, gotType  string
	gotLimit, gotOff   int
	gotID              string
	gotIDs             []string
	gotDevice          string
	gotPlay            spotify.PlayOptions
	gotVolume          int
	gotURI             string
	gotURIs            []string
	gotPosition        *int
	gotPlaylistName    string
	gotPlaylistDesc    string
	gotPlaylistPublic  bool
	gotPlaylistOwner   string
	gotRecommendations spotify.RecommendationParams
}

var _ API = (*fakeAPI)(nil)

func (f *fakeAPI) record(name string) error {
	f.calls = append(f.calls, name)
	return f.err
}

func (f *fakeAPI) Search(_ context.Context, query, searchType string, limit int) (*spotify.SearchResult, error) {
	f.gotQuery, f.gotType, f.gotLimit = query, searchType, limit
	return f.search, f.record("Search")
}

func (f *fakeAPI) CurrentlyPlaying(context.Context) (*spotify.CurrentlyPlaying, error) {
	return f.playing, f.record("CurrentlyPlaying")
}

func (f *fakeAPI) PlaybackState(context.Context) (*spotify.PlaybackState, error) {
	return f.state, f.record("PlaybackState")
}

func (f *fakeAPI) Devices(context.Context) ([]spotify.Device, error) {
	return f.devices, f.record("Devices")
}

func (f *fakeAPI) Queue(context.Context) (*spotify.Queue, error) {
	return f.queue, f.record("Queue")
}

func (f *fakeAPI) RecentlyPlayed(_ context.Context, limit int) ([]spotify.PlayHistory, error) {
	f.gotLimit = limit
	return f.history, f.record("RecentlyPlayed")
}

func (f *fakeAPI) Play(_ context.Context, opts spotify.PlayOptions) error {
	f.gotPlay = opts
	return f.record("Play")
}

func (f *fakeAPI) Pause(_ context.Context, deviceID string) error {
	f.gotDevice = deviceID
	return f.record("Pause")
}

func (f *fakeAPI) Next(_ context.Context, deviceID string) error {
	f.gotDevice = deviceID
	return f.record("Next")
}

func (f *fakeAPI) Previous(_ context.Context, deviceID string) error {
	f.gotDevice = deviceID
	return f.record("Previous")
}

func (f *fakeAPI) AddToQueue(_ context.Context, uri, deviceID string) error {
	f.gotURI, f.gotDevice = uri, deviceID
	return f.record("AddToQueue")
}

func (f *fakeAPI) SetVolume(_ context.Context, percent int, deviceID string) error {
	f.gotVolume, f.gotDevice = percent, deviceID
	return f.record("SetVolume")
}

func (f *fakeAPI) CurrentUser(context.Context) (*spotify.PrivateUser, error) {
	return f.user, f.record("CurrentUser")
}

func (f *fakeAPI) MyPlaylists(_ context.Context, limit, offset int) (*spotify.Page[spotify.SimplePlaylist], error) {
	f.gotLimit, f.gotOff = limit, offset
	return f.playlists, f.record("MyPlaylists")
}

func (f *fakeAPI) PlaylistItems(_ context.Context, playlistID string, limit, offset int) (*spotify.Page[spotify.PlaylistItem], error) {
	f.gotID, f.gotLimit, f.gotOff = playlistID, limit, offset
	return f.playlistItems, f.record("PlaylistItems")
}

func (f *fakeAPI) CreatePlaylist(_ context.Context, userID, name, description string, public bool) (*spotify.Playlist, error) {
	f.gotPlaylistOwner, f.gotPlaylistName, f.gotPlaylistDesc, f.gotPlaylistPublic = userID, name, description, public
	return f.created, f.record("CreatePlaylist")
}

func (f *fakeAPI) AddTracksToPlaylist(_ context.Context, playlistID string, uris []string, position *int) (string, error) {
	f.gotID, f.gotURIs, f.gotPosition = playlistID, uris, position
	return "snapshot", f.record("AddTracksToPlaylist")
}

func (f *fakeAPI) SavedTracks(_ context.Context, limit, offset int) (*spotify.Page[spotify.SavedTrack], error) {
	f.gotLimit, f.gotOff = limit, offset
	return f.savedTracks, f.record("SavedTracks")
}

func (f *fakeAPI) Album(_ context.Context, id string) (*spotify.Album, error) {
	f.gotID = id
	return f.album, f.record("Album")
}

func (f *fakeAPI) Albums(_ context.Context, ids []string) ([]*spotify.Album, error) {
	f.gotIDs = ids
	return f.albums, f.record("Albums")
}

func (f *fakeAPI) AlbumTracks(_ context.Context, albumID string, limit, offset int) (*spotify.Page[spotify.SimpleTrack], error) {
	f.gotID, f.gotLimit, f.gotOff = albumID, limit, offset
	return f.albumTracks, f.record("AlbumTracks")
}

func (f *fakeAPI) SaveAlbums(_ context.Context, ids []string) error {
	f.gotIDs = ids
	return f.record("SaveAlbums")
}

func (f *fakeAPI) RemoveAlbums(_ context.Context, ids []string) error {
	f.gotIDs = ids
	return f.record("RemoveAlbums")
}

func (f *fakeAPI) CheckSavedAlbums(_ context.Context, ids []string) ([]bool, error) {
	f.gotIDs = ids
	return f.savedAlbums, f.record("CheckSavedAlbums")
}

func (f *fakeAPI) AudioFeatures(_ context.Context, ids []string) ([]*spotify.AudioFeatures, error) {
	f.gotIDs = ids
	return f.features, f.record("AudioFeatures")
}

func (f *fakeAPI) Recommendations(_ context.Context, params spotify.RecommendationParams) (*spotify.Recommendations, error) {
	f.gotRecommendations = params
	return f.recs, f.record("Recommendations")
}

func (f *fakeAPI) RelatedArtists(_ context.Context, artistID string) ([]spotify.Artist, error) {
	f.gotID = artistID
	return f.related, f.record("RelatedArtists")
}

func (f *fakeAPI) GenreSeeds(context.Context) ([]string, error) {
	return f.genres, f.record("GenreSeeds")
}

// callTool invokes the named tool through its MCP handler and returns the
// text content and the error flag.
func callTool(t *testing.T, name string, api API, args map[string]any) (string, bool) {
	t.Helper()
	tool := findTool(t, name)
	handler := tool.Handler(ConnectorFunc(func(context.Context) (API, error) {
		return api, nil
	}))

	var req mcp.CallToolRequest
	req.Params.Name = name
	req.Params.Arguments = args

	res, err := handler(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return text.Text, res.IsError
}

func findTool(t *testing.T, name string) Tool {
	t.Helper()
	for _, tool := range All() {
		if tool.Name() == name {
			return tool
		}
	}
	t.Fatalf("tool %q not registered", name)
	return Tool{}
}

func track(id, name string, durationMs int, artists ...string) spotify.Track {
	t := spotify.Track{SimpleTrack: spotify.SimpleTrack{ID: id, Name: name, Type: "track", DurationMs: durationMs}}
	for _, a := range artists {
		t.Artists = append(t.Artists, spotify.SimpleArtist{Name: a})
	}
	return t
}
