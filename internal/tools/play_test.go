package tools

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/spotify-mcp/internal/spotify"
)

func TestPlayMusic(t *testing.T) {
	tests := []struct {
		name     string
		args     map[string]any
		wantPlay spotify.PlayOptions
		want     string
	}{
		{
			"track by type and id",
			map[string]any{"type": "track", "id": "t1", "deviceId": "dev"},
			spotify.PlayOptions{DeviceID: "dev", URIs: []string{"spotify:track:t1"}},
			"Started playing track (ID: t1)",
		},
		{
			"album context",
			map[string]any{"type": "album", "id": "al1"},
			spotify.PlayOptions{ContextURI: "spotify:album:al1"},
			"Started playing album (ID: al1)",
		},
		{
			"uri wins",
			map[string]any{"uri": "spotify:playlist:p1", "type": "track", "id": "ignored"},
			spotify.PlayOptions{ContextURI: "spotify:playlist:p1"},
			"Started playing playlist (ID: p1)",
		},
		{
			"opaque uri",
			map[string]any{"uri": "spotify:user:me:collection"},
			spotify.PlayOptions{ContextURI: "spotify:user:me:collection"},
			"Started playing music",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{}
			text, isError := callTool(t, "playMusic", api, tt.args)
			assert.False(t, isError)
			assert.Equal(t, tt.want, text)
			assert.Equal(t, tt.wantPlay, api.gotPlay)
		})
	}
}

func TestPlayMusic_RequiresTarget(t *testing.T) {
	api := &fakeAPI{}
	text, isError := callTool(t, "playMusic", api, map[string]any{"type": "track"})
	assert.True(t, isError)
	assert.Equal(t, "Error: Must provide either a URI or both a type and ID", text)
	assert.Empty(t, api.calls)
}

func TestPlayMusic_APIError(t *testing.T) {
	api := &fakeAPI{err: &spotify.APIError{StatusCode: 404, Message: "Player command failed: No active device found", Reason: "NO_ACTIVE_DEVICE"}}
	text, isError := callTool(t, "playMusic", api, map[string]any{"type": "track", "id": "t1"})
	assert.True(t, isError)
	assert.Equal(t, "Error starting playback: spotify api error 404: Player command failed: No active device found (NO_ACTIVE_DEVICE)", text)
}

func TestSimplePlayerTools(t *testing.T) {
	tests := []struct {
		tool string
		call string
		want string
	}{
		{"pausePlayback", "Pause", "Playback paused"},
		{"resumePlayback", "Play", "Playback resumed"},
		{"skipToNext", "Next", "Skipped to next track"},
		{"skipToPrevious", "Previous", "Skipped to previous track"},
	}

	for _, tt := range tests {
		t.Run(tt.tool, func(t *testing.T) {
			api := &fakeAPI{}
			text, isError := callTool(t, tt.tool, api, map[string]any{"deviceId": "dev"})
			assert.False(t, isError)
			assert.Equal(t, tt.want, text)
			assert.Equal(t, []string{tt.call}, api.calls)
		})
	}

	api := &fakeAPI{}
	callTool(t, "resumePlayback", api, map[string]any{"deviceId": "dev"})
	assert.Equal(t, spotify.PlayOptions{DeviceID: "dev"}, api.gotPlay)
}

func TestCreatePlaylist(t *testing.T) {
	api := &fakeAPI{
		user:    &spotify.PrivateUser{User: spotify.User{ID: "me"}},
		created: &spotify.Playlist{SimplePlaylist: spotify.SimplePlaylist{ID: "new1"}},
	}

	text, isError := callTool(t, "createPlaylist", api, map[string]any{"name": "Focus", "description": "deep work"})
	assert.False(t, isError)
	assert.Equal(t, "Successfully created playlist \"Focus\"\nPlaylist ID: new1", text)
	assert.Equal(t, "me", api.gotPlaylistOwner)
	assert.Equal(t, "deep work", api.gotPlaylistDesc)
	assert.False(t, api.gotPlaylistPublic)

	text, isError = callTool(t, "createPlaylist", &fakeAPI{}, map[string]any{"name": "x", "public": "yes"})
	assert.True(t, isError)
	assert.Equal(t, "Error: public must be a boolean", text)
}

func TestAddTracksToPlaylist(t *testing.T) {
	api := &fakeAPI{}
	text, isError := callTool(t, "addTracksToPlaylist", api, map[string]any{
		"playlistId": "pl1",
		"trackIds":   []any{"a", "b"},
		"position":   0,
	})
	assert.False(t, isError)
	assert.Equal(t, "Successfully added 2 tracks to playlist (ID: pl1)", text)
	assert.Equal(t, []string{"spotify:track:a", "spotify:track:b"}, api.gotURIs)
	require.NotNil(t, api.gotPosition)
	assert.Equal(t, 0, *api.gotPosition)

	api = &fakeAPI{}
	text, _ = callTool(t, "addTracksToPlaylist", api, map[string]any{"playlistId": "pl1", "trackIds": []any{"a"}})
	assert.Equal(t, "Successfully added 1 track to playlist (ID: pl1)", text)
	assert.Nil(t, api.gotPosition)

	text, isError = callTool(t, "addTracksToPlaylist", &fakeAPI{}, map[string]any{"playlistId": "pl1", "trackIds": []any{}})
	assert.True(t, isError)
	assert.Equal(t, "Error: No track IDs provided", text)

	many := make([]any, 101)
	for i := range many {
		many[i] = "t"
	}
	text, isError = callTool(t, "addTracksToPlaylist", &fakeAPI{}, map[string]any{"playlistId": "pl1", "trackIds": many})
	assert.True(t, isError)
	assert.Equal(t, "Error: trackIds must contain at most 100 items", text)
}

func TestAddToQueue(t *testing.T) {
	api := &fakeAPI{}
	text, isError := callTool(t, "addToQueue", api, map[string]any{"type": "episode", "id": "e1"})
	assert.False(t, isError)
	assert.Equal(t, "Added item spotify:episode:e1 to queue", text)
	assert.Equal(t, "spotify:episode:e1", api.gotURI)

	text, isError = callTool(t, "addToQueue", &fakeAPI{}, map[string]any{"type": "album", "id": "a"})
	assert.True(t, isError)
	assert.Equal(t, "Error: type must be one of: track, episode", text)
}

func TestSetVolume(t *testing.T) {
	api := &fakeAPI{}
	text, isError := callTool(t, "setVolume", api, map[string]any{"volumePercent": 35})
	assert.False(t, isError)
	assert.Equal(t, "Volume set to 35%", text)
	assert.Equal(t, 35, api.gotVolume)

	text, isError = callTool(t, "setVolume", &fakeAPI{}, map[string]any{"volumePercent": 120})
	assert.True(t, isError)
	assert.Equal(t, "Error: volumePercent must be between 0 and 100", text)

	text, isError = callTool(t, "setVolume", &fakeAPI{}, nil)
	assert.True(t, isError)
	assert.Equal(t, "Error: volumePercent is required", text)
}

func TestAdjustVolume(t *testing.T) {
	tests := []struct {
		name       string
		current    int
		adjustment int
		want       string
		wantVolume int
	}{
		{"up", 50, 20, "Volume adjusted from 50% to 70%", 70},
		{"clamped high", 90, 30, "Volume adjusted from 90% to 100%", 100},
		{"clamped low", 10, -40, "Volume adjusted from 10% to 0%", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{state: &spotify.PlaybackState{
				Device: spotify.Device{ID: "dev1", VolumePercent: intPtr(tt.current), SupportsVolume: true},
			}}
			text, isError := callTool(t, "adjustVolume", api, map[string]any{"adjustment": tt.adjustment})
			assert.False(t, isError)
			assert.Equal(t, tt.want, text)
			assert.Equal(t, tt.wantVolume, api.gotVolume)
			assert.Equal(t, "dev1", api.gotDevice)
		})
	}
}

func TestAdjustVolume_NoDevice(t *testing.T) {
	text, isError := callTool(t, "adjustVolume", &fakeAPI{}, map[string]any{"adjustment": 10})
	assert.True(t, isError)
	assert.Equal(t, "Error: No active device found. Make sure Spotify is open and playing on a device.", text)

	api := &fakeAPI{err: errors.New("boom")}
	text, isError = callTool(t, "adjustVolume", api, map[string]any{"adjustment": 10})
	assert.True(t, isError)
	assert.Equal(t, "Error adjusting volume: boom", text)
}
