package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dshills/spotify-mcp/internal/spotify"
)

// PlayTools control playback and modify playlists and the queue
func PlayTools() []Tool {
	return []Tool{
		playMusic(),
		simplePlayerTool("pausePlayback", "Pause Spotify playback on the active device",
			"Error pausing playback", "Playback paused", API.Pause),
		simplePlayerTool("resumePlayback", "Resume Spotify playback on the active device",
			"Error resuming playback", "Playback resumed", func(api API, ctx context.Context, deviceID string) error {
				return api.Play(ctx, spotify.PlayOptions{DeviceID: deviceID})
			}),
		simplePlayerTool("skipToNext", "Skip to the next track in the current Spotify playback queue",
			"Error skipping to next track", "Skipped to next track", API.Next),
		simplePlayerTool("skipToPrevious", "Skip to the previous track in the current Spotify playback queue",
			"Error skipping to previous track", "Skipped to previous track", API.Previous),
		createPlaylist(),
		addTracksToPlaylist(),
		addToQueue(),
		setVolume(),
		adjustVolume(),
	}
}

func withDeviceID() mcp.ToolOption {
	return mcp.WithString("deviceId",
		mcp.Description("The Spotify device ID to act on (defaults to the active device)"),
	)
}

// itemURI resolves uri or type+id into a Spotify URI. It returns the type
// and id when they can be determined.
func itemURI(args Args, types ...string) (uri, kind, id string, err error) {
	if uri, err = args.String("uri"); err != nil {
		return "", "", "", err
	}
	if kind, err = args.Enum("type", false, types...); err != nil {
		return "", "", "", err
	}
	if id, err = args.String("id"); err != nil {
		return "", "", "", err
	}

	if uri != "" {
		if k, i, ok := parseURI(uri); ok {
			return uri, k, i, nil
		}
		return uri, kind, id, nil
	}
	if kind == "" || id == "" {
		return "", "", "", argError("Must provide either a URI or both a type and ID")
	}
	return fmt.Sprintf("spotify:%s:%s", kind, id), kind, id, nil
}

func playMusic() Tool {
	return Tool{
		Definition: mcp.NewTool("playMusic",
			mcp.WithDescription("Start playing a Spotify track, album, artist, or playlist"),
			mcp.WithString("uri",
				mcp.Description("The Spotify URI to play (overrides type and id)"),
			),
			mcp.WithString("type",
				mcp.Description("The type of item to play"),
				mcp.Enum("track", "album", "artist", "playlist"),
			),
			mcp.WithString("id",
				mcp.Description("The Spotify ID of the item to play"),
			),
			withDeviceID(),
		),
		FailurePrefix: "Error starting playback",
		Prepare: func(args Args) (Call, error) {
			uri, kind, id, err := itemURI(args, "track", "album", "artist", "playlist")
			if err != nil {
				return nil, err
			}
			deviceID, err := args.String("deviceId")
			if err != nil {
				return nil, err
			}

			opts := spotify.PlayOptions{DeviceID: deviceID}
			if kind == "track" || kind == "episode" {
				opts.URIs = []string{uri}
			} else {
				opts.ContextURI = uri
			}

			return func(ctx context.Context, api API) (string, error) {
				if err := api.Play(ctx, opts); err != nil {
					return "", err
				}
				what := kind
				if what == "" {
					what = "music"
				}
				if id == "" {
					return "Started playing " + what, nil
				}
				return fmt.Sprintf("Started playing %s (ID: %s)", what, id), nil
			}, nil
		},
	}
}

// simplePlayerTool builds a tool taking only an optional device id
func simplePlayerTool(name, description, failure, success string, action func(API, context.Context, string) error) Tool {
	return Tool{
		Definition: mcp.NewTool(name,
			mcp.WithDescription(description),
			withDeviceID(),
		),
		FailurePrefix: failure,
		Prepare: func(args Args) (Call, error) {
			deviceID, err := args.String("deviceId")
			if err != nil {
				return nil, err
			}
			return func(ctx context.Context, api API) (string, error) {
				if err := action(api, ctx, deviceID); err != nil {
					return "", err
				}
				return success, nil
			}, nil
		},
	}
}

func createPlaylist() Tool {
	return Tool{
		Definition: mcp.NewTool("createPlaylist",
			mcp.WithDescription("Create a new playlist on Spotify"),
			mcp.WithString("name",
				mcp.Required(),
				mcp.Description("The name of the playlist"),
			),
			mcp.WithString("description",
				mcp.Description("The description of the playlist"),
			),
			mcp.WithBoolean("public",
				mcp.Description("Whether the playlist should be public"),
				mcp.DefaultBool(false),
			),
		),
		FailurePrefix: "Error creating playlist",
		Prepare: func(args Args) (Call, error) {
			name, err := args.RequiredString("name")
			if err != nil {
				return nil, err
			}
			description, err := args.String("description")
			if err != nil {
				return nil, err
			}
			public, err := args.Bool("public", false)
			if err != nil {
				return nil, err
			}
			return func(ctx context.Context, api API) (string, error) {
				user, err := api.CurrentUser(ctx)
				if err != nil {
					return "", err
				}
				playlist, err := api.CreatePlaylist(ctx, user.ID, name, description, public)
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("Successfully created playlist \"%s\"\nPlaylist ID: %s", name, playlist.ID), nil
			}, nil
		},
	}
}

// maxPlaylistAdd is the Web API limit of items per add request
const maxPlaylistAdd = 100

func addTracksToPlaylist() Tool {
	return Tool{
		Definition: mcp.NewTool("addTracksToPlaylist",
			mcp.WithDescription("Add tracks to a Spotify playlist"),
			mcp.WithString("playlistId",
				mcp.Required(),
				mcp.Description("The Spotify ID of the playlist"),
			),
			mcp.WithArray("trackIds",
				mcp.Required(),
				mcp.Description("Array of Spotify track IDs to add"),
				mcp.WithStringItems(),
				mcp.MinItems(1),
				mcp.MaxItems(maxPlaylistAdd),
			),
			mcp.WithNumber("position",
				mcp.Description("Position to insert the tracks (0-based index)"),
				mcp.Min(0),
			),
		),
		FailurePrefix: "Error adding tracks to playlist",
		Prepare: func(args Args) (Call, error) {
			playlistID, err := args.RequiredString("playlistId")
			if err != nil {
				return nil, err
			}
			trackIDs, err := args.StringList("trackIds", maxPlaylistAdd)
			if err != nil {
				return nil, err
			}
			if len(trackIDs) == 0 {
				return nil, argError("No track IDs provided")
			}
			position, err := args.OptionalInt("position", 0, maxOffset)
			if err != nil {
				return nil, err
			}

			uris := make([]string, len(trackIDs))
			for i, id := range trackIDs {
				uris[i] = "spotify:track:" + id
			}

			return func(ctx context.Context, api API) (string, error) {
				if _, err := api.AddTracksToPlaylist(ctx, playlistID, uris, position); err != nil {
					return "", err
				}
				return fmt.Sprintf("Successfully added %s to playlist (ID: %s)", plural(len(uris), "track"), playlistID), nil
			}, nil
		},
	}
}

func addToQueue() Tool {
	return Tool{
		Definition: mcp.NewTool("addToQueue",
			mcp.WithDescription("Adds a track, album, artist or playlist to the playback queue"),
			mcp.WithString("uri",
				mcp.Description("The Spotify URI to add (overrides type and id)"),
			),
			mcp.WithString("type",
				mcp.Description("The type of item to add to queue"),
				mcp.Enum("track", "episode"),
			),
			mcp.WithString("id",
				mcp.Description("The Spotify ID of the item to add to queue"),
			),
			withDeviceID(),
		),
		FailurePrefix: "Error adding item to queue",
		Prepare: func(args Args) (Call, error) {
			uri, _, _, err := itemURI(args, "track", "episode")
			if err != nil {
				return nil, err
			}
			deviceID, err := args.String("deviceId")
			if err != nil {
				return nil, err
			}
			return func(ctx context.Context, api API) (string, error) {
				if err := api.AddToQueue(ctx, uri, deviceID); err != nil {
					return "", err
				}
				return fmt.Sprintf("Added item %s to queue", uri), nil
			}, nil
		},
	}
}

func setVolume() Tool {
	return Tool{
		Definition: mcp.NewTool("setVolume",
			mcp.WithDescription("Set the playback volume to a specific percentage (requires Spotify Premium)"),
			mcp.WithNumber("volumePercent",
				mcp.Required(),
				mcp.Description("The volume to set (0-100)"),
				mcp.Min(0),
				mcp.Max(100),
			),
			withDeviceID(),
		),
		FailurePrefix: "Error setting volume",
		Prepare: func(args Args) (Call, error) {
			if !args.present("volumePercent") {
				return nil, argError("volumePercent is required")
			}
			volume, err := args.Int("volumePercent", 0, 0, 100)
			if err != nil {
				return nil, err
			}
			deviceID, err := args.String("deviceId")
			if err != nil {
				return nil, err
			}
			return func(ctx context.Context, api API) (string, error) {
				if err := api.SetVolume(ctx, volume, deviceID); err != nil {
					return "", err
				}
				return fmt.Sprintf("Volume set to %d%%", volume), nil
			}, nil
		},
	}
}

func adjustVolume() Tool {
	return Tool{
		Definition: mcp.NewTool("adjustVolume",
			mcp.WithDescription("Adjust the playback volume up or down by a relative amount (requires Spotify Premium)"),
			mcp.WithNumber("adjustment",
				mcp.Required(),
				mcp.Description("The amount to adjust volume by (-100 to 100). Positive values increase volume, negative values decrease it"),
				mcp.Min(-100),
				mcp.Max(100),
			),
			withDeviceID(),
		),
		FailurePrefix: "Error adjusting volume",
		Prepare: func(args Args) (Call, error) {
			if !args.present("adjustment") {
				return nil, argError("adjustment is required")
			}
			adjustment, err := args.Int("adjustment", 0, -100, 100)
			if err != nil {
				return nil, err
			}
			deviceID, err := args.String("deviceId")
			if err != nil {
				return nil, err
			}
			return func(ctx context.Context, api API) (string, error) {
				state, err := api.PlaybackState(ctx)
				if err != nil {
					return "", err
				}
				if state == nil || state.Device.ID == "" {
					return "", argError("No active device found. Make sure Spotify is open and playing on a device.")
				}
				if state.Device.VolumePercent == nil {
					return "", argError("Unable to determine current volume of the active device.")
				}

				current := *state.Device.VolumePercent
				target := min(max(current+adjustment, 0), 100)
				if deviceID == "" {
					deviceID = state.Device.ID
				}
				if err := api.SetVolume(ctx, target, deviceID); err != nil {
					return "", err
				}
				return fmt.Sprintf("Volume adjusted from %d%% to %d%%", current, target), nil
			}, nil
		},
	}
}
