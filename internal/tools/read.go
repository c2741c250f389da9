package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dshills/spotify-mcp/internal/spotify"
)

// ReadTools query the catalog, the library and the player state
func ReadTools() []Tool {
	return []Tool{
		searchSpotify(),
		getNowPlaying(),
		getMyPlaylists(),
		getPlaylistTracks(),
		getRecentlyPlayed(),
		getUsersSavedTracks(),
		getQueue(),
		getAvailableDevices(),
	}
}

func searchSpotify() Tool {
	return Tool{
		Definition: mcp.NewTool("searchSpotify",
			mcp.WithDescription("Search for tracks, albums, artists, or playlists on Spotify"),
			mcp.WithReadOnlyHintAnnotation(true),
			mcp.WithString("query",
				mcp.Required(),
				mcp.Description("The search query"),
				mcp.MinLength(1),
			),
			mcp.WithString("type",
				mcp.Required(),
				mcp.Description("The type of item to search for either track, album, artist, or playlist"),
				mcp.Enum(spotify.SearchTypeTrack, spotify.SearchTypeAlbum, spotify.SearchTypeArtist, spotify.SearchTypePlaylist),
			),
			mcp.WithNumber("limit",
				mcp.Description("Maximum number of results to return (1-50)"),
				mcp.Min(1),
				mcp.Max(50),
				mcp.DefaultNumber(10),
			),
		),
		FailurePrefix: "Error searching Spotify",
		Prepare: func(args Args) (Call, error) {
			query, err := args.RequiredString("query")
			if err != nil {
				return nil, err
			}
			searchType, err := args.Enum("type", true,
				spotify.SearchTypeTrack, spotify.SearchTypeAlbum, spotify.SearchTypeArtist, spotify.SearchTypePlaylist)
			if err != nil {
				return nil, err
			}
			limit, err := args.Int("limit", 10, 1, 50)
			if err != nil {
				return nil, err
			}

			return func(ctx context.Context, api API) (string, error) {
				result, err := api.Search(ctx, query, searchType, limit)
				if err != nil {
					return "", err
				}
				lines := formatSearchResults(result, searchType)
				if len(lines) == 0 {
					return fmt.Sprintf("No %ss found matching \"%s\"", searchType, query), nil
				}
				return fmt.Sprintf("# Search results for \"%s\" (type: %s)\n\n%s", query, searchType, strings.Join(lines, "\n")), nil
			}, nil
		},
	}
}

func formatSearchResults(result *spotify.SearchResult, searchType string) []string {
	var lines []string
	switch searchType {
	case spotify.SearchTypeTrack:
		if result.Tracks != nil {
			for i, t := range result.Tracks.Items {
				lines = append(lines, fmt.Sprintf("%d. %s", i+1, trackLine(&t.SimpleTrack)))
			}
		}
	case spotify.SearchTypeAlbum:
		if result.Albums != nil {
			for i, a := range result.Albums.Items {
				lines = append(lines, fmt.Sprintf("%d. \"%s\" by %s - ID: %s", i+1, a.Name, joinArtists(a.Artists), a.ID))
			}
		}
	case spotify.SearchTypeArtist:
		if result.Artists != nil {
			for i, a := range result.Artists.Items {
				lines = append(lines, fmt.Sprintf("%d. %s - ID: %s", i+1, a.Name, a.ID))
			}
		}
	case spotify.SearchTypePlaylist:
		if result.Playlists != nil {
			for i, p := range result.Playlists.Items {
				if p == nil {
					lines = append(lines, fmt.Sprintf("%d. Unknown Playlist", i+1))
					continue
				}
				owner := p.Owner.DisplayName
				if owner == "" {
					owner = p.Owner.ID
				}
				lines = append(lines, fmt.Sprintf("%d. \"%s\" by %s (%s) - ID: %s", i+1, p.Name, owner, plural(p.Tracks.Total, "track"), p.ID))
			}
		}
	}
	return lines
}

func getNowPlaying() Tool {
	return Tool{
		Definition: mcp.NewTool("getNowPlaying",
			mcp.WithDescription("Get information about the currently playing track on Spotify"),
			mcp.WithReadOnlyHintAnnotation(true),
		),
		FailurePrefix: "Error getting current track",
		Prepare: func(args Args) (Call, error) {
			return func(ctx context.Context, api API) (string, error) {
				playing, err := api.CurrentlyPlaying(ctx)
				if err != nil {
					return "", err
				}
				if playing == nil || (playing.Item == nil && playing.CurrentlyPlayingType != "episode") {
					return "Nothing is currently playing on Spotify", nil
				}
				if playing.CurrentlyPlayingType == "episode" || playing.Item == nil || playing.Item.IsEpisode() {
					return "Currently playing item is not a track (might be a podcast episode)", nil
				}

				item := playing.Item
				status := "Paused"
				if playing.IsPlaying {
					status = "Playing"
				}
				var b strings.Builder
				b.WriteString("# Currently Playing\n\n")
				fmt.Fprintf(&b, "**Track**: \"%s\"\n", item.Name)
				fmt.Fprintf(&b, "**Artist**: %s\n", joinArtists(item.Artists))
				fmt.Fprintf(&b, "**Album**: %s\n", item.Album.Name)
				fmt.Fprintf(&b, "**Progress**: %s / %s\n", formatDuration(playing.ProgressMs), formatDuration(item.DurationMs))
				fmt.Fprintf(&b, "**Status**: %s\n", status)
				fmt.Fprintf(&b, "**ID**: %s", item.ID)
				return b.String(), nil
			}, nil
		},
	}
}

func getMyPlaylists() Tool {
	return Tool{
		Definition: mcp.NewTool("getMyPlaylists",
			mcp.WithDescription("Get a list of the current user's playlists on Spotify"),
			mcp.WithReadOnlyHintAnnotation(true),
			mcp.WithNumber("limit",
				mcp.Description("Maximum number of playlists to return (1-50)"),
				mcp.Min(1),
				mcp.Max(50),
				mcp.DefaultNumber(50),
			),
			mcp.WithNumber("offset",
				mcp.Description("Index of the first playlist to return"),
				mcp.Min(0),
				mcp.DefaultNumber(0),
			),
		),
		FailurePrefix: "Error fetching playlists",
		Prepare: func(args Args) (Call, error) {
			limit, offset, err := pageArgs(args, 50)
			if err != nil {
				return nil, err
			}
			return func(ctx context.Context, api API) (string, error) {
				page, err := api.MyPlaylists(ctx, limit, offset)
				if err != nil {
					return "", err
				}
				if len(page.Items) == 0 {
					return "You don't have any playlists on Spotify", nil
				}
				lines := make([]string, len(page.Items))
				for i, p := range page.Items {
					lines[i] = fmt.Sprintf("%d. \"%s\" (%s) - ID: %s", offset+i+1, p.Name, plural(p.Tracks.Total, "track"), p.ID)
				}
				return "# Your Spotify Playlists\n\n" + strings.Join(lines, "\n"), nil
			}, nil
		},
	}
}

func getPlaylistTracks() Tool {
	return Tool{
		Definition: mcp.NewTool("getPlaylistTracks",
			mcp.WithDescription("Get a list of tracks in a Spotify playlist"),
			mcp.WithReadOnlyHintAnnotation(true),
			mcp.WithString("playlistId",
				mcp.Required(),
				mcp.Description("The Spotify ID of the playlist"),
			),
			mcp.WithNumber("limit",
				mcp.Description("Maximum number of tracks to return (1-50)"),
				mcp.Min(1),
				mcp.Max(50),
				mcp.DefaultNumber(50),
			),
			mcp.WithNumber("offset",
				mcp.Description("Index of the first track to return"),
				mcp.Min(0),
				mcp.DefaultNumber(0),
			),
		),
		FailurePrefix: "Error fetching playlist tracks",
		Prepare: func(args Args) (Call, error) {
			playlistID, err := args.RequiredString("playlistId")
			if err != nil {
				return nil, err
			}
			limit, offset, err := pageArgs(args, 50)
			if err != nil {
				return nil, err
			}
			return func(ctx context.Context, api API) (string, error) {
				page, err := api.PlaylistItems(ctx, playlistID, limit, offset)
				if err != nil {
					return "", err
				}
				if len(page.Items) == 0 {
					return "This playlist doesn't have any tracks", nil
				}
				lines := make([]string, len(page.Items))
				for i, item := range page.Items {
					n := offset + i + 1
					switch {
					case item.Track == nil:
						lines[i] = fmt.Sprintf("%d. [Removed track]", n)
					case item.Track.IsEpisode():
						lines[i] = fmt.Sprintf("%d. \"%s\" (episode) (%s) - ID: %s", n, item.Track.Name, formatDuration(item.Track.DurationMs), item.Track.ID)
					default:
						lines[i] = fmt.Sprintf("%d. %s", n, trackLine(&item.Track.SimpleTrack))
					}
				}
				return "# Tracks in Playlist\n\n" + strings.Join(lines, "\n"), nil
			}, nil
		},
	}
}

func getRecentlyPlayed() Tool {
	return Tool{
		Definition: mcp.NewTool("getRecentlyPlayed",
			mcp.WithDescription("Get a list of recently played tracks on Spotify"),
			mcp.WithReadOnlyHintAnnotation(true),
			mcp.WithNumber("limit",
				mcp.Description("Maximum number of tracks to return (1-50)"),
				mcp.Min(1),
				mcp.Max(50),
				mcp.DefaultNumber(50),
			),
		),
		FailurePrefix: "Error fetching recently played tracks",
		Prepare: func(args Args) (Call, error) {
			limit, err := args.Int("limit", 50, 1, 50)
			if err != nil {
				return nil, err
			}
			return func(ctx context.Context, api API) (string, error) {
				history, err := api.RecentlyPlayed(ctx, limit)
				if err != nil {
					return "", err
				}
				if len(history) == 0 {
					return "You don't have any recently played tracks on Spotify", nil
				}
				lines := make([]string, len(history))
				for i, h := range history {
					if h.Track.ID == "" {
						lines[i] = fmt.Sprintf("%d. [Removed track]", i+1)
						continue
					}
					lines[i] = fmt.Sprintf("%d. %s", i+1, trackLine(&h.Track.SimpleTrack))
				}
				return "# Recently Played Tracks\n\n" + strings.Join(lines, "\n"), nil
			}, nil
		},
	}
}

func getUsersSavedTracks() Tool {
	return Tool{
		Definition: mcp.NewTool("getUsersSavedTracks",
			mcp.WithDescription("Get a list of tracks saved in the user's \"Liked Songs\" library"),
			mcp.WithReadOnlyHintAnnotation(true),
			mcp.WithNumber("limit",
				mcp.Description("Maximum number of tracks to return (1-50)"),
				mcp.Min(1),
				mcp.Max(50),
				mcp.DefaultNumber(50),
			),
			mcp.WithNumber("offset",
				mcp.Description("Offset for pagination (0-based index)"),
				mcp.Min(0),
				mcp.DefaultNumber(0),
			),
		),
		FailurePrefix: "Error fetching liked tracks",
		Prepare: func(args Args) (Call, error) {
			limit, offset, err := pageArgs(args, 50)
			if err != nil {
				return nil, err
			}
			return func(ctx context.Context, api API) (string, error) {
				page, err := api.SavedTracks(ctx, limit, offset)
				if err != nil {
					return "", err
				}
				if len(page.Items) == 0 {
					return "You don't have any liked tracks in your library", nil
				}
				lines := make([]string, len(page.Items))
				for i, saved := range page.Items {
					lines[i] = fmt.Sprintf("%d. %s - Added: %s", offset+i+1, trackLine(&saved.Track.SimpleTrack), formatDate(saved.AddedAt))
				}
				return fmt.Sprintf("# Your Liked Tracks (%d-%d of %d)\n\n%s",
					offset+1, offset+len(page.Items), page.Total, strings.Join(lines, "\n")), nil
			}, nil
		},
	}
}

// maxQueueItems caps the upcoming items listed by getQueue
const maxQueueItems = 10

func getQueue() Tool {
	return Tool{
		Definition: mcp.NewTool("getQueue",
			mcp.WithDescription("Get the currently playing track and the upcoming items in the Spotify queue"),
			mcp.WithReadOnlyHintAnnotation(true),
		),
		FailurePrefix: "Error fetching queue",
		Prepare: func(args Args) (Call, error) {
			return func(ctx context.Context, api API) (string, error) {
				queue, err := api.Queue(ctx)
				if err != nil {
					return "", err
				}

				var b strings.Builder
				b.WriteString("# Spotify Queue\n\n## Currently Playing\n")
				if queue.CurrentlyPlaying == nil {
					b.WriteString("Nothing is currently playing")
				} else {
					b.WriteString(queueLine(queue.CurrentlyPlaying))
				}

				b.WriteString("\n\n## Up Next\n")
				if len(queue.Queue) == 0 {
					b.WriteString("Queue is empty")
					return b.String(), nil
				}
				items := queue.Queue
				if len(items) > maxQueueItems {
					items = items[:maxQueueItems]
				}
				lines := make([]string, len(items))
				for i := range items {
					lines[i] = fmt.Sprintf("%d. %s", i+1, queueLine(&items[i]))
				}
				b.WriteString(strings.Join(lines, "\n"))
				if rest := len(queue.Queue) - len(items); rest > 0 {
					fmt.Fprintf(&b, "\n...and %d more", rest)
				}
				return b.String(), nil
			}, nil
		},
	}
}

func queueLine(t *spotify.Track) string {
	if t.IsEpisode() {
		return fmt.Sprintf("\"%s\" (episode) (%s) - ID: %s", t.Name, formatDuration(t.DurationMs), t.ID)
	}
	return trackLine(&t.SimpleTrack)
}

func getAvailableDevices() Tool {
	return Tool{
		Definition: mcp.NewTool("getAvailableDevices",
			mcp.WithDescription("Get information about the user's available Spotify Connect devices"),
			mcp.WithReadOnlyHintAnnotation(true),
		),
		FailurePrefix: "Error fetching devices",
		Prepare: func(args Args) (Call, error) {
			return func(ctx context.Context, api API) (string, error) {
				devices, err := api.Devices(ctx)
				if err != nil {
					return "", err
				}
				if len(devices) == 0 {
					return "No available devices found. Make sure Spotify is open on at least one device.", nil
				}
				blocks := make([]string, len(devices))
				for i, d := range devices {
					active := ""
					if d.IsActive {
						active = " [ACTIVE]"
					}
					volume := "N/A"
					if d.VolumePercent != nil {
						volume = fmt.Sprintf("%d%%", *d.VolumePercent)
					}
					id := d.ID
					if id == "" {
						id = "unavailable"
					}
					blocks[i] = fmt.Sprintf("%d. **%s** (%s)%s\n   Volume: %s\n   ID: %s", i+1, d.Name, d.Type, active, volume, id)
				}
				return "# Available Devices\n\n" + strings.Join(blocks, "\n\n"), nil
			}, nil
		},
	}
}

// pageArgs reads limit (1..maxLimit) and offset (>= 0)
func pageArgs(args Args, defaultLimit int) (limit, offset int, err error) {
	limit, err = args.Int("limit", defaultLimit, 1, 50)
	if err != nil {
		return 0, 0, err
	}
	offset, err = args.Int("offset", 0, 0, maxOffset)
	if err != nil {
		return 0, 0, err
	}
	return limit, offset, nil
}

// maxOffset is the largest offset the Web API accepts
const maxOffset = 100000
