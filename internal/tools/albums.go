package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// maxAlbumIDs is the Web API limit of album ids per request
const maxAlbumIDs = 20

// AlbumTools read albums and manage the user's saved albums
func AlbumTools() []Tool {
	return []Tool{
		getAlbums(),
		getAlbumTracks(),
		saveOrRemoveAlbumForUser(),
		checkUsersSavedAlbums(),
	}
}

// stringOrArray describes a property accepting one id or a list of ids
func stringOrArray(maxItems int) mcp.PropertyOption {
	return func(schema map[string]any) {
		schema["oneOf"] = []any{
			map[string]any{"type": "string"},
			map[string]any{
				"type":     "array",
				"items":    map[string]any{"type": "string"},
				"minItems": 1,
				"maxItems": maxItems,
			},
		}
	}
}

func getAlbums() Tool {
	return Tool{
		Definition: mcp.NewTool("getAlbums",
			mcp.WithDescription("Get detailed information about one or more albums by their Spotify IDs"),
			mcp.WithReadOnlyHintAnnotation(true),
			mcp.WithAny("albumIds",
				mcp.Required(),
				mcp.Description("A single album ID or array of album IDs (max 20)"),
				stringOrArray(maxAlbumIDs),
			),
		),
		FailurePrefix: "Error getting albums",
		Prepare: func(args Args) (Call, error) {
			ids, single, err := args.StringOrList("albumIds", maxAlbumIDs)
			if err != nil {
				return nil, err
			}
			return func(ctx context.Context, api API) (string, error) {
				if single {
					album, err := api.Album(ctx, ids[0])
					if err != nil {
						return "", err
					}
					var b strings.Builder
					b.WriteString("# Album Details\n\n")
					fmt.Fprintf(&b, "**Name**: %s\n", album.Name)
					fmt.Fprintf(&b, "**Artists**: %s\n", joinArtists(album.Artists))
					fmt.Fprintf(&b, "**Release Date**: %s\n", album.ReleaseDate)
					fmt.Fprintf(&b, "**Type**: %s\n", album.AlbumType)
					fmt.Fprintf(&b, "**Total Tracks**: %d\n", album.TotalTracks)
					if album.Label != "" {
						fmt.Fprintf(&b, "**Label**: %s\n", album.Label)
					}
					fmt.Fprintf(&b, "**ID**: %s", album.ID)
					return b.String(), nil
				}

				albums, err := api.Albums(ctx, ids)
				if err != nil {
					return "", err
				}
				lines := make([]string, len(albums))
				for i, album := range albums {
					if album == nil {
						lines[i] = fmt.Sprintf("%d. Album not found", i+1)
						continue
					}
					lines[i] = fmt.Sprintf("%d. \"%s\" by %s (%s) - %s - ID: %s",
						i+1, album.Name, joinArtists(album.Artists), album.ReleaseDate, plural(album.TotalTracks, "track"), album.ID)
				}
				return "# Multiple Albums\n\n" + strings.Join(lines, "\n"), nil
			}, nil
		},
	}
}

func getAlbumTracks() Tool {
	return Tool{
		Definition: mcp.NewTool("getAlbumTracks",
			mcp.WithDescription("Get tracks from a specific album with pagination support"),
			mcp.WithReadOnlyHintAnnotation(true),
			mcp.WithString("albumId",
				mcp.Required(),
				mcp.Description("The Spotify ID of the album"),
			),
			mcp.WithNumber("limit",
				mcp.Description("Maximum number of tracks to return (1-50)"),
				mcp.Min(1),
				mcp.Max(50),
				mcp.DefaultNumber(20),
			),
			mcp.WithNumber("offset",
				mcp.Description("Offset for pagination (0-based index)"),
				mcp.Min(0),
				mcp.DefaultNumber(0),
			),
		),
		FailurePrefix: "Error getting album tracks",
		Prepare: func(args Args) (Call, error) {
			albumID, err := args.RequiredString("albumId")
			if err != nil {
				return nil, err
			}
			limit, offset, err := pageArgs(args, 20)
			if err != nil {
				return nil, err
			}
			return func(ctx context.Context, api API) (string, error) {
				page, err := api.AlbumTracks(ctx, albumID, limit, offset)
				if err != nil {
					return "", err
				}
				if len(page.Items) == 0 {
					return "This album doesn't have any tracks", nil
				}
				lines := make([]string, len(page.Items))
				for i := range page.Items {
					lines[i] = fmt.Sprintf("%d. %s", offset+i+1, trackLine(&page.Items[i]))
				}
				return fmt.Sprintf("# Album Tracks (%d-%d of %d)\n\n%s",
					offset+1, offset+len(page.Items), page.Total, strings.Join(lines, "\n")), nil
			}, nil
		},
	}
}

func albumIDsArray(description string) mcp.ToolOption {
	return mcp.WithArray("albumIds",
		mcp.Required(),
		mcp.Description(description),
		mcp.WithStringItems(),
		mcp.MinItems(1),
		mcp.MaxItems(maxAlbumIDs),
	)
}

func saveOrRemoveAlbumForUser() Tool {
	return Tool{
		Definition: mcp.NewTool("saveOrRemoveAlbumForUser",
			mcp.WithDescription("Save or remove albums from the user's \"Your Music\" library"),
			albumIDsArray("Array of Spotify album IDs (max 20)"),
			mcp.WithString("action",
				mcp.Required(),
				mcp.Description("Action to perform: save or remove albums"),
				mcp.Enum("save", "remove"),
			),
		),
		FailurePrefix: "Error updating saved albums",
		Prepare: func(args Args) (Call, error) {
			ids, err := args.RequiredStringList("albumIds", maxAlbumIDs)
			if err != nil {
				return nil, err
			}
			action, err := args.Enum("action", true, "save", "remove")
			if err != nil {
				return nil, err
			}
			return func(ctx context.Context, api API) (string, error) {
				if action == "save" {
					if err := api.SaveAlbums(ctx, ids); err != nil {
						return "", err
					}
					return fmt.Sprintf("Successfully saved %s to your library", plural(len(ids), "album")), nil
				}
				if err := api.RemoveAlbums(ctx, ids); err != nil {
					return "", err
				}
				return fmt.Sprintf("Successfully removed %s from your library", plural(len(ids), "album")), nil
			}, nil
		},
	}
}

func checkUsersSavedAlbums() Tool {
	return Tool{
		Definition: mcp.NewTool("checkUsersSavedAlbums",
			mcp.WithDescription("Check if albums are saved in the user's \"Your Music\" library"),
			mcp.WithReadOnlyHintAnnotation(true),
			albumIDsArray("Array of Spotify album IDs to check (max 20)"),
		),
		FailurePrefix: "Error checking saved albums",
		Prepare: func(args Args) (Call, error) {
			ids, err := args.RequiredStringList("albumIds", maxAlbumIDs)
			if err != nil {
				return nil, err
			}
			return func(ctx context.Context, api API) (string, error) {
				saved, err := api.CheckSavedAlbums(ctx, ids)
				if err != nil {
					return "", err
				}
				lines := make([]string, len(ids))
				for i, id := range ids {
					status := "Not saved"
					if i < len(saved) && saved[i] {
						status = "Saved"
					}
					lines[i] = fmt.Sprintf("%d. %s: %s", i+1, id, status)
				}
				return "# Album Save Status\n\n" + strings.Join(lines, "\n"), nil
			}, nil
		},
	}
}
