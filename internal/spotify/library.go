package spotify

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// CurrentUser returns the profile of the authenticated user
func (c *Client) CurrentUser(ctx context.Context) (*PrivateUser, error) {
	var user PrivateUser
	if err := c.get(ctx, "/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// MyPlaylists lists playlists owned or followed by the current user
func (c *Client) MyPlaylists(ctx context.Context, limit, offset int) (*Page[SimplePlaylist], error) {
	var page Page[SimplePlaylist]
	if err := c.get(ctx, "/me/playlists", pageQuery(limit, offset), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// PlaylistItems returns a page of a playlist's items
func (c *Client) PlaylistItems(ctx context.Context, playlistID string, limit, offset int) (*Page[PlaylistItem], error) {
	var page Page[PlaylistItem]
	path := "/playlists/" + escape(playlistID) + "/tracks"
	if err := c.get(ctx, path, pageQuery(limit, offset), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// CreatePlaylist creates a playlist for userID
func (c *Client) CreatePlaylist(ctx context.Context, userID, name, description string, public bool) (*Playlist, error) {
	body := map[string]any{
		"name":        name,
		"description": description,
		"public":      public,
	}
	var playlist Playlist
	if err := c.post(ctx, "/users/"+escape(userID)+"/playlists", nil, body, &playlist); err != nil {
		return nil, err
	}
	return &playlist, nil
}

// AddTracksToPlaylist inserts track URIs into a playlist and returns the new snapshot id.
// A nil position appends.
func (c *Client) AddTracksToPlaylist(ctx context.Context, playlistID string, uris []string, position *int) (string, error) {
	body := map[string]any{"uris": uris}
	if position != nil {
		body["position"] = *position
	}
	var resp struct {
		SnapshotID string `json:"snapshot_id"`
	}
	if err := c.post(ctx, "/playlists/"+escape(playlistID)+"/tracks", nil, body, &resp); err != nil {
		return "", err
	}
	return resp.SnapshotID, nil
}

// SavedTracks returns a page of the user's liked tracks
func (c *Client) SavedTracks(ctx context.Context, limit, offset int) (*Page[SavedTrack], error) {
	var page Page[SavedTrack]
	if err := c.get(ctx, "/me/tracks", pageQuery(limit, offset), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// SaveAlbums adds albums to the user's library
func (c *Client) SaveAlbums(ctx context.Context, ids []string) error {
	return c.put(ctx, "/me/albums", idsQuery(ids), nil)
}

// RemoveAlbums removes albums from the user's library
func (c *Client) RemoveAlbums(ctx context.Context, ids []string) error {
	return c.delete(ctx, "/me/albums", idsQuery(ids), nil)
}

// CheckSavedAlbums reports, per id, whether the album is in the user's library
func (c *Client) CheckSavedAlbums(ctx context.Context, ids []string) ([]bool, error) {
	var saved []bool
	if err := c.get(ctx, "/me/albums/contains", idsQuery(ids), &saved); err != nil {
		return nil, err
	}
	if len(saved) != len(ids) {
		return nil, fmt.Errorf("expected %d results, got %d", len(ids), len(saved))
	}
	return saved, nil
}

func idsQuery(ids []string) url.Values {
	q := url.Values{}
	q.Set("ids", strings.Join(ids, ","))
	return q
}
