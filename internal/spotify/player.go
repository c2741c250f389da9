package spotify

import (
	"context"
	"errors"
	"fmt"
)

// PlayOptions selects what to start playing. Either ContextURI (album,
// artist or playlist) or URIs (tracks) may be set; neither resumes playback.
type PlayOptions struct {
	DeviceID   string
	ContextURI string
	URIs       []string
}

// PlaybackState returns the player state, or nil when no device is active
func (c *Client) PlaybackState(ctx context.Context) (*PlaybackState, error) {
	var state PlaybackState
	if err := c.get(ctx, "/me/player", nil, &state); err != nil {
		if errors.Is(err, ErrNoContent) {
			return nil, nil
		}
		return nil, err
	}
	return &state, nil
}

// CurrentlyPlaying returns the item being played, or nil when nothing is playing
func (c *Client) CurrentlyPlaying(ctx context.Context) (*CurrentlyPlaying, error) {
	var playing CurrentlyPlaying
	if err := c.get(ctx, "/me/player/currently-playing", nil, &playing); err != nil {
		if errors.Is(err, ErrNoContent) {
			return nil, nil
		}
		return nil, err
	}
	return &playing, nil
}

// Devices lists the user's available Spotify Connect devices
func (c *Client) Devices(ctx context.Context) ([]Device, error) {
	var resp struct {
		Devices []Device `json:"devices"`
	}
	if err := c.get(ctx, "/me/player/devices", nil, &resp); err != nil && !errors.Is(err, ErrNoContent) {
		return nil, err
	}
	return resp.Devices, nil
}

// Queue returns the currently playing item and the upcoming queue
func (c *Client) Queue(ctx context.Context) (*Queue, error) {
	var q Queue
	if err := c.get(ctx, "/me/player/queue", nil, &q); err != nil && !errors.Is(err, ErrNoContent) {
		return nil, err
	}
	return &q, nil
}

// RecentlyPlayed returns the user's most recently played tracks
func (c *Client) RecentlyPlayed(ctx context.Context, limit int) ([]PlayHistory, error) {
	var page CursorPage[PlayHistory]
	if err := c.get(ctx, "/me/player/recently-played", pageQuery(limit, 0), &page); err != nil && !errors.Is(err, ErrNoContent) {
		return nil, err
	}
	return page.Items, nil
}

// Play starts or resumes playback
func (c *Client) Play(ctx context.Context, opts PlayOptions) error {
	var body map[string]any
	switch {
	case opts.ContextURI != "":
		body = map[string]any{"context_uri": opts.ContextURI}
	case len(opts.URIs) > 0:
		body = map[string]any{"uris": opts.URIs}
	}
	if body == nil {
		return c.put(ctx, "/me/player/play", deviceQuery(opts.DeviceID), nil)
	}
	return c.put(ctx, "/me/player/play", deviceQuery(opts.DeviceID), body)
}

// Pause pauses playback
func (c *Client) Pause(ctx context.Context, deviceID string) error {
	return c.put(ctx, "/me/player/pause", deviceQuery(deviceID), nil)
}

// Next skips to the next track
func (c *Client) Next(ctx context.Context, deviceID string) error {
	return c.post(ctx, "/me/player/next", deviceQuery(deviceID), nil, nil)
}

// Previous skips to the previous track
func (c *Client) Previous(ctx context.Context, deviceID string) error {
	return c.post(ctx, "/me/player/previous", deviceQuery(deviceID), nil, nil)
}

// AddToQueue appends a track or episode URI to the queue
func (c *Client) AddToQueue(ctx context.Context, uri, deviceID string) error {
	q := deviceQuery(deviceID)
	q.Set("uri", uri)
	return c.post(ctx, "/me/player/queue", q, nil, nil)
}

// SetVolume sets the playback volume in percent
func (c *Client) SetVolume(ctx context.Context, percent int, deviceID string) error {
	if percent < 0 || percent > 100 {
		return fmt.Errorf("volume %d out of range 0-100", percent)
	}
	q := deviceQuery(deviceID)
	q.Set("volume_percent", fmt.Sprint(percent))
	return c.put(ctx, "/me/player/volume", q, nil)
}
