package tools

import (
	"fmt"
	"strings"

	"github.com/dshills/spotify-mcp/internal/spotify"
)

// formatDuration renders milliseconds as m:ss
func formatDuration(ms int) string {
	if ms < 0 {
		ms = 0
	}
	totalSeconds := ms / 1000
	return fmt.Sprintf("%d:%02d", totalSeconds/60, totalSeconds%60)
}

func joinArtists(artists []spotify.SimpleArtist) string {
	names := make([]string, len(artists))
	for i, a := range artists {
		names[i] = a.Name
	}
	return strings.Join(names, ", ")
}

// trackLine renders `"name" by artists (m:ss) - ID: id`
func trackLine(t *spotify.SimpleTrack) string {
	return fmt.Sprintf("\"%s\" by %s (%s) - ID: %s", t.Name, joinArtists(t.Artists), formatDuration(t.DurationMs), t.ID)
}

func plural(n int, singular string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, singular)
	}
	return fmt.Sprintf("%d %ss", n, singular)
}

// formatDate renders Spotify timestamps as a calendar date
func formatDate(timestamp string) string {
	if len(timestamp) >= 10 {
		return timestamp[:10]
	}
	return timestamp
}

// parseURI splits spotify:<type>:<id>. ok is false for any other shape.
func parseURI(uri string) (kind, id string, ok bool) {
	parts := strings.Split(uri, ":")
	if len(parts) != 3 || parts[0] != "spotify" || parts[1] == "" || parts[2] == "" {
		return "", "", false
	}
	return parts[1], parts[2], true
}
