package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dshills/spotify-mcp/internal/spotify"
)

func TestFormatDuration(t *testing.T) {
	tests := map[int]string{
		0:       "0:00",
		999:     "0:00",
		59999:   "0:59",
		60000:   "1:00",
		215000:  "3:35",
		3723000: "62:03",
		-5:      "0:00",
	}
	for ms, want := range tests {
		assert.Equal(t, want, formatDuration(ms), "ms=%d", ms)
	}
}

func TestJoinArtists(t *testing.T) {
	assert.Equal(t, "", joinArtists(nil))
	assert.Equal(t, "Daft Punk, Pharrell Williams", joinArtists([]spotify.SimpleArtist{{Name: "Daft Punk"}, {Name: "Pharrell Williams"}}))
}

func TestParseURI(t *testing.T) {
	kind, id, ok := parseURI("spotify:track:4uLU6hMCjMI75M1A2tKUQC")
	assert.True(t, ok)
	assert.Equal(t, "track", kind)
	assert.Equal(t, "4uLU6hMCjMI75M1A2tKUQC", id)

	_, _, ok = parseURI("https://open.spotify.com/track/abc")
	assert.False(t, ok)
	_, _, ok = parseURI("spotify:track:")
	assert.False(t, ok)
}

func TestPlural(t *testing.T) {
	assert.Equal(t, "1 track", plural(1, "track"))
	assert.Equal(t, "0 tracks", plural(0, "track"))
	assert.Equal(t, "12 albums", plural(12, "album"))
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "2024-03-01", formatDate("2024-03-01T12:34:56Z"))
	assert.Equal(t, "2024", formatDate("2024"))
}
