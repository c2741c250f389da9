package tools

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dshills/spotify-mcp/internal/spotify"
)

// Recommendation limits
const (
	maxAudioFeatureIDs = 100
	maxSeeds           = 5
)

// SuggestionTools expose audio analysis and recommendation endpoints
func SuggestionTools() []Tool {
	return []Tool{
		getTrackAudioFeatures(),
		getRecommendations(),
		getRelatedArtists(),
		getGenreSeeds(),
	}
}

func getTrackAudioFeatures() Tool {
	return Tool{
		Definition: mcp.NewTool("getTrackAudioFeatures",
			mcp.WithDescription("Get audio features (tempo, energy, valence, danceability, etc.) for one or more tracks"),
			mcp.WithReadOnlyHintAnnotation(true),
			mcp.WithAny("trackIds",
				mcp.Required(),
				mcp.Description("A single track ID or array of track IDs"),
				stringOrArray(maxAudioFeatureIDs),
			),
		),
		FailurePrefix: "Error fetching audio features",
		Prepare: func(args Args) (Call, error) {
			ids, single, err := args.StringOrList("trackIds", maxAudioFeatureIDs)
			if err != nil {
				return nil, err
			}
			return func(ctx context.Context, api API) (string, error) {
				features, err := api.AudioFeatures(ctx, ids)
				if err != nil {
					return "", err
				}

				if single {
					if len(features) == 0 || features[0] == nil {
						return "", fmt.Errorf("no audio features available for track %s", ids[0])
					}
					return "# Audio Features\n\n" + formatAudioFeatures(features[0], ""), nil
				}

				blocks := make([]string, len(features))
				for i, f := range features {
					if f == nil {
						blocks[i] = fmt.Sprintf("%d. No features available", i+1)
						continue
					}
					blocks[i] = fmt.Sprintf("%d. %s", i+1, formatAudioFeatures(f, "  "))
				}
				return "# Audio Features\n\n" + strings.Join(blocks, "\n\n"), nil
			}, nil
		},
	}
}

// formatAudioFeatures renders one feature block. Lines after the first are
// prefixed with indent.
func formatAudioFeatures(f *spotify.AudioFeatures, indent string) string {
	mode := "Minor"
	if f.Mode == 1 {
		mode = "Major"
	}
	lines := []string{
		fmt.Sprintf("Track ID: %s", f.ID),
		fmt.Sprintf("Tempo: %.1f BPM", f.Tempo),
		fmt.Sprintf("Energy: %.2f (0-1)", f.Energy),
		fmt.Sprintf("Valence: %.2f (0-1, happiness)", f.Valence),
		fmt.Sprintf("Danceability: %.2f (0-1)", f.Danceability),
		fmt.Sprintf("Acousticness: %.2f (0-1)", f.Acousticness),
		fmt.Sprintf("Instrumentalness: %.2f (0-1)", f.Instrumentalness),
		fmt.Sprintf("Speechiness: %.2f (0-1)", f.Speechiness),
		fmt.Sprintf("Liveness: %.2f (0-1)", f.Liveness),
		fmt.Sprintf("Loudness: %.1f dB", f.Loudness),
		fmt.Sprintf("Key: %d (0-11)", f.Key),
		fmt.Sprintf("Mode: %s", mode),
		fmt.Sprintf("Time Signature: %d/4", f.TimeSignature),
	}
	return strings.Join(lines, "\n"+indent)
}

// tunable is an audio attribute accepted with target_, min_ and max_ prefixes
type tunable struct {
	name   string
	label  string
	lo, hi float64
}

var tunables = []tunable{
	{"acousticness", "acousticness (0-1)", 0, 1},
	{"danceability", "danceability (0-1)", 0, 1},
	{"energy", "energy level (0-1)", 0, 1},
	{"instrumentalness", "instrumentalness (0-1)", 0, 1},
	{"liveness", "liveness (0-1)", 0, 1},
	{"loudness", "loudness in dB", math.Inf(-1), math.Inf(1)},
	{"popularity", "popularity (0-100)", 0, 100},
	{"speechiness", "speechiness (0-1)", 0, 1},
	{"tempo", "tempo in BPM", math.Inf(-1), math.Inf(1)},
	{"valence", "valence/positivity (0-1)", 0, 1},
}

var tunablePrefixes = []struct {
	prefix string
	label  string
}{
	{"target_", "Target"},
	{"min_", "Minimum"},
	{"max_", "Maximum"},
}

func recommendationOptions() []mcp.ToolOption {
	opts := []mcp.ToolOption{
		mcp.WithDescription("Get track recommendations based on seed tracks/artists/genres and optional audio feature filters"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithArray("seed_tracks",
			mcp.Description("Up to 5 seed track IDs"),
			mcp.WithStringItems(),
			mcp.MaxItems(maxSeeds),
		),
		mcp.WithArray("seed_artists",
			mcp.Description("Up to 5 seed artist IDs"),
			mcp.WithStringItems(),
			mcp.MaxItems(maxSeeds),
		),
		mcp.WithArray("seed_genres",
			mcp.Description("Up to 5 seed genres (see getGenreSeeds for valid genres)"),
			mcp.WithStringItems(),
			mcp.MaxItems(maxSeeds),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of recommendations (1-100, default: 20)"),
			mcp.Min(1),
			mcp.Max(100),
			mcp.DefaultNumber(20),
		),
		mcp.WithString("market",
			mcp.Description("ISO 3166-1 alpha-2 country code (e.g., US, GB)"),
			mcp.MinLength(2),
			mcp.MaxLength(2),
			mcp.Pattern("^[A-Za-z]{2}$"),
		),
	}
	for _, p := range tunablePrefixes {
		for _, t := range tunables {
			props := []mcp.PropertyOption{mcp.Description(p.label + " " + t.label)}
			if !math.IsInf(t.lo, 0) {
				props = append(props, mcp.Min(t.lo), mcp.Max(t.hi))
			}
			opts = append(opts, mcp.WithNumber(p.prefix+t.name, props...))
		}
	}
	return opts
}

func getRecommendations() Tool {
	return Tool{
		Definition:    mcp.NewTool("getRecommendations", recommendationOptions()...),
		FailurePrefix: "Error fetching recommendations",
		Prepare: func(args Args) (Call, error) {
			var params spotify.RecommendationParams
			var err error
			if params.SeedTracks, err = args.StringList("seed_tracks", maxSeeds); err != nil {
				return nil, err
			}
			if params.SeedArtists, err = args.StringList("seed_artists", maxSeeds); err != nil {
				return nil, err
			}
			if params.SeedGenres, err = args.StringList("seed_genres", maxSeeds); err != nil {
				return nil, err
			}

			total := len(params.SeedTracks) + len(params.SeedArtists) + len(params.SeedGenres)
			if total == 0 {
				return nil, argError("At least one seed (track, artist, or genre) is required")
			}
			if total > maxSeeds {
				return nil, argError("Total number of seeds cannot exceed %d", maxSeeds)
			}

			if params.Limit, err = args.Int("limit", 20, 1, 100); err != nil {
				return nil, err
			}
			if params.Market, err = args.String("market"); err != nil {
				return nil, err
			}
			if params.Market != "" && !isCountryCode(params.Market) {
				return nil, argError("market must be a 2 letter country code")
			}

			params.Tunables = make(map[string]float64)
			for _, p := range tunablePrefixes {
				for _, t := range tunables {
					name := p.prefix + t.name
					v, err := args.Float(name, t.lo, t.hi)
					if err != nil {
						return nil, err
					}
					if v != nil {
						params.Tunables[name] = *v
					}
				}
			}

			return func(ctx context.Context, api API) (string, error) {
				recs, err := api.Recommendations(ctx, params)
				if err != nil {
					return "", err
				}
				blocks := make([]string, len(recs.Tracks))
				for i, t := range recs.Tracks {
					blocks[i] = fmt.Sprintf("%d. \"%s\" by %s\n   Album: %s\n   Duration: %s\n   Popularity: %d/100\n   Track ID: %s",
						i+1, t.Name, joinArtists(t.Artists), t.Album.Name, formatDuration(t.DurationMs), t.Popularity, t.ID)
				}
				return fmt.Sprintf("# Recommendations (%d tracks)\n\n%s", len(recs.Tracks), strings.Join(blocks, "\n\n")), nil
			}, nil
		},
	}
}

func getRelatedArtists() Tool {
	return Tool{
		Definition: mcp.NewTool("getRelatedArtists",
			mcp.WithDescription("Get artists similar to a given artist"),
			mcp.WithReadOnlyHintAnnotation(true),
			mcp.WithString("artistId",
				mcp.Required(),
				mcp.Description("The Spotify ID of the artist"),
			),
		),
		FailurePrefix: "Error fetching related artists",
		Prepare: func(args Args) (Call, error) {
			artistID, err := args.RequiredString("artistId")
			if err != nil {
				return nil, err
			}
			return func(ctx context.Context, api API) (string, error) {
				artists, err := api.RelatedArtists(ctx, artistID)
				if err != nil {
					return "", err
				}
				blocks := make([]string, len(artists))
				for i, a := range artists {
					genres := strings.Join(a.Genres, ", ")
					if genres == "" {
						genres = "None specified"
					}
					blocks[i] = fmt.Sprintf("%d. %s\n   Genres: %s\n   Popularity: %d/100\n   Followers: %s\n   Artist ID: %s",
						i+1, a.Name, genres, a.Popularity, humanize.Comma(int64(a.Followers.Total)), a.ID)
				}
				return fmt.Sprintf("# Related Artists (%d artists)\n\n%s", len(artists), strings.Join(blocks, "\n\n")), nil
			}, nil
		},
	}
}

func getGenreSeeds() Tool {
	return Tool{
		Definition: mcp.NewTool("getGenreSeeds",
			mcp.WithDescription("Get list of available genre seeds for use with the getRecommendations tool"),
			mcp.WithReadOnlyHintAnnotation(true),
		),
		FailurePrefix: "Error fetching genre seeds",
		Prepare: func(args Args) (Call, error) {
			return func(ctx context.Context, api API) (string, error) {
				genres, err := api.GenreSeeds(ctx)
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("# Available Genre Seeds (%d genres)\n\n%s", len(genres), strings.Join(genres, ", ")), nil
			}, nil
		},
	}
}

// isCountryCode reports whether s is two ASCII letters
func isCountryCode(s string) bool {
	if len(s) != 2 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i] | 0x20
		if c < 'a' || c > 'z' {
			return false
		}
	}
	return true
}
