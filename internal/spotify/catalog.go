package spotify

import (
	"context"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"
)

// Search types accepted by Search
const (
	SearchTypeTrack    = "track"
	SearchTypeAlbum    = "album"
	SearchTypeArtist   = "artist"
	SearchTypePlaylist = "playlist"
)

// RecommendationParams describes a recommendations request. Tunables maps
// attribute names such as "target_energy" or "min_tempo" to their values.
type RecommendationParams struct {
	SeedTracks  []string
	SeedArtists []string
	SeedGenres  []string
	Limit       int
	Market      string
	Tunables    map[string]float64
}

// Search queries the catalog for a single item type
func (c *Client) Search(ctx context.Context, query, searchType string, limit int) (*SearchResult, error) {
	q := pageQuery(limit, 0)
	q.Set("q", query)
	q.Set("type", searchType)

	var result SearchResult
	if err := c.get(ctx, "/search", q, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Album returns a single album
func (c *Client) Album(ctx context.Context, id string) (*Album, error) {
	var album Album
	if err := c.get(ctx, "/albums/"+escape(id), nil, &album); err != nil {
		return nil, err
	}
	return &album, nil
}

// Albums returns several albums. Unknown ids yield nil entries at their position.
func (c *Client) Albums(ctx context.Context, ids []string) ([]*Album, error) {
	var resp struct {
		Albums []*Album `json:"albums"`
	}
	if err := c.get(ctx, "/albums", idsQuery(ids), &resp); err != nil {
		return nil, err
	}
	return resp.Albums, nil
}

// AlbumTracks returns a page of an album's tracks
func (c *Client) AlbumTracks(ctx context.Context, albumID string, limit, offset int) (*Page[SimpleTrack], error) {
	var page Page[SimpleTrack]
	if err := c.get(ctx, "/albums/"+escape(albumID)+"/tracks", pageQuery(limit, offset), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// AudioFeatures returns audio features for each id, in order. Tracks without
// features yield nil entries. Cached ids are not requested again.
func (c *Client) AudioFeatures(ctx context.Context, ids []string) ([]*AudioFeatures, error) {
	result := make([]*AudioFeatures, len(ids))
	var missing []string
	for i, id := range ids {
		if f, ok := c.cache.audioFeatures(id); ok {
			result[i] = f
			continue
		}
		if !slices.Contains(missing, id) {
			missing = append(missing, id)
		}
	}
	if len(missing) == 0 {
		return result, nil
	}

	var resp struct {
		AudioFeatures []*AudioFeatures `json:"audio_features"`
	}
	if err := c.get(ctx, "/audio-features", idsQuery(missing), &resp); err != nil {
		return nil, err
	}

	fetched := make(map[string]*AudioFeatures, len(missing))
	for i, f := range resp.AudioFeatures {
		if f == nil || i >= len(missing) {
			continue
		}
		c.cache.storeAudioFeatures(f)
		fetched[missing[i]] = f
	}
	for i, id := range ids {
		if result[i] == nil {
			if f, ok := fetched[id]; ok {
				cp := *f
				result[i] = &cp
			}
		}
	}
	return result, nil
}

// Recommendations returns tracks generated from the given seeds
func (c *Client) Recommendations(ctx context.Context, params RecommendationParams) (*Recommendations, error) {
	q := url.Values{}
	if len(params.SeedTracks) > 0 {
		q.Set("seed_tracks", strings.Join(params.SeedTracks, ","))
	}
	if len(params.SeedArtists) > 0 {
		q.Set("seed_artists", strings.Join(params.SeedArtists, ","))
	}
	if len(params.SeedGenres) > 0 {
		q.Set("seed_genres", strings.Join(params.SeedGenres, ","))
	}
	if params.Limit > 0 {
		q.Set("limit", fmt.Sprint(params.Limit))
	}
	if params.Market != "" {
		q.Set("market", params.Market)
	}

	for name, value := range params.Tunables {
		q.Set(name, strconv.FormatFloat(value, 'f', -1, 64))
	}

	var recs Recommendations
	if err := c.get(ctx, "/recommendations", q, &recs); err != nil {
		return nil, err
	}
	return &recs, nil
}

// RelatedArtists returns artists similar to artistID
func (c *Client) RelatedArtists(ctx context.Context, artistID string) ([]Artist, error) {
	var resp struct {
		Artists []Artist `json:"artists"`
	}
	if err := c.get(ctx, "/artists/"+escape(artistID)+"/related-artists", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Artists, nil
}

// GenreSeeds returns the genres usable as recommendation seeds
func (c *Client) GenreSeeds(ctx context.Context) ([]string, error) {
	if genres, ok := c.cache.genreSeeds(); ok {
		return genres, nil
	}

	var resp struct {
		Genres []string `json:"genres"`
	}
	if err := c.get(ctx, "/recommendations/available-genre-seeds", nil, &resp); err != nil {
		return nil, err
	}
	c.cache.storeGenreSeeds(resp.Genres)
	return slices.Clone(resp.Genres), nil
}
