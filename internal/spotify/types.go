package spotify

// Image is a cover or profile image
type Image struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// Followers holds the follower count of an artist or user
type Followers struct {
	Total int `json:"total"`
}

// User is a public user profile
type User struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	URI         string `json:"uri"`
}

// PrivateUser is the profile of the authenticated user
type PrivateUser struct {
	User
	Country string `json:"country"`
	Product string `json:"product"`
	Email   string `json:"email"`
}

// SimpleArtist is the artist object embedded in tracks and albums
type SimpleArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`
}

// Artist is a full artist object
type Artist struct {
	SimpleArtist
	Genres     []string  `json:"genres"`
	Popularity int       `json:"popularity"`
	Followers  Followers `json:"followers"`
	Images     []Image   `json:"images"`
}

// SimpleAlbum is the album object embedded in tracks and search results
type SimpleAlbum struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	URI         string         `json:"uri"`
	AlbumType   string         `json:"album_type"`
	ReleaseDate string         `json:"release_date"`
	TotalTracks int            `json:"total_tracks"`
	Artists     []SimpleArtist `json:"artists"`
	Images      []Image        `json:"images"`
}

// Album is a full album object
type Album struct {
	SimpleAlbum
	Label      string            `json:"label"`
	Popularity int               `json:"popularity"`
	Genres     []string          `json:"genres"`
	Tracks     Page[SimpleTrack] `json:"tracks"`
}

// SimpleTrack is a track without album and popularity, as returned by album endpoints
type SimpleTrack struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	URI         string         `json:"uri"`
	Type        string         `json:"type"`
	Artists     []SimpleArtist `json:"artists"`
	DurationMs  int            `json:"duration_ms"`
	TrackNumber int            `json:"track_number"`
	Explicit    bool           `json:"explicit"`
}

// Track is a full track object. Playlist items and the player may also
// return podcast episodes in this shape; Type tells them apart.
type Track struct {
	SimpleTrack
	Album      SimpleAlbum `json:"album"`
	Popularity int         `json:"popularity"`
}

// IsEpisode reports whether the item is a podcast episode rather than a track
func (t *Track) IsEpisode() bool {
	return t.Type == "episode"
}

// Page is Spotify's offset-based paging object
type Page[T any] struct {
	Href     string `json:"href"`
	Items    []T    `json:"items"`
	Limit    int    `json:"limit"`
	Offset   int    `json:"offset"`
	Total    int    `json:"total"`
	Next     string `json:"next"`
	Previous string `json:"previous"`
}

// Cursors marks the position of a cursor-based page
type Cursors struct {
	After  string `json:"after"`
	Before string `json:"before"`
}

// CursorPage is Spotify's cursor-based paging object
type CursorPage[T any] struct {
	Href    string  `json:"href"`
	Items   []T     `json:"items"`
	Limit   int     `json:"limit"`
	Next    string  `json:"next"`
	Cursors Cursors `json:"cursors"`
	Total   int     `json:"total"`
}

// PlaylistTracksRef is the track summary embedded in playlist objects
type PlaylistTracksRef struct {
	Href  string `json:"href"`
	Total int    `json:"total"`
}

// SimplePlaylist is a playlist without its items
type SimplePlaylist struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Description   string            `json:"description"`
	URI           string            `json:"uri"`
	Public        *bool             `json:"public"`
	Collaborative bool              `json:"collaborative"`
	Owner         User              `json:"owner"`
	SnapshotID    string            `json:"snapshot_id"`
	Tracks        PlaylistTracksRef `json:"tracks"`
}

// Playlist is a full playlist object
type Playlist struct {
	SimplePlaylist
	Followers Followers `json:"followers"`
}

// PlaylistItem is one entry of a playlist. Track is nil when the item was
// removed from the catalog.
type PlaylistItem struct {
	AddedAt string `json:"added_at"`
	AddedBy *User  `json:"added_by"`
	IsLocal bool   `json:"is_local"`
	Track   *Track `json:"track"`
}

// SavedTrack is a track in the user's library
type SavedTrack struct {
	AddedAt string `json:"added_at"`
	Track   Track  `json:"track"`
}

// PlayHistory is one entry of the recently played list
type PlayHistory struct {
	Track    Track            `json:"track"`
	PlayedAt string           `json:"played_at"`
	Context  *PlaybackContext `json:"context"`
}

// PlaybackContext is the album, playlist or artist being played from
type PlaybackContext struct {
	Type string `json:"type"`
	URI  string `json:"uri"`
	Href string `json:"href"`
}

// Device is a Spotify Connect device
type Device struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Type             string `json:"type"`
	IsActive         bool   `json:"is_active"`
	IsPrivateSession bool   `json:"is_private_session"`
	IsRestricted     bool   `json:"is_restricted"`
	VolumePercent    *int   `json:"volume_percent"`
	SupportsVolume   bool   `json:"supports_volume"`
}

// CurrentlyPlaying is the response of the currently-playing endpoint
type CurrentlyPlaying struct {
	Timestamp            int64            `json:"timestamp"`
	ProgressMs           int              `json:"progress_ms"`
	IsPlaying            bool             `json:"is_playing"`
	CurrentlyPlayingType string           `json:"currently_playing_type"`
	Context              *PlaybackContext `json:"context"`
	Item                 *Track           `json:"item"`
}

// PlaybackState is the full player state including the active device
type PlaybackState struct {
	CurrentlyPlaying
	Device       Device `json:"device"`
	RepeatState  string `json:"repeat_state"`
	ShuffleState bool   `json:"shuffle_state"`
}

// Queue is the user's playback queue
type Queue struct {
	CurrentlyPlaying *Track  `json:"currently_playing"`
	Queue            []Track `json:"queue"`
}

// AudioFeatures holds the per-track audio analysis attributes
type AudioFeatures struct {
	ID               string  `json:"id"`
	URI              string  `json:"uri"`
	Acousticness     float64 `json:"acousticness"`
	Danceability     float64 `json:"danceability"`
	Energy           float64 `json:"energy"`
	Instrumentalness float64 `json:"instrumentalness"`
	Liveness         float64 `json:"liveness"`
	Loudness         float64 `json:"loudness"`
	Speechiness      float64 `json:"speechiness"`
	Tempo            float64 `json:"tempo"`
	Valence          float64 `json:"valence"`
	Key              int     `json:"key"`
	Mode             int     `json:"mode"`
	TimeSignature    int     `json:"time_signature"`
	DurationMs       int     `json:"duration_ms"`
}

// RecommendationSeed describes how a seed contributed to recommendations
type RecommendationSeed struct {
	ID                 string `json:"id"`
	Type               string `json:"type"`
	InitialPoolSize    int    `json:"initialPoolSize"`
	AfterFilteringSize int    `json:"afterFilteringSize"`
	AfterRelinkingSize int    `json:"afterRelinkingSize"`
}

// Recommendations is the response of the recommendations endpoint
type Recommendations struct {
	Seeds  []RecommendationSeed `json:"seeds"`
	Tracks []Track              `json:"tracks"`
}

// SearchResult holds one page per requested search type. Spotify may return
// null entries in the playlist page, hence the pointer items.
type SearchResult struct {
	Tracks    *Page[Track]           `json:"tracks"`
	Albums    *Page[SimpleAlbum]     `json:"albums"`
	Artists   *Page[Artist]          `json:"artists"`
	Playlists *Page[*SimplePlaylist] `json:"playlists"`
}
