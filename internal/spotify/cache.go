package spotify

import (
	"slices"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Cache defaults
const (
	DefaultFeatureCacheSize = 2048
	DefaultGenreSeedTTL     = 24 * time.Hour

	genreSeedKey = "genre-seeds"
)

// CatalogCache holds immutable catalog data: audio features keyed by track
// id, and the genre seed list which changes rarely.
type CatalogCache struct {
	features *lru.Cache[string, AudioFeatures]
	genres   *expirable.LRU[string, []string]
}

// NewCatalogCache creates a cache holding up to size audio feature entries.
// Genre seeds expire after ttl.
func NewCatalogCache(size int, ttl time.Duration) *CatalogCache {
	if size <= 0 {
		size = DefaultFeatureCacheSize
	}
	features, err := lru.New[string, AudioFeatures](size)
	if err != nil {
		// Only fails for a non-positive size
		panic(err)
	}
	return &CatalogCache{
		features: features,
		genres:   expirable.NewLRU[string, []string](1, nil, ttl),
	}
}

func (c *CatalogCache) audioFeatures(id string) (*AudioFeatures, bool) {
	f, ok := c.features.Get(id)
	if !ok {
		return nil, false
	}
	return &f, true
}

func (c *CatalogCache) storeAudioFeatures(f *AudioFeatures) {
	if f == nil || f.ID == "" {
		return
	}
	c.features.Add(f.ID, *f)
}

func (c *CatalogCache) genreSeeds() ([]string, bool) {
	genres, ok := c.genres.Get(genreSeedKey)
	if !ok {
		return nil, false
	}
	return slices.Clone(genres), true
}

func (c *CatalogCache) storeGenreSeeds(genres []string) {
	c.genres.Add(genreSeedKey, slices.Clone(genres))
}

// Len returns the number of cached audio feature entries
func (c *CatalogCache) Len() int {
	return c.features.Len()
}

// Purge drops all cached entries
func (c *CatalogCache) Purge() {
	c.features.Purge()
	c.genres.Purge()
}
