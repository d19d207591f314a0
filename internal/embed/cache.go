package embed

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	gocache "github.com/patrickmn/go-cache"
)

// Cache memoizes embeddings by content hash. Chunk overlap and repeated
// metadata chunks make duplicate texts common within a batch run.
type Cache struct {
	inner Embedder
	cache *gocache.Cache
}

// NewCache wraps an Embedder with an in-memory cache.
func NewCache(inner Embedder) *Cache {
	return &Cache{
		inner: inner,
		cache: gocache.New(gocache.NoExpiration, 0),
	}
}

// Embed returns the cached vector when the text was seen before.
func (c *Cache) Embed(ctx context.Context, text string) ([]float32, error) {
	key := cacheKey(text)
	if val, found := c.cache.Get(key); found {
		return val.([]float32), nil
	}

	vec, err := c.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	c.cache.Set(key, vec, gocache.DefaultExpiration)
	return vec, nil
}

// EmbedBatch serves hits from the cache and embeds only the misses.
func (c *Cache) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	var missTexts []string
	var missIdx []int
	for i, text := range texts {
		if val, found := c.cache.Get(cacheKey(text)); found {
			vectors[i] = val.([]float32)
			continue
		}
		missTexts = append(missTexts, text)
		missIdx = append(missIdx, i)
	}

	if len(missTexts) > 0 {
		embedded, err := c.inner.EmbedBatch(ctx, missTexts)
		if err != nil {
			return nil, err
		}
		for j, vec := range embedded {
			vectors[missIdx[j]] = vec
			c.cache.Set(cacheKey(missTexts[j]), vec, gocache.DefaultExpiration)
		}
	}
	return vectors, nil
}

// Dimensions reports the wrapped embedder's vector size.
func (c *Cache) Dimensions() int {
	return c.inner.Dimensions()
}

func cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
