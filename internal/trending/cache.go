// In file: internal/trending/cache.go
package trending

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/aj-automates/content-engine/internal/version"

	"github.com/redis/go-redis/v9"
)

const (
	feedCachePrefix   = "feedcache"
	shortsCachePrefix = "shortscache"

	// The feed refreshes often enough that short TTLs keep it current while
	// still absorbing dashboard polling.
	feedCacheTTL   = 10 * time.Minute
	shortsCacheTTL = 30 * time.Minute
)

// Cache stores rendered feed pages and shorts batches in Redis. Keys are
// versioned, so bumping a component version in internal/version invalidates
// every stale entry automatically.
type Cache struct {
	rdb *redis.Client
}

func NewCache(rdb *redis.Client) *Cache {
	return &Cache{rdb: rdb}
}

func feedCacheKey(page, perPage int) string {
	return version.GenerateVersionedCacheKey(feedCachePrefix, fmt.Sprintf("p%d_n%d", page, perPage))
}

// GetFeed returns the cached page, or nil on a miss. Cache errors are
// treated as misses so a flaky Redis never blocks the feed.
func (c *Cache) GetFeed(ctx context.Context, page, perPage int) *FeedPage {
	if c == nil || c.rdb == nil {
		return nil
	}
	data, err := c.rdb.Get(ctx, feedCacheKey(page, perPage)).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("⚠️ Feed cache read failed: %v", err)
		}
		return nil
	}
	var feedPage FeedPage
	if err := json.Unmarshal(data, &feedPage); err != nil {
		log.Printf("⚠️ Feed cache entry corrupt, ignoring: %v", err)
		return nil
	}
	log.Println("📌 Trending feed cache HIT")
	return &feedPage
}

func (c *Cache) SetFeed(ctx context.Context, page, perPage int, feedPage *FeedPage) {
	if c == nil || c.rdb == nil {
		return
	}
	data, err := json.Marshal(feedPage)
	if err != nil {
		log.Printf("⚠️ Failed to marshal feed page for cache: %v", err)
		return
	}
	if err := c.rdb.Set(ctx, feedCacheKey(page, perPage), data, feedCacheTTL).Err(); err != nil {
		log.Printf("⚠️ Feed cache write failed: %v", err)
	}
}

// GetShorts returns the cached shorts batch for a feed fingerprint, or nil
// on a miss.
func (c *Cache) GetShorts(ctx context.Context, feedFingerprint string) []ShortsIdea {
	if c == nil || c.rdb == nil {
		return nil
	}
	key := version.GenerateVersionedCacheKey(shortsCachePrefix, feedFingerprint)
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("⚠️ Shorts cache read failed: %v", err)
		}
		return nil
	}
	var ideas []ShortsIdea
	if err := json.Unmarshal(data, &ideas); err != nil {
		log.Printf("⚠️ Shorts cache entry corrupt, ignoring: %v", err)
		return nil
	}
	log.Println("📌 Shorts cache HIT")
	return ideas
}

func (c *Cache) SetShorts(ctx context.Context, feedFingerprint string, ideas []ShortsIdea) {
	if c == nil || c.rdb == nil {
		return
	}
	data, err := json.Marshal(ideas)
	if err != nil {
		log.Printf("⚠️ Failed to marshal shorts batch for cache: %v", err)
		return
	}
	key := version.GenerateVersionedCacheKey(shortsCachePrefix, feedFingerprint)
	if err := c.rdb.Set(ctx, key, data, shortsCacheTTL).Err(); err != nil {
		log.Printf("⚠️ Shorts cache write failed: %v", err)
	}
}

// Fingerprint summarizes a feed into a stable string for shorts-cache keys:
// same top headlines in, same key out.
func Fingerprint(topics []FeedItem) string {
	limit := len(topics)
	if limit > 20 {
		limit = 20
	}
	var sb []byte
	for _, t := range topics[:limit] {
		sb = append(sb, t.Title...)
		sb = append(sb, '\n')
	}
	return string(sb)
}
