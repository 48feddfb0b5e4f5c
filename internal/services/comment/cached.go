package comment

import (
	"context"
	"fmt"
	"time"

	"FXPulse/internal/domain/repository"
	"FXPulse/internal/domain/service"
	icache "FXPulse/internal/service/cache"
)

const cacheName = "comment"

// TrendBucket collapses a trend score into the bucket used for cache keys.
func TrendBucket(trend float64) string {
	switch {
	case trend > 0:
		return "bullish"
	case trend < 0:
		return "bearish"
	default:
		return "neutral"
	}
}

// CacheKey is comment:{pair}:{agent}:{bucket}.
func CacheKey(pairID string, p service.CommentPrompt) string {
	return fmt.Sprintf("comment:%s:%s:%s", pairID, p.AgentID, TrendBucket(p.Trend))
}

// Cached serves repeated comment requests for the same pair, agent and
// trend direction from a bytes cache.
type Cached struct {
	next    service.CommentGenerator
	cache   icache.BytesCache
	ttl     time.Duration
	metrics repository.Metrics
}

func NewCached(next service.CommentGenerator, cache icache.BytesCache, ttl time.Duration, metrics repository.Metrics) *Cached {
	return &Cached{next: next, cache: cache, ttl: ttl, metrics: metrics}
}

// Generate returns the comment and whether it came from cache. Cache
// failures fall through to the generator.
func (c *Cached) Generate(ctx context.Context, pairID string, p service.CommentPrompt) (string, bool, error) {
	key := CacheKey(pairID, p)
	if c.cache != nil {
		if b, ok, err := c.cache.GetBytes(key); err == nil && ok && len(b) > 0 {
			c.record(true)
			return string(b), true, nil
		}
	}
	c.record(false)

	text, err := c.next.Generate(ctx, p)
	if err != nil {
		return "", false, err
	}
	if c.cache != nil && c.ttl > 0 {
		_ = c.cache.SetBytes(key, []byte(text), c.ttl)
	}
	return text, false, nil
}

func (c *Cached) record(hit bool) {
	if c.metrics != nil {
		c.metrics.RecordCacheResult(cacheName, hit)
	}
}
