// Package cache provides caching decorators for transcript analyzers.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"call_analysis/internal/feature/callanalysis/domain/entity"
	"call_analysis/internal/feature/callanalysis/usecase"
)

const (
	// DefaultTTL is used when ttl is not positive.
	DefaultTTL = 24 * time.Hour
	// DefaultNamespace prefixes every cache key.
	DefaultNamespace = "analysis"
)

// CachingAnalyzer decorates a TranscriptAnalyzer with Redis caching.
// Results are keyed by the SHA-256 of the transcript, so identical transcripts
// reuse one upstream call. Concurrent misses for the same transcript share a
// single upstream call.
type CachingAnalyzer struct {
	inner     usecase.TranscriptAnalyzer
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
	group     singleflight.Group
}

var _ usecase.TranscriptAnalyzer = (*CachingAnalyzer)(nil)

// cachedResult is the JSON shape stored in Redis.
type cachedResult struct {
	Summary   string `json:"summary"`
	Sentiment string `json:"sentiment"`
}

// NewCachingAnalyzer decorates inner with Redis caching.
// If ttl is 0, it defaults to 24 hours. If namespace is empty, it uses "analysis".
// A nil rdb disables caching entirely.
func NewCachingAnalyzer(rdb *redis.Client, ttl time.Duration, inner usecase.TranscriptAnalyzer, namespace string) *CachingAnalyzer {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &CachingAnalyzer{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// Analyze checks the cache first, then falls back to the inner analyzer.
func (c *CachingAnalyzer) Analyze(ctx context.Context, transcript string) (entity.AnalysisResult, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.inner.Analyze(ctx, transcript)
	}

	key := c.cacheKey(transcript)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		if out, ok := decode(b); ok {
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to the analyzer, one call per key in flight
	v, err, _ := c.group.Do(key, func() (any, error) {
		return c.inner.Analyze(ctx, transcript)
	})
	if err != nil {
		return entity.AnalysisResult{}, err
	}
	out := v.(entity.AnalysisResult)

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(cachedResult{Summary: out.Summary, Sentiment: out.Sentiment.String()}); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}

	return out, nil
}

// Namespace returns the cache key prefix.
func (c *CachingAnalyzer) Namespace() string {
	return c.namespace
}

// cacheKey generates the cache key for a transcript.
func (c *CachingAnalyzer) cacheKey(transcript string) string {
	sum := sha256.Sum256([]byte(transcript))
	return c.namespace + ":" + hex.EncodeToString(sum[:])
}

func decode(b []byte) (entity.AnalysisResult, bool) {
	var cr cachedResult
	if err := json.Unmarshal(b, &cr); err != nil {
		return entity.AnalysisResult{}, false
	}
	sentiment, err := entity.ParseSentiment(cr.Sentiment)
	if err != nil {
		return entity.AnalysisResult{}, false
	}
	return entity.AnalysisResult{Summary: cr.Summary, Sentiment: sentiment}, true
}
