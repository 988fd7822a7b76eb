// Package external hosts collaborators that reach infrastructure outside
// the analysis core's process boundary: the result cache fronting
// persistent storage.
package external

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/biomarker-analysis-core/internal/domain"
)

// CacheConfig configures a redis-backed ResultCache.
type CacheConfig struct {
	RedisURL    string
	PoolSize    int
	PoolTimeout time.Duration
	MaxRetries  int
	DefaultTTL  time.Duration
}

// CacheClient is a redis-backed domain.ResultCache implementation fronting
// AnalysisRepository lookups.
type CacheClient struct {
	redis      *redis.Client
	defaultTTL time.Duration
}

// NewCacheClient builds a CacheClient and verifies connectivity.
func NewCacheClient(cfg CacheConfig) (*CacheClient, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("external: parsing redis url: %w", err)
	}

	opts.PoolSize = cfg.PoolSize
	opts.PoolTimeout = cfg.PoolTimeout
	opts.MaxRetries = cfg.MaxRetries

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("external: connecting to redis: %w", err)
	}

	defaultTTL := cfg.DefaultTTL
	if defaultTTL == 0 {
		defaultTTL = 15 * time.Minute
	}

	return &CacheClient{redis: client, defaultTTL: defaultTTL}, nil
}

type cachedAnalysisResult struct {
	Data      domain.AnalysisResult `json:"data"`
	CachedAt  time.Time             `json:"cached_at"`
	ExpiresAt time.Time             `json:"expires_at"`
}

// Get retrieves a cached AnalysisResult, satisfying domain.ResultCache. A
// miss, expiry, or a corrupted cache entry all report found=false rather
// than erroring; a corrupted entry is evicted as a side effect.
func (c *CacheClient) Get(ctx context.Context, analysisID string) (domain.AnalysisResult, bool, error) {
	key := c.analysisKey(analysisID)

	val, err := c.redis.Get(ctx, key).Result()
	if err == redis.Nil {
		return domain.AnalysisResult{}, false, nil
	}
	if err != nil {
		return domain.AnalysisResult{}, false, fmt.Errorf("external: get analysis cache: %w", err)
	}

	var cached cachedAnalysisResult
	if err := json.Unmarshal([]byte(val), &cached); err != nil {
		c.redis.Del(ctx, key)
		return domain.AnalysisResult{}, false, nil
	}

	if time.Now().After(cached.ExpiresAt) {
		c.redis.Del(ctx, key)
		return domain.AnalysisResult{}, false, nil
	}

	return cached.Data, true, nil
}

// Set caches an AnalysisResult under its AnalysisID with the configured
// default TTL, satisfying domain.ResultCache.
func (c *CacheClient) Set(ctx context.Context, result domain.AnalysisResult) error {
	key := c.analysisKey(result.AnalysisID)

	cached := cachedAnalysisResult{
		Data:      result,
		CachedAt:  time.Now(),
		ExpiresAt: time.Now().Add(c.defaultTTL),
	}

	payload, err := json.Marshal(cached)
	if err != nil {
		return fmt.Errorf("external: marshal analysis cache entry: %w", err)
	}

	return c.redis.Set(ctx, key, payload, c.defaultTTL).Err()
}

// Invalidate removes the cached entry for an analysis ID.
func (c *CacheClient) Invalidate(ctx context.Context, analysisID string) error {
	return c.redis.Del(ctx, c.analysisKey(analysisID)).Err()
}

// Ping checks redis connectivity for health checks.
func (c *CacheClient) Ping(ctx context.Context) error {
	return c.redis.Ping(ctx).Err()
}

// Close releases the underlying redis connection.
func (c *CacheClient) Close() error {
	return c.redis.Close()
}

func (c *CacheClient) analysisKey(analysisID string) string {
	return fmt.Sprintf("analysis:result:%s", analysisID)
}
