package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"scamshield/internal/domain/models"
)

// ScanResultCache stores finished scan results keyed by normalized-input
// hash. Failures are logged and swallowed; the engine treats the cache as
// best-effort.
type ScanResultCache struct {
	redis *RedisCache
	ttl   time.Duration
}

// NewScanResultCache creates a new ScanResultCache
func NewScanResultCache(redis *RedisCache, ttl time.Duration) *ScanResultCache {
	return &ScanResultCache{redis: redis, ttl: ttl}
}

// GetScan returns a cached scan result, if present.
func (c *ScanResultCache) GetScan(ctx context.Context, key string) (*models.RiskScore, bool) {
	var score models.RiskScore
	err := c.redis.GetJSON(ctx, KeyScanPrefix+key, &score)
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.redis.logger.Warn().Err(err).Msg("scan cache read failed")
		}
		return nil, false
	}
	return &score, true
}

// SetScan caches a scan result with the configured TTL.
func (c *ScanResultCache) SetScan(ctx context.Context, key string, score *models.RiskScore) {
	if err := c.redis.SetJSON(ctx, KeyScanPrefix+key, score, c.ttl); err != nil {
		c.redis.logger.Warn().Err(err).Msg("scan cache write failed")
	}
}
