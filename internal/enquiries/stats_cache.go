package enquiries

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/alexmurray/portfolio-backend/pkg/logging"
)

const statsCacheKey = "enquiries:stats"

// StatsSource produces the aggregated stats, typically the Postgres
// repository.
type StatsSource interface {
	Stats(ctx context.Context) (*Stats, error)
}

// CachedStats is a read-through Redis cache in front of a StatsSource.
// Cache failures are logged and the source is consulted directly, so a
// dead Redis never breaks the endpoint.
type CachedStats struct {
	source StatsSource
	redis  *redis.Client
	ttl    time.Duration
	logger *logging.Logger
}

// NewCachedStats wraps source with a Redis cache. A nil client returns
// a pass-through wrapper.
func NewCachedStats(source StatsSource, redisClient *redis.Client, ttl time.Duration, logger *logging.Logger) *CachedStats {
	if logger == nil {
		logger = logging.Default()
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &CachedStats{
		source: source,
		redis:  redisClient,
		ttl:    ttl,
		logger: logger,
	}
}

// Stats returns cached stats when fresh, otherwise recomputes and stores.
func (c *CachedStats) Stats(ctx context.Context) (*Stats, error) {
	if c.redis == nil {
		return c.source.Stats(ctx)
	}

	data, err := c.redis.Get(ctx, statsCacheKey).Bytes()
	if err == nil {
		var stats Stats
		if err := json.Unmarshal(data, &stats); err == nil {
			return &stats, nil
		}
		c.logger.Warn("stats cache entry corrupt, recomputing", "error", err)
	} else if err != redis.Nil {
		c.logger.Warn("stats cache read failed", "error", err)
	}

	stats, err := c.source.Stats(ctx)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(stats)
	if err != nil {
		return nil, fmt.Errorf("enquiries: marshal stats: %w", err)
	}
	if err := c.redis.Set(ctx, statsCacheKey, payload, c.ttl).Err(); err != nil {
		c.logger.Warn("stats cache write failed", "error", err)
	}

	return stats, nil
}

// Invalidate drops the cached entry, used after a new submission so
// counts stay close to live.
func (c *CachedStats) Invalidate(ctx context.Context) {
	if c.redis == nil {
		return
	}
	if err := c.redis.Del(ctx, statsCacheKey).Err(); err != nil {
		c.logger.Warn("stats cache invalidate failed", "error", err)
	}
}

// InvalidatingRepository wraps a Repository and drops the cached stats
// after every successful create.
type InvalidatingRepository struct {
	Repository
	cache *CachedStats
}

// NewInvalidatingRepository pairs repo with cache. A nil cache returns
// repo unchanged.
func NewInvalidatingRepository(repo Repository, cache *CachedStats) Repository {
	if cache == nil {
		return repo
	}
	return &InvalidatingRepository{Repository: repo, cache: cache}
}

// Create persists the enquiry and invalidates the stats cache on success.
func (r *InvalidatingRepository) Create(ctx context.Context, req *SubmitEnquiryRequest) (*Enquiry, error) {
	enquiry, err := r.Repository.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	r.cache.Invalidate(ctx)
	return enquiry, nil
}
