package exchange

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisPairCache is the narrow cache for currency pairs outside the tier-1
// set.  It lives in Redis so rates seeded by one process are visible to the
// others, but it is best-effort: Redis being down is treated the same as a
// miss, which surfaces as ErrRateUnavailable because non-tier-1 pairs have
// no constants to fall back on.
type RedisPairCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisPairCache constructs the pair cache.  Entries expire after ttl
// (Redis-side, not sliding).
func NewRedisPairCache(rdb *redis.Client, ttl time.Duration) *RedisPairCache {
	return &RedisPairCache{rdb: rdb, ttl: ttl}
}

func pairKey(from, to string) string {
	return "fxrate:" + strings.ToUpper(from) + ":" + strings.ToUpper(to)
}

// Rate returns the cached from→to rate.  A miss or an unreachable Redis is
// ErrRateUnavailable; the request path never fetches the rate itself.
func (c *RedisPairCache) Rate(ctx context.Context, from, to string) (float64, error) {
	val, err := c.rdb.Get(ctx, pairKey(from, to)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, ErrRateUnavailable
	}
	if err != nil {
		log.Printf("exchange: pair cache read failed: %v", err)
		return 0, ErrRateUnavailable
	}
	rate, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupt pair cache entry %s: %w", pairKey(from, to), err)
	}
	return rate, nil
}

// Store writes a pair rate with the cache TTL.  Failures are logged and
// swallowed; the worker will try again on its next run.
func (c *RedisPairCache) Store(ctx context.Context, from, to string, rate float64) {
	key := pairKey(from, to)
	if err := c.rdb.Set(ctx, key, strconv.FormatFloat(rate, 'f', -1, 64), c.ttl).Err(); err != nil {
		log.Printf("exchange: pair cache write failed for %s: %v", key, err)
	}
}
