// Package cache provides a two-tier analysis result cache: L1 in-memory plus optional L2 Redis.
package cache

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonathan/career-advisor/internal/types"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DefaultTTL matches the staleness window of stored analyses
const DefaultTTL = 24 * time.Hour

const keyPrefix = "analysis:"

// Key returns the cache key of a student's analysis
func Key(studentID string) string {
	return keyPrefix + studentID
}

type entry struct {
	data      []byte
	expiresAt time.Time
}

// Results caches analysis results. L1 is lost on restart; L2 survives it.
// A nil *Results is a valid, always-missing cache.
type Results struct {
	l1     sync.Map // key → *entry
	rdb    *redis.Client
	ttl    time.Duration
	now    func() time.Time
	logger *zap.Logger

	hits   atomic.Int64
	misses atomic.Int64
}

// Option configures a Results cache
type Option func(*Results)

// WithRedis enables the L2 tier
func WithRedis(rdb *redis.Client) Option {
	return func(c *Results) { c.rdb = rdb }
}

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(c *Results) { c.now = now }
}

// New creates a cache with the given TTL (DefaultTTL when <= 0)
func New(ttl time.Duration, logger *zap.Logger, opts ...Option) *Results {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Results{ttl: ttl, now: time.Now, logger: logger}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ConnectRedis parses redisURL and pings the server. Callers treat an error as "L2 disabled".
func ConnectRedis(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return rdb, nil
}

// Get tries L1, then L2. An L2 hit populates L1.
func (c *Results) Get(ctx context.Context, studentID string) (*types.AnalysisResult, bool) {
	if c == nil {
		return nil, false
	}
	key := Key(studentID)

	if val, ok := c.l1.Load(key); ok {
		e := val.(*entry)
		if c.now().Before(e.expiresAt) {
			var out types.AnalysisResult
			if json.Unmarshal(e.data, &out) == nil {
				c.logger.Debug("cache: L1 hit", zap.String("key", key))
				c.hits.Add(1)
				return &out, true
			}
		}
		c.l1.Delete(key) // expired or corrupt
	}

	if c.rdb != nil {
		data, err := c.rdb.Get(ctx, key).Bytes()
		if err == nil {
			var out types.AnalysisResult
			if json.Unmarshal(data, &out) == nil {
				c.logger.Debug("cache: L2 hit", zap.String("key", key))
				c.hits.Add(1)
				c.l1.Store(key, &entry{data: data, expiresAt: c.now().Add(c.ttl)})
				return &out, true
			}
		} else if err != redis.Nil {
			c.logger.Warn("cache: L2 get failed", zap.String("key", key), zap.Error(err))
		}
	}

	c.misses.Add(1)
	return nil, false
}

// Set stores the result in both tiers
func (c *Results) Set(ctx context.Context, studentID string, result *types.AnalysisResult) {
	if c == nil || result == nil {
		return
	}
	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	key := Key(studentID)

	c.l1.Store(key, &entry{data: data, expiresAt: c.now().Add(c.ttl)})

	if c.rdb != nil {
		if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
			c.logger.Warn("cache: L2 set failed", zap.String("key", key), zap.Error(err))
		}
	}
}

// Invalidate drops the cached result of a student from both tiers
func (c *Results) Invalidate(ctx context.Context, studentID string) {
	if c == nil {
		return
	}
	key := Key(studentID)
	c.l1.Delete(key)

	if c.rdb != nil {
		if err := c.rdb.Del(ctx, key).Err(); err != nil {
			c.logger.Warn("cache: L2 delete failed", zap.String("key", key), zap.Error(err))
		}
	}
}

// Sweep removes expired L1 entries and returns how many were dropped
func (c *Results) Sweep() int {
	if c == nil {
		return 0
	}
	now := c.now()
	removed := 0
	c.l1.Range(func(key, val any) bool {
		if e, ok := val.(*entry); ok && !now.Before(e.expiresAt) {
			c.l1.Delete(key)
			removed++
		}
		return true
	})
	return removed
}

// Run sweeps expired entries every interval until ctx is done
func (c *Results) Run(ctx context.Context, interval time.Duration) {
	if c == nil || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := c.Sweep(); n > 0 {
				c.logger.Debug("cache: swept expired entries", zap.Int("removed", n))
			}
		}
	}
}

// Stats returns the hit and miss counters
func (c *Results) Stats() (hits, misses int64) {
	if c == nil {
		return 0, 0
	}
	return c.hits.Load(), c.misses.Load()
}

// Redis reports whether the L2 tier is enabled
func (c *Results) Redis() bool {
	return c != nil && c.rdb != nil
}
