package ratelimit

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestLimiter(config *Config) (*Limiter, *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	l := NewLimiter(config)
	l.now = clock.now
	return l, clock
}

func TestLimiter_Allow(t *testing.T) {
	limiter, _ := newTestLimiter(&Config{Enabled: true, DefaultLimit: 10, DefaultWindow: time.Minute})
	defer limiter.Stop()

	for i := 0; i < 10; i++ {
		allowed, info := limiter.Allow("127.0.0.1", "/roles", "GET")
		require.True(t, allowed, "request %d", i+1)
		assert.Equal(t, 10, info.Limit)
		assert.Equal(t, 9-i, info.Remaining)
	}

	allowed, info := limiter.Allow("127.0.0.1", "/roles", "GET")
	assert.False(t, allowed)
	assert.Equal(t, 0, info.Remaining)
	assert.InDelta(t, float64(6*time.Second), float64(info.RetryAfter), float64(time.Millisecond))
	assert.True(t, info.ResetTime.After(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestLimiter_Refill(t *testing.T) {
	limiter, clock := newTestLimiter(&Config{Enabled: true, DefaultLimit: 60, DefaultWindow: time.Minute})
	defer limiter.Stop()

	for i := 0; i < 60; i++ {
		allowed, _ := limiter.Allow("c", "/roles", "GET")
		require.True(t, allowed)
	}
	allowed, _ := limiter.Allow("c", "/roles", "GET")
	require.False(t, allowed)

	clock.advance(time.Second)
	allowed, _ = limiter.Allow("c", "/roles", "GET")
	assert.True(t, allowed)
	allowed, _ = limiter.Allow("c", "/roles", "GET")
	assert.False(t, allowed)
}

func TestLimiter_WhitelistAndBlacklist(t *testing.T) {
	limiter, _ := newTestLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Minute,
		Whitelist:     map[string]bool{"10.0.0.1": true},
		Blacklist:     map[string]bool{"10.0.0.2": true},
	})
	defer limiter.Stop()

	for i := 0; i < 50; i++ {
		allowed, info := limiter.Allow("10.0.0.1", "/roles", "GET")
		require.True(t, allowed)
		assert.Zero(t, info.Limit)
	}

	allowed, _ := limiter.Allow("10.0.0.2", "/roles", "GET")
	assert.False(t, allowed)
}

func TestLimiter_Disabled(t *testing.T) {
	limiter, _ := newTestLimiter(&Config{Enabled: false})
	defer limiter.Stop()

	for i := 0; i < 100; i++ {
		allowed, info := limiter.Allow("127.0.0.1", "/roles", "GET")
		require.True(t, allowed)
		assert.Zero(t, info.Limit)
	}
}

func TestLimiter_EndpointSpecific(t *testing.T) {
	limiter, _ := newTestLimiter(&Config{
		Enabled:         true,
		DefaultLimit:    1000,
		DefaultWindow:   time.Minute,
		EndpointConfigs: DefaultEndpointConfigs(),
	})
	defer limiter.Stop()

	for i := 0; i < 2; i++ {
		allowed, info := limiter.Allow("c", "/batch/analyses", "POST")
		require.True(t, allowed)
		assert.Equal(t, 10, info.Limit)
	}
	allowed, _ := limiter.Allow("c", "/batch/analyses", "POST")
	assert.False(t, allowed, "batch burst is 2")

	allowed, info := limiter.Allow("c", "/students/s1/analysis", "POST")
	assert.True(t, allowed)
	assert.Equal(t, 60, info.Limit)

	allowed, info = limiter.Allow("c", "/students/s1/analysis", "GET")
	assert.True(t, allowed)
	assert.Equal(t, 1000, info.Limit)
}

func TestLimiter_UnlimitedProbes(t *testing.T) {
	limiter, _ := newTestLimiter(&Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Hour})
	defer limiter.Stop()

	for i := 0; i < 20; i++ {
		allowed, _ := limiter.Allow("c", "/health", "GET")
		require.True(t, allowed)
		allowed, _ = limiter.Allow("c", "/metrics", "GET")
		require.True(t, allowed)
	}
}

func TestLimiter_Concurrent(t *testing.T) {
	limiter, _ := newTestLimiter(&Config{Enabled: true, DefaultLimit: 100, DefaultWindow: time.Minute})
	defer limiter.Stop()

	var wg sync.WaitGroup
	var allowedCount atomic.Int32
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if allowed, _ := limiter.Allow("c", "/roles", "GET"); allowed {
				allowedCount.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(100), allowedCount.Load())
}

func TestLimiter_CleanupBuckets(t *testing.T) {
	limiter, clock := newTestLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  10,
		DefaultWindow: time.Minute,
		IdleTimeout:   time.Minute,
	})
	defer limiter.Stop()

	for i := 0; i < 10; i++ {
		limiter.Allow(fmt.Sprintf("10.0.0.%d", i), "/roles", "GET")
	}
	clock.advance(45 * time.Second)
	for i := 0; i < 5; i++ {
		limiter.Allow(fmt.Sprintf("10.0.0.%d", i), "/roles", "GET")
	}
	clock.advance(30 * time.Second)

	assert.Equal(t, 5, limiter.cleanupBuckets())
	assert.Len(t, limiter.buckets, 5)
}

func TestNewLimiter_NilConfig(t *testing.T) {
	limiter := NewLimiter(nil)
	defer limiter.Stop()

	allowed, info := limiter.Allow("127.0.0.1", "/roles", "GET")
	assert.True(t, allowed)
	assert.Equal(t, 1000, info.Limit)
}

func TestLimiter_StopIsIdempotent(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Minute, CleanupInterval: time.Millisecond})
	limiter.Stop()
	limiter.Stop()
}

func TestMatchEndpoint(t *testing.T) {
	configs := DefaultEndpointConfigs()

	tests := []struct {
		name   string
		path   string
		method string
		limit  int
		isNil  bool
	}{
		{"exact", "/batch/analyses", "POST", 10, false},
		{"prefix", "/students/abc/analysis", "POST", 60, false},
		{"prefix put", "/students/abc/intake", "PUT", 100, false},
		{"method mismatch", "/students/abc/analysis", "GET", 0, true},
		{"health", "/health", "GET", 0, false},
		{"unknown", "/roles", "GET", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchEndpoint(tt.path, tt.method, configs)
			if tt.isNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.limit, got.Limit)
		})
	}
}

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "true")
	t.Setenv("RATE_LIMIT_DEFAULT_LIMIT", "50")
	t.Setenv("RATE_LIMIT_DEFAULT_WINDOW", "30s")
	t.Setenv("RATE_LIMIT_WHITELIST", "1.1.1.1, 2.2.2.2")
	t.Setenv("RATE_LIMIT_BLACKLIST", "")

	cfg := LoadConfig()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 50, cfg.DefaultLimit)
	assert.Equal(t, 30*time.Second, cfg.DefaultWindow)
	assert.Equal(t, map[string]bool{"1.1.1.1": true, "2.2.2.2": true}, cfg.Whitelist)
	assert.NotEmpty(t, cfg.EndpointConfigs)

	t.Setenv("RATE_LIMIT_ENABLED", "false")
	assert.False(t, LoadConfig().Enabled)
}

func TestLoadConfigFrom_BadValuesKeepDefaults(t *testing.T) {
	env := map[string]string{
		"RATE_LIMIT_DEFAULT_LIMIT":  "lots",
		"RATE_LIMIT_DEFAULT_WINDOW": "soon",
		"RATE_LIMIT_IDLE_TIMEOUT":   "10m",
		"RATE_LIMIT_BLACKLIST":      " ,9.9.9.9,",
	}
	cfg := LoadConfigFrom(func(k string) string { return env[k] })

	assert.True(t, cfg.Enabled)
	assert.Equal(t, 1000, cfg.DefaultLimit)
	assert.Equal(t, time.Minute, cfg.DefaultWindow)
	assert.Equal(t, 10*time.Minute, cfg.IdleTimeout)
	assert.Equal(t, map[string]bool{"9.9.9.9": true}, cfg.Blacklist)
	assert.Empty(t, cfg.Whitelist)
}

func TestMatchEndpoint_ExactBeatsPrefix(t *testing.T) {
	configs := []EndpointConfig{
		{Path: "/students/", Method: "POST", Limit: 60, Window: time.Minute},
		{Path: "/students/vip/analysis", Method: "POST", Limit: 5, Window: time.Minute},
	}
	got := MatchEndpoint("/students/vip/analysis", "POST", configs)
	require.NotNil(t, got)
	assert.Equal(t, 5, got.Limit)

	got = MatchEndpoint("/students/s-1/analysis", "POST", configs)
	require.NotNil(t, got)
	assert.Equal(t, 60, got.Limit)
}
