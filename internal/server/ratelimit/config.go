package ratelimit

import (
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig is the token bucket of one route family. A Path ending in "/" covers
// every path below it. Burst of zero means Limit.
type EndpointConfig struct {
	Path   string
	Method string
	Limit  int
	Window time.Duration
	Burst  int
}

// LoadConfig reads RATE_LIMIT_* from the process environment
func LoadConfig() *Config {
	return LoadConfigFrom(os.Getenv)
}

// LoadConfigFrom builds a Config from RATE_LIMIT_ENABLED, RATE_LIMIT_DEFAULT_LIMIT,
// RATE_LIMIT_DEFAULT_WINDOW, RATE_LIMIT_CLEANUP_INTERVAL, RATE_LIMIT_IDLE_TIMEOUT,
// RATE_LIMIT_WHITELIST and RATE_LIMIT_BLACKLIST. Unparsable values keep their defaults.
func LoadConfigFrom(getenv func(string) string) *Config {
	env := envReader(getenv)
	if !env.boolean("RATE_LIMIT_ENABLED", true) {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    env.integer("RATE_LIMIT_DEFAULT_LIMIT", 1000),
		DefaultWindow:   env.duration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: env.duration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		IdleTimeout:     env.duration("RATE_LIMIT_IDLE_TIMEOUT", time.Hour),
		Whitelist:       clientSet(getenv("RATE_LIMIT_WHITELIST")),
		Blacklist:       clientSet(getenv("RATE_LIMIT_BLACKLIST")),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs are the per-route budgets. Anything else, including the
// analysis and role reads, uses the default limit.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		{Path: "/batch/analyses", Method: http.MethodPost, Limit: 10, Window: time.Hour, Burst: 2},
		{Path: "/students/", Method: http.MethodPost, Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/students/", Method: http.MethodPut, Limit: 100, Window: time.Minute, Burst: 10},
	}
}

type envReader func(string) string

func (e envReader) integer(key string, def int) int {
	if n, err := strconv.Atoi(e(key)); err == nil {
		return n
	}
	return def
}

func (e envReader) boolean(key string, def bool) bool {
	if b, err := strconv.ParseBool(e(key)); err == nil {
		return b
	}
	return def
}

func (e envReader) duration(key string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(e(key)); err == nil {
		return d
	}
	return def
}

// clientSet turns "1.2.3.4, 5.6.7.8" into a lookup set
func clientSet(list string) map[string]bool {
	set := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			set[ip] = true
		}
	}
	return set
}
