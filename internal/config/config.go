// Package config provides configuration loading and validation for the server and CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/jonathan/career-advisor/internal/logging"
	"github.com/jonathan/career-advisor/internal/ranking"
)

// Duration is a time.Duration that reads from JSON strings such as "24h"
type Duration time.Duration

// UnmarshalJSON implements json.Unmarshaler
func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("duration must be a string like \"24h\": %w", err)
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalJSON implements json.Marshaler
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// Config holds the settings shared by the server and CLI.
// All fields are optional; missing values come from the environment or defaults.
type Config struct {
	// Storage
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL (primary tier)
	SQLitePath  string `json:"sqlite_path,omitempty"`  // SQLite file (fallback tier); "-" disables it
	RedisURL    string `json:"redis_url,omitempty"`    // Redis URL for the L2 results cache
	CatalogPath string `json:"catalog_path,omitempty"` // Role catalog JSON; empty uses the built-in catalog

	// Logging
	LogLevel  string `json:"log_level,omitempty"`
	LogFormat string `json:"log_format,omitempty"` // json or console

	// Server
	Port int `json:"port,omitempty"`

	// Analysis
	TopN             int      `json:"top_n,omitempty"`             // Recommendations per analysis; negative returns every role
	ExperiencePolicy string   `json:"experience_policy,omitempty"` // flat or per_record
	StaleAfter       Duration `json:"stale_after,omitempty"`       // Age after which stored analyses are stale
	BatchConcurrency int      `json:"batch_concurrency,omitempty"` // Concurrent analyses in a batch request
}

// Defaults returns the built-in configuration values
func Defaults() Config {
	return Config{
		SQLitePath:       filepath.Join("data", "career_advisor.db"),
		LogLevel:         "info",
		LogFormat:        logging.FormatJSON,
		Port:             8080,
		TopN:             ranking.StudentTopN,
		ExperiencePolicy: ranking.ExperienceFlat.String(),
		StaleAfter:       Duration(24 * time.Hour),
		BatchConcurrency: 4,
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Load reads the optional config file, applies environment overrides, fills defaults
// and validates the result
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		fileCfg, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = fileCfg
	}

	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}

	merged := cfg.MergeWithDefaults(Defaults())
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

// ApplyEnv overrides fields with any of DATABASE_URL, SQLITE_PATH, REDIS_URL, CATALOG_PATH,
// LOG_LEVEL, LOG_FORMAT, PORT, TOP_N, EXPERIENCE_POLICY, STALE_AFTER and BATCH_CONCURRENCY
// that are set
func (c *Config) ApplyEnv(getenv func(string) string) error {
	strs := map[string]*string{
		"DATABASE_URL":      &c.DatabaseURL,
		"SQLITE_PATH":       &c.SQLitePath,
		"REDIS_URL":         &c.RedisURL,
		"CATALOG_PATH":      &c.CatalogPath,
		"LOG_LEVEL":         &c.LogLevel,
		"LOG_FORMAT":        &c.LogFormat,
		"EXPERIENCE_POLICY": &c.ExperiencePolicy,
	}
	for key, dst := range strs {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}

	ints := map[string]*int{
		"PORT":              &c.Port,
		"TOP_N":             &c.TopN,
		"BATCH_CONCURRENCY": &c.BatchConcurrency,
	}
	for key, dst := range ints {
		v := getenv(key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config error: invalid %s: %v", key, err)
		}
		*dst = n
	}

	if v := getenv("STALE_AFTER"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config error: invalid STALE_AFTER: %v", err)
		}
		c.StaleAfter = Duration(d)
	}

	return nil
}

// Validate checks that the configuration has valid values
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}
	if c.StaleAfter < 0 {
		return fmt.Errorf("config error: 'stale_after' must be non-negative")
	}
	if c.BatchConcurrency < 0 {
		return fmt.Errorf("config error: 'batch_concurrency' must be non-negative")
	}
	if _, err := ranking.ParseExperiencePolicy(c.ExperiencePolicy); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if c.LogFormat != "" && c.LogFormat != logging.FormatJSON && c.LogFormat != logging.FormatConsole {
		return fmt.Errorf("config error: 'log_format' must be %q or %q", logging.FormatJSON, logging.FormatConsole)
	}

	// Validate file paths exist (if specified)
	if c.CatalogPath != "" {
		if _, err := os.Stat(c.CatalogPath); os.IsNotExist(err) {
			return fmt.Errorf("config error: catalog file not found: %s", c.CatalogPath)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.SQLitePath == "" {
		result.SQLitePath = defaults.SQLitePath
	}
	if result.RedisURL == "" {
		result.RedisURL = defaults.RedisURL
	}
	if result.CatalogPath == "" {
		result.CatalogPath = defaults.CatalogPath
	}
	if result.LogLevel == "" {
		result.LogLevel = defaults.LogLevel
	}
	if result.LogFormat == "" {
		result.LogFormat = defaults.LogFormat
	}
	if result.ExperiencePolicy == "" {
		result.ExperiencePolicy = defaults.ExperiencePolicy
	}

	// Numeric fields: use default if zero
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.TopN == 0 {
		result.TopN = defaults.TopN
	}
	if result.StaleAfter == 0 {
		result.StaleAfter = defaults.StaleAfter
	}
	if result.BatchConcurrency == 0 {
		result.BatchConcurrency = defaults.BatchConcurrency
	}

	return result
}

// Options returns the ranking options described by the configuration
func (c *Config) Options() (ranking.Options, error) {
	policy, err := ranking.ParseExperiencePolicy(c.ExperiencePolicy)
	if err != nil {
		return ranking.Options{}, err
	}
	return ranking.Options{TopN: c.TopN, ExperiencePolicy: policy}, nil
}

// SQLiteEnabled reports whether the fallback tier is configured
func (c *Config) SQLiteEnabled() bool {
	return c.SQLitePath != "" && c.SQLitePath != "-"
}
