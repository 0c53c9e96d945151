// ABOUTME: Configuration management for the application with environment variable support
// ABOUTME: Defines configuration structures for server, cache, logging and analysis defaults

package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	coreconfig "pagelens-api/core/config"
)

// Config holds all application configuration
type Config struct {
	// Server contains HTTP server configuration
	Server ServerConfig

	// Cache contains cache configuration
	Cache CacheConfig

	// Logging contains log output configuration
	Logging LoggingConfig

	// Analysis contains the default analysis options
	Analysis AnalysisConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	// Port is the HTTP server port
	Port string

	// RateLimitPerSecond caps requests per client per second
	RateLimitPerSecond int

	// RateLimitBurst is the rate limiter burst allowance
	RateLimitBurst int
}

// CacheConfig holds cache backend configuration
type CacheConfig struct {
	// Type specifies the cache backend (redis/memory/none)
	Type string

	// TTL is the analysis-record cache TTL in seconds; zero disables
	// record caching
	TTL int

	// Redis contains Redis-specific configuration
	Redis RedisConfig
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	// Address is the Redis server address
	Address string

	// Password is the Redis authentication password
	Password string

	// DB is the Redis database number
	DB int
}

// LoggingConfig holds log output configuration
type LoggingConfig struct {
	// Level is the minimum level emitted (debug/info/warn/error)
	Level string
}

// AnalysisConfig holds the default analysis option values. Per-request
// options override these.
type AnalysisConfig struct {
	// TimeoutSeconds is the per-URL fetch+analyze deadline
	TimeoutSeconds int

	// MaxConcurrent is the batch worker pool width
	MaxConcurrent int

	// MaxContentBytes truncates larger payloads before parsing
	MaxContentBytes int

	// FreshnessHorizonDays floors freshness at 0 beyond this age
	FreshnessHorizonDays int

	// FreshnessHalfLifeDays controls the freshness decay rate
	FreshnessHalfLifeDays int

	// FeedActivityWindowDays bounds what counts as an active feed
	FeedActivityWindowDays int
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:               getEnvOrDefault("PORT", "8000"),
			RateLimitPerSecond: getEnvAsIntOrDefault("RATE_LIMIT_PER_SECOND", 10),
			RateLimitBurst:     getEnvAsIntOrDefault("RATE_LIMIT_BURST", 20),
		},
		Cache: CacheConfig{
			Type: getEnvOrDefault("CACHE_TYPE", "memory"),
			TTL:  getEnvAsIntOrDefault("CACHE_TTL", 0),
			Redis: RedisConfig{
				Address:  getEnvOrDefault("REDIS_ADDRESS", "localhost:6379"),
				Password: getEnvOrDefault("REDIS_PASSWORD", ""),
				DB:       getEnvAsIntOrDefault("REDIS_DB", 0),
			},
		},
		Logging: LoggingConfig{
			Level: getEnvOrDefault("LOG_LEVEL", "info"),
		},
		Analysis: AnalysisConfig{
			TimeoutSeconds:         getEnvAsIntOrDefault("ANALYSIS_TIMEOUT_SECONDS", 30),
			MaxConcurrent:          getEnvAsIntOrDefault("ANALYSIS_MAX_CONCURRENT", 5),
			MaxContentBytes:        getEnvAsIntOrDefault("ANALYSIS_MAX_CONTENT_BYTES", 1_000_000),
			FreshnessHorizonDays:   getEnvAsIntOrDefault("FRESHNESS_HORIZON_DAYS", 365),
			FreshnessHalfLifeDays:  getEnvAsIntOrDefault("FRESHNESS_HALF_LIFE_DAYS", 30),
			FeedActivityWindowDays: getEnvAsIntOrDefault("FEED_ACTIVITY_WINDOW_DAYS", 90),
		},
	}

	return cfg, nil
}

// AnalysisOptions converts the configured defaults into the option
// struct the analysis core consumes.
func (c *Config) AnalysisOptions() coreconfig.AnalysisOptions {
	opts := coreconfig.AnalysisOptions{
		Timeout:                time.Duration(c.Analysis.TimeoutSeconds) * time.Second,
		MaxContentBytes:        c.Analysis.MaxContentBytes,
		DiscoverFeeds:          true,
		CalculateScores:        true,
		DetectLanguage:         true,
		MaxConcurrent:          c.Analysis.MaxConcurrent,
		FreshnessHorizonDays:   c.Analysis.FreshnessHorizonDays,
		FreshnessHalfLifeDays:  c.Analysis.FreshnessHalfLifeDays,
		FeedActivityWindowDays: c.Analysis.FeedActivityWindowDays,
		CacheTTL:               time.Duration(c.Cache.TTL) * time.Second,
	}
	return opts.Normalize()
}

// getEnvOrDefault returns the environment variable value or a default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault returns the environment variable as int or a default
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("port cannot be empty")
	}

	if c.Server.RateLimitPerSecond < 1 {
		return errors.New("rate limit must be at least 1 request per second")
	}

	switch c.Cache.Type {
	case "redis", "memory", "none":
	default:
		return errors.New("cache type must be 'redis', 'memory' or 'none'")
	}

	if c.Cache.Type == "redis" && c.Cache.Redis.Address == "" {
		return errors.New("redis address cannot be empty when using redis cache")
	}

	if c.Analysis.TimeoutSeconds < 1 {
		return errors.New("analysis timeout must be at least 1 second")
	}

	if c.Analysis.MaxConcurrent < 1 {
		return errors.New("max concurrent must be at least 1")
	}

	return nil
}
