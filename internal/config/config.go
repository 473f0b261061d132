package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	HTTPPort     string
	AppMode      string
	FiberPrefork bool
	LogLevel     string

	ClickHouseAddr     string
	ClickHouseDatabase string
	ClickHouseUsername string
	ClickHousePassword string

	MongoURI      string
	MongoDatabase string

	WorkerBufferSize int
	WorkerBatchSize  int
	WorkerFlushEvery time.Duration
	FutureTolerance  time.Duration

	StatsDebounce         time.Duration
	SummaryPollInterval   time.Duration
	OwnerIdleTTL          time.Duration
	OwnershipNameFallback bool

	IngestRateLimit float64
	IngestBurst     int

	RemoteAnalyticsURL     string
	RemoteAnalyticsToken   string
	RemoteAnalyticsTimeout time.Duration
}

// Load reads configuration from environment variables with sane defaults.
func Load() (*Config, error) {
	cfg := &Config{
		HTTPPort:     getEnv("HTTP_PORT", ":8080"),
		AppMode:      strings.ToLower(getEnv("APP_MODE", "dev")),
		FiberPrefork: parseBoolEnv("FIBER_PREFORK", false),
		LogLevel:     strings.ToLower(getEnv("LOG_LEVEL", "info")),

		ClickHouseAddr:     getEnv("CLICKHOUSE_ADDR", "127.0.0.1:9000"),
		ClickHouseDatabase: getEnv("CLICKHOUSE_DATABASE", "default"),
		ClickHouseUsername: getEnv("CLICKHOUSE_USERNAME", "default"),
		ClickHousePassword: os.Getenv("CLICKHOUSE_PASSWORD"),

		MongoURI:      os.Getenv("MONGO_URI"),
		MongoDatabase: getEnv("MONGO_DATABASE", "events"),

		WorkerBufferSize: parseIntEnv("WORKER_BUFFER_SIZE", 10000),
		WorkerBatchSize:  parseIntEnv("WORKER_BATCH_SIZE", 500),
		WorkerFlushEvery: parseDurationEnv("WORKER_FLUSH_EVERY", time.Second),
		FutureTolerance:  parseDurationEnv("FUTURE_TOLERANCE", 5*time.Minute),

		StatsDebounce:         parseDurationEnv("STATS_DEBOUNCE", 2*time.Second),
		SummaryPollInterval:   parseDurationEnv("SUMMARY_POLL_INTERVAL", time.Minute),
		OwnerIdleTTL:          parseDurationEnv("OWNER_IDLE_TTL", 30*time.Minute),
		OwnershipNameFallback: parseBoolEnv("OWNERSHIP_NAME_FALLBACK", false),

		IngestRateLimit: parseFloatEnv("INGEST_RATE_LIMIT", 50),
		IngestBurst:     parseIntEnv("INGEST_BURST", 100),

		RemoteAnalyticsURL:     getEnv("REMOTE_ANALYTICS_URL", "http://localhost:8080/api"),
		RemoteAnalyticsToken:   os.Getenv("REMOTE_ANALYTICS_TOKEN"),
		RemoteAnalyticsTimeout: parseDurationEnv("REMOTE_ANALYTICS_TIMEOUT", 10*time.Second),
	}
	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("MONGO_URI is required")
	}
	if cfg.WorkerBatchSize <= 0 {
		return nil, fmt.Errorf("WORKER_BATCH_SIZE must be positive")
	}
	if cfg.WorkerFlushEvery <= 0 {
		return nil, fmt.Errorf("WORKER_FLUSH_EVERY must be positive")
	}
	return cfg, nil
}

// LoadClient reads only the settings the remote analytics client needs.
func LoadClient() *Config {
	return &Config{
		LogLevel:               strings.ToLower(getEnv("LOG_LEVEL", "warn")),
		RemoteAnalyticsURL:     getEnv("REMOTE_ANALYTICS_URL", "http://localhost:8080/api"),
		RemoteAnalyticsToken:   os.Getenv("REMOTE_ANALYTICS_TOKEN"),
		RemoteAnalyticsTimeout: parseDurationEnv("REMOTE_ANALYTICS_TIMEOUT", 10*time.Second),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseBoolEnv(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func parseIntEnv(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func parseFloatEnv(key string, fallback float64) float64 {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func parseDurationEnv(key string, fallback time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(val)
	if err != nil {
		return fallback
	}
	return parsed
}
