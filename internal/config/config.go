package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all runtime configuration derived from environment variables.
type Config struct {
	HTTPPort                  string
	RedisURL                  string
	RedisKeyPrefix            string
	DatabaseURL               string
	LogLevel                  string
	IdempotencyTTL            time.Duration
	AutoExecutionPollInterval time.Duration
	ReconciliationInterval    time.Duration
	PublicRateLimitRPS        int
	RunRateLimitPerMinute     int
	HistoryLimit              int
	// RandomSeed makes generated schedules reproducible. Zero seeds from the clock.
	RandomSeed uint64
}

// Load reads environment variables using viper and returns a typed config.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	bindEnv(v, "port", "PORT", "CIRCULATION_PORT")
	bindEnv(v, "redis_url", "REDIS_URL", "CIRCULATION_REDIS_URL")
	bindEnv(v, "redis_key_prefix", "REDIS_KEY_PREFIX", "CIRCULATION_REDIS_KEY_PREFIX")
	bindEnv(v, "database_url", "DATABASE_URL", "CIRCULATION_DATABASE_URL")
	bindEnv(v, "log_level", "LOG_LEVEL", "CIRCULATION_LOG_LEVEL")
	bindEnv(v, "idempotency_ttl", "IDEMPOTENCY_TTL", "CIRCULATION_IDEMPOTENCY_TTL")
	bindEnv(v, "auto_execution_poll_interval", "AUTO_EXECUTION_POLL_INTERVAL", "CIRCULATION_AUTO_EXECUTION_POLL_INTERVAL")
	bindEnv(v, "reconciliation_interval", "RECONCILIATION_INTERVAL", "CIRCULATION_RECONCILIATION_INTERVAL")
	bindEnv(v, "public_rate_limit_rps", "PUBLIC_RATE_LIMIT_RPS", "CIRCULATION_PUBLIC_RATE_LIMIT_RPS")
	bindEnv(v, "run_rate_limit_per_minute", "RUN_RATE_LIMIT_PER_MINUTE", "CIRCULATION_RUN_RATE_LIMIT_PER_MINUTE")
	bindEnv(v, "history_limit", "HISTORY_LIMIT", "CIRCULATION_HISTORY_LIMIT")
	bindEnv(v, "random_seed", "RANDOM_SEED", "CIRCULATION_RANDOM_SEED")

	v.SetDefault("port", "8080")
	v.SetDefault("redis_url", "redis://localhost:6379/0")
	v.SetDefault("redis_key_prefix", "circulation")
	v.SetDefault("database_url", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("idempotency_ttl", "24h")
	v.SetDefault("auto_execution_poll_interval", "1s")
	v.SetDefault("reconciliation_interval", "1h")
	v.SetDefault("public_rate_limit_rps", 20)
	v.SetDefault("run_rate_limit_per_minute", 30)
	v.SetDefault("history_limit", 50)
	v.SetDefault("random_seed", "0")

	ttl, err := parsePositiveDuration(v, "idempotency_ttl", "IDEMPOTENCY_TTL")
	if err != nil {
		return nil, err
	}
	pollInterval, err := parsePositiveDuration(v, "auto_execution_poll_interval", "AUTO_EXECUTION_POLL_INTERVAL")
	if err != nil {
		return nil, err
	}
	reconciliationInterval, err := parsePositiveDuration(v, "reconciliation_interval", "RECONCILIATION_INTERVAL")
	if err != nil {
		return nil, err
	}
	seed, err := strconv.ParseUint(strings.TrimSpace(v.GetString("random_seed")), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid RANDOM_SEED: %w", err)
	}

	cfg := &Config{
		HTTPPort:                  v.GetString("port"),
		RedisURL:                  strings.TrimSpace(v.GetString("redis_url")),
		RedisKeyPrefix:            v.GetString("redis_key_prefix"),
		DatabaseURL:               strings.TrimSpace(v.GetString("database_url")),
		LogLevel:                  v.GetString("log_level"),
		IdempotencyTTL:            ttl,
		AutoExecutionPollInterval: pollInterval,
		ReconciliationInterval:    reconciliationInterval,
		PublicRateLimitRPS:        max(v.GetInt("public_rate_limit_rps"), 1),
		RunRateLimitPerMinute:     max(v.GetInt("run_rate_limit_per_minute"), 0),
		HistoryLimit:              v.GetInt("history_limit"),
		RandomSeed:                seed,
	}

	if cfg.RedisURL == "" {
		return nil, fmt.Errorf("REDIS_URL is required")
	}
	if _, err := strconv.Atoi(cfg.HTTPPort); err != nil {
		return nil, fmt.Errorf("invalid PORT %q", cfg.HTTPPort)
	}
	if cfg.HistoryLimit < 1 {
		return nil, fmt.Errorf("HISTORY_LIMIT must be positive")
	}

	return cfg, nil
}

func parsePositiveDuration(v *viper.Viper, key, env string) (time.Duration, error) {
	d, err := time.ParseDuration(v.GetString(key))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", env, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive", env)
	}
	return d, nil
}

func bindEnv(v *viper.Viper, key string, names ...string) {
	args := append([]string{key}, names...)
	_ = v.BindEnv(args...)
}
