// Package config loads server settings from flags, the environment and an optional .env file.
// Flags take precedence over environment variables, which take precedence over defaults.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port            int
	DBPath          string
	LogLevel        string
	LogFormat       string // "text" (tint) or "json"
	Retention       time.Duration
	CleanupInterval time.Duration
	RateLimitRPS    float64
	RateLimitBurst  int
	CORSOrigins     []string
}

const (
	defaultPort            = 8080
	defaultDBPath          = "./data/bills.db"
	defaultRetention       = 30 * 24 * time.Hour
	defaultCleanupInterval = time.Hour
	defaultRateLimitRPS    = 10
	defaultRateLimitBurst  = 20
)

// LoadDotEnv reads KEY=value pairs from path into the environment without
// overriding variables that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// Parse reads flags from args and falls back to environment variables.
func Parse(args []string) (Config, error) {
	var cfg Config
	var retention, cleanup, origins string

	flags := flag.NewFlagSet("receiptsplit", flag.ContinueOnError)
	flags.SetOutput(io.Discard)

	flags.IntVar(&cfg.Port, "port", 0, "Server port (env PORT)")
	flags.StringVar(&cfg.DBPath, "db", "", "SQLite database path (env DB_PATH)")
	flags.StringVar(&cfg.LogLevel, "log-level", "", "debug, info, warn or error (env LOG_LEVEL)")
	flags.StringVar(&cfg.LogFormat, "log-format", "", "text or json (env LOG_FORMAT)")
	flags.StringVar(&retention, "retention", "", "Delete bills older than this, 0 keeps forever (env RETENTION)")
	flags.StringVar(&cleanup, "cleanup-interval", "", "How often expired bills are purged (env CLEANUP_INTERVAL)")
	flags.Float64Var(&cfg.RateLimitRPS, "rate-limit-rps", 0, "Requests per second per client, 0 uses the default (env RATE_LIMIT_RPS)")
	flags.IntVar(&cfg.RateLimitBurst, "rate-limit-burst", 0, "Request burst per client (env RATE_LIMIT_BURST)")
	flags.StringVar(&origins, "cors-origins", "", "Comma-separated allowed origins (env CORS_ORIGINS)")

	if err := flags.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		port, err := envInt("PORT", defaultPort)
		if err != nil {
			return Config{}, err
		}
		cfg.Port = port
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("invalid port %d", cfg.Port)
	}

	if cfg.DBPath == "" {
		cfg.DBPath = envString("DB_PATH", defaultDBPath)
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = envString("LOG_LEVEL", "info")
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = envString("LOG_FORMAT", "text")
	}
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return Config{}, fmt.Errorf("invalid log format %q", cfg.LogFormat)
	}

	var err error
	if cfg.Retention, err = duration(retention, "RETENTION", defaultRetention); err != nil {
		return Config{}, err
	}
	if cfg.CleanupInterval, err = duration(cleanup, "CLEANUP_INTERVAL", defaultCleanupInterval); err != nil {
		return Config{}, err
	}
	if cfg.Retention > 0 && cfg.CleanupInterval <= 0 {
		return Config{}, errors.New("cleanup interval must be positive when retention is enabled")
	}

	if cfg.RateLimitRPS == 0 {
		if cfg.RateLimitRPS, err = envFloat("RATE_LIMIT_RPS", defaultRateLimitRPS); err != nil {
			return Config{}, err
		}
	}
	if cfg.RateLimitBurst == 0 {
		if cfg.RateLimitBurst, err = envInt("RATE_LIMIT_BURST", defaultRateLimitBurst); err != nil {
			return Config{}, err
		}
	}
	if cfg.RateLimitRPS < 0 || cfg.RateLimitBurst < 1 {
		return Config{}, errors.New("rate limit rps must be >= 0 and burst >= 1")
	}

	if origins == "" {
		origins = envString("CORS_ORIGINS", "*")
	}
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, o)
		}
	}

	return cfg, nil
}

// Addr returns the listen address.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func envString(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s env variable: %w", key, err)
	}
	return n, nil
}

func envFloat(key string, fallback float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s env variable: %w", key, err)
	}
	return f, nil
}

// duration parses the flag value, else the env variable, else returns fallback.
func duration(flagValue, key string, fallback time.Duration) (time.Duration, error) {
	value := flagValue
	if value == "" {
		value = os.Getenv(key)
	}
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
