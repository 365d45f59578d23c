// Package config handles application configuration and environment loading.
package config

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// S3Config holds receipt object storage settings. All fields are required
// when receipt storage is enabled.
type S3Config struct {
	KeyID    string
	Secret   string
	Endpoint string
	Region   string
	Bucket   string
}

// Config holds the configuration for the membership dashboard service.
type Config struct {
	DBPath     string // path to the SQLite membership store
	ListenAddr string // HTTP listen address (default ":8080")
	LogLevel   string // debug, info, warn, error (default "info")
	Env        string // "development" (default) or "production"

	JWTSecret string // HS256 shared secret for bearer-token auth

	// Rate limiting
	RateLimitRPS   float64 // sustained requests per second (default 100)
	RateLimitBurst int     // burst capacity (default 200)

	// CORS
	CORSAllowedOrigins []string // allowed origins (default: ["*"])

	// Invitation housekeeping
	InvitePurgeSchedule string // cron spec for the expired-invite purge (default "@hourly")

	// S3 receipt storage — nil when not configured; receipt presign and
	// remote cleanup degrade to no-ops without it.
	S3 *S3Config

	// PresignTTL bounds receipt download URLs (default 15m).
	PresignTTL time.Duration
}

// SlogLevel maps the LogLevel string to an slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH is required")
	}
	if c.Env == "production" && c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required in production")
	}
	if c.S3 != nil {
		if c.S3.Bucket == "" || c.S3.KeyID == "" || c.S3.Secret == "" {
			return fmt.Errorf("S3 receipt storage requires S3_BUCKET, S3_KEY_ID, and S3_SECRET")
		}
	}
	return nil
}

// LoadFromEnv builds a Config from environment variables with defaults.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		DBPath:              envDefault("DB_PATH", "orgdesk.sqlite"),
		ListenAddr:          envDefault("LISTEN_ADDR", ":8080"),
		LogLevel:            envDefault("LOG_LEVEL", "info"),
		Env:                 envDefault("ENV", "development"),
		JWTSecret:           os.Getenv("JWT_SECRET"),
		RateLimitRPS:        100,
		RateLimitBurst:      200,
		InvitePurgeSchedule: envDefault("INVITE_PURGE_SCHEDULE", "@hourly"),
		CORSAllowedOrigins:  []string{"*"},
		PresignTTL:          15 * time.Minute,
	}

	if v := os.Getenv("RATE_LIMIT_RPS"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid RATE_LIMIT_RPS %q: %w", v, err)
		}
		cfg.RateLimitRPS = f
	}
	if v := os.Getenv("RATE_LIMIT_BURST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid RATE_LIMIT_BURST %q: %w", v, err)
		}
		cfg.RateLimitBurst = n
	}
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		origins := strings.Split(v, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		cfg.CORSAllowedOrigins = origins
	}
	if v := os.Getenv("PRESIGN_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid PRESIGN_TTL %q: %w", v, err)
		}
		cfg.PresignTTL = d
	}

	// S3 is optional as a block: configured only when a bucket is named.
	if bucket := os.Getenv("S3_BUCKET"); bucket != "" {
		cfg.S3 = &S3Config{
			KeyID:    os.Getenv("S3_KEY_ID"),
			Secret:   os.Getenv("S3_SECRET"),
			Endpoint: os.Getenv("S3_ENDPOINT"),
			Region:   envDefault("S3_REGION", "us-east-1"),
			Bucket:   bucket,
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func envDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// LoadDotEnv reads a .env file and sets any variables not already in the
// environment. Lines must be KEY=VALUE; comments (#) and blanks are skipped.
func LoadDotEnv(path string) error {
	f, err := os.Open(path) //nolint:gosec // path is caller-controlled
	if err != nil {
		if os.IsNotExist(err) {
			return nil // .env not found is not an error
		}
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = stripQuotes(strings.TrimSpace(value))
		// Env vars take precedence over the file.
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("setenv %s: %w", key, err)
			}
		}
	}
	return scanner.Err()
}

// stripQuotes removes matching surrounding double or single quotes.
func stripQuotes(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
