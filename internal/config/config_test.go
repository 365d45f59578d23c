package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "orgdesk.sqlite", cfg.DBPath)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, float64(100), cfg.RateLimitRPS)
	assert.Equal(t, 200, cfg.RateLimitBurst)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "@hourly", cfg.InvitePurgeSchedule)
	assert.Equal(t, 15*time.Minute, cfg.PresignTTL)
	assert.Nil(t, cfg.S3)
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("DB_PATH", "/tmp/members.sqlite")
	t.Setenv("LISTEN_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("RATE_LIMIT_RPS", "5.5")
	t.Setenv("RATE_LIMIT_BURST", "10")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.test, https://b.test")
	t.Setenv("PRESIGN_TTL", "5m")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/members.sqlite", cfg.DBPath)
	assert.Equal(t, ":9090", cfg.ListenAddr)
	assert.Equal(t, 5.5, cfg.RateLimitRPS)
	assert.Equal(t, 10, cfg.RateLimitBurst)
	assert.Equal(t, []string{"https://a.test", "https://b.test"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 5*time.Minute, cfg.PresignTTL)
}

func TestLoadFromEnv_InvalidNumbers(t *testing.T) {
	t.Setenv("RATE_LIMIT_RPS", "fast")
	_, err := LoadFromEnv()
	require.Error(t, err)
}

func TestLoadFromEnv_S3Block(t *testing.T) {
	t.Setenv("S3_BUCKET", "receipts")
	t.Setenv("S3_KEY_ID", "key")
	t.Setenv("S3_SECRET", "secret")
	t.Setenv("S3_ENDPOINT", "https://s3.example.test")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	require.NotNil(t, cfg.S3)
	assert.Equal(t, "receipts", cfg.S3.Bucket)
	assert.Equal(t, "us-east-1", cfg.S3.Region)
}

func TestValidate_S3Incomplete(t *testing.T) {
	t.Setenv("S3_BUCKET", "receipts")
	_, err := LoadFromEnv()
	require.Error(t, err)
}

func TestValidate_ProductionNeedsJWTSecret(t *testing.T) {
	t.Setenv("ENV", "production")
	_, err := LoadFromEnv()
	require.Error(t, err)

	t.Setenv("JWT_SECRET", "super-secret")
	_, err = LoadFromEnv()
	require.NoError(t, err)
}

func TestSlogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, (&Config{LogLevel: "debug"}).SlogLevel())
	assert.Equal(t, slog.LevelWarn, (&Config{LogLevel: "warning"}).SlogLevel())
	assert.Equal(t, slog.LevelError, (&Config{LogLevel: "error"}).SlogLevel())
	assert.Equal(t, slog.LevelInfo, (&Config{LogLevel: "nonsense"}).SlogLevel())
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "# comment\n\nDOTENV_TEST_KEY=hello\nDOTENV_QUOTED='world'\nmalformed line\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("DOTENV_TEST_KEY", "")
	t.Setenv("DOTENV_QUOTED", "")

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "hello", os.Getenv("DOTENV_TEST_KEY"))
	assert.Equal(t, "world", os.Getenv("DOTENV_QUOTED"))
}

func TestLoadDotEnv_EnvWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("DOTENV_PRESET=file\n"), 0o600))

	t.Setenv("DOTENV_PRESET", "env")
	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "env", os.Getenv("DOTENV_PRESET"))
}

func TestLoadDotEnv_Missing(t *testing.T) {
	assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "absent.env")))
}
