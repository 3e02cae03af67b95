package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/grrt?sslmode=disable")
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, int64(10<<20), cfg.MaxResumeBytes)
	assert.True(t, cfg.CORSOrigins.AllowAll())
	assert.Empty(t, cfg.GeminiAPIKey)
	assert.Equal(t, 10, cfg.LoginRatePerMin)
}

func TestFromEnvOrigins(t *testing.T) {
	t.Setenv("DATABASE_URL", "x")
	t.Setenv("JWT_SECRET", "y")
	t.Setenv("CORS_ORIGINS", "http://localhost:5173/, https://grrt.example.com")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, Origins{"http://localhost:5173", "https://grrt.example.com"}, cfg.CORSOrigins)
	assert.False(t, cfg.CORSOrigins.AllowAll())
	assert.True(t, Origins{"*"}.AllowAll())
}

func TestValidateReportsEverything(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DB_DRIVER", "oracle")

	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL is required")
	assert.Contains(t, err.Error(), "JWT_SECRET is required")
	assert.Contains(t, err.Error(), "DB_DRIVER")
}

func TestFromEnvBadDuration(t *testing.T) {
	t.Setenv("DATABASE_URL", "x")
	t.Setenv("JWT_SECRET", "y")
	t.Setenv("TOKEN_TTL", "forever")

	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TOKEN_TTL")
}

func TestLoadClient(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("GRRT_API_URL", "https://api.grrt.example/api/v1/")
	t.Setenv("GRRT_LOG_LEVEL", "")

	c := LoadClient()
	assert.Equal(t, "https://api.grrt.example/api/v1", c.APIURL)
	assert.Equal(t, "warn", c.LogLevel)
}
