package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_PASSWORD", "pw")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3001", cfg.Server.Port)
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.SessionTTL)
	assert.Equal(t, InsecureJWTSecret, cfg.JWT.Secret)
	assert.True(t, cfg.IsInsecureJWTSecret())
	assert.Equal(t, "data/uploads", cfg.Upload.Dir)
	assert.Equal(t, int64(5<<20), cfg.Upload.MaxSizeBytes)
	assert.Equal(t, "data/transactions.json", cfg.Data.TransactionsFile)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model)
	assert.False(t, cfg.IsOpenAIConfigured())
	assert.False(t, cfg.IsEmailConfigured())
	assert.False(t, cfg.IsGoogleOAuthConfigured())
}

func TestLoadRequiresDBPassword(t *testing.T) {
	t.Setenv("DB_PASSWORD", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_PASSWORD", "pw")
	t.Setenv("JWT_SECRET", "a-real-secret")
	t.Setenv("JWT_SESSION_TTL", "24h")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.example.com, https://staging.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.IsInsecureJWTSecret())
	assert.Equal(t, 24*time.Hour, cfg.JWT.SessionTTL)
	assert.True(t, cfg.IsOpenAIConfigured())
	assert.Equal(t, []string{"https://app.example.com", "https://staging.example.com"}, cfg.CORS.AllowedOrigins)
}

func TestGetDSN(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{
			Host: "localhost", Port: "5432", User: "postgres",
			Password: "pw", Name: "opto", SSLMode: "disable",
			ConnTimeout: 10 * time.Second,
		},
	}

	assert.Equal(t,
		"postgres://postgres:pw@localhost:5432/opto?sslmode=disable&connect_timeout=10",
		cfg.GetDSN())
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("TEST_STR", "value")
	assert.Equal(t, "value", getEnv("TEST_STR", "default"))
	assert.Equal(t, "default", getEnv("TEST_STR_MISSING", "default"))

	t.Setenv("TEST_DUR", "90s")
	assert.Equal(t, 90*time.Second, getDurationEnv("TEST_DUR", time.Minute))
	t.Setenv("TEST_DUR_BAD", "not-a-duration")
	assert.Equal(t, time.Minute, getDurationEnv("TEST_DUR_BAD", time.Minute))

	t.Setenv("TEST_BOOL", "true")
	assert.True(t, getBoolEnv("TEST_BOOL", false))

	t.Setenv("TEST_I64", "42")
	assert.Equal(t, int64(42), getInt64Env("TEST_I64", 7))

	t.Setenv("TEST_SLICE", "a, b ,c")
	assert.Equal(t, []string{"a", "b", "c"}, getStringSliceEnv("TEST_SLICE", nil))
}
