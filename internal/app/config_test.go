package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("SESSION_SECRET", "session-secret")
	t.Setenv("CSRF_SECRET", "csrf-secret")
	t.Setenv("JWT_SECRET", "0123456789abcdef0123")
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.AppAddr)
	assert.Equal(t, "imobix", cfg.JWTIssuer)
	assert.Equal(t, 12*time.Hour, cfg.JWTTTL)
	assert.Equal(t, int64(10485760), cfg.UploadMaxBytes)
	assert.Equal(t, 5*time.Minute, cfg.TemplatesCacheTTL)
	assert.Equal(t, 120, cfg.RateLimitPerMin)
	assert.Equal(t, "/files", cfg.BlobBaseURL)
	assert.False(t, cfg.DBAutoMigrate)
	assert.False(t, cfg.IsProduction())
}

func TestConfigConnectionOptions(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("REDIS_PASSWORD", "pw")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("PG_MAX_CONNS", "20")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	redisOpts := cfg.Redis()
	assert.Equal(t, "redis:6379", redisOpts.Addr)
	assert.Equal(t, "pw", redisOpts.Password)
	assert.Equal(t, 3, redisOpts.DB)
	assert.Equal(t, "redis:6379", redisOpts.Asynq().Addr)

	pool := cfg.Pool()
	assert.Equal(t, int32(20), pool.MaxConns)
	assert.Equal(t, 5*time.Minute, pool.MaxConnIdleTime)
}

func TestLoadConfigRejectsShortJWTSecret(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("JWT_SECRET", "short")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfigRequiresSessionSecret(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SESSION_SECRET", "")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestIsProduction(t *testing.T) {
	var nilCfg *Config
	assert.False(t, nilCfg.IsProduction())
	assert.True(t, (&Config{AppEnv: "production"}).IsProduction())
}
