package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "foresy-backend", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTokenExpiration)
	assert.Equal(t, "memory", cfg.HTTP.RateLimitBackend)
	assert.Equal(t, 365, cfg.Activity.MaxQuantity)
	assert.Equal(t, int64(10_000_000), cfg.Activity.MaxUnitPrice)
	assert.Equal(t, int64(100_000_000), cfg.Activity.MaxLineTotal)
	assert.Equal(t, 500, cfg.Activity.MaxDescriptionLength)
	assert.Equal(t, 730, cfg.Activity.DateWindowDays)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("FORESY_APP_PORT", "9090")
	t.Setenv("FORESY_DATABASE_DBNAME", "foresy_test")
	t.Setenv("FORESY_ACTIVITY_MAX_QUANTITY", "31")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, "foresy_test", cfg.Database.DBName)
	assert.Equal(t, 31, cfg.Activity.MaxQuantity)
}

func TestValidate(t *testing.T) {
	t.Run("idle conns cannot exceed open conns", func(t *testing.T) {
		cfg := &Config{}
		applyDefaults(cfg)
		cfg.Database.MaxIdleConns = 50
		cfg.Database.MaxOpenConns = 10

		assert.Error(t, cfg.validate())
	})

	t.Run("unknown rate limit backend", func(t *testing.T) {
		cfg := &Config{}
		applyDefaults(cfg)
		cfg.HTTP.RateLimitBackend = "memcached"

		assert.Error(t, cfg.validate())
	})

	t.Run("production requires a strong jwt secret", func(t *testing.T) {
		cfg := &Config{}
		applyDefaults(cfg)
		cfg.App.Env = "production"
		cfg.Database.Password = "secret"
		cfg.Database.SSLMode = "require"
		cfg.JWT.Secret = "short"

		assert.Error(t, cfg.validate())

		cfg.JWT.Secret = "0123456789abcdef0123456789abcdef"
		assert.NoError(t, cfg.validate())
	})
}

func TestDatabaseDSN(t *testing.T) {
	d := DatabaseConfig{
		Host:     "db.internal",
		Port:     5432,
		User:     "app",
		Password: "p@ss/word",
		DBName:   "foresy",
		SSLMode:  "require",
	}

	dsn := d.DSN()
	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "db.internal:5432")
	assert.Contains(t, dsn, "sslmode=require")
	// special characters must be escaped
	assert.NotContains(t, dsn, "p@ss/word")
}
