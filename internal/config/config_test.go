package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("AWS_REGION", "eu-west-1")
	t.Setenv("S3_BUCKET", "instudio-offers")
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("MONGO_DB_NAME", "instudio")
}

func TestLoad(t *testing.T) {
	t.Run("missing required keys", func(t *testing.T) {
		t.Setenv("AWS_REGION", "")
		t.Setenv("S3_BUCKET", "")
		t.Setenv("MONGO_URI", "mongodb://localhost:27017")
		t.Setenv("MONGO_DB_NAME", "instudio")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "AWS_REGION")
		assert.Contains(t, err.Error(), "S3_BUCKET")
		assert.NotContains(t, err.Error(), "MONGO_URI")
	})

	t.Run("defaults", func(t *testing.T) {
		setRequired(t)

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "3000", cfg.Server.Port)
		assert.Equal(t, "offers", cfg.Mongo.Collection)
		assert.Equal(t, int64(50), cfg.App.DefaultLimit)
		assert.Equal(t, int64(10), cfg.RateLimit.UploadMax)
		assert.Equal(t, int64(5), cfg.RateLimit.CreateMax)
		assert.Equal(t, time.Minute, cfg.RateLimit.Window)
		assert.Equal(t, BackendMemory, cfg.RateLimit.Backend)
		assert.Equal(t, []string{".jpg", ".jpeg", ".png", ".webp", ".gif"}, cfg.App.AllowedFormats)
		assert.False(t, cfg.App.UniqueOfferID)
	})

	t.Run("overrides from env", func(t *testing.T) {
		setRequired(t)
		t.Setenv("PORT", "9999")
		t.Setenv("RATE_LIMIT_WINDOW", "30s")
		t.Setenv("RATE_LIMIT_BACKEND", "REDIS")
		t.Setenv("TRUSTED_PROXIES", "10.0.0.1, 10.0.0.2 ,")
		t.Setenv("OFFERS_UNIQUE_ID", "true")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "0.0.0.0:9999", cfg.Addr())
		assert.Equal(t, 30*time.Second, cfg.RateLimit.Window)
		assert.Equal(t, BackendRedis, cfg.RateLimit.Backend)
		assert.Equal(t, []string{"10.0.0.1", "10.0.0.2"}, cfg.Server.TrustedProxies)
		assert.True(t, cfg.App.UniqueOfferID)
	})

	t.Run("bare window number is seconds", func(t *testing.T) {
		setRequired(t)
		t.Setenv("RATE_LIMIT_WINDOW", "60")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	})

	t.Run("sub-second window", func(t *testing.T) {
		setRequired(t)
		t.Setenv("RATE_LIMIT_WINDOW", "500ms")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "RATE_LIMIT_WINDOW")
	})

	t.Run("unknown backend", func(t *testing.T) {
		setRequired(t)
		t.Setenv("RATE_LIMIT_BACKEND", "memcached")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "RATE_LIMIT_BACKEND")
	})
}
