package main

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRateLimiterConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		for _, key := range []string{"RATELIMITER_REQUESTS_COUNT", "RATE_LIMITER_ENABLED"} {
			t.Setenv(key, "")
			require.NoError(t, os.Unsetenv(key))
		}

		cfg, err := LoadRateLimiterConfig()
		require.NoError(t, err)
		assert.Equal(t, 200, cfg.RequestsPerTimeFrame)
		assert.Equal(t, 5*time.Second, cfg.TimeFrame)
		assert.False(t, cfg.Enabled)
	})

	t.Run("from env", func(t *testing.T) {
		t.Setenv("RATELIMITER_REQUESTS_COUNT", "50")
		t.Setenv("RATE_LIMITER_ENABLED", "true")

		cfg, err := LoadRateLimiterConfig()
		require.NoError(t, err)
		assert.Equal(t, 50, cfg.RequestsPerTimeFrame)
		assert.True(t, cfg.Enabled)
	})

	t.Run("invalid values fall back and are reported", func(t *testing.T) {
		t.Setenv("RATELIMITER_REQUESTS_COUNT", "lots")
		t.Setenv("RATE_LIMITER_ENABLED", "maybe")

		cfg, err := LoadRateLimiterConfig()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "RATELIMITER_REQUESTS_COUNT")
		assert.Contains(t, err.Error(), "RATE_LIMITER_ENABLED")
		assert.Equal(t, 200, cfg.RequestsPerTimeFrame)
		assert.False(t, cfg.Enabled)
	})
}
