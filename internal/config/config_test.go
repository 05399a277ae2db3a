package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{
		"API_BASE_URL", "VITE_API_BASE_URL", "PORT", "HTTP_TIMEOUT", "SESSION_STORE",
		"DEFAULT_TAX_RATE", "LOW_STOCK_PREVIEW", "PROFILE_CACHE_TTL",
	} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()

	assert.Equal(t, "http://localhost:8080/api", cfg.APIBaseURL)
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "file", cfg.SessionStore)
	assert.Equal(t, "persist:root", cfg.SessionRootKey)
	assert.Equal(t, 19.0, cfg.DefaultTaxRate)
	assert.Equal(t, 10, cfg.LowStockPreview)
	assert.Equal(t, 5, cfg.RecentPreview)
	assert.Equal(t, 5*time.Minute, cfg.ProfileCacheTTL)
	assert.True(t, cfg.IsDevelopment())
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("API_BASE_URL", "")
	t.Setenv("VITE_API_BASE_URL", "https://pos.example.com/api/")
	t.Setenv("HTTP_TIMEOUT", "5s")
	t.Setenv("SESSION_STORE", "REDIS")
	t.Setenv("DEFAULT_TAX_RATE", "16")
	t.Setenv("LOW_STOCK_PREVIEW", "3")
	t.Setenv("ENVIRONMENT", "production")

	cfg := FromEnv()

	assert.Equal(t, "https://pos.example.com/api", cfg.APIBaseURL)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "redis", cfg.SessionStore)
	assert.Equal(t, 16.0, cfg.DefaultTaxRate)
	assert.Equal(t, 3, cfg.LowStockPreview)
	assert.True(t, cfg.IsProduction())
}

func TestFromEnv_InvalidValuesFallBack(t *testing.T) {
	testCases := []struct {
		name  string
		key   string
		value string
		check func(t *testing.T, cfg *Config)
	}{
		{
			name:  "Invalid Timeout",
			key:   "HTTP_TIMEOUT",
			value: "soon",
			check: func(t *testing.T, cfg *Config) { assert.Equal(t, 30*time.Second, cfg.HTTPTimeout) },
		},
		{
			name:  "Negative Preview",
			key:   "LOW_STOCK_PREVIEW",
			value: "-2",
			check: func(t *testing.T, cfg *Config) { assert.Equal(t, 10, cfg.LowStockPreview) },
		},
		{
			name:  "Invalid Tax Rate",
			key:   "DEFAULT_TAX_RATE",
			value: "nineteen",
			check: func(t *testing.T, cfg *Config) { assert.Equal(t, 19.0, cfg.DefaultTaxRate) },
		},
		{
			name:  "Unknown Session Store",
			key:   "SESSION_STORE",
			value: "memcached",
			check: func(t *testing.T, cfg *Config) { assert.Equal(t, "file", cfg.SessionStore) },
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)
			tc.check(t, FromEnv())
		})
	}
}
