package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost/storehub")

	cfg := FromEnv()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "*", cfg.AllowedOrigin)
	assert.Contains(t, cfg.PlatformDomains, "localhost")
	assert.Equal(t, 7*24*time.Hour, cfg.CartTTL)
	assert.Equal(t, 5*time.Minute, cfg.LiveListRefresh)
	assert.False(t, cfg.TrustedProxyHeaders)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost/storehub")
	t.Setenv("PLATFORM_DOMAINS", " Example.com, ,shop.test ")
	t.Setenv("DB_MAX_CONNS", "7")
	t.Setenv("CACHE_STOREFRONT_TTL", "not-a-duration")

	cfg := FromEnv()
	assert.Equal(t, []string{"example.com", "shop.test"}, cfg.PlatformDomains)
	assert.Equal(t, int32(7), cfg.DBMaxConns)
	assert.Equal(t, 2*time.Minute, cfg.CacheStorefrontTTL)
}

func TestFromEnvProxyTrust(t *testing.T) {
	t.Setenv("TRUST_PROXY_HEADERS", "true")
	assert.True(t, FromEnv().TrustedProxyHeaders)

	t.Setenv("TRUST_PROXY_HEADERS", "maybe")
	assert.False(t, FromEnv().TrustedProxyHeaders)
}

func TestValidateRequiresDSN(t *testing.T) {
	cfg := FromEnv()
	cfg.DBUrl = ""
	assert.Error(t, cfg.Validate())
}
