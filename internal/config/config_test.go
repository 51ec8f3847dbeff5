package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("AUTH0_DOMAIN", "coffee.eu.auth0.com")
	t.Setenv("API_AUDIENCE", "coffee")
	t.Setenv("ALGORITHMS", "RS256")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Bind)
	assert.False(t, cfg.EnableSwagger)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, []string{"RS256"}, cfg.Auth.Algorithms)
	assert.Equal(t, 10*time.Minute, cfg.Auth.CacheTTL)
	assert.Equal(t, 5*time.Second, cfg.Auth.FetchTimeout)
	assert.Equal(t, 30*time.Second, cfg.Auth.RefreshCooldown)
	assert.Zero(t, cfg.Auth.Leeway)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Equal(t, "https://coffee.eu.auth0.com/", cfg.Auth.Issuer())
	assert.Equal(t, "https://coffee.eu.auth0.com/.well-known/jwks.json", cfg.Auth.DefaultJWKSURL())
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("ALGORITHMS", "RS256; ES256")
	t.Setenv("BIND", ":9000")
	t.Setenv("ENABLE_SWAGGER", "true")
	t.Setenv("JWKS_CACHE_TTL", "1m")
	t.Setenv("AUTH_LEEWAY", "15s")
	t.Setenv("REDIS_ADDR", "redis:6379")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Bind)
	assert.True(t, cfg.EnableSwagger)
	assert.Equal(t, []string{"RS256", "ES256"}, cfg.Auth.Algorithms)
	assert.Equal(t, time.Minute, cfg.Auth.CacheTTL)
	assert.Equal(t, 15*time.Second, cfg.Auth.Leeway)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
}

func TestLoad_MissingRequired(t *testing.T) {
	for _, name := range []string{"AUTH0_DOMAIN", "API_AUDIENCE", "ALGORITHMS"} {
		t.Run(name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(name, "")
			_, err := Load()
			require.Error(t, err)
		})
	}
}

func TestAuth_Issuer(t *testing.T) {
	assert.Equal(t, "https://a.example/", Auth{Domain: "https://a.example"}.Issuer())
	assert.Equal(t, "http://localhost:8000/", Auth{Domain: "http://localhost:8000/"}.Issuer())
}
