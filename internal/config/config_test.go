package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"PORT", "ROUTE_SOURCE", "ROUTE_FILE", "VEHICLE_COUNT", "TICK_INTERVAL",
	"GOOGLE_MAPS_API_KEY", "ORS_API_KEY", "OSRM_BASE_URL", "FETCH_DIRECTIONS",
	"ROUTE_CACHE", "DB_PATH", "DATABASE_URL", "REDIS_URL", "ROUTE_CACHE_TTL",
	"CORS_ALLOWED_ORIGINS",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configKeys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "file", cfg.RouteSource)
	assert.Equal(t, "data/routes.json", cfg.RouteFile)
	assert.Equal(t, 3, cfg.VehicleCount)
	assert.Equal(t, 5*time.Second, cfg.TickInterval)
	assert.True(t, cfg.FetchDirections)
	assert.Equal(t, "sqlite", cfg.RouteCache)
	assert.Equal(t, 24*time.Hour, cfg.RouteCacheTTL)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.Empty(t, cfg.GoogleMapsAPIKey)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("VEHICLE_COUNT", "5")
	t.Setenv("TICK_INTERVAL", "250ms")
	t.Setenv("FETCH_DIRECTIONS", "false")
	t.Setenv("ROUTE_CACHE", "redis")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 5, cfg.VehicleCount)
	assert.Equal(t, 250*time.Millisecond, cfg.TickInterval)
	assert.False(t, cfg.FetchDirections)
	assert.Equal(t, "redis", cfg.RouteCache)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSAllowedOrigins)
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad int", map[string]string{"VEHICLE_COUNT": "three"}},
		{"negative vehicles", map[string]string{"VEHICLE_COUNT": "-1"}},
		{"bad duration", map[string]string{"TICK_INTERVAL": "soon"}},
		{"zero tick", map[string]string{"TICK_INTERVAL": "0s"}},
		{"bad bool", map[string]string{"FETCH_DIRECTIONS": "maybe"}},
		{"unknown cache", map[string]string{"ROUTE_CACHE": "memcached"}},
		{"postgres without url", map[string]string{"ROUTE_CACHE": "postgres"}},
		{"redis without url", map[string]string{"ROUTE_CACHE": "redis"}},
		{"unknown route source", map[string]string{"ROUTE_SOURCE": "s3"}},
		{"bad port", map[string]string{"PORT": "http"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestGet(t *testing.T) {
	t.Setenv("SOME_KEY", "  value ")
	assert.Equal(t, "value", Get("SOME_KEY", "fallback"))

	t.Setenv("SOME_KEY", "")
	assert.Equal(t, "fallback", Get("SOME_KEY", "fallback"))
}
