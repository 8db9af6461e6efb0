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

	assert.Equal(t, "development", cfg.AppEnv)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
	assert.Empty(t, cfg.DatabaseURL)
	assert.Equal(t, "curbspot.db", cfg.SQLitePath)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 20, cfg.BatchConcurrency)
	assert.Equal(t, 8*time.Second, cfg.BatchTimeout)
	assert.InDelta(t, 0.002, cfg.DisclosureGrid, 1e-9)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("CURBSPOT_CACHE_TTL", "90s")
	t.Setenv("CURBSPOT_BATCH_CONCURRENCY", "8")
	t.Setenv("CURBSPOT_BATCH_TIMEOUT", "2s")
	t.Setenv("CURBSPOT_DISCLOSURE_GRID", "0.01")
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/curbspot")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 90*time.Second, cfg.CacheTTL)
	assert.Equal(t, 8, cfg.BatchConcurrency)
	assert.Equal(t, 2*time.Second, cfg.BatchTimeout)
	assert.InDelta(t, 0.01, cfg.DisclosureGrid, 1e-9)
	assert.Equal(t, "postgres://localhost:5432/curbspot", cfg.DatabaseURL)
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("CURBSPOT_BATCH_CONCURRENCY", "lots")
	t.Setenv("CURBSPOT_CACHE_TTL", "five minutes")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 20, cfg.BatchConcurrency)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
}
