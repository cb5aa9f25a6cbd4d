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

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 24*time.Hour, cfg.Cache.TTL)
	assert.Equal(t, 10*time.Second, cfg.Search.Timeout)
	assert.Equal(t, []string{
		"Intel 8086 CPU processor",
		"Intel 8088 CPU processor",
		"Intel 8087 math coprocessor",
	}, cfg.Catalog.Queries)
	assert.Equal(t, 9, cfg.Catalog.MaxProducts)
	assert.Equal(t, 4, cfg.Catalog.PerQueryLimit)
	assert.Equal(t, 500*time.Millisecond, cfg.Catalog.QueryDelay)
	assert.Equal(t, 12, cfg.EBay.EntriesPerPage)
	assert.Equal(t, "v3.2.0", cfg.Gateway.Version)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("CATALOG_QUERIES", "Motorola 68000,Zilog Z80")
	t.Setenv("CACHE_TTL", "1h")
	t.Setenv("EBAY_APP_ID", "test-app-id")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"Motorola 68000", "Zilog Z80"}, cfg.Catalog.Queries)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
	assert.Equal(t, "test-app-id", cfg.EBay.AppID)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("CATALOG_MAX_PRODUCTS", "0")

	_, err := Load()
	assert.Error(t, err)
}
