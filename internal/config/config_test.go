package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	cfg := Load()

	assert.Equal(t, "http://localhost:3000", cfg.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 10, cfg.PageSize)
	assert.Equal(t, 20, cfg.HistoryPageSize)
	assert.Equal(t, 400*time.Millisecond, cfg.SearchDebounce)
	assert.Equal(t, 5, cfg.LowStockThreshold)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.NotEmpty(t, cfg.DataDir)
}

func TestEnvOverrides(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	t.Setenv("INVPOS_BASE_URL", "https://pos.example.com/")
	t.Setenv("INVPOS_PAGE_SIZE", "25")
	t.Setenv("INVPOS_SEARCH_DEBOUNCE", "250ms")
	t.Setenv("INVPOS_LOG_LEVEL", "debug")

	cfg := Load()

	// Trailing slash is normalized away so path joins stay clean.
	assert.Equal(t, "https://pos.example.com", cfg.BaseURL)
	assert.Equal(t, 25, cfg.PageSize)
	assert.Equal(t, 250*time.Millisecond, cfg.SearchDebounce)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadIsCached(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	first := Load()
	second := Load()

	assert.Same(t, first, second)
}
