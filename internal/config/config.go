// Package config provides centralized configuration for the invpos client.
// Values come from a config file (~/.invpos/config.yaml), INVPOS_* environment
// variables, and built-in defaults, in that order of precedence.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

// Config holds all client settings.
type Config struct {
	// BaseURL is the backend root, without the /api/v1 suffix (INVPOS_BASE_URL)
	BaseURL string

	// RequestTimeout bounds every API call (INVPOS_REQUEST_TIMEOUT)
	RequestTimeout time.Duration

	// DataDir holds the session database and logs (INVPOS_DATA_DIR)
	DataDir string

	// PageSize is the default page size for product lists (INVPOS_PAGE_SIZE)
	PageSize int

	// HistoryPageSize is the default page size for history lists (INVPOS_HISTORY_PAGE_SIZE)
	HistoryPageSize int

	// SearchDebounce is the idle window before a search commit (INVPOS_SEARCH_DEBOUNCE)
	SearchDebounce time.Duration

	// LowStockThreshold marks products needing restock (INVPOS_LOW_STOCK_THRESHOLD)
	LowStockThreshold int

	// LogLevel is one of debug, info, warn, error (INVPOS_LOG_LEVEL)
	LogLevel string
}

var (
	cfg     *Config
	cfgOnce sync.Once
)

// Load returns the singleton configuration. Thread-safe, reads once on
// first call.
func Load() *Config {
	cfgOnce.Do(func() {
		v := viper.New()

		v.SetDefault("base_url", "http://localhost:3000")
		v.SetDefault("request_timeout", 30*time.Second)
		v.SetDefault("data_dir", defaultDataDir())
		v.SetDefault("page_size", 10)
		v.SetDefault("history_page_size", 20)
		v.SetDefault("search_debounce", 400*time.Millisecond)
		v.SetDefault("low_stock_threshold", 5)
		v.SetDefault("log_level", "info")

		v.SetEnvPrefix("invpos")
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()

		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(defaultDataDir())
		// Missing config file is fine; env and defaults remain.
		_ = v.ReadInConfig()

		cfg = &Config{
			BaseURL:           strings.TrimRight(v.GetString("base_url"), "/"),
			RequestTimeout:    v.GetDuration("request_timeout"),
			DataDir:           v.GetString("data_dir"),
			PageSize:          v.GetInt("page_size"),
			HistoryPageSize:   v.GetInt("history_page_size"),
			SearchDebounce:    v.GetDuration("search_debounce"),
			LowStockThreshold: v.GetInt("low_stock_threshold"),
			LogLevel:          v.GetString("log_level"),
		}
	})
	return cfg
}

// Reset clears the cached configuration (for testing).
func Reset() {
	cfgOnce = sync.Once{}
	cfg = nil
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".invpos")
}
