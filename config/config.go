// Package config holds the engine settings shared by the command line tools.
package config

import (
	"fmt"
	"os"
	"strconv"

	"CatalogDB/logging"

	json "github.com/goccy/go-json"
	"github.com/spf13/afero"
)

const (
	EnvRoot        = "CATALOGDB_ROOT"
	EnvBufferPages = "CATALOGDB_BUFFER_PAGES"
	EnvLogLevel    = "CATALOGDB_LOG_LEVEL"
)

type Config struct {
	// DbRoot is the directory holding one sub-directory per database.
	DbRoot string `json:"db_root"`
	// BufferPoolPages is the frame count of the buffer pool of an open database.
	BufferPoolPages int `json:"buffer_pool_pages"`
	// ColumnCacheEntries sizes the column resolution cache.
	ColumnCacheEntries int64 `json:"column_cache_entries"`

	Log logging.Config `json:"log"`
}

func Default() Config {
	return Config{
		DbRoot:             "databases",
		BufferPoolPages:    100,
		ColumnCacheEntries: 1 << 12,
		Log: logging.Config{
			Level:  logging.LevelInfo,
			Format: "text",
		},
	}
}

// Load reads a JSON config file from fs on top of the defaults.
// A missing file is not an error.
func Load(fs afero.Fs, path string) (Config, error) {
	cfg := Default()
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// ApplyEnv overrides fields from CATALOGDB_* environment variables.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv(EnvRoot); v != "" {
		c.DbRoot = v
	}
	if v := os.Getenv(EnvBufferPages); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvBufferPages, err)
		}
		c.BufferPoolPages = n
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = logging.LogLevel(v)
	}
	return c.Validate()
}

func (c Config) Validate() error {
	if c.DbRoot == "" {
		return fmt.Errorf("db_root must not be empty")
	}
	// B+tree splits pin a handful of pages at once.
	if c.BufferPoolPages < 8 {
		return fmt.Errorf("buffer_pool_pages must be at least 8, got %d", c.BufferPoolPages)
	}
	if c.ColumnCacheEntries < 1 {
		return fmt.Errorf("column_cache_entries must be positive, got %d", c.ColumnCacheEntries)
	}
	switch c.Log.Level {
	case logging.LevelDebug, logging.LevelInfo, logging.LevelWarn, logging.LevelError, "":
	default:
		return fmt.Errorf("unknown log level %q", c.Log.Level)
	}
	return nil
}
