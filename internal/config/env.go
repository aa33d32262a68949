package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables read by parseEnv.
const (
	EnvDBPath      = "NUTRIKEEPER_DB"
	EnvLogLevel    = "NUTRIKEEPER_LOG_LEVEL"
	EnvTimezone    = "NUTRIKEEPER_TZ"
	EnvCacheSize   = "NUTRIKEEPER_CACHE_SIZE"
	EnvBusyTimeout = "NUTRIKEEPER_BUSY_TIMEOUT"
)

// parseEnv loads envFile (a missing file is fine) without overriding
// variables that are already set, then copies the NUTRIKEEPER_* values into
// cfg.
func parseEnv(cfg *Config, envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	if v, ok := os.LookupEnv(EnvDBPath); ok && v != "" {
		cfg.DBPath = v
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok && v != "" {
		cfg.LogLevel = v
	}
	if v, ok := os.LookupEnv(EnvTimezone); ok && v != "" {
		cfg.Timezone = v
	}
	if v, ok := os.LookupEnv(EnvCacheSize); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvCacheSize, err)
		}
		cfg.CacheSize = n
	}
	if v, ok := os.LookupEnv(EnvBusyTimeout); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvBusyTimeout, err)
		}
		cfg.BusyTimeout = d
	}
	return nil
}
