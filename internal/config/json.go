package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/nutrikeeper/internal/flagx"
	"github.com/dmitrijs2005/nutrikeeper/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer
// fields distinguish "absent" from a zero value, so a partial file only
// overrides what it names.
type JsonConfig struct {
	DBPath      *string         `json:"db_path"`
	LogLevel    *string         `json:"log_level"`
	Timezone    *string         `json:"timezone"`
	CacheSize   *int            `json:"cache_size"`
	BusyTimeout *timex.Duration `json:"busy_timeout"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c or -config. Without either flag nothing is loaded.
func parseJson(cfg *Config) error {
	jsonConfigFile := flagx.ConfigPath(os.Args[1:])
	if jsonConfigFile == "" {
		return nil
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", jsonConfigFile, err)
	}

	if jc.DBPath != nil {
		cfg.DBPath = *jc.DBPath
	}
	if jc.LogLevel != nil {
		cfg.LogLevel = *jc.LogLevel
	}
	if jc.Timezone != nil {
		cfg.Timezone = *jc.Timezone
	}
	if jc.CacheSize != nil {
		cfg.CacheSize = *jc.CacheSize
	}
	if jc.BusyTimeout != nil {
		cfg.BusyTimeout = jc.BusyTimeout.Duration
	}
	return nil
}
