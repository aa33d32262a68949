package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/nutrikeeper/internal/flagx"
)

// parseFlags populates Config fields from command-line flags. os.Args is
// filtered to the flags handled here, using flagx.FilterArgs, so -c and
// positional arguments do not trip the parser.
func parseFlags(cfg *Config) error {
	args := flagx.FilterArgs(os.Args[1:], "d", "l", "tz", "cache", "busy")

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.DBPath, "d", cfg.DBPath, "path of the SQLite database file")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.Timezone, "tz", cfg.Timezone, "time zone for calendar days")
	fs.IntVar(&cfg.CacheSize, "cache", cfg.CacheSize, "number of cached products")
	busy := fs.Int("busy", int(cfg.BusyTimeout.Milliseconds()), "busy timeout (in milliseconds)")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	cfg.BusyTimeout = time.Duration(*busy) * time.Millisecond
	return nil
}
