// Package config loads runtime configuration for the nutrikeeper CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. A .env file in the working directory and NUTRIKEEPER_* environment
//     variables (see parseEnv). Variables already set in the environment win
//     over the .env file.
//  3. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-d string   path of the SQLite database file
//	-l string   log level: debug, info, warn, error
//	-tz string  IANA time zone used for calendar days ("Local" by default)
//	-cache int  number of products kept in the in-memory cache
//	-busy int   SQLite busy timeout (milliseconds)
//
// # JSON schema
//
//	{
//	  "db_path": "~/.nutrikeeper/nutrikeeper.db",
//	  "log_level": "info",
//	  "timezone": "Europe/Riga",
//	  "cache_size": 256,
//	  "busy_timeout": "5s"
//	}
//
// busy_timeout uses timex.Duration, so it may also be integer nanoseconds.
package config
