package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaults() *Config {
	c := &Config{}
	c.LoadDefaults()
	return c
}

// unsetEnv clears key for the test and restores it afterwards.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

// chdir changes the working directory for the test and restores it afterwards.
func chdir(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { require.NoError(t, os.Chdir(orig)) })
}

func clearEnv(t *testing.T) {
	for _, k := range []string{EnvDBPath, EnvLogLevel, EnvTimezone, EnvCacheSize, EnvBusyTimeout} {
		unsetEnv(t, k)
	}
}

func TestLoadDefaults(t *testing.T) {
	c := defaults()

	assert.Equal(t, "~/.nutrikeeper/nutrikeeper.db", c.DBPath)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, "Local", c.Timezone)
	assert.Equal(t, 256, c.CacheSize)
	assert.Equal(t, 5*time.Second, c.BusyTimeout)
	require.NoError(t, c.Validate())
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	clearEnv(t)
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	chdir(t, t.TempDir())

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(defaults(), cfg))
}

func TestLoadConfig_Precedence(t *testing.T) {
	clearEnv(t)
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(".env", []byte("NUTRIKEEPER_DB=/env/db\nNUTRIKEEPER_CACHE_SIZE=10\n"), 0o600))
	path := writeTempJSON(t, dir, "cfg.json", map[string]any{"cache_size": 20, "log_level": "debug"})

	os.Args = []string{"testbin", "-c", path, "-cache", "30"}

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "/env/db", cfg.DBPath)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 30, cfg.CacheSize)
}

func TestLocation(t *testing.T) {
	c := defaults()
	loc, err := c.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)

	c.Timezone = "UTC"
	loc, err = c.Location()
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())

	c.Timezone = "Nowhere/Special"
	_, err = c.Location()
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty db path", func(c *Config) { c.DBPath = "" }},
		{"zero cache", func(c *Config) { c.CacheSize = 0 }},
		{"negative busy timeout", func(c *Config) { c.BusyTimeout = -time.Second }},
		{"bad timezone", func(c *Config) { c.Timezone = "Mars/Olympus" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := defaults()
			tt.mutate(c)
			require.Error(t, c.Validate())
		})
	}
}

func TestParseEnv(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte(
		"NUTRIKEEPER_DB=/from/file\nNUTRIKEEPER_TZ=UTC\nNUTRIKEEPER_BUSY_TIMEOUT=2s\n"), 0o600))

	t.Setenv(EnvDBPath, "/from/env")

	cfg := defaults()
	require.NoError(t, parseEnv(cfg, envFile))

	assert.Equal(t, "/from/env", cfg.DBPath, "process env wins over .env")
	assert.Equal(t, "UTC", cfg.Timezone)
	assert.Equal(t, 2*time.Second, cfg.BusyTimeout)
}

func TestParseEnv_MissingFileIsIgnored(t *testing.T) {
	clearEnv(t)

	cfg := defaults()
	require.NoError(t, parseEnv(cfg, filepath.Join(t.TempDir(), "none.env")))
	assert.Empty(t, cmp.Diff(defaults(), cfg))
}

func TestParseEnv_BadValues(t *testing.T) {
	clearEnv(t)

	t.Setenv(EnvCacheSize, "many")
	require.Error(t, parseEnv(defaults(), ""))

	t.Setenv(EnvCacheSize, "1")
	t.Setenv(EnvBusyTimeout, "soon")
	require.Error(t, parseEnv(defaults(), ""))
}
