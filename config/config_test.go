package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "meridian.db", cfg.Database.Path)
	assert.Equal(t, 1, cfg.Ticker.IntervalSeconds)
	assert.Equal(t, 10.0, cfg.Ticker.DispatchPerSecond)
	assert.Equal(t, 10, cfg.Ticker.DispatchBurst)
	assert.Equal(t, "", cfg.Scheduler.DefaultTimeZone)
	assert.False(t, cfg.Log.JSON)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meridian.toml")
	content := `
[database]
path = "/var/lib/meridian/jobs.db"

[ticker]
interval_seconds = 5

[scheduler]
default_time_zone = "America/New_York"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/meridian/jobs.db", cfg.Database.Path)
	assert.Equal(t, 5, cfg.Ticker.IntervalSeconds)
	assert.Equal(t, "America/New_York", cfg.Scheduler.DefaultTimeZone)
	// Unset keys fall back to defaults
	assert.Equal(t, 10.0, cfg.Ticker.DispatchPerSecond)
}

func TestLoadFromFileMissing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
}

func TestWriteDefaultRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meridian.toml")
	require.NoError(t, WriteDefault(path))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	// Refuses to clobber an existing file.
	require.Error(t, WriteDefault(path))
}
