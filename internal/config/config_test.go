package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"CHORES_DB", "CHORES_LOG_LEVEL", "CHORES_TZ"} {
		t.Setenv(k, "")
	}
}

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
database:
  path: /srv/chores/shared.db
  watch: false
  history_limit: 250
log:
  level: debug
timezone: Europe/Berlin
backup:
  local_path: /tmp/local.json
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/chores/shared.db", cfg.Database.Path)
	assert.False(t, cfg.Database.Watch)
	assert.Equal(t, 250, cfg.Database.HistoryLimit)
	assert.Equal(t, "/tmp/local.json", cfg.Backup.LocalPath)

	level, err := cfg.LogLevel()
	require.NoError(t, err)
	assert.Equal(t, zapcore.DebugLevel, level)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", loc.String())
}

func TestLoad_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database: [unclosed"), 0644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("CHORES_DB", "/env/chores.db")
	t.Setenv("CHORES_LOG_LEVEL", "warn")
	t.Setenv("CHORES_TZ", "UTC")

	cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "/env/chores.db", cfg.Database.Path)
	assert.Equal(t, "warn", cfg.Log.Level)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero history limit", func(c *Config) { c.Database.HistoryLimit = 0 }},
		{"unknown level", func(c *Config) { c.Log.Level = "loud" }},
		{"bad timezone", func(c *Config) { c.Timezone = "Mars/Olympus" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestSave_RoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.Timezone = "Asia/Tokyo"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestDefaultPath_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	path, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, "/xdg/chores/config.yaml", path)
}
