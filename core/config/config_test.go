package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 30, cfg.Database.TimeoutSeconds)
	assert.Equal(t, "backups", cfg.Sync.BackupPrefix)
	assert.Equal(t, 60, cfg.Sync.IgnoreCacheSeconds)
	assert.Equal(t, "watchstate", cfg.Storage.Bucket)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("SYNC_BACKENDS", "home=plex,office=jellyfin")
	t.Setenv("DATABASE_DRIVER", "mysql")
	t.Setenv("SERVER_PORT", "9090")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "mysql", cfg.Database.Driver)

	backends, err := cfg.Sync.ParseBackends()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"home": "plex", "office": "jellyfin"}, backends)
}

func TestLoadConfig_File(t *testing.T) {
	dir := t.TempDir()
	yaml := "log:\n  level: debug\nsync:\n  backends: home=emby\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "home=emby", cfg.Sync.Backends)
}

func TestLoadConfig_InvalidBackends(t *testing.T) {
	t.Setenv("SYNC_BACKENDS", "home=kodi")

	_, err := LoadConfig(t.TempDir())
	assert.ErrorContains(t, err, "invalid sync configuration")
}
