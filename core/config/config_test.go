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

	assert.Equal(t, "files", cfg.Data.Backend)
	assert.Equal(t, ".", cfg.Data.Dir)
	assert.Equal(t, "roomStatus.txt", cfg.Data.RoomsFile)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.True(t, cfg.Server.Swagger)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 30, cfg.Database.TimeoutSeconds)
	assert.Equal(t, "dormitory", cfg.Storage.Bucket)
	assert.False(t, cfg.Storage.Enabled)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("DATA_DIR", "/var/lib/dormitory")
	t.Setenv("DATA_BACKEND", "database")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("STORAGE_KEEP", "3")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/dormitory", cfg.Data.Dir)
	assert.Equal(t, "database", cfg.Data.Backend)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 3, cfg.Storage.Keep)
}

func TestLoadConfig_FileAndDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"),
		[]byte("log:\n  level: debug\ndata:\n  dir: ./records\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("LOG_FORMAT=json\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("LOG_FORMAT") })

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "./records", cfg.Data.Dir)
	assert.Equal(t, "json", cfg.Log.Format)
}
