package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/tatami/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoad_YAMLFile(t *testing.T) {
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), "tatami.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
store: sqlite
sqlite_path: /tmp/dojo.db
session_ttl: 2h
redis:
  addr: cache:6379
`), 0644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.DriverSQLite, cfg.Store)
	assert.Equal(t, "/tmp/dojo.db", cfg.SQLitePath)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	assert.Equal(t, "tatami:", cfg.Redis.Prefix, "unset keys keep defaults")
}

func TestLoad_JSONFile(t *testing.T) {
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), "tatami.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"http_addr": ":9090", "session_ttl": "30m"}`), 0644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
}

func TestLoad_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("TATAMI_HTTP_ADDR=:7070\n"), 0644))
	t.Cleanup(func() { os.Unsetenv("TATAMI_HTTP_ADDR") })

	t.Setenv("TATAMI_STORE", "redis")
	t.Setenv("TATAMI_REDIS_DB", "3")
	t.Setenv("TATAMI_SESSION_TTL", "15m")

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.DriverRedis, cfg.Store)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.Equal(t, 15*time.Minute, cfg.SessionTTL)
	assert.Equal(t, ":7070", cfg.HTTPAddr)
}

func TestLoad_Invalid(t *testing.T) {
	t.Chdir(t.TempDir())

	t.Setenv("TATAMI_STORE", "mongo")
	_, err := config.Load("")
	assert.Error(t, err)

	t.Setenv("TATAMI_STORE", "memory")
	t.Setenv("TATAMI_REDIS_DB", "two")
	_, err = config.Load("")
	assert.Error(t, err)
}
