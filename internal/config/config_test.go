package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, 15*time.Second, cfg.HTTP.Heartbeat)
	assert.Equal(t, 2*time.Hour, cfg.Sessions.TTL)
	assert.Equal(t, 5*time.Minute, cfg.Sessions.SweepInterval)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("TTT_HTTP_ADDR", "127.0.0.1:9090")
	t.Setenv("TTT_LOG_LEVEL", "debug")
	t.Setenv("TTT_SESSION_TTL", "30m")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9090", cfg.HTTP.Addr)
	assert.Equal(t, slog.LevelDebug, cfg.Level())
	assert.Equal(t, 30*time.Minute, cfg.Sessions.TTL)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	data := "log-level: warn\nhttp:\n  addr: \":7000\"\n  heartbeat: 5s\nsessions:\n  ttl: 1h\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":7000", cfg.HTTP.Addr)
	assert.Equal(t, 5*time.Second, cfg.HTTP.Heartbeat)
	assert.Equal(t, time.Hour, cfg.Sessions.TTL)
	assert.Equal(t, 5*time.Minute, cfg.Sessions.SweepInterval)
	assert.Equal(t, slog.LevelWarn, cfg.Level())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	require.Error(t, err)

	assert.Panics(t, func() { MustLoad(filepath.Join(t.TempDir(), "absent.yml")) })
}

func TestLevelFallsBackToInfo(t *testing.T) {
	cfg := &Config{LogLevel: "loud"}
	assert.Equal(t, slog.LevelInfo, cfg.Level())
}
