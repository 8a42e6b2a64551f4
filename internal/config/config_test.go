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

func TestLoadDefaultValues(t *testing.T) {
	cfg, err := LoadDefault()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:3000", cfg.Server.Addr())
	assert.Equal(t, "public", cfg.Server.StaticDir)
	assert.Equal(t, time.Minute, cfg.Server.IdleTimeout)
	assert.Equal(t, 10*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, DefaultAdminKey, cfg.Admin.Key)
	assert.Equal(t, "saves", cfg.Saves.Dir)
	assert.Equal(t, filepath.Join("saves", "active"), filepath.FromSlash(cfg.Saves.ActiveDir))
	assert.Empty(t, cfg.Launch.GamePath)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("GRUDGE_SERVER_PORT", "8080")
	t.Setenv("GRUDGE_ADMIN_KEY", "super-secret")
	t.Setenv("GRUDGE_LOGGING_LEVEL", "debug")

	cfg, err := LoadDefault()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "super-secret", cfg.Admin.Key)
	assert.Equal(t, slog.LevelDebug, cfg.Logging.SlogLevel())
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `server:
  port: 4000
  idle_timeout: 30s
admin:
  key: file-key
launch:
  game_path: /opt/game/game.exe
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 4000, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.IdleTimeout)
	assert.Equal(t, "file-key", cfg.Admin.Key)
	assert.Equal(t, "/opt/game/game.exe", cfg.Launch.GamePath)
	// Unset values keep their defaults.
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidateRejectsBadValues(t *testing.T) {
	valid := Config{
		Server: ServerConfig{Port: 3000, IdleTimeout: time.Minute, WriteTimeout: 10 * time.Second},
		Admin:  AdminConfig{Key: "k"},
	}
	require.NoError(t, valid.Validate())

	badPort := valid
	badPort.Server.Port = 0
	assert.Error(t, badPort.Validate())

	badKey := valid
	badKey.Admin.Key = ""
	assert.Error(t, badKey.Validate())

	badIdle := valid
	badIdle.Server.IdleTimeout = 0
	assert.Error(t, badIdle.Validate())
}

func TestSlogLevelParsing(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, LoggingConfig{Level: "debug"}.SlogLevel())
	assert.Equal(t, slog.LevelWarn, LoggingConfig{Level: "WARN"}.SlogLevel())
	assert.Equal(t, slog.LevelError, LoggingConfig{Level: "error"}.SlogLevel())
	assert.Equal(t, slog.LevelInfo, LoggingConfig{Level: ""}.SlogLevel())
	assert.Equal(t, slog.LevelInfo, LoggingConfig{Level: "bogus"}.SlogLevel())
}
