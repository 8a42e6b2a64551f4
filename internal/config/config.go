// Package config provides Viper-based configuration loading for the lobby server.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultAdminKey gates kick/ban/stats when no key is configured.
// Operators must override it in any real deployment.
const DefaultAdminKey = "grudge-admin-2026"

// ServerConfig holds HTTP/websocket listener settings.
type ServerConfig struct {
	// Host is the bind address.
	Host string `mapstructure:"host"`
	// Port is the listen port.
	Port int `mapstructure:"port"`
	// StaticDir is the directory the companion client is served from.
	StaticDir string `mapstructure:"static_dir"`
	// IdleTimeout is how long a connection may stay silent (no envelopes,
	// no pongs) before it is treated as gone.
	IdleTimeout time.Duration `mapstructure:"idle_timeout"`
	// WriteTimeout is the per-message write deadline.
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// Addr returns the "host:port" listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// AdminConfig holds the shared moderation secret.
type AdminConfig struct {
	Key string `mapstructure:"key"`
}

// SavesConfig holds character save storage paths.
type SavesConfig struct {
	// Dir is the per-user character registry root.
	Dir string `mapstructure:"dir"`
	// ActiveDir is the save directory the game itself reads from.
	ActiveDir string `mapstructure:"active_dir"`
}

// LaunchConfig holds game-launch helper settings.
type LaunchConfig struct {
	// GamePath is the game executable; empty disables the launch endpoint.
	GamePath string `mapstructure:"game_path"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "text".
	Format string `mapstructure:"format"`
}

// SlogLevel parses the configured level, defaulting to info.
func (l LoggingConfig) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Config is the full server configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Admin   AdminConfig   `mapstructure:"admin"`
	Saves   SavesConfig   `mapstructure:"saves"`
	Launch  LaunchConfig  `mapstructure:"launch"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// Validate checks for configuration values the server cannot run with.
func (c Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Admin.Key == "" {
		return errors.New("admin key must not be empty")
	}
	if c.Server.IdleTimeout <= 0 {
		return errors.New("idle timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		return errors.New("write timeout must be positive")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.static_dir", "public")
	v.SetDefault("server.idle_timeout", time.Minute)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("admin.key", DefaultAdminKey)
	v.SetDefault("saves.dir", "saves")
	v.SetDefault("saves.active_dir", "saves/active")
	v.SetDefault("launch.game_path", "")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

func newViper() *viper.Viper {
	v := viper.New()

	// Environment variable overrides with GRUDGE_ prefix
	v.SetEnvPrefix("GRUDGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	return v
}

// Load reads configuration from the given file, applying defaults and
// GRUDGE_-prefixed environment overrides.
func Load(path string) (Config, error) {
	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	return unmarshal(v)
}

// LoadDefault builds configuration from defaults and environment only.
func LoadDefault() (Config, error) {
	return unmarshal(newViper())
}

func unmarshal(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
