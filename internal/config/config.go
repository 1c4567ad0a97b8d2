// Package config loads the gitscape configuration file.
//
// Configuration lives at ~/.config/gitscape/config.toml and holds serving
// defaults; command-line flags always win over file values. A missing file is
// not an error — defaults apply.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Session SessionConfig `toml:"session"`
}

// ServerConfig holds HTTP serving options.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// SessionConfig selects and configures the session store backend.
type SessionConfig struct {
	// Backend is one of "memory", "file", "redis".
	Backend string `toml:"backend"`
	// Dir is the session directory for the file backend (empty = default).
	Dir string `toml:"dir"`
	// RedisAddr is the host:port for the redis backend.
	RedisAddr string `toml:"redis_addr"`
	// TTLHours is the session lifetime in hours.
	TTLHours int `toml:"ttl_hours"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server:  ServerConfig{Addr: ":8420"},
		Session: SessionConfig{Backend: "memory", TTLHours: 24},
	}
}

// TTL returns the configured session lifetime as a duration.
func (c SessionConfig) TTL() time.Duration {
	if c.TTLHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(c.TTLHours) * time.Hour
}

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".config", "gitscape", "config.toml"), nil
}

// Load reads the config file at path, or the default location when path is
// empty. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return cfg, err
		}
		path = p
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Session.Backend {
	case "", "memory", "file", "redis":
	default:
		return fmt.Errorf("unknown session backend %q (must be memory, file, or redis)", c.Session.Backend)
	}
	if c.Session.Backend == "redis" && c.Session.RedisAddr == "" {
		return fmt.Errorf("session backend redis requires redis_addr")
	}
	return nil
}
