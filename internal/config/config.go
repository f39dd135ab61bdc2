// Package config provides configuration loading for kbd.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root configuration for the daemon.
type Config struct {
	Server ServerConfig `koanf:"server"`
	Auth   AuthConfig   `koanf:"auth"`
	Data   DataConfig   `koanf:"data"`
	Log    LogConfig    `koanf:"log"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// AuthConfig holds the shared-secret key set.
//
// Keys is a comma-separated list when supplied via the API_KEYS
// environment variable, or a YAML string in the config file. Whitespace
// around individual keys is ignored.
type AuthConfig struct {
	Keys Secret `koanf:"keys"`
}

// KeySet returns the configured keys as a membership set.
func (a AuthConfig) KeySet() map[string]struct{} {
	set := make(map[string]struct{})
	for _, k := range strings.Split(a.Keys.Value(), ",") {
		k = strings.TrimSpace(k)
		if k != "" {
			set[k] = struct{}{}
		}
	}
	return set
}

// DataConfig locates the dataset directory.
type DataConfig struct {
	Dir string `koanf:"dir"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// applyDefaults sets default values for missing configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 2011
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}
	if cfg.Data.Dir == "" {
		cfg.Data.Dir = "data"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port out of range: %d", c.Server.Port)
	}
	if c.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("shutdown timeout cannot be negative: %s", c.Server.ShutdownTimeout)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("unknown log format: %q", c.Log.Format)
	}
	if c.Data.Dir == "" {
		return fmt.Errorf("data directory is required")
	}
	return nil
}
