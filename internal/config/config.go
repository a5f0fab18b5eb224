// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// Defaults used when the environment leaves a setting unset.
const (
	DefaultSeed   = 42
	DefaultDBPath = "data/phoenicia.db"
)

// Config holds the application configuration.
type Config struct {
	Seed      int64      // random seed for voyages, restocks and the sea
	DBPath    string     // SQLite save file
	WorldPath string     // optional YAML world; empty means the built-in one
	LogLevel  slog.Level // minimum level for the default logger
}

// Load reads PHOENICIA_SEED, PHOENICIA_DB, PHOENICIA_WORLD and
// PHOENICIA_LOG_LEVEL. Unset variables take their defaults; malformed ones
// are an error.
func Load() (*Config, error) {
	cfg := &Config{
		Seed:      DefaultSeed,
		DBPath:    envOrDefault("PHOENICIA_DB", DefaultDBPath),
		WorldPath: os.Getenv("PHOENICIA_WORLD"),
		LogLevel:  slog.LevelInfo,
	}

	if v := os.Getenv("PHOENICIA_SEED"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("PHOENICIA_SEED: %w", err)
		}
		cfg.Seed = seed
	}

	if v := os.Getenv("PHOENICIA_LOG_LEVEL"); v != "" {
		level, err := ParseLevel(v)
		if err != nil {
			return nil, err
		}
		cfg.LogLevel = level
	}

	return cfg, nil
}

// ParseLevel accepts debug, info, warn or error in any case.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("log level %q: %w", s, err)
	}
	return level, nil
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
