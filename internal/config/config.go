// Package config loads CLI defaults from the environment.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config holds the environment defaults for the questline commands.
// Flags override every field.
type Config struct {
	Addr     string `env:"QUESTLINE_ADDR" envDefault:":8080"`
	LogLevel string `env:"QUESTLINE_LOG_LEVEL" envDefault:"warn"`
	// Seed fixes the random choice between several available jumps. Zero keeps it random.
	Seed     uint64 `env:"QUESTLINE_SEED"`
	Scenario string `env:"QUESTLINE_SCENARIO" envDefault:"."`
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Level converts LogLevel into a slog.Level.
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return slog.LevelWarn, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}
