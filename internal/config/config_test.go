package config

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, uint64(0), cfg.Seed)
	assert.Equal(t, ".", cfg.Scenario)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("QUESTLINE_ADDR", "127.0.0.1:9000")
	t.Setenv("QUESTLINE_LOG_LEVEL", "debug")
	t.Setenv("QUESTLINE_SEED", "42")
	t.Setenv("QUESTLINE_SCENARIO", "quests/tavern.yaml")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Config{
		Addr:     "127.0.0.1:9000",
		LogLevel: "debug",
		Seed:     42,
		Scenario: "quests/tavern.yaml",
	}, cfg)

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoad_Error(t *testing.T) {
	t.Setenv("QUESTLINE_SEED", "not-a-number")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env:")
}

func TestConfig_Level(t *testing.T) {
	_, err := Config{LogLevel: "loud"}.Level()
	assert.Error(t, err)

	level, err := Config{LogLevel: " ERROR "}.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelError, level)
}
