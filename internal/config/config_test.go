package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "engine.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[engine]
tick_rate = "20ms"

[collision]
cell_size = 2.5
workers = 4
hash = "xxhash"
emit_events = true

[scene]
random_entities = 250
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 20*time.Millisecond, cfg.Engine.TickRate)
	require.Equal(t, 1000, cfg.Engine.MinRecycledEntities)
	require.Equal(t, float32(2.5), cfg.Collision.CellSize)
	require.Equal(t, 4, cfg.Collision.Workers)
	require.Equal(t, "xxhash", cfg.Collision.Hash)
	require.True(t, cfg.Collision.EmitEvents)
	require.Equal(t, 250, cfg.Scene.RandomEntities)
	require.Equal(t, float32(0.5), cfg.Scene.Radius)
	require.Equal(t, "console", cfg.Logging.Format)
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
		require.ErrorIs(t, err, os.ErrNotExist)
	})
	t.Run("syntax", func(t *testing.T) {
		_, err := Load(writeConfig(t, "[collision\ncell_size = 1"))
		require.ErrorContains(t, err, "parse config")
	})
	t.Run("cell size", func(t *testing.T) {
		_, err := Load(writeConfig(t, "[collision]\ncell_size = 0.0\n"))
		require.ErrorContains(t, err, "collision.cell_size must be positive")
	})
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)

	_, err = LoadOrDefault(writeConfig(t, "[engine]\ntick_rate = \"-1s\"\n"))
	require.ErrorContains(t, err, "engine.tick_rate")
}
