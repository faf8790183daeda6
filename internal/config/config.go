package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Engine    EngineConfig    `toml:"engine"`
	Collision CollisionConfig `toml:"collision"`
	Resources ResourcesConfig `toml:"resources"`
	Scripting ScriptingConfig `toml:"scripting"`
	Scene     SceneConfig     `toml:"scene"`
	Logging   LoggingConfig   `toml:"logging"`
}

type EngineConfig struct {
	TickRate            time.Duration `toml:"tick_rate"`
	MinRecycledEntities int           `toml:"min_recycled_entities"`
	ReportInterval      int           `toml:"report_interval"` // frames between stats logs, 0 disables
}

type CollisionConfig struct {
	CellSize   float32 `toml:"cell_size"`
	Workers    int     `toml:"workers"`
	Hash       string  `toml:"hash"` // "fnv" or "xxhash"
	EmitEvents bool    `toml:"emit_events"`
}

type ResourcesConfig struct {
	Workers int    `toml:"workers"` // max concurrent loads
	Root    string `toml:"root"`
}

type ScriptingConfig struct {
	Dir string `toml:"dir"` // empty disables Lua callbacks
}

type SceneConfig struct {
	File           string  `toml:"file"`
	RandomEntities int     `toml:"random_entities"`
	Extent         float32 `toml:"extent"`
	Radius         float32 `toml:"radius"`
	Seed           int64   `toml:"seed"`
	ChurnPerFrame  int     `toml:"churn_per_frame"` // spheres spawned per frame, 0 disables
	ChurnLifetime  int     `toml:"churn_lifetime"`  // frames each churn sphere lives
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

// Load reads path on top of the built-in defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault behaves like Load but returns the defaults when path does
// not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return defaults(), nil
	}
	return cfg, err
}

func Default() *Config { return defaults() }

func (c *Config) validate() error {
	switch {
	case c.Engine.TickRate <= 0:
		return fmt.Errorf("engine.tick_rate must be positive, got %s", c.Engine.TickRate)
	case c.Engine.MinRecycledEntities < 0:
		return fmt.Errorf("engine.min_recycled_entities must not be negative, got %d", c.Engine.MinRecycledEntities)
	case c.Collision.CellSize <= 0:
		return fmt.Errorf("collision.cell_size must be positive, got %g", c.Collision.CellSize)
	case c.Scene.RandomEntities < 0:
		return fmt.Errorf("scene.random_entities must not be negative, got %d", c.Scene.RandomEntities)
	}
	return nil
}

func defaults() *Config {
	return &Config{
		Engine: EngineConfig{
			TickRate:            16 * time.Millisecond,
			MinRecycledEntities: 1000,
			ReportInterval:      300,
		},
		Collision: CollisionConfig{
			CellSize: 1.0,
			Workers:  1,
			Hash:     "fnv",
		},
		Resources: ResourcesConfig{
			Workers: 4,
			Root:    "assets",
		},
		Scene: SceneConfig{
			RandomEntities: 0,
			Extent:         50,
			Radius:         0.5,
			Seed:           1,
			ChurnLifetime:  60,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
