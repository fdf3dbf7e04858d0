package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	// PrefabDir overrides embedded prefabs with files on disk.
	PrefabDir string `toml:"prefab_dir"`

	Sim     SimConfig     `toml:"sim"`
	Viewer  ViewerConfig  `toml:"viewer"`
	Logging LoggingConfig `toml:"logging"`
	Save    SaveConfig    `toml:"save"`
}

// SimConfig drives the headless simulator.
type SimConfig struct {
	Boss          string        `toml:"boss"`
	Ticks         int           `toml:"ticks"`
	Seed          int64         `toml:"seed"`
	TickRate      time.Duration `toml:"tick_rate"` // 0 runs as fast as possible
	Authoritative bool          `toml:"authoritative"`
	Target        TargetConfig  `toml:"target"`
	// DamageEvery applies Damage to the boss every N ticks.
	DamageEvery int `toml:"damage_every"`
	Damage      int `toml:"damage"`
	// SnapshotEvery saves a snapshot every N ticks (0 = only at the end).
	SnapshotEvery int `toml:"snapshot_every"`
}

// TargetConfig is the scripted path the simulated player follows.
type TargetConfig struct {
	Path   string  `toml:"path"` // "circle", "strafe" or "still"
	Radius float64 `toml:"radius"`
	Speed  float64 `toml:"speed"`
	// FleeAt makes the target run away from the arena at this tick, 0 = never.
	FleeAt int `toml:"flee_at"`
	// DieAt marks the target dead at this tick, 0 = never.
	DieAt int `toml:"die_at"`
}

type ViewerConfig struct {
	Width      int     `toml:"width"`
	Height     int     `toml:"height"`
	Boss       string  `toml:"boss"`
	HotReload  bool    `toml:"hot_reload"`
	PlayerHP   int     `toml:"player_hp"`
	PlayerMove float64 `toml:"player_move"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

type SaveConfig struct {
	AppName string `toml:"app_name"`
	Slot    string `toml:"slot"`
}

// Load reads a TOML file over the defaults. An empty path returns the
// defaults.
func Load(path string) (*Config, error) {
	cfg := defaults()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Sim.Target.Path {
	case "circle", "strafe", "still":
	default:
		return fmt.Errorf("sim.target.path %q must be circle, strafe or still", c.Sim.Target.Path)
	}
	if c.Sim.Ticks < 0 {
		return fmt.Errorf("sim.ticks must not be negative")
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format %q must be json or console", c.Logging.Format)
	}
	return nil
}

func defaults() *Config {
	return &Config{
		PrefabDir: "prefabs",
		Sim: SimConfig{
			Boss:          "swan",
			Ticks:         3600,
			Seed:          1,
			Authoritative: true,
			Target: TargetConfig{
				Path:   "circle",
				Radius: 260,
				Speed:  0.01,
			},
			DamageEvery: 20,
			Damage:      30,
		},
		Viewer: ViewerConfig{
			Width:      1280,
			Height:     720,
			Boss:       "swan",
			HotReload:  true,
			PlayerHP:   100,
			PlayerMove: 5,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Save: SaveConfig{
			AppName: "encounter_sandbox",
			Slot:    "latest",
		},
	}
}
