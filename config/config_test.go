package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap/zapcore"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "encounter.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Sim.Boss != "swan" || cfg.Sim.Target.Path != "circle" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[sim]
boss = "matriarch"
ticks = 600
tick_rate = "16ms"

[sim.target]
path = "strafe"
speed = 3.5

[logging]
level = "debug"
format = "json"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Sim.Boss != "matriarch" || cfg.Sim.Ticks != 600 || cfg.Sim.TickRate != 16*time.Millisecond {
		t.Fatalf("sim not overridden: %+v", cfg.Sim)
	}
	if cfg.Sim.Target.Path != "strafe" || cfg.Sim.Target.Speed != 3.5 || cfg.Sim.Target.Radius != 260 {
		t.Fatalf("target should merge with defaults: %+v", cfg.Sim.Target)
	}
	if cfg.Save.AppName != "encounter_sandbox" {
		t.Fatalf("untouched sections keep defaults")
	}
}

func TestLoadErrors(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"syntax", "[sim\n", "parse config"},
		{"bad_path", "[sim.target]\npath = \"zigzag\"\n", "sim.target.path"},
		{"bad_format", "[logging]\nformat = \"xml\"\n", "logging.format"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, c.body))
			if err == nil || !strings.Contains(err.Error(), c.want) {
				t.Fatalf("expected error mentioning %q, got %v", c.want, err)
			}
		})
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatalf("expected error for a missing file")
	}
}

func TestNewLogger(t *testing.T) {
	cases := []struct {
		name string
		cfg  LoggingConfig
		want zapcore.Level
	}{
		{"console_debug", LoggingConfig{Level: "debug", Format: "console"}, zapcore.DebugLevel},
		{"json_warn", LoggingConfig{Level: "warn", Format: "json"}, zapcore.WarnLevel},
		{"unknown_level", LoggingConfig{Level: "loud", Format: "console"}, zapcore.InfoLevel},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			log, err := NewLogger(c.cfg)
			if err != nil {
				t.Fatal(err)
			}
			if !log.Core().Enabled(c.want) {
				t.Fatalf("level %s should be enabled", c.want)
			}
			if c.want > zapcore.DebugLevel && log.Core().Enabled(c.want-1) {
				t.Fatalf("level below %s should be disabled", c.want)
			}
		})
	}
}
