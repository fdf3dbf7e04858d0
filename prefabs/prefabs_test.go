package prefabs

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadEmbeddedBosses(t *testing.T) {
	names := BossNames()
	if len(names) < 2 {
		t.Fatalf("expected the embedded bosses, got %v", names)
	}
	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			def, err := LoadBoss(name)
			if err != nil {
				t.Fatal(err)
			}
			defer CloseBoss(def)
			if def.Name != name {
				t.Fatalf("file %s defines %q", name, def.Name)
			}
			for _, m := range def.Moods {
				if m.WeightScript != "" && m.Script == nil {
					t.Fatalf("mood %q script not compiled", m.Name)
				}
			}
		})
	}
}

func TestLoadBossScripts(t *testing.T) {
	def, err := LoadBoss("swan")
	if err != nil {
		t.Fatal(err)
	}
	defer CloseBoss(def)

	m := def.Moods[2]
	ids := make([]string, len(m.Pool))
	for i, e := range m.Pool {
		ids[i] = e.ID
	}
	w, err := m.Script.Weights(0.05, m.Name, ids)
	if err != nil {
		t.Fatal(err)
	}
	if w["moonbeam"] != 4 || w["plunge"] != 1 {
		t.Fatalf("unexpected weights %v", w)
	}
}

func TestLoadBossPaths(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"swan", "bosses/swan.yaml"},
		{"swan.yaml", "bosses/swan.yaml"},
		{"bosses/swan.yaml", "bosses/swan.yaml"},
		{"prefabs/bosses/swan.yaml", "bosses/swan.yaml"},
	}
	for _, c := range cases {
		if got := bossPath(c.in); got != c.want {
			t.Fatalf("%s: expected %s, got %s", c.in, c.want, got)
		}
	}
}

func withDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	old := Dir
	Dir = dir
	t.Cleanup(func() { Dir = old })
	for _, sub := range []string{"bosses", "scripts"} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

const overrideBoss = `
name: swan
max_health: 50
moods:
  - name: only
    threshold: 1
    pool: [{ id: ring }]
patterns:
  - { id: ring, kind: radial_burst, windup: 10, spawn: { count: 4, speed: 3 } }
`

func TestDiskOverridesEmbedded(t *testing.T) {
	dir := withDir(t)
	if err := os.WriteFile(filepath.Join(dir, "bosses", "swan.yaml"), []byte(overrideBoss), 0o644); err != nil {
		t.Fatal(err)
	}
	def, err := LoadBoss("swan")
	if err != nil {
		t.Fatal(err)
	}
	if def.MaxHealth != 50 || len(def.Moods) != 1 {
		t.Fatalf("disk copy ignored: %+v", def)
	}
}

func TestLoadBossErrors(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"missing", "", "load"},
		{"bad_yaml", "name: [", "unmarshal"},
		{"invalid", "name: broken\nmax_health: 0\n", "max_health"},
		{"missing_script", strings.Replace(overrideBoss, "threshold: 1", "threshold: 1\n    weight_script: scripts/nope.lua", 1), "nope.lua"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			dir := withDir(t)
			if c.body != "" {
				if err := os.WriteFile(filepath.Join(dir, "bosses", c.name+".yaml"), []byte(c.body), 0o644); err != nil {
					t.Fatal(err)
				}
			}
			_, err := LoadBoss(c.name)
			if err == nil || !strings.Contains(err.Error(), c.want) {
				t.Fatalf("expected error mentioning %q, got %v", c.want, err)
			}
		})
	}
}

func TestPalette(t *testing.T) {
	p, err := LoadPalette()
	if err != nil {
		t.Fatal(err)
	}
	if got := p.Visual("ember"); got != (color.NRGBA{R: 0xff, G: 0x9a, B: 0x3c, A: 0xff}) {
		t.Fatalf("unexpected ember color %v", got)
	}
	if got := p.Visual("unknown"); got != p.Default.Color {
		t.Fatalf("expected default color, got %v", got)
	}
	var nilPalette *PaletteSpec
	if nilPalette.Visual("ember") != color.White {
		t.Fatalf("nil palette should draw white")
	}
}

func TestParseHexColor(t *testing.T) {
	cases := []struct {
		in      string
		want    color.NRGBA
		wantErr bool
	}{
		{"#ff8000", color.NRGBA{R: 0xff, G: 0x80, B: 0x00, A: 0xff}, false},
		{"10203040", color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 0x40}, false},
		{"#fff", color.NRGBA{}, true},
		{"#zzzzzz", color.NRGBA{}, true},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			got, err := parseHexColor(c.in)
			if (err != nil) != c.wantErr {
				t.Fatalf("unexpected error state: %v", err)
			}
			if !c.wantErr && got != c.want {
				t.Fatalf("expected %v, got %v", c.want, got)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		path string
		want Change
		ok   bool
	}{
		{filepath.Join("prefabs", "bosses", "swan.yaml"), Change{Path: filepath.Join("prefabs", "bosses", "swan.yaml"), Boss: "swan"}, true},
		{filepath.Join("prefabs", "palette.yml"), Change{Path: filepath.Join("prefabs", "palette.yml")}, true},
		{filepath.Join("prefabs", "scripts", "x.lua"), Change{Path: filepath.Join("prefabs", "scripts", "x.lua"), Script: true}, true},
		{filepath.Join("prefabs", "notes.txt"), Change{}, false},
	}
	for _, c := range cases {
		got, ok := classify(c.path)
		if ok != c.ok || got != c.want {
			t.Fatalf("%s: expected %+v %v, got %+v %v", c.path, c.want, c.ok, got, ok)
		}
	}
}

func TestWatcherReportsBossEdits(t *testing.T) {
	dir := withDir(t)
	w, err := NewWatcher()
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(dir, "bosses", "swan.yaml"), []byte(overrideBoss), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case c := <-w.Changes:
		if c.Boss != "swan" {
			t.Fatalf("expected swan change, got %+v", c)
		}
	case err := <-w.Errors:
		t.Fatal(err)
	case <-time.After(5 * time.Second):
		t.Fatalf("no change reported")
	}
}
