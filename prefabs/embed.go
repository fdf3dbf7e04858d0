package prefabs

import (
	"embed"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

//go:embed *.yaml bosses/*.yaml
var PrefabsFS embed.FS

//go:embed scripts/*
var ScriptsFS embed.FS

// Dir is the on-disk prefab directory. Files found there shadow the embedded
// copies so content can be edited without rebuilding.
var Dir = "prefabs"

func Load(name string) ([]byte, error) {
	clean := cleanPrefabPath(name)
	if data, err := os.ReadFile(diskPath(clean)); err == nil {
		return data, nil
	}
	return PrefabsFS.ReadFile(clean)
}

func LoadScript(name string) ([]byte, error) {
	clean := cleanScriptPath(name)
	if data, err := os.ReadFile(diskPath(clean)); err == nil {
		return data, nil
	}
	return ScriptsFS.ReadFile(clean)
}

func ModTime(name string) (time.Time, bool) {
	info, err := os.Stat(diskPath(cleanPrefabPath(name)))
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

// BossNames lists every boss definition, embedded or on disk.
func BossNames() []string {
	seen := map[string]bool{}
	add := func(paths []string) {
		for _, p := range paths {
			seen[strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))] = true
		}
	}
	if embedded, err := fs.Glob(PrefabsFS, "bosses/*.yaml"); err == nil {
		add(embedded)
	}
	if disk, err := filepath.Glob(filepath.Join(Dir, "bosses", "*.yaml")); err == nil {
		add(disk)
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func bossPath(name string) string {
	name = strings.TrimSuffix(cleanPrefabPath(name), ".yaml")
	name = strings.TrimPrefix(name, "bosses/")
	return "bosses/" + name + ".yaml"
}

func cleanPrefabPath(path string) string {
	s := filepath.ToSlash(path)
	if after, ok := strings.CutPrefix(s, "prefabs/"); ok {
		return after
	}
	return s
}

func cleanScriptPath(path string) string {
	s := cleanPrefabPath(path)
	s = strings.TrimPrefix(s, "scripts/")
	return "scripts/" + s
}

func diskPath(clean string) string {
	return filepath.Join(Dir, filepath.FromSlash(clean))
}
