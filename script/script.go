// Package script compiles mood weight scripts. A weight script re-derives
// attack pool weights every time a boss selects an attack.
package script

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/milk9111/encounter/encounter"
)

// Script is a compiled weight script. Close releases the interpreter.
type Script interface {
	encounter.WeightScript
	Close()
}

// Compile picks the interpreter from the file extension of name.
func Compile(name string, src []byte) (Script, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".tengo":
		return compileTengo(name, src)
	case ".lua":
		return compileLua(name, src)
	default:
		return nil, fmt.Errorf("script: %s: unsupported script type", name)
	}
}

// normalize keeps the weights for known ids and rejects negative ones.
func normalize(name string, raw map[string]float64, ids []string) (map[string]float64, error) {
	out := make(map[string]float64, len(ids))
	for _, id := range ids {
		w, ok := raw[id]
		if !ok {
			continue
		}
		if w < 0 {
			return nil, fmt.Errorf("script: %s: negative weight %v for %q", name, w, id)
		}
		out[id] = w
	}
	return out, nil
}
