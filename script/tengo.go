package script

import (
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

// tengoScript exposes health_fraction, mood and patterns as globals and reads
// back the global map weights.
type tengoScript struct {
	name     string
	compiled *tengo.Compiled
}

func compileTengo(name string, src []byte) (Script, error) {
	s := tengo.NewScript(src)
	_ = s.Add("health_fraction", 1.0)
	_ = s.Add("mood", "")
	_ = s.Add("patterns", []interface{}{})
	s.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := s.Compile()
	if err != nil {
		return nil, fmt.Errorf("script: compile %s: %w", name, err)
	}
	return &tengoScript{name: name, compiled: compiled}, nil
}

func (s *tengoScript) Weights(fraction float64, mood string, ids []string) (map[string]float64, error) {
	patterns := make([]interface{}, len(ids))
	for i, id := range ids {
		patterns[i] = id
	}
	if err := s.compiled.Set("health_fraction", fraction); err != nil {
		return nil, err
	}
	if err := s.compiled.Set("mood", mood); err != nil {
		return nil, err
	}
	if err := s.compiled.Set("patterns", patterns); err != nil {
		return nil, err
	}
	if err := s.compiled.Run(); err != nil {
		return nil, fmt.Errorf("script: run %s: %w", s.name, err)
	}
	if !s.compiled.IsDefined("weights") {
		return nil, fmt.Errorf("script: %s does not define weights", s.name)
	}

	raw := map[string]float64{}
	for id, v := range s.compiled.Get("weights").Map() {
		switch n := v.(type) {
		case int64:
			raw[id] = float64(n)
		case float64:
			raw[id] = n
		default:
			return nil, fmt.Errorf("script: %s: weight for %q is %T", s.name, id, v)
		}
	}
	return normalize(s.name, raw, ids)
}

func (s *tengoScript) Close() {}
