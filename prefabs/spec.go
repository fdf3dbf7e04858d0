package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/milk9111/encounter/encounter"
	"github.com/milk9111/encounter/script"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// LoadBoss reads bosses/<name>.yaml, compiles its weight scripts and
// validates the result. Callers release the scripts with CloseBoss.
func LoadBoss(name string) (*encounter.Definition, error) {
	file := bossPath(name)
	def, err := LoadSpec[encounter.Definition](file)
	if err != nil {
		return nil, err
	}
	if err := compileScripts(&def); err != nil {
		CloseBoss(&def)
		return nil, fmt.Errorf("prefabs: %s: %w", file, err)
	}
	def.ApplyDefaults()
	if err := def.Validate(); err != nil {
		CloseBoss(&def)
		return nil, fmt.Errorf("prefabs: %s: %w", file, err)
	}
	return &def, nil
}

func compileScripts(def *encounter.Definition) error {
	for i := range def.Moods {
		m := &def.Moods[i]
		if strings.TrimSpace(m.WeightScript) == "" {
			continue
		}
		src, err := LoadScript(m.WeightScript)
		if err != nil {
			return fmt.Errorf("mood %q: %w", m.Name, err)
		}
		s, err := script.Compile(m.WeightScript, src)
		if err != nil {
			return fmt.Errorf("mood %q: %w", m.Name, err)
		}
		m.Script = s
	}
	return nil
}

// CloseBoss releases the interpreters held by a definition's moods.
func CloseBoss(def *encounter.Definition) {
	if def == nil {
		return
	}
	for i := range def.Moods {
		if c, ok := def.Moods[i].Script.(interface{ Close() }); ok {
			c.Close()
		}
		def.Moods[i].Script = nil
	}
}

// PaletteSpec maps projectile and telegraph visual tags to colors for the
// sandbox viewer.
type PaletteSpec struct {
	Background *YAMLColor            `yaml:"background"`
	Boss       *YAMLColor            `yaml:"boss"`
	Minion     *YAMLColor            `yaml:"minion"`
	Player     *YAMLColor            `yaml:"player"`
	Telegraph  *YAMLColor            `yaml:"telegraph"`
	Default    *YAMLColor            `yaml:"default"`
	Visuals    map[string]*YAMLColor `yaml:"visuals"`
}

func LoadPalette() (*PaletteSpec, error) {
	spec, err := LoadSpec[PaletteSpec]("palette.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

// Visual returns the color for a visual tag, falling back to the default.
func (p *PaletteSpec) Visual(tag string) color.Color {
	if p == nil {
		return color.White
	}
	if c, ok := p.Visuals[tag]; ok && c != nil {
		return c.Color
	}
	if p.Default != nil {
		return p.Default.Color
	}
	return color.White
}

// YAMLColor decodes "#rrggbb" or "#rrggbbaa".
type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}
	parsed, err := parseHexColor(value.Value)
	if err != nil {
		return err
	}
	c.Color = parsed
	return nil
}

func parseHexColor(raw string) (color.NRGBA, error) {
	s := strings.TrimPrefix(strings.TrimSpace(raw), "#")
	if len(s) != 6 && len(s) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid color format: %s", raw)
	}
	if len(s) == 6 {
		s += "ff"
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %s: %w", raw, err)
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}
