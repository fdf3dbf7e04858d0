package encounter

import (
	"fmt"
	"math"

	"github.com/milk9111/encounter/common"
)

type PatternKind string

const (
	PatternRadialBurst   PatternKind = "radial_burst"
	PatternAimedVolley   PatternKind = "aimed_volley"
	PatternCharge        PatternKind = "charge"
	PatternSlam          PatternKind = "slam"
	PatternBeamSweep     PatternKind = "beam_sweep"
	PatternMinionBarrage PatternKind = "minion_barrage"
)

// SafeArcMode picks which bearing a safe arc is centered on.
type SafeArcMode string

const (
	// SafeArcCommitted uses the bearing locked at the commit tick.
	SafeArcCommitted SafeArcMode = "committed"
	// SafeArcLive re-reads the bearing on the tick the wave fires.
	SafeArcLive SafeArcMode = "live"
)

// Pattern is an immutable attack definition: a windup followed by an execute
// phase that fires Waves waves WaveDelay ticks apart.
type Pattern struct {
	ID         string        `yaml:"id"`
	Kind       PatternKind   `yaml:"kind"`
	Windup     int           `yaml:"windup"`
	Execute    int           `yaml:"execute"`
	Waves      int           `yaml:"waves"`
	WaveDelay  int           `yaml:"wave_delay"`
	Recovery   int           `yaml:"recovery"`
	CommitTick int           `yaml:"commit_tick"`
	Reposition int           `yaml:"reposition"`
	Telegraph  TelegraphSpec `yaml:"telegraph"`
	Spawn      Spawn         `yaml:"spawn"`
}

type TelegraphSpec struct {
	Kind   TelegraphKind `yaml:"kind"`
	Radius float64       `yaml:"radius"`
	Width  float64       `yaml:"width"`
}

// Spawn is the spawn policy of a pattern. Angles are in degrees.
type Spawn struct {
	Count       int         `yaml:"count"`
	Speed       float64     `yaml:"speed"`
	Damage      int         `yaml:"damage"`
	Spread      float64     `yaml:"spread"`
	SafeArc     float64     `yaml:"safe_arc"`
	SafeArcMode SafeArcMode `yaml:"safe_arc_mode"`
	Rotate      float64     `yaml:"rotate"`
	Visual      string      `yaml:"visual"`
	Lifetime    int         `yaml:"lifetime"`
	LeadTime    float64     `yaml:"lead_time"`
	DashSpeed   float64     `yaml:"dash_speed"`
	Sweep       float64     `yaml:"sweep"`
}

func (p *Pattern) applyDefaults() {
	if p.Waves <= 0 {
		p.Waves = 1
	}
	if p.CommitTick <= 0 {
		p.CommitTick = 1
	}
	if p.Spawn.Count <= 0 {
		p.Spawn.Count = 1
	}
	if p.Spawn.Lifetime <= 0 {
		p.Spawn.Lifetime = 240
	}
	if p.Spawn.SafeArcMode == "" {
		p.Spawn.SafeArcMode = SafeArcCommitted
	}
	if p.Telegraph.Kind == "" {
		p.Telegraph.Kind = defaultTelegraph(p.Kind)
	}
}

func defaultTelegraph(kind PatternKind) TelegraphKind {
	switch kind {
	case PatternRadialBurst:
		return TelegraphSafeArc
	case PatternAimedVolley:
		return TelegraphCone
	case PatternCharge, PatternBeamSweep:
		return TelegraphLine
	case PatternSlam:
		return TelegraphPoint
	default:
		return TelegraphRing
	}
}

func (p *Pattern) validate() error {
	if p.ID == "" {
		return fmt.Errorf("pattern without id")
	}
	if _, ok := behaviors[p.Kind]; !ok {
		return fmt.Errorf("pattern %q: unknown kind %q", p.ID, p.Kind)
	}
	if p.Windup <= 0 {
		return fmt.Errorf("pattern %q: windup must be positive", p.ID)
	}
	if p.CommitTick >= p.Windup {
		return fmt.Errorf("pattern %q: commit_tick %d must fall inside the windup (%d)", p.ID, p.CommitTick, p.Windup)
	}
	if p.Waves > 1 && p.WaveDelay <= 0 {
		return fmt.Errorf("pattern %q: %d waves need a positive wave_delay", p.ID, p.Waves)
	}
	if p.Spawn.SafeArc < 0 || p.Spawn.SafeArc >= 180 {
		return fmt.Errorf("pattern %q: safe_arc must be in [0, 180)", p.ID)
	}
	if m := p.Spawn.SafeArcMode; m != "" && m != SafeArcCommitted && m != SafeArcLive {
		return fmt.Errorf("pattern %q: unknown safe_arc_mode %q", p.ID, p.Spawn.SafeArcMode)
	}
	return nil
}

// windupFor scales the windup by the mood's telegraph tuning, never below
// one tick past the commit tick.
func (p *Pattern) windupFor(scale float64) int {
	if scale <= 0 {
		scale = 1
	}
	w := int(math.Round(float64(p.Windup) * scale))
	if w <= p.CommitTick {
		w = p.CommitTick + 1
	}
	return w
}

// fireTick is the execute tick on which wave i fires.
func (p *Pattern) fireTick(wave int) int {
	return 1 + wave*p.WaveDelay
}

// executeLength is the number of execute ticks before the pattern leaves
// the execute state.
func (p *Pattern) executeLength() int {
	return p.fireTick(p.Waves-1) + 1 + p.Execute
}

// SafeAngles returns the firing angles (radians) of a radial burst of count
// projectiles starting at offset, skipping every angle closer than halfWidth
// to bearing.
func SafeAngles(count int, offset, bearing, halfWidth float64) []float64 {
	if count <= 0 {
		return nil
	}
	out := make([]float64, 0, count)
	step := 2 * math.Pi / float64(count)
	for i := 0; i < count; i++ {
		a := common.WrapAngle(offset + float64(i)*step)
		if halfWidth > 0 && common.AngleDiff(a, bearing) < halfWidth {
			continue
		}
		out = append(out, a)
	}
	return out
}

// FanAngles spreads count angles evenly across spread centered on center.
func FanAngles(count int, center, spread float64) []float64 {
	if count <= 0 {
		return nil
	}
	if count == 1 || spread == 0 {
		out := make([]float64, count)
		for i := range out {
			out[i] = center
		}
		return out
	}
	out := make([]float64, count)
	start := center - spread/2
	step := spread / float64(count-1)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}
