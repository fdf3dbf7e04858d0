package encounter

import (
	"fmt"

	"go.uber.org/multierr"
)

// Definition is the static description of a boss. It is shared by every
// encounter built from it and never mutated at runtime.
type Definition struct {
	Name          string  `yaml:"name"`
	DisplayName   string  `yaml:"display_name"`
	MaxHealth     int     `yaml:"max_health"`
	Defense       int     `yaml:"defense"`
	ContactDamage int     `yaml:"contact_damage"`
	MoveSpeed     float64 `yaml:"move_speed"`

	Guard     GuardSpec         `yaml:"guard"`
	Death     DeathSpec         `yaml:"death"`
	FakeDeath FakeDeathSpec     `yaml:"fake_death"`
	Moods     []Mood            `yaml:"moods"`
	Patterns  []Pattern         `yaml:"patterns"`
	Minion    *MinionDefinition `yaml:"minion"`

	patterns map[string]*Pattern
	prepared bool
	// minionOf is set on the reduced definition a minion runs.
	minionOf  *MinionDefinition
	minionDef *Definition
}

type GuardSpec struct {
	TeleportCeiling  float64 `yaml:"teleport_ceiling"`
	TeleportDistance float64 `yaml:"teleport_distance"`
	EnrageDistance   float64 `yaml:"enrage_distance"`
	EnrageAfter      int     `yaml:"enrage_after"`
	CalmAfter        int     `yaml:"calm_after"`
	EnrageSpeed      float64 `yaml:"enrage_speed"`
	EnrageFireEvery  int     `yaml:"enrage_fire_every"`
	EnrageShot       Spawn   `yaml:"enrage_shot"`
	DespawnAfter     int     `yaml:"despawn_after"`
	DriftSpeed       float64 `yaml:"drift_speed"`
}

// DeathSpec is the scripted finale. Duration 0 removes the encounter on the
// lethal hit without a timeline.
type DeathSpec struct {
	Duration int          `yaml:"duration"`
	Stages   []DeathStage `yaml:"stages"`
}

type DeathStage struct {
	At     int     `yaml:"at"`
	Name   string  `yaml:"name"`
	Shake  float64 `yaml:"shake"`
	Frames int     `yaml:"frames"`
	Flash  bool    `yaml:"flash"`
}

type FakeDeathSpec struct {
	Enabled           bool         `yaml:"enabled"`
	Duration          int          `yaml:"duration"`
	Stages            []DeathStage `yaml:"stages"`
	RestoreFraction   float64      `yaml:"restore_fraction"`
	AwakeningMood     int          `yaml:"awakening_mood"`
	AwakeningDuration int          `yaml:"awakening_duration"`
}

// MinionDefinition describes the orbiting helpers a boss summons on its
// first tick.
type MinionDefinition struct {
	Name         string      `yaml:"name"`
	Count        int         `yaml:"count"`
	MaxHealth    int         `yaml:"max_health"`
	MoveSpeed    float64     `yaml:"move_speed"`
	Blend        float64     `yaml:"blend"`
	OrbitRadius  float64     `yaml:"orbit_radius"`
	OrbitSpeed   float64     `yaml:"orbit_speed"`
	IdleCooldown int         `yaml:"idle_cooldown"`
	Pool         []PoolEntry `yaml:"pool"`
	Patterns     []Pattern   `yaml:"patterns"`
	// SyncWith names parent attacks that make every minion fire its volley
	// on the parent's execute tick.
	SyncWith []string `yaml:"sync_with"`
	Volley   string   `yaml:"volley"`
}

// Pattern looks up a pattern by id.
func (d *Definition) Pattern(id string) (*Pattern, bool) {
	if d == nil {
		return nil, false
	}
	if d.patterns == nil {
		d.index()
	}
	p, ok := d.patterns[id]
	return p, ok
}

func (d *Definition) index() {
	d.patterns = make(map[string]*Pattern, len(d.Patterns))
	for i := range d.Patterns {
		d.patterns[d.Patterns[i].ID] = &d.Patterns[i]
	}
}

// ApplyDefaults fills zero values that have an obvious fallback.
func (d *Definition) ApplyDefaults() {
	if d.DisplayName == "" {
		d.DisplayName = d.Name
	}
	if d.MoveSpeed <= 0 {
		d.MoveSpeed = 8
	}
	g := &d.Guard
	if g.TeleportDistance <= 0 {
		g.TeleportDistance = 400
	}
	if g.EnrageSpeed <= 0 {
		g.EnrageSpeed = d.MoveSpeed * 2
	}
	if g.EnrageFireEvery <= 0 {
		g.EnrageFireEvery = 15
	}
	if g.CalmAfter <= 0 {
		g.CalmAfter = 60
	}
	if g.DriftSpeed <= 0 {
		g.DriftSpeed = d.MoveSpeed / 2
	}
	for i := range d.Moods {
		d.Moods[i].applyDefaults()
		if d.Moods[i].Movement.Speed <= 0 {
			d.Moods[i].Movement.Speed = d.MoveSpeed
		}
	}
	for i := range d.Patterns {
		d.Patterns[i].applyDefaults()
	}
	if m := d.Minion; m != nil {
		if m.MoveSpeed <= 0 {
			m.MoveSpeed = d.MoveSpeed * 1.5
		}
		if m.Blend <= 0 {
			m.Blend = 0.15
		}
		if m.IdleCooldown <= 0 {
			m.IdleCooldown = 90
		}
		if m.MaxHealth <= 0 {
			m.MaxHealth = max(1, d.MaxHealth/20)
		}
		for i := range m.Patterns {
			m.Patterns[i].applyDefaults()
		}
	}
	d.minionDef = nil
	d.index()
	d.prepared = true
}

// Validate reports every problem with the definition at once.
func (d *Definition) Validate() error {
	if d == nil {
		return fmt.Errorf("encounter: nil definition")
	}
	var err error
	if d.Name == "" {
		err = multierr.Append(err, fmt.Errorf("name is required"))
	}
	if d.MaxHealth <= 0 {
		err = multierr.Append(err, fmt.Errorf("max_health must be positive, got %d", d.MaxHealth))
	}
	if len(d.Moods) == 0 {
		err = multierr.Append(err, fmt.Errorf("at least one mood is required"))
	}
	if len(d.Moods) > 64 {
		err = multierr.Append(err, fmt.Errorf("at most 64 moods are supported, got %d", len(d.Moods)))
	}

	ids := make(map[string]bool, len(d.Patterns))
	for i := range d.Patterns {
		p := &d.Patterns[i]
		if ids[p.ID] {
			err = multierr.Append(err, fmt.Errorf("pattern %q defined twice", p.ID))
		}
		ids[p.ID] = true
		err = multierr.Append(err, p.validate())
	}

	prev := 2.0
	for i, m := range d.Moods {
		if m.AwakeningOnly {
			prev = 2.0
		} else {
			if m.Threshold <= 0 || m.Threshold > 1 {
				err = multierr.Append(err, fmt.Errorf("mood %q: threshold must be in (0, 1], got %v", m.Name, m.Threshold))
			}
			if m.Threshold >= prev {
				err = multierr.Append(err, fmt.Errorf("mood %q: thresholds must strictly decrease (%v after %v)", m.Name, m.Threshold, prev))
			}
			prev = m.Threshold
		}
		if i == 0 && m.AwakeningOnly {
			err = multierr.Append(err, fmt.Errorf("mood %q: the first mood cannot be awakening-only", m.Name))
		}
		if len(m.Pool) == 0 {
			err = multierr.Append(err, fmt.Errorf("mood %q: empty attack pool", m.Name))
		}
		for _, entry := range m.Pool {
			if !ids[entry.ID] {
				err = multierr.Append(err, fmt.Errorf("mood %q: unknown pattern %q", m.Name, entry.ID))
			}
			if entry.Weight < 0 {
				err = multierr.Append(err, fmt.Errorf("mood %q: negative weight for %q", m.Name, entry.ID))
			}
		}
	}

	if d.FakeDeath.Enabled {
		fd := d.FakeDeath
		if fd.AwakeningMood <= 0 || fd.AwakeningMood >= len(d.Moods) {
			err = multierr.Append(err, fmt.Errorf("fake_death: awakening_mood %d out of range", fd.AwakeningMood))
		} else if !d.Moods[fd.AwakeningMood].AwakeningOnly {
			err = multierr.Append(err, fmt.Errorf("fake_death: mood %q must be awakening_only", d.Moods[fd.AwakeningMood].Name))
		}
		if fd.RestoreFraction <= 0 || fd.RestoreFraction > 1 {
			err = multierr.Append(err, fmt.Errorf("fake_death: restore_fraction must be in (0, 1]"))
		}
	}
	for _, m := range d.Moods {
		if m.AwakeningOnly && !d.FakeDeath.Enabled {
			err = multierr.Append(err, fmt.Errorf("mood %q is awakening_only but fake_death is disabled", m.Name))
		}
	}

	if d.Guard.TeleportCeiling > 0 && d.Guard.TeleportDistance >= d.Guard.TeleportCeiling {
		err = multierr.Append(err, fmt.Errorf("guard: teleport_distance %v must be below teleport_ceiling %v", d.Guard.TeleportDistance, d.Guard.TeleportCeiling))
	}
	if d.Guard.TeleportCeiling > 0 && d.Guard.EnrageDistance > d.Guard.TeleportCeiling {
		err = multierr.Append(err, fmt.Errorf("guard: enrage_distance %v exceeds teleport_ceiling %v", d.Guard.EnrageDistance, d.Guard.TeleportCeiling))
	}

	if m := d.Minion; m != nil {
		minionIDs := make(map[string]bool, len(m.Patterns))
		for i := range m.Patterns {
			minionIDs[m.Patterns[i].ID] = true
			err = multierr.Append(err, m.Patterns[i].validate())
		}
		for _, entry := range m.Pool {
			if !minionIDs[entry.ID] {
				err = multierr.Append(err, fmt.Errorf("minion: unknown pattern %q", entry.ID))
			}
		}
		if m.Volley != "" && !minionIDs[m.Volley] {
			err = multierr.Append(err, fmt.Errorf("minion: unknown volley pattern %q", m.Volley))
		}
		if m.Count < 0 || m.Count > 3 {
			err = multierr.Append(err, fmt.Errorf("minion: count must be between 0 and 3, got %d", m.Count))
		}
	}

	if err != nil {
		return fmt.Errorf("encounter: definition %q: %w", d.Name, err)
	}
	return nil
}

// syncs reports whether minions answer the parent attack id with a volley.
func (d *Definition) syncs(id string) bool {
	if d.Minion == nil {
		return false
	}
	for _, s := range d.Minion.SyncWith {
		if s == id {
			return true
		}
	}
	return false
}

// minionDefinition builds the reduced definition a minion runs. It is built
// once per definition and shared by every minion.
func (d *Definition) minionDefinition() *Definition {
	m := d.Minion
	if m == nil {
		return nil
	}
	if d.minionDef != nil {
		return d.minionDef
	}
	name := m.Name
	if name == "" {
		name = d.Name + "_minion"
	}
	cooldown := m.IdleCooldown
	md := &Definition{
		Name:      name,
		MaxHealth: m.MaxHealth,
		MoveSpeed: m.MoveSpeed,
		Moods: []Mood{{
			Name:         "orbit",
			Threshold:    1,
			IdleCooldown: cooldown,
			Movement:     Movement{Speed: m.MoveSpeed, Blend: m.Blend, OrbitRadius: m.OrbitRadius, OrbitSpeed: m.OrbitSpeed},
			WindupScale:  1,
			DensityScale: 1,
			Pool:         m.Pool,
		}},
		Patterns: m.Patterns,
		minionOf: m,
	}
	md.ApplyDefaults()
	d.minionDef = md
	return md
}
