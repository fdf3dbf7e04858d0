package encounter

import (
	"github.com/jakecoffman/cp"
)

type testBody struct {
	pos cp.Vector
	vel cp.Vector
}

func (b *testBody) Position() cp.Vector            { return b.pos }
func (b *testBody) SetPosition(pos cp.Vector)      { b.pos = pos }
func (b *testBody) Velocity() cp.Vector            { return b.vel }
func (b *testBody) SetVelocityVector(v cp.Vector) { b.vel = v }

// testTargets is a target that moves by vel every time step is called.
type testTargets struct {
	target Target
	ok     bool
}

func (p *testTargets) NearestTarget(cp.Vector) (Target, bool) {
	return p.target, p.ok
}

func (p *testTargets) step() {
	p.target.Position = p.target.Position.Add(p.target.Velocity)
}

func newTargets(pos, vel cp.Vector) *testTargets {
	return &testTargets{
		target: Target{ID: 1, Position: pos, Velocity: vel, Active: true},
		ok:     true,
	}
}

type recorder struct {
	projectiles []Projectile
	telegraphs  []Telegraph
	cues        []CueEvent
	removed     []RemoveReason
}

func (r *recorder) Spawn(p Projectile)     { r.projectiles = append(r.projectiles, p) }
func (r *recorder) Telegraph(t Telegraph) { r.telegraphs = append(r.telegraphs, t) }
func (r *recorder) Cue(c CueEvent)         { r.cues = append(r.cues, c) }

func (r *recorder) hooks(targets TargetProvider) Hooks {
	return Hooks{
		Targets:    targets,
		Spawner:    r,
		Telegraphs: r,
		Cues:       r,
		Remove: func(id ID, reason RemoveReason) {
			r.removed = append(r.removed, reason)
		},
	}
}

func (r *recorder) count(cue Cue, name string) int {
	n := 0
	for _, c := range r.cues {
		if c.Cue == cue && (name == "" || c.Name == name) {
			n++
		}
	}
	return n
}

func (r *recorder) kinds(kind string) int {
	n := 0
	for _, p := range r.projectiles {
		if p.Kind == kind {
			n++
		}
	}
	return n
}

func testDefinition() *Definition {
	return &Definition{
		Name:      "swan",
		MaxHealth: 1000,
		Defense:   0,
		MoveSpeed: 8,
		Guard: GuardSpec{
			TeleportCeiling:  1600,
			TeleportDistance: 400,
			EnrageDistance:   900,
			EnrageAfter:      30,
			CalmAfter:        20,
			EnrageFireEvery:  15,
			EnrageShot:       Spawn{Speed: 12, Damage: 10},
			DespawnAfter:     120,
		},
		Death: DeathSpec{
			Duration: 180,
			Stages: []DeathStage{
				{At: 0, Name: "buildup", Shake: 2},
				{At: 90, Name: "escalation", Shake: 6},
				{At: 170, Name: "flash", Flash: true},
			},
		},
		Moods: []Mood{
			{
				Name:         "graceful",
				Threshold:    1,
				IdleCooldown: 30,
				Pool:         []PoolEntry{{ID: "x"}, {ID: "y"}, {ID: "z"}},
				Announce:     Announce{Text: "The swan takes flight"},
			},
			{
				Name:         "tempest",
				Threshold:    0.6,
				IdleCooldown: 20,
				DensityScale: 1.5,
				Pool:         []PoolEntry{{ID: "x", Weight: 1}, {ID: "y", Weight: 2}, {ID: "z", Weight: 1}},
				Announce:     Announce{Text: "A tempest gathers", Shake: 4, Frames: 30},
			},
			{
				Name:         "dying_swan",
				Threshold:    0.3,
				IdleCooldown: 10,
				WindupScale:  0.75,
				Pool:         []PoolEntry{{ID: "x"}, {ID: "z"}},
				Announce:     Announce{Text: "The last dance", Shake: 8, Frames: 60},
			},
		},
		Patterns: []Pattern{
			{ID: "x", Kind: PatternRadialBurst, Windup: 20, Waves: 3, WaveDelay: 10, Execute: 10, Spawn: Spawn{Count: 12, Speed: 6, SafeArc: 40}},
			{ID: "y", Kind: PatternAimedVolley, Windup: 20, Spawn: Spawn{Count: 3, Speed: 10, Spread: 30, LeadTime: 10}},
			{ID: "z", Kind: PatternSlam, Windup: 20, Recovery: 15, Spawn: Spawn{Count: 8, Speed: 5, LeadTime: 20}},
		},
	}
}

// singlePattern returns a definition whose only attack is p.
func singlePattern(p Pattern) *Definition {
	return &Definition{
		Name:      "single",
		MaxHealth: 100,
		MoveSpeed: 8,
		Moods: []Mood{{
			Name:         "only",
			Threshold:    1,
			IdleCooldown: 1,
			Pool:         []PoolEntry{{ID: p.ID}},
		}},
		Patterns: []Pattern{p},
	}
}

// hovering places a boss above a stationary target.
func hovering(def *Definition, opts ...Option) (*Encounter, *testBody, *testTargets, *recorder) {
	body := &testBody{pos: cp.Vector{X: 0, Y: -300}}
	targets := newTargets(cp.Vector{}, cp.Vector{})
	rec := &recorder{}
	return New(def, body, rec.hooks(targets), opts...), body, targets, rec
}

func advanceUntil(e *Encounter, limit int, done func() bool) bool {
	for i := 0; i < limit; i++ {
		if done() {
			return true
		}
		e.Advance()
	}
	return done()
}
