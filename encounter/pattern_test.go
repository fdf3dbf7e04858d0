package encounter

import (
	"math"
	"testing"

	"github.com/milk9111/encounter/common"
)

func TestSafeAngles(t *testing.T) {
	cases := []struct {
		name      string
		count     int
		offset    float64
		bearing   float64
		halfWidth float64
		want      int
	}{
		{"no_arc", 12, 0, 0, 0, 12},
		{"lane_at_zero", 12, 0, 0, common.Radians(45), 9},
		{"lane_across_wrap", 12, 0, math.Pi, common.Radians(45), 9},
		{"offset_lane", 8, common.Radians(22.5), math.Pi / 2, common.Radians(30), 6},
		{"empty", 0, 0, 0, 0, 0},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := SafeAngles(c.count, c.offset, c.bearing, c.halfWidth)
			if len(got) != c.want {
				t.Fatalf("expected %d angles, got %d: %v", c.want, len(got), got)
			}
			for _, a := range got {
				if common.AngleDiff(a, c.bearing) < c.halfWidth {
					t.Fatalf("angle %v inside the safe arc around %v", a, c.bearing)
				}
			}
		})
	}
}

func TestFanAngles(t *testing.T) {
	got := FanAngles(5, 1, 1)
	if len(got) != 5 || !near(got[0], 0.5) || !near(got[2], 1) || !near(got[4], 1.5) {
		t.Fatalf("unexpected fan %v", got)
	}
	single := FanAngles(1, 2, 1)
	if len(single) != 1 || single[0] != 2 {
		t.Fatalf("single shot should fly straight, got %v", single)
	}
}

func TestPatternTiming(t *testing.T) {
	cases := []struct {
		name       string
		p          Pattern
		scale      float64
		wantWindup int
		wantExec   int
	}{
		{"single", Pattern{Windup: 20, Waves: 1, CommitTick: 1}, 1, 20, 2},
		{"waves_with_linger", Pattern{Windup: 20, Waves: 3, WaveDelay: 10, Execute: 10, CommitTick: 1}, 1, 20, 32},
		{"scaled", Pattern{Windup: 20, Waves: 1, CommitTick: 1}, 0.75, 15, 2},
		{"scale_floor_past_commit", Pattern{Windup: 4, Waves: 1, CommitTick: 3}, 0.1, 4, 2},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.p.windupFor(c.scale); got != c.wantWindup {
				t.Fatalf("windup: expected %d, got %d", c.wantWindup, got)
			}
			if got := c.p.executeLength(); got != c.wantExec {
				t.Fatalf("execute: expected %d, got %d", c.wantExec, got)
			}
		})
	}
}

func TestPatternKindsSpawn(t *testing.T) {
	cases := []struct {
		name    string
		pattern Pattern
		check   func(t *testing.T, rec *recorder)
	}{
		{
			name:    "radial_burst",
			pattern: Pattern{ID: "ring", Kind: PatternRadialBurst, Windup: 10, Waves: 2, WaveDelay: 5, Spawn: Spawn{Count: 12, Speed: 6, SafeArc: 40}},
			check: func(t *testing.T, rec *recorder) {
				if got := rec.kinds("bullet"); got != 18 {
					t.Fatalf("expected 2 waves of 9, got %d", got)
				}
			},
		},
		{
			name:    "aimed_volley",
			pattern: Pattern{ID: "fan", Kind: PatternAimedVolley, Windup: 10, Spawn: Spawn{Count: 5, Speed: 9, Spread: 40}},
			check: func(t *testing.T, rec *recorder) {
				if got := rec.kinds("bullet"); got != 5 {
					t.Fatalf("expected 5 bullets, got %d", got)
				}
			},
		},
		{
			name:    "charge",
			pattern: Pattern{ID: "dash", Kind: PatternCharge, Windup: 10, Execute: 20, Spawn: Spawn{DashSpeed: 30}},
			check: func(t *testing.T, rec *recorder) {
				if got := rec.kinds("trail"); got != 1 {
					t.Fatalf("expected a single trail, got %d", got)
				}
			},
		},
		{
			name:    "slam",
			pattern: Pattern{ID: "slam", Kind: PatternSlam, Windup: 10, Spawn: Spawn{Count: 8, Speed: 5, LeadTime: 10}},
			check: func(t *testing.T, rec *recorder) {
				if got := rec.kinds("bullet"); got != 8 {
					t.Fatalf("expected 8 shards, got %d", got)
				}
				if rec.count(CueFire, "slam:impact") != 1 {
					t.Fatalf("expected an impact cue")
				}
			},
		},
		{
			name:    "beam_sweep",
			pattern: Pattern{ID: "beam", Kind: PatternBeamSweep, Windup: 10, Spawn: Spawn{Sweep: 90, Lifetime: 60, Damage: 20}},
			check: func(t *testing.T, rec *recorder) {
				if got := rec.kinds("beam"); got != 1 {
					t.Fatalf("expected one beam, got %d", got)
				}
				beam := rec.projectiles[0]
				if !near(beam.AngularVelocity*60, common.Radians(90)) {
					t.Fatalf("beam sweeps %v over its lifetime", beam.AngularVelocity*60)
				}
			},
		},
		{
			name:    "minion_barrage",
			pattern: Pattern{ID: "command", Kind: PatternMinionBarrage, Windup: 10},
			check: func(t *testing.T, rec *recorder) {
				if len(rec.projectiles) != 0 {
					t.Fatalf("barrage leader should not shoot")
				}
				if rec.count(CueCommand, "command") != 1 {
					t.Fatalf("expected a command cue")
				}
			},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			e, _, _, rec := hovering(singlePattern(c.pattern))
			if !advanceUntil(e, 200, func() bool { return e.State().Attacks == 1 && e.Tag() == StateIdle }) {
				t.Fatalf("attack never finished, stuck in %s", e.Tag())
			}
			c.check(t, rec)
			for _, tg := range rec.telegraphs {
				if tg.Progress < 0 || tg.Progress >= 1 {
					t.Fatalf("telegraph progress %v out of range", tg.Progress)
				}
			}
		})
	}
}

func TestLiveSafeArcTracksTarget(t *testing.T) {
	p := Pattern{ID: "ring", Kind: PatternRadialBurst, Windup: 10, Spawn: Spawn{Count: 12, Speed: 6, SafeArc: 40, SafeArcMode: SafeArcLive}}
	e, body, targets, rec := hovering(singlePattern(p))
	advanceUntil(e, 50, func() bool { return e.Tag() == StateExecute })
	targets.target.Position = body.pos.Add(body.pos.Sub(targets.target.Position))
	advanceUntil(e, 50, func() bool { return e.Tag() == StateIdle })

	live := common.Direction(targets.target.Position.Sub(body.pos)).ToAngle()
	for _, pr := range rec.projectiles {
		if common.AngleDiff(pr.Angle, live) < common.Radians(40) {
			t.Fatalf("live lane should face the moved target: angle %v bearing %v", pr.Angle, live)
		}
	}
	if len(rec.projectiles) != 9 {
		t.Fatalf("expected 9 projectiles, got %d", len(rec.projectiles))
	}
}
