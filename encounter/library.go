package encounter

import (
	"github.com/jakecoffman/cp"

	"github.com/milk9111/encounter/common"
)

// behavior is the per-kind logic of an attack. fire runs on each wave's
// fire tick; windup and execute, when set, replace the default movement.
type behavior struct {
	windup  func(e *Encounter, p *Pattern, t int)
	fire    func(e *Encounter, p *Pattern, wave int)
	execute func(e *Encounter, p *Pattern, t int)
}

var behaviors = map[PatternKind]behavior{
	PatternRadialBurst: {
		fire: fireRadialBurst,
	},
	PatternAimedVolley: {
		fire: fireAimedVolley,
	},
	PatternCharge: {
		windup:  chargeWindup,
		fire:    fireCharge,
		execute: chargeExecute,
	},
	PatternSlam: {
		windup:  slamWindup,
		fire:    fireSlam,
		execute: holdStill,
	},
	PatternBeamSweep: {
		fire:    fireBeam,
		execute: holdStill,
	},
	PatternMinionBarrage: {
		fire: fireMinionBarrage,
	},
}

func (e *Encounter) shoot(spawn Spawn, angle float64) {
	e.hooks.spawn(Projectile{
		Owner:    e.id,
		Kind:     "bullet",
		Position: e.body.Position(),
		Velocity: cp.ForAngle(angle).Mult(spawn.Speed),
		Angle:    angle,
		Damage:   spawn.Damage,
		Visual:   spawn.Visual,
		Lifetime: spawn.Lifetime,
	})
}

// fireRadialBurst rings the boss with projectiles, leaving a lane open around
// the bearing to the target.
func fireRadialBurst(e *Encounter, p *Pattern, wave int) {
	bearing := e.state.Commit.Bearing
	if p.Spawn.SafeArcMode == SafeArcLive {
		bearing = e.liveBearing()
	}
	offset := bearing + common.Radians(p.Spawn.Rotate)*float64(wave)
	for _, a := range SafeAngles(e.density(p), offset, bearing, common.Radians(p.Spawn.SafeArc)) {
		e.shoot(p.Spawn, a)
	}
}

func fireAimedVolley(e *Encounter, p *Pattern, wave int) {
	center := e.state.Commit.Bearing + common.Radians(p.Spawn.Rotate)*float64(wave)
	for _, a := range FanAngles(e.density(p), center, common.Radians(p.Spawn.Spread)) {
		e.shoot(p.Spawn, a)
	}
}

// chargeWindup backs off against the committed direction before the dash.
func chargeWindup(e *Encounter, p *Pattern, t int) {
	if !e.state.Commit.Locked {
		e.idleMove(0.6)
		return
	}
	blendVelocity(e.body, e.state.Commit.Dir.Mult(-e.mood().Movement.Speed*0.25), 0.2)
}

func fireCharge(e *Encounter, p *Pattern, wave int) {
	e.hooks.spawn(Projectile{
		Owner:    e.id,
		Kind:     "trail",
		Position: e.body.Position(),
		Angle:    e.state.Commit.Bearing,
		Damage:   max(p.Spawn.Damage, e.def.ContactDamage),
		Visual:   p.Spawn.Visual,
		Lifetime: p.Spawn.Lifetime,
	})
}

func chargeExecute(e *Encounter, p *Pattern, t int) {
	speed := p.Spawn.DashSpeed
	if speed <= 0 {
		speed = e.mood().Movement.Speed * 3
	}
	if t > p.fireTick(p.Waves-1) {
		decay(e.body, 0.85)
		return
	}
	blendVelocity(e.body, e.state.Commit.Dir.Mult(speed), 0.5)
}

// slamWindup flies toward the point predicted at the commit tick.
func slamWindup(e *Encounter, p *Pattern, t int) {
	if !e.state.Commit.Locked {
		e.idleMove(0.6)
		return
	}
	Steer(e.body, e.state.Commit.Point, e.mood().Movement.Speed*1.5, 0.3)
}

func fireSlam(e *Encounter, p *Pattern, wave int) {
	offset := common.Radians(p.Spawn.Rotate) * float64(wave)
	for _, a := range SafeAngles(e.density(p), offset, 0, 0) {
		e.shoot(p.Spawn, a)
	}
	e.hooks.cue(CueEvent{
		Owner:    e.id,
		Cue:      CueFire,
		Name:     p.ID + ":impact",
		Position: e.body.Position(),
		Shake:    p.Telegraph.Radius / 100,
		Frames:   10,
	})
}

func holdStill(e *Encounter, p *Pattern, t int) {
	decay(e.body, 0.8)
}

// fireBeam spawns a beam that sweeps across the committed bearing. Odd waves
// sweep back the other way.
func fireBeam(e *Encounter, p *Pattern, wave int) {
	sweep := common.Radians(p.Spawn.Sweep)
	if wave%2 == 1 {
		sweep = -sweep
	}
	lifetime := max(1, p.Spawn.Lifetime)
	e.hooks.spawn(Projectile{
		Owner:           e.id,
		Kind:            "beam",
		Position:        e.body.Position(),
		Angle:           e.state.Commit.Bearing - sweep/2,
		AngularVelocity: sweep / float64(lifetime),
		Damage:          p.Spawn.Damage,
		Visual:          p.Spawn.Visual,
		Lifetime:        lifetime,
	})
}

// fireMinionBarrage only signals; minions answer with their own volleys.
func fireMinionBarrage(e *Encounter, p *Pattern, wave int) {
	e.hooks.cue(CueEvent{
		Owner:    e.id,
		Cue:      CueCommand,
		Name:     p.ID,
		Position: e.body.Position(),
	})
}
