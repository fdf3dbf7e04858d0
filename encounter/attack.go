package encounter

import (
	"math"

	"go.uber.org/zap"

	"github.com/milk9111/encounter/common"
)

// pattern returns the active attack, or nil outside an attack.
func (e *Encounter) pattern() *Pattern {
	if e.state.AttackID == "" {
		return nil
	}
	p, _ := e.def.Pattern(e.state.AttackID)
	return p
}

func (e *Encounter) idle() {
	e.idleMove(1)
	m := e.mood()
	if e.state.Timer < m.IdleCooldown {
		return
	}
	id := e.selector.Pick(e.pool(m), e.state.LastAttackID)
	p, ok := e.def.Pattern(id)
	if !ok {
		if id != "" {
			e.log.Warn("selected unknown pattern", zap.String("encounter", e.def.Name), zap.String("pattern", id))
		}
		e.transition(StateIdle)
		return
	}
	e.state.LastAttackID = id
	e.state.Attacks++
	e.log.Debug("attack selected",
		zap.String("encounter", e.def.Name),
		zap.String("pattern", id),
		zap.String("mood", m.Name),
	)
	e.beginAttack(p)
}

func (e *Encounter) beginAttack(p *Pattern) {
	e.state.AttackID = p.ID
	e.state.SubWave = 0
	e.state.Commit = Commit{}
	if p.Reposition > 0 {
		e.transition(StateReposition)
		return
	}
	e.transition(StateWindup)
}

// endAttack clears the attack register and returns to Idle.
func (e *Encounter) endAttack() {
	e.state.AttackID = ""
	e.state.SubWave = 0
	e.state.Commit = Commit{}
	e.transition(StateIdle)
}

func (e *Encounter) reposition() {
	p := e.pattern()
	if p == nil {
		e.endAttack()
		return
	}
	t := e.state.Timer
	if t >= p.Reposition {
		e.transition(StateWindup)
		return
	}
	if t == 0 {
		e.pickAnchor()
	}
	mv := e.mood().Movement
	Steer(e.body, e.state.Anchor.To, repositionSpeed(mv, t, p.Reposition), 0.5)
}

func (e *Encounter) windup() {
	p := e.pattern()
	if p == nil {
		e.endAttack()
		return
	}
	t := e.state.Timer
	duration := p.windupFor(e.mood().WindupScale)
	if t >= duration {
		e.state.SubWave = 0
		e.transition(StateExecute)
		return
	}
	if t == 0 {
		e.emit(CueWindup, p.ID)
	}
	if t >= p.CommitTick && !e.state.Commit.Locked {
		e.commit(p)
	}

	b := behaviors[p.Kind]
	if b.windup != nil {
		b.windup(e, p, t)
	} else {
		e.idleMove(0.6)
	}
	e.hooks.telegraph(e.telegraphFor(p, t, duration))
}

// commit samples the aim once. Everything fired by this attack reads the
// locked values, never the live target.
func (e *Encounter) commit(p *Pattern) {
	pos := e.body.Position()
	aim := pos.Add(upward)
	if e.hasTarget {
		aim = e.target.Position
		if p.Spawn.LeadTime > 0 {
			aim = aim.Add(e.target.Velocity.Mult(p.Spawn.LeadTime))
		}
	}
	dir := common.Direction(aim.Sub(pos))
	if dir == zeroVector {
		dir = upward
	}
	e.state.Commit = Commit{
		Locked:  true,
		Dir:     dir,
		Point:   aim,
		Bearing: dir.ToAngle(),
	}
}

// liveBearing is the bearing to the target right now.
func (e *Encounter) liveBearing() float64 {
	if !e.hasTarget {
		return e.state.Commit.Bearing
	}
	dir := common.Direction(e.target.Position.Sub(e.body.Position()))
	if dir == zeroVector {
		return e.state.Commit.Bearing
	}
	return dir.ToAngle()
}

func (e *Encounter) telegraphFor(p *Pattern, t, duration int) Telegraph {
	bearing := e.liveBearing()
	if e.state.Commit.Locked {
		bearing = e.state.Commit.Bearing
	}
	tg := Telegraph{
		Owner:    e.id,
		Kind:     p.Telegraph.Kind,
		Position: e.body.Position(),
		Angle:    bearing,
		Radius:   p.Telegraph.Radius,
		Width:    p.Telegraph.Width,
		Progress: float64(t) / float64(duration),
		Duration: duration,
	}
	switch tg.Kind {
	case TelegraphSafeArc:
		if tg.Width == 0 {
			tg.Width = 2 * common.Radians(p.Spawn.SafeArc)
		}
	case TelegraphCone:
		if tg.Width == 0 {
			tg.Width = common.Radians(p.Spawn.Spread)
		}
	case TelegraphPoint:
		if e.state.Commit.Locked {
			tg.Position = e.state.Commit.Point
		} else if e.hasTarget {
			tg.Position = e.target.Position
		}
	}
	return tg
}

func (e *Encounter) execute() {
	p := e.pattern()
	if p == nil {
		e.endAttack()
		return
	}
	t := e.state.Timer
	if t >= p.executeLength() {
		if p.Recovery > 0 {
			e.transition(StateRecovery)
			return
		}
		e.endAttack()
		return
	}
	if !e.state.Commit.Locked {
		e.commit(p)
	}

	b := behaviors[p.Kind]
	if wave := e.state.SubWave; wave < p.Waves && t >= p.fireTick(wave) {
		b.fire(e, p, wave)
		e.emit(CueFire, p.ID)
		if p.Kind == PatternMinionBarrage || (wave == 0 && e.def.syncs(p.ID)) {
			e.state.Volleys++
		}
		e.state.SubWave++
	}
	if b.execute != nil {
		b.execute(e, p, t)
	} else {
		e.idleMove(0.3)
	}
}

func (e *Encounter) recovery() {
	p := e.pattern()
	if p == nil || e.state.Timer >= p.Recovery {
		e.endAttack()
		return
	}
	e.idleMove(0.4)
}

// density is the projectile count after mood scaling. Minions also take
// their parent's mood into account.
func (e *Encounter) density(p *Pattern) int {
	scale := e.mood().DensityScale
	if e.parent != nil {
		scale *= e.parent.mood().DensityScale
	}
	return max(1, int(math.Round(float64(p.Spawn.Count)*scale)))
}

func (e *Encounter) emit(cue Cue, name string) {
	e.hooks.cue(CueEvent{
		Owner:    e.id,
		Cue:      cue,
		Name:     name,
		Position: e.body.Position(),
	})
}

// syncVolley starts the minion's volley when its parent has commanded one
// since the last check. Attacks already in progress finish first.
func (e *Encounter) syncVolley() {
	if e.parent == nil {
		return
	}
	issued := e.parent.state.Volleys
	if issued <= e.state.SyncedVolleys {
		return
	}
	m := e.def.minionOf
	if m == nil || e.state.Tag.attacking() {
		return
	}
	e.state.SyncedVolleys = issued
	p, ok := e.def.Pattern(m.Volley)
	if !ok {
		return
	}
	e.beginAttack(p)
}
