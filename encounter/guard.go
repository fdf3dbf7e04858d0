package encounter

import (
	"math"

	"go.uber.org/zap"

	"github.com/milk9111/encounter/common"
)

// guard runs the escape and enrage checks. It reports true when the boss was
// teleported, which ends the tick.
func (e *Encounter) guard() bool {
	g := &e.def.Guard
	dist := e.body.Position().Distance(e.target.Position)
	if g.TeleportCeiling > 0 && dist > g.TeleportCeiling {
		e.teleport()
		return true
	}
	if g.EnrageDistance <= 0 || g.EnrageAfter <= 0 {
		return false
	}

	far := dist > g.EnrageDistance
	if !e.state.Enraged {
		if far {
			e.state.EnrageFrames++
		} else {
			e.state.EnrageFrames = 0
		}
		if e.state.EnrageFrames >= g.EnrageAfter {
			e.enrage()
		}
		return false
	}
	if far {
		e.state.CalmFrames = 0
	} else {
		e.state.CalmFrames++
	}
	if e.state.CalmFrames >= g.CalmAfter {
		e.calm()
	}
	return false
}

// teleport puts the boss TeleportDistance from the target on the side it was
// already on.
func (e *Encounter) teleport() {
	from := e.body.Position()
	dir := common.Direction(from.Sub(e.target.Position))
	if dir == zeroVector {
		dir = upward
	}
	to := e.target.Position.Add(dir.Mult(e.def.Guard.TeleportDistance))
	e.body.SetPosition(to)
	e.body.SetVelocityVector(zeroVector)
	e.state.EnrageFrames = 0
	e.log.Info("teleported to target",
		zap.String("encounter", e.def.Name),
		zap.Float64("distance", from.Distance(e.target.Position)),
	)
	e.hooks.cue(CueEvent{Owner: e.id, Cue: CueTeleport, Position: to})
}

func (e *Encounter) enrage() {
	e.state.Enraged = true
	e.state.CalmFrames = 0
	e.state.Resume = e.state.Tag
	e.log.Info("enraged", zap.String("encounter", e.def.Name), zap.Stringer("interrupted", e.state.Tag))
	e.emit(CueEnrage, e.state.AttackID)
	e.transition(StateEnraged)
}

// calm leaves the enraged override. An interrupted attack is telegraphed
// again from the start of its windup.
func (e *Encounter) calm() {
	e.state.Enraged = false
	e.state.EnrageFrames = 0
	e.state.CalmFrames = 0
	e.log.Info("calmed", zap.String("encounter", e.def.Name), zap.Stringer("resume", e.state.Resume))
	e.emit(CueCalm, e.state.AttackID)

	resume := e.state.Resume
	e.state.Resume = StateIdle
	switch {
	case e.pattern() == nil:
		e.endAttack()
	case resume == StateReposition || resume == StateWindup || resume == StateExecute:
		e.state.SubWave = 0
		e.state.Commit = Commit{}
		e.transition(StateWindup)
	default:
		e.endAttack()
	}
}

// enraged chases the target directly and fires aimed shots.
func (e *Encounter) enraged() {
	g := &e.def.Guard
	Steer(e.body, e.target.Position, g.EnrageSpeed, 0.2)
	shot := g.EnrageShot
	if shot.Speed <= 0 || g.EnrageFireEvery <= 0 {
		return
	}
	if e.state.Timer%g.EnrageFireEvery != g.EnrageFireEvery-1 {
		return
	}
	if shot.Count <= 0 {
		shot.Count = 1
	}
	if shot.Lifetime <= 0 {
		shot.Lifetime = 240
	}
	for _, a := range FanAngles(shot.Count, e.liveBearing(), common.Radians(shot.Spread)) {
		e.shoot(shot, a)
	}
}

// Damage applies a hit and returns the health actually removed. A lethal hit
// is intercepted: health is pinned at 1 and the death sequence starts.
func (e *Encounter) Damage(amount int) int {
	if e.state.Removed || e.state.Invulnerable || e.state.Dying || amount <= 0 {
		return 0
	}
	dealt := max(1, amount-e.def.Defense/2)
	if dealt < e.health {
		e.health -= dealt
		return dealt
	}
	dealt = e.health - 1
	e.health = 1
	e.beginDeath()
	return dealt
}

func (e *Encounter) fakeDeathPending() bool {
	return e.def.FakeDeath.Enabled && !e.state.FakeDeathUsed && !e.isMinion()
}

func (e *Encounter) beginDeath() {
	fake := e.fakeDeathPending()
	if !fake && (e.isMinion() || e.def.Death.Duration <= 0) {
		e.health = 0
		e.emit(CueDeath, e.def.Name)
		e.deactivate(RemoveKilled)
		return
	}

	e.state.Dying = true
	e.state.Invulnerable = true
	e.state.DeathTimer = 0
	e.state.Enraged = false
	e.state.EnrageFrames = 0
	e.state.CalmFrames = 0
	e.state.AttackID = ""
	e.state.SubWave = 0
	e.state.Commit = Commit{}
	e.log.Info("death sequence started", zap.String("encounter", e.def.Name), zap.Bool("fake", fake))
	if fake {
		e.transition(StateFakeDeath)
		return
	}
	e.transition(StateTrueDeath)
}

func (e *Encounter) deathTimeline() (int, []DeathStage) {
	if e.state.Tag == StateFakeDeath {
		return e.def.FakeDeath.Duration, e.def.FakeDeath.Stages
	}
	return e.def.Death.Duration, e.def.Death.Stages
}

// dying runs the staged timeline. Health stays at 1 until the timeline ends.
func (e *Encounter) dying() {
	e.state.DeathTimer++
	e.health = 1
	duration, stages := e.deathTimeline()
	for _, st := range stages {
		if st.At != e.state.DeathTimer-1 {
			continue
		}
		e.hooks.cue(CueEvent{
			Owner:    e.id,
			Cue:      CueDeath,
			Name:     st.Name,
			Position: e.body.Position(),
			Shake:    st.Shake,
			Frames:   st.Frames,
			Flash:    st.Flash,
		})
	}
	decay(e.body, 0.9)
	if e.state.DeathTimer < duration {
		return
	}
	if e.state.Tag == StateFakeDeath {
		e.awaken()
		return
	}
	e.health = 0
	e.emit(CueDeath, e.def.Name)
	e.deactivate(RemoveKilled)
}

// awaken ends a fake death: health comes back and the boss jumps to its
// awakening mood.
func (e *Encounter) awaken() {
	fd := &e.def.FakeDeath
	e.state.FakeDeathUsed = true
	e.state.Dying = false
	e.state.DeathTimer = 0
	e.health = min(e.def.MaxHealth, max(1, int(math.Round(float64(e.def.MaxHealth)*fd.RestoreFraction))))
	e.enterMood(fd.AwakeningMood)
	e.log.Info("awakening", zap.String("encounter", e.def.Name), zap.Int("health", e.health))
	e.emit(CueAwakening, e.MoodName())
	e.transition(StateAwakening)
}

func (e *Encounter) awakening() {
	if e.state.Timer >= e.def.FakeDeath.AwakeningDuration {
		e.state.Invulnerable = false
		e.transition(StateIdle)
		return
	}
	e.hover(0.3)
}
