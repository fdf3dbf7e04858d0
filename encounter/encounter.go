package encounter

import (
	"fmt"
	"math/rand"

	"go.uber.org/zap"
)

// Encounter is one live boss or minion running the state machine.
// It is not safe for concurrent use; the host advances it once per tick.
type Encounter struct {
	id       ID
	def      *Definition
	body     Body
	hooks    Hooks
	log      *zap.Logger
	rng      *rand.Rand
	selector *Selector
	registry *Registry

	parentID  ID
	hasParent bool
	slot      int
	slots     int

	health int
	state  State

	// resolved at the start of every tick
	target    Target
	hasTarget bool
	parent    *Encounter

	transitioned bool
	// held keeps Timer still on a tick the state's handler did not run.
	held bool
}

type Option func(*Encounter)

func WithLogger(log *zap.Logger) Option {
	return func(e *Encounter) {
		if log != nil {
			e.log = log
		}
	}
}

func WithRand(rng *rand.Rand) Option {
	return func(e *Encounter) {
		if rng != nil {
			e.rng = rng
		}
	}
}

func WithID(id ID) Option {
	return func(e *Encounter) {
		e.id = id
	}
}

// WithRegistry registers the encounter so minions can find it.
func WithRegistry(r *Registry) Option {
	return func(e *Encounter) {
		e.registry = r
	}
}

// WithParent binds the encounter to a parent looked up through the registry
// every tick.
func WithParent(id ID) Option {
	return func(e *Encounter) {
		e.parentID = id
		e.hasParent = true
	}
}

// New builds an encounter at full health in the Idle state.
func New(def *Definition, body Body, hooks Hooks, opts ...Option) *Encounter {
	if !def.prepared {
		def.ApplyDefaults()
	}
	e := &Encounter{
		def:    def,
		body:   body,
		hooks:  hooks,
		log:    zap.NewNop(),
		health: def.MaxHealth,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(int64(e.id) + 1))
	}
	e.selector = NewSelector(e.rng)
	if e.registry != nil {
		if e.id == 0 {
			e.id = e.registry.nextID()
		}
		e.registry.Register(e)
	}
	return e
}

var handlers = map[StateTag]func(*Encounter){
	StateIdle:       (*Encounter).idle,
	StateReposition: (*Encounter).reposition,
	StateWindup:     (*Encounter).windup,
	StateExecute:    (*Encounter).execute,
	StateRecovery:   (*Encounter).recovery,
	StateEnraged:    (*Encounter).enraged,
	StateDrift:      (*Encounter).drift,
	StateFakeDeath:  (*Encounter).dying,
	StateTrueDeath:  (*Encounter).dying,
	StateAwakening:  (*Encounter).awakening,
}

// Advance runs one simulation tick. Guard checks run before the state's
// handler; a guard transition preempts the handler for this tick.
func (e *Encounter) Advance() {
	if e.state.Removed {
		return
	}
	e.transitioned = false
	e.held = false
	defer e.endTick()

	if e.state.Dying {
		e.handle()
		return
	}

	if e.isMinion() {
		parent, ok := e.registry.Lookup(e.parentID)
		if !ok {
			e.parent = nil
			e.deactivate(RemoveParentLost)
			return
		}
		e.parent = parent
		if parent.state.Dying {
			e.standBy()
			return
		}
	}

	e.target, e.hasTarget = e.hooks.target(e.body.Position())
	switch {
	case !e.hasTarget && e.state.Tag != StateDrift && e.state.Tag != StateAwakening:
		e.loseTarget()
	case e.hasTarget && e.state.Tag == StateDrift:
		e.transition(StateIdle)
	}

	if e.hasTarget && !e.isMinion() && e.state.Tag != StateAwakening {
		if e.guard() {
			e.held = true
			return
		}
	}
	if e.transitioned {
		return
	}

	if e.isMinion() {
		e.syncVolley()
		if e.transitioned {
			return
		}
	} else {
		e.updateMood()
	}
	e.handle()
}

func (e *Encounter) handle() {
	h, ok := handlers[e.state.Tag]
	if !ok {
		e.log.Warn("no handler for state", zap.String("encounter", e.def.Name), zap.Stringer("state", e.state.Tag))
		e.transition(StateIdle)
		return
	}
	h(e)
}

func (e *Encounter) endTick() {
	if e.state.Removed {
		return
	}
	if !e.transitioned && !e.held {
		e.state.Timer++
	}
	e.state.Age++
}

// transition writes the state tag and zeroes its timer in the same step.
func (e *Encounter) transition(tag StateTag) {
	e.log.Debug("state transition",
		zap.String("encounter", e.def.Name),
		zap.Uint64("id", uint64(e.id)),
		zap.Stringer("from", e.state.Tag),
		zap.Stringer("to", tag),
		zap.Int("timer", e.state.Timer),
	)
	e.state.Tag = tag
	e.state.Timer = 0
	e.transitioned = true
}

func (e *Encounter) isMinion() bool {
	return e.hasParent
}

// deactivate removes the encounter without a death sequence.
func (e *Encounter) deactivate(reason RemoveReason) {
	if e.state.Removed {
		return
	}
	e.state.Removed = true
	e.body.SetVelocityVector(zeroVector)
	e.log.Info("encounter removed",
		zap.String("encounter", e.def.Name),
		zap.Uint64("id", uint64(e.id)),
		zap.String("reason", string(reason)),
	)
	if e.hooks.Remove != nil {
		e.hooks.Remove(e.id, reason)
	}
}

// Dismiss removes the encounter at once, without a death sequence. Hosts use
// it when a restored fight no longer contains the encounter.
func (e *Encounter) Dismiss() {
	e.deactivate(RemoveDismissed)
}

// loseTarget abandons whatever the encounter was doing and drifts away.
func (e *Encounter) loseTarget() {
	e.state.AttackID = ""
	e.state.SubWave = 0
	e.state.Commit = Commit{}
	e.state.Enraged = false
	e.state.EnrageFrames = 0
	e.state.CalmFrames = 0
	e.log.Info("target lost", zap.String("encounter", e.def.Name), zap.Stringer("state", e.state.Tag))
	e.transition(StateDrift)
}

func (e *Encounter) drift() {
	g := &e.def.Guard
	if g.DespawnAfter > 0 && e.state.Timer >= g.DespawnAfter {
		e.deactivate(RemoveDespawned)
		return
	}
	blendVelocity(e.body, upward.Mult(g.DriftSpeed), 0.05)
}

func (e *Encounter) ID() ID                  { return e.id }
func (e *Encounter) Definition() *Definition { return e.def }
func (e *Encounter) Body() Body              { return e.body }
func (e *Encounter) Tag() StateTag           { return e.state.Tag }
func (e *Encounter) Timer() int              { return e.state.Timer }
func (e *Encounter) AttackID() string        { return e.state.AttackID }
func (e *Encounter) Mood() int               { return e.state.Mood }
func (e *Encounter) MoodName() string        { return e.mood().Name }
func (e *Encounter) Health() int             { return e.health }
func (e *Encounter) MaxHealth() int          { return e.def.MaxHealth }
func (e *Encounter) Dying() bool             { return e.state.Dying }
func (e *Encounter) Enraged() bool           { return e.state.Enraged }

// State returns a copy of the register.
func (e *Encounter) State() State { return e.state }

// Active reports whether the encounter still takes part in the simulation.
func (e *Encounter) Active() bool { return e != nil && !e.state.Removed }

// Parent returns the parent id of a minion.
func (e *Encounter) Parent() (ID, bool) { return e.parentID, e.hasParent }

func (e *Encounter) HealthFraction() float64 {
	if e.def.MaxHealth <= 0 {
		return 0
	}
	return float64(e.health) / float64(e.def.MaxHealth)
}

// SetHealth overrides health for restore effects and tooling. It cannot kill;
// lethal damage goes through Damage.
func (e *Encounter) SetHealth(h int) {
	if e.state.Dying || e.state.Removed {
		return
	}
	e.health = min(max(h, 1), e.def.MaxHealth)
}

func (e *Encounter) Heal(amount int) {
	if amount <= 0 {
		return
	}
	e.SetHealth(e.health + amount)
}

func (e *Encounter) Snapshot() Snapshot {
	return Snapshot{
		Definition: e.def.Name,
		State:      e.state,
		Health:     e.health,
		Position:   e.body.Position(),
		Velocity:   e.body.Velocity(),
	}
}

// Restore rewinds the encounter to a snapshot taken from the same definition.
func (e *Encounter) Restore(s Snapshot) error {
	if s.Definition != e.def.Name {
		return fmt.Errorf("encounter: snapshot of %q cannot restore %q", s.Definition, e.def.Name)
	}
	if s.State.Mood < 0 || s.State.Mood >= len(e.def.Moods) {
		return fmt.Errorf("encounter: snapshot mood %d out of range", s.State.Mood)
	}
	if s.State.AttackID != "" {
		if _, ok := e.def.Pattern(s.State.AttackID); !ok {
			return fmt.Errorf("encounter: snapshot attack %q not defined by %q", s.State.AttackID, e.def.Name)
		}
	}
	e.state = s.State
	e.health = min(max(s.Health, 0), e.def.MaxHealth)
	e.body.SetPosition(s.Position)
	e.body.SetVelocityVector(s.Velocity)
	return nil
}
