package encounter

import "github.com/jakecoffman/cp"

// Body is the kinematic handle an encounter steers. *cp.Body satisfies it.
type Body interface {
	Position() cp.Vector
	SetPosition(pos cp.Vector)
	Velocity() cp.Vector
	SetVelocityVector(v cp.Vector)
}

// Target is a read-only view of whoever the encounter is fighting this tick.
type Target struct {
	ID       uint64
	Position cp.Vector
	Velocity cp.Vector
	Active   bool
	Dead     bool
}

// Valid reports whether the target can still be attacked.
func (t Target) Valid() bool {
	return t.Active && !t.Dead
}

// TargetProvider resolves the nearest valid target.
type TargetProvider interface {
	NearestTarget(from cp.Vector) (Target, bool)
}

// Projectile is a fire-and-forget spawn request. Beams use Kind "beam" and
// rotate by AngularVelocity per tick.
type Projectile struct {
	Owner           ID
	Kind            string
	Position        cp.Vector
	Velocity        cp.Vector
	Angle           float64
	AngularVelocity float64
	Damage          int
	Visual          string
	Lifetime        int
}

type Spawner interface {
	Spawn(p Projectile)
}

type TelegraphKind string

const (
	TelegraphRing    TelegraphKind = "ring"
	TelegraphLine    TelegraphKind = "line"
	TelegraphSafeArc TelegraphKind = "safe_arc"
	TelegraphCone    TelegraphKind = "cone"
	TelegraphPoint   TelegraphKind = "point"
)

// Telegraph is warning geometry shown during a windup. It never affects damage.
type Telegraph struct {
	Owner    ID
	Kind     TelegraphKind
	Position cp.Vector
	Angle    float64
	Radius   float64
	Width    float64
	Progress float64
	Duration int
}

type TelegraphSink interface {
	Telegraph(t Telegraph)
}

type Cue string

const (
	CueWindup          Cue = "windup"
	CueFire            Cue = "fire"
	CuePhaseTransition Cue = "phase_transition"
	CueTeleport        Cue = "teleport"
	CueEnrage          Cue = "enrage"
	CueCalm            Cue = "calm"
	CueDeath           Cue = "death"
	CueAwakening       Cue = "awakening"
	CueCommand         Cue = "command"
)

// CueEvent is an audio/camera/announcement request.
type CueEvent struct {
	Owner    ID
	Cue      Cue
	Name     string
	Position cp.Vector
	Shake    float64
	Frames   int
	Text     string
	Flash    bool
}

type CueSink interface {
	Cue(c CueEvent)
}

// RemoveReason explains why an encounter asked to be removed.
type RemoveReason string

const (
	RemoveKilled     RemoveReason = "killed"
	RemoveDespawned  RemoveReason = "despawned"
	RemoveParentLost RemoveReason = "parent_lost"
	RemoveDismissed  RemoveReason = "dismissed"
)

// Hooks are the collaborators an encounter calls into. Every field is optional.
type Hooks struct {
	Targets       TargetProvider
	Spawner       Spawner
	Telegraphs    TelegraphSink
	Cues          CueSink
	Authoritative func() bool
	Remove        func(id ID, reason RemoveReason)
}

func (h *Hooks) authoritative() bool {
	if h.Authoritative == nil {
		return true
	}
	return h.Authoritative()
}

func (h *Hooks) spawn(p Projectile) bool {
	if h.Spawner == nil || !h.authoritative() {
		return false
	}
	h.Spawner.Spawn(p)
	return true
}

func (h *Hooks) telegraph(t Telegraph) {
	if h.Telegraphs != nil {
		h.Telegraphs.Telegraph(t)
	}
}

func (h *Hooks) cue(c CueEvent) {
	if h.Cues != nil {
		h.Cues.Cue(c)
	}
}

func (h *Hooks) target(from cp.Vector) (Target, bool) {
	if h.Targets == nil {
		return Target{}, false
	}
	t, ok := h.Targets.NearestTarget(from)
	if !ok || !t.Valid() {
		return t, false
	}
	return t, true
}
