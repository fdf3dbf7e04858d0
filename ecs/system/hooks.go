package system

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/encounter/ecs"
	"github.com/milk9111/encounter/ecs/component"
	"github.com/milk9111/encounter/encounter"
	"go.uber.org/zap"
)

// EventCue carries an encounter.CueEvent.
const EventCue ecs.EventType = "cue"

const (
	bulletRadius = 8
	trailRadius  = 20
	beamLength   = 900
	beamWidth    = 14
)

// worldHooks binds one encounter to the world it lives in.
type worldHooks struct {
	sys   *BossSystem
	w     *ecs.World
	owner ecs.Entity
}

func (s *BossSystem) hooks(w *ecs.World, owner ecs.Entity) encounter.Hooks {
	h := &worldHooks{sys: s, w: w, owner: owner}
	return encounter.Hooks{
		Targets:       h,
		Spawner:       h,
		Telegraphs:    h,
		Cues:          h,
		Authoritative: h.authoritative,
		Remove:        h.remove,
	}
}

func (h *worldHooks) authoritative() bool {
	if h.sys.Authoritative == nil {
		return true
	}
	return h.sys.Authoritative()
}

// NearestTarget picks the closest player, dead or alive. The encounter
// decides what a dead target means.
func (h *worldHooks) NearestTarget(from cp.Vector) (encounter.Target, bool) {
	best := math.Inf(1)
	var out encounter.Target
	found := false
	ecs.ForEach2(h.w, component.PlayerTagComponent.Kind(), component.PhysicsBodyComponent.Kind(), func(e ecs.Entity, _ *component.PlayerTag, pb *component.PhysicsBody) {
		if pb.Body == nil {
			return
		}
		pos := pb.Body.Position()
		d := pos.Distance(from)
		if d >= best {
			return
		}
		best = d
		found = true
		hp, _ := ecs.Get(h.w, e, component.HealthComponent.Kind())
		out = encounter.Target{
			ID:       uint64(e),
			Position: pos,
			Velocity: pb.Body.Velocity(),
			Active:   true,
			Dead:     hp.Dead(),
		}
	})
	return out, found
}

func (h *worldHooks) Spawn(p encounter.Projectile) {
	radius := float64(bulletRadius)
	length := 0.0
	switch p.Kind {
	case "trail":
		radius = trailRadius
	case "beam":
		radius = beamWidth
		length = beamLength
	}
	e := ecs.CreateEntity(h.w)
	pb := NewBody(p.Position, radius, true)
	pb.Body.SetVelocityVector(p.Velocity)
	pb.Body.SetAngle(p.Angle)
	_ = ecs.Add(h.w, e, component.PhysicsBodyComponent.Kind(), pb)
	_ = ecs.Add(h.w, e, component.TransformComponent.Kind(), &component.Transform{X: p.Position.X, Y: p.Position.Y, Rotation: p.Angle})
	_ = ecs.Add(h.w, e, component.ProjectileComponent.Kind(), &component.Projectile{
		Owner:           p.Owner,
		Kind:            p.Kind,
		Damage:          p.Damage,
		Angle:           p.Angle,
		AngularVelocity: p.AngularVelocity,
		Visual:          p.Visual,
		Radius:          radius,
		Length:          length,
	})
	if p.Lifetime > 0 {
		_ = ecs.Add(h.w, e, component.TTLComponent.Kind(), &component.TTL{Frames: p.Lifetime})
	}
}

func (h *worldHooks) Telegraph(t encounter.Telegraph) {
	e, ok := h.sys.telegraphs[t.Owner]
	if !ok || !ecs.IsAlive(h.w, e) {
		e = ecs.CreateEntity(h.w)
		h.sys.telegraphs[t.Owner] = e
	}
	_ = ecs.Add(h.w, e, component.TelegraphComponent.Kind(), &component.Telegraph{Telegraph: t, LastTick: h.w.Tick()})
}

func (h *worldHooks) Cue(c encounter.CueEvent) {
	h.w.Events().Push(ecs.Event{Type: EventCue, Data: c})
}

func (h *worldHooks) remove(id encounter.ID, reason encounter.RemoveReason) {
	h.sys.registry.Unregister(id)
	if e, ok := h.sys.telegraphs[id]; ok {
		ecs.DestroyEntity(h.w, e)
		delete(h.sys.telegraphs, id)
	}
	h.sys.log.Debug("encounter entity destroyed",
		zap.Stringer("entity", h.owner),
		zap.String("reason", string(reason)),
	)
	ecs.DestroyEntity(h.w, h.owner)
}
