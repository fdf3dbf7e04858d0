package system

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/encounter/ecs"
	"github.com/milk9111/encounter/ecs/component"
	"go.uber.org/zap"
)

// hitInvulnerability is how long a player ignores damage after a hit.
const hitInvulnerability = 30

// CombatSystem rotates beams and applies projectile and contact damage to
// players.
type CombatSystem struct {
	log *zap.Logger
}

func NewCombatSystem(log *zap.Logger) *CombatSystem {
	if log == nil {
		log = zap.NewNop()
	}
	return &CombatSystem{log: log}
}

func (s *CombatSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	ecs.ForEach2(w, component.ProjectileComponent.Kind(), component.PhysicsBodyComponent.Kind(), func(e ecs.Entity, p *component.Projectile, pb *component.PhysicsBody) {
		if p.AngularVelocity == 0 || pb.Body == nil {
			return
		}
		p.Angle += p.AngularVelocity
		pb.Body.SetAngle(p.Angle)
	})

	ecs.ForEach3(w, component.PlayerTagComponent.Kind(), component.HealthComponent.Kind(), component.PhysicsBodyComponent.Kind(), func(pe ecs.Entity, _ *component.PlayerTag, hp *component.Health, body *component.PhysicsBody) {
		if hp.Invulnerable > 0 {
			hp.Invulnerable--
		}
		if hp.Dead() || body.Body == nil {
			return
		}
		pos := body.Body.Position()
		s.projectileHits(w, pe, hp, pos, body.Radius)
		s.contactHits(w, pe, hp, pos, body.Radius)
	})
}

func (s *CombatSystem) projectileHits(w *ecs.World, pe ecs.Entity, hp *component.Health, pos cp.Vector, radius float64) {
	ecs.ForEach2(w, component.ProjectileComponent.Kind(), component.PhysicsBodyComponent.Kind(), func(e ecs.Entity, p *component.Projectile, pb *component.PhysicsBody) {
		if pb.Body == nil || p.Damage <= 0 {
			return
		}
		origin := pb.Body.Position()
		var hit bool
		if p.Length > 0 {
			end := origin.Add(cp.ForAngle(p.Angle).Mult(p.Length))
			hit = segmentDistance(pos, origin, end) <= radius+p.Radius/2
		} else {
			hit = origin.Distance(pos) <= radius+p.Radius
		}
		if !hit {
			return
		}
		if p.Kind == "bullet" {
			ecs.DestroyEntity(w, e)
		}
		s.hurt(w, pe, hp, p.Damage, p.Kind)
	})
}

func (s *CombatSystem) contactHits(w *ecs.World, pe ecs.Entity, hp *component.Health, pos cp.Vector, radius float64) {
	ecs.ForEach2(w, component.BossComponent.Kind(), component.PhysicsBodyComponent.Kind(), func(_ ecs.Entity, boss *component.Boss, pb *component.PhysicsBody) {
		if boss.Encounter == nil || pb.Body == nil || boss.Encounter.Dying() {
			return
		}
		damage := boss.Encounter.Definition().ContactDamage
		if damage <= 0 || pb.Body.Position().Distance(pos) > radius+pb.Radius {
			return
		}
		s.hurt(w, pe, hp, damage, "contact")
	})
}

func (s *CombatSystem) hurt(w *ecs.World, pe ecs.Entity, hp *component.Health, damage int, source string) {
	if hp.Invulnerable > 0 || hp.Dead() {
		return
	}
	hp.Current = max(0, hp.Current-damage)
	hp.Invulnerable = hitInvulnerability
	_ = ecs.Add(w, pe, component.WhiteFlashComponent.Kind(), &component.WhiteFlash{Frames: hitInvulnerability, Interval: 3})
	s.log.Debug("player hit",
		zap.String("source", source),
		zap.Int("damage", damage),
		zap.Int("health", hp.Current),
	)
	if hp.Dead() {
		s.log.Info("player died")
	}
}

// segmentDistance is the distance from p to the segment ab.
func segmentDistance(p, a, b cp.Vector) float64 {
	ab := b.Sub(a)
	l2 := ab.Dot(ab)
	if l2 == 0 {
		return p.Distance(a)
	}
	t := math.Max(0, math.Min(1, p.Sub(a).Dot(ab)/l2))
	return p.Distance(a.Add(ab.Mult(t)))
}
