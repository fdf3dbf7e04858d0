package system

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/encounter/common"
	"github.com/milk9111/encounter/ecs"
	"github.com/milk9111/encounter/ecs/component"
)

// Target path modes.
const (
	PathCircle = "circle"
	PathStrafe = "strafe"
	PathStill  = "still"
	PathFlee   = "flee"
)

// TargetPathSystem drives scripted players by setting body velocity so the
// next physics step lands on the path.
type TargetPathSystem struct{}

func NewTargetPathSystem() *TargetPathSystem { return &TargetPathSystem{} }

func (s *TargetPathSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	ecs.ForEach2(w, component.TargetPathComponent.Kind(), component.PhysicsBodyComponent.Kind(), func(e ecs.Entity, path *component.TargetPath, pb *component.PhysicsBody) {
		if pb.Body == nil {
			return
		}
		if hp, ok := ecs.Get(w, e, component.HealthComponent.Kind()); ok && hp.Dead() {
			pb.Body.SetVelocityVector(cp.Vector{})
			return
		}
		pos := pb.Body.Position()
		center := cp.Vector{X: path.CenterX, Y: path.CenterY}
		switch path.Mode {
		case PathCircle:
			path.Phase += path.Speed
			next := center.Add(cp.ForAngle(path.Phase).Mult(path.Radius))
			pb.Body.SetVelocityVector(next.Sub(pos))
		case PathStrafe:
			path.Phase += path.Speed
			next := cp.Vector{X: center.X + path.Radius*math.Sin(path.Phase), Y: center.Y}
			pb.Body.SetVelocityVector(next.Sub(pos))
		case PathFlee:
			away := pos.Sub(center)
			if away.Length() < 1e-9 {
				away = cp.Vector{X: 1}
			}
			pb.Body.SetVelocityVector(common.Direction(away).Mult(path.Speed))
		default:
			pb.Body.SetVelocityVector(cp.Vector{})
		}
	})
}

// SpawnPlayer creates a player entity with health at pos. A nil path leaves
// the player for input to drive.
func SpawnPlayer(w *ecs.World, pos cp.Vector, health int, path *component.TargetPath) ecs.Entity {
	e := ecs.CreateEntity(w)
	_ = ecs.Add(w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{})
	_ = ecs.Add(w, e, component.HealthComponent.Kind(), &component.Health{Current: health, Max: health})
	_ = ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), NewBody(pos, 14, false))
	_ = ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: pos.X, Y: pos.Y})
	if path != nil {
		_ = ecs.Add(w, e, component.TargetPathComponent.Kind(), path)
	}
	return e
}
