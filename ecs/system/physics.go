package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/encounter/ecs"
	"github.com/milk9111/encounter/ecs/component"
)

// PhysicsSystem owns the Chipmunk space. Every body is kinematic: movement
// comes from velocities set by encounters, target paths and input, and the
// space only integrates them.
type PhysicsSystem struct {
	space  *cp.Space
	bodies map[ecs.Entity]*bodyInfo
}

type bodyInfo struct {
	body  *cp.Body
	shape *cp.Shape
}

func NewPhysicsSystem() *PhysicsSystem {
	space := cp.NewSpace()
	space.Iterations = 10
	space.SetGravity(cp.Vector{})
	return &PhysicsSystem{
		space:  space,
		bodies: make(map[ecs.Entity]*bodyInfo),
	}
}

func (ps *PhysicsSystem) Space() *cp.Space {
	if ps == nil {
		return nil
	}
	return ps.space
}

// NewBody builds a kinematic circle at pos. The body joins the space on the
// next update.
func NewBody(pos cp.Vector, radius float64, sensor bool) *component.PhysicsBody {
	body := cp.NewKinematicBody()
	body.SetPosition(pos)
	shape := cp.NewCircle(body, radius, cp.Vector{})
	shape.SetSensor(sensor)
	return &component.PhysicsBody{Body: body, Shape: shape, Radius: radius, Sensor: sensor}
}

func (ps *PhysicsSystem) Update(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}
	ps.syncEntities(w)
	ps.space.Step(1.0)
	ps.syncTransforms(w)
}

// syncEntities adds new bodies to the space and removes bodies whose entity
// is gone or whose component was replaced.
func (ps *PhysicsSystem) syncEntities(w *ecs.World) {
	for e, info := range ps.bodies {
		pb, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
		if ok && pb.Body == info.body {
			continue
		}
		ps.remove(info)
		delete(ps.bodies, e)
	}

	ecs.ForEach(w, component.PhysicsBodyComponent.Kind(), func(e ecs.Entity, pb *component.PhysicsBody) {
		if pb.Body == nil {
			return
		}
		if _, ok := ps.bodies[e]; ok {
			return
		}
		info := &bodyInfo{body: ps.space.AddBody(pb.Body)}
		if pb.Shape != nil {
			info.shape = ps.space.AddShape(pb.Shape)
		}
		ps.bodies[e] = info
	})
}

func (ps *PhysicsSystem) remove(info *bodyInfo) {
	if info.shape != nil {
		ps.space.RemoveShape(info.shape)
	}
	if info.body != nil {
		ps.space.RemoveBody(info.body)
	}
}

func (ps *PhysicsSystem) syncTransforms(w *ecs.World) {
	ecs.ForEach(w, component.PhysicsBodyComponent.Kind(), func(e ecs.Entity, pb *component.PhysicsBody) {
		if pb.Body == nil {
			return
		}
		pos := pb.Body.Position()
		t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
		if !ok {
			t = &component.Transform{}
			_ = ecs.Add(w, e, component.TransformComponent.Kind(), t)
		}
		t.X, t.Y = pos.X, pos.Y
		t.Rotation = pb.Body.Angle()
	})
}

// Bodies reports how many bodies the space holds.
func (ps *PhysicsSystem) Bodies() int {
	if ps == nil {
		return 0
	}
	return len(ps.bodies)
}
