package encounter

import (
	"math"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/encounter/common"
)

var (
	zeroVector = cp.Vector{}
	// upward is screen up; y grows downward.
	upward = cp.Vector{X: 0, Y: -1}
)

// Steer blends the body's velocity toward a vector of length speed pointing
// at desired. The velocity is never snapped; blend is the fraction of the gap
// closed per tick. Near the destination the speed is capped at the remaining
// distance so the body settles instead of orbiting the point.
func Steer(body Body, desired cp.Vector, speed, blend float64) {
	if body == nil {
		return
	}
	delta := desired.Sub(body.Position())
	dist := delta.Length()
	if dist < speed {
		speed = dist
	}
	want := common.Direction(delta).Mult(speed)
	blendVelocity(body, want, blend)
}

func blendVelocity(body Body, want cp.Vector, blend float64) {
	blend = common.Clamp(blend, 0, 1)
	body.SetVelocityVector(body.Velocity().Lerp(want, blend))
}

// decay bleeds off velocity by factor each tick.
func decay(body Body, factor float64) {
	body.SetVelocityVector(body.Velocity().Mult(factor))
}

// hoverPoint traces a figure-8 above the target.
func hoverPoint(target cp.Vector, mv Movement, age int) cp.Vector {
	phase := 2 * math.Pi * float64(age) / float64(max(1, mv.HoverPeriod))
	return target.Add(cp.Vector{
		X: mv.HoverWidth * math.Sin(phase),
		Y: -mv.HoverDistance + mv.HoverHeight*math.Sin(2*phase),
	})
}

// orbitPoint is slot's position on a ring of slots evenly spaced around center.
func orbitPoint(center cp.Vector, slot, slots int, radius, speed float64, age int) cp.Vector {
	angle := float64(age) * speed
	if slots > 0 {
		angle += float64(slot) * 2 * math.Pi / float64(slots)
	}
	return center.Add(cp.ForAngle(angle).Mult(radius))
}

func (e *Encounter) hover(speedScale float64) {
	if !e.hasTarget {
		decay(e.body, 0.9)
		return
	}
	mv := e.mood().Movement
	Steer(e.body, hoverPoint(e.target.Position, mv, e.state.Age), mv.Speed*speedScale, mv.Blend)
}

func (e *Encounter) orbit(speedScale float64) {
	if e.parent == nil {
		decay(e.body, 0.9)
		return
	}
	mv := e.mood().Movement
	point := orbitPoint(e.parent.body.Position(), e.slot, e.slots, mv.OrbitRadius, mv.OrbitSpeed, e.state.Age)
	Steer(e.body, point, mv.Speed*speedScale, mv.Blend)
}

// idleMove is the resting movement of the encounter: hovering for a boss,
// orbiting the parent for a minion.
func (e *Encounter) idleMove(speedScale float64) {
	if e.isMinion() {
		e.orbit(speedScale)
		return
	}
	e.hover(speedScale)
}

// pickAnchor chooses the reposition destination: the current bearing from
// the target rotated by 30 to 90 degrees either way, at the mood's
// reposition radius.
func (e *Encounter) pickAnchor() {
	pos := e.body.Position()
	mv := e.mood().Movement
	center := pos
	if e.hasTarget {
		center = e.target.Position
	}
	bearing := pos.Sub(center).ToAngle()
	if pos.Sub(center).Length() < 1e-9 {
		bearing = -math.Pi / 2
	}
	swing := common.Radians(30 + e.rng.Float64()*60)
	if e.rng.Intn(2) == 0 {
		swing = -swing
	}
	e.state.Anchor = Anchor{
		From: pos,
		To:   center.Add(cp.ForAngle(bearing + swing).Mult(mv.RepositionRadius)),
	}
}

// repositionSpeed eases in and out over the reposition window, peaking at
// twice the mood speed.
func repositionSpeed(mv Movement, t, duration int) float64 {
	if duration <= 0 {
		return 0
	}
	return mv.Speed * 2 * common.EaseBell((float64(t)+0.5)/float64(duration))
}
