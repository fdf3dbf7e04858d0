package component

import "github.com/milk9111/encounter/encounter"

// Projectile is a live bullet, trail or beam spawned by an encounter.
type Projectile struct {
	Owner           encounter.ID
	Kind            string
	Damage          int
	Angle           float64
	AngularVelocity float64
	Visual          string
	Radius          float64
	// Length is the reach of a beam from its origin.
	Length float64
}

var ProjectileComponent = NewComponent[Projectile]()
