package component

import "github.com/jakecoffman/cp"

// PhysicsBody links an entity to a Chipmunk body. Bodies are kinematic: the
// encounter sets velocity and the space integrates it.
type PhysicsBody struct {
	Body   *cp.Body
	Shape  *cp.Shape
	Radius float64
	// Sensor shapes report overlaps but never push other bodies.
	Sensor bool
}

var PhysicsBodyComponent = NewComponent[PhysicsBody]()
