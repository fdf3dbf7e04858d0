package component

import "github.com/milk9111/encounter/encounter"

// Telegraph is the warning geometry an encounter emitted this tick. The
// telegraph system keeps one entity per owner and drops it once the owner
// stops emitting.
type Telegraph struct {
	encounter.Telegraph
	LastTick int
}

var TelegraphComponent = NewComponent[Telegraph]()
