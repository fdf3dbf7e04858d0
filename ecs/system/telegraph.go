package system

import (
	"github.com/milk9111/encounter/ecs"
	"github.com/milk9111/encounter/ecs/component"
)

// TelegraphSystem drops telegraphs their owner did not refresh this tick.
// It must run after the boss system.
type TelegraphSystem struct{}

func NewTelegraphSystem() *TelegraphSystem { return &TelegraphSystem{} }

func (s *TelegraphSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	tick := w.Tick()
	ecs.ForEach(w, component.TelegraphComponent.Kind(), func(e ecs.Entity, t *component.Telegraph) {
		if t.LastTick < tick {
			ecs.Remove(w, e, component.TelegraphComponent.Kind())
		}
	})
}
