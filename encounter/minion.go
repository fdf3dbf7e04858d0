package encounter

import "fmt"

// NewMinion builds the slot-th minion of parent. The minion runs the reduced
// definition derived from the parent's and finds its parent through the
// parent's registry on every tick.
func NewMinion(parent *Encounter, slot int, body Body, hooks Hooks, opts ...Option) (*Encounter, error) {
	if parent == nil {
		return nil, fmt.Errorf("encounter: minion without parent")
	}
	if parent.registry == nil {
		return nil, fmt.Errorf("encounter: %q has no registry to bind minions to", parent.def.Name)
	}
	def := parent.def.minionDefinition()
	if def == nil {
		return nil, fmt.Errorf("encounter: %q defines no minions", parent.def.Name)
	}
	base := []Option{
		WithLogger(parent.log),
		WithRegistry(parent.registry),
		WithParent(parent.id),
	}
	m := New(def, body, hooks, append(base, opts...)...)
	m.slot = slot
	m.slots = parent.def.Minion.Count
	m.state.SyncedVolleys = parent.state.Volleys
	return m, nil
}

// standBy is the minion's tick while its parent runs a death timeline. A
// true death takes the minions with it; during a fake death they drop their
// attack and keep orbiting until the parent awakens.
func (e *Encounter) standBy() {
	if e.parent.state.Tag == StateTrueDeath {
		e.deactivate(RemoveParentLost)
		return
	}
	if e.state.Tag.attacking() {
		e.endAttack()
		return
	}
	e.held = true
	e.orbit(0.5)
}

// Minions reports how many minions the definition summons.
func (d *Definition) Minions() int {
	if d == nil || d.Minion == nil {
		return 0
	}
	return d.Minion.Count
}
