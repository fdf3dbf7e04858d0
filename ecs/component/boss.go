package component

import "github.com/milk9111/encounter/encounter"

// Boss carries a running encounter. Minions use the same component with
// Minion set.
type Boss struct {
	Definition *encounter.Definition
	Encounter  *encounter.Encounter
	Minion     bool
	Slot       int
	// Summoned latches once the boss has spawned its minions.
	Summoned bool
}

var BossComponent = NewComponent[Boss]()
