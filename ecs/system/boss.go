package system

import (
	"fmt"
	"math/rand"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/encounter/ecs"
	"github.com/milk9111/encounter/ecs/component"
	"github.com/milk9111/encounter/encounter"
	"go.uber.org/zap"
)

const (
	bossRadius   = 48
	minionRadius = 18
)

// BossSystem advances every encounter once per tick and bridges its hooks
// into the world.
type BossSystem struct {
	log      *zap.Logger
	registry *encounter.Registry
	seed     int64

	// Authoritative gates spawning. Nil means this host is authoritative.
	Authoritative func() bool

	telegraphs map[encounter.ID]ecs.Entity
}

func NewBossSystem(log *zap.Logger, seed int64) *BossSystem {
	if log == nil {
		log = zap.NewNop()
	}
	return &BossSystem{
		log:        log,
		registry:   encounter.NewRegistry(),
		seed:       seed,
		telegraphs: make(map[encounter.ID]ecs.Entity),
	}
}

func (s *BossSystem) Registry() *encounter.Registry {
	return s.registry
}

// SpawnBoss creates a boss entity at pos running def. Its minions are
// summoned on the boss's first update.
func (s *BossSystem) SpawnBoss(w *ecs.World, def *encounter.Definition, pos cp.Vector) (ecs.Entity, error) {
	if w == nil || def == nil {
		return 0, fmt.Errorf("spawn boss: nil world or definition")
	}
	e := ecs.CreateEntity(w)
	pb := NewBody(pos, bossRadius, false)
	if err := ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), pb); err != nil {
		return 0, fmt.Errorf("spawn boss: %w", err)
	}
	id := encounter.ID(e)
	enc := encounter.New(def, pb.Body, s.hooks(w, e), s.options(id)...)
	boss := &component.Boss{Definition: def, Encounter: enc}
	if err := ecs.Add(w, e, component.BossComponent.Kind(), boss); err != nil {
		return 0, fmt.Errorf("spawn boss: %w", err)
	}
	_ = ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: pos.X, Y: pos.Y})
	s.log.Info("boss spawned",
		zap.String("boss", def.Name),
		zap.Stringer("entity", e),
		zap.Int("minions", def.Minions()),
	)
	return e, nil
}

func (s *BossSystem) options(id encounter.ID) []encounter.Option {
	return []encounter.Option{
		encounter.WithID(id),
		encounter.WithRegistry(s.registry),
		encounter.WithLogger(s.log),
		encounter.WithRand(rand.New(rand.NewSource(s.seed + int64(id)))),
	}
}

func (s *BossSystem) summon(w *ecs.World, parent *component.Boss) {
	parent.Summoned = true
	def := parent.Definition
	for slot := 0; slot < def.Minions(); slot++ {
		e := ecs.CreateEntity(w)
		pos := parent.Encounter.Body().Position()
		pb := NewBody(pos, minionRadius, false)
		_ = ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), pb)
		m, err := encounter.NewMinion(parent.Encounter, slot, pb.Body, s.hooks(w, e), s.options(encounter.ID(e))...)
		if err != nil {
			s.log.Warn("minion summon failed", zap.String("boss", def.Name), zap.Int("slot", slot), zap.Error(err))
			ecs.DestroyEntity(w, e)
			continue
		}
		_ = ecs.Add(w, e, component.BossComponent.Kind(), &component.Boss{
			Definition: def,
			Encounter:  m,
			Minion:     true,
			Slot:       slot,
			Summoned:   true,
		})
		_ = ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: pos.X, Y: pos.Y})
	}
}

func (s *BossSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	ecs.ForEach(w, component.BossComponent.Kind(), func(e ecs.Entity, boss *component.Boss) {
		if boss.Encounter == nil || !boss.Encounter.Active() {
			return
		}
		if !boss.Minion && !boss.Summoned {
			s.summon(w, boss)
		}
		boss.Encounter.Advance()
	})
}

// Damage applies amount to every boss within reach of pos and returns how
// much health was removed in total.
func (s *BossSystem) Damage(w *ecs.World, pos cp.Vector, reach float64, amount int) int {
	total := 0
	ecs.ForEach2(w, component.BossComponent.Kind(), component.PhysicsBodyComponent.Kind(), func(e ecs.Entity, boss *component.Boss, pb *component.PhysicsBody) {
		if boss.Encounter == nil || pb.Body == nil {
			return
		}
		if pb.Body.Position().Distance(pos) > reach+pb.Radius {
			return
		}
		dealt := boss.Encounter.Damage(amount)
		if dealt <= 0 {
			return
		}
		total += dealt
		_ = ecs.Add(w, e, component.WhiteFlashComponent.Kind(), &component.WhiteFlash{Frames: 8, Interval: 2})
	})
	return total
}

// Primary returns the first non-minion encounter still in the world.
func (s *BossSystem) Primary(w *ecs.World) (ecs.Entity, *component.Boss, bool) {
	for _, e := range ecs.Query(w, component.BossComponent.Kind()) {
		boss, _ := ecs.Get(w, e, component.BossComponent.Kind())
		if !boss.Minion {
			return e, boss, true
		}
	}
	return 0, nil, false
}

// Restore replaces the state of the primary boss and its minions with a
// saved fight. Minion snapshots are matched by slot; a minion the save does
// not list was already gone when it was written and is dismissed.
func (s *BossSystem) Restore(w *ecs.World, boss encounter.Snapshot, minions map[int]encounter.Snapshot) error {
	_, primary, ok := s.Primary(w)
	if !ok {
		return fmt.Errorf("restore: no boss in the world")
	}
	if err := primary.Encounter.Restore(boss); err != nil {
		return err
	}
	var gone []*encounter.Encounter
	var err error
	ecs.ForEach(w, component.BossComponent.Kind(), func(e ecs.Entity, b *component.Boss) {
		if !b.Minion || b.Encounter == nil || err != nil {
			return
		}
		snap, ok := minions[b.Slot]
		if !ok || snap.State.Removed {
			gone = append(gone, b.Encounter)
			return
		}
		err = b.Encounter.Restore(snap)
	})
	if err != nil {
		return err
	}
	for _, enc := range gone {
		enc.Dismiss()
	}
	if len(gone) > 0 {
		s.log.Info("restore dismissed minions", zap.Int("count", len(gone)))
	}
	return nil
}
