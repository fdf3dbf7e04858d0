package system

import (
	"github.com/milk9111/encounter/ecs"
	"go.uber.org/zap"
)

// Arena is a world with the systems a boss fight needs, in update order.
type Arena struct {
	World     *ecs.World
	Scheduler *ecs.Scheduler
	Bosses    *BossSystem
	Physics   *PhysicsSystem
}

func NewArena(log *zap.Logger, seed int64) *Arena {
	a := &Arena{
		World:   ecs.NewWorld(),
		Bosses:  NewBossSystem(log, seed),
		Physics: NewPhysicsSystem(),
	}
	a.Scheduler = ecs.NewScheduler(
		NewTargetPathSystem(),
		a.Bosses,
		NewTelegraphSystem(),
		a.Physics,
		NewCombatSystem(log),
		NewCueSystem(log),
		NewCameraSystem(seed),
		NewWhiteFlashSystem(),
		NewTTLSystem(),
	)
	return a
}

func (a *Arena) Update() {
	a.Scheduler.Update(a.World)
}
