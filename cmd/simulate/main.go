package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/encounter/config"
	"github.com/milk9111/encounter/ecs"
	"github.com/milk9111/encounter/ecs/component"
	"github.com/milk9111/encounter/ecs/system"
	"github.com/milk9111/encounter/encounter"
	"github.com/milk9111/encounter/prefabs"
	"github.com/milk9111/encounter/save"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "path to a TOML config file")
	boss := flag.String("boss", "", "boss prefab to fight (overrides config)")
	ticks := flag.Int("ticks", -1, "ticks to simulate (overrides config)")
	seed := flag.Int64("seed", 0, "random seed (overrides config)")
	saveSlot := flag.String("save", "", "save the fight to this slot when the run ends")
	loadSlot := flag.String("load", "", "resume the fight saved in this slot")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *boss != "" {
		cfg.Sim.Boss = *boss
	}
	if *ticks >= 0 {
		cfg.Sim.Ticks = *ticks
	}
	if *seed != 0 {
		cfg.Sim.Seed = *seed
	}

	log, err := config.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log, *saveSlot, *loadSlot); err != nil {
		log.Error("simulation failed", zap.Error(err))
		os.Exit(1)
	}
}

type simulation struct {
	cfg    *config.Config
	log    *zap.Logger
	arena  *system.Arena
	player ecs.Entity
	boss   ecs.Entity
	store  *save.Store
	stats  stats
}

type stats struct {
	dealt      int
	maxBullets int
	moods      []string
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger, saveSlot, loadSlot string) error {
	prefabs.Dir = cfg.PrefabDir
	def, err := prefabs.LoadBoss(cfg.Sim.Boss)
	if err != nil {
		return err
	}
	defer prefabs.CloseBoss(def)

	sim := &simulation{cfg: cfg, log: log, arena: system.NewArena(log, cfg.Sim.Seed)}
	if !cfg.Sim.Authoritative {
		sim.arena.Bosses.Authoritative = func() bool { return false }
	}
	t := cfg.Sim.Target
	sim.player = system.SpawnPlayer(sim.arena.World, cp.Vector{X: t.Radius}, 100, &component.TargetPath{
		Mode:   t.Path,
		Radius: t.Radius,
		Speed:  t.Speed,
	})
	sim.boss, err = sim.arena.Bosses.SpawnBoss(sim.arena.World, def, cp.Vector{})
	if err != nil {
		return err
	}

	if saveSlot != "" || loadSlot != "" {
		sim.store = save.Open(cfg.Save.AppName, log)
	}
	if loadSlot != "" {
		if err := sim.load(loadSlot); err != nil {
			return err
		}
	}

	var tick <-chan time.Time
	if cfg.Sim.TickRate > 0 {
		ticker := time.NewTicker(cfg.Sim.TickRate)
		defer ticker.Stop()
		tick = ticker.C
	}

	start := time.Now()
	n := 0
	for ; n < cfg.Sim.Ticks; n++ {
		if tick != nil {
			select {
			case <-ctx.Done():
				return sim.finish(n, start, saveSlot)
			case <-tick:
			}
		} else if ctx.Err() != nil {
			break
		}
		sim.step(n)
		if saveSlot != "" && cfg.Sim.SnapshotEvery > 0 && n > 0 && n%cfg.Sim.SnapshotEvery == 0 {
			if err := sim.save(saveSlot); err != nil {
				return err
			}
		}
		if !ecs.IsAlive(sim.arena.World, sim.boss) {
			n++
			break
		}
	}
	return sim.finish(n, start, saveSlot)
}

func (s *simulation) step(n int) {
	w := s.arena.World
	sc := s.cfg.Sim
	if sc.Target.FleeAt > 0 && n == sc.Target.FleeAt {
		if path, ok := ecs.Get(w, s.player, component.TargetPathComponent.Kind()); ok {
			path.Mode = system.PathFlee
			path.Speed = 30
			s.log.Info("target fleeing", zap.Int("tick", n))
		}
	}
	if sc.Target.DieAt > 0 && n == sc.Target.DieAt {
		if hp, ok := ecs.Get(w, s.player, component.HealthComponent.Kind()); ok {
			hp.Current = 0
			s.log.Info("target killed", zap.Int("tick", n))
		}
	}
	if sc.DamageEvery > 0 && n > 0 && n%sc.DamageEvery == 0 {
		if _, boss, ok := s.arena.Bosses.Primary(w); ok {
			s.stats.dealt += s.arena.Bosses.Damage(w, boss.Encounter.Body().Position(), 1, sc.Damage)
		}
	}

	s.arena.Update()

	s.stats.maxBullets = max(s.stats.maxBullets, len(ecs.Query(w, component.ProjectileComponent.Kind())))
	if _, boss, ok := s.arena.Bosses.Primary(w); ok {
		mood := boss.Encounter.MoodName()
		if len(s.stats.moods) == 0 || s.stats.moods[len(s.stats.moods)-1] != mood {
			s.stats.moods = append(s.stats.moods, mood)
		}
		if n%60 == 0 {
			s.log.Debug("tick",
				zap.Int("tick", n),
				zap.Stringer("state", boss.Encounter.Tag()),
				zap.String("attack", boss.Encounter.AttackID()),
				zap.String("mood", mood),
				zap.Int("health", boss.Encounter.Health()),
			)
		}
	}
}

func (s *simulation) finish(n int, start time.Time, saveSlot string) error {
	fields := []zap.Field{
		zap.Int("ticks", n),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("damage_dealt", s.stats.dealt),
		zap.Int("peak_projectiles", s.stats.maxBullets),
		zap.Strings("moods", s.stats.moods),
	}
	if _, boss, ok := s.arena.Bosses.Primary(s.arena.World); ok {
		fields = append(fields,
			zap.Bool("boss_alive", true),
			zap.Int("boss_health", boss.Encounter.Health()),
			zap.Stringer("boss_state", boss.Encounter.Tag()),
		)
	} else {
		fields = append(fields, zap.Bool("boss_alive", false))
	}
	s.log.Info("simulation finished", fields...)
	if saveSlot == "" {
		return nil
	}
	return s.save(saveSlot)
}

func (s *simulation) save(slot string) error {
	w := s.arena.World
	_, boss, ok := s.arena.Bosses.Primary(w)
	if !ok {
		s.log.Warn("nothing to save, the boss is gone", zap.String("slot", slot))
		return nil
	}
	f := save.File{Tick: w.Tick(), Boss: boss.Encounter.Snapshot()}
	ecs.ForEach(w, component.BossComponent.Kind(), func(_ ecs.Entity, b *component.Boss) {
		if b.Minion {
			f.Minions = append(f.Minions, save.Minion{Slot: b.Slot, Snapshot: b.Encounter.Snapshot()})
		}
	})
	return s.store.Save(slot, f)
}

func (s *simulation) load(slot string) error {
	f, ok, err := s.store.Load(slot)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no save in slot %q", slot)
	}
	// Minions exist only after the boss's first update.
	s.arena.Update()
	minions := make(map[int]encounter.Snapshot, len(f.Minions))
	for _, m := range f.Minions {
		minions[m.Slot] = m.Snapshot
	}
	if err := s.arena.Bosses.Restore(s.arena.World, f.Boss, minions); err != nil {
		return fmt.Errorf("restore %q: %w", slot, err)
	}
	s.log.Info("fight restored", zap.String("slot", slot), zap.Int("saved_tick", f.Tick))
	return nil
}
