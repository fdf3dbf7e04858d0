package main

import (
	"errors"
	"fmt"
	"slices"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/encounter/config"
	"github.com/milk9111/encounter/ecs"
	"github.com/milk9111/encounter/ecs/component"
	"github.com/milk9111/encounter/ecs/system"
	"github.com/milk9111/encounter/encounter"
	"github.com/milk9111/encounter/prefabs"
	"github.com/milk9111/encounter/save"
	"go.uber.org/zap"
	"golang.design/x/clipboard"
	"gopkg.in/yaml.v3"
)

var errQuit = errors.New("quit")

const (
	attackReach  = 90
	attackDamage = 60
	attackEvery  = 12
)

type Game struct {
	cfg     *config.Config
	log     *zap.Logger
	store   *save.Store
	watcher *prefabs.Watcher
	palette *prefabs.PaletteSpec

	bosses   []string
	bossName string
	def      *encounter.Definition
	arena    *system.Arena
	player   ecs.Entity
	cooldown int

	ui        *ebitenui.UI
	paused    bool
	quit      bool
	clipboard bool
	status    string
	statusFor int
}

func NewGame(cfg *config.Config, log *zap.Logger) (*Game, error) {
	palette, err := prefabs.LoadPalette()
	if err != nil {
		return nil, err
	}
	g := &Game{
		cfg:      cfg,
		log:      log,
		store:    save.Open(cfg.Save.AppName, log),
		palette:  palette,
		bosses:   prefabs.BossNames(),
		bossName: cfg.Viewer.Boss,
	}
	if err := clipboard.Init(); err != nil {
		log.Warn("clipboard unavailable", zap.Error(err))
	} else {
		g.clipboard = true
	}
	if cfg.Viewer.HotReload {
		w, err := prefabs.NewWatcher()
		if err != nil {
			log.Warn("hot reload disabled", zap.String("dir", prefabs.Dir), zap.Error(err))
		} else {
			g.watcher = w
		}
	}
	if err := g.restart(); err != nil {
		return nil, err
	}
	g.ui = NewPauseUI(g)
	return g, nil
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
	prefabs.CloseBoss(g.def)
}

// restart reloads the current boss from disk and starts a fresh fight.
func (g *Game) restart() error {
	def, err := prefabs.LoadBoss(g.bossName)
	if err != nil {
		return err
	}
	prefabs.CloseBoss(g.def)
	g.def = def
	g.arena = system.NewArena(g.log, 1)
	g.player = system.SpawnPlayer(g.arena.World, cp.Vector{Y: 320}, g.cfg.Viewer.PlayerHP, nil)
	if _, err := g.arena.Bosses.SpawnBoss(g.arena.World, def, cp.Vector{}); err != nil {
		return err
	}
	g.notify(fmt.Sprintf("fighting %s", def.DisplayName))
	return nil
}

func (g *Game) nextBoss() {
	if len(g.bosses) == 0 {
		return
	}
	i := slices.Index(g.bosses, g.bossName)
	g.bossName = g.bosses[(i+1)%len(g.bosses)]
	g.tryRestart()
}

func (g *Game) tryRestart() {
	if err := g.restart(); err != nil {
		g.log.Error("restart failed", zap.String("boss", g.bossName), zap.Error(err))
		g.notify("reload failed: " + err.Error())
	}
}

func (g *Game) notify(msg string) {
	g.status = msg
	g.statusFor = 180
}

func (g *Game) Update() error {
	if g.quit {
		return errQuit
	}
	g.pollReload()
	if g.statusFor > 0 {
		g.statusFor--
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.paused = !g.paused
	}
	if g.paused {
		g.ui.Update()
		return nil
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		g.tryRestart()
	case inpututil.IsKeyJustPressed(ebiten.KeyN):
		g.nextBoss()
	case inpututil.IsKeyJustPressed(ebiten.KeyF5):
		g.saveFight()
	case inpututil.IsKeyJustPressed(ebiten.KeyF9):
		g.loadFight()
	case inpututil.IsKeyJustPressed(ebiten.KeyC):
		g.copySnapshot()
	case inpututil.IsKeyJustPressed(ebiten.KeyV):
		g.pasteSnapshot()
	}

	g.move()
	g.attack()
	g.arena.Update()
	return nil
}

func (g *Game) move() {
	pb, ok := ecs.Get(g.arena.World, g.player, component.PhysicsBodyComponent.Kind())
	if !ok || pb.Body == nil {
		return
	}
	if hp, ok := ecs.Get(g.arena.World, g.player, component.HealthComponent.Kind()); ok && hp.Dead() {
		pb.Body.SetVelocityVector(cp.Vector{})
		return
	}
	var dir cp.Vector
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		dir.Y--
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		dir.Y++
	}
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		dir.X--
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		dir.X++
	}
	if dir.Length() > 0 {
		dir = dir.Mult(1 / dir.Length())
	}
	pb.Body.SetVelocityVector(dir.Mult(g.cfg.Viewer.PlayerMove))
}

func (g *Game) attack() {
	if g.cooldown > 0 {
		g.cooldown--
		return
	}
	if !ebiten.IsKeyPressed(ebiten.KeySpace) {
		return
	}
	pb, ok := ecs.Get(g.arena.World, g.player, component.PhysicsBodyComponent.Kind())
	if !ok || pb.Body == nil {
		return
	}
	g.cooldown = attackEvery
	g.arena.Bosses.Damage(g.arena.World, pb.Body.Position(), attackReach, attackDamage)
}

// pollReload restarts the fight when the current boss or any weight script
// changes on disk.
func (g *Game) pollReload() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case change, ok := <-g.watcher.Changes:
			if !ok {
				g.watcher = nil
				return
			}
			if change.Script || change.Boss == g.bossName {
				g.log.Info("prefab changed, reloading", zap.String("path", change.Path))
				g.tryRestart()
			}
			if change.Boss != "" && !slices.Contains(g.bosses, change.Boss) {
				g.bosses = prefabs.BossNames()
			}
		case err, ok := <-g.watcher.Errors:
			if ok {
				g.log.Warn("prefab watcher", zap.Error(err))
			}
		default:
			return
		}
	}
}

func (g *Game) currentSave() (save.File, bool) {
	w := g.arena.World
	_, boss, ok := g.arena.Bosses.Primary(w)
	if !ok {
		return save.File{}, false
	}
	f := save.File{Tick: w.Tick(), Boss: boss.Encounter.Snapshot()}
	ecs.ForEach(w, component.BossComponent.Kind(), func(_ ecs.Entity, b *component.Boss) {
		if b.Minion {
			f.Minions = append(f.Minions, save.Minion{Slot: b.Slot, Snapshot: b.Encounter.Snapshot()})
		}
	})
	return f, true
}

func (g *Game) saveFight() {
	f, ok := g.currentSave()
	if !ok {
		g.notify("nothing to save")
		return
	}
	if err := g.store.Save(g.cfg.Save.Slot, f); err != nil {
		g.log.Error("save failed", zap.Error(err))
		g.notify("save failed")
		return
	}
	g.notify("saved to " + g.cfg.Save.Slot)
}

func (g *Game) loadFight() {
	f, ok, err := g.store.Load(g.cfg.Save.Slot)
	switch {
	case err != nil:
		g.log.Error("load failed", zap.Error(err))
		g.notify("load failed")
	case !ok:
		g.notify("no save in " + g.cfg.Save.Slot)
	default:
		g.apply(f)
	}
}

// apply restarts the fight for the saved boss and restores it.
func (g *Game) apply(f save.File) {
	if f.Boss.Definition != g.bossName {
		g.bossName = f.Boss.Definition
	}
	if err := g.restart(); err != nil {
		g.log.Error("restore failed", zap.Error(err))
		g.notify("restore failed")
		return
	}
	g.arena.Update()
	minions := make(map[int]encounter.Snapshot, len(f.Minions))
	for _, m := range f.Minions {
		minions[m.Slot] = m.Snapshot
	}
	if err := g.arena.Bosses.Restore(g.arena.World, f.Boss, minions); err != nil {
		g.log.Error("restore failed", zap.Error(err))
		g.notify("restore failed")
		return
	}
	g.notify(fmt.Sprintf("restored tick %d", f.Tick))
}

func (g *Game) copySnapshot() {
	if !g.clipboard {
		g.notify("clipboard unavailable")
		return
	}
	f, ok := g.currentSave()
	if !ok {
		return
	}
	data, err := yaml.Marshal(&f)
	if err != nil {
		g.log.Error("snapshot marshal failed", zap.Error(err))
		return
	}
	clipboard.Write(clipboard.FmtText, data)
	g.notify("snapshot copied")
}

func (g *Game) pasteSnapshot() {
	if !g.clipboard {
		g.notify("clipboard unavailable")
		return
	}
	var f save.File
	if err := yaml.Unmarshal(clipboard.Read(clipboard.FmtText), &f); err != nil || f.Boss.Definition == "" {
		g.notify("clipboard holds no snapshot")
		return
	}
	g.apply(f)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.cfg.Viewer.Width, g.cfg.Viewer.Height
}
