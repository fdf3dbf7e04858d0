package main

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/encounter/ecs"
	"github.com/milk9111/encounter/ecs/component"
	"github.com/milk9111/encounter/encounter"
	"github.com/milk9111/encounter/prefabs"
)

// view maps world coordinates to the screen.
type view struct {
	ox, oy float64
}

func (v view) at(p cp.Vector) (float32, float32) {
	return float32(p.X + v.ox), float32(p.Y + v.oy)
}

func colorOr(c *prefabs.YAMLColor, fallback color.Color) color.Color {
	if c == nil || c.Color == nil {
		return fallback
	}
	return c.Color
}

func (g *Game) Draw(screen *ebiten.Image) {
	w := g.arena.World
	screen.Fill(colorOr(g.palette.Background, color.NRGBA{R: 0x12, G: 0x12, B: 0x1a, A: 0xff}))

	v := view{ox: float64(g.cfg.Viewer.Width) / 2, oy: float64(g.cfg.Viewer.Height) / 2}
	if cam, ok := ecs.First(w, component.CameraComponent.Kind()); ok {
		c, _ := ecs.Get(w, cam, component.CameraComponent.Kind())
		v.ox += c.OffsetX - c.X
		v.oy += c.OffsetY - c.Y
	}

	g.drawTelegraphs(screen, v)
	g.drawProjectiles(screen, v)
	g.drawBosses(screen, v)
	g.drawPlayer(screen, v)
	g.drawHUD(screen)

	if g.paused {
		g.ui.Draw(screen)
	}
}

func (g *Game) drawTelegraphs(screen *ebiten.Image, v view) {
	clr := colorOr(g.palette.Telegraph, color.NRGBA{R: 0xff, G: 0x40, B: 0x40, A: 0xa0})
	ecs.ForEach(g.arena.World, component.TelegraphComponent.Kind(), func(_ ecs.Entity, t *component.Telegraph) {
		x, y := v.at(t.Position)
		r := float32(t.Radius)
		if r <= 0 {
			r = 80
		}
		width := float32(1 + 3*t.Progress)
		switch t.Kind {
		case encounter.TelegraphRing, encounter.TelegraphPoint:
			vector.StrokeCircle(screen, x, y, r*float32(t.Progress), width, clr, true)
			vector.StrokeCircle(screen, x, y, r, 1, clr, true)
		case encounter.TelegraphLine:
			end := t.Position.Add(cp.ForAngle(t.Angle).Mult(float64(r) * 4))
			ex, ey := v.at(end)
			vector.StrokeLine(screen, x, y, ex, ey, width, clr, true)
		case encounter.TelegraphCone:
			strokeArc(screen, t.Position, v, float64(r), t.Angle-t.Width/2, t.Angle+t.Width/2, width, clr, true)
		case encounter.TelegraphSafeArc:
			// Everything but the safe gap is dangerous.
			strokeArc(screen, t.Position, v, float64(r), t.Angle+t.Width/2, t.Angle+2*math.Pi-t.Width/2, width, clr, false)
		}
	})
}

// strokeArc draws an arc from a0 to a1 as line segments, optionally closed
// back to the center.
func strokeArc(screen *ebiten.Image, center cp.Vector, v view, r, a0, a1 float64, width float32, clr color.Color, closed bool) {
	const segments = 32
	prev := center.Add(cp.ForAngle(a0).Mult(r))
	if closed {
		cx, cy := v.at(center)
		px, py := v.at(prev)
		vector.StrokeLine(screen, cx, cy, px, py, width, clr, true)
	}
	for i := 1; i <= segments; i++ {
		a := a0 + (a1-a0)*float64(i)/segments
		next := center.Add(cp.ForAngle(a).Mult(r))
		px, py := v.at(prev)
		nx, ny := v.at(next)
		vector.StrokeLine(screen, px, py, nx, ny, width, clr, true)
		prev = next
	}
	if closed {
		cx, cy := v.at(center)
		px, py := v.at(prev)
		vector.StrokeLine(screen, px, py, cx, cy, width, clr, true)
	}
}

func (g *Game) drawProjectiles(screen *ebiten.Image, v view) {
	ecs.ForEach2(g.arena.World, component.ProjectileComponent.Kind(), component.PhysicsBodyComponent.Kind(), func(_ ecs.Entity, p *component.Projectile, pb *component.PhysicsBody) {
		clr := g.palette.Visual(p.Visual)
		pos := pb.Body.Position()
		x, y := v.at(pos)
		if p.Length > 0 {
			ex, ey := v.at(pos.Add(cp.ForAngle(p.Angle).Mult(p.Length)))
			vector.StrokeLine(screen, x, y, ex, ey, float32(p.Radius), clr, true)
			return
		}
		vector.FillCircle(screen, x, y, float32(p.Radius), clr, true)
	})
}

func (g *Game) drawBosses(screen *ebiten.Image, v view) {
	w := g.arena.World
	ecs.ForEach2(w, component.BossComponent.Kind(), component.PhysicsBodyComponent.Kind(), func(e ecs.Entity, b *component.Boss, pb *component.PhysicsBody) {
		clr := colorOr(g.palette.Boss, color.NRGBA{R: 0xe0, G: 0xe0, B: 0xff, A: 0xff})
		if b.Minion {
			clr = colorOr(g.palette.Minion, color.NRGBA{R: 0xa0, G: 0xc0, B: 0x60, A: 0xff})
		}
		if wf, ok := ecs.Get(w, e, component.WhiteFlashComponent.Kind()); ok && wf.On {
			clr = color.White
		}
		x, y := v.at(pb.Body.Position())
		vector.FillCircle(screen, x, y, float32(pb.Radius), clr, true)
		if b.Encounter.Enraged() {
			vector.StrokeCircle(screen, x, y, float32(pb.Radius)+6, 3, color.NRGBA{R: 0xff, A: 0xff}, true)
		}
	})
}

func (g *Game) drawPlayer(screen *ebiten.Image, v view) {
	w := g.arena.World
	pb, ok := ecs.Get(w, g.player, component.PhysicsBodyComponent.Kind())
	if !ok {
		return
	}
	clr := colorOr(g.palette.Player, color.NRGBA{R: 0x60, G: 0xd0, B: 0xff, A: 0xff})
	if wf, ok := ecs.Get(w, g.player, component.WhiteFlashComponent.Kind()); ok && wf.On {
		clr = color.White
	}
	x, y := v.at(pb.Body.Position())
	vector.FillCircle(screen, x, y, float32(pb.Radius), clr, true)
	vector.StrokeCircle(screen, x, y, attackReach, 1, color.NRGBA{R: 0x60, G: 0xd0, B: 0xff, A: 0x40}, true)
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	w := g.arena.World
	var lines []string
	if _, b, ok := g.arena.Bosses.Primary(w); ok {
		enc := b.Encounter
		width := float32(g.cfg.Viewer.Width - 40)
		vector.FillRect(screen, 20, 20, width, 10, color.NRGBA{R: 0x40, G: 0x40, B: 0x40, A: 0xff}, false)
		vector.FillRect(screen, 20, 20, width*float32(enc.HealthFraction()), 10, color.NRGBA{R: 0xd0, G: 0x30, B: 0x50, A: 0xff}, false)
		lines = append(lines,
			fmt.Sprintf("%s  %d/%d  mood %s", b.Definition.DisplayName, enc.Health(), enc.MaxHealth(), enc.MoodName()),
			fmt.Sprintf("state %s (%d)  attack %q", enc.Tag(), enc.Timer(), enc.AttackID()),
		)
	} else {
		lines = append(lines, "boss defeated: R to restart, N for the next boss")
	}
	if hp, ok := ecs.Get(w, g.player, component.HealthComponent.Kind()); ok {
		lines = append(lines, fmt.Sprintf("player %d/%d", hp.Current, hp.Max))
	}
	if hud, ok := ecs.First(w, component.CueLogComponent.Kind()); ok {
		l, _ := ecs.Get(w, hud, component.CueLogComponent.Kind())
		for _, c := range l.Entries {
			lines = append(lines, fmt.Sprintf("  %5d %s %s", c.Tick, c.Cue, c.Name))
		}
		if a, ok := ecs.Get(w, hud, component.AnnouncementComponent.Kind()); ok {
			ebitenutil.DebugPrintAt(screen, a.Text, g.cfg.Viewer.Width/2-len(a.Text)*3, g.cfg.Viewer.Height/3)
		}
	}
	if g.statusFor > 0 {
		lines = append(lines, g.status)
	}
	ebitenutil.DebugPrintAt(screen, strings.Join(lines, "\n"), 20, 36)
	ebitenutil.DebugPrintAt(screen, "WASD move  SPACE strike  F5/F9 save/load  C/V copy/paste  R restart  N next  ESC menu", 20, g.cfg.Viewer.Height-20)
}
