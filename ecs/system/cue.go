package system

import (
	"github.com/milk9111/encounter/ecs"
	"github.com/milk9111/encounter/ecs/component"
	"github.com/milk9111/encounter/encounter"
	"go.uber.org/zap"
)

const (
	announcementFrames = 120
	cueLogLimit        = 8
)

// CueSystem turns encounter cues into camera shake, flashes, announcements
// and a rolling cue log. It drains the cues the boss system queued this tick.
type CueSystem struct {
	log *zap.Logger
}

func NewCueSystem(log *zap.Logger) *CueSystem {
	if log == nil {
		log = zap.NewNop()
	}
	return &CueSystem{log: log}
}

func (s *CueSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	events := w.Events().Drain(EventCue)
	if len(events) == 0 {
		return
	}
	hud := s.hud(w)
	for _, evt := range events {
		c, ok := evt.Data.(encounter.CueEvent)
		if !ok {
			continue
		}
		s.log.Debug("cue",
			zap.String("cue", string(c.Cue)),
			zap.String("name", c.Name),
			zap.Uint64("owner", uint64(c.Owner)),
		)
		s.record(w, hud, c)
		if c.Shake > 0 && c.Frames > 0 {
			requestShake(w, hud, c.Frames, c.Shake)
		}
		if c.Flash {
			_ = ecs.Add(w, ecs.Entity(c.Owner), component.WhiteFlashComponent.Kind(), &component.WhiteFlash{Frames: max(c.Frames, 6), Interval: 2})
		}
		if c.Text != "" {
			_ = ecs.Add(w, hud, component.AnnouncementComponent.Kind(), &component.Announcement{Text: c.Text, Frames: announcementFrames})
		}
	}
}

// hud returns the entity holding the cue log, creating it on first use.
func (s *CueSystem) hud(w *ecs.World) ecs.Entity {
	if e, ok := ecs.First(w, component.CueLogComponent.Kind()); ok {
		return e
	}
	e := ecs.CreateEntity(w)
	_ = ecs.Add(w, e, component.CueLogComponent.Kind(), &component.CueLog{Limit: cueLogLimit})
	return e
}

func (s *CueSystem) record(w *ecs.World, hud ecs.Entity, c encounter.CueEvent) {
	l, ok := ecs.Get(w, hud, component.CueLogComponent.Kind())
	if !ok {
		return
	}
	l.Entries = append(l.Entries, component.CueEntry{
		Tick:  w.Tick(),
		Owner: uint64(c.Owner),
		Cue:   string(c.Cue),
		Name:  c.Name,
	})
	if l.Limit > 0 && len(l.Entries) > l.Limit {
		l.Entries = l.Entries[len(l.Entries)-l.Limit:]
	}
}

// requestShake keeps the strongest pending shake on the hud entity.
func requestShake(w *ecs.World, hud ecs.Entity, frames int, intensity float64) {
	if req, ok := ecs.Get(w, hud, component.CameraShakeRequestComponent.Kind()); ok {
		req.Frames = max(req.Frames, frames)
		req.Intensity = max(req.Intensity, intensity)
		return
	}
	_ = ecs.Add(w, hud, component.CameraShakeRequestComponent.Kind(), &component.CameraShakeRequest{Frames: frames, Intensity: intensity})
}
