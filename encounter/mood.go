package encounter

import (
	"go.uber.org/zap"
)

// Mood is a health-driven macro state. Moods are ordered; an encounter only
// ever moves forward through them.
type Mood struct {
	Name          string      `yaml:"name"`
	Threshold     float64     `yaml:"threshold"`
	AwakeningOnly bool        `yaml:"awakening_only"`
	IdleCooldown  int         `yaml:"idle_cooldown"`
	Movement      Movement    `yaml:"movement"`
	WindupScale   float64     `yaml:"windup_scale"`
	DensityScale  float64     `yaml:"density_scale"`
	Pool          []PoolEntry `yaml:"pool"`
	WeightScript  string      `yaml:"weight_script"`
	Announce      Announce    `yaml:"announce"`

	// Script is compiled from WeightScript by the loader.
	Script WeightScript `yaml:"-"`
}

// Movement is the per-mood movement tuning.
type Movement struct {
	Speed            float64 `yaml:"speed"`
	Blend            float64 `yaml:"blend"`
	HoverDistance    float64 `yaml:"hover_distance"`
	HoverWidth       float64 `yaml:"hover_width"`
	HoverHeight      float64 `yaml:"hover_height"`
	HoverPeriod      int     `yaml:"hover_period"`
	RepositionRadius float64 `yaml:"reposition_radius"`
	OrbitRadius      float64 `yaml:"orbit_radius"`
	OrbitSpeed       float64 `yaml:"orbit_speed"`
}

// Announce is the one-shot choreography played when a mood is entered.
type Announce struct {
	Text   string  `yaml:"text"`
	Shake  float64 `yaml:"shake"`
	Frames int     `yaml:"frames"`
}

func (m *Mood) applyDefaults() {
	if m.IdleCooldown <= 0 {
		m.IdleCooldown = 60
	}
	if m.WindupScale <= 0 {
		m.WindupScale = 1
	}
	if m.DensityScale <= 0 {
		m.DensityScale = 1
	}
	mv := &m.Movement
	if mv.Blend <= 0 || mv.Blend > 1 {
		mv.Blend = 0.1
	}
	if mv.HoverDistance <= 0 {
		mv.HoverDistance = 300
	}
	if mv.HoverWidth <= 0 {
		mv.HoverWidth = 200
	}
	if mv.HoverHeight <= 0 {
		mv.HoverHeight = 60
	}
	if mv.HoverPeriod <= 0 {
		mv.HoverPeriod = 240
	}
	if mv.RepositionRadius <= 0 {
		mv.RepositionRadius = mv.HoverDistance
	}
}

// restingMood stands in for a definition that never declared a mood.
var restingMood = Mood{Name: "resting"}

func (e *Encounter) mood() *Mood {
	moods := e.def.Moods
	if len(moods) == 0 {
		return &restingMood
	}
	if e.state.Mood < 0 || e.state.Mood >= len(moods) {
		return &moods[len(moods)-1]
	}
	return &moods[e.state.Mood]
}

// updateMood advances through every mood whose threshold the current health
// fraction has reached. Awakening-only moods stop the walk.
func (e *Encounter) updateMood() {
	if len(e.def.Moods) == 0 {
		return
	}
	if !e.state.announced(e.state.Mood) {
		e.announce(e.state.Mood)
	}
	frac := e.HealthFraction()
	moods := e.def.Moods
	for e.state.Mood+1 < len(moods) {
		next := &moods[e.state.Mood+1]
		if next.AwakeningOnly || frac > next.Threshold {
			return
		}
		e.enterMood(e.state.Mood + 1)
	}
}

// enterMood moves to idx if it is ahead of the current mood and plays its
// announcement the first time it is reached.
func (e *Encounter) enterMood(idx int) {
	if idx <= e.state.Mood || idx >= len(e.def.Moods) {
		return
	}
	prev := e.state.Mood
	e.state.Mood = idx
	e.log.Info("mood changed",
		zap.String("encounter", e.def.Name),
		zap.String("from", e.def.Moods[prev].Name),
		zap.String("to", e.def.Moods[idx].Name),
		zap.Float64("health_fraction", e.HealthFraction()),
	)
	if !e.state.announced(idx) {
		e.announce(idx)
	}
}

func (e *Encounter) announce(idx int) {
	e.state.latchAnnounced(idx)
	m := &e.def.Moods[idx]
	e.hooks.cue(CueEvent{
		Owner:    e.id,
		Cue:      CuePhaseTransition,
		Name:     m.Name,
		Position: e.body.Position(),
		Shake:    m.Announce.Shake,
		Frames:   m.Announce.Frames,
		Text:     m.Announce.Text,
	})
}
