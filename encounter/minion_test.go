package encounter

import (
	"testing"

	"github.com/jakecoffman/cp"
)

func minionDefinitionForTest() *Definition {
	return &Definition{
		Name:      "matriarch",
		MaxHealth: 600,
		MoveSpeed: 6,
		Moods: []Mood{{
			Name:         "only",
			Threshold:    1,
			IdleCooldown: 1,
			Pool:         []PoolEntry{{ID: "command"}},
		}},
		Patterns: []Pattern{
			{ID: "command", Kind: PatternMinionBarrage, Windup: 5, Recovery: 40},
		},
		Minion: &MinionDefinition{
			Count:        2,
			OrbitRadius:  120,
			OrbitSpeed:   0.05,
			IdleCooldown: 500,
			Pool:         []PoolEntry{{ID: "peck"}},
			Patterns:     []Pattern{{ID: "peck", Kind: PatternAimedVolley, Windup: 6, Spawn: Spawn{Count: 2, Speed: 8, Spread: 10}}},
			Volley:       "peck",
		},
	}
}

type brood struct {
	registry *Registry
	parent   *Encounter
	minions  []*Encounter
	rec      *recorder
	targets  *testTargets
}

func newBrood(t *testing.T, def *Definition) *brood {
	t.Helper()
	if err := def.Validate(); err != nil {
		t.Fatal(err)
	}
	b := &brood{
		registry: NewRegistry(),
		rec:      &recorder{},
		targets:  newTargets(cp.Vector{}, cp.Vector{}),
	}
	hooks := b.rec.hooks(b.targets)
	b.parent = New(def, &testBody{pos: cp.Vector{X: 0, Y: -300}}, hooks, WithRegistry(b.registry))
	for i := 0; i < def.Minions(); i++ {
		m, err := NewMinion(b.parent, i, &testBody{pos: cp.Vector{X: 0, Y: -300}}, hooks)
		if err != nil {
			t.Fatal(err)
		}
		b.minions = append(b.minions, m)
	}
	return b
}

func (b *brood) advance() {
	b.parent.Advance()
	for _, m := range b.minions {
		m.Advance()
	}
}

func TestMinionsRegisterWithParent(t *testing.T) {
	b := newBrood(t, minionDefinitionForTest())
	if b.registry.Len() != 3 {
		t.Fatalf("expected 3 registered encounters, got %d", b.registry.Len())
	}
	for i, m := range b.minions {
		id, ok := m.Parent()
		if !ok || id != b.parent.ID() {
			t.Fatalf("minion %d bound to %d", i, id)
		}
		if m.ID() == b.parent.ID() {
			t.Fatalf("minion shares the parent id")
		}
	}
}

func TestMinionDeactivatesWhenParentLost(t *testing.T) {
	cases := []struct {
		name string
		lose func(b *brood)
	}{
		{"unregistered", func(b *brood) { b.registry.Unregister(b.parent.ID()) }},
		{"killed", func(b *brood) { b.parent.Damage(10000) }},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			b := newBrood(t, minionDefinitionForTest())
			b.advance()
			c.lose(b)
			for _, m := range b.minions {
				m.Advance()
				if m.Active() {
					t.Fatalf("minion survived its parent")
				}
			}
			lost := 0
			for _, r := range b.rec.removed {
				if r == RemoveParentLost {
					lost++
				}
			}
			if lost != len(b.minions) {
				t.Fatalf("expected %d parent_lost removals, got %v", len(b.minions), b.rec.removed)
			}
		})
	}
}

func TestMinionNeverWritesParent(t *testing.T) {
	b := newBrood(t, minionDefinitionForTest())
	for i := 0; i < 120; i++ {
		b.parent.Advance()
		before := b.parent.State()
		health := b.parent.Health()
		for _, m := range b.minions {
			m.Advance()
		}
		if b.parent.State() != before || b.parent.Health() != health {
			t.Fatalf("tick %d: minion changed the parent", i)
		}
	}
}

func TestMinionsAnswerBarrage(t *testing.T) {
	b := newBrood(t, minionDefinitionForTest())
	for i := 0; i < 60 && b.parent.State().Volleys == 0; i++ {
		b.advance()
	}
	if b.parent.State().Volleys != 1 {
		t.Fatalf("expected one barrage, got %d", b.parent.State().Volleys)
	}
	for i := 0; i < 20; i++ {
		b.advance()
	}
	shots := 0
	for _, p := range b.rec.projectiles {
		if p.Owner != b.parent.ID() {
			shots++
		}
	}
	if shots != 4 {
		t.Fatalf("expected each minion to fire a volley of 2, got %d shots", shots)
	}
	for _, m := range b.minions {
		if m.State().SyncedVolleys != 1 {
			t.Fatalf("minion did not record the volley")
		}
		if m.State().LastAttackID != "" {
			t.Fatalf("a commanded volley is not a selection")
		}
	}
}

func TestMinionOrbitsParent(t *testing.T) {
	b := newBrood(t, minionDefinitionForTest())
	b.advance()
	b.advance()
	for i, m := range b.minions {
		body := m.Body().(*testBody)
		want := orbitPoint(b.parent.Body().Position(), i, 2, 120, 0.05, m.State().Age-1)
		if body.vel.Length() == 0 {
			t.Fatalf("minion %d not moving", i)
		}
		if body.vel.Dot(want.Sub(body.pos)) <= 0 {
			t.Fatalf("minion %d steering away from its orbit slot", i)
		}
	}
}

func TestNewMinionErrors(t *testing.T) {
	solo, _, _, _ := hovering(testDefinition())
	if _, err := NewMinion(solo, 0, &testBody{}, Hooks{}); err == nil {
		t.Fatalf("expected error without registry")
	}
	reg := NewRegistry()
	noMinions := New(testDefinition(), &testBody{}, Hooks{}, WithRegistry(reg))
	if _, err := NewMinion(noMinions, 0, &testBody{}, Hooks{}); err == nil {
		t.Fatalf("expected error without minion definition")
	}
	if _, err := NewMinion(nil, 0, &testBody{}, Hooks{}); err == nil {
		t.Fatalf("expected error without parent")
	}
}

func TestMinionsFollowParentIntoTrueDeath(t *testing.T) {
	def := minionDefinitionForTest()
	def.Death = DeathSpec{Duration: 60}
	b := newBrood(t, def)
	b.advance()
	b.parent.Damage(10000)
	if !b.parent.Dying() {
		t.Fatalf("expected the parent to start its death timeline")
	}
	b.advance()
	if !b.parent.Active() {
		t.Fatalf("parent should still be running its timeline")
	}
	for i, m := range b.minions {
		if m.Active() {
			t.Fatalf("minion %d kept fighting through the finale", i)
		}
	}
}

func TestMinionsStandByDuringFakeDeath(t *testing.T) {
	def := minionDefinitionForTest()
	def.Moods = append(def.Moods, Mood{Name: "reborn", AwakeningOnly: true, Pool: []PoolEntry{{ID: "command"}}})
	def.FakeDeath = FakeDeathSpec{Enabled: true, Duration: 30, RestoreFraction: 0.5, AwakeningMood: 1, AwakeningDuration: 10}
	b := newBrood(t, def)

	attacking := func() bool {
		for _, m := range b.minions {
			if m.Tag().attacking() {
				return true
			}
		}
		return false
	}
	for i := 0; i < 200 && !attacking(); i++ {
		b.advance()
	}
	if !attacking() {
		t.Fatalf("expected a minion volley before the fake death")
	}

	b.parent.Damage(10000)
	b.advance()
	spawned := len(b.rec.projectiles)
	for i := 0; b.parent.Dying(); i++ {
		if i > 100 {
			t.Fatalf("fake death never ended")
		}
		for j, m := range b.minions {
			if !m.Active() || m.Tag().attacking() {
				t.Fatalf("tick %d: minion %d active=%v state=%s during the fake death", i, j, m.Active(), m.Tag())
			}
		}
		b.advance()
	}
	if len(b.rec.projectiles) != spawned {
		t.Fatalf("minions fired %d projectiles during the fake death", len(b.rec.projectiles)-spawned)
	}
	for j, m := range b.minions {
		if !m.Active() {
			t.Fatalf("minion %d should survive a fake death", j)
		}
	}
}
