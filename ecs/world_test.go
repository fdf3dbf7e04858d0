package ecs

import (
	"errors"
	"testing"

	"github.com/milk9111/encounter/ecs/component"
)

func intPtr(i int) *int {
	return &i
}

func TestEntityLifecycle(t *testing.T) {
	cases := []struct {
		name         string
		create       int
		destroyIndex int // -1 = none
	}{
		{"single", 1, 0},
		{"three_destroy_middle", 3, 1},
		{"none_destroyed", 2, -1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := NewWorld()
			ents := make([]Entity, 0, c.create)
			for i := 0; i < c.create; i++ {
				ents = append(ents, CreateEntity(w))
			}
			want := c.create
			if c.destroyIndex >= 0 {
				if !DestroyEntity(w, ents[c.destroyIndex]) {
					t.Fatalf("DestroyEntity should return true for a live entity")
				}
				if IsAlive(w, ents[c.destroyIndex]) {
					t.Fatalf("entity should not be alive after destruction")
				}
				if DestroyEntity(w, ents[c.destroyIndex]) {
					t.Fatalf("destroying twice should return false")
				}
				want--
			}
			if got := len(Entities(w)); got != want {
				t.Fatalf("expected %d entities, got %d", want, got)
			}
		})
	}
}

func TestStaleHandleAfterReuse(t *testing.T) {
	w := NewWorld()
	k := component.NewComponentKind[int]()
	old := CreateEntity(w)
	if err := Add(w, old, k, intPtr(1)); err != nil {
		t.Fatal(err)
	}
	DestroyEntity(w, old)

	reused := CreateEntity(w)
	if reused.id() != old.id() {
		t.Fatalf("expected slot reuse")
	}
	if reused == old {
		t.Fatalf("reused handle must differ by generation")
	}
	if Has(w, reused, k) {
		t.Fatalf("components must not survive destruction")
	}
	if err := Add(w, old, k, intPtr(2)); !errors.Is(err, component.ErrEntityNotAlive) {
		t.Fatalf("expected ErrEntityNotAlive for stale handle, got %v", err)
	}
}

func TestComponentErrors(t *testing.T) {
	w := NewWorld()
	e := CreateEntity(w)
	cases := []struct {
		name string
		err  error
		want error
	}{
		{"nil_value", Add(w, e, component.NewComponentKind[int](), nil), component.ErrNilComponent},
		{"zero_kind", Add(w, e, component.ComponentKind[int]{}, intPtr(1)), component.ErrInvalidComponentKind},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if !errors.Is(c.err, c.want) {
				t.Fatalf("expected %v, got %v", c.want, c.err)
			}
		})
	}
}

func TestComponentsAndQueries(t *testing.T) {
	w := NewWorld()
	ints := component.NewComponent[int]()
	strs := component.NewComponent[string]()

	e1 := CreateEntity(w)
	e2 := CreateEntity(w)
	e3 := CreateEntity(w)

	a, b := "a", "b"
	_ = Add(w, e1, ints.Kind(), intPtr(10))
	_ = Add(w, e1, strs.Kind(), &a)
	_ = Add(w, e2, strs.Kind(), &b)
	_ = Add(w, e3, ints.Kind(), intPtr(30))

	v, ok := Get(w, e1, ints.Kind())
	if !ok || *v != 10 {
		t.Fatalf("expected 10, got %v ok=%v", v, ok)
	}
	*v = 11
	if v2, _ := Get(w, e1, ints.Kind()); *v2 != 11 {
		t.Fatalf("components are stored by pointer")
	}

	both := Query(w, ints.Kind(), strs.Kind())
	if len(both) != 1 || both[0] != e1 {
		t.Fatalf("expected only e1, got %v", both)
	}
	if first, ok := First(w, ints.Kind()); !ok || first != e1 {
		t.Fatalf("First should return the lowest slot, got %v", first)
	}

	if !Remove(w, e1, strs.Kind()) {
		t.Fatalf("remove should report success")
	}
	if Remove(w, e1, strs.Kind()) {
		t.Fatalf("second remove should report false")
	}
	if got := Query(w, ints.Kind(), strs.Kind()); len(got) != 0 {
		t.Fatalf("expected empty intersection, got %v", got)
	}
}

func TestForEachAllowsMutation(t *testing.T) {
	w := NewWorld()
	k := component.NewComponentKind[int]()
	var ents []Entity
	for i := 0; i < 5; i++ {
		e := CreateEntity(w)
		ents = append(ents, e)
		_ = Add(w, e, k, intPtr(i))
	}
	visited := 0
	ForEach(w, k, func(e Entity, v *int) {
		visited++
		if *v%2 == 0 {
			DestroyEntity(w, e)
		}
	})
	if visited != 5 {
		t.Fatalf("expected every entity visited once, got %d", visited)
	}
	if got := len(Query(w, k)); got != 2 {
		t.Fatalf("expected 2 survivors, got %d", got)
	}
}

func TestForEach3(t *testing.T) {
	tests := []struct {
		name string
		run  func(t *testing.T)
	}{
		{
			name: "intersection",
			run: func(t *testing.T) {
				w := NewWorld()
				e1, e2, e3 := CreateEntity(w), CreateEntity(w), CreateEntity(w)
				ka := component.NewComponentKind[int]()
				kb := component.NewComponentKind[int]()
				kc := component.NewComponentKind[int]()

				_ = Add(w, e1, ka, intPtr(1))
				_ = Add(w, e2, ka, intPtr(2))
				_ = Add(w, e2, kb, intPtr(3))
				_ = Add(w, e2, kc, intPtr(5))
				_ = Add(w, e3, kb, intPtr(4))

				var res []Entity
				ForEach3(w, ka, kb, kc, func(e Entity, _ *int, _ *int, _ *int) { res = append(res, e) })
				if len(res) != 1 || res[0] != e2 {
					t.Fatalf("expected only e2, got %v", res)
				}
			},
		},
		{
			name: "ignores_dead_entities",
			run: func(t *testing.T) {
				w := NewWorld()
				e := CreateEntity(w)
				ka := component.NewComponentKind[int]()
				kb := component.NewComponentKind[int]()
				kc := component.NewComponentKind[int]()
				_ = Add(w, e, ka, intPtr(1))
				_ = Add(w, e, kb, intPtr(2))
				_ = Add(w, e, kc, intPtr(3))
				DestroyEntity(w, e)

				var res []Entity
				ForEach3(w, ka, kb, kc, func(e Entity, _ *int, _ *int, _ *int) { res = append(res, e) })
				if len(res) != 0 {
					t.Fatalf("expected empty result after destroy, got %v", res)
				}
			},
		},
		{
			name: "missing_store",
			run: func(t *testing.T) {
				w := NewWorld()
				e := CreateEntity(w)
				ka := component.NewComponentKind[int]()
				_ = Add(w, e, ka, intPtr(1))

				var res []Entity
				ForEach3(w, ka, component.NewComponentKind[int](), component.NewComponentKind[int](), func(e Entity, _ *int, _ *int, _ *int) { res = append(res, e) })
				if len(res) != 0 {
					t.Fatalf("expected empty when another store is missing, got %v", res)
				}
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, tc.run)
	}
}

type countingSystem struct {
	ticks []int
}

func (s *countingSystem) Update(w *World) {
	s.ticks = append(s.ticks, w.Tick())
	w.Events().Push(Event{Type: "noise"})
}

func TestSchedulerTicksAndFlushesEvents(t *testing.T) {
	w := NewWorld()
	sys := &countingSystem{}
	s := NewScheduler(nil, sys)
	s.Update(w)
	s.Update(w)
	if len(sys.ticks) != 2 || sys.ticks[0] != 0 || sys.ticks[1] != 1 {
		t.Fatalf("unexpected ticks %v", sys.ticks)
	}
	if w.Tick() != 2 {
		t.Fatalf("expected tick 2, got %d", w.Tick())
	}
	if w.Events().Len() != 0 {
		t.Fatalf("events must not outlive a tick")
	}
	if len(s.Systems()) != 1 {
		t.Fatalf("nil systems are skipped")
	}
}

func TestDrainKeepsOtherEvents(t *testing.T) {
	var q EventQueue
	q.Push(Event{Type: "a", Data: 1})
	q.Push(Event{Type: "b", Data: 2})
	q.Push(Event{Type: "a", Data: 3})
	got := q.Drain("a")
	if len(got) != 2 || got[0].Data != 1 || got[1].Data != 3 {
		t.Fatalf("unexpected drained events %v", got)
	}
	if q.Len() != 1 {
		t.Fatalf("expected one event left, got %d", q.Len())
	}
}
