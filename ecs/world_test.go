package ecs

import (
	"errors"
	"testing"

	"github.com/milk9111/stride/ecs/component"
)

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
			if len(Entities(w)) != c.create {
				t.Fatalf("expected %d entities, got %d", c.create, len(Entities(w)))
			}
			if c.destroyIndex < 0 {
				return
			}
			e := ents[c.destroyIndex]
			if !DestroyEntity(w, e) {
				t.Fatalf("DestroyEntity should succeed for %v", e)
			}
			if IsAlive(w, e) {
				t.Fatalf("%v should be dead", e)
			}
			if DestroyEntity(w, e) {
				t.Fatalf("second DestroyEntity should fail")
			}
			if len(Entities(w)) != c.create-1 {
				t.Fatalf("expected %d entities after destroy", c.create-1)
			}
		})
	}
}

func TestEntitySlotReuseBumpsGeneration(t *testing.T) {
	w := NewWorld()
	old := CreateEntity(w)
	DestroyEntity(w, old)
	reused := CreateEntity(w)

	if reused.id() != old.id() {
		t.Fatalf("expected slot %d to be reused, got %d", old.id(), reused.id())
	}
	if reused.generation() == old.generation() {
		t.Fatalf("reused entity should have a new generation")
	}
	if IsAlive(w, old) {
		t.Fatalf("stale handle %v should not be alive", old)
	}
}

func TestAddGetRemove(t *testing.T) {
	w := NewWorld()
	speed := component.NewComponent[float64]()
	label := component.NewComponent[string]()
	e := CreateEntity(w)

	v := 1.5
	if err := Add(w, e, speed.Kind(), &v); err != nil {
		t.Fatalf("Add: %v", err)
	}
	got, ok := Get[float64](w, e, speed.Kind())
	if !ok || *got != 1.5 {
		t.Fatalf("Get = %v, %v", got, ok)
	}
	*got = 2
	if again, _ := Get[float64](w, e, speed.Kind()); *again != 2 {
		t.Fatalf("Get should return the stored pointer")
	}
	if Has[string](w, e, label.Kind()) {
		t.Fatalf("entity has no label")
	}
	if !Remove[float64](w, e, speed.Kind()) {
		t.Fatalf("Remove should report removal")
	}
	if Remove[float64](w, e, speed.Kind()) {
		t.Fatalf("second Remove should report nothing")
	}
}

func TestAddErrors(t *testing.T) {
	w := NewWorld()
	kind := component.NewComponent[int]().Kind()
	dead := CreateEntity(w)
	DestroyEntity(w, dead)
	alive := CreateEntity(w)
	one := 1

	cases := []struct {
		name string
		e    Entity
		kind component.ComponentKind[int]
		v    *int
		want error
	}{
		{"dead_entity", dead, kind, &one, component.ErrEntityNotAlive},
		{"nil_value", alive, kind, nil, component.ErrNilComponent},
		{"zero_kind", alive, component.ComponentKind[int]{}, &one, component.ErrInvalidComponentKind},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if err := Add(w, c.e, c.kind, c.v); !errors.Is(err, c.want) {
				t.Fatalf("expected %v, got %v", c.want, err)
			}
		})
	}
}

func TestDestroyClearsComponents(t *testing.T) {
	w := NewWorld()
	kind := component.NewComponent[int]().Kind()
	e := CreateEntity(w)
	v := 7
	if err := Add(w, e, kind, &v); err != nil {
		t.Fatalf("Add: %v", err)
	}
	DestroyEntity(w, e)
	reused := CreateEntity(w)
	if Has[int](w, reused, kind) {
		t.Fatalf("reused slot should not inherit components")
	}
	count := 0
	ForEach(w, kind, func(Entity, *int) { count++ })
	if count != 0 {
		t.Fatalf("destroyed entity still visited")
	}
}

func TestQueries(t *testing.T) {
	w := NewWorld()
	ka := component.NewComponent[int]().Kind()
	kb := component.NewComponent[int]().Kind()
	kc := component.NewComponent[int]().Kind()
	kd := component.NewComponent[int]().Kind()

	// e1 has a, e2 has a-d, e3 has a-c.
	e1, e2, e3 := CreateEntity(w), CreateEntity(w), CreateEntity(w)
	add := func(e Entity, kinds ...component.ComponentKind[int]) {
		for i, k := range kinds {
			v := i
			if err := Add(w, e, k, &v); err != nil {
				t.Fatalf("Add: %v", err)
			}
		}
	}
	add(e1, ka)
	add(e2, ka, kb, kc, kd)
	add(e3, ka, kb, kc)

	collect := func(run func(func(Entity))) map[Entity]bool {
		got := map[Entity]bool{}
		run(func(e Entity) { got[e] = true })
		return got
	}

	cases := []struct {
		name string
		run  func(func(Entity))
		want []Entity
	}{
		{"one", func(f func(Entity)) { ForEach(w, ka, func(e Entity, _ *int) { f(e) }) }, []Entity{e1, e2, e3}},
		{"two", func(f func(Entity)) { ForEach2(w, ka, kb, func(e Entity, _, _ *int) { f(e) }) }, []Entity{e2, e3}},
		{"three", func(f func(Entity)) { ForEach3(w, ka, kb, kc, func(e Entity, _, _, _ *int) { f(e) }) }, []Entity{e2, e3}},
		{"four", func(f func(Entity)) { ForEach4(w, ka, kb, kc, kd, func(e Entity, _, _, _, _ *int) { f(e) }) }, []Entity{e2}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := collect(c.run)
			if len(got) != len(c.want) {
				t.Fatalf("got %v, want %v", got, c.want)
			}
			for _, e := range c.want {
				if !got[e] {
					t.Fatalf("missing %v in %v", e, got)
				}
			}
		})
	}

	if first, ok := First(w, kd); !ok || first != e2 {
		t.Fatalf("First = %v, %v", first, ok)
	}
	if _, ok := First(w, component.NewComponent[string]().Kind()); ok {
		t.Fatalf("First on an unused kind should fail")
	}
}

func TestForEachAllowsRemoval(t *testing.T) {
	w := NewWorld()
	kind := component.NewComponent[int]().Kind()
	for i := 0; i < 4; i++ {
		v := i
		_ = Add(w, CreateEntity(w), kind, &v)
	}
	visited := 0
	ForEach(w, kind, func(e Entity, _ *int) {
		visited++
		Remove[int](w, e, kind)
	})
	if visited != 4 {
		t.Fatalf("visited %d, want 4", visited)
	}
	if _, ok := First(w, kind); ok {
		t.Fatalf("all components should be removed")
	}
}

type recordSystem struct {
	name string
	log  *[]string
}

func (s recordSystem) Update(*World) { *s.log = append(*s.log, s.name) }

func TestSystemsRunInOrder(t *testing.T) {
	w := NewWorld()
	var log []string
	w.AddSystem(recordSystem{"a", &log})
	w.AddSystem(nil)
	w.AddSystem(recordSystem{"b", &log})
	w.Update()
	w.Update()

	want := []string{"a", "b", "a", "b"}
	if len(log) != len(want) {
		t.Fatalf("log = %v, want %v", log, want)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Fatalf("log = %v, want %v", log, want)
		}
	}
	if len(w.Systems()) != 2 {
		t.Fatalf("nil systems should be skipped")
	}
}

type systemFunc func(*World)

func (f systemFunc) Update(w *World) { f(w) }

func TestEventsReachLaterSystemsThenFlush(t *testing.T) {
	w := NewWorld()
	var seen []Event
	w.AddSystem(systemFunc(func(w *World) {
		w.Events().Push(Event{Type: EventAction, Data: ActionEvent{Clip: "wave"}})
	}))
	w.AddSystem(systemFunc(func(w *World) {
		seen = append(seen, w.Events().Drain()...)
	}))
	w.AddSystem(systemFunc(func(w *World) {
		w.Events().Push(Event{Type: EventFootPhase})
	}))

	w.Update()
	if len(seen) != 1 || seen[0].Type != EventAction {
		t.Fatalf("seen = %+v, want one action event", seen)
	}
	if got := w.Events().Drain(); got != nil {
		t.Fatalf("events pushed after the drain should be flushed, got %+v", got)
	}

	var nilQueue *EventQueue
	nilQueue.Push(Event{Type: EventAction})
	if nilQueue.Drain() != nil {
		t.Fatalf("nil queue should drain nothing")
	}
}
