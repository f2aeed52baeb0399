package director

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

const testScript = `
update := func(engine, state, t) {
	if t < 1.0 {
		engine.move(0.0, 1.5)
	} else {
		engine.move(-1, 0)
		if !state.waved {
			engine.perform("wave")
			state.waved = true
		}
	}
}
`

func TestDirectorStep(t *testing.T) {
	d, err := New("test", []byte(testScript))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	cases := []struct {
		name    string
		t       float64
		vel     mgl64.Vec2
		actions []string
	}{
		{"walking", 0.5, mgl64.Vec2{0, 1.5}, nil},
		{"first_turn", 1.2, mgl64.Vec2{-1, 0}, []string{"wave"}},
		{"action_once", 1.4, mgl64.Vec2{-1, 0}, nil},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cmd, err := d.Step(c.t)
			if err != nil {
				t.Fatalf("Step: %v", err)
			}
			if cmd.Velocity != c.vel {
				t.Fatalf("velocity = %v, want %v", cmd.Velocity, c.vel)
			}
			if len(cmd.Actions) != len(c.actions) {
				t.Fatalf("actions = %v, want %v", cmd.Actions, c.actions)
			}
			for i := range c.actions {
				if cmd.Actions[i] != c.actions[i] {
					t.Fatalf("actions = %v, want %v", cmd.Actions, c.actions)
				}
			}
		})
	}

	d.Reset()
	cmd, err := d.Step(2)
	if err != nil {
		t.Fatalf("Step after reset: %v", err)
	}
	if len(cmd.Actions) != 1 {
		t.Fatalf("reset should forget script state, got actions %v", cmd.Actions)
	}
}

func TestDirectorRejectsBadScripts(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"syntax_error", "update := func(engine, state, t) {"},
		{"no_update", "x := 1"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := New(c.name, []byte(c.src)); err == nil {
				t.Fatalf("expected an error")
			}
		})
	}
}

func TestDirectorRuntimeError(t *testing.T) {
	d, err := New("boom", []byte(`update := func(engine, state, t) { x := [1][5] + 1 }`))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := d.Step(0); err == nil {
		t.Fatalf("expected a runtime error")
	}
}

func TestLoadEmbeddedScripts(t *testing.T) {
	for _, name := range []string{"stroll.tengo", "pace.tengo"} {
		t.Run(name, func(t *testing.T) {
			d, err := Load(name)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			cmd, err := d.Step(0.5)
			if err != nil {
				t.Fatalf("Step: %v", err)
			}
			if cmd.Velocity.Y() <= 0 {
				t.Fatalf("scripts should start by walking forward, got %v", cmd.Velocity)
			}
		})
	}
}
