package director

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/stride/prefabs"
)

var ErrNoUpdate = errors.New("director: script does not define update")

// Command is what a script asked for during one step.
type Command struct {
	Velocity mgl64.Vec2
	Actions  []string
}

// Director runs a tengo script that steers a character in real time. The
// script defines update(engine, state, t); engine exposes move(x, y),
// perform(name) and log(msg). state persists between steps.
type Director struct {
	name     string
	compiled *tengo.Compiled
	state    *tengo.Map
	engine   *tengo.ImmutableMap

	velocity mgl64.Vec2
	pending  []string
}

const updateDispatchScript = `
if __run {
	update(__engine, __state, __time)
}
`

// Load compiles a script from prefabs/scripts.
func Load(name string) (*Director, error) {
	src, err := prefabs.LoadScript(name)
	if err != nil {
		return nil, fmt.Errorf("director: load %s: %w", name, err)
	}
	return New(name, src)
}

// New compiles src. The script body runs once so update is known to exist.
func New(name string, src []byte) (*Director, error) {
	script := tengo.NewScript([]byte(string(src) + "\n" + updateDispatchScript))
	_ = script.Add("__run", false)
	_ = script.Add("__engine", map[string]any{})
	_ = script.Add("__state", map[string]any{})
	_ = script.Add("__time", 0.0)
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("director: compile %s: %w", name, err)
	}

	d := &Director{
		name:     name,
		compiled: compiled,
		state:    &tengo.Map{Value: map[string]tengo.Object{}},
	}
	d.engine = d.buildEngine()

	if err := compiled.Run(); err != nil {
		return nil, fmt.Errorf("director: run %s: %w", name, err)
	}
	if !compiled.IsDefined("update") {
		return nil, fmt.Errorf("%w: %s", ErrNoUpdate, name)
	}
	return d, nil
}

func (d *Director) Name() string {
	if d == nil {
		return ""
	}
	return d.name
}

// Step runs update at time t. Velocity persists until the script changes it;
// actions are reported once.
func (d *Director) Step(t float64) (Command, error) {
	if d == nil || d.compiled == nil {
		return Command{}, nil
	}
	d.pending = d.pending[:0]

	if err := d.compiled.Set("__run", true); err != nil {
		return Command{}, err
	}
	if err := d.compiled.Set("__engine", d.engine); err != nil {
		return Command{}, err
	}
	if err := d.compiled.Set("__state", d.state); err != nil {
		return Command{}, err
	}
	if err := d.compiled.Set("__time", t); err != nil {
		return Command{}, err
	}
	if err := d.compiled.Run(); err != nil {
		return Command{}, fmt.Errorf("director: %s update: %w", d.name, err)
	}

	return Command{
		Velocity: d.velocity,
		Actions:  append([]string(nil), d.pending...),
	}, nil
}

// Reset forgets script state and the last velocity.
func (d *Director) Reset() {
	if d == nil {
		return
	}
	d.state = &tengo.Map{Value: map[string]tengo.Object{}}
	d.velocity = mgl64.Vec2{}
	d.pending = d.pending[:0]
}

func (d *Director) buildEngine() *tengo.ImmutableMap {
	values := map[string]tengo.Object{}

	values["move"] = &tengo.UserFunction{Name: "move", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 2 {
			return tengo.FalseValue, nil
		}
		x, okX := objectAsFloat(args[0])
		y, okY := objectAsFloat(args[1])
		if !okX || !okY {
			return tengo.FalseValue, nil
		}
		d.velocity = mgl64.Vec2{x, y}
		return tengo.TrueValue, nil
	}}

	values["perform"] = &tengo.UserFunction{Name: "perform", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.FalseValue, nil
		}
		name := strings.TrimSpace(objectAsString(args[0]))
		if name == "" {
			return tengo.FalseValue, nil
		}
		d.pending = append(d.pending, name)
		return tengo.TrueValue, nil
	}}

	values["log"] = &tengo.UserFunction{Name: "log", Value: func(args ...tengo.Object) (tengo.Object, error) {
		parts := make([]string, 0, len(args))
		for _, a := range args {
			parts = append(parts, objectAsString(a))
		}
		log.Printf("Director[%s]: %s", d.name, strings.Join(parts, " "))
		return tengo.UndefinedValue, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}

func objectAsString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	default:
		return strings.Trim(v.String(), "\"")
	}
}

func objectAsFloat(obj tengo.Object) (float64, bool) {
	switch v := obj.(type) {
	case *tengo.Float:
		return v.Value, true
	case *tengo.Int:
		return float64(v.Value), true
	default:
		return 0, false
	}
}
