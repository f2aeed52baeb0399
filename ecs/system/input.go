package system

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/stride/ecs"
	"github.com/milk9111/stride/ecs/component"
)

const (
	walkSpeed     = 1.4
	runSpeed      = 3.5
	backSpeed     = 1.2
	strafeSpeed   = 1.2
	stickDeadzone = 0.2
)

var actionKeys = []ebiten.Key{ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4, ebiten.Key5}

// InputSystem maps keyboard and gamepad onto drives, the clock and the
// debug overlay.
type InputSystem struct{}

func NewInputSystem() *InputSystem {
	return &InputSystem{}
}

func (i *InputSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	clock, hasClock := singleton(w, component.ClockComponent)
	if hasClock {
		i.updateClock(clock)
	}
	if scene, ok := singleton(w, component.SceneComponent); ok && inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		scene.Debug = !scene.Debug
	}

	toggleManual := inpututil.IsKeyJustPressed(ebiten.KeyM)
	velocity := readVelocity()

	ecs.ForEach2(w, component.CharacterComponent.Kind(), component.DriveComponent.Kind(), func(e ecs.Entity, ch *component.Character, drive *component.Drive) {
		if toggleManual {
			drive.Manual = !drive.Manual
		}
		if drive.Manual {
			drive.Velocity = velocity
		}
		if ch.Controller == nil {
			return
		}
		actions := ch.Controller.Profile().Actions
		for k, key := range actionKeys {
			if k < len(actions) && inpututil.IsKeyJustPressed(key) {
				drive.Actions = append(drive.Actions, actions[k].Name)
			}
		}
	})
}

func (i *InputSystem) updateClock(clock *component.Clock) {
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		clock.Scrubbing = !clock.Scrubbing
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		clock.Paused = !clock.Paused
	}
	if !clock.Scrubbing {
		return
	}
	rate := clock.ScrubRate
	if rate <= 0 {
		rate = 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		rate *= 4
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) || ebiten.IsKeyPressed(ebiten.KeyD) {
		clock.ScrubTime += rate * clock.DT
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) || ebiten.IsKeyPressed(ebiten.KeyA) {
		clock.ScrubTime -= rate * clock.DT
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyHome) {
		clock.ScrubTime = 0
	}
}

// readVelocity returns the requested local velocity: x lateral, y forward.
func readVelocity() mgl64.Vec2 {
	var v mgl64.Vec2
	forward := ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp)
	back := ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown)
	left := ebiten.IsKeyPressed(ebiten.KeyQ)
	right := ebiten.IsKeyPressed(ebiten.KeyE)
	run := ebiten.IsKeyPressed(ebiten.KeyShift)

	switch {
	case forward && run:
		v[1] = runSpeed
	case forward:
		v[1] = walkSpeed
	case back:
		v[1] = -backSpeed
	}
	if left {
		v[0] -= strafeSpeed
	}
	if right {
		v[0] += strafeSpeed
	}

	if gamepads := ebiten.GamepadIDs(); len(gamepads) > 0 {
		id := gamepads[0]
		lx := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
		ly := -ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical)
		if math.Hypot(lx, ly) > stickDeadzone {
			speed := walkSpeed
			if ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonFrontBottomRight) {
				speed = runSpeed
			}
			v = mgl64.Vec2{lx * strafeSpeed, ly * speed}
		}
	}
	return v
}
