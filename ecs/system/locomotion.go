package system

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/stride/ecs"
	"github.com/milk9111/stride/ecs/component"
	"github.com/milk9111/stride/footik"
	"github.com/milk9111/stride/ground"
	"github.com/milk9111/stride/locomotion"
	"github.com/milk9111/stride/timeline"
)

// climbHeight is how far above the root the terrain is sampled, so roots can
// climb steps up to this height.
const climbHeight = 0.5

// LocomotionSystem moves every character. In real time the drive velocity
// walks the base root over the terrain and advances the controller; while
// scrubbing, characters with a timeline are posed at the scrub time. Foot
// phase and action state changes are pushed to the world event queue.
type LocomotionSystem struct {
	previewing map[ecs.Entity]bool
	actions    map[ecs.Entity]locomotion.ActionState
}

func NewLocomotionSystem() *LocomotionSystem {
	return &LocomotionSystem{
		previewing: make(map[ecs.Entity]bool),
		actions:    make(map[ecs.Entity]locomotion.ActionState),
	}
}

func (s *LocomotionSystem) Update(w *ecs.World) {
	clock, ok := singleton(w, component.ClockComponent)
	if !ok {
		return
	}
	var terrain *ground.Terrain
	if scene, ok := singleton(w, component.SceneComponent); ok {
		terrain = scene.Terrain
	}

	ecs.ForEach2(w, component.CharacterComponent.Kind(), component.DriveComponent.Kind(), func(e ecs.Entity, ch *component.Character, drive *component.Drive) {
		if ch.Controller == nil {
			return
		}
		defer s.emitTransitions(w, e, ch, ch.Last.Feet)
		if clock.Scrubbing {
			if tl, ok := ecs.Get(w, e, component.TimelineComponent.Kind()); ok && tl.Timeline != nil {
				drive.Actions = drive.Actions[:0]
				s.previewing[e] = true
				ch.Last = scrub(ch.Controller, tl.Timeline, clock, terrain)
				return
			}
		}
		if s.previewing[e] {
			ch.Controller.ReleasePreview()
			delete(s.previewing, e)
		}

		dt := clock.DT
		if clock.Paused {
			dt = 0
		}
		for _, name := range drive.Actions {
			ch.Controller.PerformAction(name)
		}
		drive.Actions = drive.Actions[:0]

		advanceRoot(ch.Controller, drive.Velocity, dt, terrain)
		ch.Last = ch.Controller.UpdateLocomotion(drive.Velocity, dt)
	})
}

func (s *LocomotionSystem) emitTransitions(w *ecs.World, e ecs.Entity, ch *component.Character, prev [2]footik.FootState) {
	events := w.Events()
	for f := footik.Left; f <= footik.Right; f++ {
		from, to := prev[f].Phase, ch.Last.Feet[f].Phase
		if from == to {
			continue
		}
		events.Push(ecs.Event{
			Type: ecs.EventFootPhase,
			Data: ecs.FootPhaseEvent{Entity: e, Foot: f, From: from, To: to},
		})
	}

	st := ch.Controller.State()
	if from := s.actions[e]; from != st.Action {
		clip := ""
		if st.ActionClip != nil && st.Action != locomotion.ActionNone {
			clip = st.ActionClip.Name
		}
		events.Push(ecs.Event{
			Type: ecs.EventAction,
			Data: ecs.ActionEvent{Entity: e, Clip: clip, From: from, To: st.Action},
		})
		s.actions[e] = st.Action
	}
}

// advanceRoot moves the base root by v*dt, forward along world X and
// lateral along world Z, and settles it on the terrain.
func advanceRoot(c *locomotion.Controller, v mgl64.Vec2, dt float64, terrain *ground.Terrain) {
	base := c.BaseRoot()
	x := base.Position.X() + v.Y()*dt
	z := base.Position.Z() + v.X()*dt
	base.Position = mgl64.Vec3{x, groundHeight(terrain, x, base.Position.Y()), z}
	c.SetBaseRoot(base)
}

// scrub clamps the scrub time to the timeline and poses c there.
func scrub(c *locomotion.Controller, tl *timeline.Timeline, clock *component.Clock, terrain *ground.Terrain) locomotion.Result {
	if d := tl.Duration(c.Profile()); clock.ScrubTime > d {
		clock.ScrubTime = d
	}
	if clock.ScrubTime < 0 {
		clock.ScrubTime = 0
	}
	sample := tl.Path.Sample(clock.ScrubTime)
	base := c.BaseRoot()
	x := tl.Origin.X() + sample.Position.Y()
	base.Position = mgl64.Vec3{base.Position.X(), scrubHeight(terrain, x, tl.Origin.Y()), base.Position.Z()}
	c.SetBaseRoot(base)

	res, _ := tl.Apply(c, clock.ScrubTime)
	return res
}

// scrubHeight casts down from above the whole terrain so the root height at a
// scrub time never depends on where the previous scrub left it.
func scrubHeight(terrain *ground.Terrain, x, fallback float64) float64 {
	top, ok := terrain.Top()
	if !ok {
		return fallback
	}
	if h, ok := terrain.HeightAt(x, top+climbHeight); ok {
		return h
	}
	return fallback
}

func groundHeight(terrain *ground.Terrain, x, y float64) float64 {
	if terrain == nil {
		return y
	}
	if h, ok := terrain.HeightAt(x, y+climbHeight); ok {
		return h
	}
	return y
}
