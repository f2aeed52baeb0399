package system

import (
	"fmt"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/milk9111/stride/ecs"
	"github.com/milk9111/stride/ecs/component"
	"github.com/milk9111/stride/locomotion"
)

// recentEvents caps the transition log shown under the character lines.
const recentEvents = 6

// OverlaySystem prints blend weights, foot signals and phases for each
// character while debug is on, followed by the latest transitions.
type OverlaySystem struct {
	recent []string
}

func NewOverlaySystem() *OverlaySystem {
	return &OverlaySystem{}
}

// Update drains the world's events into the transition log. It must run
// after the systems that push them.
func (o *OverlaySystem) Update(w *ecs.World) {
	if o == nil || w == nil {
		return
	}
	for _, evt := range w.Events().Drain() {
		line, ok := describeEvent(w, evt)
		if !ok {
			continue
		}
		o.recent = append(o.recent, line)
	}
	if n := len(o.recent); n > recentEvents {
		o.recent = append(o.recent[:0], o.recent[n-recentEvents:]...)
	}
}

// Recent returns the transition log, oldest first.
func (o *OverlaySystem) Recent() []string {
	if o == nil {
		return nil
	}
	return append([]string(nil), o.recent...)
}

func describeEvent(w *ecs.World, evt ecs.Event) (string, bool) {
	name := func(e ecs.Entity) string {
		if ch, ok := ecs.Get(w, e, component.CharacterComponent.Kind()); ok && ch.Name != "" {
			return ch.Name
		}
		return e.String()
	}
	switch data := evt.Data.(type) {
	case ecs.FootPhaseEvent:
		return fmt.Sprintf("%s %s foot %s -> %s", name(data.Entity), data.Foot, data.From, data.To), true
	case ecs.ActionEvent:
		if data.Clip == "" {
			return fmt.Sprintf("%s action %s -> %s", name(data.Entity), data.From, data.To), true
		}
		return fmt.Sprintf("%s action %s %s -> %s", name(data.Entity), data.Clip, data.From, data.To), true
	}
	return "", false
}

func (o *OverlaySystem) Draw(w *ecs.World, screen *ebiten.Image) {
	if o == nil || w == nil || screen == nil {
		return
	}
	scene, ok := singleton(w, component.SceneComponent)
	if !ok || !scene.Debug {
		return
	}
	var b strings.Builder
	if clock, ok := singleton(w, component.ClockComponent); ok {
		fmt.Fprintln(&b, clockLine(clock))
	}
	ecs.ForEach2(w, component.CharacterComponent.Kind(), component.DriveComponent.Kind(), func(e ecs.Entity, ch *component.Character, drive *component.Drive) {
		b.WriteString(DescribeCharacter(ch, drive))
	})
	for _, line := range o.recent {
		fmt.Fprintf(&b, "  > %s\n", line)
	}
	ebitenutil.DebugPrintAt(screen, b.String(), 8, 8)
}

func clockLine(c *component.Clock) string {
	switch {
	case c.Scrubbing:
		return fmt.Sprintf("scrub t=%.2f (tab: live, left/right: seek)", c.ScrubTime)
	case c.Paused:
		return fmt.Sprintf("paused t=%.2f (space: resume)", c.Time)
	default:
		return fmt.Sprintf("live t=%.2f (tab: scrub, m: manual, 1-5: actions)", c.Time)
	}
}

// DescribeCharacter renders one character's last evaluation as text.
func DescribeCharacter(ch *component.Character, drive *component.Drive) string {
	if ch == nil || ch.Controller == nil {
		return ""
	}
	var b strings.Builder
	mode := "script"
	if drive != nil && drive.Manual {
		mode = "manual"
	}
	vel := ""
	if drive != nil {
		vel = fmt.Sprintf(" v=(%.2f, %.2f)", drive.Velocity.X(), drive.Velocity.Y())
	}
	fmt.Fprintf(&b, "%s [%s]%s\n", ch.Name, mode, vel)

	clips := ch.Controller.Profile().Clips
	for i, wgt := range ch.Last.Weights {
		if wgt <= 0 || i >= len(clips) {
			continue
		}
		fmt.Fprintf(&b, "  %-14s %.2f\n", clips[i].Name, wgt)
	}

	st := ch.Controller.State()
	if st.Action != locomotion.ActionNone && st.ActionClip != nil {
		fmt.Fprintf(&b, "  action %s %s w=%.2f t=%.2f\n", st.ActionClip.Name, st.Action, st.ActionWeight, st.ActionTime)
	}

	s := ch.Last.Signals
	fmt.Fprintf(&b, "  feet L=%.2f %s R=%.2f %s hip=%.3f\n", s.LeftFoot, ch.Last.Feet[0].Phase, s.RightFoot, ch.Last.Feet[1].Phase, s.HipOffset)
	fmt.Fprintf(&b, "  root y=%.3f\n", ch.Last.Root.Position.Y())
	return b.String()
}
