package system_test

import (
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/stride/director"
	"github.com/milk9111/stride/ecs"
	"github.com/milk9111/stride/ecs/component"
	"github.com/milk9111/stride/ecs/entity"
	"github.com/milk9111/stride/ecs/system"
	"github.com/milk9111/stride/footik"
	"github.com/milk9111/stride/locomotion"
	"github.com/milk9111/stride/prefabs"
)

type fixture struct {
	w      *ecs.World
	v      entity.Viewer
	clock  *component.Clock
	ch     *component.Character
	drive  *component.Drive
	dir    *component.Director
	scene  *component.Scene
	timeln *component.Timeline
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	w := ecs.NewWorld()
	v, err := entity.NewViewer(w, "viewer.yaml", 800, 600)
	if err != nil {
		t.Fatalf("NewViewer: %v", err)
	}
	f := fixture{w: w, v: v}
	var ok bool
	if f.clock, ok = ecs.Get(w, v.Clock, component.ClockComponent.Kind()); !ok {
		t.Fatalf("missing clock")
	}
	if f.ch, ok = ecs.Get(w, v.Character, component.CharacterComponent.Kind()); !ok {
		t.Fatalf("missing character")
	}
	if f.drive, ok = ecs.Get(w, v.Character, component.DriveComponent.Kind()); !ok {
		t.Fatalf("missing drive")
	}
	if f.dir, ok = ecs.Get(w, v.Character, component.DirectorComponent.Kind()); !ok {
		t.Fatalf("missing director")
	}
	if f.scene, ok = ecs.Get(w, v.Scene, component.SceneComponent.Kind()); !ok {
		t.Fatalf("missing scene")
	}
	if f.timeln, ok = ecs.Get(w, v.Character, component.TimelineComponent.Kind()); !ok {
		t.Fatalf("missing timeline")
	}
	return f
}

func useDiskRoot(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	old := prefabs.DiskRoot
	prefabs.DiskRoot = dir
	t.Cleanup(func() { prefabs.DiskRoot = old })
	return dir
}

func TestClockSystem(t *testing.T) {
	cases := []struct {
		name      string
		clock     component.Clock
		wantTime  float64
		wantScrub float64
	}{
		{"live", component.Clock{DT: 0.5, Time: 1}, 1.5, 0},
		{"paused", component.Clock{DT: 0.5, Time: 1, Paused: true}, 1, 0},
		{"scrubbing_holds_time", component.Clock{DT: 0.5, Time: 1, Scrubbing: true, ScrubTime: 3}, 1, 3},
		{"scrub_not_negative", component.Clock{DT: 0.5, Scrubbing: true, ScrubTime: -2}, 0, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := ecs.NewWorld()
			clock := c.clock
			if err := ecs.Add(w, ecs.CreateEntity(w), component.ClockComponent.Kind(), &clock); err != nil {
				t.Fatalf("Add: %v", err)
			}
			system.NewClockSystem().Update(w)
			if clock.Time != c.wantTime || clock.ScrubTime != c.wantScrub {
				t.Fatalf("time=%v scrub=%v, want %v/%v", clock.Time, clock.ScrubTime, c.wantTime, c.wantScrub)
			}
		})
	}
}

func TestDirectorSystemDrivesCharacter(t *testing.T) {
	f := newFixture(t)
	sys := system.NewDirectorSystem()

	f.clock.Time = 0.5
	sys.Update(f.w)
	if f.drive.Velocity != (mgl64.Vec2{0, 1.4}) {
		t.Fatalf("velocity = %v", f.drive.Velocity)
	}

	f.clock.Time = 4.5
	sys.Update(f.w)
	if f.drive.Velocity != (mgl64.Vec2{}) || len(f.drive.Actions) != 1 || f.drive.Actions[0] != "wave" {
		t.Fatalf("drive = %+v", f.drive)
	}

	f.drive.Actions = nil
	f.drive.Manual = true
	f.drive.Velocity = mgl64.Vec2{1, 0}
	f.clock.Time = 0.5
	sys.Update(f.w)
	if f.drive.Velocity != (mgl64.Vec2{1, 0}) {
		t.Fatalf("manual drive should mute the script, got %v", f.drive.Velocity)
	}

	f.drive.Manual = false
	f.clock.Scrubbing = true
	sys.Update(f.w)
	if f.drive.Velocity != (mgl64.Vec2{1, 0}) {
		t.Fatalf("scrubbing should mute the script, got %v", f.drive.Velocity)
	}
}

func TestDirectorSystemStopsOnError(t *testing.T) {
	f := newFixture(t)
	rt, err := director.New("boom", []byte(`update := func(engine, state, t) { x := [1][5] + 1 }`))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	f.dir.Runtime = rt
	f.drive.Velocity = mgl64.Vec2{0, 1}

	system.NewDirectorSystem().Update(f.w)
	if !f.dir.Failed {
		t.Fatalf("director should be marked failed")
	}
	if f.drive.Velocity != (mgl64.Vec2{}) {
		t.Fatalf("failed director should stop the character, got %v", f.drive.Velocity)
	}
}

func TestLocomotionSystemWalksOverTerrain(t *testing.T) {
	f := newFixture(t)
	sys := system.NewLocomotionSystem()
	f.clock.DT = 0.1
	f.drive.Velocity = mgl64.Vec2{0, 1.4}

	for i := 0; i < 10; i++ {
		sys.Update(f.w)
	}
	base := f.ch.Controller.BaseRoot().Position
	if math.Abs(base.X()-1.4) > 1e-9 || math.Abs(base.Y()) > 1e-9 {
		t.Fatalf("base root = %v, want (1.4, 0, 0)", base)
	}
	if f.ch.Last.Weights == nil {
		t.Fatalf("last result should be recorded")
	}

	b := f.ch.Controller.BaseRoot()
	b.Position = mgl64.Vec3{3.9, 0, 0}
	f.ch.Controller.SetBaseRoot(b)
	sys.Update(f.w)
	if y := f.ch.Controller.BaseRoot().Position.Y(); math.Abs(y-0.25) > 1e-9 {
		t.Fatalf("root should climb onto the plateau, y = %v", y)
	}
}

func TestLocomotionSystemConsumesActions(t *testing.T) {
	f := newFixture(t)
	f.clock.DT = 0.05
	f.drive.Actions = []string{"nope", "wave"}

	system.NewLocomotionSystem().Update(f.w)
	if len(f.drive.Actions) != 0 {
		t.Fatalf("actions should be consumed, got %v", f.drive.Actions)
	}
	st := f.ch.Controller.State()
	if st.Action == locomotion.ActionNone || st.ActionClip == nil || st.ActionClip.Name != "wave" {
		t.Fatalf("wave should be running, got %v %v", st.Action, st.ActionClip)
	}
}

func TestLocomotionSystemScrubbing(t *testing.T) {
	f := newFixture(t)
	sys := system.NewLocomotionSystem()
	f.clock.DT = 0.1
	f.clock.Scrubbing = true
	f.clock.ScrubTime = 2

	sys.Update(f.w)
	if x := f.ch.Controller.BaseRoot().Position.X(); math.Abs(x-2.8) > 1e-9 {
		t.Fatalf("scrubbed root x = %v, want 2.8", x)
	}
	first := f.ch.Last.Signals
	sys.Update(f.w)
	if f.ch.Last.Signals != first {
		t.Fatalf("scrubbing the same time should repeat, %+v vs %+v", first, f.ch.Last.Signals)
	}
	if f.ch.Controller.State().Mode != locomotion.Absolute {
		t.Fatalf("scrubbing should pin phases")
	}

	f.clock.ScrubTime = 1000
	sys.Update(f.w)
	want := f.timeln.Timeline.Duration(f.ch.Controller.Profile())
	if f.clock.ScrubTime != want {
		t.Fatalf("scrub time = %v, want clamp to %v", f.clock.ScrubTime, want)
	}

	f.clock.Scrubbing = false
	sys.Update(f.w)
	st := f.ch.Controller.State()
	if st.Pinned || st.Mode != locomotion.RealTime {
		t.Fatalf("leaving scrub should release the preview, got pinned=%v mode=%v", st.Pinned, st.Mode)
	}
}

func TestLocomotionSystemScrubIgnoresHistory(t *testing.T) {
	type snapshot struct {
		baseY   float64
		root    mgl64.Vec3
		last    locomotion.Result
		feet    [2]mgl64.Vec3
	}
	take := func(f fixture) snapshot {
		snap := snapshot{
			baseY:   f.ch.Controller.BaseRoot().Position.Y(),
			root:    f.ch.Last.Root.Position,
			last:    f.ch.Last,
		}
		for i, name := range []string{"left_foot", "right_foot"} {
			tr, _ := f.ch.Skeleton.Resolved(name)
			snap.feet[i] = tr.Position
		}
		return snap
	}

	// x = 4.2 sits on the raised plateau.
	const at = 3.0

	f := newFixture(t)
	sys := system.NewLocomotionSystem()
	f.clock.Scrubbing = true
	f.clock.ScrubTime = at
	sys.Update(f.w)
	fresh := take(f)
	if math.Abs(fresh.baseY-0.25) > 1e-6 {
		t.Fatalf("base root y on the plateau = %v, want 0.25", fresh.baseY)
	}

	// Scrub to the low end of the course and come back.
	f.clock.ScrubTime = 10
	sys.Update(f.w)
	if y := f.ch.Controller.BaseRoot().Position.Y(); math.Abs(y+0.3) > 1e-6 {
		t.Fatalf("base root y at the end = %v, want -0.3", y)
	}
	f.clock.ScrubTime = at
	sys.Update(f.w)
	again := take(f)

	if math.Abs(again.baseY-fresh.baseY) > 1e-9 {
		t.Fatalf("base root y = %v after scrubbing back, want %v", again.baseY, fresh.baseY)
	}
	if !again.root.ApproxEqualThreshold(fresh.root, 1e-9) {
		t.Fatalf("root = %v after scrubbing back, want %v", again.root, fresh.root)
	}
	if again.last.Signals != fresh.last.Signals {
		t.Fatalf("signals = %+v after scrubbing back, want %+v", again.last.Signals, fresh.last.Signals)
	}
	for i := range fresh.feet {
		if !again.feet[i].ApproxEqualThreshold(fresh.feet[i], 1e-9) {
			t.Fatalf("foot %d = %v after scrubbing back, want %v", i, again.feet[i], fresh.feet[i])
		}
	}
}

func TestLocomotionSystemPushesTransitions(t *testing.T) {
	f := newFixture(t)
	f.clock.DT = 0.05
	f.drive.Actions = []string{"wave"}
	system.NewLocomotionSystem().Update(f.w)

	var sawAction bool
	for _, evt := range f.w.Events().Drain() {
		switch data := evt.Data.(type) {
		case ecs.FootPhaseEvent:
			if evt.Type != ecs.EventFootPhase || data.Entity != f.v.Character {
				t.Fatalf("unexpected foot event %+v", evt)
			}
			if data.From == data.To || data.To != f.ch.Last.Feet[data.Foot].Phase {
				t.Fatalf("foot event %+v does not match the last result %v", data, f.ch.Last.Feet[data.Foot].Phase)
			}
		case ecs.ActionEvent:
			if evt.Type != ecs.EventAction || data.Clip != "wave" || data.From != locomotion.ActionNone || data.To == locomotion.ActionNone {
				t.Fatalf("unexpected action event %+v", data)
			}
			sawAction = true
		default:
			t.Fatalf("unexpected event %+v", evt)
		}
	}
	if !sawAction {
		t.Fatalf("starting wave should push an action event")
	}
}

func TestOverlaySystemKeepsRecentTransitions(t *testing.T) {
	f := newFixture(t)
	overlay := system.NewOverlaySystem()

	for i := 0; i < 8; i++ {
		from, to := footik.PreContact, footik.Contact
		if i%2 == 1 {
			from, to = to, footik.Release
		}
		f.w.Events().Push(ecs.Event{
			Type: ecs.EventFootPhase,
			Data: ecs.FootPhaseEvent{Entity: f.v.Character, Foot: footik.Left, From: from, To: to},
		})
	}
	f.w.Events().Push(ecs.Event{
		Type: ecs.EventAction,
		Data: ecs.ActionEvent{Entity: f.v.Character, Clip: "kick", From: locomotion.ActionNone, To: locomotion.ActionFadingIn},
	})
	f.w.Events().Push(ecs.Event{Type: "other", Data: 3})
	overlay.Update(f.w)

	recent := overlay.Recent()
	if len(recent) != 6 {
		t.Fatalf("recent = %q, want the last 6 transitions", recent)
	}
	if latest := recent[len(recent)-1]; !strings.HasSuffix(latest, " action kick None -> FadingIn") {
		t.Fatalf("latest = %q, want the kick transition", latest)
	}
	if !strings.Contains(recent[0], "left foot") {
		t.Fatalf("oldest kept line = %q, want a foot transition", recent[0])
	}
	if f.w.Events().Drain() != nil {
		t.Fatalf("overlay should drain the queue")
	}
}

func TestReloadSystem(t *testing.T) {
	dir := useDiskRoot(t)
	f := newFixture(t)
	changes := make(chan prefabs.Change, 4)
	sys := system.NewReloadSystem(changes)

	write := func(name, body string) {
		t.Helper()
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	t.Run("foot_ik", func(t *testing.T) {
		write("foot_ik.yaml", "foot_height: 0.12\n")
		changes <- prefabs.Change{Name: "foot_ik.yaml", Kind: prefabs.SpecChanged}
		sys.Update(f.w)
		if got := f.ch.Feet.Config().FootHeight; got != 0.12 {
			t.Fatalf("foot height = %v, want 0.12", got)
		}

		write("foot_ik.yaml", "contact_threshold: 0\n")
		changes <- prefabs.Change{Name: "foot_ik.yaml", Kind: prefabs.SpecChanged}
		sys.Update(f.w)
		if got := f.ch.Feet.Config().FootHeight; got != 0.12 {
			t.Fatalf("bad config should keep the old one, foot height = %v", got)
		}
	})

	t.Run("script", func(t *testing.T) {
		write("scripts/stroll.tengo", "update := func(engine, state, t) { engine.move(0.0, 2.0) }\n")
		f.dir.Failed = true
		changes <- prefabs.Change{Name: "stroll.tengo", Kind: prefabs.ScriptChanged}
		sys.Update(f.w)
		if f.dir.Failed {
			t.Fatalf("reload should clear the failure")
		}
		cmd, err := f.dir.Runtime.Step(0)
		if err != nil {
			t.Fatalf("Step: %v", err)
		}
		if cmd.Velocity != (mgl64.Vec2{0, 2}) {
			t.Fatalf("reloaded script velocity = %v", cmd.Velocity)
		}
	})

	t.Run("viewer", func(t *testing.T) {
		src, err := prefabs.Load("viewer.yaml")
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		write("viewer.yaml", strings.Replace(string(src), "#1d2330", "#000000", 1))
		changes <- prefabs.Change{Name: "viewer.yaml", Kind: prefabs.SpecChanged}
		sys.Update(f.w)
		if f.scene.Background != (color.NRGBA{A: 255}) {
			t.Fatalf("background = %v", f.scene.Background)
		}
	})

	t.Run("broken_profile", func(t *testing.T) {
		before := f.ch.Controller.Profile()
		write("biped.yaml", "clips: []\n")
		changes <- prefabs.Change{Name: "biped.yaml", Kind: prefabs.SpecChanged}
		sys.Update(f.w)
		if f.ch.Controller.Profile() != before {
			t.Fatalf("a broken profile should keep the old one")
		}
	})

	close(changes)
	sys.Update(f.w)
}

func TestBoneSegmentsFollowResolvedJoints(t *testing.T) {
	f := newFixture(t)
	f.clock.DT = 0.05
	system.NewLocomotionSystem().Update(f.w)

	cam, ok := ecs.Get(f.w, f.v.Camera, component.CameraComponent.Kind())
	if !ok {
		t.Fatalf("missing camera")
	}
	ch := *f.ch
	ch.Bones = [][2]string{{"", "hips"}, {"hips", "left_foot"}, {"hips", "no_such_joint"}}

	segs := system.BoneSegments(*cam, &ch)
	if len(segs) != 2 {
		t.Fatalf("segments = %+v, want 2 (unknown joints skipped)", segs)
	}
	root := ch.Skeleton.Root().Position
	x0, y0 := cam.ToScreen(root.X(), root.Y())
	if segs[0].X0 != x0 || segs[0].Y0 != y0 {
		t.Fatalf("first bone starts at (%v, %v), want the root (%v, %v)", segs[0].X0, segs[0].Y0, x0, y0)
	}
	foot, _ := ch.Skeleton.Resolved("left_foot")
	x1, y1 := cam.ToScreen(foot.Position.X(), foot.Position.Y())
	if segs[1].X1 != x1 || segs[1].Y1 != y1 {
		t.Fatalf("foot bone ends at (%v, %v), want (%v, %v)", segs[1].X1, segs[1].Y1, x1, y1)
	}

	if system.BoneSegments(*cam, nil) != nil {
		t.Fatalf("nil character should have no bones")
	}
}

func TestDescribeCharacter(t *testing.T) {
	f := newFixture(t)
	f.clock.DT = 0.1
	f.drive.Manual = true
	f.drive.Velocity = mgl64.Vec2{0, 1.4}
	system.NewLocomotionSystem().Update(f.w)

	text := system.DescribeCharacter(f.ch, f.drive)
	for _, want := range []string{"[manual]", "walk_forward", "feet L="} {
		if !strings.Contains(text, want) {
			t.Fatalf("description missing %q:\n%s", want, text)
		}
	}
}
