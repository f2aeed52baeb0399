package timeline

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/stride/locomotion"
	"github.com/milk9111/stride/motion"
	"github.com/milk9111/stride/rig"
)

var ErrUnknownAction = errors.New("timeline: unknown action")

// Target is the part of a locomotion controller a timeline drives.
type Target interface {
	Profile() *motion.LocomotionProfile
	SetVelocity(v mgl64.Vec2)
	SetAbsolutePhase(t float64)
	PreviewAction(clip *motion.MotionClip, localTime, weight float64)
	BaseRoot() rig.Transform
	SetBaseRoot(t rig.Transform)
	Evaluate(dt float64) locomotion.Result
}

// ActionSpan plays a named profile action starting at Start seconds.
type ActionSpan struct {
	Action string
	Start  float64
}

// Timeline describes a whole performance as a pure function of time, so any
// instant can be evaluated directly.
type Timeline struct {
	Path   Path
	Mapper Mapper
	Spans  []ActionSpan
	// Origin places the path's (0,0) on the world X/Z plane; the root keeps
	// its own height. Forward maps to world +X and lateral to world +Z.
	Origin mgl64.Vec3
}

// Validate checks that every span names an action of profile.
func (tl *Timeline) Validate(profile *motion.LocomotionProfile) error {
	if tl == nil {
		return nil
	}
	for _, s := range tl.Spans {
		if _, ok := profile.Action(s.Action); !ok {
			return fmt.Errorf("%w: %q at %v", ErrUnknownAction, s.Action, s.Start)
		}
	}
	return nil
}

// Duration is the time by which the path is walked and every span ended.
func (tl *Timeline) Duration(profile *motion.LocomotionProfile) float64 {
	if tl == nil {
		return 0
	}
	end := tl.Path.Duration()
	for _, s := range tl.Spans {
		a, ok := profile.Action(s.Action)
		if !ok || a.Clip == nil {
			continue
		}
		end = max(end, s.Start+a.Clip.Duration)
	}
	return end
}

// ActionAt resolves the span active at t: the latest-starting one whose clip
// is still running. weight is the fade envelope at that instant.
func (tl *Timeline) ActionAt(profile *motion.LocomotionProfile, t float64) (clip *motion.MotionClip, local, weight float64, ok bool) {
	if tl == nil {
		return nil, 0, 0, false
	}
	best := -1
	var bestAction motion.ActionClip
	for i, s := range tl.Spans {
		if s.Start > t {
			continue
		}
		a, found := profile.Action(s.Action)
		if !found || a.Clip == nil || t-s.Start >= a.Clip.Duration {
			continue
		}
		if best < 0 || s.Start >= tl.Spans[best].Start {
			best = i
			bestAction = a
		}
	}
	if best < 0 {
		return nil, 0, 0, false
	}
	local = t - tl.Spans[best].Start
	fadeIn, fadeOut := bestAction.FadeSeconds()
	return bestAction.Clip, local, FadeEnvelope(local, bestAction.Clip.Duration, fadeIn, fadeOut), true
}

// Apply puts target into the state the timeline describes at t and evaluates
// it without advancing time. Calling Apply twice with the same t yields the
// same result regardless of what was applied in between.
func (tl *Timeline) Apply(target Target, t float64) (locomotion.Result, Sample) {
	if tl == nil || target == nil {
		return locomotion.Result{}, Sample{}
	}
	s := tl.Path.Sample(t)
	mapper := tl.Mapper
	if mapper == nil {
		mapper = ScrubMapper{Rate: 1}
	}

	base := target.BaseRoot()
	base.Position = mgl64.Vec3{
		tl.Origin.X() + s.Position.Y(),
		base.Position.Y(),
		tl.Origin.Z() + s.Position.X(),
	}
	target.SetBaseRoot(base)

	target.SetVelocity(s.Velocity)
	target.SetAbsolutePhase(mapper.Time(progressFor(mapper, t, s)))

	if clip, local, weight, ok := tl.ActionAt(target.Profile(), t); ok {
		target.PreviewAction(clip, local, weight)
	} else {
		target.PreviewAction(nil, 0, 0)
	}
	return target.Evaluate(0), s
}
