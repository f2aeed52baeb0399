package locomotion

import (
	"log"

	"github.com/milk9111/stride/common"
	"github.com/milk9111/stride/motion"
)

// ActionState is the overlay layer's fade state.
type ActionState int

const (
	ActionNone ActionState = iota
	ActionFadingIn
	ActionPlaying
	ActionFadingOut
)

func (s ActionState) String() string {
	switch s {
	case ActionNone:
		return "None"
	case ActionFadingIn:
		return "FadingIn"
	case ActionPlaying:
		return "Playing"
	case ActionFadingOut:
		return "FadingOut"
	default:
		return "Unknown"
	}
}

// timeEpsilon absorbs accumulated dt rounding at fade boundaries.
const timeEpsilon = 1e-9

// ActionLayer runs the None -> FadingIn -> Playing -> FadingOut -> None cycle
// for a single overlay clip. Weight is always within [0,1].
type ActionLayer struct {
	clip    *motion.MotionClip
	state   ActionState
	weight  float64
	elapsed float64
	fadeIn  float64
	fadeOut float64
	pinned  bool
}

// Perform starts clip, replacing whatever is active. Fades are in seconds.
// A nil clip is ignored; a clip without positive duration is logged and ignored.
func (a *ActionLayer) Perform(clip *motion.MotionClip, fadeIn, fadeOut float64) bool {
	if a == nil || clip == nil {
		return false
	}
	if err := clip.Validate(); err != nil {
		log.Printf("ActionLayer: rejecting clip: %v", err)
		return false
	}
	if a.state == ActionNone {
		a.weight = 0
	}
	a.clip = clip
	a.state = ActionFadingIn
	a.elapsed = 0
	a.fadeIn = clampFade(fadeIn, clip.Duration)
	a.fadeOut = clampFade(fadeOut, clip.Duration)
	a.pinned = false
	return true
}

func clampFade(v, duration float64) float64 {
	if !(v > 0) {
		return 0
	}
	if v > duration {
		return duration
	}
	return v
}

// Advance steps the fade state machine by dt. dt == 0 re-checks transitions
// without moving time. Pinned layers do not advance.
func (a *ActionLayer) Advance(dt float64) {
	if a == nil || a.pinned || a.state == ActionNone || a.clip == nil {
		return
	}
	if dt < 0 {
		dt = 0
	}
	a.elapsed += dt
	duration := a.clip.Duration
	outStart := duration - a.fadeOut

	switch a.state {
	case ActionFadingIn:
		if a.fadeIn == 0 {
			a.weight = 1
		} else {
			a.weight += dt / a.fadeIn
		}
		if a.weight >= 1-timeEpsilon {
			a.weight = 1
			a.state = ActionPlaying
		}
		if a.fadeOut > 0 && a.elapsed >= outStart-timeEpsilon {
			a.beginFadeOut(outStart)
		} else if a.fadeOut == 0 && a.elapsed >= duration-timeEpsilon {
			a.stop()
		}
	case ActionPlaying:
		if a.fadeOut > 0 {
			if a.elapsed >= outStart-timeEpsilon {
				a.beginFadeOut(outStart)
			}
		} else if a.elapsed >= duration-timeEpsilon {
			a.stop()
		}
	case ActionFadingOut:
		a.weight -= dt / a.fadeOut
		if a.weight <= timeEpsilon || a.elapsed >= duration-timeEpsilon {
			a.stop()
		}
	}
	a.weight = common.Clamp01(a.weight)
}

// beginFadeOut enters FadingOut, consuming any overshoot past outStart so a
// large dt lands on the same weight as many small ones.
func (a *ActionLayer) beginFadeOut(outStart float64) {
	over := a.elapsed - outStart
	if over < timeEpsilon {
		over = 0
	}
	a.state = ActionFadingOut
	a.weight = common.Clamp01(a.weight - over/a.fadeOut)
	if a.weight <= timeEpsilon || a.elapsed >= a.clip.Duration-timeEpsilon {
		a.stop()
	}
}

func (a *ActionLayer) stop() {
	a.state = ActionNone
	a.weight = 0
	a.clip = nil
	a.elapsed = 0
}

// Pin fixes the layer's clip, local time and weight; Advance is suspended
// until the next Perform or Unpin. weight <= 0 clears the layer.
func (a *ActionLayer) Pin(clip *motion.MotionClip, localTime, weight float64) {
	if a == nil {
		return
	}
	weight = common.Clamp01(weight)
	if clip == nil || weight <= 0 {
		a.stop()
		a.pinned = clip != nil
		return
	}
	if err := clip.Validate(); err != nil {
		log.Printf("ActionLayer: rejecting preview clip: %v", err)
		return
	}
	a.clip = clip
	a.elapsed = clampTime(localTime, clip.Duration)
	a.weight = weight
	a.state = ActionPlaying
	a.fadeIn, a.fadeOut = 0, 0
	a.pinned = true
}

func (a *ActionLayer) Unpin() {
	if a == nil {
		return
	}
	a.pinned = false
}

func clampTime(t, duration float64) float64 {
	if t < 0 {
		return 0
	}
	if t > duration {
		return duration
	}
	return t
}

func (a *ActionLayer) State() ActionState {
	if a == nil {
		return ActionNone
	}
	return a.state
}

func (a *ActionLayer) Weight() float64 {
	if a == nil {
		return 0
	}
	return a.weight
}

// Elapsed is the action's clip-local time.
func (a *ActionLayer) Elapsed() float64 {
	if a == nil {
		return 0
	}
	return a.elapsed
}

// LocalTime is Elapsed clamped to the clip; actions do not loop.
func (a *ActionLayer) LocalTime() float64 {
	if a == nil || a.clip == nil {
		return 0
	}
	return clampTime(a.elapsed, a.clip.Duration)
}

func (a *ActionLayer) Clip() *motion.MotionClip {
	if a == nil {
		return nil
	}
	return a.clip
}

func (a *ActionLayer) Pinned() bool {
	return a != nil && a.pinned
}

// Active reports whether the layer contributes to the pose.
func (a *ActionLayer) Active() bool {
	return a != nil && a.clip != nil && a.weight > common.Epsilon
}
