package motion

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/stride/common"
	"github.com/milk9111/stride/rig"
)

var (
	ErrNilClip       = errors.New("motion: clip is nil")
	ErrZeroDuration  = errors.New("motion: clip duration must be positive")
	ErrNoClips       = errors.New("motion: profile has no clips")
	ErrDuplicateIdle = errors.New("motion: more than one clip at the origin")
	ErrDuplicateName = errors.New("motion: duplicate name")
)

// MotionClip is an authored, immutable motion sample plus its baked curves.
// Point is the clip's planar reference velocity; the idle clip sits at the origin.
type MotionClip struct {
	Name      string
	Duration  float64
	Point     mgl64.Vec2
	Tracks    []Track
	LeftFoot  Curve
	RightFoot Curve
	HipOffset Curve
}

func (c *MotionClip) Validate() error {
	if c == nil {
		return ErrNilClip
	}
	if !(c.Duration > 0) {
		return fmt.Errorf("%w: %q has %v", ErrZeroDuration, c.Name, c.Duration)
	}
	return nil
}

// IsIdle reports whether the clip's reference point is at the origin.
func (c *MotionClip) IsIdle() bool {
	return c != nil && common.NearZero(c.Point.Len())
}

// Track returns the track driving joint, if any.
func (c *MotionClip) Track(joint string) (Track, bool) {
	if c == nil {
		return Track{}, false
	}
	for _, tr := range c.Tracks {
		if tr.Joint == joint {
			return tr, true
		}
	}
	return Track{}, false
}

// SamplePose writes every track into pose at local time t and marks those joints driven.
func (c *MotionClip) SamplePose(t float64, pose *rig.Pose) {
	if c == nil || pose == nil {
		return
	}
	for _, tr := range c.Tracks {
		i := pose.Index(tr.Joint)
		if i < 0 {
			continue
		}
		pose.Joints[i] = tr.Sample(t)
		pose.Driven[i] = true
	}
}

// Signals are the three curve values driving foot placement.
type Signals struct {
	LeftFoot  float64
	RightFoot float64
	HipOffset float64
}

func (c *MotionClip) Signals(t float64) Signals {
	if c == nil {
		return Signals{}
	}
	return Signals{
		LeftFoot:  c.LeftFoot.Evaluate(t),
		RightFoot: c.RightFoot.Evaluate(t),
		HipOffset: c.HipOffset.Evaluate(t),
	}
}

// ActionClip is a named overlay clip. FadeIn and FadeOut are fractions of
// the clip duration.
type ActionClip struct {
	Name    string
	Clip    *MotionClip
	FadeIn  float64
	FadeOut float64
}

// FadeSeconds converts the fade fractions into seconds.
func (a ActionClip) FadeSeconds() (fadeIn, fadeOut float64) {
	if a.Clip == nil {
		return 0, 0
	}
	return common.Clamp01(a.FadeIn) * a.Clip.Duration, common.Clamp01(a.FadeOut) * a.Clip.Duration
}
