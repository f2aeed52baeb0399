package locomotion

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/stride/motion"
)

var testJoints = []string{"hips", "left_foot", "right_foot"}

// rampCurve samples f over [0, duration] at rate.
func rampCurve(duration, rate float64, f func(t float64) float64) motion.Curve {
	n := int(duration*rate) + 1
	c := motion.Curve{SampleRate: rate, Samples: make([]float64, n)}
	for i := range c.Samples {
		c.Samples[i] = f(float64(i) / rate)
	}
	return c
}

func footTrack(joint string, x float64, lift func(t float64) float64, duration, rate float64) motion.Track {
	n := int(duration*rate) + 1
	tr := motion.Track{Joint: joint, SampleRate: rate, Positions: make([]mgl64.Vec3, n), Rotations: []mgl64.Quat{mgl64.QuatIdent()}}
	for i := range tr.Positions {
		tr.Positions[i] = mgl64.Vec3{x, lift(float64(i) / rate), 0}
	}
	return tr
}

func newIdleClip() *motion.MotionClip {
	flat := func(float64) float64 { return 0.08 }
	return &motion.MotionClip{
		Name:     "idle",
		Duration: 2,
		Tracks: []motion.Track{
			{Joint: "hips", Positions: []mgl64.Vec3{{0, 0.9, 0}}, Rotations: []mgl64.Quat{mgl64.QuatIdent()}},
			footTrack("left_foot", -0.1, flat, 2, 30),
			footTrack("right_foot", 0.1, flat, 2, 30),
		},
		LeftFoot:  motion.ConstantCurve(1),
		RightFoot: motion.ConstantCurve(1),
		HipOffset: motion.ConstantCurve(0),
	}
}

func newWalkClip() *motion.MotionClip {
	const d = 1.0
	leftContact := func(t float64) float64 {
		if t < 0.5 {
			return 1
		}
		return 0
	}
	rightContact := func(t float64) float64 { return 1 - leftContact(t) }
	lift := func(contact func(float64) float64) func(float64) float64 {
		return func(t float64) float64 { return 0.08 + 0.15*(1-contact(t)) }
	}
	return &motion.MotionClip{
		Name:     "walk",
		Duration: d,
		Point:    mgl64.Vec2{0, 1.5},
		Tracks: []motion.Track{
			{Joint: "hips", Positions: []mgl64.Vec3{{0, 0.95, 0}}, Rotations: []mgl64.Quat{mgl64.QuatIdent()}},
			footTrack("left_foot", -0.1, lift(leftContact), d, 30),
			footTrack("right_foot", 0.1, lift(rightContact), d, 30),
		},
		LeftFoot:  rampCurve(d, 30, leftContact),
		RightFoot: rampCurve(d, 30, rightContact),
		HipOffset: rampCurve(d, 30, func(t float64) float64 { return 0.02 * t }),
	}
}

func newAttackClip(duration float64) *motion.MotionClip {
	return &motion.MotionClip{
		Name:     "attack",
		Duration: duration,
		Tracks: []motion.Track{
			{Joint: "hips", Positions: []mgl64.Vec3{{0, 0.8, 0.2}}, Rotations: []mgl64.Quat{mgl64.QuatIdent()}},
		},
		LeftFoot:  motion.ConstantCurve(1),
		RightFoot: motion.ConstantCurve(0),
		HipOffset: motion.ConstantCurve(0.1),
	}
}

func newTestProfile() *motion.LocomotionProfile {
	return &motion.LocomotionProfile{
		Name:   "test",
		Joints: testJoints,
		Clips:  []*motion.MotionClip{newIdleClip(), newWalkClip()},
		Actions: []motion.ActionClip{
			{Name: "attack", Clip: newAttackClip(1), FadeIn: 0.1, FadeOut: 0.1},
		},
	}
}
