package locomotion

import (
	"github.com/milk9111/stride/common"
	"github.com/milk9111/stride/motion"
)

// EvaluateSignals blends the foot-contact and hip-offset curves the same way
// the pose is blended: a weighted sum over base clips at their own phases,
// then a lerp toward the action clip's curves by the action weight.
func EvaluateSignals(clips []*motion.MotionClip, weights, phases []float64, action *ActionLayer) motion.Signals {
	var out motion.Signals
	for i, clip := range clips {
		if i >= len(weights) || i >= len(phases) {
			break
		}
		w := weights[i]
		if w <= common.Epsilon || clip == nil {
			continue
		}
		s := clip.Signals(common.Wrap(phases[i], clip.Duration))
		out.LeftFoot += w * s.LeftFoot
		out.RightFoot += w * s.RightFoot
		out.HipOffset += w * s.HipOffset
	}

	if !action.Active() {
		return out
	}
	aw := action.Weight()
	s := action.Clip().Signals(action.LocalTime())
	out.LeftFoot = common.Lerp(out.LeftFoot, s.LeftFoot, aw)
	out.RightFoot = common.Lerp(out.RightFoot, s.RightFoot, aw)
	out.HipOffset = common.Lerp(out.HipOffset, s.HipOffset, aw)
	return out
}
