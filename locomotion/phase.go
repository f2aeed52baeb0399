package locomotion

import (
	"github.com/milk9111/stride/common"
	"github.com/milk9111/stride/motion"
)

// PhaseMode selects how base clip phases move between evaluations.
type PhaseMode int

const (
	// RealTime advances every phase by the evaluation dt.
	RealTime PhaseMode = iota
	// Absolute pins every phase to an externally supplied time.
	Absolute
)

func (m PhaseMode) String() string {
	switch m {
	case RealTime:
		return "realtime"
	case Absolute:
		return "absolute"
	default:
		return "unknown"
	}
}

// PhaseTracker owns one local phase per base clip, each wrapped into
// [0, duration).
type PhaseTracker struct {
	durations []float64
	phases    []float64
	mode      PhaseMode
	absolute  float64
}

func NewPhaseTracker(clips []*motion.MotionClip) *PhaseTracker {
	pt := &PhaseTracker{
		durations: make([]float64, len(clips)),
		phases:    make([]float64, len(clips)),
	}
	for i, c := range clips {
		if c != nil {
			pt.durations[i] = c.Duration
		}
	}
	return pt
}

// Advance moves every phase forward by dt and switches to RealTime.
func (pt *PhaseTracker) Advance(dt float64) {
	if pt == nil {
		return
	}
	pt.mode = RealTime
	for i, d := range pt.durations {
		pt.phases[i] = common.Wrap(pt.phases[i]+dt, d)
	}
}

// SetAbsolute sets every phase to t mod duration. Repeated calls with the
// same t leave identical state regardless of what was called before.
func (pt *PhaseTracker) SetAbsolute(t float64) {
	if pt == nil {
		return
	}
	pt.mode = Absolute
	pt.absolute = t
	for i, d := range pt.durations {
		pt.phases[i] = common.Wrap(t, d)
	}
}

func (pt *PhaseTracker) Mode() PhaseMode {
	if pt == nil {
		return RealTime
	}
	return pt.mode
}

// AbsoluteTime is the last time passed to SetAbsolute.
func (pt *PhaseTracker) AbsoluteTime() float64 {
	if pt == nil {
		return 0
	}
	return pt.absolute
}

func (pt *PhaseTracker) Phase(i int) float64 {
	if pt == nil || i < 0 || i >= len(pt.phases) {
		return 0
	}
	return pt.phases[i]
}

// Phases returns a copy of all phases.
func (pt *PhaseTracker) Phases() []float64 {
	if pt == nil {
		return nil
	}
	return append([]float64(nil), pt.phases...)
}
