package timeline

import "github.com/milk9111/stride/common"

// Mapper turns timeline progress into the absolute time fed to base clip
// phases.
type Mapper interface {
	Time(progress float64) float64
}

// ScrubMapper maps timeline seconds directly: Offset + Rate*t.
type ScrubMapper struct {
	Offset float64
	Rate   float64
}

func (m ScrubMapper) Time(progress float64) float64 {
	rate := m.Rate
	if rate == 0 {
		rate = 1
	}
	return m.Offset + rate*progress
}

// DistanceMapper maps distance travelled along a path to phase time, so
// strides stay locked to ground covered. Speed is the distance the
// character covers per second of clip time.
type DistanceMapper struct {
	Speed  float64
	Offset float64
}

func (m DistanceMapper) Time(progress float64) float64 {
	if common.NearZero(m.Speed) {
		return m.Offset
	}
	return m.Offset + progress/m.Speed
}

// progressFor picks the input a mapper expects.
func progressFor(m Mapper, t float64, s Sample) float64 {
	switch m.(type) {
	case DistanceMapper, *DistanceMapper:
		return s.Distance
	default:
		return t
	}
}

// FadeEnvelope is the closed-form action weight at local time for a clip of
// duration with fades in seconds. It agrees with the stepped fade state
// machine whenever the fades do not overlap.
func FadeEnvelope(local, duration, fadeIn, fadeOut float64) float64 {
	if !(duration > 0) || local < 0 || local >= duration {
		return 0
	}
	w := 1.0
	if fadeIn > 0 {
		w = min(w, local/fadeIn)
	}
	if fadeOut > 0 {
		w = min(w, (duration-local)/fadeOut)
	}
	return common.Clamp01(w)
}
