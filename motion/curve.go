package motion

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/stride/common"
	"github.com/milk9111/stride/rig"
)

// Curve is a scalar signal baked at a fixed sample rate. Sample i sits at
// time i/SampleRate. Evaluation clamps to the first/last sample.
type Curve struct {
	SampleRate float64
	Samples    []float64
}

// ConstantCurve returns a single-sample curve.
func ConstantCurve(v float64) Curve {
	return Curve{SampleRate: 1, Samples: []float64{v}}
}

func (c Curve) Evaluate(t float64) float64 {
	n := len(c.Samples)
	if n == 0 {
		return 0
	}
	if n == 1 || c.SampleRate <= 0 {
		return c.Samples[0]
	}
	i0, i1, frac := sampleSpan(t, c.SampleRate, n)
	return common.Lerp(c.Samples[i0], c.Samples[i1], frac)
}

// Track holds root-local samples for one joint.
type Track struct {
	Joint      string
	SampleRate float64
	Positions  []mgl64.Vec3
	Rotations  []mgl64.Quat
}

func (tr Track) Sample(t float64) rig.Transform {
	out := rig.Identity()
	if n := len(tr.Positions); n == 1 || (n > 1 && tr.SampleRate <= 0) {
		out.Position = tr.Positions[0]
	} else if n > 1 {
		i0, i1, frac := sampleSpan(t, tr.SampleRate, n)
		a, b := tr.Positions[i0], tr.Positions[i1]
		out.Position = a.Add(b.Sub(a).Mul(frac))
	}
	if n := len(tr.Rotations); n == 1 || (n > 1 && tr.SampleRate <= 0) {
		out.Rotation = tr.Rotations[0]
	} else if n > 1 {
		i0, i1, frac := sampleSpan(t, tr.SampleRate, n)
		out.Rotation = rig.Lerp(rig.Transform{Rotation: tr.Rotations[i0]}, rig.Transform{Rotation: tr.Rotations[i1]}, frac).Rotation
	}
	return out
}

func sampleSpan(t, rate float64, n int) (int, int, float64) {
	x := t * rate
	if math.IsNaN(x) || x <= 0 {
		return 0, 0, 0
	}
	last := float64(n - 1)
	if x >= last {
		return n - 1, n - 1, 0
	}
	i0 := int(math.Floor(x))
	return i0, i0 + 1, x - float64(i0)
}
