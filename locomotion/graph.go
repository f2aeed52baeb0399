package locomotion

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/stride/common"
	"github.com/milk9111/stride/motion"
	"github.com/milk9111/stride/rig"
)

// Graph is the fixed two-stage blend: a base mixer summing N clips by weight,
// then a layer mixer overriding the joints the action clip drives.
type Graph struct {
	joints []string
	clips  []*motion.MotionClip

	sample rig.Pose
	acc    []jointAccumulator
}

type jointAccumulator struct {
	pos    mgl64.Vec3
	rot    mgl64.Quat
	weight float64
	first  bool
}

func NewGraph(joints []string, clips []*motion.MotionClip) *Graph {
	return &Graph{
		joints: append([]string(nil), joints...),
		clips:  clips,
		sample: rig.NewPose(joints),
		acc:    make([]jointAccumulator, len(joints)),
	}
}

func (g *Graph) Joints() []string {
	if g == nil {
		return nil
	}
	return g.joints
}

// Base mixes the base clips at their phases. weights and phases are parallel
// to the graph's clips.
func (g *Graph) Base(weights, phases []float64) rig.Pose {
	if g == nil {
		return rig.Pose{}
	}
	out := rig.NewPose(g.joints)
	for i := range g.acc {
		g.acc[i] = jointAccumulator{first: true}
	}

	for ci, clip := range g.clips {
		if ci >= len(weights) || ci >= len(phases) {
			break
		}
		w := weights[ci]
		if w <= common.Epsilon || clip == nil {
			continue
		}
		g.resetSample()
		clip.SamplePose(common.Wrap(phases[ci], clip.Duration), &g.sample)
		for j := range g.joints {
			if !g.sample.Driven[j] {
				continue
			}
			g.acc[j].add(g.sample.Joints[j], w)
		}
	}

	for j := range g.joints {
		a := g.acc[j]
		if a.weight <= common.Epsilon {
			continue
		}
		out.Joints[j] = rig.Transform{
			Position: a.pos.Mul(1 / a.weight),
			Rotation: a.rot.Normalize(),
		}
		out.Driven[j] = true
	}
	return out
}

func (a *jointAccumulator) add(t rig.Transform, w float64) {
	q := t.Rotation
	if a.first {
		a.rot = q.Scale(w)
		a.first = false
	} else {
		if a.rot.Dot(q) < 0 {
			q = q.Scale(-1)
		}
		a.rot = a.rot.Add(q.Scale(w))
	}
	a.pos = a.pos.Add(t.Position.Mul(w))
	a.weight += w
}

// Layer overrides base with the action clip on every joint the action
// drives, by the action's weight. Joints the action leaves alone keep the
// base transform.
func (g *Graph) Layer(base rig.Pose, action *ActionLayer) rig.Pose {
	out := base.Clone()
	if g == nil || !action.Active() {
		return out
	}
	clip := action.Clip()
	aw := action.Weight()

	g.resetSample()
	clip.SamplePose(action.LocalTime(), &g.sample)
	for j := range g.joints {
		if !g.sample.Driven[j] {
			continue
		}
		out.Joints[j] = rig.Lerp(out.Joints[j], g.sample.Joints[j], aw)
		out.Driven[j] = true
	}
	return out
}

// Compose runs both stages.
func (g *Graph) Compose(weights, phases []float64, action *ActionLayer) rig.Pose {
	return g.Layer(g.Base(weights, phases), action)
}

func (g *Graph) resetSample() {
	for i := range g.sample.Joints {
		g.sample.Joints[i] = rig.Identity()
		g.sample.Driven[i] = false
	}
}
