package locomotion

import (
	"errors"
	"fmt"
	"log"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/milk9111/stride/blend"
	"github.com/milk9111/stride/footik"
	"github.com/milk9111/stride/motion"
	"github.com/milk9111/stride/rig"
)

var ErrNilRig = errors.New("locomotion: rig is nil")

// BlendState is a snapshot of one character's mutable blend data.
type BlendState struct {
	Weights      []float64
	Phases       []float64
	Mode         PhaseMode
	Action       ActionState
	ActionWeight float64
	ActionTime   float64
	ActionClip   *motion.MotionClip
	Pinned       bool
}

// Result is everything one evaluation produced.
type Result struct {
	Weights []float64
	Signals motion.Signals
	Pose    rig.Pose
	Feet    [2]footik.FootState
	Root    rig.Transform
}

// Controller drives one character: velocity in, resolved rig pose and foot
// correction out. It is not safe for concurrent use.
type Controller struct {
	id      string
	profile *motion.LocomotionProfile
	rig     rig.Rig
	feet    *footik.Reconciler

	calc    *blend.Calculator
	graph   *Graph
	phases  *PhaseTracker
	action  ActionLayer
	weights []float64
	base    rig.Transform
}

// NewController validates profile and builds all per-instance state. feet may
// be nil to disable foot reconciliation.
func NewController(profile *motion.LocomotionProfile, r rig.Rig, feet *footik.Reconciler) (*Controller, error) {
	if r == nil {
		return nil, ErrNilRig
	}
	c := &Controller{
		id:   uuid.NewString(),
		rig:  r,
		feet: feet,
		base: r.Root(),
	}
	if err := c.SetProfile(profile); err != nil {
		return nil, err
	}
	return c, nil
}

// SetProfile swaps the profile and rebuilds blend state from scratch. The
// action layer is cleared.
func (c *Controller) SetProfile(profile *motion.LocomotionProfile) error {
	if c == nil {
		return nil
	}
	if err := profile.Validate(); err != nil {
		return fmt.Errorf("locomotion: %w", err)
	}
	c.profile = profile
	c.calc = blend.NewCalculator(profile.Points())
	c.graph = NewGraph(profile.Joints, profile.Clips)
	c.phases = NewPhaseTracker(profile.Clips)
	c.action = ActionLayer{}
	c.weights = c.calc.Weights(mgl64.Vec2{})
	for _, j := range profile.Joints {
		if _, ok := c.rig.Joint(j); !ok {
			log.Printf("Controller[%s]: rig is missing joint %q from profile %q", c.id, j, profile.Name)
		}
	}
	return nil
}

func (c *Controller) ID() string {
	if c == nil {
		return ""
	}
	return c.id
}

func (c *Controller) Profile() *motion.LocomotionProfile {
	if c == nil {
		return nil
	}
	return c.profile
}

// SetBaseRoot sets the root transform the reconciler corrects from. Each
// evaluation starts from this root, so corrections never accumulate.
func (c *Controller) SetBaseRoot(t rig.Transform) {
	if c == nil {
		return
	}
	c.base = t
}

func (c *Controller) BaseRoot() rig.Transform {
	if c == nil {
		return rig.Identity()
	}
	return c.base
}

// SetVelocity recomputes blend weights without touching time.
func (c *Controller) SetVelocity(v mgl64.Vec2) {
	if c == nil {
		return
	}
	c.weights = c.calc.Weights(v)
}

// UpdateLocomotion is one real-time step: weights from v, then Evaluate(dt).
func (c *Controller) UpdateLocomotion(v mgl64.Vec2, dt float64) Result {
	if c == nil {
		return Result{}
	}
	c.SetVelocity(v)
	if c.phases.Mode() != RealTime {
		c.phases.Advance(0)
	}
	return c.Evaluate(dt)
}

// SetAbsolutePhase pins every base clip phase to t mod duration. Fade state
// is left alone.
func (c *Controller) SetAbsolutePhase(t float64) {
	if c == nil {
		return
	}
	c.phases.SetAbsolute(t)
}

// PerformClip starts clip on the action layer with fades in seconds.
func (c *Controller) PerformClip(clip *motion.MotionClip, fadeIn, fadeOut float64) bool {
	if c == nil {
		return false
	}
	if clip == nil {
		log.Printf("Controller[%s]: performClip with nil clip ignored", c.id)
		return false
	}
	return c.action.Perform(clip, fadeIn, fadeOut)
}

// PerformAction looks up a named action on the profile and performs it.
func (c *Controller) PerformAction(name string) bool {
	if c == nil {
		return false
	}
	a, ok := c.profile.Action(name)
	if !ok {
		log.Printf("Controller[%s]: performAction unknown name %q", c.id, name)
		return false
	}
	fadeIn, fadeOut := a.FadeSeconds()
	return c.PerformClip(a.Clip, fadeIn, fadeOut)
}

// PreviewAction hands action timing to the caller: the layer shows clip at
// localTime with weight until the next Perform or ReleasePreview.
func (c *Controller) PreviewAction(clip *motion.MotionClip, localTime, weight float64) {
	if c == nil {
		return
	}
	c.action.Pin(clip, localTime, weight)
}

func (c *Controller) ReleasePreview() {
	if c == nil {
		return
	}
	c.action.Unpin()
}

// Evaluate resolves one pose. In RealTime mode base phases advance by dt; in
// Absolute mode they stay where SetAbsolutePhase put them. The action layer
// advances by dt unless pinned.
func (c *Controller) Evaluate(dt float64) Result {
	if c == nil {
		return Result{}
	}
	if dt < 0 {
		dt = 0
	}
	if c.phases.Mode() == RealTime {
		c.phases.Advance(dt)
	}
	c.action.Advance(dt)

	phases := c.phases.Phases()
	pose := c.graph.Compose(c.weights, phases, &c.action)
	signals := EvaluateSignals(c.profile.Clips, c.weights, phases, &c.action)

	c.rig.SetRoot(c.base)
	for i, name := range pose.Names {
		if pose.Driven[i] {
			c.rig.SetJointLocal(name, pose.Joints[i])
		}
	}

	res := Result{
		Weights: append([]float64(nil), c.weights...),
		Signals: signals,
		Pose:    pose,
		Root:    c.base,
	}
	if c.feet != nil {
		fr := c.feet.Reconcile(c.rig, signals)
		res.Feet = fr.Feet
		res.Root = fr.Root
	}
	return res
}

// State returns a copy of the blend state.
func (c *Controller) State() BlendState {
	if c == nil {
		return BlendState{}
	}
	return BlendState{
		Weights:      append([]float64(nil), c.weights...),
		Phases:       c.phases.Phases(),
		Mode:         c.phases.Mode(),
		Action:       c.action.State(),
		ActionWeight: c.action.Weight(),
		ActionTime:   c.action.LocalTime(),
		ActionClip:   c.action.Clip(),
		Pinned:       c.action.Pinned(),
	}
}
